package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	quizfarmv1 "github.com/hobbyfarm/quizfarm/pkg/apis/quizfarm.io/v1"
	"github.com/hobbyfarm/quizfarm/pkg/rbac"
	"github.com/hobbyfarm/quizfarm/pkg/session"
	"github.com/hobbyfarm/quizfarm/pkg/util"
)

const (
	DefaultTokenExpiration = 24 * time.Hour

	LoginPath     = "/login"
	DashboardPath = "/dashboard"

	claimUsername = "username"
)

var ErrUnauthenticated = errors.New("authentication failed")

type contextKey struct{}

// UserGetter looks up accounts by the name carried in a token.
type UserGetter interface {
	GetUserByUsername(ctx context.Context, username string) (*quizfarmv1.User, error)
}

type Authenticator struct {
	users      UserGetter
	sessions   *session.Manager
	secret     string
	expiration time.Duration
}

func NewAuthenticator(users UserGetter, sessions *session.Manager, secret string) *Authenticator {
	return &Authenticator{
		users:      users,
		sessions:   sessions,
		secret:     secret,
		expiration: DefaultTokenExpiration,
	}
}

// signingKey binds a token to both the server secret and the user's current password hash,
// so changing either invalidates outstanding tokens.
func (a *Authenticator) signingKey(user *quizfarmv1.User) []byte {
	return []byte(a.secret + user.Password)
}

func (a *Authenticator) GenerateToken(user *quizfarmv1.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		claimUsername: user.Username,
		"nbf":         now.Unix(),
		"exp":         now.Add(a.expiration).Unix(),
	})

	tokenString, err := token.SignedString(a.signingKey(user))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}

	return tokenString, nil
}

func (a *Authenticator) Validate(ctx context.Context, tokenString string) (*quizfarmv1.User, error) {
	var user *quizfarmv1.User
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return nil, fmt.Errorf("unexpected claims")
		}
		var err error
		user, err = a.users.GetUserByUsername(ctx, fmt.Sprint(claims[claimUsername]))
		if err != nil {
			return nil, fmt.Errorf("could not find user that matched token %s", fmt.Sprint(claims[claimUsername]))
		}
		return a.signingKey(user), nil
	})
	if err != nil {
		glog.V(4).Infof("error while validating token: %v", err)
		return nil, ErrUnauthenticated
	}

	if !token.Valid || user == nil {
		return nil, ErrUnauthenticated
	}

	return user, nil
}

// AuthenticateRequest resolves the caller from the session token, falling back to a bearer header.
func (a *Authenticator) AuthenticateRequest(r *http.Request) (*quizfarmv1.User, error) {
	token := a.sessions.Get(r).Token()
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if token == "" {
		return nil, ErrUnauthenticated
	}

	return a.Validate(r.Context(), token)
}

// RequireLogin rejects anonymous callers and stores the user in the request context.
func (a *Authenticator) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.AuthenticateRequest(r)
		if err != nil {
			util.ReturnHTTPRedirect(w, r, a.sessions, http.StatusUnauthorized, "unauthorized", LoginPath, "Please log in to access this page.")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// Authorize wraps routes that need permission. It authenticates first, so a route
// guarded by Authorize does not also need RequireLogin.
func (a *Authenticator) Authorize(req *rbac.Request) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return a.RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, _ := UserFromContext(r.Context())
			if !AccessSet(user).GrantsRequest(req) {
				glog.V(2).Infof("user %s denied %s %v", user.Username, req.GetOperator(), req.GetPermissions())
				util.ReturnHTTPRedirect(w, r, a.sessions, http.StatusForbidden, "forbidden", DashboardPath, "You do not have permission to access this page.")
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// Optional attaches the caller to the context when a valid token is present and never rejects.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := a.AuthenticateRequest(r); err == nil {
			r = r.WithContext(WithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

func AccessSet(user *quizfarmv1.User) *rbac.AccessSet {
	return rbac.AccessSetFor(user.Username, string(user.Role))
}

func WithUser(ctx context.Context, user *quizfarmv1.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

func UserFromContext(ctx context.Context) (*quizfarmv1.User, bool) {
	user, ok := ctx.Value(contextKey{}).(*quizfarmv1.User)
	return user, ok && user != nil
}
