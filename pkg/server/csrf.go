package server

import (
	"crypto/sha256"
	"net/http"
	"strings"

	"github.com/golang/glog"
	"github.com/gorilla/csrf"

	"github.com/hobbyfarm/quizfarm/pkg/util"
)

const (
	CSRFHeader    = "X-CSRF-Token"
	CSRFFieldName = "csrf_token"
	csrfCookie    = "quizfarm_csrf"
)

// CSRF requires a token on unsafe requests that ride on the session cookie.
// Bearer-authorized and JSON requests are let through: browsers cannot send
// either cross-site without a preflight that the CORS policy refuses.
// The current token is returned in the X-CSRF-Token header of every response.
func CSRF(secret string, secure bool) func(http.Handler) http.Handler {
	key := sha256.Sum256([]byte("csrf:" + secret))
	protect := csrf.Protect(key[:],
		csrf.CookieName(csrfCookie),
		csrf.FieldName(CSRFFieldName),
		csrf.RequestHeader(CSRFHeader),
		csrf.Path("/"),
		csrf.Secure(secure),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(CSRFHeader, csrf.Token(r))
			next.ServeHTTP(w, r)
		}))
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if csrfExempt(r) {
				r = csrf.UnsafeSkipCheck(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}

func csrfExempt(r *http.Request) bool {
	if strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		return true
	}
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	glog.V(4).Infof("csrf check failed for %s %s: %v", r.Method, r.URL.Path, csrf.FailureReason(r))
	util.ReturnHTTPMessage(w, r, http.StatusForbidden, "forbidden", "Missing or invalid CSRF token.")
}
