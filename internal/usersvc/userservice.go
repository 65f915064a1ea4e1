package userservice

import (
	"encoding/json"
	"net/http"

	"github.com/golang/glog"

	quizfarmv1 "github.com/hobbyfarm/quizfarm/pkg/apis/quizfarm.io/v1"
	"github.com/hobbyfarm/quizfarm/pkg/auth"
	qferrors "github.com/hobbyfarm/quizfarm/pkg/errors"
	"github.com/hobbyfarm/quizfarm/pkg/rbac"
	"github.com/hobbyfarm/quizfarm/pkg/util"
)

const (
	msgLoginFailed   = "Login failed. Check username and password."
	msgAccountCreate = "Account created!"
	msgLoginSuccess  = "Login successful!"
)

var errLoginFailed = qferrors.NewInvalid(msgLoginFailed)

var (
	// creating another admin needs both
	grantAdminRequest = rbac.RbacRequest().And().
				QuizfarmPermission(rbac.ResourcePluralUser, rbac.VerbCreate).
				QuizfarmPermission(rbac.ResourcePluralRole, rbac.VerbUpdate)

	manageQuestionsRequest = rbac.RbacRequest().Or().
				QuizfarmPermission(rbac.ResourcePluralQuestion, rbac.VerbCreate).
				QuizfarmPermission(rbac.ResourcePluralQuestion, rbac.VerbUpdate).
				QuizfarmPermission(rbac.ResourcePluralQuestion, rbac.VerbDelete)
)

func prepareUser(user *quizfarmv1.User) PreparedUser {
	return PreparedUser{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

func (u UserServer) HomeFunc(w http.ResponseWriter, r *http.Request) {
	home := PreparedHome{
		Flashes: u.sessions.DrainFlashes(w, r),
	}
	if user, ok := auth.UserFromContext(r.Context()); ok {
		home.Authenticated = true
		home.Username = user.Username
	}

	encodedHome, err := json.Marshal(home)
	if err != nil {
		glog.Error(err)
	}
	util.ReturnHTTPContent(w, r, 200, "success", encodedHome)
}

func (u UserServer) RegisterFormFunc(w http.ResponseWriter, r *http.Request) {
	form := registerForm
	form.Flashes = u.sessions.DrainFlashes(w, r)

	encodedForm, err := json.Marshal(form)
	if err != nil {
		glog.Error(err)
	}
	util.ReturnHTTPContent(w, r, 200, "success", encodedForm)
}

func (u UserServer) RegisterFunc(w http.ResponseWriter, r *http.Request) {
	reg := registration{}
	isJSON, err := util.DecodeBody(r, &reg)
	if err != nil {
		util.ReturnHTTPError(w, r, err)
		return
	}
	if !isJSON {
		reg = registration{
			Username:  r.PostFormValue("username"),
			Password:  r.PostFormValue("password"),
			Password2: r.PostFormValue("password2"),
			Role:      r.PostFormValue("role"),
		}
	}

	if err := registrationSchema.Validate(reg); err != nil {
		util.ReturnHTTPError(w, r, err)
		return
	}
	if reg.Password != reg.Password2 {
		util.ReturnHTTPMessage(w, r, 400, "badrequest", "password2: Field must be equal to password.")
		return
	}

	role := quizfarmv1.RoleUser
	if reg.Role == string(quizfarmv1.RoleAdmin) {
		caller, ok := auth.UserFromContext(r.Context())
		if !ok || !auth.AccessSet(caller).GrantsRequest(grantAdminRequest) {
			util.ReturnHTTPError(w, r, qferrors.NewForbidden("no access to grant the admin role"))
			return
		}
		role = quizfarmv1.RoleAdmin
	}

	user, err := u.internalUserServer.CreateUser(r.Context(), reg.Username, reg.Password, role)
	if err != nil {
		if qferrors.IsAlreadyExists(err) {
			util.ReturnHTTPMessage(w, r, 409, "exists", "Username already taken.")
			return
		}
		util.ReturnHTTPError(w, r, err)
		return
	}

	glog.V(2).Infof("registered user %s", user.Username)
	util.ReturnHTTPRedirect(w, r, u.sessions, 201, "created", auth.LoginPath, msgAccountCreate)
}

func (u UserServer) LoginFormFunc(w http.ResponseWriter, r *http.Request) {
	form := loginForm
	form.Flashes = u.sessions.DrainFlashes(w, r)

	encodedForm, err := json.Marshal(form)
	if err != nil {
		glog.Error(err)
	}
	util.ReturnHTTPContent(w, r, 200, "success", encodedForm)
}

func (u UserServer) LoginFunc(w http.ResponseWriter, r *http.Request) {
	creds := credentials{}
	isJSON, err := util.DecodeBody(r, &creds)
	if err != nil {
		util.ReturnHTTPError(w, r, err)
		return
	}
	if !isJSON {
		creds = credentials{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}
	}

	if err := credentialsSchema.Validate(creds); err != nil {
		util.ReturnHTTPError(w, r, err)
		return
	}

	user, err := u.internalUserServer.VerifyPassword(r.Context(), creds.Username, creds.Password)
	if err != nil {
		if err == errLoginFailed {
			util.ReturnHTTPMessage(w, r, 401, "unauthorized", msgLoginFailed)
			return
		}
		util.ReturnHTTPError(w, r, err)
		return
	}

	token, err := u.auth.GenerateToken(user)
	if err != nil {
		glog.Errorf("error generating token for user %s: %v", user.Username, err)
		util.ReturnHTTPMessage(w, r, 500, "error", "error logging in")
		return
	}

	s := u.sessions.Get(r)
	s.SetToken(token)
	if util.WantsHTML(r) {
		s.AddFlash(msgLoginSuccess)
	}
	if err := s.Save(w, r); err != nil {
		glog.Errorf("error saving session for user %s: %v", user.Username, err)
		util.ReturnHTTPMessage(w, r, 500, "error", "error logging in")
		return
	}

	glog.V(2).Infof("user %s logged in", user.Username)
	util.ReturnHTTPRedirect(w, r, nil, 200, "success", auth.DashboardPath, msgLoginSuccess)
}

func (u UserServer) LogoutFunc(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	s := u.sessions.Get(r)
	s.Clear()
	if err := s.Save(w, r); err != nil {
		glog.Errorf("error clearing session: %v", err)
	}

	glog.V(2).Infof("user %s logged out", user.Username)
	util.ReturnHTTPRedirect(w, r, nil, 200, "success", "/home", "logged out")
}

func (u UserServer) DashboardFunc(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	count, err := u.results.CountResults(r.Context(), user.ID)
	if err != nil {
		glog.Errorf("error counting results for user %s: %v", user.Username, err)
		util.ReturnHTTPMessage(w, r, 500, "error", "error loading dashboard")
		return
	}

	dashboard := PreparedDashboard{
		PreparedUser:    prepareUser(user),
		ResultCount:     count,
		ManageQuestions: auth.AccessSet(user).GrantsRequest(manageQuestionsRequest),
		Flashes:         u.sessions.DrainFlashes(w, r),
	}

	encodedDashboard, err := json.Marshal(dashboard)
	if err != nil {
		glog.Error(err)
	}
	util.ReturnHTTPContent(w, r, 200, "success", encodedDashboard)

	glog.V(2).Infof("retrieved dashboard for user %s", user.Username)
}
