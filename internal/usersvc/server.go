package userservice

import (
	"context"
	"net/http"

	"github.com/golang/glog"
	"github.com/gorilla/mux"

	"github.com/hobbyfarm/quizfarm/pkg/auth"
	"github.com/hobbyfarm/quizfarm/pkg/session"
)

// ResultCounter reports how many results a user has stored.
type ResultCounter interface {
	CountResults(ctx context.Context, userId uint) (int64, error)
}

type UserServer struct {
	internalUserServer *GormUserServer
	auth               *auth.Authenticator
	sessions           *session.Manager
	results            ResultCounter
}

func NewUserServer(internalUserServer *GormUserServer, authenticator *auth.Authenticator, sessions *session.Manager, results ResultCounter) UserServer {
	return UserServer{
		internalUserServer: internalUserServer,
		auth:               authenticator,
		sessions:           sessions,
		results:            results,
	}
}

func (u UserServer) SetupRoutes(r *mux.Router) {
	r.Handle("/", u.auth.Optional(http.HandlerFunc(u.HomeFunc))).Methods("GET")
	r.Handle("/home", u.auth.Optional(http.HandlerFunc(u.HomeFunc))).Methods("GET")
	r.HandleFunc("/register", u.RegisterFormFunc).Methods("GET")
	r.Handle("/register", u.auth.Optional(http.HandlerFunc(u.RegisterFunc))).Methods("POST")
	r.HandleFunc("/login", u.LoginFormFunc).Methods("GET")
	r.HandleFunc("/login", u.LoginFunc).Methods("POST")
	r.Handle("/logout", u.auth.RequireLogin(http.HandlerFunc(u.LogoutFunc))).Methods("GET")
	r.Handle("/dashboard", u.auth.RequireLogin(http.HandlerFunc(u.DashboardFunc))).Methods("GET")
	glog.V(2).Infof("set up routes for User server")
}
