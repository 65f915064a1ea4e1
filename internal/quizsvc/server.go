package quizservice

import (
	"net/http"

	"github.com/golang/glog"
	"github.com/gorilla/mux"

	"github.com/hobbyfarm/quizfarm/internal/quizsvc/attempt"
	"github.com/hobbyfarm/quizfarm/internal/quizsvc/question"
	"github.com/hobbyfarm/quizfarm/internal/quizsvc/quizresult"
	"github.com/hobbyfarm/quizfarm/pkg/auth"
	"github.com/hobbyfarm/quizfarm/pkg/rbac"
	"github.com/hobbyfarm/quizfarm/pkg/session"
)

type QuizServer struct {
	auth                      *auth.Authenticator
	internalQuestionService   *question.QuestionService
	internalAttemptService    *attempt.AttemptService
	internalQuizResultService *quizresult.QuizResultService
}

func NewQuizServer(
	authenticator *auth.Authenticator,
	sessions *session.Manager,
	internalQuestionServer *question.GormQuestionServer,
	internalQuizResultServer *quizresult.GormQuizResultServer,
	controller *attempt.Controller,
) QuizServer {
	return QuizServer{
		auth:                      authenticator,
		internalQuestionService:   question.NewQuestionService(internalQuestionServer, sessions),
		internalAttemptService:    attempt.NewAttemptService(controller, sessions),
		internalQuizResultService: quizresult.NewQuizResultService(internalQuizResultServer, internalQuestionServer, sessions),
	}
}

func (qs QuizServer) guard(resource string, verb string, handler http.HandlerFunc) http.Handler {
	return qs.auth.Authorize(rbac.RbacRequest().QuizfarmPermission(resource, verb))(handler)
}

func (qs QuizServer) SetupRoutes(r *mux.Router) {
	// attempt
	r.Handle("/quiz", qs.guard(rbac.ResourcePluralQuiz, rbac.VerbGet, qs.internalAttemptService.StartFunc)).Methods("GET")
	r.Handle("/quiz", qs.guard(rbac.ResourcePluralQuiz, rbac.VerbCreate, qs.internalAttemptService.SubmitFunc)).Methods("POST")
	// results
	r.Handle("/results", qs.guard(rbac.ResourcePluralResult, rbac.VerbGet, qs.internalQuizResultService.GetFunc)).Methods("GET")
	r.Handle("/results_history", qs.guard(rbac.ResourcePluralResult, rbac.VerbList, qs.internalQuizResultService.ListFunc)).Methods("GET")
	// question administration
	r.Handle("/add_question", qs.guard(rbac.ResourcePluralQuestion, rbac.VerbCreate, qs.internalQuestionService.CreateFormFunc)).Methods("GET")
	r.Handle("/add_question", qs.guard(rbac.ResourcePluralQuestion, rbac.VerbCreate, qs.internalQuestionService.CreateFunc)).Methods("POST")
	r.Handle("/questions", qs.guard(rbac.ResourcePluralQuestion, rbac.VerbList, qs.internalQuestionService.ListFunc)).Methods("GET")
	r.Handle("/edit_question/{id}", qs.guard(rbac.ResourcePluralQuestion, rbac.VerbGet, qs.internalQuestionService.GetFunc)).Methods("GET")
	r.Handle("/edit_question/{id}", qs.guard(rbac.ResourcePluralQuestion, rbac.VerbUpdate, qs.internalQuestionService.UpdateFunc)).Methods("POST")
	r.Handle("/delete_question/{id}", qs.guard(rbac.ResourcePluralQuestion, rbac.VerbDelete, qs.internalQuestionService.DeleteFunc)).Methods("POST")
	glog.V(2).Infof("set up routes for quiz server")
}
