package question

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/golang/glog"
	"github.com/gorilla/mux"

	"github.com/hobbyfarm/quizfarm/pkg/auth"
	qferrors "github.com/hobbyfarm/quizfarm/pkg/errors"
	"github.com/hobbyfarm/quizfarm/pkg/session"
	"github.com/hobbyfarm/quizfarm/pkg/util"
)

const (
	addQuestionPath = "/add_question"
	questionsPath   = "/questions"
)

type QuestionService struct {
	internalServer *GormQuestionServer
	sessions       *session.Manager
}

func NewQuestionService(internalQuestionServer *GormQuestionServer, sessions *session.Manager) *QuestionService {
	return &QuestionService{
		internalServer: internalQuestionServer,
		sessions:       sessions,
	}
}

func (qs QuestionService) CreateFormFunc(w http.ResponseWriter, r *http.Request) {
	form := PreparedQuestionForm{
		Action:         addQuestionPath,
		CorrectChoices: correctChoices(),
		Flashes:        qs.sessions.DrainFlashes(w, r),
	}

	encodedForm, err := json.Marshal(form)
	if err != nil {
		glog.Error(err)
	}
	util.ReturnHTTPContent(w, r, 200, "success", encodedForm)
}

func (qs QuestionService) CreateFunc(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	input, err := readQuestionInput(r)
	if err != nil {
		util.ReturnHTTPError(w, r, err)
		return
	}

	question := NewQuizQuestion(0, input)
	if err := qs.internalServer.CreateQuestion(r.Context(), question); err != nil {
		glog.Errorf("error creating question: %v", err)
		util.ReturnHTTPMessage(w, r, http.StatusInternalServerError, "error", "error creating question")
		return
	}

	glog.V(2).Infof("user %s created question %d", user.Username, question.ID)

	if util.WantsHTML(r) {
		util.ReturnHTTPRedirect(w, r, qs.sessions, http.StatusCreated, "created", addQuestionPath, "Question added successfully!")
		return
	}

	encodedQuestion, err := json.Marshal(NewPreparedQuestion(*question, true))
	if err != nil {
		glog.Error(err)
	}
	util.ReturnHTTPContent(w, r, http.StatusCreated, "created", encodedQuestion)
}

func (qs QuestionService) ListFunc(w http.ResponseWriter, r *http.Request) {
	questions, err := qs.internalServer.ListQuestions(r.Context())
	if err != nil {
		glog.Errorf("error listing questions: %v", err)
		util.ReturnHTTPMessage(w, r, http.StatusInternalServerError, "error", "error listing questions")
		return
	}

	encodedQuestions, err := json.Marshal(NewPreparedQuestionList(questions, true))
	if err != nil {
		glog.Error(err)
	}
	util.ReturnHTTPContent(w, r, 200, "success", encodedQuestions)

	glog.V(2).Infof("listed questions")
}

func (qs QuestionService) GetFunc(w http.ResponseWriter, r *http.Request) {
	id, err := util.ParseID(mux.Vars(r)["id"])
	if err != nil {
		util.ReturnHTTPMessage(w, r, http.StatusBadRequest, "badrequest", "no valid question id passed in")
		return
	}

	question, err := qs.internalServer.GetQuestion(r.Context(), id)
	if err != nil {
		if qferrors.IsNotFound(err) {
			util.ReturnHTTPRedirect(w, r, qs.sessions, http.StatusNotFound, "notfound", questionsPath, fmt.Sprintf("question %d not found", id))
			return
		}
		glog.Errorf("error while retrieving question %d: %v", id, err)
		util.ReturnHTTPMessage(w, r, http.StatusInternalServerError, "error", fmt.Sprintf("error retrieving question %d", id))
		return
	}

	input := NewPreparedQuestionInput(*question)
	form := PreparedQuestionForm{
		Action:         fmt.Sprintf("/edit_question/%d", id),
		Question:       &input,
		CorrectChoices: correctChoices(),
		Flashes:        qs.sessions.DrainFlashes(w, r),
	}

	encodedForm, err := json.Marshal(form)
	if err != nil {
		glog.Error(err)
	}
	util.ReturnHTTPContent(w, r, 200, "success", encodedForm)

	glog.V(2).Infof("retrieved question %d", id)
}

func (qs QuestionService) UpdateFunc(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	id, err := util.ParseID(mux.Vars(r)["id"])
	if err != nil {
		util.ReturnHTTPMessage(w, r, http.StatusBadRequest, "badrequest", "no valid question id passed in")
		return
	}

	input, err := readQuestionInput(r)
	if err != nil {
		util.ReturnHTTPError(w, r, err)
		return
	}

	question := NewQuizQuestion(id, input)
	if err := qs.internalServer.UpdateQuestion(r.Context(), question); err != nil {
		if qferrors.IsNotFound(err) {
			util.ReturnHTTPRedirect(w, r, qs.sessions, http.StatusNotFound, "notfound", questionsPath, qferrors.GetErrorMessage(err))
			return
		}
		glog.Errorf("error updating question %d: %v", id, err)
		util.ReturnHTTPMessage(w, r, http.StatusInternalServerError, "error", fmt.Sprintf("error updating question %d", id))
		return
	}

	glog.V(2).Infof("user %s updated question %d", user.Username, id)

	if util.WantsHTML(r) {
		util.ReturnHTTPRedirect(w, r, qs.sessions, http.StatusOK, "updated", questionsPath, "Question updated successfully!")
		return
	}

	encodedQuestion, err := json.Marshal(NewPreparedQuestion(*question, true))
	if err != nil {
		glog.Error(err)
	}
	util.ReturnHTTPContent(w, r, 200, "updated", encodedQuestion)
}

func (qs QuestionService) DeleteFunc(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	id, err := util.ParseID(mux.Vars(r)["id"])
	if err != nil {
		util.ReturnHTTPMessage(w, r, http.StatusBadRequest, "badrequest", "no valid question id passed in")
		return
	}

	if err := qs.internalServer.DeleteQuestion(r.Context(), id); err != nil {
		if qferrors.IsNotFound(err) {
			util.ReturnHTTPRedirect(w, r, qs.sessions, http.StatusNotFound, "notfound", questionsPath, qferrors.GetErrorMessage(err))
			return
		}
		glog.Errorf("error deleting question %d: %v", id, err)
		util.ReturnHTTPMessage(w, r, http.StatusInternalServerError, "error", fmt.Sprintf("error deleting question %d", id))
		return
	}

	glog.V(2).Infof("user %s deleted question %d", user.Username, id)
	util.ReturnHTTPRedirect(w, r, qs.sessions, http.StatusOK, "deleted", questionsPath, "Question deleted successfully!")
}
