package attempt

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/hobbyfarm/quizfarm/internal/quizsvc/question"
	quizfarmv1 "github.com/hobbyfarm/quizfarm/pkg/apis/quizfarm.io/v1"
	"github.com/hobbyfarm/quizfarm/pkg/auth"
	"github.com/hobbyfarm/quizfarm/pkg/session"
	"github.com/hobbyfarm/quizfarm/pkg/util"
)

const (
	quizPath    = "/quiz"
	resultsPath = "/results"

	answerFieldPrefix = "answer_"
	timeoutField      = "timeout"
)

type AttemptService struct {
	controller *Controller
	sessions   *session.Manager
}

func NewAttemptService(controller *Controller, sessions *session.Manager) *AttemptService {
	return &AttemptService{
		controller: controller,
		sessions:   sessions,
	}
}

func (as AttemptService) StartFunc(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	s := as.sessions.Get(r)
	flashes := s.Flashes()
	if flashes == nil {
		flashes = []string{}
	}
	questions, err := as.controller.Start(r.Context(), s)
	if err != nil {
		glog.Errorf("error starting quiz for user %s: %v", user.Username, err)
		util.ReturnHTTPMessage(w, r, http.StatusInternalServerError, "error", "error starting quiz")
		return
	}
	if err := s.Save(w, r); err != nil {
		glog.Errorf("error saving attempt for user %s: %v", user.Username, err)
		util.ReturnHTTPMessage(w, r, http.StatusInternalServerError, "error", "error starting quiz")
		return
	}

	a, _ := s.Attempt()
	remaining, _ := as.controller.Remaining(s)
	preparedAttempt := PreparedAttempt{
		AttemptId:        a.ID,
		StartedAt:        a.StartedAt,
		TimeLimitSeconds: int(as.controller.TimeLimit().Seconds()),
		RemainingSeconds: int(remaining.Seconds()),
		Questions:        question.NewPreparedQuestionList(questions, false),
		Flashes:          flashes,
	}

	encodedAttempt, err := json.Marshal(preparedAttempt)
	if err != nil {
		glog.Error(err)
	}
	util.ReturnHTTPContent(w, r, 200, "success", encodedAttempt)

	glog.V(2).Infof("user %s started attempt %s", user.Username, a.ID)
}

func (as AttemptService) SubmitFunc(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	sub, err := readSubmission(r)
	if err != nil {
		util.ReturnHTTPError(w, r, err)
		return
	}

	s := as.sessions.Get(r)
	result, err := as.controller.Submit(r.Context(), s, user.ID, sub)

	var incomplete IncompleteSubmissionError
	switch {
	case err == nil:
		as.finish(w, r, s, http.StatusCreated, "created",
			fmt.Sprintf("%s?result_id=%d", resultsPath, result.ID),
			fmt.Sprintf("You scored %d out of %d", result.Score, result.TotalQuestions))
		glog.V(2).Infof("user %s submitted quiz, result %d", user.Username, result.ID)
	case errors.Is(err, ErrNoAttempt):
		util.ReturnHTTPRedirect(w, r, as.sessions, http.StatusConflict, "noattempt", quizPath, "No quiz in progress. Start a new quiz.")
	case errors.Is(err, ErrAlreadySubmitted):
		as.finish(w, r, s, http.StatusConflict, "submitted", resultsPath, "This quiz was already submitted.")
	case errors.Is(err, ErrTimeLimitExceeded):
		as.finish(w, r, s, http.StatusConflict, "timelimit", resultsPath, "Time limit exceeded. Your answers were not recorded.")
	case errors.As(err, &incomplete):
		util.ReturnHTTPRedirect(w, r, as.sessions, http.StatusBadRequest, "incomplete", quizPath,
			fmt.Sprintf("Please answer all questions before submitting (%d unanswered).", len(incomplete.Missing)))
	default:
		glog.Errorf("error submitting quiz for user %s: %v", user.Username, err)
		util.ReturnHTTPMessage(w, r, http.StatusInternalServerError, "error", "error submitting quiz")
	}
}

// finish persists the changed attempt state together with the notice, then redirects.
func (as AttemptService) finish(w http.ResponseWriter, r *http.Request, s *session.Session, status int, messageType string, location string, message string) {
	if util.WantsHTML(r) {
		s.AddFlash(message)
	}
	if err := s.Save(w, r); err != nil {
		glog.Errorf("error saving session: %v", err)
	}
	util.ReturnHTTPRedirect(w, r, nil, status, messageType, location, message)
}

// readSubmission accepts either {"answers": {...}, "timeout": bool} or answer_<id> form fields.
// An empty form value is an explicit blank; an absent field means no entry at all.
func readSubmission(r *http.Request) (Submission, error) {
	prepared := PreparedSubmission{}
	isJSON, err := util.DecodeBody(r, &prepared)
	if err != nil {
		return Submission{}, err
	}
	if isJSON {
		answers := make(map[uint]string, len(prepared.Answers))
		for id, v := range prepared.Answers {
			answers[id] = normalizeAnswer(v)
		}
		return Submission{Answers: answers, Forced: prepared.Timeout}, nil
	}

	if err := r.ParseForm(); err != nil {
		return Submission{}, errors.Wrap(err, "parsing form")
	}

	sub := Submission{
		Answers: map[uint]string{},
		Forced:  r.PostForm.Get(timeoutField) == "true",
	}
	for field, values := range r.PostForm {
		if !strings.HasPrefix(field, answerFieldPrefix) {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimPrefix(field, answerFieldPrefix), 10, 64)
		if err != nil {
			continue
		}
		v := ""
		if len(values) > 0 {
			v = values[0]
		}
		sub.Answers[uint(id)] = normalizeAnswer(v)
	}
	return sub, nil
}

func normalizeAnswer(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return quizfarmv1.AnswerUnanswered
	}
	return v
}
