package quizresult

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/golang/glog"

	quizfarmv1 "github.com/hobbyfarm/quizfarm/pkg/apis/quizfarm.io/v1"
	"github.com/hobbyfarm/quizfarm/pkg/auth"
	qferrors "github.com/hobbyfarm/quizfarm/pkg/errors"
	"github.com/hobbyfarm/quizfarm/pkg/session"
	"github.com/hobbyfarm/quizfarm/pkg/util"
)

const resultIdParam = "result_id"

type QuestionGetter interface {
	GetQuestionsByIds(ctx context.Context, ids []uint) (map[uint]quizfarmv1.QuizQuestion, error)
}

type QuizResultService struct {
	internalServer *GormQuizResultServer
	questions      QuestionGetter
	sessions       *session.Manager
}

func NewQuizResultService(internalResultServer *GormQuizResultServer, questions QuestionGetter, sessions *session.Manager) *QuizResultService {
	return &QuizResultService{
		internalServer: internalResultServer,
		questions:      questions,
		sessions:       sessions,
	}
}

// GetFunc shows result_id when given, otherwise the caller's most recent result.
func (rs QuizResultService) GetFunc(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var (
		result *quizfarmv1.QuizResult
		err    error
	)
	if raw := r.URL.Query().Get(resultIdParam); raw != "" {
		id, perr := util.ParseID(raw)
		if perr != nil {
			util.ReturnHTTPMessage(w, r, http.StatusBadRequest, "badrequest", "no valid result id passed in")
			return
		}
		result, err = rs.internalServer.GetResultForUser(r.Context(), user.ID, id)
		if qferrors.IsNotFound(err) {
			util.ReturnHTTPMessage(w, r, http.StatusNotFound, "notfound", "not found")
			return
		}
	} else {
		result, err = rs.internalServer.GetLatestResult(r.Context(), user.ID)
		if qferrors.IsNotFound(err) {
			util.ReturnHTTPRedirect(w, r, rs.sessions, http.StatusNotFound, "noresult", auth.DashboardPath, "No quiz result available.")
			return
		}
	}
	if err != nil {
		glog.Errorf("error retrieving result for user %s: %v", user.Username, err)
		util.ReturnHTTPMessage(w, r, http.StatusInternalServerError, "error", "error retrieving result")
		return
	}

	byId, err := rs.questions.GetQuestionsByIds(r.Context(), []uint(result.QuestionIds))
	if err != nil {
		glog.Errorf("error retrieving questions of result %d: %v", result.ID, err)
		util.ReturnHTTPMessage(w, r, http.StatusInternalServerError, "error", fmt.Sprintf("error retrieving result %d", result.ID))
		return
	}

	preparedResult := NewPreparedResult(*result, byId)
	preparedResult.Flashes = rs.sessions.DrainFlashes(w, r)

	encodedResult, err := json.Marshal(preparedResult)
	if err != nil {
		glog.Error(err)
	}
	util.ReturnHTTPContent(w, r, 200, "success", encodedResult)

	glog.V(2).Infof("retrieved result %d for user %s", result.ID, user.Username)
}

func (rs QuizResultService) ListFunc(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	results, err := rs.internalServer.ListResults(r.Context(), user.ID)
	if err != nil {
		glog.Errorf("error listing results for user %s: %v", user.Username, err)
		util.ReturnHTTPMessage(w, r, http.StatusInternalServerError, "error", "error listing results")
		return
	}

	encodedResults, err := json.Marshal(NewPreparedResultSummaryList(results))
	if err != nil {
		glog.Error(err)
	}
	util.ReturnHTTPContent(w, r, 200, "success", encodedResults)

	glog.V(2).Infof("listed %d results for user %s", len(results), user.Username)
}
