package attempt

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	quizfarmv1 "github.com/hobbyfarm/quizfarm/pkg/apis/quizfarm.io/v1"
	"github.com/hobbyfarm/quizfarm/pkg/auth"
	"github.com/hobbyfarm/quizfarm/pkg/session"
	"github.com/hobbyfarm/quizfarm/pkg/util"
)

type serviceEnv struct {
	*fixture
	service *AttemptService
	user    *quizfarmv1.User
	cookies []*http.Cookie
}

func newServiceEnv(questions ...quizfarmv1.QuizQuestion) *serviceEnv {
	f := newFixture(questions...)
	return &serviceEnv{
		fixture: f,
		service: NewAttemptService(f.controller, session.NewCookieManager("test-secret")),
		user:    &quizfarmv1.User{ID: 5, Username: "alice", Role: quizfarmv1.RoleUser},
	}
}

func (e *serviceEnv) do(handler http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	for _, c := range e.cookies {
		r.AddCookie(c)
	}
	r = r.WithContext(auth.WithUser(r.Context(), e.user))
	w := httptest.NewRecorder()
	handler(w, r)
	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		e.cookies = cookies
	}
	return w
}

func (e *serviceEnv) start(t *testing.T) PreparedAttempt {
	t.Helper()
	w := e.do(e.service.StartFunc, httptest.NewRequest(http.MethodGet, quizPath, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var content util.HTTPContent
	require.NoError(t, json.NewDecoder(w.Body).Decode(&content))
	var prepared PreparedAttempt
	require.NoError(t, json.Unmarshal(content.Content, &prepared))
	return prepared
}

func (e *serviceEnv) submitForm(form url.Values) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, quizPath, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(e.service.SubmitFunc, r)
}

func decodeRedirect(t *testing.T, w *httptest.ResponseRecorder) util.HTTPRedirect {
	t.Helper()
	var redirect util.HTTPRedirect
	require.NoError(t, json.NewDecoder(w.Body).Decode(&redirect))
	return redirect
}

func TestStartFuncHidesCorrectAnswers(t *testing.T) {
	e := newServiceEnv(newQuestion(1, "A"), newQuestion(2, "B"))

	prepared := e.start(t)
	assert.NotEmpty(t, prepared.AttemptId)
	assert.Equal(t, 1200, prepared.TimeLimitSeconds)
	assert.Equal(t, 1200, prepared.RemainingSeconds)
	assert.Empty(t, prepared.Flashes)
	require.Len(t, prepared.Questions, 2)
	for _, q := range prepared.Questions {
		assert.Nil(t, q.CorrectAnswer)
		assert.Nil(t, q.CorrectAnswerText)
		assert.Len(t, q.Options, 4)
	}
}

func TestSubmitFuncForm(t *testing.T) {
	e := newServiceEnv(newQuestion(1, "A"), newQuestion(2, "B"))
	e.start(t)

	w := e.submitForm(url.Values{"answer_1": {"A"}, "answer_2": {"C"}})
	require.Equal(t, http.StatusCreated, w.Code)
	redirect := decodeRedirect(t, w)
	assert.Equal(t, "You scored 1 out of 2", redirect.Message)
	assert.Equal(t, "/results?result_id=1", w.Header().Get("Location"))

	require.Len(t, e.results.results, 1)
	assert.Equal(t, uint(5), e.results.results[0].UserID)

	// attempt is gone, a second submit has nothing to score
	w = e.submitForm(url.Values{"answer_1": {"A"}, "answer_2": {"C"}})
	assert.Equal(t, http.StatusConflict, w.Code)
	redirect = decodeRedirect(t, w)
	assert.Equal(t, "noattempt", redirect.Type)
	assert.Equal(t, "No quiz in progress. Start a new quiz.", redirect.Message)
	assert.Equal(t, quizPath, w.Header().Get("Location"))
	assert.Len(t, e.results.results, 1)
}

func TestSubmitFuncReplayedCookie(t *testing.T) {
	e := newServiceEnv(newQuestion(1, "A"))
	e.start(t)
	stale := e.cookies

	w := e.submitForm(url.Values{"answer_1": {"B"}})
	require.Equal(t, http.StatusCreated, w.Code)

	e.cookies = stale
	w = e.submitForm(url.Values{"answer_1": {"A"}})
	require.Equal(t, http.StatusConflict, w.Code)
	redirect := decodeRedirect(t, w)
	assert.Equal(t, "submitted", redirect.Type)
	assert.Equal(t, resultsPath, w.Header().Get("Location"))

	require.Len(t, e.results.results, 1)
	assert.Equal(t, 0, e.results.results[0].Score)
}

func TestSubmitFuncJSON(t *testing.T) {
	e := newServiceEnv(newQuestion(1, "A"), newQuestion(2, "B"))
	e.start(t)

	r := httptest.NewRequest(http.MethodPost, quizPath, strings.NewReader(`{"answers": {"1": "A", "2": "B"}}`))
	r.Header.Set("Content-Type", "application/json")
	w := e.do(e.service.SubmitFunc, r)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "You scored 2 out of 2", decodeRedirect(t, w).Message)
}

func TestSubmitFuncIncomplete(t *testing.T) {
	e := newServiceEnv(newQuestion(1, "A"), newQuestion(2, "B"))
	e.start(t)

	w := e.submitForm(url.Values{"answer_1": {"A"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "incomplete", decodeRedirect(t, w).Type)
	assert.Empty(t, e.results.results)

	// blank radio values are explicit non-answers
	w = e.submitForm(url.Values{"answer_1": {"A"}, "answer_2": {""}})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, quizfarmv1.AnswerUnanswered, e.results.results[0].Answer(2))
}

func TestSubmitFuncTimeLimit(t *testing.T) {
	tests := []struct {
		name     string
		elapsed  time.Duration
		form     url.Values
		wantCode int
		wantType string
	}{
		{
			name:     "late manual submit",
			elapsed:  21 * time.Minute,
			form:     url.Values{"answer_1": {"A"}},
			wantCode: http.StatusConflict,
			wantType: "timelimit",
		},
		{
			name:     "timer forced submit",
			elapsed:  20*time.Minute + 2*time.Second,
			form:     url.Values{"timeout": {"true"}},
			wantCode: http.StatusCreated,
			wantType: "created",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newServiceEnv(newQuestion(1, "A"))
			e.start(t)
			e.clock.SetTime(e.clock.Now().Add(tt.elapsed))

			w := e.submitForm(tt.form)
			require.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantType, decodeRedirect(t, w).Type)

			// the attempt is cleared either way
			w = e.submitForm(url.Values{"answer_1": {"A"}})
			assert.Equal(t, http.StatusConflict, w.Code)
			assert.Equal(t, "noattempt", decodeRedirect(t, w).Type)
		})
	}
}

func TestSubmitFuncBrowserFlash(t *testing.T) {
	e := newServiceEnv(newQuestion(1, "A"))
	e.start(t)

	r := httptest.NewRequest(http.MethodPost, quizPath, strings.NewReader(url.Values{"answer_1": {"A"}}.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("Accept", "text/html")
	w := e.do(e.service.SubmitFunc, r)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, fmt.Sprintf("%s?result_id=%d", resultsPath, 1), w.Header().Get("Location"))

	prepared := e.start(t)
	assert.Equal(t, []string{"You scored 1 out of 1"}, prepared.Flashes)
}

func TestReadSubmissionIgnoresForeignFields(t *testing.T) {
	form := url.Values{"answer_3": {" B "}, "answer_x": {"A"}, "csrf": {"abc"}, "timeout": {"false"}}
	r := httptest.NewRequest(http.MethodPost, quizPath, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	sub, err := readSubmission(r)
	require.NoError(t, err)
	assert.Equal(t, map[uint]string{3: "B"}, sub.Answers)
	assert.False(t, sub.Forced)
}

func TestReadSubmissionMalformedJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, quizPath, strings.NewReader(`{"answers": [`))
	r.Header.Set("Content-Type", "application/json")

	_, err := readSubmission(r)
	assert.Error(t, err)
}
