package attempt

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"k8s.io/utils/clock"

	quizfarmv1 "github.com/hobbyfarm/quizfarm/pkg/apis/quizfarm.io/v1"
	qferrors "github.com/hobbyfarm/quizfarm/pkg/errors"
	"github.com/hobbyfarm/quizfarm/pkg/session"
)

var (
	ErrNoAttempt         = errors.New("no quiz in progress")
	ErrTimeLimitExceeded = errors.New("quiz time limit exceeded")
	ErrAlreadySubmitted  = errors.New("quiz attempt already submitted")
)

type IncompleteSubmissionError struct {
	Missing []uint
}

func (e IncompleteSubmissionError) Error() string {
	return fmt.Sprintf("%d question(s) unanswered", len(e.Missing))
}

type QuestionStore interface {
	ListQuestionIds(ctx context.Context) ([]uint, error)
	GetQuestionsByIds(ctx context.Context, ids []uint) (map[uint]quizfarmv1.QuizQuestion, error)
}

type ResultStore interface {
	CreateResult(ctx context.Context, result *quizfarmv1.QuizResult) error
}

// AttemptState is where the in-flight attempt of one user lives between requests.
type AttemptState interface {
	Attempt() (*session.Attempt, bool)
	SetAttempt(session.Attempt)
	ClearAttempt()
}

type Submission struct {
	Answers map[uint]string
	Forced  bool
}

type Controller struct {
	questions     QuestionStore
	results       ResultStore
	sampler       *Sampler
	clock         clock.PassiveClock
	timeLimit     time.Duration
	questionCount int
}

func NewController(questions QuestionStore, results ResultStore, sampler *Sampler, clk clock.PassiveClock, timeLimit time.Duration, questionCount int) *Controller {
	return &Controller{
		questions:     questions,
		results:       results,
		sampler:       sampler,
		clock:         clk,
		timeLimit:     timeLimit,
		questionCount: questionCount,
	}
}

func (c *Controller) TimeLimit() time.Duration {
	return c.timeLimit
}

// Start samples a fresh question set and records it as the in-flight attempt,
// replacing whatever attempt state held before.
func (c *Controller) Start(ctx context.Context, state AttemptState) ([]quizfarmv1.QuizQuestion, error) {
	catalog, err := c.questions.ListQuestionIds(ctx)
	if err != nil {
		return nil, err
	}

	sampled := c.sampler.Sample(catalog, c.questionCount)
	byId, err := c.questions.GetQuestionsByIds(ctx, sampled)
	if err != nil {
		return nil, err
	}

	// a question deleted after the catalog was cached is dropped here
	questions := make([]quizfarmv1.QuizQuestion, 0, len(sampled))
	ids := make([]uint, 0, len(sampled))
	for _, id := range sampled {
		if q, ok := byId[id]; ok {
			questions = append(questions, q)
			ids = append(ids, id)
		}
	}

	a := session.Attempt{
		ID:          uuid.NewString(),
		QuestionIds: ids,
		StartedAt:   c.clock.Now(),
	}
	state.SetAttempt(a)

	glog.V(2).Infof("started attempt %s with %d questions", a.ID, len(ids))
	return questions, nil
}

// Remaining reports the time left on the in-flight attempt, never negative.
func (c *Controller) Remaining(state AttemptState) (time.Duration, bool) {
	a, ok := state.Attempt()
	if !ok {
		return 0, false
	}
	left := c.timeLimit - c.clock.Since(a.StartedAt)
	if left < 0 {
		left = 0
	}
	return left, true
}

// Submit scores the in-flight attempt and stores the result. Answers for ids outside
// the attempt are ignored and values other than A..D count as unanswered.
func (c *Controller) Submit(ctx context.Context, state AttemptState, userId uint, sub Submission) (*quizfarmv1.QuizResult, error) {
	a, ok := state.Attempt()
	if !ok {
		return nil, ErrNoAttempt
	}

	// a timer-forced submission is accepted however late it arrives
	elapsed := c.clock.Since(a.StartedAt)
	if !sub.Forced && elapsed > c.timeLimit {
		state.ClearAttempt()
		glog.V(2).Infof("attempt %s rejected after %s", a.ID, elapsed.Round(time.Second))
		return nil, ErrTimeLimitExceeded
	}

	answers := make(map[uint]string, len(a.QuestionIds))
	var missing []uint
	for _, id := range a.QuestionIds {
		v, present := sub.Answers[id]
		if !present {
			if sub.Forced {
				answers[id] = quizfarmv1.AnswerUnanswered
				continue
			}
			missing = append(missing, id)
			continue
		}
		if !quizfarmv1.IsValidOption(v) {
			v = quizfarmv1.AnswerUnanswered
		}
		answers[id] = v
	}
	if len(missing) > 0 {
		return nil, IncompleteSubmissionError{Missing: missing}
	}

	byId, err := c.questions.GetQuestionsByIds(ctx, a.QuestionIds)
	if err != nil {
		return nil, err
	}

	score := 0
	for _, id := range a.QuestionIds {
		if q, ok := byId[id]; ok && q.IsCorrect(answers[id]) {
			score++
		}
	}

	ids := make([]uint, len(a.QuestionIds))
	copy(ids, a.QuestionIds)

	result := &quizfarmv1.QuizResult{
		UserID:         userId,
		AttemptID:      a.ID,
		Score:          score,
		TotalQuestions: len(ids),
		QuestionIds:    datatypes.JSONSlice[uint](ids),
		UserAnswers:    datatypes.NewJSONType(answers),
		CreatedAt:      c.clock.Now(),
	}
	if err := c.results.CreateResult(ctx, result); err != nil {
		if qferrors.IsAlreadyExists(err) {
			// a replayed session still carrying an attempt that was already scored
			state.ClearAttempt()
			glog.V(2).Infof("attempt %s was already submitted", a.ID)
			return nil, ErrAlreadySubmitted
		}
		return nil, err
	}

	state.ClearAttempt()
	glog.V(2).Infof("attempt %s scored %d/%d as result %d", a.ID, score, len(ids), result.ID)
	return result, nil
}
