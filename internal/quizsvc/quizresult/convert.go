package quizresult

import (
	"github.com/shopspring/decimal"

	quizfarmv1 "github.com/hobbyfarm/quizfarm/pkg/apis/quizfarm.io/v1"
)

var hundred = decimal.NewFromInt(100)

// Percentage renders score/total with one decimal place. An empty quiz is 0.0.
func Percentage(score int, total int) string {
	if total <= 0 {
		return decimal.Zero.StringFixed(1)
	}
	return decimal.NewFromInt(int64(score)).
		Mul(hundred).
		DivRound(decimal.NewFromInt(int64(total)), 1).
		StringFixed(1)
}

func NewPreparedResultSummary(result quizfarmv1.QuizResult) PreparedResultSummary {
	return PreparedResultSummary{
		Id:             result.ID,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		Percentage:     Percentage(result.Score, result.TotalQuestions),
		CreatedAt:      result.CreatedAt,
	}
}

func NewPreparedResultSummaryList(results []quizfarmv1.QuizResult) []PreparedResultSummary {
	summaries := make([]PreparedResultSummary, len(results))
	for i, r := range results {
		summaries[i] = NewPreparedResultSummary(r)
	}
	return summaries
}

// NewPreparedResult walks the recorded question order. Questions missing from byId were deleted
// after the attempt and are left out of the breakdown; the stored score is not recomputed.
func NewPreparedResult(result quizfarmv1.QuizResult, byId map[uint]quizfarmv1.QuizQuestion) PreparedResult {
	answers := make([]PreparedAnswer, 0, len(result.QuestionIds))
	for _, id := range result.QuestionIds {
		q, ok := byId[id]
		if !ok {
			continue
		}
		userAnswer := result.Answer(id)
		answers = append(answers, PreparedAnswer{
			QuestionId:        id,
			QuestionText:      q.QuestionText,
			Options:           q.Options(),
			CorrectAnswer:     q.CorrectAnswer,
			CorrectAnswerText: q.CorrectAnswerText(),
			UserAnswer:        userAnswer,
			UserAnswerText:    q.AnswerText(userAnswer),
			IsCorrect:         q.IsCorrect(userAnswer),
		})
	}

	return PreparedResult{
		PreparedResultSummary: NewPreparedResultSummary(result),
		Answers:               answers,
		Flashes:               []string{},
	}
}
