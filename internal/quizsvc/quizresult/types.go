package quizresult

import (
	"time"

	quizfarmv1 "github.com/hobbyfarm/quizfarm/pkg/apis/quizfarm.io/v1"
)

type PreparedAnswer struct {
	QuestionId        uint                `json:"question_id"`
	QuestionText      string              `json:"question_text"`
	Options           []quizfarmv1.Option `json:"options"`
	CorrectAnswer     quizfarmv1.OptionId `json:"correct_answer"`
	CorrectAnswerText string              `json:"correct_answer_text"`
	UserAnswer        string              `json:"user_answer"`
	UserAnswerText    string              `json:"user_answer_text"`
	IsCorrect         bool                `json:"is_correct"`
}

type PreparedResultSummary struct {
	Id             uint      `json:"id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     string    `json:"percentage"`
	CreatedAt      time.Time `json:"created_at"`
}

type PreparedResult struct {
	PreparedResultSummary
	Answers []PreparedAnswer `json:"answers"`
	Flashes []string         `json:"flashes"`
}
