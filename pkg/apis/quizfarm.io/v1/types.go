package v1

import (
	"time"

	"gorm.io/datatypes"
)

type Role string
type OptionId string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

const (
	OptionA OptionId = "A"
	OptionB OptionId = "B"
	OptionC OptionId = "C"
	OptionD OptionId = "D"

	// AnswerUnanswered is recorded for questions the user left blank.
	AnswerUnanswered = "None"

	NoAnswerText = "No answer provided"
	UnknownText  = "Unknown"
)

var OptionIds = []OptionId{OptionA, OptionB, OptionC, OptionD}

const (
	UsernameMinLength = 3
	UsernameMaxLength = 20
	PasswordMinLength = 6
	// bcrypt only hashes the first 72 bytes and refuses longer input
	PasswordMaxBytes      = 72
	QuestionTextMaxLength = 500
	AnswerTextMaxLength   = 100
)

func IsValidOption(id string) bool {
	for _, o := range OptionIds {
		if string(o) == id {
			return true
		}
	}
	return false
}

type User struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Username  string       `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Password  string       `gorm:"size:150;not null" json:"-"`
	Role      Role         `gorm:"size:16;not null;default:user" json:"role"`
	CreatedAt time.Time    `json:"created_at"`
	Results   []QuizResult `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type QuizQuestion struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	QuestionText  string    `gorm:"size:500;not null" json:"question_text"`
	AnswerA       string    `gorm:"size:100;not null" json:"answer_a"`
	AnswerB       string    `gorm:"size:100;not null" json:"answer_b"`
	AnswerC       string    `gorm:"size:100;not null" json:"answer_c"`
	AnswerD       string    `gorm:"size:100;not null" json:"answer_d"`
	CorrectAnswer OptionId  `gorm:"size:1;not null" json:"correct_answer"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Option struct {
	Id   OptionId `json:"id"`
	Text string   `json:"text"`
}

// Options lists the four answers, always in A..D order.
func (q QuizQuestion) Options() []Option {
	return []Option{
		{Id: OptionA, Text: q.AnswerA},
		{Id: OptionB, Text: q.AnswerB},
		{Id: OptionC, Text: q.AnswerC},
		{Id: OptionD, Text: q.AnswerD},
	}
}

func (q QuizQuestion) optionText(id string) (string, bool) {
	for _, o := range q.Options() {
		if string(o.Id) == id {
			return o.Text, true
		}
	}
	return "", false
}

func (q QuizQuestion) CorrectAnswerText() string {
	if text, ok := q.optionText(string(q.CorrectAnswer)); ok {
		return text
	}
	return UnknownText
}

// AnswerText resolves a submitted option id. The unanswered marker and unknown ids read as NoAnswerText.
func (q QuizQuestion) AnswerText(id string) string {
	if text, ok := q.optionText(id); ok {
		return text
	}
	return NoAnswerText
}

func (q QuizQuestion) IsCorrect(answer string) bool {
	return answer == string(q.CorrectAnswer)
}

// QuizResult is a scored attempt. AttemptID is unique, so an attempt is scored at most once;
// rows written before attempt ids were stored hold null there.
type QuizResult struct {
	ID             uint                                `gorm:"primaryKey" json:"id"`
	UserID         uint                                `gorm:"index;not null" json:"user_id"`
	AttemptID      string                              `gorm:"size:36;uniqueIndex" json:"attempt_id"`
	Score          int                                 `gorm:"not null" json:"score"`
	TotalQuestions int                                 `gorm:"not null" json:"total_questions"`
	QuestionIds    datatypes.JSONSlice[uint]           `gorm:"not null" json:"question_ids"`
	UserAnswers    datatypes.JSONType[map[uint]string] `gorm:"not null" json:"user_answers"`
	CreatedAt      time.Time                           `gorm:"index" json:"created_at"`
}

// Answer returns the recorded option for a question, or the unanswered marker.
func (r QuizResult) Answer(questionId uint) string {
	if a, ok := r.UserAnswers.Data()[questionId]; ok {
		return a
	}
	return AnswerUnanswered
}
