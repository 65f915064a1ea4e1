package question

import (
	quizfarmv1 "github.com/hobbyfarm/quizfarm/pkg/apis/quizfarm.io/v1"
	"github.com/hobbyfarm/quizfarm/pkg/validation"
)

type PreparedQuestion struct {
	Id                uint                 `json:"id"`
	QuestionText      string               `json:"question_text"`
	Options           []quizfarmv1.Option  `json:"options"`
	CorrectAnswer     *quizfarmv1.OptionId `json:"correct_answer,omitempty"`
	CorrectAnswerText *string              `json:"correct_answer_text,omitempty"`
}

// PreparedQuestionInput mirrors the add/edit form fields.
type PreparedQuestionInput struct {
	QuestionText  string `json:"question_text"`
	AnswerA       string `json:"answer_a"`
	AnswerB       string `json:"answer_b"`
	AnswerC       string `json:"answer_c"`
	AnswerD       string `json:"answer_d"`
	CorrectAnswer string `json:"correct_answer"`
}

type PreparedChoice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type PreparedQuestionForm struct {
	Action         string                 `json:"action"`
	Question       *PreparedQuestionInput `json:"question,omitempty"`
	CorrectChoices []PreparedChoice       `json:"correct_choices"`
	Flashes        []string               `json:"flashes"`
}

var questionSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["question_text", "answer_a", "answer_b", "answer_c", "answer_d", "correct_answer"],
	"properties": {
		"question_text": {"type": "string", "minLength": 1, "maxLength": 500},
		"answer_a": {"type": "string", "minLength": 1, "maxLength": 100},
		"answer_b": {"type": "string", "minLength": 1, "maxLength": 100},
		"answer_c": {"type": "string", "minLength": 1, "maxLength": 100},
		"answer_d": {"type": "string", "minLength": 1, "maxLength": 100},
		"correct_answer": {"type": "string", "format": "option-id"}
	}
}`)

func correctChoices() []PreparedChoice {
	choices := make([]PreparedChoice, len(quizfarmv1.OptionIds))
	for i, id := range quizfarmv1.OptionIds {
		choices[i] = PreparedChoice{Value: string(id), Label: "Answer " + string(id)}
	}
	return choices
}
