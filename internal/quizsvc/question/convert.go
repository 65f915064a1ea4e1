package question

import (
	"net/http"
	"strings"

	quizfarmv1 "github.com/hobbyfarm/quizfarm/pkg/apis/quizfarm.io/v1"
	"github.com/hobbyfarm/quizfarm/pkg/util"
)

func NewPreparedQuestionList(questions []quizfarmv1.QuizQuestion, showCorrect bool) []PreparedQuestion {
	preparedQuestions := make([]PreparedQuestion, len(questions))
	for i, q := range questions {
		preparedQuestions[i] = NewPreparedQuestion(q, showCorrect)
	}
	return preparedQuestions
}

func NewPreparedQuestion(question quizfarmv1.QuizQuestion, showCorrect bool) PreparedQuestion {
	prepared := PreparedQuestion{
		Id:           question.ID,
		QuestionText: question.QuestionText,
		Options:      question.Options(),
	}
	if showCorrect {
		prepared.CorrectAnswer = util.Ref(question.CorrectAnswer)
		prepared.CorrectAnswerText = util.Ref(question.CorrectAnswerText())
	}
	return prepared
}

func NewPreparedQuestionInput(question quizfarmv1.QuizQuestion) PreparedQuestionInput {
	return PreparedQuestionInput{
		QuestionText:  question.QuestionText,
		AnswerA:       question.AnswerA,
		AnswerB:       question.AnswerB,
		AnswerC:       question.AnswerC,
		AnswerD:       question.AnswerD,
		CorrectAnswer: string(question.CorrectAnswer),
	}
}

func NewQuizQuestion(id uint, input PreparedQuestionInput) *quizfarmv1.QuizQuestion {
	return &quizfarmv1.QuizQuestion{
		ID:            id,
		QuestionText:  input.QuestionText,
		AnswerA:       input.AnswerA,
		AnswerB:       input.AnswerB,
		AnswerC:       input.AnswerC,
		AnswerD:       input.AnswerD,
		CorrectAnswer: quizfarmv1.OptionId(input.CorrectAnswer),
	}
}

// readQuestionInput accepts a JSON document or the add/edit form fields, trimmed and validated.
func readQuestionInput(r *http.Request) (PreparedQuestionInput, error) {
	input := PreparedQuestionInput{}
	isJSON, err := util.DecodeBody(r, &input)
	if err != nil {
		return input, err
	}
	if !isJSON {
		input = PreparedQuestionInput{
			QuestionText:  r.PostFormValue("question_text"),
			AnswerA:       r.PostFormValue("answer_a"),
			AnswerB:       r.PostFormValue("answer_b"),
			AnswerC:       r.PostFormValue("answer_c"),
			AnswerD:       r.PostFormValue("answer_d"),
			CorrectAnswer: r.PostFormValue("correct_answer"),
		}
	}

	input.QuestionText = strings.TrimSpace(input.QuestionText)
	input.AnswerA = strings.TrimSpace(input.AnswerA)
	input.AnswerB = strings.TrimSpace(input.AnswerB)
	input.AnswerC = strings.TrimSpace(input.AnswerC)
	input.AnswerD = strings.TrimSpace(input.AnswerD)
	input.CorrectAnswer = strings.TrimSpace(input.CorrectAnswer)

	return input, questionSchema.Validate(input)
}
