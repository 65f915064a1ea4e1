package question

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	quizfarmv1 "github.com/hobbyfarm/quizfarm/pkg/apis/quizfarm.io/v1"
	"github.com/hobbyfarm/quizfarm/pkg/database/dbtest"
	qferrors "github.com/hobbyfarm/quizfarm/pkg/errors"
)

func newTestQuestionServer(t *testing.T) *GormQuestionServer {
	return NewGormQuestionServer(dbtest.New(t), time.Hour)
}

func newQuestion(text string, correct quizfarmv1.OptionId) *quizfarmv1.QuizQuestion {
	return &quizfarmv1.QuizQuestion{
		QuestionText:  text,
		AnswerA:       "a",
		AnswerB:       "b",
		AnswerC:       "c",
		AnswerD:       "d",
		CorrectAnswer: correct,
	}
}

func TestQuestionCRUD(t *testing.T) {
	s := newTestQuestionServer(t)
	ctx := context.Background()

	q := newQuestion("What is 2+2?", quizfarmv1.OptionB)
	require.NoError(t, s.CreateQuestion(ctx, q))
	require.NotZero(t, q.ID)

	got, err := s.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "What is 2+2?", got.QuestionText)

	update := newQuestion("What is 3+3?", quizfarmv1.OptionD)
	update.ID = q.ID
	require.NoError(t, s.UpdateQuestion(ctx, update))
	assert.Equal(t, got.CreatedAt.Unix(), update.CreatedAt.Unix())

	got, err = s.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "What is 3+3?", got.QuestionText)
	assert.Equal(t, quizfarmv1.OptionD, got.CorrectAnswer)

	require.NoError(t, s.DeleteQuestion(ctx, q.ID))
	_, err = s.GetQuestion(ctx, q.ID)
	assert.True(t, qferrors.IsNotFound(err))
}

func TestQuestionNotFound(t *testing.T) {
	s := newTestQuestionServer(t)
	ctx := context.Background()

	_, err := s.GetQuestion(ctx, 42)
	assert.True(t, qferrors.IsNotFound(err))

	update := newQuestion("x", quizfarmv1.OptionA)
	update.ID = 42
	assert.True(t, qferrors.IsNotFound(s.UpdateQuestion(ctx, update)))

	assert.True(t, qferrors.IsNotFound(s.DeleteQuestion(ctx, 42)))

	ids, err := s.ListQuestionIds(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestListQuestionIdsCache(t *testing.T) {
	s := newTestQuestionServer(t)
	ctx := context.Background()

	first := newQuestion("one", quizfarmv1.OptionA)
	require.NoError(t, s.CreateQuestion(ctx, first))

	ids, err := s.ListQuestionIds(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{first.ID}, ids)
	_, cached := s.Cache.Get(catalogKey)
	assert.True(t, cached)

	// callers get copies
	ids[0] = 999
	ids, err = s.ListQuestionIds(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{first.ID}, ids)

	second := newQuestion("two", quizfarmv1.OptionB)
	require.NoError(t, s.CreateQuestion(ctx, second))
	ids, err = s.ListQuestionIds(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{first.ID, second.ID}, ids)

	require.NoError(t, s.DeleteQuestion(ctx, first.ID))
	ids, err = s.ListQuestionIds(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{second.ID}, ids)

	// a failed delete leaves the warm cache alone
	assert.Error(t, s.DeleteQuestion(ctx, first.ID))
	_, cached = s.Cache.Get(catalogKey)
	assert.True(t, cached)
}

func TestGetQuestionsByIds(t *testing.T) {
	s := newTestQuestionServer(t)
	ctx := context.Background()

	a := newQuestion("a", quizfarmv1.OptionA)
	b := newQuestion("b", quizfarmv1.OptionB)
	require.NoError(t, s.CreateQuestion(ctx, a))
	require.NoError(t, s.CreateQuestion(ctx, b))

	byId, err := s.GetQuestionsByIds(ctx, []uint{b.ID, 77, a.ID})
	require.NoError(t, err)
	assert.Len(t, byId, 2)
	assert.Equal(t, "b", byId[b.ID].QuestionText)

	byId, err = s.GetQuestionsByIds(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, byId)
}
