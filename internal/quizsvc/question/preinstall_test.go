package question

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qferrors "github.com/hobbyfarm/quizfarm/pkg/errors"
)

const seed = `[
	{"question_text": "2+2?", "answer_a": "3", "answer_b": "4", "answer_c": "5", "answer_d": "6", "correct_answer": "B"},
	{"question_text": "Sky colour?", "answer_a": "blue", "answer_b": "red", "answer_c": "green", "answer_d": "pink", "correct_answer": "A"}
]`

func writeSeed(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestPreinstall(t *testing.T) {
	s := newTestQuestionServer(t)
	ctx := context.Background()
	path := writeSeed(t, seed)

	require.NoError(t, Preinstall(ctx, s, path))
	require.NoError(t, Preinstall(ctx, s, path))

	questions, err := s.ListQuestions(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "2+2?", questions[0].QuestionText)

	ids, err := s.ListQuestionIds(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestPreinstallRejects(t *testing.T) {
	s := newTestQuestionServer(t)
	ctx := context.Background()

	assert.NoError(t, Preinstall(ctx, s, ""))
	assert.Error(t, Preinstall(ctx, s, filepath.Join(t.TempDir(), "missing.json")))
	assert.Error(t, Preinstall(ctx, s, writeSeed(t, "{not json")))

	err := Preinstall(ctx, s, writeSeed(t, `[{"question_text": "q", "correct_answer": "Z"}]`))
	assert.True(t, qferrors.IsInvalid(err))

	questions, err := s.ListQuestions(ctx)
	require.NoError(t, err)
	assert.Empty(t, questions)
}
