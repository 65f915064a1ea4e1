package question

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Preinstall creates the questions listed in the JSON file at path unless a question with the
// same text already exists. Running it twice is a no-op. An empty path does nothing.
func Preinstall(ctx context.Context, internalQuestionServer *GormQuestionServer, path string) error {
	if path == "" {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading seed file %s", path)
	}
	inputs := []PreparedQuestionInput{}
	if err := json.Unmarshal(raw, &inputs); err != nil {
		return errors.Wrapf(err, "parsing seed file %s", path)
	}

	existing, err := internalQuestionServer.ListQuestions(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, q := range existing {
		known[q.QuestionText] = true
	}

	created := 0
	for i, input := range inputs {
		input.QuestionText = strings.TrimSpace(input.QuestionText)
		if err := questionSchema.Validate(input); err != nil {
			return errors.Wrapf(err, "seed question %d", i)
		}
		if known[input.QuestionText] {
			continue
		}
		if err := internalQuestionServer.CreateQuestion(ctx, NewQuizQuestion(0, input)); err != nil {
			return err
		}
		known[input.QuestionText] = true
		created++
	}

	glog.Infof("preinstalled %d of %d seed questions", created, len(inputs))
	return nil
}
