package validation

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"

	quizfarmv1 "github.com/hobbyfarm/quizfarm/pkg/apis/quizfarm.io/v1"
	qferrors "github.com/hobbyfarm/quizfarm/pkg/errors"
)

const FormatOptionId = "option-id"

func init() {
	gojsonschema.FormatCheckers.Add(FormatOptionId, optionIdChecker{})
}

type optionIdChecker struct{}

func (checker optionIdChecker) IsFormat(value any) bool {
	v, ok := value.(string)
	if !ok {
		return true
	}

	return quizfarmv1.IsValidOption(v)
}

type Schema struct {
	schema *gojsonschema.Schema
}

func Compile(source string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		return nil, errors.Wrap(err, "compiling schema")
	}
	return &Schema{schema: s}, nil
}

// MustCompile is for package-level schemas that are known to be valid.
func MustCompile(source string) *Schema {
	s, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks doc, which is marshalled through its json tags, and returns an
// invalid error listing every violation.
func (s *Schema) Validate(doc any) error {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return errors.Wrap(err, "validating document")
	}
	if result.Valid() {
		return nil
	}

	var msgs []string
	for _, e := range result.Errors() {
		msgs = append(msgs, e.Field()+": "+e.Description())
	}
	return qferrors.NewInvalid("%s", strings.Join(msgs, "; "))
}
