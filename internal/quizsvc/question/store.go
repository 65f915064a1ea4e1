package question

import (
	"context"
	"time"

	"github.com/golang/glog"
	cache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	quizfarmv1 "github.com/hobbyfarm/quizfarm/pkg/apis/quizfarm.io/v1"
	qferrors "github.com/hobbyfarm/quizfarm/pkg/errors"
)

const catalogKey = "catalog"

// GormQuestionServer persists questions and caches the catalog of question ids.
type GormQuestionServer struct {
	db    *gorm.DB
	Cache *cache.Cache
}

func NewGormQuestionServer(db *gorm.DB, catalogTTL time.Duration) *GormQuestionServer {
	return &GormQuestionServer{
		db:    db,
		Cache: cache.New(catalogTTL, 2*catalogTTL),
	}
}

func (gqs *GormQuestionServer) invalidate() {
	gqs.Cache.Delete(catalogKey)
}

func (gqs *GormQuestionServer) CreateQuestion(ctx context.Context, question *quizfarmv1.QuizQuestion) error {
	question.ID = 0
	if err := gqs.db.WithContext(ctx).Create(question).Error; err != nil {
		return errors.Wrap(err, "error creating question")
	}
	gqs.invalidate()
	glog.V(2).Infof("created question %d", question.ID)
	return nil
}

func (gqs *GormQuestionServer) GetQuestion(ctx context.Context, id uint) (*quizfarmv1.QuizQuestion, error) {
	question := &quizfarmv1.QuizQuestion{}
	err := gqs.db.WithContext(ctx).First(question, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, qferrors.NewNotFound("question %d not found", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error retrieving question %d", id)
	}
	return question, nil
}

func (gqs *GormQuestionServer) ListQuestions(ctx context.Context) ([]quizfarmv1.QuizQuestion, error) {
	questions := []quizfarmv1.QuizQuestion{}
	if err := gqs.db.WithContext(ctx).Order("id").Find(&questions).Error; err != nil {
		return nil, errors.Wrap(err, "error listing questions")
	}
	return questions, nil
}

// UpdateQuestion overwrites the text, options and correct answer of an existing question in place.
func (gqs *GormQuestionServer) UpdateQuestion(ctx context.Context, question *quizfarmv1.QuizQuestion) error {
	err := gqs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing := &quizfarmv1.QuizQuestion{}
		err := tx.First(existing, question.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return qferrors.NewNotFound("question %d not found", question.ID)
		}
		if err != nil {
			return errors.Wrapf(err, "error retrieving question %d", question.ID)
		}

		existing.QuestionText = question.QuestionText
		existing.AnswerA = question.AnswerA
		existing.AnswerB = question.AnswerB
		existing.AnswerC = question.AnswerC
		existing.AnswerD = question.AnswerD
		existing.CorrectAnswer = question.CorrectAnswer

		if err := tx.Save(existing).Error; err != nil {
			return errors.Wrapf(err, "error updating question %d", question.ID)
		}
		*question = *existing
		return nil
	})
	if err != nil {
		return err
	}

	gqs.invalidate()
	glog.V(2).Infof("updated question %d", question.ID)
	return nil
}

func (gqs *GormQuestionServer) DeleteQuestion(ctx context.Context, id uint) error {
	res := gqs.db.WithContext(ctx).Delete(&quizfarmv1.QuizQuestion{}, id)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "error deleting question %d", id)
	}
	if res.RowsAffected == 0 {
		return qferrors.NewNotFound("question %d not found", id)
	}

	gqs.invalidate()
	glog.V(2).Infof("deleted question %d", id)
	return nil
}

// ListQuestionIds returns every stored question id in ascending order, served from cache when warm.
func (gqs *GormQuestionServer) ListQuestionIds(ctx context.Context) ([]uint, error) {
	if cached, found := gqs.Cache.Get(catalogKey); found {
		ids := cached.([]uint)
		out := make([]uint, len(ids))
		copy(out, ids)
		return out, nil
	}

	ids := []uint{}
	if err := gqs.db.WithContext(ctx).Model(&quizfarmv1.QuizQuestion{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, errors.Wrap(err, "error listing question ids")
	}

	gqs.Cache.SetDefault(catalogKey, ids)
	glog.V(4).Infof("cached catalog of %d question ids", len(ids))

	out := make([]uint, len(ids))
	copy(out, ids)
	return out, nil
}

// GetQuestionsByIds loads the questions that still exist among ids. Missing ids are simply absent.
func (gqs *GormQuestionServer) GetQuestionsByIds(ctx context.Context, ids []uint) (map[uint]quizfarmv1.QuizQuestion, error) {
	byId := make(map[uint]quizfarmv1.QuizQuestion, len(ids))
	if len(ids) == 0 {
		return byId, nil
	}

	questions := []quizfarmv1.QuizQuestion{}
	if err := gqs.db.WithContext(ctx).Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, errors.Wrap(err, "error retrieving questions")
	}
	for _, q := range questions {
		byId[q.ID] = q
	}
	return byId, nil
}
