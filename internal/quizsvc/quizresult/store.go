package quizresult

import (
	"context"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	quizfarmv1 "github.com/hobbyfarm/quizfarm/pkg/apis/quizfarm.io/v1"
	qferrors "github.com/hobbyfarm/quizfarm/pkg/errors"
)

// GormQuizResultServer stores finished attempts. Results are written once per attempt and never changed.
type GormQuizResultServer struct {
	db *gorm.DB
}

func NewGormQuizResultServer(db *gorm.DB) *GormQuizResultServer {
	return &GormQuizResultServer{db: db}
}

func (s *GormQuizResultServer) CreateResult(ctx context.Context, result *quizfarmv1.QuizResult) error {
	if result.Score < 0 || result.Score > result.TotalQuestions || result.TotalQuestions != len(result.QuestionIds) {
		return qferrors.NewInvalid("inconsistent result: score %d of %d over %d questions", result.Score, result.TotalQuestions, len(result.QuestionIds))
	}
	if result.AttemptID == "" {
		return qferrors.NewInvalid("result has no attempt id")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&quizfarmv1.QuizResult{}).Where("attempt_id = ?", result.AttemptID).Count(&existing).Error; err != nil {
			return errors.Wrap(err, "counting results by attempt")
		}
		if existing > 0 {
			return qferrors.NewAlreadyExists("attempt %s already has a result", result.AttemptID)
		}

		err := tx.Create(result).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return qferrors.NewAlreadyExists("attempt %s already has a result", result.AttemptID)
		}
		return errors.Wrap(err, "error creating result")
	})
	if err != nil {
		return err
	}
	glog.V(2).Infof("created result %d for user %d", result.ID, result.UserID)
	return nil
}

// GetResultForUser loads result id only if it belongs to userId. A result of someone else is reported as not found.
func (s *GormQuizResultServer) GetResultForUser(ctx context.Context, userId uint, id uint) (*quizfarmv1.QuizResult, error) {
	result := &quizfarmv1.QuizResult{}
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userId).First(result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, qferrors.NewNotFound("result %d not found", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error retrieving result %d", id)
	}
	return result, nil
}

func (s *GormQuizResultServer) GetLatestResult(ctx context.Context, userId uint) (*quizfarmv1.QuizResult, error) {
	result := &quizfarmv1.QuizResult{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userId).Order("created_at desc").Order("id desc").First(result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, qferrors.NewNotFound("no result for user %d", userId)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error retrieving latest result of user %d", userId)
	}
	return result, nil
}

// ListResults returns every result of userId, newest first.
func (s *GormQuizResultServer) ListResults(ctx context.Context, userId uint) ([]quizfarmv1.QuizResult, error) {
	results := []quizfarmv1.QuizResult{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userId).Order("created_at desc").Order("id desc").Find(&results).Error
	if err != nil {
		return nil, errors.Wrapf(err, "error listing results of user %d", userId)
	}
	return results, nil
}

func (s *GormQuizResultServer) CountResults(ctx context.Context, userId uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&quizfarmv1.QuizResult{}).Where("user_id = ?", userId).Count(&count).Error
	if err != nil {
		return 0, errors.Wrapf(err, "error counting results of user %d", userId)
	}
	return count, nil
}
