package userservice

import (
	"context"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	quizfarmv1 "github.com/hobbyfarm/quizfarm/pkg/apis/quizfarm.io/v1"
	qferrors "github.com/hobbyfarm/quizfarm/pkg/errors"
)

type GormUserServer struct {
	db       *gorm.DB
	hashCost int
}

func NewGormUserServer(db *gorm.DB) *GormUserServer {
	return &GormUserServer{db: db, hashCost: bcrypt.DefaultCost}
}

// CreateUser hashes the password and inserts the account. The very first account
// is always an admin; afterwards role is used as given, defaulting to user.
func (u *GormUserServer) CreateUser(ctx context.Context, username string, password string, role quizfarmv1.Role) (*quizfarmv1.User, error) {
	if username == "" || password == "" {
		return nil, qferrors.NewInvalid("error creating user, username or password field blank")
	}
	if len(password) > quizfarmv1.PasswordMaxBytes {
		return nil, qferrors.NewInvalid("password: must be at most %d bytes", quizfarmv1.PasswordMaxBytes)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), u.hashCost)
	if err != nil {
		return nil, errors.Wrapf(err, "error while hashing password for user %s", username)
	}

	newUser := &quizfarmv1.User{
		Username: username,
		Password: string(passwordHash),
		Role:     role,
	}
	if newUser.Role == "" {
		newUser.Role = quizfarmv1.RoleUser
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&quizfarmv1.User{}).Where("username = ?", username).Count(&existing).Error; err != nil {
			return errors.Wrap(err, "counting users by name")
		}
		if existing > 0 {
			return qferrors.NewAlreadyExists("user %s already exists", username)
		}

		var total int64
		if err := tx.Model(&quizfarmv1.User{}).Count(&total).Error; err != nil {
			return errors.Wrap(err, "counting users")
		}
		if total == 0 {
			newUser.Role = quizfarmv1.RoleAdmin
		}

		err := tx.Create(newUser).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost the race against a concurrent registration of the same name
			return qferrors.NewAlreadyExists("user %s already exists", username)
		}
		return errors.Wrap(err, "creating user")
	})
	if err != nil {
		return nil, err
	}

	glog.V(2).Infof("created user %s with role %s", newUser.Username, newUser.Role)
	return newUser, nil
}

func (u *GormUserServer) GetUserByUsername(ctx context.Context, username string) (*quizfarmv1.User, error) {
	user := &quizfarmv1.User{}
	err := u.db.WithContext(ctx).Where("username = ?", username).First(user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, qferrors.NewNotFound("user %s not found", username)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error retrieving user %s", username)
	}
	return user, nil
}

// VerifyPassword returns the user when password matches the stored hash.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (u *GormUserServer) VerifyPassword(ctx context.Context, username string, password string) (*quizfarmv1.User, error) {
	user, err := u.GetUserByUsername(ctx, username)
	if qferrors.IsNotFound(err) {
		return nil, errLoginFailed
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		glog.V(4).Infof("password mismatch for user %s", username)
		return nil, errLoginFailed
	}

	return user, nil
}
