package userservice

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	quizfarmv1 "github.com/hobbyfarm/quizfarm/pkg/apis/quizfarm.io/v1"
	"github.com/hobbyfarm/quizfarm/pkg/database/dbtest"
	qferrors "github.com/hobbyfarm/quizfarm/pkg/errors"
)

func newTestUserServer(t *testing.T) *GormUserServer {
	u := NewGormUserServer(dbtest.New(t))
	u.hashCost = bcrypt.MinCost
	return u
}

func TestCreateUserFirstIsAdmin(t *testing.T) {
	u := newTestUserServer(t)
	ctx := context.Background()

	first, err := u.CreateUser(ctx, "alice", "secret1", quizfarmv1.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, quizfarmv1.RoleAdmin, first.Role)

	second, err := u.CreateUser(ctx, "bobby", "secret2", "")
	require.NoError(t, err)
	assert.Equal(t, quizfarmv1.RoleUser, second.Role)

	assert.NotEqual(t, "secret2", second.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(second.Password), []byte("secret2")))
}

func TestCreateUserDuplicate(t *testing.T) {
	u := newTestUserServer(t)
	ctx := context.Background()

	_, err := u.CreateUser(ctx, "alice", "secret1", "")
	require.NoError(t, err)

	_, err = u.CreateUser(ctx, "alice", "different", "")
	assert.True(t, qferrors.IsAlreadyExists(err))

	var count int64
	require.NoError(t, u.db.Model(&quizfarmv1.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateUserConcurrentDuplicate(t *testing.T) {
	u := newTestUserServer(t)
	ctx := context.Background()

	// another registration commits the same name between the lookup and the insert
	raced := false
	require.NoError(t, u.db.Callback().Create().Before("gorm:create").Register("test:race", func(db *gorm.DB) {
		if _, ok := db.Statement.Dest.(*quizfarmv1.User); !ok || raced {
			return
		}
		raced = true
		rival := &quizfarmv1.User{Username: "alice", Password: "x", Role: quizfarmv1.RoleUser}
		require.NoError(t, db.Session(&gorm.Session{NewDB: true}).Create(rival).Error)
	}))

	_, err := u.CreateUser(ctx, "alice", "secret1", "")
	require.True(t, raced)
	assert.True(t, qferrors.IsAlreadyExists(err), "got %v", err)
}

func TestCreateUserInvalid(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "blank username", username: "", password: "secret1"},
		{name: "blank password", username: "alice", password: ""},
		{name: "too long", username: "alice", password: strings.Repeat("a", 73)},
		{name: "too many bytes", username: "alice", password: strings.Repeat("é", 40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newTestUserServer(t)
			_, err := u.CreateUser(context.Background(), tt.username, tt.password, "")
			assert.True(t, qferrors.IsInvalid(err), "got %v", err)
		})
	}
}

func TestCreateUserLongestPassword(t *testing.T) {
	u := newTestUserServer(t)
	password := strings.Repeat("a", quizfarmv1.PasswordMaxBytes)

	_, err := u.CreateUser(context.Background(), "alice", password, "")
	require.NoError(t, err)

	_, err = u.VerifyPassword(context.Background(), "alice", password)
	assert.NoError(t, err)
}

func TestGetUser(t *testing.T) {
	u := newTestUserServer(t)
	ctx := context.Background()

	created, err := u.CreateUser(ctx, "alice", "secret1", "")
	require.NoError(t, err)

	byName, err := u.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = u.GetUserByUsername(ctx, "nobody")
	assert.True(t, qferrors.IsNotFound(err))
}

func TestVerifyPassword(t *testing.T) {
	u := newTestUserServer(t)
	ctx := context.Background()

	_, err := u.CreateUser(ctx, "alice", "secret1", "")
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{name: "correct", username: "alice", password: "secret1"},
		{name: "wrong password", username: "alice", password: "secret2", wantErr: true},
		{name: "unknown user", username: "mallory", password: "secret1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := u.VerifyPassword(ctx, tt.username, tt.password)
			if tt.wantErr {
				assert.Equal(t, errLoginFailed, err)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice", user.Username)
		})
	}
}
