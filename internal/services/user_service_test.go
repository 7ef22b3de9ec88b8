package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "github.com/ahang1598/ai-interview-assistant/internal/errors"
	"github.com/ahang1598/ai-interview-assistant/internal/models"
)

// fakeUserRepo 内存用户仓库
type fakeUserRepo struct {
	nextID uint
	users  []models.User
}

func (r *fakeUserRepo) GetDB() *gorm.DB {
	return nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.nextID++
	user.UserID = r.nextID
	r.users = append(r.users, *user)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	for i := range r.users {
		if r.users[i].UserID == id {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for i := range r.users {
		if r.users[i].Username == username {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for i := range r.users {
		if r.users[i].Email == email {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func TestUserServiceRegisterAndAuthenticate(t *testing.T) {
	service := NewUserService(&fakeUserRepo{})
	ctx := context.Background()

	user, err := service.Register(ctx, "zhangsan", "zhangsan@example.com", "secret123")
	require.NoError(t, err)
	assert.NotZero(t, user.UserID)
	assert.True(t, user.IsActive)
	// 密码只存哈希
	assert.NotEqual(t, "secret123", user.HashedPassword)

	authed, err := service.Authenticate(ctx, "zhangsan", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.UserID, authed.UserID)

	_, err = service.Authenticate(ctx, "zhangsan", "wrong-password")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeAccessDenied))
}

func TestUserServiceRegisterRejectsDuplicates(t *testing.T) {
	service := NewUserService(&fakeUserRepo{})
	ctx := context.Background()

	_, err := service.Register(ctx, "zhangsan", "zhangsan@example.com", "secret123")
	require.NoError(t, err)

	_, err = service.Register(ctx, "zhangsan", "other@example.com", "secret123")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))

	_, err = service.Register(ctx, "lisi", "zhangsan@example.com", "secret123")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
}

func TestUserServiceAuthenticateUnknownUser(t *testing.T) {
	service := NewUserService(&fakeUserRepo{})

	_, err := service.Authenticate(context.Background(), "nobody", "whatever")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeAccessDenied))
}

func TestUserServiceProfileNotFound(t *testing.T) {
	service := NewUserService(&fakeUserRepo{})

	_, err := service.Profile(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeResourceNotFound))
}
