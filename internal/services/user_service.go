package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/ahang1598/ai-interview-assistant/internal/errors"
	"github.com/ahang1598/ai-interview-assistant/internal/logger"
	"github.com/ahang1598/ai-interview-assistant/internal/models"
	"github.com/ahang1598/ai-interview-assistant/internal/repository"
)

// UserService 用户服务
// 只负责用户档案的管理和凭证校验，令牌签发由网关处理。
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService 创建用户服务
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register 用户注册
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewBusinessError(apperrors.ErrCodeInvalidInput, "用户名已存在")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewSystemError(apperrors.ErrCodeDatabaseError, "查询用户失败").WithCause(err)
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewBusinessError(apperrors.ErrCodeInvalidInput, "邮箱已被注册")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewSystemError(apperrors.ErrCodeDatabaseError, "查询用户失败").WithCause(err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		IsActive: true,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, apperrors.NewSystemError(apperrors.ErrCodeInternalServer, "密码加密失败").WithCause(err)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperrors.NewSystemError(apperrors.ErrCodeDatabaseError, "用户注册失败").WithCause(err)
	}

	logger.Info("用户注册成功", zap.Uint("user_id", user.UserID), zap.String("username", user.Username))
	return user, nil
}

// Authenticate 校验用户名和密码，返回用户档案
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewBusinessError(apperrors.ErrCodeAccessDenied, "用户名或密码错误")
		}
		return nil, apperrors.NewSystemError(apperrors.ErrCodeDatabaseError, "查询用户失败").WithCause(err)
	}
	if !user.CheckPassword(password) {
		return nil, apperrors.NewBusinessError(apperrors.ErrCodeAccessDenied, "用户名或密码错误")
	}
	if !user.IsActive {
		return nil, apperrors.NewBusinessError(apperrors.ErrCodeInvalidState, "用户已停用")
	}
	return user, nil
}

// Profile 获取用户档案
func (s *UserService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("用户")
		}
		return nil, apperrors.NewSystemError(apperrors.ErrCodeDatabaseError, "查询用户失败").WithCause(err)
	}
	return user, nil
}
