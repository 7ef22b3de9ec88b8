package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ahang1598/ai-interview-assistant/internal/models"
)

// Repository 基础仓库接口
type Repository interface {
	GetDB() *gorm.DB
}

// KnowledgeBaseRepository 知识库仓库接口
type KnowledgeBaseRepository interface {
	Repository
	Create(ctx context.Context, kb *models.KnowledgeBase) error
	GetByID(ctx context.Context, id uint, userID uint) (*models.KnowledgeBase, error)
	GetByUserID(ctx context.Context, userID uint, page, limit int, search string) ([]models.KnowledgeBase, int64, error)
	Update(ctx context.Context, id uint, userID uint, updates map[string]interface{}) error
	Delete(ctx context.Context, id uint, userID uint) error
}

// QueryHistoryRepository 查询历史仓库接口
type QueryHistoryRepository interface {
	Repository
	Create(ctx context.Context, history *models.QueryHistory) error
	GetByUserID(ctx context.Context, userID uint, page, limit int) ([]models.QueryHistory, int64, error)
}

// UserRepository 用户仓库接口
type UserRepository interface {
	Repository
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
