package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ahang1598/ai-interview-assistant/internal/models"
)

// queryHistoryRepository 查询历史仓库实现
type queryHistoryRepository struct {
	db *gorm.DB
}

// NewQueryHistoryRepository 创建查询历史仓库
func NewQueryHistoryRepository(db *gorm.DB) QueryHistoryRepository {
	return &queryHistoryRepository{db: db}
}

// GetDB 获取数据库连接
func (r *queryHistoryRepository) GetDB() *gorm.DB {
	return r.db
}

// Create 记录一条查询历史
func (r *queryHistoryRepository) Create(ctx context.Context, history *models.QueryHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

// GetByUserID 分页获取用户的查询历史，按时间倒序
func (r *queryHistoryRepository) GetByUserID(ctx context.Context, userID uint, page, limit int) ([]models.QueryHistory, int64, error) {
	var histories []models.QueryHistory
	var total int64

	query := r.db.WithContext(ctx).Model(&models.QueryHistory{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("create_time DESC").Offset(offset).Limit(limit).Find(&histories).Error; err != nil {
		return nil, 0, err
	}

	return histories, total, nil
}
