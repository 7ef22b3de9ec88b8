package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ahang1598/ai-interview-assistant/internal/models"
)

// knowledgeBaseRepository 知识库仓库实现
type knowledgeBaseRepository struct {
	db *gorm.DB
}

// NewKnowledgeBaseRepository 创建知识库仓库
func NewKnowledgeBaseRepository(db *gorm.DB) KnowledgeBaseRepository {
	return &knowledgeBaseRepository{db: db}
}

// GetDB 获取数据库连接
func (r *knowledgeBaseRepository) GetDB() *gorm.DB {
	return r.db
}

// Create 创建知识库
func (r *knowledgeBaseRepository) Create(ctx context.Context, kb *models.KnowledgeBase) error {
	return r.db.WithContext(ctx).Create(kb).Error
}

// GetByID 根据ID获取用户名下的知识库
func (r *knowledgeBaseRepository) GetByID(ctx context.Context, id uint, userID uint) (*models.KnowledgeBase, error) {
	var kb models.KnowledgeBase
	err := r.db.WithContext(ctx).
		Where("knowledge_base_id = ? AND user_id = ?", id, userID).
		First(&kb).Error
	if err != nil {
		return nil, err
	}
	return &kb, nil
}

// GetByUserID 分页获取用户的知识库列表
func (r *knowledgeBaseRepository) GetByUserID(ctx context.Context, userID uint, page, limit int, search string) ([]models.KnowledgeBase, int64, error) {
	var knowledgeBases []models.KnowledgeBase
	var total int64

	query := r.db.WithContext(ctx).Model(&models.KnowledgeBase{}).Where("user_id = ?", userID)
	if search != "" {
		query = query.Where("name ILIKE ? OR description ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("create_time DESC").Offset(offset).Limit(limit).Find(&knowledgeBases).Error; err != nil {
		return nil, 0, err
	}

	return knowledgeBases, total, nil
}

// Update 更新用户名下的知识库
func (r *knowledgeBaseRepository) Update(ctx context.Context, id uint, userID uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.KnowledgeBase{}).
		Where("knowledge_base_id = ? AND user_id = ?", id, userID).
		Updates(updates).Error
}

// Delete 删除用户名下的知识库
func (r *knowledgeBaseRepository) Delete(ctx context.Context, id uint, userID uint) error {
	return r.db.WithContext(ctx).
		Where("knowledge_base_id = ? AND user_id = ?", id, userID).
		Delete(&models.KnowledgeBase{}).Error
}
