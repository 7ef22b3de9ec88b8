package models

import (
	"time"
)

// KnowledgeBase 知识库表
// CollectionName是向量存储中集合的唯一标识，删除知识库时据此清理向量数据。
type KnowledgeBase struct {
	KnowledgeBaseID uint      `gorm:"primaryKey;column:knowledge_base_id" json:"knowledge_base_id"`
	UserID          uint      `gorm:"column:user_id;not null;index" json:"user_id"`
	User            User      `gorm:"foreignKey:UserID" json:"-"`
	Name            string    `gorm:"size:200;not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	CollectionName  string    `gorm:"column:collection_name;size:100;not null;uniqueIndex" json:"collection_name"`
	IsActive        bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreateTime      time.Time `gorm:"column:create_time;autoCreateTime" json:"create_time"`
	UpdateTime      time.Time `gorm:"column:update_time;autoUpdateTime" json:"update_time"`
}

func (KnowledgeBase) TableName() string {
	return "knowledge_bases"
}

// QueryHistory 查询历史表
// SimilarityScore为本次回答实际使用的检索命中中的最小距离，检索为空时为NULL。
type QueryHistory struct {
	QueryHistoryID  uint           `gorm:"primaryKey;column:query_history_id" json:"query_history_id"`
	UserID          uint           `gorm:"column:user_id;not null;index" json:"user_id"`
	User            User           `gorm:"foreignKey:UserID" json:"-"`
	KnowledgeBaseID *uint          `gorm:"column:knowledge_base_id;index" json:"knowledge_base_id"`
	KnowledgeBase   *KnowledgeBase `gorm:"foreignKey:KnowledgeBaseID" json:"-"`
	Query           string         `gorm:"type:text;not null" json:"query"`
	Answer          string         `gorm:"type:text" json:"answer"`
	SimilarityScore *float64       `gorm:"column:similarity_score" json:"similarity_score"`
	CreateTime      time.Time      `gorm:"column:create_time;autoCreateTime" json:"create_time"`
}

func (QueryHistory) TableName() string {
	return "query_history"
}
