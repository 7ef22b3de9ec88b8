package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User 用户表
type User struct {
	UserID         uint      `gorm:"primaryKey;column:user_id" json:"user_id"`
	Username       string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email          string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	HashedPassword string    `gorm:"column:hashed_password;size:255;not null" json:"-"`
	IsActive       bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreateTime     time.Time `gorm:"column:create_time;autoCreateTime" json:"create_time"`
	UpdateTime     time.Time `gorm:"column:update_time;autoUpdateTime" json:"update_time"`

	// 关系
	KnowledgeBases []KnowledgeBase `gorm:"foreignKey:UserID" json:"-"`
	QueryHistories []QueryHistory  `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// SetPassword 使用bcrypt哈希并保存密码
func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.HashedPassword = string(hashed)
	return nil
}

// CheckPassword 校验明文密码
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password)) == nil
}
