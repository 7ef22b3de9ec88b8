package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ahang1598/ai-interview-assistant/internal/config"
	"github.com/ahang1598/ai-interview-assistant/internal/logger"
	"github.com/ahang1598/ai-interview-assistant/internal/models"
)

var DB *gorm.DB

// InitDB 建立数据库连接并执行迁移
func InitDB() (*gorm.DB, error) {
	cfg := config.AppConfig
	if cfg == nil {
		return nil, fmt.Errorf("配置未加载")
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.URL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接失败: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	DB = db
	logger.Info("数据库连接成功", zap.String("driver", "postgres"))
	return db, nil
}

// autoMigrate 按依赖顺序迁移业务表
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.KnowledgeBase{},
		&models.QueryHistory{},
	)
}
