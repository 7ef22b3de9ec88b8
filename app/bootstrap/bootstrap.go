package bootstrap

import (
	"fmt"

	"go.uber.org/dig"
	"gorm.io/gorm"

	"github.com/ahang1598/ai-interview-assistant/internal/config"
	"github.com/ahang1598/ai-interview-assistant/internal/database"
	"github.com/ahang1598/ai-interview-assistant/internal/logger"
	"github.com/ahang1598/ai-interview-assistant/internal/repository"
	"github.com/ahang1598/ai-interview-assistant/internal/services"
)

// App 持有进程级共享的服务实例
// beego按类型反射创建controller，controller通过GetApp访问服务。
type App struct {
	cfg              *config.Config
	db               *gorm.DB
	factory          *services.PipelineFactory
	kbService        *services.KnowledgeBaseService
	knowledgeService *services.KnowledgeService
	interviewService *services.InterviewService
	userService      *services.UserService
}

var globalApp *App

// GetApp 返回全局应用实例
func GetApp() *App {
	return globalApp
}

// Config 返回配置
func (a *App) Config() *config.Config {
	return a.cfg
}

// DB 返回数据库连接
func (a *App) DB() *gorm.DB {
	return a.db
}

// PipelineFactory 返回问答管道工厂
func (a *App) PipelineFactory() *services.PipelineFactory {
	return a.factory
}

// KnowledgeBaseService 返回知识库服务
func (a *App) KnowledgeBaseService() *services.KnowledgeBaseService {
	return a.kbService
}

// KnowledgeService 返回全局/用户集合服务
func (a *App) KnowledgeService() *services.KnowledgeService {
	return a.knowledgeService
}

// InterviewService 返回面试服务
func (a *App) InterviewService() *services.InterviewService {
	return a.interviewService
}

// UserService 返回用户服务
func (a *App) UserService() *services.UserService {
	return a.userService
}

// Init 初始化配置、日志、数据库和业务服务
func Init() (*App, error) {
	if err := config.LoadConfig(); err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	if err := logger.InitLogger(); err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	container := dig.New()

	providers := []interface{}{
		config.GetAppConfig,
		database.InitDB,
		repository.NewKnowledgeBaseRepository,
		repository.NewQueryHistoryRepository,
		repository.NewUserRepository,
		services.NewPipelineFactory,
		services.NewKnowledgeBaseService,
		services.NewKnowledgeService,
		services.NewUserService,
		newInterviewService,
	}
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return nil, fmt.Errorf("注册依赖失败: %w", err)
		}
	}

	app := &App{}
	err := container.Invoke(func(
		cfg *config.Config,
		db *gorm.DB,
		factory *services.PipelineFactory,
		kbService *services.KnowledgeBaseService,
		knowledgeService *services.KnowledgeService,
		interviewService *services.InterviewService,
		userService *services.UserService,
	) {
		app.cfg = cfg
		app.db = db
		app.factory = factory
		app.kbService = kbService
		app.knowledgeService = knowledgeService
		app.interviewService = interviewService
		app.userService = userService
	})
	if err != nil {
		return nil, fmt.Errorf("构建依赖失败: %w", err)
	}

	globalApp = app
	return app, nil
}

// newInterviewService 面试服务与问答管道共享同一个DashScope凭证
func newInterviewService(cfg *config.Config, factory *services.PipelineFactory) *services.InterviewService {
	return services.NewInterviewService(factory.ChatModel(), cfg.AI.ChatModel, cfg.AI.MaxTokens, cfg.AI.Temperature)
}

// Shutdown 释放进程资源
func (a *App) Shutdown() {
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	logger.Sync()
}
