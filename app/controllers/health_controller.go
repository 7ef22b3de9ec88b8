package controllers

import (
	"net/http"

	"github.com/ahang1598/ai-interview-assistant/app/bootstrap"
)

// RootController 服务信息
type RootController struct {
	BaseController
}

// Index 返回服务基本信息
func (c *RootController) Index() {
	c.JSONSuccess(map[string]interface{}{
		"service": "ai-interview-assistant",
		"status":  "running",
	})
}

// HealthController 健康检查
type HealthController struct {
	BaseController
}

// Health 检查核心依赖的可用性
func (c *HealthController) Health() {
	app := bootstrap.GetApp()
	if app == nil {
		c.JSONError(http.StatusServiceUnavailable, "服务未初始化")
		return
	}

	storeReady := app.PipelineFactory().Store().Ready()
	status := http.StatusOK
	if !storeReady {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, map[string]interface{}{
		"status":       "ok",
		"vector_store": storeReady,
	})
}
