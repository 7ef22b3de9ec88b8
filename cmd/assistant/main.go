package main

import (
	"log"
	"strconv"

	"github.com/beego/beego/v2/server/web"
	"go.uber.org/zap"

	"github.com/ahang1598/ai-interview-assistant/app/bootstrap"
	"github.com/ahang1598/ai-interview-assistant/app/router"
	"github.com/ahang1598/ai-interview-assistant/internal/logger"
)

func main() {
	app, err := bootstrap.Init()
	if err != nil {
		log.Fatalf("failed to bootstrap application: %v", err)
	}
	defer app.Shutdown()

	router.Init()

	web.BConfig.AppName = "AI Interview Assistant"
	web.BConfig.CopyRequestBody = true
	if port, err := strconv.Atoi(app.Config().Server.Port); err == nil {
		web.BConfig.Listen.HTTPPort = port
	} else {
		web.BConfig.Listen.HTTPPort = 8000
	}

	logger.Info("🚀 Starting AI Interview Assistant", zap.Int("port", web.BConfig.Listen.HTTPPort))
	web.Run()
}
