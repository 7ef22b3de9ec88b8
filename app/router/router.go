package router

import (
	"github.com/beego/beego/v2/server/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ahang1598/ai-interview-assistant/app/controllers"
)

// Init registers all routes. Must be called after bootstrap.Init.
func Init() {
	web.Router("/", &controllers.RootController{}, "get:Index")
	web.Router("/health", &controllers.HealthController{}, "get:Health")
	web.Handler("/metrics", promhttp.Handler())

	// 用户路由
	userController := &controllers.UserController{}
	web.Router("/api/users/register", userController, "post:Register")
	web.Router("/api/users/login", userController, "post:Login")
	web.Router("/api/users/me", userController, "get:Me")

	// 多知识库路由
	kbController := &controllers.KnowledgeBaseController{}
	web.Router("/api/knowledge-bases", kbController, "get:List;post:Create")
	web.Router("/api/knowledge-bases/history", kbController, "get:History")
	// 注意：具体路由必须在参数路由之前，否则/history会被:id匹配
	web.Router("/api/knowledge-bases/:id", kbController, "get:Get;put:Update;delete:Delete")
	web.Router("/api/knowledge-bases/:id/documents/add", kbController, "post:AddDocuments")
	web.Router("/api/knowledge-bases/:id/documents/add_from_resume", kbController, "post:AddResume")
	web.Router("/api/knowledge-bases/:id/query", kbController, "post:Query")
	web.Router("/api/knowledge-bases/:id/search", kbController, "post:Search")

	// 全局/用户集合路由
	knowledgeController := &controllers.KnowledgeController{}
	web.Router("/api/knowledge/global/documents", knowledgeController, "post:AddGlobalDocuments")
	web.Router("/api/knowledge/global/query", knowledgeController, "post:QueryGlobal")
	web.Router("/api/knowledge/global/search", knowledgeController, "post:SearchGlobal")
	web.Router("/api/knowledge/user/documents", knowledgeController, "post:AddUserDocuments")
	web.Router("/api/knowledge/user/query", knowledgeController, "post:QueryUser")
	web.Router("/api/knowledge/user/search", knowledgeController, "post:SearchUser")
	web.Router("/api/knowledge/user/collection", knowledgeController, "delete:DeleteUserCollection")

	// 面试路由
	interviewController := &controllers.InterviewController{}
	web.Router("/api/interview/resume/parse", interviewController, "post:ParseResume")
	web.Router("/api/interview/question", interviewController, "post:GenerateQuestion")
	web.Router("/api/interview/evaluate", interviewController, "post:EvaluateAnswer")
	web.Router("/api/interview/chat", interviewController, "post:Chat")
}
