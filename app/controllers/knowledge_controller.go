package controllers

import (
	"github.com/ahang1598/ai-interview-assistant/app/bootstrap"
	"github.com/ahang1598/ai-interview-assistant/internal/services"
)

// KnowledgeController 全局与用户级知识集合控制器
type KnowledgeController struct {
	BaseController
}

func (c *KnowledgeController) service() *services.KnowledgeService {
	return bootstrap.GetApp().KnowledgeService()
}

// AddGlobalDocuments 向全局共享集合添加文档
func (c *KnowledgeController) AddGlobalDocuments() {
	if _, ok := c.getAuthenticatedUserID(); !ok {
		return
	}

	var req AddDocumentsRequest
	if !c.bindJSON(&req) {
		return
	}

	if err := c.service().AddGlobalDocuments(c.Ctx.Request.Context(), req.Documents, req.Metadatas); err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(map[string]string{"message": "文档已添加"})
}

// QueryGlobal 查询全局集合
func (c *KnowledgeController) QueryGlobal() {
	userID, ok := c.getAuthenticatedUserID()
	if !ok {
		return
	}

	var req QueryRequest
	if !c.bindJSON(&req) {
		return
	}

	result, err := c.service().QueryGlobal(c.Ctx.Request.Context(), userID, req.Question)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(result)
}

// SearchGlobal 在全局集合做相似度检索
func (c *KnowledgeController) SearchGlobal() {
	if _, ok := c.getAuthenticatedUserID(); !ok {
		return
	}

	var req SearchRequest
	if !c.bindJSON(&req) {
		return
	}
	if req.K <= 0 {
		req.K = 3
	}

	results, err := c.service().SearchGlobal(c.Ctx.Request.Context(), req.Query, req.K)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(map[string]interface{}{"results": results})
}

// AddUserDocuments 向当前用户的私有集合添加文档
func (c *KnowledgeController) AddUserDocuments() {
	userID, ok := c.getAuthenticatedUserID()
	if !ok {
		return
	}

	var req AddDocumentsRequest
	if !c.bindJSON(&req) {
		return
	}

	if err := c.service().AddUserDocuments(c.Ctx.Request.Context(), userID, req.Documents, req.Metadatas); err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(map[string]string{"message": "文档已添加"})
}

// QueryUser 查询当前用户的私有集合
func (c *KnowledgeController) QueryUser() {
	userID, ok := c.getAuthenticatedUserID()
	if !ok {
		return
	}

	var req QueryRequest
	if !c.bindJSON(&req) {
		return
	}

	result, err := c.service().QueryUser(c.Ctx.Request.Context(), userID, req.Question)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(result)
}

// SearchUser 在当前用户的私有集合做相似度检索
func (c *KnowledgeController) SearchUser() {
	userID, ok := c.getAuthenticatedUserID()
	if !ok {
		return
	}

	var req SearchRequest
	if !c.bindJSON(&req) {
		return
	}
	if req.K <= 0 {
		req.K = 3
	}

	results, err := c.service().SearchUser(c.Ctx.Request.Context(), userID, req.Query, req.K)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(map[string]interface{}{"results": results})
}

// DeleteUserCollection 清空当前用户的私有集合
func (c *KnowledgeController) DeleteUserCollection() {
	userID, ok := c.getAuthenticatedUserID()
	if !ok {
		return
	}

	if err := c.service().DeleteUserCollection(c.Ctx.Request.Context(), userID); err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(map[string]string{"message": "用户集合已删除"})
}
