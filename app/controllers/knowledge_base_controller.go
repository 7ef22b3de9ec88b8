package controllers

import (
	"bytes"
	"io"
	"net/http"

	"github.com/ahang1598/ai-interview-assistant/app/bootstrap"
	"github.com/ahang1598/ai-interview-assistant/internal/services"
)

// CreateKnowledgeBaseRequest 创建知识库请求
type CreateKnowledgeBaseRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateKnowledgeBaseRequest 更新知识库请求
type UpdateKnowledgeBaseRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	IsActive    *bool   `json:"is_active"`
}

// AddDocumentsRequest 添加文档请求
type AddDocumentsRequest struct {
	Documents []string                 `json:"documents" validate:"required,min=1,dive,required"`
	Metadatas []map[string]interface{} `json:"metadatas" validate:"omitempty"`
}

// QueryRequest 问答请求
type QueryRequest struct {
	Question string `json:"question" validate:"required"`
}

// SearchRequest 相似度检索请求
type SearchRequest struct {
	Query string `json:"query" validate:"required"`
	K     int    `json:"k" validate:"omitempty,min=1,max=50"`
}

// KnowledgeBaseController 知识库控制器
type KnowledgeBaseController struct {
	BaseController
}

func (c *KnowledgeBaseController) service() *services.KnowledgeBaseService {
	return bootstrap.GetApp().KnowledgeBaseService()
}

// List 获取当前用户的知识库列表
func (c *KnowledgeBaseController) List() {
	userID, ok := c.getAuthenticatedUserID()
	if !ok {
		return
	}

	page := c.intQuery("page", 1)
	limit := c.intQuery("limit", 20)
	search := c.GetString("search")

	bases, total, err := c.service().List(c.Ctx.Request.Context(), userID, page, limit, search)
	if err != nil {
		c.JSONAppError(err)
		return
	}

	c.JSONSuccess(map[string]interface{}{
		"knowledge_bases": bases,
		"total":           total,
		"page":            page,
		"limit":           limit,
	})
}

// Create 创建知识库
func (c *KnowledgeBaseController) Create() {
	userID, ok := c.getAuthenticatedUserID()
	if !ok {
		return
	}

	var req CreateKnowledgeBaseRequest
	if !c.bindJSON(&req) {
		return
	}

	kb, err := c.service().Create(c.Ctx.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(kb)
}

// Get 获取知识库详情
func (c *KnowledgeBaseController) Get() {
	userID, ok := c.getAuthenticatedUserID()
	if !ok {
		return
	}
	kbID, ok := c.mustParseUintParam(":id")
	if !ok {
		return
	}

	kb, err := c.service().Get(c.Ctx.Request.Context(), kbID, userID)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(kb)
}

// Update 更新知识库
func (c *KnowledgeBaseController) Update() {
	userID, ok := c.getAuthenticatedUserID()
	if !ok {
		return
	}
	kbID, ok := c.mustParseUintParam(":id")
	if !ok {
		return
	}

	var req UpdateKnowledgeBaseRequest
	if !c.bindJSON(&req) {
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	kb, err := c.service().Update(c.Ctx.Request.Context(), kbID, userID, updates)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(kb)
}

// Delete 删除知识库及其向量集合
func (c *KnowledgeBaseController) Delete() {
	userID, ok := c.getAuthenticatedUserID()
	if !ok {
		return
	}
	kbID, ok := c.mustParseUintParam(":id")
	if !ok {
		return
	}

	if err := c.service().Delete(c.Ctx.Request.Context(), kbID, userID); err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(map[string]string{"message": "知识库已删除"})
}

// AddDocuments 向知识库添加文档
func (c *KnowledgeBaseController) AddDocuments() {
	userID, ok := c.getAuthenticatedUserID()
	if !ok {
		return
	}
	kbID, ok := c.mustParseUintParam(":id")
	if !ok {
		return
	}

	var req AddDocumentsRequest
	if !c.bindJSON(&req) {
		return
	}

	if err := c.service().AddDocuments(c.Ctx.Request.Context(), kbID, userID, req.Documents, req.Metadatas); err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(map[string]string{"message": "文档已添加到知识库"})
}

// AddResume 上传简历并入库
func (c *KnowledgeBaseController) AddResume() {
	userID, ok := c.getAuthenticatedUserID()
	if !ok {
		return
	}
	kbID, ok := c.mustParseUintParam(":id")
	if !ok {
		return
	}

	file, header, err := c.GetFile("file")
	if err != nil {
		c.JSONError(http.StatusBadRequest, "缺少上传文件")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSONError(http.StatusBadRequest, "读取上传文件失败")
		return
	}

	result, err := c.service().AddResume(c.Ctx.Request.Context(), kbID, userID, bytes.NewReader(content), header.Filename)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(result)
}

// Query 问答查询
func (c *KnowledgeBaseController) Query() {
	userID, ok := c.getAuthenticatedUserID()
	if !ok {
		return
	}
	kbID, ok := c.mustParseUintParam(":id")
	if !ok {
		return
	}

	var req QueryRequest
	if !c.bindJSON(&req) {
		return
	}

	result, err := c.service().Query(c.Ctx.Request.Context(), kbID, userID, req.Question)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(result)
}

// Search 相似度检索
func (c *KnowledgeBaseController) Search() {
	userID, ok := c.getAuthenticatedUserID()
	if !ok {
		return
	}
	kbID, ok := c.mustParseUintParam(":id")
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

	results, err := c.service().Search(c.Ctx.Request.Context(), kbID, userID, req.Query, req.K)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(map[string]interface{}{"results": results})
}

// History 获取当前用户的查询历史
func (c *KnowledgeBaseController) History() {
	userID, ok := c.getAuthenticatedUserID()
	if !ok {
		return
	}

	page := c.intQuery("page", 1)
	limit := c.intQuery("limit", 20)

	histories, total, err := c.service().History(c.Ctx.Request.Context(), userID, page, limit)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(map[string]interface{}{
		"history": histories,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}
