package controllers

import (
	"bytes"
	"io"
	"net/http"

	"github.com/ahang1598/ai-interview-assistant/app/bootstrap"
	"github.com/ahang1598/ai-interview-assistant/internal/dashscope"
	"github.com/ahang1598/ai-interview-assistant/internal/resume"
	"github.com/ahang1598/ai-interview-assistant/internal/services"
)

// EvaluateAnswerRequest 回答评估请求
type EvaluateAnswerRequest struct {
	Question string   `json:"question" validate:"required"`
	Answer   string   `json:"answer" validate:"required"`
	Skills   []string `json:"skills"`
}

// ChatRequest 面试对话请求
type ChatRequest struct {
	Messages []dashscope.ChatMessage `json:"messages" validate:"required,min=1"`
}

// InterviewController 模拟面试控制器
type InterviewController struct {
	BaseController
}

func (c *InterviewController) service() *services.InterviewService {
	return bootstrap.GetApp().InterviewService()
}

// ParseResume 解析上传的简历并返回分析建议
func (c *InterviewController) ParseResume() {
	if _, ok := c.getAuthenticatedUserID(); !ok {
		return
	}

	parsed, ok := c.parseUploadedResume()
	if !ok {
		return
	}

	c.JSONSuccess(map[string]interface{}{
		"parsed":   parsed,
		"analysis": resume.Analyze(parsed),
	})
}

// GenerateQuestion 根据上传的简历生成面试问题
func (c *InterviewController) GenerateQuestion() {
	if _, ok := c.getAuthenticatedUserID(); !ok {
		return
	}

	parsed, ok := c.parseUploadedResume()
	if !ok {
		return
	}

	question, err := c.service().GenerateQuestion(c.Ctx.Request.Context(), parsed)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(map[string]interface{}{
		"question": question,
		"parsed":   parsed,
	})
}

// EvaluateAnswer 评估候选人的回答
func (c *InterviewController) EvaluateAnswer() {
	if _, ok := c.getAuthenticatedUserID(); !ok {
		return
	}

	var req EvaluateAnswerRequest
	if !c.bindJSON(&req) {
		return
	}

	evaluation, err := c.service().EvaluateAnswer(c.Ctx.Request.Context(),
		req.Question, req.Answer, &resume.ParsedResume{Skills: req.Skills})
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(map[string]string{"evaluation": evaluation})
}

// Chat 多轮面试对话
func (c *InterviewController) Chat() {
	if _, ok := c.getAuthenticatedUserID(); !ok {
		return
	}

	var req ChatRequest
	if !c.bindJSON(&req) {
		return
	}

	reply, err := c.service().Chat(c.Ctx.Request.Context(), req.Messages)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(map[string]string{"reply": reply})
}

// parseUploadedResume 读取multipart上传的简历文件并解析
func (c *InterviewController) parseUploadedResume() (*resume.ParsedResume, bool) {
	file, header, err := c.GetFile("file")
	if err != nil {
		c.JSONError(http.StatusBadRequest, "缺少上传文件")
		return nil, false
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSONError(http.StatusBadRequest, "读取上传文件失败")
		return nil, false
	}

	parsed, err := resume.Parse(bytes.NewReader(content), header.Filename)
	if err != nil {
		c.JSONError(http.StatusBadRequest, err.Error())
		return nil, false
	}
	return parsed, true
}
