package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahang1598/ai-interview-assistant/internal/dashscope"
	apperrors "github.com/ahang1598/ai-interview-assistant/internal/errors"
)

// ChatModel 对话模型能力抽象
type ChatModel interface {
	ChatCompletion(ctx context.Context, req dashscope.ChatRequest) (*dashscope.ChatResponse, error)
	Ready() bool
}

const qaSystemPrompt = "你是一个专业的技术面试官。基于以下已知信息，回答用户的问题。如果已知信息中没有答案，请说明您不知道，不要编造答案。"

const qaPromptTemplate = `已知内容:
{context}

问题:
{question}`

// Answerer 基于检索上下文生成回答
type Answerer struct {
	llm         ChatModel
	model       string
	maxTokens   int
	temperature float64
}

// NewAnswerer 创建回答器
func NewAnswerer(llm ChatModel, model string, maxTokens int, temperature float64) *Answerer {
	if model == "" {
		model = "qwen-plus"
	}
	if maxTokens <= 0 {
		maxTokens = 2000
	}
	return &Answerer{
		llm:         llm,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// Answer 将检索到的上下文拼入提示词并调用模型生成回答
func (a *Answerer) Answer(ctx context.Context, question string, contexts []string) (string, error) {
	prompt := buildQAPrompt(question, contexts)

	resp, err := a.llm.ChatCompletion(ctx, dashscope.ChatRequest{
		Model: a.model,
		Messages: []dashscope.ChatMessage{
			{Role: "system", Content: qaSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   &a.maxTokens,
		Temperature: &a.temperature,
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return "", err
		}
		return "", apperrors.NewModelUnavailableError(err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewModelUnavailableError(fmt.Errorf("模型返回空响应"))
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Ready 检查模型是否可用
func (a *Answerer) Ready() bool {
	return a.llm != nil && a.llm.Ready()
}

// buildQAPrompt 组装问答提示词，检索为空时上下文部分为空字符串
func buildQAPrompt(question string, contexts []string) string {
	contextText := strings.Join(contexts, "\n\n")
	prompt := strings.ReplaceAll(qaPromptTemplate, "{context}", contextText)
	return strings.ReplaceAll(prompt, "{question}", question)
}
