package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahang1598/ai-interview-assistant/internal/dashscope"
	"github.com/ahang1598/ai-interview-assistant/internal/resume"
)

func TestInterviewServiceGenerateQuestion(t *testing.T) {
	// fakeChatModel回显提示词，便于断言内容
	service := NewInterviewService(&fakeChatModel{}, "qwen-plus", 2000, 0.7)

	parsed := &resume.ParsedResume{
		Name:            "John Smith",
		Skills:          []string{"Go", "Docker"},
		ExperienceYears: "5",
	}
	question, err := service.GenerateQuestion(context.Background(), parsed)
	require.NoError(t, err)

	assert.Contains(t, question, "John Smith")
	assert.Contains(t, question, "Go, Docker")
	assert.Contains(t, question, "5年")
}

func TestInterviewServiceGenerateQuestionUnknownName(t *testing.T) {
	service := NewInterviewService(&fakeChatModel{}, "qwen-plus", 2000, 0.7)

	prompt, err := service.GenerateQuestion(context.Background(), &resume.ParsedResume{Name: "未知"})
	require.NoError(t, err)
	assert.Contains(t, prompt, "候选人")
}

func TestInterviewServiceEvaluateAnswer(t *testing.T) {
	service := NewInterviewService(&fakeChatModel{}, "qwen-plus", 2000, 0.7)

	evaluation, err := service.EvaluateAnswer(context.Background(),
		"请介绍一下Go的并发模型",
		"Go使用goroutine和channel实现CSP并发",
		&resume.ParsedResume{Skills: []string{"Go"}})
	require.NoError(t, err)

	assert.Contains(t, evaluation, "请介绍一下Go的并发模型")
	assert.Contains(t, evaluation, "goroutine")
}

func TestInterviewServiceChatFiltersRoles(t *testing.T) {
	service := NewInterviewService(&fakeChatModel{answer: "好的，我们开始面试。"}, "qwen-plus", 2000, 0.7)

	reply, err := service.Chat(context.Background(), []dashscope.ChatMessage{
		{Role: "system", Content: "应被忽略的系统消息"},
		{Role: "user", Content: "你好"},
		{Role: "assistant", Content: "你好，请做自我介绍"},
		{Role: "user", Content: "我是一名后端工程师"},
	})
	require.NoError(t, err)
	assert.Equal(t, "好的，我们开始面试。", reply)
}
