package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahang1598/ai-interview-assistant/internal/dashscope"
	apperrors "github.com/ahang1598/ai-interview-assistant/internal/errors"
	"github.com/ahang1598/ai-interview-assistant/internal/rag"
	"github.com/ahang1598/ai-interview-assistant/internal/resume"
)

const interviewSystemPrompt = `你是一个专业的技术面试官和职业顾问。你的任务是：
1. 根据候选人的简历提出相关的面试问题
2. 对候选人的回答提供反馈和建议
3. 模拟真实的面试对话
4. 保持专业和友好的态度

请记住：
- 问题应该与候选人的经验和技能相关
- 提供有建设性的反馈
- 避免过于简单或过于困难的问题
- 鼓励候选人详细阐述他们的经验和技能`

const questionPromptTemplate = `基于以下候选人信息生成一个相关的面试问题：

姓名: %s
技能: %s
工作经验: %s年

请提出一个技术问题或行为问题，帮助评估候选人的技能和经验。`

const evaluationPromptTemplate = `作为一个技术面试官，请评估候选人对以下问题的回答：

面试问题: %s
候选人回答: %s
候选人技能: %s

请提供以下内容：
1. 回答的评分（1-10分）
2. 优点
3. 改进建议
4. 如果适用，提供更完整的答案示例`

// InterviewService 模拟面试业务逻辑
type InterviewService struct {
	llm         rag.ChatModel
	model       string
	maxTokens   int
	temperature float64
}

// NewInterviewService 创建面试服务
func NewInterviewService(llm rag.ChatModel, model string, maxTokens int, temperature float64) *InterviewService {
	if model == "" {
		model = "qwen-plus"
	}
	if maxTokens <= 0 {
		maxTokens = 2000
	}
	return &InterviewService{
		llm:         llm,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// GenerateQuestion 根据简历信息生成面试问题
func (s *InterviewService) GenerateQuestion(ctx context.Context, parsed *resume.ParsedResume) (string, error) {
	name := parsed.Name
	if name == "" || name == "未知" {
		name = "候选人"
	}

	prompt := fmt.Sprintf(questionPromptTemplate,
		name,
		strings.Join(parsed.Skills, ", "),
		parsed.ExperienceYears)
	return s.complete(ctx, []dashscope.ChatMessage{
		{Role: "system", Content: interviewSystemPrompt},
		{Role: "user", Content: prompt},
	})
}

// EvaluateAnswer 评估候选人对面试问题的回答
func (s *InterviewService) EvaluateAnswer(ctx context.Context, question, answer string, parsed *resume.ParsedResume) (string, error) {
	var skills []string
	if parsed != nil {
		skills = parsed.Skills
	}

	prompt := fmt.Sprintf(evaluationPromptTemplate, question, answer, strings.Join(skills, ", "))
	return s.complete(ctx, []dashscope.ChatMessage{
		{Role: "system", Content: interviewSystemPrompt},
		{Role: "user", Content: prompt},
	})
}

// Chat 多轮面试对话，历史消息按原顺序传入
func (s *InterviewService) Chat(ctx context.Context, messages []dashscope.ChatMessage) (string, error) {
	chatMessages := make([]dashscope.ChatMessage, 0, len(messages)+1)
	chatMessages = append(chatMessages, dashscope.ChatMessage{Role: "system", Content: interviewSystemPrompt})
	for _, msg := range messages {
		if msg.Role == "user" || msg.Role == "assistant" {
			chatMessages = append(chatMessages, msg)
		}
	}
	return s.complete(ctx, chatMessages)
}

func (s *InterviewService) complete(ctx context.Context, messages []dashscope.ChatMessage) (string, error) {
	resp, err := s.llm.ChatCompletion(ctx, dashscope.ChatRequest{
		Model:       s.model,
		Messages:    messages,
		MaxTokens:   &s.maxTokens,
		Temperature: &s.temperature,
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
