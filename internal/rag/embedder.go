package rag

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ahang1598/ai-interview-assistant/internal/dashscope"
	apperrors "github.com/ahang1598/ai-interview-assistant/internal/errors"
)

// Embedder 将文本编码为向量
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
	Ready() bool
}

// embeddingDimensions 常见嵌入模型的输出维度
var embeddingDimensions = map[string]int{
	"text-embedding-v3":      1024,
	"text-embedding-v2":      1536,
	"text-embedding-ada-002": 1536,
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
}

// DashScopeEmbedder 使用DashScope嵌入服务
type DashScopeEmbedder struct {
	service    *dashscope.Service
	model      string
	dimensions int
}

// NewDashScopeEmbedder 创建DashScope嵌入器，service为nil表示凭证缺失
func NewDashScopeEmbedder(service *dashscope.Service, model string, dimensions int) *DashScopeEmbedder {
	if model == "" {
		model = "text-embedding-v3"
	}
	if dimensions <= 0 {
		if d, ok := embeddingDimensions[model]; ok {
			dimensions = d
		} else {
			dimensions = 1024
		}
	}
	return &DashScopeEmbedder{
		service:    service,
		model:      model,
		dimensions: dimensions,
	}
}

// Embed 生成文本向量
func (e *DashScopeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.service == nil {
		return nil, apperrors.NewMissingCredentialError("embedding")
	}

	dims := e.dimensions
	resp, err := e.service.CreateEmbeddings(ctx, dashscope.EmbeddingRequest{
		Model:      e.model,
		Input:      []string{text},
		Dimensions: &dims,
	})
	if err != nil {
		return nil, apperrors.NewEmbeddingUnavailableError(err)
	}
	if len(resp.Data) == 0 {
		return nil, apperrors.NewEmbeddingUnavailableError(fmt.Errorf("嵌入服务返回空结果"))
	}

	raw := resp.Data[0].Embedding
	vector := make([]float32, len(raw))
	for i, v := range raw {
		vector[i] = float32(v)
	}
	return vector, nil
}

// Dimensions 返回向量维度
func (e *DashScopeEmbedder) Dimensions() int {
	return e.dimensions
}

// Ready 检查嵌入器是否可用
func (e *DashScopeEmbedder) Ready() bool {
	return e.service != nil && e.service.Ready()
}

// OpenAIEmbedder 使用OpenAI兼容接口的嵌入器
type OpenAIEmbedder struct {
	client     *openai.Client
	model      string
	dimensions int
}

// NewOpenAIEmbedder 创建OpenAI嵌入器
func NewOpenAIEmbedder(apiKey, baseURL, model string) *OpenAIEmbedder {
	if apiKey == "" {
		return &OpenAIEmbedder{model: model}
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = "text-embedding-3-small"
	}

	dimensions := 1536
	if d, ok := embeddingDimensions[model]; ok {
		dimensions = d
	}

	return &OpenAIEmbedder{
		client:     openai.NewClientWithConfig(cfg),
		model:      model,
		dimensions: dimensions,
	}
}

// Embed 生成文本向量
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.client == nil {
		return nil, apperrors.NewMissingCredentialError("embedding")
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, apperrors.NewEmbeddingUnavailableError(err)
	}
	if len(resp.Data) == 0 {
		return nil, apperrors.NewEmbeddingUnavailableError(fmt.Errorf("嵌入服务返回空结果"))
	}
	return resp.Data[0].Embedding, nil
}

// Dimensions 返回向量维度
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}

// Ready 检查嵌入器是否可用
func (e *OpenAIEmbedder) Ready() bool {
	return e.client != nil
}

// HashEmbedder 基于词哈希的确定性嵌入器，用于测试和离线环境
// 不依赖外部服务，相同文本永远产生相同向量。
type HashEmbedder struct {
	dimensions int
}

// NewHashEmbedder 创建哈希嵌入器
func NewHashEmbedder(dimensions int) *HashEmbedder {
	if dimensions <= 0 {
		dimensions = 64
	}
	return &HashEmbedder{dimensions: dimensions}
}

// Embed 生成文本向量
func (e *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vector := make([]float32, e.dimensions)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(token))
		vector[int(h.Sum32())%e.dimensions]++
	}

	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vector {
			vector[i] *= scale
		}
	}
	return vector, nil
}

// Dimensions 返回向量维度
func (e *HashEmbedder) Dimensions() int {
	return e.dimensions
}

// Ready 检查嵌入器是否可用
func (e *HashEmbedder) Ready() bool {
	return true
}

// NoopEmbedder 空嵌入器，显式禁用嵌入能力时使用
type NoopEmbedder struct{}

// Embed 始终返回凭证缺失错误
func (e *NoopEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return nil, apperrors.NewMissingCredentialError("embedding")
}

// Dimensions 返回向量维度
func (e *NoopEmbedder) Dimensions() int {
	return 0
}

// Ready 检查嵌入器是否可用
func (e *NoopEmbedder) Ready() bool {
	return false
}
