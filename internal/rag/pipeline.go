package rag

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	apperrors "github.com/ahang1598/ai-interview-assistant/internal/errors"
	"github.com/ahang1598/ai-interview-assistant/internal/logger"
)

// GlobalCollectionName 全局共享知识集合
const GlobalCollectionName = "global"

// UserCollectionName 用户私有知识集合
func UserCollectionName(userID uint) string {
	return fmt.Sprintf("user_%d", userID)
}

// PipelineOptions 管道构造参数
type PipelineOptions struct {
	CollectionName string
	Store          VectorStore
	Embedder       Embedder
	Answerer       *Answerer
	ChunkSize      int
	ChunkOverlap   int
	TopK           int
}

// Pipeline 检索增强问答管道
// 全局、用户、知识库三种范围共用同一实现，唯一差异是集合名。
type Pipeline struct {
	chunker    *Chunker
	collection *Collection
	answerer   *Answerer
	topK       int
}

// NewPipeline 创建管道
// 依赖缺失在构造时立即失败，而不是等到首次调用。
func NewPipeline(opts PipelineOptions) (*Pipeline, error) {
	if opts.CollectionName == "" {
		return nil, apperrors.NewValidationError("集合名不能为空")
	}
	if opts.Store == nil {
		return nil, apperrors.NewConfigurationError(apperrors.ErrCodeConfiguration, "向量存储未配置")
	}
	if opts.Embedder == nil || !opts.Embedder.Ready() {
		return nil, apperrors.NewMissingCredentialError("embedding")
	}
	if opts.Answerer == nil || !opts.Answerer.Ready() {
		return nil, apperrors.NewMissingCredentialError("chat model")
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = 3
	}

	return &Pipeline{
		chunker:    NewChunker(opts.ChunkSize, opts.ChunkOverlap),
		collection: NewCollection(opts.CollectionName, opts.Store, opts.Embedder),
		answerer:   opts.Answerer,
		topK:       topK,
	}, nil
}

// CollectionName 返回管道绑定的集合名
func (p *Pipeline) CollectionName() string {
	return p.collection.Name()
}

// AddDocuments 分块、向量化并写入一批文档，返回写入的chunk数
// 每个chunk获得对应文档元数据的独立副本，未提供元数据时为独立的空map。
func (p *Pipeline) AddDocuments(ctx context.Context, documents []string, metadatas []map[string]interface{}) (int, error) {
	var chunkTexts []string
	var chunkMetas []map[string]interface{}

	for i, doc := range documents {
		for _, chunkText := range p.chunker.Split(doc) {
			metadata := map[string]interface{}{}
			if i < len(metadatas) {
				for k, v := range metadatas[i] {
					metadata[k] = v
				}
			}
			chunkTexts = append(chunkTexts, chunkText)
			chunkMetas = append(chunkMetas, metadata)
		}
	}
	if len(chunkTexts) == 0 {
		return 0, nil
	}

	if err := p.collection.AddTexts(ctx, chunkTexts, chunkMetas); err != nil {
		return 0, err
	}

	logger.Info("文档已写入集合",
		zap.String("collection", p.collection.Name()),
		zap.Int("documents", len(documents)),
		zap.Int("chunks", len(chunkTexts)))
	return len(chunkTexts), nil
}

// Query 基于集合内容回答问题
func (p *Pipeline) Query(ctx context.Context, question string) (string, error) {
	answer, _, err := p.QueryWithSources(ctx, question)
	return answer, err
}

// QueryWithSources 回答问题并返回本次回答实际使用的检索命中
// 只检索一次，返回的命中与送入模型的上下文严格一致。
func (p *Pipeline) QueryWithSources(ctx context.Context, question string) (string, []SearchResult, error) {
	sources, err := p.collection.Search(ctx, question, p.topK)
	if err != nil {
		return "", nil, err
	}

	contexts := make([]string, len(sources))
	for i, source := range sources {
		contexts[i] = source.Text
	}

	answer, err := p.answerer.Answer(ctx, question, contexts)
	if err != nil {
		return "", nil, err
	}
	return answer, sources, nil
}

// SimilaritySearch 直接检索，不经过模型
func (p *Pipeline) SimilaritySearch(ctx context.Context, query string, k int) ([]SearchResult, error) {
	return p.collection.Search(ctx, query, k)
}

// DeleteCollection 删除管道绑定的集合
func (p *Pipeline) DeleteCollection(ctx context.Context) error {
	return p.collection.Delete(ctx)
}

// BestScore 返回命中中的最小距离，空命中返回nil
func BestScore(results []SearchResult) *float64 {
	if len(results) == 0 {
		return nil
	}
	best := results[0].Score
	for _, r := range results[1:] {
		if r.Score < best {
			best = r.Score
		}
	}
	return &best
}
