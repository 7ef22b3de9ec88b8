package services

import (
	"context"
	"time"

	"github.com/ahang1598/ai-interview-assistant/internal/logger"
	"github.com/ahang1598/ai-interview-assistant/internal/metrics"
	"github.com/ahang1598/ai-interview-assistant/internal/models"
	"github.com/ahang1598/ai-interview-assistant/internal/rag"
	"github.com/ahang1598/ai-interview-assistant/internal/repository"

	"go.uber.org/zap"
)

// KnowledgeService 全局与用户级知识集合的问答服务
// 与KnowledgeBaseService的区别仅在集合命名：这里的集合不对应数据库记录。
type KnowledgeService struct {
	factory     *PipelineFactory
	historyRepo repository.QueryHistoryRepository
}

// NewKnowledgeService 创建知识服务
func NewKnowledgeService(factory *PipelineFactory, historyRepo repository.QueryHistoryRepository) *KnowledgeService {
	return &KnowledgeService{
		factory:     factory,
		historyRepo: historyRepo,
	}
}

// AddGlobalDocuments 向全局共享集合写入文档
func (s *KnowledgeService) AddGlobalDocuments(ctx context.Context, documents []string, metadatas []map[string]interface{}) error {
	return s.addDocuments(ctx, rag.GlobalCollectionName, documents, metadatas)
}

// AddUserDocuments 向用户私有集合写入文档
func (s *KnowledgeService) AddUserDocuments(ctx context.Context, userID uint, documents []string, metadatas []map[string]interface{}) error {
	return s.addDocuments(ctx, rag.UserCollectionName(userID), documents, metadatas)
}

// QueryGlobal 查询全局集合
func (s *KnowledgeService) QueryGlobal(ctx context.Context, userID uint, question string) (*QueryResult, error) {
	return s.query(ctx, rag.GlobalCollectionName, userID, question)
}

// QueryUser 查询用户私有集合
func (s *KnowledgeService) QueryUser(ctx context.Context, userID uint, question string) (*QueryResult, error) {
	return s.query(ctx, rag.UserCollectionName(userID), userID, question)
}

// SearchGlobal 在全局集合做相似度检索
func (s *KnowledgeService) SearchGlobal(ctx context.Context, query string, k int) ([]rag.SearchResult, error) {
	return s.search(ctx, rag.GlobalCollectionName, query, k)
}

// SearchUser 在用户私有集合做相似度检索
func (s *KnowledgeService) SearchUser(ctx context.Context, userID uint, query string, k int) ([]rag.SearchResult, error) {
	return s.search(ctx, rag.UserCollectionName(userID), query, k)
}

// DeleteUserCollection 删除用户私有集合，不存在时静默成功
func (s *KnowledgeService) DeleteUserCollection(ctx context.Context, userID uint) error {
	return s.factory.Store().DropCollection(ctx, rag.UserCollectionName(userID))
}

func (s *KnowledgeService) addDocuments(ctx context.Context, collection string, documents []string, metadatas []map[string]interface{}) error {
	pipeline, err := s.factory.PipelineFor(collection)
	if err != nil {
		return err
	}
	chunks, err := pipeline.AddDocuments(ctx, documents, metadatas)
	if err != nil {
		return err
	}
	metrics.DocumentsIngested.WithLabelValues(collection).Add(float64(len(documents)))
	metrics.ChunksIngested.WithLabelValues(collection).Add(float64(chunks))
	return nil
}

func (s *KnowledgeService) query(ctx context.Context, collection string, userID uint, question string) (*QueryResult, error) {
	pipeline, err := s.factory.PipelineFor(collection)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	answer, sources, err := pipeline.QueryWithSources(ctx, question)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues(collection, "error").Inc()
		return nil, err
	}
	metrics.QueriesTotal.WithLabelValues(collection, "success").Inc()
	metrics.QueryDuration.WithLabelValues(collection).Observe(time.Since(start).Seconds())
	metrics.RetrievalHits.WithLabelValues(collection).Observe(float64(len(sources)))

	history := &models.QueryHistory{
		UserID:          userID,
		Query:           question,
		Answer:          answer,
		SimilarityScore: rag.BestScore(sources),
	}
	if err := s.historyRepo.Create(ctx, history); err != nil {
		logger.Error("查询历史写入失败", zap.Error(err))
	}

	return &QueryResult{Answer: answer, SourceDocuments: sources}, nil
}

func (s *KnowledgeService) search(ctx context.Context, collection, query string, k int) ([]rag.SearchResult, error) {
	pipeline, err := s.factory.PipelineFor(collection)
	if err != nil {
		return nil, err
	}
	return pipeline.SimilaritySearch(ctx, query, k)
}
