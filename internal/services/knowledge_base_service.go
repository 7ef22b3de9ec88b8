package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/ahang1598/ai-interview-assistant/internal/errors"
	"github.com/ahang1598/ai-interview-assistant/internal/logger"
	"github.com/ahang1598/ai-interview-assistant/internal/metrics"
	"github.com/ahang1598/ai-interview-assistant/internal/models"
	"github.com/ahang1598/ai-interview-assistant/internal/rag"
	"github.com/ahang1598/ai-interview-assistant/internal/repository"
	"github.com/ahang1598/ai-interview-assistant/internal/resume"
)

// QueryResult 知识库问答结果
type QueryResult struct {
	Answer          string             `json:"answer"`
	SourceDocuments []rag.SearchResult `json:"source_documents"`
}

// ResumeIngestResult 简历入库结果
type ResumeIngestResult struct {
	Parsed    *resume.ParsedResume `json:"parsed"`
	Documents int                  `json:"documents"`
}

// KnowledgeBaseService 知识库业务逻辑
type KnowledgeBaseService struct {
	kbRepo      repository.KnowledgeBaseRepository
	historyRepo repository.QueryHistoryRepository
	factory     *PipelineFactory
}

// NewKnowledgeBaseService 创建知识库服务
func NewKnowledgeBaseService(kbRepo repository.KnowledgeBaseRepository, historyRepo repository.QueryHistoryRepository, factory *PipelineFactory) *KnowledgeBaseService {
	return &KnowledgeBaseService{
		kbRepo:      kbRepo,
		historyRepo: historyRepo,
		factory:     factory,
	}
}

// Create 为用户创建知识库并分配唯一的向量集合名
func (s *KnowledgeBaseService) Create(ctx context.Context, userID uint, name, description string) (*models.KnowledgeBase, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("知识库名称不能为空")
	}

	kb := &models.KnowledgeBase{
		UserID:         userID,
		Name:           name,
		Description:    description,
		CollectionName: fmt.Sprintf("user_%d_kb_%s", userID, uuid.New().String()[:8]),
		IsActive:       true,
	}
	if err := s.kbRepo.Create(ctx, kb); err != nil {
		return nil, apperrors.NewSystemError(apperrors.ErrCodeDatabaseError, "创建知识库失败").WithCause(err)
	}

	logger.Info("知识库已创建",
		zap.Uint("user_id", userID),
		zap.Uint("knowledge_base_id", kb.KnowledgeBaseID),
		zap.String("collection", kb.CollectionName))
	return kb, nil
}

// List 分页获取用户的知识库
func (s *KnowledgeBaseService) List(ctx context.Context, userID uint, page, limit int, search string) ([]models.KnowledgeBase, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	kbs, total, err := s.kbRepo.GetByUserID(ctx, userID, page, limit, search)
	if err != nil {
		return nil, 0, apperrors.NewSystemError(apperrors.ErrCodeDatabaseError, "获取知识库列表失败").WithCause(err)
	}
	return kbs, total, nil
}

// Get 获取用户名下的知识库
func (s *KnowledgeBaseService) Get(ctx context.Context, kbID, userID uint) (*models.KnowledgeBase, error) {
	kb, err := s.kbRepo.GetByID(ctx, kbID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("知识库")
		}
		return nil, apperrors.NewSystemError(apperrors.ErrCodeDatabaseError, "获取知识库失败").WithCause(err)
	}
	return kb, nil
}

// Update 更新知识库的名称、描述或激活状态
func (s *KnowledgeBaseService) Update(ctx context.Context, kbID, userID uint, updates map[string]interface{}) (*models.KnowledgeBase, error) {
	if _, err := s.Get(ctx, kbID, userID); err != nil {
		return nil, err
	}

	allowed := map[string]bool{"name": true, "description": true, "is_active": true}
	filtered := make(map[string]interface{})
	for k, v := range updates {
		if allowed[k] {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return s.Get(ctx, kbID, userID)
	}

	if err := s.kbRepo.Update(ctx, kbID, userID, filtered); err != nil {
		return nil, apperrors.NewSystemError(apperrors.ErrCodeDatabaseError, "更新知识库失败").WithCause(err)
	}
	return s.Get(ctx, kbID, userID)
}

// Delete 删除知识库及其向量集合
// 先清理向量数据再删除记录，集合不存在时不报错。
func (s *KnowledgeBaseService) Delete(ctx context.Context, kbID, userID uint) error {
	kb, err := s.Get(ctx, kbID, userID)
	if err != nil {
		return err
	}

	if err := s.factory.Store().DropCollection(ctx, kb.CollectionName); err != nil {
		return apperrors.NewSystemError(apperrors.ErrCodeInternalServer, "删除向量集合失败").WithCause(err)
	}
	if err := s.kbRepo.Delete(ctx, kbID, userID); err != nil {
		return apperrors.NewSystemError(apperrors.ErrCodeDatabaseError, "删除知识库失败").WithCause(err)
	}

	logger.Info("知识库已删除",
		zap.Uint("knowledge_base_id", kbID),
		zap.String("collection", kb.CollectionName))
	return nil
}

// AddDocuments 向知识库写入文档
func (s *KnowledgeBaseService) AddDocuments(ctx context.Context, kbID, userID uint, documents []string, metadatas []map[string]interface{}) error {
	kb, err := s.activeKB(ctx, kbID, userID)
	if err != nil {
		return err
	}

	pipeline, err := s.factory.PipelineFor(kb.CollectionName)
	if err != nil {
		return err
	}
	chunks, err := pipeline.AddDocuments(ctx, documents, metadatas)
	if err != nil {
		return err
	}

	metrics.DocumentsIngested.WithLabelValues(kb.CollectionName).Add(float64(len(documents)))
	metrics.ChunksIngested.WithLabelValues(kb.CollectionName).Add(float64(chunks))
	return nil
}

// AddResume 解析简历并将提取的信息写入知识库
func (s *KnowledgeBaseService) AddResume(ctx context.Context, kbID, userID uint, reader io.Reader, filename string) (*ResumeIngestResult, error) {
	kb, err := s.activeKB(ctx, kbID, userID)
	if err != nil {
		return nil, err
	}

	parsed, err := resume.Parse(reader, filename)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	documents := resume.BuildDocuments(parsed)
	metadatas := make([]map[string]interface{}, len(documents))
	for i := range documents {
		metadatas[i] = map[string]interface{}{"source": "resume", "filename": filename}
	}

	pipeline, err := s.factory.PipelineFor(kb.CollectionName)
	if err != nil {
		return nil, err
	}
	chunks, err := pipeline.AddDocuments(ctx, documents, metadatas)
	if err != nil {
		return nil, err
	}

	metrics.DocumentsIngested.WithLabelValues(kb.CollectionName).Add(float64(len(documents)))
	metrics.ChunksIngested.WithLabelValues(kb.CollectionName).Add(float64(chunks))
	return &ResumeIngestResult{Parsed: parsed, Documents: len(documents)}, nil
}

// Query 查询知识库并记录查询历史
// 历史中的相似度得分取自生成回答的同一次检索，检索为空时为NULL。
func (s *KnowledgeBaseService) Query(ctx context.Context, kbID, userID uint, question string) (*QueryResult, error) {
	kb, err := s.activeKB(ctx, kbID, userID)
	if err != nil {
		return nil, err
	}

	pipeline, err := s.factory.PipelineFor(kb.CollectionName)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	answer, sources, err := pipeline.QueryWithSources(ctx, question)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues(kb.CollectionName, "error").Inc()
		return nil, err
	}
	metrics.QueriesTotal.WithLabelValues(kb.CollectionName, "success").Inc()
	metrics.QueryDuration.WithLabelValues(kb.CollectionName).Observe(time.Since(start).Seconds())
	metrics.RetrievalHits.WithLabelValues(kb.CollectionName).Observe(float64(len(sources)))

	history := &models.QueryHistory{
		UserID:          userID,
		KnowledgeBaseID: &kb.KnowledgeBaseID,
		Query:           question,
		Answer:          answer,
		SimilarityScore: rag.BestScore(sources),
	}
	if err := s.historyRepo.Create(ctx, history); err != nil {
		// 历史写入失败不影响回答返回
		logger.Error("查询历史写入失败", zap.Error(err))
	}

	return &QueryResult{Answer: answer, SourceDocuments: sources}, nil
}

// Search 在知识库中做相似度检索，不经过模型
func (s *KnowledgeBaseService) Search(ctx context.Context, kbID, userID uint, query string, k int) ([]rag.SearchResult, error) {
	kb, err := s.activeKB(ctx, kbID, userID)
	if err != nil {
		return nil, err
	}

	pipeline, err := s.factory.PipelineFor(kb.CollectionName)
	if err != nil {
		return nil, err
	}
	return pipeline.SimilaritySearch(ctx, query, k)
}

// History 获取用户的查询历史
func (s *KnowledgeBaseService) History(ctx context.Context, userID uint, page, limit int) ([]models.QueryHistory, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	histories, total, err := s.historyRepo.GetByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, apperrors.NewSystemError(apperrors.ErrCodeDatabaseError, "获取查询历史失败").WithCause(err)
	}
	return histories, total, nil
}

// activeKB 获取用户名下处于激活状态的知识库
func (s *KnowledgeBaseService) activeKB(ctx context.Context, kbID, userID uint) (*models.KnowledgeBase, error) {
	kb, err := s.Get(ctx, kbID, userID)
	if err != nil {
		return nil, err
	}
	if !kb.IsActive {
		return nil, apperrors.NewBusinessError(apperrors.ErrCodeValidationFailed, "知识库未激活")
	}
	return kb, nil
}
