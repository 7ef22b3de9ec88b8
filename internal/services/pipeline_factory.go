package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ahang1598/ai-interview-assistant/internal/config"
	"github.com/ahang1598/ai-interview-assistant/internal/dashscope"
	apperrors "github.com/ahang1598/ai-interview-assistant/internal/errors"
	"github.com/ahang1598/ai-interview-assistant/internal/logger"
	"github.com/ahang1598/ai-interview-assistant/internal/rag"
)

// PipelineFactory 按集合名构造问答管道
// 嵌入、模型、向量存储在进程内共享，集合名是管道间唯一的差异。
type PipelineFactory struct {
	cfg       *config.Config
	store     rag.VectorStore
	embedder  rag.Embedder
	answerer  *rag.Answerer
	chatModel rag.ChatModel
}

// NewPipelineFactory 创建管道工厂
// 依赖按配置显式选择，凭证缺失在这里立即失败而不是等到首次请求。
func NewPipelineFactory(cfg *config.Config) (*PipelineFactory, error) {
	store, err := buildVectorStore(cfg)
	if err != nil {
		return nil, err
	}

	dashscopeService := dashscope.NewService(cfg.AI.DashScopeAPIKey)

	embedder, err := buildEmbedder(cfg, dashscopeService)
	if err != nil {
		return nil, err
	}

	if dashscopeService == nil {
		return nil, apperrors.NewMissingCredentialError("chat model")
	}
	answerer := rag.NewAnswerer(dashscopeService, cfg.AI.ChatModel, cfg.AI.MaxTokens, cfg.AI.Temperature)

	logger.Info("问答管道工厂已初始化",
		zap.String("embedding_provider", cfg.Rag.Embedding.Provider),
		zap.String("vector_store", cfg.Rag.VectorStore.Provider),
		zap.String("chat_model", cfg.AI.ChatModel))

	return &PipelineFactory{
		cfg:       cfg,
		store:     store,
		embedder:  embedder,
		answerer:  answerer,
		chatModel: dashscopeService,
	}, nil
}

// PipelineFor 构造绑定到指定集合的管道
func (f *PipelineFactory) PipelineFor(collectionName string) (*rag.Pipeline, error) {
	return rag.NewPipeline(rag.PipelineOptions{
		CollectionName: collectionName,
		Store:          f.store,
		Embedder:       f.embedder,
		Answerer:       f.answerer,
		ChunkSize:      f.cfg.Rag.ChunkSize,
		ChunkOverlap:   f.cfg.Rag.ChunkOverlap,
		TopK:           f.cfg.Rag.TopK,
	})
}

// Store 返回共享的向量存储
func (f *PipelineFactory) Store() rag.VectorStore {
	return f.store
}

// ChatModel 返回共享的对话模型客户端
func (f *PipelineFactory) ChatModel() rag.ChatModel {
	return f.chatModel
}

// buildEmbedder 按配置选择嵌入提供方，不做静默回退
func buildEmbedder(cfg *config.Config, dashscopeService *dashscope.Service) (rag.Embedder, error) {
	ecfg := cfg.Rag.Embedding
	switch ecfg.Provider {
	case "dashscope":
		if dashscopeService == nil {
			return nil, apperrors.NewMissingCredentialError("embedding")
		}
		return rag.NewDashScopeEmbedder(dashscopeService, ecfg.Model, ecfg.Dimensions), nil
	case "openai":
		if cfg.AI.OpenAIAPIKey == "" {
			return nil, apperrors.NewMissingCredentialError("embedding")
		}
		return rag.NewOpenAIEmbedder(cfg.AI.OpenAIAPIKey, "", ecfg.Model), nil
	case "hash":
		return rag.NewHashEmbedder(ecfg.Dimensions), nil
	case "none":
		return &rag.NoopEmbedder{}, nil
	default:
		return nil, apperrors.NewConfigurationError(apperrors.ErrCodeConfiguration, fmt.Sprintf("未知的嵌入提供方: %s", ecfg.Provider))
	}
}

// buildVectorStore 按配置选择向量存储后端
func buildVectorStore(cfg *config.Config) (rag.VectorStore, error) {
	vcfg := cfg.Rag.VectorStore
	switch vcfg.Provider {
	case "memory", "":
		return rag.NewMemoryVectorStore(), nil
	case "milvus":
		store, err := rag.NewMilvusVectorStore(rag.MilvusOptions{
			Address:          vcfg.Milvus.Address,
			Username:         vcfg.Milvus.Username,
			Password:         vcfg.Milvus.Password,
			Database:         vcfg.Milvus.Database,
			CollectionPrefix: vcfg.Milvus.CollectionPrefix,
			VectorSize:       cfg.Rag.Embedding.Dimensions,
			UseTLS:           vcfg.Milvus.TLS,
		})
		if err != nil {
			return nil, apperrors.NewConfigurationError(apperrors.ErrCodeConfiguration, fmt.Sprintf("Milvus初始化失败: %v", err))
		}
		return store, nil
	default:
		return nil, apperrors.NewConfigurationError(apperrors.ErrCodeConfiguration, fmt.Sprintf("未知的向量存储: %s", vcfg.Provider))
	}
}
