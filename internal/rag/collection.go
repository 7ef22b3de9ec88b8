package rag

import (
	"context"

	apperrors "github.com/ahang1598/ai-interview-assistant/internal/errors"
)

// Collection 绑定到单个集合名的向量存储视图
// 负责文本的向量化写入与相似度检索。
type Collection struct {
	name     string
	store    VectorStore
	embedder Embedder
}

// NewCollection 创建集合视图
func NewCollection(name string, store VectorStore, embedder Embedder) *Collection {
	return &Collection{
		name:     name,
		store:    store,
		embedder: embedder,
	}
}

// Name 返回集合名
func (c *Collection) Name() string {
	return c.name
}

// AddTexts 向量化并写入一批文本
// 先完成全部向量化再一次性写入，任何一条向量化失败都不会留下部分数据。
func (c *Collection) AddTexts(ctx context.Context, texts []string, metadatas []map[string]interface{}) error {
	if len(texts) == 0 {
		return nil
	}

	records := make([]VectorRecord, 0, len(texts))
	for i, text := range texts {
		vector, err := c.embedder.Embed(ctx, text)
		if err != nil {
			if apperrors.IsAppError(err) {
				return err
			}
			return apperrors.NewEmbeddingUnavailableError(err)
		}

		metadata := map[string]interface{}{}
		if i < len(metadatas) && metadatas[i] != nil {
			metadata = metadatas[i]
		}
		records = append(records, VectorRecord{
			Vector:   vector,
			Text:     text,
			Metadata: metadata,
		})
	}

	return c.store.Insert(ctx, c.name, records)
}

// Search 向量化查询并返回按距离升序的最多k条命中
// 集合为空不是错误，返回空结果。
func (c *Collection) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	if k <= 0 {
		return []SearchResult{}, nil
	}

	vector, err := c.embedder.Embed(ctx, query)
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.NewEmbeddingUnavailableError(err)
	}

	results, err := c.store.Search(ctx, c.name, vector, k)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []SearchResult{}
	}
	return results, nil
}

// Delete 删除整个集合，集合不存在时静默成功
func (c *Collection) Delete(ctx context.Context) error {
	return c.store.DropCollection(ctx, c.name)
}
