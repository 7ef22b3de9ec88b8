package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.uber.org/zap"

	"github.com/ahang1598/ai-interview-assistant/internal/logger"
)

// MilvusOptions Milvus客户端配置
type MilvusOptions struct {
	Address          string
	Username         string
	Password         string
	Database         string
	CollectionPrefix string
	VectorSize       int
	UseTLS           bool
	Timeout          time.Duration
}

type milvusVectorStore struct {
	milvusClient     client.Client
	collectionPrefix string
	vectorSize       int
}

// NewMilvusVectorStore 创建Milvus向量存储
// 固定使用L2度量，检索得分为距离，越小越相似。
func NewMilvusVectorStore(opts MilvusOptions) (VectorStore, error) {
	if opts.Address == "" {
		opts.Address = "localhost:19530"
	}
	if opts.CollectionPrefix == "" {
		opts.CollectionPrefix = "kb"
	}
	if opts.VectorSize == 0 {
		opts.VectorSize = 1024
	}
	if opts.Database == "" {
		opts.Database = "default"
	}

	milvusClient, err := client.NewClient(
		context.Background(),
		client.Config{
			Address:       opts.Address,
			DBName:        opts.Database,
			Username:      opts.Username,
			Password:      opts.Password,
			EnableTLSAuth: opts.UseTLS,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("创建Milvus客户端失败: %w", err)
	}

	return &milvusVectorStore{
		milvusClient:     milvusClient,
		collectionPrefix: opts.CollectionPrefix,
		vectorSize:       opts.VectorSize,
	}, nil
}

// collectionName 拼接前缀并归一化为Milvus合法的集合名
func (s *milvusVectorStore) collectionName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return fmt.Sprintf("%s_%s", s.collectionPrefix, b.String())
}

func (s *milvusVectorStore) ensureCollection(ctx context.Context, name string) error {
	hasCollection, err := s.milvusClient.HasCollection(ctx, name)
	if err != nil {
		return fmt.Errorf("检查集合失败: %w", err)
	}
	if hasCollection {
		return nil
	}

	// 主键自增，同分命中按写入顺序返回
	schema := &entity.Schema{
		CollectionName: name,
		Description:    "knowledge vectors",
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeInt64,
				PrimaryKey: true,
				AutoID:     true,
			},
			{
				Name:     "content",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "65535",
				},
			},
			{
				Name:     "metadata",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "65535",
				},
			},
			{
				Name:     "vector",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": fmt.Sprintf("%d", s.vectorSize),
				},
			},
		},
	}

	if err := s.milvusClient.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
		return fmt.Errorf("创建集合失败: %w", err)
	}

	var index entity.Index
	var indexErr error
	index, indexErr = entity.NewIndexHNSW(entity.L2, 8, 64)
	if indexErr != nil {
		// HNSW不可用时退回IVF_FLAT
		index, indexErr = entity.NewIndexIvfFlat(entity.L2, 128)
		if indexErr != nil {
			return fmt.Errorf("创建索引失败: %w", indexErr)
		}
	}
	if err := s.milvusClient.CreateIndex(ctx, name, "vector", index, false); err != nil {
		logger.Warn("集合索引创建失败", zap.String("collection", name), zap.Error(err))
	}

	if err := s.milvusClient.LoadCollection(ctx, name, false); err != nil {
		logger.Warn("集合加载失败", zap.String("collection", name), zap.Error(err))
	}

	return nil
}

// Insert 单次原子写入一批记录
func (s *milvusVectorStore) Insert(ctx context.Context, collection string, records []VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	name := s.collectionName(collection)
	if err := s.ensureCollection(ctx, name); err != nil {
		return err
	}

	contents := make([]string, 0, len(records))
	metadatas := make([]string, 0, len(records))
	vectors := make([][]float32, 0, len(records))
	for _, r := range records {
		vector := r.Vector
		if len(vector) != s.vectorSize {
			padded := make([]float32, s.vectorSize)
			copy(padded, vector)
			vector = padded
		}

		meta := "{}"
		if len(r.Metadata) > 0 {
			if raw, err := json.Marshal(r.Metadata); err == nil {
				meta = string(raw)
			}
		}

		contents = append(contents, r.Text)
		metadatas = append(metadatas, meta)
		vectors = append(vectors, vector)
	}

	contentColumn := entity.NewColumnVarChar("content", contents)
	metadataColumn := entity.NewColumnVarChar("metadata", metadatas)
	vectorColumn := entity.NewColumnFloatVector("vector", s.vectorSize, vectors)

	// 单次Insert调用，整批要么全部写入要么全部失败
	if _, err := s.milvusClient.Insert(ctx, name, "", contentColumn, metadataColumn, vectorColumn); err != nil {
		return fmt.Errorf("Milvus写入失败: %w", err)
	}

	if err := s.milvusClient.Flush(ctx, name, false); err != nil {
		logger.Warn("集合刷新失败", zap.String("collection", name), zap.Error(err))
	}
	return nil
}

// Search 按L2距离升序返回最多k条命中，集合不存在时返回空结果
func (s *milvusVectorStore) Search(ctx context.Context, collection string, vector []float32, k int) ([]SearchResult, error) {
	if k <= 0 || len(vector) == 0 {
		return []SearchResult{}, nil
	}

	name := s.collectionName(collection)
	hasCollection, err := s.milvusClient.HasCollection(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("检查集合失败: %w", err)
	}
	if !hasCollection {
		return []SearchResult{}, nil
	}

	sp, _ := entity.NewIndexHNSWSearchParam(64)
	searchResults, err := s.milvusClient.Search(
		ctx,
		name,
		[]string{},
		"",
		[]string{"content", "metadata"},
		[]entity.Vector{entity.FloatVector(vector)},
		"vector",
		entity.L2,
		k,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("Milvus检索失败: %w", err)
	}
	if len(searchResults) == 0 {
		return []SearchResult{}, nil
	}

	result := searchResults[0]
	if result.Err != nil {
		return nil, fmt.Errorf("Milvus检索失败: %w", result.Err)
	}
	if result.ResultCount == 0 {
		return []SearchResult{}, nil
	}

	var ids []int64
	if idCol, ok := result.IDs.(*entity.ColumnInt64); ok {
		ids = idCol.Data()
	}

	var contents []string
	var metadatas []string
	for _, field := range result.Fields {
		switch field.Name() {
		case "content":
			if col, ok := field.(*entity.ColumnVarChar); ok {
				contents = col.Data()
			}
		case "metadata":
			if col, ok := field.(*entity.ColumnVarChar); ok {
				metadatas = col.Data()
			}
		}
	}

	type hit struct {
		result SearchResult
		id     int64
	}
	hits := make([]hit, 0, result.ResultCount)
	for i := 0; i < result.ResultCount; i++ {
		sr := SearchResult{Metadata: make(map[string]interface{})}
		if i < len(contents) {
			sr.Text = contents[i]
		}
		if i < len(metadatas) && metadatas[i] != "" {
			var meta map[string]interface{}
			if err := json.Unmarshal([]byte(metadatas[i]), &meta); err == nil && meta != nil {
				sr.Metadata = meta
			}
		}
		if i < len(result.Scores) {
			sr.Score = float64(result.Scores[i])
		}

		var id int64
		if i < len(ids) {
			id = ids[i]
		}
		hits = append(hits, hit{result: sr, id: id})
	}

	// 距离升序，同分按主键升序即写入顺序
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].result.Score != hits[j].result.Score {
			return hits[i].result.Score < hits[j].result.Score
		}
		return hits[i].id < hits[j].id
	})

	results := make([]SearchResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, h.result)
	}
	return results, nil
}

// DropCollection 删除集合，不存在时静默成功
func (s *milvusVectorStore) DropCollection(ctx context.Context, collection string) error {
	name := s.collectionName(collection)
	hasCollection, err := s.milvusClient.HasCollection(ctx, name)
	if err != nil {
		return fmt.Errorf("检查集合失败: %w", err)
	}
	if !hasCollection {
		return nil
	}
	if err := s.milvusClient.DropCollection(ctx, name); err != nil {
		return fmt.Errorf("删除集合失败: %w", err)
	}
	return nil
}

// Ready 检查Milvus连接是否可用
func (s *milvusVectorStore) Ready() bool {
	if s.milvusClient == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := s.milvusClient.ListCollections(ctx)
	return err == nil
}
