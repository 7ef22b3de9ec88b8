package rag

import (
	"context"
	"sort"
	"sync"
)

// memoryRecord 内存存储中的一条记录，seq记录插入顺序用于同分稳定排序
type memoryRecord struct {
	seq      int
	vector   []float32
	text     string
	metadata map[string]interface{}
}

// MemoryVectorStore 进程内向量存储
// 用于开发、测试和未配置Milvus的部署，数据不持久化。
type MemoryVectorStore struct {
	mu          sync.RWMutex
	collections map[string][]memoryRecord
	nextSeq     int
}

// NewMemoryVectorStore 创建内存向量存储
func NewMemoryVectorStore() *MemoryVectorStore {
	return &MemoryVectorStore{
		collections: make(map[string][]memoryRecord),
	}
}

// Insert 写入一批记录
func (s *MemoryVectorStore) Insert(_ context.Context, collection string, records []VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		vec := make([]float32, len(r.Vector))
		copy(vec, r.Vector)
		s.collections[collection] = append(s.collections[collection], memoryRecord{
			seq:      s.nextSeq,
			vector:   vec,
			text:     r.Text,
			metadata: r.Metadata,
		})
		s.nextSeq++
	}
	return nil
}

// Search 按距离升序返回最多k条命中
// 同分命中按插入顺序排列，集合不存在时返回空结果。
func (s *MemoryVectorStore) Search(_ context.Context, collection string, vector []float32, k int) ([]SearchResult, error) {
	if k <= 0 {
		return []SearchResult{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.collections[collection]
	if len(records) == 0 {
		return []SearchResult{}, nil
	}

	type scored struct {
		rec   memoryRecord
		score float64
	}
	candidates := make([]scored, 0, len(records))
	for _, rec := range records {
		candidates = append(candidates, scored{rec: rec, score: l2Distance(vector, rec.vector)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score < candidates[j].score
	})

	if k > len(candidates) {
		k = len(candidates)
	}
	results := make([]SearchResult, 0, k)
	for _, c := range candidates[:k] {
		results = append(results, SearchResult{
			Text:     c.rec.text,
			Metadata: c.rec.metadata,
			Score:    c.score,
		})
	}
	return results, nil
}

// DropCollection 删除集合，不存在时静默成功
func (s *MemoryVectorStore) DropCollection(_ context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, collection)
	return nil
}

// Ready 内存存储始终可用
func (s *MemoryVectorStore) Ready() bool {
	return true
}
