package rag

import "context"

// VectorRecord 待写入向量存储的一条记录
type VectorRecord struct {
	Vector   []float32
	Text     string
	Metadata map[string]interface{}
}

// SearchResult 相似度检索命中
// Score为L2距离，越小表示越相似。
type SearchResult struct {
	Text     string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata"`
	Score    float64                `json:"score"`
}

// VectorStore 向量存储后端
// 以集合名隔离数据，多租户语义完全由集合命名表达。
type VectorStore interface {
	// Insert 单次原子写入一批记录
	Insert(ctx context.Context, collection string, records []VectorRecord) error
	// Search 返回按距离升序排列的最多k条命中，集合不存在时返回空结果
	Search(ctx context.Context, collection string, vector []float32, k int) ([]SearchResult, error)
	// DropCollection 删除整个集合，集合不存在时静默成功
	DropCollection(ctx context.Context, collection string) error
	// Ready 检查后端是否可用
	Ready() bool
}

// l2Distance 计算两个向量的平方欧氏距离，与Milvus的L2度量口径一致
// 维度不一致时按较短向量截断计算。
func l2Distance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
