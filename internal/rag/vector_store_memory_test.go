package rag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryVectorStoreSearchOrdering(t *testing.T) {
	store := NewMemoryVectorStore()
	ctx := context.Background()

	err := store.Insert(ctx, "kb", []VectorRecord{
		{Vector: []float32{1, 0}, Text: "far", Metadata: map[string]interface{}{}},
		{Vector: []float32{0, 1}, Text: "near", Metadata: map[string]interface{}{}},
		{Vector: []float32{0.5, 0.5}, Text: "middle", Metadata: map[string]interface{}{}},
	})
	assert.NoError(t, err)

	results, err := store.Search(ctx, "kb", []float32{0, 1}, 3)
	assert.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, "near", results[0].Text)
	assert.Equal(t, "middle", results[1].Text)
	assert.Equal(t, "far", results[2].Text)

	// 距离升序
	assert.LessOrEqual(t, results[0].Score, results[1].Score)
	assert.LessOrEqual(t, results[1].Score, results[2].Score)
}

func TestMemoryVectorStoreSearchTies(t *testing.T) {
	store := NewMemoryVectorStore()
	ctx := context.Background()

	// 等距记录按插入顺序返回
	err := store.Insert(ctx, "kb", []VectorRecord{
		{Vector: []float32{1, 0}, Text: "first"},
		{Vector: []float32{-1, 0}, Text: "second"},
		{Vector: []float32{0, 1}, Text: "third"},
	})
	assert.NoError(t, err)

	results, err := store.Search(ctx, "kb", []float32{0, 0}, 3)
	assert.NoError(t, err)
	assert.Equal(t, "first", results[0].Text)
	assert.Equal(t, "second", results[1].Text)
	assert.Equal(t, "third", results[2].Text)
}

func TestMemoryVectorStoreSearchLimit(t *testing.T) {
	store := NewMemoryVectorStore()
	ctx := context.Background()

	err := store.Insert(ctx, "kb", []VectorRecord{
		{Vector: []float32{1}, Text: "a"},
		{Vector: []float32{2}, Text: "b"},
	})
	assert.NoError(t, err)

	// k大于记录数时返回全部
	results, err := store.Search(ctx, "kb", []float32{0}, 10)
	assert.NoError(t, err)
	assert.Len(t, results, 2)

	// k为0时返回空结果
	results, err = store.Search(ctx, "kb", []float32{0}, 0)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestMemoryVectorStoreMissingCollection(t *testing.T) {
	store := NewMemoryVectorStore()
	ctx := context.Background()

	// 空集合检索不是错误
	results, err := store.Search(ctx, "missing", []float32{1, 2}, 3)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestMemoryVectorStoreCollectionIsolation(t *testing.T) {
	store := NewMemoryVectorStore()
	ctx := context.Background()

	_ = store.Insert(ctx, "user_1", []VectorRecord{{Vector: []float32{1}, Text: "私有知识"}})
	_ = store.Insert(ctx, "global", []VectorRecord{{Vector: []float32{1}, Text: "共享知识"}})

	results, err := store.Search(ctx, "user_1", []float32{1}, 10)
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "私有知识", results[0].Text)
}

func TestMemoryVectorStoreDropCollection(t *testing.T) {
	store := NewMemoryVectorStore()
	ctx := context.Background()

	_ = store.Insert(ctx, "kb", []VectorRecord{{Vector: []float32{1}, Text: "a"}})

	assert.NoError(t, store.DropCollection(ctx, "kb"))
	results, _ := store.Search(ctx, "kb", []float32{1}, 10)
	assert.Empty(t, results)

	// 重复删除静默成功
	assert.NoError(t, store.DropCollection(ctx, "kb"))
}
