package rag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/ahang1598/ai-interview-assistant/internal/errors"
)

func TestHashEmbedderDeterministic(t *testing.T) {
	embedder := NewHashEmbedder(64)
	ctx := context.Background()

	first, err := embedder.Embed(ctx, "vector retrieval test")
	assert.NoError(t, err)
	second, err := embedder.Embed(ctx, "vector retrieval test")
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
	assert.True(t, embedder.Ready())
}

func TestHashEmbedderUnitNorm(t *testing.T) {
	embedder := NewHashEmbedder(32)

	vector, err := embedder.Embed(context.Background(), "some words here")
	assert.NoError(t, err)

	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)
}

func TestDashScopeEmbedderMissingCredential(t *testing.T) {
	// service为nil表示凭证缺失
	embedder := NewDashScopeEmbedder(nil, "text-embedding-v3", 0)

	assert.False(t, embedder.Ready())
	assert.Equal(t, 1024, embedder.Dimensions())

	_, err := embedder.Embed(context.Background(), "text")
	assert.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeMissingCredential))
}

func TestNoopEmbedderNotReady(t *testing.T) {
	embedder := &NoopEmbedder{}

	assert.False(t, embedder.Ready())
	_, err := embedder.Embed(context.Background(), "text")
	assert.Error(t, err)
}
