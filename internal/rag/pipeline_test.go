package rag

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ahang1598/ai-interview-assistant/internal/dashscope"
	apperrors "github.com/ahang1598/ai-interview-assistant/internal/errors"
)

// fakeChatModel 回放固定回答并记录收到的提示词
type fakeChatModel struct {
	answer     string
	lastPrompt string
	err        error
}

func (m *fakeChatModel) ChatCompletion(_ context.Context, req dashscope.ChatRequest) (*dashscope.ChatResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, msg := range req.Messages {
		if msg.Role == "user" {
			m.lastPrompt = msg.Content
		}
	}
	return &dashscope.ChatResponse{
		Choices: []dashscope.ChatChoice{
			{Message: dashscope.ChatMessage{Role: "assistant", Content: m.answer}},
		},
	}, nil
}

func (m *fakeChatModel) Ready() bool {
	return true
}

// failingEmbedder 在第n次调用时失败，用于验证写入原子性
type failingEmbedder struct {
	failAt int
	calls  int
}

func (e *failingEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	e.calls++
	if e.calls >= e.failAt {
		return nil, fmt.Errorf("embedding backend down")
	}
	return []float32{1, 0}, nil
}

func (e *failingEmbedder) Dimensions() int { return 2 }
func (e *failingEmbedder) Ready() bool     { return true }

func newTestPipeline(t *testing.T, collection string, llm ChatModel) (*Pipeline, *MemoryVectorStore) {
	t.Helper()
	store := NewMemoryVectorStore()
	pipeline, err := NewPipeline(PipelineOptions{
		CollectionName: collection,
		Store:          store,
		Embedder:       NewHashEmbedder(64),
		Answerer:       NewAnswerer(llm, "qwen-plus", 2000, 0.7),
		ChunkSize:      1000,
		ChunkOverlap:   200,
		TopK:           3,
	})
	assert.NoError(t, err)
	return pipeline, store
}

func TestPipelineAddAndQuery(t *testing.T) {
	llm := &fakeChatModel{answer: "巴黎是法国的首都。"}
	pipeline, _ := newTestPipeline(t, "global", llm)
	ctx := context.Background()

	chunks, err := pipeline.AddDocuments(ctx, []string{"Paris is the capital of France."}, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, chunks)

	answer, sources, err := pipeline.QueryWithSources(ctx, "capital of France")
	assert.NoError(t, err)
	assert.Equal(t, "巴黎是法国的首都。", answer)
	assert.Len(t, sources, 1)
	assert.Equal(t, "Paris is the capital of France.", sources[0].Text)

	// 检索命中的内容必须出现在提示词里
	assert.Contains(t, llm.lastPrompt, "Paris is the capital of France.")
	assert.Contains(t, llm.lastPrompt, "capital of France")
}

func TestPipelineQueryEmptyCollection(t *testing.T) {
	llm := &fakeChatModel{answer: "我不知道。"}
	pipeline, _ := newTestPipeline(t, "global", llm)
	ctx := context.Background()

	// 空集合不是错误，模型基于空上下文回答
	answer, sources, err := pipeline.QueryWithSources(ctx, "任何问题")
	assert.NoError(t, err)
	assert.Equal(t, "我不知道。", answer)
	assert.Empty(t, sources)
}

func TestPipelineShortDocumentSingleChunk(t *testing.T) {
	llm := &fakeChatModel{answer: "ok"}
	pipeline, store := newTestPipeline(t, "kb_test", llm)
	ctx := context.Background()

	chunks, err := pipeline.AddDocuments(ctx, []string{"Paris is the capital of France."}, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, chunks)

	// 短文档只产生一个chunk
	results, err := store.Search(ctx, "kb_test", mustEmbed(t, "Paris"), 10)
	assert.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestPipelineMetadataPerChunk(t *testing.T) {
	llm := &fakeChatModel{answer: "ok"}
	pipeline, _ := newTestPipeline(t, "kb_meta", llm)
	ctx := context.Background()

	chunks, err := pipeline.AddDocuments(ctx,
		[]string{strings.Repeat("分块元数据测试。", 300)},
		[]map[string]interface{}{{"source": "doc.txt"}})
	assert.NoError(t, err)
	assert.Greater(t, chunks, 1)

	results, err := pipeline.SimilaritySearch(ctx, "分块元数据测试", 10)
	assert.NoError(t, err)
	assert.Greater(t, len(results), 1)

	// 每个chunk携带文档元数据的独立副本
	for _, r := range results {
		assert.Equal(t, "doc.txt", r.Metadata["source"])
	}
	results[0].Metadata["source"] = "changed"
	assert.Equal(t, "doc.txt", results[1].Metadata["source"])
}

func TestPipelineIngestionAtomicity(t *testing.T) {
	store := NewMemoryVectorStore()
	embedder := &failingEmbedder{failAt: 3}
	pipeline, err := NewPipeline(PipelineOptions{
		CollectionName: "kb_atomic",
		Store:          store,
		Embedder:       embedder,
		Answerer:       NewAnswerer(&fakeChatModel{answer: "ok"}, "qwen-plus", 2000, 0.7),
		ChunkSize:      100,
		ChunkOverlap:   0,
		TopK:           3,
	})
	assert.NoError(t, err)
	ctx := context.Background()

	// 第三个chunk向量化失败，前两个也不能写入
	docs := []string{strings.Repeat("a", 100), strings.Repeat("b", 100), strings.Repeat("c", 100)}
	_, err = pipeline.AddDocuments(ctx, docs, nil)
	assert.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeEmbeddingUnavailable))

	results, err := store.Search(ctx, "kb_atomic", []float32{1, 0}, 10)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestPipelineModelFailure(t *testing.T) {
	llm := &fakeChatModel{err: fmt.Errorf("model timeout")}
	pipeline, _ := newTestPipeline(t, "global", llm)
	ctx := context.Background()

	_, _, err := pipeline.QueryWithSources(ctx, "问题")
	assert.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeModelUnavailable))
}

func TestPipelineConstructionFailsFast(t *testing.T) {
	answerer := NewAnswerer(&fakeChatModel{answer: "ok"}, "qwen-plus", 2000, 0.7)

	// 集合名缺失
	_, err := NewPipeline(PipelineOptions{
		Store:    NewMemoryVectorStore(),
		Embedder: NewHashEmbedder(64),
		Answerer: answerer,
	})
	assert.Error(t, err)

	// 嵌入器未就绪
	_, err = NewPipeline(PipelineOptions{
		CollectionName: "global",
		Store:          NewMemoryVectorStore(),
		Embedder:       &NoopEmbedder{},
		Answerer:       answerer,
	})
	assert.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeMissingCredential))
}

func TestPipelineDeleteCollection(t *testing.T) {
	llm := &fakeChatModel{answer: "ok"}
	pipeline, _ := newTestPipeline(t, "kb_delete", llm)
	ctx := context.Background()

	_, _ = pipeline.AddDocuments(ctx, []string{"some knowledge"}, nil)
	assert.NoError(t, pipeline.DeleteCollection(ctx))

	results, err := pipeline.SimilaritySearch(ctx, "some knowledge", 3)
	assert.NoError(t, err)
	assert.Empty(t, results)

	// 幂等删除
	assert.NoError(t, pipeline.DeleteCollection(ctx))
}

func TestBestScore(t *testing.T) {
	assert.Nil(t, BestScore(nil))
	assert.Nil(t, BestScore([]SearchResult{}))

	score := BestScore([]SearchResult{{Score: 0.8}, {Score: 0.2}, {Score: 0.5}})
	assert.NotNil(t, score)
	assert.Equal(t, 0.2, *score)
}

func TestCollectionNames(t *testing.T) {
	assert.Equal(t, "global", GlobalCollectionName)
	assert.Equal(t, "user_42", UserCollectionName(42))
}

func mustEmbed(t *testing.T, text string) []float32 {
	t.Helper()
	vector, err := NewHashEmbedder(64).Embed(context.Background(), text)
	assert.NoError(t, err)
	return vector
}
