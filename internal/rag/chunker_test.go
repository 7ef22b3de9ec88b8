package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkerEmptyInput(t *testing.T) {
	chunker := NewChunker(1000, 200)

	assert.Nil(t, chunker.Split(""))
	assert.Nil(t, chunker.Split("   \n\t  "))
}

func TestChunkerShortInput(t *testing.T) {
	chunker := NewChunker(1000, 200)

	chunks := chunker.Split("Paris is the capital of France.")
	assert.Equal(t, []string{"Paris is the capital of France."}, chunks)
}

func TestChunkerChunkSizeLimit(t *testing.T) {
	chunker := NewChunker(100, 20)

	text := strings.Repeat("知识库检索测试文本。", 100)
	chunks := chunker.Split(text)

	assert.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 100)
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}
}

func TestChunkerHardCutReconstruction(t *testing.T) {
	// 无任何边界字符时退化为硬切，重叠区域可精确验证
	text := strings.Repeat("a", 2500)
	chunker := NewChunker(1000, 200)

	chunks := chunker.Split(text)
	assert.GreaterOrEqual(t, len(chunks), 3)

	// 相邻块首尾重叠200个字符
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		curr := []rune(chunks[i])
		overlap := 200
		if len(curr) < overlap {
			overlap = len(curr)
		}
		assert.Equal(t, string(prev[len(prev)-overlap:]), string(curr[:overlap]))
	}

	// 去掉重叠后拼接还原原文
	var b strings.Builder
	b.WriteString(chunks[0])
	for i := 1; i < len(chunks); i++ {
		curr := []rune(chunks[i])
		b.WriteString(string(curr[200:]))
	}
	assert.Equal(t, text, b.String())
}

func TestChunkerPrefersParagraphBoundary(t *testing.T) {
	chunker := NewChunker(100, 0)

	para1 := strings.Repeat("x", 80)
	para2 := strings.Repeat("y", 80)
	chunks := chunker.Split(para1 + "\n\n" + para2)

	assert.Equal(t, []string{para1, para2}, chunks)
}

func TestChunkerPrefersSentenceBoundary(t *testing.T) {
	chunker := NewChunker(30, 0)

	text := strings.Repeat("第一句很重要。第二句补充说明一些必要的背景信息。第三句继续展开讨论相关的细节内容和结论。", 2)
	chunks := chunker.Split(text)

	assert.Greater(t, len(chunks), 1)
	// 除最后一块外都应以句号结尾
	for _, chunk := range chunks[:len(chunks)-1] {
		runes := []rune(chunk)
		assert.True(t, isSentenceEnd(runes[len(runes)-1]), "chunk应在句子边界切分: %q", chunk)
	}
}

func TestChunkerDeterministic(t *testing.T) {
	chunker := NewChunker(200, 50)
	text := strings.Repeat("向量检索是RAG系统的核心环节。分块质量直接影响召回效果。", 50)

	first := chunker.Split(text)
	second := chunker.Split(text)
	assert.Equal(t, first, second)
}

func TestChunkerInvalidConfig(t *testing.T) {
	// 非法配置回退到安全默认值
	chunker := NewChunker(0, -1)
	assert.Equal(t, 1000, chunker.chunkSize)
	assert.Equal(t, 0, chunker.chunkOverlap)

	chunker = NewChunker(100, 100)
	assert.Equal(t, 25, chunker.chunkOverlap)
}
