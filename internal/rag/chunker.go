package rag

import (
	"strings"
	"unicode"
)

// Chunker 文本分块器
// 贪心消费输入，优先在段落、其次句子、再次空白边界处切分，
// 相邻块之间保留overlap个字符的重叠以保持检索上下文。
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker 创建分块器
func NewChunker(chunkSize, overlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: overlap,
	}
}

// Split 将文本切分为多个chunk
// 纯函数：相同输入和配置永远产生相同的切分结果。
func (c *Chunker) Split(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	runes := []rune(trimmed)
	if len(runes) <= c.chunkSize {
		return []string{trimmed}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + c.chunkSize
		if end >= len(runes) {
			if last := strings.TrimSpace(string(runes[start:])); last != "" {
				chunks = append(chunks, last)
			}
			break
		}

		cut := c.cutPoint(runes, start, end)
		if piece := strings.TrimSpace(string(runes[start:cut])); piece != "" {
			chunks = append(chunks, piece)
		}

		next := cut - c.chunkOverlap
		if next <= start {
			// 重叠回退不能让扫描停止前进
			next = cut
		}
		start = next
	}

	return chunks
}

// cutPoint 在窗口内寻找切分点：段落 > 句子 > 空白 > 硬切
// 只在窗口后半段回溯，避免产生过短的块。
func (c *Chunker) cutPoint(runes []rune, start, end int) int {
	floor := start + c.chunkSize/2

	for i := end; i > floor; i-- {
		if runes[i-1] == '\n' && i-2 >= start && runes[i-2] == '\n' {
			return i
		}
	}
	for i := end; i > floor; i-- {
		if isSentenceEnd(runes[i-1]) {
			return i
		}
	}
	for i := end; i > floor; i-- {
		if unicode.IsSpace(runes[i-1]) {
			return i
		}
	}
	return end
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', ';', '\n', '。', '！', '？', '；':
		return true
	}
	return false
}
