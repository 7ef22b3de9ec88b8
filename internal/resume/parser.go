package resume

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// ParsedResume 简历解析结果
type ParsedResume struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Skills          []string `json:"skills"`
	ExperienceYears string   `json:"experience_years"`
	RawText         string   `json:"raw_text"`
}

// Analysis 简历分析反馈
type Analysis struct {
	SkillsCount    int      `json:"skills_count"`
	HasContactInfo bool     `json:"has_contact_info"`
	Suggestions    []string `json:"suggestions"`
}

const unknown = "未知"

var (
	nameRe       = regexp.MustCompile(`^([A-Z][a-z]+\s+[A-Z][a-z]+)`)
	emailRe      = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phoneRe      = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	experienceRe = regexp.MustCompile(`(?i)(\d+)\s*\+?\s*years?\s+of\s+experience`)
)

var skillsKeywords = []string{
	"Python", "Java", "JavaScript", "React", "Vue", "Node.js", "SQL", "MongoDB",
	"Docker", "Kubernetes", "AWS", "Azure", "Git", "Linux", "HTML", "CSS", "Go",
}

// Parse 按文件扩展名解析简历并提取基本信息
func Parse(reader io.Reader, filename string) (*ParsedResume, error) {
	var text string
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err = extractPDFText(reader)
	case ".docx":
		text, err = extractDocxText(reader)
	case ".txt", ".md":
		var raw []byte
		raw, err = io.ReadAll(reader)
		text = string(raw)
	default:
		return nil, fmt.Errorf("不支持的文件类型: %s", filename)
	}
	if err != nil {
		return nil, err
	}

	return ExtractInfo(text), nil
}

// ExtractInfo 从简历文本中提取结构化信息
func ExtractInfo(text string) *ParsedResume {
	parsed := &ParsedResume{
		Name:            unknown,
		Email:           unknown,
		Phone:           unknown,
		Skills:          []string{},
		ExperienceYears: unknown,
	}

	if m := nameRe.FindStringSubmatch(text); m != nil {
		parsed.Name = m[1]
	}
	if m := emailRe.FindString(text); m != "" {
		parsed.Email = m
	}
	if m := phoneRe.FindString(text); m != "" {
		parsed.Phone = m
	}

	lower := strings.ToLower(text)
	for _, skill := range skillsKeywords {
		if strings.Contains(lower, strings.ToLower(skill)) {
			parsed.Skills = append(parsed.Skills, skill)
		}
	}

	if m := experienceRe.FindStringSubmatch(text); m != nil {
		parsed.ExperienceYears = m[1]
	}

	// 原文只保留前500个字符
	runes := []rune(text)
	if len(runes) > 500 {
		parsed.RawText = string(runes[:500]) + "..."
	} else {
		parsed.RawText = text
	}

	return parsed
}

// Analyze 分析简历完整度并给出建议
func Analyze(parsed *ParsedResume) *Analysis {
	analysis := &Analysis{
		SkillsCount:    len(parsed.Skills),
		HasContactInfo: parsed.Email != unknown || parsed.Phone != unknown,
		Suggestions:    []string{},
	}

	if analysis.SkillsCount < 5 {
		analysis.Suggestions = append(analysis.Suggestions, "建议在简历中添加更多技能关键词")
	}
	if !analysis.HasContactInfo {
		analysis.Suggestions = append(analysis.Suggestions, "简历中缺少联系方式，请添加邮箱或电话")
	}
	if parsed.ExperienceYears == unknown {
		analysis.Suggestions = append(analysis.Suggestions, "建议明确标注工作年限")
	}
	if len(analysis.Suggestions) == 0 {
		analysis.Suggestions = append(analysis.Suggestions, "简历信息完整，格式良好")
	}

	return analysis
}

// BuildDocuments 将解析出的简历信息组织为可入库的文档片段
func BuildDocuments(parsed *ParsedResume) []string {
	documents := []string{
		fmt.Sprintf("候选人姓名: %s\n邮箱: %s\n电话: %s", parsed.Name, parsed.Email, parsed.Phone),
	}
	if len(parsed.Skills) > 0 {
		documents = append(documents, "技能: "+strings.Join(parsed.Skills, ", "))
	}
	if parsed.ExperienceYears != unknown {
		documents = append(documents, fmt.Sprintf("工作经验: %s年", parsed.ExperienceYears))
	}
	if parsed.RawText != "" {
		documents = append(documents, "简历原文:\n"+parsed.RawText)
	}
	return documents
}

func extractPDFText(reader io.Reader) (string, error) {
	pdfBytes, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("读取PDF文件失败: %w", err)
	}

	pdfReader, err := model.NewPdfReader(bytes.NewReader(pdfBytes))
	if err != nil {
		return "", fmt.Errorf("解析PDF失败: %w", err)
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("获取PDF页数失败: %w", err)
	}

	var textBuilder strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			continue
		}
		ex, err := extractor.New(page)
		if err != nil {
			continue
		}
		text, err := ex.ExtractText()
		if err != nil {
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}
	return textBuilder.String(), nil
}

func extractDocxText(reader io.Reader) (string, error) {
	docBytes, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("读取Word文件失败: %w", err)
	}

	doc, err := document.Read(bytes.NewReader(docBytes), int64(len(docBytes)))
	if err != nil {
		return "", fmt.Errorf("解析Word文档失败: %w", err)
	}
	defer doc.Close()

	var textBuilder strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			textBuilder.WriteString(run.Text())
		}
		textBuilder.WriteString("\n")
	}
	return textBuilder.String(), nil
}
