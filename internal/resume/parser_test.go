package resume

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleResume = `John Smith
Email: john.smith@example.com
Phone: 555-123-4567

Senior backend engineer with 5 years of experience.
Skills: Python, Go, Docker, Kubernetes, SQL, Linux, Git
`

func TestExtractInfo(t *testing.T) {
	parsed := ExtractInfo(sampleResume)

	assert.Equal(t, "John Smith", parsed.Name)
	assert.Equal(t, "john.smith@example.com", parsed.Email)
	assert.Equal(t, "555-123-4567", parsed.Phone)
	assert.Equal(t, "5", parsed.ExperienceYears)
	assert.Contains(t, parsed.Skills, "Python")
	assert.Contains(t, parsed.Skills, "Go")
	assert.Contains(t, parsed.Skills, "Docker")
}

func TestExtractInfoMissingFields(t *testing.T) {
	parsed := ExtractInfo("没有任何英文信息的简历内容")

	assert.Equal(t, "未知", parsed.Name)
	assert.Equal(t, "未知", parsed.Email)
	assert.Equal(t, "未知", parsed.Phone)
	assert.Equal(t, "未知", parsed.ExperienceYears)
	assert.Empty(t, parsed.Skills)
}

func TestExtractInfoTruncatesRawText(t *testing.T) {
	long := strings.Repeat("内容", 400)
	parsed := ExtractInfo(long)

	assert.True(t, strings.HasSuffix(parsed.RawText, "..."))
	assert.Len(t, []rune(parsed.RawText), 503)
}

func TestAnalyzeCompleteResume(t *testing.T) {
	analysis := Analyze(ExtractInfo(sampleResume))

	assert.GreaterOrEqual(t, analysis.SkillsCount, 5)
	assert.True(t, analysis.HasContactInfo)
	assert.Equal(t, []string{"简历信息完整，格式良好"}, analysis.Suggestions)
}

func TestAnalyzeIncompleteResume(t *testing.T) {
	analysis := Analyze(ExtractInfo("简单的一段文本"))

	assert.False(t, analysis.HasContactInfo)
	assert.Contains(t, analysis.Suggestions, "建议在简历中添加更多技能关键词")
	assert.Contains(t, analysis.Suggestions, "简历中缺少联系方式，请添加邮箱或电话")
	assert.Contains(t, analysis.Suggestions, "建议明确标注工作年限")
}

func TestParseUnsupportedFormat(t *testing.T) {
	_, err := Parse(strings.NewReader("data"), "resume.xls")
	assert.Error(t, err)
}

func TestParsePlainText(t *testing.T) {
	parsed, err := Parse(strings.NewReader(sampleResume), "resume.txt")
	assert.NoError(t, err)
	assert.Equal(t, "John Smith", parsed.Name)
}
