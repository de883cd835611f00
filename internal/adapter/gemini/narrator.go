package gemini

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"google.golang.org/api/option"

	"trending-scout/internal/common"
	"trending-scout/internal/domain"
)

// DefaultModel 默认使用的 Gemini 模型
const DefaultModel = "gemini-1.5-flash"

// 连接测试时的候选模型，按顺序回退
var fallbackModels = []string{"gemini-pro", "gemini-1.5-pro"}

// NotConfiguredAnalysis 未配置凭据时的占位分析文案
const NotConfiguredAnalysis = "⚠️ Gemini API key not configured. Set GEMINI_API_KEY to enable AI analysis."

// Narrator 实现了 port.Narrator 接口
// 未配置 API key 时不报错，所有操作降级：翻译原样返回输入，分析返回占位文案
type Narrator struct {
	client     *genai.Client
	model      *genai.GenerativeModel
	modelName  string
	configured bool
}

// NewNarrator 初始化 Gemini 客户端
// apiKey 为空时返回一个降级实例，不算错误
func NewNarrator(ctx context.Context, apiKey, modelName string) (*Narrator, error) {
	if modelName == "" {
		modelName = DefaultModel
	}
	if apiKey == "" {
		return &Narrator{modelName: modelName}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, common.WrapError(common.ErrCodeAIProcessing, "初始化 Gemini 客户端失败", err)
	}

	return &Narrator{
		client:     client,
		model:      client.GenerativeModel(modelName),
		modelName:  modelName,
		configured: true,
	}, nil
}

// Configured 是否配置了凭据
func (g *Narrator) Configured() bool {
	return g.configured
}

// Close 释放底层连接
func (g *Narrator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// 数字按英文千分位输出，和导出的简报保持同一格式
var humanize = message.NewPrinter(language.English)

// BuildAnalysisPrompt 构造仓库分析的 Prompt，纯字符串拼装，不发请求
func (g *Narrator) BuildAnalysisPrompt(repo *domain.Repo) string {
	created := "Unknown"
	if !repo.CreatedAt.IsZero() {
		created = repo.CreatedAt.Format("2006-01-02")
	}
	description := repo.Description
	if description == "" {
		description = "No description available"
	}
	lang := repo.Language
	if lang == "" {
		lang = "Unknown"
	}

	return humanize.Sprintf(`Please analyze this GitHub repository and create comprehensive, structured notes suitable for NotebookLM podcast generation:

Repository URL: %s
Repository Name: %s
Description: %s
Language: %s
Stars: %d
Forks: %d
Created: %s
Topics: %s

Please provide detailed analysis covering:

## 1. Repository Overview
- What problem does this repository solve?
- Who is the target audience?
- What makes it unique or special?

## 2. Technical Analysis
- Key technologies and frameworks used
- Architecture and design patterns
- Code quality indicators
- Dependencies and ecosystem

## 3. Community & Adoption
- Developer community engagement
- Real-world usage examples
- Notable contributors or organizations
- Recent development activity

## 4. Content Opportunities
- Why is this repository trending/interesting now?
- What story angles could work for video content?
- Key talking points for developers
- Potential controversies or interesting decisions

## 5. Comparison & Context
- How does it compare to alternatives?
- Where does it fit in the ecosystem?
- Evolution and future roadmap

## 6. Practical Insights
- Getting started guide summary
- Common use cases
- Performance characteristics
- Learning curve and documentation quality

Format the response as detailed, podcast-friendly notes that can be fed into NotebookLM for audio generation. Include specific examples, statistics, and technical details that would make for engaging content.`,
		repo.URL,
		repo.FullName,
		description,
		lang,
		repo.Stars,
		repo.Forks,
		created,
		strings.Join(repo.Topics, ", "))
}

// AnalyzeRepository 生成仓库的长文分析
// 未配置凭据时返回占位文案，不算错误
func (g *Narrator) AnalyzeRepository(ctx context.Context, repo *domain.Repo) (string, error) {
	if !g.configured {
		return NotConfiguredAnalysis, nil
	}

	prompt := g.BuildAnalysisPrompt(repo)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", common.WrapError(common.ErrCodeAIProcessing, "AI 分析调用失败", err)
	}

	text, err := textFrom(resp)
	if err != nil {
		return "", err
	}
	return text, nil
}

// buildTranslatePrompt 构造自然语言转搜索限定符的 Prompt
func buildTranslatePrompt(freeText string) string {
	return humanize.Sprintf(`Convert this natural language search query into proper GitHub API search syntax:

Natural Query: "%s"

GitHub API supports these search qualifiers:
- language:python (for programming language)
- stars:>100 or stars:10..50 (for star count ranges)
- forks:>10 (for fork count)
- created:>2023-01-01 or created:2023-01-01..2024-01-01 (for date ranges)
- pushed:>2024-01-01 (for recent activity)
- topic:machine-learning (for repository topics)
- user:microsoft (for specific users/organizations)
- in:name (search in repository name)
- in:description (search in repository description)
- in:readme (search in README)
- good-first-issues:>1 (repositories with good first issues)
- help-wanted-issues:>1 (repositories seeking help)
- license:mit (for specific licenses)
- archived:false (exclude archived repositories)

Examples:
- "Python machine learning repositories with more than 100 stars" → "language:python topic:machine-learning stars:>100"
- "Recent JavaScript projects created this year" → "language:javascript created:>2024-01-01"
- "Popular React libraries with good documentation" → "language:javascript topic:react stars:>500 in:readme"
- "Beginner friendly Python projects" → "language:python good-first-issues:>1 stars:>10"

Convert the natural query to proper GitHub search syntax. Return ONLY the search query, no explanations:`, freeText)
}

// TranslateQuery 把自然语言翻译成 GitHub 搜索限定符
// 未配置或调用失败时原样返回输入，调用方可以直接拿去搜索
func (g *Narrator) TranslateQuery(ctx context.Context, freeText string) (string, error) {
	if !g.configured {
		return freeText, nil
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(buildTranslatePrompt(freeText)))
	if err != nil {
		return freeText, common.WrapError(common.ErrCodeAIProcessing, "查询翻译失败", err)
	}

	text, err := textFrom(resp)
	if err != nil {
		return freeText, err
	}
	return cleanQuery(text), nil
}

// TestConnection 验证模型连通性
// 当前模型不可用时按候选表回退，成功后切换到可用的模型
func (g *Narrator) TestConnection(ctx context.Context) error {
	if !g.configured {
		return common.NewError(common.ErrCodeNotConfigured, "Gemini API key 未配置")
	}

	_, lastErr := g.model.GenerateContent(ctx, genai.Text("Hello, this is a connection test."))
	if lastErr == nil {
		return nil
	}

	for _, name := range fallbackModels {
		model := g.client.GenerativeModel(name)
		if _, err := model.GenerateContent(ctx, genai.Text("Hello, test connection.")); err != nil {
			lastErr = err
			continue
		}
		g.model = model
		g.modelName = name
		return nil
	}
	return common.WrapError(common.ErrCodeAIProcessing, "所有候选模型都不可用", lastErr)
}

// cleanQuery 清洗模型返回的查询串：去掉所有引号和首尾空白
func cleanQuery(s string) string {
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, "'", "")
	return strings.TrimSpace(s)
}

// textFrom 从响应里取第一段文本
func textFrom(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", common.NewError(common.ErrCodeAIProcessing, "AI 返回内容为空")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", common.NewError(common.ErrCodeAIProcessing, "AI 返回格式错误")
	}
	return string(text), nil
}
