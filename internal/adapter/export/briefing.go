package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"trending-scout/internal/common"
	"trending-scout/internal/domain"
)

// 千分位格式化，标题和简报里的数字展示用
var humanize = message.NewPrinter(language.English)

// Builder 把仓库元数据 + AI 分析拼装成内容简报
type Builder struct {
	nowFunc func() time.Time
}

// NewBuilder 创建简报构造器
func NewBuilder() *Builder {
	return &Builder{
		nowFunc: time.Now, // 便于测试注入当前时间
	}
}

// DetermineContentType 根据仓库特征选择内容类型
// 判断顺序固定：爆款 > 新星 > 遗珠 > AI 工具 > 兜底
func (b *Builder) DetermineContentType(repo *domain.Repo) string {
	age := repo.AgeDays(b.nowFunc())

	switch {
	case repo.Stars > 10000:
		return "🌟 Popular Repository Spotlight"
	case age >= 0 && age < 30 && repo.Stars > 100:
		return "🚀 Rising Star Analysis"
	case repo.Stars < 1000 && repo.Forks > 50:
		return "💎 Hidden Gem Discovery"
	case strings.Contains(strings.ToLower(repo.Description), "ai") || repo.HasTopic("machine-learning"):
		return "🤖 AI Tool Review"
	default:
		return "🔍 Repository Deep Dive"
	}
}

// VideoTitles 生成五个候选视频标题
func VideoTitles(repo *domain.Repo) []string {
	lang := repo.Language
	if lang == "" {
		lang = "GitHub"
	}
	stars := humanize.Sprintf("%d", repo.Stars)

	return []string{
		fmt.Sprintf("This %s Repository Has %s Stars - Here's Why", lang, stars),
		fmt.Sprintf("%s: The Tool Every Developer Needs to Know About", repo.Name),
		fmt.Sprintf("I Found This Amazing %s Project With %s Stars", lang, stars),
		fmt.Sprintf("Why %s is Trending on GitHub Right Now", repo.Name),
		fmt.Sprintf("%s Review: Worth the Hype? (%s Stars)", repo.Name, stars),
	}
}

// VideoTags 基础标签 + 语言 + 最多五个主题标签
func VideoTags(repo *domain.Repo) []string {
	tags := []string{"github", "programming", "coding", "opensource", "developer"}

	if repo.Language != "" {
		tags = append(tags, strings.ToLower(repo.Language))
	}

	topics := repo.Topics
	if len(topics) > 5 {
		topics = topics[:5]
	}
	tags = append(tags, topics...)

	return tags
}

// TargetAudience 根据语言和主题推断目标观众
func TargetAudience(repo *domain.Repo) string {
	lang := strings.ToLower(repo.Language)

	switch {
	case repo.HasTopic("machine-learning") || repo.HasTopic("ai"):
		return "AI/ML Engineers, Data Scientists"
	case lang == "javascript" || lang == "typescript" || lang == "react":
		return "Frontend Developers, Full-stack Engineers"
	case lang == "python":
		return "Python Developers, Backend Engineers"
	case repo.HasTopic("devops") || lang == "dockerfile" || lang == "kubernetes":
		return "DevOps Engineers, System Administrators"
	default:
		return "General Developers, Programming Enthusiasts"
	}
}

// OptimalUploadTime 根据主题推荐发布时段
func OptimalUploadTime(repo *domain.Repo) string {
	for _, t := range []string{"ai", "machine-learning", "data-science"} {
		if repo.HasTopic(t) {
			return "Tuesday 10 AM PST (high engagement from tech professionals)"
		}
	}
	for _, t := range []string{"web", "frontend", "react", "javascript"} {
		if repo.HasTopic(t) {
			return "Wednesday 9 AM PST (web developers active)"
		}
	}
	return "Tuesday-Thursday 9-11 AM PST (general developer audience)"
}

// KeyMetrics 简报里要突出的四项核心指标
func KeyMetrics(repo *domain.Repo) []string {
	lang := repo.Language
	if lang == "" {
		lang = "Unknown"
	}
	created := "Unknown"
	if !repo.CreatedAt.IsZero() {
		created = repo.CreatedAt.Format("2006-01-02")
	}

	return []string{
		humanize.Sprintf("⭐ %d stars", repo.Stars),
		humanize.Sprintf("🍴 %d forks", repo.Forks),
		fmt.Sprintf("📅 Created %s", created),
		fmt.Sprintf("🏷️ Main language: %s", lang),
	}
}

// ScriptTemplate 生成带时间轴的视频脚本骨架
func ScriptTemplate(repo *domain.Repo, contentType string) string {
	lang := repo.Language
	if lang == "" {
		lang = "this technology"
	}
	desc := repo.Description
	if desc == "" {
		desc = "Add description here"
	}
	created := "Unknown"
	if !repo.CreatedAt.IsZero() {
		created = repo.CreatedAt.Format("2006-01-02")
	}
	updated := "Unknown"
	if !repo.UpdatedAt.IsZero() {
		updated = repo.UpdatedAt.Format("2006-01-02")
	}
	license := repo.License
	if license == "" {
		license = "Check license"
	}
	stars := humanize.Sprintf("%d", repo.Stars)
	forks := humanize.Sprintf("%d", repo.Forks)

	return fmt.Sprintf(`# %s: %s

## Hook (0-15 seconds)
"This repository just hit %s stars, and I can see why. Let me show you what makes %s special."

## Problem Setup (15-45 seconds)
"If you've ever worked with %s, you know that [INSERT COMMON PROBLEM]. Well, %s might be exactly what you've been looking for."

## Repository Overview (45-120 seconds)
- **What it does:** %s
- **Main language:** %s
- **Created:** %s
- **Key features:** [Research and add 3-5 key features]

## Demo/Code Examples (120-300 seconds)
"Let me show you how this works in practice..."
[INSERT CODE EXAMPLES AND DEMOS]

## Community & Adoption (300-360 seconds)
- **Community stats:** %s stars, %s forks
- **Use cases:** [Research real-world usage]
- **Companies using it:** [Research if any known companies use it]

## Comparison (360-400 seconds)
"How does this compare to alternatives like [INSERT ALTERNATIVES]?"

## Call to Action (400-420 seconds)
"What do you think about %s? Have you used it in your projects? Let me know in the comments below!"

---
## Research Notes:
- Repository URL: %s
- Documentation: [Check README and docs]
- Recent updates: %s
- License: %s
`,
		contentType, repo.FullName,
		stars, repo.Name,
		lang, repo.Name,
		desc, lang, created,
		stars, forks,
		repo.Name,
		repo.URL, updated, license)
}

// BuildBriefing 组装完整简报：分析正文 + 制作要点 + 标题/标签 + 脚本骨架
func (b *Builder) BuildBriefing(repo *domain.Repo, analysis string) *domain.Briefing {
	contentType := b.DetermineContentType(repo)
	titles := VideoTitles(repo)
	tags := VideoTags(repo)
	audience := TargetAudience(repo)
	upload := OptimalUploadTime(repo)
	metrics := KeyMetrics(repo)

	briefing := &domain.Briefing{
		Repo:           repo,
		Analysis:       analysis,
		ContentType:    contentType,
		TargetAudience: audience,
		UploadTime:     upload,
		VideoTitles:    titles,
		Tags:           tags,
		KeyMetrics:     metrics,
		Script:         ScriptTemplate(repo, contentType),
		Filename:       fmt.Sprintf("%s_analysis.md", repo.Name),
	}
	briefing.Markdown = renderMarkdown(briefing)
	return briefing
}

// renderMarkdown 拼装 NotebookLM 用的 Markdown 文档
func renderMarkdown(briefing *domain.Briefing) string {
	repo := briefing.Repo

	lang := repo.Language
	if lang == "" {
		lang = "Unknown"
	}
	created := "Unknown"
	if !repo.CreatedAt.IsZero() {
		created = repo.CreatedAt.Format("2006-01-02")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Repository Analysis: %s\n\n", repo.FullName)
	fmt.Fprintf(&sb, "%s\n\n", briefing.Analysis)

	sb.WriteString("## Video Production Notes\n")
	fmt.Fprintf(&sb, "- **Content Type:** %s\n", briefing.ContentType)
	fmt.Fprintf(&sb, "- **Target Audience:** %s\n", briefing.TargetAudience)
	sb.WriteString("- **Estimated Video Length:** 8-12 minutes\n")
	fmt.Fprintf(&sb, "- **Best Upload Time:** %s\n", briefing.UploadTime)
	humanize.Fprintf(&sb, "- **Key Metrics:** %d stars, %d forks\n", repo.Stars, repo.Forks)
	fmt.Fprintf(&sb, "- **Repository URL:** %s\n", repo.URL)
	fmt.Fprintf(&sb, "- **Main Language:** %s\n", lang)
	fmt.Fprintf(&sb, "- **Created:** %s\n\n", created)

	sb.WriteString("## Key Metrics to Highlight\n")
	for _, m := range briefing.KeyMetrics {
		fmt.Fprintf(&sb, "- %s\n", m)
	}
	sb.WriteString("\n")

	sb.WriteString("## Suggested Video Titles\n")
	for _, title := range briefing.VideoTitles {
		fmt.Fprintf(&sb, "- %s\n", title)
	}
	sb.WriteString("\n")

	sb.WriteString("## Video Tags\n")
	sb.WriteString(strings.Join(briefing.Tags, ", "))
	sb.WriteString("\n\n---\n*Generated by GitHub Trending Scout with Gemini AI Analysis*\n")

	return sb.String()
}

// Save 把简报 Markdown 原样写到目标目录，返回完整路径
func (b *Builder) Save(briefing *domain.Briefing, dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", common.WrapError(common.ErrCodeInternal, "创建导出目录失败", err)
	}

	path := filepath.Join(dir, briefing.Filename)
	if err := os.WriteFile(path, []byte(briefing.Markdown), 0o644); err != nil {
		return "", common.WrapError(common.ErrCodeInternal, "写入简报文件失败", err)
	}
	return path, nil
}
