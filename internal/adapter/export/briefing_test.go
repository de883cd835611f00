package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"trending-scout/internal/domain"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 22, 12, 0, 0, 0, time.UTC)
}

func TestBuilder_DetermineContentType(t *testing.T) {
	now := fixedNow()

	tests := []struct {
		name     string
		repo     *domain.Repo
		expected string
	}{
		{
			name:     "过万star优先判定为爆款",
			repo:     &domain.Repo{Stars: 10001, CreatedAt: now.AddDate(0, 0, -10)},
			expected: "🌟 Popular Repository Spotlight",
		},
		{
			name:     "三十天内破百star是新星",
			repo:     &domain.Repo{Stars: 101, CreatedAt: now.AddDate(0, 0, -29)},
			expected: "🚀 Rising Star Analysis",
		},
		{
			name:     "恰好三十天不算新星",
			repo:     &domain.Repo{Stars: 101, CreatedAt: now.AddDate(0, 0, -30)},
			expected: "🔍 Repository Deep Dive",
		},
		{
			name:     "低star高fork是遗珠",
			repo:     &domain.Repo{Stars: 999, Forks: 51, CreatedAt: now.AddDate(-1, 0, 0)},
			expected: "💎 Hidden Gem Discovery",
		},
		{
			name:     "描述带AI判定为AI工具",
			repo:     &domain.Repo{Stars: 50, Description: "An AI assistant for your terminal", CreatedAt: now.AddDate(-1, 0, 0)},
			expected: "🤖 AI Tool Review",
		},
		{
			name:     "machine-learning主题判定为AI工具",
			repo:     &domain.Repo{Stars: 50, Topics: []string{"machine-learning"}, CreatedAt: now.AddDate(-1, 0, 0)},
			expected: "🤖 AI Tool Review",
		},
		{
			name:     "缺失创建时间不按新星处理",
			repo:     &domain.Repo{Stars: 200},
			expected: "🔍 Repository Deep Dive",
		},
		{
			name:     "无特征兜底为深度解读",
			repo:     &domain.Repo{Stars: 2000, Forks: 10, CreatedAt: now.AddDate(-2, 0, 0)},
			expected: "🔍 Repository Deep Dive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := &Builder{nowFunc: fixedNow}
			assert.Equal(t, tt.expected, builder.DetermineContentType(tt.repo))
		})
	}
}

func TestVideoTitles(t *testing.T) {
	repo := &domain.Repo{
		Name:     "hugo",
		FullName: "gohugoio/hugo",
		Language: "Go",
		Stars:    70000,
	}

	titles := VideoTitles(repo)

	assert.Equal(t, []string{
		"This Go Repository Has 70,000 Stars - Here's Why",
		"hugo: The Tool Every Developer Needs to Know About",
		"I Found This Amazing Go Project With 70,000 Stars",
		"Why hugo is Trending on GitHub Right Now",
		"hugo Review: Worth the Hype? (70,000 Stars)",
	}, titles)
}

func TestVideoTitles_NoLanguage(t *testing.T) {
	titles := VideoTitles(&domain.Repo{Name: "thing", Stars: 12})
	assert.Contains(t, titles[0], "This GitHub Repository Has 12 Stars")
}

func TestVideoTags(t *testing.T) {
	tests := []struct {
		name     string
		repo     *domain.Repo
		expected []string
	}{
		{
			name: "基础标签加语言加主题",
			repo: &domain.Repo{Language: "Go", Topics: []string{"cli", "tooling"}},
			expected: []string{
				"github", "programming", "coding", "opensource", "developer",
				"go", "cli", "tooling",
			},
		},
		{
			name: "主题超过五个时截断",
			repo: &domain.Repo{Topics: []string{"t1", "t2", "t3", "t4", "t5", "t6", "t7"}},
			expected: []string{
				"github", "programming", "coding", "opensource", "developer",
				"t1", "t2", "t3", "t4", "t5",
			},
		},
		{
			name:     "无语言无主题只剩基础标签",
			repo:     &domain.Repo{},
			expected: []string{"github", "programming", "coding", "opensource", "developer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, VideoTags(tt.repo))
		})
	}
}

func TestTargetAudience(t *testing.T) {
	tests := []struct {
		name     string
		repo     *domain.Repo
		expected string
	}{
		{
			name:     "机器学习主题",
			repo:     &domain.Repo{Language: "Python", Topics: []string{"machine-learning"}},
			expected: "AI/ML Engineers, Data Scientists",
		},
		{
			name:     "前端语言",
			repo:     &domain.Repo{Language: "TypeScript"},
			expected: "Frontend Developers, Full-stack Engineers",
		},
		{
			name:     "Python后端",
			repo:     &domain.Repo{Language: "Python"},
			expected: "Python Developers, Backend Engineers",
		},
		{
			name:     "DevOps主题",
			repo:     &domain.Repo{Language: "Go", Topics: []string{"devops"}},
			expected: "DevOps Engineers, System Administrators",
		},
		{
			name:     "默认观众",
			repo:     &domain.Repo{Language: "Haskell"},
			expected: "General Developers, Programming Enthusiasts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TargetAudience(tt.repo))
		})
	}
}

func TestOptimalUploadTime(t *testing.T) {
	tests := []struct {
		name     string
		repo     *domain.Repo
		expected string
	}{
		{
			name:     "AI主题走周二档",
			repo:     &domain.Repo{Topics: []string{"ai"}},
			expected: "Tuesday 10 AM PST (high engagement from tech professionals)",
		},
		{
			name:     "前端主题走周三档",
			repo:     &domain.Repo{Topics: []string{"react"}},
			expected: "Wednesday 9 AM PST (web developers active)",
		},
		{
			name:     "默认时段",
			repo:     &domain.Repo{Topics: []string{"cli"}},
			expected: "Tuesday-Thursday 9-11 AM PST (general developer audience)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OptimalUploadTime(tt.repo))
		})
	}
}

func TestBuilder_BuildBriefing(t *testing.T) {
	repo := &domain.Repo{
		Name:        "hugo",
		FullName:    "gohugoio/hugo",
		URL:         "https://github.com/gohugoio/hugo",
		Description: "The world's fastest framework for building websites.",
		Language:    "Go",
		License:     "Apache-2.0",
		Stars:       70000,
		Forks:       7000,
		Topics:      []string{"static-site-generator"},
		CreatedAt:   time.Date(2013, 7, 4, 0, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
	}

	builder := &Builder{nowFunc: fixedNow}
	briefing := builder.BuildBriefing(repo, "Detailed AI analysis body.")

	assert.Same(t, repo, briefing.Repo)
	assert.Equal(t, "Detailed AI analysis body.", briefing.Analysis)
	assert.Equal(t, "🌟 Popular Repository Spotlight", briefing.ContentType)
	assert.Equal(t, "hugo_analysis.md", briefing.Filename)
	assert.Len(t, briefing.VideoTitles, 5)
	assert.Len(t, briefing.KeyMetrics, 4)

	// Markdown 必须包含全部章节和落款
	md := briefing.Markdown
	assert.Contains(t, md, "# Repository Analysis: gohugoio/hugo")
	assert.Contains(t, md, "Detailed AI analysis body.")
	assert.Contains(t, md, "## Video Production Notes")
	assert.Contains(t, md, "- **Content Type:** 🌟 Popular Repository Spotlight")
	assert.Contains(t, md, "- **Estimated Video Length:** 8-12 minutes")
	assert.Contains(t, md, "- **Key Metrics:** 70,000 stars, 7,000 forks")
	assert.Contains(t, md, "## Key Metrics to Highlight")
	assert.Contains(t, md, "## Suggested Video Titles")
	assert.Contains(t, md, "## Video Tags")
	assert.Contains(t, md, "*Generated by GitHub Trending Scout with Gemini AI Analysis*")
	for _, title := range briefing.VideoTitles {
		assert.Contains(t, md, title)
	}

	// 脚本骨架带时间轴章节
	assert.Contains(t, briefing.Script, "## Hook (0-15 seconds)")
	assert.Contains(t, briefing.Script, "## Call to Action (400-420 seconds)")
	assert.Contains(t, briefing.Script, "License: Apache-2.0")
}

func TestBuilder_Save(t *testing.T) {
	dir := t.TempDir()

	builder := &Builder{nowFunc: fixedNow}
	briefing := builder.BuildBriefing(&domain.Repo{Name: "demo", FullName: "me/demo"}, "analysis")

	path, err := builder.Save(briefing, dir)

	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "demo_analysis.md"), path)

	content, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, briefing.Markdown, string(content))
}

func TestBuilder_Save_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	builder := &Builder{nowFunc: fixedNow}
	briefing := builder.BuildBriefing(&domain.Repo{Name: "demo", FullName: "me/demo"}, "analysis")

	path, err := builder.Save(briefing, dir)

	assert.NoError(t, err)
	assert.FileExists(t, path)
}
