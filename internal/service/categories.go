package service

// categoryQueries 各类目对应的搜索限定符模板，%s 填日期阈值 (YYYY-MM-DD)
var categoryQueries = map[string]string{
	"newly_created":    "created:>%s",
	"recently_active":  "pushed:>%s stars:>10",
	"hot_topics":       "good-first-issues:>0 created:>%s",
	"ai_ml_trending":   "topic:machine-learning created:>%s",
	"web_dev_trending": "topic:react created:>%s",
	"devops_trending":  "topic:docker created:>%s",
	"mobile_trending":  "topic:android created:>%s",
	"breaking_out":     "stars:100..1000 created:>%s",
	"hidden_gems":      "stars:10..100 forks:>5 created:>%s",
}

// categoryLabels 类目的展示名
var categoryLabels = map[string]string{
	"newly_created":    "🆕 Newly Created (Last 7 days)",
	"recently_active":  "⚡ Recently Active",
	"breaking_out":     "🚀 Breaking Out (100-1000 stars)",
	"hidden_gems":      "💎 Hidden Gems (10-100 stars)",
	"ai_ml_trending":   "🤖 AI/ML Trending",
	"web_dev_trending": "🌐 Web Dev Trending",
	"devops_trending":  "⚙️ DevOps Trending",
	"mobile_trending":  "📱 Mobile Trending",
	"hot_topics":       "🔥 Hot Topics",
}

// categoryOrder 类目的展示顺序
var categoryOrder = []string{
	"newly_created",
	"recently_active",
	"breaking_out",
	"hidden_gems",
	"ai_ml_trending",
	"web_dev_trending",
	"devops_trending",
	"mobile_trending",
	"hot_topics",
}

// Categories 返回全部类目 key，按固定展示顺序
func Categories() []string {
	out := make([]string, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// CategoryLabel 返回类目的展示名，未知类目返回空串
func CategoryLabel(category string) string {
	return categoryLabels[category]
}

// ValidCategory 类目是否存在
func ValidCategory(category string) bool {
	_, ok := categoryQueries[category]
	return ok
}
