package analyzer

import (
	"fmt"
	"time"

	"trending-scout/internal/domain"
)

// 固定语言加成表，未列出的语言一律 1.0
var languageBoost = map[string]float64{
	"JavaScript": 1.2,
	"Python":     1.3,
	"TypeScript": 1.1,
	"Go":         1.0,
	"Rust":       1.4,
	"Swift":      0.9,
	"Kotlin":     0.8,
	"Java":       1.1,
	"C++":        1.0,
	"C#":         0.9,
	"PHP":        0.8,
}

// Engine 实现了 port.Scorer 接口
// 兴趣分 = (热度 + 活跃度) * 新鲜度系数 * 语言加成，权重固定不可配
type Engine struct {
	nowFunc func() time.Time
}

// NewEngine 创建打分引擎
func NewEngine() *Engine {
	return &Engine{
		nowFunc: time.Now, // 便于测试注入当前时间
	}
}

// Score 对单个仓库打分
// 纯函数：同一仓库同一时刻重复计算结果一致
func (e *Engine) Score(repo *domain.Repo) domain.ScoredRepo {
	// 热度：star、fork、watcher 加权求和
	popularity := float64(repo.Stars)*1.0 + float64(repo.Forks)*2.0 + float64(repo.Watchers)*1.5

	// 活跃度：open issue、wiki、主题标签数
	activity := float64(repo.OpenIssues) * 0.1
	if repo.HasWiki {
		activity += 10
	}
	activity += float64(len(repo.Topics)) * 5

	recency := e.recencyMultiplier(repo)

	boost := 1.0
	if b, ok := languageBoost[repo.Language]; ok {
		boost = b
	}

	return domain.ScoredRepo{
		Repo:  repo,
		Score: (popularity + activity) * recency * boost,
		Reasoning: fmt.Sprintf("Pop: %.1f, Activity: %.1f, Recency: %.2f, Lang: %.1f",
			popularity, activity, recency, boost),
	}
}

// recencyMultiplier 新鲜度系数：365 天线性衰减，下限 0.1
// 创建时间缺失时取 0.5
// 注意：创建时间在未来时 daysOld 为负，系数会大于 1.0，不设上限
func (e *Engine) recencyMultiplier(repo *domain.Repo) float64 {
	if repo.CreatedAt.IsZero() {
		return 0.5
	}
	daysOld := repo.AgeDays(e.nowFunc())
	mult := 1.0 - float64(daysOld)/365.0
	if mult < 0.1 {
		mult = 0.1
	}
	return mult
}
