package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"trending-scout/internal/domain"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestEngine_Score(t *testing.T) {
	now := fixedNow()

	tests := []struct {
		name   string
		repo   *domain.Repo
		verify func(*testing.T, domain.ScoredRepo)
	}{
		{
			name: "全量信号的仓库按固定权重计算",
			repo: &domain.Repo{
				Name:       "full-repo",
				Stars:      100,
				Forks:      10,
				Watchers:   20,
				OpenIssues: 10,
				HasWiki:    true,
				Topics:     []string{"cli", "tooling"},
				Language:   "Python",
				CreatedAt:  now.AddDate(0, 0, -73), // 73天前，衰减到0.8
			},
			verify: func(t *testing.T, got domain.ScoredRepo) {
				// pop=150, activity=21, recency=0.8, boost=1.3
				assert.InDelta(t, 177.84, got.Score, 0.0001)
				assert.Equal(t, "Pop: 150.0, Activity: 21.0, Recency: 0.80, Lang: 1.3", got.Reasoning)
			},
		},
		{
			name: "十年前创建的仓库衰减触底0.1",
			repo: &domain.Repo{
				Name:      "ancient-repo",
				Stars:     100,
				Language:  "Go",
				CreatedAt: now.AddDate(-10, 0, 0),
			},
			verify: func(t *testing.T, got domain.ScoredRepo) {
				assert.InDelta(t, 10.0, got.Score, 0.0001)
				assert.Contains(t, got.Reasoning, "Recency: 0.10")
			},
		},
		{
			name: "缺失创建时间时衰减取0.5",
			repo: &domain.Repo{
				Name:  "undated-repo",
				Stars: 100,
			},
			verify: func(t *testing.T, got domain.ScoredRepo) {
				assert.InDelta(t, 50.0, got.Score, 0.0001)
				assert.Contains(t, got.Reasoning, "Recency: 0.50")
			},
		},
		{
			name: "未知语言加成为1.0",
			repo: &domain.Repo{
				Name:      "exotic-repo",
				Stars:     10,
				Language:  "COBOL",
				CreatedAt: now,
			},
			verify: func(t *testing.T, got domain.ScoredRepo) {
				assert.Contains(t, got.Reasoning, "Lang: 1.0")
			},
		},
		{
			name: "空语言加成为1.0",
			repo: &domain.Repo{
				Name:      "no-lang-repo",
				Stars:     10,
				CreatedAt: now,
			},
			verify: func(t *testing.T, got domain.ScoredRepo) {
				assert.Contains(t, got.Reasoning, "Lang: 1.0")
			},
		},
		{
			name: "全零仓库得分为零且不为负",
			repo: &domain.Repo{
				Name:      "empty-repo",
				CreatedAt: now.AddDate(0, 0, -1),
			},
			verify: func(t *testing.T, got domain.ScoredRepo) {
				assert.Equal(t, 0.0, got.Score)
			},
		},
		{
			name: "创建时间在未来时系数大于1.0且不设上限",
			repo: &domain.Repo{
				Name:      "future-repo",
				Stars:     100,
				Language:  "Go",
				CreatedAt: now.AddDate(0, 0, 365), // 负的天数，1-(-365)/365=2.0
			},
			verify: func(t *testing.T, got domain.ScoredRepo) {
				assert.InDelta(t, 200.0, got.Score, 0.0001)
				assert.Contains(t, got.Reasoning, "Recency: 2.00")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &Engine{nowFunc: fixedNow}
			got := engine.Score(tt.repo)
			assert.Same(t, tt.repo, got.Repo)
			tt.verify(t, got)
		})
	}
}

func TestEngine_Score_Monotonic(t *testing.T) {
	base := &domain.Repo{
		Name:      "base-repo",
		Stars:     50,
		Forks:     5,
		Watchers:  10,
		Language:  "Go",
		CreatedAt: fixedNow().AddDate(0, 0, -30),
	}

	tests := []struct {
		name string
		bump func(r *domain.Repo)
	}{
		{name: "star 增加分数不降", bump: func(r *domain.Repo) { r.Stars++ }},
		{name: "fork 增加分数不降", bump: func(r *domain.Repo) { r.Forks++ }},
		{name: "watcher 增加分数不降", bump: func(r *domain.Repo) { r.Watchers++ }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &Engine{nowFunc: fixedNow}
			before := engine.Score(base).Score

			bumped := *base
			tt.bump(&bumped)
			after := engine.Score(&bumped).Score

			assert.GreaterOrEqual(t, after, before)
		})
	}
}

func TestEngine_Score_NonNegative(t *testing.T) {
	now := fixedNow()
	repos := []*domain.Repo{
		{},
		{Stars: 1},
		{Stars: 1000, Forks: 200, Watchers: 300, OpenIssues: 50, CreatedAt: now.AddDate(-20, 0, 0)},
		{Language: "PHP", CreatedAt: now.AddDate(-3, 0, 0)},
	}

	engine := &Engine{nowFunc: fixedNow}
	for _, repo := range repos {
		got := engine.Score(repo)
		assert.GreaterOrEqual(t, got.Score, 0.0)
	}
}

func TestEngine_Score_Deterministic(t *testing.T) {
	repo := &domain.Repo{
		Name:      "stable-repo",
		Stars:     123,
		Forks:     45,
		Watchers:  67,
		Topics:    []string{"go", "cli"},
		Language:  "Rust",
		CreatedAt: fixedNow().AddDate(0, 0, -100),
	}

	engine := &Engine{nowFunc: fixedNow}
	first := engine.Score(repo)
	second := engine.Score(repo)

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Reasoning, second.Reasoning)
}
