package port

import (
	"context"

	"trending-scout/internal/domain"
)

// Searcher (搜索端): 负责调 GitHub Search API 拉取仓库
// 配额计数器由实现方独占持有，其他组件只能通过它读取
type Searcher interface {
	// 比如：Search(ctx, "stars:10..100 forks:>5 created:>2026-08-15", "stars", 30)
	Search(ctx context.Context, query, sort string, perPage int) ([]*domain.Repo, error)

	// GetRepository 拉取单个仓库详情 (owner + 仓库名)
	GetRepository(ctx context.Context, owner, name string) (*domain.Repo, error)

	// CheckQuota 调 /rate_limit 校准本地计数器，启动时用
	CheckQuota(ctx context.Context) (*domain.QuotaStatus, error)

	// Quota 本地快照，不发网络请求
	Quota() domain.QuotaStatus
}

// Scorer (打分器): 对单个仓库计算兴趣分
// 同一仓库同一时刻重复打分必须得到相同结果
type Scorer interface {
	Score(repo *domain.Repo) domain.ScoredRepo
}

// Narrator (解说员): 负责调用 LLM (Gemini) 生成分析文案
type Narrator interface {
	// 输入仓库元数据，输出长文分析；未配置凭据时返回占位文案
	AnalyzeRepository(ctx context.Context, repo *domain.Repo) (string, error)

	// TranslateQuery 把自然语言翻译成 GitHub 搜索限定符
	// 未配置或翻译失败时原样返回输入
	TranslateQuery(ctx context.Context, freeText string) (string, error)

	// Configured 是否配置了凭据
	Configured() bool
}

// Notifier (推送端): 把定时扫描的榜单推到 IM Webhook
type Notifier interface {
	// label 是卡片标题里的类目名，items 需已按兴趣分降序
	NotifyScan(ctx context.Context, label string, items []domain.ScoredRepo) error
}

// ResultStore (会话仓库): 进程内暂存本次会话的结果
// 只活在进程生命周期内，重启即清空
type ResultStore interface {
	PutScan(category string, items []domain.ScoredRepo)
	Scan(category string) ([]domain.ScoredRepo, bool)

	PutSearch(query string, items []domain.ScoredRepo)
	Search(query string) ([]domain.ScoredRepo, bool)

	PutAnalysis(fullName string, briefing *domain.Briefing)
	Analysis(fullName string) (*domain.Briefing, bool)

	Clear()
}
