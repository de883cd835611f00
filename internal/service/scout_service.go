package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"trending-scout/internal/adapter/export"
	"trending-scout/internal/common"
	"trending-scout/internal/domain"
	"trending-scout/internal/port"
)

// 回看窗口允许的范围（天）
const (
	minDaysBack = 1
	maxDaysBack = 30
)

// ScoutService 处理趋势侦察逻辑
type ScoutService struct {
	searcher port.Searcher
	scorer   port.Scorer
	narrator port.Narrator
	builder  *export.Builder
	nowFunc  func() time.Time
}

// NewScoutService 创建新的侦察服务
func NewScoutService(
	searcher port.Searcher,
	scorer port.Scorer,
	narrator port.Narrator,
	builder *export.Builder,
) *ScoutService {
	return &ScoutService{
		searcher: searcher,
		scorer:   scorer,
		narrator: narrator,
		builder:  builder,
		nowFunc:  time.Now, // 便于测试注入当前时间
	}
}

// ScanTrending 按类目扫描趋势仓库，结果按兴趣分降序
func (s *ScoutService) ScanTrending(ctx context.Context, category string, days int) ([]domain.ScoredRepo, error) {
	template, ok := categoryQueries[category]
	if !ok {
		return nil, common.NewError(common.ErrCodeInvalidQuery, fmt.Sprintf("未知的扫描类目: %s", category))
	}
	if days < minDaysBack || days > maxDaysBack {
		return nil, common.NewError(common.ErrCodeInvalidQuery,
			fmt.Sprintf("回看天数 %d 超出范围 (%d-%d)", days, minDaysBack, maxDaysBack))
	}

	threshold := s.nowFunc().AddDate(0, 0, -days).Format("2006-01-02")
	query := fmt.Sprintf(template, threshold)

	fmt.Printf("🔍 [趋势扫描] 类目 %s，查询: %s\n", category, query)

	repos, err := s.searcher.Search(ctx, query, "stars", 0)
	if err != nil {
		log.Printf("❌ [趋势扫描] 搜索失败: %v", err)
		return nil, err
	}

	scored := make([]domain.ScoredRepo, 0, len(repos))
	for _, repo := range repos {
		scored = append(scored, s.scorer.Score(repo))
	}

	// 分数相同的保持 API 返回顺序
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	fmt.Printf("✅ [趋势扫描] 完成，共 %d 个仓库\n", len(scored))
	return scored, nil
}

// SearchCustom 执行自定义搜索
// natural 为真时先把输入交给 AI 翻译成搜索限定符，翻译失败按原文搜索
// 结果带兴趣分但保持 API 返回顺序，返回值里带上实际使用的查询串
func (s *ScoutService) SearchCustom(ctx context.Context, query, sortBy string, natural bool) ([]domain.ScoredRepo, string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, "", common.NewError(common.ErrCodeInvalidQuery, "搜索关键词不能为空")
	}
	if sortBy == "" {
		sortBy = "stars"
	}

	effective := query
	if natural {
		translated, err := s.narrator.TranslateQuery(ctx, query)
		if err != nil {
			log.Printf("⚠️ [自定义搜索] 自然语言翻译失败，按原文搜索: %v", err)
		}
		effective = translated
		if effective != query {
			fmt.Printf("🤖 [自定义搜索] AI 翻译后的查询: %s\n", effective)
		}
	}

	fmt.Printf("🔍 [自定义搜索] 查询: %s，排序: %s\n", effective, sortBy)

	repos, err := s.searcher.Search(ctx, effective, sortBy, 0)
	if err != nil {
		log.Printf("❌ [自定义搜索] 搜索失败: %v", err)
		return nil, effective, err
	}

	scored := make([]domain.ScoredRepo, 0, len(repos))
	for _, repo := range repos {
		scored = append(scored, s.scorer.Score(repo))
	}

	fmt.Printf("✅ [自定义搜索] 完成，共 %d 个仓库\n", len(scored))
	return scored, effective, nil
}

// AnalyzeRepo 拉取仓库详情，生成 AI 分析并组装制作简报
// AI 分析失败时降级为占位文案，简报照常生成
func (s *ScoutService) AnalyzeRepo(ctx context.Context, owner, name string) (*domain.Briefing, error) {
	fmt.Printf("🧠 [深度分析] 正在分析 %s/%s...\n", owner, name)

	repo, err := s.searcher.GetRepository(ctx, owner, name)
	if err != nil {
		log.Printf("❌ [深度分析] 拉取仓库详情失败: %v", err)
		return nil, err
	}

	analysis, err := s.narrator.AnalyzeRepository(ctx, repo)
	if err != nil {
		log.Printf("⚠️ [深度分析] AI 分析失败，简报降级: %v", err)
		analysis = fmt.Sprintf("❌ Error analyzing repository: %v", err)
	}

	briefing := s.builder.BuildBriefing(repo, analysis)

	fmt.Printf("✅ [深度分析] 完成: %s\n", briefing.Filename)
	return briefing, nil
}

// Quota 返回本地配额快照，不发网络请求
func (s *ScoutService) Quota() domain.QuotaStatus {
	return s.searcher.Quota()
}

// CheckQuota 调 /rate_limit 校准配额计数器
func (s *ScoutService) CheckQuota(ctx context.Context) (*domain.QuotaStatus, error) {
	return s.searcher.CheckQuota(ctx)
}

// AIConfigured 是否配置了 AI 凭据
func (s *ScoutService) AIConfigured() bool {
	return s.narrator.Configured()
}

// contentIdeas 固定的选题灵感清单
var contentIdeas = []string{
	"🔥 'This Repository is Breaking GitHub!' - Focus on rapid growth stories",
	"💎 'Hidden Gem Alert' - Showcase undervalued high-quality repos",
	"⚔️ 'Repo Battle' - Compare similar libraries/frameworks",
	"🚀 'From Zero to Hero' - Track a repository's growth journey",
	"🤖 'AI Tool of the Week' - Spotlight trending AI repositories",
	"🌟 'Developer Spotlight' - Interview major contributors",
	"🔍 'Why is Everyone Talking About...' - Analyze viral repos",
	"📚 'Learning Path' - Curate repositories for skill development",
}

// workflowSteps 固定的视频制作流程
var workflowSteps = []string{
	"1. 🔍 **Discover** - Use Trending Scout to find interesting repositories",
	"2. 🤖 **AI Analysis** - Click 'Generate AI Analysis' for comprehensive research",
	"3. 📚 **NotebookLM** - Download analysis and upload to NotebookLM for podcast generation",
	"4. 🎤 **Audio** - Use NotebookLM's generated podcast as your voiceover base",
	"5. 🎨 **Visuals** - Add code examples, repository screenshots, and animations",
	"6. ✂️ **Edit** - Combine audio, visuals, and add captions",
	"7. 📤 **Publish** - Upload to YouTube with AI-generated titles and tags",
}

// ContentIdeas 返回选题灵感清单
func (s *ScoutService) ContentIdeas() []string {
	return contentIdeas
}

// WorkflowSteps 返回视频制作流程
func (s *ScoutService) WorkflowSteps() []string {
	return workflowSteps
}
