package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"trending-scout/internal/adapter/analyzer"
	"trending-scout/internal/adapter/export"
	"trending-scout/internal/adapter/feishu"
	"trending-scout/internal/adapter/gemini"
	"trending-scout/internal/adapter/github"
	"trending-scout/internal/config"
	"trending-scout/internal/domain"
	"trending-scout/internal/port"
	"trending-scout/internal/server"
	"trending-scout/internal/service"
	"trending-scout/internal/session"
)

func main() {
	// 1. 定义命令行参数
	mode := flag.String("mode", "scan", "运行模式: scan (趋势扫描) / search (自定义搜索) / analyze (深度分析) / quota (查配额) / ideas (创意清单) / serve (HTTP 服务)")
	category := flag.String("category", "hidden_gems", "扫描类目 (仅在 scan 模式下有效)")
	days := flag.Int("days", 7, "回看天数 1-30 (仅在 scan 模式下有效)")
	top := flag.Int("top", 10, "打印前 N 条结果")
	query := flag.String("q", "", "搜索语句 (仅在 search 模式下有效)")
	sortBy := flag.String("sort", "stars", "排序字段: stars / forks / updated / created")
	natural := flag.Bool("natural", false, "把 -q 当自然语言，先交给 AI 翻译成搜索限定符")
	repoRef := flag.String("repo", "", "目标仓库 owner/name (仅在 analyze 模式下有效)")
	outDir := flag.String("out", "", "简报输出目录，留空用配置值")
	configPath := flag.String("config", "", "YAML 配置文件路径，留空则只用 .env 和环境变量")
	addr := flag.String("addr", "", "HTTP 监听地址，留空用配置值 (仅在 serve 模式下有效)")
	flag.Parse()

	// 2. 加载配置 (.env + YAML + 环境变量)
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ 配置加载失败: %v", err)
	}
	if *outDir == "" {
		*outDir = cfg.OutputDir
	}
	if *addr == "" {
		*addr = cfg.Addr
	}

	// 3. 初始化组件
	ctx := context.Background()

	var ghOpts []github.Option
	if cfg.GitHubBaseURL != "" {
		ghOpts = append(ghOpts, github.WithBaseURL(cfg.GitHubBaseURL))
	}
	if cfg.PerPage > 0 {
		ghOpts = append(ghOpts, github.WithPerPage(cfg.PerPage))
	}
	searcher := github.NewClient(cfg.GitHubToken, ghOpts...)

	narrator, err := gemini.NewNarrator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("❌ AI 初始化失败: %v", err)
	}
	defer narrator.Close()

	builder := export.NewBuilder()
	scout := service.NewScoutService(searcher, analyzer.NewEngine(), narrator, builder)

	// 4. 根据模式分流
	switch *mode {
	case "scan":
		runScan(ctx, scout, *category, *days, *top)
	case "search":
		runSearch(ctx, scout, *query, *sortBy, *natural, *top)
	case "analyze":
		runAnalyze(ctx, scout, builder, *repoRef, *outDir)
	case "quota":
		runQuota(ctx, scout)
	case "ideas":
		runIdeas(scout)
	case "serve":
		runServe(ctx, scout, cfg, *addr)
	default:
		fmt.Println("❌ 未知模式，请使用 -mode=scan / search / analyze / quota / ideas / serve")
	}
}

// --- 趋势扫描模式逻辑 ---
func runScan(ctx context.Context, scout *service.ScoutService, category string, days, top int) {
	if !service.ValidCategory(category) {
		fmt.Printf("⚠️ 未知类目 %q，可选值:\n", category)
		for _, key := range service.Categories() {
			fmt.Printf("  %-20s %s\n", key, service.CategoryLabel(key))
		}
		return
	}

	items, err := scout.ScanTrending(ctx, category, days)
	if err != nil {
		log.Fatalf("❌ 扫描失败: %v", err)
	}

	printScored(fmt.Sprintf("%s · 最近 %d 天", service.CategoryLabel(category), days), items, top)
}

// --- 自定义搜索模式逻辑 ---
func runSearch(ctx context.Context, scout *service.ScoutService, query, sortBy string, natural bool, top int) {
	if query == "" {
		fmt.Println("⚠️ 请输入搜索语句。")
		fmt.Println("例如: -q 'language:go stars:>500' 或 -q '我想找一个Python的机器学习库' -natural")
		return
	}

	items, effective, err := scout.SearchCustom(ctx, query, sortBy, natural)
	if err != nil {
		log.Fatalf("❌ 搜索失败: %v", err)
	}

	printScored(fmt.Sprintf("搜索 [%s]", effective), items, top)
}

// --- 深度分析模式逻辑 ---
func runAnalyze(ctx context.Context, scout *service.ScoutService, builder *export.Builder, repoRef, outDir string) {
	owner, name, ok := splitRepoRef(repoRef)
	if !ok {
		fmt.Println("⚠️ 请用 -repo owner/name 指定目标仓库。")
		fmt.Println("例如: -repo gohugoio/hugo")
		return
	}

	briefing, err := scout.AnalyzeRepo(ctx, owner, name)
	if err != nil {
		log.Fatalf("❌ 分析失败: %v", err)
	}

	path, err := builder.Save(briefing, outDir)
	if err != nil {
		log.Fatalf("❌ 简报保存失败: %v", err)
	}
	fmt.Printf("💾 简报已保存: %s\n", path)
}

// --- 配额模式逻辑 ---
func runQuota(ctx context.Context, scout *service.ScoutService) {
	quota, err := scout.CheckQuota(ctx)
	if err != nil {
		log.Fatalf("❌ 配额校准失败: %v", err)
	}

	fmt.Println("================ [ 搜索配额 ] ================")
	fmt.Printf("剩余次数: %d\n", quota.Remaining)
	fmt.Printf("重置时间: %s\n", quota.ResetAt.Local().Format("2006-01-02 15:04:05"))
	if quota.Low {
		fmt.Println("⚠️ 余量偏低，建议等配额重置后再扫")
	}
	fmt.Println("==============================================")
}

// --- 创意清单模式逻辑 ---
func runIdeas(scout *service.ScoutService) {
	fmt.Println("💡 选题灵感:")
	for _, idea := range scout.ContentIdeas() {
		fmt.Printf("  - %s\n", idea)
	}
	fmt.Println()
	fmt.Println("📋 视频制作流程:")
	for _, step := range scout.WorkflowSteps() {
		fmt.Printf("  %s\n", step)
	}
}

// --- HTTP 服务模式逻辑 ---
func runServe(ctx context.Context, scout *service.ScoutService, cfg *config.Config, addr string) {
	// 启动时校准一次配额，失败不致命
	if _, err := scout.CheckQuota(ctx); err != nil {
		log.Printf("⚠️ 启动时配额校准失败: %v", err)
	}

	store := session.NewStore()

	// 配置了 Webhook 才推送
	var notifier port.Notifier
	if cfg.FeishuWebhook != "" {
		notifier = feishu.NewNotifier(cfg.FeishuWebhook)
	}

	// 后台定时刷新热门类目，跟 HTTP 接口共用一个会话仓库
	if cfg.RefreshCron != "" {
		refresher := service.NewRefresher(scout, store, notifier, cfg.RefreshCategories, cfg.RefreshDays)
		if err := refresher.Start(cfg.RefreshCron); err != nil {
			log.Fatalf("❌ 定时刷新启动失败: %v", err)
		}
		defer refresher.Stop()
	}

	srv := server.New(scout, store, cfg)
	if err := srv.Run(addr); err != nil {
		log.Fatalf("❌ HTTP 服务异常退出: %v", err)
	}
}

// printScored 打印打分结果的前 top 条
func printScored(title string, items []domain.ScoredRepo, top int) {
	fmt.Printf("\n================ [ %s ] ================\n", title)
	if len(items) == 0 {
		fmt.Println("📭 没有匹配的仓库")
		return
	}

	for i, item := range items {
		if i >= top {
			break
		}
		repo := item.Repo
		fmt.Printf("#%d %s (⭐ %d | 🍴 %d)\n", i+1, repo.FullName, repo.Stars, repo.Forks)
		fmt.Printf("   评分 %.1f | %s\n", item.Score, item.Reasoning)
		if repo.Description != "" {
			fmt.Printf("   %s\n", repo.Description)
		}
		fmt.Printf("   %s\n", repo.URL)
	}
	fmt.Printf("共 %d 个仓库\n", len(items))
}

// splitRepoRef 把 "owner/name" 拆成两段
func splitRepoRef(ref string) (owner, name string, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(ref), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
