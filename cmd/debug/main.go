package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"trending-scout/internal/adapter/analyzer"
	"trending-scout/internal/adapter/export"
	"trending-scout/internal/adapter/gemini"
	"trending-scout/internal/adapter/github"
	"trending-scout/internal/service"
)

func main() {
	// 获取环境变量
	githubToken := os.Getenv("GITHUB_TOKEN")
	geminiKey := os.Getenv("GEMINI_API_KEY")

	ctx := context.Background()

	// 初始化组件
	searcher := github.NewClient(githubToken)
	narrator, err := gemini.NewNarrator(ctx, geminiKey, "")
	if err != nil {
		log.Fatalf("❌ AI 初始化失败: %v", err)
	}
	defer narrator.Close()

	scout := service.NewScoutService(searcher, analyzer.NewEngine(), narrator, export.NewBuilder())

	fmt.Println("🔍 调试模式：扫描并分析趋势仓库")

	// 1. 校准搜索配额
	quota, err := scout.CheckQuota(ctx)
	if err != nil {
		log.Printf("⚠️ 配额校准失败: %v", err)
	} else {
		fmt.Printf("✅ 搜索配额剩余 %d 次\n", quota.Remaining)
	}

	// 2. 测试 AI 连接
	if narrator.Configured() {
		if err := narrator.TestConnection(ctx); err != nil {
			log.Printf("⚠️ Gemini 连接测试失败: %v", err)
		} else {
			fmt.Println("✅ Gemini 连接正常")
		}
	} else {
		fmt.Println("⚠️ 未配置 GEMINI_API_KEY，AI 功能降级")
	}

	// 3. 扫描一个类目用于测试
	fmt.Println("📥 正在扫描 hidden_gems 类目...")
	items, err := scout.ScanTrending(ctx, "hidden_gems", 7)
	if err != nil {
		log.Printf("❌ 扫描失败: %v", err)
		return
	}
	fmt.Printf("✅ 成功获取 %d 个仓库\n", len(items))

	if len(items) == 0 {
		fmt.Println("❌ 没有获取到任何仓库")
		return
	}

	// 4. 打印前几名的兴趣分拆解
	fmt.Printf("🧮 前%d个仓库的兴趣分:\n", min(3, len(items)))
	for i, item := range items {
		if i >= 3 {
			break
		}

		fmt.Printf("  #%d %s\n", i+1, item.Repo.FullName)
		fmt.Printf("    评分: %.1f\n", item.Score)
		fmt.Printf("    拆解: %s\n", item.Reasoning)
		fmt.Printf("    ⭐ %d | 🍴 %d | %s\n", item.Repo.Stars, item.Repo.Forks, item.Repo.Language)
		fmt.Println()
	}

	// 5. 对榜首做一次深度分析
	first := items[0].Repo
	parts := strings.SplitN(first.FullName, "/", 2)
	if len(parts) != 2 {
		fmt.Printf("❌ 仓库全名格式异常: %s\n", first.FullName)
		return
	}

	briefing, err := scout.AnalyzeRepo(ctx, parts[0], parts[1])
	if err != nil {
		log.Printf("⚠️ 深度分析失败: %v", err)
		return
	}

	fmt.Printf("    内容定位: %s\n", briefing.ContentType)
	fmt.Printf("    目标观众: %s\n", briefing.TargetAudience)
	fmt.Printf("    建议标题: %s\n", briefing.VideoTitles[0])
	fmt.Printf("    简报文件: %s\n", briefing.Filename)
}
