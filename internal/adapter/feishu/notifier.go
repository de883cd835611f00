package feishu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"trending-scout/internal/common"
	"trending-scout/internal/domain"
)

// 摘要卡片最多列出的仓库数
const maxDigestItems = 5

type Notifier struct {
	webhookURL string
}

func NewNotifier(webhook string) *Notifier {
	if webhook == "" {
		log.Println("⚠️ 警告: 飞书 Webhook 为空，推送功能将无法工作！")
	}
	return &Notifier{webhookURL: webhook}
}

// NotifyScan 把一次趋势扫描的榜单推成飞书卡片消息 (Schema 2.0)
// label 是卡片标题里的类目名，items 需已按兴趣分降序
func (n *Notifier) NotifyScan(ctx context.Context, label string, items []domain.ScoredRepo) error {
	if n.webhookURL == "" {
		return fmt.Errorf("Webhook URL 为空")
	}
	if len(items) == 0 {
		return nil
	}

	// 1. 准备标题
	title := fmt.Sprintf("📈 趋势扫描: %s", label)

	// 2. 构造 Markdown 摘要，只列前几名
	var md strings.Builder
	for i, item := range items {
		if i >= maxDigestItems {
			break
		}
		repo := item.Repo

		lang := repo.Language
		if lang == "" {
			lang = "N/A"
		}
		fmt.Fprintf(&md, "**#%d %s**  ⭐ %d | 🍴 %d | %s\n", i+1, repo.FullName, repo.Stars, repo.Forks, lang)
		fmt.Fprintf(&md, "**评分:** %.1f · %s\n", item.Score, item.Reasoning)
		if repo.Description != "" {
			fmt.Fprintf(&md, "%s\n", repo.Description)
		}
		md.WriteString("\n")
	}
	fmt.Fprintf(&md, "共 %d 个仓库", len(items))

	// 3. 构造 Schema 2.0 JSON 结构
	payload := map[string]interface{}{
		"msg_type": "interactive",
		"card": map[string]interface{}{
			"schema": "2.0",
			"config": map[string]interface{}{
				"update_multi": true,
			},
			"header": map[string]interface{}{
				"title": map[string]interface{}{
					"tag":     "plain_text",
					"content": title,
				},
				"template": "blue",
			},
			"body": map[string]interface{}{
				"direction": "vertical",
				"elements": []map[string]interface{}{
					{
						"tag":       "markdown",
						"content":   md.String(),
						"text_size": "normal",
					},
					{
						"tag": "button",
						"text": map[string]interface{}{
							"tag":     "plain_text",
							"content": "🔗 查看榜首",
						},
						"type": "primary",
						"behaviors": []map[string]interface{}{
							{
								"type":        "open_url",
								"default_url": items[0].Repo.URL,
							},
						},
					},
				},
			},
		},
	}

	// 4. 发送请求 (带重试机制)
	body, _ := json.Marshal(payload)
	err := common.Do(ctx, func() error {
		resp, postErr := http.Post(n.webhookURL, "application/json", bytes.NewBuffer(body))
		if postErr != nil {
			return postErr
		}
		defer resp.Body.Close()

		if resp.StatusCode != 200 {
			return fmt.Errorf("飞书 API 报错: 状态码 %d", resp.StatusCode)
		}
		return nil
	},
		common.WithMaxRetries(3),
		common.WithInitialDelay(500*time.Millisecond),
	)
	if err != nil {
		return fmt.Errorf("发送请求失败: %w", err)
	}

	return nil
}
