package feishu

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"trending-scout/internal/domain"

	"github.com/stretchr/testify/assert"
)

// mockFeishuServer 创建模拟的飞书 Webhook 服务器
func mockFeishuServer(t *testing.T, statusCode int, validatePayload func(*testing.T, map[string]interface{})) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		var payload map[string]interface{}
		err = json.Unmarshal(body, &payload)
		assert.NoError(t, err)

		if validatePayload != nil {
			validatePayload(t, payload)
		}

		w.WriteHeader(statusCode)
		w.Write([]byte(`{"code": 0, "msg": "success"}`))
	}))
}

func sampleItems() []domain.ScoredRepo {
	return []domain.ScoredRepo{
		{
			Repo: &domain.Repo{
				FullName:    "gohugoio/hugo",
				URL:         "https://github.com/gohugoio/hugo",
				Description: "The world's fastest framework for building websites",
				Language:    "Go",
				Stars:       70000,
				Forks:       7000,
			},
			Score:     87.5,
			Reasoning: "规模 40.0 + 热度 25.0 + 新鲜度 22.5",
		},
		{
			Repo: &domain.Repo{
				FullName: "pallets/flask",
				URL:      "https://github.com/pallets/flask",
				Language: "Python",
				Stars:    65000,
				Forks:    16000,
			},
			Score:     62.0,
			Reasoning: "规模 38.0 + 热度 24.0",
		},
	}
}

func TestNotifier_NotifyScan(t *testing.T) {
	server := mockFeishuServer(t, http.StatusOK, func(t *testing.T, payload map[string]interface{}) {
		// 验证消息类型和卡片结构
		assert.Equal(t, "interactive", payload["msg_type"])

		card, ok := payload["card"].(map[string]interface{})
		assert.True(t, ok)
		assert.Equal(t, "2.0", card["schema"])

		// 验证标题带类目名
		header := card["header"].(map[string]interface{})
		assert.Equal(t, "blue", header["template"])
		title := header["title"].(map[string]interface{})
		assert.Equal(t, "plain_text", title["tag"])
		assert.Contains(t, title["content"], "💎 Hidden Gems")

		// 验证 body: markdown 摘要 + 跳转按钮
		body := card["body"].(map[string]interface{})
		assert.Equal(t, "vertical", body["direction"])
		elements := body["elements"].([]interface{})
		assert.Equal(t, 2, len(elements))

		markdown := elements[0].(map[string]interface{})
		assert.Equal(t, "markdown", markdown["tag"])
		content := markdown["content"].(string)
		assert.Contains(t, content, "#1 gohugoio/hugo")
		assert.Contains(t, content, "#2 pallets/flask")
		assert.Contains(t, content, "87.5")
		assert.Contains(t, content, "共 2 个仓库")

		button := elements[1].(map[string]interface{})
		assert.Equal(t, "button", button["tag"])
		behaviors := button["behaviors"].([]interface{})
		behavior := behaviors[0].(map[string]interface{})
		assert.Equal(t, "open_url", behavior["type"])
		assert.Equal(t, "https://github.com/gohugoio/hugo", behavior["default_url"])
	})
	defer server.Close()

	notifier := NewNotifier(server.URL)
	err := notifier.NotifyScan(context.Background(), "💎 Hidden Gems", sampleItems())
	assert.NoError(t, err)
}

func TestNotifier_NotifyScan_TruncatesDigest(t *testing.T) {
	items := make([]domain.ScoredRepo, 0, 8)
	for i := 0; i < 8; i++ {
		items = append(items, domain.ScoredRepo{
			Repo: &domain.Repo{
				FullName: "owner/repo",
				URL:      "https://github.com/owner/repo",
				Language: "Go",
			},
			Score: float64(80 - i),
		})
	}

	server := mockFeishuServer(t, http.StatusOK, func(t *testing.T, payload map[string]interface{}) {
		card := payload["card"].(map[string]interface{})
		body := card["body"].(map[string]interface{})
		elements := body["elements"].([]interface{})
		content := elements[0].(map[string]interface{})["content"].(string)

		// 摘要只列前五名，但总数如实标注
		assert.Contains(t, content, "#5 ")
		assert.NotContains(t, content, "#6 ")
		assert.Contains(t, content, "共 8 个仓库")
	})
	defer server.Close()

	notifier := NewNotifier(server.URL)
	err := notifier.NotifyScan(context.Background(), "🆕 Newly Created", items)
	assert.NoError(t, err)
}

func TestNotifier_NotifyScan_EmptyItems(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewNotifier(server.URL)
	err := notifier.NotifyScan(context.Background(), "💎 Hidden Gems", nil)

	// 空榜单不推送
	assert.NoError(t, err)
	assert.Equal(t, int32(0), requests.Load())
}

func TestNotifier_NotifyScan_ErrorCases(t *testing.T) {
	tests := []struct {
		name           string
		setupNotifier  func() *Notifier
		errorSubstring string
	}{
		{
			name: "Webhook URL 为空",
			setupNotifier: func() *Notifier {
				return NewNotifier("")
			},
			errorSubstring: "Webhook URL 为空",
		},
		{
			name: "飞书 API 返回 400 错误",
			setupNotifier: func() *Notifier {
				server := mockFeishuServer(t, http.StatusBadRequest, nil)
				t.Cleanup(server.Close)
				return NewNotifier(server.URL)
			},
			errorSubstring: "飞书 API 报错",
		},
		{
			name: "飞书 API 返回 500 错误",
			setupNotifier: func() *Notifier {
				server := mockFeishuServer(t, http.StatusInternalServerError, nil)
				t.Cleanup(server.Close)
				return NewNotifier(server.URL)
			},
			errorSubstring: "飞书 API 报错",
		},
		{
			name: "无效的 Webhook URL",
			setupNotifier: func() *Notifier {
				return NewNotifier("http://invalid-url-that-does-not-exist-12345.com")
			},
			errorSubstring: "发送请求失败",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := tt.setupNotifier()

			err := notifier.NotifyScan(context.Background(), "💎 Hidden Gems", sampleItems())

			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorSubstring)
		})
	}
}

func TestNewNotifier(t *testing.T) {
	notifier := NewNotifier("https://open.feishu.cn/open-apis/bot/v2/hook/test-hook")
	assert.NotNil(t, notifier)
	assert.Equal(t, "https://open.feishu.cn/open-apis/bot/v2/hook/test-hook", notifier.webhookURL)

	// 空 Webhook 只告警不报错，发送时才失败
	empty := NewNotifier("")
	assert.NotNil(t, empty)
	assert.Equal(t, "", empty.webhookURL)
}
