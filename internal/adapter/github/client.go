package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/go-github/v53/github"
	"golang.org/x/oauth2"

	"trending-scout/internal/domain"
)

const (
	// 本地配额起点 (匿名访问 60次/小时)，CheckQuota 会校准为真实值
	defaultQuota = 60

	// 低水位线：余量低于等于该值时拒绝发起新搜索
	lowWaterMark = 5

	defaultPerPage = 30
	maxPerPage     = 100

	// 单次请求的网络预算
	requestTimeout = 10 * time.Second
)

// 搜索端点支持的排序字段
var validSorts = map[string]bool{
	"stars":   true,
	"forks":   true,
	"updated": true,
	"created": true,
}

// Client 实现了 port.Searcher 接口
// 配额计数器由 Client 独占持有：检查、调用、扣减在同一把锁内完成，
// 消除 check-then-act 竞态
type Client struct {
	client  *github.Client
	perPage int

	mu        sync.Mutex
	remaining int
}

// Option 客户端可选配置
type Option func(*Client)

// WithBaseURL 改写 API 地址 (GitHub Enterprise 或测试服务器)
func WithBaseURL(rawURL string) Option {
	return func(c *Client) {
		if !strings.HasSuffix(rawURL, "/") {
			rawURL += "/"
		}
		if u, err := url.Parse(rawURL); err == nil {
			c.client.BaseURL = u
		}
	}
}

// WithPerPage 设置搜索默认每页条数
func WithPerPage(n int) Option {
	return func(c *Client) {
		if n > 0 && n <= maxPerPage {
			c.perPage = n
		}
	}
}

// WithInitialQuota 设置本地配额计数器起点
func WithInitialQuota(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.remaining = n
		}
	}
}

// NewClient 初始化 GitHub 客户端
// token: GitHub Personal Access Token (如果是空字符串，就是匿名访问，限制 60次/小时)
func NewClient(token string, opts ...Option) *Client {
	var httpClient *http.Client

	if token == "" {
		httpClient = &http.Client{}
	} else {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	httpClient.Timeout = requestTimeout

	c := &Client{
		client:    github.NewClient(httpClient),
		perPage:   defaultPerPage,
		remaining: defaultQuota,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Quota 本地配额快照，不发网络请求
func (c *Client) Quota() domain.QuotaStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.QuotaStatus{
		Remaining: c.remaining,
		Low:       c.remaining <= lowWaterMark,
	}
}
