package domain

import (
	"strings"
	"time"
)

// Repo 代表搜索端点返回的一个仓库记录
// 只读值对象：构造后不再修改，打分只读取
type Repo struct {
	// 基础信息 (来自 GitHub)
	ID          int64     `json:"id"`
	Name        string    `json:"name"`      // 例如 "hugo"
	FullName    string    `json:"full_name"` // 例如 "gohugoio/hugo"
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	License     string    `json:"license"`
	Topics      []string  `json:"topics"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	PushedAt    time.Time `json:"pushed_at"`

	// 热度信号，打分的输入
	Stars      int  `json:"stars"`
	Forks      int  `json:"forks"`
	Watchers   int  `json:"watchers"`
	OpenIssues int  `json:"open_issues"`
	HasWiki    bool `json:"has_wiki"`
}

// HasTopic 判断仓库是否带有指定主题标签 (忽略大小写)
func (r *Repo) HasTopic(topic string) bool {
	for _, t := range r.Topics {
		if strings.EqualFold(t, topic) {
			return true
		}
	}
	return false
}

// AgeDays 仓库创建至今的天数，小数截断
// CreatedAt 缺失时返回 -1，调用方自行兜底
func (r *Repo) AgeDays(now time.Time) int {
	if r.CreatedAt.IsZero() {
		return -1
	}
	return int(now.Sub(r.CreatedAt).Hours() / 24)
}

// ScoredRepo 打分产物：每次打分新建，不落库
type ScoredRepo struct {
	Repo      *Repo   `json:"repo"`
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"` // 四项中间量的可读拆解，仅供展示
}

// QuotaStatus 搜索配额快照
type QuotaStatus struct {
	Remaining int       `json:"remaining"`
	Low       bool      `json:"low"` // 余量已低于水位线
	ResetAt   time.Time `json:"reset_at"`
}

// Briefing 单个仓库的内容制作简报，可导出为 Markdown
type Briefing struct {
	Repo           *Repo    `json:"repo"`
	Analysis       string   `json:"analysis"`
	ContentType    string   `json:"content_type"`
	TargetAudience string   `json:"target_audience"`
	UploadTime     string   `json:"upload_time"`
	VideoTitles    []string `json:"video_titles"`
	Tags           []string `json:"tags"`
	KeyMetrics     []string `json:"key_metrics"`
	Script         string   `json:"script"`
	Markdown       string   `json:"markdown"`
	Filename       string   `json:"filename"`
}
