package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v53/github"

	"trending-scout/internal/common"
	"trending-scout/internal/domain"
)

// Search 执行一次仓库搜索
// 调用前先检查低水位线；只有 HTTP 200 才扣减本地配额
func (c *Client) Search(ctx context.Context, query, sort string, perPage int) ([]*domain.Repo, error) {
	if !validSorts[sort] {
		return nil, common.NewError(common.ErrCodeInvalidQuery, fmt.Sprintf("不支持的排序字段: %s", sort))
	}
	if perPage <= 0 {
		perPage = c.perPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// 低水位保护：余量不足时直接拒绝，不发网络请求
	if c.remaining <= lowWaterMark {
		return nil, common.NewError(common.ErrCodeQuotaLow,
			fmt.Sprintf("搜索配额仅剩 %d (水位线 %d)，本次搜索已拒绝", c.remaining, lowWaterMark))
	}

	opts := &github.SearchOptions{
		Sort:  sort,
		Order: "desc",
		ListOptions: github.ListOptions{
			PerPage: perPage,
		},
	}

	result, _, err := c.client.Search.Repositories(ctx, query, opts)
	if err != nil {
		appErr := classify("GitHub 搜索失败", err)
		if common.IsCode(appErr, common.ErrCodeQuotaExceeded) {
			c.remaining = 0
		}
		return nil, appErr
	}

	// 只有成功返回才消耗配额
	c.remaining--

	repos := make([]*domain.Repo, 0, len(result.Repositories))
	for _, item := range result.Repositories {
		repos = append(repos, toDomain(item))
	}
	return repos, nil
}

// GetRepository 拉取单个仓库详情 (不占用搜索配额计数)
func (c *Client) GetRepository(ctx context.Context, owner, name string) (*domain.Repo, error) {
	if owner == "" || name == "" {
		return nil, common.NewError(common.ErrCodeInvalidQuery, "owner 和仓库名不能为空")
	}

	item, _, err := c.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		appErr := classify(fmt.Sprintf("拉取仓库 %s/%s 失败", owner, name), err)
		if common.IsCode(appErr, common.ErrCodeQuotaExceeded) {
			c.mu.Lock()
			c.remaining = 0
			c.mu.Unlock()
		}
		return nil, appErr
	}
	return toDomain(item), nil
}

// CheckQuota 调 /rate_limit 查询真实余量并校准本地计数器
// /rate_limit 本身不消耗配额，启动时和配额面板用
func (c *Client) CheckQuota(ctx context.Context) (*domain.QuotaStatus, error) {
	limits, _, err := c.client.RateLimits(ctx)
	if err != nil {
		return nil, classify("查询配额失败", err)
	}

	core := limits.GetCore()
	if core == nil {
		return nil, common.NewError(common.ErrCodeTransient, "配额响应缺少 core 字段")
	}

	c.mu.Lock()
	c.remaining = core.Remaining
	c.mu.Unlock()

	return &domain.QuotaStatus{
		Remaining: core.Remaining,
		Low:       core.Remaining <= lowWaterMark,
		ResetAt:   core.Reset.Time,
	}, nil
}

// classify 把 go-github 的错误映射到应用错误码
// 403 → 配额耗尽；422 → 查询语法非法；404 → 仓库不存在；
// 其余 (超时/网络/5xx) 一律视作瞬时失败
func classify(message string, err error) error {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return common.WrapError(common.ErrCodeQuotaExceeded, message, err)
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusUnprocessableEntity:
			return common.WrapError(common.ErrCodeInvalidQuery, message, err)
		case http.StatusForbidden:
			return common.WrapError(common.ErrCodeQuotaExceeded, message, err)
		case http.StatusNotFound:
			return common.WrapError(common.ErrCodeNotFound, message, err)
		}
	}

	return common.WrapError(common.ErrCodeTransient, message, err)
}

// toDomain GitHub 的数据结构转换为 Domain 实体 (DTO 转换)
func toDomain(item *github.Repository) *domain.Repo {
	return &domain.Repo{
		ID:          item.GetID(),
		Name:        item.GetName(),
		FullName:    item.GetFullName(),
		URL:         item.GetHTMLURL(),
		Description: item.GetDescription(),
		Language:    item.GetLanguage(),
		License:     item.GetLicense().GetSPDXID(),
		Topics:      item.Topics,
		CreatedAt:   item.GetCreatedAt().Time,
		UpdatedAt:   item.GetUpdatedAt().Time,
		PushedAt:    item.GetPushedAt().Time,
		Stars:       item.GetStargazersCount(),
		Forks:       item.GetForksCount(),
		Watchers:    item.GetWatchersCount(),
		OpenIssues:  item.GetOpenIssuesCount(),
		HasWiki:     item.GetHasWiki(),
	}
}
