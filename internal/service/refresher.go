package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"trending-scout/internal/common"
	"trending-scout/internal/port"
)

// 单轮刷新的总超时
const refreshTimeout = 2 * time.Minute

// Refresher 定时刷新热门类目的扫描结果，写入会话存储
// 配额低于水位线时整轮跳过，避免后台任务吃光交互配额
type Refresher struct {
	service    *ScoutService
	store      port.ResultStore
	notifier   port.Notifier
	cron       *cron.Cron
	categories []string
	days       int
}

// NewRefresher 创建定时刷新器，notifier 传 nil 表示不推送
func NewRefresher(service *ScoutService, store port.ResultStore, notifier port.Notifier, categories []string, days int) *Refresher {
	return &Refresher{
		service:    service,
		store:      store,
		notifier:   notifier,
		cron:       cron.New(),
		categories: categories,
		days:       days,
	}
}

// Start 按 cron 表达式注册刷新任务并启动调度器
func (r *Refresher) Start(spec string) error {
	if _, err := r.cron.AddFunc(spec, r.refresh); err != nil {
		return common.WrapError(common.ErrCodeInternal, fmt.Sprintf("注册定时任务失败: %s", spec), err)
	}
	r.cron.Start()
	fmt.Printf("⏰ [定时刷新] 已启动，表达式 %q，类目 %v\n", spec, r.categories)
	return nil
}

// Stop 停止调度器并等待进行中的任务结束
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
	fmt.Println("⏰ [定时刷新] 已停止")
}

// refresh 执行一轮刷新
func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	if status := r.service.Quota(); status.Low {
		log.Printf("⚠️ [定时刷新] 配额过低 (剩余 %d)，本轮跳过", status.Remaining)
		return
	}

	for _, category := range r.categories {
		items, err := r.service.ScanTrending(ctx, category, r.days)
		if err != nil {
			log.Printf("❌ [定时刷新] 扫描类目 %s 失败: %v", category, err)
			// 配额相关的失败对后续类目同样成立，直接收工
			if common.IsCode(err, common.ErrCodeQuotaLow) || common.IsCode(err, common.ErrCodeQuotaExceeded) {
				return
			}
			continue
		}
		r.store.PutScan(category, items)
		fmt.Printf("💾 [定时刷新] 类目 %s 已更新，%d 个仓库\n", category, len(items))

		if r.notifier == nil || len(items) == 0 {
			continue
		}
		label := CategoryLabel(category)
		if label == "" {
			label = category
		}
		if err := r.notifier.NotifyScan(ctx, label, items); err != nil {
			log.Printf("⚠️ [定时刷新] 推送类目 %s 失败: %v", category, err)
			continue
		}
		fmt.Printf("📲 [定时刷新] 类目 %s 已推送\n", category)
	}
}
