package session

import (
	"sync"
	"time"

	"trending-scout/internal/domain"
)

type resultEntry struct {
	items   []domain.ScoredRepo
	savedAt time.Time
}

type analysisEntry struct {
	briefing *domain.Briefing
	savedAt  time.Time
}

// Snapshot 会话内容总览，给前端/CLI 展示用
type Snapshot struct {
	Scans    map[string]time.Time `json:"scans"`    // 分类 -> 保存时间
	Searches map[string]time.Time `json:"searches"` // 查询串 -> 保存时间
	Analyses map[string]time.Time `json:"analyses"` // 仓库全名 -> 保存时间
}

// Store 实现了 port.ResultStore 接口
// 进程内的结果暂存：只活在进程生命周期内，不落盘，重启即清空
type Store struct {
	mu       sync.RWMutex
	scans    map[string]resultEntry
	searches map[string]resultEntry
	analyses map[string]analysisEntry
	nowFunc  func() time.Time
}

// NewStore 创建空的会话存储
func NewStore() *Store {
	return &Store{
		scans:    make(map[string]resultEntry),
		searches: make(map[string]resultEntry),
		analyses: make(map[string]analysisEntry),
		nowFunc:  time.Now,
	}
}

// PutScan 暂存一次分类扫描结果，同分类覆盖
func (s *Store) PutScan(category string, items []domain.ScoredRepo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scans[category] = resultEntry{items: items, savedAt: s.nowFunc()}
}

// Scan 取出最近一次该分类的扫描结果
func (s *Store) Scan(category string) ([]domain.ScoredRepo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.scans[category]
	return entry.items, ok
}

// PutSearch 暂存一次自定义搜索结果，同查询串覆盖
func (s *Store) PutSearch(query string, items []domain.ScoredRepo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searches[query] = resultEntry{items: items, savedAt: s.nowFunc()}
}

// Search 取出最近一次该查询串的搜索结果
func (s *Store) Search(query string) ([]domain.ScoredRepo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.searches[query]
	return entry.items, ok
}

// PutAnalysis 暂存一份仓库简报，按仓库全名覆盖
func (s *Store) PutAnalysis(fullName string, briefing *domain.Briefing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses[fullName] = analysisEntry{briefing: briefing, savedAt: s.nowFunc()}
}

// Analysis 取出某仓库最近一次的简报
func (s *Store) Analysis(fullName string) (*domain.Briefing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.analyses[fullName]
	return entry.briefing, ok
}

// Snapshot 会话总览
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Scans:    make(map[string]time.Time, len(s.scans)),
		Searches: make(map[string]time.Time, len(s.searches)),
		Analyses: make(map[string]time.Time, len(s.analyses)),
	}
	for k, v := range s.scans {
		snap.Scans[k] = v.savedAt
	}
	for k, v := range s.searches {
		snap.Searches[k] = v.savedAt
	}
	for k, v := range s.analyses {
		snap.Analyses[k] = v.savedAt
	}
	return snap
}

// Clear 清空全部暂存结果
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scans = make(map[string]resultEntry)
	s.searches = make(map[string]resultEntry)
	s.analyses = make(map[string]analysisEntry)
}
