package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"trending-scout/internal/common"
	"trending-scout/internal/service"
)

// 扫描未指定天数时的默认回看窗口
const defaultDaysBack = 7

// writeError 把应用错误码映射成 HTTP 状态码
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch common.CodeOf(err) {
	case common.ErrCodeInvalidQuery:
		status = http.StatusBadRequest
	case common.ErrCodeQuotaLow, common.ErrCodeQuotaExceeded:
		status = http.StatusTooManyRequests
	case common.ErrCodeNotFound:
		status = http.StatusNotFound
	case common.ErrCodeNotConfigured:
		status = http.StatusServiceUnavailable
	case common.ErrCodeTransient, common.ErrCodeAIProcessing:
		status = http.StatusBadGateway
	}

	c.JSON(status, gin.H{
		"code":  common.CodeOf(err),
		"error": err.Error(),
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":  common.ErrCodeInvalidQuery,
		"error": message,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"timestamp":     time.Now().Format(time.RFC3339),
		"ai_configured": s.service.AIConfigured(),
		"quota":         s.service.Quota(),
	})
}

func (s *Server) handleCategories(c *gin.Context) {
	type categoryInfo struct {
		Key   string `json:"key"`
		Label string `json:"label"`
	}

	keys := service.Categories()
	categories := make([]categoryInfo, 0, len(keys))
	for _, key := range keys {
		categories = append(categories, categoryInfo{Key: key, Label: service.CategoryLabel(key)})
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (s *Server) handleScan(c *gin.Context) {
	var req struct {
		Category string `json:"category" binding:"required"`
		Days     int    `json:"days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "请求体缺少 category 字段")
		return
	}
	if req.Days == 0 {
		req.Days = defaultDaysBack
	}

	items, err := s.service.ScanTrending(c.Request.Context(), req.Category, req.Days)
	if err != nil {
		writeError(c, err)
		return
	}
	s.store.PutScan(req.Category, items)

	c.JSON(http.StatusOK, gin.H{
		"category": req.Category,
		"label":    service.CategoryLabel(req.Category),
		"days":     req.Days,
		"count":    len(items),
		"items":    items,
		"quota":    s.service.Quota(),
	})
}

func (s *Server) handleSearch(c *gin.Context) {
	var req struct {
		Query   string `json:"query" binding:"required"`
		Sort    string `json:"sort"`
		Natural bool   `json:"natural"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "请求体缺少 query 字段")
		return
	}

	items, effective, err := s.service.SearchCustom(c.Request.Context(), req.Query, req.Sort, req.Natural)
	if err != nil {
		writeError(c, err)
		return
	}
	s.store.PutSearch(req.Query, items)

	c.JSON(http.StatusOK, gin.H{
		"query":           req.Query,
		"effective_query": effective,
		"count":           len(items),
		"items":           items,
		"quota":           s.service.Quota(),
	})
}

func (s *Server) handleQuota(c *gin.Context) {
	if c.Query("refresh") == "true" {
		status, err := s.service.CheckQuota(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, status)
		return
	}
	c.JSON(http.StatusOK, s.service.Quota())
}

// repoRef 仓库定位参数，owner+name 和 repo ("owner/name") 二选一
type repoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
	Repo  string `json:"repo"`
}

func (r repoRef) split() (string, string, bool) {
	owner, name := r.Owner, r.Name
	if r.Repo != "" {
		parts := strings.SplitN(r.Repo, "/", 2)
		if len(parts) != 2 {
			return "", "", false
		}
		owner, name = parts[0], parts[1]
	}
	if owner == "" || name == "" {
		return "", "", false
	}
	return owner, name, true
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req repoRef
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "请求体解析失败")
		return
	}
	owner, name, ok := req.split()
	if !ok {
		badRequest(c, "仓库定位参数非法，需要 owner+name 或 repo=owner/name")
		return
	}

	briefing, err := s.service.AnalyzeRepo(c.Request.Context(), owner, name)
	if err != nil {
		writeError(c, err)
		return
	}
	s.store.PutAnalysis(briefing.Repo.FullName, briefing)

	c.JSON(http.StatusOK, briefing)
}

func (s *Server) handleExport(c *gin.Context) {
	var req repoRef
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "请求体解析失败")
		return
	}
	owner, name, ok := req.split()
	if !ok {
		badRequest(c, "仓库定位参数非法，需要 owner+name 或 repo=owner/name")
		return
	}

	// 优先复用本会话已有的分析结果，避免重复调 AI
	fullName := owner + "/" + name
	briefing, cached := s.store.Analysis(fullName)
	if !cached {
		fresh, err := s.service.AnalyzeRepo(c.Request.Context(), owner, name)
		if err != nil {
			writeError(c, err)
			return
		}
		s.store.PutAnalysis(fresh.Repo.FullName, fresh)
		briefing = fresh
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", briefing.Filename))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(briefing.Markdown))
}

func (s *Server) handleIdeas(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ideas":    s.service.ContentIdeas(),
		"workflow": s.service.WorkflowSteps(),
	})
}

func (s *Server) handleSession(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleClearSession(c *gin.Context) {
	s.store.Clear()
	c.JSON(http.StatusOK, gin.H{"message": "session cleared"})
}
