package api

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"BidRadar/pkg/engine"
	"BidRadar/pkg/model"
)

// AuditQuerier 审计历史查询能力，未配置数据库时为nil
type AuditQuerier interface {
	RecentAuditRecords(profileID string, limit int) ([]model.AuditRecord, error)
	RecentCampaignActions(profileID string, limit int) ([]model.CampaignActionRecord, error)
}

// Handlers API处理程序
type Handlers struct {
	optimizer *engine.Optimizer
	querier   AuditQuerier

	mu        sync.Mutex
	running   bool
	latestRun *model.RunResult
}

// NewHandlers 创建新的API处理程序
func NewHandlers(optimizer *engine.Optimizer, querier AuditQuerier) *Handlers {
	return &Handlers{
		optimizer: optimizer,
		querier:   querier,
	}
}

// HealthCheck 健康检查处理程序
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "BidRadar PPC Optimizer",
	})
}

// ReadinessCheck 就绪检查处理程序
func (h *Handlers) ReadinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// Info 服务信息处理程序
func (h *Handlers) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     "BidRadar",
		"description": "广告绩效驱动的出价与活动优化引擎",
		"endpoints": gin.H{
			"/health":                   "健康检查",
			"/ready":                    "就绪检查",
			"/api/v1/optimize":          "触发优化运行",
			"/api/v1/runs/latest":       "最近一次运行结果",
			"/api/v1/audit/history":     "出价审计历史",
			"/api/v1/campaigns/actions": "活动动作历史",
		},
	})
}

// OptimizeRequest 优化触发请求
type OptimizeRequest struct {
	ProfileID        string `json:"profile_id"`
	DryRun           bool   `json:"dry_run"`
	SkipBids         bool   `json:"skip_bids"`
	SkipCampaigns    bool   `json:"skip_campaigns"`
	SkipKeywords     bool   `json:"skip_keywords"`
	SkipNewCampaigns bool   `json:"skip_new_campaigns"`
}

// TriggerOptimize 触发一轮优化运行
func (h *Handlers) TriggerOptimize(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "无效的请求参数: " + err.Error(),
		})
		return
	}

	// 同一时刻只允许一轮运行
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{
			"status":  "running",
			"message": "已有优化运行在进行中",
		})
		return
	}
	h.running = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.running = false
		h.mu.Unlock()
	}()

	result, err := h.optimizer.Run(model.RunOptions{
		ProfileID:        req.ProfileID,
		DryRun:           req.DryRun,
		SkipBids:         req.SkipBids,
		SkipCampaigns:    req.SkipCampaigns,
		SkipKeywords:     req.SkipKeywords,
		SkipNewCampaigns: req.SkipNewCampaigns,
	})
	if err != nil {
		var fatal *engine.FatalError
		status := http.StatusInternalServerError
		if errors.As(err, &fatal) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{
			"error": "优化运行失败: " + err.Error(),
		})
		return
	}

	h.mu.Lock()
	h.latestRun = result
	h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"data": result,
	})
}

// GetLatestRun 获取最近一次运行结果
func (h *Handlers) GetLatestRun(c *gin.Context) {
	h.mu.Lock()
	latest := h.latestRun
	h.mu.Unlock()

	if latest == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "尚未执行过优化运行",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": latest,
	})
}

// GetAuditHistory 获取出价审计历史
func (h *Handlers) GetAuditHistory(c *gin.Context) {
	if h.querier == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "未配置审计数据库",
		})
		return
	}

	profileID := c.Query("profile_id")
	limit := parseLimit(c.Query("limit"))

	records, err := h.querier.RecentAuditRecords(profileID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "查询审计历史失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": records,
	})
}

// GetCampaignActions 获取活动动作历史
func (h *Handlers) GetCampaignActions(c *gin.Context) {
	if h.querier == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "未配置审计数据库",
		})
		return
	}

	profileID := c.Query("profile_id")
	limit := parseLimit(c.Query("limit"))

	records, err := h.querier.RecentCampaignActions(profileID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "查询活动动作失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": records,
	})
}

// parseLimit 解析limit参数，默认50
func parseLimit(s string) int {
	if s == "" {
		return 50
	}
	limit, err := strconv.Atoi(s)
	if err != nil || limit <= 0 {
		return 50
	}
	return limit
}
