package handler

import (
	"net/http"
	"strconv"

	"refnet/internal/middleware"
	"refnet/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsSvc *service.AnalyticsService
}

func NewAnalyticsHandler(analyticsSvc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

func (h *AnalyticsHandler) window(c *gin.Context) (string, bool) {
	w, err := h.analyticsSvc.Window(c.Query("window"))
	if err != nil {
		fail(c, err)
		return "", false
	}
	return w, true
}

// Summary returns the authenticated member's dashboard numbers.
// GET /dashboard/summary?window=
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	window, ok := h.window(c)
	if !ok {
		return
	}
	sum, err := h.analyticsSvc.MemberSummary(middleware.GetUserID(c), window)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"window": window, "summary": sum})
}

// Overview is the admin analytics page payload: chapter-wide trend and
// growth series in one response.
// GET /analytics?window=
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	window, ok := h.window(c)
	if !ok {
		return
	}
	trend, err := h.analyticsSvc.MonthlyTrend(window)
	if err != nil {
		fail(c, err)
		return
	}
	growth, err := h.analyticsSvc.MemberGrowth(window)
	if err != nil {
		fail(c, err)
		return
	}
	var totalRevenue int64
	var totalReferrals int
	for _, p := range trend {
		totalRevenue += p.RevenueCents
		totalReferrals += p.Referrals
	}
	c.JSON(http.StatusOK, gin.H{
		"window": window,
		"summary": gin.H{
			"referrals":           totalReferrals,
			"total_revenue_cents": totalRevenue,
		},
		"performance_chart": trend,
		"growth_chart":      growth,
	})
}

// Engagement lists every member's classification.
// GET /analytics/engagement?window=
func (h *AnalyticsHandler) Engagement(c *gin.Context) {
	window, ok := h.window(c)
	if !ok {
		return
	}
	rows, err := h.analyticsSvc.Engagement(window)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"window": window, "members": rows})
}

// TopPerformers ranks members by weighted points.
// GET /analytics/top-performers?window=&limit=
func (h *AnalyticsHandler) TopPerformers(c *gin.Context) {
	window, ok := h.window(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	ranked, err := h.analyticsSvc.TopPerformers(window, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"window": window, "performers": ranked})
}

// RevenueByMember rolls revenue up by credited giver.
// GET /analytics/revenue-by-member?window=
func (h *AnalyticsHandler) RevenueByMember(c *gin.Context) {
	window, ok := h.window(c)
	if !ok {
		return
	}
	rollup, err := h.analyticsSvc.RevenueByMember(window)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"window": window, "members": rollup})
}

// MonthlyTrend returns the zero-filled per-month series.
// GET /analytics/monthly-trend?window=
func (h *AnalyticsHandler) MonthlyTrend(c *gin.Context) {
	window, ok := h.window(c)
	if !ok {
		return
	}
	trend, err := h.analyticsSvc.MonthlyTrend(window)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"window": window, "trend": trend})
}

// HeatDistribution counts referrals per heat rating.
// GET /analytics/heat-distribution?window=
func (h *AnalyticsHandler) HeatDistribution(c *gin.Context) {
	window, ok := h.window(c)
	if !ok {
		return
	}
	dist, err := h.analyticsSvc.HeatDistribution(window)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"window": window, "distribution": dist})
}
