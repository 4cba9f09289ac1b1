package handler

import (
	"net/http"
	"strconv"

	"refnet/internal/domain"
	"refnet/internal/repository"
	"refnet/internal/service"

	"github.com/gin-gonic/gin"
)

type RevenueHandler struct {
	revenueSvc *service.RevenueService
	userRepo   *repository.UserRepository
}

func NewRevenueHandler(revenueSvc *service.RevenueService, userRepo *repository.UserRepository) *RevenueHandler {
	return &RevenueHandler{revenueSvc: revenueSvc, userRepo: userRepo}
}

// Create records a TYFCB slip crediting the referral giver.
// POST /revenue
func (h *RevenueHandler) Create(c *gin.Context) {
	u, ok := actor(c, h.userRepo)
	if !ok {
		return
	}
	var req service.RecordRevenueInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rev, err := h.revenueSvc.Record(u, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, rev)
}

// List returns slips where the member appears on either side. Admins may pass
// member_id to inspect another member, or use the admin feed for everything.
// GET /revenue?member_id=
func (h *RevenueHandler) List(c *gin.Context) {
	u, ok := actor(c, h.userRepo)
	if !ok {
		return
	}
	memberID := u.ID
	if v := c.Query("member_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member_id"})
			return
		}
		memberID = uint(id)
	}
	limit, offset := pagination(c)
	list, err := h.revenueSvc.ListForMember(u, memberID, limit, offset)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revenue": list, "total": len(list)})
}

// ListAll is the admin feed of every slip.
// GET /admin/revenue
func (h *RevenueHandler) ListAll(c *gin.Context) {
	u, ok := actor(c, h.userRepo)
	if !ok {
		return
	}
	limit, offset := pagination(c)
	list, err := h.revenueSvc.ListAll(u, limit, offset)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revenue": list, "total": len(list)})
}

// Totals sums one attribution direction for a member over a window.
// GET /revenue/totals?member_id=&direction=given|received&window=
func (h *RevenueHandler) Totals(c *gin.Context) {
	u, ok := actor(c, h.userRepo)
	if !ok {
		return
	}
	memberID := u.ID
	if v := c.Query("member_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member_id"})
			return
		}
		memberID = uint(id)
	}
	if memberID != u.ID && !u.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot view another member's totals"})
		return
	}
	direction := c.DefaultQuery("direction", domain.DirectionReceived)
	window := c.DefaultQuery("window", domain.WindowLifetime)
	total, err := h.revenueSvc.TotalsFor(memberID, direction, window)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"member_id":    memberID,
		"direction":    direction,
		"window":       window,
		"amount_cents": total,
	})
}

// Delete is the admin correction path; requires a reason for the audit trail.
// DELETE /admin/revenue/:id
func (h *RevenueHandler) Delete(c *gin.Context) {
	u, ok := actor(c, h.userRepo)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid revenue id"})
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)
	if err := h.revenueSvc.Delete(u, uint(id), req.Reason); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
