package handler

import (
	"net/http"
	"strconv"

	"refnet/internal/domain"
	"refnet/internal/repository"
	"refnet/internal/service"

	"github.com/gin-gonic/gin"
)

type ReferralHandler struct {
	referralSvc *service.ReferralService
	userRepo    *repository.UserRepository
}

func NewReferralHandler(referralSvc *service.ReferralService, userRepo *repository.UserRepository) *ReferralHandler {
	return &ReferralHandler{referralSvc: referralSvc, userRepo: userRepo}
}

// Create submits a new referral from the authenticated member.
// POST /referrals
func (h *ReferralHandler) Create(c *gin.Context) {
	u, ok := actor(c, h.userRepo)
	if !ok {
		return
	}
	var req service.CreateReferralInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ref, err := h.referralSvc.Create(u, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, ref)
}

// List returns the authenticated member's referrals. Admins may pass
// member_id to inspect another member.
// GET /referrals?direction=given|received|both&member_id=
func (h *ReferralHandler) List(c *gin.Context) {
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
	direction := c.DefaultQuery("direction", domain.DirectionBoth)
	limit, offset := pagination(c)
	list, err := h.referralSvc.ListForMember(u, memberID, direction, limit, offset)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"referrals": list, "total": len(list)})
}

// ListAll is the admin feed of every referral.
// GET /admin/referrals
func (h *ReferralHandler) ListAll(c *gin.Context) {
	u, ok := actor(c, h.userRepo)
	if !ok {
		return
	}
	limit, offset := pagination(c)
	list, err := h.referralSvc.ListAll(u, limit, offset)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"referrals": list, "total": len(list)})
}

// Get returns a single referral the actor may see.
// GET /referrals/:id
func (h *ReferralHandler) Get(c *gin.Context) {
	u, ok := actor(c, h.userRepo)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid referral id"})
		return
	}
	ref, err := h.referralSvc.Get(u, uint(id))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ref)
}

// Update applies metadata edits and/or a status transition. Details are
// applied before the status so a close and a final comment can share one
// request.
// PATCH /referrals/:id
func (h *ReferralHandler) Update(c *gin.Context) {
	u, ok := actor(c, h.userRepo)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid referral id"})
		return
	}
	var req struct {
		Status *string `json:"status"`
		service.UpdateDetailsInput
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hasDetails := req.ContactName != nil || req.Phone != nil || req.Email != nil ||
		req.Comments != nil || req.Confidential != nil
	if !hasDetails && req.Status == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	var out interface{}
	if hasDetails {
		updated, err := h.referralSvc.UpdateDetails(u, uint(id), req.UpdateDetailsInput)
		if err != nil {
			fail(c, err)
			return
		}
		out = updated
	}
	if req.Status != nil {
		updated, err := h.referralSvc.UpdateStatus(u, uint(id), *req.Status)
		if err != nil {
			fail(c, err)
			return
		}
		out = updated
	}
	c.JSON(http.StatusOK, out)
}

// Delete removes a referral under the lifecycle rules.
// DELETE /referrals/:id
func (h *ReferralHandler) Delete(c *gin.Context) {
	u, ok := actor(c, h.userRepo)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid referral id"})
		return
	}
	if err := h.referralSvc.Delete(u, uint(id)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Unlock reopens a terminal referral for correction. Admin only, always
// audit-logged.
// POST /admin/referrals/:id/unlock
func (h *ReferralHandler) Unlock(c *gin.Context) {
	u, ok := actor(c, h.userRepo)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid referral id"})
		return
	}
	ref, err := h.referralSvc.Unlock(u, uint(id))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ref)
}
