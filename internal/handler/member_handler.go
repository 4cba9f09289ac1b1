package handler

import (
	"net/http"
	"strconv"

	"refnet/internal/repository"

	"github.com/gin-gonic/gin"
)

// MemberHandler exposes the member directory. The core treats it as
// read-only reference data: referrals and revenue point at these IDs.
type MemberHandler struct {
	userRepo *repository.UserRepository
}

func NewMemberHandler(userRepo *repository.UserRepository) *MemberHandler {
	return &MemberHandler{userRepo: userRepo}
}

// List returns the directory, optionally filtered by business category.
// GET /members?category=
func (h *MemberHandler) List(c *gin.Context) {
	members, err := h.userRepo.ListMembers(c.Query("category"))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable, please try again"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members, "total": len(members)})
}

// Get returns one member's public profile.
// GET /members/:id
func (h *MemberHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}
	u, err := h.userRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}
