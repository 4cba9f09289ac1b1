package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"refnet/internal/domain"
	"refnet/internal/middleware"
	"refnet/internal/models"
	"refnet/internal/repository"

	"github.com/gin-gonic/gin"
)

// fail maps the domain error taxonomy onto HTTP statuses. Caller-fault kinds
// surface the specific message; storage failures get a generic retry message
// so internals never leak.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrStorageUnavailable):
		log.Printf("[http] storage: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable, please try again"})
	default:
		log.Printf("[http] internal: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// actor loads the authenticated user; handlers need the full row for name
// and role checks in the services.
func actor(c *gin.Context, userRepo *repository.UserRepository) (*models.User, bool) {
	u, err := userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account not found"})
		return nil, false
	}
	return u, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
