package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"refnet/config"
	"refnet/internal/database"
	"refnet/internal/domain"
	"refnet/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0", Env: "test"},
		JWT: config.JWTConfig{
			AccessSecret:  "test-access-secret",
			RefreshSecret: "test-refresh-secret",
			AccessExpiry:  time.Hour,
			RefreshExpiry: time.Hour,
			Issuer:        "refnet-test",
		},
		Analytics: config.AnalyticsConfig{
			DefaultWindow:           domain.Window6M,
			EngagementRecentDays:    30,
			EngagementMinEvents:     1,
			PointsWeightReferral:    2,
			PointsWeightRevenueUnit: 1,
			SummaryCacheTTL:         time.Minute,
			SummaryCacheSize:        64,
		},
	}
}

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))
	return Setup(testConfig(), db), db
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

// register signs up a member and returns their access token and user ID.
func register(t *testing.T, r *gin.Engine, name, email string) (string, uint) {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	out := decode(t, w)
	user := out["user"].(map[string]interface{})
	return out["access_token"].(string), uint(user["id"].(float64))
}

func TestAuthFlow(t *testing.T) {
	r, _ := newTestServer(t)

	token, _ := register(t, r, "Alice", "alice@example.com")
	require.NotEmpty(t, token)

	// Duplicate email conflicts.
	w := do(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "Alice Again", "email": "alice@example.com", "password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Wrong password.
	w = do(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Correct login returns a working token pair.
	w = do(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	w = do(t, r, http.MethodPost, "/api/v1/auth/refresh", "", gin.H{
		"refresh_token": out["refresh_token"],
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Protected routes reject missing and garbage tokens.
	assert.Equal(t, http.StatusUnauthorized, do(t, r, http.MethodGet, "/api/v1/referrals", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, r, http.MethodGet, "/api/v1/referrals", "not-a-jwt", nil).Code)
}

func TestErrorTaxonomyMapsToStatuses(t *testing.T) {
	r, db := newTestServer(t)

	aliceTok, aliceID := register(t, r, "Alice", "alice@example.com")
	bobTok, bobID := register(t, r, "Bob", "bob@example.com")

	// 400: self-referral.
	w := do(t, r, http.MethodPost, "/api/v1/referrals", aliceTok, gin.H{
		"to_member": aliceID, "contact_name": "Acme Corp", "phone": "555-0101",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 201: alice refers Acme to bob.
	w = do(t, r, http.MethodPost, "/api/v1/referrals", aliceTok, gin.H{
		"to_member": bobID, "contact_name": "Acme Corp", "phone": "555-0101",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	refID := uint(decode(t, w)["id"].(float64))

	// 403: the sender cannot work the lead's status.
	w = do(t, r, http.MethodPatch, fmt.Sprintf("/api/v1/referrals/%d", refID), aliceTok, gin.H{
		"status": domain.StatusContacted,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 409: the recipient cannot move it backwards onto itself.
	w = do(t, r, http.MethodPatch, fmt.Sprintf("/api/v1/referrals/%d", refID), bobTok, gin.H{
		"status": domain.StatusOpen,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// 200: a legal forward transition.
	w = do(t, r, http.MethodPatch, fmt.Sprintf("/api/v1/referrals/%d", refID), bobTok, gin.H{
		"status": domain.StatusContacted,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// 404: missing referral.
	w = do(t, r, http.MethodGet, "/api/v1/referrals/99999", aliceTok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 403: members cannot reach the admin surface.
	assert.Equal(t, http.StatusForbidden, do(t, r, http.MethodGet, "/api/v1/admin/referrals", aliceTok, nil).Code)

	// Admins can. Promote bob directly in the database and re-login for a
	// token carrying the admin role.
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", bobID).Update("role", domain.RoleAdmin).Error)
	w = do(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "bob@example.com", "password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, w.Code)
	adminTok := decode(t, w)["access_token"].(string)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/v1/admin/referrals", adminTok, nil).Code)
}

func TestRevenueAndDashboardOverHTTP(t *testing.T) {
	r, _ := newTestServer(t)

	aliceTok, aliceID := register(t, r, "Alice", "alice@example.com")
	bobTok, bobID := register(t, r, "Bob", "bob@example.com")

	w := do(t, r, http.MethodPost, "/api/v1/referrals", aliceTok, gin.H{
		"to_member": bobID, "contact_name": "Acme Corp", "phone": "555-0101",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	refID := uint(decode(t, w)["id"].(float64))

	// Bob records the closing business against the referral.
	w = do(t, r, http.MethodPost, "/api/v1/revenue", bobTok, gin.H{
		"member_id": aliceID, "amount_cents": 50_000_00, "referral_id": refID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// The referral is now closed, so a second linked slip conflicts.
	w = do(t, r, http.MethodPost, "/api/v1/revenue", bobTok, gin.H{
		"member_id": aliceID, "amount_cents": 100, "referral_id": refID,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Alice's given total reflects the slip.
	w = do(t, r, http.MethodGet, "/api/v1/revenue/totals?direction=given&window=lifetime", aliceTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.EqualValues(t, 50_000_00, out["amount_cents"])

	// Dashboard summary is member-visible.
	w = do(t, r, http.MethodGet, "/api/v1/dashboard/summary", aliceTok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Bob was notified of the incoming referral.
	w = do(t, r, http.MethodGet, "/api/v1/me/notifications", bobTok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Members cannot ask for someone else's totals.
	w = do(t, r, http.MethodGet, fmt.Sprintf("/api/v1/revenue/totals?member_id=%d&direction=given", bobID), aliceTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
