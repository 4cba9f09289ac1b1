package service

import (
	"fmt"
	"testing"
	"time"

	"refnet/config"
	"refnet/internal/database"
	"refnet/internal/domain"
	"refnet/internal/models"
	"refnet/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixture wires the full service stack over an in-memory sqlite database.
type fixture struct {
	db           *gorm.DB
	userRepo     *repository.UserRepository
	referralRepo *repository.ReferralRepository
	revenueRepo  *repository.RevenueRepository
	notifRepo    *repository.NotificationRepository
	auditRepo    *repository.AuditLogRepository
	settingRepo  *repository.SettingRepository

	referralSvc  *ReferralService
	revenueSvc   *RevenueService
	analyticsSvc *AnalyticsService

	nextEmail int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection serialises writers, which keeps the concurrency
	// tests about the CAS semantics rather than sqlite busy errors.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	f := &fixture{
		db:           db,
		userRepo:     repository.NewUserRepository(db),
		referralRepo: repository.NewReferralRepository(db),
		revenueRepo:  repository.NewRevenueRepository(db),
		notifRepo:    repository.NewNotificationRepository(db),
		auditRepo:    repository.NewAuditLogRepository(db),
		settingRepo:  repository.NewSettingRepository(db),
	}
	notifSvc := NewNotificationService(f.notifRepo)
	f.referralSvc = NewReferralService(f.referralRepo, f.userRepo, f.auditRepo, notifSvc)
	f.revenueSvc = NewRevenueService(f.revenueRepo, f.referralRepo, f.userRepo, f.auditRepo, notifSvc)
	f.analyticsSvc = NewAnalyticsService(f.referralRepo, f.revenueRepo, f.userRepo, f.settingRepo, testAnalyticsConfig())
	return f
}

func testAnalyticsConfig() *config.AnalyticsConfig {
	return &config.AnalyticsConfig{
		DefaultWindow:           domain.Window6M,
		EngagementRecentDays:    30,
		EngagementMinEvents:     1,
		PointsWeightReferral:    2,
		PointsWeightRevenueUnit: 1,
		SummaryCacheTTL:         time.Minute,
		SummaryCacheSize:        64,
	}
}

func (f *fixture) member(t *testing.T, name string) *models.User {
	t.Helper()
	f.nextEmail++
	u := &models.User{
		Name:  name,
		Email: fmt.Sprintf("%s%d@example.com", name, f.nextEmail),
		Role:  domain.RoleMember,
	}
	require.NoError(t, f.userRepo.Create(u))
	return u
}

func (f *fixture) admin(t *testing.T) *models.User {
	t.Helper()
	f.nextEmail++
	u := &models.User{
		Name:  "Admin",
		Email: fmt.Sprintf("admin%d@example.com", f.nextEmail),
		Role:  domain.RoleAdmin,
	}
	require.NoError(t, f.userRepo.Create(u))
	return u
}

func (f *fixture) referral(t *testing.T, from, to *models.User) *models.Referral {
	t.Helper()
	ref, err := f.referralSvc.Create(from, CreateReferralInput{
		ToMember:    to.ID,
		ContactName: "Acme Corp",
		Phone:       "555-0101",
		Heat:        domain.HeatHot,
	})
	require.NoError(t, err)
	return ref
}

// backdate rewrites created_at so trend and engagement tests can place
// activity in specific months.
func (f *fixture) backdate(t *testing.T, model interface{}, id uint, at time.Time) {
	t.Helper()
	require.NoError(t, f.db.Model(model).Where("id = ?", id).Update("created_at", at).Error)
}
