package database

import (
	"log"
	"os"
	"strconv"

	"refnet/config"
	"refnet/internal/domain"
	"refnet/internal/models"
	"refnet/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the bootstrap admin account when no admin exists yet.
// Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD; skipped when unset.
func SeedAdmin(db *gorm.DB) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}
	var count int64
	db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[seed] admin password hash: %v", err)
		return
	}
	admin := &models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Printf("[seed] admin account: %v", err)
		return
	}
	log.Printf("[seed] created admin account %s", email)
}

// SeedSettings inserts the analytics defaults so operators can tune scoring
// from the admin settings endpoint without a code change.
func SeedSettings(db *gorm.DB, cfg *config.AnalyticsConfig) {
	settingRepo := repository.NewSettingRepository(db)
	defaults := map[string]string{
		domain.SettingEngagementRecentDays:    strconv.Itoa(cfg.EngagementRecentDays),
		domain.SettingEngagementMinEvents:     strconv.Itoa(cfg.EngagementMinEvents),
		domain.SettingPointsWeightReferral:    strconv.Itoa(cfg.PointsWeightReferral),
		domain.SettingPointsWeightRevenueUnit: strconv.Itoa(cfg.PointsWeightRevenueUnit),
	}
	if err := settingRepo.SeedDefaults(defaults); err != nil {
		log.Printf("[seed] settings: %v", err)
	}
}
