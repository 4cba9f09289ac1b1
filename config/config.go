package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Analytics AnalyticsConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// AnalyticsConfig tunes the aggregation engine. The engagement thresholds and
// points weights seeded from here can be changed at runtime through the
// settings table; the defaults below apply on first boot.
type AnalyticsConfig struct {
	DefaultWindow           string // 6m | 12m | lifetime
	EngagementRecentDays    int    // activity inside this window counts as "recent"
	EngagementMinEvents     int    // minimum recent events to classify Active
	PointsWeightReferral    int    // points per referral given
	PointsWeightRevenueUnit int    // points per whole currency unit received
	SummaryCacheTTL         time.Duration
	SummaryCacheSize        int
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         env("PORT", "8088"),
			Env:          env("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             env("DATABASE_DSN", "refnet:refnet@tcp(localhost:3306)/refnet?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  env("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: env("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "refnet",
		},
		Analytics: AnalyticsConfig{
			DefaultWindow:           env("ANALYTICS_DEFAULT_WINDOW", "6m"),
			EngagementRecentDays:    envInt("ENGAGEMENT_RECENT_DAYS", 30),
			EngagementMinEvents:     envInt("ENGAGEMENT_MIN_EVENTS", 1),
			PointsWeightReferral:    envInt("POINTS_WEIGHT_REFERRAL", 2),
			PointsWeightRevenueUnit: envInt("POINTS_WEIGHT_REVENUE_UNIT", 1),
			SummaryCacheTTL:         3 * time.Minute,
			SummaryCacheSize:        1024,
		},
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
