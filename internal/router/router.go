package router

import (
	"time"

	"refnet/config"
	"refnet/internal/handler"
	"refnet/internal/middleware"
	"refnet/internal/repository"
	"refnet/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	revenueRepo := repository.NewRevenueRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	notifSvc := service.NewNotificationService(notifRepo)
	referralSvc := service.NewReferralService(referralRepo, userRepo, auditRepo, notifSvc)
	revenueSvc := service.NewRevenueService(revenueRepo, referralRepo, userRepo, auditRepo, notifSvc)
	analyticsSvc := service.NewAnalyticsService(referralRepo, revenueRepo, userRepo, settingRepo, &cfg.Analytics)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	memberHandler := handler.NewMemberHandler(userRepo)
	referralHandler := handler.NewReferralHandler(referralSvc, userRepo)
	revenueHandler := handler.NewRevenueHandler(revenueSvc, userRepo)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	adminHandler := handler.NewAdminHandler(auditRepo, settingRepo)
	notificationHandler := handler.NewNotificationHandler(notifRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)
	adminMw := middleware.AdminRequired()

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		members := api.Group("/members", authMw)
		{
			members.GET("", memberHandler.List)
			members.GET("/:id", memberHandler.Get)
		}

		referrals := api.Group("/referrals", authMw)
		{
			referrals.POST("", referralHandler.Create)
			referrals.GET("", referralHandler.List)
			referrals.GET("/:id", referralHandler.Get)
			referrals.PATCH("/:id", referralHandler.Update)
			referrals.DELETE("/:id", referralHandler.Delete)
		}

		revenue := api.Group("/revenue", authMw)
		{
			revenue.POST("", revenueHandler.Create)
			revenue.GET("", revenueHandler.List)
			revenue.GET("/totals", revenueHandler.Totals)
		}

		api.GET("/dashboard/summary", authMw, analyticsHandler.Summary)
		api.GET("/analytics/top-performers", authMw, analyticsHandler.TopPerformers)

		me := api.Group("/me", authMw)
		{
			me.GET("/notifications", notificationHandler.List)
			me.POST("/notifications/:id/read", notificationHandler.MarkRead)
		}

		admin := api.Group("/admin", authMw, adminMw)
		{
			admin.GET("/referrals", referralHandler.ListAll)
			admin.POST("/referrals/:id/unlock", referralHandler.Unlock)
			admin.GET("/revenue", revenueHandler.ListAll)
			admin.DELETE("/revenue/:id", revenueHandler.Delete)
			admin.GET("/analytics", analyticsHandler.Overview)
			admin.GET("/analytics/engagement", analyticsHandler.Engagement)
			admin.GET("/analytics/revenue-by-member", analyticsHandler.RevenueByMember)
			admin.GET("/analytics/monthly-trend", analyticsHandler.MonthlyTrend)
			admin.GET("/analytics/heat-distribution", analyticsHandler.HeatDistribution)
			admin.GET("/audit-logs", adminHandler.AuditLogs)
			admin.GET("/settings", adminHandler.GetSettings)
			admin.PUT("/settings", adminHandler.PutSettings)
		}
	}

	return r
}
