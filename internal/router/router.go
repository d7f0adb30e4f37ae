package router

import (
	"agriconnect/config"
	"agriconnect/internal/domain"
	"agriconnect/internal/handler"
	"agriconnect/internal/middleware"
	"agriconnect/internal/repository"
	"agriconnect/internal/service"
	"agriconnect/internal/ws"
	"agriconnect/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, rdb *redis.Client, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Metrics())

	// Repositories
	userRepo := repository.NewUserRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	healthRepo := repository.NewHealthRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	modRepo := repository.NewModerationRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	farmRepo := repository.NewFarmRepository(db)
	traceRepo := repository.NewTraceRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	invRepo := repository.NewInventoryRepository(db)

	alertHub := ws.NewAlertHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo, auditRepo)
	modSvc := service.NewModerationService(modRepo, auditRepo)
	healthSvc := service.NewHealthService(db, rdb, healthRepo, alertHub)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, auditRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, userRepo)
	dashboardHandler := handler.NewDashboardHandler(userRepo, modRepo, auditRepo, traceRepo, warehouseRepo, healthSvc, analyticsRepo)
	settingHandler := handler.NewSettingHandler(settingRepo, auditRepo)
	healthHandler := handler.NewHealthHandler(healthSvc, healthRepo, auditRepo)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc, analyticsRepo)
	moderationHandler := handler.NewModerationHandler(modSvc, modRepo, auditRepo)
	userAdminHandler := handler.NewUserAdminHandler(userRepo, auditRepo)
	farmHandler := handler.NewFarmHandler(farmRepo, auditRepo, cloud)
	traceHandler := handler.NewTraceHandler(traceRepo)
	scanHandler := handler.NewScanHandler(traceRepo)
	warehouseHandler := handler.NewWarehouseHandler(warehouseRepo)
	inventoryHandler := handler.NewInventoryHandler(invRepo, warehouseRepo)

	// Middleware
	counters := middleware.NewRedisCounter(rdb)
	dashboardTier, analyticsTier, scanTier := middleware.Tiers(&cfg.RateLimit)
	authMw := middleware.AuthRequired(&cfg.JWT)
	optionalAuthMw := middleware.OptionalAuth(&cfg.JWT)
	adminMw := middleware.AdminRequired()
	warehouseWriteMw := middleware.RequireRole(domain.RoleAdmin, domain.RoleWarehouseManager)
	auditMw := middleware.AuditLog()

	// Operational endpoints
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws/admin/alerts", ws.UpgradeAlertWS(&cfg.JWT, alertHub))

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authMw, authHandler.Logout)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.GET("/me", authMw, authHandler.Me)
		}

		// Public settings flagged is_public.
		api.GET("/settings/public", optionalAuthMw, middleware.RateLimit(counters, dashboardTier), settingHandler.Public)

		// Traceability: public QR scans, farmer-owned farms and
		// certifications, admin-only chain management.
		trace := api.Group("/traceability", optionalAuthMw)
		{
			scan := trace.Group("/scan", middleware.RateLimit(counters, scanTier))
			{
				scan.POST("", scanHandler.Scan)
				scan.POST("/:uid/feedback", scanHandler.Feedback)
			}

			authed := trace.Group("", middleware.RateLimit(counters, dashboardTier), authMw, auditMw)
			{
				authed.GET("/farms", farmHandler.List)
				authed.POST("/farms", farmHandler.Create)
				authed.GET("/farms/:id", farmHandler.Get)
				authed.PUT("/farms/:id", farmHandler.Update)
				authed.DELETE("/farms/:id", farmHandler.Delete)
				authed.POST("/farms/:id/verify", adminMw, farmHandler.Verify)
				authed.POST("/farms/:id/photo", farmHandler.UploadPhoto)

				authed.GET("/certifications", farmHandler.ListCertifications)
				authed.POST("/certifications", farmHandler.CreateCertification)
				authed.GET("/certifications/:id", farmHandler.GetCertification)
				authed.DELETE("/certifications/:id", farmHandler.DeleteCertification)
				authed.POST("/certifications/:id/document", farmHandler.UploadDocument)

				chain := authed.Group("", adminMw)
				{
					chain.GET("/statistics", traceHandler.Statistics)
					chain.GET("/transactions", traceHandler.ListTransactions)
					chain.POST("/transactions", traceHandler.CreateTransaction)
					chain.GET("/transactions/:hash", traceHandler.GetTransaction)
					chain.POST("/transactions/:hash/confirm", traceHandler.ConfirmTransaction)

					chain.GET("/traces", traceHandler.ListTraces)
					chain.POST("/traces", traceHandler.CreateTrace)
					chain.GET("/traces/batch/:batch", traceHandler.GetTraceByBatch)
					chain.GET("/traces/:id", traceHandler.GetTrace)
					chain.PUT("/traces/:id", traceHandler.UpdateTrace)
					chain.GET("/traces/:id/scans", traceHandler.ListTraceScans)

					chain.GET("/events", traceHandler.ListEvents)
					chain.POST("/events", traceHandler.CreateEvent)
					chain.GET("/events/:id", traceHandler.GetEvent)
					chain.PUT("/events/:id/status", traceHandler.UpdateEventStatus)
					chain.POST("/events/:id/verify", traceHandler.VerifyEvent)
				}
			}
		}

		// Warehouses: reads for any authenticated user, writes restricted
		// to ADMIN and WAREHOUSE_MANAGER.
		warehouses := api.Group("/warehouses",
			optionalAuthMw, middleware.RateLimit(counters, dashboardTier), authMw, auditMw)
		{
			warehouses.GET("", warehouseHandler.List)
			warehouses.POST("", warehouseWriteMw, warehouseHandler.Create)
			warehouses.GET("/:id", warehouseHandler.Get)
			warehouses.PUT("/:id", warehouseWriteMw, warehouseHandler.Update)
			warehouses.DELETE("/:id", warehouseWriteMw, warehouseHandler.Delete)
			warehouses.GET("/:id/utilization", warehouseHandler.Utilization)
			warehouses.GET("/:id/zones", warehouseHandler.ListZones)
			warehouses.POST("/:id/zones", warehouseWriteMw, warehouseHandler.CreateZone)
			warehouses.PUT("/zones/:zoneId", warehouseWriteMw, warehouseHandler.UpdateZone)
			warehouses.DELETE("/zones/:zoneId", warehouseWriteMw, warehouseHandler.DeleteZone)
			warehouses.GET("/:id/temperature-logs", warehouseHandler.ListTemperatureLogs)
			warehouses.POST("/:id/temperature-logs", warehouseWriteMw, warehouseHandler.RecordTemperature)
		}

		inventory := api.Group("/inventory",
			optionalAuthMw, middleware.RateLimit(counters, dashboardTier), authMw, auditMw)
		{
			inventory.GET("", inventoryHandler.List)
			inventory.POST("", warehouseWriteMw, inventoryHandler.Create)
			inventory.GET("/movements", inventoryHandler.ListMovements)
			inventory.POST("/movements", warehouseWriteMw, inventoryHandler.CreateMovement)
			inventory.GET("/movements/:id", inventoryHandler.GetMovement)
			inventory.POST("/movements/:id/complete", warehouseWriteMw, inventoryHandler.CompleteMovement)
			inventory.GET("/:id", inventoryHandler.Get)
			inventory.POST("/:id/reserve", warehouseWriteMw, inventoryHandler.Reserve)
			inventory.POST("/:id/release", warehouseWriteMw, inventoryHandler.Release)
			inventory.POST("/:id/inspect", warehouseWriteMw, inventoryHandler.Inspect)
		}

		admin := api.Group("/admin-dashboard",
			optionalAuthMw,
			middleware.RateLimit(counters, dashboardTier),
			authMw, adminMw, auditMw)
		{
			admin.GET("", dashboardHandler.Overview)
			admin.POST("/admin/clear-cache", healthHandler.ClearCache)

			settings := admin.Group("/settings")
			{
				settings.GET("", settingHandler.List)
				settings.POST("", settingHandler.Create)
				settings.POST("/bulk-update", settingHandler.BulkUpdate)
				settings.GET("/export", settingHandler.Export)
				settings.GET("/preferences", settingHandler.GetPreferences)
				settings.PUT("/preferences", settingHandler.UpdatePreferences)
				settings.GET("/:id", settingHandler.Get)
				settings.PUT("/:id", settingHandler.Update)
				settings.DELETE("/:id", settingHandler.Delete)
			}

			system := admin.Group("/system")
			{
				system.GET("/health-checks", healthHandler.ListChecks)
				system.GET("/health-checks/current", healthHandler.CurrentChecks)
				system.POST("/health-checks/run", healthHandler.RunChecks)
				system.GET("/status", healthHandler.SystemStatus)
				system.GET("/maintenance", healthHandler.ListMaintenance)
				system.POST("/maintenance", healthHandler.CreateMaintenance)
				system.POST("/maintenance/:id/complete", healthHandler.CompleteMaintenance)
				system.GET("/maintenance/statistics", healthHandler.MaintenanceStatistics)
			}

			analytics := admin.Group("/analytics", middleware.RateLimit(counters, analyticsTier))
			{
				analytics.GET("/dashboard", analyticsHandler.Dashboard)
				analytics.GET("/snapshots", analyticsHandler.ListSnapshots)
				analytics.POST("/snapshots/generate", analyticsHandler.GenerateSnapshot)
				analytics.GET("/snapshots/:id", analyticsHandler.GetSnapshot)
				analytics.DELETE("/snapshots/:id", analyticsHandler.DeleteSnapshot)
				analytics.GET("/user-growth", analyticsHandler.UserGrowth)
				analytics.GET("/revenue", analyticsHandler.Revenue)
				analytics.GET("/reports", analyticsHandler.ListReports)
				analytics.POST("/reports", analyticsHandler.CreateReport)
				analytics.GET("/reports/:id", analyticsHandler.GetReport)
				analytics.DELETE("/reports/:id", analyticsHandler.DeleteReport)
				analytics.POST("/reports/:id/generate", analyticsHandler.GenerateReport)
			}

			content := admin.Group("/content")
			{
				content.GET("/queue", moderationHandler.List)
				content.POST("/queue", moderationHandler.Submit)
				content.GET("/queue/statistics", moderationHandler.Statistics)
				content.POST("/queue/bulk", moderationHandler.BulkModerate)
				content.GET("/queue/:id", moderationHandler.Get)
				content.POST("/queue/:id/approve", moderationHandler.Approve)
				content.POST("/queue/:id/reject", moderationHandler.Reject)
				content.POST("/queue/:id/flag", moderationHandler.Flag)
				content.POST("/queue/:id/spam", moderationHandler.MarkSpam)
				content.GET("/policies", moderationHandler.ListPolicies)
				content.POST("/policies", moderationHandler.CreatePolicy)
				content.GET("/policies/:id", moderationHandler.GetPolicy)
				content.PUT("/policies/:id", moderationHandler.UpdatePolicy)
				content.DELETE("/policies/:id", moderationHandler.DeletePolicy)
			}

			users := admin.Group("/users")
			{
				users.GET("", userAdminHandler.List)
				users.POST("/bulk-actions", userAdminHandler.BulkAction)
				users.GET("/role-distribution", userAdminHandler.RoleDistribution)
				users.GET("/activity", userAdminHandler.ListActivity)
				users.GET("/security-events", userAdminHandler.ListSecurityEvents)
				users.POST("/security-events/:id/resolve", userAdminHandler.ResolveSecurityEvent)
				users.GET("/admin-actions", userAdminHandler.ListAdminActions)
				users.GET("/admin-actions/summary", userAdminHandler.AdminActionsSummary)
				users.GET("/:id", userAdminHandler.Get)
				users.PATCH("/:id", userAdminHandler.Update)
			}
		}
	}

	return r
}
