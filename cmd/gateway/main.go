package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/unireg-gateway/api/swagger"
	"github.com/noah-isme/unireg-gateway/internal/handler"
	"github.com/noah-isme/unireg-gateway/internal/middleware"
	"github.com/noah-isme/unireg-gateway/internal/models"
	"github.com/noah-isme/unireg-gateway/internal/repository"
	"github.com/noah-isme/unireg-gateway/internal/service"
	"github.com/noah-isme/unireg-gateway/internal/session"
	"github.com/noah-isme/unireg-gateway/internal/upstream"
	"github.com/noah-isme/unireg-gateway/pkg/cache"
	"github.com/noah-isme/unireg-gateway/pkg/config"
	"github.com/noah-isme/unireg-gateway/pkg/database"
	"github.com/noah-isme/unireg-gateway/pkg/logger"
	corsmiddleware "github.com/noah-isme/unireg-gateway/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/unireg-gateway/pkg/middleware/requestid"
)

// @title UniReg Gateway
// @version 0.1.0
// @description Session-guarded gateway in front of the registration backend
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect redis", "error", err)
	}

	// Audit persistence is optional: without a configured database the
	// gateway runs, it just keeps no audit trail.
	var auditWriter middleware.AuditWriter
	if cfg.Database.Host != "" {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect database", "error", err)
		}
		defer db.Close() //nolint:errcheck
		auditWriter = repository.NewAuditRepository(db)
	} else {
		logr.Sugar().Warnw("audit log disabled, no database configured")
	}

	metricsSvc := service.NewMetricsService()

	sessions := session.NewManager(session.NewRedisStore(redisClient), cfg.Session.Secret, cfg.Session.TTL)

	gateway := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, logr,
		upstream.WithObserver(metricsSvc.ObserveUpstreamRequest))

	validate := validator.New()

	cacheSvc := service.NewCacheService(
		repository.NewCacheRepository(redisClient),
		metricsSvc,
		cfg.List.CacheTTL,
		logr,
		cfg.List.CacheEnabled,
	)

	studentSvc := service.NewStudentService(gateway, cacheSvc, logr, cfg.List.PageSize)
	accountSvc := service.NewAccountService(gateway, logr)
	authSvc := service.NewAuthService(gateway, sessions, validate, logr)
	exportSvc := service.NewExportService(gateway, logr)

	secureCookies := cfg.Env == config.EnvProduction
	cookieTTL := int(cfg.Session.TTL.Seconds())

	studentHandler := handler.NewStudentHandler(studentSvc)
	authHandler := handler.NewAuthHandler(accountSvc, authSvc, cfg.Session.Cookie, cookieTTL, secureCookies)
	exportHandler := handler.NewExportHandler(exportSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	auth := r.Group("/auth")
	auth.POST("/register",
		middleware.Audit(auditWriter, models.AuditActionRegister, "account"),
		authHandler.Register)
	auth.POST("/login",
		middleware.Audit(auditWriter, models.AuditActionLogin, "account"),
		authHandler.Login)

	guard := middleware.SessionGuard(sessions, cfg.Session.Cookie)

	auth.POST("/logout", guard,
		middleware.Audit(auditWriter, models.AuditActionLogout, "account"),
		authHandler.Logout)

	students := r.Group("/students", guard)
	students.GET("", studentHandler.List)
	students.GET("/:id", studentHandler.Get)
	students.POST("",
		middleware.Audit(auditWriter, models.AuditActionCreate, "student"),
		studentHandler.Create)
	students.PUT("/:id",
		middleware.Audit(auditWriter, models.AuditActionUpdate, "student"),
		studentHandler.Update)
	students.DELETE("/:id",
		middleware.Audit(auditWriter, models.AuditActionDelete, "student"),
		studentHandler.Delete)

	if cfg.Exports.Enabled {
		students.GET("/export", exportHandler.Export)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("gateway starting", "addr", addr, "env", cfg.Env, "upstream", cfg.Upstream.BaseURL)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("gateway failed", "error", err)
	}
}
