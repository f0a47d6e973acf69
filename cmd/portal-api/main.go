package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/spms-api/api/swagger"
	"github.com/noah-isme/spms-api/internal/handler"
	"github.com/noah-isme/spms-api/internal/middleware"
	"github.com/noah-isme/spms-api/internal/models"
	"github.com/noah-isme/spms-api/internal/service"
	"github.com/noah-isme/spms-api/internal/store"
	"github.com/noah-isme/spms-api/pkg/cache"
	"github.com/noah-isme/spms-api/pkg/config"
	"github.com/noah-isme/spms-api/pkg/database"
	"github.com/noah-isme/spms-api/pkg/export"
	"github.com/noah-isme/spms-api/pkg/kv"
	"github.com/noah-isme/spms-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/spms-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/spms-api/pkg/middleware/requestid"
)

// @title SPMS API
// @version 1.0.0
// @description Student Performance Monitoring portal backend
// @BasePath /api/v1
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

	backend, err := newKVBackend(cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to init storage backend", "backend", cfg.Storage.Backend, "error", err)
	}

	metricsSvc := service.NewMetricsService()

	ctx := context.Background()
	st, err := store.Open(ctx, backend, logr, store.WithFlushObserver(metricsSvc))
	if err != nil {
		logr.Sugar().Fatalw("failed to open store", "error", err)
	}

	validate := validator.New()

	authSvc := service.NewAuthService(st, validate, logr, service.AuthConfig{
		AccessTokenSecret:      cfg.JWT.Secret,
		AccessTokenExpiry:      cfg.JWT.Expiration,
		Issuer:                 cfg.JWT.Issuer,
		BootstrapAdminUsername: cfg.Bootstrap.AdminUsername,
		BootstrapAdminID:       cfg.Bootstrap.AdminID,
	})
	userSvc := service.NewUserService(st, validate, logr)
	subjectSvc := service.NewSubjectService(st, validate, logr)
	rosterSvc := service.NewRosterService(st, logr)
	notificationSvc := service.NewNotificationService(st, cfg.Notify.Workers, cfg.Notify.BufferSize, logr)
	gradeSvc := service.NewGradeService(st, rosterSvc, notificationSvc, validate, logr)
	attendanceSvc := service.NewAttendanceService(st, notificationSvc, validate, logr)
	settingsSvc := service.NewSettingsService(st, validate, logr)
	dashboardSvc := service.NewDashboardService(st, logr)
	auditSvc := service.NewAuditService(st, logr)
	reportSvc := service.NewReportService(st, export.NewPDFExporter(), logr)

	notificationSvc.Start()
	defer notificationSvc.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc)
	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	authHandler := handler.NewAuthHandler(authSvc)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	userHandler := handler.NewUserHandler(userSvc)
	protected.GET("/users", middleware.RequireRoles(models.RoleAdmin), userHandler.List)
	protected.POST("/users", middleware.RequireRoles(models.RoleAdmin), userHandler.Create)
	protected.PUT("/users/:id", middleware.RequireRoles(models.RoleAdmin), userHandler.Update)
	protected.DELETE("/users/:id", middleware.RequireRoles(models.RoleAdmin), userHandler.Delete)

	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	protected.GET("/subjects", subjectHandler.List)
	protected.POST("/subjects", middleware.RequireRoles(models.RoleTeacher), subjectHandler.Request)

	gradeHandler := handler.NewGradeHandler(gradeSvc)
	protected.GET("/students/:id/grades", middleware.RBAC("ADMIN", "TEACHER", "SELF"), gradeHandler.ListByStudent)
	protected.GET("/subjects/:id/grades", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), gradeHandler.ListBySubject)
	protected.POST("/grades", middleware.RequireRoles(models.RoleTeacher), gradeHandler.Upsert)
	protected.POST("/assignments", middleware.RequireRoles(models.RoleTeacher), gradeHandler.CreateAssignment)

	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	protected.POST("/attendance", middleware.RequireRoles(models.RoleTeacher), attendanceHandler.Record)
	protected.GET("/students/:id/attendance", middleware.RBAC("ADMIN", "TEACHER", "SELF"), attendanceHandler.ListByStudent)
	protected.GET("/subjects/:id/attendance", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), attendanceHandler.ListBySubjectAndDate)

	rosterHandler := handler.NewRosterHandler(rosterSvc)
	protected.GET("/classes/roster", middleware.RequireRoles(models.RoleTeacher), rosterHandler.StudentsByClass)

	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	protected.GET("/notifications", notificationHandler.List)
	protected.POST("/notifications/:id/read", notificationHandler.MarkRead)

	settingsHandler := handler.NewSettingsHandler(settingsSvc)
	protected.GET("/settings", settingsHandler.Get)
	protected.PUT("/settings", middleware.RequireRoles(models.RoleAdmin), settingsHandler.Update)

	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	protected.GET("/dashboard/stats", middleware.RequireRoles(models.RoleAdmin), dashboardHandler.Stats)

	auditHandler := handler.NewAuditHandler(auditSvc)
	protected.GET("/audit-logs", middleware.RequireRoles(models.RoleAdmin), auditHandler.List)

	reportHandler := handler.NewReportHandler(reportSvc)
	protected.GET("/students/:id/transcript", middleware.RBAC("ADMIN", "TEACHER", "SELF"), reportHandler.StudentTranscript)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "storage", cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Infow("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

// newKVBackend selects the durable document store from config.
func newKVBackend(cfg *config.Config) (kv.Store, error) {
	switch cfg.Storage.Backend {
	case config.StorageFilesystem:
		return kv.NewFilesystemStore(cfg.Storage.DataDir)
	case config.StorageRedis:
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return kv.NewRedisStore(client, cfg.Storage.KeyPrefix), nil
	case config.StoragePostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		return kv.NewPostgresStore(db), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
