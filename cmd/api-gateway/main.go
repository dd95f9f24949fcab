package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Lameck1/mwingi-school-erp-sub000/api/swagger"
	"github.com/Lameck1/mwingi-school-erp-sub000/internal/handler"
	"github.com/Lameck1/mwingi-school-erp-sub000/internal/middleware"
	"github.com/Lameck1/mwingi-school-erp-sub000/internal/repository"
	"github.com/Lameck1/mwingi-school-erp-sub000/internal/service"
	"github.com/Lameck1/mwingi-school-erp-sub000/pkg/cache"
	"github.com/Lameck1/mwingi-school-erp-sub000/pkg/config"
	"github.com/Lameck1/mwingi-school-erp-sub000/pkg/database"
	"github.com/Lameck1/mwingi-school-erp-sub000/pkg/export"
	"github.com/Lameck1/mwingi-school-erp-sub000/pkg/logger"
	corsmiddleware "github.com/Lameck1/mwingi-school-erp-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/Lameck1/mwingi-school-erp-sub000/pkg/middleware/requestid"
)

// @title Mwingi School ERP Analytics API
// @version 0.1.0
// @description Enrollment-scoped academic analytics and promotion engine
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	enrollmentRepo := repository.NewEnrollmentRepository(db)
	examResultRepo := repository.NewExamResultRepository(db)
	gradingScaleRepo := repository.NewGradingScaleRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	periodRepo := repository.NewPeriodRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	promotionRepo := repository.NewPromotionRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Analytics.CacheTTL, logr, cfg.Analytics.CacheEnabled)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, periodRepo, logr)
	gradingSvc := service.NewGradingService(gradingScaleRepo, logr)
	analyticsSvc := service.NewAnalyticsService(examResultRepo, subjectRepo, studentRepo, enrollmentSvc, gradingSvc, cacheSvc, metricsSvc, logr)
	itemAnalysisSvc := service.NewItemAnalysisService(examResultRepo, subjectRepo, enrollmentSvc, gradingSvc, logr)
	meritSvc := service.NewMeritService(examResultRepo, subjectRepo, enrollmentSvc, gradingSvc, logr)
	promotionSvc := service.NewPromotionService(promotionRepo, studentRepo, periodRepo, auditRepo, nil, logr, cfg.Promotion.MaxBatchSize)

	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	gradingHandler := handler.NewGradingHandler(gradingSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc, itemAnalysisSvc)
	meritHandler := handler.NewMeritHandler(meritSvc, export.NewCSVExporter(), export.NewPDFExporter())
	promotionHandler := handler.NewPromotionHandler(promotionSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.Actor(cfg.JWT.Secret))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/enrollments/resolve", enrollmentHandler.Resolve)
		api.GET("/streams/:id/roster", enrollmentHandler.Roster)

		api.GET("/grading-scales/:curriculum", gradingHandler.Scale)
		api.GET("/grading-scales/:curriculum/grade", gradingHandler.GradeFor)

		analytics := api.Group("/analytics")
		analytics.GET("/subject", analyticsHandler.SubjectAnalysis)
		analytics.GET("/subjects", analyticsHandler.AllSubjects)
		analytics.GET("/students/:id/performance", analyticsHandler.StudentPerformance)
		analytics.GET("/difficulty", analyticsHandler.SubjectDifficulty)
		analytics.GET("/system", analyticsHandler.System)

		merit := api.Group("/merit")
		merit.GET("/subject", meritHandler.SubjectMeritList)
		merit.GET("/most-improved", meritHandler.MostImproved)

		api.POST("/promotions", promotionHandler.PromoteBatch)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
