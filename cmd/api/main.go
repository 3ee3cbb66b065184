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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/zawajapp/zawaj-backend/internal/config"
	"github.com/zawajapp/zawaj-backend/internal/domain"
	"github.com/zawajapp/zawaj-backend/internal/event"
	"github.com/zawajapp/zawaj-backend/internal/handler"
	"github.com/zawajapp/zawaj-backend/internal/middleware"
	"github.com/zawajapp/zawaj-backend/internal/repository"
	"github.com/zawajapp/zawaj-backend/internal/routes"
	"github.com/zawajapp/zawaj-backend/internal/service"
	"github.com/zawajapp/zawaj-backend/internal/sweeper"
	"github.com/zawajapp/zawaj-backend/pkg/jwt"
	pkglogger "github.com/zawajapp/zawaj-backend/pkg/logger"
	pkgredis "github.com/zawajapp/zawaj-backend/pkg/redis"
)

// @title           Zawaj Backend API
// @version         1.0
// @description     Guardian-mediated matchmaking platform backend
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.Init(env)
	logger := pkglogger.Get()

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Info().Str("host", cfg.Database.Host).Msg("connected to MySQL")

	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	logger.Info().Str("host", cfg.Redis.Host).Msg("connected to Redis")

	jwtManager := jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)

	// Domain event bus, mirrored to Redis pub/sub for external consumers
	bus := event.NewBus(*logger)
	event.NewRedisPublisher(redisClient, "zawaj:events", *logger).Attach(bus)

	// Repositories
	profileRepo := repository.NewProfileRepository(db)
	approvalRepo := repository.NewGuardianApprovalRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	reportRepo := repository.NewReportRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	txManager := repository.NewTxManager(db)

	// Services
	settingsSvc := service.NewSettingsService(settingRepo, cfg.Engine.RequestExpiryDays, cfg.Engine.ChannelExpiryDays)
	privacySvc := service.NewPrivacyService(requestRepo, approvalRepo)
	profileSvc := service.NewProfileService(profileRepo, approvalRepo)
	searchSvc := service.NewSearchService(profileRepo, privacySvc)
	requestSvc := service.NewRequestService(requestRepo, channelRepo, profileRepo, approvalRepo, privacySvc, settingsSvc, txManager, bus)
	channelSvc := service.NewChannelService(channelRepo, bus)
	quota := service.NewRedisMessageQuota(redisClient)
	moderationSvc := service.NewModerationService(channelRepo, messageRepo, settingsSvc, quota, bus)
	adjudicationSvc := service.NewAdjudicationService(reportRepo, messageRepo, profileRepo, channelSvc, bus)

	// Background expiry passes
	sw := sweeper.New()
	sweepInterval := time.Duration(cfg.Engine.SweepIntervalSeconds) * time.Second
	sw.Register("request-expiry", sweepInterval, func() (int, error) {
		return requestSvc.SweepExpirations(time.Now())
	})
	sw.Register("channel-expiry", sweepInterval, func() (int, error) {
		return channelSvc.SweepExpirations(time.Now())
	})
	sw.Start()
	defer sw.Stop()

	// Handlers
	profileHandler := handler.NewProfileHandler(profileSvc, searchSvc)
	requestHandler := handler.NewRequestHandler(requestSvc)
	chatHandler := handler.NewChatHandler(channelSvc, moderationSvc)
	reportHandler := handler.NewReportHandler(adjudicationSvc)
	adminHandler := handler.NewAdminHandler(adjudicationSvc, settingsSvc)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	allowOrigins := cfg.CORS.Origins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining"},
		MaxAge:           86400,
	}))

	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimit(redisClient, middleware.RateLimitConfig{
		RequestsPerMinute: cfg.Engine.RateLimitPerMinute,
		KeyPrefix:         "api:ratelimit:",
		Message:           "Too many requests. Please try again shortly.",
	}))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "zawaj-backend",
			"time":    time.Now().Unix(),
		})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router, profileHandler, requestHandler, chatHandler, reportHandler, adminHandler, jwtManager)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
}

// initDB opens the MySQL connection and runs schema migration
func initDB(cfg *config.Config) (*gorm.DB, error) {
	mysqlCfg, err := mysqldriver.ParseDSN(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	db, err := gorm.Open(mysql.Open(mysqlCfg.FormatDSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&domain.Profile{},
		&domain.GuardianDetails{},
		&domain.GroomDetails{},
		&domain.PrivacyConfiguration{},
		&domain.GuardianApproval{},
		&domain.MarriageRequest{},
		&domain.ChatChannel{},
		&domain.Message{},
		&domain.FlaggedMessage{},
		&domain.Report{},
		&domain.ModerationSetting{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
