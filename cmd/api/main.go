package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/anjeelupreti/movie-ticket-booking-system/internal/api"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/api/handler"
	custommw "github.com/anjeelupreti/movie-ticket-booking-system/internal/api/middleware"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/application"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/config"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/user"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/infrastructure/postgres"
	redisinfra "github.com/anjeelupreti/movie-ticket-booking-system/internal/infrastructure/redis"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/pkg/logger"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/pkg/metrics"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.Get()
	defer logger.Sync()

	// PostgreSQL接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatal("データベース接続に失敗しました", zap.Error(err))
	}
	defer db.Close()

	// マイグレーション実行
	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if err := postgres.RunMigrations(db.DB, migrationsPath); err != nil {
		log.Fatal("マイグレーションに失敗しました", zap.Error(err))
	}

	// Redis接続（未起動時はロック・キャッシュなしで縮退運転）
	var (
		lockManager *redisinfra.LockManager
		cache       *redisinfra.AvailabilityCache
	)
	redisClient, err := redisinfra.NewClient(&redisinfra.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis接続に失敗しました（ロック・キャッシュなしで続行）", zap.Error(err))
	} else {
		defer redisClient.Close()
		lockManager = redisinfra.NewLockManager(redisClient)
		cache = redisinfra.NewAvailabilityCache(redisClient)
	}

	// メトリクス初期化
	m := metrics.Init()

	// リポジトリとサービス
	movieRepo := postgres.NewMovieRepository(db)
	screeningRepo := postgres.NewScreeningRepository(db)
	userRepo := postgres.NewUserRepository(db)
	txManager := postgres.NewTxManager(db)

	authService := application.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	movieService := application.NewMovieService(movieRepo)
	screeningService := application.NewScreeningService(screeningRepo, movieRepo, txManager, cache)
	bookingService := application.NewBookingService(screeningRepo, userRepo, txManager, lockManager, cache)
	consistencyService := application.NewConsistencyService(screeningRepo, userRepo)

	// ハンドラー
	authHandler := handler.NewAuthHandler(authService)
	movieHandler := handler.NewMovieHandler(movieService)
	screeningHandler := handler.NewScreeningHandler(screeningService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	healthHandler := handler.NewHealthHandler()

	// Echo セットアップ
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	custommw.SetupMiddleware(e)
	e.Use(custommw.PrometheusMiddleware(m))

	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), custommw.MetricsBasicAuth())

	v1 := e.Group("/api/v1")

	// 認証不要
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.GET("/movies", movieHandler.List)
	v1.GET("/movies/:id", movieHandler.GetByID)
	v1.GET("/screenings", screeningHandler.List)
	v1.GET("/screenings/:id", screeningHandler.GetByID)
	v1.GET("/screenings/:id/seats", screeningHandler.AvailableSeats)
	v1.GET("/screenings/:id/seats/count", screeningHandler.CountAvailableSeats)

	// 要ログイン
	authed := v1.Group("", custommw.JWTAuth(cfg.Auth.JWTSecret))
	authed.POST("/bookings", bookingHandler.Create)
	authed.GET("/bookings", bookingHandler.List)
	authed.POST("/bookings/:index/cancel", bookingHandler.Cancel)

	// 管理者のみ
	admin := v1.Group("", custommw.JWTAuth(cfg.Auth.JWTSecret), custommw.RequireRole(string(user.RoleAdmin)))
	admin.POST("/movies", movieHandler.Create)
	admin.PUT("/movies/:id", movieHandler.Update)
	admin.DELETE("/movies/:id", movieHandler.Delete)
	admin.POST("/screenings", screeningHandler.Create)
	admin.PUT("/screenings/:id", screeningHandler.Update)
	admin.DELETE("/screenings/:id", screeningHandler.Delete)

	// 整合性監査ワーカー起動
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	auditor := worker.NewConsistencyAuditor(consistencyService, cfg.Worker.AuditInterval)
	go auditor.Start(workerCtx)

	// サーバー起動
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()
	log.Info("サーバーを起動しました", zap.String("port", cfg.Server.Port))

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("サーバーをシャットダウンしています...")

	cancelWorker()
	auditor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	log.Info("サーバーが正常にシャットダウンしました")
}
