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

	"github.com/sanosuguru/go-restaurant-reservation/internal/api"
	"github.com/sanosuguru/go-restaurant-reservation/internal/api/handler"
	custommiddleware "github.com/sanosuguru/go-restaurant-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-restaurant-reservation/internal/application"
	"github.com/sanosuguru/go-restaurant-reservation/internal/config"
	"github.com/sanosuguru/go-restaurant-reservation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-restaurant-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-restaurant-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-restaurant-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-restaurant-reservation/internal/worker"
)

func main() {
	cfg := config.Load()
	defer logger.Sync()

	// データベース接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続に失敗しました", zap.Error(err))
	}
	defer db.Close()

	// マイグレーション実行
	if err := postgres.RunMigrations(db.DB, postgres.MigrationsPath()); err != nil {
		logger.Fatal("マイグレーション実行に失敗しました", zap.Error(err))
	}

	// Redis接続
	redisClient := redisinfra.NewClient(&cfg.Redis)
	defer redisClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisinfra.Ping(ctx, redisClient); err != nil {
		logger.Fatal("Redis接続に失敗しました", zap.Error(err))
	}
	cancel()

	// メトリクス初期化
	m := metrics.Init()

	// リポジトリ
	restaurantRepo := postgres.NewRestaurantRepository(db)
	tableRepo := postgres.NewTableRepository(db)
	reservationRepo := postgres.NewReservationRepository(db)
	txManager := postgres.NewTxManager(db)

	// Redisコンポーネント
	lockManager := redisinfra.NewLockManager(redisClient)
	countCache := redisinfra.NewReservationCountCache(redisClient)

	// サービス
	restaurantService := application.NewRestaurantService(
		restaurantRepo, tableRepo, reservationRepo, txManager, countCache,
		cfg.Reservation.CountCacheTTL)
	tableService := application.NewTableService(tableRepo, restaurantRepo)
	reservationService := application.NewReservationService(
		reservationRepo, restaurantRepo, lockManager, countCache, m,
		cfg.Reservation.LockTTL)

	// 過去予約クリーナー起動
	cleaner := worker.NewPastReservationCleaner(
		reservationService,
		cfg.Reservation.CleanerInterval,
		cfg.Reservation.RetentionPeriod,
	)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	go cleaner.Start(workerCtx)

	// Echoセットアップ
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	custommiddleware.SetupMiddleware(e)
	e.Use(custommiddleware.PrometheusMiddleware(m))

	registerRoutes(e,
		handler.NewHealthHandler(),
		handler.NewRestaurantHandler(restaurantService),
		handler.NewTableHandler(tableService),
		handler.NewReservationHandler(reservationService),
	)

	// サーバー起動
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("サーバーを起動します", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	workerCancel()
	cleaner.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}

func registerRoutes(
	e *echo.Echo,
	healthHandler *handler.HealthHandler,
	restaurantHandler *handler.RestaurantHandler,
	tableHandler *handler.TableHandler,
	reservationHandler *handler.ReservationHandler,
) {
	// メトリクスエンドポイント（Basic認証つき）
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), custommiddleware.MetricsBasicAuth())

	v1 := e.Group("/api/v1")
	v1.GET("/health", healthHandler.Check)

	// レストラン
	restaurants := v1.Group("/restaurants")
	restaurants.POST("", restaurantHandler.Create)
	restaurants.GET("", restaurantHandler.List)
	restaurants.GET("/:id", restaurantHandler.GetByID)
	restaurants.PUT("/:id", restaurantHandler.Update)
	restaurants.DELETE("/:id", restaurantHandler.Delete)

	// テーブル
	tables := v1.Group("/tables")
	tables.POST("", tableHandler.Create)
	tables.GET("", tableHandler.List)
	tables.GET("/:id", tableHandler.GetByID)
	tables.PUT("/:id", tableHandler.Update)
	tables.DELETE("/:id", tableHandler.Delete)

	// 予約（X-User-IDヘッダ必須）
	auth := custommiddleware.RequirePrincipal()
	v1.POST("/restaurants/:restaurantId/reservations", reservationHandler.Create, auth)
	v1.GET("/restaurants/:restaurantId/reservations", reservationHandler.List, auth)

	reservations := v1.Group("/reservations", auth)
	reservations.GET("", reservationHandler.List)
	reservations.GET("/:id", reservationHandler.GetByID)
	reservations.PUT("/:id", reservationHandler.Update)
	reservations.DELETE("/:id", reservationHandler.Cancel)
}
