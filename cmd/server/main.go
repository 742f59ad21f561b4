package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/langchou/fuelbook/internal/api/handlers"
	"github.com/langchou/fuelbook/internal/appmode"
	"github.com/langchou/fuelbook/internal/config"
	"github.com/langchou/fuelbook/internal/repository"
	"github.com/langchou/fuelbook/internal/service"
	"github.com/langchou/fuelbook/pkg/ws"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger := initLogger(cfg.Debug)
	defer logger.Sync()

	logger.Info("Starting Fuelbook", zap.String("port", cfg.ServerPort))

	// 创建 context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 连接数据库
	db, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect database", zap.Error(err))
	}
	defer db.Close()

	// 执行数据库迁移
	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database migrated successfully")

	// 创建 Repository
	vehicleRepo := repository.NewVehicleRepository(db)
	tripRepo := repository.NewTripRepository(db)
	routeRepo := repository.NewRouteRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	settingRepo := repository.NewSettingsRepository(db)

	// 创建 WebSocket Hub
	wsHub := ws.NewHub(logger)
	go wsHub.Run()

	// 读写模式状态机，切换时广播给前端
	mode := appmode.NewMachine(func(from, to, reason string) {
		logger.Info("Mode changed",
			zap.String("from", from),
			zap.String("to", to),
			zap.String("reason", reason))
		wsHub.BroadcastMessage(ws.MsgTypeModeChange, gin.H{
			"mode":   to,
			"reason": reason,
		})
	})

	if cfg.ForceReadOnly {
		if err := mode.Trigger(appmode.EventForceReadOnly, "read-only forced by configuration"); err != nil {
			logger.Fatal("Failed to force read-only mode", zap.Error(err))
		}
	} else {
		// 通过数据库咨询锁仲裁写权限
		keeper := appmode.NewLockKeeper(logger, db.Pool, mode, cfg.LockRefreshInterval)
		go keeper.Run(ctx)
	}

	// 创建服务
	logbook := service.NewLogbookService(logger, vehicleRepo, tripRepo, receiptRepo)
	suggestions := service.NewSuggestionService(cfg, logger, logbook, routeRepo)

	// 创建 HTTP 处理器
	handler := handlers.NewHandler(
		logger,
		vehicleRepo,
		tripRepo,
		routeRepo,
		receiptRepo,
		settingRepo,
		logbook,
		suggestions,
		mode,
		wsHub,
	)

	// 设置 Gin 模式
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// 注册路由
	handler.RegisterRoutes(router)

	// 启动 HTTP 服务器
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", server.Addr))

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	// 优雅关闭
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// initLogger 初始化日志
func initLogger(debug bool) *zap.Logger {
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	logger, _ := config.Build()
	return logger
}

// corsMiddleware CORS 中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
