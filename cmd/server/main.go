package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"daily-attendance/backend/config"
	"daily-attendance/backend/internal/api/handler"
	"daily-attendance/backend/internal/api/router"
	"daily-attendance/backend/internal/job"
	"daily-attendance/backend/internal/repository"
	"daily-attendance/backend/internal/service"
	"daily-attendance/backend/pkg/clock"
	"daily-attendance/backend/pkg/database"
	"daily-attendance/backend/pkg/jwt"
	applogger "daily-attendance/backend/pkg/logger"
	"daily-attendance/backend/pkg/metrics"
	"daily-attendance/backend/pkg/redis"
)

func main() {
	// 0. 加载 .env（不存在时忽略）
	_ = godotenv.Load()

	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("ATTEND_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	loc, _ := cfg.Attendance.Location() // Validate 已校验
	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("attendance_tz", loc.String()),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 建表：Postgres 走版本化迁移，SQLite 开发库走 AutoMigrate
	if cfg.Database.Driver == "sqlite" || cfg.Database.AutoMigrate {
		if err := repository.AutoMigrate(db); err != nil {
			logger.Fatal("AutoMigrate 失败", zap.Error(err))
		}
	} else {
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			logger.Fatal("数据库迁移失败", zap.Error(err))
		}
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，扫描锁与限流将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 指标
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// 6. 依赖注入: Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	cal := service.NewCalendar(clock.System(), loc)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, cal, m, logger)
	h := handler.NewHandler(svc)

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := svc.Seed.Seed(seedCtx); err != nil {
		logger.Error("初始数据写入失败", zap.Error(err))
	}
	seedCancel()

	// 7. 后台调度：扫描器使用独立的存储句柄
	var locker job.Locker
	if rdb != nil {
		locker = rdb
	}
	sweeper := job.NewExpirySweeper(
		repository.NewRepository(db),
		clock.System(),
		job.SweeperOptions{
			Window:  cfg.Attendance.ExpiryWindow,
			Locker:  locker,
			LockTTL: cfg.Attendance.SweepLockTTL,
			Metrics: m,
		},
		applogger.Component(logger, "expiry_sweeper"),
	)
	scheduler, err := job.NewScheduler(&cfg.Attendance, sweeper, svc.Attendance, applogger.Component(logger, "scheduler"))
	if err != nil {
		logger.Fatal("初始化调度器失败", zap.Error(err))
	}
	if err := scheduler.Start(); err != nil {
		logger.Fatal("启动调度器失败", zap.Error(err))
	}

	// 8. 初始化路由
	engine := router.Setup(router.Deps{
		Config:   cfg,
		Handler:  h,
		JWT:      jwtMgr,
		Redis:    rdb,
		Registry: registry,
		Logger:   logger,
	})

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if err := scheduler.Stop(ctx); err != nil {
		logger.Warn("等待后台任务结束超时", zap.Error(err))
	}

	// 关闭数据库连接
	if closeDB, _ := db.DB(); closeDB != nil {
		_ = closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		_ = rdb.Close()
	}

	logger.Info("服务器已关闭")
}
