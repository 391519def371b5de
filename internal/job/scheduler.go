package job

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"daily-attendance/backend/config"
	"daily-attendance/backend/internal/dto"
)

// DailyResetter 每日重置入口
type DailyResetter interface {
	ResetDailyAttendance(ctx context.Context) (*dto.ResetResponse, error)
}

// Scheduler 基于 cron 的后台调度，与请求处理完全解耦
type Scheduler struct {
	cron     *cron.Cron
	cfg      *config.AttendanceConfig
	sweeper  *ExpirySweeper
	resetter DailyResetter
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler 创建调度器；resetter 为 nil 或未配置 daily_reset_cron 时不注册每日重置
func NewScheduler(cfg *config.AttendanceConfig, sweeper *ExpirySweeper, resetter DailyResetter, logger *zap.Logger) (*Scheduler, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("解析考勤时区失败: %w", err)
	}

	cl := cronLogger{l: logger.Sugar()}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:     c,
		cfg:      cfg,
		sweeper:  sweeper,
		resetter: resetter,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start 注册任务并启动；启动时先执行一次扫描
func (s *Scheduler) Start() error {
	spec := fmt.Sprintf("@every %s", s.cfg.SweepInterval)
	if _, err := s.cron.AddFunc(spec, s.runSweep); err != nil {
		return fmt.Errorf("注册过期扫描任务失败: %w", err)
	}

	if s.cfg.DailyResetCron != "" && s.resetter != nil {
		if _, err := s.cron.AddFunc(s.cfg.DailyResetCron, s.runDailyReset); err != nil {
			return fmt.Errorf("注册每日重置任务失败: %w", err)
		}
	}

	go s.runSweep()
	s.cron.Start()

	s.logger.Info("后台调度已启动",
		zap.Duration("sweep_interval", s.cfg.SweepInterval),
		zap.Duration("expiry_window", s.cfg.ExpiryWindow),
		zap.String("daily_reset_cron", s.cfg.DailyResetCron),
	)
	return nil
}

// Stop 停止调度并等待运行中的任务结束，ctx 到期则放弃等待
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.cancel()
		s.logger.Info("后台调度已停止")
		return nil
	case <-ctx.Done():
		s.cancel()
		return ctx.Err()
	}
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.SweepInterval)
	defer cancel()

	if _, err := s.sweeper.Sweep(ctx); err != nil {
		s.logger.Error("过期扫描失败", zap.Error(err))
	}
}

func (s *Scheduler) runDailyReset() {
	ctx, cancel := context.WithTimeout(s.ctx, time.Minute)
	defer cancel()

	if _, err := s.resetter.ResetDailyAttendance(ctx); err != nil {
		s.logger.Error("每日重置失败", zap.Error(err))
	}
}

// cronLogger 将 cron 内部日志转到 zap
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
