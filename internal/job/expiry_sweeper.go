// Package job 后台定时任务：考勤过期扫描与可选的每日重置。
package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"daily-attendance/backend/internal/repository"
	"daily-attendance/backend/pkg/clock"
	"daily-attendance/backend/pkg/metrics"
)

// sweepLockKey 多副本部署时的扫描互斥锁
const sweepLockKey = "attendance:expiry-sweep"

// Locker 分布式锁；nil 表示单实例运行，不加锁
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Unlock(ctx context.Context, key, token string) error
}

// SweepResult 单次扫描统计
type SweepResult struct {
	Scanned int
	Expired int
	Failed  int
	Skipped bool
}

// ExpirySweeper 将标记超过窗口期的 PRESENT 记录改回 ABSENT。
//
// 无状态，每次从存储重新读取；只看 marked_at 距今的时长，不按自然日截断。
// 每条记录通过条件更新落库，期间被重新标记的记录不会被改写。
type ExpirySweeper struct {
	repo    *repository.Repository
	clock   clock.Clock
	window  time.Duration
	locker  Locker
	lockTTL time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// SweeperOptions ExpirySweeper 依赖
type SweeperOptions struct {
	Window  time.Duration
	Locker  Locker
	LockTTL time.Duration
	Metrics *metrics.Metrics
}

// NewExpirySweeper 创建扫描器；repo 应为扫描器独占的存储句柄
func NewExpirySweeper(repo *repository.Repository, clk clock.Clock, opts SweeperOptions, logger *zap.Logger) *ExpirySweeper {
	if opts.LockTTL <= 0 {
		opts.LockTTL = 5 * time.Minute
	}
	return &ExpirySweeper{
		repo:    repo,
		clock:   clk,
		window:  opts.Window,
		locker:  opts.Locker,
		lockTTL: opts.LockTTL,
		metrics: opts.Metrics,
		logger:  logger,
	}
}

// Sweep 执行一次扫描。单条记录失败只记录日志并继续；仅读取列表失败时返回错误
func (s *ExpirySweeper) Sweep(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	started := time.Now()

	if s.locker != nil {
		token, ok, err := s.locker.TryLock(ctx, sweepLockKey, s.lockTTL)
		switch {
		case err != nil:
			// Redis 不可用时退化为无锁扫描，扫描本身幂等
			s.logger.Warn("获取扫描锁失败，无锁执行", zap.Error(err))
		case !ok:
			res.Skipped = true
			s.metrics.ObserveSweep("skipped", time.Since(started).Seconds(), 0, 0)
			s.logger.Debug("其他实例正在扫描，跳过本轮")
			return res, nil
		default:
			defer func() {
				if err := s.locker.Unlock(context.Background(), sweepLockKey, token); err != nil {
					s.logger.Warn("释放扫描锁失败", zap.Error(err))
				}
			}()
		}
	}

	now := s.clock.Now().UTC()
	cutoff := now.Add(-s.window)

	rows, err := s.repo.Attendance.ListPresent(ctx)
	if err != nil {
		s.metrics.ObserveSweep("error", time.Since(started).Seconds(), 0, 0)
		s.logger.Error("读取 PRESENT 记录失败", zap.Error(err))
		return res, err
	}
	res.Scanned = len(rows)

	for i := range rows {
		a := &rows[i]
		if !a.Expired(now, s.window) {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		updated, err := s.repo.Attendance.ExpirePresent(ctx, a.ID, cutoff, now)
		if err != nil {
			res.Failed++
			s.logger.Warn("过期记录更新失败，跳过",
				zap.Int64("attendance_id", a.ID),
				zap.Int64("student_id", a.StudentID),
				zap.Int64("subject_id", a.SubjectID),
				zap.Error(err),
			)
			continue
		}
		if updated {
			res.Expired++
		}
	}

	s.metrics.ObserveSweep("ok", time.Since(started).Seconds(), res.Expired, res.Failed)
	if res.Expired > 0 || res.Failed > 0 {
		s.logger.Info("过期扫描完成",
			zap.Int("scanned", res.Scanned),
			zap.Int("expired", res.Expired),
			zap.Int("failed", res.Failed),
			zap.Duration("elapsed", time.Since(started)),
		)
	} else {
		s.logger.Debug("过期扫描完成，无变更", zap.Int("scanned", res.Scanned))
	}
	return res, nil
}
