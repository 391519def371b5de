package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"daily-attendance/backend/internal/dto"
	"daily-attendance/backend/internal/model"
	"daily-attendance/backend/internal/repository"
)

// DashboardService 当日统计
//
// 一次调用只解析一次“今天”，所有计数在同一只读快照内完成。
type DashboardService interface {
	// GetTodaySubjectWiseCounts 科目名 -> 当日 PRESENT 记录数；无记录的科目计 0
	GetTodaySubjectWiseCounts(ctx context.Context) (map[string]int64, error)
	GetDashboardSummary(ctx context.Context) (*dto.DashboardSummary, error)
}

type dashboardService struct {
	repo   *repository.Repository
	cal    Calendar
	logger *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(repo *repository.Repository, cal Calendar, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, cal: cal, logger: logger}
}

func (s *dashboardService) GetTodaySubjectWiseCounts(ctx context.Context) (map[string]int64, error) {
	today := s.cal.Today()

	var counts map[string]int64
	err := s.repo.ReadSnapshot(ctx, func(tx *repository.Repository) error {
		var err error
		counts, err = subjectWiseCounts(ctx, tx, today)
		return err
	})
	if err != nil {
		s.logger.Error("统计科目出勤失败", zap.Time("date", today), zap.Error(err))
		return nil, err
	}
	return counts, nil
}

func (s *dashboardService) GetDashboardSummary(ctx context.Context) (*dto.DashboardSummary, error) {
	today := s.cal.Today()
	summary := &dto.DashboardSummary{Date: today.Format(model.DateLayout)}

	err := s.repo.ReadSnapshot(ctx, func(tx *repository.Repository) error {
		var err error
		if summary.TotalStudents, err = tx.User.CountByRole(ctx, model.RoleStudent); err != nil {
			return err
		}
		if summary.TotalSubjects, err = tx.Subject.Count(ctx); err != nil {
			return err
		}
		if summary.PresentTotal, err = tx.Attendance.CountPresentStudentsByDate(ctx, today); err != nil {
			return err
		}
		summary.PerSubject, err = subjectWiseCounts(ctx, tx, today)
		return err
	})
	if err != nil {
		s.logger.Error("生成看板统计失败", zap.Time("date", today), zap.Error(err))
		return nil, err
	}

	// 未打卡的学生按差值计为缺勤
	summary.AbsentTotal = summary.TotalStudents - summary.PresentTotal
	if summary.AbsentTotal < 0 {
		summary.AbsentTotal = 0
	}
	return summary, nil
}

// subjectWiseCounts 先按科目分组计数，再为没有记录的科目补 0
func subjectWiseCounts(ctx context.Context, tx *repository.Repository, day time.Time) (map[string]int64, error) {
	grouped, err := tx.Attendance.CountPresentBySubjectAndDate(ctx, day)
	if err != nil {
		return nil, err
	}
	subjects, err := tx.Subject.List(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(subjects))
	for _, sc := range grouped {
		counts[sc.SubjectName] = sc.Present
	}
	for _, sub := range subjects {
		if _, ok := counts[sub.Name]; !ok {
			counts[sub.Name] = 0
		}
	}
	return counts, nil
}
