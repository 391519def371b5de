package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"daily-attendance/backend/internal/dto"
	"daily-attendance/backend/internal/model"
	"daily-attendance/backend/internal/repository"
	pkgerrors "daily-attendance/backend/pkg/errors"
	"daily-attendance/backend/pkg/metrics"
)

// ── 考勤模块业务错误 ──

var (
	ErrStudentNotFound    = pkgerrors.NotFound("学生不存在")
	ErrSubjectNotFound    = pkgerrors.NotFound("科目不存在")
	ErrTeacherNotFound    = pkgerrors.NotFound("教师不存在")
	ErrInvalidStatus      = pkgerrors.InvalidInput("考勤状态无效，仅支持 PRESENT 或 ABSENT")
	ErrInvalidDateRange   = pkgerrors.InvalidInput("开始日期不能晚于结束日期")
	ErrAttendanceConflict = pkgerrors.Conflict("考勤记录并发写入冲突，请重试")
)

// maxMarkAttempts 唯一约束冲突时 Mark 的最大尝试次数
const maxMarkAttempts = 3

// ParseStatus 大小写不敏感地解析考勤状态
func ParseStatus(s string) (model.AttendanceStatus, error) {
	status, ok := model.ParseAttendanceStatus(s)
	if !ok {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// AttendanceService 考勤台账业务接口
type AttendanceService interface {
	// Mark 标记学生某科目当日考勤：不存在则创建，存在则原地更新
	Mark(ctx context.Context, studentID, subjectID int64, status model.AttendanceStatus, teacherID int64) (*dto.AttendanceResponse, error)
	GetStudentAttendance(ctx context.Context, studentID int64) ([]dto.AttendanceResponse, error)
	// GetStudentAttendanceByDateRange start、end 均为闭区间
	GetStudentAttendanceByDateRange(ctx context.Context, studentID int64, start, end time.Time) ([]dto.AttendanceResponse, error)
	GetTodayAttendance(ctx context.Context) ([]dto.AttendanceResponse, error)
	// ResetDailyAttendance 将当日全部记录置为 ABSENT
	ResetDailyAttendance(ctx context.Context) (*dto.ResetResponse, error)
}

type attendanceService struct {
	repo    *repository.Repository
	cal     Calendar
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(repo *repository.Repository, cal Calendar, m *metrics.Metrics, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, cal: cal, metrics: m, logger: logger}
}

// ────────────────────── Mark ──────────────────────

func (s *attendanceService) Mark(ctx context.Context, studentID, subjectID int64, status model.AttendanceStatus, teacherID int64) (*dto.AttendanceResponse, error) {
	if status != model.StatusPresent && status != model.StatusAbsent {
		return nil, ErrInvalidStatus
	}

	now, today := s.cal.Now()

	var (
		saved *model.Attendance
		err   error
	)
	for attempt := 1; attempt <= maxMarkAttempts; attempt++ {
		saved, err = s.markOnce(ctx, studentID, subjectID, status, teacherID, today, now)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		s.metrics.ObserveUpsertRetry()
		s.logger.Warn("考勤写入唯一约束冲突，重试",
			zap.Int64("student_id", studentID),
			zap.Int64("subject_id", subjectID),
			zap.Int("attempt", attempt),
		)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrAttendanceConflict
	}
	if err != nil {
		if pkgerrors.Message(err) == "" {
			s.logger.Error("标记考勤失败",
				zap.Int64("student_id", studentID),
				zap.Int64("subject_id", subjectID),
				zap.Error(err),
			)
		}
		return nil, err
	}

	s.metrics.ObserveMark(string(status))
	return toAttendanceResponse(saved), nil
}

// markOnce 单个事务内完成“查找-更新或创建”。
// 已有记录不再校验学生、科目、教师；仅在创建时解析引用。
func (s *attendanceService) markOnce(
	ctx context.Context,
	studentID, subjectID int64,
	status model.AttendanceStatus,
	teacherID int64,
	today, now time.Time,
) (*model.Attendance, error) {
	var saved *model.Attendance

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		existing, err := tx.Attendance.GetByStudentSubjectDate(ctx, studentID, subjectID, today)
		if err == nil {
			existing.Apply(status, now)
			if err := tx.Attendance.UpdateMark(ctx, existing); err != nil {
				return err
			}
			saved = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		student, err := tx.Student.GetByID(ctx, studentID)
		if err != nil {
			return notFoundAs(err, ErrStudentNotFound)
		}
		subject, err := tx.Subject.GetByID(ctx, subjectID)
		if err != nil {
			return notFoundAs(err, ErrSubjectNotFound)
		}
		teacher, err := tx.User.GetByID(ctx, teacherID)
		if err != nil {
			return notFoundAs(err, ErrTeacherNotFound)
		}

		a := &model.Attendance{
			StudentID: student.ID,
			SubjectID: subject.ID,
			Date:      today,
			MarkedBy:  teacher.ID,
		}
		a.Apply(status, now)

		if err := tx.Attendance.Upsert(ctx, a); err != nil {
			return err
		}
		saved = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *attendanceService) GetStudentAttendance(ctx context.Context, studentID int64) ([]dto.AttendanceResponse, error) {
	if err := s.ensureStudent(ctx, studentID); err != nil {
		return nil, err
	}

	list, err := s.repo.Attendance.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生考勤失败", zap.Int64("student_id", studentID), zap.Error(err))
		return nil, err
	}
	return toAttendanceResponses(list), nil
}

func (s *attendanceService) GetStudentAttendanceByDateRange(ctx context.Context, studentID int64, start, end time.Time) ([]dto.AttendanceResponse, error) {
	start = model.CalendarDate(start, nil)
	end = model.CalendarDate(end, nil)
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}
	if err := s.ensureStudent(ctx, studentID); err != nil {
		return nil, err
	}

	list, err := s.repo.Attendance.ListByStudentAndDateRange(ctx, studentID, start, end)
	if err != nil {
		s.logger.Error("按日期区间查询学生考勤失败",
			zap.Int64("student_id", studentID),
			zap.Time("start", start),
			zap.Time("end", end),
			zap.Error(err),
		)
		return nil, err
	}
	return toAttendanceResponses(list), nil
}

func (s *attendanceService) GetTodayAttendance(ctx context.Context) ([]dto.AttendanceResponse, error) {
	today := s.cal.Today()

	list, err := s.repo.Attendance.ListByDate(ctx, today)
	if err != nil {
		s.logger.Error("查询当日考勤失败", zap.Time("date", today), zap.Error(err))
		return nil, err
	}
	return toAttendanceResponses(list), nil
}

// ────────────────────── ResetDailyAttendance ──────────────────────

func (s *attendanceService) ResetDailyAttendance(ctx context.Context) (*dto.ResetResponse, error) {
	now, today := s.cal.Now()

	rows, err := s.repo.Attendance.ResetForDate(ctx, today, now)
	if err != nil {
		s.logger.Error("重置当日考勤失败", zap.Time("date", today), zap.Error(err))
		return nil, err
	}

	s.metrics.ObserveReset(rows)
	s.logger.Info("当日考勤已重置",
		zap.String("date", today.Format(model.DateLayout)),
		zap.Int64("rows", rows),
	)
	return &dto.ResetResponse{Date: today.Format(model.DateLayout), Rows: rows}, nil
}

// ── 内部辅助方法 ──

func (s *attendanceService) ensureStudent(ctx context.Context, studentID int64) error {
	if _, err := s.repo.Student.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Int64("student_id", studentID), zap.Error(err))
		return err
	}
	return nil
}

// notFoundAs 将 gorm.ErrRecordNotFound 替换为业务错误，其余原样返回
func notFoundAs(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

func toAttendanceResponse(a *model.Attendance) *dto.AttendanceResponse {
	resp := &dto.AttendanceResponse{
		ID:        a.ID,
		StudentID: a.StudentID,
		SubjectID: a.SubjectID,
		Status:    string(a.Status),
		Date:      a.Date.Format(model.DateLayout),
		MarkedBy:  a.MarkedBy,
		UpdatedAt: a.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if a.MarkedAt != nil {
		v := a.MarkedAt.UTC().Format(time.RFC3339)
		resp.MarkedAt = &v
	}
	if a.Student != nil {
		resp.StudentName = a.Student.Username
	}
	if a.Subject != nil {
		resp.SubjectName = a.Subject.Name
	}
	if a.Teacher != nil {
		resp.TeacherName = a.Teacher.Name
	}
	return resp
}

func toAttendanceResponses(list []model.Attendance) []dto.AttendanceResponse {
	result := make([]dto.AttendanceResponse, 0, len(list))
	for i := range list {
		result = append(result, *toAttendanceResponse(&list[i]))
	}
	return result
}
