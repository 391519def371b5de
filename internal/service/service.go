package service

import (
	"time"

	"go.uber.org/zap"

	"daily-attendance/backend/config"
	"daily-attendance/backend/internal/model"
	"daily-attendance/backend/internal/repository"
	"daily-attendance/backend/pkg/clock"
	"daily-attendance/backend/pkg/jwt"
	"daily-attendance/backend/pkg/metrics"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	User       UserService
	Student    StudentService
	Subject    SubjectService
	Attendance AttendanceService
	Dashboard  DashboardService
	Export     ExportService
	Seed       SeedService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	cal Calendar,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(repo, jwtMgr, logger),
		User:       NewUserService(repo, logger),
		Student:    NewStudentService(repo, logger),
		Subject:    NewSubjectService(repo, logger),
		Attendance: NewAttendanceService(repo, cal, m, logger),
		Dashboard:  NewDashboardService(repo, cal, logger),
		Export:     NewExportService(repo, logger),
		Seed:       NewSeedService(repo, &cfg.Seed, logger),
	}
}

// Calendar 解析“今天”：当前时刻取自注入的时钟，自然日按配置时区划分
type Calendar struct {
	Clock    clock.Clock
	Location *time.Location
}

// NewCalendar 创建 Calendar；loc 为 nil 时使用 time.Local
func NewCalendar(c clock.Clock, loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{Clock: c, Location: loc}
}

// Now 返回当前时刻（UTC）及其所在自然日，二者取自同一次读钟
func (c Calendar) Now() (now time.Time, today time.Time) {
	t := c.Clock.Now()
	return t.UTC(), model.CalendarDate(t, c.Location)
}

// Today 当前自然日
func (c Calendar) Today() time.Time {
	_, today := c.Now()
	return today
}
