package handler

import "daily-attendance/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Student    *StudentHandler
	Subject    *SubjectHandler
	Attendance *AttendanceHandler
	Dashboard  *DashboardHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.User),
		Student:    NewStudentHandler(svc.Student, svc.Attendance),
		Subject:    NewSubjectHandler(svc.Subject),
		Attendance: NewAttendanceHandler(svc.Attendance),
		Dashboard:  NewDashboardHandler(svc.Dashboard),
		Export:     NewExportHandler(svc.Export),
	}
}
