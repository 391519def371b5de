package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"daily-attendance/backend/internal/dto"
	"daily-attendance/backend/internal/model"
	"daily-attendance/backend/internal/repository"
)

// StudentService 学生查询
// 返回的 ID 为 students 表主键，与考勤记录中的 studentId 一致；姓名邮箱取自同名用户
type StudentService interface {
	List(ctx context.Context) ([]dto.StudentResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.StudentResponse, error)
}

type studentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(repo *repository.Repository, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, logger: logger}
}

func (s *studentService) List(ctx context.Context) ([]dto.StudentResponse, error) {
	students, err := s.repo.Student.List(ctx)
	if err != nil {
		s.logger.Error("列出学生失败", zap.Error(err))
		return nil, err
	}
	users, err := s.repo.User.ListByRole(ctx, model.RoleStudent)
	if err != nil {
		s.logger.Error("列出学生用户失败", zap.Error(err))
		return nil, err
	}

	byUsername := make(map[string]*model.User, len(users))
	for i := range users {
		byUsername[users[i].Username] = &users[i]
	}

	result := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		result = append(result, *toStudentResponse(&students[i], byUsername[students[i].Username]))
	}
	return result, nil
}

func (s *studentService) GetByID(ctx context.Context, id int64) (*dto.StudentResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	user, err := s.repo.User.GetByUsername(ctx, student.Username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询学生用户失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return toStudentResponse(student, user), nil
}

func toStudentResponse(student *model.Student, user *model.User) *dto.StudentResponse {
	resp := &dto.StudentResponse{
		ID:       student.ID,
		Username: student.Username,
		Name:     student.Username,
	}
	if user != nil {
		if user.Name != "" {
			resp.Name = user.Name
		}
		resp.Email = user.Email
	}
	return resp
}
