package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"daily-attendance/backend/internal/dto"
	"daily-attendance/backend/internal/model"
	"daily-attendance/backend/internal/repository"
	pkgerrors "daily-attendance/backend/pkg/errors"
)

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound     = pkgerrors.NotFound("用户不存在")
	ErrUsernameTaken    = pkgerrors.Conflict("用户名已存在")
	ErrUsernameRequired = pkgerrors.InvalidInput("用户名和密码不能为空")
	ErrInvalidRole      = pkgerrors.InvalidInput("角色无效，仅支持 TEACHER 或 STUDENT")
)

// UserService 用户业务接口
type UserService interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.UserResponse, error)
	List(ctx context.Context) ([]dto.UserResponse, error)
	ListStudents(ctx context.Context) ([]dto.UserResponse, error)
	ListTeachers(ctx context.Context) ([]dto.UserResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── CreateUser ──────────────────────

func (s *userService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := model.RoleStudent
	if strings.TrimSpace(req.Role) != "" {
		r, ok := model.ParseRole(req.Role)
		if !ok {
			return nil, ErrInvalidRole
		}
		role = r
	}

	user := &model.User{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
		Role:     role,
		Name:     req.Name,
		Email:    req.Email,
	}
	if err := createAccount(ctx, s.repo, user); err != nil {
		if pkgerrors.Message(err) == "" {
			s.logger.Error("创建用户失败", zap.String("username", user.Username), zap.Error(err))
		}
		return nil, err
	}

	return toUserResponse(user), nil
}

// ────────────────────── 查询 ──────────────────────

func (s *userService) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, err
	}
	return toUserResponses(users), nil
}

func (s *userService) ListStudents(ctx context.Context) ([]dto.UserResponse, error) {
	return s.listByRole(ctx, model.RoleStudent)
}

func (s *userService) ListTeachers(ctx context.Context) ([]dto.UserResponse, error) {
	return s.listByRole(ctx, model.RoleTeacher)
}

func (s *userService) listByRole(ctx context.Context, role model.Role) ([]dto.UserResponse, error) {
	users, err := s.repo.User.ListByRole(ctx, role)
	if err != nil {
		s.logger.Error("按角色列出用户失败", zap.String("role", string(role)), zap.Error(err))
		return nil, err
	}
	return toUserResponses(users), nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = strings.TrimSpace(*req.Email)
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

// ── 内部辅助方法 ──

// createAccount 创建用户；学生角色同时建立同名 Student 记录
func createAccount(ctx context.Context, repo *repository.Repository, user *model.User) error {
	if user.Username == "" || user.Password == "" {
		return ErrUsernameRequired
	}
	if user.Name == "" {
		user.Name = user.Username
	}

	err := repo.Transaction(ctx, func(tx *repository.Repository) error {
		exists, err := tx.User.ExistsByUsername(ctx, user.Username)
		if err != nil {
			return err
		}
		if exists {
			return ErrUsernameTaken
		}
		if err := tx.User.Create(ctx, user); err != nil {
			return err
		}
		if user.Role != model.RoleStudent {
			return nil
		}
		return ensureStudentRow(ctx, tx, user.Username)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUsernameTaken
	}
	return err
}

// ensureStudentRow 确保存在与用户名对应的 Student 记录
func ensureStudentRow(ctx context.Context, repo *repository.Repository, username string) error {
	_, err := repo.Student.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return repo.Student.Create(ctx, &model.Student{Username: username})
}

func toUserResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		Name:     user.Name,
		Email:    user.Email,
	}
}

func toUserResponses(users []model.User) []dto.UserResponse {
	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *toUserResponse(&users[i]))
	}
	return result
}
