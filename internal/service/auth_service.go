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
	"daily-attendance/backend/pkg/jwt"
)

var ErrInvalidCredentials = pkgerrors.InvalidInput("用户名或密码错误")

// studentEmailDomain 自动注册学生的默认邮箱域
const studentEmailDomain = "student.edu"

// AuthService 认证业务接口
type AuthService interface {
	// Login 用户名密码登录，密码按原值比对
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	// LoginOrRegister 用户名不存在时自动注册为学生后登录
	LoginOrRegister(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	GetProfile(ctx context.Context, username string) (*dto.UserResponse, error)
}

type authService struct {
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		jwtMgr: jwtMgr,
		logger: logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 校验密码
	if user.Password != req.Password {
		return nil, ErrInvalidCredentials
	}

	// 3. 签发 Token
	return s.issue(user)
}

func (s *authService) LoginOrRegister(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)

	_, err := s.repo.User.GetByUsername(ctx, username)
	if err == nil {
		return s.Login(ctx, req)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Username: username,
		Password: req.Password,
		Role:     model.RoleStudent,
		Name:     username,
		Email:    username + "@" + studentEmailDomain,
	}
	if err := createAccount(ctx, s.repo, user); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			// 并发注册：对方已建号，按登录处理
			return s.Login(ctx, req)
		}
		if pkgerrors.Message(err) == "" {
			s.logger.Error("自动注册失败", zap.String("username", username), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("自动注册学生账号", zap.String("username", username), zap.Int64("user_id", user.ID))
	return s.issue(user)
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
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
			s.logger.Error("注册失败", zap.String("username", user.Username), zap.Error(err))
		}
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *authService) GetProfile(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *authService) issue(user *model.User) (*dto.LoginResponse, error) {
	token, err := s.jwtMgr.GenerateAccessToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:        *toUserResponse(user),
	}, nil
}
