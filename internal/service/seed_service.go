package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"daily-attendance/backend/config"
	"daily-attendance/backend/internal/model"
	"daily-attendance/backend/internal/repository"
)

// SeedService 初始数据
type SeedService interface {
	// Seed 幂等写入默认科目与账号；已存在的按名称跳过。未启用时直接返回
	Seed(ctx context.Context) error
}

type seedSubject struct {
	name string
	code string
}

var defaultSubjects = []seedSubject{
	{"Mathematics", "MATH101"},
	{"Science", "SCI201"},
	{"English", "ENG301"},
	{"History", "HIS401"},
	{"Computer Science", "CS501"},
	{"Physics", "PHY601"},
}

var defaultTeacher = model.User{
	Username: "teacher",
	Password: "teacher123",
	Role:     model.RoleTeacher,
	Name:     "John Smith",
	Email:    "teacher@school.edu",
}

var defaultStudents = []model.User{
	{Username: "alice", Name: "Alice Johnson"},
	{Username: "bob", Name: "Bob Williams"},
	{Username: "carol", Name: "Carol Davis"},
	{Username: "david", Name: "David Brown"},
	{Username: "emma", Name: "Emma Wilson"},
}

const defaultStudentPassword = "student123"

type seedService struct {
	repo   *repository.Repository
	cfg    *config.SeedConfig
	logger *zap.Logger
}

// NewSeedService 创建 SeedService 实例
func NewSeedService(repo *repository.Repository, cfg *config.SeedConfig, logger *zap.Logger) SeedService {
	return &seedService{repo: repo, cfg: cfg, logger: logger}
}

func (s *seedService) Seed(ctx context.Context) error {
	if s.cfg == nil || !s.cfg.Enabled {
		return nil
	}

	var subjects, users int
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for _, sub := range defaultSubjects {
			_, err := tx.Subject.GetByName(ctx, sub.name)
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			code := sub.code
			if err := tx.Subject.Create(ctx, &model.Subject{Name: sub.name, Code: &code}); err != nil {
				return err
			}
			subjects++
		}

		accounts := make([]model.User, 0, len(defaultStudents)+1)
		accounts = append(accounts, defaultTeacher)
		for _, st := range defaultStudents {
			st.Password = defaultStudentPassword
			st.Role = model.RoleStudent
			st.Email = st.Username + "@" + studentEmailDomain
			accounts = append(accounts, st)
		}

		for i := range accounts {
			u := accounts[i]
			exists, err := tx.User.ExistsByUsername(ctx, u.Username)
			if err != nil {
				return err
			}
			if !exists {
				if err := tx.User.Create(ctx, &u); err != nil {
					return err
				}
				users++
			}
			if u.Role == model.RoleStudent {
				if err := ensureStudentRow(ctx, tx, u.Username); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("初始化数据失败", zap.Error(err))
		return err
	}

	s.logger.Info("初始化数据完成", zap.Int("subjects_created", subjects), zap.Int("users_created", users))
	return nil
}
