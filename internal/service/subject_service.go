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

// ── 科目模块业务错误 ──

var (
	ErrSubjectNameRequired = pkgerrors.InvalidInput("科目名称不能为空")
	ErrSubjectNameTaken    = pkgerrors.Conflict("科目名称已存在")
	ErrSubjectCodeTaken    = pkgerrors.Conflict("科目代码已存在")
)

// SubjectService 科目业务接口
type SubjectService interface {
	Create(ctx context.Context, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.SubjectResponse, error)
	// List 按名称排序
	List(ctx context.Context) ([]dto.SubjectResponse, error)
}

type subjectService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSubjectService 创建 SubjectService 实例
func NewSubjectService(repo *repository.Repository, logger *zap.Logger) SubjectService {
	return &subjectService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *subjectService) Create(ctx context.Context, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrSubjectNameRequired
	}
	subject := &model.Subject{Name: name}
	if code := strings.TrimSpace(req.Code); code != "" {
		subject.Code = &code
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Subject.GetByName(ctx, name); err == nil {
			return ErrSubjectNameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if subject.Code != nil {
			if _, err := tx.Subject.GetByCode(ctx, *subject.Code); err == nil {
				return ErrSubjectCodeTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		return tx.Subject.Create(ctx, subject)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// 并发创建：由唯一约束兜底
		return nil, ErrSubjectNameTaken
	}
	if err != nil {
		if pkgerrors.Message(err) == "" {
			s.logger.Error("创建科目失败", zap.String("name", name), zap.Error(err))
		}
		return nil, err
	}

	return toSubjectResponse(subject), nil
}

// ────────────────────── 查询 ──────────────────────

func (s *subjectService) GetByID(ctx context.Context, id int64) (*dto.SubjectResponse, error) {
	subject, err := s.repo.Subject.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		s.logger.Error("查询科目失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return toSubjectResponse(subject), nil
}

func (s *subjectService) List(ctx context.Context) ([]dto.SubjectResponse, error) {
	subjects, err := s.repo.Subject.List(ctx)
	if err != nil {
		s.logger.Error("列出科目失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SubjectResponse, 0, len(subjects))
	for i := range subjects {
		result = append(result, *toSubjectResponse(&subjects[i]))
	}
	return result, nil
}

func toSubjectResponse(subject *model.Subject) *dto.SubjectResponse {
	resp := &dto.SubjectResponse{ID: subject.ID, Name: subject.Name}
	if subject.Code != nil {
		resp.Code = *subject.Code
	}
	return resp
}
