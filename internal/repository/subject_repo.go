package repository

import (
	"context"

	"gorm.io/gorm"

	"daily-attendance/backend/internal/model"
)

// SubjectRepository 科目数据访问接口
type SubjectRepository interface {
	Create(ctx context.Context, subject *model.Subject) error
	GetByID(ctx context.Context, id int64) (*model.Subject, error)
	GetByName(ctx context.Context, name string) (*model.Subject, error)
	GetByCode(ctx context.Context, code string) (*model.Subject, error)
	List(ctx context.Context) ([]model.Subject, error)
	Count(ctx context.Context) (int64, error)
}

type subjectRepo struct {
	db *gorm.DB
}

// NewSubjectRepo 创建 SubjectRepository 实例
func NewSubjectRepo(db *gorm.DB) SubjectRepository {
	return &subjectRepo{db: db}
}

func (r *subjectRepo) Create(ctx context.Context, subject *model.Subject) error {
	return r.db.WithContext(ctx).Create(subject).Error
}

func (r *subjectRepo) GetByID(ctx context.Context, id int64) (*model.Subject, error) {
	var subject model.Subject
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&subject).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepo) GetByName(ctx context.Context, name string) (*model.Subject, error) {
	var subject model.Subject
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&subject).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepo) GetByCode(ctx context.Context, code string) (*model.Subject, error) {
	var subject model.Subject
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&subject).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

// List 按名称排序
func (r *subjectRepo) List(ctx context.Context) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.db.WithContext(ctx).Order("name ASC").Find(&subjects).Error
	return subjects, err
}

func (r *subjectRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Subject{}).Count(&n).Error
	return n, err
}
