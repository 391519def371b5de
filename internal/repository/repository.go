package repository

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"daily-attendance/backend/internal/model"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User       UserRepository
	Student    StudentRepository
	Subject    SubjectRepository
	Attendance AttendanceRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		User:       NewUserRepo(db),
		Student:    NewStudentRepo(db),
		Subject:    NewSubjectRepo(db),
		Attendance: NewAttendanceRepo(db),
	}
}

// Transaction 在单个事务中执行 fn，fn 收到绑定到该事务的 Repository。
// 未绑定数据库（测试中手工组装）时直接以自身执行。
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.TransactionWithOptions(ctx, nil, fn)
}

// ReadSnapshot 以只读、可重复读事务执行 fn，内部多次查询看到同一快照
func (r *Repository) ReadSnapshot(ctx context.Context, fn func(tx *Repository) error) error {
	return r.TransactionWithOptions(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

// TransactionWithOptions 指定隔离级别的事务
func (r *Repository) TransactionWithOptions(ctx context.Context, opts *sql.TxOptions, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	}, opts)
}

// AutoMigrate 按模型建表，仅用于 SQLite 开发库与测试
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Student{},
		&model.Subject{},
		&model.Attendance{},
	)
}
