package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"daily-attendance/backend/internal/model"
)

// SubjectCount 某科目当日 PRESENT 记录数
type SubjectCount struct {
	SubjectName string
	Present     int64
}

// AttendanceRepository 考勤记录数据访问接口
//
// 所有写路径都同步写入 status 与 marked_at，保证二者在落库时一致。
type AttendanceRepository interface {
	GetByStudentSubjectDate(ctx context.Context, studentID, subjectID int64, date time.Time) (*model.Attendance, error)
	// Upsert 以 (student_id, subject_id, attendance_date) 为键原子插入；
	// 键已存在时仅更新 status / marked_at / updated_at，完成后以库中记录回填 a
	Upsert(ctx context.Context, a *model.Attendance) error
	// UpdateMark 更新已有记录的 status / marked_at / updated_at
	UpdateMark(ctx context.Context, a *model.Attendance) error
	ListByStudent(ctx context.Context, studentID int64) ([]model.Attendance, error)
	ListByStudentAndDateRange(ctx context.Context, studentID int64, start, end time.Time) ([]model.Attendance, error)
	ListByDate(ctx context.Context, date time.Time) ([]model.Attendance, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]model.Attendance, error)
	// ListPresent 返回全部 status=PRESENT 且 marked_at 非空的记录（不限日期）
	ListPresent(ctx context.Context) ([]model.Attendance, error)
	// ExpirePresent 条件更新：仅当记录仍为 PRESENT 且 marked_at <= cutoff 时改为 ABSENT。
	// 返回是否实际更新；期间被重新标记的记录不会被误改
	ExpirePresent(ctx context.Context, id int64, cutoff, now time.Time) (bool, error)
	// ResetForDate 将某日全部记录置为 ABSENT 并清空 marked_at，返回影响行数
	ResetForDate(ctx context.Context, date, now time.Time) (int64, error)
	CountPresentStudentsByDate(ctx context.Context, date time.Time) (int64, error)
	CountPresentBySubjectAndDate(ctx context.Context, date time.Time) ([]SubjectCount, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

// dailyKey 唯一约束 uk_attendance_daily 的列
var dailyKey = []clause.Column{
	{Name: "student_id"},
	{Name: "subject_id"},
	{Name: "attendance_date"},
}

func (r *attendanceRepo) withRefs(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Student").
		Preload("Subject").
		Preload("Teacher")
}

func (r *attendanceRepo) GetByStudentSubjectDate(ctx context.Context, studentID, subjectID int64, date time.Time) (*model.Attendance, error) {
	var a model.Attendance
	err := r.withRefs(ctx).
		Where("student_id = ? AND subject_id = ? AND attendance_date = ?", studentID, subjectID, date).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepo) Upsert(ctx context.Context, a *model.Attendance) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: dailyKey,
			DoUpdates: clause.Assignments(map[string]interface{}{
				"status":     a.Status,
				"marked_at":  a.MarkedAt,
				"updated_at": a.UpdatedAt,
			}),
		}).
		Create(a).Error
	if err != nil {
		return err
	}

	stored, err := r.GetByStudentSubjectDate(ctx, a.StudentID, a.SubjectID, a.Date)
	if err != nil {
		return err
	}
	*a = *stored
	return nil
}

func (r *attendanceRepo) UpdateMark(ctx context.Context, a *model.Attendance) error {
	result := r.db.WithContext(ctx).
		Model(&model.Attendance{}).
		Where("id = ?", a.ID).
		Updates(map[string]interface{}{
			"status":     a.Status,
			"marked_at":  a.MarkedAt,
			"updated_at": a.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *attendanceRepo) ListByStudent(ctx context.Context, studentID int64) ([]model.Attendance, error) {
	var list []model.Attendance
	err := r.withRefs(ctx).
		Where("student_id = ?", studentID).
		Order("attendance_date DESC, subject_id ASC").
		Find(&list).Error
	return list, err
}

func (r *attendanceRepo) ListByStudentAndDateRange(ctx context.Context, studentID int64, start, end time.Time) ([]model.Attendance, error) {
	var list []model.Attendance
	err := r.withRefs(ctx).
		Where("student_id = ? AND attendance_date BETWEEN ? AND ?", studentID, start, end).
		Order("attendance_date DESC, subject_id ASC").
		Find(&list).Error
	return list, err
}

func (r *attendanceRepo) ListByDate(ctx context.Context, date time.Time) ([]model.Attendance, error) {
	var list []model.Attendance
	err := r.withRefs(ctx).
		Where("attendance_date = ?", date).
		Order("subject_id ASC, student_id ASC").
		Find(&list).Error
	return list, err
}

func (r *attendanceRepo) ListByDateRange(ctx context.Context, start, end time.Time) ([]model.Attendance, error) {
	var list []model.Attendance
	err := r.withRefs(ctx).
		Where("attendance_date BETWEEN ? AND ?", start, end).
		Order("attendance_date ASC, subject_id ASC, student_id ASC").
		Find(&list).Error
	return list, err
}

func (r *attendanceRepo) ListPresent(ctx context.Context) ([]model.Attendance, error) {
	var list []model.Attendance
	err := r.db.WithContext(ctx).
		Where("status = ? AND marked_at IS NOT NULL", model.StatusPresent).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

func (r *attendanceRepo) ExpirePresent(ctx context.Context, id int64, cutoff, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Attendance{}).
		Where("id = ? AND status = ? AND marked_at <= ?", id, model.StatusPresent, cutoff).
		Updates(map[string]interface{}{
			"status":     model.StatusAbsent,
			"marked_at":  nil,
			"updated_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *attendanceRepo) ResetForDate(ctx context.Context, date, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Attendance{}).
		Where("attendance_date = ?", date).
		Updates(map[string]interface{}{
			"status":     model.StatusAbsent,
			"marked_at":  nil,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

func (r *attendanceRepo) CountPresentStudentsByDate(ctx context.Context, date time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Attendance{}).
		Where("attendance_date = ? AND status = ?", date, model.StatusPresent).
		Distinct("student_id").
		Count(&n).Error
	return n, err
}

func (r *attendanceRepo) CountPresentBySubjectAndDate(ctx context.Context, date time.Time) ([]SubjectCount, error) {
	var rows []SubjectCount
	err := r.db.WithContext(ctx).
		Table("attendance AS a").
		Select("s.name AS subject_name, COUNT(*) AS present").
		Joins("JOIN subjects AS s ON s.id = a.subject_id").
		Where("a.attendance_date = ? AND a.status = ?", date, model.StatusPresent).
		Group("s.name").
		Scan(&rows).Error
	return rows, err
}
