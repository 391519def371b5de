package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"daily-attendance/backend/internal/model"
	"daily-attendance/backend/internal/repository"
)

var errMockStorage = errors.New("mock 存储故障")

// ── Mock UserRepository ──

type mockUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	m.nextID++
	user.ID = m.nextID
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.GetByUsername(ctx, username)
	return err == nil, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	result := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockUserRepo) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	all, _ := m.List(ctx)
	var result []model.User
	for _, u := range all {
		if u.Role == role {
			result = append(result, u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockUserRepo) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	list, _ := m.ListByRole(ctx, role)
	return int64(len(list)), nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[int64]*model.Student
	nextID   int64
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[int64]*model.Student)}
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	for _, s := range m.students {
		if s.Username == student.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	m.nextID++
	student.ID = m.nextID
	cp := *student
	m.students[student.ID] = &cp
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id int64) (*model.Student, error) {
	if s, ok := m.students[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByUsername(_ context.Context, username string) (*model.Student, error) {
	for _, s := range m.students {
		if s.Username == username {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) List(_ context.Context) ([]model.Student, error) {
	result := make([]model.Student, 0, len(m.students))
	for _, s := range m.students {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ── Mock SubjectRepository ──

type mockSubjectRepo struct {
	subjects map[int64]*model.Subject
	nextID   int64
}

func newMockSubjectRepo() *mockSubjectRepo {
	return &mockSubjectRepo{subjects: make(map[int64]*model.Subject)}
}

func (m *mockSubjectRepo) Create(_ context.Context, subject *model.Subject) error {
	for _, s := range m.subjects {
		if s.Name == subject.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	m.nextID++
	subject.ID = m.nextID
	cp := *subject
	m.subjects[subject.ID] = &cp
	return nil
}

func (m *mockSubjectRepo) GetByID(_ context.Context, id int64) (*model.Subject, error) {
	if s, ok := m.subjects[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) GetByName(_ context.Context, name string) (*model.Subject, error) {
	for _, s := range m.subjects {
		if s.Name == name {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) GetByCode(_ context.Context, code string) (*model.Subject, error) {
	for _, s := range m.subjects {
		if s.Code != nil && *s.Code == code {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) List(_ context.Context) ([]model.Subject, error) {
	result := make([]model.Subject, 0, len(m.subjects))
	for _, s := range m.subjects {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockSubjectRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.subjects)), nil
}

// ── Mock AttendanceRepository ──

// mockAttendanceRepo 以 (student, subject, date) 为唯一键的内存实现
type mockAttendanceRepo struct {
	mu       sync.Mutex
	rows     map[int64]*model.Attendance
	nextID   int64
	subjects *mockSubjectRepo

	// upsertConflicts 前 N 次 Upsert 返回 ErrDuplicatedKey
	upsertConflicts int
	upsertCalls     int
	// failExpireIDs 对这些记录的 ExpirePresent 返回存储错误
	failExpireIDs map[int64]bool
	listErr       error
}

func newMockAttendanceRepo(subjects *mockSubjectRepo) *mockAttendanceRepo {
	return &mockAttendanceRepo{
		rows:          make(map[int64]*model.Attendance),
		subjects:      subjects,
		failExpireIDs: make(map[int64]bool),
	}
}

// put 直接写入一行，测试用
func (m *mockAttendanceRepo) put(a model.Attendance) *model.Attendance {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	a.ID = m.nextID
	m.rows[a.ID] = &a
	return &a
}

func (m *mockAttendanceRepo) find(studentID, subjectID int64, date time.Time) *model.Attendance {
	for _, a := range m.rows {
		if a.StudentID == studentID && a.SubjectID == subjectID && a.Date.Equal(date) {
			return a
		}
	}
	return nil
}

func (m *mockAttendanceRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *mockAttendanceRepo) GetByStudentSubjectDate(_ context.Context, studentID, subjectID int64, date time.Time) (*model.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a := m.find(studentID, subjectID, date); a != nil {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) Upsert(_ context.Context, a *model.Attendance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertCalls++
	if m.upsertCalls <= m.upsertConflicts {
		return gorm.ErrDuplicatedKey
	}
	if existing := m.find(a.StudentID, a.SubjectID, a.Date); existing != nil {
		existing.Status = a.Status
		existing.MarkedAt = a.MarkedAt
		existing.UpdatedAt = a.UpdatedAt
		*a = *existing
		return nil
	}
	m.nextID++
	a.ID = m.nextID
	cp := *a
	m.rows[a.ID] = &cp
	return nil
}

func (m *mockAttendanceRepo) UpdateMark(_ context.Context, a *model.Attendance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.rows[a.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	existing.Status = a.Status
	existing.MarkedAt = a.MarkedAt
	existing.UpdatedAt = a.UpdatedAt
	return nil
}

func (m *mockAttendanceRepo) filter(keep func(*model.Attendance) bool) []model.Attendance {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Attendance
	for _, a := range m.rows {
		if keep(a) {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (m *mockAttendanceRepo) ListByStudent(_ context.Context, studentID int64) ([]model.Attendance, error) {
	return m.filter(func(a *model.Attendance) bool { return a.StudentID == studentID }), nil
}

func (m *mockAttendanceRepo) ListByStudentAndDateRange(_ context.Context, studentID int64, start, end time.Time) ([]model.Attendance, error) {
	return m.filter(func(a *model.Attendance) bool {
		return a.StudentID == studentID && !a.Date.Before(start) && !a.Date.After(end)
	}), nil
}

func (m *mockAttendanceRepo) ListByDate(_ context.Context, date time.Time) ([]model.Attendance, error) {
	return m.filter(func(a *model.Attendance) bool { return a.Date.Equal(date) }), nil
}

func (m *mockAttendanceRepo) ListByDateRange(_ context.Context, start, end time.Time) ([]model.Attendance, error) {
	return m.filter(func(a *model.Attendance) bool {
		return !a.Date.Before(start) && !a.Date.After(end)
	}), nil
}

func (m *mockAttendanceRepo) ListPresent(_ context.Context) ([]model.Attendance, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.filter(func(a *model.Attendance) bool {
		return a.Status == model.StatusPresent && a.MarkedAt != nil
	}), nil
}

func (m *mockAttendanceRepo) ExpirePresent(_ context.Context, id int64, cutoff, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failExpireIDs[id] {
		return false, errMockStorage
	}
	a, ok := m.rows[id]
	if !ok || a.Status != model.StatusPresent || a.MarkedAt == nil || a.MarkedAt.After(cutoff) {
		return false, nil
	}
	a.Status = model.StatusAbsent
	a.MarkedAt = nil
	a.UpdatedAt = now
	return true, nil
}

func (m *mockAttendanceRepo) ResetForDate(_ context.Context, date, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, a := range m.rows {
		if a.Date.Equal(date) {
			a.Status = model.StatusAbsent
			a.MarkedAt = nil
			a.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (m *mockAttendanceRepo) CountPresentStudentsByDate(_ context.Context, date time.Time) (int64, error) {
	seen := make(map[int64]bool)
	for _, a := range m.filter(func(a *model.Attendance) bool {
		return a.Date.Equal(date) && a.Status == model.StatusPresent
	}) {
		seen[a.StudentID] = true
	}
	return int64(len(seen)), nil
}

func (m *mockAttendanceRepo) CountPresentBySubjectAndDate(ctx context.Context, date time.Time) ([]repository.SubjectCount, error) {
	bySubject := make(map[int64]int64)
	for _, a := range m.filter(func(a *model.Attendance) bool {
		return a.Date.Equal(date) && a.Status == model.StatusPresent
	}) {
		bySubject[a.SubjectID]++
	}
	var result []repository.SubjectCount
	for id, n := range bySubject {
		sub, err := m.subjects.GetByID(ctx, id)
		if err != nil {
			continue
		}
		result = append(result, repository.SubjectCount{SubjectName: sub.Name, Present: n})
	}
	return result, nil
}

// ── 组装 ──

type mockRepos struct {
	user       *mockUserRepo
	student    *mockStudentRepo
	subject    *mockSubjectRepo
	attendance *mockAttendanceRepo
}

// newMockRepository 未绑定数据库的 Repository，事务直接在自身执行
func newMockRepository() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		user:    newMockUserRepo(),
		student: newMockStudentRepo(),
		subject: newMockSubjectRepo(),
	}
	m.attendance = newMockAttendanceRepo(m.subject)
	repo := &repository.Repository{
		User:       m.user,
		Student:    m.student,
		Subject:    m.subject,
		Attendance: m.attendance,
	}
	return repo, m
}
