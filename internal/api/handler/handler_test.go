package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"daily-attendance/backend/internal/dto"
	"daily-attendance/backend/internal/model"
	"daily-attendance/backend/internal/service"
	"daily-attendance/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult    *dto.LoginResponse
	loginErr       error
	registerResult *dto.UserResponse
	registerErr    error
	profileResult  *dto.UserResponse
	profileErr     error

	lastLogin *dto.LoginRequest
}

func (m *mockAuthService) Login(_ context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	m.lastLogin = req
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) LoginOrRegister(_ context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	m.lastLogin = req
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*dto.UserResponse, error) {
	return m.registerResult, m.registerErr
}
func (m *mockAuthService) GetProfile(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.profileResult, m.profileErr
}

// ── Mock AttendanceService ──

type mockAttendanceService struct {
	markResult  *dto.AttendanceResponse
	markErr     error
	listResult  []dto.AttendanceResponse
	listErr     error
	resetResult *dto.ResetResponse
	resetErr    error

	markCalls     int
	lastTeacherID int64
	lastStatus    model.AttendanceStatus
	lastStart     time.Time
	lastEnd       time.Time
	rangeCalled   bool
}

func (m *mockAttendanceService) Mark(_ context.Context, _, _ int64, status model.AttendanceStatus, teacherID int64) (*dto.AttendanceResponse, error) {
	m.markCalls++
	m.lastStatus = status
	m.lastTeacherID = teacherID
	return m.markResult, m.markErr
}
func (m *mockAttendanceService) GetStudentAttendance(_ context.Context, _ int64) ([]dto.AttendanceResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockAttendanceService) GetStudentAttendanceByDateRange(_ context.Context, _ int64, start, end time.Time) ([]dto.AttendanceResponse, error) {
	m.rangeCalled = true
	m.lastStart, m.lastEnd = start, end
	return m.listResult, m.listErr
}
func (m *mockAttendanceService) GetTodayAttendance(_ context.Context) ([]dto.AttendanceResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockAttendanceService) ResetDailyAttendance(_ context.Context) (*dto.ResetResponse, error) {
	return m.resetResult, m.resetErr
}

// ── Mock DashboardService ──

type mockDashboardService struct {
	summary *dto.DashboardSummary
	counts  map[string]int64
	err     error
}

func (m *mockDashboardService) GetTodaySubjectWiseCounts(_ context.Context) (map[string]int64, error) {
	return m.counts, m.err
}
func (m *mockDashboardService) GetDashboardSummary(_ context.Context) (*dto.DashboardSummary, error) {
	return m.summary, m.err
}

// ── Mock SubjectService ──

type mockSubjectService struct {
	createResult *dto.SubjectResponse
	createErr    error
	getResult    *dto.SubjectResponse
	getErr       error
}

func (m *mockSubjectService) Create(_ context.Context, _ *dto.CreateSubjectRequest) (*dto.SubjectResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockSubjectService) GetByID(_ context.Context, _ int64) (*dto.SubjectResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockSubjectService) List(_ context.Context) ([]dto.SubjectResponse, error) {
	return nil, nil
}

// ── Mock UserService ──

type mockUserService struct {
	updateResult *dto.UserResponse
	updateErr    error
	updateCalls  int
}

func (m *mockUserService) CreateUser(_ context.Context, _ *dto.CreateUserRequest) (*dto.UserResponse, error) {
	return nil, nil
}
func (m *mockUserService) GetByID(_ context.Context, _ int64) (*dto.UserResponse, error) {
	return nil, service.ErrUserNotFound
}
func (m *mockUserService) List(_ context.Context) ([]dto.UserResponse, error) { return nil, nil }
func (m *mockUserService) ListStudents(_ context.Context) ([]dto.UserResponse, error) {
	return nil, nil
}
func (m *mockUserService) ListTeachers(_ context.Context) ([]dto.UserResponse, error) {
	return nil, nil
}
func (m *mockUserService) Update(_ context.Context, _ int64, _ *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	m.updateCalls++
	return m.updateResult, m.updateErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportAttendance(_ context.Context, _, _ time.Time) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

// withAuth 模拟 JWTAuth 注入的用户信息
func withAuth(userID int64, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("username", "teacher")
		c.Set("role", role)
		c.Next()
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func doRequest(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.LoginResponse{AccessToken: "test-access-token", ExpiresIn: 3600},
	}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := doRequest(r, http.MethodPost, "/auth/login", jsonBody(dto.LoginRequest{Username: "alice", Password: "student123"}))

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 0 {
		t.Errorf("期望 code 0，实际 %d", resp.Code)
	}
	if mock.lastLogin == nil || mock.lastLogin.Username != "alice" {
		t.Errorf("期望透传用户名 alice，实际 %+v", mock.lastLogin)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := doRequest(r, http.MethodPost, "/auth/login", strings.NewReader("invalid json"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际 %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := doRequest(r, http.MethodPost, "/auth/login", jsonBody(dto.LoginRequest{Username: "alice", Password: "wrong"}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != codeInvalidCredentials {
		t.Errorf("期望错误码 %d，实际 %d", codeInvalidCredentials, resp.Code)
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{registerErr: service.ErrUsernameTaken})

	r := gin.New()
	r.POST("/auth/register", h.Register)
	w := doRequest(r, http.MethodPost, "/auth/register", jsonBody(dto.RegisterRequest{Username: "alice", Password: "x"}))

	if w.Code != http.StatusConflict {
		t.Errorf("期望 409，实际 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Message != service.ErrUsernameTaken.Message {
		t.Errorf("期望返回业务错误信息，实际 %q", resp.Message)
	}
}

func TestAuthHandler_Profile_MissingUsername(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.GET("/auth/profile", h.Profile)
	w := doRequest(r, http.MethodGet, "/auth/profile", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际 %d", w.Code)
	}
}

func TestAuthHandler_Profile_NotFound(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{profileErr: service.ErrUserNotFound})

	r := gin.New()
	r.GET("/auth/profile", h.Profile)
	w := doRequest(r, http.MethodGet, "/auth/profile?username=ghost", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404，实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AttendanceHandler Tests
// ═══════════════════════════════════════════════════════════

func setupAttendanceRouter(mock *mockAttendanceService) *gin.Engine {
	h := NewAttendanceHandler(mock)
	r := gin.New()
	r.Use(withAuth(7, "TEACHER"))
	r.POST("/attendance/mark", h.Mark)
	r.GET("/attendance/today", h.Today)
	r.POST("/attendance/reset", h.Reset)
	return r
}

func TestAttendanceHandler_Mark_DefaultsTeacherToCaller(t *testing.T) {
	mock := &mockAttendanceService{markResult: &dto.AttendanceResponse{ID: 1, Status: "PRESENT"}}
	r := setupAttendanceRouter(mock)

	w := doRequest(r, http.MethodPost, "/attendance/mark", jsonBody(map[string]interface{}{
		"studentId": 1, "subjectId": 2, "status": "present",
	}))

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d: %s", w.Code, w.Body.String())
	}
	if mock.lastTeacherID != 7 {
		t.Errorf("期望 teacherId 取当前用户 7，实际 %d", mock.lastTeacherID)
	}
	if mock.lastStatus != model.StatusPresent {
		t.Errorf("期望状态大小写不敏感解析为 PRESENT，实际 %s", mock.lastStatus)
	}
}

func TestAttendanceHandler_Mark_ExplicitTeacher(t *testing.T) {
	mock := &mockAttendanceService{markResult: &dto.AttendanceResponse{ID: 1}}
	r := setupAttendanceRouter(mock)

	doRequest(r, http.MethodPost, "/attendance/mark", jsonBody(map[string]interface{}{
		"studentId": 1, "subjectId": 2, "status": "ABSENT", "teacherId": 9,
	}))

	if mock.lastTeacherID != 9 {
		t.Errorf("期望使用请求中的 teacherId 9，实际 %d", mock.lastTeacherID)
	}
}

func TestAttendanceHandler_Mark_InvalidStatus(t *testing.T) {
	mock := &mockAttendanceService{}
	r := setupAttendanceRouter(mock)

	w := doRequest(r, http.MethodPost, "/attendance/mark", jsonBody(map[string]interface{}{
		"studentId": 1, "subjectId": 2, "status": "LATE",
	}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际 %d", w.Code)
	}
	if mock.markCalls != 0 {
		t.Error("状态无效时不应调用 Mark")
	}
}

func TestAttendanceHandler_Mark_MissingFields(t *testing.T) {
	mock := &mockAttendanceService{}
	r := setupAttendanceRouter(mock)

	w := doRequest(r, http.MethodPost, "/attendance/mark", jsonBody(map[string]interface{}{"status": "PRESENT"}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != codeInvalidParams {
		t.Errorf("期望错误码 %d，实际 %d", codeInvalidParams, resp.Code)
	}
}

func TestAttendanceHandler_Mark_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"学生不存在", service.ErrStudentNotFound, http.StatusNotFound},
		{"科目不存在", service.ErrSubjectNotFound, http.StatusNotFound},
		{"教师不存在", service.ErrTeacherNotFound, http.StatusNotFound},
		{"并发冲突", service.ErrAttendanceConflict, http.StatusConflict},
		{"存储错误", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupAttendanceRouter(&mockAttendanceService{markErr: tc.err})
			w := doRequest(r, http.MethodPost, "/attendance/mark", jsonBody(map[string]interface{}{
				"studentId": 1, "subjectId": 2, "status": "PRESENT",
			}))
			if w.Code != tc.want {
				t.Errorf("期望 %d，实际 %d", tc.want, w.Code)
			}
		})
	}
}

func TestAttendanceHandler_Today(t *testing.T) {
	mock := &mockAttendanceService{listResult: []dto.AttendanceResponse{{ID: 1}, {ID: 2}}}
	r := setupAttendanceRouter(mock)

	w := doRequest(r, http.MethodGet, "/attendance/today", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	resp := parseResponse(w)
	if list, ok := resp.Data.([]interface{}); !ok || len(list) != 2 {
		t.Errorf("期望返回 2 条记录，实际 %v", resp.Data)
	}
}

func TestAttendanceHandler_Reset(t *testing.T) {
	mock := &mockAttendanceService{resetResult: &dto.ResetResponse{Date: "2024-03-11", Rows: 5}}
	r := setupAttendanceRouter(mock)

	w := doRequest(r, http.MethodPost, "/attendance/reset", nil)
	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// StudentHandler Tests
// ═══════════════════════════════════════════════════════════

func setupStudentRouter(att *mockAttendanceService) *gin.Engine {
	h := NewStudentHandler(nil, att)
	r := gin.New()
	r.GET("/students/:id/attendance", h.GetStudentAttendance)
	return r
}

func TestStudentHandler_GetStudentAttendance_All(t *testing.T) {
	mock := &mockAttendanceService{listResult: []dto.AttendanceResponse{}}
	r := setupStudentRouter(mock)

	w := doRequest(r, http.MethodGet, "/students/1/attendance", nil)
	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际 %d", w.Code)
	}
	if mock.rangeCalled {
		t.Error("未指定区间时不应按区间查询")
	}
}

func TestStudentHandler_GetStudentAttendance_Range(t *testing.T) {
	mock := &mockAttendanceService{listResult: []dto.AttendanceResponse{}}
	r := setupStudentRouter(mock)

	w := doRequest(r, http.MethodGet, "/students/1/attendance?start=2024-03-01&end=2024-03-11", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if !mock.rangeCalled {
		t.Fatal("期望按区间查询")
	}
	if mock.lastStart.Format(model.DateLayout) != "2024-03-01" || mock.lastEnd.Format(model.DateLayout) != "2024-03-11" {
		t.Errorf("区间解析错误: %v ~ %v", mock.lastStart, mock.lastEnd)
	}
}

func TestStudentHandler_GetStudentAttendance_BadInput(t *testing.T) {
	cases := []struct {
		name string
		path string
	}{
		{"ID 非数字", "/students/abc/attendance"},
		{"只有 start", "/students/1/attendance?start=2024-03-01"},
		{"日期格式错误", "/students/1/attendance?start=03/01/2024&end=2024-03-11"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupStudentRouter(&mockAttendanceService{})
			if w := doRequest(r, http.MethodGet, tc.path, nil); w.Code != http.StatusBadRequest {
				t.Errorf("期望 400，实际 %d", w.Code)
			}
		})
	}
}

func TestStudentHandler_GetStudentAttendance_InvertedRange(t *testing.T) {
	r := setupStudentRouter(&mockAttendanceService{listErr: service.ErrInvalidDateRange})

	w := doRequest(r, http.MethodGet, "/students/1/attendance?start=2024-03-11&end=2024-03-01", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != codeInvalidInput {
		t.Errorf("期望错误码 %d，实际 %d", codeInvalidInput, resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// DashboardHandler Tests
// ═══════════════════════════════════════════════════════════

func TestDashboardHandler_Summary(t *testing.T) {
	h := NewDashboardHandler(&mockDashboardService{summary: &dto.DashboardSummary{
		TotalStudents: 5, TotalSubjects: 2, PresentTotal: 2, AbsentTotal: 3,
		PerSubject: map[string]int64{"Mathematics": 2, "Science": 0},
	}})

	r := gin.New()
	r.GET("/dashboard/summary", h.Summary)
	w := doRequest(r, http.MethodGet, "/dashboard/summary", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	data, ok := parseResponse(w).Data.(map[string]interface{})
	if !ok {
		t.Fatalf("响应数据格式错误: %s", w.Body.String())
	}
	if data["absentTotal"] != float64(3) {
		t.Errorf("期望 absentTotal=3，实际 %v", data["absentTotal"])
	}
}

func TestDashboardHandler_SubjectCounts_Error(t *testing.T) {
	h := NewDashboardHandler(&mockDashboardService{err: errors.New("db down")})

	r := gin.New()
	r.GET("/dashboard/subjectCounts", h.SubjectCounts)
	w := doRequest(r, http.MethodGet, "/dashboard/subjectCounts", nil)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("期望 500，实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// SubjectHandler Tests
// ═══════════════════════════════════════════════════════════

func TestSubjectHandler_CreateSubject(t *testing.T) {
	h := NewSubjectHandler(&mockSubjectService{createResult: &dto.SubjectResponse{ID: 1, Name: "Art"}})

	r := gin.New()
	r.POST("/subjects", h.CreateSubject)
	w := doRequest(r, http.MethodPost, "/subjects", jsonBody(dto.CreateSubjectRequest{Name: "Art"}))

	if w.Code != http.StatusCreated {
		t.Errorf("期望 201，实际 %d", w.Code)
	}
}

func TestSubjectHandler_CreateSubject_Duplicate(t *testing.T) {
	h := NewSubjectHandler(&mockSubjectService{createErr: service.ErrSubjectNameTaken})

	r := gin.New()
	r.POST("/subjects", h.CreateSubject)
	w := doRequest(r, http.MethodPost, "/subjects", jsonBody(dto.CreateSubjectRequest{Name: "Mathematics"}))

	if w.Code != http.StatusConflict {
		t.Errorf("期望 409，实际 %d", w.Code)
	}
}

func TestSubjectHandler_GetSubject_NotFound(t *testing.T) {
	h := NewSubjectHandler(&mockSubjectService{getErr: service.ErrSubjectNotFound})

	r := gin.New()
	r.GET("/subjects/:id", h.GetSubject)
	w := doRequest(r, http.MethodGet, "/subjects/99", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404，实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// UserHandler Tests
// ═══════════════════════════════════════════════════════════

func TestUserHandler_UpdateUser_OtherUserForbidden(t *testing.T) {
	mock := &mockUserService{}
	h := NewUserHandler(mock)

	r := gin.New()
	r.Use(withAuth(3, "STUDENT"))
	r.PUT("/users/:id", h.UpdateUser)
	w := doRequest(r, http.MethodPut, "/users/4", jsonBody(map[string]string{"name": "x"}))

	if w.Code != http.StatusForbidden {
		t.Errorf("期望 403，实际 %d", w.Code)
	}
	if mock.updateCalls != 0 {
		t.Error("无权限时不应调用 Update")
	}
}

func TestUserHandler_UpdateUser_Self(t *testing.T) {
	mock := &mockUserService{updateResult: &dto.UserResponse{ID: 3, Name: "x"}}
	h := NewUserHandler(mock)

	r := gin.New()
	r.Use(withAuth(3, "STUDENT"))
	r.PUT("/users/:id", h.UpdateUser)
	w := doRequest(r, http.MethodPut, "/users/3", jsonBody(map[string]string{"name": "x"}))

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际 %d", w.Code)
	}
}

func TestUserHandler_GetUser_NotFound(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	r := gin.New()
	r.GET("/users/:id", h.GetUser)
	w := doRequest(r, http.MethodGet, "/users/42", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404，实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ExportAttendance_Success(t *testing.T) {
	h := NewExportHandler(&mockExportService{
		buf:      bytes.NewBufferString("xlsx-content"),
		filename: "考勤报表_2024-03-01_2024-03-11.xlsx",
	})

	r := gin.New()
	r.GET("/attendance/export", h.ExportAttendance)
	w := doRequest(r, http.MethodGet, "/attendance/export?start=2024-03-01&end=2024-03-11", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("Content-Type 错误: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment; filename*=UTF-8''") {
		t.Errorf("Content-Disposition 错误: %s", cd)
	}
	if w.Body.String() != "xlsx-content" {
		t.Errorf("响应体错误: %s", w.Body.String())
	}
}

func TestExportHandler_ExportAttendance_MissingRange(t *testing.T) {
	h := NewExportHandler(&mockExportService{})

	r := gin.New()
	r.GET("/attendance/export", h.ExportAttendance)
	w := doRequest(r, http.MethodGet, "/attendance/export", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际 %d", w.Code)
	}
}

func TestExportHandler_ExportAttendance_RangeTooLong(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportRangeTooLong})

	r := gin.New()
	r.GET("/attendance/export", h.ExportAttendance)
	w := doRequest(r, http.MethodGet, "/attendance/export?start=2020-01-01&end=2024-01-01", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// Context Helper Tests
// ═══════════════════════════════════════════════════════════

func TestMustGetUserID_Missing(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	if _, ok := MustGetUserID(c); ok {
		t.Error("缺少 user_id 时应返回 false")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际 %d", w.Code)
	}
}
