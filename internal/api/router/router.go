package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"daily-attendance/backend/config"
	"daily-attendance/backend/internal/api/handler"
	"daily-attendance/backend/internal/api/middleware"
	"daily-attendance/backend/internal/model"
	"daily-attendance/backend/pkg/jwt"
	"daily-attendance/backend/pkg/redis"
)

// Deps 路由依赖；Redis 与 Registry 可为 nil
type Deps struct {
	Config   *config.Config
	Handler  *handler.Handler
	JWT      *jwt.Manager
	Redis    *redis.Client
	Registry *prometheus.Registry
	Logger   *zap.Logger
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(d Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	cfg := d.Config
	h := d.Handler
	teacher := string(model.RoleTeacher)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		redisStatus := "disabled"
		if d.Redis != nil {
			redisStatus = "ok"
			if err := d.Redis.Ping(c.Request.Context()); err != nil {
				redisStatus = "unavailable"
			}
		}
		c.JSON(200, gin.H{"status": "ok", "redis": redisStatus})
	})

	if d.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{Registry: d.Registry})))
	}

	api := r.Group("/api")
	{
		// 认证模块（无需认证）
		auth := api.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/register", h.Auth.Register)
			auth.GET("/profile", h.Auth.Profile)
		}

		// 需要认证的路由
		authorized := api.Group("")
		authorized.Use(middleware.JWTAuth(d.JWT))
		{
			students := authorized.Group("/students")
			{
				students.GET("", h.Student.ListStudents)
				students.GET("/:id/attendance", h.Student.GetStudentAttendance)
			}

			attendance := authorized.Group("/attendance")
			{
				attendance.POST("/mark",
					middleware.RoleAuth(teacher),
					middleware.RateLimit(d.Redis, cfg.Server.MarkRateLimit, time.Minute, d.Logger),
					h.Attendance.Mark,
				)
				attendance.GET("/today", h.Attendance.Today)
				attendance.POST("/reset", middleware.RoleAuth(teacher), h.Attendance.Reset)
				attendance.GET("/export", middleware.RoleAuth(teacher), h.Export.ExportAttendance)
			}

			dashboard := authorized.Group("/dashboard")
			{
				dashboard.GET("/summary", h.Dashboard.Summary)
				dashboard.GET("/subjectCounts", h.Dashboard.SubjectCounts)
			}

			subjects := authorized.Group("/subjects")
			{
				subjects.GET("", h.Subject.ListSubjects)
				subjects.GET("/:id", h.Subject.GetSubject)
				subjects.POST("", middleware.RoleAuth(teacher), h.Subject.CreateSubject)
			}

			users := authorized.Group("/users")
			{
				users.GET("", middleware.RoleAuth(teacher), h.User.ListUsers)
				users.GET("/students", h.User.ListStudents)
				users.GET("/teachers", h.User.ListTeachers)
				users.GET("/:id", h.User.GetUser)
				users.POST("", middleware.RoleAuth(teacher), h.User.CreateUser)
				users.PUT("/:id", h.User.UpdateUser) // 教师或本人
			}
		}
	}

	return r
}
