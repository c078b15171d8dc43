package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campuscard/backend/config"
	"campuscard/backend/internal/api/handler"
	"campuscard/backend/internal/api/middleware"
	"campuscard/backend/internal/model"
	"campuscard/backend/pkg/jwt"
	"campuscard/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Storage.MaxPhotoSize + 1<<20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录接口限流防爆破）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 学生模块
			students := authorized.Group("/students")
			{
				students.GET("", middleware.RoleAuth(model.RoleAdmin), h.Student.ListStudents)
				students.POST("", middleware.RoleAuth(model.RoleAdmin), h.Student.CreateStudent)
				students.POST("/import", middleware.RoleAuth(model.RoleAdmin), h.Student.ImportStudents)
				students.GET("/:id", h.Student.GetStudent)    // admin 或本人（Handler 层鉴权）
				students.PUT("/:id", h.Student.UpdateStudent) // admin 或本人（Service 层鉴权）
				students.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.Student.DeleteStudent)
				students.POST("/:id/reset-password", middleware.RoleAuth(model.RoleAdmin), h.Student.ResetPassword)
				students.POST("/:id/temp-password", middleware.RoleAuth(model.RoleAdmin), h.Student.RevealTempPassword)
				students.POST("/:id/photo", h.Student.UploadPhoto) // admin 或本人
			}

			// 院系模块
			departments := authorized.Group("/departments")
			{
				departments.GET("", h.Department.ListDepartments)
				departments.GET("/:id", h.Department.GetDepartment)
				departments.POST("", middleware.RoleAuth(model.RoleAdmin), h.Department.CreateDepartment)
				departments.PUT("/:id", middleware.RoleAuth(model.RoleAdmin), h.Department.UpdateDepartment)
				departments.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.Department.DeleteDepartment)
			}

			// 专业模块
			programs := authorized.Group("/programs")
			{
				programs.GET("", h.Program.ListPrograms)
				programs.GET("/:id", h.Program.GetProgram)
				programs.POST("", middleware.RoleAuth(model.RoleAdmin), h.Program.CreateProgram)
				programs.PUT("/:id", middleware.RoleAuth(model.RoleAdmin), h.Program.UpdateProgram)
				programs.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.Program.DeleteProgram)
			}

			// 缴费模块
			payments := authorized.Group("/payments")
			{
				payments.POST("", h.Payment.SubmitPayment)
				payments.GET("/me", h.Payment.ListMyPayments)
				payments.GET("", middleware.RoleAuth(model.RoleAdmin), h.Payment.ListPayments)
				payments.GET("/:id", h.Payment.GetPayment) // admin 或本人（Service 层鉴权）
				payments.POST("/:id/review", middleware.RoleAuth(model.RoleAdmin), h.Payment.ReviewPayment)
			}

			// 学生卡模块
			cards := authorized.Group("/cards")
			{
				cards.GET("/me", h.Card.ListMyCards)
				cards.GET("", middleware.RoleAuth(model.RoleAdmin), h.Card.ListCards)
				cards.GET("/:id", h.Card.GetCard) // admin 或本人（Service 层鉴权）
				cards.PUT("/:id/status", middleware.RoleAuth(model.RoleAdmin), h.Card.UpdateCardStatus)
			}

			// 工单模块
			tickets := authorized.Group("/tickets")
			{
				tickets.GET("", h.Ticket.ListTickets)
				tickets.POST("", h.Ticket.CreateTicket)
				tickets.GET("/:id", h.Ticket.GetTicket)
				tickets.POST("/:id/messages", h.Ticket.AddMessage)
				tickets.POST("/:id/close", h.Ticket.CloseTicket)
			}

			// 导出模块
			export := authorized.Group("/export", middleware.RoleAuth(model.RoleAdmin))
			{
				export.GET("/students", h.Export.ExportStudents)
				export.GET("/payments", h.Export.ExportPayments)
			}

			// 证件照静态访问（需认证）
			authorized.Static("/photos", cfg.Storage.PhotoDir)
		}
	}

	return r
}
