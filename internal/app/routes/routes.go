package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hostelhub/internal/app/controllers"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/app/models/dto"
	"github.com/yigit/hostelhub/internal/middleware"
	"github.com/yigit/hostelhub/internal/pkg/metrics"
	"github.com/yigit/hostelhub/internal/pkg/ratelimit"
	"github.com/yigit/hostelhub/internal/pkg/websocket"
)

// Handlers groups everything the router dispatches to
type Handlers struct {
	Auth        *controllers.AuthController
	Students    *controllers.StudentController
	Rooms       *controllers.RoomController
	Leave       *controllers.LeaveController
	Maintenance *controllers.MaintenanceController
	Notices     *controllers.NoticeController
	Attendance  *controllers.AttendanceController
	Admin       *controllers.AdminController
	NoticeFeed  *websocket.Handler
}

// RateLimitOptions configures the /api limiter. A nil Limiter disables it.
type RateLimitOptions struct {
	Limiter  ratelimit.Limiter
	Requests int
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	h Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimit RateLimitOptions,
	m *metrics.Metrics,
) {
	api := router.Group("/api")
	if rateLimit.Limiter != nil {
		api.Use(middleware.RateLimit(rateLimit.Limiter, rateLimit.Requests, m))
	}

	// --- Public routes ---
	api.POST("/students/register", h.Auth.RegisterStudent)
	api.POST("/students/login", h.Auth.LoginStudent)
	api.POST("/admin/login", h.Auth.LoginAdmin)

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	adminOnly := authMiddleware.RoleRequired(models.RoleAdmin)
	studentOnly := authMiddleware.RoleRequired(models.RoleStudent)

	students := authenticated.Group("/students")
	{
		// Admin or the student themself
		students.GET("/:id", h.Students.GetStudent)
		students.PUT("/:id", h.Students.UpdateStudent)

		students.GET("", adminOnly, h.Students.ListStudents)
		students.POST("", adminOnly, h.Students.CreateStudent)
		students.PUT("/:id/status", adminOnly, h.Students.UpdateStatus)
		students.DELETE("/:id", adminOnly, h.Students.DeleteStudent)
	}

	rooms := authenticated.Group("/rooms")
	{
		rooms.GET("", h.Rooms.ListRooms)
		rooms.GET("/available", h.Rooms.ListAvailableRooms)
		rooms.GET("/:roomNumber", h.Rooms.GetRoom)
		rooms.GET("/:roomNumber/students", h.Rooms.ListRoomStudents)

		roomsAdmin := rooms.Group("")
		roomsAdmin.Use(adminOnly)
		{
			roomsAdmin.POST("", h.Rooms.CreateRoom)
			roomsAdmin.PUT("/:roomNumber", h.Rooms.UpdateRoom)
			roomsAdmin.DELETE("/:roomNumber", h.Rooms.DeleteRoom)
			roomsAdmin.POST("/:roomNumber/assign", h.Rooms.AssignStudent)
			roomsAdmin.POST("/:roomNumber/remove", h.Rooms.RemoveStudent)
		}
	}

	leave := authenticated.Group("/leave-requests")
	{
		leave.GET("", adminOnly, h.Leave.ListLeaveRequests)
		leave.POST("", studentOnly, h.Leave.CreateLeaveRequest)
		leave.PUT("/:id", adminOnly, h.Leave.UpdateLeaveStatus)
		// Owner while pending, or any admin
		leave.DELETE("/:id", h.Leave.DeleteLeaveRequest)
		leave.GET("/student/:id", h.Leave.ListStudentLeaveRequests)
	}

	maintenance := authenticated.Group("/maintenance-requests")
	{
		maintenance.GET("", adminOnly, h.Maintenance.ListMaintenanceRequests)
		maintenance.POST("", studentOnly, h.Maintenance.CreateMaintenanceRequest)
		maintenance.PUT("/:id", adminOnly, h.Maintenance.UpdateMaintenanceStatus)
		maintenance.DELETE("/:id", h.Maintenance.DeleteMaintenanceRequest)
		maintenance.GET("/student/:id", h.Maintenance.ListStudentMaintenanceRequests)
	}

	notices := authenticated.Group("/notices")
	{
		notices.GET("", h.Notices.ListNotices)
		notices.GET("/ws", h.NoticeFeed.HandleConnection)
		notices.GET("/:id", h.Notices.GetNotice)

		noticesAdmin := notices.Group("")
		noticesAdmin.Use(adminOnly)
		{
			noticesAdmin.POST("", h.Notices.CreateNotice)
			noticesAdmin.PUT("/:id", h.Notices.UpdateNotice)
			noticesAdmin.DELETE("/:id", h.Notices.DeleteNotice)
		}
	}

	attendance := authenticated.Group("/attendance")
	{
		attendance.GET("/student/:id", h.Attendance.ListStudentAttendance)

		attendance.GET("/date/:date", adminOnly, h.Attendance.ListAttendanceByDate)
		attendance.POST("/upload", adminOnly, h.Attendance.UploadAttendance)
		attendance.GET("/stats", adminOnly, h.Attendance.AttendanceStats)
	}

	admin := authenticated.Group("/admin")
	admin.Use(adminOnly)
	{
		admin.POST("/register", h.Admin.RegisterAdmin)
		admin.POST("/change-password", h.Admin.ChangePassword)
		admin.GET("/dashboard", h.Admin.Dashboard)
	}

	// Health check endpoint (public)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		}, ""))
	})
}

// SetupMetrics exposes the Prometheus registry at path
func SetupMetrics(router *gin.Engine, path string, m *metrics.Metrics) {
	router.GET(path, gin.WrapH(m.Handler()))
}
