package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Rex-a25/money-biz-server/internal/config"
	"github.com/Rex-a25/money-biz-server/internal/models"
	"github.com/Rex-a25/money-biz-server/internal/services"
	"github.com/Rex-a25/money-biz-server/internal/utils"
)

type HandlerManager struct {
	authHandler        *AuthHandler
	sessionHandler     *SessionHandler
	gradeHandler       *GradeHandler
	attendanceHandler  *AttendanceHandler
	transactionHandler *TransactionHandler
	customerHandler    *CustomerHandler
	userHandler        *UserHandler
	settingsHandler    *SettingsHandler
	dashboardHandler   *DashboardHandler
	remarkHandler      *RemarkHandler
	authMiddleware     *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, serviceManager.Session())

	return &HandlerManager{
		authHandler:        NewAuthHandler(serviceManager.Auth(), logger),
		sessionHandler:     NewSessionHandler(serviceManager.Session(), logger),
		gradeHandler:       NewGradeHandler(serviceManager.Grade(), logger),
		attendanceHandler:  NewAttendanceHandler(serviceManager.Attendance(), logger),
		transactionHandler: NewTransactionHandler(serviceManager.Transaction(), logger),
		customerHandler:    NewCustomerHandler(serviceManager.Customer(), logger),
		userHandler:        NewUserHandler(serviceManager.User(), logger),
		settingsHandler:    NewSettingsHandler(serviceManager.Settings(), logger),
		dashboardHandler:   NewDashboardHandler(serviceManager.Dashboard(), logger),
		remarkHandler:      NewRemarkHandler(serviceManager.Remark(), logger),
		authMiddleware:     authMiddleware,
	}
}

// SetupRoutes sets up all API routes. Each protected group carries the
// page gate matching the portal surface it backs; financial groups are
// additionally real-role gated inside the services.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	// Public auth endpoints: signing in and the two signup paths
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", hm.authHandler.Login)
		auth.POST("/signup/owner", hm.authHandler.SignupOwner)
		auth.POST("/signup/activate", hm.authHandler.ActivateInvite)
	}

	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		v1.POST("/auth/logout", hm.authHandler.Logout)

		// Session overlay management
		session := v1.Group("/session")
		{
			session.GET("", hm.sessionHandler.GetSession)
			session.PUT("/view-role", hm.sessionHandler.SetViewRole)
			session.POST("/simulate", hm.sessionHandler.Simulate)
			session.POST("/simulate/exit", hm.sessionHandler.ExitSimulation)
		}

		// Dashboard - every view role renders it, the service decides
		// how much of it the caller actually gets
		v1.GET("/dashboard/stats",
			hm.authMiddleware.RequirePageMiddleware(models.PageDashboard),
			hm.dashboardHandler.Stats)

		// Transactions - admin page, admin data
		// Transactions carry both gates: the page gate follows the view
		// role, the real-role gate keeps financial writes off simulated
		// or previewed accounts even if a menu slips through.
		transactions := v1.Group("/transactions",
			hm.authMiddleware.RequirePageMiddleware(models.PageTransactions),
			hm.authMiddleware.RequireRealRoleMiddleware(models.RoleAdmin))
		{
			transactions.POST("", hm.transactionHandler.Create)
			transactions.GET("", hm.transactionHandler.List)
			transactions.PUT("/:id/status", hm.transactionHandler.UpdateStatus)
		}

		// Customers - shared admin/teacher roster page
		customers := v1.Group("/customers", hm.authMiddleware.RequirePageMiddleware(models.PageCustomers))
		{
			customers.POST("", hm.customerHandler.Create)
			customers.GET("", hm.customerHandler.List)
			customers.DELETE("/:id", hm.customerHandler.Delete)
		}

		// User administration - the staff page, plus the teacher-facing
		// student roster
		users := v1.Group("/users")
		{
			users.GET("", hm.authMiddleware.RequirePageMiddleware(models.PageMyStudents), hm.userHandler.ListUsers)
			users.GET("/:id", hm.authMiddleware.RequirePageMiddleware(models.PageStaff), hm.userHandler.GetUser)
			users.POST("/invite", hm.authMiddleware.RequirePageMiddleware(models.PageStaff), hm.userHandler.InviteUser)
			users.DELETE("/:id", hm.authMiddleware.RequirePageMiddleware(models.PageStaff), hm.userHandler.DeleteUser)
		}

		// Gradebooks
		grades := v1.Group("/grades", hm.authMiddleware.RequirePageMiddleware(models.PageGrading))
		{
			grades.POST("/structured", hm.gradeHandler.SaveStructuredGrade)
			grades.GET("/structured", hm.gradeHandler.ListStructuredGrades)
			grades.GET("/structured/:studentId/:subject", hm.gradeHandler.GetStructuredGrade)
			grades.POST("/freeform", hm.gradeHandler.AppendFreeformGrade)
			grades.GET("/export", hm.gradeHandler.ExportGradebook)
		}

		// Student results and remarks - reachable from the dashboard,
		// row-level access enforced per student in the services
		students := v1.Group("/students")
		{
			students.GET("/:id/results", hm.gradeHandler.StudentResults)
			students.GET("/:id/remarks", hm.remarkHandler.ListForStudent)
		}
		remarks := v1.Group("/remarks")
		{
			remarks.POST("", hm.authMiddleware.RequirePageMiddleware(models.PageGrading), hm.remarkHandler.Add)
			remarks.PUT("/:id/read", hm.remarkHandler.MarkRead)
		}

		// Attendance registers
		attendance := v1.Group("/attendance", hm.authMiddleware.RequirePageMiddleware(models.PageAttendance))
		{
			attendance.PUT("", hm.attendanceHandler.SaveSheet)
			attendance.GET("/:class", hm.attendanceHandler.ListByClass)
			attendance.GET("/:class/:date", hm.attendanceHandler.GetSheet)
		}

		// School config: reads feed every page's class/subject pickers,
		// writes are the admin config page
		v1.GET("/settings", hm.settingsHandler.Get)
		v1.PUT("/settings",
			hm.authMiddleware.RequirePageMiddleware(models.PageConfig),
			hm.settingsHandler.Save)
	}
}

// HealthCheck endpoint
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "money-biz-server",
	})
}
