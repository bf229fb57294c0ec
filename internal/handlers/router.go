package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/siwes-platform/logbook-service/internal/services"
	"github.com/siwes-platform/logbook-service/internal/utils"
)

type HandlerManager struct {
	authHandler    *AuthHandler
	logbookHandler *LogbookHandler
	reportHandler  *ReportHandler
	accountHandler *AccountHandler

	accountService services.AccountService
	jwtSecret      string
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	jwtSecret string,
	mediaDir string,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:    NewAuthHandler(serviceManager.Account(), logger),
		logbookHandler: NewLogbookHandler(serviceManager.Logbook(), logger),
		reportHandler:  NewReportHandler(serviceManager.Report(), mediaDir, logger),
		accountHandler: NewAccountHandler(serviceManager.Account(), logger),
		accountService: serviceManager.Account(),
		jwtSecret:      jwtSecret,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "logbook-service",
		})
	})

	api := router.Group("/api")

	// Open endpoints
	api.POST("/register", hm.authHandler.Register)
	api.POST("/token", hm.authHandler.Token)
	api.POST("/token/refresh", hm.authHandler.RefreshToken)

	// Everything below requires a resolved identity
	authed := api.Group("")
	authed.Use(AuthMiddleware(hm.jwtSecret, hm.accountService))
	{
		authed.GET("/profile", hm.authHandler.Profile)
		authed.GET("/supervisors", hm.accountHandler.ListSupervisors)
		authed.GET("/dashboard/stats", hm.accountHandler.DashboardStats)

		logs := authed.Group("/logs")
		{
			logs.POST("", hm.logbookHandler.CreateLog)
			logs.GET("", hm.logbookHandler.ListLogs)
			logs.GET("/:id", hm.logbookHandler.GetLog)
			logs.PUT("/:id", hm.logbookHandler.UpdateLog)
			logs.PATCH("/:id", hm.logbookHandler.UpdateLog)
			logs.POST("/:id/review", hm.logbookHandler.ReviewLog)
		}

		reports := authed.Group("/reports")
		{
			reports.GET("", hm.reportHandler.ListReports)
			reports.POST("", hm.reportHandler.UploadReport)
			reports.GET("/generate/:student_id", hm.reportHandler.GenerateReport)
		}

		admin := authed.Group("/admin")
		{
			admin.GET("/students", hm.accountHandler.ListStudents)
			admin.PATCH("/students/:id/supervisor", hm.accountHandler.AssignSupervisor)
		}
	}
}
