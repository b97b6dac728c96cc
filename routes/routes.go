package routes

import (
	"pkm-management-api/controllers"
	"pkm-management-api/middleware"
	"pkm-management-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "PKM Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Common reference data (all authenticated users)
			protected.GET("/grant-types", controllers.GetGrantTypes)
			protected.GET("/grant-types/:id/criteria", controllers.GetCriteriaLedger)
			protected.GET("/calendars", controllers.GetCalendars)
			protected.GET("/calendars/current", controllers.GetCurrentCalendar)
			protected.GET("/calendars/:id", controllers.GetCalendarByID)
			protected.GET("/calendars/:id/ical", controllers.ExportCalendarICS)
			protected.GET("/advisors", controllers.GetAdvisors)

			// Notifications
			protected.GET("/notifications", controllers.GetNotifications)
			protected.PUT("/notifications/:id/read", controllers.MarkNotificationRead)
			protected.PUT("/notifications/read-all", controllers.MarkAllNotificationsRead)

			// Documents
			documents := protected.Group("/documents")
			{
				documents.POST("/upload", controllers.UploadDocument)
				documents.GET("/download/:file_id", controllers.DownloadDocument)
			}

			// Student proposal lifecycle
			proposals := protected.Group("/proposals")
			{
				proposals.GET("/eligibility", middleware.RequireRole(models.RoleStudent), controllers.CheckEligibility)
				proposals.POST("", middleware.RequireRole(models.RoleStudent), controllers.SubmitProposal)
				proposals.GET("/mine", middleware.RequireRole(models.RoleStudent), controllers.GetMyProposals)
				proposals.GET("/:id", controllers.GetProposal)
				proposals.POST("/:id/resubmit", middleware.RequireRole(models.RoleStudent), controllers.ResubmitProposal)
				proposals.DELETE("/:id", middleware.RequireRole(models.RoleStudent), controllers.WithdrawProposal)

				// Advisor decision track
				proposals.POST("/:id/advisor-approve", middleware.RequireRole(models.RoleAdvisor), controllers.AdvisorApproveProposal)
				proposals.POST("/:id/advisor-reject", middleware.RequireRole(models.RoleAdvisor), controllers.AdvisorRejectProposal)

				// Revision can come from advisor, reviewer or staff
				proposals.POST("/:id/request-revision",
					middleware.RequireRole(models.RoleAdvisor, models.RoleReviewer, models.RoleAdmin),
					controllers.RequestProposalRevision)

				// Reviewer scoring
				proposals.GET("/:id/scores", middleware.RequireRole(models.RoleReviewer, models.RoleAdmin), controllers.GetProposalScores)
				proposals.POST("/:id/scores", middleware.RequireRole(models.RoleReviewer), controllers.SubmitScores)
			}

			// Advisor workspace
			advisor := protected.Group("/advisor")
			advisor.Use(middleware.RequireRole(models.RoleAdvisor))
			{
				advisor.GET("/proposals", controllers.GetAdvisorProposals)
			}

			// Reviewer workspace
			reviewer := protected.Group("/reviewer")
			reviewer.Use(middleware.RequireRole(models.RoleReviewer))
			{
				reviewer.GET("/proposals", controllers.GetReviewerProposals)
			}

			// Staff administration
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/proposals", controllers.GetAllProposals)
				admin.POST("/proposals/:id/approve", controllers.AdminApproveProposal)
				admin.POST("/proposals/:id/reject", controllers.AdminRejectProposal)
				admin.PUT("/proposals/:id/reviewers", controllers.SetProposalReviewers)
				admin.POST("/proposals/:id/reviewers", controllers.AddProposalReviewers)
				admin.POST("/proposals/:id/finalize-score", controllers.FinalizeProposalScore)
				admin.GET("/reviewers", controllers.GetReviewers)

				admin.POST("/grant-types", controllers.CreateGrantType)
				admin.PUT("/grant-types/:id", controllers.UpdateGrantType)
				admin.DELETE("/grant-types/:id", controllers.DeleteGrantType)

				admin.POST("/grant-types/:id/criteria/reorder", controllers.ReorderCriteria)
				admin.POST("/criteria", controllers.CreateCriterion)
				admin.POST("/criteria/duplicate", controllers.DuplicateCriteria)
				admin.DELETE("/criteria/:criterion_id", controllers.DeleteCriterion)
				admin.PUT("/criteria/:criterion_id/restore", controllers.RestoreCriterion)

				admin.POST("/calendars", controllers.CreateCalendar)
				admin.PUT("/calendars/:id", controllers.UpdateCalendar)
				admin.PUT("/calendars/:id/activate", controllers.ActivateCalendar)
				admin.PUT("/calendars/:id/deactivate", controllers.DeactivateCalendar)
				admin.DELETE("/calendars/:id", controllers.DeleteCalendar)

				admin.PUT("/advisors/:id/quota", controllers.UpdateAdvisorQuota)
				admin.PUT("/advisors/:id/reset-usage", controllers.ResetAdvisorUsage)

				admin.GET("/dashboard/stats", controllers.GetDashboardStats)
				admin.GET("/recap/export", controllers.ExportRecap)
			}
		}

	}

	// 404 catch-all
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "Endpoint not found"})
	})
}
