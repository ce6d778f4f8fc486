package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tobi/learnhub/internal/app/controllers"
	"github.com/tobi/learnhub/internal/app/models"
	"github.com/tobi/learnhub/internal/app/models/dto"
	"github.com/tobi/learnhub/internal/middleware"
	"github.com/tobi/learnhub/internal/pkg/liveroom"
)

// Controllers bundles every controller the router needs
type Controllers struct {
	Auth         *controllers.AuthController
	User         *controllers.UserController
	Course       *controllers.CourseController
	Registration *controllers.RegistrationController
	Payment      *controllers.PaymentController
	Assignment   *controllers.AssignmentController
	Material     *controllers.MaterialController
	LiveClass    *controllers.LiveClassController
	Story        *controllers.StoryController
	Dashboard    *controllers.DashboardController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	c Controllers,
	roomHandler *liveroom.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	adminRole := string(models.RoleAdmin)
	trainerRole := string(models.RoleTrainer)

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/refresh-token", c.Auth.RefreshToken)
		auth.POST("/logout", c.Auth.Logout)
	}

	// Public course catalog
	v1.GET("/courses", c.Course.ListPublic)
	v1.GET("/courses/slug/:slug", c.Course.GetBySlug)
	v1.GET("/courses/:id", c.Course.GetByID)

	// Public stories. The slug route carries optional auth so authors can
	// preview their own drafts.
	v1.GET("/stories", c.Story.ListPublished)
	v1.GET("/stories/:slug", authMiddleware.OptionalJWTAuth(), c.Story.GetBySlug)

	// Paystack calls this; authentication is the body signature
	v1.POST("/payments/webhook", c.Payment.Webhook)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Profile
		me := authenticated.Group("/users/me")
		{
			me.GET("", c.User.GetProfile)
			me.PUT("", c.User.UpdateProfile)
			me.PUT("/password", c.User.ChangePassword)
			me.POST("/photo", c.User.UploadProfilePhoto)
		}

		// Registrations
		authenticated.POST("/registrations", c.Registration.Apply)
		authenticated.GET("/registrations/me", c.Registration.ListOwn)

		// Payments
		authenticated.POST("/payments/initialize", c.Payment.Initialize)
		authenticated.GET("/payments/me", c.Payment.ListOwn)
		authenticated.GET("/payments/:reference/verify", c.Payment.Verify)

		// Course content: access is checked per-course in the service layer
		// (approved registration, course trainer or admin)
		authenticated.GET("/courses/:id/assignments", c.Assignment.ListByCourse)
		authenticated.GET("/courses/:id/materials", c.Material.ListByCourse)
		authenticated.GET("/courses/:id/live-classes", c.LiveClass.ListByCourse)

		authenticated.GET("/assignments/:id", c.Assignment.GetByID)
		authenticated.POST("/assignments/:id/submissions", c.Assignment.Submit)
		authenticated.GET("/assignments/:id/submissions/me", c.Assignment.GetOwnSubmission)

		authenticated.GET("/live-classes/:id", c.LiveClass.GetByID)
		authenticated.GET("/live-classes/:id/catchups", c.LiveClass.ListCatchups)
		authenticated.GET("/live-classes/:id/room", roomHandler.HandleConnection)

		// Dashboards
		authenticated.GET("/dashboards/student", c.Dashboard.Student)
		authenticated.GET("/dashboards/trainer",
			authMiddleware.RoleRequired(trainerRole, adminRole), c.Dashboard.Trainer)
		authenticated.GET("/dashboards/admin",
			authMiddleware.RoleRequired(adminRole), c.Dashboard.Admin)

		// --- Trainer and admin routes ---
		staff := authenticated.Group("")
		staff.Use(authMiddleware.RoleRequired(trainerRole, adminRole))
		{
			staff.GET("/courses/all", c.Course.ListAll)
			staff.GET("/courses/:id/registrations", c.Registration.ListByCourse)
			staff.PUT("/registrations/:id/status", c.Registration.UpdateStatus)

			staff.POST("/courses/:id/assignments", c.Assignment.Create)
			staff.PUT("/assignments/:id", c.Assignment.Update)
			staff.DELETE("/assignments/:id", c.Assignment.Delete)
			staff.GET("/assignments/:id/submissions", c.Assignment.ListSubmissions)
			staff.PUT("/submissions/:id/grade", c.Assignment.Grade)

			staff.POST("/courses/:id/materials", c.Material.Create)
			staff.PUT("/materials/:id", c.Material.Update)
			staff.DELETE("/materials/:id", c.Material.Delete)

			staff.POST("/courses/:id/live-classes", c.LiveClass.Create)
			staff.PUT("/live-classes/:id", c.LiveClass.Update)
			staff.PUT("/live-classes/:id/status", c.LiveClass.UpdateStatus)
			staff.DELETE("/live-classes/:id", c.LiveClass.Delete)
			staff.POST("/live-classes/:id/catchups", c.LiveClass.CreateCatchup)
			staff.DELETE("/catchups/:id", c.LiveClass.DeleteCatchup)

			staff.POST("/stories", c.Story.Create)
			staff.GET("/stories/me", c.Story.ListOwn)
			staff.PUT("/stories/:id", c.Story.Update)
			staff.POST("/stories/:id/cover", c.Story.UploadCover)
			staff.PUT("/stories/:id/status", c.Story.UpdateStatus)
			staff.DELETE("/stories/:id", c.Story.Delete)
		}

		// --- Admin-only routes ---
		admin := authenticated.Group("")
		admin.Use(authMiddleware.RoleRequired(adminRole))
		{
			admin.POST("/auth/trainers", c.Auth.CreateTrainer)

			admin.GET("/users", c.User.ListUsers)
			admin.PUT("/users/:id/active", c.User.SetActive)
			admin.PUT("/users/:id/promote", c.User.PromoteToTrainer)

			admin.POST("/courses", c.Course.Create)
			admin.PUT("/courses/:id", c.Course.Update)
			admin.DELETE("/courses/:id", c.Course.Delete)
			admin.PUT("/courses/:id/published", c.Course.SetPublished)
			admin.PUT("/courses/:id/trainer", c.Course.AssignTrainer)

			admin.GET("/payments", c.Payment.ListAll)
			admin.GET("/stories/all", c.Story.ListAll)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, dto.NewAPIResponse(gin.H{"status": "ok"}, ""))
	})
}
