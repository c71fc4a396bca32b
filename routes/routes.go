package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"codelegends_gateway/apiclient"
	"codelegends_gateway/handlers"
	"codelegends_gateway/learning"
	"codelegends_gateway/logger"
	"codelegends_gateway/middleware"
	"codelegends_gateway/progress"
	"codelegends_gateway/session"
	"codelegends_gateway/tags"
)

// Deps is everything the route tree needs.
type Deps struct {
	API          *apiclient.Client
	Sessions     *session.Manager
	Learning     *learning.Service
	Tracker      progress.Tracker
	Tags         *tags.Searcher
	Log          *logger.Logger
	SessionTTL   time.Duration
	CookieSecure bool
	Health       []handlers.Check
}

// SetupRoutes mounts /health plus the learner app under /api and the content
// hub under /hub, as enabled.
func SetupRoutes(r *gin.Engine, d Deps, learner, hub bool) {
	healthHandler := handlers.NewHealthHandler(d.Health...)
	r.GET("/health", healthHandler.HealthCheck)

	authHandler := handlers.NewAuthHandler(d.API, d.Sessions, d.Log, d.SessionTTL, d.CookieSecure)
	if learner {
		SetupLearnerRoutes(r, d, authHandler)
	}
	if hub {
		SetupHubRoutes(r, d, authHandler)
	}
}

func SetupLearnerRoutes(r *gin.Engine, d Deps, authHandler *handlers.AuthHandler) {
	classroomHandler := handlers.NewClassroomHandler(d.Learning, d.Tracker, d.Log)
	enrollmentHandler := handlers.NewEnrollmentHandler(d.API, d.Sessions, d.Tracker, d.Log)
	certificateHandler := handlers.NewCertificateHandler(d.API, d.Log)

	api := r.Group("/api")

	// Public routes
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/google", authHandler.GoogleLogin)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/certificates/:id", certificateHandler.GetCertificate)

	protected := api.Group("/")
	protected.Use(middleware.RequireSession(d.Sessions, d.Log))
	{
		protected.GET("/me", authHandler.Me)

		// Onboarding
		protected.POST("/onboarding", enrollmentHandler.CompleteOnboarding)

		// Courses
		protected.GET("/courses/enrolled", enrollmentHandler.GetEnrolledCourses)
		protected.GET("/courses/active", enrollmentHandler.GetActiveCourse)
		protected.PUT("/courses/active", enrollmentHandler.SetActiveCourse)
		protected.POST("/courses/:courseId/enroll", enrollmentHandler.Enroll)

		// Overview
		protected.GET("/overview", enrollmentHandler.GetOverview)
		protected.PUT("/overview", enrollmentHandler.UpdateOverview)

		// Progress
		protected.GET("/progress/stream", classroomHandler.ProgressStream)
		protected.GET("/progress/:courseSlug/stamp", classroomHandler.ProgressStamp)

		onboarded := protected.Group("/")
		onboarded.Use(middleware.RequireOnboarding(d.Sessions, d.Log))
		{
			onboarded.GET("/learn", classroomHandler.Learn)
			onboarded.GET("/classroom/:courseSlug/entry", classroomHandler.Entry)
			onboarded.GET("/classroom/:courseSlug/roadmap", classroomHandler.GetRoadmap)
			onboarded.GET("/classroom/:courseSlug/lessons/:lessonId/url", classroomHandler.LessonURL)
			onboarded.POST("/classroom/:courseSlug/modules/:moduleId/unlock", classroomHandler.UnlockNextModule)
		}
	}
}

func SetupHubRoutes(r *gin.Engine, d Deps, authHandler *handlers.AuthHandler) {
	categoryHandler := handlers.NewCategoryHandler(d.API, d.Log)
	userHandler := handlers.NewUserHandler(d.API, d.Log)
	courseHandler := handlers.NewCourseHandler(d.API, d.Log)
	moduleHandler := handlers.NewModuleHandler(d.API, d.Log)
	lessonHandler := handlers.NewLessonHandler(d.API, d.Log)
	tagHandler := handlers.NewTagHandler(d.Tags)

	hub := r.Group("/hub")

	// Public routes
	hub.POST("/auth/login", authHandler.HubLogin)
	hub.POST("/auth/logout", authHandler.HubLogout)

	protected := hub.Group("/")
	protected.Use(middleware.RequireStaff(d.Log))
	{
		// Category routes
		protected.GET("/categories", categoryHandler.GetCategories)
		protected.POST("/categories", categoryHandler.CreateCategory)
		protected.GET("/categories/:id", categoryHandler.GetCategory)
		protected.PUT("/categories/:id", categoryHandler.UpdateCategory)
		protected.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		// User routes
		protected.GET("/users", userHandler.GetUsers)
		protected.POST("/users", userHandler.CreateUser)
		protected.GET("/users/:id", userHandler.GetUser)
		protected.PUT("/users/:id", userHandler.UpdateUser)
		protected.DELETE("/users/:id", userHandler.DeleteUser)
		protected.GET("/instructors", userHandler.GetInstructors)

		// Tag routes
		protected.GET("/tags", tagHandler.SearchTags)

		// Course routes
		protected.GET("/courses", courseHandler.GetCourses)
		protected.POST("/courses", courseHandler.CreateCourse)
		protected.GET("/courses/:courseId", courseHandler.GetCourse)
		protected.PUT("/courses/:courseId", courseHandler.UpdateCourse)
		protected.DELETE("/courses/:courseId", courseHandler.DeleteCourse)

		// Module routes
		protected.GET("/courses/:courseId/modules", moduleHandler.GetModules)
		protected.POST("/courses/:courseId/modules", moduleHandler.CreateModule)
		protected.PUT("/courses/:courseId/modules/:moduleId", moduleHandler.UpdateModule)
		protected.DELETE("/courses/:courseId/modules/:moduleId", moduleHandler.DeleteModule)

		// Group routes
		protected.GET("/courses/:courseId/modules/:moduleId/groups", moduleHandler.GetGroups)
		protected.POST("/courses/:courseId/modules/:moduleId/groups", moduleHandler.CreateGroup)
		protected.PUT("/courses/:courseId/modules/:moduleId/groups/:groupId", moduleHandler.UpdateGroup)
		protected.DELETE("/courses/:courseId/modules/:moduleId/groups/:groupId", moduleHandler.DeleteGroup)

		// Lesson routes
		protected.GET("/courses/:courseId/modules/:moduleId/groups/:groupId/lessons", lessonHandler.GetLessons)
		protected.POST("/courses/:courseId/modules/:moduleId/groups/:groupId/lessons", lessonHandler.CreateLesson)
		protected.PUT("/courses/:courseId/modules/:moduleId/groups/:groupId/lessons/:lessonId", lessonHandler.UpdateLesson)
		protected.DELETE("/courses/:courseId/modules/:moduleId/groups/:groupId/lessons/:lessonId", lessonHandler.DeleteLesson)
	}
}
