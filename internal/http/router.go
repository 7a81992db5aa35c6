package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andresilva/courseapi/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Registration, login, health and the uploaded images are public;
// everything else requires a Bearer token. Catalog mutations
// additionally require the manager role.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	// Uploaded course images
	router.Static(cfg.UploadsBaseURL, cfg.UploadsDir)

	// Controllers
	health := NewHealthController(cfg.Database, cfg.Version)
	usersController := NewUsersController(cfg.AuthService)
	coursesController := NewCoursesController(cfg.CoursesStore)
	lessonsController := NewLessonsController(cfg.LessonsStore)
	enrollmentsController := NewEnrollmentsController(cfg.EnrollmentsStore)
	favoritesController := NewFavoritesController(cfg.FavoritesStore)
	categoriesController := NewCategoriesController(cfg.CategoriesStore)
	tagsController := NewTagsController(cfg.TagsStore)
	uploadsController := NewUploadsController(cfg.UploadsStore, cfg.Storage, cfg.MaxUploadBytes)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Public auth endpoints
	router.POST("/api/users", usersController.Register)
	router.POST("/api/sessions", usersController.Login)

	api := router.Group("/api")
	api.Use(auth.Middleware(cfg.TokenManager))

	api.GET("/me", usersController.Profile)

	// Course catalog
	api.GET("/courses", coursesController.ListCourses)
	api.GET("/courses/:id", coursesController.GetCourse)
	api.POST("/courses", auth.RequireAction(auth.ActionManageCourses), coursesController.CreateCourse)
	api.PUT("/courses/:id", auth.RequireAction(auth.ActionManageCourses), coursesController.UpdateCourse)
	api.DELETE("/courses/:id", auth.RequireAction(auth.ActionManageCourses), coursesController.DeleteCourse)
	api.POST("/courses/:id/image", auth.RequireAction(auth.ActionUploadImages), uploadsController.UploadCourseImage)

	// Lessons and watch progress
	api.GET("/courses/:id/lessons", lessonsController.ListLessons)
	api.POST("/courses/:id/lessons", auth.RequireAction(auth.ActionManageLessons), lessonsController.CreateLesson)
	api.PUT("/lessons/:id", auth.RequireAction(auth.ActionManageLessons), lessonsController.UpdateLesson)
	api.DELETE("/lessons/:id", auth.RequireAction(auth.ActionManageLessons), lessonsController.DeleteLesson)
	api.POST("/lessons/:id/watched", lessonsController.SetWatched)
	api.GET("/courses/:id/progress", lessonsController.GetProgress)

	// Enrollment
	api.POST("/courses/:id/enroll", enrollmentsController.Enroll)
	api.GET("/courses/:id/enrollment", enrollmentsController.GetEnrollment)

	// Favorites
	api.POST("/courses/:id/favorite", favoritesController.AddFavorite)
	api.DELETE("/courses/:id/favorite", favoritesController.RemoveFavorite)
	api.GET("/courses/:id/favorite", favoritesController.CheckFavorite)
	api.GET("/favorites", favoritesController.ListFavorites)

	// Categories
	api.GET("/categories", categoriesController.ListCategories)
	api.POST("/categories", auth.RequireAction(auth.ActionManageCategories), categoriesController.CreateCategory)
	api.PUT("/categories/:id", auth.RequireAction(auth.ActionManageCategories), categoriesController.UpdateCategory)
	api.DELETE("/categories/:id", auth.RequireAction(auth.ActionManageCategories), categoriesController.DeleteCategory)

	// Tags
	api.GET("/tags", tagsController.ListTags)
	api.POST("/tags", auth.RequireAction(auth.ActionManageTags), tagsController.CreateTag)
	api.PUT("/tags/:id", auth.RequireAction(auth.ActionManageTags), tagsController.UpdateTag)
	api.DELETE("/tags/:id", auth.RequireAction(auth.ActionManageTags), tagsController.DeleteTag)
	api.GET("/courses/:id/tags", tagsController.ListCourseTags)
	api.POST("/courses/:id/tags", auth.RequireAction(auth.ActionManageTags), tagsController.AddCourseTags)
	api.DELETE("/courses/:id/tags", auth.RequireAction(auth.ActionManageTags), tagsController.RemoveCourseTags)

	return router
}
