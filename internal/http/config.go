package http

import (
	"github.com/andresilva/courseapi/internal/auth"
	"github.com/andresilva/courseapi/internal/database"
	"github.com/andresilva/courseapi/internal/storage"
)

// RouterConfig contains all dependencies and configuration needed to
// create the HTTP router. This replaces a long parameter list in
// NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database

	// Authentication
	AuthService  *auth.Service
	TokenManager *auth.TokenManager

	// Repository stores, one narrow interface per controller
	CoursesStore     CoursesStore
	LessonsStore     LessonsStore
	EnrollmentsStore EnrollmentsStore
	FavoritesStore   FavoritesStore
	CategoriesStore  CategoriesStore
	TagsStore        TagsStore
	UploadsStore     UploadsCourseStore

	// Image storage
	Storage        storage.Client
	UploadsDir     string
	UploadsBaseURL string
	MaxUploadBytes int64

	// CORS
	AllowedOrigins []string

	// Application info
	Version string
}
