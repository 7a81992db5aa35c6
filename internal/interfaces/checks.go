package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/andresilva/courseapi/internal/auth"
	"github.com/andresilva/courseapi/internal/database/categories"
	"github.com/andresilva/courseapi/internal/database/courses"
	"github.com/andresilva/courseapi/internal/database/enrollments"
	"github.com/andresilva/courseapi/internal/database/favorites"
	"github.com/andresilva/courseapi/internal/database/lessons"
	"github.com/andresilva/courseapi/internal/database/tags"
	"github.com/andresilva/courseapi/internal/database/users"
	"github.com/andresilva/courseapi/internal/http"
	"github.com/andresilva/courseapi/internal/storage"
	"github.com/andresilva/courseapi/internal/storage/providers/local"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ http.CoursesStore = (*courses.Repository)(nil)
var _ http.LessonsStore = (*lessons.Repository)(nil)
var _ http.EnrollmentsStore = (*enrollments.Repository)(nil)
var _ http.FavoritesStore = (*favorites.Repository)(nil)
var _ http.CategoriesStore = (*categories.Repository)(nil)
var _ http.TagsStore = (*tags.Repository)(nil)
var _ http.UploadsCourseStore = (*courses.Repository)(nil)

var _ auth.UserStore = (*users.Repository)(nil)

// =============================================================================
// Storage
// =============================================================================

var _ storage.Client = (*local.Client)(nil)
var _ storage.ReferencedKeys = (*courses.Repository)(nil)
