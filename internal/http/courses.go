package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresilva/courseapi/internal/auth"
	"github.com/andresilva/courseapi/internal/database/courses"
	"github.com/andresilva/courseapi/internal/entities"
)

// CoursesStore defines database operations for course management.
type CoursesStore interface {
	List(params courses.ListParams, userID string) ([]courses.Summary, int64, error)
	GetByID(id string) (*entities.Course, error)
	Create(title, description string, categoryID *string) (*entities.Course, error)
	Update(id string, params courses.UpdateParams) (*entities.Course, error)
	Delete(id string) error
}

type CoursesController struct {
	store CoursesStore
}

func NewCoursesController(store CoursesStore) *CoursesController {
	return &CoursesController{store: store}
}

// ListCourses returns one page of the course catalog, enriched with
// enrollment counts, favorite status, category and tags.
// GET /api/courses
func (cc *CoursesController) ListCourses(c *gin.Context) {
	params := courses.ListParams{
		Search:     c.Query("search"),
		CategoryID: c.Query("category_id"),
		OrderBy:    c.DefaultQuery("order_by", "title"),
		SortType:   c.DefaultQuery("sort_type", "asc"),
		Page:       parsePageQuery(c),
	}
	if params.OrderBy != "title" && params.OrderBy != "id" {
		respondBadRequest(c, "order_by must be title or id")
		return
	}
	if params.SortType != "asc" && params.SortType != "desc" {
		respondBadRequest(c, "sort_type must be asc or desc")
		return
	}

	summaries, total, err := cc.store.List(params, auth.UserID(c))
	if err != nil {
		respondInternalError(c, err, "list courses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"courses": summaries,
		"total":   total,
		"page":    params.Page,
	})
}

// GetCourse returns a single course with its category.
// GET /api/courses/:id
func (cc *CoursesController) GetCourse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	course, err := cc.store.GetByID(id)
	if errors.Is(err, courses.ErrNotFound) {
		respondNotFound(c, "course")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get course")
		return
	}
	c.JSON(http.StatusOK, course)
}

// CreateCourse creates a course. Manager only.
// POST /api/courses
func (cc *CoursesController) CreateCourse(c *gin.Context) {
	var req struct {
		Title       string  `json:"title" binding:"required"`
		Description string  `json:"description"`
		CategoryID  *string `json:"category_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title is required")
		return
	}

	course, err := cc.store.Create(req.Title, req.Description, req.CategoryID)
	if errors.Is(err, courses.ErrDuplicateTitle) {
		respondConflict(c, err.Error())
		return
	}
	if err != nil {
		respondInternalError(c, err, "create course")
		return
	}
	respondCreated(c, course)
}

// UpdateCourse patches a course. Absent fields are preserved. Manager only.
// PUT /api/courses/:id
func (cc *CoursesController) UpdateCourse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		CategoryID  *string `json:"category_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Title != nil && *req.Title == "" {
		respondBadRequest(c, "title cannot be empty")
		return
	}

	course, err := cc.store.Update(id, courses.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if errors.Is(err, courses.ErrNotFound) {
		respondNotFound(c, "course")
		return
	}
	if errors.Is(err, courses.ErrDuplicateTitle) {
		respondConflict(c, err.Error())
		return
	}
	if err != nil {
		respondInternalError(c, err, "update course")
		return
	}
	c.JSON(http.StatusOK, course)
}

// DeleteCourse removes a course and everything attached to it. Manager only.
// DELETE /api/courses/:id
func (cc *CoursesController) DeleteCourse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := cc.store.Delete(id)
	if errors.Is(err, courses.ErrNotFound) {
		respondNotFound(c, "course")
		return
	}
	if err != nil {
		respondInternalError(c, err, "delete course")
		return
	}
	respondSuccess(c, "course deleted")
}
