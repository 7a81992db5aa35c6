package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresilva/courseapi/internal/auth"
	"github.com/andresilva/courseapi/internal/database/lessons"
	"github.com/andresilva/courseapi/internal/entities"
	"github.com/andresilva/courseapi/internal/youtube"
)

// LessonsStore defines database operations for lesson management and
// watch progress.
type LessonsStore interface {
	Create(courseID, title, description, youtubeURL string) (*entities.Lesson, error)
	ListForUser(courseID, userID string) ([]lessons.View, error)
	Update(lessonID string, params lessons.UpdateParams) (*entities.Lesson, error)
	Delete(lessonID string) error
	SetWatched(lessonID, userID string, watched bool) (*entities.LessonProgress, error)
	CourseProgress(courseID, userID string) (*lessons.Progress, error)
}

type LessonsController struct {
	store LessonsStore
}

func NewLessonsController(store LessonsStore) *LessonsController {
	return &LessonsController{store: store}
}

// ListLessons returns a course's lessons in order with the caller's
// watch state. A course without lessons yields an empty list, not 404.
// GET /api/courses/:id/lessons
func (lc *LessonsController) ListLessons(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	views, err := lc.store.ListForUser(courseID, auth.UserID(c))
	if errors.Is(err, lessons.ErrCourseNotFound) {
		respondNotFound(c, "course")
		return
	}
	if errors.Is(err, lessons.ErrNoLessons) {
		c.JSON(http.StatusOK, gin.H{"lessons": []lessons.View{}})
		return
	}
	if err != nil {
		respondInternalError(c, err, "list lessons")
		return
	}
	c.JSON(http.StatusOK, gin.H{"lessons": views})
}

// CreateLesson appends a lesson to a course. Manager only.
// POST /api/courses/:id/lessons
func (lc *LessonsController) CreateLesson(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		YoutubeURL  string `json:"youtube_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and youtube_url are required")
		return
	}

	lesson, err := lc.store.Create(courseID, req.Title, req.Description, req.YoutubeURL)
	if errors.Is(err, lessons.ErrCourseNotFound) {
		respondNotFound(c, "course")
		return
	}
	if errors.Is(err, youtube.ErrInvalidURL) {
		respondBadRequest(c, "youtube_url must look like youtube.com/watch?v=ID, youtu.be/ID or youtube.com/embed/ID")
		return
	}
	if err != nil {
		respondInternalError(c, err, "create lesson")
		return
	}
	respondCreated(c, lesson)
}

// UpdateLesson patches a lesson. Absent fields are preserved. Manager only.
// PUT /api/lessons/:id
func (lc *LessonsController) UpdateLesson(c *gin.Context) {
	lessonID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		YoutubeURL  *string `json:"youtube_url"`
		Order       *int    `json:"order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Title != nil && *req.Title == "" {
		respondBadRequest(c, "title cannot be empty")
		return
	}

	lesson, err := lc.store.Update(lessonID, lessons.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		YoutubeURL:  req.YoutubeURL,
		Order:       req.Order,
	})
	if errors.Is(err, lessons.ErrLessonNotFound) {
		respondNotFound(c, "lesson")
		return
	}
	if errors.Is(err, youtube.ErrInvalidURL) {
		respondBadRequest(c, "youtube_url must look like youtube.com/watch?v=ID, youtu.be/ID or youtube.com/embed/ID")
		return
	}
	if err != nil {
		respondInternalError(c, err, "update lesson")
		return
	}
	c.JSON(http.StatusOK, lesson)
}

// DeleteLesson removes a lesson and its progress rows. Manager only.
// DELETE /api/lessons/:id
func (lc *LessonsController) DeleteLesson(c *gin.Context) {
	lessonID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := lc.store.Delete(lessonID)
	if errors.Is(err, lessons.ErrLessonNotFound) {
		respondNotFound(c, "lesson")
		return
	}
	if err != nil {
		respondInternalError(c, err, "delete lesson")
		return
	}
	respondSuccess(c, "lesson deleted")
}

// SetWatched marks or unmarks a lesson as watched for the caller.
// Omitting the flag marks the lesson watched.
// POST /api/lessons/:id/watched
func (lc *LessonsController) SetWatched(c *gin.Context) {
	lessonID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Watched *bool `json:"watched"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	watched := true
	if req.Watched != nil {
		watched = *req.Watched
	}

	progress, err := lc.store.SetWatched(lessonID, auth.UserID(c), watched)
	if errors.Is(err, lessons.ErrLessonNotFound) {
		respondNotFound(c, "lesson")
		return
	}
	if err != nil {
		respondInternalError(c, err, "set watched")
		return
	}
	c.JSON(http.StatusOK, progress)
}

// GetProgress returns the caller's completion state for a course,
// alongside the course's id and title. A course without lessons yields
// zeroed progress with no course summary.
// GET /api/courses/:id/progress
func (lc *LessonsController) GetProgress(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	progress, err := lc.store.CourseProgress(courseID, auth.UserID(c))
	if errors.Is(err, lessons.ErrCourseNotFound) {
		respondNotFound(c, "course")
		return
	}
	if errors.Is(err, lessons.ErrNoLessons) {
		c.JSON(http.StatusOK, gin.H{
			"progress": gin.H{
				"total_lessons":   0,
				"watched_lessons": 0,
				"percentage":      0,
				"last_watched_at": nil,
			},
		})
		return
	}
	if err != nil {
		respondInternalError(c, err, "get progress")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"course": gin.H{
			"id":    progress.CourseID,
			"title": progress.CourseTitle,
		},
		"progress": progress,
	})
}
