package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresilva/courseapi/internal/auth"
	"github.com/andresilva/courseapi/internal/database/enrollments"
	"github.com/andresilva/courseapi/internal/entities"
)

// EnrollmentsStore defines database operations for enrollment.
type EnrollmentsStore interface {
	Enroll(courseID, userID string) (*entities.Enrollment, error)
	IsEnrolled(courseID, userID string) (bool, error)
}

type EnrollmentsController struct {
	store EnrollmentsStore
}

func NewEnrollmentsController(store EnrollmentsStore) *EnrollmentsController {
	return &EnrollmentsController{store: store}
}

// Enroll enrolls the caller in a course. Enrolling twice is a conflict.
// POST /api/courses/:id/enroll
func (ec *EnrollmentsController) Enroll(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	enrollment, err := ec.store.Enroll(courseID, auth.UserID(c))
	if errors.Is(err, enrollments.ErrCourseNotFound) {
		respondNotFound(c, "course")
		return
	}
	if errors.Is(err, enrollments.ErrAlreadyEnrolled) {
		respondConflict(c, err.Error())
		return
	}
	if err != nil {
		respondInternalError(c, err, "enroll")
		return
	}
	respondCreated(c, enrollment)
}

// GetEnrollment reports whether the caller is enrolled in a course.
// GET /api/courses/:id/enrollment
func (ec *EnrollmentsController) GetEnrollment(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	enrolled, err := ec.store.IsEnrolled(courseID, auth.UserID(c))
	if err != nil {
		respondInternalError(c, err, "get enrollment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrolled": enrolled})
}
