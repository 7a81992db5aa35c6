// Package enrollments provides database operations for course
// enrollment.
package enrollments

import (
	"errors"

	"gorm.io/gorm"

	"github.com/andresilva/courseapi/internal/entities"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrAlreadyEnrolled = errors.New("user is already enrolled in this course")
)

// Repository handles all enrollment database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Enroll creates an enrollment for the user. The unique index on
// (user_id, course_id) is the authoritative duplicate guard, so a
// concurrent double enroll loses cleanly instead of inserting twice.
func (r *Repository) Enroll(courseID, userID string) (*entities.Enrollment, error) {
	var course entities.Course
	err := r.db.Select("id").First(&course, "id = ?", courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}

	enrollment := &entities.Enrollment{
		UserID:   userID,
		CourseID: courseID,
	}
	err = r.db.Create(enrollment).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrAlreadyEnrolled
	}
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

// IsEnrolled reports whether the user has an enrollment for the course.
func (r *Repository) IsEnrolled(courseID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

// CountForCourse returns the number of enrollments a course has.
func (r *Repository) CountForCourse(courseID string) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}
