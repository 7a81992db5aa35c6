// Package favorites provides database operations for a user's
// favorited courses, including the paginated favorites listing.
package favorites

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/andresilva/courseapi/internal/entities"
)

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrAlreadyFavorited = errors.New("course is already in favorites")
	ErrNotFavorited     = errors.New("course is not in favorites")
)

// DefaultPageSize is the favorites page size when the caller does not
// supply one.
const DefaultPageSize = 10

// Repository handles all favorite database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Entry is one row of the favorites listing: the favorite record's own
// id and timestamp plus its course summary.
type Entry struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Page is one page of the favorites listing with its paging envelope.
type Page struct {
	Entries    []Entry `json:"favorites"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	TotalPages int     `json:"total_pages"`
}

func (r *Repository) courseExists(courseID string) error {
	var course entities.Course
	err := r.db.Select("id").First(&course, "id = ?", courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCourseNotFound
	}
	return err
}

// Add favorites a course for the user. The unique index on
// (user_id, course_id) is the authoritative duplicate guard.
func (r *Repository) Add(courseID, userID string) (*entities.Favorite, error) {
	if err := r.courseExists(courseID); err != nil {
		return nil, err
	}

	favorite := &entities.Favorite{
		UserID:   userID,
		CourseID: courseID,
	}
	err := r.db.Create(favorite).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrAlreadyFavorited
	}
	if err != nil {
		return nil, err
	}
	return favorite, nil
}

// Remove unfavorites a course for the user.
func (r *Repository) Remove(courseID, userID string) error {
	if err := r.courseExists(courseID); err != nil {
		return err
	}

	result := r.db.Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&entities.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFavorited
	}
	return nil
}

// Check returns the user's favorite record for the course, or nil when
// the course is not favorited.
func (r *Repository) Check(courseID, userID string) (*entities.Favorite, error) {
	var favorite entities.Favorite
	err := r.db.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&favorite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &favorite, nil
}

// List returns one page of the user's favorites, most recently
// favorited first. An out-of-range page yields an empty slice with the
// envelope intact.
func (r *Repository) List(userID string, page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}

	var total int64
	err := r.db.Model(&entities.Favorite{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, err
	}

	entries := []Entry{}
	err = r.db.Model(&entities.Favorite{}).
		Select("favorites.id, favorites.created_at, courses.id AS course_id, courses.title, courses.description, courses.image_url").
		Joins("INNER JOIN courses ON courses.id = favorites.course_id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC, favorites.id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}

	return &Page{
		Entries:    entries,
		Total:      total,
		Page:       page,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}
