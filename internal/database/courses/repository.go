// Package courses provides database operations for course management,
// including the enriched course listing (enrollment counts, favorite
// status, category and tags per course) and the cascading delete.
package courses

import (
	"errors"

	"gorm.io/gorm"

	"github.com/andresilva/courseapi/internal/entities"
)

var (
	ErrNotFound       = errors.New("course not found")
	ErrDuplicateTitle = errors.New("a course with this title already exists")
)

// PageSize is the fixed page size of the course listing.
const PageSize = 10

// Repository handles all course database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListParams filters and orders the course listing.
type ListParams struct {
	Search     string // case-insensitive substring match on title
	CategoryID string
	OrderBy    string // "title" or "id"
	SortType   string // "asc" or "desc"
	Page       int    // 1-based
}

type CategoryInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type TagInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Summary is one row of the enriched course listing.
type Summary struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	ImageURL    string        `json:"image_url,omitempty"`
	Enrollments int64         `json:"enrollments"`
	IsFavorite  bool          `json:"is_favorite"`
	Category    *CategoryInfo `json:"category" gorm:"-"`
	Tags        []TagInfo     `json:"tags" gorm:"-"`
}

// List returns one page of courses enriched with enrollment counts,
// the requesting user's favorite status, category and tags. The total
// reflects the full filtered set independent of the page slice.
func (r *Repository) List(params ListParams, userID string) ([]Summary, int64, error) {
	var total int64
	if err := applyFilters(r.db.Model(&entities.Course{}), params).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := "title"
	if params.OrderBy == "id" {
		orderBy = "id"
	}
	direction := "ASC"
	if params.SortType == "desc" {
		direction = "DESC"
	}
	page := params.Page
	if page < 1 {
		page = 1
	}

	// Grouped left join so courses with zero enrollments still appear.
	// The id secondary sort keeps pagination deterministic for equal keys.
	var rows []Summary
	err := applyFilters(r.db.Model(&entities.Course{}), params).
		Select("courses.id, courses.title, courses.description, courses.image_url, COUNT(enrollments.id) AS enrollments").
		Joins("LEFT JOIN enrollments ON enrollments.course_id = courses.id").
		Group("courses.id, courses.title, courses.description, courses.image_url").
		Order("courses." + orderBy + " " + direction + ", courses.id ASC").
		Offset((page - 1) * PageSize).
		Limit(PageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	if len(rows) == 0 {
		return []Summary{}, total, nil
	}

	courseIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		courseIDs = append(courseIDs, row.ID)
	}

	favoriteSet, err := r.favoriteCourseIDs(userID)
	if err != nil {
		return nil, 0, err
	}

	categoriesByCourse, err := r.categoriesByCourse(courseIDs)
	if err != nil {
		return nil, 0, err
	}

	tagsByCourse, err := r.tagsByCourse(courseIDs)
	if err != nil {
		return nil, 0, err
	}

	for i := range rows {
		rows[i].IsFavorite = favoriteSet[rows[i].ID]
		rows[i].Category = categoriesByCourse[rows[i].ID]
		if tags, ok := tagsByCourse[rows[i].ID]; ok {
			rows[i].Tags = tags
		} else {
			rows[i].Tags = []TagInfo{}
		}
	}

	return rows, total, nil
}

func applyFilters(query *gorm.DB, params ListParams) *gorm.DB {
	if params.Search != "" {
		query = query.Where("LOWER(courses.title) LIKE LOWER(?)", "%"+params.Search+"%")
	}
	if params.CategoryID != "" {
		query = query.Where("courses.category_id = ?", params.CategoryID)
	}
	return query
}

func (r *Repository) favoriteCourseIDs(userID string) (map[string]bool, error) {
	var ids []string
	err := r.db.Model(&entities.Favorite{}).
		Where("user_id = ?", userID).
		Pluck("course_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *Repository) categoriesByCourse(courseIDs []string) (map[string]*CategoryInfo, error) {
	var rows []struct {
		CourseID string
		ID       string
		Name     string
		Color    string
	}
	err := r.db.Model(&entities.Course{}).
		Select("courses.id AS course_id, categories.id, categories.name, categories.color").
		Joins("INNER JOIN categories ON categories.id = courses.category_id").
		Where("courses.id IN ?", courseIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]*CategoryInfo, len(rows))
	for _, row := range rows {
		result[row.CourseID] = &CategoryInfo{ID: row.ID, Name: row.Name, Color: row.Color}
	}
	return result, nil
}

func (r *Repository) tagsByCourse(courseIDs []string) (map[string][]TagInfo, error) {
	var rows []struct {
		CourseID string
		ID       string
		Name     string
		Color    string
	}
	err := r.db.Model(&entities.CourseTag{}).
		Select("course_tags.course_id, tags.id, tags.name, tags.color").
		Joins("INNER JOIN tags ON tags.id = course_tags.tag_id").
		Where("course_tags.course_id IN ?", courseIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string][]TagInfo, len(rows))
	for _, row := range rows {
		result[row.CourseID] = append(result[row.CourseID], TagInfo{ID: row.ID, Name: row.Name, Color: row.Color})
	}
	return result, nil
}

// GetByID returns a course with its category preloaded.
func (r *Repository) GetByID(id string) (*entities.Course, error) {
	var course entities.Course
	err := r.db.Preload("Category").First(&course, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// Create inserts a new course. The unique index on title is the
// authoritative duplicate guard.
func (r *Repository) Create(title, description string, categoryID *string) (*entities.Course, error) {
	course := &entities.Course{
		Title:       title,
		Description: description,
		CategoryID:  categoryID,
	}
	err := r.db.Create(course).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrDuplicateTitle
	}
	if err != nil {
		return nil, err
	}
	return course, nil
}

// UpdateParams carries the optional fields of a partial course update.
// Nil fields are preserved.
type UpdateParams struct {
	Title       *string
	Description *string
	CategoryID  *string
}

// Update patches only the supplied fields and refreshes updated_at.
func (r *Repository) Update(id string, params UpdateParams) (*entities.Course, error) {
	var course entities.Course
	err := r.db.First(&course, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if params.Title != nil {
		updates["title"] = *params.Title
	}
	if params.Description != nil {
		updates["description"] = *params.Description
	}
	if params.CategoryID != nil {
		updates["category_id"] = *params.CategoryID
	}
	if len(updates) == 0 {
		return &course, nil
	}

	err = r.db.Model(&course).Updates(updates).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrDuplicateTitle
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// SetImage records the storage URL and key of the course image and
// returns the key of the image it replaced, if any.
func (r *Repository) SetImage(id, url, key string) (previousKey string, err error) {
	var course entities.Course
	err = r.db.First(&course, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	previousKey = course.ImageKey
	err = r.db.Model(&course).Updates(map[string]any{
		"image_url": url,
		"image_key": key,
	}).Error
	if err != nil {
		return "", err
	}
	return previousKey, nil
}

// ImageKeys returns every image key currently referenced by a course.
// Used by the upload sweeper to spot orphaned stored objects.
func (r *Repository) ImageKeys() ([]string, error) {
	var keys []string
	err := r.db.Model(&entities.Course{}).
		Where("image_key <> ''").
		Pluck("image_key", &keys).Error
	return keys, err
}

// Delete removes a course and every row referencing it in one
// transaction. Deletion order matters for the foreign keys:
// lesson progress first, then enrollments, favorites, course tags,
// lessons, and finally the course itself.
func (r *Repository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var course entities.Course
		err := tx.First(&course, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var lessonIDs []string
		err = tx.Model(&entities.Lesson{}).
			Where("course_id = ?", id).
			Pluck("id", &lessonIDs).Error
		if err != nil {
			return err
		}

		if len(lessonIDs) > 0 {
			if err := tx.Where("lesson_id IN ?", lessonIDs).Delete(&entities.LessonProgress{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("course_id = ?", id).Delete(&entities.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&entities.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&entities.CourseTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&entities.Lesson{}).Error; err != nil {
			return err
		}
		return tx.Delete(&course).Error
	})
}
