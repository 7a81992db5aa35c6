// Package lessons provides database operations for lesson management
// and per-user watch progress, including the course progress summary.
package lessons

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/andresilva/courseapi/internal/entities"
	"github.com/andresilva/courseapi/internal/youtube"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrLessonNotFound = errors.New("lesson not found")

	// ErrNoLessons signals a course that exists but has no lessons
	// yet. Callers render this as "no content", not as an error.
	ErrNoLessons = errors.New("course has no lessons")
)

// Repository handles all lesson and lesson-progress database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// View is one lesson enriched with derived YouTube URLs and the
// requesting user's watch state.
type View struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	YoutubeURL   string     `json:"youtube_url"`
	EmbedURL     string     `json:"embed_url"`
	ThumbnailURL string     `json:"thumbnail_url"`
	Order        int        `json:"order"`
	Watched      bool       `json:"watched"`
	WatchedAt    *time.Time `json:"watched_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Progress is a user's completion state for one course.
type Progress struct {
	CourseID       string     `json:"-"`
	CourseTitle    string     `json:"-"`
	TotalLessons   int        `json:"total_lessons"`
	WatchedLessons int        `json:"watched_lessons"`
	Percentage     int        `json:"percentage"`
	LastWatchedAt  *time.Time `json:"last_watched_at"`
}

func (r *Repository) courseExists(courseID string) error {
	var course entities.Course
	err := r.db.Select("id").First(&course, "id = ?", courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCourseNotFound
	}
	return err
}

// getWithCourse loads a lesson and verifies its course still exists.
func (r *Repository) getWithCourse(lessonID string) (*entities.Lesson, error) {
	var lesson entities.Lesson
	err := r.db.First(&lesson, "id = ?", lessonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.courseExists(lesson.CourseID); err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

// Create appends a lesson to a course. The order is max(order)+1 for
// the course, starting at 1; gaps left by deletions are never reused.
func (r *Repository) Create(courseID, title, description, youtubeURL string) (*entities.Lesson, error) {
	if _, err := youtube.Validate(youtubeURL); err != nil {
		return nil, err
	}
	if err := r.courseExists(courseID); err != nil {
		return nil, err
	}

	lesson := &entities.Lesson{
		CourseID:    courseID,
		Title:       title,
		Description: description,
		YoutubeURL:  youtubeURL,
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var maxOrder int
		err := tx.Model(&entities.Lesson{}).
			Where("course_id = ?", courseID).
			Select("COALESCE(MAX(sort_order), 0)").
			Scan(&maxOrder).Error
		if err != nil {
			return err
		}
		lesson.Order = maxOrder + 1
		return tx.Create(lesson).Error
	})
	if err != nil {
		return nil, err
	}
	return lesson, nil
}

// ListForUser returns a course's lessons in order, each carrying the
// user's watch state and the derived embed/thumbnail URLs.
func (r *Repository) ListForUser(courseID, userID string) ([]View, error) {
	if err := r.courseExists(courseID); err != nil {
		return nil, err
	}

	var lessonRows []entities.Lesson
	err := r.db.Where("course_id = ?", courseID).
		Order("sort_order ASC").
		Find(&lessonRows).Error
	if err != nil {
		return nil, err
	}
	if len(lessonRows) == 0 {
		return nil, ErrNoLessons
	}

	lessonIDs := make([]string, 0, len(lessonRows))
	for _, lesson := range lessonRows {
		lessonIDs = append(lessonIDs, lesson.ID)
	}

	var progressRows []entities.LessonProgress
	err = r.db.Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
		Find(&progressRows).Error
	if err != nil {
		return nil, err
	}
	progressByLesson := make(map[string]entities.LessonProgress, len(progressRows))
	for _, progress := range progressRows {
		progressByLesson[progress.LessonID] = progress
	}

	views := make([]View, 0, len(lessonRows))
	for _, lesson := range lessonRows {
		view := View{
			ID:          lesson.ID,
			Title:       lesson.Title,
			Description: lesson.Description,
			YoutubeURL:  lesson.YoutubeURL,
			Order:       lesson.Order,
			CreatedAt:   lesson.CreatedAt,
		}
		if videoID, err := youtube.Validate(lesson.YoutubeURL); err == nil {
			view.EmbedURL = youtube.EmbedURL(videoID)
			view.ThumbnailURL = youtube.ThumbnailURL(videoID)
		}
		if progress, ok := progressByLesson[lesson.ID]; ok {
			view.Watched = progress.Watched
			view.WatchedAt = progress.WatchedAt
		}
		views = append(views, view)
	}
	return views, nil
}

// UpdateParams carries the optional fields of a partial lesson update.
// Nil fields are preserved.
type UpdateParams struct {
	Title       *string
	Description *string
	YoutubeURL  *string
	Order       *int
}

// Update patches only the supplied fields and refreshes updated_at.
// A supplied youtube URL must validate.
func (r *Repository) Update(lessonID string, params UpdateParams) (*entities.Lesson, error) {
	lesson, err := r.getWithCourse(lessonID)
	if err != nil {
		return nil, err
	}

	if params.YoutubeURL != nil {
		if _, err := youtube.Validate(*params.YoutubeURL); err != nil {
			return nil, err
		}
	}

	updates := map[string]any{}
	if params.Title != nil {
		updates["title"] = *params.Title
	}
	if params.Description != nil {
		updates["description"] = *params.Description
	}
	if params.YoutubeURL != nil {
		updates["youtube_url"] = *params.YoutubeURL
	}
	if params.Order != nil {
		updates["sort_order"] = *params.Order
	}
	if len(updates) == 0 {
		return lesson, nil
	}

	if err := r.db.Model(lesson).Updates(updates).Error; err != nil {
		return nil, err
	}
	return lesson, nil
}

// Delete removes a lesson and its progress rows in one transaction.
// Remaining lessons keep their order values; gaps are permitted.
func (r *Repository) Delete(lessonID string) error {
	if _, err := r.getWithCourse(lessonID); err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", lessonID).Delete(&entities.LessonProgress{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Lesson{}, "id = ?", lessonID).Error
	})
}

// SetWatched upserts the user's progress for a lesson, keyed by the
// (user, lesson) unique constraint. Marking watched stamps watchedAt;
// unmarking clears it.
func (r *Repository) SetWatched(lessonID, userID string, watched bool) (*entities.LessonProgress, error) {
	if _, err := r.getWithCourse(lessonID); err != nil {
		return nil, err
	}

	var watchedAt *time.Time
	if watched {
		now := time.Now()
		watchedAt = &now
	}

	var progress entities.LessonProgress
	err := r.db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = entities.LessonProgress{
			UserID:    userID,
			LessonID:  lessonID,
			Watched:   watched,
			WatchedAt: watchedAt,
		}
		err = r.db.Create(&progress).Error
		if err == nil {
			return &progress, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// A concurrent request inserted the row between the read and
		// the create; the unique index caught it. Load the winner's
		// row and update it instead.
		err = r.db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error
	}
	if err != nil {
		return nil, err
	}

	err = r.db.Model(&progress).Updates(map[string]any{
		"watched":    watched,
		"watched_at": watchedAt,
	}).Error
	if err != nil {
		return nil, err
	}
	progress.Watched = watched
	progress.WatchedAt = watchedAt
	return &progress, nil
}

// CourseProgress computes the user's completion state for a course.
// Returns ErrCourseNotFound for a missing course and ErrNoLessons for
// a course without lessons; the two are distinct on purpose.
func (r *Repository) CourseProgress(courseID, userID string) (*Progress, error) {
	var course entities.Course
	err := r.db.Select("id, title").First(&course, "id = ?", courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}

	var totalLessons int64
	err = r.db.Model(&entities.Lesson{}).
		Where("course_id = ?", courseID).
		Count(&totalLessons).Error
	if err != nil {
		return nil, err
	}
	if totalLessons == 0 {
		return nil, ErrNoLessons
	}

	watchedQuery := r.db.Model(&entities.LessonProgress{}).
		Joins("INNER JOIN lessons ON lessons.id = lesson_progress.lesson_id").
		Where("lessons.course_id = ? AND lesson_progress.user_id = ? AND lesson_progress.watched = ?",
			courseID, userID, true)

	var watchedLessons int64
	if err := watchedQuery.Count(&watchedLessons).Error; err != nil {
		return nil, err
	}

	progress := &Progress{
		CourseID:       course.ID,
		CourseTitle:    course.Title,
		TotalLessons:   int(totalLessons),
		WatchedLessons: int(watchedLessons),
		Percentage:     int(math.Round(float64(watchedLessons) / float64(totalLessons) * 100)),
	}

	if watchedLessons > 0 {
		var last entities.LessonProgress
		err = r.db.Model(&entities.LessonProgress{}).
			Joins("INNER JOIN lessons ON lessons.id = lesson_progress.lesson_id").
			Where("lessons.course_id = ? AND lesson_progress.user_id = ? AND lesson_progress.watched = ?",
				courseID, userID, true).
			Order("lesson_progress.watched_at DESC").
			First(&last).Error
		if err != nil {
			return nil, err
		}
		progress.LastWatchedAt = last.WatchedAt
	}

	return progress, nil
}
