package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleStudent UserRole = "student"
	UserRoleManager UserRole = "manager"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Name         string    `gorm:"size:255" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	Role         UserRole  `gorm:"size:20;default:'student'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Category struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:255" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Color       string    `gorm:"size:10" json:"color,omitempty"` // hex color
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Tag struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100" json:"name"`
	Color     string    `gorm:"size:10" json:"color,omitempty"` // hex color
	CreatedAt time.Time `json:"created_at"`
}

type Course struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"uniqueIndex;size:512" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	ImageURL    string    `gorm:"size:2048" json:"image_url,omitempty"`
	ImageKey    string    `gorm:"size:512" json:"-"` // storage key for deleting the image
	CategoryID  *string   `gorm:"size:36;index" json:"category_id,omitempty"`
	Category    *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CourseTag is the explicit join row between courses and tags. It is
// managed directly rather than through gorm associations so that
// add/remove can report exactly which rows changed.
type CourseTag struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CourseID  string    `gorm:"size:36;uniqueIndex:idx_course_tag" json:"course_id"`
	TagID     string    `gorm:"size:36;uniqueIndex:idx_course_tag" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Lesson struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	CourseID    string    `gorm:"size:36;index" json:"course_id"`
	Title       string    `gorm:"size:512" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	YoutubeURL  string    `gorm:"size:2048" json:"youtube_url"`
	Order       int       `gorm:"column:sort_order" json:"order"` // append-only per course, gaps allowed
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Enrollment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;uniqueIndex:idx_user_course_enrollment" json:"user_id"`
	CourseID  string    `gorm:"size:36;uniqueIndex:idx_user_course_enrollment;index" json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}

type LessonProgress struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	UserID    string     `gorm:"size:36;uniqueIndex:idx_user_lesson_progress" json:"user_id"`
	LessonID  string     `gorm:"size:36;uniqueIndex:idx_user_lesson_progress;index" json:"lesson_id"`
	Watched   bool       `gorm:"default:false" json:"watched"`
	WatchedAt *time.Time `json:"watched_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type Favorite struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;uniqueIndex:idx_user_course_favorite" json:"user_id"`
	CourseID  string    `gorm:"size:36;uniqueIndex:idx_user_course_favorite;index" json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (ct *CourseTag) BeforeCreate(tx *gorm.DB) error {
	if ct.ID == "" {
		ct.ID = uuid.NewString()
	}
	return nil
}

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

func (lp *LessonProgress) BeforeCreate(tx *gorm.DB) error {
	if lp.ID == "" {
		lp.ID = uuid.NewString()
	}
	return nil
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
