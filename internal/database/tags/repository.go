// Package tags provides database operations for tags and their
// attachment to courses.
//
// Attaching and detaching take a batch of tag ids and report exactly
// which tags changed. Every id in an attach batch must name an
// existing tag; ids that are already attached (or, on detach, not
// attached) are silently skipped unless the whole batch would be a
// no-op.
package tags

import (
	"errors"

	"gorm.io/gorm"

	"github.com/andresilva/courseapi/internal/entities"
)

var (
	ErrNotFound            = errors.New("tag not found")
	ErrCourseNotFound      = errors.New("course not found")
	ErrDuplicateName       = errors.New("a tag with this name already exists")
	ErrEmptyBatch          = errors.New("no tag ids supplied")
	ErrUnknownTags         = errors.New("one or more tags do not exist")
	ErrTagsAlreadyAttached = errors.New("all tags are already attached to the course")
	ErrNoTagsAttached      = errors.New("none of the tags are attached to the course")
)

// Repository handles all tag database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every tag ordered by name.
func (r *Repository) List() ([]entities.Tag, error) {
	tags := []entities.Tag{}
	err := r.db.Order("name ASC").Find(&tags).Error
	return tags, err
}

func (r *Repository) GetByID(id string) (*entities.Tag, error) {
	var tag entities.Tag
	err := r.db.First(&tag, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// Create inserts a new tag. The unique index on name is the
// authoritative duplicate guard.
func (r *Repository) Create(name, color string) (*entities.Tag, error) {
	tag := &entities.Tag{
		Name:  name,
		Color: color,
	}
	err := r.db.Create(tag).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrDuplicateName
	}
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// UpdateParams carries the optional fields of a partial tag update.
// Nil fields are preserved.
type UpdateParams struct {
	Name  *string
	Color *string
}

func (r *Repository) Update(id string, params UpdateParams) (*entities.Tag, error) {
	tag, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if params.Name != nil {
		updates["name"] = *params.Name
	}
	if params.Color != nil {
		updates["color"] = *params.Color
	}
	if len(updates) == 0 {
		return tag, nil
	}

	err = r.db.Model(tag).Updates(updates).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrDuplicateName
	}
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// Delete removes a tag and its course attachments in one transaction.
func (r *Repository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var tag entities.Tag
		err := tx.First(&tag, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Where("tag_id = ?", id).Delete(&entities.CourseTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}

// ForCourse returns the tags attached to a course ordered by name.
func (r *Repository) ForCourse(courseID string) ([]entities.Tag, error) {
	if err := r.courseExists(courseID); err != nil {
		return nil, err
	}

	tags := []entities.Tag{}
	err := r.db.Model(&entities.Tag{}).
		Joins("INNER JOIN course_tags ON course_tags.tag_id = tags.id").
		Where("course_tags.course_id = ?", courseID).
		Order("tags.name ASC").
		Find(&tags).Error
	return tags, err
}

// AddToCourse attaches a batch of tags to a course and returns the
// tags that were newly attached. Every id must name an existing tag.
// Ids already attached are skipped; a batch where every id is already
// attached is rejected with ErrTagsAlreadyAttached.
func (r *Repository) AddToCourse(courseID string, tagIDs []string) ([]entities.Tag, error) {
	if len(tagIDs) == 0 {
		return nil, ErrEmptyBatch
	}
	if err := r.courseExists(courseID); err != nil {
		return nil, err
	}

	added := []entities.Tag{}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		existing := []entities.Tag{}
		if err := tx.Where("id IN ?", tagIDs).Find(&existing).Error; err != nil {
			return err
		}
		if len(existing) != len(uniqueIDs(tagIDs)) {
			return ErrUnknownTags
		}

		attachedIDs := []string{}
		err := tx.Model(&entities.CourseTag{}).
			Where("course_id = ? AND tag_id IN ?", courseID, tagIDs).
			Pluck("tag_id", &attachedIDs).Error
		if err != nil {
			return err
		}
		attached := make(map[string]bool, len(attachedIDs))
		for _, id := range attachedIDs {
			attached[id] = true
		}

		for _, tag := range existing {
			if attached[tag.ID] {
				continue
			}
			err := tx.Create(&entities.CourseTag{CourseID: courseID, TagID: tag.ID}).Error
			if err != nil {
				return err
			}
			added = append(added, tag)
		}
		if len(added) == 0 {
			return ErrTagsAlreadyAttached
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// RemoveFromCourse detaches a batch of tags from a course and returns
// the tags that were actually removed. A batch where no id is attached
// is rejected with ErrNoTagsAttached.
func (r *Repository) RemoveFromCourse(courseID string, tagIDs []string) ([]entities.Tag, error) {
	if len(tagIDs) == 0 {
		return nil, ErrEmptyBatch
	}
	if err := r.courseExists(courseID); err != nil {
		return nil, err
	}

	removed := []entities.Tag{}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		attachedIDs := []string{}
		err := tx.Model(&entities.CourseTag{}).
			Where("course_id = ? AND tag_id IN ?", courseID, tagIDs).
			Pluck("tag_id", &attachedIDs).Error
		if err != nil {
			return err
		}
		if len(attachedIDs) == 0 {
			return ErrNoTagsAttached
		}

		err = tx.Where("course_id = ? AND tag_id IN ?", courseID, attachedIDs).
			Delete(&entities.CourseTag{}).Error
		if err != nil {
			return err
		}
		return tx.Where("id IN ?", attachedIDs).Order("name ASC").Find(&removed).Error
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (r *Repository) courseExists(courseID string) error {
	var course entities.Course
	err := r.db.Select("id").First(&course, "id = ?", courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCourseNotFound
	}
	return err
}
