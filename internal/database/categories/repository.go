// Package categories provides database operations for course
// categories.
package categories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/andresilva/courseapi/internal/entities"
)

var (
	ErrNotFound      = errors.New("category not found")
	ErrDuplicateName = errors.New("a category with this name already exists")
)

// Repository handles all category database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every category, newest first.
func (r *Repository) List() ([]entities.Category, error) {
	categories := []entities.Category{}
	err := r.db.Order("created_at DESC, id ASC").Find(&categories).Error
	return categories, err
}

func (r *Repository) GetByID(id string) (*entities.Category, error) {
	var category entities.Category
	err := r.db.First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Create inserts a new category. The unique index on name is the
// authoritative duplicate guard.
func (r *Repository) Create(name, description, color string) (*entities.Category, error) {
	category := &entities.Category{
		Name:        name,
		Description: description,
		Color:       color,
	}
	err := r.db.Create(category).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrDuplicateName
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateParams carries the optional fields of a partial category
// update. Nil fields are preserved.
type UpdateParams struct {
	Name        *string
	Description *string
	Color       *string
}

func (r *Repository) Update(id string, params UpdateParams) (*entities.Category, error) {
	category, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if params.Name != nil {
		updates["name"] = *params.Name
	}
	if params.Description != nil {
		updates["description"] = *params.Description
	}
	if params.Color != nil {
		updates["color"] = *params.Color
	}
	if len(updates) == 0 {
		return category, nil
	}

	err = r.db.Model(category).Updates(updates).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrDuplicateName
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category and detaches the courses that referenced
// it. The courses survive with no category.
func (r *Repository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var category entities.Category
		err := tx.First(&category, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		err = tx.Model(&entities.Course{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
}
