package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresilva/courseapi/internal/database/categories"
	"github.com/andresilva/courseapi/internal/entities"
	"github.com/andresilva/courseapi/internal/utils"
)

// CategoriesStore defines database operations for category management.
type CategoriesStore interface {
	List() ([]entities.Category, error)
	Create(name, description, color string) (*entities.Category, error)
	Update(id string, params categories.UpdateParams) (*entities.Category, error)
	Delete(id string) error
}

type CategoriesController struct {
	store CategoriesStore
}

func NewCategoriesController(store CategoriesStore) *CategoriesController {
	return &CategoriesController{store: store}
}

// ListCategories returns all categories, newest first.
// GET /api/categories
func (cc *CategoriesController) ListCategories(c *gin.Context) {
	list, err := cc.store.List()
	if err != nil {
		respondInternalError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateCategory creates a category. Manager only.
// POST /api/categories
func (cc *CategoriesController) CreateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Color       string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}
	if !utils.IsValidHexColor(req.Color) {
		respondBadRequest(c, "color must be a hex color like #2563eb")
		return
	}

	category, err := cc.store.Create(req.Name, req.Description, req.Color)
	if errors.Is(err, categories.ErrDuplicateName) {
		respondConflict(c, err.Error())
		return
	}
	if err != nil {
		respondInternalError(c, err, "create category")
		return
	}
	respondCreated(c, category)
}

// UpdateCategory patches a category. Manager only.
// PUT /api/categories/:id
func (cc *CategoriesController) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Color       *string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Name != nil && *req.Name == "" {
		respondBadRequest(c, "name cannot be empty")
		return
	}
	if req.Color != nil && !utils.IsValidHexColor(*req.Color) {
		respondBadRequest(c, "color must be a hex color like #2563eb")
		return
	}

	category, err := cc.store.Update(id, categories.UpdateParams{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if errors.Is(err, categories.ErrNotFound) {
		respondNotFound(c, "category")
		return
	}
	if errors.Is(err, categories.ErrDuplicateName) {
		respondConflict(c, err.Error())
		return
	}
	if err != nil {
		respondInternalError(c, err, "update category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category. Courses that referenced it are
// detached, not deleted. Manager only.
// DELETE /api/categories/:id
func (cc *CategoriesController) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := cc.store.Delete(id)
	if errors.Is(err, categories.ErrNotFound) {
		respondNotFound(c, "category")
		return
	}
	if err != nil {
		respondInternalError(c, err, "delete category")
		return
	}
	respondSuccess(c, "category deleted")
}
