package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresilva/courseapi/internal/database/tags"
	"github.com/andresilva/courseapi/internal/entities"
	"github.com/andresilva/courseapi/internal/utils"
)

// TagsStore defines database operations for tag management.
type TagsStore interface {
	List() ([]entities.Tag, error)
	Create(name, color string) (*entities.Tag, error)
	Update(id string, params tags.UpdateParams) (*entities.Tag, error)
	Delete(id string) error
	ForCourse(courseID string) ([]entities.Tag, error)
	AddToCourse(courseID string, tagIDs []string) ([]entities.Tag, error)
	RemoveFromCourse(courseID string, tagIDs []string) ([]entities.Tag, error)
}

type TagsController struct {
	store TagsStore
}

func NewTagsController(store TagsStore) *TagsController {
	return &TagsController{store: store}
}

// ListTags returns all tags ordered by name.
// GET /api/tags
func (tc *TagsController) ListTags(c *gin.Context) {
	list, err := tc.store.List()
	if err != nil {
		respondInternalError(c, err, "list tags")
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateTag creates a tag. Manager only.
// POST /api/tags
func (tc *TagsController) CreateTag(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Color string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}
	if !utils.IsValidHexColor(req.Color) {
		respondBadRequest(c, "color must be a hex color like #2563eb")
		return
	}

	tag, err := tc.store.Create(req.Name, req.Color)
	if errors.Is(err, tags.ErrDuplicateName) {
		respondConflict(c, err.Error())
		return
	}
	if err != nil {
		respondInternalError(c, err, "create tag")
		return
	}
	respondCreated(c, tag)
}

// UpdateTag patches a tag. Manager only.
// PUT /api/tags/:id
func (tc *TagsController) UpdateTag(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
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

	tag, err := tc.store.Update(id, tags.UpdateParams{
		Name:  req.Name,
		Color: req.Color,
	})
	if errors.Is(err, tags.ErrNotFound) {
		respondNotFound(c, "tag")
		return
	}
	if errors.Is(err, tags.ErrDuplicateName) {
		respondConflict(c, err.Error())
		return
	}
	if err != nil {
		respondInternalError(c, err, "update tag")
		return
	}
	c.JSON(http.StatusOK, tag)
}

// DeleteTag removes a tag and its course attachments. Manager only.
// DELETE /api/tags/:id
func (tc *TagsController) DeleteTag(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := tc.store.Delete(id)
	if errors.Is(err, tags.ErrNotFound) {
		respondNotFound(c, "tag")
		return
	}
	if err != nil {
		respondInternalError(c, err, "delete tag")
		return
	}
	respondSuccess(c, "tag deleted")
}

// ListCourseTags returns the tags attached to a course.
// GET /api/courses/:id/tags
func (tc *TagsController) ListCourseTags(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := tc.store.ForCourse(courseID)
	if errors.Is(err, tags.ErrCourseNotFound) {
		respondNotFound(c, "course")
		return
	}
	if err != nil {
		respondInternalError(c, err, "list course tags")
		return
	}
	c.JSON(http.StatusOK, list)
}

// AddCourseTags attaches a batch of tags to a course and reports the
// ones that were newly attached. Every id must name an existing tag;
// a batch that would attach nothing is rejected. Manager only.
// POST /api/courses/:id/tags
func (tc *TagsController) AddCourseTags(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		TagIDs []string `json:"tag_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "tag_ids is required")
		return
	}

	added, err := tc.store.AddToCourse(courseID, req.TagIDs)
	if errors.Is(err, tags.ErrCourseNotFound) {
		respondNotFound(c, "course")
		return
	}
	switch {
	case errors.Is(err, tags.ErrEmptyBatch),
		errors.Is(err, tags.ErrUnknownTags),
		errors.Is(err, tags.ErrTagsAlreadyAttached):
		respondBadRequest(c, err.Error())
		return
	case err != nil:
		respondInternalError(c, err, "add course tags")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    fmt.Sprintf("%d tag(s) added to course", len(added)),
		"added_tags": added,
	})
}

// RemoveCourseTags detaches a batch of tags from a course and reports
// the ones actually removed. A batch where no tag is attached is
// rejected. Manager only.
// DELETE /api/courses/:id/tags
func (tc *TagsController) RemoveCourseTags(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		TagIDs []string `json:"tag_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "tag_ids is required")
		return
	}

	removed, err := tc.store.RemoveFromCourse(courseID, req.TagIDs)
	if errors.Is(err, tags.ErrCourseNotFound) {
		respondNotFound(c, "course")
		return
	}
	switch {
	case errors.Is(err, tags.ErrEmptyBatch),
		errors.Is(err, tags.ErrNoTagsAttached):
		respondBadRequest(c, err.Error())
		return
	case err != nil:
		respondInternalError(c, err, "remove course tags")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      fmt.Sprintf("%d tag(s) removed from course", len(removed)),
		"removed_tags": removed,
	})
}
