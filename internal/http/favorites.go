package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresilva/courseapi/internal/auth"
	"github.com/andresilva/courseapi/internal/database/favorites"
	"github.com/andresilva/courseapi/internal/entities"
)

// FavoritesStore defines database operations for favorites management.
type FavoritesStore interface {
	Add(courseID, userID string) (*entities.Favorite, error)
	Remove(courseID, userID string) error
	Check(courseID, userID string) (*entities.Favorite, error)
	List(userID string, page, limit int) (*favorites.Page, error)
}

type FavoritesController struct {
	store FavoritesStore
}

func NewFavoritesController(store FavoritesStore) *FavoritesController {
	return &FavoritesController{store: store}
}

// AddFavorite favorites a course for the caller. Favoriting twice is
// a conflict.
// POST /api/courses/:id/favorite
func (fc *FavoritesController) AddFavorite(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	favorite, err := fc.store.Add(courseID, auth.UserID(c))
	if errors.Is(err, favorites.ErrCourseNotFound) {
		respondNotFound(c, "course")
		return
	}
	if errors.Is(err, favorites.ErrAlreadyFavorited) {
		respondConflict(c, err.Error())
		return
	}
	if err != nil {
		respondInternalError(c, err, "add favorite")
		return
	}
	respondCreated(c, favorite)
}

// RemoveFavorite unfavorites a course for the caller.
// DELETE /api/courses/:id/favorite
func (fc *FavoritesController) RemoveFavorite(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := fc.store.Remove(courseID, auth.UserID(c))
	if errors.Is(err, favorites.ErrCourseNotFound) {
		respondNotFound(c, "course")
		return
	}
	if errors.Is(err, favorites.ErrNotFavorited) {
		respondNotFound(c, "favorite")
		return
	}
	if err != nil {
		respondInternalError(c, err, "remove favorite")
		return
	}
	respondSuccess(c, "favorite removed")
}

// CheckFavorite reports whether the caller has favorited the course.
// GET /api/courses/:id/favorite
func (fc *FavoritesController) CheckFavorite(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	favorite, err := fc.store.Check(courseID, auth.UserID(c))
	if err != nil {
		respondInternalError(c, err, "check favorite")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"is_favorite": favorite != nil,
		"favorite":    favorite,
	})
}

// ListFavorites returns one page of the caller's favorites, most
// recently favorited first.
// GET /api/favorites
func (fc *FavoritesController) ListFavorites(c *gin.Context) {
	page, limit := parsePageQuery(c), parseLimitQuery(c, favorites.DefaultPageSize)
	result, err := fc.store.List(auth.UserID(c), page, limit)
	if err != nil {
		respondInternalError(c, err, "list favorites")
		return
	}
	c.JSON(http.StatusOK, result)
}
