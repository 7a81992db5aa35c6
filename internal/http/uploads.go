package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/andresilva/courseapi/internal/auth"
	"github.com/andresilva/courseapi/internal/database/courses"
	"github.com/andresilva/courseapi/internal/storage"
)

// UploadsCourseStore is the slice of the courses repository the upload
// controller needs.
type UploadsCourseStore interface {
	SetImage(id, url, key string) (previousKey string, err error)
}

type UploadsController struct {
	store    UploadsCourseStore
	storage  storage.Client
	maxBytes int64
}

func NewUploadsController(store UploadsCourseStore, client storage.Client, maxBytes int64) *UploadsController {
	return &UploadsController{
		store:    store,
		storage:  client,
		maxBytes: maxBytes,
	}
}

// UploadCourseImage accepts a multipart image, normalizes it to the
// standard size, stores it, and points the course at it. The image it
// replaced is deleted best-effort after the database update. Manager only.
// POST /api/courses/:id/image
func (uc *UploadsController) UploadCourseImage(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondBadRequest(c, "image file is required")
		return
	}
	if fileHeader.Size > uc.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "image exceeds maximum upload size"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondInternalError(c, err, "open upload")
		return
	}
	defer file.Close()

	normalized, err := storage.NormalizeImage(file)
	if errors.Is(err, storage.ErrUnsupportedImage) {
		respondBadRequest(c, "file is not a supported image")
		return
	}
	if err != nil {
		respondInternalError(c, err, "normalize image")
		return
	}

	key := fmt.Sprintf("courses/%s/%s.jpg", auth.UserID(c), uuid.NewString())
	if err := uc.storage.Save(c.Request.Context(), key, bytes.NewReader(normalized)); err != nil {
		respondInternalError(c, err, "store image")
		return
	}

	url := uc.storage.URL(key)
	previousKey, err := uc.store.SetImage(courseID, url, key)
	if errors.Is(err, courses.ErrNotFound) {
		// The sweeper will reclaim the stored object.
		respondNotFound(c, "course")
		return
	}
	if err != nil {
		respondInternalError(c, err, "set course image")
		return
	}

	if previousKey != "" && previousKey != key {
		if err := uc.storage.Delete(context.Background(), previousKey); err != nil {
			log.Printf("failed to delete replaced image %s: %v", previousKey, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"image_url": url})
}
