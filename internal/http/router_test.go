package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andresilva/courseapi/internal/auth"
	"github.com/andresilva/courseapi/internal/database"
	"github.com/andresilva/courseapi/internal/database/categories"
	"github.com/andresilva/courseapi/internal/database/courses"
	"github.com/andresilva/courseapi/internal/database/enrollments"
	"github.com/andresilva/courseapi/internal/database/favorites"
	"github.com/andresilva/courseapi/internal/database/lessons"
	"github.com/andresilva/courseapi/internal/database/tags"
	"github.com/andresilva/courseapi/internal/database/users"
	"github.com/andresilva/courseapi/internal/entities"
	"github.com/andresilva/courseapi/internal/storage/providers/local"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	tokens *auth.TokenManager
}

func setupTestRouter(t *testing.T) (*testEnv, func()) {
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + t.Name() + ".db"
	gormDB, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = gormDB.AutoMigrate(
		&entities.User{},
		&entities.Category{},
		&entities.Tag{},
		&entities.Course{},
		&entities.CourseTag{},
		&entities.Lesson{},
		&entities.Enrollment{},
		&entities.LessonProgress{},
		&entities.Favorite{},
	)
	require.NoError(t, err)

	db := &database.Database{DB: gormDB}
	tokens := auth.NewTokenManager("test-secret")
	usersRepo := users.NewRepository(gormDB)
	coursesRepo := courses.NewRepository(gormDB)

	storageClient, err := local.NewClient(t.TempDir(), "/uploads")
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Database:         db,
		AuthService:      auth.NewService(usersRepo, tokens, bcrypt.MinCost),
		TokenManager:     tokens,
		CoursesStore:     coursesRepo,
		LessonsStore:     lessons.NewRepository(gormDB),
		EnrollmentsStore: enrollments.NewRepository(gormDB),
		FavoritesStore:   favorites.NewRepository(gormDB),
		CategoriesStore:  categories.NewRepository(gormDB),
		TagsStore:        tags.NewRepository(gormDB),
		UploadsStore:     coursesRepo,
		Storage:          storageClient,
		UploadsDir:       t.TempDir(),
		UploadsBaseURL:   "/uploads",
		MaxUploadBytes:   1 << 20,
		AllowedOrigins:   []string{"*"},
		Version:          "test",
	})

	cleanup := func() {
		sqlDB, _ := gormDB.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return &testEnv{router: router, db: gormDB, tokens: tokens}, cleanup
}

func (env *testEnv) createUser(t *testing.T, email string, role entities.UserRole) (*entities.User, string) {
	user := &entities.User{Name: "Test User", Email: email, Role: role}
	require.NoError(t, env.db.Create(user).Error)

	token, err := env.tokens.Generate(user)
	require.NoError(t, err)
	return user, token
}

func (env *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestRouter_RequiresAuthentication(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	w := env.request(t, http.MethodGet, "/api/courses", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.request(t, http.MethodGet, "/api/courses", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_HealthIsPublic(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	w := env.request(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_StudentCannotManageCatalog(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	_, token := env.createUser(t, "student@example.com", entities.UserRoleStudent)

	w := env.request(t, http.MethodPost, "/api/courses", token, gin.H{"title": "Sneaky Course"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_ManagerCourseLifecycle(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	_, token := env.createUser(t, "manager@example.com", entities.UserRoleManager)

	w := env.request(t, http.MethodPost, "/api/courses", token, gin.H{
		"title":       "Go for Beginners",
		"description": "An intro course",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created entities.Course
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)

	// Duplicate title is a conflict
	w = env.request(t, http.MethodPost, "/api/courses", token, gin.H{"title": "Go for Beginners"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.request(t, http.MethodPut, "/api/courses/"+created.ID, token, gin.H{"description": "updated"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodDelete, "/api/courses/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, "/api/courses/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_RegisterAndLogin(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	w := env.request(t, http.MethodPost, "/api/users", "", gin.H{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "secret-password",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	// Password hash never leaves the server
	assert.NotContains(t, w.Body.String(), "password")

	w = env.request(t, http.MethodPost, "/api/sessions", "", gin.H{
		"email":    "alice@example.com",
		"password": "secret-password",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var loginResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))
	require.NotEmpty(t, loginResp.Token)

	w = env.request(t, http.MethodGet, "/api/me", loginResp.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Wrong password and unknown email produce the same response
	wrong := env.request(t, http.MethodPost, "/api/sessions", "", gin.H{
		"email":    "alice@example.com",
		"password": "nope-nope-nope",
	})
	unknown := env.request(t, http.MethodPost, "/api/sessions", "", gin.H{
		"email":    "ghost@example.com",
		"password": "nope-nope-nope",
	})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
}

func TestRouter_RegisterWithRole(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	w := env.request(t, http.MethodPost, "/api/users", "", gin.H{
		"name":     "Bob",
		"email":    "bob@example.com",
		"password": "secret",
		"role":     "manager",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Token string        `json:"token"`
		User  entities.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, entities.UserRoleManager, created.User.Role)

	w = env.request(t, http.MethodPost, "/api/users", "", gin.H{
		"name":     "Eve",
		"email":    "eve@example.com",
		"password": "secret",
		"role":     "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_CourseTagBatch(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	course := &entities.Course{Title: "Go for Beginners"}
	require.NoError(t, env.db.Create(course).Error)
	tag := &entities.Tag{Name: "beginner"}
	require.NoError(t, env.db.Create(tag).Error)

	_, token := env.createUser(t, "manager@example.com", entities.UserRoleManager)

	w := env.request(t, http.MethodPost, "/api/courses/"+course.ID+"/tags", token, gin.H{
		"tag_ids": []string{tag.ID},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var addResp struct {
		AddedTags []entities.Tag `json:"added_tags"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &addResp))
	require.Len(t, addResp.AddedTags, 1)
	assert.Equal(t, tag.ID, addResp.AddedTags[0].ID)

	// Re-attaching the same batch attaches nothing
	w = env.request(t, http.MethodPost, "/api/courses/"+course.ID+"/tags", token, gin.H{
		"tag_ids": []string{tag.ID},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown tag ids reject the whole batch
	w = env.request(t, http.MethodPost, "/api/courses/"+course.ID+"/tags", token, gin.H{
		"tag_ids": []string{tag.ID, "7b4a7b39-0000-0000-0000-000000000000"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_EnrollAndFavoriteFlow(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	course := &entities.Course{Title: "Go for Beginners"}
	require.NoError(t, env.db.Create(course).Error)

	_, token := env.createUser(t, "student@example.com", entities.UserRoleStudent)

	w := env.request(t, http.MethodPost, "/api/courses/"+course.ID+"/enroll", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w = env.request(t, http.MethodPost, "/api/courses/"+course.ID+"/enroll", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.request(t, http.MethodPost, "/api/courses/"+course.ID+"/favorite", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodGet, "/api/courses/"+course.ID+"/favorite", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var checkResp struct {
		IsFavorite bool `json:"is_favorite"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &checkResp))
	assert.True(t, checkResp.IsFavorite)

	w = env.request(t, http.MethodGet, "/api/courses?page=1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listResp struct {
		Courses []courses.Summary `json:"courses"`
		Total   int64             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Len(t, listResp.Courses, 1)
	assert.Equal(t, int64(1), listResp.Courses[0].Enrollments)
	assert.True(t, listResp.Courses[0].IsFavorite)
}

func TestRouter_WatchProgressFlow(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	course := &entities.Course{Title: "Go for Beginners"}
	require.NoError(t, env.db.Create(course).Error)
	lesson := &entities.Lesson{
		CourseID:   course.ID,
		Title:      "Lesson 1",
		YoutubeURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Order:      1,
	}
	require.NoError(t, env.db.Create(lesson).Error)

	_, token := env.createUser(t, "student@example.com", entities.UserRoleStudent)

	w := env.request(t, http.MethodPost, "/api/lessons/"+lesson.ID+"/watched", token, gin.H{"watched": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, "/api/courses/"+course.ID+"/progress", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Course struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"course"`
		Progress struct {
			TotalLessons   int `json:"total_lessons"`
			WatchedLessons int `json:"watched_lessons"`
			Percentage     int `json:"percentage"`
		} `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, course.ID, resp.Course.ID)
	assert.Equal(t, "Go for Beginners", resp.Course.Title)
	assert.Equal(t, 1, resp.Progress.TotalLessons)
	assert.Equal(t, 1, resp.Progress.WatchedLessons)
	assert.Equal(t, 100, resp.Progress.Percentage)
}

func TestRouter_InvalidIDParam(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	_, token := env.createUser(t, "student@example.com", entities.UserRoleStudent)

	w := env.request(t, http.MethodGet, "/api/courses/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
