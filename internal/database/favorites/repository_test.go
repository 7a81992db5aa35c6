package favorites

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andresilva/courseapi/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_favorites_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Course{},
		&entities.Favorite{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *entities.User {
	user := &entities.User{Name: "Test User", Email: email}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRepository_AddAndRemove(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	course := &entities.Course{Title: "Go for Beginners"}
	require.NoError(t, db.Create(course).Error)
	user := createTestUser(t, db, "alice@example.com")

	_, err := repo.Add(course.ID, user.ID)
	require.NoError(t, err)

	fav, err := repo.Check(course.ID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, fav)
	assert.Equal(t, course.ID, fav.CourseID)

	_, err = repo.Add(course.ID, user.ID)
	assert.ErrorIs(t, err, ErrAlreadyFavorited)

	require.NoError(t, repo.Remove(course.ID, user.ID))

	fav, err = repo.Check(course.ID, user.ID)
	require.NoError(t, err)
	assert.Nil(t, fav)

	err = repo.Remove(course.ID, user.ID)
	assert.ErrorIs(t, err, ErrNotFavorited)
}

func TestRepository_Add_CourseNotFound(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Add("7b4a7b39-0000-0000-0000-000000000000", "some-user")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestRepository_List_PaginationEnvelope(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice@example.com")

	// 12 favorites, created oldest first
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		course := &entities.Course{Title: fmt.Sprintf("Course %02d", i)}
		require.NoError(t, db.Create(course).Error)
		favorite := &entities.Favorite{
			UserID:    user.ID,
			CourseID:  course.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(favorite).Error)
	}

	page, err := repo.List(user.ID, 1, DefaultPageSize)
	require.NoError(t, err)
	assert.Equal(t, int64(12), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Entries, DefaultPageSize)
	// Most recently favorited first, carrying the favorite row's own
	// id and timestamp alongside the course summary
	assert.Equal(t, "Course 11", page.Entries[0].Title)
	assert.NotEmpty(t, page.Entries[0].ID)
	assert.NotEqual(t, page.Entries[0].CourseID, page.Entries[0].ID)
	assert.WithinDuration(t, base.Add(11*time.Minute), page.Entries[0].CreatedAt, time.Second)

	page2, err := repo.List(user.ID, 2, DefaultPageSize)
	require.NoError(t, err)
	require.Len(t, page2.Entries, 2)
	assert.Equal(t, "Course 01", page2.Entries[0].Title)

	// Out of range page keeps the envelope
	page9, err := repo.List(user.ID, 9, DefaultPageSize)
	require.NoError(t, err)
	assert.Empty(t, page9.Entries)
	assert.Equal(t, int64(12), page9.Total)
	assert.Equal(t, 2, page9.TotalPages)

	// Caller supplied page size
	small, err := repo.List(user.ID, 1, 5)
	require.NoError(t, err)
	require.Len(t, small.Entries, 5)
	assert.Equal(t, 3, small.TotalPages)
}

func TestRepository_List_Empty(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice@example.com")

	page, err := repo.List(user.ID, 1, DefaultPageSize)
	require.NoError(t, err)
	assert.Empty(t, page.Entries)
	assert.Equal(t, int64(0), page.Total)
	assert.Equal(t, 0, page.TotalPages)
}
