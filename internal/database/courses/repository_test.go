package courses

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andresilva/courseapi/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_courses_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
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

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *entities.User {
	user := &entities.User{
		Name:  "Test User",
		Email: email,
		Role:  entities.UserRoleStudent,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCourse(t *testing.T, db *gorm.DB, title string) *entities.Course {
	course := &entities.Course{Title: title}
	require.NoError(t, db.Create(course).Error)
	return course
}

func TestRepository_Create(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	course, err := repo.Create("Go for Beginners", "An intro course", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, course.ID)
	assert.Equal(t, "Go for Beginners", course.Title)
}

func TestRepository_Create_DuplicateTitle(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create("Go for Beginners", "", nil)
	require.NoError(t, err)

	_, err = repo.Create("Go for Beginners", "different description", nil)
	assert.ErrorIs(t, err, ErrDuplicateTitle)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetByID("7b4a7b39-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_List_EnrichesSummaries(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	category := &entities.Category{Name: "Backend", Color: "#16a34a"}
	require.NoError(t, db.Create(category).Error)

	course, err := repo.Create("Go for Beginners", "", &category.ID)
	require.NoError(t, err)
	other, err := repo.Create("Rust for Beginners", "", nil)
	require.NoError(t, err)

	tag := &entities.Tag{Name: "beginner"}
	require.NoError(t, db.Create(tag).Error)
	require.NoError(t, db.Create(&entities.CourseTag{CourseID: course.ID, TagID: tag.ID}).Error)

	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	require.NoError(t, db.Create(&entities.Enrollment{UserID: alice.ID, CourseID: course.ID}).Error)
	require.NoError(t, db.Create(&entities.Enrollment{UserID: bob.ID, CourseID: course.ID}).Error)
	require.NoError(t, db.Create(&entities.Favorite{UserID: alice.ID, CourseID: course.ID}).Error)

	summaries, total, err := repo.List(ListParams{}, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, summaries, 2)

	// Default order is title ASC, so the Go course comes first.
	first := summaries[0]
	assert.Equal(t, course.ID, first.ID)
	assert.Equal(t, int64(2), first.Enrollments)
	assert.True(t, first.IsFavorite)
	require.NotNil(t, first.Category)
	assert.Equal(t, "Backend", first.Category.Name)
	require.Len(t, first.Tags, 1)
	assert.Equal(t, "beginner", first.Tags[0].Name)

	second := summaries[1]
	assert.Equal(t, other.ID, second.ID)
	assert.Equal(t, int64(0), second.Enrollments)
	assert.False(t, second.IsFavorite)
	assert.Nil(t, second.Category)
	assert.Empty(t, second.Tags)
}

func TestRepository_List_SearchAndCategoryFilter(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	category := &entities.Category{Name: "Backend"}
	require.NoError(t, db.Create(category).Error)

	_, err := repo.Create("Advanced Go", "", &category.ID)
	require.NoError(t, err)
	_, err = repo.Create("Advanced Rust", "", nil)
	require.NoError(t, err)
	_, err = repo.Create("Intro to SQL", "", &category.ID)
	require.NoError(t, err)

	summaries, total, err := repo.List(ListParams{Search: "advanced"}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, summaries, 2)

	summaries, total, err = repo.List(ListParams{Search: "advanced", CategoryID: category.ID}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Advanced Go", summaries[0].Title)
}

func TestRepository_List_Pagination(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	titles := []string{
		"Course A", "Course B", "Course C", "Course D", "Course E",
		"Course F", "Course G", "Course H", "Course I", "Course J",
		"Course K", "Course L",
	}
	for _, title := range titles {
		createTestCourse(t, db, title)
	}

	page1, total, err := repo.List(ListParams{Page: 1}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Len(t, page1, PageSize)
	assert.Equal(t, "Course A", page1[0].Title)

	page2, total, err := repo.List(ListParams{Page: 2}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, page2, 2)
	assert.Equal(t, "Course K", page2[0].Title)

	page3, total, err := repo.List(ListParams{Page: 3}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Empty(t, page3)
}

func TestRepository_List_SortDescending(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestCourse(t, db, "Alpha")
	createTestCourse(t, db, "Zulu")

	summaries, _, err := repo.List(ListParams{OrderBy: "title", SortType: "desc"}, "")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Zulu", summaries[0].Title)
}

func TestRepository_Update_PartialPatch(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	course, err := repo.Create("Go for Beginners", "original description", nil)
	require.NoError(t, err)

	newTitle := "Go for Everyone"
	updated, err := repo.Update(course.ID, UpdateParams{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Go for Everyone", updated.Title)

	// Description untouched
	fetched, err := repo.GetByID(course.ID)
	require.NoError(t, err)
	assert.Equal(t, "original description", fetched.Description)
}

func TestRepository_SetImage_ReturnsPreviousKey(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	course, err := repo.Create("Go for Beginners", "", nil)
	require.NoError(t, err)

	previous, err := repo.SetImage(course.ID, "/uploads/one.jpg", "one.jpg")
	require.NoError(t, err)
	assert.Empty(t, previous)

	previous, err = repo.SetImage(course.ID, "/uploads/two.jpg", "two.jpg")
	require.NoError(t, err)
	assert.Equal(t, "one.jpg", previous)

	keys, err := repo.ImageKeys()
	require.NoError(t, err)
	assert.Equal(t, []string{"two.jpg"}, keys)
}

func TestRepository_Delete_Cascades(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	course, err := repo.Create("Go for Beginners", "", nil)
	require.NoError(t, err)

	lesson := &entities.Lesson{CourseID: course.ID, Title: "Lesson 1", Order: 1}
	require.NoError(t, db.Create(lesson).Error)

	user := createTestUser(t, db, "alice@example.com")
	require.NoError(t, db.Create(&entities.Enrollment{UserID: user.ID, CourseID: course.ID}).Error)
	require.NoError(t, db.Create(&entities.Favorite{UserID: user.ID, CourseID: course.ID}).Error)
	require.NoError(t, db.Create(&entities.LessonProgress{UserID: user.ID, LessonID: lesson.ID, Watched: true}).Error)

	tag := &entities.Tag{Name: "beginner"}
	require.NoError(t, db.Create(tag).Error)
	require.NoError(t, db.Create(&entities.CourseTag{CourseID: course.ID, TagID: tag.ID}).Error)

	require.NoError(t, repo.Delete(course.ID))

	for _, model := range []any{
		&entities.Course{}, &entities.Lesson{}, &entities.Enrollment{},
		&entities.Favorite{}, &entities.LessonProgress{}, &entities.CourseTag{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T rows should be gone", model)
	}

	// The tag itself survives
	var tagCount int64
	require.NoError(t, db.Model(&entities.Tag{}).Count(&tagCount).Error)
	assert.Equal(t, int64(1), tagCount)
}

func TestRepository_Delete_NotFound(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Delete("7b4a7b39-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}
