package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	testutil "coursesite/internal/database/testutil"
	"coursesite/internal/models"
)

func TestCourseCreateAndList(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewCourseService(db)
	require.NoError(t, err)

	created, err := svc.Create(context.Background(), CreateCourseInput{
		Title:       "Go from Scratch",
		Description: "An introduction to Go.",
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, "Go from Scratch", created.Title)
	require.Equal(t, "An introduction to Go.", created.Description)
	require.False(t, created.CreatedAt.IsZero())

	courses, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Equal(t, created.ID, courses[0].ID)
}

func TestCourseCreateRequiresFields(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewCourseService(db)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateCourseInput{Description: "no title"})
	require.Error(t, err)

	_, err = svc.Create(context.Background(), CreateCourseInput{Title: "no description"})
	require.Error(t, err)
}

func TestCourseGetIncludesOrderedLessons(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewCourseService(db)
	require.NoError(t, err)

	course, err := svc.Create(context.Background(), CreateCourseInput{
		Title:       "Databases",
		Description: "Relational fundamentals.",
	})
	require.NoError(t, err)

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, title := range []string{"First", "Second", "Third"} {
		lesson := models.Lesson{
			Title:     title,
			Content:   "content",
			CourseID:  course.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&lesson).Error)
	}

	got, err := svc.Get(context.Background(), course.ID)
	require.NoError(t, err)
	require.Len(t, got.Lessons, 3)
	require.Equal(t, "First", got.Lessons[0].Title)
	require.Equal(t, "Second", got.Lessons[1].Title)
	require.Equal(t, "Third", got.Lessons[2].Title)
}

func TestCourseGetUnknownID(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewCourseService(db)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), 9999)
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCourseDeleteRemovesLessons(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewCourseService(db)
	require.NoError(t, err)

	course, err := svc.Create(context.Background(), CreateCourseInput{
		Title:       "Doomed",
		Description: "Scheduled for removal.",
	})
	require.NoError(t, err)

	for _, title := range []string{"One", "Two"} {
		require.NoError(t, db.Create(&models.Lesson{
			Title:    title,
			Content:  "content",
			CourseID: course.ID,
		}).Error)
	}

	result, err := svc.Delete(context.Background(), course.ID)
	require.NoError(t, err)
	require.Equal(t, course.ID, result.Course.ID)
	require.Equal(t, int64(2), result.Lessons)

	_, err = svc.Get(context.Background(), course.ID)
	require.ErrorIs(t, err, ErrCourseNotFound)

	var orphaned int64
	require.NoError(t, db.Model(&models.Lesson{}).Where("course_id = ?", course.ID).Count(&orphaned).Error)
	require.Zero(t, orphaned)
}

func TestCourseDeleteUnknownID(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewCourseService(db)
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), 424242)
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCourseDeleteLeavesOtherCoursesAlone(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewCourseService(db)
	require.NoError(t, err)

	keep, err := svc.Create(context.Background(), CreateCourseInput{Title: "Keep", Description: "stays"})
	require.NoError(t, err)
	drop, err := svc.Create(context.Background(), CreateCourseInput{Title: "Drop", Description: "goes"})
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.Lesson{Title: "kept", Content: "c", CourseID: keep.ID}).Error)

	_, err = svc.Delete(context.Background(), drop.ID)
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), keep.ID)
	require.NoError(t, err)
	require.Len(t, got.Lessons, 1)

	var course models.Course
	require.NoError(t, db.First(&course, "id = ?", keep.ID).Error)
	require.ErrorIs(t, db.First(&models.Course{}, "id = ?", drop.ID).Error, gorm.ErrRecordNotFound)
}
