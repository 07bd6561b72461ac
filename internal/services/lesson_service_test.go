package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	testutil "coursesite/internal/database/testutil"
	"coursesite/internal/models"
)

func TestLessonCreate(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	courses, err := NewCourseService(db)
	require.NoError(t, err)
	lessons, err := NewLessonService(db)
	require.NoError(t, err)

	course, err := courses.Create(context.Background(), CreateCourseInput{
		Title:       "Concurrency",
		Description: "Goroutines and channels.",
	})
	require.NoError(t, err)

	lesson, err := lessons.Create(context.Background(), CreateLessonInput{
		CourseID: course.ID,
		Title:    "Channels",
		Content:  "Unbuffered first.",
	})
	require.NoError(t, err)
	require.NotZero(t, lesson.ID)
	require.Equal(t, course.ID, lesson.CourseID)
}

func TestLessonCreateRequiresExistingCourse(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	lessons, err := NewLessonService(db)
	require.NoError(t, err)

	_, err = lessons.Create(context.Background(), CreateLessonInput{
		CourseID: 12345,
		Title:    "Orphan",
		Content:  "Should never land.",
	})
	require.ErrorIs(t, err, ErrCourseNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Lesson{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestLessonCreateRequiresFields(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	courses, err := NewCourseService(db)
	require.NoError(t, err)
	lessons, err := NewLessonService(db)
	require.NoError(t, err)

	course, err := courses.Create(context.Background(), CreateCourseInput{Title: "T", Description: "D"})
	require.NoError(t, err)

	_, err = lessons.Create(context.Background(), CreateLessonInput{CourseID: course.ID, Content: "c"})
	require.Error(t, err)

	_, err = lessons.Create(context.Background(), CreateLessonInput{CourseID: course.ID, Title: "t"})
	require.Error(t, err)
}

func TestLessonListOrderedByCreation(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	courses, err := NewCourseService(db)
	require.NoError(t, err)
	lessons, err := NewLessonService(db)
	require.NoError(t, err)

	course, err := courses.Create(context.Background(), CreateCourseInput{Title: "T", Description: "D"})
	require.NoError(t, err)

	base := time.Date(2024, 4, 2, 8, 0, 0, 0, time.UTC)
	// Insert out of order so the query has to sort.
	for i, title := range []string{"Third", "First", "Second"} {
		offset := []time.Duration{2 * time.Hour, 0, time.Hour}[i]
		require.NoError(t, db.Create(&models.Lesson{
			Title:     title,
			Content:   "content",
			CourseID:  course.ID,
			CreatedAt: base.Add(offset),
		}).Error)
	}

	got, err := lessons.ListByCourse(context.Background(), course.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "First", got[0].Title)
	require.Equal(t, "Second", got[1].Title)
	require.Equal(t, "Third", got[2].Title)
}

func TestLessonListEmptyCourse(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	lessons, err := NewLessonService(db)
	require.NoError(t, err)

	got, err := lessons.ListByCourse(context.Background(), 777)
	require.NoError(t, err)
	require.Empty(t, got)
}
