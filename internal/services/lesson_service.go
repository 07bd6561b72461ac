package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"coursesite/internal/models"
)

// LessonService manages lessons scoped to their parent course.
type LessonService struct {
	db *gorm.DB
}

// NewLessonService constructs a lesson service once a database handle is supplied.
func NewLessonService(db *gorm.DB) (*LessonService, error) {
	if db == nil {
		return nil, errors.New("lesson service: db is required")
	}
	return &LessonService{db: db}, nil
}

// ListByCourse returns a course's lessons ordered by creation time ascending.
func (s *LessonService) ListByCourse(ctx context.Context, courseID uint) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := s.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at ASC").
		Find(&lessons).Error
	if err != nil {
		return nil, fmt.Errorf("lesson service: list lessons: %w", err)
	}
	return lessons, nil
}

// CreateLessonInput captures the required fields when adding a lesson.
type CreateLessonInput struct {
	CourseID uint
	Title    string
	Content  string
}

// Create persists a lesson linked to an existing course. The parent course is
// checked first so a missing course surfaces as ErrCourseNotFound and no row
// is written.
func (s *LessonService) Create(ctx context.Context, input CreateLessonInput) (*models.Lesson, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" {
		return nil, errors.New("lesson service: title is required")
	}
	if content == "" {
		return nil, errors.New("lesson service: content is required")
	}

	var course models.Course
	err := s.db.WithContext(ctx).Select("id").First(&course, "id = ?", input.CourseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lesson service: find course: %w", err)
	}

	lesson := models.Lesson{
		Title:    title,
		Content:  content,
		CourseID: input.CourseID,
	}
	if err := s.db.WithContext(ctx).Create(&lesson).Error; err != nil {
		return nil, fmt.Errorf("lesson service: create lesson: %w", err)
	}

	return &lesson, nil
}
