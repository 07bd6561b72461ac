package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"coursesite/internal/models"
	"coursesite/pkg/metrics"
)

// ErrCourseNotFound indicates the requested course does not exist.
var ErrCourseNotFound = errors.New("course service: course not found")

// CourseService manages the course catalog.
type CourseService struct {
	db *gorm.DB
}

// NewCourseService constructs a course service once a database handle is supplied.
func NewCourseService(db *gorm.DB) (*CourseService, error) {
	if db == nil {
		return nil, errors.New("course service: db is required")
	}
	return &CourseService{db: db}, nil
}

// List returns every course in the catalog.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := s.db.WithContext(ctx).Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("course service: list courses: %w", err)
	}
	return courses, nil
}

// Get retrieves a course together with its lessons.
func (s *CourseService) Get(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	err := s.db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&course, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("course service: get course: %w", err)
	}
	return &course, nil
}

// CreateCourseInput captures the required fields when creating a course.
type CreateCourseInput struct {
	Title       string
	Description string
}

// Create persists a new course with a server-assigned id and timestamp.
func (s *CourseService) Create(ctx context.Context, input CreateCourseInput) (*models.Course, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" {
		return nil, errors.New("course service: title is required")
	}
	if description == "" {
		return nil, errors.New("course service: description is required")
	}

	course := models.Course{Title: title, Description: description}
	if err := s.db.WithContext(ctx).Create(&course).Error; err != nil {
		return nil, fmt.Errorf("course service: create course: %w", err)
	}

	metrics.CourseOperations.WithLabelValues("create").Inc()
	return &course, nil
}

// DeleteResult reports the rows removed by a course deletion.
type DeleteResult struct {
	Course  models.Course
	Lessons int64
}

// Delete removes a course and its lessons. The lessons are deleted before the
// course row, and both steps run inside one transaction so a failure cannot
// orphan either side.
func (s *CourseService) Delete(ctx context.Context, id uint) (*DeleteResult, error) {
	var result DeleteResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&result.Course, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return fmt.Errorf("find course: %w", err)
		}

		lessonDelete := tx.Where("course_id = ?", id).Delete(&models.Lesson{})
		if lessonDelete.Error != nil {
			return fmt.Errorf("delete lessons: %w", lessonDelete.Error)
		}
		result.Lessons = lessonDelete.RowsAffected

		if err := tx.Delete(&models.Course{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete course: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("course service: delete course: %w", err)
	}

	metrics.CourseOperations.WithLabelValues("delete").Inc()
	return &result, nil
}
