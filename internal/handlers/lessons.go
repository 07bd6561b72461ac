package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"coursesite/internal/services"
	appErrors "coursesite/pkg/errors"
	"coursesite/pkg/response"
)

// LessonHandler exposes lesson endpoints nested under a course.
type LessonHandler struct {
	lessons *services.LessonService
}

func NewLessonHandler(lessons *services.LessonService) *LessonHandler {
	return &LessonHandler{lessons: lessons}
}

// GET /api/courses/:id/lessons
func (h *LessonHandler) List(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id", "Invalid course ID")
	if !ok {
		return
	}

	lessons, err := h.lessons.ListByCourse(requestContext(c), courseID)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, "Failed to list lessons"))
		return
	}

	response.Success(c, http.StatusOK, lessons)
}

type createLessonRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// POST /api/courses/:id/lessons
func (h *LessonHandler) Create(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id", "Invalid course ID")
	if !ok {
		return
	}

	var req createLessonRequest
	if !bindAndValidate(c, &req) {
		return
	}

	lesson, err := h.lessons.Create(requestContext(c), services.CreateLessonInput{
		CourseID: courseID,
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		if errors.Is(err, services.ErrCourseNotFound) {
			response.Error(c, appErrors.NewNotFound("Course not found"))
			return
		}
		response.Error(c, appErrors.Wrap(err, "Failed to create lesson"))
		return
	}

	response.Success(c, http.StatusOK, lesson)
}
