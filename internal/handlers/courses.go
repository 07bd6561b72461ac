package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"coursesite/internal/services"
	appErrors "coursesite/pkg/errors"
	"coursesite/pkg/response"
)

// CourseHandler exposes the course catalog endpoints.
type CourseHandler struct {
	courses *services.CourseService
}

func NewCourseHandler(courses *services.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// GET /api/courses
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courses.List(requestContext(c))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, "Failed to list courses"))
		return
	}

	response.Success(c, http.StatusOK, courses)
}

// GET /api/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Invalid course ID")
	if !ok {
		return
	}

	course, err := h.courses.Get(requestContext(c), id)
	if err != nil {
		if errors.Is(err, services.ErrCourseNotFound) {
			response.Error(c, appErrors.NewNotFound("Course not found"))
			return
		}
		response.Error(c, appErrors.Wrap(err, "Failed to load course"))
		return
	}

	response.Success(c, http.StatusOK, course)
}

type createCourseRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// POST /api/courses (admin)
func (h *CourseHandler) Create(c *gin.Context) {
	var req createCourseRequest
	if !bindAndValidate(c, &req) {
		return
	}

	course, err := h.courses.Create(requestContext(c), services.CreateCourseInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, appErrors.Wrap(err, "Failed to create course"))
		return
	}

	response.Success(c, http.StatusOK, course)
}

// DELETE /api/courses/:id (admin)
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Invalid course ID")
	if !ok {
		return
	}

	result, err := h.courses.Delete(requestContext(c), id)
	if err != nil {
		if errors.Is(err, services.ErrCourseNotFound) {
			response.Error(c, appErrors.NewNotFound("Course not found"))
			return
		}
		response.Error(c, appErrors.Wrap(err, "Failed to delete course"))
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"deleted": gin.H{
			"course":  result.Course.ID,
			"lessons": result.Lessons,
		},
	})
}
