package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"coursesite/internal/models"
	"coursesite/internal/services"
	appErrors "coursesite/pkg/errors"
	"coursesite/pkg/response"
)

// AuthHandler exposes signup, email verification and login endpoints.
type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.auth.Signup(requestContext(c), services.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			response.Error(c, appErrors.ErrEmailTaken)
		case errors.Is(err, services.ErrInvalidRole):
			response.Error(c, appErrors.NewBadRequest("role must be student, instructor or admin"))
		default:
			response.Error(c, appErrors.Wrap(err, "Failed to create account"))
		}
		return
	}

	if result.Pending {
		response.Success(c, http.StatusOK, gin.H{"message": result.Message})
		return
	}

	response.Success(c, http.StatusOK, sessionResponse{Token: result.Token, User: result.User})
}

// GET /api/auth/verify-email?token=
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")

	if err := h.auth.VerifyEmail(requestContext(c), token); err != nil {
		if errors.Is(err, services.ErrInvalidVerification) {
			c.String(http.StatusBadRequest, "Invalid or expired verification token.")
			return
		}
		response.Error(c, appErrors.Wrap(err, "Failed to verify email"))
		return
	}

	c.String(http.StatusOK, "Email verified! You can now log in.")
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	token, user, err := h.auth.Login(requestContext(c), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			response.Error(c, appErrors.ErrInvalidCredentials)
		case errors.Is(err, services.ErrEmailNotVerified):
			response.Error(c, appErrors.ErrEmailNotVerified)
		default:
			response.Error(c, appErrors.Wrap(err, "Failed to log in"))
		}
		return
	}

	response.Success(c, http.StatusOK, sessionResponse{Token: token, User: user})
}
