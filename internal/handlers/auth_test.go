package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	iauth "coursesite/internal/auth"
	testutil "coursesite/internal/database/testutil"
	"coursesite/internal/services"
	"coursesite/pkg/mail"
)

type noopMailer struct{}

func (noopMailer) Send(context.Context, mail.Message) error { return nil }

func newAuthTestRouter(t *testing.T, opts ...services.AuthOption) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t)
	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "test-secret"})
	require.NoError(t, err)

	authSvc, err := services.NewAuthService(db, jwtSvc, opts...)
	require.NoError(t, err)

	handler := NewAuthHandler(authSvc)

	r := gin.New()
	r.POST("/api/auth/signup", handler.Signup)
	r.GET("/api/auth/verify-email", handler.VerifyEmail)
	r.POST("/api/auth/login", handler.Login)
	return r
}

func TestSignupReturnsSession(t *testing.T) {
	r := newAuthTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/signup", gin.H{
		"email":    "new@example.com",
		"password": "secret123",
		"name":     "New User",
		"role":     "student",
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	require.True(t, resp.Success)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	require.NotEmpty(t, data["token"])

	user, ok := data["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "new@example.com", user["email"])
	require.NotContains(t, user, "password")
}

func TestSignupDuplicateEmail(t *testing.T) {
	r := newAuthTestRouter(t)

	payload := gin.H{
		"email":    "dup@example.com",
		"password": "secret123",
		"name":     "Dup",
		"role":     "student",
	}
	w := doJSON(t, r, http.MethodPost, "/api/auth/signup", payload)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/signup", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeResponse(t, w)
	require.Equal(t, "EMAIL_TAKEN", resp.Error.Code)
	require.Equal(t, "Email already exists", resp.Error.Message)
}

func TestSignupValidation(t *testing.T) {
	r := newAuthTestRouter(t)

	cases := []gin.H{
		{"password": "secret123", "name": "n", "role": "student"},          // missing email
		{"email": "not-an-email", "password": "secret123", "name": "n", "role": "student"},
		{"email": "a@example.com", "password": "short", "name": "n", "role": "student"}, // min=6
		{"email": "a@example.com", "password": "secret123", "role": "student"},          // missing name
	}

	for i, payload := range cases {
		w := doJSON(t, r, http.MethodPost, "/api/auth/signup", payload)
		require.Equal(t, http.StatusBadRequest, w.Code, "case %d", i)
	}
}

func TestSignupUnknownRole(t *testing.T) {
	r := newAuthTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/signup", gin.H{
		"email":    "role@example.com",
		"password": "secret123",
		"name":     "Role",
		"role":     "superuser",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignupPendingVerification(t *testing.T) {
	r := newAuthTestRouter(t,
		services.WithVerification(true),
		services.WithMailer(noopMailer{}),
	)

	w := doJSON(t, r, http.MethodPost, "/api/auth/signup", gin.H{
		"email":    "pending@example.com",
		"password": "secret123",
		"name":     "Pending",
		"role":     "student",
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Signup successful! Please check your email to verify your account.", data["message"])
	require.NotContains(t, data, "token")
}

func TestVerifyEmailPlainTextResponses(t *testing.T) {
	r := newAuthTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/auth/verify-email?token=bogus", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Invalid or expired verification token.", w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/auth/verify-email", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginUniformFailure(t *testing.T) {
	r := newAuthTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/signup", gin.H{
		"email":    "login@example.com",
		"password": "secret123",
		"name":     "Login",
		"role":     "student",
	})
	require.Equal(t, http.StatusOK, w.Code)

	unknown := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "ghost@example.com",
		"password": "secret123",
	})
	wrong := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "login@example.com",
		"password": "wrong-password",
	})

	require.Equal(t, http.StatusBadRequest, unknown.Code)
	require.Equal(t, http.StatusBadRequest, wrong.Code)
	require.JSONEq(t, unknown.Body.String(), wrong.Body.String())
}

func TestLoginUnverifiedAccount(t *testing.T) {
	r := newAuthTestRouter(t,
		services.WithVerification(true),
		services.WithMailer(noopMailer{}),
	)

	w := doJSON(t, r, http.MethodPost, "/api/auth/signup", gin.H{
		"email":    "unverified@example.com",
		"password": "secret123",
		"name":     "Unverified",
		"role":     "student",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "unverified@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	resp := decodeResponse(t, w)
	require.Equal(t, "EMAIL_NOT_VERIFIED", resp.Error.Code)
}

func TestLoginSuccess(t *testing.T) {
	r := newAuthTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/signup", gin.H{
		"email":    "ok@example.com",
		"password": "secret123",
		"name":     "OK",
		"role":     "instructor",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "ok@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	require.NotEmpty(t, data["token"])
}
