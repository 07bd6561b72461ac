package api

import (
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	iauth "coursesite/internal/auth"
	"coursesite/internal/handlers"
	"coursesite/internal/middleware"
	"coursesite/internal/models"
	"coursesite/internal/services"
)

// Options bundles the optional collaborators for NewRouter.
type Options struct {
	// Auth overrides the auth service built from the database handle.
	Auth *services.AuthService
	// StaticFiles, when set, is served for any route outside /api.
	StaticFiles fs.FS
}

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, opts Options) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())

	// Health endpoint (public)
	r.GET("/health", handlers.Health(db))

	authSvc := opts.Auth
	if authSvc == nil {
		svc, err := services.NewAuthService(db, jwt)
		if err != nil {
			return nil, err
		}
		authSvc = svc
	}

	courseSvc, err := services.NewCourseService(db)
	if err != nil {
		return nil, err
	}
	lessonSvc, err := services.NewLessonService(db)
	if err != nil {
		return nil, err
	}

	authHandler := handlers.NewAuthHandler(authSvc)
	courseHandler := handlers.NewCourseHandler(courseSvc)
	lessonHandler := handlers.NewLessonHandler(lessonSvc)

	// Public auth routes
	auth := r.Group("/api/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.GET("/verify-email", authHandler.VerifyEmail)
		auth.POST("/login", authHandler.Login)
	}

	requireAuth := middleware.Auth(jwt)
	requireAdmin := middleware.RequireRole(models.RoleAdmin)

	courses := r.Group("/api/courses")
	{
		courses.GET("", courseHandler.List)
		courses.GET("/:id", courseHandler.Get)
		courses.POST("", requireAuth, requireAdmin, courseHandler.Create)
		courses.DELETE("/:id", requireAuth, requireAdmin, courseHandler.Delete)

		courses.GET("/:id/lessons", lessonHandler.List)
		courses.POST("/:id/lessons", lessonHandler.Create)
	}

	// Metrics endpoint for Prometheus scraping
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if opts.StaticFiles != nil {
		registerStatic(r, opts.StaticFiles)
	} else {
		r.NoRoute(middleware.NotFoundHandler)
	}

	return r, nil
}

// registerStatic serves the embedded web client for any route outside /api,
// falling back to index.html so client-side routing keeps working.
func registerStatic(r *gin.Engine, staticFiles fs.FS) {
	fileServer := http.FileServer(http.FS(staticFiles))

	r.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || path == "/api" {
			middleware.NotFoundHandler(c)
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			middleware.NotFoundHandler(c)
			return
		}

		name := strings.TrimPrefix(path, "/")
		if name == "" {
			name = "index.html"
		}
		if _, err := fs.Stat(staticFiles, name); err != nil {
			c.Request.URL.Path = "/"
		}
		fileServer.ServeHTTP(c.Writer, c.Request)
	})
}
