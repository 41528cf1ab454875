package handlers

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/middleware"
	"github.com/yukikurage/taskboard-api/internal/services"
)

// RouterConfig holds the HTTP-level knobs of the API.
type RouterConfig struct {
	AllowedOrigins []string
	StoreTimeout   time.Duration
	AuthRateLimit  float64
	AuthRateBurst  int
}

// Services bundles the domain services the handlers depend on.
type Services struct {
	Auth     *services.AuthService
	Projects *services.ProjectService
	Tasks    *services.TaskService
}

// NewRouter wires middleware and every API route onto a fresh gin engine.
func NewRouter(cfg RouterConfig, svc Services) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	r.Use(middleware.StoreTimeout(cfg.StoreTimeout))

	authHandler := NewAuthHandler(svc.Auth)
	projectHandler := NewProjectHandler(svc.Projects)
	taskHandler := NewTaskHandler(svc.Tasks)

	requireAuth := middleware.RequireAuth(svc.Auth)

	api := r.Group("/api")
	{
		api.GET("/status", Status)

		auth := api.Group("/auth")
		{
			var limiter *middleware.IPRateLimiter
			if cfg.AuthRateLimit > 0 {
				limiter = middleware.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
			}
			throttled := auth.Group("", middleware.RateLimit(limiter))
			throttled.POST("/register", authHandler.Register)
			throttled.POST("/login", authHandler.Login)

			auth.GET("/profile", requireAuth, authHandler.GetProfile)
			auth.POST("/logout", requireAuth, authHandler.Logout)
		}

		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)

			projects.GET("/:id/tasks", taskHandler.ListTasks)
			projects.POST("/:id/tasks", taskHandler.CreateTask)
			projects.PUT("/:id/tasks/:taskId", taskHandler.UpdateTask)
			projects.DELETE("/:id/tasks/:taskId", taskHandler.DeleteTask)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, fmt.Sprintf("Not Found - %s", c.Request.URL.Path))
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
