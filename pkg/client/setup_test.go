package client

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard-api/internal/cache"
	"github.com/yukikurage/taskboard-api/internal/constants"
	"github.com/yukikurage/taskboard-api/internal/handlers"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"github.com/yukikurage/taskboard-api/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer runs the real API on an in-memory store and returns a client
// pointed at it.
func newTestServer(t *testing.T) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Project{}, &models.Task{}))

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tokens := services.NewTokenService("test-secret", "taskboard-test", time.Hour, cache.NewMemoryRevocationStore())

	router := handlers.NewRouter(handlers.RouterConfig{StoreTimeout: 5 * time.Second}, handlers.Services{
		Auth:     services.NewAuthService(userRepo, tokens, bcrypt.MinCost),
		Projects: services.NewProjectService(projectRepo, constants.MaxProjectsPerUser),
		Tasks:    services.NewTaskService(taskRepo, projectRepo),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return NewClient(srv.URL+"/api", WithHTTPClient(srv.Client()))
}

func registerInput(email string) RegisterInput {
	return RegisterInput{
		Name:     "Grace",
		Email:    email,
		Password: "supersecret",
		Country:  "US",
	}
}
