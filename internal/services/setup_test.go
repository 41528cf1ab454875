package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard-api/internal/cache"
	"github.com/yukikurage/taskboard-api/internal/constants"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type serviceTestEnv struct {
	db       *gorm.DB
	tokens   *TokenService
	auth     *AuthService
	projects *ProjectService
	tasks    *TaskService
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
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

	tokens := NewTokenService("test-secret", "taskboard-test", time.Hour, cache.NewMemoryRevocationStore())

	return serviceTestEnv{
		db:       db,
		tokens:   tokens,
		auth:     NewAuthService(userRepo, tokens, bcrypt.MinCost),
		projects: NewProjectService(projectRepo, constants.MaxProjectsPerUser),
		tasks:    NewTaskService(taskRepo, projectRepo),
	}
}
