package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard-api/internal/cache"
	"github.com/yukikurage/taskboard-api/internal/constants"
	"github.com/yukikurage/taskboard-api/internal/dto"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"github.com/yukikurage/taskboard-api/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type handlerTestEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	services Services
}

func setupHandlerTestEnv(t *testing.T) handlerTestEnv {
	t.Helper()
	return setupHandlerTestEnvWithConfig(t, RouterConfig{StoreTimeout: 5 * time.Second})
}

func setupHandlerTestEnvWithConfig(t *testing.T, cfg RouterConfig) handlerTestEnv {
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

	svc := Services{
		Auth:     services.NewAuthService(userRepo, tokens, bcrypt.MinCost),
		Projects: services.NewProjectService(projectRepo, constants.MaxProjectsPerUser),
		Tasks:    services.NewTaskService(taskRepo, projectRepo),
	}

	return handlerTestEnv{
		db:       db,
		router:   NewRouter(cfg, svc),
		services: svc,
	}
}

// do sends a JSON request through the router. A nil body sends no payload.
func (env handlerTestEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", constants.BearerPrefix+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// doRaw sends body verbatim, for payloads that are not valid JSON.
func (env handlerTestEnv) doRaw(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", constants.BearerPrefix+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// register creates an account through the API and returns its token and id.
func (env handlerTestEnv) register(t *testing.T, name, email string) dto.AuthResponseDTO {
	t.Helper()

	w := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "supersecret",
		"country":  "Japan",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.AuthResponseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (env handlerTestEnv) createProject(t *testing.T, token, name string) dto.ProjectDTO {
	t.Helper()

	w := env.do(t, http.MethodPost, "/api/projects", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.ProjectDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	var body map[string]string
	decodeInto(t, w, &body)
	return body
}

func decodeInto(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func newPreflight(origin string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	return req
}

func serve(env handlerTestEnv, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}
