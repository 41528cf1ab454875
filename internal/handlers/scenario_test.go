package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenario_EndToEnd walks a user from registration to a task round trip.
func TestScenario_EndToEnd(t *testing.T) {
	env := setupHandlerTestEnv(t)

	user := env.register(t, "Grace", "grace@example.com")
	require.NotEmpty(t, user.Token)

	w := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "grace@example.com",
		"password": "not-her-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", decodeError(t, w)["message"])

	var projectID string
	for _, name := range []string{"A", "B", "C", "D"} {
		projectID = env.createProject(t, user.Token, name).ID
	}
	w = env.do(t, http.MethodPost, "/api/projects", user.Token, map[string]string{"name": "E"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You can have a maximum of 4 projects", decodeError(t, w)["message"])

	w = env.do(t, http.MethodPost, "/api/projects/"+projectID+"/tasks", user.Token, map[string]string{
		"title":  "Ship",
		"status": "todo",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "completedAt")

	var created struct {
		ID string `json:"id"`
	}
	decodeInto(t, w, &created)
	taskPath := "/api/projects/" + projectID + "/tasks/" + created.ID

	w = env.do(t, http.MethodPut, taskPath, user.Token, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "completedAt")

	w = env.do(t, http.MethodPut, taskPath, user.Token, map[string]string{"status": "todo"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "completedAt")

	// Freeing a slot allows another project.
	w = env.do(t, http.MethodDelete, "/api/projects/"+projectID, user.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	env.createProject(t, user.Token, "E")
}
