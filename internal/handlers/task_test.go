package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/taskboard-api/internal/dto"
	"github.com/yukikurage/taskboard-api/internal/models"
)

type TaskHandlerTestSuite struct {
	suite.Suite
	env     handlerTestEnv
	owner   dto.AuthResponseDTO
	other   dto.AuthResponseDTO
	project dto.ProjectDTO
}

func (suite *TaskHandlerTestSuite) SetupTest() {
	suite.env = setupHandlerTestEnv(suite.T())
	suite.owner = suite.env.register(suite.T(), "Owner", "owner@example.com")
	suite.other = suite.env.register(suite.T(), "Other", "other@example.com")
	suite.project = suite.env.createProject(suite.T(), suite.owner.Token, "Website")
}

func (suite *TaskHandlerTestSuite) tasksPath() string {
	return "/api/projects/" + suite.project.ID + "/tasks"
}

func (suite *TaskHandlerTestSuite) createTask(body map[string]string) dto.TaskDTO {
	w := suite.env.do(suite.T(), http.MethodPost, suite.tasksPath(), suite.owner.Token, body)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var task dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &task))
	return task
}

func (suite *TaskHandlerTestSuite) updateTask(id string, body map[string]string) (int, map[string]interface{}) {
	w := suite.env.do(suite.T(), http.MethodPut, suite.tasksPath()+"/"+id, suite.owner.Token, body)

	var raw map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &raw))
	return w.Code, raw
}

func (suite *TaskHandlerTestSuite) parseTime(v interface{}) time.Time {
	raw, ok := v.(string)
	suite.Require().True(ok)
	ts, err := time.Parse(time.RFC3339Nano, raw)
	suite.Require().NoError(err)
	return ts
}

func (suite *TaskHandlerTestSuite) TestCreateTaskDefaults() {
	task := suite.createTask(map[string]string{"title": "Write copy"})

	suite.NotEmpty(task.ID)
	suite.Equal(models.TaskStatusTodo, task.Status)
	suite.Equal(suite.project.ID, task.Project)
	suite.Equal(suite.owner.ID, task.User)
	suite.Nil(task.CompletedAt)
}

func (suite *TaskHandlerTestSuite) TestCreateCompletedTaskSetsCompletedAt() {
	task := suite.createTask(map[string]string{"title": "Done already", "status": "completed"})
	suite.Equal(models.TaskStatusCompleted, task.Status)
	suite.NotNil(task.CompletedAt)
}

func (suite *TaskHandlerTestSuite) TestCreateTaskValidation() {
	w := suite.env.do(suite.T(), http.MethodPost, suite.tasksPath(), suite.owner.Token, map[string]string{"description": "no title"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(suite.T(), http.MethodPost, suite.tasksPath(), suite.owner.Token, map[string]string{"title": "x", "status": "blocked"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTaskOwnershipChecks() {
	// Ownership is checked before the body is validated.
	w := suite.env.do(suite.T(), http.MethodPost, suite.tasksPath(), suite.other.Token, map[string]string{})
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("Not authorized to add tasks to this project", decodeError(suite.T(), w)["message"])

	w = suite.env.do(suite.T(), http.MethodPost, "/api/projects/missing/tasks", suite.owner.Token, map[string]string{"title": "x"})
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("Project not found", decodeError(suite.T(), w)["message"])
}

func (suite *TaskHandlerTestSuite) TestListTasksNewestFirst() {
	suite.createTask(map[string]string{"title": "First"})
	suite.createTask(map[string]string{"title": "Second"})

	w := suite.env.do(suite.T(), http.MethodGet, suite.tasksPath(), suite.owner.Token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var tasks []dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tasks))
	suite.Require().Len(tasks, 2)
	suite.Equal("Second", tasks[0].Title)
	suite.Equal("First", tasks[1].Title)

	w = suite.env.do(suite.T(), http.MethodGet, suite.tasksPath(), suite.other.Token, nil)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("Not authorized to view tasks in this project", decodeError(suite.T(), w)["message"])
}

func (suite *TaskHandlerTestSuite) TestCompletedAtFollowsStatus() {
	task := suite.createTask(map[string]string{"title": "Ship it", "status": "todo"})
	suite.Nil(task.CompletedAt)

	code, body := suite.updateTask(task.ID, map[string]string{"status": "completed"})
	suite.Require().Equal(http.StatusOK, code)
	suite.Equal("completed", body["status"])
	suite.Contains(body, "completedAt")
	firstCompletion := suite.parseTime(body["completedAt"])

	// Editing other fields keeps the first completion time.
	code, body = suite.updateTask(task.ID, map[string]string{"title": "Ship it now"})
	suite.Require().Equal(http.StatusOK, code)
	suite.True(firstCompletion.Equal(suite.parseTime(body["completedAt"])))

	code, body = suite.updateTask(task.ID, map[string]string{"status": "todo"})
	suite.Require().Equal(http.StatusOK, code)
	suite.Equal("todo", body["status"])
	suite.NotContains(body, "completedAt")
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskPartial() {
	task := suite.createTask(map[string]string{"title": "Write copy", "description": "hero section"})

	code, body := suite.updateTask(task.ID, map[string]string{"status": "inProgress"})
	suite.Require().Equal(http.StatusOK, code)
	suite.Equal("Write copy", body["title"])
	suite.Equal("hero section", body["description"])
	suite.Equal("inProgress", body["status"])

	code, _ = suite.updateTask(task.ID, map[string]string{"status": "blocked"})
	suite.Equal(http.StatusBadRequest, code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskNotFound() {
	code, body := suite.updateTask("missing", map[string]string{"title": "x"})
	suite.Equal(http.StatusNotFound, code)
	suite.Equal("Task not found", body["message"])

	// A task is only reachable through its own project.
	otherProject := suite.env.createProject(suite.T(), suite.owner.Token, "Docs")
	task := suite.createTask(map[string]string{"title": "Write copy"})
	w := suite.env.do(suite.T(), http.MethodPut, "/api/projects/"+otherProject.ID+"/tasks/"+task.ID, suite.owner.Token, map[string]string{"title": "moved"})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskWithoutBody() {
	task := suite.createTask(map[string]string{"title": "Write copy", "status": "inProgress"})

	w := suite.env.doRaw(suite.T(), http.MethodPut, suite.tasksPath()+"/"+task.ID, suite.owner.Token, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var got dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal("Write copy", got.Title)
	suite.Equal(models.TaskStatusInProgress, got.Status)

	w = suite.env.doRaw(suite.T(), http.MethodPut, "/api/projects/missing/tasks/"+task.ID, suite.owner.Token, "")
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("Project not found", decodeError(suite.T(), w)["message"])

	w = suite.env.doRaw(suite.T(), http.MethodPut, suite.tasksPath()+"/missing", suite.owner.Token, "")
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("Task not found", decodeError(suite.T(), w)["message"])
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskMalformedBody() {
	task := suite.createTask(map[string]string{"title": "Write copy"})
	path := suite.tasksPath() + "/" + task.ID

	w := suite.env.doRaw(suite.T(), http.MethodPut, path, suite.other.Token, "{not json")
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("Not authorized to update tasks in this project", decodeError(suite.T(), w)["message"])

	w = suite.env.doRaw(suite.T(), http.MethodPut, suite.tasksPath()+"/missing", suite.owner.Token, "{not json")
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.env.doRaw(suite.T(), http.MethodPut, path, suite.owner.Token, "{not json")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskEmptyDescriptionKeepsValue() {
	task := suite.createTask(map[string]string{"title": "Write copy", "description": "d1"})

	code, body := suite.updateTask(task.ID, map[string]string{"description": ""})
	suite.Require().Equal(http.StatusOK, code)
	suite.Equal("d1", body["description"])
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskForbidden() {
	task := suite.createTask(map[string]string{"title": "Write copy"})

	w := suite.env.do(suite.T(), http.MethodPut, suite.tasksPath()+"/"+task.ID, suite.other.Token, map[string]string{"status": "completed"})
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("Not authorized to update tasks in this project", decodeError(suite.T(), w)["message"])
}

func (suite *TaskHandlerTestSuite) TestDeleteTask() {
	task := suite.createTask(map[string]string{"title": "Write copy"})

	w := suite.env.do(suite.T(), http.MethodDelete, suite.tasksPath()+"/"+task.ID, suite.other.Token, nil)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("Not authorized to delete tasks in this project", decodeError(suite.T(), w)["message"])

	w = suite.env.do(suite.T(), http.MethodDelete, suite.tasksPath()+"/"+task.ID, suite.owner.Token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("Task removed", decodeError(suite.T(), w)["message"])

	w = suite.env.do(suite.T(), http.MethodGet, "/api/projects/"+suite.project.ID, suite.owner.Token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var project dto.ProjectDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &project))
	suite.Empty(project.Tasks)

	w = suite.env.do(suite.T(), http.MethodDelete, suite.tasksPath()+"/"+task.ID, suite.owner.Token, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestProjectShowsTasksInInsertionOrder() {
	first := suite.createTask(map[string]string{"title": "First"})
	second := suite.createTask(map[string]string{"title": "Second"})

	w := suite.env.do(suite.T(), http.MethodGet, "/api/projects/"+suite.project.ID, suite.owner.Token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var project dto.ProjectDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &project))
	suite.Require().Len(project.Tasks, 2)
	suite.Equal(first.ID, project.Tasks[0].ID)
	suite.Equal(second.ID, project.Tasks[1].ID)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
