package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/taskboard-api/internal/models"
)

type ProjectServiceTestSuite struct {
	suite.Suite
	env   serviceTestEnv
	ctx   context.Context
	owner *models.User
	other *models.User
}

func (s *ProjectServiceTestSuite) SetupTest() {
	s.env = setupServiceTestEnv(s.T())
	s.ctx = context.Background()
	s.owner = s.register("owner@x.com")
	s.other = s.register("other@x.com")
}

func (s *ProjectServiceTestSuite) register(email string) *models.User {
	input := validRegistration()
	input.Email = email
	res, err := s.env.auth.Register(s.ctx, input)
	s.Require().NoError(err)
	return res.User
}

func (s *ProjectServiceTestSuite) create(name string) *models.Project {
	project, err := s.env.projects.CreateProject(s.ctx, s.owner.ID, CreateProjectInput{Name: name})
	s.Require().NoError(err)
	return project
}

func (s *ProjectServiceTestSuite) TestCreateProject_EnforcesLimit() {
	for i := 0; i < s.env.projects.MaxProjects(); i++ {
		s.create(fmt.Sprintf("P%d", i+1))
	}

	_, err := s.env.projects.CreateProject(s.ctx, s.owner.ID, CreateProjectInput{Name: "P5"})
	s.ErrorIs(err, ErrProjectLimitExceeded)

	projects, err := s.env.projects.ListProjects(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	s.Len(projects, 4)

	// The cap is per owner.
	_, err = s.env.projects.CreateProject(s.ctx, s.other.ID, CreateProjectInput{Name: "Mine"})
	s.NoError(err)
}

func (s *ProjectServiceTestSuite) TestCreateProject_RequiresName() {
	_, err := s.env.projects.CreateProject(s.ctx, s.owner.ID, CreateProjectInput{Name: "   "})
	s.ErrorIs(err, ErrProjectNameRequired)
}

func (s *ProjectServiceTestSuite) TestListProjects_NewestFirstWithTasks() {
	first := s.create("first")
	second := s.create("second")

	_, err := s.env.tasks.CreateTask(s.ctx, first.ID, s.owner.ID, CreateTaskInput{Title: "T1"})
	s.Require().NoError(err)

	projects, err := s.env.projects.ListProjects(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	s.Require().Len(projects, 2)
	s.Equal(second.ID, projects[0].ID)
	s.Equal(first.ID, projects[1].ID)
	s.Empty(projects[0].Tasks)
	s.Require().Len(projects[1].Tasks, 1)
	s.Equal("T1", projects[1].Tasks[0].Title)

	others, err := s.env.projects.ListProjects(s.ctx, s.other.ID)
	s.Require().NoError(err)
	s.Empty(others)
}

func (s *ProjectServiceTestSuite) TestGetProject_NotFoundBeforeForbidden() {
	project := s.create("mine")

	_, err := s.env.projects.GetProject(s.ctx, "missing", s.other.ID)
	s.ErrorIs(err, ErrProjectNotFound)

	_, err = s.env.projects.GetProject(s.ctx, project.ID, s.other.ID)
	s.ErrorIs(err, ErrProjectForbidden)

	got, err := s.env.projects.GetProject(s.ctx, project.ID, s.owner.ID)
	s.Require().NoError(err)
	s.Equal("mine", got.Name)
}

func (s *ProjectServiceTestSuite) TestUpdateProject_PartialUpdate() {
	project, err := s.env.projects.CreateProject(s.ctx, s.owner.ID, CreateProjectInput{Name: "old", Description: "desc"})
	s.Require().NoError(err)

	name := "new"
	updated, err := s.env.projects.UpdateProject(s.ctx, project.ID, s.owner.ID, UpdateProjectInput{Name: &name})
	s.Require().NoError(err)
	s.Equal("new", updated.Name)
	s.Equal("desc", updated.Description)

	empty := ""
	updated, err = s.env.projects.UpdateProject(s.ctx, project.ID, s.owner.ID, UpdateProjectInput{Name: &empty, Description: &empty})
	s.Require().NoError(err)
	s.Equal("new", updated.Name)
	s.Equal("desc", updated.Description)

	_, err = s.env.projects.UpdateProject(s.ctx, project.ID, s.other.ID, UpdateProjectInput{Name: &name})
	s.ErrorIs(err, ErrProjectForbidden)
}

func (s *ProjectServiceTestSuite) TestDeleteProject_CascadesTasks() {
	project := s.create("doomed")
	for _, title := range []string{"a", "b"} {
		_, err := s.env.tasks.CreateTask(s.ctx, project.ID, s.owner.ID, CreateTaskInput{Title: title})
		s.Require().NoError(err)
	}

	s.ErrorIs(s.env.projects.DeleteProject(s.ctx, project.ID, s.other.ID), ErrProjectForbidden)
	s.Require().NoError(s.env.projects.DeleteProject(s.ctx, project.ID, s.owner.ID))

	var remaining int64
	s.Require().NoError(s.env.db.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&remaining).Error)
	s.Zero(remaining)

	s.ErrorIs(s.env.projects.DeleteProject(s.ctx, project.ID, s.owner.ID), ErrProjectNotFound)

	// A freed slot can be reused.
	for i := 0; i < 4; i++ {
		s.create(fmt.Sprintf("again %d", i))
	}
}

func TestProjectServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}
