package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
)

type AuthState struct {
	User            *User
	Token           string
	IsAuthenticated bool
	Loading         bool
	Error           string
}

type ProjectsState struct {
	Projects       []Project
	CurrentProject *Project
	Loading        bool
	Error          string
}

type TasksState struct {
	Tasks   []Task
	Loading bool
	Error   string
}

// State is everything a front end renders. It only changes through reduce.
type State struct {
	Auth     AuthState
	Projects ProjectsState
	Tasks    TasksState
}

// Action is a single state transition.
type Action interface {
	action()
}

type (
	AuthPending    struct{}
	AuthFulfilled  struct{ Response AuthResponse }
	AuthRejected   struct{ Message string }
	LoggedOut      struct{}
	ClearAuthError struct{}

	ProjectsPending   struct{}
	ProjectsFetched   struct{ Projects []Project }
	ProjectFetched    struct{ Project Project }
	ProjectDeleted    struct{ ID string }
	ProjectsRejected  struct{ Message string }
	ClearProjectError struct{}

	TasksPending   struct{}
	TasksFetched   struct{ Tasks []Task }
	TaskCreated    struct{ Task Task }
	TaskUpdated    struct{ Task Task }
	TaskDeleted    struct{ ID string }
	TasksRejected  struct{ Message string }
	ClearTaskError struct{}
)

// ProfileLoaded restores a session from a stored token.
type ProfileLoaded struct {
	User  User
	Token string
}

func (AuthPending) action()       {}
func (AuthFulfilled) action()     {}
func (AuthRejected) action()      {}
func (ProfileLoaded) action()     {}
func (LoggedOut) action()         {}
func (ClearAuthError) action()    {}
func (ProjectsPending) action()   {}
func (ProjectsFetched) action()   {}
func (ProjectFetched) action()    {}
func (ProjectDeleted) action()    {}
func (ProjectsRejected) action()  {}
func (ClearProjectError) action() {}
func (TasksPending) action()      {}
func (TasksFetched) action()      {}
func (TaskCreated) action()       {}
func (TaskUpdated) action()       {}
func (TaskDeleted) action()       {}
func (TasksRejected) action()     {}
func (ClearTaskError) action()    {}

// reduce returns the state after applying a. It never mutates s in place.
func reduce(s State, a Action) State {
	switch a := a.(type) {
	case AuthPending:
		s.Auth.Loading = true
		s.Auth.Error = ""
	case AuthFulfilled:
		user := a.Response.User
		s.Auth = AuthState{User: &user, Token: a.Response.Token, IsAuthenticated: true}
	case ProfileLoaded:
		user := a.User
		s.Auth = AuthState{User: &user, Token: a.Token, IsAuthenticated: true}
	case AuthRejected:
		s.Auth = AuthState{Error: a.Message}
	case LoggedOut:
		s = State{}
	case ClearAuthError:
		s.Auth.Error = ""

	case ProjectsPending:
		s.Projects.Loading = true
		s.Projects.Error = ""
	case ProjectsFetched:
		s.Projects.Loading = false
		s.Projects.Projects = cloneProjects(a.Projects)
	case ProjectFetched:
		project := a.Project
		s.Projects.Loading = false
		s.Projects.CurrentProject = &project
	case ProjectDeleted:
		s.Projects.Loading = false
		s.Projects.Projects = removeProject(s.Projects.Projects, a.ID)
		if s.Projects.CurrentProject != nil && s.Projects.CurrentProject.ID == a.ID {
			s.Projects.CurrentProject = nil
		}
	case ProjectsRejected:
		s.Projects.Loading = false
		s.Projects.Error = a.Message
	case ClearProjectError:
		s.Projects.Error = ""

	case TasksPending:
		s.Tasks.Loading = true
		s.Tasks.Error = ""
	case TasksFetched:
		s.Tasks.Loading = false
		s.Tasks.Tasks = cloneTasks(a.Tasks)
	case TaskCreated:
		s.Tasks.Loading = false
		s.Tasks.Tasks = append([]Task{a.Task}, s.Tasks.Tasks...)
	case TaskUpdated:
		s.Tasks.Loading = false
		s.Tasks.Tasks = cloneTasks(s.Tasks.Tasks)
		for i := range s.Tasks.Tasks {
			if s.Tasks.Tasks[i].ID == a.Task.ID {
				s.Tasks.Tasks[i] = a.Task
				break
			}
		}
	case TaskDeleted:
		s.Tasks.Loading = false
		s.Tasks.Tasks = removeTask(s.Tasks.Tasks, a.ID)
	case TasksRejected:
		s.Tasks.Loading = false
		s.Tasks.Error = a.Message
	case ClearTaskError:
		s.Tasks.Error = ""
	}
	return s
}

func cloneProjects(in []Project) []Project {
	if in == nil {
		return []Project{}
	}
	return append([]Project(nil), in...)
}

func cloneTasks(in []Task) []Task {
	if in == nil {
		return []Task{}
	}
	return append([]Task(nil), in...)
}

func removeProject(in []Project, id string) []Project {
	out := make([]Project, 0, len(in))
	for _, p := range in {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

func removeTask(in []Task, id string) []Task {
	out := make([]Task, 0, len(in))
	for _, t := range in {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// Store drives a Client and keeps the resulting State. Every method returns
// the API error as well as recording its message in State.
type Store struct {
	client  *Client
	storage TokenStorage

	mu    sync.RWMutex
	state State
}

func NewStore(c *Client, storage TokenStorage) *Store {
	if storage == nil {
		storage = NewMemoryTokenStorage()
	}
	return &Store{client: c, storage: storage}
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) dispatch(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reduce(s.state, a)
}

// errorMessage is what a front end shows in its error banner.
func errorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func (s *Store) Register(ctx context.Context, in RegisterInput) error {
	s.dispatch(AuthPending{})
	resp, err := s.client.Register(ctx, in)
	if err != nil {
		s.dispatch(AuthRejected{Message: errorMessage(err, "Registration failed")})
		return err
	}
	return s.signIn(*resp)
}

func (s *Store) Login(ctx context.Context, in LoginInput) error {
	s.dispatch(AuthPending{})
	resp, err := s.client.Login(ctx, in)
	if err != nil {
		s.dispatch(AuthRejected{Message: errorMessage(err, "Login failed")})
		return err
	}
	return s.signIn(*resp)
}

func (s *Store) signIn(resp AuthResponse) error {
	if err := s.storage.Save(resp.Token); err != nil {
		s.dispatch(AuthRejected{Message: "Failed to store session"})
		return err
	}
	s.client.SetToken(resp.Token)
	s.dispatch(AuthFulfilled{Response: resp})
	return nil
}

// LoadSession restores a stored token and verifies it against the profile
// endpoint. A rejected token is discarded.
func (s *Store) LoadSession(ctx context.Context) (bool, error) {
	token, err := s.storage.Load()
	if err != nil {
		return false, err
	}
	if token == "" {
		return false, nil
	}

	s.dispatch(AuthPending{})
	s.client.SetToken(token)
	user, err := s.client.Profile(ctx)
	if err != nil {
		s.client.SetToken("")
		if IsStatus(err, http.StatusUnauthorized) || IsStatus(err, http.StatusNotFound) {
			_ = s.storage.Clear()
			s.dispatch(AuthRejected{})
			return false, nil
		}
		s.dispatch(AuthRejected{Message: errorMessage(err, "Failed to load session")})
		return false, err
	}

	s.dispatch(ProfileLoaded{User: *user, Token: token})
	return true, nil
}

// Logout revokes the token server side, then forgets it and every piece of
// state that belonged to the session. Local state is cleared even when the
// server call fails.
func (s *Store) Logout(ctx context.Context) error {
	var serverErr error
	if s.client.Token() != "" {
		serverErr = s.client.Logout(ctx)
	}

	s.client.SetToken("")
	storageErr := s.storage.Clear()
	s.dispatch(LoggedOut{})

	if serverErr != nil && !IsStatus(serverErr, http.StatusUnauthorized) {
		return serverErr
	}
	return storageErr
}

func (s *Store) FetchProjects(ctx context.Context) error {
	s.dispatch(ProjectsPending{})
	projects, err := s.client.ListProjects(ctx)
	if err != nil {
		s.dispatch(ProjectsRejected{Message: errorMessage(err, "Failed to fetch projects")})
		return err
	}
	s.dispatch(ProjectsFetched{Projects: projects})
	return nil
}

func (s *Store) FetchProject(ctx context.Context, id string) error {
	s.dispatch(ProjectsPending{})
	project, err := s.client.GetProject(ctx, id)
	if err != nil {
		s.dispatch(ProjectsRejected{Message: errorMessage(err, "Failed to fetch project")})
		return err
	}
	s.dispatch(ProjectFetched{Project: *project})
	return nil
}

// CreateProject creates a project and refetches the list so it matches the
// server's ordering.
func (s *Store) CreateProject(ctx context.Context, in ProjectInput) (*Project, error) {
	s.dispatch(ProjectsPending{})
	project, err := s.client.CreateProject(ctx, in)
	if err != nil {
		s.dispatch(ProjectsRejected{Message: errorMessage(err, "Failed to create project")})
		return nil, err
	}
	if err := s.FetchProjects(ctx); err != nil {
		return project, err
	}
	return project, nil
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	s.dispatch(ProjectsPending{})
	if err := s.client.DeleteProject(ctx, id); err != nil {
		s.dispatch(ProjectsRejected{Message: errorMessage(err, "Failed to delete project")})
		return err
	}
	s.dispatch(ProjectDeleted{ID: id})
	return nil
}

func (s *Store) FetchTasks(ctx context.Context, projectID string) error {
	s.dispatch(TasksPending{})
	tasks, err := s.client.ListTasks(ctx, projectID)
	if err != nil {
		s.dispatch(TasksRejected{Message: errorMessage(err, "Failed to fetch tasks")})
		return err
	}
	s.dispatch(TasksFetched{Tasks: tasks})
	return nil
}

func (s *Store) CreateTask(ctx context.Context, projectID string, in TaskInput) (*Task, error) {
	s.dispatch(TasksPending{})
	task, err := s.client.CreateTask(ctx, projectID, in)
	if err != nil {
		s.dispatch(TasksRejected{Message: errorMessage(err, "Failed to create task")})
		return nil, err
	}
	s.dispatch(TaskCreated{Task: *task})
	return task, nil
}

// UpdateTask replaces the local copy with the server's, so completedAt is
// whatever the API decided.
func (s *Store) UpdateTask(ctx context.Context, projectID, taskID string, in TaskUpdate) (*Task, error) {
	s.dispatch(TasksPending{})
	task, err := s.client.UpdateTask(ctx, projectID, taskID, in)
	if err != nil {
		s.dispatch(TasksRejected{Message: errorMessage(err, "Failed to update task")})
		return nil, err
	}
	s.dispatch(TaskUpdated{Task: *task})
	return task, nil
}

func (s *Store) DeleteTask(ctx context.Context, projectID, taskID string) error {
	s.dispatch(TasksPending{})
	if err := s.client.DeleteTask(ctx, projectID, taskID); err != nil {
		s.dispatch(TasksRejected{Message: errorMessage(err, "Failed to delete task")})
		return err
	}
	s.dispatch(TaskDeleted{ID: taskID})
	return nil
}

func (s *Store) ClearProjectError() {
	s.dispatch(ClearProjectError{})
}

func (s *Store) ClearTaskError() {
	s.dispatch(ClearTaskError{})
}
