package services

import "errors"

var (
	ErrInvalidUserData    = errors.New("invalid user data")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token has been revoked")

	ErrProjectNameRequired  = errors.New("project name is required")
	ErrProjectLimitExceeded = errors.New("project limit exceeded")
	ErrProjectNotFound      = errors.New("project not found")
	ErrProjectForbidden     = errors.New("user does not own this project")

	ErrTitleRequired = errors.New("title is required")
	ErrInvalidStatus = errors.New("invalid task status")
	ErrTaskNotFound  = errors.New("task not found")
)
