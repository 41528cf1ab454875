package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yukikurage/taskboard-api/internal/dto"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/middleware"
	"github.com/yukikurage/taskboard-api/internal/services"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProject creates a project for the current user
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid project data")
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), userID, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.respondError(c, err, "")
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// ListProjects returns the current user's projects, newest first
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projects, err := h.projectService.ListProjects(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTOs(projects))
}

// GetProject returns a single project with its tasks
func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.respondError(c, err, "access")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// UpdateProject changes a project's name and/or description
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateProjectRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}

	// An empty body is an empty update.
	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		if authErr := h.projectService.Authorize(c.Request.Context(), c.Param("id"), userID); authErr != nil {
			h.respondError(c, authErr, "update")
			return
		}
		apierrors.BadRequest(c, "Invalid project data")
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), c.Param("id"), userID, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.respondError(c, err, "update")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject deletes a project and all of its tasks
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.respondError(c, err, "delete")
		return
	}

	c.JSON(http.StatusOK, dto.MessageDTO{Message: "Project removed"})
}

func (h *ProjectHandler) respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrProjectNameRequired):
		apierrors.BadRequest(c, "Invalid project data")
	case errors.Is(err, services.ErrProjectLimitExceeded):
		apierrors.LimitExceeded(c, fmt.Sprintf("You can have a maximum of %d projects", h.projectService.MaxProjects()))
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrProjectForbidden):
		apierrors.Forbidden(c, fmt.Sprintf("Not authorized to %s this project", action))
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	default:
		log.Error().Err(err).Msg("Project request failed")
		apierrors.InternalError(c, "")
	}
}
