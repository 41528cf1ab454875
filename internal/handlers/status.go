package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/dto"
)

// Status reports that the API is up. It does not touch the store.
func Status(c *gin.Context) {
	c.JSON(http.StatusOK, dto.MessageDTO{Message: "API is running"})
}
