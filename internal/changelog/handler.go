package changelog

import (
	"log"
	"net/http"

	"sasocial/pkg/models"
	"sasocial/pkg/security"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Repository *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repository: repo}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/changelog", security.Authorize("admin"), h.GetEntries)
}

func (h *Handler) GetEntries(c *gin.Context) {
	entries, err := h.Repository.GetEntries()
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get change log", "details": err.Error()})
		return
	}

	if entries == nil {
		entries = []models.ChangeLogEntry{}
	}

	c.JSON(http.StatusOK, entries)
}
