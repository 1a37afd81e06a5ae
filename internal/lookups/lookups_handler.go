package lookups

import (
	"net/http"

	"sasocial/internal/repository"
	"sasocial/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// lookupTables allowlists the label tables exposed over HTTP. The path
// segment is the key; nothing outside this map ever reaches a query.
var lookupTables = map[string]string{
	"inventory-status":   "inventory_status",
	"delivery-status":    "delivery_status",
	"transaction-type":   "transaction_type",
	"good-types":         "good_types",
	"application-status": "application_status",
}

type LabelReader interface {
	GetLabels(table string) ([]models.Label, error)
}

type LookupsHandler struct {
	Repository LabelReader
	log        *zap.Logger
}

func NewHandler(r *repository.Repository, log *zap.Logger) *LookupsHandler {
	return &LookupsHandler{Repository: NewRepository(r), log: log}
}

func (h *LookupsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/lookups/:table", h.GetLabels)
}

// GetLabels serves dropdown options. A failed read degrades to an empty
// list rather than an error: forms stay usable with free-text input when a
// label table is missing or unreadable.
func (h *LookupsHandler) GetLabels(c *gin.Context) {
	table, ok := lookupTables[c.Param("table")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown lookup table"})
		return
	}

	labels, err := h.Repository.GetLabels(table)
	if err != nil {
		h.log.Warn("lookup table read failed", zap.String("table", table), zap.Error(err))
		c.JSON(http.StatusOK, []models.Label{})
		return
	}

	c.JSON(http.StatusOK, labels)
}
