package deliveries

import (
	"log"
	"net/http"

	"sasocial/internal/repository"
	"sasocial/pkg/security"

	"github.com/gin-gonic/gin"
)

type DeliveriesHandler struct {
	Repository *DeliveryRepository
}

func NewHandler(r *repository.Repository) *DeliveriesHandler {
	return &DeliveriesHandler{Repository: NewRepository(r)}
}

func (h *DeliveriesHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/deliveries", security.Authorize("admin"), h.GetDeliveries)
	router.GET("/deliveries/beneficiary", security.Authorize("beneficiario"), h.GetOwnDeliveries)
}

// GetDeliveries lists the full delivery history, newest first. This is the
// audit view: rows are write-once, so the listing is the whole story.
func (h *DeliveriesHandler) GetDeliveries(c *gin.Context) {
	deliveries, err := h.Repository.GetDeliveries()
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get deliveries", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, deliveries)
}

func (h *DeliveriesHandler) GetOwnDeliveries(c *gin.Context) {
	_, email := security.CallerIdentity(c)

	deliveries, err := h.Repository.GetDeliveriesByEmail(email)
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get deliveries", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, deliveries)
}
