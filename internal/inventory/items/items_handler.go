package items

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"sasocial/internal/category"
	"sasocial/internal/changelog"
	"sasocial/internal/identity"
	"sasocial/internal/inventory/ledger"
	"sasocial/internal/repository"
	custom_error "sasocial/pkg/errors"
	"sasocial/pkg/models"
	"sasocial/pkg/security"

	"github.com/gin-gonic/gin"
)

type CreateItemRequest struct {
	Name       string     `json:"name" binding:"required"`
	Category   string     `json:"category" binding:"required"`
	GoodTypeID *int       `json:"good_type_id"`
	Quantity   int        `json:"quantity" binding:"gte=0"`
	MinStock   int        `json:"min_stock" binding:"gte=0"`
	Supplier   string     `json:"supplier"`
	StatusID   *int       `json:"status_id"`
	EntryDate  *time.Time `json:"entry_date"`
	ValidUntil *time.Time `json:"valid_until"`
}

type UpdateItemRequest struct {
	Name       *string    `json:"name"`
	Category   *string    `json:"category"`
	GoodTypeID *int       `json:"good_type_id"`
	Quantity   *int       `json:"quantity"`
	MinStock   *int       `json:"min_stock"`
	Supplier   *string    `json:"supplier"`
	StatusID   *int       `json:"status_id"`
	ValidUntil *time.Time `json:"valid_until"`
}

// itemView decorates an item with the low-stock flag for the admin list.
type itemView struct {
	models.InventoryItem
	LowStock bool `json:"low_stock"`
}

type ItemsHandler struct {
	Repository *ItemRepository
	WriteOff   *ledger.WriteOffService
	Resolver   *identity.Resolver
	ChangeLog  *changelog.ChangeLog
}

func NewHandler(r *repository.Repository, resolver *identity.Resolver, changeLog *changelog.ChangeLog) *ItemsHandler {
	itemRepo := NewRepository(r)
	stockLedger := ledger.NewStockLedger(r)

	return &ItemsHandler{
		Repository: itemRepo,
		WriteOff:   ledger.NewWriteOffService(r, stockLedger, itemRepo, changeLog),
		Resolver:   resolver,
		ChangeLog:  changeLog,
	}
}

func (h *ItemsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/inventory", security.Authorize("admin"), h.GetItems)
	router.GET("/inventory/available", security.Authorize("beneficiario"), h.GetAvailableItems)
	router.GET("/inventory/:id", security.Authorize("admin"), h.GetItem)
	router.POST("/inventory", security.Authorize("admin"), h.CreateItem)
	router.PATCH("/inventory/:id", security.Authorize("admin"), h.UpdateItem)
	router.DELETE("/inventory/:id", security.Authorize("admin"), h.DeleteItem)
	router.POST("/inventory/:id/write-off", security.Authorize("admin"), h.WriteOffItem)
}

func (h *ItemsHandler) GetItems(c *gin.Context) {
	items, err := h.Repository.GetItems()
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get inventory", "details": err.Error()})
		return
	}

	views := make([]itemView, 0, len(items))
	for _, item := range items {
		views = append(views, itemView{InventoryItem: item, LowStock: item.LowStock()})
	}

	c.JSON(http.StatusOK, views)
}

// GetAvailableItems lists the stock a beneficiary may request: categories
// matching their profile, quantity above zero.
func (h *ItemsHandler) GetAvailableItems(c *gin.Context) {
	userID, email := security.CallerIdentity(c)

	profile, err := h.Resolver.Profile(userID, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to resolve beneficiary profile", "details": err.Error()})
		return
	}
	if profile == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Sem perfil de beneficiário"})
		return
	}

	items, err := h.Repository.GetItems()
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get inventory", "details": err.Error()})
		return
	}

	accepted := category.AcceptedLabels(*profile)
	available := make([]models.InventoryItem, 0)
	for _, item := range items {
		if category.Available(item, accepted) {
			available = append(available, item)
		}
	}

	c.JSON(http.StatusOK, available)
}

func (h *ItemsHandler) GetItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item ID is required"})
		return
	}

	item, err := h.Repository.GetItem(id)
	if err != nil {
		var notFound *custom_error.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bem não encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get item", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, itemView{InventoryItem: *item, LowStock: item.LowStock()})
}

func (h *ItemsHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		log.Println("Error binding JSON:", err)
		return
	}

	item, err := h.Repository.PersistItem(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to create item", "details": err.Error()})
		return
	}

	h.ChangeLog.Record(models.ChangeTypeInventory,
		"Bem adicionado: "+item.Name, actorName(c), strconv.Itoa(item.ID))

	c.JSON(http.StatusCreated, item)
}

func (h *ItemsHandler) UpdateItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item ID is required"})
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.GoodTypeID != nil {
		updates["good_type_id"] = *req.GoodTypeID
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity cannot be negative"})
			return
		}
		updates["quantity"] = *req.Quantity
	}
	if req.MinStock != nil {
		updates["min_stock"] = *req.MinStock
	}
	if req.Supplier != nil {
		updates["supplier"] = *req.Supplier
	}
	if req.StatusID != nil {
		updates["status_id"] = *req.StatusID
	}
	if req.ValidUntil != nil {
		updates["valid_until"] = *req.ValidUntil
	}

	if err := h.Repository.UpdateItem(id, updates); err != nil {
		var notFound *custom_error.NotFoundError
		var validation *custom_error.ValidationError
		switch {
		case errors.As(err, &notFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Bem não encontrado"})
		case errors.As(err, &validation):
			c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to update item", "details": err.Error()})
		}
		return
	}

	h.ChangeLog.Record(models.ChangeTypeInventory,
		"Bem atualizado", actorName(c), strconv.Itoa(id))

	c.JSON(http.StatusOK, gin.H{"message": "Item updated successfully"})
}

func (h *ItemsHandler) DeleteItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item ID is required"})
		return
	}

	if err := h.Repository.DeleteItem(id); err != nil {
		var notFound *custom_error.NotFoundError
		var fkViolation *custom_error.ForeignKeyViolationError
		switch {
		case errors.As(err, &notFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Bem não encontrado"})
		case errors.As(err, &fkViolation):
			c.JSON(http.StatusConflict, gin.H{"error": "Bem tem entregas associadas e não pode ser removido"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to delete item", "details": err.Error()})
		}
		return
	}

	h.ChangeLog.Record(models.ChangeTypeInventory,
		"Bem removido", actorName(c), strconv.Itoa(id))

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

func (h *ItemsHandler) WriteOffItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item ID is required"})
		return
	}

	var req ledger.WriteOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	delivery, err := h.WriteOff.ManualWriteOff(id, req, actorName(c))
	if err != nil {
		var notFound *custom_error.NotFoundError
		var insufficient *custom_error.InsufficientStockError
		var validation *custom_error.ValidationError
		switch {
		case errors.As(err, &notFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Bem não encontrado"})
		case errors.As(err, &insufficient):
			c.JSON(http.StatusConflict, gin.H{"error": "Stock insuficiente", "details": insufficient.Error()})
		case errors.As(err, &validation):
			c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to write off stock", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, delivery)
}

func actorName(c *gin.Context) string {
	_, email := security.CallerIdentity(c)
	if email == "" {
		return "admin"
	}
	return email
}
