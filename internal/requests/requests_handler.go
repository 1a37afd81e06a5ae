package requests

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"sasocial/internal/changelog"
	"sasocial/internal/identity"
	"sasocial/internal/inventory/items"
	"sasocial/internal/inventory/ledger"
	"sasocial/internal/repository"
	custom_error "sasocial/pkg/errors"
	"sasocial/pkg/models"
	"sasocial/pkg/security"

	"github.com/gin-gonic/gin"
)

type RequestsHandler struct {
	Service  *RequestService
	Resolver *identity.Resolver
}

func NewHandler(r *repository.Repository, resolver *identity.Resolver, changeLog *changelog.ChangeLog) *RequestsHandler {
	return &RequestsHandler{
		Service: NewService(
			r,
			NewRepository(r),
			items.NewRepository(r),
			ledger.NewStockLedger(r),
			changeLog,
		),
		Resolver: resolver,
	}
}

func (h *RequestsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/requests", security.Authorize("beneficiario"), h.CreateRequest)
	router.GET("/requests", security.Authorize("admin"), h.GetRequests)
	router.GET("/requests/beneficiary", security.Authorize("beneficiario"), h.GetOwnRequests)
	router.GET("/requests/:id", security.Authorize("admin"), h.GetRequest)
	router.PATCH("/requests/:id/approve", security.Authorize("admin"), h.ApproveRequest)
	router.PATCH("/requests/:id/reject", security.Authorize("admin"), h.RejectRequest)
	router.PATCH("/requests/:id/deliver", security.Authorize("admin"), h.DeliverRequest)
}

// CreateRequest opens a request for the authenticated beneficiary. Identity
// comes from the token, never from the payload, so a beneficiary cannot file
// requests on someone else's behalf.
func (h *RequestsHandler) CreateRequest(c *gin.Context) {
	var req models.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		log.Println("Error binding JSON:", err)
		return
	}

	userID, email := security.CallerIdentity(c)
	req.BeneficiaryID = userID
	req.BeneficiaryEmail = email

	if req.BeneficiaryName == "" {
		if profile, err := h.Resolver.Profile(userID, email); err == nil && profile != nil {
			req.BeneficiaryName = profile.Name
		}
	}

	requestID, err := h.Service.Create(req)
	if err != nil {
		var validation *custom_error.ValidationError
		var notFound *custom_error.NotFoundError
		switch {
		case errors.As(err, &validation):
			c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
		case errors.As(err, &notFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Bem não encontrado"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to create request", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": requestID, "status": models.RequestStatusPending})
}

func (h *RequestsHandler) GetRequests(c *gin.Context) {
	reqs, err := h.Service.GetRequests()
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get requests", "details": err.Error()})
		return
	}

	if status := c.Query("status"); status != "" {
		filtered := make([]models.Request, 0)
		for _, req := range reqs {
			if req.Status == status {
				filtered = append(filtered, req)
			}
		}
		reqs = filtered
	}

	c.JSON(http.StatusOK, reqs)
}

// GetOwnRequests lists the caller's requests, matched on the email in the
// token.
func (h *RequestsHandler) GetOwnRequests(c *gin.Context) {
	_, email := security.CallerIdentity(c)

	reqs, err := h.Service.GetRequests()
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get requests", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, FilterByBeneficiaryEmail(reqs, email))
}

func (h *RequestsHandler) GetRequest(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request ID is required"})
		return
	}

	req, err := h.Service.GetRequest(id)
	if err != nil {
		var notFound *custom_error.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pedido não encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get request", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, req)
}

func (h *RequestsHandler) ApproveRequest(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request ID is required"})
		return
	}

	if err := h.Service.Approve(id, actorName(c)); err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pedido aprovado", "status": models.RequestStatusApproved})
}

func (h *RequestsHandler) RejectRequest(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request ID is required"})
		return
	}

	if err := h.Service.Reject(id, actorName(c)); err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pedido rejeitado", "status": models.RequestStatusRejected})
}

func (h *RequestsHandler) DeliverRequest(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request ID is required"})
		return
	}

	if err := h.Service.MarkDelivered(id); err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pedido entregue", "status": models.RequestStatusDelivered})
}

func respondLifecycleError(c *gin.Context, err error) {
	var notFound *custom_error.NotFoundError
	var alreadyProcessed *custom_error.AlreadyProcessedError
	var invalidTransition *custom_error.InvalidStateTransitionError
	var insufficientStock *custom_error.InsufficientStockError

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Pedido não encontrado"})
	case errors.As(err, &alreadyProcessed):
		c.JSON(http.StatusConflict, gin.H{"error": "Pedido já processado", "status": alreadyProcessed.Status})
	case errors.As(err, &invalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": invalidTransition.Error()})
	case errors.As(err, &insufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": "Stock insuficiente", "details": insufficientStock.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to process request", "details": err.Error()})
	}
}

func actorName(c *gin.Context) string {
	_, email := security.CallerIdentity(c)
	if email == "" {
		return "admin"
	}
	return email
}
