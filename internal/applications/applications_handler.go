package applications

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"sasocial/internal/changelog"
	"sasocial/internal/repository"
	UserRepository "sasocial/internal/users"
	custom_error "sasocial/pkg/errors"
	"sasocial/pkg/models"
	"sasocial/pkg/security"

	"github.com/gin-gonic/gin"
)

type ApplicationsHandler struct {
	Service *ApplicationService
}

func NewHandler(r *repository.Repository, userRepo *UserRepository.UserRepository, changeLog *changelog.ChangeLog) *ApplicationsHandler {
	return &ApplicationsHandler{
		Service: NewService(NewRepository(r), userRepo, changeLog),
	}
}

type acceptRequest struct {
	CreateAccount bool `json:"create_account"`
}

func (h *ApplicationsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/applications", security.Authorize("admin"), h.GetApplications)
	router.GET("/applications/:id", security.Authorize("admin"), h.GetApplication)
	router.PATCH("/applications/:id/accept", security.Authorize("admin"), h.AcceptApplication)
	router.PATCH("/applications/:id/reject", security.Authorize("admin"), h.RejectApplication)
}

// RegisterPublicRoutes exposes the intake endpoint fed by the public website
// form; applicants are not authenticated.
func (h *ApplicationsHandler) RegisterPublicRoutes(router *gin.Engine) {
	router.POST("/applications", h.SubmitApplication)
}

func (h *ApplicationsHandler) SubmitApplication(c *gin.Context) {
	var app models.Application
	if err := c.ShouldBindJSON(&app); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		log.Println("Error binding JSON:", err)
		return
	}

	id, err := h.Service.Submit(app)
	if err != nil {
		var validation *custom_error.ValidationError
		var unique *custom_error.UniqueViolationError
		switch {
		case errors.As(err, &validation):
			c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
		case errors.As(err, &unique):
			c.JSON(http.StatusConflict, gin.H{"error": "Já existe uma candidatura para este email"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to submit application", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *ApplicationsHandler) GetApplications(c *gin.Context) {
	apps, err := h.Service.GetApplications()
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get applications", "details": err.Error()})
		return
	}

	if apps == nil {
		apps = []models.Application{}
	}

	c.JSON(http.StatusOK, apps)
}

func (h *ApplicationsHandler) GetApplication(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Application ID is required"})
		return
	}

	app, err := h.Service.GetApplication(id)
	if err != nil {
		var notFound *custom_error.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Candidatura não encontrada"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get application", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *ApplicationsHandler) AcceptApplication(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Application ID is required"})
		return
	}

	var req acceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Body is optional; default is accept without provisioning.
		req = acceptRequest{}
	}

	actor := actorName(c)
	tempPassword, err := h.Service.Accept(id, req.CreateAccount, actor)
	if err != nil {
		h.respondReviewError(c, err)
		return
	}

	resp := gin.H{"message": "Candidatura aceite"}
	if tempPassword != "" {
		resp["temporary_password"] = tempPassword
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ApplicationsHandler) RejectApplication(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Application ID is required"})
		return
	}

	if err := h.Service.Reject(id, actorName(c)); err != nil {
		h.respondReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Candidatura recusada"})
}

func (h *ApplicationsHandler) respondReviewError(c *gin.Context, err error) {
	var notFound *custom_error.NotFoundError
	var transition *custom_error.InvalidStateTransitionError
	var validation *custom_error.ValidationError
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Candidatura não encontrada"})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{"error": "Candidatura já foi decidida", "details": transition.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	default:
		log.Println("Error reviewing application: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to review application", "details": err.Error()})
	}
}

func actorName(c *gin.Context) string {
	_, email := security.CallerIdentity(c)
	if email == "" {
		return "admin"
	}
	return email
}
