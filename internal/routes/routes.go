package routes

import (
	"log"
	"os"

	"sasocial/internal/applications"
	"sasocial/internal/changelog"
	"sasocial/internal/deliveries"
	"sasocial/internal/identity"
	"sasocial/internal/inventory/items"
	"sasocial/internal/lookups"
	"sasocial/internal/middleware"
	"sasocial/internal/repository"
	"sasocial/internal/requests"
	"sasocial/internal/users"
	"sasocial/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Register wires every feature handler onto the router. Public routes are
// login and the application intake form; everything else sits behind the JWT
// middleware with per-route role checks.
func Register(router *gin.Engine, repo *repository.Repository, logger *zap.Logger) {
	userRepo := users.NewRepository(repo)
	appRepo := applications.NewRepository(repo)
	resolver := identity.NewResolver(appRepo, logger)
	changeLogRepo := changelog.NewRepository(repo)
	changeLog := changelog.NewChangeLog(changeLogRepo, logger)

	appsHandler := applications.NewHandler(repo, userRepo, changeLog)

	security.NewLoginHandler(repo, resolver).RegisterRoutes(router)
	appsHandler.RegisterPublicRoutes(router)

	protected := router.Group("")
	protected.Use(security.JWTMiddleware())

	appsHandler.RegisterRoutes(protected)
	users.NewHandler(userRepo).RegisterRoutes(protected)
	items.NewHandler(repo, resolver, changeLog).RegisterRoutes(protected)
	requests.NewHandler(repo, resolver, changeLog).RegisterRoutes(protected)
	deliveries.NewHandler(repo).RegisterRoutes(protected)
	lookups.NewHandler(repo, logger).RegisterRoutes(protected)
	changelog.NewHandler(changeLogRepo).RegisterRoutes(protected)
}

func RegisterUtilityRoutes(router *gin.Engine) {
	router.GET("/health", middleware.HealthCheckHandler())

	openapiFilePath := "./docs/index.html"
	if _, err := os.Stat(openapiFilePath); err == nil {
		router.GET("/openapi.html", func(c *gin.Context) {
			c.File(openapiFilePath)
		})
		log.Println("Route docs/index.html registered successfully.")
	} else {
		log.Printf("Warning: %s not found. Route /openapi.html will not be registered.\n", openapiFilePath)
	}
}
