package main

import (
	"context"
	"log"
	"os"

	"sasocial/cmd"
	"sasocial/internal/database"
	"sasocial/internal/logger"
	"sasocial/internal/middleware"
	"sasocial/internal/repository"
	"sasocial/internal/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cmd.Execute(ctx)
}

func main() {
	zapLogger := logger.NewLogger()
	defer zapLogger.Sync()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	log.Println("Connected to the database successfully!")

	if err := database.RunMigrations("./migrations", zapLogger); err != nil {
		log.Fatalf("Error running migrations: %v", err)
	}

	repo := repository.NewRepository(db)

	router := gin.Default()
	router.Use(middleware.RecoveryMiddleware(zapLogger))

	routes.Register(router, repo, zapLogger)
	routes.RegisterUtilityRoutes(router)

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		panic(err)
	}
}
