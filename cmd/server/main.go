package main

import (
	"fmt"
	"log"
	"os"

	"pronunciation-eval-platform/internal/apigateway"
	"pronunciation-eval-platform/internal/auth"
	"pronunciation-eval-platform/internal/coreengine/engineadapters"
	"pronunciation-eval-platform/internal/datastore"
	"pronunciation-eval-platform/internal/objectstore"
)

func main() {
	// Load configurations at startup
	auth.LoadAdminCredentials()

	// Initialize DB connection from environment variables.
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSSLMode := os.Getenv("DB_SSLMODE") // e.g., "disable" for local dev

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		log.Println("WARNING: DB_PASSWORD environment variable not set.")
	}
	if dbName == "" {
		dbName = "pronunciation_eval_db"
	}
	if dbSSLMode == "" {
		dbSSLMode = "disable"
	}

	dataSourceName := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode)

	if err := datastore.InitDB(dataSourceName); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer datastore.DB.Close()

	// Initialize MinIO client for corpus audio storage.
	if err := objectstore.InitMinioClient(); err != nil {
		log.Fatalf("Failed to initialize MinIO client: %v", err)
	}

	minioClient, err := objectstore.GetGlobalMinioClient()
	if err != nil {
		log.Fatalf("Failed to get MinIO client: %v", err)
	}
	engineadapters.InitAdapterRegistry(minioClient)

	router := apigateway.SetupRouter()

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}
	log.Printf("Starting server on :%s", serverPort)
	if err := router.Run(":" + serverPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
