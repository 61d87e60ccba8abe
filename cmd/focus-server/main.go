package main

import (
	"log"
	"os"

	"github.com/shabarini/focus-app/internal/logger"
	"github.com/shabarini/focus-app/server"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "postgres://localhost:5432/focus?sslmode=disable"
	}

	logCfg := logger.DefaultConfig()
	logCfg.Console = true
	if err := logger.Init(logCfg); err != nil {
		log.Printf("logger init failed: %v", err)
	}
	defer logger.Close()

	srv, err := server.New(dbURL)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			log.Printf("Error closing server: %v", err)
		}
	}()

	log.Printf("FOCUS sync server starting on :%s", port)
	if err := srv.Start(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
