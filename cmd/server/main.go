package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/eqao-prep/backend/internal/attempts"
	"github.com/eqao-prep/backend/internal/auth"
	"github.com/eqao-prep/backend/internal/database"
	"github.com/eqao-prep/backend/internal/generator"
	"github.com/eqao-prep/backend/internal/middleware"
	"github.com/eqao-prep/backend/internal/tests"
)

func main() {
	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize handlers
	pipeline := generator.NewPipelineFromEnv()

	authHandler := auth.NewHandler(db)
	testStore := tests.NewStore(db)
	testHandler := tests.NewHandler(tests.NewService(testStore, pipeline), testStore)
	attemptHandler := attempts.NewHandler(attempts.NewStore(db))

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	protected.HandleFunc("/tests", testHandler.List).Methods("GET")
	protected.HandleFunc("/tests/{id:[0-9]+}", testHandler.Get).Methods("GET")
	protected.HandleFunc("/tests/{id:[0-9]+}/questions", testHandler.GetQuestions).Methods("GET")

	protected.HandleFunc("/attempts", attemptHandler.Start).Methods("POST")
	protected.HandleFunc("/attempts", attemptHandler.List).Methods("GET")
	protected.HandleFunc("/attempts/{id:[0-9]+}", attemptHandler.Get).Methods("GET")
	protected.HandleFunc("/attempts/{id:[0-9]+}/submit", attemptHandler.Submit).Methods("POST")

	// Admin routes
	admin := protected.PathPrefix("").Subrouter()
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("/tests/generate", testHandler.Generate).Methods("POST")
	admin.HandleFunc("/tests/{id:[0-9]+}", testHandler.Delete).Methods("DELETE")
	admin.HandleFunc("/attempts/{id:[0-9]+}/feedback", attemptHandler.AddFeedback).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
