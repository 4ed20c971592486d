package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homevault/internal/config"
	"homevault/internal/database"
	"homevault/internal/handlers"
	"homevault/internal/repository"
	"homevault/internal/seed"
	"homevault/internal/service"
	"homevault/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	kvStore := store.NewSQLStore(db)

	var seedProvider seed.Provider
	if cfg.SeedDemoData {
		seedProvider = seed.Demo{}
	} else {
		seedProvider = seed.Empty{}
	}

	// Initialize repositories and hydrate them from the store
	workspaceRepo := repository.NewWorkspaceRepository(kvStore, cfg.StoragePrefix)
	rosterRepo := repository.NewFamilyRosterRepository(kvStore, cfg.StoragePrefix, seedProvider)

	ctx := context.Background()
	if err := workspaceRepo.Load(ctx); err != nil {
		log.Printf("Warning: workspace collection loaded with errors: %v", err)
	}
	if err := rosterRepo.Load(ctx); err != nil {
		log.Printf("Warning: family roster loaded with errors: %v", err)
	}

	// Initialize services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	workspaceService := service.NewWorkspaceService(workspaceRepo, seedProvider, emailService)
	familyService := service.NewFamilyService(rosterRepo)

	// Initialize handlers
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService)
	familyHandler := handlers.NewFamilyHandler(familyService)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/workspaces", workspaceHandler.List)
	mux.HandleFunc("POST /api/workspaces", workspaceHandler.Create)
	mux.HandleFunc("POST /api/workspaces/join", workspaceHandler.Join)
	mux.HandleFunc("POST /api/workspaces/invites/accept", workspaceHandler.AcceptInvite)
	mux.HandleFunc("POST /api/workspaces/switch-prompt/dismiss", workspaceHandler.DismissSwitchPrompt)
	mux.HandleFunc("POST /api/workspaces/{id}/select", workspaceHandler.Select)
	mux.HandleFunc("POST /api/workspaces/{id}/invites", workspaceHandler.Invite)

	mux.HandleFunc("GET /api/family/members", familyHandler.List)
	mux.HandleFunc("POST /api/family/members", familyHandler.Add)
	mux.HandleFunc("GET /api/family/members/{id}", familyHandler.Get)
	mux.HandleFunc("PATCH /api/family/members/{id}", familyHandler.Update)
	mux.HandleFunc("DELETE /api/family/members/{id}", familyHandler.Remove)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handlers.Logging(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Expire stale invites in the background
	go expireInvites(workspaceService)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// inviteMaxAge is how long a pending invite stays acceptable
const inviteMaxAge = 14 * 24 * time.Hour

// expireInvites periodically marks stale pending invites as expired
func expireInvites(workspaceService *service.WorkspaceService) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		expired, err := workspaceService.ExpirePendingInvites(context.Background(), inviteMaxAge)
		if err != nil {
			log.Printf("Failed to expire pending invites: %v", err)
			continue
		}
		if expired > 0 {
			log.Printf("Expired %d pending invites", expired)
		}
	}
}
