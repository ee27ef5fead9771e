package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	handler "github.com/nvcfund/finmsg/internal/api/handlers"
	"github.com/nvcfund/finmsg/internal/api/router"
	config "github.com/nvcfund/finmsg/internal/configuration"
	"github.com/nvcfund/finmsg/internal/database"
	"github.com/nvcfund/finmsg/internal/messaging"
	"github.com/nvcfund/finmsg/internal/registry"
	"github.com/nvcfund/finmsg/internal/routing"
)

// loadBICRecordsFromFile loads BIC registry records from a CSV file into
// the database.
func loadBICRecordsFromFile(ctx context.Context, filePath string, reg registry.BICRegistry) (int, error) {
	startTime := time.Now()

	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	count, err := registry.Load(ctx, reg, file)
	if err != nil {
		return count, fmt.Errorf("failed to load BIC records: %w", err)
	}

	log.Printf("Loaded %d BIC records in %v", count, time.Since(startTime))
	return count, nil
}

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	loadFile := flag.String("load", "", "Path to BIC registry CSV file to load")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override config with command line flags if provided
	if *loadFile != "" {
		cfg.Data.BICRegistryFile = *loadFile
		cfg.Data.AutoLoad = true
	}

	// Initialize database
	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize BIC registry
	reg := registry.NewSQLBICRegistry(db, cfg.Database)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := reg.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to ensure registry schema: %v", err)
		}
	}

	// Auto-load data if configured
	if cfg.Data.AutoLoad && cfg.Data.BICRegistryFile != "" {
		log.Printf("Loading BIC records from %s", cfg.Data.BICRegistryFile)

		// Use a timeout context for loading
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		count, err := loadBICRecordsFromFile(ctx, cfg.Data.BICRegistryFile, reg)
		if err != nil {
			log.Printf("WARNING: Failed to load BIC records: %v", err)
		} else {
			log.Printf("Successfully loaded %d BIC records", count)
		}
	}

	// Initialize message router and facade
	bicRouter := routing.NewRouter(reg)
	facade, err := messaging.NewFacade(cfg.Bank)
	if err != nil {
		log.Fatalf("Failed to initialize messaging facade: %v", err)
	}

	// Initialize handlers
	bicHandler := handler.NewBICHandler(reg, bicRouter)
	messageHandler := handler.NewMessageHandler(facade)

	// Setup routes
	app := router.SetupRoutes(bicHandler, messageHandler)

	// Start server in a goroutine so we can handle graceful shutdown
	go func() {
		log.Printf("Starting server on port %d", cfg.Server.Port)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Provide a timeout context for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
