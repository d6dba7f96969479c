package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/comparador-racao/backend/config"
	httpDelivery "github.com/comparador-racao/backend/internal/delivery/http"
	"github.com/comparador-racao/backend/internal/infrastructure/cache"
	"github.com/comparador-racao/backend/internal/infrastructure/catalog"
	"github.com/comparador-racao/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Comparador de Rações backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	store, err := catalog.Load(cfg.Catalog.ProductsPath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	log.Printf("[CATALOG] Loaded %d products from %s", store.Size(), cfg.Catalog.ProductsPath)

	memoryCache := cache.NewMemoryCache()
	defer memoryCache.Close()
	log.Printf("Session TTL: %s", cfg.Session.TTL)
	log.Printf("Rate limit: %d req/min per IP (burst %d)", cfg.RateLimit.PerIP, cfg.RateLimit.Burst)

	catalogService := usecase.NewCatalogService(store)
	sessionService := usecase.NewSessionService(store, memoryCache, usecase.SessionServiceConfig{
		TTL: cfg.Session.TTL,
	})

	handler := httpDelivery.NewHandler(catalogService, sessionService)
	router := httpDelivery.SetupRouter(cfg, handler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-serverErrChan:
		log.Printf("Server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
