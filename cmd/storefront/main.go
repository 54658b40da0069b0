package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JelipeElGuapo/safebuzz/internal/auth"
	"github.com/JelipeElGuapo/safebuzz/internal/cart"
	"github.com/JelipeElGuapo/safebuzz/internal/catalog"
	"github.com/JelipeElGuapo/safebuzz/internal/checkout"
	"github.com/JelipeElGuapo/safebuzz/internal/config"
	"github.com/JelipeElGuapo/safebuzz/internal/db"
	"github.com/JelipeElGuapo/safebuzz/internal/events"
	httpapi "github.com/JelipeElGuapo/safebuzz/internal/http"
	"github.com/JelipeElGuapo/safebuzz/internal/identity/localidp"
	"github.com/JelipeElGuapo/safebuzz/internal/identity/rest"
	"github.com/JelipeElGuapo/safebuzz/internal/state"
)

func main() {
	cfg := config.Load()

	logger := log.New(os.Stdout, "[storefront] ", log.LstdFlags|log.Lshortfile)

	var cartSlot, authSlot state.Slot

	sqlDB := openDatabase(cfg, logger)
	if sqlDB != nil {
		defer sqlDB.Close()
		cartSlot = state.NewPostgresSlot(sqlDB)
		authSlot = state.NewPostgresSlot(sqlDB)
	} else {
		logger.Printf("no database configured, state slots are in-memory only")
		cartSlot = state.NewMemorySlot()
		authSlot = state.NewMemorySlot()
	}

	var provider auth.Provider
	if cfg.IdentityBaseURL != "" {
		client, err := rest.NewClient(cfg.IdentityBaseURL, cfg.IdentityAPIKey, &http.Client{Timeout: cfg.ProviderTimeout})
		if err != nil {
			logger.Fatalf("identity client: %v", err)
		}
		provider = client
	} else {
		if sqlDB == nil {
			logger.Fatal("local identity provider needs STOREFRONT_DB_DSN (or set IDENTITY_BASE_URL)")
		}
		provider = localidp.New(sqlDB, []byte(cfg.JWTSecret))
	}

	catalogStore := catalog.NewStore()
	cartStore := cart.NewStore(cartSlot, logger)
	authStore := auth.NewStore(provider, authSlot, logger)

	if w, ok := provider.(auth.Watcher); ok {
		stop := w.OnIdentityChanged(authStore.SetIdentity)
		defer stop()
	}

	rabbitConn := events.MustDial(cfg.RabbitURL)
	defer rabbitConn.Close()

	publisher, err := events.NewRabbitPublisher(rabbitConn)
	if err != nil {
		logger.Fatalf("failed to create events publisher: %v", err)
	}

	checkoutSvc := checkout.NewService(cartStore, publisher, cfg.PaymentDelay, cfg.WhatsAppNumber, logger)

	router := httpapi.NewRouter(httpapi.Deps{
		Catalog:          catalogStore,
		Cart:             cartStore,
		Auth:             authStore,
		Checkout:         checkoutSvc,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("storefront listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errCh:
		logger.Fatalf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Printf("publisher close error: %v", err)
	}
}

// openDatabase connects and migrates when a DSN is configured, otherwise
// returns nil and the storefront runs on in-memory state.
func openDatabase(cfg config.Config, logger *log.Logger) *sql.DB {
	if cfg.DatabaseDSN == "" {
		return nil
	}
	if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
		logger.Fatalf("run migrations: %v", err)
	}
	return db.MustOpen(cfg.DatabaseDSN)
}
