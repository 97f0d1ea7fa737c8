package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cfp/authz"
	"cfp/config"
	"cfp/database"
	"cfp/deliberation"
	"cfp/handlers"
	"cfp/logging"
	"cfp/middleware"
	"cfp/notify"
	"cfp/publicapi"
	"cfp/store"

	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.Setup(cfg); err != nil {
		logrus.Fatalf("Failed to set up logging: %v", err)
	}
	defer logging.Flush()

	// Initialize JWT secret
	middleware.SetJWTSecret(cfg.JWTSecret)

	// Initialize database
	db, err := database.Open(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	notifier := notify.New(cfg)
	if closer, ok := notifier.(io.Closer); ok {
		defer closer.Close()
	}

	// Initialize services
	events := store.NewEvents(db)
	gate := authz.NewGate(store.NewMemberships(db), events)
	reviews := deliberation.NewService(db, gate, store.NewSurveys(db), notifier, deliberation.Options{
		Serializable: cfg.ReviewSerializable,
		MaxAttempts:  cfg.ReviewMaxAttempts,
		RetryDelay:   cfg.ReviewRetryDelay,
	})
	public := publicapi.NewService(db, events)

	// Setup router
	router := handlers.NewRouter(handlers.NewReviewHandler(reviews, gate), handlers.NewPublicHandler(public))

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithField("port", cfg.ServerPort).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.LogError("http_server", err, nil)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logging.LogError("http_shutdown", err, nil)
	}
	logrus.Info("Server stopped")
}
