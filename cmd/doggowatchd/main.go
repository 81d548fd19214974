package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"doggo-watch-backend/config"
	"doggo-watch-backend/internal/api"
	"doggo-watch-backend/internal/browser"
	"doggo-watch-backend/internal/db"
	"doggo-watch-backend/internal/scraper"
	"doggo-watch-backend/internal/store"

	"github.com/SherClockHolmes/webpush-go"
)

func main() {
	logger := log.New(os.Stdout, "doggo-watch ", log.LstdFlags)

	configFlag := flag.String("config", "", "path to the config file (overrides CONFIG_PATH)")
	intervalFlag := flag.Int("interval", 0, "check interval in seconds (overrides config)")
	printFlag := flag.String("print", "", "print mode: plain or color (overrides config)")
	flag.Parse()

	configPath := os.Getenv("CONFIG_PATH")
	if *configFlag != "" {
		configPath = *configFlag
	}
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if *intervalFlag > 0 {
		cfg.Watcher.IntervalSeconds = *intervalFlag
	}
	if *printFlag != "" {
		cfg.Watcher.PrintMode = *printFlag
	}
	cfg.ApplyDefaults()

	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		logger.Println("VAPID keys are not configured; push notifications are disabled")
	}

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	// Open the browser session and run the watcher in the background.
	var session *browser.Session
	if cfg.Watcher.Enabled {
		session, err = browser.Open(ctx, cfg.Watcher.Browser, cfg.Watcher.TargetURL)
		if err != nil {
			logger.Fatalf("failed to open browser session for %s: %v", cfg.Watcher.TargetURL, err)
		}
		logger.Printf("browser session opened on %s", cfg.Watcher.TargetURL)

		watcherSvc := scraper.NewService(cfg, appStore, session)
		go watcherSvc.Run(ctx)
	}

	router := api.NewRouter(appStore, &webpushOptions,
		time.Duration(cfg.Server.CacheTTLSeconds)*time.Second, cfg.Server.RateLimitPerSec)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	if session != nil {
		if err := session.Close(); err != nil {
			logger.Printf("browser session close: %v", err)
		}
	}

	logger.Println("Server gracefully stopped")
}
