package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/srushti1125/techdigest/internal/aggregate"
	"github.com/srushti1125/techdigest/internal/api"
	"github.com/srushti1125/techdigest/internal/auth"
	"github.com/srushti1125/techdigest/internal/config"
	"github.com/srushti1125/techdigest/internal/database"
	"github.com/srushti1125/techdigest/internal/digest"
	"github.com/srushti1125/techdigest/internal/fetch"
	"github.com/srushti1125/techdigest/internal/logger"
	"github.com/srushti1125/techdigest/internal/mailer"
	"github.com/srushti1125/techdigest/internal/scheduler"
	"github.com/srushti1125/techdigest/internal/services"
	"github.com/srushti1125/techdigest/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.AppEnv)
	auth.Init(cfg.JWTSecret)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(db)
	articleService := services.NewArticleService(db)
	eventService := services.NewEventService(db, hub)

	// The five content sources: two date-filtered APIs, one unfiltered
	// social search, and two site-scoped news feeds.
	sources := []fetch.Source{
		fetch.NewHackerNewsSource(),
		fetch.NewNewsAPISource(cfg.NewsAPIKey),
		fetch.NewRedditSource(),
		fetch.NewGoogleNewsSource("timesofindia.indiatimes.com"),
		fetch.NewGoogleNewsSource("medium.com"),
	}

	smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)

	aggregateService := aggregate.NewService(userService, articleService, eventService, sources, hub, cfg.LookbackDays)
	digestService := digest.NewService(userService, articleService, eventService, smtpMailer, cfg.LookbackDays)

	// Set up and run the background loops
	aggregationLoop := scheduler.NewAggregationLoop(aggregateService, time.Duration(cfg.FetchIntervalMinutes)*time.Minute)
	go aggregationLoop.Run()

	digestLoop, err := scheduler.NewDigestLoop(digestService, cfg.DigestCron)
	if err != nil {
		log.Fatalf("Invalid digest cron spec %q: %v", cfg.DigestCron, err)
	}
	go digestLoop.Run()

	// Set up router
	router := api.NewRouter(hub, userService, articleService, eventService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	aggregationLoop.Stop()
	digestLoop.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
