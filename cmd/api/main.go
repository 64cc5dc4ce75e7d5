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

	// Application Layer
	"remindme/internal/application/render"
	appService "remindme/internal/application/service"
	"remindme/internal/config"

	// Infrastructure Layer
	"remindme/internal/infrastructure/database/sqlite"
	lineClient "remindme/internal/infrastructure/line"
	"remindme/internal/infrastructure/reddit"
	"remindme/internal/infrastructure/scheduler"
	"remindme/internal/infrastructure/telegram"

	// Interfaces Layer
	"remindme/internal/interfaces/api/handler"
	"remindme/internal/interfaces/api/router"

	// Packages
	appLogger "remindme/internal/pkg/logger"

	_ "github.com/joho/godotenv/autoload" // Automatically load .env file
	"gorm.io/gorm"
)

func gracefulShutdown(apiServer *http.Server, pollerService appService.PollerService, db *gorm.DB, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")

	// Stop polling first so no batch is cut off mid-way
	log.Println("Stopping poller...")
	pollerService.Stop()
	log.Println("Poller stopped.")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Closing database connection...")
	if err := sqlite.Close(db); err != nil {
		log.Printf("Error closing database: %v", err)
	} else {
		log.Println("Database connection closed.")
	}

	log.Println("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		appLogger.New("info").Error("Failed to load configuration", err)
		os.Exit(1)
	}
	appLog := appLogger.New(cfg.LogLevel)
	appLog.Info("Logger initialized.")

	// --- Infrastructure ---
	db, err := sqlite.Open(cfg.DBPath, cfg.LogLevel == "debug")
	if err != nil {
		appLog.Error("Failed to open database", err)
		os.Exit(1)
	}
	reminderRepo := sqlite.NewReminderRepository(db)
	appLog.Info("Database and repositories initialized.")

	inboxes := map[string]appService.Inbox{}
	accountName := cfg.AccountName

	if cfg.Reddit.Enabled() {
		redditClient, err := reddit.NewClient(reddit.Config{
			Username:     cfg.Reddit.Username,
			Password:     cfg.Reddit.Password,
			ClientID:     cfg.Reddit.ClientID,
			ClientSecret: cfg.Reddit.ClientSecret,
			UserAgent:    cfg.Reddit.UserAgent,
			NoPost:       cfg.Reddit.NoPost,
		}, appLog)
		if err != nil {
			appLog.Error("Failed to create reddit client", err)
			os.Exit(1)
		}
		if accountName == "" {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			accountName, err = redditClient.AccountName(ctx)
			cancel()
			if err != nil {
				appLog.Error("Failed to log into reddit", err)
				os.Exit(1)
			}
		}
		inboxes["reddit"] = redditClient
	}

	if cfg.Telegram.Enabled() {
		tgClient, err := telegram.NewClient(cfg.Telegram.BotToken, appLog)
		if err != nil {
			appLog.Error("Failed to create telegram client", err)
			os.Exit(1)
		}
		if accountName == "" {
			accountName = tgClient.AccountName()
		}
		inboxes["telegram"] = tgClient
	}

	var line *lineClient.Client
	if cfg.Line.Enabled() {
		line, err = lineClient.NewClient(cfg.Line.ChannelSecret, cfg.Line.ChannelToken, appLog)
		if err != nil {
			appLog.Error("Failed to create LINE client", err)
			os.Exit(1)
		}
	}

	if len(inboxes) == 0 && line == nil {
		appLog.Warn("No messaging platform configured; the bot will only serve /health")
	}
	if accountName == "" {
		appLog.Warn("BOT_ACCOUNT_NAME not set and no platform reported one; links will have no recipient")
	}

	// --- Application Services ---
	links := render.Links{
		AccountName: accountName,
		WebURL:      cfg.WebURL,
		InfoURL:     cfg.InfoURL,
		OwnerName:   cfg.OwnerName,
	}
	formatter := render.NewListFormatter(links, cfg.MaxListLength)
	reminderSvc := appService.NewReminderService(reminderRepo, formatter, links, appLog)
	messageSvc := appService.NewMessageService(reminderSvc, links, appLog)

	cronScheduler := scheduler.NewScheduler(appLog)
	pollerSvc := appService.NewPollerService(cronScheduler, messageSvc, appLog)
	for name, inbox := range inboxes {
		if err := pollerSvc.Register(name, cfg.PollSpec, inbox); err != nil {
			appLog.Error(fmt.Sprintf("Failed to schedule polling for %s", name), err)
			os.Exit(1)
		}
	}
	// Drain whatever queued up while the bot was down instead of waiting a tick.
	for name := range inboxes {
		name := name
		go func() {
			if _, err := pollerSvc.PollNow(context.Background(), name); err != nil {
				appLog.Error(fmt.Sprintf("Initial poll of %s failed", name), err)
			}
		}()
	}
	appLog.Info("Application services initialized.")

	// --- API Handlers ---
	routerCfg := &router.Config{
		Logger: appLog,
	}
	if line != nil {
		routerCfg.LineHandler = handler.NewLineHandler(line, messageSvc, appLog)
	}
	echoRouter := router.NewRouter(routerCfg)

	// --- HTTP Server ---
	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      echoRouter,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// --- Start Server & Shutdown Handling ---
	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, pollerSvc, db, done)

	appLog.Info(fmt.Sprintf("Server starting on port %d", cfg.Port))
	err = apiServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		appLog.Error("HTTP server ListenAndServe error", err)
		panic(fmt.Sprintf("http server error: %s", err))
	}

	// Wait for graceful shutdown signal
	<-done
	appLog.Info("Graceful shutdown complete.")
}
