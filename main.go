package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"gopkg.in/natefinch/lumberjack.v2"

	"reelog/api"
	"reelog/config"
	"reelog/handlers"
	"reelog/internal/database"
	"reelog/services/aifilter"
	"reelog/services/history"
	"reelog/services/users"
	"reelog/utils"
)

func main() {
	settings, err := loadSettings()
	if err != nil {
		log.Fatalf("[main] load settings: %v", err)
	}

	setupLogging(settings.DataDir)

	db, err := database.NewDB(database.Config{
		DatabasePath: filepath.Join(settings.DataDir, "reelog.db"),
	})
	if err != nil {
		log.Fatalf("[main] open database: %v", err)
	}
	defer db.Close()

	tokens, err := users.NewTokenIssuer(settings.JWTSecret)
	if err != nil {
		log.Fatalf("[main] token issuer: %v", err)
	}

	usersSvc := users.NewService(db.Users, tokens)
	historySvc := history.NewService(db.WatchItems)

	tmdb := aifilter.NewTMDBClient(settings.TMDBAPIKey, nil)
	gemini := aifilter.NewGeminiClient(settings.GeminiAPIKey, nil)
	filterSvc := aifilter.NewService(tmdb, gemini, historySvc)

	if !tmdb.IsConfigured() {
		log.Printf("[main] TMDB API key not set, company filtering disabled")
	}
	if !gemini.IsConfigured() {
		log.Printf("[main] Gemini API key not set, ai filtering degrades to heuristic")
	}

	router := utils.NewRouter()
	registerRoutes(router, settings, tokens, usersSvc, historySvc, filterSvc)

	addr := fmt.Sprintf(":%d", settings.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[main] listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Printf("[main] shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[main] shutdown: %v", err)
	}
}

func registerRoutes(
	router *mux.Router,
	settings config.Settings,
	tokens *users.TokenIssuer,
	usersSvc *users.Service,
	historySvc *history.Service,
	filterSvc *aifilter.Service,
) {
	usersHandler := handlers.NewUsersHandler(usersSvc)
	historyHandler := handlers.NewWatchHistoryHandler(historySvc)
	filterHandler := handlers.NewAIFilterHandler(filterSvc)

	// Credential and filter endpoints are rate limited per client IP,
	// each route group with its own buckets.
	loginLimiter := api.NewIPRateLimiter(api.PerMinute(settings.RateLimitPerMinute), settings.RateLimitPerMinute)
	usersPublic := router.PathPrefix("/api/users").Subrouter()
	usersPublic.Use(api.RateLimitMiddleware(loginLimiter))
	usersPublic.HandleFunc("", usersHandler.Register).Methods(http.MethodPost)
	usersPublic.HandleFunc("/login", usersHandler.Login).Methods(http.MethodPost)

	profile := router.PathPrefix("/api/users/profile").Subrouter()
	profile.Use(api.AuthMiddleware(tokens))
	profile.HandleFunc("", usersHandler.Profile).Methods(http.MethodGet)
	profile.HandleFunc("", usersHandler.UpdateProfile).Methods(http.MethodPut)

	watchHistory := router.PathPrefix("/api/watch-history").Subrouter()
	watchHistory.Use(api.AuthMiddleware(tokens))
	watchHistory.HandleFunc("", historyHandler.List).Methods(http.MethodGet)
	watchHistory.HandleFunc("", historyHandler.Add).Methods(http.MethodPost)
	watchHistory.HandleFunc("", historyHandler.Clear).Methods(http.MethodDelete)
	watchHistory.HandleFunc("/stats", historyHandler.Stats).Methods(http.MethodGet)
	filterLimiter := api.NewIPRateLimiter(api.PerMinute(settings.RateLimitPerMinute), settings.RateLimitPerMinute)
	watchHistory.Handle("/ai-filter",
		api.RateLimitMiddleware(filterLimiter)(http.HandlerFunc(filterHandler.Filter))).Methods(http.MethodPost)
	watchHistory.HandleFunc("/{id}", historyHandler.Update).Methods(http.MethodPut)
	watchHistory.HandleFunc("/{id}", historyHandler.Delete).Methods(http.MethodDelete)
}

func loadSettings() (config.Settings, error) {
	path := os.Getenv("REELOG_CONFIG")
	if path == "" {
		path = "./data/settings.json"
	}
	return config.NewManager(path).Load()
}

// setupLogging mirrors output to stdout and a size-rotated file under the
// data directory.
func setupLogging(dataDir string) {
	if err := os.MkdirAll(filepath.Join(dataDir, "logs"), 0o755); err != nil {
		log.Printf("[main] could not create log directory: %v", err)
		return
	}
	rotated := &lumberjack.Logger{
		Filename:   filepath.Join(dataDir, "logs", "reelog.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotated))
}
