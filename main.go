package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/username/cartera/backend/src/config"
	"github.com/username/cartera/backend/src/database"
	"github.com/username/cartera/backend/src/handlers"
	"github.com/username/cartera/backend/src/logger"
	"github.com/username/cartera/backend/src/services"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000":    true,
			config.Cfg.FrontendBaseURL: true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("Cartera backend server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath)

	providerPacePerSecond := 1.0 / config.Cfg.ProviderPace.Seconds()

	priceService := services.NewPriceService(database.DB, config.Cfg.ProviderTimeout, config.Cfg.ProviderPace)
	fxService := services.NewFxService(database.DB, config.Cfg.ProviderTimeout, config.Cfg.ProviderPace)
	syncService := services.NewSyncService(priceService, fxService, config.Cfg.SyncQueueSize, providerPacePerSecond)
	syncService.Start()

	seriesService := services.NewSeriesService(database.DB, syncService)
	cashService := services.NewCashService(database.DB)
	importService := services.NewImportService(database.DB)

	portfolioHandler := handlers.NewPortfolioHandler(database.DB, seriesService)
	cashHandler := handlers.NewCashHandler(database.DB, cashService)
	priceHandler := handlers.NewPriceHandler(priceService)
	fxHandler := handlers.NewFxHandler(database.DB, fxService)
	importHandler := handlers.NewImportHandler(database.DB, importService, fxService)
	configHandler := handlers.NewConfigHandler(database.DB)
	recordsHandler := handlers.NewRecordsHandler(database.DB)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Cartera Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		r.Get("/config", configHandler.HandleGetConfig)
		r.Post("/config/base-currency", configHandler.HandleSetBaseCurrency)

		r.Get("/portfolio/value", portfolioHandler.HandleCurrentValue)
		r.Get("/portfolio/value/series", portfolioHandler.HandleValueSeries)

		r.Get("/cash/balance", cashHandler.HandleBalance)
		r.Get("/cash/series", cashHandler.HandleCashSeries)
		r.Get("/cash/net-transfers", cashHandler.HandleNetTransfers)
		r.Get("/transfers/series", cashHandler.HandleTransfersSeries)

		r.Post("/fx/rate", fxHandler.HandleSetRate)
		r.Post("/fx/sync", fxHandler.HandleSync)

		r.Post("/prices/sync", priceHandler.HandleSync)
		r.Post("/prices/latest", priceHandler.HandleLatest)
		r.Get("/prices/{ticker}", priceHandler.HandleSeries)

		r.Post("/import/{kind}", importHandler.HandleImport)

		r.Get("/trades", recordsHandler.HandleListTrades)
		r.Get("/transfers", recordsHandler.HandleListTransfers)
		r.Get("/dividends", recordsHandler.HandleListDividends)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
		}
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
