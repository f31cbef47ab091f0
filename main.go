package main

import (
	"context"
	"net/http"
	"os"

	"qoh-app-go/config"
	"qoh-app-go/database"
	"qoh-app-go/handlers"
	"qoh-app-go/logging"
	"qoh-app-go/middleware"
	"qoh-app-go/models"
	"qoh-app-go/services"

	"github.com/gorilla/mux"
)

// repositories groups the persistence layer behind the service interfaces so
// the rest of main does not care whether it is talking to MongoDB or memory.
type repositories struct {
	games    services.GameRepository
	weeks    services.WeekRepository
	entries  services.EntryRepository
	expenses services.ExpenseRepository
	configs  services.ConfigurationRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}

	logging.Configure(logging.Config{
		Level:       cfg.Logging.Level,
		Output:      os.Stdout,
		Prefix:      cfg.Logging.Prefix,
		EnableColor: cfg.Logging.EnableColor,
	})
	cfg.LogConfiguration()

	repos, cleanup := buildRepositories(cfg)
	defer cleanup()

	// Services
	locks := services.NewGameLocks()
	agg := services.NewAggregationService(repos.games, repos.weeks, repos.entries, repos.expenses)
	payout := services.NewPayoutService()
	jackpot := services.NewJackpotService(repos.games, repos.weeks, repos.entries)
	ledger := services.NewEntryLedgerService(repos.games, repos.weeks, repos.entries, agg, locks)
	lifecycle := services.NewGameLifecycleService(repos.games, repos.weeks, repos.entries, repos.configs, agg, payout, locks)
	expenses := services.NewExpenseService(repos.games, repos.expenses, agg, locks)
	configs := services.NewConfigurationService(repos.configs)
	reports := services.NewReportService(repos.games, repos.weeks, repos.entries, repos.expenses, jackpot)

	// Handlers
	gameHandler := handlers.NewGameHandler(lifecycle, reports)
	entryHandler := handlers.NewEntryHandler(ledger, jackpot)
	expenseHandler := handlers.NewExpenseHandler(expenses)
	configHandler := handlers.NewConfigurationHandler(configs)

	orgMiddleware := middleware.NewOrgMiddleware(cfg.Auth.JWTSecret, cfg.Auth.AllowOrgHeader)

	// Routes
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(orgMiddleware.RequireOrganization)

	api.HandleFunc("/configuration", configHandler.GetConfiguration).Methods("GET")
	api.HandleFunc("/configuration", configHandler.UpdateConfiguration).Methods("PUT")

	api.HandleFunc("/games", gameHandler.ListGames).Methods("GET")
	api.HandleFunc("/games", gameHandler.CreateGame).Methods("POST")
	api.HandleFunc("/games/{gameID}", gameHandler.GetGame).Methods("GET")
	api.HandleFunc("/games/{gameID}/report", gameHandler.GameReport).Methods("GET")
	api.HandleFunc("/games/{gameID}/jackpot", entryHandler.CurrentJackpot).Methods("GET")
	api.HandleFunc("/games/{gameID}/recompute", entryHandler.RecomputeGame).Methods("POST")

	api.HandleFunc("/games/{gameID}/weeks", gameHandler.CreateWeek).Methods("POST")
	api.HandleFunc("/games/{gameID}/weeks/{weekID}", entryHandler.DeleteWeek).Methods("DELETE")
	api.HandleFunc("/games/{gameID}/weeks/{weekID}/winner", gameHandler.RecordWinner).Methods("POST")

	api.HandleFunc("/games/{gameID}/entries", entryHandler.UpsertEntry).Methods("PUT")
	api.HandleFunc("/games/{gameID}/entries/{entryID}", entryHandler.DeleteEntry).Methods("DELETE")

	api.HandleFunc("/games/{gameID}/expenses", expenseHandler.ListExpenses).Methods("GET")
	api.HandleFunc("/games/{gameID}/expenses", expenseHandler.AddExpense).Methods("POST")
	api.HandleFunc("/games/{gameID}/expenses/{expenseID}", expenseHandler.DeleteExpense).Methods("DELETE")

	addr := cfg.GetServerAddress()
	logging.Infof("Server starting on %s", addr)
	logging.Fatal(http.ListenAndServe(addr, r))
}

// buildRepositories connects to MongoDB, falling back to in-memory storage so
// the application stays usable on a laptop without a database.
func buildRepositories(cfg *config.Config) (repositories, func()) {
	db, err := database.NewMongoConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
	})
	if err != nil {
		logging.Warnf("Database connection failed: %v", err)
		logging.Warn("Continuing with in-memory repositories; data will not persist")

		configRepo := services.NewMemoryConfigurationRepository()
		seedDefaultConfiguration(configRepo)
		return repositories{
			games:    services.NewMemoryGameRepository(),
			weeks:    services.NewMemoryWeekRepository(),
			entries:  services.NewMemoryEntryRepository(),
			expenses: services.NewMemoryExpenseRepository(),
			configs:  configRepo,
		}, func() {}
	}

	return repositories{
		games:    database.NewMongoGameRepository(db),
		weeks:    database.NewMongoWeekRepository(db),
		entries:  database.NewMongoEntryRepository(db),
		expenses: database.NewMongoExpenseRepository(db),
		configs:  database.NewMongoConfigurationRepository(db),
	}, func() { db.Close() }
}

// seedDefaultConfiguration gives the in-memory fallback a demo organization so
// a fresh checkout can create a game immediately.
func seedDefaultConfiguration(repo services.ConfigurationRepository) {
	demo := models.DefaultConfiguration("demo")
	if err := repo.Upsert(context.Background(), demo); err != nil {
		logging.Warnf("Failed to seed demo configuration: %v", err)
	}
}
