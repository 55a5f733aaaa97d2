package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"investpro/internal/auth"
	"investpro/internal/config"
	"investpro/internal/database"
	"investpro/internal/handlers"
	"investpro/internal/market"
	"investpro/internal/middleware"
	"investpro/internal/notify"
	"investpro/internal/portfolio"
	"investpro/internal/repository"
	"investpro/internal/session"
)

// App holds the application dependencies.
type App struct {
	config              *config.Config
	db                  *database.DB
	router              *chi.Mux
	userRepo            *repository.UserRepository
	holdingRepo         *repository.HoldingRepository
	watchlistRepo       *repository.WatchlistRepository
	sessionManager      *auth.SessionManager
	broadcaster         *session.Broadcaster
	provider            *auth.Provider
	portfolioManager    *portfolio.Manager
	notifyCenter        *notify.Center
	marketClient        *market.Client
	authMiddleware      *middleware.AuthMiddleware
	authHandler         *handlers.AuthHandler
	pageHandler         *handlers.PageHandler
	portfolioHandler    *handlers.PortfolioHandler
	dashboardHandler    *handlers.DashboardHandler
	watchlistHandler    *handlers.WatchlistHandler
	notificationHandler *handlers.NotificationHandler
	profileHandler      *handlers.ProfileHandler
}

func main() {
	// Load configuration
	cfg := config.New()

	// Initialize database
	db, err := database.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Create repositories
	userRepo := repository.NewUserRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)

	// Create session manager and sweep stale sessions from previous runs.
	// Cookie MaxAge and DB expiry both come from SessionMaxAge.
	sessionManager := auth.NewSessionManager(db).
		WithDuration(time.Duration(cfg.SessionMaxAge) * time.Second)
	if removed, err := sessionManager.CleanExpired(); err != nil {
		log.Printf("Failed to clean expired sessions: %v", err)
	} else if removed > 0 {
		log.Printf("Removed %d expired sessions", removed)
	}

	// Auth state broadcaster; the logging subscription stays open for the
	// lifetime of the process and is closed on shutdown
	broadcaster := session.NewBroadcaster()
	stateSub := broadcaster.Subscribe(func(p *session.Principal) {
		if p == nil {
			log.Println("Auth state: signed out")
			return
		}
		log.Printf("Auth state: %s signed in", p.Email)
	})
	defer stateSub.Close()

	provider := auth.NewProvider(userRepo, sessionManager, broadcaster)

	// Portfolio aggregation and notifications
	notifyCenter := notify.NewCenter()
	portfolioManager := portfolio.NewManager(holdingRepo, notifyCenter)

	// Market data client
	marketClient := market.NewClient(cfg.MarketAPIURL, cfg.MarketAPIKey)
	if cfg.MarketAPIKey == "" {
		log.Println("MARKET_API_KEY not set; market endpoints will report errors")
	}

	// Create middleware
	authMiddleware := middleware.NewAuthMiddleware(provider)

	// Create handlers
	authHandler := handlers.NewAuthHandler(provider, portfolioManager, notifyCenter, cfg.SessionMaxAge)
	pageHandler := handlers.NewPageHandler()
	portfolioHandler := handlers.NewPortfolioHandler(portfolioManager)
	dashboardHandler := handlers.NewDashboardHandlerWithQuiescence(
		marketClient, time.Duration(cfg.SearchDebounceMs)*time.Millisecond)
	defer dashboardHandler.Close()
	watchlistHandler := handlers.NewWatchlistHandler(watchlistRepo)
	notificationHandler := handlers.NewNotificationHandler(notifyCenter)
	profileHandler := handlers.NewProfileHandler(userRepo, provider, cfg.PublicURL(), cfg.SessionMaxAge)

	// Create application
	app := &App{
		config:              cfg,
		db:                  db,
		userRepo:            userRepo,
		holdingRepo:         holdingRepo,
		watchlistRepo:       watchlistRepo,
		sessionManager:      sessionManager,
		broadcaster:         broadcaster,
		provider:            provider,
		portfolioManager:    portfolioManager,
		notifyCenter:        notifyCenter,
		marketClient:        marketClient,
		authMiddleware:      authMiddleware,
		authHandler:         authHandler,
		pageHandler:         pageHandler,
		portfolioHandler:    portfolioHandler,
		dashboardHandler:    dashboardHandler,
		watchlistHandler:    watchlistHandler,
		notificationHandler: notificationHandler,
		profileHandler:      profileHandler,
	}

	// Setup router
	app.setupRouter()

	// Create server
	server := &http.Server{
		Addr:         cfg.Address(),
		Handler:      app.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://%s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func (app *App) setupRouter() {
	r := chi.NewRouter()

	// Chi middleware (aliased as chimw to avoid conflict with our middleware package)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(chimw.Compress(5))

	// Security headers for all responses
	r.Use(middleware.SecurityHeaders)

	// Load user from session for all routes
	r.Use(app.authMiddleware.LoadUser)

	// Health check
	r.Get("/health", app.handleHealth)

	// Public pages (redirect if already authenticated)
	r.Group(func(r chi.Router) {
		r.Use(app.authMiddleware.RedirectIfAuthenticated)
		r.Get("/welcome", app.pageHandler.Welcome)
		r.Get("/login", app.pageHandler.Login)
		r.Get("/signup", app.pageHandler.Signup)
	})

	// Auth API, rate limited to slow down credential guessing
	r.Group(func(r chi.Router) {
		r.Use(middleware.LimitAuth)
		r.Post("/api/auth/signup", app.authHandler.Signup)
		r.Post("/api/auth/login", app.authHandler.Login)
		r.Post("/api/auth/logout", app.authHandler.Logout)
	})

	// Session check, available to anonymous requests
	r.Get("/api/session", app.authHandler.Session)

	// Protected pages
	r.Group(func(r chi.Router) {
		r.Use(app.authMiddleware.RequireAuth)
		r.Get("/home", app.pageHandler.Home)
		r.Get("/profile", app.pageHandler.Profile)
		r.Get("/portfolio", app.pageHandler.Portfolio)
		r.Get("/profile/qr", app.profileHandler.QR)
	})

	// Protected API
	r.Group(func(r chi.Router) {
		r.Use(app.authMiddleware.RequireAuth)
		r.Use(middleware.LimitAPI)

		r.Get("/api/portfolio", app.portfolioHandler.Get)
		r.Post("/api/portfolio/holdings", app.portfolioHandler.AddHolding)

		r.Get("/api/market/summary", app.dashboardHandler.Summary)
		r.Get("/api/market/search", app.dashboardHandler.Search)
		r.Get("/api/market/news", app.dashboardHandler.News)

		r.Get("/api/watchlist", app.watchlistHandler.List)
		r.Post("/api/watchlist", app.watchlistHandler.Add)
		r.Delete("/api/watchlist/{symbol}", app.watchlistHandler.Remove)

		r.Get("/api/notifications", app.notificationHandler.List)

		r.Get("/api/profile", app.profileHandler.Get)
		r.Post("/api/profile", app.profileHandler.Update)
		r.Post("/api/profile/password", app.profileHandler.ChangePassword)
	})

	// Index route - redirect based on auth status
	r.Get("/", app.handleIndex)

	app.router = r
}

// handleHealth returns the server health status.
func (app *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// handleIndex routes to the dashboard or the welcome page based on auth
// status.
func (app *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	if middleware.GetPrincipal(r) != nil {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/welcome", http.StatusSeeOther)
}
