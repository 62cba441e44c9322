package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"

	"tiakaly/internal/config"
	"tiakaly/internal/database"
	"tiakaly/internal/geoip"
	"tiakaly/internal/handlers"
	"tiakaly/internal/repository"
	"tiakaly/internal/security"
	"tiakaly/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	placeRepo := repository.NewPlaceRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	topRepo := repository.NewTopRepository(db)
	postRepo := repository.NewPostRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Initialize services
	geoClient := geoip.NewClient(cfg.GeoIPEndpoint, cfg.GeoIPTimeout)
	authService := service.NewAuthService(userRepo, geoClient, cfg.SessionDuration)
	placeService := service.NewPlaceService(placeRepo)

	emailService, err := service.NewEmailService(context.Background(), cfg.SESRegion, cfg.SESFromEmail, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	oauthProviders := map[string]handlers.OAuthProvider{
		"google": {
			Name: "google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
		"facebook": {
			Name: "facebook",
			Config: &oauth2.Config{
				ClientID:     cfg.FacebookClientID,
				ClientSecret: cfg.FacebookClientSecret,
				Endpoint:     facebook.Endpoint,
				Scopes:       []string{"email", "public_profile"},
			},
			UserInfoURL: "https://graph.facebook.com/me?fields=id,name,email",
		},
		"apple": {
			Name: "apple",
			Config: &oauth2.Config{
				ClientID:     cfg.AppleClientID,
				ClientSecret: cfg.AppleClientSecret,
				Endpoint: oauth2.Endpoint{
					AuthURL:  "https://appleid.apple.com/auth/authorize",
					TokenURL: "https://appleid.apple.com/auth/token",
				},
				Scopes: []string{"name", "email"},
			},
			AuthParams: map[string]string{
				"response_mode": "query",
			},
		},
	}

	// Initialize handlers
	csrf := security.NewCSRFGenerator(cfg.CSRFSecret)
	rateLimiter := security.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	middleware := handlers.NewMiddleware(authService, rateLimiter, csrf)
	authHandler := handlers.NewAuthHandler(authService, emailService, csrf, oauthProviders, cfg.AppBaseURL)
	searchHandler := handlers.NewSearchHandler(placeService)
	placeHandler := handlers.NewPlaceHandler(placeService, menuRepo)
	taskHandler := handlers.NewTaskHandler(taskRepo)
	adminHandler := handlers.NewAdminHandler(placeService, menuRepo, topRepo, postRepo, mediaRepo, taskRepo, userRepo, activityRepo, cfg.UploadPath, cfg.UploadMaxSize)

	// Setup routes
	mux := http.NewServeMux()

	// Uploaded media
	mux.Handle("GET /media/", http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.UploadPath))))

	// Auth routes
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /api/auth/session", middleware.RequireAuth(authHandler.Session))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("POST /api/auth/forgot-password", middleware.RateLimit(authHandler.ForgotPassword))
	mux.HandleFunc("POST /api/auth/reset-password", middleware.RateLimit(authHandler.ResetPassword))
	mux.HandleFunc("GET /auth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", authHandler.OAuthCallback)

	// Public content routes
	mux.HandleFunc("GET /api/search", searchHandler.Search)
	mux.HandleFunc("GET /api/places/search", searchHandler.Autocomplete)
	mux.HandleFunc("GET /api/places", placeHandler.List)
	mux.HandleFunc("GET /api/places/{slug}", placeHandler.Get)
	mux.HandleFunc("GET /api/menus", placeHandler.ListMenus)
	mux.HandleFunc("POST /api/tasks", middleware.RequireAuth(middleware.CSRFProtect(taskHandler.Submit)))

	// Admin routes
	requireAdmin := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireAuth(middleware.RequirePermission(next, "ADMIN", "SUPERADMIN"))
	}
	requireModerator := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireAuth(middleware.RequirePermission(next, "MODERATOR"))
	}

	mux.HandleFunc("GET /api/admin/places", requireAdmin(adminHandler.ListPlaces))
	mux.HandleFunc("GET /api/admin/places/{id}", requireAdmin(adminHandler.GetPlace))
	mux.HandleFunc("POST /api/admin/places", requireAdmin(middleware.CSRFProtect(adminHandler.CreatePlace)))
	mux.HandleFunc("PUT /api/admin/places/{id}", requireAdmin(middleware.CSRFProtect(adminHandler.UpdatePlace)))
	mux.HandleFunc("DELETE /api/admin/places/{id}", requireAdmin(middleware.CSRFProtect(adminHandler.DeletePlace)))

	mux.HandleFunc("POST /api/admin/menus", requireAdmin(middleware.CSRFProtect(adminHandler.CreateMenu)))
	mux.HandleFunc("DELETE /api/admin/menus/{id}", requireAdmin(middleware.CSRFProtect(adminHandler.DeleteMenu)))

	mux.HandleFunc("GET /api/admin/tops", requireAdmin(adminHandler.ListTops))
	mux.HandleFunc("GET /api/admin/tops/{id}", requireAdmin(adminHandler.GetTop))
	mux.HandleFunc("POST /api/admin/tops", requireAdmin(middleware.CSRFProtect(adminHandler.CreateTop)))
	mux.HandleFunc("PUT /api/admin/tops/{id}", requireAdmin(middleware.CSRFProtect(adminHandler.UpdateTop)))
	mux.HandleFunc("DELETE /api/admin/tops/{id}", requireAdmin(middleware.CSRFProtect(adminHandler.DeleteTop)))

	mux.HandleFunc("GET /api/admin/posts", requireAdmin(adminHandler.ListPosts))
	mux.HandleFunc("POST /api/admin/posts", requireAdmin(middleware.CSRFProtect(adminHandler.CreatePost)))
	mux.HandleFunc("PUT /api/admin/posts/{id}", requireAdmin(middleware.CSRFProtect(adminHandler.UpdatePost)))
	mux.HandleFunc("DELETE /api/admin/posts/{id}", requireAdmin(middleware.CSRFProtect(adminHandler.DeletePost)))

	mux.HandleFunc("GET /api/admin/media", requireAdmin(adminHandler.ListMedia))
	mux.HandleFunc("POST /api/admin/media", requireAdmin(middleware.CSRFProtect(adminHandler.UploadMedia)))
	mux.HandleFunc("DELETE /api/admin/media/{id}", requireAdmin(middleware.CSRFProtect(adminHandler.DeleteMedia)))

	mux.HandleFunc("GET /api/admin/users", requireAdmin(adminHandler.ListUsers))
	mux.HandleFunc("PATCH /api/admin/users/{id}/permissions", requireAdmin(middleware.CSRFProtect(adminHandler.UpdateUserPermissions)))
	mux.HandleFunc("GET /api/admin/tasks", requireModerator(taskHandler.List))
	mux.HandleFunc("PUT /api/admin/moderate-task", requireModerator(middleware.CSRFProtect(adminHandler.ModerateTask)))
	mux.HandleFunc("GET /api/admin/activity", requireAdmin(adminHandler.ListActivity))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Reset tickets always expire; sessions only when a duration is
	// configured, in which case the same sweep removes them too.
	go cleanupExpired(authService)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

// cleanupExpired periodically removes expired sessions and reset tickets
func cleanupExpired(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpired(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		} else {
			log.Println("Expired sessions cleaned up")
		}
	}
}
