package entrypoint

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresilva/courseapi/internal/auth"
	"github.com/andresilva/courseapi/internal/config"
	"github.com/andresilva/courseapi/internal/database"
	"github.com/andresilva/courseapi/internal/database/categories"
	"github.com/andresilva/courseapi/internal/database/courses"
	"github.com/andresilva/courseapi/internal/database/enrollments"
	"github.com/andresilva/courseapi/internal/database/favorites"
	"github.com/andresilva/courseapi/internal/database/lessons"
	"github.com/andresilva/courseapi/internal/database/tags"
	"github.com/andresilva/courseapi/internal/database/users"
	http_controllers "github.com/andresilva/courseapi/internal/http"
	"github.com/andresilva/courseapi/internal/storage"
	"github.com/andresilva/courseapi/internal/storage/providers/local"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the upload sweeper)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting courseapi v%s", version)

	db, err := database.NewDatabase(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Repositories
	coursesRepo := courses.NewRepository(db.DB)
	lessonsRepo := lessons.NewRepository(db.DB)
	enrollmentsRepo := enrollments.NewRepository(db.DB)
	favoritesRepo := favorites.NewRepository(db.DB)
	categoriesRepo := categories.NewRepository(db.DB)
	tagsRepo := tags.NewRepository(db.DB)
	usersRepo := users.NewRepository(db.DB)

	// Authentication
	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		secret, err := generateSecret()
		if err != nil {
			log.Fatalf("Failed to generate JWT secret: %v", err)
		}
		jwtSecret = secret
		log.Printf("Generated JWT secret (set JWT_SECRET to persist sessions across restarts)")
	}
	tokenManager := auth.NewTokenManager(jwtSecret)
	authService := auth.NewService(usersRepo, tokenManager, cfg.Auth.BcryptCost)

	// Image storage and orphan sweeper
	storageClient, err := local.NewClient(cfg.Uploads.Dir, cfg.Uploads.BaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	var sweeper *storage.Sweeper
	if cfg.Uploads.SweepEnabled {
		sweeper = storage.NewSweeper(storageClient, coursesRepo)
		if err := sweeper.Start(cfg.Uploads.SweepSchedule); err != nil {
			log.Fatalf("Failed to start upload sweeper: %v", err)
		}
		log.Printf("Upload sweeper scheduled (%s)", cfg.Uploads.SweepSchedule)
	}

	routerCfg := http_controllers.RouterConfig{
		Database:         db,
		AuthService:      authService,
		TokenManager:     tokenManager,
		CoursesStore:     coursesRepo,
		LessonsStore:     lessonsRepo,
		EnrollmentsStore: enrollmentsRepo,
		FavoritesStore:   favoritesRepo,
		CategoriesStore:  categoriesRepo,
		TagsStore:        tagsRepo,
		UploadsStore:     coursesRepo,
		Storage:          storageClient,
		UploadsDir:       cfg.Uploads.Dir,
		UploadsBaseURL:   cfg.Uploads.BaseURL,
		MaxUploadBytes:   cfg.Uploads.MaxSizeBytes,
		AllowedOrigins:   cfg.HTTP.CORSOrigins,
		Version:          version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if sweeper != nil {
			sweeper.Stop()
		}
	}

	Serve(router, cfg, onShutdown)
}

func generateSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
