package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"

	"github.com/sportclub-app/sportclub-backend/internal/handlers"
	"github.com/sportclub-app/sportclub-backend/internal/jwt"
	"github.com/sportclub-app/sportclub-backend/internal/logger"
	"github.com/sportclub-app/sportclub-backend/internal/middlewares"
	"github.com/sportclub-app/sportclub-backend/internal/repositories"
	"github.com/sportclub-app/sportclub-backend/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// config holds all process-wide settings, loaded once at startup and
// immutable thereafter.
type config struct {
	appHost  string
	appPort  string
	logLevel string

	pgHost         string
	pgPort         int
	pgUser         string
	pgPassword     string
	pgDB           string
	pgMaxOpenConns int
	pgMaxIdleConns int

	jwtSecretKey string
	jwtExpSecond int

	corsOrigins []string

	kafkaBroker string
	kafkaTopic  string

	superuserName     string
	superuserPassword string
	superuserEmail    string
}

// @title sportclub-backend API
// @version 1.0.0
// @description CRUD backend for a sports club: users, posts and exercises with token-based authentication
// @host localhost:8000
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and collects all
// application, database, JWT, CORS, Kafka and bootstrap configuration.
func parseConfig(path string) (*config, error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	cfg := &config{
		appHost:  getEnv("APP_HOST", "localhost"),
		appPort:  getEnv("APP_PORT", "8000"),
		logLevel: getEnv("APP_LOG_LEVEL", "info"),

		pgHost:     getEnv("POSTGRES_HOST", "localhost"),
		pgUser:     getEnv("POSTGRES_USER", "user"),
		pgPassword: getEnv("POSTGRES_PASSWORD", "password"),
		pgDB:       getEnv("POSTGRES_DB", "database"),

		jwtSecretKey: getEnv("JWT_SECRET_KEY", "my_super_secret_key"),

		corsOrigins: strings.Split(getEnv("ALLOW_ORIGINS", "*"), ","),

		kafkaBroker: getEnv("KAFKA_BROKER", ""),
		kafkaTopic:  getEnv("KAFKA_TOPIC", "sportclub-events"),

		superuserName:     getEnv("FIRST_SUPERUSER_NAME", "admin"),
		superuserPassword: getEnv("FIRST_SUPERUSER_PASSWORD", ""),
		superuserEmail:    getEnv("FIRST_SUPERUSER_EMAIL", "admin@example.com"),
	}

	var err error
	if cfg.pgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return nil, err
	}
	if cfg.pgMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return nil, err
	}
	if cfg.pgMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return nil, err
	}
	// 60 * 60 * 24 * 8 = 8 days, matching the original token lifetime
	if cfg.jwtExpSecond, err = strconv.Atoi(getEnv("JWT_EXP_SECOND", "691200")); err != nil {
		return nil, err
	}

	return cfg, nil
}

// run initializes the logger, database, Kafka writer, and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context, cfg *config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.pgUser, cfg.pgPassword, cfg.pgHost, cfg.pgPort, cfg.pgDB)
	logger.Log.Infof("Connecting to PostgreSQL: %s:%d/%s", cfg.pgHost, cfg.pgPort, cfg.pgDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		logger.Log.Fatal("PostgreSQL connection error:", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.pgMaxOpenConns)
	db.SetMaxIdleConns(cfg.pgMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		logger.Log.Fatal("PostgreSQL ping failed:", err)
	}

	// Connect Kafka writer; events are best-effort so a missing broker
	// only disables publishing.
	var events services.KafkaWriter
	if cfg.kafkaBroker != "" {
		writer := &kafka.Writer{
			Addr:     kafka.TCP(cfg.kafkaBroker),
			Topic:    cfg.kafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer writer.Close()
		events = writer
	}

	// Initialize JWT service
	tokens := jwt.New(
		jwt.WithSecretKey(cfg.jwtSecretKey),
		jwt.WithExpiration(time.Duration(cfg.jwtExpSecond)*time.Second),
	)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	postRepo := repositories.NewPostRepository(db)
	exerciseRepo := repositories.NewExerciseRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, userRepo, tokens, events)
	userService := services.NewUserService(userRepo)
	postService := services.NewPostService(postRepo, events)
	exerciseService := services.NewExerciseService(exerciseRepo, cfg.superuserName)

	// Bootstrap the first superuser account
	if err := bootstrapSuperuser(ctx, cfg, userRepo, authService); err != nil {
		logger.Log.Fatal("first superuser bootstrap failed:", err)
	}

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	authMiddleware := middlewares.AuthMiddleware(tokens, userRepo)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewares.TxMiddleware(db))

		// Public routes
		r.Get("/health", handlers.NewHealthHandler())
		r.Post("/access-token", handlers.NewAccessTokenHandler(authService))

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/test-token", handlers.NewTestTokenHandler())
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", handlers.NewListUsersHandler(userService))
			r.Get("/paginated/", handlers.NewListUsersPaginatedHandler(userService))
			r.Get("/{user_id}", handlers.NewGetUserHandler(userService))

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware)
				r.Get("/me/", handlers.NewGetMeHandler())
				r.Put("/me/", handlers.NewUpdateMeHandler(userService))
				r.Get("/search_users_paginated/", handlers.NewSearchUsersPaginatedHandler(userService))

				r.Group(func(r chi.Router) {
					r.Use(middlewares.RequireSuperuser)
					r.Put("/{user_id}", handlers.NewUpdateUserHandler(userService))
				})
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, middlewares.RequireSuperuser)
			r.Post("/register", handlers.NewRegisterHandler(authService))
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", handlers.NewListPostsHandler(postService))
			r.Get("/{post_id}", handlers.NewGetPostHandler(postService))

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware)
				r.Post("/", handlers.NewCreatePostHandler(postService))
				r.Put("/{post_id}", handlers.NewUpdatePostHandler(postService))

				r.Route("/admin", func(r chi.Router) {
					r.Use(middlewares.RequireSuperuser)
					r.Post("/", handlers.NewCreatePostAdminHandler(postService))
					r.Put("/{post_id}", handlers.NewUpdatePostAdminHandler(postService))
				})
			})
		})

		r.Route("/exercises", func(r chi.Router) {
			r.Get("/daily/", handlers.NewDailyExerciseHandler(exerciseService))
			r.Get("/{exercise_id}", handlers.NewGetExerciseHandler(exerciseService))

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware)
				r.Post("/", handlers.NewCreateExerciseHandler(exerciseService))
				r.Put("/{exercise_id}", handlers.NewUpdateExerciseHandler(exerciseService))
				r.Get("/all/", handlers.NewListMyExercisesHandler(exerciseService))
			})
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.appHost, cfg.appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.appHost, cfg.appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.appHost, cfg.appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}

// bootstrapSuperuser creates the distinguished superuser account once,
// when it does not exist yet and a bootstrap password is configured.
func bootstrapSuperuser(ctx context.Context, cfg *config, users *repositories.UserRepository, auth *services.AuthService) error {
	existing, err := users.GetByName(ctx, cfg.superuserName)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	if cfg.superuserPassword == "" {
		logger.Log.Warnw("first superuser absent and no bootstrap password configured, skipping", "username", cfg.superuserName)
		return nil
	}

	_, err = auth.Register(ctx, services.RegisterInput{
		Username:    cfg.superuserName,
		Password:    cfg.superuserPassword,
		FullName:    cfg.superuserName,
		Email:       cfg.superuserEmail,
		IsSuperuser: true,
		IsActive:    true,
		IsApproved:  true,
	}, nil)
	if err != nil {
		return err
	}
	logger.Log.Infow("first superuser created", "username", cfg.superuserName)
	return nil
}
