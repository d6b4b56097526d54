package main

import (
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rental-service/internal/handler"
	"rental-service/internal/middleware"
	"rental-service/internal/store"
	"rental-service/pkg/config"
	"rental-service/pkg/database"
	"rental-service/pkg/jwtutil"
	"rental-service/pkg/logger"
	"rental-service/prometheus"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rental-service",
		Short: "Property rental management service",
	}

	rootCmd.AddCommand(serveCmd(), migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			logger.InitLogger(cfg)
			log := logger.GetLogger()
			log.Info("Starting rental service...", zap.String("environment", cfg.Server.Env))

			db, err := database.Connect(cfg)
			if err != nil {
				log.Fatal("Failed to connect to database", zap.Error(err))
			}
			if err := database.Migrate(db); err != nil {
				log.Fatal("Failed to migrate database", zap.Error(err))
			}
			log.Info("Database connection established")

			jwtutil.Initialize(&cfg.JWT)

			stores := store.New(db)
			authHandler := handler.NewAuthHandler(stores.Users)
			propertyHandler := handler.NewPropertyHandler(stores.Users, stores.Properties)
			tenancyHandler := handler.NewTenancyHandler(stores.Users, stores.Properties, stores.Tenancies)

			e := echo.New()

			// Apply global middleware - order matters
			e.Use(echomiddleware.Recover())
			e.Use(echomiddleware.CORS())
			e.Use(middleware.RequestIDMiddleware)
			e.Use(logger.Middleware(log))
			e.Use(prometheus.MetricsMiddleware())

			// Public routes - no authentication required
			e.GET("/health", handler.HealthCheck)
			e.GET("/metrics", handler.MetricsHandler)

			auth := e.Group("/api/auth")
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)

			// API routes - all require authentication
			api := e.Group("/api")
			api.Use(middleware.AuthMiddleware)

			api.GET("/users/profile", authHandler.Profile)

			properties := api.Group("/properties")
			properties.POST("", propertyHandler.Create)
			properties.GET("", propertyHandler.List)
			properties.GET("/:id", propertyHandler.Get)
			properties.PUT("/:id", propertyHandler.Update)
			properties.POST("/:id/tenancies", tenancyHandler.CreateForProperty)
			properties.GET("/:id/tenancies", tenancyHandler.ListForProperty)

			tenancies := api.Group("/tenancies")
			tenancies.GET("/:id", tenancyHandler.Get)
			tenancies.PUT("/:id", tenancyHandler.Update)
			tenancies.POST("/:id/tenants", tenancyHandler.LinkTenant)

			log.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := e.Start(":" + cfg.Server.Port); err != nil {
				log.Fatal("Failed to start server", zap.Error(err))
			}
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			logger.InitLogger(cfg)
			log := logger.GetLogger()

			db, err := database.Connect(cfg)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}

			log.Info("Database migrated", zap.String("database", cfg.DB.DBName))
			return nil
		},
	}
}
