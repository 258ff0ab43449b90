package main

import (
	"context"
	"log"

	"github.com/employee-manager/internal/application/service"
	"github.com/employee-manager/internal/config"
	"github.com/employee-manager/internal/infrastructure/cache"
	"github.com/employee-manager/internal/infrastructure/database"
	"github.com/employee-manager/internal/infrastructure/email"
	"github.com/employee-manager/internal/infrastructure/identity"
	"github.com/employee-manager/internal/infrastructure/repository"
	"github.com/employee-manager/internal/logger"
	"github.com/employee-manager/internal/presentation/handler"
	"github.com/employee-manager/internal/presentation/middleware"
	"github.com/employee-manager/internal/presentation/routes"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logg := logger.New(cfg.LogLevel, cfg.Env)

	ctx := context.Background()

	db, err := database.NewMongoDatabase(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	employeeCache := cache.NewNoopCache()
	if cfg.RedisConfig.URL != "" {
		employeeCache, err = cache.NewRedisCache(ctx, cfg.RedisConfig.URL)
		if err != nil {
			log.Fatal("Failed to connect to redis:", err)
		}
	}

	sender := email.NewSMTPSender(email.SMTPConfig{
		Host:     cfg.SMTPConfig.Host,
		Port:     cfg.SMTPConfig.Port,
		Username: cfg.SMTPConfig.Username,
		Password: cfg.SMTPConfig.Password,
		From:     cfg.SMTPConfig.From,
	})
	verifier := identity.NewGoogleVerifier(cfg.GoogleClientID)

	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)

	authService := service.NewAuthService(userRepo, sender, verifier, logg, cfg.JWTSecret, cfg.BaseURL)
	employeeService := service.NewEmployeeService(employeeRepo, employeeCache, logg)

	authHandler := handler.NewAuthHandler(authService, logg)
	employeeHandler := handler.NewEmployeeHandler(employeeService, logg)

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	routes.SetupRoutes(router, authHandler, employeeHandler, middleware.AuthMiddleware(cfg.JWTSecret))

	logg.Info("server starting", "port", cfg.Port)
	log.Fatal(router.Run(":" + cfg.Port))
}
