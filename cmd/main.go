package main

import (
	"fmt"
	"os"
	"time"

	"github.com/yungbote/company-registry-backend/internal/db"
	"github.com/yungbote/company-registry-backend/internal/handlers"
	"github.com/yungbote/company-registry-backend/internal/middleware"
	"github.com/yungbote/company-registry-backend/internal/platform/envutil"
	"github.com/yungbote/company-registry-backend/internal/platform/logger"
	"github.com/yungbote/company-registry-backend/internal/repos"
	"github.com/yungbote/company-registry-backend/internal/server"
	"github.com/yungbote/company-registry-backend/internal/services"
)

func main() {
	// Logger
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	jwtSecretKey := envutil.String("JWT_SECRET_KEY", "defaultsecret")
	accessTokenTTL := envutil.Int("ACCESS_TOKEN_TTL", 3600)
	ssnCheckDelayMs := envutil.Int("SSN_CHECK_DELAY_MS", 100)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	companyRepo := repos.NewCompanyRepo(thePG, log)

	// Services
	ssnService := services.NewSSNValidationService(log, time.Duration(ssnCheckDelayMs)*time.Millisecond)
	companyService := services.NewCompanyService(log, companyRepo, ssnService)
	authService := services.NewAuthService(log, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	companyHandler := handlers.NewCompanyHandler(log, companyService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		Log:            log,
		AuthHandler:    authHandler,
		AuthMiddleware: authMiddleware,
		CompanyHandler: companyHandler,
	})

	port := envutil.String("PORT", "8080")
	log.Info("server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("server failed", "error", err)
	}
}
