package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/company-registry-backend/internal/handlers"
	"github.com/yungbote/company-registry-backend/internal/middleware"
	"github.com/yungbote/company-registry-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	CompanyHandler *handlers.CompanyHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Translator is the single place a fault becomes a client response; it
	// also recovers panics, so gin's own recovery middleware is not used.
	router.Use(middleware.Translator(cfg.Log))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.POST("/auth/login", cfg.AuthHandler.Login)

	companies := api.Group("/companies")
	companies.Use(cfg.AuthMiddleware.RequireAuth())
	companies.GET("", cfg.CompanyHandler.GetCompanies)
	companies.POST("", cfg.CompanyHandler.CreateCompany)
	companies.GET("/check-ssn/:ssn", cfg.CompanyHandler.CheckSSN)
	companies.GET("/:id", cfg.CompanyHandler.GetCompany)
	companies.PUT("/:id", cfg.CompanyHandler.UpdateCompany)
	companies.POST("/:id/owners", cfg.CompanyHandler.AddOwners)
	companies.POST("/:id/owner", cfg.CompanyHandler.AddOwner)
	companies.GET("/:id/owners/:ownerId/ssn", cfg.AuthMiddleware.RequireAdmin(), cfg.CompanyHandler.GetOwnerSSN)

	return router
}
