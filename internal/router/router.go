package router

import (
	"time"

	"poultry_farm_backend/internal/bridge"
	"poultry_farm_backend/internal/config"
	"poultry_farm_backend/internal/handlers"
	"poultry_farm_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, svc bridge.Services, authCfg config.AuthConfig) {
	authService := services.NewAuthService(
		authCfg.Enabled,
		authCfg.PinHash,
		authCfg.JWTSecret,
		time.Duration(authCfg.TokenTTLMinutes)*time.Minute,
	)

	// Initialize Handlers
	bridgeHandler := handlers.NewBridgeHandler(bridge.New(svc))
	authHandler := handlers.NewAuthHandler(authService)

	engine.GET("/ping", handlers.Ping)

	apiV1 := engine.Group("/api/v1")
	SetupAuthRoutes(apiV1, authHandler)

	invokeGroup := apiV1.Group("")
	if authCfg.Enabled {
		invokeGroup.Use(tokenRequired(authCfg))
	}
	SetupBridgeRoutes(invokeGroup, bridgeHandler)
}
