package router

import (
	"poultry_farm_backend/internal/config"
	"poultry_farm_backend/internal/handlers"
	"poultry_farm_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the public authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
	}
}

// SetupBridgeRoutes sets up the operation routes.
func SetupBridgeRoutes(group *gin.RouterGroup, bridgeHandler *handlers.BridgeHandler) {
	group.GET("/operations", bridgeHandler.ListOperations)
	group.POST("/invoke/:operation", bridgeHandler.Invoke)
}

func tokenRequired(authCfg config.AuthConfig) gin.HandlerFunc {
	return middleware.AuthMiddleware([]byte(authCfg.JWTSecret))
}
