package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"poultry_farm_backend/internal/bridge"
	"poultry_farm_backend/internal/config"
	"poultry_farm_backend/internal/database"
	"poultry_farm_backend/internal/router"
	"poultry_farm_backend/internal/scheduler"
	"poultry_farm_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load(os.Getenv("POULTRY_ENV_FILE"))

	// Initialize Logger
	utils.InitLogger(cfg.Log.Level)

	if cfg.Auth.Enabled && (cfg.Auth.PinHash == "" || cfg.Auth.JWTSecret == "") {
		log.Fatal().Msg("AUTH_ENABLED requires AUTH_PIN_HASH and JWT_SECRET")
	}

	// Initialize Database
	startCtx, cancelStart := context.WithTimeout(context.Background(), time.Minute)
	db, err := database.OpenAndMigrate(startCtx, cfg.Database)
	cancelStart()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open the record store")
	}
	defer db.Close()
	utils.LogInfo("Database initialized", map[string]interface{}{"driver": db.DriverName()})

	svc := bridge.NewServices(db)

	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	// Setup all application routes
	router.Setup(engine, svc, cfg.Auth)

	sched := scheduler.NewScheduler(cfg.Backup, svc.Backups)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start backup scheduler")
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"addr": srv.Addr, "auth": cfg.Auth.Enabled})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Graceful shutdown failed")
	}
}
