package main

import (
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cassiama/ProjectLISA/internal"
	"github.com/cassiama/ProjectLISA/internal/api"
	"github.com/cassiama/ProjectLISA/internal/auth"
	"github.com/cassiama/ProjectLISA/internal/config"
	"github.com/cassiama/ProjectLISA/internal/service"
	"github.com/cassiama/ProjectLISA/internal/storage"
	"github.com/cassiama/ProjectLISA/internal/telemetry"
)

func main() {
	cfg := config.Load()

	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	var users storage.UserRepository
	var devices storage.DeviceRepository
	var closeStorage func() error
	switch cfg.DBType {
	case "postgres":
		users, devices, closeStorage, err = storage.NewPostgresRepositories(cfg.DBDSN, logger)
	default:
		if dir := filepath.Dir(cfg.UsersFile); dir != "." {
			if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
				logger.Fatalf("failed to create data dir: %v", mkErr)
			}
		}
		users, devices, closeStorage, err = storage.NewFileRepositories(cfg.UsersFile, logger)
	}
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}
	defer func() {
		if err := closeStorage(); err != nil {
			logger.Errorf("failed to close storage: %v", err)
		}
	}()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var generator telemetry.Generator
	if cfg.LogGenerator == "smoothed" {
		generator = telemetry.NewSmoothedGenerator(rng, telemetry.DefaultMaxChangeRatio)
	} else {
		generator = telemetry.NewNoClampGenerator(rng)
	}

	reconciler := &service.Reconciler{
		Users:                   users,
		Devices:                 devices,
		Generator:               generator,
		Logger:                  logger,
		CreditLocalOnlyBelowCap: cfg.CreditLocalOnlyBelowCap,
	}

	var provider auth.Provider
	if cfg.Env == "development" {
		provider = auth.NewLocalAuthProvider(users, logger)
	} else {
		provider = auth.NewRemoteAuthProvider(cfg.AuthServiceURL, logger)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	app := api.NewApp(logger, users, devices, generator, reconciler)
	r := api.NewRouter(app, provider, cfg)

	logger.Infof("Server running on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Fatalf("failed to start server: %v", err)
	}
}
