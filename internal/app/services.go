package app

import (
	"gorm.io/gorm"

	redisclient "github.com/openlms/authoring-backend/internal/clients/redis"
	"github.com/openlms/authoring-backend/internal/logger"
	"github.com/openlms/authoring-backend/internal/services"
)

type Services struct {
	Auth      services.AuthService
	Settings  services.SettingsService
	Structure services.StructureService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) Services {
	log.Info("Wiring services...")

	var cache redisclient.SettingsCache
	if cfg.RedisEnabled {
		c, err := redisclient.NewSettingsCache(log)
		if err != nil {
			// Redis is an accelerator here, never a dependency.
			log.Warn("settings cache unavailable, running db-only", "error", err)
		} else {
			cache = c
		}
	}

	authService := services.NewAuthService(db, log, r.StaffUser, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	settingsService := services.NewSettingsService(db, log, r.Settings, cache)
	structureService := services.NewStructureService(
		db, log,
		r.PackageSession, r.Subject, r.Module, r.Chapter, r.Slide,
		settingsService,
	)

	return Services{
		Auth:      authService,
		Settings:  settingsService,
		Structure: structureService,
	}
}
