package app

import (
	"github.com/openlms/authoring-backend/internal/handlers"
	"github.com/openlms/authoring-backend/internal/logger"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Structure *handlers.StructureHandler
	Drip      *handlers.DripHandler
	Settings  *handlers.SettingsHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:      handlers.NewAuthHandler(s.Auth),
		Structure: handlers.NewStructureHandler(log, s.Structure),
		Drip:      handlers.NewDripHandler(log, s.Settings, s.Structure),
		Settings:  handlers.NewSettingsHandler(log, s.Settings, s.Structure),
	}
}
