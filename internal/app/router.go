package app

import (
	"github.com/gin-gonic/gin"

	"github.com/openlms/authoring-backend/internal/logger"
	"github.com/openlms/authoring-backend/internal/middleware"
	"github.com/openlms/authoring-backend/internal/server"
)

func wireRouter(cfg Config, log *logger.Logger, h Handlers, s Services) *gin.Engine {
	log.Info("Wiring router...")
	authMiddleware := middleware.NewAuthMiddleware(log, s.Auth)
	return server.NewRouter(server.RouterConfig{
		AllowOrigins:     cfg.AllowOrigins,
		AuthHandler:      h.Auth,
		AuthMiddleware:   authMiddleware,
		StructureHandler: h.Structure,
		DripHandler:      h.Drip,
		SettingsHandler:  h.Settings,
	})
}
