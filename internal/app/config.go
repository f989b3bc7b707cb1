package app

import (
	"strings"
	"time"

	"github.com/openlms/authoring-backend/internal/logger"
	"github.com/openlms/authoring-backend/internal/utils"
)

type Config struct {
	Port           string
	JWTSecretKey   string
	AccessTokenTTL time.Duration
	AllowOrigins   []string
	RedisEnabled   bool
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	origins := utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173", log)
	return Config{
		Port:           utils.GetEnv("PORT", "8080", log),
		JWTSecretKey:   jwtSecretKey,
		AccessTokenTTL: time.Duration(accessTokenTTLSeconds) * time.Second,
		AllowOrigins:   strings.Split(origins, ","),
		RedisEnabled:   utils.GetEnvAsBool("REDIS_ENABLED", false, log),
	}
}
