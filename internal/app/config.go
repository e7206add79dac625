package app

import (
	"time"

	"github.com/marqueehq/marquee-backend/internal/pkg/logger"
	"github.com/marqueehq/marquee-backend/internal/utils"
)

type Config struct {
	JWTSecretKey   string
	AccessTokenTTL time.Duration
	AllowedOrigins []string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 86400, log)
	allowedOrigins := utils.GetEnvAsList("CORS_ALLOWED_ORIGINS", nil, log)
	return Config{
		JWTSecretKey:   jwtSecretKey,
		AccessTokenTTL: time.Duration(accessTokenTTLSeconds) * time.Second,
		AllowedOrigins: allowedOrigins,
	}
}
