package app

import (
	"strings"
	"time"

	"github.com/kreators-dev/easyslang-backend/internal/pkg/logger"
	"github.com/kreators-dev/easyslang-backend/internal/utils"
)

type Config struct {
	Mode        string
	Port        string
	ServiceName string
	Version     string

	// Static API key the mobile clients send as a bearer token. Empty
	// disables auth (local development only).
	APISecretKey string

	SessionBackend string // "memory" or "redis"
	RedisAddr      string
	SessionTTL     time.Duration

	// Base URL the pre-generated stage audio is served from. Defaults to
	// the R2 public bucket URL.
	AudioBaseURL string

	// When true, a failed paraphrase generation degrades to a canned
	// supportive line instead of a 502.
	ParaphraseFallback bool

	// When true, skip Postgres entirely; conversation logging is off.
	ConversationLogDisabled bool

	ExtraOrigins []string
}

func LoadConfig(log *logger.Logger) Config {
	mode := utils.GetEnv("LOG_MODE", "development", log)
	port := utils.GetEnv("PORT", "8000", log)
	apiSecretKey := utils.GetEnv("API_SECRET_KEY", "", log)
	sessionBackend := strings.ToLower(utils.GetEnv("SESSION_BACKEND", "memory", log))
	redisAddr := utils.GetEnv("REDIS_ADDR", "localhost:6379", log)
	sessionTTLSeconds := utils.GetEnvAsInt("FLOW_SESSION_TTL_SECONDS", 3600, log)
	audioBaseURL := utils.GetEnv("FLOW_AUDIO_BASE_URL", utils.GetEnv("R2_PUBLIC_URL", "", log), log)
	paraphraseFallback := utils.GetEnvAsBool("FLOW_PARAPHRASE_FALLBACK", false, log)
	logDisabled := utils.GetEnvAsBool("CONVERSATION_LOG_DISABLED", false, log)

	var extraOrigins []string
	for _, origin := range strings.Split(utils.GetEnv("CORS_EXTRA_ORIGINS", "", log), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			extraOrigins = append(extraOrigins, origin)
		}
	}

	return Config{
		Mode:                    mode,
		Port:                    port,
		ServiceName:             "easyslang-backend",
		Version:                 "1.0.0",
		APISecretKey:            apiSecretKey,
		SessionBackend:          sessionBackend,
		RedisAddr:               redisAddr,
		SessionTTL:              time.Duration(sessionTTLSeconds) * time.Second,
		AudioBaseURL:            strings.TrimRight(audioBaseURL, "/"),
		ParaphraseFallback:      paraphraseFallback,
		ConversationLogDisabled: logDisabled,
		ExtraOrigins:            extraOrigins,
	}
}
