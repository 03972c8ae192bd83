// Package config assembles the application configuration from the
// environment. A .env file in the working directory is loaded first, so
// local development does not need exported variables.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhisek/linguo/internal/llm"
	"github.com/abhisek/linguo/internal/speech"
	"github.com/abhisek/linguo/internal/store"
)

// Config is the full application configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// StaticDir is where synthesized audio files are written and served
	// from.
	StaticDir string

	// AllowedOrigin is the CORS origin for the browser client.
	AllowedOrigin string

	// RedisAddr enables the Redis session store when set; empty falls
	// back to the in-memory store.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// SessionTTL is how long an idle session survives in Redis.
	SessionTTL time.Duration

	// DBPath is the sqlite database file for telemetry and results.
	DBPath string

	// TargetLanguage is the language being practiced.
	TargetLanguage string

	// LessonID selects a builtin lesson; empty generates a scenario with
	// the LLM after the assessment.
	LessonID string

	LLM        llm.Config
	Sarvam     speech.SarvamConfig
	ElevenLabs speech.ElevenLabsConfig
}

// Load reads the configuration from the environment. A missing .env file
// is not an error.
func Load() Config {
	_ = godotenv.Load()

	dbPath, err := store.DefaultDBPath()
	if err != nil {
		dbPath = "linguo.db"
	}

	cfg := Config{
		Addr:           envOr("LINGUO_ADDR", ":8000"),
		StaticDir:      envOr("LINGUO_STATIC_DIR", "static"),
		AllowedOrigin:  envOr("LINGUO_CORS_ORIGIN", "http://localhost:5173"),
		RedisAddr:      os.Getenv("LINGUO_REDIS_ADDR"),
		RedisPassword:  os.Getenv("LINGUO_REDIS_PASSWORD"),
		SessionTTL:     24 * time.Hour,
		DBPath:         dbPath,
		TargetLanguage: envOr("LINGUO_TARGET_LANGUAGE", "English"),
		LessonID:       os.Getenv("LINGUO_LESSON"),
		LLM:            llm.ConfigFromEnv(),
		Sarvam: speech.SarvamConfig{
			APIKey:       firstEnv("LINGUO_SARVAM_API_KEY", "SARVAM_API_KEY"),
			Model:        os.Getenv("LINGUO_SARVAM_MODEL"),
			LanguageCode: os.Getenv("LINGUO_SARVAM_LANGUAGE"),
		},
		ElevenLabs: speech.ElevenLabsConfig{
			APIKey:  firstEnv("LINGUO_ELEVENLABS_API_KEY", "ELEVENLABS_API_KEY"),
			VoiceID: os.Getenv("LINGUO_ELEVENLABS_VOICE"),
			ModelID: os.Getenv("LINGUO_ELEVENLABS_MODEL"),
		},
	}

	if v := os.Getenv("LINGUO_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = n
		}
	}
	if v := os.Getenv("LINGUO_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SessionTTL = d
		}
	}

	// With no explicit provider config, fall back to whichever standard
	// API key is present in the environment.
	if cfg.LLM.Validate() != nil {
		if discovered, ok := llm.DiscoverConfig(); ok {
			cfg.LLM = discovered
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
