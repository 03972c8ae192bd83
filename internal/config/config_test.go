package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Addr != ":8000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.TargetLanguage != "English" {
		t.Errorf("TargetLanguage = %q", cfg.TargetLanguage)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.AllowedOrigin != "http://localhost:5173" {
		t.Errorf("AllowedOrigin = %q", cfg.AllowedOrigin)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LINGUO_ADDR", ":9001")
	t.Setenv("LINGUO_TARGET_LANGUAGE", "Spanish")
	t.Setenv("LINGUO_LESSON", "hotel_check_in")
	t.Setenv("LINGUO_SESSION_TTL", "1h")
	t.Setenv("LINGUO_REDIS_ADDR", "localhost:6379")
	t.Setenv("LINGUO_REDIS_DB", "3")
	t.Setenv("LINGUO_LLM_PROVIDER", "mock")

	cfg := Load()

	if cfg.Addr != ":9001" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.TargetLanguage != "Spanish" {
		t.Errorf("TargetLanguage = %q", cfg.TargetLanguage)
	}
	if cfg.LessonID != "hotel_check_in" {
		t.Errorf("LessonID = %q", cfg.LessonID)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.RedisAddr != "localhost:6379" || cfg.RedisDB != 3 {
		t.Errorf("redis = %q db %d", cfg.RedisAddr, cfg.RedisDB)
	}
	if cfg.LLM.Provider != "mock" {
		t.Errorf("LLM.Provider = %q", cfg.LLM.Provider)
	}
}

func TestLoad_SpeechKeyFallback(t *testing.T) {
	t.Setenv("SARVAM_API_KEY", "sk-generic")
	t.Setenv("LINGUO_ELEVENLABS_API_KEY", "el-prefixed")
	t.Setenv("ELEVENLABS_API_KEY", "el-generic")

	cfg := Load()

	if cfg.Sarvam.APIKey != "sk-generic" {
		t.Errorf("Sarvam.APIKey = %q", cfg.Sarvam.APIKey)
	}
	if cfg.ElevenLabs.APIKey != "el-prefixed" {
		t.Errorf("ElevenLabs.APIKey = %q, prefixed key should win", cfg.ElevenLabs.APIKey)
	}
}
