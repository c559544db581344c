package config

import (
	"testing"
	"time"
)

func TestLoadEnv(t *testing.T) {
	t.Setenv("APP_NAME", "env-app")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("JWT_EXPIRY", "45m")
	t.Setenv("HASH_MEMORY", "32768")
	t.Setenv("LOG_REQUESTS", "false")

	config := &AppConfig{}
	config.Logging.RequestLog = true

	if err := LoadEnv(config); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if config.App.Name != "env-app" {
		t.Errorf("Expected Name = env-app, got %s", config.App.Name)
	}

	if config.Database.Port != 5433 {
		t.Errorf("Expected Port = 5433, got %d", config.Database.Port)
	}

	if config.JWT.Expiry != 45*time.Minute {
		t.Errorf("Expected Expiry = 45m, got %v", config.JWT.Expiry)
	}

	if config.PasswordHash.Memory != 32768 {
		t.Errorf("Expected Memory = 32768, got %d", config.PasswordHash.Memory)
	}

	if config.Logging.RequestLog {
		t.Error("Expected RequestLog to be overridden to false")
	}
}

func TestLoadEnvLeavesUnsetFields(t *testing.T) {
	config := &AppConfig{}
	config.App.Name = "preset"
	config.Server.Port = 1234

	if err := LoadEnv(config); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if config.App.Name != "preset" {
		t.Errorf("Expected preset name to survive, got %s", config.App.Name)
	}

	if config.Server.Port != 1234 {
		t.Errorf("Expected preset port to survive, got %d", config.Server.Port)
	}
}

func TestLoadEnvInvalidInteger(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")

	if err := LoadEnv(&AppConfig{}); err == nil {
		t.Fatal("LoadEnv() should fail for a non-numeric integer variable")
	}
}

func TestLoadEnvInvalidDuration(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "soon")

	if err := LoadEnv(&AppConfig{}); err == nil {
		t.Fatal("LoadEnv() should fail for an unparseable duration")
	}
}

func TestLoadEnvInvalidBool(t *testing.T) {
	t.Setenv("LOG_REQUESTS", "maybe")

	if err := LoadEnv(&AppConfig{}); err == nil {
		t.Fatal("LoadEnv() should fail for an unparseable boolean")
	}
}
