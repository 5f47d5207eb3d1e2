package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("GRIMOIRE_API_URL", "http://localhost:8000") //nolint:errcheck,gosec // Test setup

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.APIBaseURL != "http://localhost:8000" {
		t.Errorf("APIBaseURL = %q, want %q", cfg.APIBaseURL, "http://localhost:8000")
	}
	if cfg.HealthPath != "/api/health/" {
		t.Errorf("HealthPath = %q, want %q", cfg.HealthPath, "/api/health/")
	}
	if cfg.ListenAddr != ":8084" {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, ":8084")
	}
	if cfg.CheckInterval != time.Minute {
		t.Errorf("CheckInterval = %v, want %v", cfg.CheckInterval, time.Minute)
	}
	if cfg.CheckTimeout != 10*time.Second {
		t.Errorf("CheckTimeout = %v, want %v", cfg.CheckTimeout, 10*time.Second)
	}
	if cfg.AuthEnabled() {
		t.Error("AuthEnabled() = true with no password hash configured")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "listen addr and database path",
			envVars: map[string]string{
				"GRIMOIRE_API_URL": "https://api.example.com",
				"LISTEN_ADDR":      ":9000",
				"DATABASE_PATH":    "/tmp/status.db",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.ListenAddr != ":9000" {
					t.Errorf("ListenAddr = %q, want :9000", cfg.ListenAddr)
				}
				if cfg.DatabasePath != "/tmp/status.db" {
					t.Errorf("DatabasePath = %q, want /tmp/status.db", cfg.DatabasePath)
				}
			},
		},
		{
			name: "check interval disabled",
			envVars: map[string]string{
				"GRIMOIRE_API_URL":        "https://api.example.com",
				"GRIMOIRE_CHECK_INTERVAL": "0",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.CheckInterval != 0 {
					t.Errorf("CheckInterval = %v, want 0", cfg.CheckInterval)
				}
			},
		},
		{
			name: "custom health path and timeout",
			envVars: map[string]string{
				"GRIMOIRE_API_URL":       "https://api.example.com",
				"GRIMOIRE_HEALTH_PATH":   "/healthz",
				"GRIMOIRE_CHECK_TIMEOUT": "3s",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.HealthPath != "/healthz" {
					t.Errorf("HealthPath = %q, want /healthz", cfg.HealthPath)
				}
				if cfg.CheckTimeout != 3*time.Second {
					t.Errorf("CheckTimeout = %v, want 3s", cfg.CheckTimeout)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.envVars {
				os.Setenv(k, v) //nolint:errcheck,gosec // Test setup
			}

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr string
	}{
		{
			name:    "missing base URL",
			envVars: map[string]string{},
			wantErr: "api_base_url is required",
		},
		{
			name: "relative base URL",
			envVars: map[string]string{
				"GRIMOIRE_API_URL": "localhost:8000/api",
			},
			wantErr: "not an absolute URL",
		},
		{
			name: "bad interval",
			envVars: map[string]string{
				"GRIMOIRE_API_URL":        "http://localhost:8000",
				"GRIMOIRE_CHECK_INTERVAL": "soon",
			},
			wantErr: "invalid check_interval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.envVars {
				os.Setenv(k, v) //nolint:errcheck,gosec // Test setup
			}

			_, err := Load()
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	os.Clearenv()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	content := `
api_base_url = "https://backend.grimoire.example"
health_path = "/api/health/"
listen_addr = ":8090"
check_interval = "30s"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	os.Setenv("GRIMOIRE_CONFIG", configPath) //nolint:errcheck,gosec // Test setup

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.APIBaseURL != "https://backend.grimoire.example" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.ListenAddr != ":8090" {
		t.Errorf("ListenAddr = %q, want :8090", cfg.ListenAddr)
	}
	if cfg.CheckInterval != 30*time.Second {
		t.Errorf("CheckInterval = %v, want 30s", cfg.CheckInterval)
	}
}

func TestHealthURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		path    string
		want    string
	}{
		{"no trailing slash", "http://localhost:8000", "/api/health/", "http://localhost:8000/api/health/"},
		{"trailing slash", "http://localhost:8000/", "/api/health/", "http://localhost:8000/api/health/"},
		{"custom path", "https://api.example.com", "/healthz", "https://api.example.com/healthz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{APIBaseURL: tt.baseURL, HealthPath: tt.path}
			if got := cfg.HealthURL(); got != tt.want {
				t.Errorf("HealthURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
