package common

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.Server.GRPCAddr != ":8080" {
		t.Errorf("GRPCAddr = %q, want :8080", cfg.Server.GRPCAddr)
	}
	if cfg.Pipeline.MaxPollAttempts != 60 {
		t.Errorf("MaxPollAttempts = %d, want 60", cfg.Pipeline.MaxPollAttempts)
	}
	if cfg.Pipeline.PollInterval != 2*time.Second {
		t.Errorf("PollInterval = %v, want 2s", cfg.Pipeline.PollInterval)
	}
	if cfg.Ingest.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Ingest.Workers)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ANALYZER_URL", "http://analyzer.local")
	t.Setenv("DB_MAX_CONNS", "50")
	t.Setenv("MULTI_PAGE", "true")
	t.Setenv("POLL_INTERVAL", "500ms")
	t.Setenv("TABLE_HEADERS", "Item No., Description , Quantity,")

	cfg := LoadConfig()

	if cfg.Provider.BaseURL != "http://analyzer.local" {
		t.Errorf("BaseURL = %q", cfg.Provider.BaseURL)
	}
	if cfg.Database.MaxConns != 50 {
		t.Errorf("MaxConns = %d, want 50", cfg.Database.MaxConns)
	}
	if !cfg.Pipeline.MultiPage {
		t.Error("MultiPage = false, want true")
	}
	if cfg.Pipeline.PollInterval != 500*time.Millisecond {
		t.Errorf("PollInterval = %v, want 500ms", cfg.Pipeline.PollInterval)
	}
	want := []string{"Item No.", "Description", "Quantity"}
	if len(cfg.Pipeline.TableHeaders) != len(want) {
		t.Fatalf("TableHeaders = %v, want %v", cfg.Pipeline.TableHeaders, want)
	}
	for i := range want {
		if cfg.Pipeline.TableHeaders[i] != want[i] {
			t.Errorf("TableHeaders[%d] = %q, want %q", i, cfg.Pipeline.TableHeaders[i], want[i])
		}
	}
}

func TestLoadConfigInvalidValuesFallBack(t *testing.T) {
	t.Setenv("MAX_POLL_ATTEMPTS", "not-a-number")
	t.Setenv("MULTI_PAGE", "definitely")

	cfg := LoadConfig()
	if cfg.Pipeline.MaxPollAttempts != 60 {
		t.Errorf("MaxPollAttempts = %d, want default 60", cfg.Pipeline.MaxPollAttempts)
	}
	if cfg.Pipeline.MultiPage {
		t.Error("MultiPage = true, want default false")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid with registry file", func(c *Config) {
			c.Provider.BaseURL = "http://a"
			c.Pipeline.RegistryPath = "companies.json"
		}, false},
		{"valid with database", func(c *Config) {
			c.Provider.BaseURL = "http://a"
			c.Database.DSN = "postgres://localhost/x"
		}, false},
		{"missing analyzer url", func(c *Config) {
			c.Database.DSN = "postgres://localhost/x"
		}, true},
		{"no registry source", func(c *Config) {
			c.Provider.BaseURL = "http://a"
		}, true},
		{"missing grpc addr", func(c *Config) {
			c.Provider.BaseURL = "http://a"
			c.Pipeline.RegistryPath = "companies.json"
			c.Server.GRPCAddr = ""
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Server: ServerConfig{GRPCAddr: ":8080"}}
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
