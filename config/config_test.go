package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "empty reference language",
			mutate: func(cfg *Config) {
				cfg.ReferenceLanguage = ""
			},
			wantErr: "reference language",
		},
		{
			name: "zero preview limit",
			mutate: func(cfg *Config) {
				cfg.PreviewLimit = 0
			},
			wantErr: "preview limit",
		},
		{
			name: "negative timeout",
			mutate: func(cfg *Config) {
				cfg.Timeout = -1 * time.Second
			},
			wantErr: "timeout",
		},
		{
			name: "negative link redirects",
			mutate: func(cfg *Config) {
				cfg.LinkMaxRedirects = -1
			},
			wantErr: "link max redirects",
		},
		{
			name: "empty catalog path",
			mutate: func(cfg *Config) {
				cfg.CatalogPath = ""
			},
			wantErr: "catalog path",
		},
		{
			name: "empty user agent",
			mutate: func(cfg *Config) {
				cfg.UserAgent = ""
			},
			wantErr: "user agent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("BOOKFEED_TEST_INT", "42")
	value, ok, err := EnvInt("BOOKFEED_TEST_INT")
	if err != nil || !ok || value != 42 {
		t.Fatalf("EnvInt = (%d, %v, %v), want (42, true, nil)", value, ok, err)
	}

	t.Setenv("BOOKFEED_TEST_INT", "nope")
	if _, _, err := EnvInt("BOOKFEED_TEST_INT"); err == nil {
		t.Fatalf("expected parse error for non-numeric value")
	}

	if _, ok := EnvString("BOOKFEED_TEST_MISSING"); ok {
		t.Fatalf("missing variable should report ok=false")
	}

	t.Setenv("BOOKFEED_TEST_BOOL", "true")
	b, ok, err := EnvBool("BOOKFEED_TEST_BOOL")
	if err != nil || !ok || !b {
		t.Fatalf("EnvBool = (%v, %v, %v), want (true, true, nil)", b, ok, err)
	}
}
