package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STRIPE_SECRET_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.Server.RequestTimeout)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Driver = %v, want sqlite", cfg.Database.Driver)
	}
	if cfg.Billing.Enabled() {
		t.Error("Billing.Enabled() = true without a secret key")
	}
	if cfg.Export.Enabled() {
		t.Error("Export.Enabled() = true without a bucket")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: 8080, RequestTimeout: 30 * time.Second},
			Database:  DatabaseConfig{Driver: "sqlite"},
			Auth:      AuthConfig{JWTSecret: "secret"},
			RateLimit: RateLimitConfig{Enabled: true, RequestsPerSecond: 10, Burst: 20},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing jwt secret", func(c *Config) { c.Auth.JWTSecret = "" }, true},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"bad driver", func(c *Config) { c.Database.Driver = "mysql" }, true},
		{"zero request timeout", func(c *Config) { c.Server.RequestTimeout = 0 }, true},
		{"billing without webhook secret", func(c *Config) { c.Billing.SecretKey = "sk_test" }, true},
		{"billing with webhook secret", func(c *Config) {
			c.Billing.SecretKey = "sk_test"
			c.Billing.WebhookSecret = "whsec_test"
		}, false},
		{"bad rate limit", func(c *Config) { c.RateLimit.Burst = 0 }, true},
		{"rate limit disabled ignores values", func(c *Config) {
			c.RateLimit = RateLimitConfig{Enabled: false}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBillingConfig_PriceFor(t *testing.T) {
	b := BillingConfig{BasicPriceID: "price_basic", ProPriceID: "price_pro"}
	if got := b.PriceFor("pro"); got != "price_pro" {
		t.Errorf("PriceFor(pro) = %v", got)
	}
	if got := b.PriceFor("enterprise"); got != "" {
		t.Errorf("PriceFor(enterprise) = %v, want empty", got)
	}
}
