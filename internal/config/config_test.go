package config

import (
	"testing"
	"time"
)

func TestLoadForTestsRequiresDatabaseURL(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379",
		"JWT_SECRET":   "secret",
	})
	if err == nil {
		t.Fatal("expected error when DATABASE_URL is empty")
	}
}

func TestLoadForTestsDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost/quotes",
		"REDIS_URL":    "redis://localhost:6379",
		"JWT_SECRET":   "secret",
		"PORT":         "",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr() != ":8080" {
		t.Fatalf("expected default addr :8080, got %s", cfg.HTTPAddr())
	}
	if cfg.OriginCountry != "US" {
		t.Fatalf("expected default origin country US, got %s", cfg.OriginCountry)
	}
	if cfg.CarrierTimeout != 3*time.Second {
		t.Fatalf("expected default carrier timeout 3s, got %s", cfg.CarrierTimeout)
	}
}

func TestParseCarriers(t *testing.T) {
	carriers := parseCarriers("ups|https://rates.ups.example|key-1; usps|https://rates.usps.example ;broken")
	if len(carriers) != 2 {
		t.Fatalf("expected 2 carriers, got %d", len(carriers))
	}
	if carriers[0].Name != "ups" || carriers[0].APIKey != "key-1" {
		t.Fatalf("unexpected first carrier: %+v", carriers[0])
	}
	if carriers[1].Name != "usps" || carriers[1].APIKey != "" {
		t.Fatalf("unexpected second carrier: %+v", carriers[1])
	}
}
