package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		DBPath:           "./test.db",
		Port:             "8080",
		BaseUrl:          "https://feeds.example.com",
		APIAccessKey:     "test-key",
		FetchTimeout:     15,
		RefreshInterval:  1800,
		WorkerCount:      3,
		TickInterval:     60,
		EnrichmentAPIKey: "co-key",
		EnrichmentModel:  "command-r",
		UserAgent:        "Test Agent",
		Timezone:         "UTC",
		Debug:            true,
		Version:          "test-version",
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.FetchTimeout != 15 {
		t.Errorf("Expected fetch timeout 15, got %d", cfg.FetchTimeout)
	}
	if cfg.EnrichmentModel != "command-r" {
		t.Errorf("Expected enrichment model 'command-r', got '%s'", cfg.EnrichmentModel)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}

func TestApplyTimezone(t *testing.T) {
	if err := applyTimezone("UTC"); err != nil {
		t.Errorf("Expected no error for UTC, got: %v", err)
	}
	if err := applyTimezone("Not/AZone"); err == nil {
		t.Error("Expected error for invalid timezone")
	}
}
