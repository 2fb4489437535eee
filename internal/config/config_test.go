package config

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.BaseURL != "http://localhost:5000/api" {
		t.Errorf("base URL = %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSeconds != 15 {
		t.Errorf("timeout = %d", cfg.API.TimeoutSeconds)
	}
	if cfg.UI.DebounceMillis != 300 {
		t.Errorf("debounce = %d", cfg.UI.DebounceMillis)
	}
	if cfg.UI.PageSize != 20 {
		t.Errorf("page size = %d", cfg.UI.PageSize)
	}
	if cfg.UI.DefaultSort != "score" {
		t.Errorf("default sort = %q", cfg.UI.DefaultSort)
	}
	if cfg.Logging.Level != "INFO" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
	if !strings.Contains(cfg.Logging.File, "aniterm") {
		t.Errorf("log path %q not under app dir", cfg.Logging.File)
	}
}
