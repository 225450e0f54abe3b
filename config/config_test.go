package config

import (
	"strings"
	"testing"
)

// clearEnv resets every variable Load reads so each test starts from the
// defaults regardless of the host environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ADDRESS", "ENV", "LOG_LEVEL", "LOG_DIR",
		"DATASET_PATH", "CHEM_SERVICE_URL", "RELOAD_SCHEDULE",
		"MAX_REQUEST_BODY", "MAX_HEADER_SIZE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with defaults failed: %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.DatasetPath != "files/drugs.tsv" {
		t.Errorf("expected default dataset path, got %s", cfg.DatasetPath)
	}
	if cfg.ChemServiceURL != "" {
		t.Errorf("expected chem service disabled by default, got %s", cfg.ChemServiceURL)
	}
	if cfg.ReloadSchedule != "06:00" {
		t.Errorf("expected default reload schedule 06:00, got %s", cfg.ReloadSchedule)
	}
	if cfg.MaxRequestBody != 1048576 {
		t.Errorf("expected default max request body 1MB, got %d", cfg.MaxRequestBody)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DATASET_PATH", "testdata/drugs.tsv")
	t.Setenv("CHEM_SERVICE_URL", "http://localhost:5000")
	t.Setenv("RELOAD_SCHEDULE", "06:00;18:00")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.ChemServiceURL != "http://localhost:5000" {
		t.Errorf("unexpected chem service URL: %s", cfg.ChemServiceURL)
	}
	if cfg.ReloadSchedule != "06:00;18:00" {
		t.Errorf("unexpected reload schedule: %s", cfg.ReloadSchedule)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric port", "PORT", "abc"},
		{"port out of range", "PORT", "70000"},
		{"bad address", "ADDRESS", "not-an-ip"},
		{"bad env", "ENV", "production-ish"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"path traversal", "DATASET_PATH", "../../etc/passwd"},
		{"bad chem url scheme", "CHEM_SERVICE_URL", "ftp://host"},
		{"chem url without host", "CHEM_SERVICE_URL", "http://"},
		{"bad schedule format", "RELOAD_SCHEDULE", "sometime"},
		{"schedule hour out of range", "RELOAD_SCHEDULE", "25:00"},
		{"schedule minute out of range", "RELOAD_SCHEDULE", "06:61"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(c.key, c.value)

			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", c.key, c.value)
			}
		})
	}
}

func TestValidateReloadSchedule(t *testing.T) {
	valid := []string{"06:00", "00:00", "23:59", "06:00;12:30;18:45"}
	for _, s := range valid {
		if err := validateReloadSchedule(s); err != nil {
			t.Errorf("schedule %q rejected: %v", s, err)
		}
	}

	invalid := []string{"", "6", "06:00:00", "aa:bb", "06:00;"}
	for _, s := range invalid {
		if err := validateReloadSchedule(s); err == nil {
			t.Errorf("schedule %q accepted", s)
		}
	}
}

func TestValidateAddress(t *testing.T) {
	for _, addr := range []string{"127.0.0.1", "0.0.0.0", "::1", "localhost"} {
		if err := validateAddress(addr); err != nil {
			t.Errorf("address %q rejected: %v", addr, err)
		}
	}
}

func TestValidateSizeLimit(t *testing.T) {
	if err := validateSizeLimit(0, "MAX_REQUEST_BODY"); err == nil {
		t.Error("zero size limit accepted")
	}
	if err := validateSizeLimit(200*1024*1024, "MAX_REQUEST_BODY"); err == nil {
		t.Error("oversized limit accepted")
	}
	if err := validateSizeLimit(1048576, "MAX_REQUEST_BODY"); err != nil {
		t.Errorf("1MB limit rejected: %v", err)
	}
}

func TestInvalidEnvErrorMentionsVariable(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "loud")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "LOG_LEVEL") {
		t.Errorf("error should name the variable, got: %v", err)
	}
}
