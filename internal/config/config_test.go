package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	os.Unsetenv("CONFIG_FILE")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DefaultWarehouse != DefaultWarehouse {
		t.Fatalf("warehouse=%q", cfg.DefaultWarehouse)
	}
	if cfg.WedgeWindowMs != 500 {
		t.Fatalf("wedge=%d", cfg.WedgeWindowMs)
	}
	if filepath.Base(cfg.DBPath) != "iow.db" {
		t.Fatalf("db=%s", cfg.DBPath)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "iow.yaml")
	blob := "http_addr: \":9999\"\nsmtp_port: 2525\nmetrics_enabled: false\n"
	if err := os.WriteFile(path, []byte(blob), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SMTP_PORT", "465")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPAddr != ":9999" {
		t.Fatalf("addr=%q", cfg.HTTPAddr)
	}
	if cfg.SMTPPort != 465 {
		t.Fatalf("port=%d", cfg.SMTPPort)
	}
	if cfg.MetricsEnabled {
		t.Fatalf("metrics should be disabled by file")
	}
}

func TestRequire(t *testing.T) {
	var cfg Config
	if err := cfg.Require("SMTP_HOST", " "); err == nil {
		t.Fatalf("expected error")
	}
	if err := cfg.Require("SMTP_HOST", "smtp.local"); err != nil {
		t.Fatal(err)
	}
}

// chdir switches the working directory for the test and restores it on
// cleanup (stand-in for testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
