package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadParsesTOMLOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "proxy.toml")
	contents := `
host = "127.0.0.1"
port = 6000
max_queue_size = 64
max_req_per_sec = 20

[[workers]]
host = "10.0.0.1"
port = 7001

[[workers]]
host = "10.0.0.2"
port = 7002
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Host != "127.0.0.1" || cfg.Port != 6000 {
		t.Fatalf("host/port = %s:%d, want 127.0.0.1:6000", cfg.Host, cfg.Port)
	}
	if cfg.MaxQueueSize != 64 || cfg.MaxReqPerSec != 20 {
		t.Fatalf("queue/rate = %d/%d, want 64/20", cfg.MaxQueueSize, cfg.MaxReqPerSec)
	}
	if len(cfg.Workers) != 2 || cfg.Workers[0].Address() != "10.0.0.1:7001" {
		t.Fatalf("workers = %+v", cfg.Workers)
	}
	// Fields not present in the file keep their defaults.
	if cfg.TimeoutSecs != Default().TimeoutSecs {
		t.Fatalf("timeout_secs = %d, want default %d", cfg.TimeoutSecs, Default().TimeoutSecs)
	}
}

func TestLoadWithEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg.Host != want.Host || cfg.Port != want.Port || cfg.MaxQueueSize != want.MaxQueueSize {
		t.Fatalf("cfg = %+v, want defaults %+v", cfg, want)
	}
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	t.Setenv("PROXY_PORT", "9999")

	path := filepath.Join(t.TempDir(), "proxy.toml")
	if err := os.WriteFile(path, []byte("port = 6000\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9999 {
		t.Fatalf("port = %d, want 9999 from env override", cfg.Port)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load("/nonexistent/proxy.toml"); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
