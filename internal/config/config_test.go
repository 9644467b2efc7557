package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	os.Setenv(EnvDataDir, t.TempDir())
	defer os.Unsetenv(EnvDataDir)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port(), DefaultPort)
	}
	if cfg.LogLevel() != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel(), DefaultLogLevel)
	}
	if cfg.SceneThreshold() != DefaultSceneThreshold {
		t.Errorf("SceneThreshold = %v, want %v", cfg.SceneThreshold(), DefaultSceneThreshold)
	}
	if cfg.MaxImportBytes() != DefaultMaxImportBytes {
		t.Errorf("MaxImportBytes = %d, want %d", cfg.MaxImportBytes(), DefaultMaxImportBytes)
	}
	if cfg.Headless() {
		t.Error("Headless = true, want false by default")
	}
}

func TestPort_FromEnv(t *testing.T) {
	os.Setenv(EnvDataDir, t.TempDir())
	os.Setenv(EnvPort, "9090")
	defer os.Unsetenv(EnvPort)
	defer os.Unsetenv(EnvDataDir)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port())
	}
}

func TestPort_Invalid(t *testing.T) {
	os.Setenv(EnvDataDir, t.TempDir())
	os.Setenv(EnvPort, "not-a-port")
	defer os.Unsetenv(EnvPort)
	defer os.Unsetenv(EnvDataDir)

	if _, err := New(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestConfigFile_Merge(t *testing.T) {
	dir := t.TempDir()
	content := []byte("port: 9100\nlog_level: debug\nffmpeg: /opt/ffmpeg/bin/ffmpeg\nscene_threshold: 0.3\nmax_import_mb: 100\n")
	if err := os.WriteFile(filepath.Join(dir, ConfigFilename), content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	os.Setenv(EnvDataDir, dir)
	defer os.Unsetenv(EnvDataDir)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9100 {
		t.Errorf("Port = %d, want 9100", cfg.Port())
	}
	if cfg.LogLevel() != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel())
	}
	if cfg.FFmpegPath() != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("FFmpegPath = %q", cfg.FFmpegPath())
	}
	if cfg.SceneThreshold() != 0.3 {
		t.Errorf("SceneThreshold = %v, want 0.3", cfg.SceneThreshold())
	}
	if cfg.MaxImportBytes() != 100*1024*1024 {
		t.Errorf("MaxImportBytes = %d, want %d", cfg.MaxImportBytes(), 100*1024*1024)
	}
}

func TestConfigFile_EnvWins(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFilename), []byte("port: 9100\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	os.Setenv(EnvDataDir, dir)
	os.Setenv(EnvPort, "9200")
	defer os.Unsetenv(EnvPort)
	defer os.Unsetenv(EnvDataDir)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9200 {
		t.Errorf("Port = %d, want env override 9200", cfg.Port())
	}
}

func TestConfigFile_Malformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFilename), []byte("port: [nope"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	os.Setenv(EnvDataDir, dir)
	defer os.Unsetenv(EnvDataDir)

	if _, err := New(); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

func TestDBPath(t *testing.T) {
	dir := t.TempDir()
	os.Setenv(EnvDataDir, dir)
	defer os.Unsetenv(EnvDataDir)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(dir, DBFilename)
	if cfg.DBPath() != want {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath(), want)
	}
}
