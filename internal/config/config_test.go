package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	v, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c, err := Decode(v)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if c.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", c.Server.Addr())
	}
	if c.Server.ShutdownGrace != 10*time.Second {
		t.Errorf("shutdown grace = %s, want 10s", c.Server.ShutdownGrace)
	}
	if c.Theme.Default != "dark" {
		t.Errorf("theme default = %q, want dark", c.Theme.Default)
	}
	if c.Cursor.GlowSmoothing != 0.15 || c.Cursor.DotSmoothing != 0.25 {
		t.Errorf("cursor smoothing = %v/%v", c.Cursor.GlowSmoothing, c.Cursor.DotSmoothing)
	}
	if c.SMTP.Configured() {
		t.Error("SMTP configured without credentials")
	}
}

func TestLoad_PlainEnvNames(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9191")
	t.Setenv("SMTP_USER", "me@example.com")
	t.Setenv("SMTP_PASS", "secret")

	v, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c, err := Decode(v)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if c.Server.Port != 9191 {
		t.Errorf("port = %d, want 9191", c.Server.Port)
	}
	if !c.SMTP.Configured() {
		t.Error("SMTP credentials from env not picked up")
	}
}

func TestLoad_PrefixedEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORTFOLIO_LOGGING_LEVEL", "debug")

	v, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := v.GetString("logging.level"); got != "debug" {
		t.Errorf("logging.level = %q, want debug", got)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	data := []byte("server:\n  port: 7000\ntheme:\n  default: light\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	v, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c, err := Decode(v)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if c.Server.Port != 7000 || c.Theme.Default != "light" {
		t.Errorf("file values not applied: port %d theme %q", c.Server.Port, c.Theme.Default)
	}
}

func TestNewLogger_Defaults(t *testing.T) {
	v := viper.New()
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	logger, err := NewLogger(v)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glow.log")
	v := viper.New()
	v.Set("logging.level", "info")
	v.Set("logging.format", "console")
	v.Set("logging.file", path)

	logger, err := NewLogger(v)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("log file is empty")
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	v := viper.New()
	v.Set("logging.level", "banana")
	v.Set("logging.format", "json")

	if _, err := NewLogger(v); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	v := viper.New()
	v.Set("logging.level", "info")
	v.Set("logging.format", "xml")

	if _, err := NewLogger(v); err == nil {
		t.Fatal("expected error for invalid format")
	}
}
