package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shandysiswandi/mailbite/internal/pkg/config"
)

const testConfigYAML = `
app:
  name: mailbite
  debug: true
  ratio: 0.25
  timeout: 30
  server:
    cors: "http://a.test,http://b.test"
smtp:
  host: file.example.com
  port: "587"
`

func newTestConfig(t *testing.T) config.Config {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("build config: %v", err)
	}
	t.Cleanup(func() { cfg.Close() })

	return cfg
}

func TestNewViperFromBytes(t *testing.T) {
	t.Run("Getters", func(t *testing.T) {
		cfg := newTestConfig(t)

		if got := cfg.GetString("app.name"); got != "mailbite" {
			t.Fatalf("GetString: got %q, want %q", got, "mailbite")
		}
		if !cfg.GetBool("app.debug") {
			t.Fatal("GetBool: got false, want true")
		}
		if got := cfg.GetFloat64("app.ratio"); got != 0.25 {
			t.Fatalf("GetFloat64: got %v, want 0.25", got)
		}
		if got := cfg.GetInt("smtp.port"); got != 587 {
			t.Fatalf("GetInt: got %d, want 587", got)
		}
		if got := cfg.GetSecond("app.timeout"); got != 30*time.Second {
			t.Fatalf("GetSecond: got %v, want 30s", got)
		}
	})

	t.Run("ArraySplitsOnCommas", func(t *testing.T) {
		cfg := newTestConfig(t)

		got := cfg.GetArray("app.server.cors")
		if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
			t.Fatalf("GetArray: got %v", got)
		}
	})

	t.Run("EnvOverridesFileValue", func(t *testing.T) {
		t.Setenv("SMTP_HOST", "env.example.com")

		cfg := newTestConfig(t)

		if got := cfg.GetString("smtp.host"); got != "env.example.com" {
			t.Fatalf("env override: got %q, want %q", got, "env.example.com")
		}
	})

	t.Run("EnvProvidesMissingKey", func(t *testing.T) {
		t.Setenv("SMTP_USERNAME", "mailer@example.com")

		cfg := newTestConfig(t)

		if got := cfg.GetString("smtp.username"); got != "mailer@example.com" {
			t.Fatalf("env fallback: got %q, want %q", got, "mailer@example.com")
		}
	})

	t.Run("EmptyConfigType", func(t *testing.T) {
		if _, err := config.NewViperFromBytes("  ", []byte("a: 1")); err == nil {
			t.Fatal("expected error for blank config type")
		}
	})

	t.Run("MalformedContent", func(t *testing.T) {
		if _, err := config.NewViperFromBytes("yaml", []byte("a: [unclosed")); err == nil {
			t.Fatal("expected error for malformed yaml")
		}
	})
}

func TestNewViper(t *testing.T) {
	t.Run("LoadsFile", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "config.yaml")
		if err := os.WriteFile(file, []byte(testConfigYAML), 0o600); err != nil {
			t.Fatalf("write config file: %v", err)
		}

		cfg, err := config.NewViper(file)
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		defer cfg.Close()

		if got := cfg.GetString("app.name"); got != "mailbite" {
			t.Fatalf("GetString: got %q, want %q", got, "mailbite")
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		if _, err := config.NewViper(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("expected error for missing config file")
		}
	})
}
