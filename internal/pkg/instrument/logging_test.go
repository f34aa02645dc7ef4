package instrument

import (
	"encoding/json"
	"log/slog"
	"testing"
)

func TestRedactSet(t *testing.T) {
	keys := newRedactSet([]string{" Password ", "SMTP_PASSWORD", ""})

	t.Run("NormalizesNames", func(t *testing.T) {
		if len(keys) != 2 {
			t.Fatalf("expected two keys, got %v", keys)
		}
		if !keys.matches("PASSWORD") || !keys.matches("smtp_password") {
			t.Fatalf("expected case-insensitive matches, got %v", keys)
		}
	})

	t.Run("MasksTopLevelAttr", func(t *testing.T) {
		got := keys.attr(slog.String("password", "hunter2"))

		if got.Value.String() != "***" {
			t.Fatalf("expected masked value, got %q", got.Value.String())
		}
	})

	t.Run("MasksInsideGroups", func(t *testing.T) {
		got := keys.attr(slog.Group("smtp", slog.String("smtp_password", "x"), slog.String("host", "relay")))

		group := got.Value.Group()
		for _, a := range group {
			switch a.Key {
			case "smtp_password":
				if a.Value.String() != "***" {
					t.Fatalf("expected masked group value, got %q", a.Value.String())
				}
			case "host":
				if a.Value.String() != "relay" {
					t.Fatalf("unmasked value must pass through, got %q", a.Value.String())
				}
			}
		}
	})

	t.Run("MasksJSONStrings", func(t *testing.T) {
		got := keys.attr(slog.String("body", `{"password":"x","user":"u"}`))

		var doc map[string]any
		if err := json.Unmarshal([]byte(got.Value.String()), &doc); err != nil {
			t.Fatalf("masked value is not json: %v", err)
		}
		if doc["password"] != "***" {
			t.Fatalf("expected masked field, got %v", doc)
		}
		if doc["user"] != "u" {
			t.Fatalf("unmasked field must pass through, got %v", doc)
		}
	})

	t.Run("LeavesPlainTextAlone", func(t *testing.T) {
		got := keys.attr(slog.String("note", "no secrets here"))

		if got.Value.String() != "no secrets here" {
			t.Fatalf("plain text must pass through, got %q", got.Value.String())
		}
	})

	t.Run("MasksMapValues", func(t *testing.T) {
		got := keys.attr(slog.Any("data", map[string]any{
			"password": "x",
			"nested":   map[string]any{"smtp_password": "y", "ok": "z"},
		}))

		doc, ok := got.Value.Any().(map[string]any)
		if !ok {
			t.Fatalf("expected map value, got %T", got.Value.Any())
		}
		if doc["password"] != "***" {
			t.Fatalf("expected masked field, got %v", doc)
		}
		nested, ok := doc["nested"].(map[string]any)
		if !ok || nested["smtp_password"] != "***" || nested["ok"] != "z" {
			t.Fatalf("unexpected nested masking: %v", doc)
		}
	})
}
