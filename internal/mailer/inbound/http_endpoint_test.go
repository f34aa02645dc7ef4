package inbound_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/mailbite/internal/mailer/inbound"
	"github.com/shandysiswandi/mailbite/internal/mailer/usecase"
	"github.com/shandysiswandi/mailbite/internal/pkg/config"
	"github.com/shandysiswandi/mailbite/internal/pkg/instrument"
	"github.com/shandysiswandi/mailbite/internal/pkg/mail"
	"github.com/shandysiswandi/mailbite/internal/pkg/router"
	"github.com/shandysiswandi/mailbite/internal/pkg/uid"
)

const routerConfigYAML = `
app:
  maintenance:
    endpoints: ""
instrument:
  log_mask_fields: "password,smtp_password"
`

type fakeRelay struct {
	sent []mail.Message
	err  error
}

func (f *fakeRelay) Send(_ context.Context, msg mail.Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

type errorBody struct {
	Message string            `json:"message"`
	Error   map[string]string `json:"error"`
}

func newTestRouter(t *testing.T, relayCfg mail.RelayConfig, relay *fakeRelay) *router.Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(routerConfigYAML))
	if err != nil {
		t.Fatalf("build config: %v", err)
	}
	t.Cleanup(func() { cfg.Close() })

	ro := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       uid.NewUUID(),
		Instrument: instrument.NewNoop(),
	})

	uc := usecase.NewMailer(usecase.Dependency{
		Relay:      relayCfg,
		RepoMail:   relay,
		Instrument: instrument.NewNoop(),
	})
	inbound.RegisterHTTPEndpoint(ro, uc)

	return ro
}

func doRequest(t *testing.T, ro *router.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, req)
	return rec
}

func configuredRelay() mail.RelayConfig {
	return mail.RelayConfig{Host: "smtp.example.com", Port: 587, Username: "u", Password: "p"}
}

func TestSendEmailEndpoint(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		relay := &fakeRelay{}
		ro := newTestRouter(t, configuredRelay(), relay)

		rec := doRequest(t, ro, http.MethodPost, "/send-email",
			`{"to":["a@b.com"],"from_email":"s@b.com","subject":"Hi","plain_body":"Body"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got := rec.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
			t.Fatalf("unexpected content type: %q", got)
		}
		want := `{"message":"Email sent successfully","status":"success"}`
		if got := strings.TrimSpace(rec.Body.String()); got != want {
			t.Fatalf("unexpected body:\ngot  %s\nwant %s", got, want)
		}
		if len(relay.sent) != 1 {
			t.Fatalf("expected one relayed message, got %d", len(relay.sent))
		}
	})

	t.Run("EmptyRecipients", func(t *testing.T) {
		ro := newTestRouter(t, configuredRelay(), &fakeRelay{})

		rec := doRequest(t, ro, http.MethodPost, "/send-email",
			`{"to":[],"from_email":"s@b.com","subject":"Hi","plain_body":"Body"}`)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
		}

		var body errorBody
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Message != "Validation error" {
			t.Fatalf("unexpected message: %q", body.Message)
		}
		if body.Error["to"] != "At least one recipient is required" {
			t.Fatalf("unexpected error detail: %v", body.Error)
		}
	})

	t.Run("WhitespaceSubject", func(t *testing.T) {
		ro := newTestRouter(t, configuredRelay(), &fakeRelay{})

		rec := doRequest(t, ro, http.MethodPost, "/send-email",
			`{"to":["a@b.com"],"from_email":"s@b.com","subject":"   ","plain_body":"Body"}`)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
		}

		var body errorBody
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Error["subject"] != "Subject cannot be empty" {
			t.Fatalf("unexpected error detail: %v", body.Error)
		}
	})

	t.Run("InvalidSenderAddress", func(t *testing.T) {
		ro := newTestRouter(t, configuredRelay(), &fakeRelay{})

		rec := doRequest(t, ro, http.MethodPost, "/send-email",
			`{"to":["a@b.com"],"from_email":"nope","subject":"Hi","plain_body":"Body"}`)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
		}

		var body errorBody
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Error["from_email"] != "Invalid email address: nope" {
			t.Fatalf("unexpected error detail: %v", body.Error)
		}
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		ro := newTestRouter(t, configuredRelay(), &fakeRelay{})

		rec := doRequest(t, ro, http.MethodPost, "/send-email", `{"to": [`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}

		var body errorBody
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Message != "Invalid request body" {
			t.Fatalf("unexpected message: %q", body.Message)
		}
	})

	t.Run("UnknownField", func(t *testing.T) {
		ro := newTestRouter(t, configuredRelay(), &fakeRelay{})

		rec := doRequest(t, ro, http.MethodPost, "/send-email",
			`{"to":["a@b.com"],"from_email":"s@b.com","subject":"Hi","plain_body":"Body","cc":["x@y.com"]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("RelayFailure", func(t *testing.T) {
		relay := &fakeRelay{err: errors.New("starttls: relay said no")}
		ro := newTestRouter(t, configuredRelay(), relay)

		rec := doRequest(t, ro, http.MethodPost, "/send-email",
			`{"to":["a@b.com"],"from_email":"s@b.com","subject":"Hi","plain_body":"Body"}`)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d: %s", rec.Code, rec.Body.String())
		}
		want := `{"message":"Internal server error"}`
		if got := strings.TrimSpace(rec.Body.String()); got != want {
			t.Fatalf("internal detail must not leak:\ngot  %s\nwant %s", got, want)
		}
	})
}

func TestHealthEndpoint(t *testing.T) {
	ro := newTestRouter(t, mail.RelayConfig{}, &fakeRelay{})

	rec := doRequest(t, ro, http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	want := `{"status":"healthy"}`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Fatalf("unexpected body:\ngot  %s\nwant %s", got, want)
	}
}

func TestSMTPHealthEndpoint(t *testing.T) {
	t.Run("Bypass", func(t *testing.T) {
		ro := newTestRouter(t, mail.RelayConfig{SkipSending: true}, &fakeRelay{})

		rec := doRequest(t, ro, http.MethodGet, "/health/smtp", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["status"] != "healthy" || body["smtp_configured"] != false {
			t.Fatalf("unexpected body: %v", body)
		}
		if body["message"] != "Email sending is disabled (development mode)" {
			t.Fatalf("unexpected message: %v", body["message"])
		}
		if _, found := body["missing_config"]; found {
			t.Fatalf("missing_config must be omitted in bypass mode: %v", body)
		}
	})

	t.Run("Configured", func(t *testing.T) {
		ro := newTestRouter(t, configuredRelay(), &fakeRelay{})

		rec := doRequest(t, ro, http.MethodGet, "/health/smtp", "")

		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["status"] != "healthy" || body["smtp_configured"] != true {
			t.Fatalf("unexpected body: %v", body)
		}
		if body["smtp_host"] != "smtp.example.com" {
			t.Fatalf("unexpected host: %v", body["smtp_host"])
		}
	})

	t.Run("MissingConfiguration", func(t *testing.T) {
		ro := newTestRouter(t, mail.RelayConfig{Port: 587}, &fakeRelay{})

		rec := doRequest(t, ro, http.MethodGet, "/health/smtp", "")

		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["status"] != "unhealthy" {
			t.Fatalf("unexpected status: %v", body["status"])
		}
		missing, ok := body["missing_config"].([]any)
		if !ok || len(missing) != 3 {
			t.Fatalf("expected three missing settings, got %v", body["missing_config"])
		}
	})
}
