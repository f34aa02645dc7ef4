package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/mailbite/internal/pkg/goerror"
	"github.com/shandysiswandi/mailbite/internal/pkg/instrument"
	"github.com/shandysiswandi/mailbite/internal/pkg/mail"
)

type fakeRelay struct {
	sent []mail.Message
	err  error
}

func (f *fakeRelay) Send(_ context.Context, msg mail.Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

func newTestUsecase(relay *fakeRelay) *Usecase {
	return NewMailer(Dependency{
		Relay:      mail.RelayConfig{Host: "smtp.example.com", Port: 587, Username: "u", Password: "p"},
		RepoMail:   relay,
		Instrument: instrument.NewNoop(),
	})
}

func TestSendEmail(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		relay := &fakeRelay{}
		uc := newTestUsecase(relay)

		err := uc.SendEmail(context.Background(), SendEmailInput{
			To:        []string{"a@b.com"},
			FromEmail: "s@b.com",
			Subject:   "  Hi  ",
			PlainBody: " Body ",
			HTMLBody:  "<p>Body</p>",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(relay.sent) != 1 {
			t.Fatalf("expected one message sent, got %d", len(relay.sent))
		}
		msg := relay.sent[0]
		if msg.From != "s@b.com" || len(msg.To) != 1 || msg.To[0] != "a@b.com" {
			t.Fatalf("unexpected message addressing: %+v", msg)
		}
		if msg.Subject != "Hi" || msg.TextBody != "Body" {
			t.Fatalf("subject and body should be trimmed: %+v", msg)
		}
		if msg.HTMLBody != "<p>Body</p>" {
			t.Fatalf("unexpected html body: %q", msg.HTMLBody)
		}
	})

	t.Run("ValidationFailureShortCircuitsRelay", func(t *testing.T) {
		relay := &fakeRelay{}
		uc := newTestUsecase(relay)

		err := uc.SendEmail(context.Background(), SendEmailInput{
			FromEmail: "s@b.com",
			Subject:   "Hi",
			PlainBody: "Body",
		})

		var gerr *goerror.Error
		if !errors.As(err, &gerr) {
			t.Fatalf("expected goerror.Error, got %v", err)
		}
		if gerr.StatusCode() != 422 {
			t.Fatalf("expected status 422, got %d", gerr.StatusCode())
		}
		if gerr.Fields()["to"] != "At least one recipient is required" {
			t.Fatalf("unexpected fields: %v", gerr.Fields())
		}
		if len(relay.sent) != 0 {
			t.Fatalf("relay must not be called on validation failure")
		}
	})

	t.Run("EveryViolationReported", func(t *testing.T) {
		relay := &fakeRelay{}
		uc := newTestUsecase(relay)

		err := uc.SendEmail(context.Background(), SendEmailInput{})

		var gerr *goerror.Error
		if !errors.As(err, &gerr) {
			t.Fatalf("expected goerror.Error, got %v", err)
		}
		if len(gerr.Fields()) != 4 {
			t.Fatalf("expected 4 field violations, got %v", gerr.Fields())
		}
	})

	t.Run("RelayFailureIsGenericServerError", func(t *testing.T) {
		cause := errors.New("connect to relay smtp.example.com:587: connection refused")
		relay := &fakeRelay{err: cause}
		uc := newTestUsecase(relay)

		err := uc.SendEmail(context.Background(), SendEmailInput{
			To:        []string{"a@b.com"},
			FromEmail: "s@b.com",
			Subject:   "Hi",
			PlainBody: "Body",
		})

		var gerr *goerror.Error
		if !errors.As(err, &gerr) {
			t.Fatalf("expected goerror.Error, got %v", err)
		}
		if gerr.StatusCode() != 500 {
			t.Fatalf("expected status 500, got %d", gerr.StatusCode())
		}
		if gerr.Msg() != "Internal server error" {
			t.Fatalf("caller-visible message must stay generic, got %q", gerr.Msg())
		}
		if !errors.Is(err, cause) {
			t.Fatalf("underlying cause must stay reachable for logging")
		}
	})
}
