package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/mailbite/internal/mailer/entity"
	"github.com/shandysiswandi/mailbite/internal/pkg/goerror"
	"github.com/shandysiswandi/mailbite/internal/pkg/mail"
)

type SendEmailInput struct {
	To        []string
	FromEmail string
	Subject   string
	PlainBody string
	HTMLBody  string
}

// SendEmail validates the input and forwards the message through the relay.
// Validation failures surface with per-field detail before any network
// activity; relay failures are logged with cause and surfaced generically.
func (s *Usecase) SendEmail(ctx context.Context, in SendEmailInput) error {
	ctx, span := s.startSpan(ctx, "SendEmail")
	defer span.End()

	req, err := entity.NewSendRequest(in.To, in.FromEmail, in.Subject, in.PlainBody, in.HTMLBody)
	if err != nil {
		var violations entity.FieldViolations
		if errors.As(err, &violations) {
			return goerror.NewInvalidInput(nil, violations.Pairs()...)
		}
		return goerror.NewInvalidInput(err)
	}

	msg := mail.Message{
		From:     req.From,
		To:       req.To,
		Subject:  req.Subject,
		TextBody: req.PlainBody,
		HTMLBody: req.HTMLBody,
	}
	if err := s.repoMail.Send(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "failed to send email", "from", req.From, "recipients", len(req.To), "error", err)
		return goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "email sent successfully", "from", req.From, "recipients", len(req.To))

	return nil
}
