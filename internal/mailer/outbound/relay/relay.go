package relay

import (
	"context"

	"github.com/shandysiswandi/mailbite/internal/pkg/instrument"
	"github.com/shandysiswandi/mailbite/internal/pkg/mail"
	"go.opentelemetry.io/otel/codes"
)

// Relay sends messages through the mail client and traces each attempt.
type Relay struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

func New(client mail.Mail, ins instrument.Instrumentation) *Relay {
	return &Relay{client: client, ins: ins}
}

func (m *Relay) Send(ctx context.Context, msg mail.Message) error {
	ctx, span := m.ins.Tracer("mailer.outbound.relay").Start(ctx, "Send")
	defer span.End()

	if err := m.client.Send(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
