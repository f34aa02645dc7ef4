package usecase

import (
	"context"

	"github.com/shandysiswandi/mailbite/internal/pkg/instrument"
	"github.com/shandysiswandi/mailbite/internal/pkg/mail"
	"go.opentelemetry.io/otel/trace"
)

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) error
}

type Usecase struct {
	relay    mail.RelayConfig
	repoMail repoMail
	ins      instrument.Instrumentation
}

type Dependency struct {
	Relay      mail.RelayConfig
	RepoMail   repoMail
	Instrument instrument.Instrumentation
}

func NewMailer(dep Dependency) *Usecase {
	return &Usecase{
		relay:    dep.Relay,
		repoMail: dep.RepoMail,
		ins:      dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("mailer.usecase").Start(ctx, name)
}
