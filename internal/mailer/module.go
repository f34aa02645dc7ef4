package mailer

import (
	"github.com/shandysiswandi/mailbite/internal/mailer/inbound"
	"github.com/shandysiswandi/mailbite/internal/mailer/outbound/relay"
	"github.com/shandysiswandi/mailbite/internal/mailer/usecase"
	"github.com/shandysiswandi/mailbite/internal/pkg/instrument"
	"github.com/shandysiswandi/mailbite/internal/pkg/mail"
	"github.com/shandysiswandi/mailbite/internal/pkg/router"
)

type Dependency struct {
	Relay      mail.RelayConfig
	Mail       mail.Mail
	Instrument instrument.Instrumentation
	Router     *router.Router
}

func New(dep Dependency) error {
	repoMail := relay.New(dep.Mail, dep.Instrument)

	uc := usecase.NewMailer(usecase.Dependency{
		Relay:      dep.Relay,
		RepoMail:   repoMail,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
