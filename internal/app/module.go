package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/mailbite/internal/mailer"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.mailer.enabled") {
		if err := mailer.New(mailer.Dependency{
			Relay:      a.relayCfg,
			Mail:       a.mail,
			Instrument: a.ins,
			Router:     a.router,
		}); err != nil {
			slog.Error("failed to init module mailer", "error", err)
			os.Exit(1)
		}
	}
}
