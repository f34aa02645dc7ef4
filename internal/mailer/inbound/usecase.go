package inbound

import (
	"context"

	"github.com/shandysiswandi/mailbite/internal/mailer/usecase"
)

type uc interface {
	SendEmail(ctx context.Context, in usecase.SendEmailInput) error
	SMTPHealth(ctx context.Context) (*usecase.SMTPHealthOutput, error)
}
