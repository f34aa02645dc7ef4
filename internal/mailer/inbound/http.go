package inbound

import (
	"github.com/shandysiswandi/mailbite/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/send-email", end.SendEmail)

	r.GET("/health", end.Health)
	r.GET("/health/smtp", end.SMTPHealth)
}
