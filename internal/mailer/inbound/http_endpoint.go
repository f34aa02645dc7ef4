package inbound

import (
	"github.com/shandysiswandi/mailbite/internal/mailer/usecase"
	"github.com/shandysiswandi/mailbite/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// SendEmail forwards an email through the configured SMTP relay.
// @Summary Send email
// @Description Validates the payload and forwards the email through the configured SMTP relay.
// @Tags Mailer
// @Accept json
// @Produce json
// @Param request body SendEmailRequest true "Email payload"
// @Success 200 {object} SendEmailResponse "Email sent"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /send-email [post]
func (h *HTTPEndpoint) SendEmail(r *router.Request) (any, error) {
	var req SendEmailRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.SendEmail(r.Context(), usecase.SendEmailInput{
		To:        req.To,
		FromEmail: req.FromEmail,
		Subject:   req.Subject,
		PlainBody: req.PlainBody,
		HTMLBody:  req.HTMLBody,
	}); err != nil {
		return nil, err
	}

	return SendEmailResponse{
		Message: "Email sent successfully",
		Status:  "success",
	}, nil
}

// Health reports process liveness.
// @Summary Health check
// @Description Reports process liveness, independent of relay configuration.
// @Tags Mailer
// @Produce json
// @Success 200 {object} HealthResponse "Service is alive"
// @Router /health [get]
func (h *HTTPEndpoint) Health(r *router.Request) (any, error) {
	return HealthResponse{Status: "healthy"}, nil
}

// SMTPHealth reports whether the relay configuration is complete.
// @Summary SMTP configuration health
// @Description Reports whether the SMTP relay configuration is complete enough to send email.
// @Tags Mailer
// @Produce json
// @Success 200 {object} SMTPHealthResponse "Configuration health"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /health/smtp [get]
func (h *HTTPEndpoint) SMTPHealth(r *router.Request) (any, error) {
	out, err := h.uc.SMTPHealth(r.Context())
	if err != nil {
		return nil, err
	}

	return SMTPHealthResponse{
		Status:         out.Status,
		Message:        out.Message,
		SMTPConfigured: out.SMTPConfigured,
		MissingConfig:  out.MissingConfig,
		SMTPHost:       out.SMTPHost,
		SMTPPort:       out.SMTPPort,
	}, nil
}
