package usecase

import "context"

type SMTPHealthOutput struct {
	Status         string
	Message        string
	SMTPConfigured bool
	MissingConfig  []string
	SMTPHost       string
	SMTPPort       int
}

// SMTPHealth describes whether the relay configuration is complete enough to
// send email. It never fails; an incomplete configuration is reported in the
// output, not as an error.
func (s *Usecase) SMTPHealth(ctx context.Context) (*SMTPHealthOutput, error) {
	_, span := s.startSpan(ctx, "SMTPHealth")
	defer span.End()

	h := s.relay.Health()

	return &SMTPHealthOutput{
		Status:         h.Status,
		Message:        h.Message,
		SMTPConfigured: h.Configured,
		MissingConfig:  h.Missing,
		SMTPHost:       h.Host,
		SMTPPort:       h.Port,
	}, nil
}
