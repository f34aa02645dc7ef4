package mail

import (
	"errors"
	"strconv"
	"strings"
)

const defaultRelayPort = "587"

// RelaySettings carries the raw relay settings as read from the environment.
//
// All fields are strings so parsing and validation happen in exactly one
// place, NewRelayConfig.
type RelaySettings struct {
	// Host is the relay hostname (SMTP_HOST).
	Host string
	// Port is the relay port as text (SMTP_PORT); empty falls back to "587".
	Port string
	// Username is the relay authentication username (SMTP_USERNAME).
	Username string
	// Password is the relay authentication password (SMTP_PASSWORD).
	Password string
	// SkipSending enables bypass mode (SKIP_EMAIL_SENDING); only a
	// case-insensitive match of the literal "true" enables it.
	SkipSending string
}

// RelayConfig holds the validated relay settings, loaded once at startup and
// immutable for the process lifetime.
type RelayConfig struct {
	// Host is the relay hostname.
	Host string
	// Port is the relay port.
	Port int
	// Username is the relay authentication username.
	Username string
	// Password is the relay authentication password.
	Password string
	// SkipSending disables all network transmission when true.
	SkipSending bool
}

// NewRelayConfig parses and validates raw relay settings.
//
// A non-integer port is an error. When SkipSending is off, Host, Username and
// Password must all be non-blank; the error lists every missing variable so an
// operator can fix them in one pass. Bypass mode waives the credential
// requirement entirely, since no connection will ever be opened.
func NewRelayConfig(s RelaySettings) (RelayConfig, error) {
	portValue := s.Port
	if portValue == "" {
		portValue = defaultRelayPort
	}

	port, err := strconv.Atoi(portValue)
	if err != nil {
		return RelayConfig{}, errors.New("SMTP_PORT must be an integer, got " + strconv.Quote(s.Port))
	}

	skip := strings.EqualFold(s.SkipSending, "true")

	if !skip {
		var missing []string
		if strings.TrimSpace(s.Host) == "" {
			missing = append(missing, "SMTP_HOST")
		}
		if strings.TrimSpace(s.Username) == "" {
			missing = append(missing, "SMTP_USERNAME")
		}
		if strings.TrimSpace(s.Password) == "" {
			missing = append(missing, "SMTP_PASSWORD")
		}
		if len(missing) > 0 {
			return RelayConfig{}, errors.New("missing required SMTP configuration: " + strings.Join(missing, ", "))
		}
	}

	return RelayConfig{
		Host:        s.Host,
		Port:        port,
		Username:    s.Username,
		Password:    s.Password,
		SkipSending: skip,
	}, nil
}

// RelayHealth describes the configuration health of the relay.
type RelayHealth struct {
	// Status is "healthy" or "unhealthy".
	Status string
	// Message is a human-readable description of the state.
	Message string
	// Configured reports whether the relay is usable for real sending.
	Configured bool
	// Missing lists the missing or invalid variables when unhealthy.
	Missing []string
	// Host echoes the relay host when fully configured.
	Host string
	// Port echoes the relay port when fully configured.
	Port int
}

// Health reports the configuration health of the relay.
//
// Bypass mode is always healthy (nothing will be sent). Otherwise every
// missing or invalid setting is listed by its environment variable name; a
// port must be a positive integer to count as valid.
func (c RelayConfig) Health() RelayHealth {
	if c.SkipSending {
		return RelayHealth{
			Status:     "healthy",
			Message:    "Email sending is disabled (development mode)",
			Configured: false,
		}
	}

	var missing []string
	if strings.TrimSpace(c.Host) == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if strings.TrimSpace(c.Username) == "" {
		missing = append(missing, "SMTP_USERNAME")
	}
	if strings.TrimSpace(c.Password) == "" {
		missing = append(missing, "SMTP_PASSWORD")
	}
	if c.Port <= 0 {
		missing = append(missing, "SMTP_PORT")
	}

	if len(missing) > 0 {
		return RelayHealth{
			Status:     "unhealthy",
			Message:    "Missing or invalid SMTP configuration: " + strings.Join(missing, ", "),
			Configured: false,
			Missing:    missing,
		}
	}

	return RelayHealth{
		Status:     "healthy",
		Message:    "SMTP configuration is valid",
		Configured: true,
		Host:       c.Host,
		Port:       c.Port,
	}
}
