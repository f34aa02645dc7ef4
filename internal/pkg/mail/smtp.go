package mail

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNoRecipients is returned when Message.To is empty.
	ErrNoRecipients = errors.New("no recipients provided")
	// ErrNoSender is returned when Message.From is empty.
	ErrNoSender = errors.New("no sender provided")
)

const (
	// dialTimeout bounds the TCP connect to the relay.
	dialTimeout = 10 * time.Second
	// sessionTimeout bounds the whole SMTP session, handshake through QUIT.
	sessionTimeout = 30 * time.Second
)

// SMTP is a Mail implementation that talks to the relay over net/smtp.
//
// Every Send opens its own connection, upgrades it with STARTTLS,
// authenticates, transmits, and closes; nothing is shared between calls
// beyond the read-only configuration.
type SMTP struct {
	cfg  RelayConfig
	auth smtp.Auth
}

// NewSMTP constructs an SMTP relay sender from a validated configuration.
func NewSMTP(cfg RelayConfig) *SMTP {
	return &SMTP{
		cfg:  cfg,
		auth: smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host),
	}
}

// Send forwards a message to the relay.
//
// Bypass mode returns before any network resource is touched. Otherwise the
// session runs connect, STARTTLS, AUTH, MAIL/RCPT/DATA, QUIT in order; a
// failure at any stage is returned with the stage named, and the connection
// is released on every exit path.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if s.cfg.SkipSending {
		slog.InfoContext(ctx, "email sending skipped (development mode)")
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	if msg.From == "" {
		return ErrNoSender
	}

	raw := composeMessage(msg)

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect to relay %s: %w", addr, err)
	}

	if err := conn.SetDeadline(time.Now().Add(sessionTimeout)); err != nil {
		conn.Close()
		return fmt.Errorf("set session deadline: %w", err)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
		return fmt.Errorf("starttls: %w", err)
	}
	if err := c.Auth(s.auth); err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	if err := c.Mail(msg.From); err != nil {
		return fmt.Errorf("mail from %s: %w", msg.From, err)
	}
	for _, rcpt := range msg.To {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt to %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write([]byte(raw)); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish message: %w", err)
	}

	return c.Quit()
}

// Close implements io.Closer for interface compatibility.
func (s *SMTP) Close() error {
	return nil
}

// composeMessage folds a Message into a multipart/alternative wire message.
// The plain-text part is always present; the HTML part sits alongside it when
// set, so mail clients can choose which to render.
func composeMessage(msg Message) string {
	boundary := multipartBoundary()

	var headers []string
	headers = append(headers, fmt.Sprintf("From: %s", msg.From))
	headers = append(headers, fmt.Sprintf("To: %s", strings.Join(msg.To, ", ")))
	headers = append(headers, fmt.Sprintf("Subject: %s", msg.Subject))
	headers = append(headers, "MIME-Version: 1.0")
	headers = append(headers, fmt.Sprintf("Content-Type: multipart/alternative; boundary=%s", boundary))

	var sb strings.Builder
	sb.WriteString("This is a multipart message in MIME format.\r\n")
	fmt.Fprintf(&sb, "--%s\r\n", boundary)
	sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(msg.TextBody)
	sb.WriteString("\r\n")
	if msg.HTMLBody != "" {
		fmt.Fprintf(&sb, "--%s\r\n", boundary)
		sb.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		sb.WriteString("\r\n")
		sb.WriteString(msg.HTMLBody)
		sb.WriteString("\r\n")
	}
	fmt.Fprintf(&sb, "--%s--", boundary)

	return strings.Join(headers, "\r\n") + "\r\n\r\n" + sb.String()
}

func multipartBoundary() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "mailbite-boundary-fallback"
	}
	return "mailbite-boundary-" + hex.EncodeToString(b[:])
}
