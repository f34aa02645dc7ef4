package mail

import (
	"context"
	"io"
)

// Message represents an email payload handed to the relay.
//
// Fields are delivery-agnostic; the relay implementation decides how they are
// folded into the wire format.
type Message struct {
	// From is the sender address placed in the From header and envelope.
	From string
	// To lists the recipients; the transmission is all-recipients-or-failure.
	To []string
	// Subject is the email subject line.
	Subject string
	// TextBody is the required plain-text body part.
	TextBody string
	// HTMLBody is an optional HTML alternative attached alongside TextBody.
	HTMLBody string
}

// Mail abstracts the email relay.
type Mail interface {
	io.Closer
	// Send forwards the given message in a single transmission attempt.
	// A nil return means the relay accepted the message for every recipient
	// (or sending is bypassed); there are no retries and no partial sends.
	Send(ctx context.Context, msg Message) error
}
