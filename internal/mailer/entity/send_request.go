package entity

import "strings"

// Field names as they appear in the send-email request payload. Violations
// reference these names so callers can match them back to their input.
const (
	FieldTo        = "to"
	FieldFromEmail = "from_email"
	FieldSubject   = "subject"
	FieldPlainBody = "plain_body"
)

// FieldViolation describes one broken rule on a named request field.
type FieldViolation struct {
	Field   string
	Message string
}

// FieldViolations collects every broken rule found in a single validation
// pass, ordered by field. It implements error so a failed construction can
// travel through regular error returns.
type FieldViolations []FieldViolation

// Error implements the error interface.
func (v FieldViolations) Error() string {
	parts := make([]string, 0, len(v))
	for _, fv := range v {
		parts = append(parts, fv.Field+": "+fv.Message)
	}
	return strings.Join(parts, "; ")
}

// Pairs flattens the violations into alternating field and message values.
func (v FieldViolations) Pairs() []string {
	pairs := make([]string, 0, len(v)*2)
	for _, fv := range v {
		pairs = append(pairs, fv.Field, fv.Message)
	}
	return pairs
}

// SendRequest is a validated order to forward one email. Values built by
// NewSendRequest satisfy every field rule; no other construction path is
// allowed to reach the relay.
type SendRequest struct {
	To        []string
	From      string
	Subject   string
	PlainBody string
	HTMLBody  string
}

// NewSendRequest validates the raw field values and returns a SendRequest
// holding the normalized result. Subject and plain body are stored with
// surrounding whitespace removed. On failure it returns FieldViolations
// listing every broken rule, one entry per field, in payload field order.
func NewSendRequest(to []string, from, subject, plainBody, htmlBody string) (*SendRequest, error) {
	var violations FieldViolations

	if len(to) == 0 {
		violations = append(violations, FieldViolation{
			Field:   FieldTo,
			Message: "At least one recipient is required",
		})
	} else {
		for _, addr := range to {
			if !ValidAddress(addr) {
				violations = append(violations, FieldViolation{
					Field:   FieldTo,
					Message: "Invalid email address: " + addr,
				})
				break
			}
		}
	}

	if from == "" {
		violations = append(violations, FieldViolation{
			Field:   FieldFromEmail,
			Message: "Sender email address is required",
		})
	} else if !ValidAddress(from) {
		violations = append(violations, FieldViolation{
			Field:   FieldFromEmail,
			Message: "Invalid email address: " + from,
		})
	}

	trimmedSubject := strings.TrimSpace(subject)
	if trimmedSubject == "" {
		violations = append(violations, FieldViolation{
			Field:   FieldSubject,
			Message: "Subject cannot be empty",
		})
	}

	trimmedBody := strings.TrimSpace(plainBody)
	if trimmedBody == "" {
		violations = append(violations, FieldViolation{
			Field:   FieldPlainBody,
			Message: "Plain body cannot be empty",
		})
	}

	if len(violations) > 0 {
		return nil, violations
	}

	return &SendRequest{
		To:        to,
		From:      from,
		Subject:   trimmedSubject,
		PlainBody: trimmedBody,
		HTMLBody:  htmlBody,
	}, nil
}

// ValidAddress reports whether addr has the shape local@domain with a dotted
// domain. This is address-shape validation only, not full RFC 5322 parsing
// and no DNS verification.
func ValidAddress(addr string) bool {
	if addr == "" || strings.ContainsAny(addr, " \t\r\n") {
		return false
	}

	local, domain, found := strings.Cut(addr, "@")
	if !found || local == "" || domain == "" {
		return false
	}
	if strings.Contains(domain, "@") {
		return false
	}

	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
