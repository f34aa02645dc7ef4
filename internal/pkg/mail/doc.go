// Package mail defines the contracts for forwarding email through a relay.
//
// The main purpose is to keep the rest of the application independent from the
// delivery mechanism. Handlers and use cases work with the Mail interface, the
// Message payload, and the immutable RelayConfig loaded once at startup; the
// concrete SMTP session handling lives in this package and nowhere else.
package mail
