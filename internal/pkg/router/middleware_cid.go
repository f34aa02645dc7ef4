package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/mailbite/internal/pkg/instrument"
	"github.com/shandysiswandi/mailbite/internal/pkg/uid"
)

const (
	// HeaderCorrelationID is the canonical header used to track a request end-to-end.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is an accepted alias some proxies send instead.
	HeaderRequestID = "X-Request-ID"

	// maxCorrelationIDLength bounds caller-supplied ids before they reach logs.
	maxCorrelationIDLength = 128
)

// middlewareCorrelationID ensures every request carries a correlation id. An
// id supplied by the caller is reused after sanitizing; otherwise a fresh one
// is generated. The id is echoed in the response and stored in the request
// context for the log pipeline.
func middlewareCorrelationID(gen uid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := sanitizeCorrelationID(r.Header.Get(HeaderCorrelationID))
			if cid == "" {
				cid = sanitizeCorrelationID(r.Header.Get(HeaderRequestID))
			}
			if cid == "" && gen != nil {
				cid = gen.Generate()
			}

			if cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				r = r.WithContext(instrument.SetCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// sanitizeCorrelationID rejects values that could split log lines or response
// headers and bounds the length.
func sanitizeCorrelationID(v string) string {
	if strings.ContainsAny(v, "\r\n") {
		return ""
	}

	v = strings.TrimSpace(v)
	if len(v) > maxCorrelationIDLength {
		v = v[:maxCorrelationIDLength]
	}
	return v
}
