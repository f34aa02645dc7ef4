package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/mailbite/internal/pkg/config"
	"github.com/shandysiswandi/mailbite/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// bodyPreviewLimit caps how much of a request or response body is retained
// for the access log.
const bodyPreviewLimit = 32 * 1024

// maskSet holds lower-cased field and header names whose values must never
// reach the logs.
type maskSet map[string]struct{}

func newMaskSet(cfg config.Config) maskSet {
	set := make(maskSet)
	if cfg == nil {
		return set
	}

	for _, name := range cfg.GetArray("instrument.log_mask_fields") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}

func (m maskSet) contains(name string) bool {
	_, found := m[strings.ToLower(name)]
	return found
}

func (m maskSet) headers(h http.Header) http.Header {
	if len(m) == 0 {
		return h
	}

	out := h.Clone()
	for name := range out {
		if m.contains(name) {
			out.Set(name, "***")
		}
	}
	return out
}

func (m maskSet) value(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, nested := range val {
			if m.contains(k) {
				out[k] = "***"
				continue
			}
			out[k] = m.value(nested)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, nested := range val {
			out[i] = m.value(nested)
		}
		return out
	default:
		return v
	}
}

// body renders a captured payload for logging. JSON and form payloads are
// decoded so masked fields stay masked; anything else is logged as text when
// printable, with a hard size cap.
func (m maskSet) body(contentType string, raw []byte) any {
	if len(raw) == 0 {
		return nil
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err == nil {
		return m.value(decoded)
	}

	if strings.HasPrefix(strings.ToLower(contentType), "application/x-www-form-urlencoded") {
		if values, err := url.ParseQuery(string(raw)); err == nil {
			out := make(map[string]any, len(values))
			for k, v := range values {
				switch {
				case m.contains(k):
					out[k] = "***"
				case len(v) == 1:
					out[k] = v[0]
				default:
					out[k] = v
				}
			}
			return out
		}
	}

	if !utf8.Valid(raw) {
		return "<binary body omitted>"
	}
	if len(raw) > bodyPreviewLimit {
		return string(raw[:bodyPreviewLimit]) + "...(truncated)"
	}
	return string(raw)
}

// accessRecorder captures the status code, response size, a bounded body
// preview, and the handler error for the access log and span.
type accessRecorder struct {
	http.ResponseWriter
	code       int
	written    int
	preview    bytes.Buffer
	truncated  bool
	handlerErr error
}

func (a *accessRecorder) WriteHeader(code int) {
	a.code = code
	a.ResponseWriter.WriteHeader(code)
}

func (a *accessRecorder) Write(p []byte) (int, error) {
	if a.code == 0 {
		a.code = http.StatusOK
	}

	if room := bodyPreviewLimit - a.preview.Len(); room >= len(p) {
		a.preview.Write(p)
	} else {
		if room > 0 {
			a.preview.Write(p[:room])
		}
		a.truncated = true
	}

	n, err := a.ResponseWriter.Write(p)
	a.written += n
	return n, err
}

// SetError records the handler error so the span can reflect it.
func (a *accessRecorder) SetError(err error) {
	a.handlerErr = err
}

func (a *accessRecorder) Flush() {
	if f, ok := a.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (a *accessRecorder) status() int {
	if a.code == 0 {
		return http.StatusOK
	}
	return a.code
}

func (a *accessRecorder) loggedBody(masks maskSet) any {
	body := masks.body(a.Header().Get("Content-Type"), a.preview.Bytes())
	if a.truncated {
		return map[string]any{"body": body, "truncated": true}
	}
	return body
}

// routePattern returns the registered route pattern for the request, falling
// back to the raw path for unmatched requests.
func routePattern(r *http.Request) string {
	if pattern := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath(); pattern != "" {
		return pattern
	}
	return r.URL.Path
}

// snapshotBody reads up to the preview limit from the request body and stitches
// the consumed bytes back so handlers still see the full payload.
func snapshotBody(r *http.Request) []byte {
	if r.Body == nil {
		return nil
	}

	//nolint:errcheck // best effort for logging only
	head, _ := io.ReadAll(io.LimitReader(r.Body, bodyPreviewLimit+1))
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(head), r.Body))

	if len(head) > bodyPreviewLimit {
		return head[:bodyPreviewLimit]
	}
	return head
}

func middlewareObservability(cfg config.Config, ins instrument.Instrumentation) Middleware {
	masks := newMaskSet(cfg)
	tracer := ins.Tracer("http.server")
	meter := ins.Meter("http.server")

	requestCounter, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Number of HTTP requests received"))
	if err != nil {
		slog.Error("failed to create http request counter", "error", err)
	}

	durationHistogram, err := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request duration in milliseconds"))
	if err != nil {
		slog.Error("failed to create http duration histogram", "error", err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := routePattern(r)
			start := time.Now()

			ctx, span := tracer.Start(
				r.Context(),
				r.Method+" "+route,
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.HTTPRouteKey.String(route),
				),
			)
			defer span.End()

			slog.InfoContext(
				ctx,
				"request received",
				"method", r.Method,
				"route", route,
				"uri", r.RequestURI,
				"client_ip", r.RemoteAddr,
				"headers", masks.headers(r.Header),
				"body", masks.body(r.Header.Get("Content-Type"), snapshotBody(r)),
			)

			rec := &accessRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r.WithContext(ctx))

			status := rec.status()
			metricAttrs := []attribute.KeyValue{
				semconv.HTTPRequestMethodKey.String(r.Method),
				semconv.HTTPRouteKey.String(route),
				semconv.HTTPResponseStatusCodeKey.Int(status),
			}

			spanAttrs := append([]attribute.KeyValue{
				semconv.NetworkProtocolVersionKey.String(r.Proto),
				semconv.ServerAddressKey.String(r.Host),
				attribute.String("http.target", r.URL.Path),
				attribute.String("http.user_agent", r.UserAgent()),
				attribute.Int("http.response_content_length", rec.written),
			}, metricAttrs...)
			span.SetAttributes(spanAttrs...)

			if rec.handlerErr != nil {
				span.RecordError(rec.handlerErr)
			}
			switch {
			case status >= http.StatusInternalServerError && rec.handlerErr != nil:
				span.SetStatus(codes.Error, rec.handlerErr.Error())
			case status >= http.StatusInternalServerError:
				span.SetStatus(codes.Error, http.StatusText(status))
			default:
				span.SetStatus(codes.Ok, "")
			}

			if requestCounter != nil {
				requestCounter.Add(ctx, 1, metric.WithAttributes(metricAttrs...))
			}
			if durationHistogram != nil {
				durationHistogram.Record(ctx, float64(time.Since(start).Milliseconds()), metric.WithAttributes(metricAttrs...))
			}

			slog.InfoContext(
				ctx,
				"response sent",
				"method", r.Method,
				"route", route,
				"status", status,
				"bytes", rec.written,
				"latency_ms", time.Since(start).Milliseconds(),
				"body", rec.loggedBody(masks),
			)
		})
	}
}
