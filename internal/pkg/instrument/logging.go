package instrument

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// initLogging installs the process-wide slog pipeline: JSON records on stdout,
// secret masking, correlation id tagging, and an OTLP log fanout when a logger
// provider is supplied.
func initLogging(serviceName string, lp *sdklog.LoggerProvider, maskFields []string) {
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       slog.LevelInfo,
		AddSource:   true,
		ReplaceAttr: renameCoreAttrs,
	})

	if lp != nil {
		handler = &fanoutHandler{handlers: []slog.Handler{
			handler,
			otelslog.NewHandler(serviceName, otelslog.WithLoggerProvider(lp)),
		}}
	}

	slog.SetDefault(slog.New(&correlationHandler{
		Handler:     &maskHandler{handler: handler, keys: newRedactSet(maskFields)},
		serviceName: serviceName,
	}))
}

// renameCoreAttrs maps slog's default keys onto the field names the log
// aggregation expects and shortens source paths to repo-relative form.
func renameCoreAttrs(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "ts"
	case slog.LevelKey:
		a.Key = "severity"
	case slog.SourceKey:
		src, ok := a.Value.Any().(*slog.Source)
		if !ok {
			return a
		}
		if idx := strings.LastIndex(src.File, "/internal/"); idx >= 0 {
			return slog.String("file", src.File[idx+1:]+":"+strconv.Itoa(src.Line))
		}
		return slog.Attr{}
	}
	return a
}

// correlationHandler stamps every record with the service name and, when the
// context carries one, the request correlation id.
type correlationHandler struct {
	slog.Handler
	serviceName string
}

func (h *correlationHandler) Handle(ctx context.Context, r slog.Record) error {
	if cid := GetCorrelationID(ctx); cid != "" {
		r.AddAttrs(slog.String("cid", cid))
	}
	r.AddAttrs(slog.String("service", h.serviceName))

	return h.Handler.Handle(ctx, r)
}

// fanoutHandler delivers each record to every nested handler.
type fanoutHandler struct {
	handlers []slog.Handler
}

func (f *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: next}
}

func (f *fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithGroup(name)
	}
	return &fanoutHandler{handlers: next}
}

// redactSet holds lower-cased attribute names whose values are replaced with
// "***" before a record is written.
type redactSet map[string]struct{}

func newRedactSet(fields []string) redactSet {
	set := make(redactSet)
	for _, field := range fields {
		field = strings.ToLower(strings.TrimSpace(field))
		if field != "" {
			set[field] = struct{}{}
		}
	}
	return set
}

func (s redactSet) matches(key string) bool {
	_, found := s[strings.ToLower(key)]
	return found
}

// attr applies masking to a single attribute, descending into groups, JSON
// text, and generic container values.
func (s redactSet) attr(a slog.Attr) slog.Attr {
	if s.matches(a.Key) {
		return slog.String(a.Key, "***")
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		masked := make([]slog.Attr, len(group))
		for i, ga := range group {
			masked[i] = s.attr(ga)
		}
		a.Value = slog.GroupValue(masked...)
	case slog.KindString:
		if text, ok := s.jsonText([]byte(a.Value.String())); ok {
			a.Value = slog.StringValue(text)
		}
	case slog.KindAny:
		a.Value = s.anyValue(a.Value)
	}

	return a
}

func (s redactSet) anyValue(v slog.Value) slog.Value {
	switch val := v.Any().(type) {
	case map[string]any:
		return slog.AnyValue(s.walk(val))
	case map[string]string:
		out := make(map[string]any, len(val))
		for k, nested := range val {
			out[k] = nested
		}
		return slog.AnyValue(s.walk(out))
	case []any:
		return slog.AnyValue(s.walk(val))
	case []byte:
		if text, ok := s.jsonText(val); ok {
			return slog.StringValue(text)
		}
	}
	return v
}

// jsonText re-renders a JSON document with masked fields. Non-JSON text is
// left untouched.
func (s redactSet) jsonText(payload []byte) (string, bool) {
	if len(payload) == 0 || (payload[0] != '{' && payload[0] != '[') {
		return "", false
	}

	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return "", false
	}

	out, err := json.Marshal(s.walk(doc))
	if err != nil {
		return "", false
	}
	return string(out), true
}

func (s redactSet) walk(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, nested := range val {
			if s.matches(k) {
				out[k] = "***"
				continue
			}
			out[k] = s.walk(nested)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, nested := range val {
			out[i] = s.walk(nested)
		}
		return out
	default:
		return v
	}
}

// maskHandler rebuilds records with redacted attribute values.
type maskHandler struct {
	handler slog.Handler
	keys    redactSet
}

func (h *maskHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *maskHandler) Handle(ctx context.Context, record slog.Record) error {
	if len(h.keys) == 0 {
		return h.handler.Handle(ctx, record)
	}

	masked := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.keys.attr(a))
		return true
	})

	return h.handler.Handle(ctx, masked)
}

func (h *maskHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &maskHandler{handler: h.handler.WithAttrs(attrs), keys: h.keys}
}

func (h *maskHandler) WithGroup(name string) slog.Handler {
	return &maskHandler{handler: h.handler.WithGroup(name), keys: h.keys}
}
