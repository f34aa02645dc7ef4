package router

import (
	"net"
	"net/http"
	"strings"
)

// proxyIPHeaders are checked in order for the original client address when
// the service runs behind a proxy or load balancer.
var proxyIPHeaders = [...]string{"True-Client-IP", "X-Real-IP"}

// middlewareIP rewrites RemoteAddr to the best-guess client IP so downstream
// logging sees the caller instead of the proxy.
func middlewareIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ip := clientIP(r); ip != "" {
			r.RemoteAddr = ip
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	var candidate string
	for _, h := range proxyIPHeaders {
		if candidate = r.Header.Get(h); candidate != "" {
			break
		}
	}
	if candidate == "" {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			candidate, _, _ = strings.Cut(xff, ",")
		}
	}

	candidate = strings.TrimSpace(candidate)
	if net.ParseIP(candidate) != nil {
		return candidate
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && net.ParseIP(host) != nil {
		return host
	}
	return ""
}
