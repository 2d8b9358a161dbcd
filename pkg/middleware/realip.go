package middleware

import (
	"net"
	"net/http"
	"strings"
)

// RealIP rewrites r.RemoteAddr from X-Forwarded-For when the server sits
// behind trustedHops reverse proxies. Each trusted proxy appends the address
// it received the request from, so the client is the entry trustedHops from
// the right; anything further left was written by the client and is ignored.
// With trustedHops <= 0 the header is never read.
func RealIP(trustedHops int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if trustedHops <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ip := forwardedFor(r.Header.Values("X-Forwarded-For"), trustedHops); ip != "" {
				r.RemoteAddr = net.JoinHostPort(ip, "0")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// forwardedFor picks the client address from the X-Forwarded-For chain, or
// "" when the chosen entry is not an IP.
func forwardedFor(headers []string, trustedHops int) string {
	var hops []string
	for _, h := range headers {
		for _, part := range strings.Split(h, ",") {
			if part = strings.TrimSpace(part); part != "" {
				hops = append(hops, part)
			}
		}
	}
	if len(hops) == 0 {
		return ""
	}

	i := len(hops) - trustedHops
	if i < 0 {
		i = 0
	}
	ip := net.ParseIP(hops[i])
	if ip == nil {
		return ""
	}
	return ip.String()
}
