// Package clientip resolves the real client IP of a proxied request.
//
// The header precedence below is a trust policy, not a technical guarantee:
// any client can forge forwarding headers, so the order encodes which
// upstream proxies the deployment trusts (CDN first, then reverse proxies,
// then generic forwarding). Behind an untrusted edge, strip these headers
// at the proxy instead of changing the order here.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// proxyHeaders in trust order: CDN, reverse proxy, generic forwarding.
var proxyHeaders = []string{
	"CF-Connecting-IP",
	"True-Client-IP",
	"X-Real-IP",
	"X-Forwarded-For",
}

// FromRequest resolves the client IP of r. The result is always a valid
// IPv4 or IPv6 literal; it falls back to the loopback address when nothing
// else can be determined.
func FromRequest(r *http.Request) string {
	return FromHeaders(r.Header, r.RemoteAddr)
}

// FromHeaders inspects the proxy headers in trust order, then the
// transport-level peer address. Comma-separated lists yield their first
// entry. Candidates that are not valid IP literals are skipped.
func FromHeaders(h http.Header, remoteAddr string) string {
	for _, name := range proxyHeaders {
		v := h.Get(name)
		if v == "" {
			continue
		}
		if i := strings.IndexByte(v, ','); i >= 0 {
			v = v[:i]
		}
		if ip := net.ParseIP(strings.TrimSpace(v)); ip != nil {
			return ip.String()
		}
	}

	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		if ip := net.ParseIP(host); ip != nil {
			return ip.String()
		}
	}
	if ip := net.ParseIP(strings.TrimSpace(remoteAddr)); ip != nil {
		return ip.String()
	}

	return "127.0.0.1"
}
