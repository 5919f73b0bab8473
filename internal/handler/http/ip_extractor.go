package http

import (
	"log/slog"
	"net"
	"net/http"
	"net/netip"

	"page-hits/internal/observability/logging"
)

// IPExtractor resolves the client address a request is attributed to.
type IPExtractor interface {
	ExtractIP(r *http.Request) string
}

// NewIPExtractor returns a RemoteAddrExtractor when no proxies are trusted,
// and a TrustedProxyExtractor otherwise.
func NewIPExtractor(trusted []netip.Prefix) IPExtractor {
	if len(trusted) == 0 {
		return RemoteAddrExtractor{}
	}
	return NewTrustedProxyExtractor(trusted)
}

// RemoteAddrExtractor uses the TCP peer address and ignores forwarding headers.
// It cannot be spoofed by the client.
type RemoteAddrExtractor struct{}

// ExtractIP returns the host part of r.RemoteAddr.
func (RemoteAddrExtractor) ExtractIP(r *http.Request) string {
	return hostFromAddr(r.RemoteAddr)
}

// TrustedProxyExtractor honours X-Forwarded-For and X-Real-IP only when the
// TCP peer is one of the trusted proxies. Requests from any other peer are
// attributed to the peer itself, so rotating the headers gains nothing.
//
// Header priority for trusted peers:
//  1. X-Forwarded-For (first IP in the list)
//  2. X-Real-IP
//  3. RemoteAddr
type TrustedProxyExtractor struct {
	trusted []netip.Prefix
}

// NewTrustedProxyExtractor creates an extractor trusting the given prefixes.
func NewTrustedProxyExtractor(trusted []netip.Prefix) *TrustedProxyExtractor {
	return &TrustedProxyExtractor{trusted: trusted}
}

// IsTrusted reports whether remoteAddr ("IP:port" or "IP") is a trusted proxy.
func (e *TrustedProxyExtractor) IsTrusted(remoteAddr string) bool {
	addr, err := netip.ParseAddr(hostFromAddr(remoteAddr))
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range e.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// ExtractIP implements IPExtractor.
func (e *TrustedProxyExtractor) ExtractIP(r *http.Request) string {
	if !e.IsTrusted(r.RemoteAddr) {
		xff, xri := r.Header.Get("X-Forwarded-For"), r.Header.Get("X-Real-IP")
		if xff != "" || xri != "" {
			logging.FromContext(r.Context()).Warn("untrusted peer sent forwarding headers",
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("x_forwarded_for", xff),
				slog.String("x_real_ip", xri))
		}
		return hostFromAddr(r.RemoteAddr)
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := parseFirstIP(xff); ip != "" {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(xri); ip != nil {
			return ip.String()
		}
	}

	return hostFromAddr(r.RemoteAddr)
}

// hostFromAddr strips the port from a "host:port" address. Addresses
// without a port are returned as is.
//
//   - "192.168.1.1:8080"   → "192.168.1.1"
//   - "[2001:db8::1]:8080" → "2001:db8::1"
//   - "127.0.0.1"          → "127.0.0.1"
func hostFromAddr(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// parseFirstIP parses the first IP address from a comma-separated list.
func parseFirstIP(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			ip := net.ParseIP(s[:i])
			if ip != nil {
				return ip.String()
			}
			return ""
		}
	}
	// カンマがない場合は全体をパース
	if ip := net.ParseIP(s); ip != nil {
		return ip.String()
	}
	return ""
}
