package middleware

import (
	"context"
	"net"
	"net/http"
)

type peerAddrKey struct{}

// WithPeerAddr remembers the connection address. It must run before chi's
// RealIP, which replaces RemoteAddr with whatever X-Real-IP or
// X-Forwarded-For the client sent.
func WithPeerAddr(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), peerAddrKey{}, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// peerIP is the address of the connection, never a forwarding header.
func peerIP(r *http.Request) net.IP {
	addr, ok := r.Context().Value(peerAddrKey{}).(string)
	if !ok {
		addr = r.RemoteAddr
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	return net.ParseIP(host)
}

// WithSubnet only lets through connections from inside the CIDR. Forwarding
// headers are ignored, so behind a reverse proxy the subnet has to cover the
// proxy. An empty subnet disables the check; a malformed one denies everybody.
func WithSubnet(subnet string) func(next http.Handler) http.Handler {
	var network *net.IPNet
	if subnet != "" {
		_, network, _ = net.ParseCIDR(subnet)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if subnet == "" {
				next.ServeHTTP(w, r)
				return
			}

			ip := peerIP(r)
			if network == nil || ip == nil || !network.Contains(ip) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
