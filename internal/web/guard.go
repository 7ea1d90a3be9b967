package web

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

// guard rejects requests that a page from another site could forge. The
// Host must be the listen address or a loopback name, which defeats DNS
// rebinding. State-changing methods must also come from the page itself.
func (s *Server) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := s.log.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"host":   r.Host,
		})
		if !hostAllowed(r.Host, s.listenAddr) {
			log.Warn("Rejected request for foreign host")
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		if mutating(r.Method) && !sameOrigin(r) {
			log.WithField("origin", r.Header.Get("Origin")).Warn("Rejected cross-origin request")
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func mutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

// hostAllowed accepts the configured listen address and any loopback host.
func hostAllowed(host, listenAddr string) bool {
	if host == "" {
		return false
	}
	if listenAddr != "" && strings.EqualFold(host, listenAddr) {
		return true
	}
	name := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		name = h
	}
	name = strings.Trim(name, "[]")
	if strings.EqualFold(name, "localhost") {
		return true
	}
	ip := net.ParseIP(name)
	return ip != nil && ip.IsLoopback()
}

// sameOrigin checks the fetch metadata and Origin headers browsers attach.
// Clients that send neither, such as curl, are let through.
func sameOrigin(r *http.Request) bool {
	switch r.Header.Get("Sec-Fetch-Site") {
	case "cross-site", "same-site":
		return false
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		// Includes the opaque "null" origin of sandboxed frames.
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
