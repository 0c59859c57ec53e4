package server

import (
	"context"
	"net"
	"net/http"
	"net/url"

	"github.com/fliptech/ftab/internal/env"
	"github.com/fliptech/ftab/internal/site"
)

type visitorKey struct{}

// visitor binds a site.Client to the request: cookie-backed storage, the
// page hostname and the sink of the resolved domain.
func (s *Server) visitor(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := pageHostname(r)
		cfg := s.core.Resolver.Resolve(host)

		client := s.core.NewClient(env.Environment{
			Storage:  NewCookieStorage(w, r),
			Hostname: env.StaticHostname(host),
			Sink:     s.sinkFor(cfg),
		})

		ctx := context.WithValue(r.Context(), visitorKey{}, client)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func visitorFrom(ctx context.Context) *site.Client {
	c, _ := ctx.Value(visitorKey{}).(*site.Client)
	return c
}

// cors lets pages on other origins call the API with credentials. The
// requesting origin is echoed since a wildcard cannot carry cookies.
// Preflight requests are answered here and never reach the visitor.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// pageHostname is the location.hostname of the page the visitor is on.
// /ft.js passes it as ?host=; otherwise the Origin header is used, and
// same-origin requests fall back to the Host header.
func pageHostname(r *http.Request) string {
	if host := r.URL.Query().Get("host"); host != "" {
		return stripPort(host)
	}
	if origin := r.Header.Get("Origin"); origin != "" && origin != "null" {
		if u, err := url.Parse(origin); err == nil && u.Hostname() != "" {
			return u.Hostname()
		}
	}
	return stripPort(r.Host)
}

func stripPort(hostport string) string {
	host, _, err := net.SplitHostPort(hostport)
	if err != nil {
		return hostport
	}
	return host
}
