package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsHostAllowed(t *testing.T) {
	tests := []struct {
		name         string
		host         string
		allowedHosts []string
		want         bool
	}{
		{name: "empty list allows all", host: "example.com", allowedHosts: nil, want: true},
		{name: "exact match", host: "example.com:8080", allowedHosts: []string{"example.com:8080"}, want: true},
		{name: "port ignored on request", host: "example.com:8080", allowedHosts: []string{"example.com"}, want: true},
		{name: "port ignored on allowed", host: "example.com", allowedHosts: []string{"example.com:8080"}, want: true},
		{name: "IPv6 with port", host: "[::1]:8080", allowedHosts: []string{"::1"}, want: true},
		{name: "IPv6 without port", host: "::1", allowedHosts: []string{"[::1]:8080"}, want: true},
		{name: "IPv6 zone", host: "[fe80::1%lo0]:8080", allowedHosts: []string{"fe80::1%lo0"}, want: true},
		{name: "case and whitespace", host: "  Example.COM:8080 ", allowedHosts: []string{" example.com "}, want: true},
		{name: "second in list", host: "api.example.com", allowedHosts: []string{"example.com", "api.example.com"}, want: true},
		{name: "no match", host: "evil.com", allowedHosts: []string{"example.com"}, want: false},
		{name: "subdomain mismatch", host: "sub.example.com", allowedHosts: []string{"example.com"}, want: false},
		{name: "different IPv6", host: "[::2]:8080", allowedHosts: []string{"[::1]:8080"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHostAllowed(tt.host, tt.allowedHosts); got != tt.want {
				t.Errorf("IsHostAllowed(%q, %v) = %v, want %v", tt.host, tt.allowedHosts, got, tt.want)
			}
		})
	}
}

func TestRequireHTTPS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireHTTPS([]string{"ledger.example.com"})(next)

	tests := []struct {
		name         string
		host         string
		setup        func(r *http.Request)
		wantStatus   int
		wantLocation string
	}{
		{
			name:         "plain HTTP redirects",
			host:         "ledger.example.com",
			wantStatus:   http.StatusMovedPermanently,
			wantLocation: "https://ledger.example.com/api/accounts/?x=1",
		},
		{
			name:       "unknown host refused",
			host:       "evil.com",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "TLS passes",
			host:       "ledger.example.com",
			setup:      func(r *http.Request) { r.TLS = &tls.ConnectionState{} },
			wantStatus: http.StatusOK,
		},
		{
			name:       "forwarded proto passes",
			host:       "ledger.example.com",
			setup:      func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "https") },
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/accounts/?x=1", nil)
			req.Host = tt.host
			if tt.setup != nil {
				tt.setup(req)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantLocation != "" && rr.Header().Get("Location") != tt.wantLocation {
				t.Errorf("Location = %q, want %q", rr.Header().Get("Location"), tt.wantLocation)
			}
		})
	}
}

func TestHSTS(t *testing.T) {
	handler := HSTS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Header().Get("Strict-Transport-Security") == "" {
		t.Error("Strict-Transport-Security header not set")
	}
}
