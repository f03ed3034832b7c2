package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"household/internal/shared/auth"
)

func TestAuth(t *testing.T) {
	jwt := auth.NewJWT("test-secret")
	validToken, err := jwt.Generate(42, "kim@example.com")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	otherToken, _ := auth.NewJWT("other-secret").Generate(42, "kim@example.com")

	tests := []struct {
		name           string
		setupRequest   func(r *http.Request)
		expectedStatus int
	}{
		{
			name: "bearer header",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+validToken)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "lowercase scheme",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "bearer "+validToken)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "cookie",
			setupRequest: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "access_token", Value: validToken})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "no token",
			setupRequest:   func(r *http.Request) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "basic scheme",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "wrong secret",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+otherToken)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "bad header wins over good cookie",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer invalid")
				r.AddCookie(&http.Cookie{Name: "access_token", Value: validToken})
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				userID, ok := UserIDFromContext(r.Context())
				if !ok || userID != 42 {
					t.Errorf("UserIDFromContext() = %d, %v; want 42, true", userID, ok)
				}
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setupRequest(req)
			rr := httptest.NewRecorder()

			Auth(jwt)(next).ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.expectedStatus)
			}
			if called != (tt.expectedStatus == http.StatusOK) {
				t.Errorf("next called = %v", called)
			}
		})
	}
}
