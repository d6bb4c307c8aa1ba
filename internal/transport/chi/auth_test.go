package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuthMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		path     string
		header   string
		wantCode int
	}{
		{"no keys disables auth", nil, "/search", "", http.StatusOK},
		{"blank keys disable auth", []string{"", ""}, "/search", "", http.StatusOK},
		{"missing header", []string{"secret"}, "/search", "", http.StatusUnauthorized},
		{"basic scheme", []string{"secret"}, "/search", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"empty token", []string{"secret"}, "/search", "Bearer ", http.StatusUnauthorized},
		{"wrong token", []string{"secret"}, "/search", "Bearer wrong-key", http.StatusUnauthorized},
		{"valid token", []string{"secret"}, "/search", "Bearer secret", http.StatusOK},
		{"scheme is case-insensitive", []string{"secret"}, "/categories", "bearer secret", http.StatusOK},
		{"second key", []string{"key1", "key2"}, "/search", "Bearer key2", http.StatusOK},
		{"health is public", []string{"secret"}, "/health", "", http.StatusOK},
		{"metrics is public", []string{"secret"}, "/metrics", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := BearerAuthMiddleware(tt.keys)(okHandler())

			req := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantCode {
				t.Fatalf("got %d, want %d", rr.Code, tt.wantCode)
			}
			if tt.wantCode != http.StatusUnauthorized {
				return
			}

			if rr.Header().Get("WWW-Authenticate") == "" {
				t.Error("expected WWW-Authenticate header")
			}
			var errResp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if errResp.Code != ErrorResponseCodeUnauthorized {
				t.Errorf("error code: got %s, want %s", errResp.Code, ErrorResponseCodeUnauthorized)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header    string
		wantToken string
		wantErr   bool
	}{
		{"Bearer abc", "abc", false},
		{"BEARER  abc ", "abc", false},
		{"", "", true},
		{"Bearer", "", true},
		{"Token abc", "", true},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		token, msg := bearerToken(req)
		if (msg != "") != tt.wantErr || token != tt.wantToken {
			t.Errorf("bearerToken(%q) = %q, %q", tt.header, token, msg)
		}
	}
}

func TestKeyAllowed(t *testing.T) {
	keys := [][]byte{[]byte("alpha"), []byte("beta")}
	tests := []struct {
		token string
		want  bool
	}{
		{"alpha", true},
		{"beta", true},
		{"alph", false},
		{"", false},
		{"alphabeta", false},
	}
	for _, tt := range tests {
		if got := keyAllowed(keys, []byte(tt.token)); got != tt.want {
			t.Errorf("keyAllowed(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}
