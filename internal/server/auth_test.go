package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireKey(t *testing.T) {
	tests := []struct {
		name       string
		required   bool
		header     string
		query      string
		wantStatus int
	}{
		{"no credential", true, "", "", http.StatusUnauthorized},
		{"valid header", true, "Bearer " + testAuthKey, "", http.StatusOK},
		{"wrong header", true, "Bearer nope", "", http.StatusUnauthorized},
		{"valid query", true, "", testAuthKey, http.StatusOK},
		{"wrong query", true, "", "nope", http.StatusUnauthorized},
		// Header takes precedence: a bad header is not rescued by a good query key.
		{"bad header good query", true, "Bearer nope", testAuthKey, http.StatusUnauthorized},
		{"malformed header scheme", true, "Basic " + testAuthKey, "", http.StatusUnauthorized},
		{"auth disabled", false, "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := AuthConfig{Required: tt.required, Key: testAuthKey}

			var ran bool
			h := a.requireKey(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ran = true
				w.WriteHeader(http.StatusOK)
			}))

			target := "/upload"
			if tt.query != "" {
				target += "?key=" + tt.query
			}
			req := httptest.NewRequest(http.MethodPost, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if (tt.wantStatus == http.StatusOK) != ran {
				t.Errorf("protected handler ran = %v, status %d", ran, rr.Code)
			}
		})
	}
}

func TestRequireKey_EmptyConfiguredKey(t *testing.T) {
	// An empty configured secret must not mean "empty key matches".
	a := AuthConfig{Required: true, Key: ""}
	h := a.requireKey(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/upload?key=", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestAuthCheck(t *testing.T) {
	s, _ := newTestServer(t, nil)

	tests := []struct {
		name        string
		body        any
		wantStatus  int
		wantSuccess bool
	}{
		{"valid key", map[string]string{"key": testAuthKey}, http.StatusOK, true},
		{"invalid key", map[string]string{"key": "nope"}, http.StatusUnauthorized, false},
		{"missing key", map[string]string{}, http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/auth/check", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rr := doRequest(t, s, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}

			var resp struct {
				Success bool `json:"success"`
			}
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Success != tt.wantSuccess {
				t.Errorf("success = %v, want %v", resp.Success, tt.wantSuccess)
			}
		})
	}
}

func TestAuthCheck_HeaderFallback(t *testing.T) {
	s, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/check", nil)
	req.Header.Set("Authorization", "Bearer "+testAuthKey)
	rr := doRequest(t, s, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestAuthCheck_MethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rr := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/auth/check", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rr.Code)
	}
}
