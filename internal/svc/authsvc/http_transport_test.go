package authsvc_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/spillhus/gamesvc/internal/svc/authsvc"
)

type authResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

func postForm(t *testing.T, handler http.HandlerFunc, path string, form url.Values) (*httptest.ResponseRecorder, authResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return record(t, handler, req)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) (*httptest.ResponseRecorder, authResponse) {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", "application/json")

	return record(t, handler, req)
}

func record(t *testing.T, handler http.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, authResponse) {
	t.Helper()

	rec := httptest.NewRecorder()
	handler(rec, req)

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}

	return rec, resp
}

func setupTestTransport() *authsvc.HTTPTransport {
	svc, _ := setupTestService()

	return authsvc.NewHTTPTransport(svc)
}

func TestHTTPTransport_HandleRegister(t *testing.T) {
	t.Parallel()

	ht := setupTestTransport()

	valid := url.Values{
		"username":         {"alice"},
		"email":            {"alice@example.com"},
		"password":         {"secret"},
		"confirm-password": {"secret"},
	}

	rec, resp := postForm(t, ht.HandleRegister, "/register", valid)
	if rec.Code != http.StatusOK {
		t.Errorf("register status = %d, want 200", rec.Code)
	}
	if !resp.Success {
		t.Errorf("register success = false, message = %q", resp.Message)
	}
	if !strings.Contains(resp.Message, "alice") {
		t.Errorf("register message = %q, want username mentioned", resp.Message)
	}

	tests := []struct {
		name        string
		form        url.Values
		wantMessage string
	}{
		{
			name: "missing email",
			form: url.Values{
				"username":         {"bob"},
				"password":         {"secret"},
				"confirm-password": {"secret"},
			},
			wantMessage: "All fields are required.",
		},
		{
			name: "missing password",
			form: url.Values{
				"username": {"bob"},
				"email":    {"bob@example.com"},
			},
			wantMessage: "All fields are required.",
		},
		{
			name: "password mismatch",
			form: url.Values{
				"username":         {"bob"},
				"email":            {"bob@example.com"},
				"password":         {"secret"},
				"confirm-password": {"other"},
			},
			wantMessage: "Passwords do not match.",
		},
		{
			name:        "duplicate username",
			form:        valid,
			wantMessage: "Username already taken.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := postForm(t, ht.HandleRegister, "/register", tt.form)

			// Failures still answer 200; the flag carries the outcome.
			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", rec.Code)
			}
			if resp.Success {
				t.Error("success = true, want false")
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMessage)
			}
		})
	}
}

func TestHTTPTransport_HandleRegister_JSON(t *testing.T) {
	t.Parallel()

	ht := setupTestTransport()

	rec, resp := postJSON(t, ht.HandleRegister, "/register", map[string]string{
		"username":         "carol",
		"email":            "carol@example.com",
		"password":         "secret",
		"confirm-password": "secret",
	})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !resp.Success {
		t.Errorf("success = false, message = %q", resp.Message)
	}
}

func TestHTTPTransport_HandleLogin(t *testing.T) {
	t.Parallel()

	svc, _ := setupTestService()
	ht := authsvc.NewHTTPTransport(svc)

	if err := svc.Register(context.Background(), "alice", "secret", "secret"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	rec, resp := postJSON(t, ht.HandleLogin, "/login", map[string]string{
		"username": "alice",
		"password": "secret",
	})
	if rec.Code != http.StatusOK {
		t.Errorf("login status = %d, want 200", rec.Code)
	}
	if !resp.Success {
		t.Fatalf("login success = false, message = %q", resp.Message)
	}
	if resp.UserID <= 0 || resp.Username != "alice" {
		t.Errorf("login identity = %d/%q, want positive id and alice", resp.UserID, resp.Username)
	}

	// Wrong password and unknown user must produce identical responses.
	_, wrongPass := postJSON(t, ht.HandleLogin, "/login", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	_, noUser := postJSON(t, ht.HandleLogin, "/login", map[string]string{
		"username": "nobody",
		"password": "wrong",
	})

	if wrongPass.Success || noUser.Success {
		t.Error("failed logins reported success")
	}
	if wrongPass.Message != noUser.Message {
		t.Errorf("failure messages differ: %q vs %q", wrongPass.Message, noUser.Message)
	}
	if wrongPass.Message != "Invalid username or password" {
		t.Errorf("failure message = %q, want generic credentials message", wrongPass.Message)
	}
}
