package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		ctype   string
		wantErr string
	}{
		{"valid", `{"name":"Al-Noor","count":3}`, "application/json", ""},
		{"no content type", `{"name":"x"}`, "", ""},
		{"empty", ``, "application/json", "request body is empty"},
		{"syntax", `{"name":`, "application/json", "malformed JSON"},
		{"wrong type", `{"count":"three"}`, "application/json", `field "count" has the wrong type`},
		{"unknown field", `{"nope":1}`, "application/json", `unknown field "nope"`},
		{"two objects", `{"name":"a"}{"name":"b"}`, "application/json", "single JSON object"},
		{"form body", `name=x`, "application/x-www-form-urlencoded", "content type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			if tt.ctype != "" {
				req.Header.Set("Content-Type", tt.ctype)
			}
			var p payload
			err := DecodeJSON(httptest.NewRecorder(), req, &p)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"status": "pending"})
	if rec.Code != http.StatusCreated {
		t.Errorf("code = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content type = %q", ct)
	}
	var out map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil || out["status"] != "pending" {
		t.Errorf("body = %q (%v)", rec.Body.String(), err)
	}
}

func TestParseID(t *testing.T) {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "507f1f77bcf86cd799439011")
	req := httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	id, err := ParseID(req, "id")
	if err != nil || id.Hex() != "507f1f77bcf86cd799439011" {
		t.Fatalf("ParseID() = %v, %v", id, err)
	}
	if _, err := ParseID(req, "missing"); err != ErrBadID {
		t.Errorf("missing param error = %v, want ErrBadID", err)
	}
}

func TestParseOptionalHex(t *testing.T) {
	if id, err := ParseOptionalHex(""); id != nil || err != nil {
		t.Errorf("empty = %v, %v", id, err)
	}
	if _, err := ParseOptionalHex("zzz"); err != ErrBadID {
		t.Errorf("bad = %v", err)
	}
}

func TestClientIP(t *testing.T) {
	tests := map[string]string{
		"192.0.2.1:1234":   "192.0.2.1",
		"[2001:db8::1]:80": "2001:db8::1",
		"192.0.2.9":        "192.0.2.9",
	}
	for in, want := range tests {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = in
		if got := ClientIP(req); got != want {
			t.Errorf("ClientIP(%q) = %q, want %q", in, got, want)
		}
	}
}
