package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/mosqueconnect/internal/app/store/storeerr"
	"github.com/dalemusser/mosqueconnect/internal/app/system/inputval"
	"github.com/dalemusser/mosqueconnect/internal/app/system/review"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Body {
	t.Helper()
	var b Body
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return b
}

func TestStore_Mapping(t *testing.T) {
	el := NewErrorLogger(zap.NewNop())
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"not found", mongo.ErrNoDocuments, http.StatusNotFound, "mosque not found"},
		{"wrapped not found", fmt.Errorf("load: %w", mongo.ErrNoDocuments), http.StatusNotFound, "mosque not found"},
		{"bad transition", review.Standard.Check("approved", "pending"), http.StatusConflict, "invalid status transition"},
		{"bad status", review.Standard.Check("pending", "bogus"), http.StatusBadRequest, "invalid status"},
		{"conflict", storeerr.NewConflict("offer usage limit reached"), http.StatusConflict, "offer usage limit reached"},
		{"invalid", storeerr.NewInvalid("business not found"), http.StatusBadRequest, "business not found"},
		{"server", fmt.Errorf("socket closed at 10.0.0.3"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("PATCH", "/api/admin/mosques/x", nil)
			el.Store(rec, req, "mosque", "review mosque", tt.err)
			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			if b := decode(t, rec); !strings.Contains(b.Error, tt.wantMsg) {
				t.Errorf("error = %q, want containing %q", b.Error, tt.wantMsg)
			}
		})
	}
}

func TestLogServerError_DoesNotLeak(t *testing.T) {
	el := NewErrorLogger(nil)
	rec := httptest.NewRecorder()
	el.LogServerError(rec, httptest.NewRequest("GET", "/", nil), "boom", fmt.Errorf("mongodb://user:secret@db"))
	if strings.Contains(rec.Body.String(), "secret") {
		t.Fatalf("server error leaked: %s", rec.Body.String())
	}
}

func TestValidation_Details(t *testing.T) {
	type in struct {
		Name string `json:"name" validate:"required" label:"Name"`
	}
	rec := httptest.NewRecorder()
	NewErrorLogger(nil).Validation(rec, inputval.Validate(in{}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", rec.Code)
	}
	b := decode(t, rec)
	if b.Details["name"] != "Name is required." {
		t.Errorf("details = %v", b.Details)
	}
}

func TestRenderUnauthorized(t *testing.T) {
	rec := httptest.NewRecorder()
	RenderUnauthorized(rec)
	if rec.Code != http.StatusUnauthorized || rec.Header().Get("WWW-Authenticate") == "" {
		t.Errorf("code = %d, header = %q", rec.Code, rec.Header().Get("WWW-Authenticate"))
	}
}
