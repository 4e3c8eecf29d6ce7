// internal/app/features/errors/errors.go
package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/mosqueconnect/internal/app/store/storeerr"
	"github.com/dalemusser/mosqueconnect/internal/app/system/httpx"
	"github.com/dalemusser/mosqueconnect/internal/app/system/inputval"
	"github.com/dalemusser/mosqueconnect/internal/app/system/review"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Body is the JSON shape of every error response.
type Body struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// ErrorLogger writes JSON error responses and logs server-side failures.
// Handlers hold one and never write error bodies themselves.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

// Write sends {"error": msg} with status.
func Write(w http.ResponseWriter, status int, msg string) {
	httpx.WriteJSON(w, status, Body{Error: msg})
}

// BadRequest writes 400.
func (e *ErrorLogger) BadRequest(w http.ResponseWriter, msg string) {
	Write(w, http.StatusBadRequest, msg)
}

// Validation writes 400 with per-field details.
func (e *ErrorLogger) Validation(w http.ResponseWriter, res inputval.Result) {
	httpx.WriteJSON(w, http.StatusBadRequest, Body{Error: res.First(), Details: res.Fields})
}

// Field writes 400 for a single field-level failure.
func (e *ErrorLogger) Field(w http.ResponseWriter, field, msg string) {
	httpx.WriteJSON(w, http.StatusBadRequest, Body{Error: msg, Details: map[string]string{field: msg}})
}

// Unauthorized writes 401.
func (e *ErrorLogger) Unauthorized(w http.ResponseWriter) {
	Write(w, http.StatusUnauthorized, "authentication required")
}

// Forbidden writes 403.
func (e *ErrorLogger) Forbidden(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "you do not have permission to perform this action"
	}
	Write(w, http.StatusForbidden, msg)
}

// NotFound writes 404 for what ("mosque", "offer", ...).
func (e *ErrorLogger) NotFound(w http.ResponseWriter, what string) {
	Write(w, http.StatusNotFound, what+" not found")
}

// Conflict writes 409.
func (e *ErrorLogger) Conflict(w http.ResponseWriter, msg string) {
	Write(w, http.StatusConflict, msg)
}

// LogServerError logs err with request context and writes a generic 500.
// The error text never reaches the client.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	e.Log.Error(logMsg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	Write(w, http.StatusInternalServerError, "internal server error")
}

// Store maps an error returned by a store or the review workflow to a
// response. what names the record for 404s; op is the log message for
// anything that ends up a 500.
func (e *ErrorLogger) Store(w http.ResponseWriter, r *http.Request, what, op string, err error) {
	switch {
	case stderrors.Is(err, mongo.ErrNoDocuments):
		e.NotFound(w, what)
	case stderrors.Is(err, httpx.ErrBadID):
		e.BadRequest(w, "invalid "+what+" id")
	case stderrors.Is(err, review.ErrInvalidStatus):
		e.Field(w, "status", err.Error())
	case stderrors.Is(err, review.ErrInvalidTransition):
		e.Conflict(w, err.Error())
	case storeerr.IsConflict(err):
		e.Conflict(w, storeerr.Message(err))
	case storeerr.IsInvalid(err):
		e.BadRequest(w, storeerr.Message(err))
	default:
		e.LogServerError(w, r, op, err)
	}
}
