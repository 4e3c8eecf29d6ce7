// internal/app/features/errors/render.go
package errors

import "net/http"

// RenderUnauthorized writes the 401 body used by auth middleware.
func RenderUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="mosqueconnect"`)
	Write(w, http.StatusUnauthorized, "authentication required")
}

// RenderForbidden writes the 403 body used by role middleware.
func RenderForbidden(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "you do not have permission to perform this action"
	}
	Write(w, http.StatusForbidden, msg)
}

// NotFoundHandler is the router's 404 for unknown routes.
func NotFoundHandler(w http.ResponseWriter, _ *http.Request) {
	Write(w, http.StatusNotFound, "route not found")
}

// MethodNotAllowedHandler is the router's 405.
func MethodNotAllowedHandler(w http.ResponseWriter, _ *http.Request) {
	Write(w, http.StatusMethodNotAllowed, "method not allowed")
}
