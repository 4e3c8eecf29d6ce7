// internal/app/bootstrap/hooks.go
package bootstrap

import (
	"github.com/dalemusser/waffle/app"
)

// Hooks hands MosqueConnect's lifecycle to WAFFLE, which calls them in
// order: config, validation, connect, schema, startup, handler, and
// shutdown on signal.
var Hooks = app.Hooks[AppConfig, DBDeps]{
	Name:           "mosqueconnect",
	LoadConfig:     LoadConfig,
	ValidateConfig: ValidateConfig,
	ConnectDB:      ConnectDB,
	EnsureSchema:   EnsureSchema,
	Startup:        Startup,
	BuildHandler:   BuildHandler,
	Shutdown:       Shutdown,
}
