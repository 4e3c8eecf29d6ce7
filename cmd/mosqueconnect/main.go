// cmd/mosqueconnect/main.go
//
// mosqueconnect serves the MosqueConnect JSON API. Configuration comes from
// MOSQUECONNECT_* environment variables, a config file or flags; see
// internal/app/bootstrap/config.go for the keys.
package main

import (
	"context"
	"log"

	"github.com/dalemusser/mosqueconnect/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
