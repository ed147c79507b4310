package http

import (
	"github.com/nats-io/nats.go"

	"ghgdeck/internal/adapters/valkey"
	"ghgdeck/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Dashboard *usecases.DashboardService
	Viewport  *usecases.ViewportService
	Tooltips  *usecases.TooltipService
	NATS      *nats.Conn
	Cache     *valkey.Cache
}
