package postgres

import (
	"log/slog"

	"github.com/sqlweave-labs/sqlweave/pkg/adapter"

	// Linking the adapter links the matching dialect too.
	_ "github.com/sqlweave-labs/sqlweave/pkg/dialects/postgres"
)

func init() {
	adapter.Register("postgres", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
