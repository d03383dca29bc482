package sqlite

import (
	"log/slog"

	"github.com/sqlweave-labs/sqlweave/pkg/adapter"

	// SQLite schemas analyze under the ANSI dialect.
	_ "github.com/sqlweave-labs/sqlweave/pkg/dialects/ansi"
)

func init() {
	adapter.Register("sqlite", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
