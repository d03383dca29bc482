package duckdb

import (
	"log/slog"

	"github.com/sqlweave-labs/sqlweave/pkg/adapter"

	// An adapter is no use without its dialect; one import links both.
	_ "github.com/sqlweave-labs/sqlweave/pkg/dialects/duckdb"
)

func init() {
	adapter.Register("duckdb", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
