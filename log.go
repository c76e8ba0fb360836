package hexes

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger is the package-level diagnostic sink. It defaults to
// discarding everything. New copies it into the Terminal it builds
// (WithLogger overrides that copy), so SetLogger affects Terminals
// created after the call. The only event logged is a capability-load
// failure in New; probe timeouts and decode anomalies are not logged.
// The library never calls a Fatal level and never exits the process on
// its own.
var Logger zerolog.Logger = zerolog.New(io.Discard)

// SetLogger replaces the package-level logger.
func SetLogger(l zerolog.Logger) {
	Logger = l
}
