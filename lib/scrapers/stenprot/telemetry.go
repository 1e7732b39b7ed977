package stenprot

import (
	"snemovna-backend/lib/restyutil"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("lib/scrapers/stenprot")

// SetRestyInstrumentOutput dumps the raw HTTP traffic of this client
// into the given output, one file per exchange.
func (c *Client) SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyutil.InstrumentClient(c.Http, tracer, out)
}
