package main

import (
	"snemovna-backend/cmd/crawler/commands"
	"snemovna-backend/lib/serviceutil"
	"snemovna-backend/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "crawler")
	telemetry.InitSlog(true)
	telemetry.InstrumentPerfStats(ctx)
	commands.ExecuteContext(ctx)
}
