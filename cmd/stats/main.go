package main

import (
	"snemovna-backend/cmd/stats/commands"
	"snemovna-backend/lib/serviceutil"
	"snemovna-backend/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "stats")
	telemetry.InitSlog(false)
	commands.ExecuteContext(ctx)
}
