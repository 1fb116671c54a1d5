package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/dkhrunov/propkeeper/internal/client/app"
	"github.com/dkhrunov/propkeeper/internal/client/config"
	"github.com/dkhrunov/propkeeper/internal/client/platform"
	"github.com/dkhrunov/propkeeper/internal/logging"

	_ "modernc.org/sqlite"
)

func main() {
	ctx := context.Background()

	cfg := config.LoadConfig()
	logger := logging.NewDefault(slog.LevelInfo)

	a, err := app.New(ctx, cfg, logger, platform.NewStubAuthorizer())
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer a.Close()

	if a.Sessions.Validate(ctx) {
		logger.Info(ctx, "stored session is valid")
	} else {
		logger.Info(ctx, "no valid session, sign-in required")
	}
}
