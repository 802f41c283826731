package main

import (
	"context"
	"fmt"
	"os"

	"dns-analytics/internal/app"
	"dns-analytics/internal/shared/configs"
	"dns-analytics/internal/shared/svcerrors"
)

func main() {
	// Load configuration; an explicit path may be passed as the sole argument
	configPath := "./configs/configs.yml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg, err := configs.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(svcerrors.ExitInvalidArgument)
	}

	// Initialize application
	application, err := app.NewPreprocess(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(svcerrors.ExitInternal)
	}

	if svcErr := application.Run(context.Background()); svcErr != nil {
		fmt.Fprintf(os.Stderr, "Preprocessing failed: %v\n", svcErr)
		os.Exit(svcErr.ExitCode)
	}
}
