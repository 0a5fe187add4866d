package main

import (
	"context"
	"fmt"

	"github.com/entrhq/agentbrowser/pkg/executor/headless"
)

// runHeadless executes a browsing script against the shell.
func runHeadless(ctx context.Context, config *Config, a *app) error {
	script, err := headless.LoadScript(config.Script)
	if err != nil {
		return err
	}

	executor, err := headless.NewExecutor(a.shell, script, a.logger.With("headless"))
	if err != nil {
		return fmt.Errorf("failed to create headless executor: %w", err)
	}

	if err := executor.Run(ctx); err != nil {
		return fmt.Errorf("script failed: %w", err)
	}
	return nil
}
