package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"viral_feed/internal/domain"
	"viral_feed/internal/service"
)

// oneShot is a command that prints a single result and exits instead of
// starting the scheduler.
type oneShot struct {
	simulate bool
	hydrate  string
}

func (c oneShot) requested() bool {
	return c.simulate || c.hydrate != ""
}

// startup restores persisted posts into the archive and then runs the
// one-shot command, if any, writing its result to w. Restore failures are
// logged and do not stop startup.
func startup(ctx context.Context, blog *service.BlogService, restoreLimit int, cmd oneShot,
	cfg domain.PipelineConfig, w io.Writer, logger *slog.Logger) error {
	if _, err := blog.Restore(ctx, restoreLimit); err != nil {
		logger.Warn("failed to restore posts", "error", err)
	}

	switch {
	case cmd.simulate:
		sim, err := blog.Simulate(ctx, cfg)
		if err != nil {
			return fmt.Errorf("simulation failed: %w", err)
		}
		return writeJSON(w, sim)
	case cmd.hydrate != "":
		result, err := blog.Hydrate(ctx, cmd.hydrate, cfg)
		if err != nil {
			return fmt.Errorf("hydration of %q failed: %w", cmd.hydrate, err)
		}
		return writeJSON(w, result)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
