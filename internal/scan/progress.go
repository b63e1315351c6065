package scan

import (
	"context"
	"fmt"
	"time"
)

// logger provides conditional debug output.
type logger struct {
	enabled bool
}

// printf prints debug output if logging is enabled.
func (l logger) printf(format string, args ...any) {
	if l.enabled {
		//nolint:forbidigo // Debug output to console
		fmt.Printf(format, args...)
	}
}

// startProgressReporter invokes the progress hook on each tick until ctx is
// done. Counters are read from the walker's atomics, so the hook never
// contends with the traversal itself.
func startProgressReporter(ctx context.Context, w *walker) {
	hook := w.opts.Progress
	if hook == nil {
		return
	}

	interval := w.opts.ProgressInterval
	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(w.entries.Load(), w.bytes.Load())
			case <-ctx.Done():
				return
			}
		}
	}()
}
