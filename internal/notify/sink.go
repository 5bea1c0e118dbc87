// Package notify delivers composed bulletins to the configured chat
// channels. Delivery failure is logged, never retried across runs, and
// never disturbs already-computed state.
package notify

import (
	"context"

	"github.com/wkchen/steelwatch/internal/logger"
)

// Sink accepts one fully composed message per run.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, message string) error
}

// DeliverAll hands the message to every sink and reports whether at least
// one accepted it. Per-sink failures are logged and isolated.
func DeliverAll(ctx context.Context, sinks []Sink, message string) bool {
	delivered := false
	for _, sink := range sinks {
		if err := sink.Deliver(ctx, message); err != nil {
			logger.Warn("Delivery via %s failed: %v", sink.Name(), err)
			continue
		}
		logger.Info("Delivered bulletin via %s", sink.Name())
		delivered = true
	}
	return delivered
}
