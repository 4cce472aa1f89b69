package repokit

import (
	"context"
	"fmt"
	"time"

	"trendlens/internal/platform/store"
)

// Pinger is anything answering a liveness ping
type Pinger = store.Pinger

// Ping checks p within timeout, adding one when ctx has no deadline
func Ping(ctx context.Context, name string, p Pinger, timeout time.Duration) error {
	if p == nil {
		return fmt.Errorf("%s: nil dependency", name)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("%s ping failed: %w", name, err)
	}
	return nil
}

// MustGuard runs store.Guard and panics on any error, for startup
func MustGuard(ctx context.Context, st *store.Store) {
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
