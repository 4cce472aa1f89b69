package store

import (
	"context"
	"time"

	perr "trendlens/internal/platform/errors"
	chx "trendlens/internal/platform/store/ch"
	"trendlens/internal/platform/store/pg"
)

var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// openPG opens the pool, then pings with backoff before publishing the adapter
func openPG(ctx context.Context, cfg Config, s *Store) (RowQuerier, error) {
	tracers := append([]pg.QueryTracer(nil), s.observers...)
	if cfg.PG.LogSQL {
		tracers = append(tracers, pg.Tracer(s.Log))
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
		AppName:  cfg.AppName,
	}, pg.Multi(tracers...), nil)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "pg open")
	}

	attempts := max(cfg.PG.ConnectRetries, 1)
	timeout := cfg.PG.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	backoff := 150 * time.Millisecond
	var lastErr error
	for i := range attempts {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = p.Pool.Ping(pctx)
		cancel()
		if lastErr == nil {
			return newPGAdapter(p), nil
		}
		s.Log.Warn().Err(lastErr).Int("attempt", i+1).Msg("pg not ready")
		if i == attempts-1 {
			break
		}
		if err := sleep(ctx, backoff); err != nil {
			p.Close()
			return nil, err
		}
		backoff = min(backoff*2, 2*time.Second)
	}

	p.Close()
	return nil, perr.Wrapf(lastErr, perr.ErrorCodeUnavailable, "pg ping failed after %d attempts", attempts)
}

func openCH(ctx context.Context, cfg Config) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, App: cfg.AppName, Role: cfg.CH.Role})
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "ch open")
	}
	return newCHAdapter(c), nil
}
