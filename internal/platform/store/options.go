package store

import (
	"trendlens/internal/platform/logger"
	"trendlens/internal/platform/store/pg"
)

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger used by subclients
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithQueryObserver adds a tracer that sees every pg query, metrics hook in here
func WithQueryObserver(t pg.QueryTracer) Option {
	return func(s *Store) error {
		if t != nil {
			s.observers = append(s.observers, t)
		}
		return nil
	}
}
