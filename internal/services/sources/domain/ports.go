package domain

import (
	"context"

	"trendlens/internal/core/content"
	"trendlens/internal/core/trend"
)

// Loader reads raw rows from one backend
// a missing required column or table is an ErrorCodeSchema error
type Loader interface {
	Backend() string
	LoadSearch(ctx context.Context) ([]trend.Record, error)
	LoadPosts(ctx context.Context, src trend.Source) ([]content.Post, error)
}

// Port is what the analysis modules consume
type Port interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
	Status(ctx context.Context) ([]Status, error)
	Reload(ctx context.Context) ([]Status, error)
	Countries(ctx context.Context) ([]string, error)
}
