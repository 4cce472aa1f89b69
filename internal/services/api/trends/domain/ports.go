package domain

import "context"

// Port is the trend analysis surface other modules may consume
type Port interface {
	Trajectory(ctx context.Context, in TrajectoryInput) (Trajectory, error)
	Series(ctx context.Context, in SeriesInput) (Series, error)
	Countries(ctx context.Context) (Countries, error)
}
