// Package repokit holds the shared types repositories are written against
package repokit

import (
	"context"

	"trendlens/internal/platform/store"
)

// Queryer is the SQL surface raw loaders read through
type Queryer = store.RowQuerier

// Columnar is the ClickHouse surface
type Columnar = store.Clickhouse

type (
	// Rows are the result set of a query
	Rows = store.Rows

	// Row is a single row result from a query
	Row = store.Row
)

// PG returns the store's SQL handle, nil when Postgres is disabled
func PG(st *store.Store) Queryer {
	if st == nil {
		return nil
	}
	return st.PG
}

// CH returns the store's ClickHouse handle, nil when disabled
func CH(st *store.Store) Columnar {
	if st == nil {
		return nil
	}
	return st.CH
}

// Many scans every row of a query into T
func Many[T any](ctx context.Context, q store.Querier, scan func(Row) (T, error), sql string, args ...any) ([]T, error) {
	return store.Many(ctx, q, scan, sql, args...)
}
