package repo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"trendlens/internal/core/content"
	"trendlens/internal/core/trend"
	"trendlens/internal/modkit/repokit"
	perr "trendlens/internal/platform/errors"
	"trendlens/internal/platform/store"
	"trendlens/internal/platform/store/ch"
	"trendlens/internal/services/sources/domain"
)

// Tables names the raw tables, one per source
type Tables struct {
	Search   string
	Brand    string
	Consumer string
}

// DefaultTables are used for any blank table name
var DefaultTables = Tables{Search: "search_interest", Brand: "brand_posts", Consumer: "consumer_posts"}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func (t Tables) of(src trend.Source) string {
	switch src {
	case trend.SourceSearch:
		return t.Search
	case trend.SourceBrand:
		return t.Brand
	case trend.SourceConsumer:
		return t.Consumer
	}
	return ""
}

// Validate fills blanks from DefaultTables and rejects names that are not plain identifiers
func (t Tables) Validate() (Tables, error) {
	if t.Search == "" {
		t.Search = DefaultTables.Search
	}
	if t.Brand == "" {
		t.Brand = DefaultTables.Brand
	}
	if t.Consumer == "" {
		t.Consumer = DefaultTables.Consumer
	}
	for _, name := range []string{t.Search, t.Brand, t.Consumer} {
		if !identRe.MatchString(name) {
			return t, perr.InvalidArgf("table name %q is not a plain identifier", name)
		}
	}
	return t, nil
}

// dialect holds the backend specific select lists and error mapping
type dialect struct {
	name   string
	search string
	posts  string
	wrap   func(err error, format string, a ...any) error
}

var pgDialect = dialect{
	name: "pg",
	search: `SELECT date::timestamptz, coalesce(country, ''), coalesce(theme, ''),
		coalesce(keyword, ''), value::float8
	FROM %s
	WHERE date IS NOT NULL AND value IS NOT NULL
	ORDER BY 1`,
	posts: `SELECT post_upload_date::timestamptz, coalesce(country, ''), coalesce(matched_theme, ''),
		coalesce(matched_keyword, ''), coalesce(username, ''),
		coalesce(post_likes, 0)::bigint, coalesce(post_video_view_count, 0)::bigint,
		coalesce(post_comments, 0)::bigint, coalesce(followers, 0)::bigint
	FROM %s
	WHERE post_upload_date IS NOT NULL
	ORDER BY 1`,
	wrap: perr.FromPostgresf,
}

var chDialect = dialect{
	name: "ch",
	search: `SELECT toDateTime(assumeNotNull(date)), ifNull(toString(country), ''), ifNull(toString(theme), ''),
		ifNull(toString(keyword), ''), toFloat64(assumeNotNull(value))
	FROM %s
	WHERE date IS NOT NULL AND value IS NOT NULL
	ORDER BY 1`,
	posts: `SELECT toDateTime(assumeNotNull(post_upload_date)), ifNull(toString(country), ''),
		ifNull(toString(matched_theme), ''), ifNull(toString(matched_keyword), ''), ifNull(toString(username), ''),
		toInt64(ifNull(post_likes, 0)), toInt64(ifNull(post_video_view_count, 0)),
		toInt64(ifNull(post_comments, 0)), toInt64(ifNull(followers, 0))
	FROM %s
	WHERE post_upload_date IS NOT NULL
	ORDER BY 1`,
	wrap: ch.Wrapf,
}

// SQL loads raw rows through any store.Querier, Postgres or ClickHouse
type SQL struct {
	q      store.Querier
	tables Tables
	d      dialect
}

var _ domain.Loader = (*SQL)(nil)

// NewPG binds a Postgres loader
func NewPG(tables Tables) repokit.Binder[repokit.Queryer, *SQL] {
	return repokit.BindFunc[repokit.Queryer, *SQL](func(q repokit.Queryer) *SQL {
		return &SQL{q: q, tables: tables, d: pgDialect}
	})
}

// NewCH binds a ClickHouse loader
func NewCH(tables Tables) repokit.Binder[repokit.Columnar, *SQL] {
	return repokit.BindFunc[repokit.Columnar, *SQL](func(c repokit.Columnar) *SQL {
		return &SQL{q: c, tables: tables, d: chDialect}
	})
}

// Backend implements domain.Loader
func (s *SQL) Backend() string { return s.d.name }

// LoadSearch implements domain.Loader
func (s *SQL) LoadSearch(ctx context.Context) ([]trend.Record, error) {
	table := s.tables.of(trend.SourceSearch)
	recs, err := repokit.Many(ctx, s.q, scanSearch, fmt.Sprintf(s.d.search, table))
	if err != nil {
		return nil, s.wrap(err, "load search from %s", table)
	}
	return recs, nil
}

// LoadPosts implements domain.Loader
func (s *SQL) LoadPosts(ctx context.Context, src trend.Source) ([]content.Post, error) {
	if src == trend.SourceSearch || !src.Valid() {
		return nil, perr.InvalidArgf("%q is not a content source", src)
	}
	table := s.tables.of(src)
	posts, err := repokit.Many(ctx, s.q, scanPost, fmt.Sprintf(s.d.posts, table))
	if err != nil {
		return nil, s.wrap(err, "load %s from %s", src, table)
	}
	return posts, nil
}

func (s *SQL) wrap(err error, format string, a ...any) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return s.d.wrap(err, format, a...)
}

func scanSearch(r repokit.Row) (trend.Record, error) {
	var rec trend.Record
	var at time.Time
	if err := r.Scan(&at, &rec.Country, &rec.Theme, &rec.SubTheme, &rec.Value); err != nil {
		return rec, err
	}
	rec.Source = trend.SourceSearch
	rec.At = at.UTC()
	return rec, nil
}

func scanPost(r repokit.Row) (content.Post, error) {
	var p content.Post
	var at time.Time
	err := r.Scan(&at, &p.Country, &p.Theme, &p.SubTheme, &p.Username,
		&p.Likes, &p.Views, &p.Comments, &p.Followers)
	p.At = at.UTC()
	return p, err
}
