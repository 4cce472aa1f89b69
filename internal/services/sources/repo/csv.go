// Package repo holds the raw source loaders, files, Postgres and ClickHouse
package repo

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"

	"trendlens/internal/core/content"
	"trendlens/internal/core/trend"
	perr "trendlens/internal/platform/errors"
	"trendlens/internal/platform/logger"
	"trendlens/internal/services/sources/domain"
)

// CSV loads each source from a file, a blank path yields an empty source
type CSV struct {
	Paths map[trend.Source]string
	log   logger.Logger
}

// NewCSV builds a file loader
func NewCSV(paths map[trend.Source]string) *CSV {
	return &CSV{Paths: paths, log: *logger.Named("sources.csv")}
}

var _ domain.Loader = (*CSV)(nil)

// Backend implements domain.Loader
func (c *CSV) Backend() string { return "csv" }

// LoadSearch implements domain.Loader
func (c *CSV) LoadSearch(ctx context.Context) ([]trend.Record, error) {
	var out []trend.Record
	err := c.withFile(trend.SourceSearch, func(r io.Reader) error {
		recs, skipped, err := ReadSearch(ctx, r)
		c.logSkipped(trend.SourceSearch, skipped)
		out = recs
		return err
	})
	return out, err
}

// LoadPosts implements domain.Loader
func (c *CSV) LoadPosts(ctx context.Context, src trend.Source) ([]content.Post, error) {
	if src == trend.SourceSearch || !src.Valid() {
		return nil, perr.InvalidArgf("%q is not a content source", src)
	}
	var out []content.Post
	err := c.withFile(src, func(r io.Reader) error {
		posts, skipped, err := ReadPosts(ctx, string(src), r)
		c.logSkipped(src, skipped)
		out = posts
		return err
	})
	return out, err
}

func (c *CSV) withFile(src trend.Source, fn func(io.Reader) error) error {
	path := c.Paths[src]
	if path == "" {
		c.log.Warn().Str("source", string(src)).Msg("no file configured, source is empty")
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return perr.Wrapf(err, perr.ErrorCodeNotFound, "%s source file %s not found", src, path)
		}
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "open %s source file", src)
	}
	defer f.Close()
	return fn(f)
}

func (c *CSV) logSkipped(src trend.Source, n int) {
	if n > 0 {
		c.log.Warn().Str("source", string(src)).Int("skipped", n).Msg("rows without a usable date or value were skipped")
	}
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	return cr
}

// each reads the header, resolves cols and calls fn per data row
func each(ctx context.Context, source string, r io.Reader, cols []column, fn func(layout, []string)) error {
	cr := newReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return perr.Schemaf("%s source is empty, a header row is required", source)
	}
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeSchema, "%s source header", source)
	}
	l, err := resolve(source, header, cols)
	if err != nil {
		return err
	}
	for n := 0; ; n++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeSchema, "%s source row", source)
		}
		if n%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		fn(l, rec)
	}
}

// ReadSearch parses search rows, skipping rows whose date or value does not parse
func ReadSearch(ctx context.Context, r io.Reader) (recs []trend.Record, skipped int, err error) {
	err = each(ctx, string(trend.SourceSearch), r, SearchColumns, func(l layout, rec []string) {
		at, ok := ParseTime(l.get(rec, colDate.name))
		if !ok {
			skipped++
			return
		}
		v, verr := strconv.ParseFloat(l.get(rec, colValue.name), 64)
		if verr != nil {
			skipped++
			return
		}
		recs = append(recs, trend.Record{
			Source:   trend.SourceSearch,
			Theme:    l.get(rec, colTheme.name),
			SubTheme: l.get(rec, colSubTheme.name),
			Country:  l.get(rec, colCountry.name),
			At:       at,
			Value:    v,
		})
	})
	return recs, skipped, err
}

// ReadPosts parses content rows, skipping rows whose date does not parse
func ReadPosts(ctx context.Context, source string, r io.Reader) (posts []content.Post, skipped int, err error) {
	err = each(ctx, source, r, PostColumns, func(l layout, rec []string) {
		at, ok := ParseTime(l.get(rec, colDate.name))
		if !ok {
			skipped++
			return
		}
		posts = append(posts, content.Post{
			Username:  l.get(rec, colUsername.name),
			Theme:     l.get(rec, colTheme.name),
			SubTheme:  l.get(rec, colSubTheme.name),
			Country:   l.get(rec, colCountry.name),
			At:        at,
			Likes:     parseCount(l.get(rec, colLikes.name)),
			Views:     parseCount(l.get(rec, colViews.name)),
			Comments:  parseCount(l.get(rec, colComments.name)),
			Followers: parseCount(l.get(rec, colFollowers.name)),
		})
	})
	return posts, skipped, err
}
