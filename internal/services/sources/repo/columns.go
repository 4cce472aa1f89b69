package repo

import (
	"strconv"
	"strings"
	"time"

	perr "trendlens/internal/platform/errors"
)

// column is one logical field and the header names it may appear under
type column struct {
	name     string
	aliases  []string
	required bool
}

var (
	colDate      = column{name: "date", aliases: []string{"date", "post_upload_date"}, required: true}
	colCountry   = column{name: "country", aliases: []string{"country"}, required: true}
	colTheme     = column{name: "theme", aliases: []string{"theme", "matched_theme"}, required: true}
	colSubTheme  = column{name: "keyword", aliases: []string{"keyword", "matched_keyword", "sub_theme"}, required: true}
	colValue     = column{name: "value", aliases: []string{"value"}, required: true}
	colUsername  = column{name: "username", aliases: []string{"username"}}
	colLikes     = column{name: "post_likes", aliases: []string{"post_likes", "likes"}}
	colViews     = column{name: "post_video_view_count", aliases: []string{"post_video_view_count", "views"}}
	colComments  = column{name: "post_comments", aliases: []string{"post_comments", "comments"}}
	colFollowers = column{name: "followers", aliases: []string{"followers"}}
)

// SearchColumns are read from the search source
var SearchColumns = []column{colDate, colCountry, colTheme, colSubTheme, colValue}

// PostColumns are read from the brand and consumer sources
var PostColumns = []column{colDate, colCountry, colTheme, colSubTheme, colUsername, colLikes, colViews, colComments, colFollowers}

// layout maps a logical column to its index, -1 when an optional one is absent
type layout map[string]int

// resolve matches a header against cols, failing on the first missing required column
func resolve(source string, header []string, cols []column) (layout, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	out := make(layout, len(cols))
	for _, c := range cols {
		out[c.name] = -1
		for _, a := range c.aliases {
			if i, ok := idx[a]; ok {
				out[c.name] = i
				break
			}
		}
		if out[c.name] < 0 && c.required {
			return nil, perr.WithField(
				perr.Schemaf("%s source is missing required column %q", source, c.name),
				c.name,
			)
		}
	}
	return out, nil
}

func (l layout) get(rec []string, name string) string {
	i, ok := l[name]
	if !ok || i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05.999999999",
	"01/02/2006",
}

// ParseTime accepts the date shapes seen in exported datasets, always in UTC
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseCount reads an engagement figure, blanks and junk count as zero
func parseCount(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return int64(f)
	}
	return 0
}
