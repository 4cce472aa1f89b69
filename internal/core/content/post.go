// Package content computes the brand and consumer post analytics: headline
// KPIs, rankings, daily series and growth leaders
package content

import (
	"strings"
	"time"
)

// Post is one content row
type Post struct {
	Username  string
	Theme     string
	SubTheme  string
	Country   string
	At        time.Time
	Likes     int64
	Views     int64
	Comments  int64
	Followers int64
}

// Engagement is likes plus views plus comments
func (p Post) Engagement() int64 { return p.Likes + p.Views + p.Comments }

// EstimatedReach weighs audience size and engagement
func (p Post) EstimatedReach() float64 {
	return 0.1*float64(p.Followers) + 0.05*float64(p.Engagement())
}

// Dimension is the grouping column for rankings
type Dimension string

const (
	// Theme groups on the theme column
	Theme Dimension = "theme"
	// SubTheme groups on the matched keyword column
	SubTheme Dimension = "sub_theme"
	// Account groups on the username
	Account Dimension = "account"
)

// Of returns the trimmed grouping value of p, "" when missing
func (d Dimension) Of(p Post) string {
	switch d {
	case SubTheme:
		return strings.TrimSpace(p.SubTheme)
	case Account:
		return strings.TrimSpace(p.Username)
	default:
		return strings.TrimSpace(p.Theme)
	}
}

// Filter narrows posts; empty sets match everything and the date range is
// inclusive by calendar day
type Filter struct {
	Accounts  []string
	Themes    []string
	SubThemes []string
	// Countries holds canonical names, compared through Canon when set
	Countries []string
	Canon     func(string) string
	From      time.Time
	To        time.Time
}

// Apply returns the matching posts in input order
func (f Filter) Apply(posts []Post) []Post {
	accounts := setOf(f.Accounts)
	themes := setOf(f.Themes)
	subs := setOf(f.SubThemes)
	countries := setOf(f.Countries)
	canon := f.Canon
	if canon == nil {
		canon = strings.TrimSpace
	}
	var to time.Time
	if !f.To.IsZero() {
		to = dayOf(f.To).AddDate(0, 0, 1)
	}
	from := time.Time{}
	if !f.From.IsZero() {
		from = dayOf(f.From)
	}

	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if !accounts.has(p.Username) || !themes.has(p.Theme) || !subs.has(p.SubTheme) {
			continue
		}
		if countries != nil && !countries.has(canon(p.Country)) {
			continue
		}
		if !from.IsZero() && p.At.Before(from) {
			continue
		}
		if !to.IsZero() && !p.At.Before(to) {
			continue
		}
		out = append(out, p)
	}
	return out
}

type stringSet map[string]struct{}

func setOf(vs []string) stringSet {
	if len(vs) == 0 {
		return nil
	}
	s := make(stringSet, len(vs))
	for _, v := range vs {
		s[strings.TrimSpace(v)] = struct{}{}
	}
	return s
}

// has treats a nil set as match-all
func (s stringSet) has(v string) bool {
	if s == nil {
		return true
	}
	_, ok := s[strings.TrimSpace(v)]
	return ok
}

func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
