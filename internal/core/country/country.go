// Package country maps free-text country values to canonical display names
package country

import (
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	perr "trendlens/internal/platform/errors"
)

// builtin holds the aliases seen in the raw datasets, keyed by lower case
var builtin = map[string]string{
	"uae": "United Arab Emirates",
	"uk":  "United Kingdom",
	"egy": "Egypt",
	"aus": "Australia",
	"sg":  "Singapore",
	"sgp": "Singapore",
	"ksa": "Saudi Arabia",
}

// a Caser keeps state between calls so each goroutine borrows its own
var titlePool = sync.Pool{
	New: func() any {
		c := cases.Title(language.Und)
		return &c
	},
}

// Normalizer is safe for concurrent use once built
type Normalizer struct {
	aliases map[string]string
}

var std = New(nil)

// New returns a Normalizer with the builtin table plus extra aliases
// Extra keys are matched case-insensitively and empty targets are ignored
func New(extra map[string]string) *Normalizer {
	m := make(map[string]string, len(builtin)+len(extra))
	for k, v := range builtin {
		m[k] = v
	}
	for k, v := range extra {
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		m[k] = v
	}
	return &Normalizer{aliases: m}
}

// Normalize uses the builtin table
func Normalize(raw string) string { return std.Normalize(raw) }

// Normalize returns the canonical name for raw
// Unknown values are title cased, blank input returns ""
func (n *Normalizer) Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if v, ok := n.aliases[strings.ToLower(s)]; ok {
		return v
	}
	c := titlePool.Get().(*cases.Caser)
	out := c.String(s)
	titlePool.Put(c)
	return out
}

// Canonicals normalizes every value and returns the distinct non-empty names sorted
func (n *Normalizer) Canonicals(raws []string) []string {
	seen := make(map[string]struct{}, len(raws))
	out := make([]string, 0, len(raws))
	for _, r := range raws {
		c := n.Normalize(r)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Len reports how many aliases are known
func (n *Normalizer) Len() int { return len(n.aliases) }

// LoadAliases reads a yaml map of alias to canonical name
// An empty path returns nil with no error
func LoadAliases(path string) (map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "read country aliases %s", path)
	}
	var m map[string]string
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeSchema, "parse country aliases %s", path)
	}
	return m, nil
}
