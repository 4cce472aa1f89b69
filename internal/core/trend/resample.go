package trend

import (
	"strings"
	"time"

	perr "trendlens/internal/platform/errors"
)

// Freq is a display bucket size
type Freq string

// Display frequencies
const (
	Monthly    Freq = "month"
	Quarterly  Freq = "quarter"
	SemiAnnual Freq = "half"
	Annual     Freq = "year"
)

// ParseFreq accepts the canonical names plus the usual pandas aliases, the
// empty string means Monthly
func ParseFreq(s string) (Freq, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "month", "monthly", "m", "ms":
		return Monthly, nil
	case "quarter", "quarterly", "q", "qs":
		return Quarterly, nil
	case "half", "semiannual", "semi-annual", "6m", "6ms":
		return SemiAnnual, nil
	case "year", "annual", "yearly", "y", "ys", "a":
		return Annual, nil
	}
	return "", perr.InvalidArgf("unknown resample frequency %q", s)
}

// PeriodStart maps a month bucket to the start of its display period
func (f Freq) PeriodStart(t time.Time) time.Time {
	t = MonthStart(t)
	m := int(t.Month())
	switch f {
	case Quarterly:
		m = (m-1)/3*3 + 1
	case SemiAnnual:
		if m > 6 {
			m = 7
		} else {
			m = 1
		}
	case Annual:
		m = 1
	}
	return time.Date(t.Year(), time.Month(m), 1, 0, 0, 0, 0, time.UTC)
}

// Resample averages monthly points into f sized periods per entity
// Monthly returns a copy of the input shape
func Resample(series []MergedPoint, f Freq) []MergedPoint {
	type slot struct {
		runningMean
		sources [3]bool
	}
	cells := make(map[cell]*slot)
	for _, p := range series {
		c := cell{entity: p.Entity, bucket: f.PeriodStart(p.Bucket)}
		s := cells[c]
		if s == nil {
			s = &slot{}
			cells[c] = s
		}
		s.sum += p.Volume
		s.n++
		for _, src := range p.Sources {
			if r := src.rank(); r < len(s.sources) {
				s.sources[r] = true
			}
		}
	}
	out := make([]MergedPoint, 0, len(cells))
	for c, s := range cells {
		mp := MergedPoint{Entity: c.entity, Bucket: c.bucket, Volume: s.sum / float64(s.n)}
		for i, src := range Sources() {
			if s.sources[i] {
				mp.Sources = append(mp.Sources, src)
			}
		}
		out = append(out, mp)
	}
	sortMerged(out)
	return out
}
