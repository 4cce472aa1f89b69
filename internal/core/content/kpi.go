package content

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Figure is a KPI value with its dashboard rendering
type Figure struct {
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

func figure(v float64) Figure { return Figure{Value: v, Display: FormatNumber(v)} }

// KPIs are the headline numbers of a post set
type KPIs struct {
	Posts          Figure `json:"posts"`
	Countries      Figure `json:"countries"`
	Accounts       Figure `json:"accounts"`
	Engagement     Figure `json:"engagement"`
	AvgEngagement  Figure `json:"avg_engagement"`
	EstimatedReach Figure `json:"estimated_reach"`
}

// Summarize computes the KPIs; canon maps countries before counting, nil keeps raw values
func Summarize(posts []Post, canon func(string) string) KPIs {
	if canon == nil {
		canon = strings.TrimSpace
	}
	countries := make(map[string]struct{})
	accounts := make(map[string]struct{})
	var engagement int64
	var reach float64
	for _, p := range posts {
		if c := canon(p.Country); c != "" {
			countries[c] = struct{}{}
		}
		if u := Account.Of(p); u != "" {
			accounts[u] = struct{}{}
		}
		engagement += p.Engagement()
		reach += p.EstimatedReach()
	}
	avg := 0.0
	if len(posts) > 0 {
		avg = float64(engagement) / float64(len(posts))
	}
	return KPIs{
		Posts:          figure(float64(len(posts))),
		Countries:      figure(float64(len(countries))),
		Accounts:       figure(float64(len(accounts))),
		Engagement:     figure(float64(engagement)),
		AvgEngagement:  figure(avg),
		EstimatedReach: figure(reach),
	}
}

// FormatNumber renders 1.2B, 3.4M, 5.6K with one decimal, smaller values as
// their integer part
func FormatNumber(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "0"
	}
	switch {
	case x >= 1e9:
		return fmt.Sprintf("%.1fB", x/1e9)
	case x >= 1e6:
		return fmt.Sprintf("%.1fM", x/1e6)
	case x >= 1e3:
		return fmt.Sprintf("%.1fK", x/1e3)
	}
	return strconv.FormatInt(int64(x), 10)
}
