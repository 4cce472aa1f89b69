package content

import "sort"

// Default list sizes
const (
	DefaultTopAccounts  = 10
	DefaultTopGroups    = 5
	DefaultDistribution = 10
	DefaultTrendGroups  = 3
	DefaultYears        = 5
)

// Count is a group and its post count
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Share is a Count with its fraction of the listed total
type Share struct {
	Count
	Share float64 `json:"share"`
}

// Counts tallies posts per non-empty group value, biggest first, ties by key
func Counts(posts []Post, d Dimension) []Count {
	m := make(map[string]int)
	for _, p := range posts {
		if k := d.Of(p); k != "" {
			m[k]++
		}
	}
	out := make([]Count, 0, len(m))
	for k, n := range m {
		out = append(out, Count{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// TopAccounts ranks usernames by post count, n <= 0 means DefaultTopAccounts
func TopAccounts(posts []Post, n int) []Count {
	if n <= 0 {
		n = DefaultTopAccounts
	}
	return head(Counts(posts, Account), n)
}

// TopGroups ranks themes or sub-themes by post count, n <= 0 means DefaultTopGroups
func TopGroups(posts []Post, d Dimension, n int) []Count {
	if n <= 0 {
		n = DefaultTopGroups
	}
	return head(Counts(posts, d), n)
}

// Distribution is TopGroups with each slice's share of the listed total,
// n <= 0 means DefaultDistribution
func Distribution(posts []Post, d Dimension, n int) []Share {
	if n <= 0 {
		n = DefaultDistribution
	}
	top := head(Counts(posts, d), n)
	total := 0
	for _, c := range top {
		total += c.Count
	}
	out := make([]Share, len(top))
	for i, c := range top {
		out[i] = Share{Count: c}
		if total > 0 {
			out[i].Share = float64(c.Count) / float64(total)
		}
	}
	return out
}

func head[T any](vs []T, n int) []T {
	if len(vs) > n {
		return vs[:n]
	}
	return vs
}
