package trend

import (
	"strings"
	"testing"
	"time"

	"trendlens/internal/platform/testkit"
)

func searchRow(theme, sub, country string, at time.Time, v float64) Record {
	return Record{Source: SourceSearch, Theme: theme, SubTheme: sub, Country: country, At: at, Value: v}
}

func postRow(src Source, theme, sub, country string, at time.Time) Record {
	return Record{Source: src, Theme: theme, SubTheme: sub, Country: country, At: at}
}

func volumes(ps []Point) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.Volume
	}
	return out
}

func TestAggregate_SearchMeanAndScale(t *testing.T) {
	t.Parallel()
	recs := []Record{
		searchRow("Amenities", "pool", "uae", testkit.Day(2023, 1, 3), 8),
		searchRow("Amenities", "gym", "uae", testkit.Day(2023, 1, 20), 12),
		searchRow("Amenities", "pool", "uae", testkit.Day(2023, 2, 1), 20),
		searchRow("Amenities", "pool", "uae", testkit.Day(2023, 3, 31), 30),
	}
	got := Aggregate(SourceSearch, recs, AggregateOptions{Granularity: ByTheme})
	if len(got) != 3 {
		t.Fatalf("want 3 buckets, got %d", len(got))
	}
	testkit.ApproxEqual(t, "jan mean", got[0].Value, 10, 0)
	testkit.ApproxSlice(t, "volume", volumes(got), []float64{0, 50, 100}, 1e-4)
	for i, p := range got {
		if p.Source != SourceSearch {
			t.Fatalf("point %d lost its source tag", i)
		}
		if p.Bucket.Day() != 1 || p.Bucket.Location() != time.UTC {
			t.Fatalf("bucket not a month start: %v", p.Bucket)
		}
	}
}

func TestAggregate_ContentCountsAndDegenerate(t *testing.T) {
	t.Parallel()
	var recs []Record
	for _, m := range []time.Month{1, 2, 3} {
		for i := 0; i < 5; i++ {
			recs = append(recs, postRow(SourceBrand, "Amenities", "", "UK", testkit.Day(2023, m, 1+i)))
		}
	}
	got := Aggregate(SourceBrand, recs, AggregateOptions{})
	if len(got) != 3 {
		t.Fatalf("want 3 points got %d", len(got))
	}
	for _, p := range got {
		if p.Value != 5 || p.Volume != 0 {
			t.Fatalf("flat counts must scale to 0, got value %v volume %v", p.Value, p.Volume)
		}
	}

	single := Aggregate(SourceConsumer, []Record{postRow(SourceConsumer, "Price", "", "", testkit.Day(2022, 6, 9))}, AggregateOptions{})
	if len(single) != 1 || single[0].Volume != 0 {
		t.Fatalf("single bucket must scale to 0, got %+v", single)
	}
}

func TestAggregate_VolumeRangePerEntity(t *testing.T) {
	t.Parallel()
	var recs []Record
	counts := map[string][]int{"Big": {100, 400, 250}, "Small": {1, 2, 3}}
	for theme, cs := range counts {
		for m, c := range cs {
			for i := 0; i < c; i++ {
				recs = append(recs, postRow(SourceConsumer, theme, "", "", testkit.Day(2022, time.Month(m+1), 2)))
			}
		}
	}
	pts := Aggregate(SourceConsumer, recs, AggregateOptions{})
	maxBy := map[string]float64{}
	for _, p := range pts {
		if p.Volume < 0 || p.Volume > 100 {
			t.Fatalf("volume out of range: %+v", p)
		}
		if p.Volume > maxBy[p.Entity.Theme] {
			maxBy[p.Entity.Theme] = p.Volume
		}
	}
	// each entity reaches its own top regardless of magnitude
	testkit.ApproxEqual(t, "big max", maxBy["Big"], 100, 1e-4)
	testkit.ApproxEqual(t, "small max", maxBy["Small"], 100, 1e-4)
}

func TestAggregate_FiltersAndKeys(t *testing.T) {
	t.Parallel()
	canon := func(s string) string {
		if strings.EqualFold(strings.TrimSpace(s), "uae") {
			return "United Arab Emirates"
		}
		return strings.TrimSpace(s)
	}
	recs := []Record{
		postRow(SourceBrand, "Location", "marina", "uae", testkit.Day(2023, 1, 1)),
		postRow(SourceBrand, "Location", "marina", "UAE", testkit.Day(2023, 2, 1)),
		postRow(SourceBrand, "Location", "downtown", "Egypt", testkit.Day(2023, 2, 1)),
		postRow(SourceBrand, "Location", "", "uae", testkit.Day(2023, 2, 1)),
		postRow(SourceBrand, "  ", "x", "uae", testkit.Day(2023, 2, 1)),
		postRow(SourceBrand, "Location", "marina", "uae", time.Time{}),
		postRow(SourceSearch, "Location", "marina", "uae", testkit.Day(2023, 2, 1)),
	}

	bySub := Aggregate(SourceBrand, recs, AggregateOptions{Granularity: BySubTheme, Country: "United Arab Emirates", Canon: canon})
	if len(bySub) != 2 {
		t.Fatalf("want 2 marina points, got %+v", bySub)
	}
	for _, p := range bySub {
		if p.Entity != (EntityKey{Theme: "Location", SubTheme: "marina"}) {
			t.Fatalf("unexpected entity %v", p.Entity)
		}
	}

	byTheme := Aggregate(SourceBrand, recs, AggregateOptions{})
	if len(byTheme) != 2 || byTheme[1].Value != 3 {
		t.Fatalf("theme granularity should keep blank sub-themes: %+v", byTheme)
	}

	none := Aggregate(SourceBrand, recs, AggregateOptions{Country: "Narnia", Canon: canon})
	if none == nil || len(none) != 0 {
		t.Fatalf("empty scope must be an empty non-nil slice, got %#v", none)
	}
}

func TestAggregate_SkipsNaNInterest(t *testing.T) {
	t.Parallel()
	nan := 0.0
	nan = nan / nan
	recs := []Record{
		searchRow("Price", "", "", testkit.Day(2023, 1, 1), 40),
		searchRow("Price", "", "", testkit.Day(2023, 1, 2), nan),
	}
	got := Aggregate(SourceSearch, recs, AggregateOptions{})
	if len(got) != 1 || got[0].Value != 40 {
		t.Fatalf("NaN should be skipped, got %+v", got)
	}
}

func TestParseEnums(t *testing.T) {
	t.Parallel()
	if g, err := ParseGranularity(""); err != nil || g != ByTheme {
		t.Fatalf("default granularity %v %v", g, err)
	}
	if g, err := ParseGranularity("SUB_THEME"); err != nil || g != BySubTheme {
		t.Fatalf("sub theme %v %v", g, err)
	}
	if _, err := ParseGranularity("keyword"); err == nil {
		t.Fatal("expected error")
	}
	if s, err := ParseSource(" Brand "); err != nil || s != SourceBrand {
		t.Fatalf("source %v %v", s, err)
	}
	if _, err := ParseSource("tiktok"); err == nil {
		t.Fatal("expected error")
	}
}
