package content

import (
	"testing"
	"time"

	"trendlens/internal/platform/testkit"
)

func TestDailySeries(t *testing.T) {
	t.Parallel()
	posts := []Post{
		post("a", "T", "", "", time.Date(2021, 3, 1, 8, 0, 0, 0, time.UTC), 1, 2, 3, 0),
		post("a", "T", "", "", time.Date(2021, 3, 1, 20, 0, 0, 0, time.UTC), 1, 0, 0, 0),
		post("a", "T", "", "", testkit.Day(2021, 3, 4), 10, 0, 0, 0),
		post("a", "T", "", "", testkit.Day(2020, 12, 31), 10, 0, 0, 0),
		{Username: "a", Theme: "T"},
	}
	vol := DailyVolume(posts, testkit.Day(2021, 1, 1))
	if len(vol) != 2 || vol[0].Value != 2 || vol[1].Value != 1 {
		t.Fatalf("DailyVolume = %+v", vol)
	}
	eng := DailyEngagement(posts, time.Time{})
	if len(eng) != 3 || eng[1].Value != 7 || eng[0].Day.Year() != 2020 {
		t.Fatalf("DailyEngagement = %+v", eng)
	}
}

func TestYearlyVolume(t *testing.T) {
	t.Parallel()
	now := testkit.Day(2025, 6, 1)
	posts := []Post{
		post("a", "T", "", "", testkit.Day(2020, 1, 1), 0, 0, 0, 0),
		post("a", "T", "", "", testkit.Day(2021, 1, 1), 0, 0, 0, 0),
		post("a", "T", "", "", testkit.Day(2023, 1, 1), 0, 0, 0, 0),
		post("a", "T", "", "", testkit.Day(2023, 9, 1), 0, 0, 0, 0),
		post("a", "T", "", "", testkit.Day(2026, 1, 1), 0, 0, 0, 0),
	}
	got := YearlyVolume(posts, 0, now)
	want := []YearCount{{2021, 1}, {2023, 2}}
	if len(got) != len(want) {
		t.Fatalf("YearlyVolume = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("YearlyVolume = %+v", got)
		}
	}
}

func TestTopGroupTrends(t *testing.T) {
	t.Parallel()
	var posts []Post
	posts = append(posts, repeat(4, post("a", "Big", "", "", testkit.Day(2023, 1, 1), 0, 0, 0, 0))...)
	posts = append(posts, repeat(2, post("a", "Mid", "", "", testkit.Day(2023, 1, 2), 0, 0, 0, 0))...)
	posts = append(posts, post("a", "Tiny", "", "", testkit.Day(2023, 1, 3), 0, 0, 0, 0))
	got := TopGroupTrends(posts, Theme, 2)
	if len(got) != 2 || got[0].Group != "Big" || got[0].Value != 4 || got[1].Group != "Mid" {
		t.Fatalf("TopGroupTrends = %+v", got)
	}
}

func TestFastestGrowing(t *testing.T) {
	t.Parallel()
	var posts []Post
	// fast: 1,3,5 posts on three days -> cumulative 1,4,9
	for i, n := range []int{1, 3, 5} {
		posts = append(posts, repeat(n, post("a", "fast", "", "", testkit.Day(2023, 1, 1+i), 0, 0, 0, 0))...)
	}
	// slow: 1 per day -> cumulative 1,2,3
	for i := 0; i < 3; i++ {
		posts = append(posts, post("a", "slow", "", "", testkit.Day(2023, 1, 1+i), 0, 0, 0, 0))
	}
	posts = append(posts, repeat(50, post("a", "burst", "", "", testkit.Day(2023, 1, 1), 0, 0, 0, 0))...)

	g := FastestGrowing(posts, Theme, 0)
	if len(g.Ranking) != 2 {
		t.Fatalf("single-day groups are skipped: %+v", g.Ranking)
	}
	if g.Ranking[0].Group != "fast" {
		t.Fatalf("ranking %+v", g.Ranking)
	}
	testkit.ApproxEqual(t, "fast slope", g.Ranking[0].Score, 4, 1e-9)
	testkit.ApproxEqual(t, "slow slope", g.Ranking[1].Score, 1, 1e-9)
	if len(g.Cumulative) != 6 || g.Cumulative[2].Value != 9 {
		t.Fatalf("cumulative series %+v", g.Cumulative)
	}

	one := FastestGrowing(posts, Theme, 1)
	if len(one.Ranking) != 1 || len(one.Cumulative) != 3 {
		t.Fatalf("n=1 should keep only the leader: %+v", one)
	}
	if empty := FastestGrowing(nil, Theme, 0); empty.Ranking == nil || len(empty.Ranking) != 0 {
		t.Fatalf("empty growth %+v", empty)
	}
}

func TestGrowthPerYear(t *testing.T) {
	t.Parallel()
	now := testkit.Day(2024, 12, 31)
	var posts []Post
	posts = append(posts, repeat(2, post("a", "A", "", "", testkit.Day(2023, 1, 1), 0, 0, 0, 0))...)
	posts = append(posts, repeat(6, post("a", "A", "", "", testkit.Day(2023, 5, 1), 0, 0, 0, 0))...)
	posts = append(posts, post("a", "B", "", "", testkit.Day(2023, 2, 1), 0, 0, 0, 0))
	posts = append(posts, repeat(3, post("a", "B", "", "", testkit.Day(2023, 3, 1), 0, 0, 0, 0))...)
	posts = append(posts, repeat(9, post("a", "C", "", "", testkit.Day(2024, 4, 1), 0, 0, 0, 0))...)

	got := GrowthPerYear(posts, Theme, 0, 2, now)
	// 2023: A grows 8-2=6, B grows 4-1=3. 2024: C has one day so growth 0
	want := []YearGrowth{{2023, "A", 6}, {2023, "B", 3}, {2024, "C", 0}}
	if len(got) != len(want) {
		t.Fatalf("GrowthPerYear = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("GrowthPerYear[%d] = %+v want %+v", i, got[i], want[i])
		}
	}
}
