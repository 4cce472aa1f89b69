package country

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestNormalize_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{"alias uae", "uae", "United Arab Emirates"},
		{"alias upper", "UAE", "United Arab Emirates"},
		{"alias padded", "  ksa ", "Saudi Arabia"},
		{"alias uk", "Uk", "United Kingdom"},
		{"alias egy", "egy", "Egypt"},
		{"alias aus", "AUS", "Australia"},
		{"alias sg", "sg", "Singapore"},
		{"alias sgp", "SGP", "Singapore"},
		{"unknown title cased", "india", "India"},
		{"unknown multi word", "united states", "United States"},
		{"unknown shouting", "QATAR", "Qatar"},
		{"blank", "   ", ""},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tc.in); got != tc.out {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.out)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"uae", "saudi arabia", "Egypt", "sgp"} {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNew_ExtraAliases(t *testing.T) {
	t.Parallel()
	n := New(map[string]string{
		" USA ": "United States",
		"uae":   "U.A.E.",
		"blank": "  ",
		"":      "Nowhere",
	})
	if got := n.Normalize("usa"); got != "United States" {
		t.Fatalf("extra alias not applied: %q", got)
	}
	if got := n.Normalize("uae"); got != "U.A.E." {
		t.Fatalf("extra alias should override builtin: %q", got)
	}
	if got := n.Normalize("blank"); got != "Blank" {
		t.Fatalf("empty target must be ignored: %q", got)
	}
	if n.Len() != len(builtin)+1 {
		t.Fatalf("Len = %d", n.Len())
	}
}

func TestCanonicals(t *testing.T) {
	t.Parallel()
	got := New(nil).Canonicals([]string{"uae", "UAE", "United Arab Emirates", "", "egy", "india"})
	want := []string{"Egypt", "India", "United Arab Emirates"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestNormalize_Concurrent(t *testing.T) {
	t.Parallel()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if Normalize("new zealand") != "New Zealand" {
					t.Error("bad title case under concurrency")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestLoadAliases(t *testing.T) {
	t.Parallel()

	if m, err := LoadAliases(""); err != nil || m != nil {
		t.Fatalf("empty path: %v %v", m, err)
	}

	dir := t.TempDir()
	good := filepath.Join(dir, "aliases.yaml")
	if err := os.WriteFile(good, []byte("usa: United States\nqa: Qatar\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	m, err := LoadAliases(good)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m["qa"] != "Qatar" || len(m) != 2 {
		t.Fatalf("unexpected map %v", m)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("- just\n- a list\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAliases(bad); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := LoadAliases(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected read error")
	}
}
