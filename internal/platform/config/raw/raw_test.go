package raw

import "testing"

func TestConf(t *testing.T) {
	t.Setenv("LOG_LEVEL", " info ")
	t.Setenv("LOG_CALLER", "on")
	t.Setenv("LOG_JSON", "nope")
	t.Setenv("LOG_SAMPLE_EVERY", "4")
	t.Setenv("LOG_BAD_INT", "-2")

	c := New().Prefix("LOG_")
	if got := c.Get("LEVEL", "debug"); got != "info" {
		t.Fatalf("Get = %q", got)
	}
	if got := c.Get("FORMAT", "console"); got != "console" {
		t.Fatalf("Get default = %q", got)
	}

	bools := []struct {
		key  string
		def  bool
		want bool
	}{
		{"CALLER", false, true},
		{"JSON", true, false},
		{"UNSET", true, true},
	}
	for _, b := range bools {
		if got := c.GetBool(b.key, b.def); got != b.want {
			t.Fatalf("GetBool(%s) = %v", b.key, got)
		}
	}

	if c.GetInt("SAMPLE_EVERY", 0) != 4 || c.GetInt("BAD_INT", 1) != 1 || c.GetInt("UNSET", 9) != 9 {
		t.Fatal("GetInt")
	}
}
