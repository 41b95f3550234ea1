package web

import "testing"

func TestFormatRuntime(t *testing.T) {
	cases := map[int]string{
		0:   "",
		-5:  "",
		45:  "45m",
		60:  "1h 00m",
		88:  "1h 28m",
		155: "2h 35m",
	}
	for minutes, want := range cases {
		if got := formatRuntime(minutes); got != want {
			t.Errorf("formatRuntime(%d) = %q, want %q", minutes, got, want)
		}
	}
}

func TestSelectedIgnoresCase(t *testing.T) {
	if !selected([]string{"horror"}, "Horror") {
		t.Fatal("expected case-insensitive match")
	}
	if selected(nil, "Horror") {
		t.Fatal("expected no match for empty selection")
	}
}
