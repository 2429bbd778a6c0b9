package sanitize

import "testing"

func TestClean(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		present bool
	}{
		{"hola", "hola", true},
		{"  hola  ", "hola", true},
		{"", "", false},
		{"   ", "", false},
		{"\t\n", "", false},
	}
	for _, tc := range cases {
		got, present := Clean(tc.in)
		if got != tc.want || present != tc.present {
			t.Fatalf("Clean(%q) = (%q, %v), want (%q, %v)", tc.in, got, present, tc.want, tc.present)
		}
	}
}

func TestIsAbsent(t *testing.T) {
	if !IsAbsent("   ") {
		t.Fatalf("whitespace must be absent")
	}
	if IsAbsent(" x ") {
		t.Fatalf("non-blank value must be present")
	}
}

func TestStripHTML(t *testing.T) {
	if got := StripHTML(`<b>hola</b> mundo`); got != "hola mundo" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := StripHTML(`&lt;script&gt;alert(1)&lt;/script&gt;texto`); got != "alert(1)texto" {
		t.Fatalf("encoded tags must be stripped after decode, got %q", got)
	}
}
