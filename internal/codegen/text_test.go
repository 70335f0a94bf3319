package codegen

import "testing"

func TestStripTags(t *testing.T) {
	got := CollapseSpaces(StripTags("<p>Soft <strong>cotton</strong> tee</p><p>Made in BD</p>"))
	if got != "Soft cotton tee Made in BD" {
		t.Fatalf("unexpected stripped text: %q", got)
	}
}

func TestStripTagsKeepsEntities(t *testing.T) {
	got := CollapseSpaces(StripTags("Tom &amp; Jerry <br/> tees"))
	if got != "Tom & Jerry tees" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestCollapseSpaces(t *testing.T) {
	if got := CollapseSpaces("  a \t b\n\nc  "); got != "a b c" {
		t.Fatalf("unexpected collapse: %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 70); got != "short" {
		t.Fatalf("expected untouched string, got %q", got)
	}
	if got := Truncate("abcdefghij", 5); got != "abcd" {
		t.Fatalf("expected 4 chars, got %q", got)
	}
	if got := Truncate("abc defghi", 5); got != "abc" {
		t.Fatalf("expected trailing space trimmed, got %q", got)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Basic Tee", "basic-tee"},
		{"Café Crème Tee", "cafe-creme-tee"},
		{"  --Weird__Name!!  ", "weird-name"},
		{"basic-tee-copy-1780000000000", "basic-tee-copy-1780000000000"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
