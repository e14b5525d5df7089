package ui

import (
	"os"
	"testing"
)

func TestEnsureNewline(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", "\n"},
		{"done", "done\n"},
		{"done\n", "done\n"},
	}
	for _, c := range cases {
		if got := EnsureNewline(c.in); got != c.want {
			t.Errorf("EnsureNewline(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatterFallbackWithoutColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	if got := Highlight.Sprint("alice"); got != "'alice'" {
		t.Errorf("Highlight fallback = %q, want %q", got, "'alice'")
	}
	if got := Code.Sprintf("gitseal %s", "init"); got != "`gitseal init`" {
		t.Errorf("Code fallback = %q, want %q", got, "`gitseal init`")
	}
	if got := Muted.Sprint("optional"); got != "(optional)" {
		t.Errorf("Muted fallback = %q, want %q", got, "(optional)")
	}

	os.Unsetenv("NO_COLOR")
}
