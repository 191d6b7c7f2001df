package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	Version, Commit, Date = "v1.2.3", "abc123", "2024-01-01"
	t.Cleanup(func() { Version, Commit, Date = "dev", "none", "unknown" })

	want := "version: v1.2.3\ncommit: abc123\nbuilt: 2024-01-01"
	if got := String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestTemplate(t *testing.T) {
	got := Template()
	if !strings.HasPrefix(got, "{{.Name}} version dev") {
		t.Errorf("Template() = %q, want cobra name placeholder and version", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Error("Template() should end with a newline")
	}
}
