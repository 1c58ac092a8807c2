package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)
	Version, Commit, Date = "v1.2.3", "abc123", "2026-01-02"

	want := Info{Version: "v1.2.3", Commit: "abc123", Date: "2026-01-02"}
	if got := Get(); got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
	if s := String(); !strings.Contains(s, "version: v1.2.3") || !strings.Contains(s, "commit: abc123") {
		t.Errorf("String() = %q", s)
	}
	if tmpl := Template(); !strings.HasPrefix(tmpl, "{{.Name}} version v1.2.3") {
		t.Errorf("Template() = %q", tmpl)
	}
}
