package diag

import (
	"strings"
	"testing"

	"github.com/mna/gale/token"
)

func TestNewContextSeedsExactlyOnePlatformMeta(t *testing.T) {
	var ss token.SourceSet
	ctx := NewContext(&ss)

	set := 0
	for _, name := range []string{"__windows__", "__macos__", "__linux__"} {
		if ctx.Meta[name] {
			set++
		}
	}
	if set != 1 {
		t.Fatalf("expected exactly one of windows/macos/linux set, got %d (%v)", set, ctx.Meta)
	}
	if ctx.Platform.MacOS && !ctx.Platform.Unix {
		t.Fatalf("expected macOS to imply unix")
	}
	if ctx.Platform.Linux && !ctx.Platform.Unix {
		t.Fatalf("expected linux to imply unix")
	}
}

func TestHasErrorsAndDiagnosticsSortedByPosition(t *testing.T) {
	var ss token.SourceSet
	unit := ss.AddSource("a.gale", []byte("xxxxxxxxxxxxxx\n"))
	ctx := NewContext(&ss)

	if ctx.HasErrors() {
		t.Fatalf("a fresh Context must report no errors")
	}

	ctx.Warningf(token.Pos{Unit: unit, Offset: 10}, "later warning")
	ctx.Errorf(token.Pos{Unit: unit, Offset: 2}, "earlier error")

	if !ctx.HasErrors() {
		t.Fatalf("expected HasErrors to be true after recording an Error")
	}

	diags := ctx.Diagnostics()
	if len(diags) != 2 || diags[0].Message != "earlier error" || diags[1].Message != "later warning" {
		t.Fatalf("expected diagnostics sorted by offset, got %+v", diags)
	}
}

func TestHasErrorsIgnoresWarnings(t *testing.T) {
	var ss token.SourceSet
	unit := ss.AddSource("a.gale", []byte("x\n"))
	ctx := NewContext(&ss)
	ctx.Warningf(token.Pos{Unit: unit, Offset: 0}, "just a warning")
	if ctx.HasErrors() {
		t.Fatalf("a warning-only Context must not report HasErrors")
	}
}

func TestInternalfCountsAsError(t *testing.T) {
	var ss token.SourceSet
	unit := ss.AddSource("a.gale", []byte("x\n"))
	ctx := NewContext(&ss)
	ctx.Internalf(token.Pos{Unit: unit, Offset: 0}, "compiler bug")
	if !ctx.HasErrors() {
		t.Fatalf("an Internal diagnostic must count as an error")
	}
}

func TestRenderIncludesPositionAndSeverity(t *testing.T) {
	var ss token.SourceSet
	unit := ss.AddSource("a.gale", []byte("abc\ndef\n"))
	ctx := NewContext(&ss)

	rendered := ctx.Render(Diagnostic{Pos: token.Pos{Unit: unit, Offset: 5}, Severity: Error, Message: "boom"})
	if !strings.Contains(rendered, "a.gale") || !strings.Contains(rendered, "error") || !strings.Contains(rendered, "boom") {
		t.Fatalf("expected rendered diagnostic to mention file, severity and message, got %q", rendered)
	}
}

func TestSeverityString(t *testing.T) {
	cases := map[Severity]string{Error: "error", Warning: "warning", Internal: "internal"}
	for sev, want := range cases {
		if got := sev.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", sev, got, want)
		}
	}
}
