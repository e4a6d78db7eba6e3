// Package diag carries the diagnostic sink and compile-time configuration
// threaded through the lexer, parser, resolver and lowering passes.
package diag

import (
	"fmt"
	"runtime"
	"sort"

	"github.com/mna/gale/token"
)

// Severity classifies a diagnostic.
type Severity int

// List of severities.
const (
	Error Severity = iota
	Warning
	Internal
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Internal:
		return "internal"
	}
	return "unknown"
}

// Diagnostic is a single span-anchored message.
type Diagnostic struct {
	Pos      token.Pos
	Severity Severity
	Message  string
}

// PlatformFlags reports which host platform the compiler is running on, used
// to seed the `__windows__`/`__macos__`/`__unix__`/`__linux__` meta
// definitions.
type PlatformFlags struct {
	Windows bool
	MacOS   bool
	Unix    bool
	Linux   bool
}

// HostPlatformFlags derives PlatformFlags from the running Go process, the
// default implementation of the host-platform collaborator.
func HostPlatformFlags() PlatformFlags {
	switch runtime.GOOS {
	case "windows":
		return PlatformFlags{Windows: true}
	case "darwin":
		return PlatformFlags{MacOS: true, Unix: true}
	case "linux":
		return PlatformFlags{Linux: true, Unix: true}
	default:
		return PlatformFlags{Unix: true}
	}
}

// Context is the explicit compiler context threaded through every pipeline
// stage: the diagnostic sink, meta definitions, host platform flags, and the
// no-type-info switch. It replaces the module-level mutable state (terminal
// color, meta definitions) that a from-scratch port would otherwise carry as
// globals.
type Context struct {
	Sources *token.SourceSet

	// NoTypeInfo, when set, causes lowering to initialize the RTTI globals to
	// null/0 instead of emitting the type table.
	NoTypeInfo bool

	Platform PlatformFlags
	Meta     map[string]bool

	diags []Diagnostic
}

// NewContext builds a Context seeded with the host platform's meta
// definitions.
func NewContext(sources *token.SourceSet) *Context {
	pf := HostPlatformFlags()
	return &Context{
		Sources:  sources,
		Platform: pf,
		Meta: map[string]bool{
			"__windows__": pf.Windows,
			"__macos__":   pf.MacOS,
			"__unix__":    pf.Unix,
			"__linux__":   pf.Linux,
		},
	}
}

// Add records a diagnostic.
func (c *Context) Add(pos token.Pos, sev Severity, format string, args ...any) {
	c.diags = append(c.diags, Diagnostic{Pos: pos, Severity: sev, Message: fmt.Sprintf(format, args...)})
}

// Errorf records an error-severity diagnostic.
func (c *Context) Errorf(pos token.Pos, format string, args ...any) {
	c.Add(pos, Error, format, args...)
}

// Warningf records a warning-severity diagnostic.
func (c *Context) Warningf(pos token.Pos, format string, args ...any) {
	c.Add(pos, Warning, format, args...)
}

// Internalf records an internal-severity diagnostic: pool exhaustion, a
// missing injected standard type, or another compiler-bug-grade condition.
func (c *Context) Internalf(pos token.Pos, format string, args ...any) {
	c.Add(pos, Internal, format, args...)
}

// HasErrors reports whether any Error or Internal diagnostic was recorded.
func (c *Context) HasErrors() bool {
	for _, d := range c.diags {
		if d.Severity == Error || d.Severity == Internal {
			return true
		}
	}
	return false
}

// Diagnostics returns the recorded diagnostics, sorted by source position.
func (c *Context) Diagnostics() []Diagnostic {
	sort.SliceStable(c.diags, func(i, j int) bool {
		a, b := c.diags[i].Pos, c.diags[j].Pos
		if a.Unit != b.Unit {
			return a.Unit < b.Unit
		}
		return a.Offset < b.Offset
	})
	return c.diags
}

// Render formats a diagnostic using the Context's SourceSet, for use by a
// source_locator-style collaborator.
func (c *Context) Render(d Diagnostic) string {
	name, line, col, _ := c.Sources.Position(d.Pos)
	if name == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", name, line, col, d.Severity, d.Message)
}
