package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/gale/diag"
	"github.com/mna/gale/lexer"
	"github.com/mna/gale/token"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(stdio, args...)
}

// TokenizeFiles runs the lexer over every file and writes one line per
// token to stdio.Stdout, in `path:line:col: TOKEN [literal]` form.
func TokenizeFiles(stdio mainer.Stdio, files ...string) error {
	contents, paths, err := readFiles(files)
	if err != nil {
		return printError(stdio, err)
	}

	var sources token.SourceSet
	dctx := diag.NewContext(&sources)

	for _, p := range paths {
		unit := sources.AddSource(p, contents[p])
		toks := lexer.ScanAll(dctx, unit, contents[p])
		for _, tv := range toks {
			name, line, col, _ := sources.Position(tv.Pos)
			fmt.Fprintf(stdio.Stdout, "%s:%d:%d: %s", name, line, col, tv.Token)
			if lit := literalOf(tv); lit != "" {
				fmt.Fprintf(stdio.Stdout, " %s", lit)
			}
			fmt.Fprintln(stdio.Stdout)
		}
	}

	return printDiagnostics(stdio, dctx)
}

// literalOf renders a token's payload, if it carries one, for display.
func literalOf(tv lexer.TokenAndValue) string {
	switch {
	case tv.Value.Str != "":
		return tv.Value.Str
	case tv.Value.Raw != "":
		return tv.Value.Raw
	}
	return ""
}

// printDiagnostics writes every recorded diagnostic to stderr and returns a
// non-nil error if any of them is error- or internal-severity.
func printDiagnostics(stdio mainer.Stdio, dctx *diag.Context) error {
	diags := dctx.Diagnostics()
	for _, d := range diags {
		fmt.Fprintln(stdio.Stderr, dctx.Render(d))
	}
	if dctx.HasErrors() {
		return fmt.Errorf("%d diagnostic(s) reported", len(diags))
	}
	return nil
}
