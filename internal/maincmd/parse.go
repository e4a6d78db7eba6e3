package maincmd

import (
	"context"

	"github.com/mna/mainer"

	"github.com/mna/gale/ast"
	"github.com/mna/gale/diag"
	"github.com/mna/gale/parser"
	"github.com/mna/gale/token"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(stdio, args...)
}

// ParseFiles runs the lexer and parser over every file and prints the
// resulting ASTs to stdio.Stdout.
func ParseFiles(stdio mainer.Stdio, files ...string) error {
	contents, paths, err := readFiles(files)
	if err != nil {
		return printError(stdio, err)
	}

	var sources token.SourceSet
	dctx := diag.NewContext(&sources)

	printer := ast.Printer{Output: stdio.Stdout}
	for _, p := range paths {
		unit := sources.AddSource(p, contents[p])
		f, ok := parser.Parse(dctx, unit, contents[p])
		if ok {
			printer.Print(f)
		}
	}

	return printDiagnostics(stdio, dctx)
}
