package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/gale/ast"
	"github.com/mna/gale/diag"
	"github.com/mna/gale/ir"
	"github.com/mna/gale/lower"
	"github.com/mna/gale/parser"
	"github.com/mna/gale/token"
	"github.com/mna/gale/types"
)

func (c *Cmd) Lower(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return LowerFiles(stdio, c.NoTypeInfo, args...)
}

// LowerFiles runs the full pipeline (lex, parse, type resolution, IR
// lowering, RTTI emission) over every file, treating them as one
// translation unit, and prints the resulting LLVM IR module text to
// stdio.Stdout.
func LowerFiles(stdio mainer.Stdio, noTypeInfo bool, files ...string) error {
	contents, paths, err := readFiles(files)
	if err != nil {
		return printError(stdio, err)
	}

	var sources token.SourceSet
	dctx := diag.NewContext(&sources)
	dctx.NoTypeInfo = noTypeInfo

	merged := &ast.File{Meta: map[string]bool{}}
	for _, p := range paths {
		unit := sources.AddSource(p, contents[p])
		f, ok := parser.Parse(dctx, unit, contents[p])
		if !ok {
			return printDiagnostics(stdio, dctx)
		}
		if merged.Unit == 0 {
			merged.Unit = unit
		}
		merged.Decls = append(merged.Decls, f.Decls...)
		for k, v := range f.Meta {
			merged.Meta[k] = v
		}
	}
	if dctx.HasErrors() {
		return printDiagnostics(stdio, dctx)
	}

	module := ir.NewModule(moduleNameFor(paths))
	table := types.NewTable(module)
	lower.New(dctx, table, module).Lower(merged)

	if err := printDiagnostics(stdio, dctx); err != nil {
		return err
	}
	fmt.Fprint(stdio.Stdout, module.LL.String())
	return nil
}

func moduleNameFor(paths []string) string {
	if len(paths) == 0 {
		return "gale"
	}
	return paths[0]
}
