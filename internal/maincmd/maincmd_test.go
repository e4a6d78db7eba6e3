package maincmd_test

import (
	"bytes"
	"flag"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"

	"github.com/mna/gale/internal/filetest"
	"github.com/mna/gale/internal/maincmd"
)

var testUpdateTokenizerTests = flag.Bool("test.update-tokenizer-tests", false, "If set, replace expected tokenizer test results with actual results.")

func TestTokenize(t *testing.T) {
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")
	for _, fi := range filetest.SourceFiles(t, srcDir, ".gale") {
		t.Run(fi.Name(), func(t *testing.T) {
			var buf, ebuf bytes.Buffer
			stdio := mainer.Stdio{
				Stdout: &buf,
				Stderr: &ebuf,
			}

			// error is ignored, we just want the diagnostics printed to ebuf
			_ = maincmd.TokenizeFiles(stdio, filepath.Join(srcDir, fi.Name()))
			filetest.DiffOutput(t, fi, buf.String(), resultDir, testUpdateTokenizerTests)
			filetest.DiffErrors(t, fi, ebuf.String(), resultDir, testUpdateTokenizerTests)
		})
	}
}
