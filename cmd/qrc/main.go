// Command qrc is the qrc compiler entry point: it parses the CLI surface
// of spec §6, then hands off to package driver for the resolve → generate
// → passes → lower → link pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/quart-lang/qrc/internal/ast"
	"github.com/quart-lang/qrc/internal/driver"
)

// externalFrontend is the seam the tokenizer/parser/type-checker plug
// into (spec §1 lists them as out of scope, owned by an external
// collaborator). This build has no parser wired in; ParseFile always
// fails, so the pipeline's other stages can still be exercised directly
// against hand-built *ast.File values in tests.
type externalFrontend struct{}

func (externalFrontend) ParseFile(path string) (*ast.File, error) {
	return nil, fmt.Errorf("qrc: no frontend configured; %s was not parsed", path)
}

func main() {
	opt, err := driver.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "qrc: %s\n", err)
		os.Exit(1)
	}

	if err := driver.Compile(opt, externalFrontend{}); err != nil {
		fmt.Fprintf(os.Stderr, "qrc: %s\n", err)
		os.Exit(1)
	}
}
