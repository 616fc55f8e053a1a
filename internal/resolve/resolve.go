// Package resolve locates `.qr` files and package directories along a
// search path and detects import cycles, per spec §6.
package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quart-lang/qrc/internal/symbols"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Options configures a resolution, mirroring the driver's -I search paths
// and built-in library path.
type Options struct {
	ImportPaths []string // -I PATH, repeatable, in the order given on the command line.
	LibraryPath string    // Built-in library path, searched last.
}

// Resolver locates modules and tracks which ones are mid-import, for cycle
// detection, and which are already fully resolved, for memoization.
type Resolver struct {
	opt     Options
	modules map[string]*symbols.ModuleSymbol // Keyed by absolute path.
}

// CycleError reports an import cycle: a module whose state was Importing
// was re-entered.
type CycleError struct {
	Path string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency detected while importing %q", e.Path)
}

// ---------------------
// ----- functions -----
// ---------------------

// NewResolver returns a Resolver configured with opt.
func NewResolver(opt Options) *Resolver {
	return &Resolver{
		opt:     opt,
		modules: make(map[string]*symbols.ModuleSymbol, 16),
	}
}

// Resolve locates the module named by the `::`-separated path segments,
// searching in order: the importing file's directory (if relative, i.e.
// path[0] == "."), each configured import path, and finally the built-in
// library path. For each candidate directory both "segment.qr" and
// "segment/module.qr" are acceptable.
//
// Re-entering a module whose state is Importing returns a *CycleError and
// never recurses — the caller is expected to stop walking immediately.
func (r *Resolver) Resolve(path []string, fromDir string) (*symbols.ModuleSymbol, error) {
	abs, err := r.locate(path, fromDir)
	if err != nil {
		return nil, err
	}

	if existing, ok := r.modules[abs]; ok {
		if existing.State == symbols.Importing {
			return nil, &CycleError{Path: abs}
		}
		return existing, nil
	}

	qname := strings.Join(path, "::")
	mod := &symbols.ModuleSymbol{
		QName:        qname,
		AbsolutePath: abs,
		State:        symbols.Importing,
	}
	mod.Scope = symbols.CreateScope(qname, symbols.Module, nil)
	mod.Scope.ModuleSym = mod
	r.modules[abs] = mod

	// The caller is responsible for parsing/type-checking the file at abs
	// and declaring its symbols into mod.Scope; that is outside this
	// package's contract (the parser is an external collaborator). Once
	// the caller has finished, it must call MarkReady.
	return mod, nil
}

// MarkReady transitions mod from Importing to Ready once its body has been
// fully processed, so that a later re-import resolves instantly instead of
// reporting a cycle.
func (r *Resolver) MarkReady(mod *symbols.ModuleSymbol) {
	mod.State = symbols.Ready
}

// locate walks the ordered search locations and returns the absolute path
// of the first matching file.
func (r *Resolver) locate(path []string, fromDir string) (string, error) {
	rel := filepath.Join(path...)
	candidates := make([]string, 0, 4)

	if len(path) > 0 && path[0] == "." {
		candidates = append(candidates, fromDir)
	}
	candidates = append(candidates, r.opt.ImportPaths...)
	if r.opt.LibraryPath != "" {
		candidates = append(candidates, r.opt.LibraryPath)
	}

	for _, dir := range candidates {
		direct := filepath.Join(dir, rel+".qr")
		if fileExists(direct) {
			return filepath.Abs(direct)
		}
		moduleFile := filepath.Join(dir, rel, "module.qr")
		if fileExists(moduleFile) {
			return filepath.Abs(moduleFile)
		}
	}

	return "", fmt.Errorf("could not resolve import %q: no module.qr or .qr file found on search path", strings.Join(path, "::"))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
