package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/quart-lang/qrc/internal/symbols"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("// empty\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveDirectFileOnImportPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "collections.qr"))

	r := NewResolver(Options{ImportPaths: []string{dir}})
	mod, err := r.Resolve([]string{"collections"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if mod.QName != "collections" {
		t.Errorf("QName = %q, want %q", mod.QName, "collections")
	}
	if mod.State != symbols.Importing {
		t.Errorf("State = %v, want Importing before MarkReady", mod.State)
	}
}

func TestResolvePackageDirectoryModuleFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "net", "module.qr"))

	r := NewResolver(Options{ImportPaths: []string{dir}})
	mod, err := r.Resolve([]string{"net"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	wantPath, _ := filepath.Abs(filepath.Join(dir, "net", "module.qr"))
	if mod.AbsolutePath != wantPath {
		t.Errorf("AbsolutePath = %q, want %q", mod.AbsolutePath, wantPath)
	}
}

func TestResolveRelativeImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sibling.qr"))

	r := NewResolver(Options{})
	mod, err := r.Resolve([]string{".", "sibling"}, dir)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if mod == nil {
		t.Fatal("expected a resolved module")
	}
}

func TestResolveNotFound(t *testing.T) {
	r := NewResolver(Options{ImportPaths: []string{t.TempDir()}})
	if _, err := r.Resolve([]string{"nonexistent"}, ""); err == nil {
		t.Fatal("expected an error resolving a nonexistent module")
	}
}

func TestResolveMemoizesReadyModule(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "collections.qr"))
	r := NewResolver(Options{ImportPaths: []string{dir}})

	mod1, err := r.Resolve([]string{"collections"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	r.MarkReady(mod1)

	mod2, err := r.Resolve([]string{"collections"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if mod1 != mod2 {
		t.Fatal("resolving an already-Ready module should return the same instance")
	}
	if mod2.State != symbols.Ready {
		t.Errorf("State = %v, want Ready", mod2.State)
	}
}

func TestResolveDetectsImportCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "collections.qr"))
	r := NewResolver(Options{ImportPaths: []string{dir}})

	mod, err := r.Resolve([]string{"collections"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if mod.State != symbols.Importing {
		t.Fatal("precondition: module should still be Importing")
	}

	_, err = r.Resolve([]string{"collections"}, "")
	if err == nil {
		t.Fatal("expected a CycleError re-entering an Importing module")
	}
	if _, ok := err.(*CycleError); !ok {
		t.Errorf("error = %T, want *CycleError", err)
	}
}

func TestResolveSearchOrderPrefersEarlierImportPath(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeFile(t, filepath.Join(dirA, "pkg.qr"))
	writeFile(t, filepath.Join(dirB, "pkg.qr"))

	r := NewResolver(Options{ImportPaths: []string{dirA, dirB}})
	mod, err := r.Resolve([]string{"pkg"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	wantPath, _ := filepath.Abs(filepath.Join(dirA, "pkg.qr"))
	if mod.AbsolutePath != wantPath {
		t.Errorf("AbsolutePath = %q, want the first import path's match %q", mod.AbsolutePath, wantPath)
	}
}
