package driver

import (
	"fmt"
	"os"
	"os/exec"
)

// Link spawns the configured linker over objectFiles, producing output at
// outputPath, per §6's exact linker invocation rule: "-o output,
// optionally -e entry, any user-supplied extras, the primary object file,
// any additional object files, -l<name> per linked library, -L<path> per
// library path, and -shared for shared-library outputs." Mirrors the
// teacher's linker-driver internals being an external collaborator's
// contract (spec.md Non-goals): qrc only spawns it, it doesn't re-implement
// it.
func Link(opt Options, objectFiles []string, outputPath string) error {
	if len(objectFiles) == 0 {
		return fmt.Errorf("driver: no object files to link")
	}

	linker := "cc"
	if opt.NoLibc {
		linker = "ld"
	}

	args := []string{"-o", outputPath}
	if opt.Entry != "" && opt.Entry != "main" {
		args = append(args, "-e", opt.Entry)
	}
	args = append(args, opt.LinkerExtraArgs...)
	args = append(args, objectFiles...)
	for _, lib := range opt.LinkLibraries {
		args = append(args, "-l"+lib)
	}
	for _, p := range opt.LibraryPaths {
		args = append(args, "-L"+p)
	}
	if opt.Format == FormatShared {
		args = append(args, "-shared")
	}

	if opt.Verbose {
		fmt.Printf("linking: %s %v\n", linker, args)
	}

	cmd := exec.Command(linker, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("linker invocation failed: %w", err)
	}
	return nil
}
