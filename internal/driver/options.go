// Package driver implements the CLI surface (§6), pipeline orchestration
// (resolve → generate → passes → lower → link), and linker invocation.
package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Format is the output format selected by --format, default exe.
type Format int

const (
	FormatExe Format = iota
	FormatShared
	FormatObject
	FormatAssembly
	FormatLLVMIR
	FormatLLVMBC
)

// MangleStyle selects how qualified names are mangled for the linker.
type MangleStyle int

const (
	MangleMinimal MangleStyle = iota
	MangleFull
	MangleNone
)

// Options is the full CLI flag set of §6, the generalization of the
// teacher's util.Options (which only ever carried a handful of compiler
// switches) to the complete flag surface a linking, multi-format,
// cross-target driver needs.
type Options struct {
	Inputs []string // Positional arguments naming input files.

	Verbose          bool
	NoLibc           bool
	PrintAllTargets  bool
	JIT              bool
	OptLevel         string // "0","1","2","3","s","z"
	Format           Format
	Mangle           MangleStyle
	Entry            string
	Output           string
	Target           string
	ImportPaths      []string // -I, repeatable.
	LinkLibraries    []string // -l, repeatable.
	LibraryPaths     []string // -L, repeatable.
	LinkerExtraArgs  []string
	Threads          int
}

// ---------------------
// ----- Constants -----
// ---------------------

const appVersion = "qrc (Quart-lang compiler) 1.0"

// ---------------------
// ----- functions -----
// ---------------------

// DefaultOptions returns an Options populated with every §6 default:
// -O2, --format=exe, --mangle-style=minimal, --entry=main.
func DefaultOptions() Options {
	return Options{
		OptLevel: "2",
		Format:   FormatExe,
		Mangle:   MangleMinimal,
		Entry:    "main",
		Threads:  1,
	}
}

// ParseArgs parses os.Args[1:] into an Options, mirroring the teacher's
// ParseArgs shape (a single pass over the argument slice, flags consuming
// their following argument inline) generalized to long-form `--flag=value`
// options and repeatable `-I`/`-l`/`-L` flags alongside the teacher's
// short `-flag value` style.
func ParseArgs(args []string) (Options, error) {
	opt := DefaultOptions()
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-h" || a == "--help":
			printHelp()
			os.Exit(0)
		case a == "-v" || a == "--version":
			fmt.Println(appVersion)
			os.Exit(0)
		case a == "--verbose":
			opt.Verbose = true
		case a == "--no-libc":
			opt.NoLibc = true
		case a == "--print-all-targets":
			opt.PrintAllTargets = true
		case a == "--jit":
			opt.JIT = true
		case strings.HasPrefix(a, "-O"):
			level := strings.TrimPrefix(a, "-O")
			if !validOptLevel(level) {
				return opt, fmt.Errorf("invalid optimization level: -O%s", level)
			}
			opt.OptLevel = level
		case strings.HasPrefix(a, "--format="):
			f, err := parseFormat(strings.TrimPrefix(a, "--format="))
			if err != nil {
				return opt, err
			}
			opt.Format = f
		case strings.HasPrefix(a, "--mangle-style="):
			m, err := parseMangleStyle(strings.TrimPrefix(a, "--mangle-style="))
			if err != nil {
				return opt, err
			}
			opt.Mangle = m
		case strings.HasPrefix(a, "--entry="):
			opt.Entry = strings.TrimPrefix(a, "--entry=")
		case strings.HasPrefix(a, "--output="):
			opt.Output = strings.TrimPrefix(a, "--output=")
		case a == "-o":
			if i+1 >= len(args) {
				return opt, fmt.Errorf("got flag -o but no argument")
			}
			i++
			opt.Output = args[i]
		case strings.HasPrefix(a, "--target="):
			opt.Target = strings.TrimPrefix(a, "--target=")
		case a == "-I":
			if i+1 >= len(args) {
				return opt, fmt.Errorf("got flag -I but no argument")
			}
			i++
			opt.ImportPaths = append(opt.ImportPaths, args[i])
		case strings.HasPrefix(a, "-I"):
			opt.ImportPaths = append(opt.ImportPaths, strings.TrimPrefix(a, "-I"))
		case a == "-l":
			if i+1 >= len(args) {
				return opt, fmt.Errorf("got flag -l but no argument")
			}
			i++
			opt.LinkLibraries = append(opt.LinkLibraries, args[i])
		case strings.HasPrefix(a, "-l"):
			opt.LinkLibraries = append(opt.LinkLibraries, strings.TrimPrefix(a, "-l"))
		case a == "-L":
			if i+1 >= len(args) {
				return opt, fmt.Errorf("got flag -L but no argument")
			}
			i++
			opt.LibraryPaths = append(opt.LibraryPaths, args[i])
		case strings.HasPrefix(a, "-L"):
			opt.LibraryPaths = append(opt.LibraryPaths, strings.TrimPrefix(a, "-L"))
		case a == "-t":
			if i+1 >= len(args) {
				return opt, fmt.Errorf("got flag -t but no argument")
			}
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil || n < 1 {
				return opt, fmt.Errorf("expected positive integer thread count, got %q", args[i])
			}
			opt.Threads = n
		case strings.HasPrefix(a, "-"):
			return opt, fmt.Errorf("unexpected flag: %s", a)
		default:
			opt.Inputs = append(opt.Inputs, a)
		}
	}
	return opt, nil
}

func validOptLevel(level string) bool {
	switch level {
	case "0", "1", "2", "3", "s", "z":
		return true
	default:
		return false
	}
}

func parseFormat(s string) (Format, error) {
	switch s {
	case "llvm-ir":
		return FormatLLVMIR, nil
	case "llvm-bc":
		return FormatLLVMBC, nil
	case "asm":
		return FormatAssembly, nil
	case "obj":
		return FormatObject, nil
	case "exe":
		return FormatExe, nil
	case "shared":
		return FormatShared, nil
	default:
		return 0, fmt.Errorf("unrecognized --format value: %s", s)
	}
}

func parseMangleStyle(s string) (MangleStyle, error) {
	switch s {
	case "full":
		return MangleFull, nil
	case "minimal":
		return MangleMinimal, nil
	case "none":
		return MangleNone, nil
	default:
		return 0, fmt.Errorf("unrecognized --mangle-style value: %s", s)
	}
}

// OutputExtension returns the file extension §6 assigns to f (empty for
// exe, matching the spec's "exe→ (no extension)").
func OutputExtension(f Format, windows bool) string {
	switch f {
	case FormatObject:
		return "o"
	case FormatLLVMIR:
		return "ll"
	case FormatLLVMBC:
		return "bc"
	case FormatAssembly:
		return "s"
	case FormatShared:
		if windows {
			return "lib"
		}
		return "so"
	default:
		return ""
	}
}

// DefaultOutputPath derives the default -o path from the first input file
// and the selected format, per §6 ("default derived from the input
// filename and format").
func DefaultOutputPath(opt Options) string {
	if opt.Output != "" {
		return opt.Output
	}
	base := "a.out"
	if len(opt.Inputs) > 0 {
		base = strings.TrimSuffix(filepath.Base(opt.Inputs[0]), filepath.Ext(opt.Inputs[0]))
	}
	ext := OutputExtension(opt.Format, false)
	if ext == "" {
		return base
	}
	return base + "." + ext
}

// printHelp prints a usage message, in the teacher's tabwriter-aligned
// style (src/util/args.go's printHelp).
func printHelp() {
	w := tabwriter.NewWriter(os.Stdout, 6, 1, 1, 0, 0)
	_, _ = fmt.Fprintln(w, "--verbose\tPrint compiler progress and statistics to stdout.")
	_, _ = fmt.Fprintln(w, "--no-libc\tLink with ld instead of cc; no C runtime startup.")
	_, _ = fmt.Fprintln(w, "--print-all-targets\tPrint every target triple the host LLVM supports and exit.")
	_, _ = fmt.Fprintln(w, "--jit\tExecute the compiled module in-process instead of writing output.")
	_, _ = fmt.Fprintln(w, "-O{0,1,2,3,s,z}\tOptimization level. Defaults to -O2.")
	_, _ = fmt.Fprintln(w, "--format=FORMAT\tOne of llvm-ir, llvm-bc, asm, obj, exe, shared. Defaults to exe.")
	_, _ = fmt.Fprintln(w, "--mangle-style=STYLE\tOne of full, minimal, none. Defaults to minimal.")
	_, _ = fmt.Fprintln(w, "--entry=NAME\tEntry point function name. Defaults to main.")
	_, _ = fmt.Fprintln(w, "-o PATH, --output=PATH\tPath of the output file.")
	_, _ = fmt.Fprintln(w, "--target=TRIPLE\tTarget triple. Defaults to the host triple.")
	_, _ = fmt.Fprintln(w, "-I PATH\tImport search path; repeatable.")
	_, _ = fmt.Fprintln(w, "-l NAME\tLink library; repeatable.")
	_, _ = fmt.Fprintln(w, "-L PATH\tLibrary search path; repeatable.")
	_, _ = fmt.Fprintln(w, "-t N\tCompile using N worker threads for per-function passes.")
	_ = w.Flush()
}
