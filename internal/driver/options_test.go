package driver

import (
	"reflect"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opt := DefaultOptions()
	if opt.OptLevel != "2" {
		t.Errorf("OptLevel = %q, want %q", opt.OptLevel, "2")
	}
	if opt.Format != FormatExe {
		t.Errorf("Format = %v, want FormatExe", opt.Format)
	}
	if opt.Mangle != MangleMinimal {
		t.Errorf("Mangle = %v, want MangleMinimal", opt.Mangle)
	}
	if opt.Entry != "main" {
		t.Errorf("Entry = %q, want %q", opt.Entry, "main")
	}
	if opt.Threads != 1 {
		t.Errorf("Threads = %d, want 1", opt.Threads)
	}
}

func TestParseArgsBasicFlags(t *testing.T) {
	opt, err := ParseArgs([]string{"--verbose", "--no-libc", "--jit", "main.qr"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !opt.Verbose || !opt.NoLibc || !opt.JIT {
		t.Fatalf("boolean flags not set: %+v", opt)
	}
	if !reflect.DeepEqual(opt.Inputs, []string{"main.qr"}) {
		t.Fatalf("Inputs = %v, want [main.qr]", opt.Inputs)
	}
}

func TestParseArgsOptLevel(t *testing.T) {
	tests := []struct {
		arg     string
		want    string
		wantErr bool
	}{
		{"-O0", "0", false},
		{"-O1", "1", false},
		{"-O2", "2", false},
		{"-O3", "3", false},
		{"-Os", "s", false},
		{"-Oz", "z", false},
		{"-O9", "", true},
	}
	for _, tt := range tests {
		opt, err := ParseArgs([]string{tt.arg})
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error, got none", tt.arg)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %s", tt.arg, err)
			continue
		}
		if opt.OptLevel != tt.want {
			t.Errorf("%s: OptLevel = %q, want %q", tt.arg, opt.OptLevel, tt.want)
		}
	}
}

func TestParseArgsFormat(t *testing.T) {
	tests := []struct {
		value   string
		want    Format
		wantErr bool
	}{
		{"llvm-ir", FormatLLVMIR, false},
		{"llvm-bc", FormatLLVMBC, false},
		{"asm", FormatAssembly, false},
		{"obj", FormatObject, false},
		{"exe", FormatExe, false},
		{"shared", FormatShared, false},
		{"bogus", 0, true},
	}
	for _, tt := range tests {
		opt, err := ParseArgs([]string{"--format=" + tt.value})
		if tt.wantErr {
			if err == nil {
				t.Errorf("--format=%s: expected error, got none", tt.value)
			}
			continue
		}
		if err != nil {
			t.Errorf("--format=%s: unexpected error: %s", tt.value, err)
			continue
		}
		if opt.Format != tt.want {
			t.Errorf("--format=%s: Format = %v, want %v", tt.value, opt.Format, tt.want)
		}
	}
}

func TestParseArgsMangleStyle(t *testing.T) {
	tests := []struct {
		value   string
		want    MangleStyle
		wantErr bool
	}{
		{"full", MangleFull, false},
		{"minimal", MangleMinimal, false},
		{"none", MangleNone, false},
		{"bogus", 0, true},
	}
	for _, tt := range tests {
		opt, err := ParseArgs([]string{"--mangle-style=" + tt.value})
		if tt.wantErr {
			if err == nil {
				t.Errorf("--mangle-style=%s: expected error, got none", tt.value)
			}
			continue
		}
		if err != nil {
			t.Errorf("--mangle-style=%s: unexpected error: %s", tt.value, err)
			continue
		}
		if opt.Mangle != tt.want {
			t.Errorf("--mangle-style=%s: Mangle = %v, want %v", tt.value, opt.Mangle, tt.want)
		}
	}
}

func TestParseArgsOutput(t *testing.T) {
	opt, err := ParseArgs([]string{"-o", "prog"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if opt.Output != "prog" {
		t.Errorf("Output = %q, want %q", opt.Output, "prog")
	}

	opt, err = ParseArgs([]string{"--output=prog2"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if opt.Output != "prog2" {
		t.Errorf("Output = %q, want %q", opt.Output, "prog2")
	}

	if _, err := ParseArgs([]string{"-o"}); err == nil {
		t.Error("expected error for -o with no argument")
	}
}

func TestParseArgsRepeatableFlags(t *testing.T) {
	opt, err := ParseArgs([]string{
		"-I", "/usr/include/quart",
		"-I/vendor/quart",
		"-l", "m",
		"-lpthread",
		"-L", "/usr/lib",
		"-L/opt/lib",
	})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	wantImports := []string{"/usr/include/quart", "/vendor/quart"}
	if !reflect.DeepEqual(opt.ImportPaths, wantImports) {
		t.Errorf("ImportPaths = %v, want %v", opt.ImportPaths, wantImports)
	}
	wantLibs := []string{"m", "pthread"}
	if !reflect.DeepEqual(opt.LinkLibraries, wantLibs) {
		t.Errorf("LinkLibraries = %v, want %v", opt.LinkLibraries, wantLibs)
	}
	wantLibPaths := []string{"/usr/lib", "/opt/lib"}
	if !reflect.DeepEqual(opt.LibraryPaths, wantLibPaths) {
		t.Errorf("LibraryPaths = %v, want %v", opt.LibraryPaths, wantLibPaths)
	}
}

func TestParseArgsThreads(t *testing.T) {
	opt, err := ParseArgs([]string{"-t", "4"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if opt.Threads != 4 {
		t.Errorf("Threads = %d, want 4", opt.Threads)
	}

	if _, err := ParseArgs([]string{"-t", "0"}); err == nil {
		t.Error("expected error for non-positive thread count")
	}
	if _, err := ParseArgs([]string{"-t", "nope"}); err == nil {
		t.Error("expected error for non-numeric thread count")
	}
	if _, err := ParseArgs([]string{"-t"}); err == nil {
		t.Error("expected error for -t with no argument")
	}
}

func TestParseArgsUnknownFlag(t *testing.T) {
	if _, err := ParseArgs([]string{"--bogus-flag"}); err == nil {
		t.Error("expected error for unrecognized flag")
	}
}

func TestParseArgsTargetAndEntry(t *testing.T) {
	opt, err := ParseArgs([]string{"--target=x86_64-unknown-linux-gnu", "--entry=start"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if opt.Target != "x86_64-unknown-linux-gnu" {
		t.Errorf("Target = %q, want x86_64-unknown-linux-gnu", opt.Target)
	}
	if opt.Entry != "start" {
		t.Errorf("Entry = %q, want start", opt.Entry)
	}
}

func TestOutputExtension(t *testing.T) {
	tests := []struct {
		format  Format
		windows bool
		want    string
	}{
		{FormatObject, false, "o"},
		{FormatLLVMIR, false, "ll"},
		{FormatLLVMBC, false, "bc"},
		{FormatAssembly, false, "s"},
		{FormatShared, false, "so"},
		{FormatShared, true, "lib"},
		{FormatExe, false, ""},
	}
	for _, tt := range tests {
		got := OutputExtension(tt.format, tt.windows)
		if got != tt.want {
			t.Errorf("OutputExtension(%v, %v) = %q, want %q", tt.format, tt.windows, got, tt.want)
		}
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		name string
		opt  Options
		want string
	}{
		{
			name: "explicit output wins",
			opt:  Options{Output: "explicit", Inputs: []string{"foo.qr"}, Format: FormatObject},
			want: "explicit",
		},
		{
			name: "derived from input and format",
			opt:  Options{Inputs: []string{"src/foo.qr"}, Format: FormatObject},
			want: "foo.o",
		},
		{
			name: "exe has no extension",
			opt:  Options{Inputs: []string{"foo.qr"}, Format: FormatExe},
			want: "foo",
		},
		{
			name: "no inputs falls back to a.out",
			opt:  Options{Format: FormatExe},
			want: "a.out",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DefaultOutputPath(tt.opt)
			if got != tt.want {
				t.Errorf("DefaultOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
