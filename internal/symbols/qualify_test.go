package symbols

import "testing"

func TestQualifyNameGlobalScope(t *testing.T) {
	global := CreateScope("global", Global, nil)
	if got := QualifyName(global, "main"); got != "main" {
		t.Errorf("QualifyName() = %q, want %q", got, "main")
	}
}

func TestQualifyNameCrossesModuleBoundaryOnce(t *testing.T) {
	mod := &ModuleSymbol{QName: "net::http"}
	moduleScope := CreateScope("http", Module, nil)
	moduleScope.ModuleSym = mod

	if got := QualifyName(moduleScope, "Listen"); got != "net::http::Listen" {
		t.Errorf("QualifyName() = %q, want %q", got, "net::http::Listen")
	}
}

func TestQualifyNameStructScope(t *testing.T) {
	mod := &ModuleSymbol{QName: "net"}
	moduleScope := CreateScope("net", Module, nil)
	moduleScope.ModuleSym = mod
	structScope := CreateScope("Listener", Struct, moduleScope)

	if got := QualifyName(structScope, "accept"); got != "net::Listener::accept" {
		t.Errorf("QualifyName() = %q, want %q", got, "net::Listener::accept")
	}
}

func TestQualifyNameFunctionScopeContributesNothing(t *testing.T) {
	mod := &ModuleSymbol{QName: "net"}
	moduleScope := CreateScope("net", Module, nil)
	moduleScope.ModuleSym = mod
	fnScope := CreateScope("connect", Function, moduleScope)
	blockScope := CreateScope("", Anonymous, fnScope)

	if got := QualifyName(blockScope, "buf"); got != "net::buf" {
		t.Errorf("QualifyName() = %q, want %q", got, "net::buf")
	}
}

func TestLinkNamePrecedence(t *testing.T) {
	fn := &FunctionSymbol{QName: "net::connect", Linkage: LinkageUnspecified}
	if got := LinkName(fn, "", "connect"); got != "net::connect" {
		t.Errorf("LinkName() = %q, want qualified name by default", got)
	}

	cFn := &FunctionSymbol{QName: "net::connect", Linkage: LinkageC}
	if got := LinkName(cFn, "", "connect"); got != "connect" {
		t.Errorf("LinkName() = %q, want bare name for C linkage", got)
	}

	if got := LinkName(fn, "my_connect", "connect"); got != "my_connect" {
		t.Errorf("LinkName() = %q, want the explicit attribute override", got)
	}
}
