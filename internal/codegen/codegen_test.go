package codegen

import (
	"testing"

	"github.com/lhaig/pinky/internal/encoding"
	"github.com/lhaig/pinky/internal/parser"
)

// compileSource is a small test harness: parse, then generate, failing
// the test immediately if either stage produced a diagnostic.
func compileSource(t *testing.T, src string) *Module {
	t.Helper()
	p := parser.New(src)
	prog := p.Parse()
	if p.Diagnostics().HasErrors() {
		t.Fatalf("parse errors: %s", p.Diagnostics().Format("test"))
	}
	mod, diags := Generate(prog)
	if diags.HasErrors() {
		t.Fatalf("generate errors: %s", diags.Format("test"))
	}
	return mod
}

func sectionIDs(b []byte) []byte {
	var ids []byte
	i := 8 // past magic+version
	for i < len(b) {
		id := b[i]
		ids = append(ids, id)
		i++
		size, n := decodeUleb(b[i:])
		i += n + int(size)
	}
	return ids
}

// decodeUleb is a minimal unsigned-LEB128 decoder for test assertions
// only; production decoding is never needed by this compiler.
func decodeUleb(b []byte) (uint64, int) {
	var result uint64
	var shift uint
	var i int
	for {
		byt := b[i]
		result |= uint64(byt&0x7F) << shift
		i++
		if byt&0x80 == 0 {
			break
		}
		shift += 7
	}
	return result, i
}

func TestModuleHeader(t *testing.T) {
	mod := compileSource(t, "println \"hello\"\n")
	if len(mod.Bytes) < 8 {
		t.Fatalf("module too short: %d bytes", len(mod.Bytes))
	}
	want := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
	got := mod.Bytes[:8]
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("header = % x, want % x", got, want)
		}
	}
}

func TestSectionOrder(t *testing.T) {
	mod := compileSource(t, "x := 5\nprintln x + 10\n")
	ids := sectionIDs(mod.Bytes)
	want := []byte{
		encoding.SectionType,
		encoding.SectionImport,
		encoding.SectionFunction,
		encoding.SectionMemory,
		encoding.SectionGlobal,
		encoding.SectionExport,
		encoding.SectionCode,
		encoding.SectionData,
	}
	if len(ids) != len(want) {
		t.Fatalf("section ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("section[%d] = %d, want %d", i, ids[i], want[i])
		}
	}
}

func TestStringLiteralScenario(t *testing.T) {
	mod := compileSource(t, `println "hello"`+"\n")
	if string(mod.Strings) != "hello" {
		t.Errorf("string table = %q, want %q", mod.Strings, "hello")
	}
}

func TestNumberAdditionScenario(t *testing.T) {
	compileSource(t, "x := 5\nprintln x + 10\n")
}

func TestStringPlusNumberScenario(t *testing.T) {
	compileSource(t, `println "a" + 1`+"\n")
}

func TestIfElseScenario(t *testing.T) {
	compileSource(t, "if 1 < 2 then\nprintln \"y\"\nelse\nprintln \"n\"\nend\n")
}

func TestWhileLoopScenario(t *testing.T) {
	compileSource(t, "i := 1\nwhile i <= 3 do\nprint i\ni := i + 1\nend\n")
}

func TestFunctionCallScenario(t *testing.T) {
	compileSource(t, "func sq(x)\nret x * x\nend\nprintln sq(4)\n")
}

func TestUndeclaredVariableIsCompileError(t *testing.T) {
	p := parser.New("print x\n")
	prog := p.Parse()
	_, diags := Generate(prog)
	if !diags.HasErrors() {
		t.Fatal("expected a diagnostic for undeclared variable")
	}
	first, _ := diags.First()
	if first.Line != 1 {
		t.Errorf("diagnostic line = %d, want 1", first.Line)
	}
}

func TestDuplicateFunctionIsCompileError(t *testing.T) {
	p := parser.New("func f()\nend\nfunc f()\nend\n")
	prog := p.Parse()
	_, diags := Generate(prog)
	if !diags.HasErrors() {
		t.Fatal("expected a diagnostic for duplicate function")
	}
}

func TestArityMismatchIsCompileError(t *testing.T) {
	p := parser.New("func f(a, b)\nret a\nend\nprintln f(1)\n")
	prog := p.Parse()
	_, diags := Generate(prog)
	if !diags.HasErrors() {
		t.Fatal("expected a diagnostic for arity mismatch")
	}
}

func TestNestedIfElifElseScenario(t *testing.T) {
	src := "if 1 < 2 then\nprintln 1\nelif 2 < 3 then\nprintln 2\nelse\nprintln 3\nend\n"
	compileSource(t, src)
}

func TestForLoopDescendingScenario(t *testing.T) {
	compileSource(t, "for i := 10, 1, -1 do\nprint i\nend\n")
}

func TestAndOrShortCircuitScenario(t *testing.T) {
	compileSource(t, "x := true and false\ny := true or false\nprintln x\nprintln y\n")
}

func TestFunctionFallthroughReturnsBoxedNil(t *testing.T) {
	compileSource(t, "func noop()\nend\nprintln noop()\n")
}

func TestBuiltinTypePredicateScenario(t *testing.T) {
	compileSource(t, `println is_string("a")`+"\n")
}

func TestBugPanicsWithCompilerBug(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected bug to panic")
		}
		b, ok := r.(CompilerBug)
		if !ok {
			t.Fatalf("expected CompilerBug, got %T", r)
		}
		if b.Message == "" {
			t.Error("expected a non-empty bug message")
		}
	}()
	bug("unknown statement kind %T", struct{}{})
}

func TestDeterministicOutput(t *testing.T) {
	src := "x := 5\nprintln x + 10\n"
	first := compileSource(t, src)
	second := compileSource(t, src)
	if len(first.Bytes) != len(second.Bytes) {
		t.Fatalf("non-deterministic output lengths: %d vs %d", len(first.Bytes), len(second.Bytes))
	}
	for i := range first.Bytes {
		if first.Bytes[i] != second.Bytes[i] {
			t.Fatalf("byte %d differs between runs: %#x vs %#x", i, first.Bytes[i], second.Bytes[i])
		}
	}
}
