package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lhaig/pinky/internal/codegen"
)

func TestCompileValidProgram(t *testing.T) {
	res := Compile("println \"hello\"\n")
	if res.Diagnostics != nil && res.Diagnostics.HasErrors() {
		t.Fatalf("expected no errors, got:\n%s", res.Diagnostics.Format("test"))
	}
	if len(res.Bytes) < 8 {
		t.Fatal("expected a non-empty WASM module")
	}
	want := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
	for i, b := range want {
		if res.Bytes[i] != b {
			t.Fatalf("header = % x, want % x", res.Bytes[:8], want)
		}
	}
}

func TestCompileParseError(t *testing.T) {
	res := Compile("println )\n")
	if res.Diagnostics == nil || !res.Diagnostics.HasErrors() {
		t.Fatal("expected parse errors")
	}
	if res.Bytes != nil {
		t.Error("expected no bytes on parse error")
	}
}

func TestCompileLoweringError(t *testing.T) {
	res := Compile("print x\n")
	if res.Diagnostics == nil || !res.Diagnostics.HasErrors() {
		t.Fatal("expected a lowering error for the undeclared variable")
	}
	if res.Bytes != nil {
		t.Error("expected no bytes on lowering error")
	}
}

func TestCheckValidProgram(t *testing.T) {
	if diags := Check("println \"hello\"\n"); diags.HasErrors() {
		t.Fatalf("expected no errors, got:\n%s", diags.Format("test"))
	}
}

func TestCheckUndeclaredVariable(t *testing.T) {
	diags := Check("print x\n")
	if !diags.HasErrors() {
		t.Fatal("expected an error for the undeclared variable")
	}
	first, _ := diags.First()
	if first.Line != 1 {
		t.Errorf("diagnostic line = %d, want 1", first.Line)
	}
}

func TestEmitWasmWritesFile(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.wasm")

	if err := EmitWasm("println \"hi\"\n", outPath); err != nil {
		t.Fatalf("EmitWasm: %v", err)
	}

	bytes, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading emitted file: %v", err)
	}
	if len(bytes) < 8 {
		t.Fatal("emitted file too short to be a valid WASM module")
	}
}

func TestRecoverBugReportsCompilerBugOnResult(t *testing.T) {
	triggerBug := func() (result *Result) {
		defer recoverBug(&result)
		panic(codegen.CompilerBug{Message: "unknown statement kind *ast.NoSuchNode"})
	}

	res := triggerBug()
	if res.Bug == nil {
		t.Fatal("expected Bug to be set")
	}
	if res.Diagnostics != nil {
		t.Error("a compiler bug must not also populate Diagnostics")
	}
	if res.Bug.Error() == "" {
		t.Error("expected a non-empty bug message")
	}
}

func TestRecoverBugRepanicsOnUnrelatedPanic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected an unrelated panic to propagate past recoverBug")
		}
	}()
	triggerOther := func() (result *Result) {
		defer recoverBug(&result)
		panic("not a compiler bug")
	}
	triggerOther()
}

func TestEmitWasmPropagatesCompileErrors(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.wasm")

	err := EmitWasm("print x\n", outPath)
	if err == nil {
		t.Fatal("expected EmitWasm to fail for an undeclared variable")
	}
	if _, statErr := os.Stat(outPath); statErr == nil {
		t.Error("expected no file to be written on compile error")
	}
}
