package parser

import (
	"testing"

	"github.com/lhaig/pinky/internal/ast"
)

func TestParseAssignAndPrintln(t *testing.T) {
	p := New("x := 5\nprintln x + 10\n")
	prog := p.Parse()
	if p.Diagnostics().HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", p.Diagnostics().Format("test"))
	}
	if len(prog.Statements) != 2 {
		t.Fatalf("got %d statements, want 2", len(prog.Statements))
	}

	assign, ok := prog.Statements[0].(*ast.AssignStmt)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.AssignStmt", prog.Statements[0])
	}
	if assign.Name != "x" || !assign.Local {
		t.Errorf("assign = %+v, want Name=x Local=true", assign)
	}

	print, ok := prog.Statements[1].(*ast.PrintStmt)
	if !ok {
		t.Fatalf("statement 1 is %T, want *ast.PrintStmt", prog.Statements[1])
	}
	if !print.Newline {
		t.Errorf("expected println statement to have Newline=true")
	}
	bin, ok := print.Value.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.BinAdd {
		t.Fatalf("print value = %+v, want BinAdd expression", print.Value)
	}
}

func TestParseIfElifElse(t *testing.T) {
	src := "if 1 < 2 then\nprintln 1\nelif 2 < 3 then\nprintln 2\nelse\nprintln 3\nend\n"
	p := New(src)
	prog := p.Parse()
	if p.Diagnostics().HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", p.Diagnostics().Format("test"))
	}
	ifStmt, ok := prog.Statements[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.IfStmt", prog.Statements[0])
	}
	if len(ifStmt.Then) != 1 || len(ifStmt.Elifs) != 1 || len(ifStmt.Else) != 1 {
		t.Errorf("if structure = %+v", ifStmt)
	}
}

func TestParseWhileLoop(t *testing.T) {
	src := "i := 1\nwhile i <= 3 do\nprint i\ni := i + 1\nend\n"
	p := New(src)
	prog := p.Parse()
	if p.Diagnostics().HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", p.Diagnostics().Format("test"))
	}
	whileStmt, ok := prog.Statements[1].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("statement 1 is %T, want *ast.WhileStmt", prog.Statements[1])
	}
	if len(whileStmt.Body) != 2 {
		t.Errorf("while body has %d statements, want 2", len(whileStmt.Body))
	}
}

func TestParseFunctionDeclAndCall(t *testing.T) {
	src := "func sq(x)\nret x * x\nend\nprintln sq(4)\n"
	p := New(src)
	prog := p.Parse()
	if p.Diagnostics().HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", p.Diagnostics().Format("test"))
	}
	fn, ok := prog.Statements[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.FunctionDecl", prog.Statements[0])
	}
	if fn.Name != "sq" || len(fn.Params) != 1 || fn.Params[0] != "x" {
		t.Errorf("function decl = %+v", fn)
	}
	print, ok := prog.Statements[1].(*ast.PrintStmt)
	if !ok {
		t.Fatalf("statement 1 is %T, want *ast.PrintStmt", prog.Statements[1])
	}
	call, ok := print.Value.(*ast.CallExpr)
	if !ok || call.Callee != "sq" || len(call.Args) != 1 {
		t.Errorf("call expr = %+v", print.Value)
	}
}

func TestParseForLoopWithStep(t *testing.T) {
	src := "for i := 1, 10, 2 do\nprint i\nend\n"
	p := New(src)
	prog := p.Parse()
	if p.Diagnostics().HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", p.Diagnostics().Format("test"))
	}
	forStmt, ok := prog.Statements[0].(*ast.ForStmt)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.ForStmt", prog.Statements[0])
	}
	if forStmt.Name != "i" || forStmt.Step == nil {
		t.Errorf("for stmt = %+v, want Step present", forStmt)
	}
}

func TestParsePrecedence(t *testing.T) {
	// 2 + 3 * 4 should parse as 2 + (3 * 4)
	p := New("println 2 + 3 * 4\n")
	prog := p.Parse()
	print := prog.Statements[0].(*ast.PrintStmt)
	add, ok := print.Value.(*ast.BinaryExpr)
	if !ok || add.Op != ast.BinAdd {
		t.Fatalf("top-level op = %+v, want BinAdd", print.Value)
	}
	mul, ok := add.Right.(*ast.BinaryExpr)
	if !ok || mul.Op != ast.BinMul {
		t.Fatalf("right operand = %+v, want BinMul", add.Right)
	}
}

func TestParseUndeclaredGrammarErrorRecovers(t *testing.T) {
	p := New("println )\n")
	_ = p.Parse()
	if !p.Diagnostics().HasErrors() {
		t.Errorf("expected a diagnostic for the stray ')'")
	}
}
