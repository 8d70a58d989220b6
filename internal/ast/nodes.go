// Package ast defines the Pinky abstract syntax tree: the contract
// between the parser and the back-end code generator (spec.md §3).
// Every token-bearing node carries a source position so the back-end
// can attach (line, column, length) to the diagnostics it raises.
package ast

// Pos is a source position: a 1-based line/column plus the length of
// the token the node was built from.
type Pos struct {
	Line   int
	Column int
	Length int
}

// Node is implemented by every AST node.
type Node interface {
	Position() Pos
}

// --- Expressions ---

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// NumberLit is a numeric literal, e.g. `42` or `3.14`.
type NumberLit struct {
	Pos   Pos
	Value float64
}

// BooleanLit is `true` or `false`.
type BooleanLit struct {
	Pos   Pos
	Value bool
}

// StringLit is a double-quoted string literal.
type StringLit struct {
	Pos   Pos
	Value string
}

// NilLit is the `nil` literal.
type NilLit struct {
	Pos Pos
}

// Identifier is a variable or function-parameter reference.
type Identifier struct {
	Pos  Pos
	Name string
}

// Grouping is a parenthesized expression, `(expr)`.
type Grouping struct {
	Pos  Pos
	Expr Expr
}

// UnaryOp identifies a unary operator.
type UnaryOp int

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryNot // ~ : numeric-zero test, see SPEC_FULL.md §4 item 1
)

// UnaryExpr is a prefix unary expression.
type UnaryExpr struct {
	Pos     Pos
	Op      UnaryOp
	Operand Expr
}

// BinaryOp identifies a binary operator.
type BinaryOp int

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinPow
	BinLt
	BinLeq
	BinGt
	BinGeq
	BinEq
	BinNeq
	BinAnd
	BinOr
)

// BinaryExpr is an infix binary expression.
type BinaryExpr struct {
	Pos   Pos
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// CallExpr is a function call, `name(args...)`.
type CallExpr struct {
	Pos    Pos
	Callee string
	Args   []Expr
}

func (*NumberLit) exprNode()  {}
func (*BooleanLit) exprNode() {}
func (*StringLit) exprNode()  {}
func (*NilLit) exprNode()     {}
func (*Identifier) exprNode() {}
func (*Grouping) exprNode()   {}
func (*UnaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}
func (*CallExpr) exprNode()   {}

func (n *NumberLit) Position() Pos  { return n.Pos }
func (n *BooleanLit) Position() Pos { return n.Pos }
func (n *StringLit) Position() Pos  { return n.Pos }
func (n *NilLit) Position() Pos     { return n.Pos }
func (n *Identifier) Position() Pos { return n.Pos }
func (n *Grouping) Position() Pos   { return n.Pos }
func (n *UnaryExpr) Position() Pos  { return n.Pos }
func (n *BinaryExpr) Position() Pos { return n.Pos }
func (n *CallExpr) Position() Pos   { return n.Pos }

// --- Statements ---

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// PrintStmt is `print expr` or `println expr`.
type PrintStmt struct {
	Pos     Pos
	Newline bool
	Value   Expr
}

// AssignStmt assigns to a variable. Local reports whether it is a
// local-declaration form (`:=`, always binds a new slot in the top
// scope) as opposed to plain assignment (`=`, updates the nearest
// existing binding or creates one in the top scope if none exists).
type AssignStmt struct {
	Pos   Pos
	Name  string
	Local bool
	Value Expr
}

// ExprStmt is a bare expression used as a statement.
type ExprStmt struct {
	Pos  Pos
	Expr Expr
}

// ReturnStmt is `ret expr`.
type ReturnStmt struct {
	Pos   Pos
	Value Expr
}

// ElifBranch is one `elif cond then body` arm of an IfStmt.
type ElifBranch struct {
	Condition Expr
	Body      []Stmt
}

// IfStmt is `if cond then body (elif cond then body)* (else body)? end`.
type IfStmt struct {
	Pos       Pos
	Condition Expr
	Then      []Stmt
	Elifs     []ElifBranch
	Else      []Stmt
}

// WhileStmt is `while cond do body end`.
type WhileStmt struct {
	Pos       Pos
	Condition Expr
	Body      []Stmt
}

// ForStmt is the numeric `for name := start, stop[, step] do body end`.
type ForStmt struct {
	Pos   Pos
	Name  string
	Start Expr
	Stop  Expr
	Step  Expr // nil if absent; lowering defaults it to +1
	Body  []Stmt
}

// FunctionDecl is `func name(params) body end`.
type FunctionDecl struct {
	Pos    Pos
	Name   string
	Params []string
	Body   []Stmt
}

func (*PrintStmt) stmtNode()    {}
func (*AssignStmt) stmtNode()   {}
func (*ExprStmt) stmtNode()     {}
func (*ReturnStmt) stmtNode()   {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*ForStmt) stmtNode()      {}
func (*FunctionDecl) stmtNode() {}

func (n *PrintStmt) Position() Pos    { return n.Pos }
func (n *AssignStmt) Position() Pos   { return n.Pos }
func (n *ExprStmt) Position() Pos     { return n.Pos }
func (n *ReturnStmt) Position() Pos   { return n.Pos }
func (n *IfStmt) Position() Pos       { return n.Pos }
func (n *WhileStmt) Position() Pos    { return n.Pos }
func (n *ForStmt) Position() Pos      { return n.Pos }
func (n *FunctionDecl) Position() Pos { return n.Pos }

// Program is the root node: the top-level statement sequence.
type Program struct {
	Statements []Stmt
}
