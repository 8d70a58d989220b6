// Package parser turns a Pinky token stream into an ast.Program using
// recursive descent with precedence climbing for expressions. It is a
// producer for the back-end (spec.md §1): it never performs semantic
// validation (undeclared variables, arity, …) — that is the AST
// Lowering component's job (spec.md §4.E).
package parser

import (
	"github.com/lhaig/pinky/internal/ast"
	"github.com/lhaig/pinky/internal/diagnostic"
	"github.com/lhaig/pinky/internal/lexer"
)

// Parser parses a token stream into an AST.
type Parser struct {
	tokens []lexer.Token
	pos    int
	diags  *diagnostic.Diagnostics
}

// New creates a new Parser over source.
func New(source string) *Parser {
	return &Parser{
		tokens: lexer.Tokenize(source),
		diags:  diagnostic.New(),
	}
}

// Diagnostics returns the parser's accumulated diagnostics.
func (p *Parser) Diagnostics() *diagnostic.Diagnostics {
	return p.diags
}

func (p *Parser) current() lexer.Token { return p.tokens[p.pos] }

func (p *Parser) peekAt(offset int) lexer.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if tok.Type != lexer.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) check(t lexer.TokenType) bool {
	return p.current().Type == t
}

func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) expect(t lexer.TokenType) lexer.Token {
	if p.check(t) {
		return p.advance()
	}
	tok := p.current()
	p.diags.Errorf(tok.Line, tok.Column, tok.Length, "expected %s, found %s", t, tok.Type)
	return tok
}

// skipNewlines consumes zero or more NEWLINE tokens, the statement
// separators between top-level and block statements.
func (p *Parser) skipNewlines() {
	for p.check(lexer.NEWLINE) {
		p.advance()
	}
}

func pos(tok lexer.Token) ast.Pos {
	return ast.Pos{Line: tok.Line, Column: tok.Column, Length: tok.Length}
}

// Parse parses the entire token stream into a Program.
func (p *Parser) Parse() *ast.Program {
	prog := &ast.Program{}
	p.skipNewlines()
	for !p.check(lexer.EOF) {
		stmt := p.parseStmt()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		if !p.check(lexer.EOF) && !p.check(lexer.NEWLINE) {
			// Statement didn't consume to a separator; avoid an
			// infinite loop by forcing progress.
			if p.pos < len(p.tokens)-1 {
				tok := p.current()
				p.diags.Errorf(tok.Line, tok.Column, tok.Length, "unexpected token %s", tok.Type)
				p.advance()
			}
		}
		p.skipNewlines()
	}
	return prog
}

func (p *Parser) parseBlock(terminators ...lexer.TokenType) []ast.Stmt {
	var stmts []ast.Stmt
	p.skipNewlines()
	for !p.atTerminator(terminators...) && !p.check(lexer.EOF) {
		stmt := p.parseStmt()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.skipNewlines()
	}
	return stmts
}

func (p *Parser) atTerminator(terminators ...lexer.TokenType) bool {
	for _, t := range terminators {
		if p.check(t) {
			return true
		}
	}
	return false
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.current().Type {
	case lexer.PRINT, lexer.PRINTLN:
		return p.parsePrintStmt()
	case lexer.IF:
		return p.parseIfStmt()
	case lexer.WHILE:
		return p.parseWhileStmt()
	case lexer.FOR:
		return p.parseForStmt()
	case lexer.FUNC:
		return p.parseFunctionDecl()
	case lexer.RET:
		return p.parseReturnStmt()
	case lexer.IDENT:
		if p.peekAt(1).Type == lexer.ASSIGN || p.peekAt(1).Type == lexer.LOCALDEF {
			return p.parseAssignStmt()
		}
		return p.parseExprStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parsePrintStmt() ast.Stmt {
	tok := p.advance()
	value := p.parseExpr()
	return &ast.PrintStmt{Pos: pos(tok), Newline: tok.Type == lexer.PRINTLN, Value: value}
}

func (p *Parser) parseAssignStmt() ast.Stmt {
	name := p.advance()
	opTok := p.advance()
	value := p.parseExpr()
	return &ast.AssignStmt{
		Pos:   pos(name),
		Name:  name.Lexeme,
		Local: opTok.Type == lexer.LOCALDEF,
		Value: value,
	}
}

func (p *Parser) parseExprStmt() ast.Stmt {
	tok := p.current()
	expr := p.parseExpr()
	return &ast.ExprStmt{Pos: pos(tok), Expr: expr}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	tok := p.advance()
	value := p.parseExpr()
	return &ast.ReturnStmt{Pos: pos(tok), Value: value}
}

func (p *Parser) parseIfStmt() ast.Stmt {
	tok := p.advance() // 'if'
	cond := p.parseExpr()
	p.expect(lexer.THEN)
	then := p.parseBlock(lexer.ELIF, lexer.ELSE, lexer.END)

	stmt := &ast.IfStmt{Pos: pos(tok), Condition: cond, Then: then}

	for p.check(lexer.ELIF) {
		p.advance()
		elifCond := p.parseExpr()
		p.expect(lexer.THEN)
		elifBody := p.parseBlock(lexer.ELIF, lexer.ELSE, lexer.END)
		stmt.Elifs = append(stmt.Elifs, ast.ElifBranch{Condition: elifCond, Body: elifBody})
	}

	if p.check(lexer.ELSE) {
		p.advance()
		stmt.Else = p.parseBlock(lexer.END)
	}

	p.expect(lexer.END)
	return stmt
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	tok := p.advance() // 'while'
	cond := p.parseExpr()
	p.expect(lexer.DO)
	body := p.parseBlock(lexer.END)
	p.expect(lexer.END)
	return &ast.WhileStmt{Pos: pos(tok), Condition: cond, Body: body}
}

func (p *Parser) parseForStmt() ast.Stmt {
	tok := p.advance() // 'for'
	name := p.expect(lexer.IDENT)
	p.expect(lexer.LOCALDEF)
	start := p.parseExpr()
	p.expect(lexer.COMMA)
	stop := p.parseExpr()

	var step ast.Expr
	if p.check(lexer.COMMA) {
		p.advance()
		step = p.parseExpr()
	}

	p.expect(lexer.DO)
	body := p.parseBlock(lexer.END)
	p.expect(lexer.END)

	return &ast.ForStmt{Pos: pos(tok), Name: name.Lexeme, Start: start, Stop: stop, Step: step, Body: body}
}

func (p *Parser) parseFunctionDecl() ast.Stmt {
	tok := p.advance() // 'func'
	name := p.expect(lexer.IDENT)
	p.expect(lexer.LPAREN)

	var params []string
	for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
		param := p.expect(lexer.IDENT)
		params = append(params, param.Lexeme)
		if p.check(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RPAREN)

	body := p.parseBlock(lexer.END)
	p.expect(lexer.END)

	return &ast.FunctionDecl{Pos: pos(tok), Name: name.Lexeme, Params: params, Body: body}
}

// --- Expressions: precedence climbing ---
//
// or
// and
// equality:    == ~=
// comparison:  < <= > >=
// additive:    + -
// multiplicative: * / %
// power:       ^           (right-associative)
// unary:       + - ~
// call/primary

func (p *Parser) parseExpr() ast.Expr {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.check(lexer.OR) {
		tok := p.advance()
		right := p.parseAnd()
		left = &ast.BinaryExpr{Pos: pos(tok), Op: ast.BinOr, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseEquality()
	for p.check(lexer.AND) {
		tok := p.advance()
		right := p.parseEquality()
		left = &ast.BinaryExpr{Pos: pos(tok), Op: ast.BinAnd, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseComparison()
	for p.check(lexer.EQ) || p.check(lexer.NEQ) {
		tok := p.advance()
		op := ast.BinEq
		if tok.Type == lexer.NEQ {
			op = ast.BinNeq
		}
		right := p.parseComparison()
		left = &ast.BinaryExpr{Pos: pos(tok), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseAdditive()
	for p.check(lexer.LT) || p.check(lexer.LEQ) || p.check(lexer.GT) || p.check(lexer.GEQ) {
		tok := p.advance()
		var op ast.BinaryOp
		switch tok.Type {
		case lexer.LT:
			op = ast.BinLt
		case lexer.LEQ:
			op = ast.BinLeq
		case lexer.GT:
			op = ast.BinGt
		case lexer.GEQ:
			op = ast.BinGeq
		}
		right := p.parseAdditive()
		left = &ast.BinaryExpr{Pos: pos(tok), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.check(lexer.PLUS) || p.check(lexer.MINUS) {
		tok := p.advance()
		op := ast.BinAdd
		if tok.Type == lexer.MINUS {
			op = ast.BinSub
		}
		right := p.parseMultiplicative()
		left = &ast.BinaryExpr{Pos: pos(tok), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parsePower()
	for p.check(lexer.STAR) || p.check(lexer.SLASH) || p.check(lexer.PERCENT) {
		tok := p.advance()
		var op ast.BinaryOp
		switch tok.Type {
		case lexer.STAR:
			op = ast.BinMul
		case lexer.SLASH:
			op = ast.BinDiv
		case lexer.PERCENT:
			op = ast.BinMod
		}
		right := p.parsePower()
		left = &ast.BinaryExpr{Pos: pos(tok), Op: op, Left: left, Right: right}
	}
	return left
}

// parsePower is right-associative: 2 ^ 3 ^ 2 == 2 ^ (3 ^ 2).
func (p *Parser) parsePower() ast.Expr {
	left := p.parseUnary()
	if p.check(lexer.CARET) {
		tok := p.advance()
		right := p.parsePower()
		return &ast.BinaryExpr{Pos: pos(tok), Op: ast.BinPow, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.current().Type {
	case lexer.PLUS:
		tok := p.advance()
		return &ast.UnaryExpr{Pos: pos(tok), Op: ast.UnaryPlus, Operand: p.parseUnary()}
	case lexer.MINUS:
		tok := p.advance()
		return &ast.UnaryExpr{Pos: pos(tok), Op: ast.UnaryMinus, Operand: p.parseUnary()}
	case lexer.NOT:
		tok := p.advance()
		return &ast.UnaryExpr{Pos: pos(tok), Op: ast.UnaryNot, Operand: p.parseUnary()}
	default:
		return p.parseCall()
	}
}

func (p *Parser) parseCall() ast.Expr {
	primary := p.parsePrimary()

	if ident, ok := primary.(*ast.Identifier); ok && p.check(lexer.LPAREN) {
		tok := p.advance() // '('
		var args []ast.Expr
		for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
			args = append(args, p.parseExpr())
			if p.check(lexer.COMMA) {
				p.advance()
			} else {
				break
			}
		}
		p.expect(lexer.RPAREN)
		return &ast.CallExpr{Pos: pos(tok), Callee: ident.Name, Args: args}
	}

	return primary
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.current()
	switch tok.Type {
	case lexer.NUMBER:
		p.advance()
		return &ast.NumberLit{Pos: pos(tok), Value: parseFloat(tok.Lexeme)}
	case lexer.STRING:
		p.advance()
		return &ast.StringLit{Pos: pos(tok), Value: tok.Lexeme}
	case lexer.TRUE:
		p.advance()
		return &ast.BooleanLit{Pos: pos(tok), Value: true}
	case lexer.FALSE:
		p.advance()
		return &ast.BooleanLit{Pos: pos(tok), Value: false}
	case lexer.NIL:
		p.advance()
		return &ast.NilLit{Pos: pos(tok)}
	case lexer.IDENT:
		p.advance()
		return &ast.Identifier{Pos: pos(tok), Name: tok.Lexeme}
	case lexer.LPAREN:
		p.advance()
		inner := p.parseExpr()
		p.expect(lexer.RPAREN)
		return &ast.Grouping{Pos: pos(tok), Expr: inner}
	default:
		p.diags.Errorf(tok.Line, tok.Column, tok.Length, "unexpected token %s in expression", tok.Type)
		p.advance()
		return &ast.NilLit{Pos: pos(tok)}
	}
}

func parseFloat(s string) float64 {
	var intPart, fracPart float64
	var fracDiv float64 = 1
	seenDot := false
	for _, c := range s {
		if c == '.' {
			seenDot = true
			continue
		}
		d := float64(c - '0')
		if seenDot {
			fracDiv *= 10
			fracPart = fracPart*10 + d
		} else {
			intPart = intPart*10 + d
		}
	}
	return intPart + fracPart/fracDiv
}
