package script

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Program is the root of the maze language AST.
//
// The language is a deliberately small imperative subset: action and
// predicate calls, if/else chains, while loops and bounded repeats over
// boolean conditions. There are no variables and no arithmetic.
type Program struct {
	Statements []*Statement `parser:"@@*"`
}

type Statement struct {
	If     *IfStmt     `parser:"@@"`
	While  *WhileStmt  `parser:"| @@"`
	Repeat *RepeatStmt `parser:"| @@"`
	Call   *CallStmt   `parser:"| @@ ';'"`
}

type Block struct {
	Statements []*Statement `parser:"'{' @@* '}'"`
}

type IfStmt struct {
	Pos    lexer.Position
	Cond   *Expr  `parser:"'if' @@"`
	Then   *Block `parser:"@@"`
	ElseIf *IfStmt `parser:"( 'else' ( @@"`
	Else   *Block  `parser:"| @@ ) )?"`
}

type WhileStmt struct {
	Pos  lexer.Position
	Cond *Expr  `parser:"'while' @@"`
	Body *Block `parser:"@@"`
}

type RepeatStmt struct {
	Pos   lexer.Position
	Count int    `parser:"'repeat' @Int"`
	Body  *Block `parser:"@@"`
}

type CallStmt struct {
	Pos  lexer.Position
	Name string `parser:"@Ident '(' ')'"`
}

// Expr is a boolean expression; 'or' binds loosest, then 'and', then 'not'.
type Expr struct {
	Left *AndExpr   `parser:"@@"`
	Rest []*AndExpr `parser:"( 'or' @@ )*"`
}

type AndExpr struct {
	Left *NotExpr   `parser:"@@"`
	Rest []*NotExpr `parser:"( 'and' @@ )*"`
}

type NotExpr struct {
	Not  *NotExpr `parser:"'not' @@"`
	Term *Term    `parser:"| @@"`
}

type Term struct {
	Pos   lexer.Position
	True  bool      `parser:"@'true'"`
	False bool      `parser:"| @'false'"`
	Paren *Expr     `parser:"| '(' @@ ')'"`
	Call  *CallStmt `parser:"| @@"`
}

var parser = participle.MustBuild[Program]()

// Parse compiles source text into a Program. Errors carry the source
// position of the offending token.
func Parse(src string) (*Program, error) {
	return parser.ParseString("program", src)
}
