// Package parser builds an Expr AST from a lexer.Lexer token stream
// per spec.md §4.2's Pratt-style precedence table.
//
// New to the teacher (a one-shot RPN calculator has no AST); grounded
// on the overall "small tagged struct per node kind, pure functions"
// shape used throughout the pack rather than any one teacher file.
package parser

import "github.com/mikecarlton/qcalc/internal/dateutil"

// Expr is a node in the parsed expression tree. Kind tags which fields
// are meaningful; unused fields are left zero.
type Expr struct {
	Kind Kind
	Pos  int

	// NumberLit
	Text         string
	Base         int
	ExplicitDot  bool
	RecurStart   int
	RecurEnd     int
	ExponentText string

	// Ident / Attribute name, UnaryOp/BinaryOp/Convert operator text
	Name string

	// StringLit
	Str string

	// DateLit
	Date dateutil.Date

	// DiceLit
	DiceCount int
	DiceSides int

	// Unary/Binary/Convert/Apply/Attribute/Lambda operands
	X, Y *Expr

	// Lambda
	Param string
	Body  *Expr

	// Assign
	Target string
	Value  *Expr

	// Seq
	Stmts []*Expr

	// UnaryOp: true if X! (postfix factorial) rather than prefix -X/+X
	Postfix bool
}

// Kind identifies an Expr node's shape.
type Kind int

const (
	KindNumberLit Kind = iota
	KindIdent
	KindStringLit
	KindDateLit
	KindDiceLit
	KindUnaryOp
	KindBinaryOp
	KindAssign
	KindSeq
	KindLambda
	KindApply
	KindConvert
	KindAttribute
	KindFormatSpec // e.g. "3 dp", "fraction", "hex" named as a conversion target
	KindEmpty      // unit value () — empty sequence / trailing separator
)

// FormatSpecNode builds a node naming the text of a non-unit conversion target parsed on
// the right-hand side of to/as/in: "dp"/"sf" carry N in Base.
func FormatSpecNode(name string, n int, pos int) *Expr {
	return &Expr{Kind: KindFormatSpec, Name: name, Base: n, Pos: pos}
}
