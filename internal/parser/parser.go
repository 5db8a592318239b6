package parser

import (
	"fmt"

	"github.com/mikecarlton/qcalc/internal/dateutil"
	"github.com/mikecarlton/qcalc/internal/lexer"
)

// ParseError reports a syntax error with the offending byte position.
type ParseError struct {
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse-error: %s (at byte %d)", e.Message, e.Pos)
}

// reservedWords are Ident-kind tokens the parser treats as operator
// keywords rather than identifier-expression leaves.
var reservedWords = map[string]bool{
	"to": true, "as": true, "in": true,
	"or": true, "xor": true, "and": true,
	"per": true, "mod": true, "of": true,
	"permute": true, "npr": true, "choose": true, "ncr": true,
	"roll": true,
}

// Parser turns a pre-lexed token slice into an Expr tree, per spec.md
// §4.2's precedence table (low to high): sequence, assign, lambda,
// conversion, or, permute/choose, xor, and, shift, additive (with
// mixed-fraction adjacency), multiplicative (with juxtaposition),
// power, unary, of, postfix, primary.
//
// New to the teacher (NewFromString is a one-shot numeric-literal
// parser, not an expression grammar); the overall recursive-descent
// precedence-climbing shape follows common Go parser idiom seen
// nowhere in particular in the pack, since no example repo ships an
// expression-language parser of its own.
type Parser struct {
	toks []lexer.Token
	pos  int
}

// Parse lexes and parses the full input, returning the top-level Expr.
func Parse(src string, style lexer.DecimalStyle) (*Expr, error) {
	lx := lexer.New(src, style)
	var toks []lexer.Token
	for {
		t, err := lx.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.Kind == lexer.EOF {
			break
		}
	}
	p := &Parser{toks: toks}
	e, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != lexer.EOF {
		return nil, &ParseError{Pos: p.cur().Pos, Message: "unexpected trailing input " + p.cur().String()}
	}
	return e, nil
}

func (p *Parser) cur() lexer.Token { return p.toks[p.pos] }

func (p *Parser) peek(n int) lexer.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) isIdent(text string) bool {
	return p.cur().Kind == lexer.Ident && p.cur().Text == text
}

func (p *Parser) isOp(text string) bool {
	return p.cur().Kind == lexer.Op && p.cur().Text == text
}

func (p *Parser) isPunct(text string) bool {
	return p.cur().Kind == lexer.Punct && p.cur().Text == text
}

// 0: sequence
func (p *Parser) parseSequence() (*Expr, error) {
	if p.isPunct(";") || p.cur().Kind == lexer.EOF {
		return &Expr{Kind: KindEmpty, Pos: p.cur().Pos}, nil
	}
	first, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	if !p.isPunct(";") {
		return first, nil
	}
	stmts := []*Expr{first}
	for p.isPunct(";") {
		p.advance()
		if p.cur().Kind == lexer.EOF {
			stmts = append(stmts, &Expr{Kind: KindEmpty, Pos: p.cur().Pos})
			break
		}
		next, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, next)
	}
	return &Expr{Kind: KindSeq, Stmts: stmts, Pos: first.Pos}, nil
}

// 1: assignment (name = expr)
func (p *Parser) parseAssign() (*Expr, error) {
	if p.cur().Kind == lexer.Ident && !reservedWords[p.cur().Text] && p.peek(1).Kind == lexer.Op && p.peek(1).Text == "=" {
		name := p.advance().Text
		pos := p.cur().Pos
		p.advance() // consume '='
		val, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: KindAssign, Target: name, Value: val, Pos: pos}, nil
	}
	return p.parseLambda()
}

// 2: lambda intro (\x.body, \x:body, x => body)
func (p *Parser) parseLambda() (*Expr, error) {
	if p.isPunct("\\") || p.isOp("\\") {
		pos := p.cur().Pos
		p.advance()
		if p.cur().Kind != lexer.Ident {
			return nil, &ParseError{Pos: p.cur().Pos, Message: "expected parameter name after lambda introducer"}
		}
		param := p.advance().Text
		if p.isPunct(".") || p.isPunct(":") {
			p.advance()
		} else {
			return nil, &ParseError{Pos: p.cur().Pos, Message: "expected '.' or ':' after lambda parameter"}
		}
		body, err := p.parseLambda()
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: KindLambda, Param: param, Body: body, Pos: pos}, nil
	}
	if p.cur().Kind == lexer.Ident && !reservedWords[p.cur().Text] && p.peek(1).Kind == lexer.Op && p.peek(1).Text == "=>" {
		param := p.advance().Text
		pos := p.cur().Pos
		p.advance() // consume '=>'
		body, err := p.parseLambda()
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: KindLambda, Param: param, Body: body, Pos: pos}, nil
	}
	return p.parseConversion()
}

// 3: to/as/in
func (p *Parser) parseConversion() (*Expr, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	for p.isIdent("to") || p.isIdent("as") || p.isIdent("in") {
		op := p.advance().Text
		pos := p.cur().Pos
		right, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		left = &Expr{Kind: KindConvert, Name: op, X: left, Y: right, Pos: pos}
	}
	return left, nil
}

// 4: | or
func (p *Parser) parseOr() (*Expr, error) {
	left, err := p.parsePermuteChoose()
	if err != nil {
		return nil, err
	}
	for p.isOp("|") || p.isIdent("or") {
		op := p.advance().Text
		right, err := p.parsePermuteChoose()
		if err != nil {
			return nil, err
		}
		left = &Expr{Kind: KindBinaryOp, Name: normOp(op), X: left, Y: right, Pos: left.Pos}
	}
	return left, nil
}

// special forms permute/nPr, choose/nCr: sit below | and above unary.
func (p *Parser) parsePermuteChoose() (*Expr, error) {
	left, err := p.parseXor()
	if err != nil {
		return nil, err
	}
	for p.isIdent("permute") || p.isIdent("npr") || p.isIdent("choose") || p.isIdent("ncr") {
		op := p.advance().Text
		right, err := p.parseXor()
		if err != nil {
			return nil, err
		}
		left = &Expr{Kind: KindBinaryOp, Name: op, X: left, Y: right, Pos: left.Pos}
	}
	return left, nil
}

// 5: xor
func (p *Parser) parseXor() (*Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.isIdent("xor") {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Expr{Kind: KindBinaryOp, Name: "xor", X: left, Y: right, Pos: left.Pos}
	}
	return left, nil
}

// 6: & and
func (p *Parser) parseAnd() (*Expr, error) {
	left, err := p.parseShift()
	if err != nil {
		return nil, err
	}
	for p.isOp("&") || p.isIdent("and") {
		p.advance()
		right, err := p.parseShift()
		if err != nil {
			return nil, err
		}
		left = &Expr{Kind: KindBinaryOp, Name: "and", X: left, Y: right, Pos: left.Pos}
	}
	return left, nil
}

// 7: << >>
func (p *Parser) parseShift() (*Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.isOp("<<") || p.isOp(">>") {
		op := p.advance().Text
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &Expr{Kind: KindBinaryOp, Name: op, X: left, Y: right, Pos: left.Pos}
	}
	return left, nil
}

// 8/9: + - with mixed-fraction adjacency ("2 3/4" == 2 + 3/4).
func (p *Parser) parseAdditive() (*Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	left, err = p.maybeMixedFraction(left)
	if err != nil {
		return nil, err
	}
	for p.isOp("+") || p.isOp("-") {
		op := p.advance().Text
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		right, err = p.maybeMixedFraction(right)
		if err != nil {
			return nil, err
		}
		left = &Expr{Kind: KindBinaryOp, Name: op, X: left, Y: right, Pos: left.Pos}
	}
	return left, nil
}

// maybeMixedFraction detects "whole num/den" written without an
// explicit '+', spec.md §4.2 level 9: an integer literal directly
// followed by "Num / Num" with no intervening operator token.
func (p *Parser) maybeMixedFraction(whole *Expr) (*Expr, error) {
	if whole.Kind != KindNumberLit {
		return whole, nil
	}
	if p.cur().Kind != lexer.Num || p.peek(1).Kind != lexer.Op || p.peek(1).Text != "/" || p.peek(2).Kind != lexer.Num {
		return whole, nil
	}
	numTok := p.advance()
	p.advance() // consume '/'
	denTok := p.advance()
	num := &Expr{Kind: KindNumberLit, Text: numTok.Text, Base: 10, Pos: numTok.Pos}
	den := &Expr{Kind: KindNumberLit, Text: denTok.Text, Base: 10, Pos: denTok.Pos}
	frac := &Expr{Kind: KindBinaryOp, Name: "/", X: num, Y: den, Pos: numTok.Pos}
	return &Expr{Kind: KindBinaryOp, Name: "+", X: whole, Y: frac, Pos: whole.Pos}, nil
}

// 10: * / per mod % and juxtaposition (handled inside the application chain)
func (p *Parser) parseMultiplicative() (*Expr, error) {
	left, err := p.parseApplicationChain()
	if err != nil {
		return nil, err
	}
	for p.isOp("*") || p.isOp("/") || p.isIdent("per") || p.isIdent("mod") {
		op := p.advance().Text
		if op == "per" {
			op = "/"
		}
		if op == "mod" {
			op = "%"
		}
		right, err := p.parseApplicationChain()
		if err != nil {
			return nil, err
		}
		left = &Expr{Kind: KindBinaryOp, Name: op, X: left, Y: right, Pos: left.Pos}
	}
	return left, nil
}

// parseApplicationChain folds juxtaposed terms ("5 kg", "sin pi",
// "(\x.2x) 5") into left-associative Apply nodes. eval decides per
// operand kind whether a given Apply means unit attachment, function
// application, or percent/unit-suffix parsing.
func (p *Parser) parseApplicationChain() (*Expr, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for p.startsOperand() {
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &Expr{Kind: KindApply, X: left, Y: right, Pos: left.Pos}
	}
	return left, nil
}

func (p *Parser) startsOperand() bool {
	t := p.cur()
	switch t.Kind {
	case lexer.Num, lexer.StringLit, lexer.DateLit, lexer.Dice, lexer.Attribute, lexer.FeetInches:
		return true
	case lexer.Ident:
		return !reservedWords[t.Text]
	case lexer.Punct:
		return t.Text == "("
	}
	return false
}

// 11: ^ **
func (p *Parser) parsePower() (*Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.isOp("^") || p.isOp("**") || (p.cur().Kind == lexer.Op && len(p.cur().Text) > 1 && p.cur().Text[0] == '^') {
		op := p.advance().Text
		if len(op) > 1 && op[0] == '^' && op != "^" && op != "**" {
			// superscript-digit exponent, e.g. "^23" meaning "^23"
			exp := &Expr{Kind: KindNumberLit, Text: op[1:], Base: 10, Pos: left.Pos}
			return &Expr{Kind: KindBinaryOp, Name: "^", X: left, Y: exp, Pos: left.Pos}, nil
		}
		right, err := p.parsePower() // right-associative
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: KindBinaryOp, Name: "^", X: left, Y: right, Pos: left.Pos}, nil
	}
	return left, nil
}

// 12: unary - + (prefix), postfix ! (factorial), and the "roll" prefix keyword.
func (p *Parser) parseUnary() (*Expr, error) {
	if p.isIdent("roll") {
		pos := p.advance().Pos
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: KindUnaryOp, Name: "roll", X: x, Pos: pos}, nil
	}
	if p.isOp("-") || p.isOp("+") {
		op := p.advance().Text
		pos := p.cur().Pos
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: KindUnaryOp, Name: op, X: x, Pos: pos}, nil
	}
	return p.parseOf()
}

// 13: of (right-assoc, tighter than unary, looser than primary)
func (p *Parser) parseOf() (*Expr, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if p.isIdent("of") {
		p.advance()
		right, err := p.parseOf()
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: KindBinaryOp, Name: "of", X: left, Y: right, Pos: left.Pos}, nil
	}
	return left, nil
}

func (p *Parser) parsePostfix() (*Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.isOp("!") || p.isOp("%") {
		op := p.advance()
		x = &Expr{Kind: KindUnaryOp, Name: op.Text, X: x, Postfix: true, Pos: op.Pos}
	}
	return x, nil
}

// 14: literal / ident / parenthesised expression
func (p *Parser) parsePrimary() (*Expr, error) {
	t := p.cur()
	switch t.Kind {
	case lexer.Num:
		p.advance()
		return &Expr{
			Kind: KindNumberLit, Text: t.Text, Base: t.Base, ExplicitDot: t.ExplicitDot,
			RecurStart: t.RecurStart, RecurEnd: t.RecurEnd, ExponentText: t.ExponentText, Pos: t.Pos,
		}, nil
	case lexer.Ident:
		p.advance()
		return &Expr{Kind: KindIdent, Name: t.Text, Pos: t.Pos}, nil
	case lexer.StringLit:
		p.advance()
		return &Expr{Kind: KindStringLit, Str: t.Text, Pos: t.Pos}, nil
	case lexer.DateLit:
		d, err := dateutil.Parse(t.Text)
		if err != nil {
			return nil, &ParseError{Pos: t.Pos, Message: err.Error()}
		}
		p.advance()
		return &Expr{Kind: KindDateLit, Date: d, Pos: t.Pos}, nil
	case lexer.Dice:
		p.advance()
		return &Expr{Kind: KindDiceLit, DiceCount: t.DiceCount, DiceSides: t.DiceSides, Pos: t.Pos}, nil
	case lexer.FeetInches:
		p.advance()
		feet := &Expr{Kind: KindApply, Pos: t.Pos,
			X: &Expr{Kind: KindNumberLit, Text: t.Text, Base: 10, Pos: t.Pos},
			Y: &Expr{Kind: KindIdent, Name: "ft", Pos: t.Pos}}
		inches := &Expr{Kind: KindApply, Pos: t.Pos,
			X: &Expr{Kind: KindNumberLit, Text: t.InchesText, Base: 10, Pos: t.Pos},
			Y: &Expr{Kind: KindIdent, Name: "in", Pos: t.Pos}}
		return &Expr{Kind: KindBinaryOp, Name: "+", X: feet, Y: inches, Pos: t.Pos}, nil
	case lexer.Attribute:
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: KindAttribute, Name: t.Text, X: x, Pos: t.Pos}, nil
	case lexer.Punct:
		if t.Text == "(" {
			p.advance()
			if p.isPunct(")") {
				p.advance()
				return &Expr{Kind: KindEmpty, Pos: t.Pos}, nil
			}
			inner, err := p.parseSequence()
			if err != nil {
				return nil, err
			}
			if !p.isPunct(")") {
				return nil, &ParseError{Pos: p.cur().Pos, Message: "expected ')'"}
			}
			p.advance()
			return inner, nil
		}
	}
	return nil, &ParseError{Pos: t.Pos, Message: "unexpected token " + t.String()}
}

func normOp(op string) string {
	if op == "or" {
		return "|"
	}
	return op
}
