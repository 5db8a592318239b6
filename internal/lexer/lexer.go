package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DecimalStyle controls whether '.' or ',' is the fractional separator,
// spec.md §4.1 "with decimal-separator-style=comma, roles of '.' and
// ',' swap".
type DecimalStyle int

const (
	DecimalDot DecimalStyle = iota
	DecimalComma
)

// unicodeOpReplacements maps single Unicode operator runes to their
// ASCII equivalent token text, spec.md §4.1.
var unicodeOpReplacements = map[rune]string{
	'×': "*", '÷': "/", '≠': "!=",
}

var superscriptDigits = map[rune]rune{
	'⁰': '0', '¹': '1', '²': '2', '³': '3', '⁴': '4',
	'⁵': '5', '⁶': '6', '⁷': '7', '⁸': '8', '⁹': '9',
}

// Lexer scans UTF-8 input into tokens.
type Lexer struct {
	src          string
	pos          int // byte offset
	style        DecimalStyle
	atLineStart  bool
	lineNumber   int
}

// New creates a Lexer over src with the given decimal separator style.
func New(src string, style DecimalStyle) *Lexer {
	return &Lexer{src: src, style: style, atLineStart: true, lineNumber: 1}
}

func (l *Lexer) eof() bool { return l.pos >= len(l.src) }

func (l *Lexer) peekByte() byte {
	if l.eof() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekRune() (rune, int) {
	if l.eof() {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.src[l.pos:])
}

func (l *Lexer) skipSpacesAndComments() {
	for !l.eof() {
		r, size := l.peekRune()
		if r == '\n' {
			l.pos += size
			l.atLineStart = true
			l.lineNumber++
			continue
		}
		if unicode.IsSpace(r) {
			l.pos += size
			continue
		}
		if r == '#' {
			if l.atLineStart && l.lineNumber == 1 && l.pos+1 < len(l.src) && l.src[l.pos+1] == '!' {
				// shebang on line 1
			}
			for !l.eof() && l.peekByte() != '\n' {
				l.pos++
			}
			continue
		}
		break
	}
}

// Next returns the next token, or an EOF token at end of input.
func (l *Lexer) Next() (Token, error) {
	l.skipSpacesAndComments()
	l.atLineStart = false
	if l.eof() {
		return Token{Kind: EOF, Pos: l.pos}, nil
	}

	start := l.pos
	r, size := l.peekRune()

	switch {
	case r == '@':
		return l.lexAttribute(start)
	case r == '\'' || r == '"':
		return l.lexString(r, start)
	case isDigitRune(r) || (r == '.' && l.isDecimalPoint() && l.nextIsDigitAfterDot()):
		// Digits followed by d/D and another digit start an NdS dice literal.
		p := l.pos
		for p < len(l.src) && l.src[p] >= '0' && l.src[p] <= '9' {
			p++
		}
		if p > l.pos && p+1 < len(l.src) && (l.src[p] == 'd' || l.src[p] == 'D') && l.src[p+1] >= '0' && l.src[p+1] <= '9' {
			return l.lexIdentOrDice(start)
		}
		return l.lexNumber(start)
	case isIdentStart(r):
		return l.lexIdentOrDice(start)
	default:
		if repl, ok := unicodeOpReplacements[r]; ok {
			l.pos += size
			return Token{Kind: Op, Text: repl, Pos: start}, nil
		}
		if r == 'π' {
			l.pos += size
			return Token{Kind: Ident, Text: "pi", Pos: start}, nil
		}
		if r == 'λ' {
			l.pos += size
			return Token{Kind: Op, Text: "\\", Pos: start}, nil
		}
		if r == '°' {
			return l.lexDegree(start)
		}
		return l.lexOpOrPunct(start)
	}
}

func isDigitRune(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentCont(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (l *Lexer) isDecimalPoint() bool {
	if l.style == DecimalComma {
		return false
	}
	return true
}

func (l *Lexer) nextIsDigitAfterDot() bool {
	if l.pos+1 >= len(l.src) {
		return false
	}
	return l.src[l.pos+1] >= '0' && l.src[l.pos+1] <= '9'
}

// lexDegree handles the bare degree sign °, spec.md §4.1/§8 scenarios
// 3-4. A bare ° lexes as the angle unit `deg`; ° immediately followed
// by ASCII C or F lexes as the existing degC/degF affine units so the
// rest of unitdb/eval never has to know about the Unicode spelling.
func (l *Lexer) lexDegree(start int) (Token, error) {
	_, size := l.peekRune()
	l.pos += size
	if !l.eof() {
		switch l.peekByte() {
		case 'C':
			l.pos++
			return Token{Kind: Ident, Text: "degC", Pos: start}, nil
		case 'F':
			l.pos++
			return Token{Kind: Ident, Text: "degF", Pos: start}, nil
		}
	}
	return Token{Kind: Ident, Text: "deg", Pos: start}, nil
}

// lexAttribute handles @name, @YYYY-MM-DD.
func (l *Lexer) lexAttribute(start int) (Token, error) {
	l.pos++ // consume '@'
	bodyStart := l.pos
	for !l.eof() {
		r, size := l.peekRune()
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			l.pos += size
			continue
		}
		break
	}
	name := l.src[bodyStart:l.pos]
	if name == "" {
		return Token{}, &LexError{Pos: start, Message: "invalid attribute: expected a name after '@'"}
	}
	if strings.Count(name, "-") == 2 && len(name) >= 8 {
		return Token{Kind: DateLit, Text: name, Pos: start}, nil
	}
	return Token{Kind: Attribute, Text: name, Pos: start}, nil
}

func (l *Lexer) lexString(quote rune, start int) (Token, error) {
	l.pos++ // consume opening quote
	var b strings.Builder
	for {
		if l.eof() {
			return Token{}, &LexError{Pos: start, Message: "unterminated string"}
		}
		r, size := l.peekRune()
		if r == quote {
			l.pos += size
			return Token{Kind: StringLit, Text: b.String(), Pos: start}, nil
		}
		if r == '\\' {
			l.pos += size
			if l.eof() {
				return Token{}, &LexError{Pos: start, Message: "unterminated escape sequence"}
			}
			er, esize := l.peekRune()
			l.pos += esize
			switch er {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\':
				b.WriteByte('\\')
			case '\'':
				b.WriteByte('\'')
			case '"':
				b.WriteByte('"')
			case '0':
				b.WriteByte(0)
			default:
				return Token{}, &LexError{Pos: l.pos, Message: "invalid escape sequence"}
			}
			continue
		}
		b.WriteRune(r)
		l.pos += size
	}
}

// lexNumber lexes decimal/hex/binary literals, tracking explicit point,
// exponent, and recurring-digit spans (spec.md §3 "Expr AST", §4.1).
func (l *Lexer) lexNumber(start int) (Token, error) {
	base := 10
	if l.peekByte() == '0' && l.pos+1 < len(l.src) {
		switch l.src[l.pos+1] {
		case 'x', 'X':
			base = 16
			l.pos += 2
			return l.lexDigitsInBase(start, base)
		case 'b', 'B':
			base = 2
			l.pos += 2
			return l.lexDigitsInBase(start, base)
		case 'o', 'O':
			base = 8
			l.pos += 2
			return l.lexDigitsInBase(start, base)
		}
	}
	tok, err := l.lexDecimal(start)
	if err != nil {
		return tok, err
	}
	return l.tryFeetInches(tok, start)
}

// tryFeetInches implements spec.md §4.2's quote heuristic: a numeric
// literal directly (no space) followed by "'", optionally more digits,
// and a closing '"', denotes a feet-inches compound literal rather
// than the start of a string. Bare "N'" with no inches is also
// accepted (feet only).
func (l *Lexer) tryFeetInches(feet Token, start int) (Token, error) {
	if l.eof() || l.peekByte() != '\'' {
		return feet, nil
	}
	save := l.pos
	l.pos++ // consume '\''
	inchesStart := l.pos
	for !l.eof() && (l.peekByte() >= '0' && l.peekByte() <= '9' || l.peekByte() == '.') {
		l.pos++
	}
	inchesText := l.src[inchesStart:l.pos]
	if inchesText == "" {
		return Token{Kind: FeetInches, Text: feet.Text, InchesText: "0", Pos: start}, nil
	}
	if l.eof() || l.peekByte() != '"' {
		l.pos = save
		return feet, nil
	}
	l.pos++ // consume '"'
	return Token{Kind: FeetInches, Text: feet.Text, InchesText: inchesText, Pos: start}, nil
}

func isBaseDigit(r byte, base int) bool {
	var v int
	switch {
	case r >= '0' && r <= '9':
		v = int(r - '0')
	case r >= 'a' && r <= 'z':
		v = int(r-'a') + 10
	case r >= 'A' && r <= 'Z':
		v = int(r-'A') + 10
	default:
		return false
	}
	return v < base
}

func (l *Lexer) lexDigitsInBase(start, base int) (Token, error) {
	digitsStart := l.pos
	for !l.eof() {
		c := l.peekByte()
		if isBaseDigit(c, base) || c == '_' || c == ',' {
			l.pos++
			continue
		}
		break
	}
	if l.pos == digitsStart {
		return Token{}, &LexError{Pos: start, Message: "invalid number: missing digits after base prefix"}
	}
	text := stripSeparators(l.src[digitsStart:l.pos])
	return Token{Kind: Num, Text: text, Base: base, Pos: start, RecurStart: -1, RecurEnd: -1}, nil
}

func stripSeparators(s string) string {
	return strings.NewReplacer(",", "", "_", "").Replace(s)
}

func (l *Lexer) lexDecimal(start int) (Token, error) {
	dotRune, commaRune := byte('.'), byte(',')
	if l.style == DecimalComma {
		dotRune, commaRune = ',', '.'
	}

	var b strings.Builder
	explicitDot := false
	recurStart, recurEnd := -1, -1

	readDigits := func() {
		for !l.eof() {
			c := l.peekByte()
			if c >= '0' && c <= '9' {
				b.WriteByte(c)
				l.pos++
			} else if c == commaRune && l.style != DecimalComma {
				l.pos++ // thousands-style separator, discarded
			} else if c == '_' {
				l.pos++
			} else {
				break
			}
		}
	}

	readDigits()
	if !l.eof() && l.peekByte() == dotRune && l.nextRunIsDigitOrParen(dotRune) {
		explicitDot = true
		b.WriteByte('.')
		l.pos++
		if !l.eof() && l.peekByte() == '(' {
			l.pos++
			recurStart = b.Len() - strings.IndexByte(b.String(), '.') - 1
			recurStart = len(afterDot(b.String()))
			for !l.eof() && l.peekByte() != ')' {
				c := l.peekByte()
				if c >= '0' && c <= '9' {
					b.WriteByte(c)
				}
				l.pos++
			}
			if l.eof() {
				return Token{}, &LexError{Pos: start, Message: "invalid number: unterminated recurring-digit group"}
			}
			l.pos++ // consume ')'
			recurEnd = len(afterDot(b.String()))
			if recurEnd == recurStart {
				return Token{}, &LexError{Pos: start, Message: "invalid number: empty recurring-digit group"}
			}
		} else {
			readDigits()
		}
	}

	if b.Len() == 0 {
		return Token{}, &LexError{Pos: start, Message: "invalid number"}
	}

	exponentText := ""
	if !l.eof() && (l.peekByte() == 'e' || l.peekByte() == 'E') {
		save := l.pos
		l.pos++
		expStart := l.pos
		if !l.eof() && (l.peekByte() == '+' || l.peekByte() == '-') {
			l.pos++
		}
		digitsStart := l.pos
		for !l.eof() && l.peekByte() >= '0' && l.peekByte() <= '9' {
			l.pos++
		}
		if l.pos == digitsStart {
			l.pos = save // not actually an exponent (e.g. trailing ident)
		} else {
			exponentText = l.src[expStart:l.pos]
		}
	}

	// Optional binary-magnitude suffix (spec.md: KMGTPEZY), kept as part
	// of the token text for the parser's numeric evaluator to interpret.
	magnitudeSuffix := ""
	if !l.eof() {
		c := l.peekByte()
		if strings.ContainsRune("KMGTPEZY", rune(c)) {
			magnitudeSuffix = string(c)
			l.pos++
		}
	}

	return Token{
		Kind: Num, Text: b.String(), Base: 10, ExplicitDot: explicitDot,
		RecurStart: recurStart, RecurEnd: recurEnd, ExponentText: exponentText + magnitudeSuffixMarker(magnitudeSuffix),
		Pos: start,
	}, nil
}

func magnitudeSuffixMarker(suffix string) string {
	if suffix == "" {
		return ""
	}
	return "!" + suffix
}

func afterDot(s string) string {
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return ""
	}
	return s[i+1:]
}

func (l *Lexer) nextRunIsDigitOrParen(dot byte) bool {
	if l.pos+1 >= len(l.src) {
		return false
	}
	c := l.src[l.pos+1]
	return (c >= '0' && c <= '9') || c == '('
}

// lexIdentOrDice scans an identifier, recognizing the dice literal
// shape NdS / dS inline (spec.md §4.1 Dice token).
func (l *Lexer) lexIdentOrDice(start int) (Token, error) {
	// Try a leading integer count for "NdS".
	digitsStart := l.pos
	for !l.eof() && l.peekByte() >= '0' && l.peekByte() <= '9' {
		l.pos++
	}
	hasCount := l.pos > digitsStart

	if !l.eof() && (l.peekByte() == 'd' || l.peekByte() == 'D') {
		savedAfterD := l.pos + 1
		sidesStart := savedAfterD
		p := savedAfterD
		for p < len(l.src) && l.src[p] >= '0' && l.src[p] <= '9' {
			p++
		}
		if p > sidesStart && (p >= len(l.src) || !isIdentCont(rune(l.src[p]))) {
			count := 1
			if hasCount {
				count = atoiSafe(l.src[digitsStart:l.pos])
			}
			sides := atoiSafe(l.src[sidesStart:p])
			l.pos = p
			return Token{Kind: Dice, DiceCount: count, DiceSides: sides, Pos: start, Text: l.src[start:p]}, nil
		}
	}

	l.pos = digitsStart // backtrack: not a dice literal
	for !l.eof() {
		r, size := l.peekRune()
		if !isIdentCont(r) {
			break
		}
		l.pos += size
	}
	if l.pos == start {
		return Token{}, &LexError{Pos: start, Message: "invalid token"}
	}
	return Token{Kind: Ident, Text: l.src[start:l.pos], Pos: start}, nil
}

func atoiSafe(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

var multiCharOps = []string{"=>", "<<", ">>", "**", "!=", "<=", ">="}

func (l *Lexer) lexOpOrPunct(start int) (Token, error) {
	for _, op := range multiCharOps {
		if strings.HasPrefix(l.src[l.pos:], op) {
			l.pos += len(op)
			return Token{Kind: Op, Text: op, Pos: start}, nil
		}
	}

	r, size := l.peekRune()
	if sup, ok := superscriptDigits[r]; ok {
		// Collect a run of superscript digits as an exponent suffix op,
		// spec.md §4.1 "² ... ⁹ / ⁰ / ¹ as exponent suffixes".
		var b strings.Builder
		b.WriteRune(sup)
		l.pos += size
		for {
			nr, nsize := l.peekRune()
			nsup, ok := superscriptDigits[nr]
			if !ok {
				break
			}
			b.WriteRune(nsup)
			l.pos += nsize
		}
		return Token{Kind: Op, Text: "^" + b.String(), Pos: start}, nil
	}

	switch r {
	case '(', ')', ',', ';', ':', '.', '\\':
		l.pos += size
		return Token{Kind: Punct, Text: string(r), Pos: start}, nil
	case '+', '-', '*', '/', '%', '=', '<', '>', '&', '|', '^', '!', '~':
		l.pos += size
		return Token{Kind: Op, Text: string(r), Pos: start}, nil
	default:
		return Token{}, &LexError{Pos: start, Message: "unexpected character " + string(r)}
	}
}
