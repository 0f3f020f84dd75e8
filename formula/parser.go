package formula

import (
	"strconv"
	"strings"

	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/expr"
	errors "gopkg.in/src-d/go-errors.v1"
)

// ErrParse is raised for any malformed formula. Per spec §4.5/§7, a parse
// failure must never yield a partial tree — callers see "no expression".
var ErrParse = errors.NewKind("formula parse error: %s")

// Parse turns formula into an expr.Expression under locale. A malformed
// formula returns a nil Expression and a non-nil error; callers treat this
// as "invalid formula, do not change the step" (spec §7), never a partial
// tree.
func Parse(formula string, locale Locale) (expr.Expression, error) {
	p := &parser{input: []rune(formula), locale: locale}
	if !p.consumeRune('=') {
		return nil, ErrParse.New("formula must start with '='")
	}
	e, err := p.parseLogic()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.atEnd() {
		return nil, ErrParse.New("unexpected trailing input at position " + strconv.Itoa(p.pos))
	}
	return e, nil
}

type parser struct {
	input  []rune
	pos    int
	locale Locale
}

func (p *parser) atEnd() bool { return p.pos >= len(p.input) }

func (p *parser) peek() rune {
	if p.atEnd() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) skipSpace() {
	for !p.atEnd() && (p.peek() == ' ' || p.peek() == '\t') {
		p.pos++
	}
}

func (p *parser) consumeRune(r rune) bool {
	p.skipSpace()
	if p.peek() == r {
		p.pos++
		return true
	}
	return false
}

func (p *parser) consumeString(s string) bool {
	p.skipSpace()
	rs := []rune(s)
	if p.pos+len(rs) > len(p.input) {
		return false
	}
	for i, r := range rs {
		if p.input[p.pos+i] != r {
			return false
		}
	}
	p.pos += len(rs)
	return true
}

// logic := concat (cmp concat)*
func (p *parser) parseLogic() (expr.Expression, error) {
	lhs, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.tryCmpOp()
		if !ok {
			return lhs, nil
		}
		rhs, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		lhs = expr.Binary{Op: op, LHS: lhs, RHS: rhs}
	}
}

func (p *parser) tryCmpOp() (expr.BinaryOp, bool) {
	p.skipSpace()
	switch {
	case p.consumeString(">="):
		return expr.OpGTE, true
	case p.consumeString("<="):
		return expr.OpLTE, true
	case p.consumeString("<>"):
		return expr.OpNEQ, true
	case p.consumeString(">"):
		return expr.OpGT, true
	case p.consumeString("<"):
		return expr.OpLT, true
	case p.consumeString("="):
		return expr.OpEQ, true
	}
	return 0, false
}

// concat := add ('&' add)*
func (p *parser) parseConcat() (expr.Expression, error) {
	lhs, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	for p.consumeRune('&') {
		rhs, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		lhs = expr.Binary{Op: expr.OpConcat, LHS: lhs, RHS: rhs}
	}
	return lhs, nil
}

// add := factor (('+'|'-') factor)*
func (p *parser) parseAdd() (expr.Expression, error) {
	lhs, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		switch p.peek() {
		case '+':
			p.pos++
			rhs, err := p.parseFactor()
			if err != nil {
				return nil, err
			}
			lhs = expr.Binary{Op: expr.OpAdd, LHS: lhs, RHS: rhs}
		case '-':
			p.pos++
			rhs, err := p.parseFactor()
			if err != nil {
				return nil, err
			}
			lhs = expr.Binary{Op: expr.OpSub, LHS: lhs, RHS: rhs}
		default:
			return lhs, nil
		}
	}
}

// factor := exponent (('*'|'/') exponent)*
func (p *parser) parseFactor() (expr.Expression, error) {
	lhs, err := p.parseExponent()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		switch p.peek() {
		case '*':
			p.pos++
			rhs, err := p.parseExponent()
			if err != nil {
				return nil, err
			}
			lhs = expr.Binary{Op: expr.OpMul, LHS: lhs, RHS: rhs}
		case '/':
			p.pos++
			rhs, err := p.parseExponent()
			if err != nil {
				return nil, err
			}
			lhs = expr.Binary{Op: expr.OpDiv, LHS: lhs, RHS: rhs}
		default:
			return lhs, nil
		}
	}
}

// exponent := value ('^' value)*
func (p *parser) parseExponent() (expr.Expression, error) {
	lhs, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	for p.consumeRune('^') {
		rhs, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		lhs = expr.Binary{Op: expr.OpPow, LHS: lhs, RHS: rhs}
	}
	return lhs, nil
}

// value := percentage | string | call | currentCell | constant | sibling | '(' logic ')'
func (p *parser) parseValue() (expr.Expression, error) {
	p.skipSpace()
	if p.atEnd() {
		return nil, ErrParse.New("unexpected end of formula")
	}
	switch {
	case p.peek() == '(':
		p.pos++
		e, err := p.parseLogic()
		if err != nil {
			return nil, err
		}
		if !p.consumeRune(')') {
			return nil, ErrParse.New("expected ')'")
		}
		return e, nil
	case p.peek() == p.locale.StringQualifier:
		return p.parseString()
	case p.peek() == '[':
		return p.parseSibling()
	case isDigit(p.peek()) || p.peek() == '-':
		return p.parsePercentage()
	case isIdentStart(p.peek()):
		return p.parseIdentifierLike()
	}
	return nil, ErrParse.New("unexpected character")
}

// percentage := ('-'? number) ('%')?
func (p *parser) parsePercentage() (expr.Expression, error) {
	neg := false
	if p.peek() == '-' {
		neg = true
		p.pos++
	}
	start := p.pos
	for !p.atEnd() && (isDigit(p.peek()) || p.peek() == p.locale.DecimalSeparator) {
		p.pos++
	}
	if p.pos == start {
		return nil, ErrParse.New("expected a number")
	}
	raw := string(p.input[start:p.pos])
	raw = strings.ReplaceAll(raw, string(p.locale.DecimalSeparator), ".")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, ErrParse.New("invalid number: " + raw)
	}
	if neg {
		f = -f
	}
	var lit expr.Expression = litDouble(f)
	if p.peek() == '%' {
		p.pos++
		lit = expr.Binary{Op: expr.OpDiv, LHS: lit, RHS: litDouble(100)}
	}
	return lit, nil
}

// string := qualifier ( not-qualifier | escape )* qualifier
func (p *parser) parseString() (expr.Expression, error) {
	q := p.locale.StringQualifier
	esc := []rune(p.locale.StringQualifierEscape)
	p.pos++ // opening qualifier
	var sb strings.Builder
	for {
		if p.atEnd() {
			return nil, ErrParse.New("unterminated string")
		}
		// Whitespace inside a string literal is content, so the escape is
		// matched in place rather than via consumeString (which skips spaces).
		if len(esc) > 0 && p.pos+len(esc) <= len(p.input) && string(p.input[p.pos:p.pos+len(esc)]) == string(esc) {
			p.pos += len(esc)
			sb.WriteRune(q)
			continue
		}
		if p.peek() == q {
			p.pos++
			break
		}
		sb.WriteRune(p.peek())
		p.pos++
	}
	return litString(sb.String()), nil
}

// sibling := '[@' not-']'+ ']'
func (p *parser) parseSibling() (expr.Expression, error) {
	if !p.consumeString("[@") {
		return nil, ErrParse.New("expected '[@'")
	}
	start := p.pos
	for !p.atEnd() && p.peek() != ']' {
		p.pos++
	}
	if p.atEnd() {
		return nil, ErrParse.New("unterminated column reference")
	}
	name := string(p.input[start:p.pos])
	p.pos++ // ']'
	if name == "" {
		return nil, ErrParse.New("empty column reference")
	}
	return expr.Sibling{Col: column.New(name)}, nil
}

func (p *parser) parseIdentifierLike() (expr.Expression, error) {
	start := p.pos
	for !p.atEnd() && isIdentPart(p.peek()) {
		p.pos++
	}
	name := string(p.input[start:p.pos])

	if p.peek() == '(' {
		return p.parseCall(name)
	}
	if strings.EqualFold(name, p.locale.CurrentCellIdentifier) {
		return expr.Identity{}, nil
	}
	for cname, cval := range p.locale.Constants {
		if strings.EqualFold(cname, name) {
			return expr.Literal{Val: cval}, nil
		}
	}
	return nil, ErrParse.New("unknown identifier: " + name)
}

// call := funcName '(' (logic (sep logic)*)? ')'
func (p *parser) parseCall(name string) (expr.Expression, error) {
	f, ok := lookupFunction(p.locale, name)
	if !ok {
		return nil, ErrParse.New("unknown function: " + name)
	}
	p.pos++ // '('
	var args []expr.Expression
	p.skipSpace()
	if p.peek() != ')' {
		for {
			a, err := p.parseLogic()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			p.skipSpace()
			if p.consumeRune(p.locale.ArgumentSeparator) {
				continue
			}
			break
		}
	}
	if !p.consumeRune(')') {
		return nil, ErrParse.New("expected ')' after arguments to " + name)
	}
	return expr.Call{Fn: f, Args: args}, nil
}

func isDigit(r rune) bool      { return r >= '0' && r <= '9' }
func isIdentStart(r rune) bool { return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isIdentPart(r rune) bool  { return isIdentStart(r) || isDigit(r) }
