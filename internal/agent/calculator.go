package agent

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CalculatorTool evaluates arithmetic expressions with a small
// recursive-descent parser. Supported: + - * / ^, unary minus, parentheses,
// float literals, the constants pi and e, and the functions listed in
// calcFuncs.
type CalculatorTool struct{}

func (CalculatorTool) Name() string { return "calculator" }

func (CalculatorTool) Description() string {
	return "Evaluates mathematical expressions. Use this for calculations."
}

func (CalculatorTool) Parameters() map[string]Param {
	return map[string]Param{
		"expression": {Type: "string", Description: "The mathematical expression to evaluate"},
	}
}

func (c CalculatorTool) Execute(args map[string]string) (string, error) {
	expr, ok := args["expression"]
	if !ok || strings.TrimSpace(expr) == "" {
		return "", fmt.Errorf("missing required parameter 'expression'")
	}
	result, err := evalExpression(expr)
	if err != nil {
		return "", fmt.Errorf("error evaluating expression: %w", err)
	}
	return formatNumber(result), nil
}

// formatNumber prints integers without a decimal point and everything else
// with minimal digits.
func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

var calcConsts = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

var calcFuncs = map[string]func(float64) float64{
	"abs":   math.Abs,
	"sqrt":  math.Sqrt,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"log":   math.Log,
	"log10": math.Log10,
	"exp":   math.Exp,
	"round": math.Round,
}

var calcFuncs2 = map[string]func(float64, float64) float64{
	"min": math.Min,
	"max": math.Max,
	"pow": math.Pow,
}

func evalExpression(input string) (float64, error) {
	p := &exprParser{input: input}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return 0, fmt.Errorf("unexpected %q at position %d", p.input[p.pos], p.pos)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("result is not a finite number")
	}
	return v, nil
}

type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) peek() (byte, bool) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

// parseExpr handles + and -.
func (p *exprParser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		c, ok := p.peek()
		if !ok || (c != '+' && c != '-') {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if c == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

// parseTerm handles * and /.
func (p *exprParser) parseTerm() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		c, ok := p.peek()
		if !ok || (c != '*' && c != '/') {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if c == '*' {
			left *= right
		} else {
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		}
	}
}

func (p *exprParser) parseUnary() (float64, error) {
	if c, ok := p.peek(); ok && c == '-' {
		p.pos++
		v, err := p.parseUnary()
		return -v, err
	}
	return p.parsePower()
}

// parsePower handles the right-associative ^ operator.
func (p *exprParser) parsePower() (float64, error) {
	base, err := p.parseAtom()
	if err != nil {
		return 0, err
	}
	if c, ok := p.peek(); ok && c == '^' {
		p.pos++
		exp, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return math.Pow(base, exp), nil
	}
	return base, nil
}

func (p *exprParser) parseAtom() (float64, error) {
	c, ok := p.peek()
	if !ok {
		return 0, fmt.Errorf("unexpected end of expression")
	}

	if c == '(' {
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if err := p.expect(')'); err != nil {
			return 0, err
		}
		return v, nil
	}

	if c >= '0' && c <= '9' || c == '.' {
		return p.parseNumber()
	}

	if isIdentStart(c) {
		return p.parseIdent()
	}

	return 0, fmt.Errorf("unexpected %q at position %d", c, p.pos)
}

func (p *exprParser) expect(c byte) error {
	got, ok := p.peek()
	if !ok {
		return fmt.Errorf("expected %q, got end of expression", c)
	}
	if got != c {
		return fmt.Errorf("expected %q at position %d, got %q", c, p.pos, got)
	}
	p.pos++
	return nil
}

func (p *exprParser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= '0' && c <= '9' || c == '.' {
			p.pos++
			continue
		}
		// Exponent notation: 1e5, 2.5e-3.
		if (c == 'e' || c == 'E') && p.pos > start {
			next := p.pos + 1
			if next < len(p.input) && (p.input[next] == '+' || p.input[next] == '-') {
				next++
			}
			if next < len(p.input) && p.input[next] >= '0' && p.input[next] <= '9' {
				p.pos = next + 1
				continue
			}
		}
		break
	}
	v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", p.input[start:p.pos])
	}
	return v, nil
}

func (p *exprParser) parseIdent() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && isIdentPart(p.input[p.pos]) {
		p.pos++
	}
	name := p.input[start:p.pos]

	if v, ok := calcConsts[name]; ok {
		return v, nil
	}

	if fn, ok := calcFuncs[name]; ok {
		if err := p.expect('('); err != nil {
			return 0, err
		}
		arg, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if err := p.expect(')'); err != nil {
			return 0, err
		}
		if name == "log" && arg <= 0 || name == "log10" && arg <= 0 || name == "sqrt" && arg < 0 {
			return 0, fmt.Errorf("%s of %s is undefined", name, formatNumber(arg))
		}
		return fn(arg), nil
	}

	if fn, ok := calcFuncs2[name]; ok {
		if err := p.expect('('); err != nil {
			return 0, err
		}
		a, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if err := p.expect(','); err != nil {
			return 0, err
		}
		b, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if err := p.expect(')'); err != nil {
			return 0, err
		}
		return fn(a, b), nil
	}

	return 0, fmt.Errorf("name %q is not defined", name)
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}
