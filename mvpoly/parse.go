package mvpoly

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"github.com/sp301415/sumcheck/field"
)

type tokenKind int

const (
	tokenInt tokenKind = iota
	tokenVar
	tokenPlus
	tokenMinus
	tokenStar
	tokenPow
	tokenEOF
)

type token struct {
	kind tokenKind
	val  *big.Int
	idx  int
	pos  int
}

// Parse parses a polynomial expression over f.
//
// An expression is a sum of monomials in the variables X_0, X_1, ...:
//
//	2*X_0**2 + X_0*X_1*X_2 + X_1
//
// Exponents are written with ** or ^, and coefficients are integers,
// possibly negative, reduced into the field. The variable count of the
// result is one past the highest variable index that appears;
// a plain integer parses to a polynomial in zero variables.
func Parse(f field.Field, s string) (Poly, error) {
	tokens, err := lex(s)
	if err != nil {
		return Poly{}, err
	}

	type monomial struct {
		coeff *big.Int
		exps  map[int]int
	}

	var monomials []monomial
	nbVars := 0

	pos := 0
	peek := func() token { return tokens[pos] }
	next := func() token { t := tokens[pos]; pos++; return t }

	for {
		m := monomial{coeff: big.NewInt(1), exps: map[int]int{}}

		sign := 1
		for peek().kind == tokenPlus || peek().kind == tokenMinus {
			if next().kind == tokenMinus {
				sign = -sign
			}
		}
		if sign < 0 {
			m.coeff.Neg(m.coeff)
		}

		for {
			t := next()
			switch t.kind {
			case tokenInt:
				m.coeff.Mul(m.coeff, t.val)
				if peek().kind == tokenPow {
					return Poly{}, fmt.Errorf("exponent on integer at position %d", peek().pos)
				}
			case tokenVar:
				e := 1
				if peek().kind == tokenPow {
					next()
					et := next()
					if et.kind != tokenInt || !et.val.IsInt64() {
						return Poly{}, fmt.Errorf("invalid exponent at position %d", et.pos)
					}
					e = int(et.val.Int64())
				}
				m.exps[t.idx] += e
				if t.idx+1 > nbVars {
					nbVars = t.idx + 1
				}
			default:
				return Poly{}, fmt.Errorf("expected integer or variable at position %d", t.pos)
			}

			if peek().kind != tokenStar {
				break
			}
			next()
		}
		monomials = append(monomials, m)

		t := next()
		if t.kind == tokenEOF {
			break
		}
		if t.kind != tokenPlus && t.kind != tokenMinus {
			return Poly{}, fmt.Errorf("expected + or - at position %d", t.pos)
		}
		pos--
	}

	terms := make([]Term, 0, len(monomials))
	for _, m := range monomials {
		exps := make([]int, nbVars)
		for i, e := range m.exps {
			exps[i] = e
		}
		terms = append(terms, Term{Coeff: m.coeff, Exps: exps})
	}

	return NewPoly(f, nbVars, terms)
}

func lex(s string) ([]token, error) {
	var tokens []token

	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case unicode.IsSpace(rune(c)):
			i++

		case c == '+':
			tokens = append(tokens, token{kind: tokenPlus, pos: i})
			i++

		case c == '-':
			tokens = append(tokens, token{kind: tokenMinus, pos: i})
			i++

		case c == '^':
			tokens = append(tokens, token{kind: tokenPow, pos: i})
			i++

		case c == '*':
			if i+1 < len(s) && s[i+1] == '*' {
				tokens = append(tokens, token{kind: tokenPow, pos: i})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tokenStar, pos: i})
				i++
			}

		case c >= '0' && c <= '9':
			j := i
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			val, ok := big.NewInt(0).SetString(s[i:j], 10)
			if !ok {
				return nil, fmt.Errorf("invalid integer at position %d", i)
			}
			tokens = append(tokens, token{kind: tokenInt, val: val, pos: i})
			i = j

		case c == 'X' || c == 'x':
			if i+1 >= len(s) || s[i+1] != '_' {
				return nil, fmt.Errorf("expected _ after variable name at position %d", i)
			}
			j := i + 2
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			if j == i+2 {
				return nil, fmt.Errorf("expected variable index at position %d", i)
			}
			idx, err := strconv.Atoi(s[i+2 : j])
			if err != nil {
				return nil, fmt.Errorf("invalid variable index at position %d", i)
			}
			tokens = append(tokens, token{kind: tokenVar, idx: idx, pos: i})
			i = j

		default:
			return nil, fmt.Errorf("unexpected character %q at position %d", c, i)
		}
	}

	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty expression")
	}
	tokens = append(tokens, token{kind: tokenEOF, pos: len(s)})
	return tokens, nil
}

// Text returns a representation of p such as "2*X_0**2 + X_0*X_1 + 4",
// with terms in canonical order and coefficients as canonical residues.
// The zero polynomial is rendered as "0".
// The output is accepted by [Parse].
func (p Poly) Text() string {
	if len(p.terms) == 0 {
		return "0"
	}

	one := big.NewInt(1)

	var sb strings.Builder
	for ti, t := range p.terms {
		if ti > 0 {
			sb.WriteString(" + ")
		}

		wrote := false
		if totalDegree(t.Exps) == 0 || t.Coeff.Cmp(one) != 0 {
			sb.WriteString(t.Coeff.String())
			wrote = true
		}
		for i, e := range t.Exps {
			if e == 0 {
				continue
			}
			if wrote {
				sb.WriteByte('*')
			}
			sb.WriteString("X_")
			sb.WriteString(strconv.Itoa(i))
			if e > 1 {
				sb.WriteString("**")
				sb.WriteString(strconv.Itoa(e))
			}
			wrote = true
		}
	}
	return sb.String()
}

// String implements the [fmt.Stringer] interface.
func (p Poly) String() string {
	return p.Text()
}
