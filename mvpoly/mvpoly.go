// Package mvpoly implements multivariate polynomials over prime fields.
package mvpoly

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/sp301415/sumcheck/field"
)

var (
	// ErrInvalidVariable is returned when a variable index is out of range,
	// or refers to a variable that is already bound.
	ErrInvalidVariable = errors.New("invalid variable index")
	// ErrArityMismatch is returned when an assignment does not cover all variables.
	ErrArityMismatch = errors.New("assignment length does not match variable count")
	// ErrNotUnivariate is returned when a polynomial has free variables
	// other than the requested one.
	ErrNotUnivariate = errors.New("polynomial is not univariate in the given variable")
)

// Term is a single monomial of a [Poly]:
// Coeff * X_0^Exps[0] * ... * X_{v-1}^Exps[v-1].
type Term struct {
	Coeff *big.Int
	Exps  []int
}

// Poly is a multivariate polynomial over a prime field,
// in variables X_0, ..., X_{v-1}.
//
// A variable may be bound to a field element with [Poly.Bind],
// or summed out with [Poly.SumBoolean]; in both cases it stops being free.
// The terms are kept in a canonical form: coefficients are canonical residues,
// no two terms share an exponent vector, and terms are ordered by
// total degree, then lexicographically.
//
// Poly is immutable. All operations return new polynomials,
// so values may be shared freely between goroutines.
type Poly struct {
	field  field.Field
	nbVars int
	terms  []Term
	free   *bitset.BitSet
}

// NewPoly creates a new Poly over f in nbVars variables.
// The coefficients are reduced into the field, terms with equal
// exponent vectors are merged, and zero terms are dropped.
// All variables of the new polynomial are free.
func NewPoly(f field.Field, nbVars int, terms []Term) (Poly, error) {
	if nbVars < 0 {
		return Poly{}, ErrInvalidVariable
	}

	termsRed := make([]Term, 0, len(terms))
	for i, t := range terms {
		if t.Coeff == nil {
			return Poly{}, fmt.Errorf("nil coefficient in term %d", i)
		}
		if len(t.Exps) != nbVars {
			return Poly{}, ErrArityMismatch
		}
		for _, e := range t.Exps {
			if e < 0 {
				return Poly{}, fmt.Errorf("negative exponent in term %d", i)
			}
		}
		termsRed = append(termsRed, Term{Coeff: f.FromBigInt(t.Coeff), Exps: t.Exps})
	}

	free := bitset.New(uint(nbVars))
	for i := 0; i < nbVars; i++ {
		free.Set(uint(i))
	}

	return Poly{
		field:  f,
		nbVars: nbVars,
		terms:  normalizeTerms(f, termsRed),
		free:   free,
	}, nil
}

// normalizeTerms merges terms with equal exponent vectors, drops zero terms,
// and sorts by total degree, then lexicographically.
// The coefficients must be canonical residues. The input is not modified.
func normalizeTerms(f field.Field, terms []Term) []Term {
	merged := make([]Term, 0, len(terms))
	byKey := make(map[string]int, len(terms))
	for _, t := range terms {
		key := expsKey(t.Exps)
		if i, ok := byKey[key]; ok {
			f.AddAssign(merged[i].Coeff, t.Coeff, merged[i].Coeff)
			continue
		}
		exps := make([]int, len(t.Exps))
		copy(exps, t.Exps)
		byKey[key] = len(merged)
		merged = append(merged, Term{Coeff: big.NewInt(0).Set(t.Coeff), Exps: exps})
	}

	nonZero := merged[:0]
	for _, t := range merged {
		if t.Coeff.Sign() != 0 {
			nonZero = append(nonZero, t)
		}
	}

	sort.Slice(nonZero, func(i, j int) bool {
		di, dj := totalDegree(nonZero[i].Exps), totalDegree(nonZero[j].Exps)
		if di != dj {
			return di > dj
		}
		for k := range nonZero[i].Exps {
			if nonZero[i].Exps[k] != nonZero[j].Exps[k] {
				return nonZero[i].Exps[k] > nonZero[j].Exps[k]
			}
		}
		return false
	})

	return nonZero
}

func expsKey(exps []int) string {
	var sb strings.Builder
	for _, e := range exps {
		sb.WriteString(strconv.Itoa(e))
		sb.WriteByte(',')
	}
	return sb.String()
}

func totalDegree(exps []int) int {
	d := 0
	for _, e := range exps {
		d += e
	}
	return d
}

// Field returns the field of p.
func (p Poly) Field() field.Field {
	return p.field
}

// NumVars returns the number of variables of p, bound or free.
func (p Poly) NumVars() int {
	return p.nbVars
}

// FreeVars returns the indices of the free variables of p, in ascending order.
func (p Poly) FreeVars() []int {
	vars := make([]int, 0, p.free.Count())
	for i, ok := p.free.NextSet(0); ok; i, ok = p.free.NextSet(i + 1) {
		vars = append(vars, int(i))
	}
	return vars
}

// Terms returns a copy of the terms of p, in canonical order.
func (p Poly) Terms() []Term {
	terms := make([]Term, len(p.terms))
	for i, t := range p.terms {
		exps := make([]int, len(t.Exps))
		copy(exps, t.Exps)
		terms[i] = Term{Coeff: big.NewInt(0).Set(t.Coeff), Exps: exps}
	}
	return terms
}

// Equal reports whether p and q are polynomials over the same field,
// with the same terms and the same free variables.
func (p Poly) Equal(q Poly) bool {
	if p.nbVars != q.nbVars || len(p.terms) != len(q.terms) {
		return false
	}
	if p.field.Modulus().Cmp(q.field.Modulus()) != 0 {
		return false
	}
	if !p.free.Equal(q.free) {
		return false
	}
	for i := range p.terms {
		if p.terms[i].Coeff.Cmp(q.terms[i].Coeff) != 0 {
			return false
		}
		for k := range p.terms[i].Exps {
			if p.terms[i].Exps[k] != q.terms[i].Exps[k] {
				return false
			}
		}
	}
	return true
}

// Evaluate evaluates p at the given assignment of all of its variables.
// The assignment must have exactly NumVars values; values at bound
// variable positions are ignored. The values are reduced modulo p
// at the point of use, and are not modified.
func (p Poly) Evaluate(assignment []*big.Int) (*big.Int, error) {
	if len(assignment) != p.nbVars {
		return nil, ErrArityMismatch
	}

	assignmentRed := make([]*big.Int, len(assignment))
	for i, x := range assignment {
		if x == nil {
			return nil, fmt.Errorf("nil value in assignment at index %d", i)
		}
		assignmentRed[i] = p.field.FromBigInt(x)
	}

	acc := big.NewInt(0)
	for _, t := range p.terms {
		tv := big.NewInt(0).Set(t.Coeff)
		for i, e := range t.Exps {
			if e == 0 {
				continue
			}
			p.field.MulAssign(tv, p.field.Exp(assignmentRed[i], big.NewInt(int64(e))), tv)
		}
		p.field.AddAssign(acc, tv, acc)
	}
	return acc, nil
}

// EvalUnivariate evaluates p at X_i = x, where X_i is the only free variable of p.
// Returns [ErrNotUnivariate] if p has a free variable other than X_i.
func (p Poly) EvalUnivariate(i int, x *big.Int) (*big.Int, error) {
	if err := p.checkUnivariate(i); err != nil {
		return nil, err
	}

	xRed := p.field.FromBigInt(x)
	acc := big.NewInt(0)
	for _, t := range p.terms {
		tv := big.NewInt(0).Set(t.Coeff)
		if e := t.Exps[i]; e > 0 {
			p.field.MulAssign(tv, p.field.Exp(xRed, big.NewInt(int64(e))), tv)
		}
		p.field.AddAssign(acc, tv, acc)
	}
	return acc, nil
}

// UnivariateCoeffs returns the dense coefficients of p as a univariate
// polynomial in X_i, from the constant term up: p = sum_d coeffs[d] * X_i^d.
// Returns [ErrNotUnivariate] if p has a free variable other than X_i.
func (p Poly) UnivariateCoeffs(i int) ([]*big.Int, error) {
	if err := p.checkUnivariate(i); err != nil {
		return nil, err
	}

	deg := 0
	for _, t := range p.terms {
		if t.Exps[i] > deg {
			deg = t.Exps[i]
		}
	}

	coeffs := make([]*big.Int, deg+1)
	for d := range coeffs {
		coeffs[d] = big.NewInt(0)
	}
	for _, t := range p.terms {
		coeffs[t.Exps[i]].Set(t.Coeff)
	}
	return coeffs, nil
}

func (p Poly) checkUnivariate(i int) error {
	if i < 0 || i >= p.nbVars {
		return ErrInvalidVariable
	}
	for j, ok := p.free.NextSet(0); ok; j, ok = p.free.NextSet(j + 1) {
		if int(j) != i {
			return ErrNotUnivariate
		}
	}
	return nil
}
