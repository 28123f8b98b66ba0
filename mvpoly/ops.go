package mvpoly

import (
	"fmt"
	"math/big"
	"runtime"
	"sync"

	"github.com/bits-and-blooms/bitset"
)

// maxSumVars bounds the number of variables a single Boolean sum may range over,
// since the sum enumerates 2^k assignments.
const maxSumVars = 63

// Bind returns p with the free variable X_i bound to x.
// The value is reduced into the field, and X_i stops being free.
// Returns [ErrInvalidVariable] if X_i is out of range or already bound.
func (p Poly) Bind(i int, x *big.Int) (Poly, error) {
	if i < 0 || i >= p.nbVars || !p.free.Test(uint(i)) {
		return Poly{}, ErrInvalidVariable
	}
	return p.bind(i, p.field.FromBigInt(x)), nil
}

// bind binds X_i to xRed without validation.
// xRed must be a canonical residue.
func (p Poly) bind(i int, xRed *big.Int) Poly {
	xIsZero := xRed.Sign() == 0

	terms := make([]Term, 0, len(p.terms))
	for _, t := range p.terms {
		e := t.Exps[i]

		var coeff *big.Int
		switch {
		case e == 0:
			coeff = t.Coeff
		case xIsZero:
			continue
		default:
			coeff = p.field.Mul(t.Coeff, p.field.Exp(xRed, big.NewInt(int64(e))))
		}

		exps := make([]int, len(t.Exps))
		copy(exps, t.Exps)
		exps[i] = 0
		terms = append(terms, Term{Coeff: coeff, Exps: exps})
	}

	free := p.free.Clone()
	free.Clear(uint(i))

	return Poly{
		field:  p.field,
		nbVars: p.nbVars,
		terms:  normalizeTerms(p.field, terms),
		free:   free,
	}
}

// add returns p + q. Both polynomials must be over the same field,
// with the same variables and the same free set.
func (p Poly) add(q Poly) Poly {
	terms := make([]Term, 0, len(p.terms)+len(q.terms))
	terms = append(terms, p.terms...)
	terms = append(terms, q.terms...)

	return Poly{
		field:  p.field,
		nbVars: p.nbVars,
		terms:  normalizeTerms(p.field, terms),
		free:   p.free,
	}
}

// zero returns the zero polynomial with the free variables of p minus vars.
func (p Poly) zero(vars []int) Poly {
	free := p.free.Clone()
	for _, vi := range vars {
		free.Clear(uint(vi))
	}
	return Poly{
		field:  p.field,
		nbVars: p.nbVars,
		free:   free,
	}
}

func (p Poly) checkSumVars(vars []int) error {
	seen := bitset.New(uint(p.nbVars))
	for _, vi := range vars {
		if vi < 0 || vi >= p.nbVars || !p.free.Test(uint(vi)) || seen.Test(uint(vi)) {
			return ErrInvalidVariable
		}
		seen.Set(uint(vi))
	}
	if len(vars) > maxSumVars {
		return fmt.Errorf("cannot sum over %d variables", len(vars))
	}
	return nil
}

// SumBoolean returns the sum of p over all Boolean assignments to the given
// free variables: sum over b in {0,1}^k of p with X_{vars[t]} bound to b_t.
// The summed variables become bound in the result.
// All 2^k assignments are enumerated by brute force.
func (p Poly) SumBoolean(vars []int) (Poly, error) {
	if err := p.checkSumVars(vars); err != nil {
		return Poly{}, err
	}
	if len(vars) == 0 {
		return p, nil
	}

	acc := p.zero(vars)
	for idx := uint64(0); idx < uint64(1)<<len(vars); idx++ {
		acc = acc.add(p.bindBooleanPoint(vars, idx))
	}
	return acc, nil
}

// SumBooleanParallel returns the sum of p over all Boolean assignments to the
// given free variables, like [Poly.SumBoolean], using all available cores.
func (p Poly) SumBooleanParallel(vars []int) (Poly, error) {
	if err := p.checkSumVars(vars); err != nil {
		return Poly{}, err
	}
	if len(vars) == 0 {
		return p, nil
	}
	points := uint64(1) << len(vars)

	workSize := runtime.NumCPU()
	if uint64(workSize) > points {
		workSize = int(points)
	}

	jobChan := make(chan uint64)
	go func() {
		defer close(jobChan)
		for idx := uint64(0); idx < points; idx++ {
			jobChan <- idx
		}
	}()

	partials := make([]Poly, workSize)
	var wg sync.WaitGroup
	wg.Add(workSize)
	for i := 0; i < workSize; i++ {
		go func(i int) {
			defer wg.Done()
			acc := p.zero(vars)
			for idx := range jobChan {
				acc = acc.add(p.bindBooleanPoint(vars, idx))
			}
			partials[i] = acc
		}(i)
	}
	wg.Wait()

	acc := p.zero(vars)
	for _, partial := range partials {
		acc = acc.add(partial)
	}
	return acc, nil
}

// bindBooleanPoint binds X_{vars[t]} to bit t of idx, for all t.
func (p Poly) bindBooleanPoint(vars []int, idx uint64) Poly {
	zero, one := big.NewInt(0), big.NewInt(1)

	q := p
	for t, vi := range vars {
		if (idx>>t)&1 == 1 {
			q = q.bind(vi, one)
		} else {
			q = q.bind(vi, zero)
		}
	}
	return q
}

// HypercubeSum returns the sum of evaluations of p over all Boolean
// assignments to its free variables, by brute-force enumeration.
func (p Poly) HypercubeSum() (*big.Int, error) {
	freeVars := p.FreeVars()
	if len(freeVars) > maxSumVars {
		return nil, fmt.Errorf("cannot sum over %d variables", len(freeVars))
	}

	assignment := make([]*big.Int, p.nbVars)
	for i := range assignment {
		assignment[i] = big.NewInt(0)
	}

	acc := big.NewInt(0)
	for idx := uint64(0); idx < uint64(1)<<len(freeVars); idx++ {
		for t, vi := range freeVars {
			assignment[vi].SetInt64(int64((idx >> t) & 1))
		}
		v, err := p.Evaluate(assignment)
		if err != nil {
			panic(err)
		}
		p.field.AddAssign(acc, v, acc)
	}
	return acc, nil
}

// HypercubeSumParallel returns the sum of evaluations of p over all Boolean
// assignments to its free variables, like [Poly.HypercubeSum],
// using all available cores.
func (p Poly) HypercubeSumParallel() (*big.Int, error) {
	freeVars := p.FreeVars()
	if len(freeVars) > maxSumVars {
		return nil, fmt.Errorf("cannot sum over %d variables", len(freeVars))
	}
	points := uint64(1) << len(freeVars)

	workSize := runtime.NumCPU()
	if uint64(workSize) > points {
		workSize = int(points)
	}

	jobChan := make(chan uint64)
	go func() {
		defer close(jobChan)
		for idx := uint64(0); idx < points; idx++ {
			jobChan <- idx
		}
	}()

	partials := make([]*big.Int, workSize)
	var wg sync.WaitGroup
	wg.Add(workSize)
	for i := 0; i < workSize; i++ {
		go func(i int) {
			defer wg.Done()

			assignment := make([]*big.Int, p.nbVars)
			for j := range assignment {
				assignment[j] = big.NewInt(0)
			}

			acc := big.NewInt(0)
			for idx := range jobChan {
				for t, vi := range freeVars {
					assignment[vi].SetInt64(int64((idx >> t) & 1))
				}
				v, err := p.Evaluate(assignment)
				if err != nil {
					panic(err)
				}
				p.field.AddAssign(acc, v, acc)
			}
			partials[i] = acc
		}(i)
	}
	wg.Wait()

	acc := big.NewInt(0)
	for _, partial := range partials {
		p.field.AddAssign(acc, partial, acc)
	}
	return acc, nil
}
