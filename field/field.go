package field

import (
	"errors"
	"math/big"
)

// ErrInvalidModulus is returned when a field is created with a modulus that is not prime.
var ErrInvalidModulus = errors.New("modulus is not a prime")

// Field represents the prime field GF(p).
// All elements of the field are canonical residues in [0, p),
// represented as [*big.Int].
//
// Field is read-only, and safe for concurrent use.
type Field struct {
	modulus *big.Int
}

// NewField creates a new Field with modulus p.
// Returns [ErrInvalidModulus] if p is not a prime.
func NewField(p *big.Int) (Field, error) {
	if p == nil || !p.ProbablyPrime(0) {
		return Field{}, ErrInvalidModulus
	}

	return Field{
		modulus: big.NewInt(0).Set(p),
	}, nil
}

// MustNewField creates a new Field with modulus p.
// Panics if p is not a prime.
func MustNewField(p *big.Int) Field {
	f, err := NewField(p)
	if err != nil {
		panic(err)
	}
	return f
}

// Modulus returns the modulus of the field.
func (f Field) Modulus() *big.Int {
	return f.modulus
}

// FromInt64 returns the canonical residue of x.
func (f Field) FromInt64(x int64) *big.Int {
	return f.Reduce(big.NewInt(x))
}

// FromBigInt returns the canonical residue of x.
// The input is not modified.
func (f Field) FromBigInt(x *big.Int) *big.Int {
	return f.Reduce(big.NewInt(0).Set(x))
}

// Reduce reduces x modulo p in place, and returns x.
func (f Field) Reduce(x *big.Int) *big.Int {
	return x.Mod(x, f.modulus)
}

// Add returns zOut = x + y.
func (f Field) Add(x, y *big.Int) *big.Int {
	zOut := big.NewInt(0)
	f.AddAssign(x, y, zOut)
	return zOut
}

// AddAssign assigns zOut = x + y.
func (f Field) AddAssign(x, y, zOut *big.Int) {
	zOut.Add(x, y)
	if zOut.Cmp(f.modulus) >= 0 {
		zOut.Sub(zOut, f.modulus)
	}
}

// Sub returns zOut = x - y.
func (f Field) Sub(x, y *big.Int) *big.Int {
	zOut := big.NewInt(0)
	f.SubAssign(x, y, zOut)
	return zOut
}

// SubAssign assigns zOut = x - y.
func (f Field) SubAssign(x, y, zOut *big.Int) {
	zOut.Sub(x, y)
	if zOut.Sign() < 0 {
		zOut.Add(zOut, f.modulus)
	}
}

// Neg returns zOut = -x.
func (f Field) Neg(x *big.Int) *big.Int {
	zOut := big.NewInt(0)
	f.NegAssign(x, zOut)
	return zOut
}

// NegAssign assigns zOut = -x.
func (f Field) NegAssign(x, zOut *big.Int) {
	if x.Sign() == 0 {
		zOut.SetInt64(0)
		return
	}
	zOut.Sub(f.modulus, x)
}

// Mul returns zOut = x * y.
func (f Field) Mul(x, y *big.Int) *big.Int {
	zOut := big.NewInt(0)
	f.MulAssign(x, y, zOut)
	return zOut
}

// MulAssign assigns zOut = x * y.
func (f Field) MulAssign(x, y, zOut *big.Int) {
	zOut.Mul(x, y)
	zOut.Mod(zOut, f.modulus)
}

// Inv returns zOut = x^-1.
// Panics if x is zero.
func (f Field) Inv(x *big.Int) *big.Int {
	zOut := big.NewInt(0)
	f.InvAssign(x, zOut)
	return zOut
}

// InvAssign assigns zOut = x^-1.
// Panics if x is zero.
func (f Field) InvAssign(x, zOut *big.Int) {
	if zOut.ModInverse(x, f.modulus) == nil {
		panic("inverse of zero")
	}
}

// Exp returns zOut = x^e, where e is a non-negative integer exponent.
func (f Field) Exp(x, e *big.Int) *big.Int {
	zOut := big.NewInt(0)
	f.ExpAssign(x, e, zOut)
	return zOut
}

// ExpAssign assigns zOut = x^e, where e is a non-negative integer exponent.
func (f Field) ExpAssign(x, e, zOut *big.Int) {
	zOut.Exp(x, e, f.modulus)
}

// Equal reports whether x and y represent the same field element.
// The inputs are reduced before comparison, and are not modified.
func (f Field) Equal(x, y *big.Int) bool {
	xRed := f.FromBigInt(x)
	yRed := f.FromBigInt(y)
	return xRed.Cmp(yRed) == 0
}
