package field

import (
	"io"
	"math/big"

	"github.com/sp301415/sumcheck/csprng"
)

// UniformSampler samples field elements from uniform distribution.
type UniformSampler struct {
	Field Field

	*csprng.UniformSampler

	modBuf  []byte
	msbMask byte
}

// NewUniformSampler creates a new UniformSampler over f.
func NewUniformSampler(f Field) *UniformSampler {
	return newUniformSampler(f, csprng.NewUniformSampler())
}

// NewUniformSamplerWithSeed creates a new UniformSampler over f with seed.
// Two samplers with the same seed produce the same stream of elements.
func NewUniformSamplerWithSeed(f Field, seed []byte) *UniformSampler {
	return newUniformSampler(f, csprng.NewUniformSamplerWithSeed(seed))
}

func newUniformSampler(f Field, s *csprng.UniformSampler) *UniformSampler {
	k := (f.modulus.BitLen() + 7) / 8
	b := uint(f.modulus.BitLen() % 8)
	if b == 0 {
		b = 8
	}

	modBuf := make([]byte, k)
	msbMask := byte((1 << b) - 1)

	return &UniformSampler{
		Field: f,

		UniformSampler: s,

		modBuf:  modBuf,
		msbMask: msbMask,
	}
}

// SampleMod samples a uniformly random field element.
func (s *UniformSampler) SampleMod() *big.Int {
	r := big.NewInt(0)
	s.SampleModAssign(r)
	return r
}

// SampleModAssign samples a uniformly random field element and assigns it to xOut.
// Sampling is done by rejection, so that the output is unbiased.
func (s *UniformSampler) SampleModAssign(xOut *big.Int) {
	for {
		_, err := io.ReadFull(s, s.modBuf)
		if err != nil {
			panic(err)
		}

		s.modBuf[0] &= s.msbMask

		xOut.SetBytes(s.modBuf)
		if xOut.Cmp(s.Field.modulus) < 0 {
			return
		}
	}
}
