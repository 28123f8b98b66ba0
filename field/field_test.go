package field_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sp301415/sumcheck/field"
)

func TestField(t *testing.T) {
	t.Run("NewField", func(t *testing.T) {
		for _, p := range []int64{2, 5, 97, 1000000007} {
			_, err := field.NewField(big.NewInt(p))
			assert.NoError(t, err)
		}

		for _, p := range []int64{0, 1, 4, 100} {
			_, err := field.NewField(big.NewInt(p))
			assert.ErrorIs(t, err, field.ErrInvalidModulus)
		}

		_, err := field.NewField(nil)
		assert.ErrorIs(t, err, field.ErrInvalidModulus)
	})

	t.Run("Reduce", func(t *testing.T) {
		f := field.MustNewField(big.NewInt(5))

		assert.Equal(t, int64(3), f.FromInt64(-2).Int64())
		assert.Equal(t, int64(2), f.FromInt64(7).Int64())
		assert.Equal(t, int64(0), f.FromBigInt(big.NewInt(10)).Int64())
	})

	t.Run("Arithmetic", func(t *testing.T) {
		f := field.MustNewField(big.NewInt(5))

		assert.Equal(t, int64(1), f.Add(f.FromInt64(3), f.FromInt64(3)).Int64())
		assert.Equal(t, int64(4), f.Sub(f.FromInt64(1), f.FromInt64(2)).Int64())
		assert.Equal(t, int64(2), f.Neg(f.FromInt64(3)).Int64())
		assert.Equal(t, int64(0), f.Neg(f.FromInt64(0)).Int64())
		assert.Equal(t, int64(2), f.Mul(f.FromInt64(3), f.FromInt64(4)).Int64())
		assert.Equal(t, int64(3), f.Exp(f.FromInt64(2), big.NewInt(3)).Int64())
		assert.Equal(t, int64(3), f.Inv(f.FromInt64(2)).Int64())
		assert.Equal(t, int64(1), f.Mul(f.FromInt64(4), f.Inv(f.FromInt64(4))).Int64())
		assert.Panics(t, func() { f.Inv(big.NewInt(0)) })
	})

	t.Run("Equal", func(t *testing.T) {
		f := field.MustNewField(big.NewInt(5))

		assert.True(t, f.Equal(big.NewInt(7), big.NewInt(-3)))
		assert.False(t, f.Equal(big.NewInt(1), big.NewInt(2)))
	})
}

func TestUniformSampler(t *testing.T) {
	t.Run("InRange", func(t *testing.T) {
		f := field.MustNewField(big.NewInt(1000000007))
		s := field.NewUniformSampler(f)

		for i := 0; i < 1024; i++ {
			x := s.SampleMod()
			assert.True(t, x.Sign() >= 0)
			assert.True(t, x.Cmp(f.Modulus()) < 0)
		}
	})

	t.Run("Determinism", func(t *testing.T) {
		f := field.MustNewField(big.NewInt(1000000007))
		seed := []byte("sumcheck-test-seed")

		s0 := field.NewUniformSamplerWithSeed(f, seed)
		s1 := field.NewUniformSamplerWithSeed(f, seed)

		for i := 0; i < 128; i++ {
			assert.Equal(t, s0.SampleMod(), s1.SampleMod())
		}
	})

	t.Run("SampleN", func(t *testing.T) {
		f := field.MustNewField(big.NewInt(97))
		s := field.NewUniformSampler(f)

		for i := 0; i < 1024; i++ {
			assert.Less(t, s.SampleN(97), uint64(97))
		}
	})
}
