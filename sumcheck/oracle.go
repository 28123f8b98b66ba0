package sumcheck

import (
	"encoding/binary"
	"fmt"
	"math/big"

	fiatshamir "github.com/consensys/gnark-crypto/fiat-shamir"
	"golang.org/x/crypto/blake2b"

	"github.com/sp301415/sumcheck/field"
	"github.com/sp301415/sumcheck/mvpoly"
)

// OracleChallenger derives challenges from the transcript with the
// Fiat-Shamir transform, replacing the interactive verifier by a random
// oracle. The transcript is seeded with the field modulus and the
// variable count, and each challenge is bound to the dense coefficients
// of the previous round polynomial, so two runs over the same polynomial
// draw the same challenges, and tampering with any round polynomial
// changes all challenges after it.
type OracleChallenger struct {
	field field.Field

	transcript *fiatshamir.Transcript
	names      []string

	bufLen int
}

// NewOracleChallenger creates a new OracleChallenger for polynomials in
// nbVars variables over f, with BLAKE2b as the underlying hash.
//
// The transcript is consumed as challenges are drawn, so a fresh
// challenger is needed for every run.
func NewOracleChallenger(f field.Field, nbVars int) *OracleChallenger {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}

	names := make([]string, nbVars)
	for i := range names {
		names[i] = fmt.Sprintf("sumcheck.r%d", i)
	}

	bufLen := (f.Modulus().BitLen() + 7) / 8
	if bufLen < 32 {
		bufLen = 32
	}

	transcript := fiatshamir.NewTranscript(h, names...)
	if nbVars > 0 {
		modBuf := make([]byte, bufLen)
		f.Modulus().FillBytes(modBuf)
		countBuf := make([]byte, 8)
		binary.BigEndian.PutUint64(countBuf, uint64(nbVars))
		if err := transcript.Bind(names[0], modBuf); err != nil {
			panic(err)
		}
		if err := transcript.Bind(names[0], countBuf); err != nil {
			panic(err)
		}
	}

	return &OracleChallenger{
		field: f,

		transcript: transcript,
		names:      names,

		bufLen: bufLen,
	}
}

// Next implements the [Challenger] interface.
func (c *OracleChallenger) Next(round int, prev mvpoly.Poly) (*big.Int, error) {
	name := c.names[round-1]

	coeffs, err := prev.UnivariateCoeffs(round - 1)
	if err != nil {
		return nil, err
	}
	for i := range coeffs {
		buf := make([]byte, c.bufLen)
		coeffs[i].FillBytes(buf)
		if err := c.transcript.Bind(name, buf); err != nil {
			return nil, fmt.Errorf("bind challenge %s: %w", name, err)
		}
	}

	challenge, err := c.transcript.ComputeChallenge(name)
	if err != nil {
		return nil, fmt.Errorf("compute challenge %s: %w", name, err)
	}
	return c.field.Reduce(big.NewInt(0).SetBytes(challenge)), nil
}
