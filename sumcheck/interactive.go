package sumcheck

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/sp301415/sumcheck/field"
	"github.com/sp301415/sumcheck/mvpoly"
)

const (
	promptChallenge = "\nEnter c to cancel or select element uniformly at random from field, independent of any previous selection:"
	promptRetry     = "\nInvalid input. Enter an integer, or c to cancel:"
	promptFinal     = "\nInvalid input. Final attempt: enter an integer, or c to cancel:"
	msgNoAttempts   = "\nInvalid input. No more attempts."
)

// InteractiveChallenger reads challenges as decimal integers from an
// input stream, prompting on an output stream. The entered values are
// reduced into the field.
//
// Entering the literal c cancels the run. Malformed input is retried:
// indefinitely when MaxAttempts is 0, and at most MaxAttempts times
// otherwise, after which the run terminates.
type InteractiveChallenger struct {
	// Field is the field challenges are drawn from.
	Field field.Field

	// MaxAttempts bounds the attempts per challenge. Zero means unlimited.
	MaxAttempts int

	scanner *bufio.Scanner
	out     io.Writer
}

// NewInteractiveChallenger creates a new InteractiveChallenger over f,
// reading from r and prompting on w.
func NewInteractiveChallenger(f field.Field, r io.Reader, w io.Writer) *InteractiveChallenger {
	return &InteractiveChallenger{
		Field: f,

		scanner: bufio.NewScanner(r),
		out:     w,
	}
}

// Next implements the [Challenger] interface.
// The end of the input stream cancels the run, like an entered c.
func (c *InteractiveChallenger) Next(round int, prev mvpoly.Poly) (*big.Int, error) {
	prompt := promptChallenge
	for attempt := 1; ; attempt++ {
		fmt.Fprint(c.out, prompt)

		if !c.scanner.Scan() {
			if err := c.scanner.Err(); err != nil {
				return nil, err
			}
			fmt.Fprintln(c.out)
			return nil, ErrCancelled
		}
		line := c.scanner.Text()

		if line == "c" {
			return nil, ErrCancelled
		}
		if x, ok := big.NewInt(0).SetString(strings.TrimSpace(line), 10); ok {
			return c.Field.Reduce(x), nil
		}

		if c.MaxAttempts > 0 {
			if attempt >= c.MaxAttempts {
				fmt.Fprintln(c.out, msgNoAttempts)
				return nil, ErrRetriesExhausted
			}
			if attempt == c.MaxAttempts-1 {
				prompt = promptFinal
				continue
			}
		}
		prompt = promptRetry
	}
}
