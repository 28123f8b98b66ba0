package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sp301415/sumcheck/field"
	"github.com/sp301415/sumcheck/mvpoly"
	"github.com/sp301415/sumcheck/sumcheck"
	"github.com/sp301415/sumcheck/trace"
)

// runFixture runs the protocol on X_0*X_1 + X_0 over GF(5) with the fixed
// challenges 2 and 3.
func runFixture(t *testing.T) *sumcheck.State {
	t.Helper()

	f := field.MustNewField(big.NewInt(5))
	g, err := mvpoly.Parse(f, "X_0*X_1 + X_0")
	assert.NoError(t, err)

	ch := sumcheck.NewInteractiveChallenger(f, strings.NewReader("2\n3\n"), &bytes.Buffer{})
	eng, err := sumcheck.NewEngine(g, ch)
	assert.NoError(t, err)

	st, err := eng.Run()
	assert.NoError(t, err)
	return st
}

func TestExportRecord(t *testing.T) {
	st := runFixture(t)

	t.Run("CSV", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.csv")
		assert.NoError(t, exportRecord(path, st))

		data, err := os.ReadFile(path)
		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "round,univariate,challenge,rand_eval,sum_check,check\n"))
		assert.Equal(t, 4, strings.Count(string(data), "\n"))
	})

	t.Run("JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.json")
		assert.NoError(t, exportRecord(path, st))

		data, err := os.ReadFile(path)
		assert.NoError(t, err)

		var rec trace.Record
		assert.NoError(t, json.Unmarshal(data, &rec))
		assert.Equal(t, 2, rec.NumVars)
		assert.Equal(t, "Accepted", rec.Verdict)
	})

	t.Run("UnsupportedExtension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.txt")
		assert.Error(t, exportRecord(path, st))

		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestWritePlot(t *testing.T) {
	st := runFixture(t)

	path := filepath.Join(t.TempDir(), "run.html")
	assert.NoError(t, writePlot(path, st))

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "echarts")
}

func TestPrompt(t *testing.T) {
	t.Run("TrimsLine", func(t *testing.T) {
		line, ok := prompt(bufio.NewReader(strings.NewReader("  y  \n")), "")
		assert.True(t, ok)
		assert.Equal(t, "y", line)
	})

	t.Run("LastLineWithoutNewline", func(t *testing.T) {
		line, ok := prompt(bufio.NewReader(strings.NewReader("5")), "")
		assert.True(t, ok)
		assert.Equal(t, "5", line)
	})

	t.Run("EOF", func(t *testing.T) {
		_, ok := prompt(bufio.NewReader(strings.NewReader("")), "")
		assert.False(t, ok)
	})
}

func TestFlagPassed(t *testing.T) {
	assert.False(t, flagPassed("seed"))

	assert.NoError(t, flag.CommandLine.Set("seed", "fixture"))
	assert.True(t, flagPassed("seed"))
}
