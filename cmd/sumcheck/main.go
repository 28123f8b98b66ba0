// Command sumcheck runs the sum-check protocol on a polynomial over a
// prime field, printing the round-by-round transcript.
//
// With no options the prime, the polynomial, and the run mode are read
// from stdin:
//
//	$ sumcheck
//	Enter a prime:5
//	Enter your polynomial (e.g. 2*X_0**2 + X_0*X_1*X_2 + X_1*X_4**3 + X_1 + X_3):X_0*X_1 + X_0
//	Do you want this to be interactive? (y/n)n
//
// Options select everything up front instead:
//
//	$ sumcheck -p 5 -poly "X_0*X_1 + X_0" -seed 42 -export run.csv -plot run.html
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/crypto/blake2b"

	"github.com/sp301415/sumcheck/field"
	"github.com/sp301415/sumcheck/logger"
	"github.com/sp301415/sumcheck/mvpoly"
	"github.com/sp301415/sumcheck/sumcheck"
	"github.com/sp301415/sumcheck/trace"
)

var (
	primeFlag       = flag.String("p", "", "field modulus, a prime (prompted when empty)")
	polyFlag        = flag.String("poly", "", "polynomial over GF(p), e.g. \"2*X_0**2 + X_0*X_1\" (prompted when empty)")
	interactiveFlag = flag.Bool("interactive", false, "read challenges from stdin instead of drawing them at random")
	seedFlag        = flag.String("seed", "", "seed for random challenges; empty draws a fresh one")
	maxAttemptsFlag = flag.Int("max-attempts", 0, "attempts per interactive challenge; 0 retries forever")
	parallelFlag    = flag.Bool("parallel", false, "sum over the hypercube with all CPUs")
	exportFlag      = flag.String("export", "", "write the run record to this path (.csv or .json)")
	plotFlag        = flag.String("plot", "", "write a consistency chart to this path (.html)")
	quietFlag       = flag.Bool("quiet", false, "suppress the transcript, showing a progress bar instead")
)

func init() {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `usage: sumcheck [options]

Runs the sum-check protocol on a polynomial over a prime field GF(p).
With no options the prime and the polynomial are read from stdin.

Options:`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	log := logger.Logger()
	if *quietFlag {
		logger.Disable()
	}

	stdin := bufio.NewReader(os.Stdin)

	f, ok := chooseField(stdin)
	if !ok {
		os.Exit(1)
	}

	g, ok := choosePoly(stdin, f)
	if !ok {
		os.Exit(1)
	}

	interactive := *interactiveFlag
	if *polyFlag == "" && !flagPassed("interactive") {
		line, ok := prompt(stdin, "Do you want this to be interactive? (y/n)")
		if !ok {
			os.Exit(1)
		}
		interactive = strings.EqualFold(line, "y")
	}

	var challenger sumcheck.Challenger
	switch {
	case interactive:
		ic := sumcheck.NewInteractiveChallenger(f, stdin, os.Stdout)
		ic.MaxAttempts = *maxAttemptsFlag
		challenger = ic
	case *seedFlag != "":
		seed := blake2b.Sum256([]byte(*seedFlag))
		challenger = sumcheck.NewRandomChallengerWithSeed(f, seed[:])
	default:
		challenger = sumcheck.NewRandomChallenger(f)
	}

	opts := make([]sumcheck.Option, 0, 2)
	if *quietFlag {
		bar := progressbar.Default(int64(g.NumVars()+1), "rounds")
		opts = append(opts, sumcheck.WithEventSink(progressSink{bar: bar}))
	} else {
		opts = append(opts, sumcheck.WithEventSink(trace.NewRenderer(os.Stdout)))
	}
	if *parallelFlag {
		opts = append(opts, sumcheck.WithParallelSum())
	}

	eng, err := sumcheck.NewEngine(g, challenger, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("engine setup failed")
	}

	st, err := eng.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}

	if *exportFlag != "" {
		if err := exportRecord(*exportFlag, st); err != nil {
			log.Fatal().Err(err).Str("path", *exportFlag).Msg("export failed")
		}
		log.Info().Str("path", *exportFlag).Msg("run record written")
	}
	if *plotFlag != "" {
		if err := writePlot(*plotFlag, st); err != nil {
			log.Fatal().Err(err).Str("path", *plotFlag).Msg("plot failed")
		}
		log.Info().Str("path", *plotFlag).Msg("consistency chart written")
	}

	if *quietFlag {
		fmt.Println(st.Verdict)
	}

	switch st.Verdict {
	case sumcheck.Rejected:
		os.Exit(1)
	case sumcheck.Terminated:
		os.Exit(2)
	}
}

// prompt writes msg and reads one trimmed line from stdin.
// It reports false when the input stream ends with nothing entered.
func prompt(stdin *bufio.Reader, msg string) (string, bool) {
	fmt.Print(msg)
	line, err := stdin.ReadString('\n')
	if err != nil && strings.TrimSpace(line) == "" {
		fmt.Println()
		return "", false
	}
	return strings.TrimSpace(line), true
}

func chooseField(stdin *bufio.Reader) (field.Field, bool) {
	text := *primeFlag
	if text == "" {
		line, ok := prompt(stdin, "Enter a prime:")
		if !ok {
			return field.Field{}, false
		}
		text = line
	}

	p, ok := big.NewInt(0).SetString(text, 10)
	if !ok {
		fmt.Println("Invalid input: p must be prime. We'll modify the function to handle fields of prime-power order later.")
		return field.Field{}, false
	}
	f, err := field.NewField(p)
	if err != nil {
		fmt.Println("Invalid input: p must be prime. We'll modify the function to handle fields of prime-power order later.")
		return field.Field{}, false
	}
	return f, true
}

func choosePoly(stdin *bufio.Reader, f field.Field) (mvpoly.Poly, bool) {
	text := *polyFlag
	if text == "" {
		line, ok := prompt(stdin, "Enter your polynomial (e.g. 2*X_0**2 + X_0*X_1*X_2 + X_1*X_4**3 + X_1 + X_3):")
		if !ok {
			return mvpoly.Poly{}, false
		}
		text = line
	}

	g, err := mvpoly.Parse(f, text)
	if err != nil {
		fmt.Println("Invalid polynomial:", err)
		return mvpoly.Poly{}, false
	}
	return g, true
}

func flagPassed(name string) bool {
	passed := false
	flag.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			passed = true
		}
	})
	return passed
}

func exportRecord(path string, st *sumcheck.State) error {
	var write func(io.Writer, *sumcheck.State) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		write = trace.WriteCSV
	case ".json":
		write = trace.WriteJSON
	default:
		return fmt.Errorf("unsupported export format %q: use .csv or .json", filepath.Ext(path))
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return write(file, st)
}

func writePlot(path string, st *sumcheck.State) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return trace.WritePlotHTML(file, st)
}

// progressSink advances a progress bar one round at a time.
type progressSink struct {
	bar *progressbar.ProgressBar
}

func (s progressSink) BeginRound(round int, final bool) {}
func (s progressSink) EndRound(ev sumcheck.RoundEvent)  { s.bar.Add(1) }
func (s progressSink) Terminate(round int)              { s.bar.Finish() }
