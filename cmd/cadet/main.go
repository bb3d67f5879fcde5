package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/arnegrid/cadet/internal/cdcl"
	"github.com/arnegrid/cadet/internal/dimacs"
	"github.com/arnegrid/cadet/internal/tracewriter"
)

var flagCPUProfile = flag.Bool(
	"cpuprof",
	false,
	"save pprof CPU profile in cpuprof",
)

var flagMemProfile = flag.Bool(
	"memprof",
	false,
	"save pprof memory profile in memprof",
)

var flagSeed = flag.Uint64(
	"seed",
	1,
	"RNG seed driving phase/tie-break randomness",
)

var flagPropBudget = flag.Int64(
	"max-props",
	0,
	"stop and report UNKNOWN after this many propagations (0: unlimited)",
)

var flagDecisionBudget = flag.Int64(
	"max-decisions",
	0,
	"stop and report UNKNOWN after this many decisions (0: unlimited)",
)

var flagDRUP = flag.String(
	"drup",
	"",
	"write a DRUP proof of every learned/deleted clause to this file",
)

var flagIncremental = flag.Int(
	"incremental",
	0,
	"if > 0, solve N times, assuming the negation of the previous model's first literal each time",
)

var flagModel = flag.String(
	"model",
	"",
	"on a SAT verdict, write the model to this file instead of stdout",
)

func parseConfig() (*config, error) {
	flag.Parse()

	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return nil, fmt.Errorf("missing instance file")
	}
	return &config{
		instanceFile: flag.Arg(0),
		memProfile:   *flagMemProfile,
		cpuProfile:   *flagCPUProfile,
		seed:         *flagSeed,
		propBudget:   *flagPropBudget,
		decnBudget:   *flagDecisionBudget,
		drupPath:     *flagDRUP,
		incremental:  *flagIncremental,
		modelPath:    *flagModel,
	}, nil
}

type config struct {
	instanceFile string
	memProfile   bool
	cpuProfile   bool
	seed         uint64
	propBudget   int64
	decnBudget   int64
	drupPath     string
	incremental  int
	modelPath    string
}

func run(cfg *config) error {
	s := cdcl.New(cdcl.DefaultConfig())
	s.SetRNGSeed(cfg.seed)
	s.SetBudget(cfg.propBudget, cfg.decnBudget)

	var drup *tracewriter.DRUP
	if cfg.drupPath != "" {
		f, err := os.Create(cfg.drupPath)
		if err != nil {
			return fmt.Errorf("could not create DRUP file: %w", err)
		}
		defer f.Close()
		drup = tracewriter.NewDRUP(f)
		s.SetTraceSink(drup)
	}

	hdr, err := dimacs.LoadDIMACS(cfg.instanceFile, false, s)
	if err != nil {
		return fmt.Errorf("could not parse instance: %w", err)
	}

	fmt.Printf("c variables:  %d\n", hdr.Variables)
	fmt.Printf("c clauses:    %d\n", hdr.Clauses)

	t := time.Now()
	status := s.Solve(context.Background())
	elapsed := time.Since(t)

	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	fmt.Printf("c status:     %s\n", status.String())

	if status == cdcl.StatusSat {
		if err := writeModel(cfg.modelPath, s, hdr.Variables); err != nil {
			return fmt.Errorf("could not write model: %w", err)
		}
	}

	if cfg.incremental > 0 && status == cdcl.StatusSat {
		runIncremental(s, cfg.incremental)
	}

	if drup != nil {
		if err := drup.Flush(); err != nil {
			return fmt.Errorf("could not write DRUP proof: %w", err)
		}
	}

	return nil
}

// writeModel renders s's current assignment as a model and writes it either
// to path or, if path is empty, to stdout prefixed with "v ".
func writeModel(path string, s *cdcl.Solver, numVars int) error {
	model := make([]bool, numVars)
	for v := 0; v < numVars; v++ {
		model[v] = s.Value(cdcl.PosLit(cdcl.Var(v))) == cdcl.True
	}

	if path == "" {
		fmt.Print("v ")
		return dimacs.WriteModel(os.Stdout, model)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return dimacs.WriteModel(f, model)
}

// runIncremental exercises the assumption contract end to end: after an
// initial SAT verdict, it re-solves N times, each time assuming the
// negation of the previous model's first variable, demonstrating that
// Assume/Solve can be called repeatedly on the same solver.
func runIncremental(s *cdcl.Solver, n int) {
	status := cdcl.StatusSat
	for i := 0; i < n && status == cdcl.StatusSat; i++ {
		lit := cdcl.PosLit(0)
		if s.Value(lit) == cdcl.True {
			lit = lit.Opposite()
		}
		s.Assume(lit)
		status = s.Solve(context.Background())
		fmt.Printf("c incremental[%d]: %s\n", i, status.String())
	}
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.cpuProfile {
		f, err := os.Create("cpuprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}

	if cfg.memProfile {
		f, err := os.Create("memprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}
}
