package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/plus3/hookworld/ecs"
)

// Options holds the flags of the stress command.
type Options struct {
	Duration         time.Duration
	Entities         int
	TargetPopulation int
	Seed             int64
	Profile          string
	Scenario         string
	ReportPath       string
	GCPauseMetrics   bool
	Verbose          bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "ecs-stress",
		Short: "Stress test the hooks ECS runtime",
		Long: `Populate a world with randomly generated entities and run the simulation
systems as fast as possible for a fixed duration, then print a Markdown report
with frame timings, per-system statistics, live queries and memory usage.

Example:
  ecs-stress --duration 5s --entities 20000
  ecs-stress --scenario ./arena.yaml --profile cpu --report report.md`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().DurationVar(&opts.Duration, "duration", 10*time.Second, "total duration the test should run for")
	cmd.Flags().IntVar(&opts.Entities, "entities", 10000, "initial number of entities to create")
	cmd.Flags().IntVar(&opts.TargetPopulation, "target", 0, "population the spawner maintains (default: --entities)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 1, "random seed for entity generation")
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "write a pprof profile to the working directory (cpu|mem)")
	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "YAML file of entities to load before populating")
	cmd.Flags().StringVar(&opts.ReportPath, "report", "", "write the report to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.GCPauseMetrics, "gc-pause-metrics", false, "include GC pause metrics in the report")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	return cmd
}

func startProfile(mode string) (interface{ Stop() }, error) {
	switch mode {
	case "":
		return nil, nil
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook), nil
	case "mem":
		return profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook), nil
	default:
		return nil, fmt.Errorf("invalid profile %q: must be cpu or mem", mode)
	}
}

// newSimulation builds a world with the simulation systems registered, the
// scenario loaded and the initial population spawned.
func newSimulation(opts *Options, logger *slog.Logger, scenario *Scenario) *World {
	target := opts.TargetPopulation
	if target <= 0 {
		target = opts.Entities
	}

	env := &Env{
		Rand:             rand.New(rand.NewSource(opts.Seed)),
		DeltaTime:        1.0 / 60.0,
		Bounds:           1000,
		TargetPopulation: target,
		SpawnBatch:       max(target/100, 1),
		DecayRate:        5,
	}
	w := ecs.NewWorld(env, ecs.WithLogger(logger), ecs.WithEntityCapacity(target+len(scenarioEntities(scenario))))

	if scenario != nil {
		scenario.Apply(w.Store, logger)
	}
	for range opts.Entities {
		components, tags := spawnRandomEntity(env)
		w.AddEntity(components, tags...)
	}

	registerSystems(w)
	return w
}

func scenarioEntities(s *Scenario) []EntitySpec {
	if s == nil {
		return nil
	}
	return s.Entities
}

func runStress(ctx context.Context, opts *Options, stdout io.Writer) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	var scenario *Scenario
	if opts.Scenario != "" {
		s, err := LoadScenario(opts.Scenario)
		if err != nil {
			return err
		}
		scenario = s
	}

	prof, err := startProfile(opts.Profile)
	if err != nil {
		return err
	}

	logger.Info("populating world", "entities", opts.Entities, "seed", opts.Seed)
	w := newSimulation(opts, logger, scenario)

	report := &Report{
		Duration:         opts.Duration,
		Entities:         opts.Entities,
		TargetPopulation: w.Env().TargetPopulation,
		Seed:             opts.Seed,
		GCPauseMetrics:   opts.GCPauseMetrics,
	}
	if scenario != nil {
		report.Scenario = scenario.Name
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info("running simulation", "duration", opts.Duration)
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, opts.Duration)
	defer cancel()

	report.TotalUpdates, report.UpdateTime.Samples = runFrames(ctx, w)
	for _, sample := range report.UpdateTime.Samples {
		report.TotalTime += sample
	}
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	if prof != nil {
		prof.Stop()
	}

	report.FinalEntities = w.Len()
	report.Counters = w.Env().Counters
	report.Systems = w.Stats().Systems
	report.Queries = w.CollectStats().Queries

	logger.Info("simulation finished", "updates", report.TotalUpdates, "entities", report.FinalEntities)

	out := stdout
	if opts.ReportPath != "" {
		f, err := os.Create(opts.ReportPath)
		if err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := report.Generate(out); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	return nil
}

// runFrames runs the frame group back to back until ctx is done and returns
// the frame count and per-frame durations.
func runFrames(ctx context.Context, w *World) (int64, []time.Duration) {
	var updates int64
	samples := make([]time.Duration, 0, 1024)
	last := time.Now()

	for ctx.Err() == nil {
		now := time.Now()
		w.Env().DeltaTime = now.Sub(last).Seconds()
		last = now

		w.Run(frameGroup)
		samples = append(samples, time.Since(now))
		updates++
	}
	return updates, samples
}
