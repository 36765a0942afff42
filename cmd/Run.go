package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ZararB/DogWalker/agent"
	"github.com/ZararB/DogWalker/environment/envconfig"
	"github.com/ZararB/DogWalker/experiment"
	"github.com/ZararB/DogWalker/experiment/checkpointer"
	"github.com/ZararB/DogWalker/experiment/trackers"
	ts "github.com/ZararB/DogWalker/timestep"
	"github.com/ZararB/DogWalker/utils/progressbar"
)

// runOptions configures the run command
type runOptions struct {
	agentType       string
	steps           uint
	seeds           int
	firstSeed       uint64
	parallel        int
	outDir          string
	checkpointEvery int
	progress        bool
}

// RunCommand returns the command running online experiments, one per
// seed
func RunCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run online experiments, one per world seed",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()
			return runExperiments(ctx, c, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.agentType, "agent", "a",
		string(agent.EGreedyQLearningLinear),
		fmt.Sprintf("Agent type, one of %v", agent.Types()))
	cmd.Flags().UintVar(&opts.steps, "steps", 100_000,
		"Environment steps per run")
	cmd.Flags().IntVar(&opts.seeds, "seeds", 1, "Number of runs")
	cmd.Flags().Uint64Var(&opts.firstSeed, "seed", 0,
		"Seed of the first run, runs use consecutive seeds")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 1,
		"Number of runs executed at once")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "results",
		"Directory to save tracked data in")
	cmd.Flags().IntVar(&opts.checkpointEvery, "checkpoint-every", 0,
		"Save the agent every this many steps, 0 disables checkpoints")
	cmd.Flags().BoolVar(&opts.progress, "progress", false,
		"Display a progress bar")
	return cmd
}

// runExperiments runs one experiment per seed, at most opts.parallel at
// a time. The first failing run cancels the others.
func runExperiments(ctx context.Context, c envconfig.Config,
	opts runOptions) error {
	if opts.seeds <= 0 {
		return fmt.Errorf("run: number of runs must be positive")
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	expConfig := experiment.DefaultConfig()
	expConfig.MaxSteps = opts.steps
	expConfig.Agent = agent.Type(opts.agentType)
	if err := expConfig.Validate(); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	var bar *progressbar.ProgressBar
	if opts.progress {
		bar = progressbar.NewProgressBar(os.Stderr, 50,
			int(opts.steps)*opts.seeds, time.Second)
		bar.Display()
		defer bar.Close()
	}

	g, ctx := errgroup.WithContext(ctx)
	if opts.parallel > 0 {
		g.SetLimit(opts.parallel)
	}
	for i := 0; i < opts.seeds; i++ {
		seed := opts.firstSeed + uint64(i)
		g.Go(func() error {
			return runSeed(ctx, c.WithSeed(seed), expConfig, seed, opts, bar)
		})
	}
	return g.Wait()
}

// runSeed runs and saves a single experiment
func runSeed(ctx context.Context, c envconfig.Config,
	expConfig experiment.Config, seed uint64, opts runOptions,
	bar *progressbar.ProgressBar) error {
	log := logger.With(zap.Uint64("seed", seed))

	env, _, err := c.Create(log)
	if err != nil {
		return fmt.Errorf("run: seed %v: %w", seed, err)
	}
	defer env.Close()

	prefix := filepath.Join(opts.outDir, fmt.Sprintf("seed%v", seed))
	returns := trackers.NewReturn(prefix + "-return.bin")
	t := []trackers.Tracker{
		returns,
		trackers.NewEpisodeLength(prefix + "-length.bin"),
		trackers.NewCollisions(prefix + "-collisions.bin"),
	}
	check := []checkpointer.Checkpointer{cancelled{ctx}}
	if bar != nil {
		check = append(check, progress{bar})
	}

	exp, a, err := expConfig.CreateExp(env, seed, t, nil, log)
	if err != nil {
		return fmt.Errorf("run: seed %v: %w", seed, err)
	}

	if opts.checkpointEvery > 0 {
		s, ok := a.(checkpointer.Serializable)
		if !ok {
			return fmt.Errorf("run: agent %v cannot be checkpointed",
				expConfig.Agent)
		}
		n, err := checkpointer.NewNStep(opts.checkpointEvery, s,
			checkpointer.FilenameEnumerator(0, prefix+"-agent", ".bin"))
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		check = append(check, n)
	}
	for _, ch := range check {
		exp.AddCheckpointer(ch)
	}

	log.Info("starting run", zap.String("agent", string(expConfig.Agent)),
		zap.Uint("steps", expConfig.MaxSteps))
	start := time.Now()
	if err := exp.Run(); err != nil {
		return fmt.Errorf("run: seed %v: %w", seed, err)
	}
	if err := exp.Save(); err != nil {
		return fmt.Errorf("run: seed %v: %w", seed, err)
	}

	log.Info("finished run",
		zap.Int("episodes", len(returns.Data())),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// cancelled stops an experiment once its context is done
type cancelled struct {
	ctx context.Context
}

// Checkpoint implements checkpointer.Checkpointer
func (c cancelled) Checkpoint(ts.TimeStep) error {
	return c.ctx.Err()
}

// progress advances a progress bar on every environment step
type progress struct {
	bar *progressbar.ProgressBar
}

// Checkpoint implements checkpointer.Checkpointer
func (p progress) Checkpoint(t ts.TimeStep) error {
	if !t.First() {
		p.bar.Increment()
	}
	return nil
}
