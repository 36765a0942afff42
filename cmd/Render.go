package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ZararB/DogWalker/agent"
	"github.com/ZararB/DogWalker/environment/escape"
)

// RenderCommand returns the command saving a PNG snapshot of a world
func RenderCommand() *cobra.Command {
	var (
		out   string
		steps int
		seed  uint64
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Save a PNG snapshot of a generated world",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				c = c.WithSeed(seed)
			}

			env, _, err := c.Create(logger)
			if err != nil {
				return err
			}
			defer env.Close()

			if err := walk(env, steps, c.Escape.World.Seed); err != nil {
				return err
			}
			if err := env.Render(out); err != nil {
				return err
			}
			logger.Info("saved snapshot", zap.String("file", out),
				zap.Uint64("seed", c.Escape.World.Seed),
				zap.Int("steps", env.Episode().Steps))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "world.png",
		"PNG file to save the snapshot to")
	cmd.Flags().IntVar(&steps, "steps", 0,
		"Random actions to take before the snapshot")
	cmd.Flags().Uint64Var(&seed, "seed", 0,
		"World seed, overriding the configuration")
	return cmd
}

// walk takes up to steps random actions in env, stopping early if the
// episode ends
func walk(env *escape.Env, steps int, seed uint64) error {
	if steps <= 0 {
		return nil
	}

	c, err := agent.DefaultConfig(agent.Random)
	if err != nil {
		return fmt.Errorf("walk: %w", err)
	}
	a, err := c.CreateAgent(env, seed)
	if err != nil {
		return fmt.Errorf("walk: %w", err)
	}

	step := env.CurrentTimeStep()
	for i := 0; i < steps; i++ {
		var done bool
		step, done, err = env.Step(a.SelectAction(step))
		if err != nil {
			return fmt.Errorf("walk: %w", err)
		}
		if done {
			break
		}
	}
	return nil
}
