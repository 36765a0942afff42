package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ZararB/DogWalker/environment/envconfig"
	"github.com/ZararB/DogWalker/experiment/trackers"
)

// setup moves into an empty directory and writes a config with short
// episodes, returning its path
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	t.Setenv(envconfig.ConfigVar, "")
	t.Setenv(envconfig.SeedVar, "")

	filename := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(`
escape:
  settle_steps: 0
  task:
    max_steps: 5
`), 0o644))
	return filename
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := GetRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRunAndPlot(t *testing.T) {
	config := setup(t)
	out := t.TempDir()

	_, err := execute(t, "run", "-c", config, "--log-level", "warn",
		"--agent", "EGreedyQLearning-Linear", "--steps", "12",
		"--seeds", "2", "--parallel", "2", "--checkpoint-every", "6",
		"-o", out)
	require.NoError(t, err)

	for _, seed := range []string{"seed0", "seed1"} {
		data, err := trackers.LoadData(filepath.Join(out,
			seed+"-length.bin"))
		require.NoError(t, err)
		assert.NotEmpty(t, data, seed)

		for _, n := range []string{"1", "2"} {
			assert.FileExists(t, filepath.Join(out, seed+"-agent"+n+".bin"))
		}
	}

	plot := filepath.Join(out, "returns.png")
	_, err = execute(t, "plot", "-o", plot, "-w", "1",
		filepath.Join(out, "seed0-return.bin"),
		filepath.Join(out, "seed1-return.bin"))
	require.NoError(t, err)
	assert.FileExists(t, plot)
}

func TestRunErrors(t *testing.T) {
	config := setup(t)
	out := t.TempDir()

	_, err := execute(t, "run", "-c", config, "--agent", "Random",
		"--steps", "5", "--checkpoint-every", "2", "-o", out)
	assert.Error(t, err)

	_, err = execute(t, "run", "-c", config, "--agent", "Unknown",
		"-o", out)
	assert.Error(t, err)

	_, err = execute(t, "run", "-c", config, "--seeds", "0", "-o", out)
	assert.Error(t, err)

	_, err = execute(t, "run", "--log-level", "loud", "-o", out)
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	config := setup(t)
	out := filepath.Join(t.TempDir(), "world.png")

	_, err := execute(t, "render", "-c", config, "--seed", "3",
		"--steps", "3", "-o", out)
	require.NoError(t, err)
	assert.FileExists(t, out)
}

func TestConfig(t *testing.T) {
	config := setup(t)

	printed, err := execute(t, "config", "-c", config)
	require.NoError(t, err)

	var c envconfig.Config
	require.NoError(t, yaml.Unmarshal([]byte(printed), &c))
	assert.Equal(t, 5, c.Escape.Task.MaxSteps)
	assert.Equal(t, 0, c.Escape.SettleSteps)

	printed, err = execute(t, "config", "--default", "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, printed, `"environment": "Escape"`)

	saved := filepath.Join(t.TempDir(), "saved.yaml")
	_, err = execute(t, "config", "--default", "-o", saved)
	require.NoError(t, err)
	loaded, err := envconfig.Load(saved)
	require.NoError(t, err)
	assert.Equal(t, envconfig.Default(), loaded)
}
