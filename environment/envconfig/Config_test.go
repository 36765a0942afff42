package envconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ZararB/DogWalker/environment/escape"
)

// chdir moves into dir for the rest of the test, so that no .env file
// from the working tree is picked up
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadYAMLKeepsDefaults(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "env.yaml")
	data := []byte(`
camera: Blank
escape:
  world:
    num_obstacles: 3
    seed: 7
  task:
    max_steps: 500
`)
	require.NoError(t, os.WriteFile(filename, data, 0o644))

	c, err := Load(filename)
	require.NoError(t, err)

	assert.Equal(t, Blank, c.Camera)
	assert.Equal(t, 3, c.Escape.World.NumObstacles)
	assert.Equal(t, uint64(7), c.Escape.World.Seed)
	assert.Equal(t, 500, c.Escape.Task.MaxSteps)

	def := escape.DefaultConfig()
	assert.Equal(t, def.World.EscapeLength, c.Escape.World.EscapeLength)
	assert.Equal(t, def.Task.EscapeThreshold, c.Escape.Task.EscapeThreshold)
	assert.Equal(t, def.Agent, c.Escape.Agent)
	assert.Equal(t, Default().Physics, c.Physics)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := Default().WithSeed(99)

	for _, name := range []string{"env.json", "env.yaml"} {
		filename := filepath.Join(dir, name)
		require.NoError(t, c.Save(filename))

		loaded, err := Load(filename)
		require.NoError(t, err, name)
		assert.Equal(t, c, loaded, name)
	}
}

func TestLoadAgentFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "robot.yaml"),
		[]byte("name: heavy\nmass: 30\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "env.yaml"),
		[]byte("agent_file: robot.yaml\n"), 0o644))

	c, err := Load(filepath.Join(dir, "env.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "heavy", c.Escape.Agent.Name)
	assert.Equal(t, 30.0, c.Escape.Agent.Mass)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	unknown := filepath.Join(dir, "env.toml")
	require.NoError(t, os.WriteFile(unknown, []byte("x = 1"), 0o644))
	_, err = Load(unknown)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(invalid,
		[]byte("escape:\n  world:\n    gap_width: 10\n"), 0o644))
	_, err = Load(invalid)
	assert.Error(t, err)

	engine := filepath.Join(dir, "engine.json")
	require.NoError(t, os.WriteFile(engine,
		[]byte(`{"engine": "Bullet"}`), 0o644))
	_, err = Load(engine)
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv(SeedVar, "1234")
	t.Setenv(ConfigVar, "")
	c, err := FromEnv(Default())
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), c.Escape.World.Seed)

	t.Setenv(SeedVar, "not a seed")
	_, err = FromEnv(Default())
	assert.Error(t, err)
}

func TestFromEnvConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	filename := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(filename,
		[]byte("escape:\n  world:\n    num_obstacles: 2\n"), 0o644))

	t.Setenv(ConfigVar, filename)
	t.Setenv(SeedVar, "")
	c, err := FromEnv(Default())
	require.NoError(t, err)
	assert.Equal(t, 2, c.Escape.World.NumObstacles)
}

func TestCreate(t *testing.T) {
	c := Default()
	c.Escape.SettleSteps = 5

	env, step, err := c.Create(zap.NewNop())
	require.NoError(t, err)
	defer env.Close()

	assert.True(t, step.First())
	assert.Equal(t, c.Escape, env.Config())
	assert.Len(t, env.Layout().Rows, c.Escape.World.NumObstacles)

	c.Camera = "Thermal"
	_, _, err = c.Create(zap.NewNop())
	assert.Error(t, err)
}
