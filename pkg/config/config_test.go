package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProcess(t *testing.T) {
	// Default config
	config, err := Process([]string{})
	require.NoError(t, err)
	require.Equal(t, 320, config.Screen.Width)
	require.Equal(t, 6, config.Render.TaintLimit)
	require.Equal(t, SceneAll, config.Demo.Scene)

	dir := t.TempDir()

	// yaml config
	{
		yaml := filepath.Join(dir, "config.yaml")
		err = os.WriteFile(yaml, []byte(`
render:
  taintLimit: 3
`), 0644)
		require.NoError(t, err)
		config, err = Process([]string{yaml})
		require.NoError(t, err)
		require.Equal(t, 3, config.Render.TaintLimit)
		require.Equal(t, 200, config.Screen.Height)
	}

	// json config
	{
		json := filepath.Join(dir, "config.json")
		err = os.WriteFile(json, []byte(`{
  "screen": {
    "width": 640
  }
}`), 0644)
		require.NoError(t, err)
		config, err = Process([]string{json})
		require.NoError(t, err)
		require.Equal(t, 640, config.Screen.Width)
		require.Equal(t, 200, config.Screen.Height)
	}

	// multiple yaml
	{
		yaml1 := filepath.Join(dir, "config1.yaml")
		err = os.WriteFile(yaml1, []byte(`
render:
  taintLimit: 10
  showTainted: true
`), 0644)
		require.NoError(t, err)

		yaml2 := filepath.Join(dir, "config2.yml")
		err = os.WriteFile(yaml2, []byte(`
render:
  taintLimit: 12
demo:
  scene: facing
`), 0644)
		require.NoError(t, err)
		config, err = Process([]string{yaml1, yaml2})
		require.NoError(t, err)
		require.Equal(t, 12, config.Render.TaintLimit)
		require.True(t, config.Render.ShowTainted)
		require.Equal(t, SceneFacing, config.Demo.Scene)
	}

	// empty file
	{
		empty := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(empty, []byte{}, 0644))
		_, err = Process([]string{empty})
		require.NoError(t, err)
	}
}

func TestInvalid(t *testing.T) {
	dir := t.TempDir()
	write := func(name, contents string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
		return path
	}

	_, err := Process([]string{filepath.Join(dir, "missing.yaml")})
	require.Error(t, err)

	_, err = Process([]string{write("config.toml", "a = 1")})
	require.ErrorContains(t, err, "not in a valid format")

	_, err = Process([]string{write("limit.yaml", "render:\n  taintLimit: 0\n")})
	require.ErrorContains(t, err, "taintLimit")

	_, err = Process([]string{write("scene.yaml", "demo:\n  scene: maze\n")})
	require.ErrorContains(t, err, "demo.scene")

	_, err = Process([]string{write("unknown.yaml", "screen:\n  depth: 3\n")})
	require.Error(t, err)

	_, err = Process([]string{write("unknown.json", `{"render": {"colour": 1}}`)})
	require.Error(t, err)
}
