package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wplibs/nodata/pkg/config"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	c := config.NewConfig()

	assert.Equal(t, config.APIVersion, c.APIVersion)
	assert.Equal(t, config.Kind, c.Kind)
	assert.Equal(t, config.DefaultBaseURL, c.API.BaseURL)
	assert.Equal(t, "30s", c.API.Timeout)
	assert.Equal(t, 20, c.UI.PerPage)
	require.NoError(t, c.Validate())
}

func TestAPIConfig_ClientConfig(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		api     config.APIConfig
		timeout time.Duration
		err     error
	}{
		"default timeout": {
			api: config.APIConfig{BaseURL: "http://x"},
		},
		"custom timeout": {
			api:     config.APIConfig{BaseURL: "http://x", Timeout: "5s"},
			timeout: 5 * time.Second,
		},
		"bad timeout": {
			api: config.APIConfig{BaseURL: "http://x", Timeout: "soon"},
			err: config.ErrInvalidTimeout,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg, err := tc.api.ClientConfig()
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.api.BaseURL, cfg.BaseURL)
			assert.Equal(t, tc.timeout, cfg.Timeout)
		})
	}
}

func TestSchema(t *testing.T) {
	t.Parallel()

	data, err := config.Schema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)

	for _, key := range []string{"api", "ui", "mcp", "telemetry", "apiVersion", "kind"} {
		assert.Contains(t, props, key)
	}

	apiVersion, ok := props["apiVersion"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, config.APIVersion, apiVersion["const"])
}

func TestLoader_Default(t *testing.T) {
	t.Parallel()

	l, err := config.NewLoaderFromBytes(config.DefaultConfigYAML())
	require.NoError(t, err)
	require.NoError(t, l.Validate())

	c, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "auto", c.UI.Theme)
	assert.Equal(t, "300ms", c.UI.Debounce)
	assert.Equal(t, config.DefaultBaseURL, c.API.BaseURL)
}

func TestLoader_Validate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input    string
		contains string
	}{
		"wrong api version": {
			input: `apiVersion: v0
kind: Configuration
api:
  baseUrl: http://x
`,
			contains: "$.apiVersion",
		},
		"unknown key": {
			input: `apiVersion: nodata.wplibs.dev/v1
kind: Configuration
api:
  baseUrl: http://x
  bogus: true
`,
			contains: "$.api",
		},
		"missing api": {
			input: `apiVersion: nodata.wplibs.dev/v1
kind: Configuration
`,
			contains: "invalid configuration",
		},
		"bad per page type": {
			input: `apiVersion: nodata.wplibs.dev/v1
kind: Configuration
api:
  baseUrl: http://x
ui:
  perPage: many
`,
			contains: "$.ui.perPage",
		},
		"syntax error": {
			input:    "api: [",
			contains: "invalid configuration",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			l, err := config.NewLoaderFromBytes([]byte(tc.input))
			require.NoError(t, err)

			err = l.Validate()
			require.ErrorIs(t, err, config.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		err   error
	}{
		"bad timeout": {
			input: `api:
  baseUrl: http://x
  timeout: forever
`,
			err: config.ErrInvalidTimeout,
		},
		"duplicate key binds": {
			input: `api:
  baseUrl: http://x
ui:
  keybinds:
    common:
      help:
        description: help
        keys:
          - code: q
`,
			err: config.ErrInvalidConfig,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			l, err := config.NewLoaderFromBytes([]byte(tc.input))
			require.NoError(t, err)

			_, err = l.Load()
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestNewLoaderFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := config.NewLoaderFromFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	_, err = config.NewLoaderFromFile(dir)
	require.ErrorContains(t, err, "path is a directory")

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, config.DefaultConfigYAML(), 0o600))

	l, err := config.NewLoaderFromFile(path)
	require.NoError(t, err)

	_, err = l.Load()
	require.NoError(t, err)
}

func TestWriteDefaultConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nodata", "config.yaml")

	require.NoError(t, config.WriteDefaultConfig(path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfigYAML(), data)
	assert.FileExists(t, filepath.Join(dir, "nodata", config.SchemaFile))

	// Existing files are kept without force.
	require.NoError(t, os.WriteFile(path, []byte("custom: true\n"), 0o600))
	require.NoError(t, config.WriteDefaultConfig(path, false))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom: true\n", string(data))

	require.NoError(t, config.WriteDefaultConfig(path, true))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfigYAML(), data)

	backups, err := filepath.Glob(filepath.Join(dir, "nodata", "config.yaml.*.old"))
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestWriteDefaultConfig_Directory(t *testing.T) {
	t.Parallel()

	err := config.WriteDefaultConfig(t.TempDir(), false)
	require.ErrorContains(t, err, "path is a directory")
}

//nolint:paralleltest // Uses t.Setenv.
func TestGetPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	assert.Equal(t, filepath.Join(dir, "nodata", "config.yaml"), config.GetPath())
}

func TestConfig_MarshalYAML(t *testing.T) {
	t.Parallel()

	out, err := config.NewConfig().MarshalYAML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "apiVersion: "+config.APIVersion)
	assert.Contains(t, string(out), "baseUrl: "+config.DefaultBaseURL)
}
