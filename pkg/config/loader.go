package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "embed"

	"github.com/wplibs/nodata/pkg/yaml"
)

//go:embed config.yaml
var defaultConfigYAML []byte

// Validator validates configuration data against a schema.
type Validator interface {
	Validate(data any) error
}

type Loader struct {
	validator Validator
	data      []byte
}

type LoaderOpt func(*Loader)

// WithValidator replaces the schema validator.
func WithValidator(v Validator) LoaderOpt {
	return func(l *Loader) {
		l.validator = v
	}
}

func NewLoaderFromBytes(data []byte, opts ...LoaderOpt) (*Loader, error) {
	l := &Loader{data: data}
	for _, opt := range opts {
		opt(l)
	}

	if l.validator == nil {
		v, err := DefaultValidator()
		if err != nil {
			return nil, err
		}

		l.validator = v
	}

	return l, nil
}

func NewLoaderFromFile(path string, opts ...LoaderOpt) (*Loader, error) {
	data, err := readConfig(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return NewLoaderFromBytes(data, opts...)
}

// Validate checks the raw document against the schema without loading it.
func (l *Loader) Validate() error {
	var anyConfig any

	if err := yaml.Unmarshal(l.data, &anyConfig); err != nil {
		return l.wrap(err)
	}

	if anyConfig == nil {
		anyConfig = map[string]any{}
	}

	if err := l.validator.Validate(anyConfig); err != nil {
		return l.wrap(err)
	}

	return nil
}

// Load decodes the document, applies defaults and runs [Config.Validate].
func (l *Loader) Load() (*Config, error) {
	c := &Config{}

	if err := yaml.Unmarshal(l.data, c); err != nil {
		return nil, l.wrap(err)
	}

	c.EnsureDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return c, nil
}

// wrap adds the annotated source to YAML errors.
func (l *Loader) wrap(err error) error {
	var yamlErr *yaml.Error
	if !errors.As(err, &yamlErr) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	src := strings.TrimRight(yamlErr.Annotate(l.data), "\n")
	if src == "" {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return fmt.Errorf("%w: %w\n\n%s", ErrInvalidConfig, err, src)
}

// DefaultConfigYAML returns the commented default configuration.
func DefaultConfigYAML() []byte {
	return bytes.Clone(defaultConfigYAML)
}

// WriteDefaultConfig writes the default config.yaml and its JSON schema to
// path. An existing config is kept unless force is set, in which case it is
// moved to a timestamped backup first.
func WriteDefaultConfig(path string, force bool) error {
	configExists := false

	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		switch {
		case err == nil && pathInfo.Mode().IsRegular():
			configExists = true
		case pathInfo.IsDir():
			return fmt.Errorf("%s: path is a directory", path)
		default:
			return fmt.Errorf("%s: unknown file state", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	if configExists && force {
		backupFile := fmt.Sprintf("%s.%d.old", filepath.Base(path), time.Now().UnixNano())
		backupPath := filepath.Join(filepath.Dir(path), backupFile)
		slog.Info("backing up existing config file", slog.String("path", backupPath))

		if err := os.Rename(path, backupPath); err != nil {
			return fmt.Errorf("rename existing config file to backup: %w", err)
		}

		configExists = false
	}

	if configExists {
		slog.Debug("configuration file already exists, skipping write", slog.String("path", path))
	} else {
		slog.Info("write default configuration", slog.String("path", path))

		if err := os.WriteFile(path, defaultConfigYAML, 0o600); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
	}

	schemaJSON, err := Schema()
	if err != nil {
		return err
	}

	schemaPath := filepath.Join(filepath.Dir(path), SchemaFile)
	slog.Debug("write JSON schema", slog.String("path", schemaPath))

	if err := os.WriteFile(schemaPath, schemaJSON, 0o600); err != nil {
		return fmt.Errorf("write schema file: %w", err)
	}

	return nil
}

func readConfig(path string) ([]byte, error) {
	pathInfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	if pathInfo.IsDir() {
		return nil, fmt.Errorf("%s: path is a directory", path)
	}

	if !pathInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: unknown file state", path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Reading the user's config file.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}
