// Package config loads, validates and writes the nodata configuration file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/wplibs/nodata/pkg/client"
	"github.com/wplibs/nodata/pkg/ui"
	"github.com/wplibs/nodata/pkg/yaml"
)

const (
	APIVersion = "nodata.wplibs.dev/v1"
	Kind       = "Configuration"

	DefaultBaseURL = "http://localhost:8080/wp-json/api/v1"
)

var (
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrInvalidTimeout = errors.New("invalid timeout")
)

//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	API       *APIConfig       `json:"api"                 jsonschema:"title=API"`
	UI        *ui.Config       `json:"ui,omitempty"        jsonschema:"title=UI"`
	MCP       *MCPConfig       `json:"mcp,omitempty"       jsonschema:"title=MCP"`
	Telemetry *TelemetryConfig `json:"telemetry,omitempty" jsonschema:"title=Telemetry"`
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
}

// APIConfig holds the connection to the plugin's REST API.
type APIConfig struct {
	// BaseURL is the REST namespace root.
	BaseURL string `json:"baseUrl" jsonschema:"title=Base URL,minLength=1"`
	// AjaxURL is the admin-ajax endpoint.
	AjaxURL string `json:"ajaxUrl,omitempty" jsonschema:"title=Ajax URL"`
	// Nonce is added to the body of mutating requests.
	Nonce string `json:"nonce,omitempty" jsonschema:"title=Nonce"`
	// RestNonce is sent in the X-WP-Nonce header.
	RestNonce string `json:"restNonce,omitempty" jsonschema:"title=REST Nonce"`
	// Timeout bounds each request, e.g. "30s".
	Timeout string `json:"timeout,omitempty" jsonschema:"title=Timeout,pattern=^[0-9]+(\\.[0-9]+)?(ns|us|µs|ms|s|m|h)$"`
}

// MCPConfig configures the optional MCP tool server.
type MCPConfig struct {
	// Addr to listen on, e.g. "127.0.0.1:8765". Empty disables the server.
	Addr string `json:"addr,omitempty" jsonschema:"title=Address"`
}

type TelemetryConfig struct {
	// OTLPEndpoint receives traces over gRPC. Empty disables tracing.
	OTLPEndpoint string `json:"otlpEndpoint,omitempty" jsonschema:"title=OTLP Endpoint"`
	// Insecure disables TLS for the OTLP connection.
	Insecure bool `json:"insecure,omitempty" jsonschema:"title=Insecure"`
}

func NewConfig() *Config {
	c := &Config{}
	c.EnsureDefaults()

	return c
}

func (c *Config) EnsureDefaults() {
	if c.APIVersion == "" {
		c.APIVersion = APIVersion
	}

	if c.Kind == "" {
		c.Kind = Kind
	}

	if c.API == nil {
		c.API = &APIConfig{}
	}

	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}

	if c.API.Timeout == "" {
		c.API.Timeout = client.DefaultTimeout.String()
	}

	if c.UI == nil {
		c.UI = ui.NewConfig()
	} else {
		c.UI.EnsureDefaults()
	}

	if c.MCP == nil {
		c.MCP = &MCPConfig{}
	}

	if c.Telemetry == nil {
		c.Telemetry = &TelemetryConfig{}
	}
}

// Validate runs the checks the schema cannot express.
func (c *Config) Validate() error {
	if _, err := c.API.ClientConfig(); err != nil {
		return err
	}

	if err := c.UI.Validate(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}

	return nil
}

// ClientConfig converts a to a [client.Config].
func (a *APIConfig) ClientConfig() (client.Config, error) {
	cfg := client.Config{
		AjaxURL:   a.AjaxURL,
		BaseURL:   a.BaseURL,
		Nonce:     a.Nonce,
		RestNonce: a.RestNonce,
	}

	if a.Timeout != "" {
		d, err := time.ParseDuration(a.Timeout)
		if err != nil {
			return client.Config{}, fmt.Errorf("%w: %w", ErrInvalidTimeout, err)
		}

		cfg.Timeout = d
	}

	return cfg, nil
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	setConst(jss, "apiVersion", APIVersion)
	setConst(jss, "kind", Kind)
}

func setConst(jss *jsonschema.Schema, prop, value string) {
	s, ok := jss.Properties.Get(prop)
	if !ok {
		panic(prop + " property not found in schema")
	}

	s.Const = value
	_, _ = jss.Properties.Set(prop, s)
}

// MarshalYAML encodes c as YAML.
func (c *Config) MarshalYAML() ([]byte, error) {
	return yaml.Marshal(*c) //nolint:wrapcheck // Already wrapped.
}

// GetPath returns the config file path under $XDG_CONFIG_HOME, falling back
// to ~/.config and then the temp directory.
func GetPath() string {
	if xdgHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdgHome != "" {
		return filepath.Join(xdgHome, "nodata", "config.yaml")
	}

	usrHome, err := os.UserHomeDir()
	if err == nil && usrHome != "" {
		return filepath.Join(usrHome, ".config", "nodata", "config.yaml")
	}

	tmpConfig := filepath.Join(os.TempDir(), "nodata", "config.yaml")

	slog.Warn("could not determine user config directory, using temp path for config",
		slog.String("path", tmpConfig),
		slog.Any("error", fmt.Errorf("$XDG_CONFIG_HOME is unset, fall back to home directory: %w", err)),
	)

	return tmpConfig
}
