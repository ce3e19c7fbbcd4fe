// Package config loads the hostnet CLI configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	hnlibvirt "github.com/jbweber/hostnet/internal/libvirt"
	"github.com/jbweber/hostnet/internal/output"
)

// Environment variables that override file settings.
const (
	EnvSocket  = "HOSTNET_SOCKET"
	EnvTimeout = "HOSTNET_TIMEOUT"
	EnvSSH     = "HOSTNET_SSH"
)

// Config is the CLI configuration.
type Config struct {
	// Socket is the libvirt daemon socket path.
	Socket string `yaml:"socket,omitempty"`

	// Timeout bounds connection setup, e.g. "5s".
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Output is the default output format: table, yaml or json.
	Output string `yaml:"output,omitempty"`

	// NoHeaders omits table headers by default.
	NoHeaders bool `yaml:"noHeaders,omitempty"`

	// SSH reaches a remote daemon through an SSH tunnel. Nil means local.
	SSH *SSHConfig `yaml:"ssh,omitempty"`
}

// SSHConfig configures the tunnel to a remote daemon.
type SSHConfig struct {
	Target         string `yaml:"target"` // user@host[:port]
	IdentityFile   string `yaml:"identityFile,omitempty"`
	KnownHostsFile string `yaml:"knownHostsFile,omitempty"`
}

// DefaultPath returns $XDG_CONFIG_HOME/hostnet/config.yaml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "hostnet", "config.yaml")
}

// Default returns a Config with every field at its default.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads the config at path, applies environment overrides and defaults,
// then validates. An empty path means DefaultPath, which may be absent.
// An explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	c := &Config{}
	if path != "" {
		loaded, err := parseFile(path)
		switch {
		case err == nil:
			c = loaded
		case !explicit && errors.Is(err, fs.ErrNotExist):
		default:
			return nil, err
		}
	}

	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

// LoadFromFile loads a config file without consulting the environment.
func LoadFromFile(path string) (*Config, error) {
	c, err := parseFile(path)
	if err != nil {
		return nil, err
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

func parseFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &c, nil
}

// ApplyEnv overrides fields from the environment. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvSocket); ok && v != "" {
		c.Socket = v
	}

	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: invalid duration %q: %w", EnvTimeout, v, err)
		}
		c.Timeout = d
	}

	if v, ok := lookup(EnvSSH); ok && v != "" {
		if c.SSH == nil {
			c.SSH = &SSHConfig{}
		}
		c.SSH.Target = v
	}

	return nil
}

func (c *Config) applyDefaults() {
	c.Socket = strings.TrimSpace(c.Socket)
	if c.Socket == "" {
		c.Socket = hnlibvirt.DefaultSocketPath
	}
	if c.Timeout == 0 {
		c.Timeout = hnlibvirt.DefaultTimeout
	}
	if c.Output == "" {
		c.Output = string(output.FormatTable)
	}

	if c.SSH != nil {
		home, _ := os.UserHomeDir()
		if c.SSH.IdentityFile == "" {
			c.SSH.IdentityFile = filepath.Join(home, ".ssh", "id_ed25519")
		}
		if c.SSH.KnownHostsFile == "" {
			c.SSH.KnownHostsFile = filepath.Join(home, ".ssh", "known_hosts")
		}
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if !filepath.IsAbs(c.Socket) {
		return fmt.Errorf("socket must be an absolute path, got %q", c.Socket)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0, got %s", c.Timeout)
	}
	if err := output.ValidateFormat(c.Output); err != nil {
		return fmt.Errorf("output: %w", err)
	}

	if c.SSH != nil {
		if c.SSH.Target == "" {
			return fmt.Errorf("ssh.target is required")
		}
		if _, _, err := hnlibvirt.ParseSSHTarget(c.SSH.Target); err != nil {
			return fmt.Errorf("ssh.target: %w", err)
		}
	}

	return nil
}

// SSHOptions converts the SSH section into tunnel options. It returns
// false when the daemon is local.
func (c *Config) SSHOptions() (hnlibvirt.SSHOptions, bool) {
	if c.SSH == nil {
		return hnlibvirt.SSHOptions{}, false
	}
	return hnlibvirt.SSHOptions{
		Target:         c.SSH.Target,
		IdentityFile:   c.SSH.IdentityFile,
		KnownHostsFile: c.SSH.KnownHostsFile,
		SocketPath:     c.Socket,
		Timeout:        c.Timeout,
	}, true
}

// Overrides holds command-line settings. Zero fields are ignored.
type Overrides struct {
	Socket  string
	Timeout time.Duration
	SSH     string
}

// Override applies o on top of the loaded settings and validates the result.
func (c *Config) Override(o Overrides) error {
	if o.Socket != "" {
		c.Socket = o.Socket
	}
	if o.Timeout != 0 {
		c.Timeout = o.Timeout
	}
	if o.SSH != "" {
		if c.SSH == nil {
			c.SSH = &SSHConfig{}
		}
		c.SSH.Target = o.SSH
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
