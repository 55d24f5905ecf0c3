// Package config loads host configuration for crucible from YAML, with
// overrides from env files and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jbweber/crucible/internal/lvm"
	"github.com/jbweber/crucible/internal/rbd"
)

// DefaultPath is read when no config file is named.
const DefaultPath = "/etc/crucible/crucible.yaml"

// Image backends selectable with libvirt.images_type.
const (
	ImagesTypeDefault = "default"
	ImagesTypeRaw     = "raw"
	ImagesTypeQCOW2   = "qcow2"
	ImagesTypeLVM     = "lvm"
	ImagesTypeRBD     = "rbd"
)

// Defaults applied by Normalize.
const (
	DefaultLibvirtSocket = "/var/run/libvirt/libvirt-sock"
	DefaultRBDPool       = "rbd"
	DefaultRootHelper    = "sudo"
	DefaultRetryDelay    = 500 * time.Millisecond
)

// Config is the complete host configuration.
type Config struct {
	LibvirtSocket string        `yaml:"libvirt_socket"`
	Libvirt       LibvirtConfig `yaml:"libvirt"`
	Exec          ExecConfig    `yaml:"exec"`
}

// LibvirtConfig holds the image backend and volume clearing settings.
type LibvirtConfig struct {
	ImagesType        string `yaml:"images_type"`
	ImagesVolumeGroup string `yaml:"images_volume_group,omitempty"` // Required when images_type is lvm
	ImagesRBDPool     string `yaml:"images_rbd_pool,omitempty"`
	ImagesRBDCephConf string `yaml:"images_rbd_ceph_conf,omitempty"`
	RBDUser           string `yaml:"rbd_user,omitempty"`
	VolumeClear       string `yaml:"volume_clear"`                // zero, shred or none
	VolumeClearSize   uint64 `yaml:"volume_clear_size,omitempty"` // MiB from the start of the volume, 0 for all
}

// ExecConfig controls how external tools are run.
type ExecConfig struct {
	RootHelper string        `yaml:"root_helper"`
	Timeout    time.Duration `yaml:"timeout,omitempty"` // Per command, 0 for none
	RetryDelay time.Duration `yaml:"retry_delay,omitempty"`
}

// Default returns a normalized configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.Normalize()
	return c
}

// Normalize sanitizes user input and fills in defaults.
// This is called automatically by Load before validation.
func (c *Config) Normalize() {
	c.Libvirt.ImagesType = strings.ToLower(strings.TrimSpace(c.Libvirt.ImagesType))
	if c.Libvirt.ImagesType == "" {
		c.Libvirt.ImagesType = ImagesTypeDefault
	}

	// Unknown methods are kept; the eraser falls back to zero and logs it.
	c.Libvirt.VolumeClear = strings.ToLower(strings.TrimSpace(c.Libvirt.VolumeClear))
	if c.Libvirt.VolumeClear == "" {
		c.Libvirt.VolumeClear = string(lvm.EraseZero)
	}

	if c.Libvirt.ImagesRBDPool == "" {
		c.Libvirt.ImagesRBDPool = DefaultRBDPool
	}
	if c.LibvirtSocket == "" {
		c.LibvirtSocket = DefaultLibvirtSocket
	}
	if c.Exec.RootHelper == "" {
		c.Exec.RootHelper = DefaultRootHelper
	}
	if c.Exec.RetryDelay == 0 {
		c.Exec.RetryDelay = DefaultRetryDelay
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Libvirt.ImagesType {
	case ImagesTypeDefault, ImagesTypeRaw, ImagesTypeQCOW2, ImagesTypeRBD:
	case ImagesTypeLVM:
		if c.Libvirt.ImagesVolumeGroup == "" {
			return fmt.Errorf("libvirt.images_volume_group is required when images_type is %q", ImagesTypeLVM)
		}
	default:
		return fmt.Errorf("libvirt.images_type must be one of default, raw, qcow2, lvm, rbd, got %q", c.Libvirt.ImagesType)
	}

	if c.Exec.Timeout < 0 {
		return fmt.Errorf("exec.timeout must be >= 0, got %s", c.Exec.Timeout)
	}
	if c.Exec.RetryDelay < 0 {
		return fmt.Errorf("exec.retry_delay must be >= 0, got %s", c.Exec.RetryDelay)
	}

	return nil
}

// EraseOptions captures the volume clearing policy.
func (c *Config) EraseOptions() lvm.EraseOptions {
	return lvm.EraseOptions{
		Method:   lvm.EraseMethod(c.Libvirt.VolumeClear),
		MaxBytes: c.Libvirt.VolumeClearSize * 1024 * 1024,
	}
}

// RBDCredentials captures the pool and identity used for rbd commands.
func (c *Config) RBDCredentials() rbd.Credentials {
	return rbd.Credentials{
		Pool:     c.Libvirt.ImagesRBDPool,
		ConfPath: c.Libvirt.ImagesRBDCephConf,
		User:     c.Libvirt.RBDUser,
	}
}

// LoadFromFile loads a configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	config, err := decodeFile(path)
	if err != nil {
		return nil, err
	}

	config.Normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// decodeFile reads and unmarshals a YAML file without validating it.
func decodeFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &config, nil
}

// Load reads the configuration at path, or DefaultPath when path is empty,
// and applies CRUCIBLE_* overrides from envFiles and then the process
// environment. A missing DefaultPath yields the defaults; a missing
// explicit path is an error.
func Load(path string, envFiles ...string) (*Config, error) {
	config, err := readConfig(path)
	if err != nil {
		return nil, err
	}

	env := map[string]string{}
	if len(envFiles) > 0 {
		env, err = godotenv.Read(envFiles...)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file: %w", err)
		}
	}
	for _, key := range envKeys {
		if value, ok := os.LookupEnv(key); ok {
			env[key] = value
		}
	}

	if err := config.ApplyEnv(env); err != nil {
		return nil, err
	}

	config.Normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func readConfig(path string) (*Config, error) {
	if path != "" {
		return decodeFile(path)
	}

	config, err := decodeFile(DefaultPath)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	return config, err
}
