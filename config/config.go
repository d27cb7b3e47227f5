// Package config loads the optional YAML configuration file for a test run.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"
)

const (
	DefaultBaseURL  = "https://reqres.in/api"
	DefaultTimeout  = time.Second * 10
	DefaultParallel = 1
)

// Config contains the settings for a test run. Command-line flags override these values.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	Parallel int
	Headers  map[string]string

	// Capabilities lists the optional behaviors the service under test supports. Nil means
	// all of them.
	Capabilities []string
}

// fileConfig is the YAML representation of Config.
type fileConfig struct {
	BaseURL      string            `yaml:"baseUrl"`
	Timeout      string            `yaml:"timeout"`
	Parallel     int               `yaml:"parallel"`
	Headers      map[string]string `yaml:"headers"`
	Capabilities *[]string         `yaml:"capabilities"`
}

var knownKeys = []string{"baseUrl", "timeout", "parallel", "headers", "capabilities"}

func Default() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		Timeout:  DefaultTimeout,
		Parallel: DefaultParallel,
	}
}

// Load reads a config file. Properties that are not in the file keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not read config file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes YAML config data on top of the defaults.
func Parse(data []byte) (Config, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, err
	}
	var unknown []string
	for key := range raw {
		if !contains(knownKeys, key) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Config{}, fmt.Errorf("unknown properties: %s", strings.Join(unknown, ", "))
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, err
	}

	c := Default()
	if fc.BaseURL != "" {
		c.BaseURL = fc.BaseURL
	}
	if fc.Timeout != "" {
		timeout, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid timeout: %w", err)
		}
		c.Timeout = timeout
	}
	if fc.Parallel != 0 {
		c.Parallel = fc.Parallel
	}
	c.Headers = fc.Headers
	if fc.Capabilities != nil {
		c.Capabilities = append([]string{}, *fc.Capabilities...)
	}
	return c, nil
}

// Validate checks that the configuration is usable. Every declared capability must be one of
// knownCapabilities.
func (c Config) Validate(knownCapabilities []string) error {
	var errs []error
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("base URL must be an absolute http or https URL, was %q", c.BaseURL))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, was %s", c.Timeout))
	}
	if c.Parallel < 1 {
		errs = append(errs, fmt.Errorf("parallel must be at least 1, was %d", c.Parallel))
	}
	for _, name := range c.Capabilities {
		if !contains(knownCapabilities, name) {
			errs = append(errs, fmt.Errorf("unknown capability %q (known capabilities: %s)",
				name, strings.Join(knownCapabilities, ", ")))
		}
	}
	return errors.Join(errs...)
}

// EffectiveCapabilities returns the declared capabilities, or all of them if none were declared.
func (c Config) EffectiveCapabilities(all []string) []string {
	if c.Capabilities == nil {
		return append([]string(nil), all...)
	}
	return append([]string(nil), c.Capabilities...)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
