package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/zntune/internal/integrators"
)

const (
	DefaultDuration   = 50.0
	DefaultSamples    = 5000
	DefaultIntegrator = "zoh"
	DefaultTimeout    = 10 * time.Second
	DefaultMethod     = "ziegler-nichols"
	DefaultAddr       = ":8080"
	DefaultDataDir    = ".zntune"
)

type Config struct {
	Method     string           `yaml:"method"`
	Simulation SimulationConfig `yaml:"simulation"`
	Diagram    DiagramConfig    `yaml:"diagram"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
}

type SimulationConfig struct {
	Duration   float64       `yaml:"duration"`
	Samples    int           `yaml:"samples"`
	Integrator string        `yaml:"integrator"`
	Timeout    time.Duration `yaml:"timeout"`
}

// DiagramConfig sizes the PNG in inches.
type DiagramConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	DPI    int     `yaml:"dpi"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type StorageConfig struct {
	Dir string `yaml:"dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Method: DefaultMethod,
		Simulation: SimulationConfig{
			Duration:   DefaultDuration,
			Samples:    DefaultSamples,
			Integrator: DefaultIntegrator,
			Timeout:    DefaultTimeout,
		},
		Diagram: DiagramConfig{
			Width:  10,
			Height: 4,
			DPI:    100,
		},
		Server:  ServerConfig{Addr: DefaultAddr},
		Storage: StorageConfig{Dir: DefaultDataDir},
	}
}

// Load reads a YAML file over the defaults; keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	s := c.Simulation
	if s.Duration <= 0 {
		return fmt.Errorf("simulation duration must be positive, got %g", s.Duration)
	}
	if s.Samples < 2 {
		return fmt.Errorf("simulation needs at least 2 samples, got %d", s.Samples)
	}
	if _, err := integrators.New(s.Integrator); err != nil {
		return err
	}
	if s.Timeout < 0 {
		return fmt.Errorf("simulation timeout must not be negative, got %s", s.Timeout)
	}
	if c.Diagram.Width < 0 || c.Diagram.Height < 0 || c.Diagram.DPI < 0 {
		return fmt.Errorf("diagram size must not be negative")
	}
	return nil
}

// ApplyPreset replaces the grid and integrator with a named preset. The
// timeout is kept unless the preset sets one.
func (c *Config) ApplyPreset(name string) error {
	p := GetPreset(name)
	if p == nil {
		return fmt.Errorf("unknown preset %q (available: %v)", name, ListPresets())
	}
	timeout := c.Simulation.Timeout
	c.Simulation = *p
	if c.Simulation.Timeout == 0 {
		c.Simulation.Timeout = timeout
	}
	return nil
}
