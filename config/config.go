package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid config")

// WidgetKind selects how a parameter is shown on the control surface
type WidgetKind string

const (
	WidgetToggle WidgetKind = "toggle"
	WidgetChoice WidgetKind = "choice"
	WidgetSlider WidgetKind = "slider"
)

// OverflowPolicy decides what happens to a change that finds the queue full
type OverflowPolicy string

const (
	OverflowDrop   OverflowPolicy = "drop"   // lose it until the value changes again
	OverflowRetain OverflowPolicy = "retain" // re-mark dirty, retry next scan
)

// ParameterConfig defines one controllable parameter
type ParameterConfig struct {
	Name    string     `json:"name"`
	Label   string     `json:"label,omitempty"`
	CC      int        `json:"cc"`
	Value   int        `json:"value"`
	Min     int        `json:"min"`
	Max     int        `json:"max"`
	Widget  WidgetKind `json:"widget"`
	Choices []string   `json:"choices,omitempty"` // labels for WidgetChoice, Min..Max
}

// Config is the main configuration structure
type Config struct {
	MidiChannel   int               `json:"midiChannel"`
	ScanRateHz    int               `json:"scanRateHz"`
	QueueCapacity int               `json:"queueCapacity"`
	Overflow      OverflowPolicy    `json:"overflow"`
	SampleRate    int               `json:"sampleRate"`
	BlockSize     int               `json:"blockSize"`
	OutputPort    string            `json:"outputPort,omitempty"`
	InputPort     string            `json:"inputPort,omitempty"`
	Palette       string            `json:"palette,omitempty"`
	Parameters    []ParameterConfig `json:"parameters"`
}

// DefaultConfig returns the 0-Coast program page parameters
func DefaultConfig() *Config {
	return &Config{
		MidiChannel:   1,
		ScanRateHz:    30,
		QueueCapacity: 128,
		Overflow:      OverflowDrop,
		SampleRate:    48000,
		BlockSize:     512,
		OutputPort:    "0-coast",
		Parameters: []ParameterConfig{
			{Name: "EnableArp", Label: "Enable Arpeggiator", CC: 117, Value: 0, Min: 0, Max: 1, Widget: WidgetToggle},
			{Name: "ArpType", Label: "Arp Type", CC: 119, Value: 0, Min: 0, Max: 1, Widget: WidgetChoice, Choices: []string{"Order", "Up"}},
			{Name: "EnableLegato", Label: "Enable Legato", CC: 118, Value: 0, Min: 0, Max: 1, Widget: WidgetToggle},
			{Name: "Portamento", Label: "Portamento", CC: 5, Value: 0, Min: 0, Max: 127, Widget: WidgetSlider},
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-programmer"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads and validates the config at path. A missing file yields
// the defaults; fields absent from the file keep their default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	defaults := cfg.Parameters
	// Decoding into the default slice would merge stale fields into
	// the file's entries.
	cfg.Parameters = nil
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(cfg.Parameters) == 0 {
		cfg.Parameters = defaults
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks everything that ends up on the wire or sizes a buffer.
// Parameter values themselves are not checked against Min/Max.
func (c *Config) Validate() error {
	if c.MidiChannel < 1 || c.MidiChannel > 16 {
		return fmt.Errorf("%w: midiChannel %d not in 1-16", ErrInvalid, c.MidiChannel)
	}
	if c.ScanRateHz < 1 || c.ScanRateHz > 1000 {
		return fmt.Errorf("%w: scanRateHz %d not in 1-1000", ErrInvalid, c.ScanRateHz)
	}
	if c.QueueCapacity < 2 {
		return fmt.Errorf("%w: queueCapacity %d < 2", ErrInvalid, c.QueueCapacity)
	}
	switch c.Overflow {
	case OverflowDrop, OverflowRetain:
	default:
		return fmt.Errorf("%w: overflow %q", ErrInvalid, c.Overflow)
	}
	if c.SampleRate <= 0 || c.BlockSize <= 0 {
		return fmt.Errorf("%w: sampleRate/blockSize must be positive", ErrInvalid)
	}

	seen := make(map[string]bool)
	for _, p := range c.Parameters {
		if p.Name == "" {
			return fmt.Errorf("%w: parameter without name", ErrInvalid)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate parameter %q", ErrInvalid, p.Name)
		}
		seen[p.Name] = true

		if !inMIDIRange(p.CC) {
			return fmt.Errorf("%w: %s: cc %d not in 0-127", ErrInvalid, p.Name, p.CC)
		}
		if !inMIDIRange(p.Min) || !inMIDIRange(p.Max) || p.Min > p.Max {
			return fmt.Errorf("%w: %s: range %d-%d not within 0-127", ErrInvalid, p.Name, p.Min, p.Max)
		}
		switch p.Widget {
		case WidgetToggle, WidgetSlider:
		case WidgetChoice:
			if len(p.Choices) != p.Max-p.Min+1 {
				return fmt.Errorf("%w: %s: %d choices for range %d-%d", ErrInvalid, p.Name, len(p.Choices), p.Min, p.Max)
			}
		default:
			return fmt.Errorf("%w: %s: widget %q", ErrInvalid, p.Name, p.Widget)
		}
	}
	return nil
}

// FindParameter finds a parameter config by name
func (c *Config) FindParameter(name string) *ParameterConfig {
	for i := range c.Parameters {
		if c.Parameters[i].Name == name {
			return &c.Parameters[i]
		}
	}
	return nil
}

func inMIDIRange(v int) bool {
	return v >= 0 && v <= 127
}
