package manager

import (
	"errors"
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"github.com/dot5enko/pointindex/dataset"
)

var ErrInvalidConfig = errors.New("invalid engine config")

// Config holds engine settings, CLI flags override what a config file sets.
type Config struct {
	Dims   int            `json:"dims"`
	Layout dataset.Layout `json:"layout"`

	// default gap for composites that do not set one
	Gap     int `json:"gap"`
	Workers int `json:"workers"`

	TimeoutMs int `json:"timeout_ms"`

	MetricsNamespace string `json:"metrics_namespace"`
	Debug            bool   `json:"debug"`
}

func DefaultConfig() Config {
	return Config{
		Layout:           dataset.ColumnLayout,
		Workers:          1,
		MetricsNamespace: "pointindex",
	}
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func (c Config) Validate() error {

	if c.Dims <= 0 {
		return fmt.Errorf("%w: dims must be positive, got %d", ErrInvalidConfig, c.Dims)
	}

	switch c.Layout {
	case dataset.ColumnLayout, dataset.RowLayout:
	default:
		return fmt.Errorf("%w: unknown layout `%s`", ErrInvalidConfig, c.Layout)
	}

	if c.Gap < 0 || c.Workers < 0 || c.TimeoutMs < 0 {
		return fmt.Errorf("%w: gap, workers and timeout must not be negative", ErrInvalidConfig)
	}

	return nil
}

// LoadConfig reads a json config on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {

	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("unable to read config: %s", err.Error())
	}

	if err := json.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("%w: %s: %s", ErrInvalidConfig, path, err.Error())
	}

	return config, nil
}
