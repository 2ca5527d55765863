package scan

import "time"

const (
	DefaultConcurrency = 100
	DefaultTimeout     = 500 * time.Millisecond
)

// Config controls a single scan run. It is copied into the scanner and never modified afterwards.
type Config struct {
	// Concurrency is the maximum number of probes in flight at once.
	Concurrency int
	// Timeout bounds each individual connect attempt, not the whole scan.
	Timeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Concurrency: DefaultConcurrency,
		Timeout:     DefaultTimeout,
	}
}

func (c Config) Validate() error {
	if c.Concurrency < 1 {
		return &InvalidConfigError{Field: "concurrency", Reason: "must be at least 1"}
	}
	if c.Timeout <= 0 {
		return &InvalidConfigError{Field: "timeout", Reason: "must be greater than zero"}
	}
	return nil
}
