package markets

import (
	"github.com/halcyonmkt/halcyon/config/encoding"
	"github.com/halcyonmkt/halcyon/logging"
	"github.com/halcyonmkt/halcyon/matching"
)

const namedLogger = "markets"

// Config represents the configuration of the markets package.
type Config struct {
	Level    encoding.LogLevel `long:"log-level"`
	Matching matching.Config   `group:"Matching" namespace:"matching"`
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level:    encoding.LogLevel{Level: logging.InfoLevel},
		Matching: matching.NewDefaultConfig(),
	}
}
