package matching

import (
	"github.com/halcyonmkt/halcyon/config/encoding"
	"github.com/halcyonmkt/halcyon/logging"
)

const namedLogger = "matching"

// Config represents the configuration of the matching package.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level: encoding.LogLevel{Level: logging.InfoLevel},
	}
}
