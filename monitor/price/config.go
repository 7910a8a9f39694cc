package price

import (
	"github.com/halcyonmkt/halcyon/config/encoding"
	"github.com/halcyonmkt/halcyon/logging"
)

const namedLogger = "monitor.price"

// Config represents the configuration of the price monitoring guard.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level: encoding.LogLevel{Level: logging.InfoLevel},
	}
}
