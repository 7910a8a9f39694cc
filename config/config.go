package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/halcyonmkt/halcyon/broker"
	"github.com/halcyonmkt/halcyon/logging"
	"github.com/halcyonmkt/halcyon/markets"
	"github.com/halcyonmkt/halcyon/monitor/price"
	"github.com/halcyonmkt/halcyon/schedule"
)

// Config ties together all other application configuration types.
type Config struct {
	Logging  logging.Config  `group:"Logging" namespace:"logging"`
	Broker   broker.Config   `group:"Broker" namespace:"broker"`
	Markets  markets.Config  `group:"Markets" namespace:"markets"`
	Monitor  price.Config    `group:"Monitor" namespace:"monitor"`
	Schedule schedule.Config `group:"Schedule" namespace:"schedule"`

	MetricsAddr string `long:"metrics-addr" description:"listen address of the prometheus scrape endpoint, empty disables it"`
}

// NewDefaultConfig returns the whole application configuration with
// defaults applied.
func NewDefaultConfig() Config {
	return Config{
		Logging:  logging.NewDefaultConfig(),
		Broker:   broker.NewDefaultConfig(),
		Markets:  markets.NewDefaultConfig(),
		Monitor:  price.NewDefaultConfig(),
		Schedule: schedule.NewDefaultConfig(),
	}
}

// Read loads the configuration from a TOML file.
func Read(path string) (Config, error) {
	cfg := NewDefaultConfig()
	buf, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(buf, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Write persists the configuration as TOML.
func Write(path string, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
