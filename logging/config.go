package logging

// Config contains the configurable items for this package.
type Config struct {
	Environment string `long:"env" description:"logging environment, dev or prod"`
}

// NewDefaultConfig creates an instance of the package-specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Environment: "dev",
	}
}
