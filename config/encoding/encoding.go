package encoding

import (
	"time"

	"github.com/pkg/errors"

	"github.com/halcyonmkt/halcyon/logging"
)

// ErrCouldNotParseFlag signals a flag value outside its accepted set.
var ErrCouldNotParseFlag = errors.New("could not parse flag")

// Duration wraps a time.Duration so it round-trips through TOML as a
// human-readable string ("2m30s").
type Duration struct {
	time.Duration
}

func (d *Duration) Get() time.Duration {
	return d.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// LogLevel wraps a logging.Level for TOML round-tripping.
type LogLevel struct {
	logging.Level
}

func (l *LogLevel) Get() logging.Level {
	return l.Level
}

func (l *LogLevel) UnmarshalText(text []byte) error {
	var err error
	l.Level, err = logging.ParseLevel(string(text))
	return err
}

func (l LogLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Bool is a flag-friendly boolean.
type Bool bool

func (b *Bool) UnmarshalFlag(s string) error {
	switch s {
	case "true":
		*b = true
	case "false":
		*b = false
	default:
		return errors.Wrap(ErrCouldNotParseFlag, s)
	}
	return nil
}
