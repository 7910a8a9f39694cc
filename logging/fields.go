package logging

import (
	"time"

	"go.uber.org/zap"
)

// Thin aliases over the zap field constructors so callers only import this
// package.

func String(key, val string) zap.Field {
	return zap.String(key, val)
}

func Int(key string, val int) zap.Field {
	return zap.Int(key, val)
}

func Int64(key string, val int64) zap.Field {
	return zap.Int64(key, val)
}

func Uint64(key string, val uint64) zap.Field {
	return zap.Uint64(key, val)
}

func Float64(key string, val float64) zap.Field {
	return zap.Float64(key, val)
}

func Bool(key string, val bool) zap.Field {
	return zap.Bool(key, val)
}

func Time(key string, t time.Time) zap.Field {
	return zap.Time(key, t)
}

func Duration(key string, d time.Duration) zap.Field {
	return zap.Duration(key, d)
}

func Error(err error) zap.Field {
	return zap.Error(err)
}

func Stringer(key string, val interface{ String() string }) zap.Field {
	return zap.Stringer(key, val)
}
