package schedule

import (
	"time"
)

// TimeService supplies the wall clock to the scheduler so tests can pin
// it.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/time_service_mock.go -package mocks github.com/halcyonmkt/halcyon/schedule TimeService
type TimeService interface {
	Now() time.Time
}

// WallClock is the production time service.
type WallClock struct{}

func (WallClock) Now() time.Time {
	return time.Now()
}
