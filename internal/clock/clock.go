// Package clock abstracts "now" so date sampling stays testable.
package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock supplies the current time. Generation derives join dates and
// contract dates from it, so tests inject a FakeClock for fixed output.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// NewSystemClock returns a Clock backed by the wall clock, in UTC.
func NewSystemClock() Clock { return systemClock{} }

var Module = fx.Module("clock",
	fx.Provide(NewSystemClock),
)
