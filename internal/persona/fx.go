package persona

import "go.uber.org/fx"

// NewFactory returns the gofakeit-backed provider factory.
func NewFactory() Factory {
	return func(seed uint64) Provider { return NewFaker(seed) }
}

var Module = fx.Module("persona", fx.Provide(NewFactory))
