// Package persona supplies realistic identity strings for invented
// customers. The generator depends on this interface only; the default
// implementation wraps gofakeit.
package persona

import "time"

// Provider yields locale-appropriate fake identity fields. Implementations
// must be deterministic for a fixed seed.
type Provider interface {
	FirstName() string
	LastName() string
	StreetAddress() string
	City() string
	PostalCode() string
	EmailDomain() string
	// DateBetween returns a calendar date (midnight UTC) in [start, end].
	DateBetween(start, end time.Time) time.Time
}

// Factory builds a Provider for one generation run.
type Factory func(seed uint64) Provider
