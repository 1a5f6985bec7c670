package persona

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

var freeEmailDomains = []string{"gmail.com", "yahoo.com", "hotmail.com"}

// Faker is the gofakeit-backed Provider.
type Faker struct {
	f *gofakeit.Faker
}

// NewFaker returns a Provider with a reproducible stream for the seed.
func NewFaker(seed uint64) *Faker {
	return &Faker{f: gofakeit.New(seed)}
}

func (p *Faker) FirstName() string { return p.f.FirstName() }

func (p *Faker) LastName() string { return p.f.LastName() }

func (p *Faker) StreetAddress() string { return p.f.Street() }

func (p *Faker) City() string { return p.f.City() }

func (p *Faker) PostalCode() string { return p.f.Zip() }

func (p *Faker) EmailDomain() string { return p.f.RandomString(freeEmailDomains) }

func (p *Faker) DateBetween(start, end time.Time) time.Time {
	if !end.After(start) {
		return midnight(start)
	}
	return midnight(p.f.DateRange(start, end))
}

func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var _ Provider = (*Faker)(nil)
