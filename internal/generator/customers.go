package generator

import (
	"strings"

	"github.com/gridwerk/demogrid/internal/generator/domain"
)

var (
	customerTypes       = []domain.CustomerType{domain.CustomerTypeResidential, domain.CustomerTypeCommercial}
	customerTypeWeights = []float64{0.95, 0.05}

	accountStatuses      = []domain.AccountStatus{domain.AccountStatusActive, domain.AccountStatusSuspended, domain.AccountStatusCanceled}
	accountStatusWeights = []float64{0.96, 0.03, 0.01}
)

// buildCustomers produces the roster. Join dates trail "now" by 1..8 years,
// independent of the reading window.
func (r *run) buildCustomers(n int) []domain.Customer {
	if n <= 0 {
		return nil
	}

	customers := make([]domain.Customer, 0, n)
	for i := 0; i < n; i++ {
		first := r.persona.FirstName()
		last := r.persona.LastName()
		customers = append(customers, domain.Customer{
			CustomerID:    r.customerSeq.Next(),
			CustomerName:  first + " " + last,
			Email:         emailFor(first, last, r.persona.EmailDomain()),
			Address:       r.persona.StreetAddress(),
			City:          r.persona.City(),
			PostalCode:    r.persona.PostalCode(),
			CustomerType:  weightedChoice(r.rng, customerTypes, customerTypeWeights),
			AccountStatus: weightedChoice(r.rng, accountStatuses, accountStatusWeights),
			JoinDate:      r.persona.DateBetween(r.now.AddDate(-8, 0, 0), r.now.AddDate(-1, 0, 0)),
		})
	}
	return customers
}

func emailFor(first, last, domain string) string {
	local := strings.ToLower(first) + "." + strings.ToLower(last)
	return strings.ReplaceAll(local, " ", "") + "@" + domain
}
