package generator

import (
	"time"

	"github.com/gridwerk/demogrid/internal/generator/domain"
)

// contractEndDateProb is the share of contracts carrying an explicit end
// date; the rest run open-ended.
const contractEndDateProb = 0.3

var (
	serviceTypes = []domain.ServiceType{domain.ServiceTypeElectricity, domain.ServiceTypeGas, domain.ServiceTypeSolarLease}

	contractCounts       = []int{1, 2}
	contractCountWeights = []float64{0.8, 0.2}

	contractStatuses      = []domain.ContractStatus{domain.ContractStatusActive, domain.ContractStatusPendingRenewal, domain.ContractStatusExpired}
	contractStatusWeights = []float64{0.9, 0.08, 0.02}
)

// buildContracts samples 1-2 contracts per customer with unique service
// types. A duplicate service draw forfeits the slot, so a customer sampled
// for two contracts may end up with one.
func (r *run) buildContracts(customers []domain.Customer) []domain.Contract {
	contracts := make([]domain.Contract, 0, len(customers))
	for _, customer := range customers {
		count := weightedChoice(r.rng, contractCounts, contractCountWeights)
		seen := make(map[domain.ServiceType]struct{}, count)
		for slot := 0; slot < count; slot++ {
			serviceType := choice(r.rng, serviceTypes)
			if _, dup := seen[serviceType]; dup {
				continue
			}
			seen[serviceType] = struct{}{}

			var endDate *time.Time
			if r.rng.Float64() < contractEndDateProb {
				d := r.persona.DateBetween(r.now.AddDate(1, 0, 0), r.now.AddDate(3, 0, 0))
				endDate = &d
			}

			contracts = append(contracts, domain.Contract{
				ContractID:  r.contractSeq.Next(),
				CustomerID:  customer.CustomerID,
				ServiceType: serviceType,
				TariffPlan:  choice(r.rng, domain.TariffPlans),
				StartDate:   r.persona.DateBetween(r.now.AddDate(-4, 0, 0), r.now.AddDate(0, -6, 0)),
				EndDate:     endDate,
				Status:      weightedChoice(r.rng, contractStatuses, contractStatusWeights),
			})
		}
	}
	return contracts
}
