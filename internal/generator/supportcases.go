package generator

import (
	"fmt"

	"github.com/gridwerk/demogrid/internal/generator/domain"
)

const (
	// caseSampleShare is the fraction of all customers that raise general
	// cases; anomaly and overdue customers are always added on top.
	caseSampleShare = 0.2

	anomalyCaseLagDays = 15
	overdueCaseLagDays = 30
	caseLagJitterDays  = 5
)

var (
	generalIssueTypes = []domain.IssueType{domain.IssueTypeServiceOutage, domain.IssueTypeMeterReadingIssue, domain.IssueTypeTariffPlanQuery}

	resolutionStatuses      = []domain.ResolutionStatus{domain.ResolutionStatusClosed, domain.ResolutionStatusOpen, domain.ResolutionStatusEscalated}
	resolutionStatusWeights = []float64{0.8, 0.15, 0.05}
)

// buildSupportCases emits 1-2 cases for a sampled subset of customers plus
// every anomaly and overdue customer. Category is decided in priority
// order: anomaly, then overdue, then general. Anomaly and overdue case
// dates hang off the global anomaly date, not the customer's own bills,
// and may land past the reading window.
func (r *run) buildSupportCases(customers []domain.Customer, anomaly, overdue map[string]bool) []domain.SupportCase {
	ids := make([]string, 0, len(customers))
	for _, customer := range customers {
		ids = append(ids, customer.CustomerID)
	}

	selected := make(map[string]bool, len(ids))
	for _, id := range sampleWithoutReplacement(r.rng, ids, int(float64(len(ids))*caseSampleShare)) {
		selected[id] = true
	}
	for id := range anomaly {
		selected[id] = true
	}
	for id := range overdue {
		selected[id] = true
	}

	// Roster order keeps case id assignment deterministic.
	ordered := make([]string, 0, len(selected))
	for _, id := range ids {
		if selected[id] {
			ordered = append(ordered, id)
		}
	}

	anomalyMonth := r.sc.AnomalyDate.Month().String()
	overdueMonth := r.sc.OverdueMonth.String()

	cases := make([]domain.SupportCase, 0, len(ordered))
	for _, customerID := range ordered {
		for n := intBetween(r.rng, 1, 2); n > 0; n-- {
			var c domain.SupportCase
			switch {
			case anomaly[customerID]:
				c = domain.SupportCase{
					IssueType:   domain.IssueTypeBillingInquiry,
					Description: fmt.Sprintf("Customer inquired about unexpectedly high bill for %s.", anomalyMonth),
					CaseDate:    r.sc.AnomalyDate.AddDate(0, 0, anomalyCaseLagDays+intBetween(r.rng, 1, caseLagJitterDays)),
				}
			case overdue[customerID]:
				c = domain.SupportCase{
					IssueType:   domain.IssueTypeBillingInquiry,
					Description: fmt.Sprintf("Follow-up call regarding overdue payment for %s invoice.", overdueMonth),
					CaseDate:    r.sc.AnomalyDate.AddDate(0, 0, overdueCaseLagDays+intBetween(r.rng, 1, caseLagJitterDays)),
				}
			default:
				c = domain.SupportCase{
					IssueType:   choice(r.rng, generalIssueTypes),
					Description: "Customer called with a general query about their service.",
					CaseDate:    r.persona.DateBetween(r.sc.StartDate, r.sc.EndDate),
				}
			}

			c.CaseID = r.caseSeq.Next()
			c.CustomerID = customerID
			c.ResolutionStatus = weightedChoice(r.rng, resolutionStatuses, resolutionStatusWeights)
			cases = append(cases, c)
		}
	}
	return cases
}
