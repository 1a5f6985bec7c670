package generator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gridwerk/demogrid/internal/generator/domain"
)

const (
	commercialMeanKWH  = 75.0
	commercialSDKWH    = 10.0
	residentialMeanKWH = 10.0
	residentialSDKWH   = 3.0

	// Anomaly customers spike for anomaly date +-2 days, multiplied 5x-8x.
	spikeWindowDays = 2
	spikeFactorLo   = 5.0
	spikeFactorHi   = 8.0

	solarGenLoKW = 1.0
	solarGenHiKW = 5.5

	meterIDOffset = 12345
)

// solarMonths gate generation output; leased panels only earn in high summer.
var solarMonths = map[time.Month]bool{time.June: true, time.July: true, time.August: true}

// buildReadings emits one reading per customer per calendar day in the
// window and returns the sampled anomaly customer ids in draw order.
func (r *run) buildReadings(customers []domain.Customer, contracts []domain.Contract) ([]domain.MeterReading, []string, error) {
	solar := make(map[string]bool, len(contracts))
	for _, contract := range contracts {
		if contract.ServiceType == domain.ServiceTypeSolarLease {
			solar[contract.CustomerID] = true
		}
	}

	var residentialIDs []string
	for _, customer := range customers {
		if customer.CustomerType == domain.CustomerTypeResidential {
			residentialIDs = append(residentialIDs, customer.CustomerID)
		}
	}
	if r.sc.AnomalyCustomerCap > 0 && len(residentialIDs) == 0 {
		return nil, nil, domain.ErrNoResidentialCustomers
	}
	anomalyIDs := sampleWithoutReplacement(r.rng, residentialIDs, r.sc.AnomalyCustomerCap)
	anomaly := make(map[string]bool, len(anomalyIDs))
	for _, id := range anomalyIDs {
		anomaly[id] = true
	}

	spikeFrom := r.sc.AnomalyDate.AddDate(0, 0, -spikeWindowDays)
	spikeTo := r.sc.AnomalyDate.AddDate(0, 0, spikeWindowDays)

	days := daysBetween(r.sc.StartDate, r.sc.EndDate)
	readings := make([]domain.MeterReading, 0, len(customers)*len(days))
	for _, customer := range customers {
		meterID, err := meterIDFor(customer.CustomerID)
		if err != nil {
			return nil, nil, fmt.Errorf("customer %s: %w", customer.CustomerID, err)
		}

		mean, sd := residentialMeanKWH, residentialSDKWH
		if customer.CustomerType == domain.CustomerTypeCommercial {
			mean, sd = commercialMeanKWH, commercialSDKWH
		}

		for _, day := range days {
			consumption := normal(r.rng, mean, sd)
			if anomaly[customer.CustomerID] && !day.Before(spikeFrom) && !day.After(spikeTo) {
				consumption *= floatBetween(r.rng, spikeFactorLo, spikeFactorHi)
			}

			generation := 0.0
			if solar[customer.CustomerID] && solarMonths[day.Month()] {
				generation = floatBetween(r.rng, solarGenLoKW, solarGenHiKW)
			}

			// Meter polling jitter: readings land at a random minute of the day.
			ts := day.Add(
				time.Duration(intBetween(r.rng, 0, 23))*time.Hour +
					time.Duration(intBetween(r.rng, 0, 59))*time.Minute,
			)

			readings = append(readings, domain.MeterReading{
				ReadingID:      r.readingSeq.Next(),
				CustomerID:     customer.CustomerID,
				MeterID:        meterID,
				Timestamp:      ts,
				KWHConsumption: round2(math.Max(0, consumption)),
				KWGeneration:   round2(math.Max(0, generation)),
			})
		}
	}
	return readings, anomalyIDs, nil
}

// meterIDFor derives the meter serial from the customer id's numeric suffix.
func meterIDFor(customerID string) (string, error) {
	_, raw, ok := strings.Cut(customerID, "_")
	if !ok {
		return "", domain.ErrMalformedCustomerID
	}
	numeric, err := strconv.Atoi(raw)
	if err != nil {
		return "", domain.ErrMalformedCustomerID
	}
	return fmt.Sprintf("MTR-%d", numeric+meterIDOffset), nil
}

func daysBetween(start, end time.Time) []time.Time {
	var days []time.Time
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}
