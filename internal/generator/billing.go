package generator

import (
	"time"

	"github.com/gridwerk/demogrid/internal/generator/domain"
	"github.com/shopspring/decimal"
)

const (
	invoiceDateLagDays = 5
	dueDateLagDays     = 14
)

type monthKey struct {
	customerID string
	year       int
	month      time.Month
}

// buildInvoices emits one invoice per customer per calendar month touching
// the window. Consumption is pre-indexed by customer and month in a single
// pass over the readings.
func (r *run) buildInvoices(customers []domain.Customer, readings []domain.MeterReading, overdue map[string]bool) []domain.Invoice {
	consumption := make(map[monthKey]float64)
	for _, reading := range readings {
		key := monthKey{reading.CustomerID, reading.Timestamp.Year(), reading.Timestamp.Month()}
		consumption[key] += reading.KWHConsumption
	}

	months := monthsBetween(r.sc.StartDate, r.sc.EndDate)
	rate := decimal.NewFromFloat(r.sc.TariffRatePerKWh)
	baseFee := decimal.NewFromFloat(r.sc.BaseMonthlyFee)
	endYear, endMonth, _ := r.sc.EndDate.Date()

	invoices := make([]domain.Invoice, 0, len(customers)*len(months))
	for _, customer := range customers {
		for _, month := range months {
			periodStart := maxDate(month, r.sc.StartDate)
			periodEnd := minDate(month.AddDate(0, 1, -1), r.sc.EndDate)

			kwh := consumption[monthKey{customer.CustomerID, month.Year(), month.Month()}]
			amount := decimal.NewFromFloat(kwh).Mul(rate).Add(baseFee).RoundBank(2)

			invoiceDate := periodEnd.AddDate(0, 0, invoiceDateLagDays)

			// The window's final month is always unbilled-yet; overdue only
			// applies to earlier months of the designated subset.
			status := domain.PaymentStatusPaid
			switch {
			case month.Year() == endYear && month.Month() == endMonth:
				status = domain.PaymentStatusPending
			case overdue[customer.CustomerID] && month.Month() == r.sc.OverdueMonth:
				status = domain.PaymentStatusOverdue
			}

			invoices = append(invoices, domain.Invoice{
				InvoiceID:     r.invoiceSeq.Next(),
				CustomerID:    customer.CustomerID,
				InvoiceDate:   invoiceDate,
				DueDate:       invoiceDate.AddDate(0, 0, dueDateLagDays),
				AmountDue:     amount,
				PaymentStatus: status,
				PeriodStart:   periodStart,
				PeriodEnd:     periodEnd,
			})
		}
	}
	return invoices
}

// monthsBetween lists the first day of every calendar month touching
// [start, end].
func monthsBetween(start, end time.Time) []time.Time {
	var months []time.Time
	for month := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC); !month.After(end); month = month.AddDate(0, 1, 0) {
		months = append(months, month)
	}
	return months
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
