package domain

import (
	"time"

	"github.com/gridwerk/demogrid/internal/config"
)

// Result is the complete output of one generation run, plus the anomaly
// bookkeeping downstream checks trace against.
type Result struct {
	RunID       string
	Seed        uint64
	GeneratedAt time.Time
	Elapsed     time.Duration

	// Scenario is the run's input with the effective seed filled in, kept
	// for provenance manifests.
	Scenario config.Scenario

	Customers    []Customer
	Contracts    []Contract
	Readings     []MeterReading
	Invoices     []Invoice
	SupportCases []SupportCase

	// AnomalyCustomerIDs lists the customers whose consumption spikes, in
	// sample draw order. OverdueCustomerIDs is its leading subset.
	AnomalyCustomerIDs []string
	OverdueCustomerIDs []string
}

// Table is an order-preserving tabular view of one dataset. Row values keep
// their native Go types; absent values are nil.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// Maps returns the rows keyed by column name.
func (t Table) Maps() []map[string]any {
	out := make([]map[string]any, len(t.Rows))
	for i, row := range t.Rows {
		m := make(map[string]any, len(t.Columns))
		for j, col := range t.Columns {
			m[col] = row[j]
		}
		out[i] = m
	}
	return out
}

// Tables renders the five datasets in warehouse column order.
func (r *Result) Tables() []Table {
	customers := Table{
		Name: Customer{}.TableName(),
		Columns: []string{
			"CUSTOMER_ID", "CUSTOMER_NAME", "EMAIL", "ADDRESS", "CITY",
			"POSTAL_CODE", "CUSTOMER_TYPE", "ACCOUNT_STATUS", "JOIN_DATE",
		},
	}
	for _, c := range r.Customers {
		customers.Rows = append(customers.Rows, []any{
			c.CustomerID, c.CustomerName, c.Email, c.Address, c.City,
			c.PostalCode, c.CustomerType, c.AccountStatus, c.JoinDate,
		})
	}

	contracts := Table{
		Name: Contract{}.TableName(),
		Columns: []string{
			"CONTRACT_ID", "CUSTOMER_ID", "SERVICE_TYPE", "TARIFF_PLAN",
			"START_DATE", "END_DATE", "STATUS",
		},
	}
	for _, c := range r.Contracts {
		var endDate any
		if c.EndDate != nil {
			endDate = *c.EndDate
		}
		contracts.Rows = append(contracts.Rows, []any{
			c.ContractID, c.CustomerID, c.ServiceType, c.TariffPlan,
			c.StartDate, endDate, c.Status,
		})
	}

	readings := Table{
		Name: MeterReading{}.TableName(),
		Columns: []string{
			"READING_ID", "CUSTOMER_ID", "METER_ID", "TIMESTAMP",
			"KWH_CONSUMPTION", "KW_GENERATION",
		},
	}
	for _, m := range r.Readings {
		readings.Rows = append(readings.Rows, []any{
			m.ReadingID, m.CustomerID, m.MeterID, m.Timestamp,
			m.KWHConsumption, m.KWGeneration,
		})
	}

	invoices := Table{
		Name: Invoice{}.TableName(),
		Columns: []string{
			"INVOICE_ID", "CUSTOMER_ID", "INVOICE_DATE", "DUE_DATE",
			"AMOUNT_DUE", "PAYMENT_STATUS", "CONSUMPTION_PERIOD_START",
			"CONSUMPTION_PERIOD_END",
		},
	}
	for _, i := range r.Invoices {
		invoices.Rows = append(invoices.Rows, []any{
			i.InvoiceID, i.CustomerID, i.InvoiceDate, i.DueDate,
			i.AmountDue, i.PaymentStatus, i.PeriodStart, i.PeriodEnd,
		})
	}

	cases := Table{
		Name: SupportCase{}.TableName(),
		Columns: []string{
			"CASE_ID", "CUSTOMER_ID", "CASE_DATE", "ISSUE_TYPE",
			"RESOLUTION_STATUS", "DESCRIPTION",
		},
	}
	for _, c := range r.SupportCases {
		cases.Rows = append(cases.Rows, []any{
			c.CaseID, c.CustomerID, c.CaseDate, c.IssueType,
			c.ResolutionStatus, c.Description,
		})
	}

	return []Table{customers, contracts, readings, invoices, cases}
}

// RowCounts maps table name to generated row count.
func (r *Result) RowCounts() map[string]int {
	return map[string]int{
		Customer{}.TableName():     len(r.Customers),
		Contract{}.TableName():     len(r.Contracts),
		MeterReading{}.TableName(): len(r.Readings),
		Invoice{}.TableName():      len(r.Invoices),
		SupportCase{}.TableName():  len(r.SupportCases),
	}
}
