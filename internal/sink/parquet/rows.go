package parquet

import (
	"time"

	"github.com/gridwerk/demogrid/internal/generator/domain"
)

// Row schemas mirror the warehouse column order. Calendar dates travel as
// YYYY-MM-DD strings; only the meter reading keeps a full timestamp.

type customerRow struct {
	CustomerID    string `parquet:"CUSTOMER_ID"`
	CustomerName  string `parquet:"CUSTOMER_NAME"`
	Email         string `parquet:"EMAIL"`
	Address       string `parquet:"ADDRESS"`
	City          string `parquet:"CITY"`
	PostalCode    string `parquet:"POSTAL_CODE"`
	CustomerType  string `parquet:"CUSTOMER_TYPE"`
	AccountStatus string `parquet:"ACCOUNT_STATUS"`
	JoinDate      string `parquet:"JOIN_DATE"`
}

type contractRow struct {
	ContractID  string  `parquet:"CONTRACT_ID"`
	CustomerID  string  `parquet:"CUSTOMER_ID"`
	ServiceType string  `parquet:"SERVICE_TYPE"`
	TariffPlan  string  `parquet:"TARIFF_PLAN"`
	StartDate   string  `parquet:"START_DATE"`
	EndDate     *string `parquet:"END_DATE,optional"`
	Status      string  `parquet:"STATUS"`
}

type readingRow struct {
	ReadingID      string    `parquet:"READING_ID"`
	CustomerID     string    `parquet:"CUSTOMER_ID"`
	MeterID        string    `parquet:"METER_ID"`
	Timestamp      time.Time `parquet:"TIMESTAMP,timestamp"`
	KWHConsumption float64   `parquet:"KWH_CONSUMPTION"`
	KWGeneration   float64   `parquet:"KW_GENERATION"`
}

type invoiceRow struct {
	InvoiceID     string  `parquet:"INVOICE_ID"`
	CustomerID    string  `parquet:"CUSTOMER_ID"`
	InvoiceDate   string  `parquet:"INVOICE_DATE"`
	DueDate       string  `parquet:"DUE_DATE"`
	AmountDue     float64 `parquet:"AMOUNT_DUE"`
	PaymentStatus string  `parquet:"PAYMENT_STATUS"`
	PeriodStart   string  `parquet:"CONSUMPTION_PERIOD_START"`
	PeriodEnd     string  `parquet:"CONSUMPTION_PERIOD_END"`
}

type caseRow struct {
	CaseID           string `parquet:"CASE_ID"`
	CustomerID       string `parquet:"CUSTOMER_ID"`
	CaseDate         string `parquet:"CASE_DATE"`
	IssueType        string `parquet:"ISSUE_TYPE"`
	Description      string `parquet:"DESCRIPTION"`
	ResolutionStatus string `parquet:"RESOLUTION_STATUS"`
}

func toCustomerRows(customers []domain.Customer) []customerRow {
	rows := make([]customerRow, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, customerRow{
			CustomerID:    c.CustomerID,
			CustomerName:  c.CustomerName,
			Email:         c.Email,
			Address:       c.Address,
			City:          c.City,
			PostalCode:    c.PostalCode,
			CustomerType:  string(c.CustomerType),
			AccountStatus: string(c.AccountStatus),
			JoinDate:      c.JoinDate.Format(time.DateOnly),
		})
	}
	return rows
}

func toContractRows(contracts []domain.Contract) []contractRow {
	rows := make([]contractRow, 0, len(contracts))
	for _, c := range contracts {
		var endDate *string
		if c.EndDate != nil {
			formatted := c.EndDate.Format(time.DateOnly)
			endDate = &formatted
		}
		rows = append(rows, contractRow{
			ContractID:  c.ContractID,
			CustomerID:  c.CustomerID,
			ServiceType: string(c.ServiceType),
			TariffPlan:  c.TariffPlan,
			StartDate:   c.StartDate.Format(time.DateOnly),
			EndDate:     endDate,
			Status:      string(c.Status),
		})
	}
	return rows
}

func toReadingRows(readings []domain.MeterReading) []readingRow {
	rows := make([]readingRow, 0, len(readings))
	for _, r := range readings {
		rows = append(rows, readingRow{
			ReadingID:      r.ReadingID,
			CustomerID:     r.CustomerID,
			MeterID:        r.MeterID,
			Timestamp:      r.Timestamp,
			KWHConsumption: r.KWHConsumption,
			KWGeneration:   r.KWGeneration,
		})
	}
	return rows
}

func toInvoiceRows(invoices []domain.Invoice) []invoiceRow {
	rows := make([]invoiceRow, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, invoiceRow{
			InvoiceID:     inv.InvoiceID,
			CustomerID:    inv.CustomerID,
			InvoiceDate:   inv.InvoiceDate.Format(time.DateOnly),
			DueDate:       inv.DueDate.Format(time.DateOnly),
			AmountDue:     inv.AmountDue.InexactFloat64(),
			PaymentStatus: string(inv.PaymentStatus),
			PeriodStart:   inv.PeriodStart.Format(time.DateOnly),
			PeriodEnd:     inv.PeriodEnd.Format(time.DateOnly),
		})
	}
	return rows
}

func toCaseRows(cases []domain.SupportCase) []caseRow {
	rows := make([]caseRow, 0, len(cases))
	for _, c := range cases {
		rows = append(rows, caseRow{
			CaseID:           c.CaseID,
			CustomerID:       c.CustomerID,
			CaseDate:         c.CaseDate.Format(time.DateOnly),
			IssueType:        string(c.IssueType),
			Description:      c.Description,
			ResolutionStatus: string(c.ResolutionStatus),
		})
	}
	return rows
}
