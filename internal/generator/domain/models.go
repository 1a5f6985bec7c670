// Package domain contains the generated entities and their warehouse shape.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerType distinguishes household and business customers.
type CustomerType string

const (
	CustomerTypeResidential CustomerType = "residential"
	CustomerTypeCommercial  CustomerType = "commercial"
)

// AccountStatus represents customer account lifecycle states.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
	AccountStatusCanceled  AccountStatus = "canceled"
)

// ServiceType enumerates the sellable utility services.
type ServiceType string

const (
	ServiceTypeElectricity ServiceType = "electricity"
	ServiceTypeGas         ServiceType = "gas"
	ServiceTypeSolarLease  ServiceType = "solar panel lease"
)

// ContractStatus represents contract lifecycle states. STATUS is sampled
// independently of the contract dates; the mismatch is part of the dataset.
type ContractStatus string

const (
	ContractStatusActive         ContractStatus = "active"
	ContractStatusPendingRenewal ContractStatus = "pending renewal"
	ContractStatusExpired        ContractStatus = "expired"
)

// PaymentStatus represents invoice payment states.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// IssueType enumerates support case categories.
type IssueType string

const (
	IssueTypeBillingInquiry    IssueType = "billing inquiry"
	IssueTypeServiceOutage     IssueType = "service outage"
	IssueTypeMeterReadingIssue IssueType = "meter reading issue"
	IssueTypeTariffPlanQuery   IssueType = "tariff plan query"
)

// ResolutionStatus represents support case resolution states.
type ResolutionStatus string

const (
	ResolutionStatusClosed    ResolutionStatus = "closed"
	ResolutionStatusOpen      ResolutionStatus = "open"
	ResolutionStatusEscalated ResolutionStatus = "escalated"
)

// TariffPlans are the marketed plan names contracts draw from.
var TariffPlans = []string{"Green Fix", "Energy Plus Variable", "Basic Home"}

// Customer represents one row of the customer dimension.
type Customer struct {
	CustomerID    string        `gorm:"column:CUSTOMER_ID;primaryKey"`
	CustomerName  string        `gorm:"column:CUSTOMER_NAME;type:text;not null"`
	Email         string        `gorm:"column:EMAIL;type:text;not null"`
	Address       string        `gorm:"column:ADDRESS;type:text"`
	City          string        `gorm:"column:CITY;type:text"`
	PostalCode    string        `gorm:"column:POSTAL_CODE;type:text"`
	CustomerType  CustomerType  `gorm:"column:CUSTOMER_TYPE;type:text;not null"`
	AccountStatus AccountStatus `gorm:"column:ACCOUNT_STATUS;type:text;not null"`
	JoinDate      time.Time     `gorm:"column:JOIN_DATE;type:date;not null"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "DIM_CUSTOMERS" }

// Contract represents a service contract fact row.
type Contract struct {
	ContractID  string         `gorm:"column:CONTRACT_ID;primaryKey"`
	CustomerID  string         `gorm:"column:CUSTOMER_ID;not null;index"`
	ServiceType ServiceType    `gorm:"column:SERVICE_TYPE;type:text;not null"`
	TariffPlan  string         `gorm:"column:TARIFF_PLAN;type:text;not null"`
	StartDate   time.Time      `gorm:"column:START_DATE;type:date;not null"`
	EndDate     *time.Time     `gorm:"column:END_DATE;type:date"`
	Status      ContractStatus `gorm:"column:STATUS;type:text;not null"`
}

// TableName sets the database table name.
func (Contract) TableName() string { return "FACT_CONTRACTS" }

// MeterReading represents one smart meter sample. Exactly one reading
// exists per customer per calendar day in the window.
type MeterReading struct {
	ReadingID      string    `gorm:"column:READING_ID;primaryKey"`
	CustomerID     string    `gorm:"column:CUSTOMER_ID;not null;index"`
	MeterID        string    `gorm:"column:METER_ID;type:text;not null"`
	Timestamp      time.Time `gorm:"column:TIMESTAMP;not null"`
	KWHConsumption float64   `gorm:"column:KWH_CONSUMPTION;not null"`
	KWGeneration   float64   `gorm:"column:KW_GENERATION;not null"`
}

// TableName sets the database table name.
func (MeterReading) TableName() string { return "FACT_SMART_METER_READINGS" }

// Invoice represents one monthly bill.
type Invoice struct {
	InvoiceID     string          `gorm:"column:INVOICE_ID;primaryKey"`
	CustomerID    string          `gorm:"column:CUSTOMER_ID;not null;index"`
	InvoiceDate   time.Time       `gorm:"column:INVOICE_DATE;type:date;not null"`
	DueDate       time.Time       `gorm:"column:DUE_DATE;type:date;not null"`
	AmountDue     decimal.Decimal `gorm:"column:AMOUNT_DUE;type:decimal(12,2);not null"`
	PaymentStatus PaymentStatus   `gorm:"column:PAYMENT_STATUS;type:text;not null"`
	PeriodStart   time.Time       `gorm:"column:CONSUMPTION_PERIOD_START;type:date;not null"`
	PeriodEnd     time.Time       `gorm:"column:CONSUMPTION_PERIOD_END;type:date;not null"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "FACT_BILLINGS" }

// SupportCase represents one customer support ticket.
type SupportCase struct {
	CaseID           string           `gorm:"column:CASE_ID;primaryKey"`
	CustomerID       string           `gorm:"column:CUSTOMER_ID;not null;index"`
	CaseDate         time.Time        `gorm:"column:CASE_DATE;type:date;not null"`
	IssueType        IssueType        `gorm:"column:ISSUE_TYPE;type:text;not null"`
	ResolutionStatus ResolutionStatus `gorm:"column:RESOLUTION_STATUS;type:text;not null"`
	Description      string           `gorm:"column:DESCRIPTION;type:text"`
}

// TableName sets the database table name.
func (SupportCase) TableName() string { return "FACT_SUPPORT_CASES" }
