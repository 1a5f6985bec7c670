package domain

import "errors"

var (
	// ErrNoResidentialCustomers signals an anomaly cap with no residential
	// customers to plant anomalies on.
	ErrNoResidentialCustomers = errors.New("no_residential_customers")

	// ErrMalformedCustomerID signals a customer id without the numeric
	// suffix meter ids derive from.
	ErrMalformedCustomerID = errors.New("malformed_customer_id")
)
