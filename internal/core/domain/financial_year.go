package domain

import "time"

// FinancialYearStatus is the lifecycle state of a financial year.
type FinancialYearStatus string

const (
	FinancialYearActive FinancialYearStatus = "ACTIVE"
	FinancialYearClosed FinancialYearStatus = "CLOSED"
)

// FinancialYear is the window that authorizes journal postings. Postings
// and reversals are permitted only while the year is ACTIVE and the entry
// date falls within [StartDate, EndDate]. CLOSED is terminal.
type FinancialYear struct {
	FinancialYearID string              `json:"financialYearID"`
	Name            string              `json:"name"` // e.g. "FY 2025-26"
	StartDate       time.Time           `json:"startDate"`
	EndDate         time.Time           `json:"endDate"`
	Status          FinancialYearStatus `json:"status"`
	AuditFields
}
