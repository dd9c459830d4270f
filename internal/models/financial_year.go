package models

import "time"

// FinancialYear is the financial_years table row.
type FinancialYear struct {
	FinancialYearID string    `db:"financial_year_id"`
	Name            string    `db:"name"`
	StartDate       time.Time `db:"start_date"`
	EndDate         time.Time `db:"end_date"`
	Status          string    `db:"status"`
	AuditFields
}
