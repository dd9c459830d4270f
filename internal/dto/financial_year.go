package dto

import (
	"time"

	"github.com/medantrix/hms_accounting_app/internal/core/domain"
)

// CreateFinancialYearRequest creates a financial year in ACTIVE status.
type CreateFinancialYearRequest struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required" time_format:"2006-01-02"`
	EndDate   time.Time `json:"endDate" binding:"required" time_format:"2006-01-02"`
}

// FinancialYearResponse is the API representation of a financial year.
type FinancialYearResponse struct {
	FinancialYearID string    `json:"financialYearID"`
	Name            string    `json:"name"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ToFinancialYearResponse converts a domain financial year to its DTO.
func ToFinancialYearResponse(year *domain.FinancialYear) FinancialYearResponse {
	return FinancialYearResponse{
		FinancialYearID: year.FinancialYearID,
		Name:            year.Name,
		StartDate:       year.StartDate,
		EndDate:         year.EndDate,
		Status:          string(year.Status),
		CreatedAt:       year.CreatedAt,
	}
}

// ToFinancialYearResponses converts a slice of domain financial years.
func ToFinancialYearResponses(years []domain.FinancialYear) []FinancialYearResponse {
	responses := make([]FinancialYearResponse, len(years))
	for i := range years {
		responses[i] = ToFinancialYearResponse(&years[i])
	}
	return responses
}
