package dto

import (
	"time"

	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	"github.com/medantrix/hms_accounting_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest creates a chart-of-accounts node.
type CreateAccountRequest struct {
	AccountCode     string          `json:"accountCode" binding:"required"`
	Name            string          `json:"name" binding:"required"`
	AccountType     string          `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentAccountID *string         `json:"parentAccountID"`
	DepartmentID    *string         `json:"departmentID"`
	Description     string          `json:"description"`
	OpeningBalance  decimal.Decimal `json:"openingBalance"`
}

// UpdateAccountRequest patches an account. The account type is fixed at
// creation and cannot be changed.
type UpdateAccountRequest struct {
	Name            *string `json:"name"`
	ParentAccountID *string `json:"parentAccountID"`
	DepartmentID    *string `json:"departmentID"`
	Description     *string `json:"description"`
}

// ListAccountsParams are the query parameters for listing accounts.
type ListAccountsParams struct {
	Page       int  `form:"page"`
	Limit      int  `form:"limit"`
	ActiveOnly bool `form:"activeOnly"`
}

// AccountResponse is the API representation of an account.
type AccountResponse struct {
	AccountID       string          `json:"accountID"`
	AccountCode     string          `json:"accountCode"`
	Name            string          `json:"name"`
	AccountType     string          `json:"accountType"`
	ParentAccountID *string         `json:"parentAccountID"`
	DepartmentID    *string         `json:"departmentID"`
	Description     string          `json:"description"`
	OpeningBalance  decimal.Decimal `json:"openingBalance"`
	Balance         decimal.Decimal `json:"balance"`
	IsActive        bool            `json:"isActive"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ListAccountsResponse is a page of accounts.
type ListAccountsResponse struct {
	Data       []AccountResponse     `json:"data"`
	Pagination pagination.Pagination `json:"pagination"`
}

// CreateDepartmentRequest creates a hospital department.
type CreateDepartmentRequest struct {
	Name string `json:"name" binding:"required"`
}

// DepartmentResponse is the API representation of a department.
type DepartmentResponse struct {
	DepartmentID string `json:"departmentID"`
	Name         string `json:"name"`
	IsActive     bool   `json:"isActive"`
}

// ToAccountResponse converts a domain account to its DTO.
func ToAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       account.AccountID,
		AccountCode:     account.AccountCode,
		Name:            account.Name,
		AccountType:     string(account.AccountType),
		ParentAccountID: account.ParentAccountID,
		DepartmentID:    account.DepartmentID,
		Description:     account.Description,
		OpeningBalance:  account.OpeningBalance,
		Balance:         account.Balance,
		IsActive:        account.IsActive,
		CreatedAt:       account.CreatedAt,
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}

// ToDepartmentResponse converts a domain department to its DTO.
func ToDepartmentResponse(department *domain.Department) DepartmentResponse {
	return DepartmentResponse{
		DepartmentID: department.DepartmentID,
		Name:         department.Name,
		IsActive:     department.IsActive,
	}
}
