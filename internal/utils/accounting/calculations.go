package accounting

import (
	"fmt"

	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the maximum permitted absolute difference between an
// entry's total debits and total credits.
var BalanceTolerance = decimal.NewFromFloat(0.01)

// BalanceDelta computes the signed balance change an item applies to an
// account, based on the account type's sign convention.
// ASSET/EXPENSE: debit increases the balance (delta = debit - credit).
// LIABILITY/EQUITY/REVENUE: credit increases it (delta = credit - debit).
// The same function serves posting and reversal; a reversal swaps each
// line's debit and credit and runs back through here.
func BalanceDelta(accountType domain.AccountType, debitAmount, creditAmount decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return debitAmount.Sub(creditAmount), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return creditAmount.Sub(debitAmount), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// SumItems returns the total debit and total credit across the items.
func SumItems(items []domain.JournalEntryItem) (decimal.Decimal, decimal.Decimal) {
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, item := range items {
		totalDebit = totalDebit.Add(item.DebitAmount)
		totalCredit = totalCredit.Add(item.CreditAmount)
	}
	return totalDebit, totalCredit
}

// ValidateComposition checks the structural shape of an entry's items:
// no negative amounts, at least one line with a debit and at least one
// with a credit. A degenerate all-debit or all-credit entry is invalid.
// A single line carrying both a debit and a credit satisfies both sides,
// so no minimum item count is imposed.
func ValidateComposition(items []domain.JournalEntryItem) error {
	hasDebit := false
	hasCredit := false
	for _, item := range items {
		if item.DebitAmount.IsNegative() || item.CreditAmount.IsNegative() {
			return fmt.Errorf("item amounts must not be negative for account %s", item.AccountID)
		}
		if item.DebitAmount.IsPositive() {
			hasDebit = true
		}
		if item.CreditAmount.IsPositive() {
			hasCredit = true
		}
	}
	if !hasDebit || !hasCredit {
		return fmt.Errorf("journal entry must contain at least one debit and one credit item")
	}
	return nil
}

// ValidateBalanced checks that total debits equal total credits within
// the balance tolerance.
func ValidateBalanced(items []domain.JournalEntryItem) error {
	totalDebit, totalCredit := SumItems(items)
	if totalDebit.Sub(totalCredit).Abs().GreaterThanOrEqual(BalanceTolerance) {
		return fmt.Errorf("debits (%s) and credits (%s) do not balance",
			totalDebit.String(), totalCredit.String())
	}
	return nil
}

// NetBalanceChanges folds an entry's items into one signed delta per
// account, keyed by account ID.
func NetBalanceChanges(items []domain.JournalEntryItem, accountTypes map[string]domain.AccountType) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(items))
	for _, item := range items {
		accountType, ok := accountTypes[item.AccountID]
		if !ok {
			return nil, fmt.Errorf("account type not found for account %s", item.AccountID)
		}
		delta, err := BalanceDelta(accountType, item.DebitAmount, item.CreditAmount)
		if err != nil {
			return nil, err
		}
		changes[item.AccountID] = changes[item.AccountID].Add(delta)
	}
	return changes, nil
}
