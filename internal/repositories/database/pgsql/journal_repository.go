package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medantrix/hms_accounting_app/internal/apperrors"
	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	portsrepo "github.com/medantrix/hms_accounting_app/internal/core/ports/repositories"
	"github.com/medantrix/hms_accounting_app/internal/models"
	"github.com/shopspring/decimal"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const journalEntryColumns = `journal_entry_id, entry_number, entry_date, financial_year_id, reference, reference_type, description, total_debit, total_credit, status, is_recurring, recurring_interval, next_recurring_date, approved_by, approved_at, reversed_by, reversed_at, reversal_entry_id, created_at, created_by, last_updated_at, last_updated_by`

const journalItemColumns = `item_id, journal_entry_id, account_id, description, debit_amount, credit_amount, created_at, created_by, last_updated_at, last_updated_by`

func toModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	var interval *string
	if d.RecurringInterval != nil {
		s := string(*d.RecurringInterval)
		interval = &s
	}
	return models.JournalEntry{
		JournalEntryID:    d.JournalEntryID,
		EntryNumber:       d.EntryNumber,
		EntryDate:         d.EntryDate,
		FinancialYearID:   d.FinancialYearID,
		Reference:         d.Reference,
		ReferenceType:     d.ReferenceType,
		Description:       d.Description,
		TotalDebit:        d.TotalDebit,
		TotalCredit:       d.TotalCredit,
		Status:            string(d.Status),
		IsRecurring:       d.IsRecurring,
		RecurringInterval: interval,
		NextRecurringDate: d.NextRecurringDate,
		ApprovedBy:        d.ApprovedBy,
		ApprovedAt:        d.ApprovedAt,
		ReversedBy:        d.ReversedBy,
		ReversedAt:        d.ReversedAt,
		ReversalEntryID:   d.ReversalEntryID,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	var interval *domain.RecurringInterval
	if m.RecurringInterval != nil {
		i := domain.RecurringInterval(*m.RecurringInterval)
		interval = &i
	}
	return domain.JournalEntry{
		JournalEntryID:    m.JournalEntryID,
		EntryNumber:       m.EntryNumber,
		EntryDate:         m.EntryDate,
		FinancialYearID:   m.FinancialYearID,
		Reference:         m.Reference,
		ReferenceType:     m.ReferenceType,
		Description:       m.Description,
		TotalDebit:        m.TotalDebit,
		TotalCredit:       m.TotalCredit,
		Status:            domain.JournalEntryStatus(m.Status),
		IsRecurring:       m.IsRecurring,
		RecurringInterval: interval,
		NextRecurringDate: m.NextRecurringDate,
		ApprovedBy:        m.ApprovedBy,
		ApprovedAt:        m.ApprovedAt,
		ReversedBy:        m.ReversedBy,
		ReversedAt:        m.ReversedAt,
		ReversalEntryID:   m.ReversalEntryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func toDomainJournalItem(m models.JournalEntryItem) domain.JournalEntryItem {
	return domain.JournalEntryItem{
		ItemID:         m.ItemID,
		JournalEntryID: m.JournalEntryID,
		AccountID:      m.AccountID,
		Description:    m.Description,
		DebitAmount:    m.DebitAmount,
		CreditAmount:   m.CreditAmount,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanJournalEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.JournalEntryID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.FinancialYearID,
		&m.Reference,
		&m.ReferenceType,
		&m.Description,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.Status,
		&m.IsRecurring,
		&m.RecurringInterval,
		&m.NextRecurringDate,
		&m.ApprovedBy,
		&m.ApprovedAt,
		&m.ReversedBy,
		&m.ReversedAt,
		&m.ReversalEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanJournalItem(row pgx.Row) (models.JournalEntryItem, error) {
	var m models.JournalEntryItem
	err := row.Scan(
		&m.ItemID,
		&m.JournalEntryID,
		&m.AccountID,
		&m.Description,
		&m.DebitAmount,
		&m.CreditAmount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// mintEntryNumberInTx allocates the next JE-YYYYMM-NNNN number for the
// entry date's month. The sequence row is upserted and incremented inside
// the caller's transaction, so two concurrent mints for the same month
// serialize on the row lock and never hand out the same number.
func mintEntryNumberInTx(ctx context.Context, tx pgx.Tx, entryDate time.Time) (string, error) {
	monthKey := entryDate.Format("200601")

	query := `
		INSERT INTO journal_sequences (month_key, next_seq)
		VALUES ($1, 1)
		ON CONFLICT (month_key) DO UPDATE SET next_seq = journal_sequences.next_seq + 1
		RETURNING next_seq;
	`
	var seq int64
	if err := tx.QueryRow(ctx, query, monthKey).Scan(&seq); err != nil {
		return "", fmt.Errorf("failed to mint entry number for month %s: %w", monthKey, err)
	}
	return "JE-" + monthKey + "-" + fmt.Sprintf("%04d", seq), nil
}

func insertEntryInTx(ctx context.Context, tx pgx.Tx, m models.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (` + journalEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
	`
	_, err := tx.Exec(ctx, query,
		m.JournalEntryID,
		m.EntryNumber,
		m.EntryDate,
		m.FinancialYearID,
		m.Reference,
		m.ReferenceType,
		m.Description,
		m.TotalDebit,
		m.TotalCredit,
		m.Status,
		m.IsRecurring,
		m.RecurringInterval,
		m.NextRecurringDate,
		m.ApprovedBy,
		m.ApprovedAt,
		m.ReversedBy,
		m.ReversedAt,
		m.ReversalEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Entry number collision lost to a concurrent writer; the
			// service retries with a freshly minted number.
			return fmt.Errorf("%w: entry number %s taken concurrently", apperrors.ErrConflict, m.EntryNumber)
		}
		return fmt.Errorf("failed to insert journal entry %s: %w", m.JournalEntryID, err)
	}
	return nil
}

func insertItemsInTx(ctx context.Context, tx pgx.Tx, items []domain.JournalEntryItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO journal_entry_items (` + journalItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query,
			item.ItemID,
			item.JournalEntryID,
			item.AccountID,
			item.Description,
			item.DebitAmount,
			item.CreditAmount,
			item.CreatedAt,
			item.CreatedBy,
			item.LastUpdatedAt,
			item.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert journal entry item %s: %w", items[i].ItemID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close item insert batch: %w", err)
	}
	return batchErr
}

// SaveDraftEntry persists a DRAFT entry and its items in one transaction,
// minting the entry number from the per-month sequence.
func (r *PgxJournalRepository) SaveDraftEntry(ctx context.Context, entry domain.JournalEntry, items []domain.JournalEntryItem) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	entry.EntryNumber, err = mintEntryNumberInTx(ctx, tx, entry.EntryDate)
	if err != nil {
		return nil, err
	}

	if err := insertEntryInTx(ctx, tx, toModelJournalEntry(entry)); err != nil {
		return nil, err
	}
	if err := insertItemsInTx(ctx, tx, items); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateDraftEntry patches a DRAFT entry's header and optionally replaces
// its items. The update is guarded on status so an entry posted by a
// concurrent caller cannot be edited underneath them.
func (r *PgxJournalRepository) UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry, items []domain.JournalEntryItem) error {
	m := toModelJournalEntry(entry)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE journal_entries
		SET entry_date = $2, description = $3, reference = $4, reference_type = $5,
		    total_debit = $6, total_credit = $7, is_recurring = $8, recurring_interval = $9,
		    next_recurring_date = $10, last_updated_at = $11, last_updated_by = $12
		WHERE journal_entry_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.JournalEntryID,
		m.EntryDate,
		m.Description,
		m.Reference,
		m.ReferenceType,
		m.TotalDebit,
		m.TotalCredit,
		m.IsRecurring,
		m.RecurringInterval,
		m.NextRecurringDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update draft entry %s: %w", m.JournalEntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyGuardMiss(ctx, m.JournalEntryID)
	}

	if items != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_items WHERE journal_entry_id = $1;`, m.JournalEntryID); err != nil {
			return fmt.Errorf("failed to clear items of entry %s: %w", m.JournalEntryID, err)
		}
		if err := insertItemsInTx(ctx, tx, items); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// PostEntry transitions a DRAFT entry to POSTED and applies the balance
// deltas as atomic increments in the same transaction. The update is
// guarded on status and on last_updated_at: the deltas were computed from
// the items as read at expectedVersion, and a draft edit between that read
// and this write bumps last_updated_at, so the stale deltas miss the guard
// instead of being applied over replaced items.
func (r *PgxJournalRepository) PostEntry(ctx context.Context, journalEntryID string, expectedVersion time.Time, balanceChanges map[string]decimal.Decimal, approvedBy string, approvedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE journal_entries
		SET status = 'POSTED', approved_by = $2, approved_at = $3, last_updated_at = $3, last_updated_by = $2
		WHERE journal_entry_id = $1 AND status = 'DRAFT' AND last_updated_at = $4;
	`
	cmdTag, err := tx.Exec(ctx, query, journalEntryID, approvedBy, approvedAt, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to post entry %s: %w", journalEntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyGuardMiss(ctx, journalEntryID)
	}

	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID := range balanceChanges {
		accountIDs = append(accountIDs, accountID)
	}
	if err := lockAccountsInTx(ctx, tx, accountIDs); err != nil {
		return err
	}
	if err := applyBalanceChangesInTx(ctx, tx, balanceChanges, approvedBy, approvedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// ReverseEntry marks the original entry REVERSED, persists the POSTED
// reversal entry with its mirrored items and applies the reversal's balance
// deltas, all in one transaction. As in PostEntry, the guard covers both
// status and last_updated_at so the mirrored items always match what the
// original held when the caller read it.
func (r *PgxJournalRepository) ReverseEntry(ctx context.Context, originalEntryID string, expectedVersion time.Time, reversal domain.JournalEntry, items []domain.JournalEntryItem, balanceChanges map[string]decimal.Decimal, reversedBy string, reversedAt time.Time) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE journal_entries
		SET status = 'REVERSED', reversed_by = $2, reversed_at = $3, reversal_entry_id = $4,
		    last_updated_at = $3, last_updated_by = $2
		WHERE journal_entry_id = $1 AND status = 'POSTED' AND last_updated_at = $5;
	`
	cmdTag, err := tx.Exec(ctx, query, originalEntryID, reversedBy, reversedAt, reversal.JournalEntryID, expectedVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to mark entry %s reversed: %w", originalEntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, r.classifyGuardMiss(ctx, originalEntryID)
	}

	reversal.EntryNumber, err = mintEntryNumberInTx(ctx, tx, reversal.EntryDate)
	if err != nil {
		return nil, err
	}
	if err := insertEntryInTx(ctx, tx, toModelJournalEntry(reversal)); err != nil {
		return nil, err
	}
	if err := insertItemsInTx(ctx, tx, items); err != nil {
		return nil, err
	}

	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID := range balanceChanges {
		accountIDs = append(accountIDs, accountID)
	}
	if err := lockAccountsInTx(ctx, tx, accountIDs); err != nil {
		return nil, err
	}
	if err := applyBalanceChangesInTx(ctx, tx, balanceChanges, reversedBy, reversedAt); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &reversal, nil
}

// classifyGuardMiss distinguishes a missing row from a lost race after a
// guarded update touched zero rows. The race may be a status change or,
// for the version-guarded writes, a concurrent draft edit that bumped
// last_updated_at while the status still matched.
func (r *PgxJournalRepository) classifyGuardMiss(ctx context.Context, journalEntryID string) error {
	var status string
	err := r.Pool.QueryRow(ctx, `SELECT status FROM journal_entries WHERE journal_entry_id = $1;`, journalEntryID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to check status of entry %s: %w", journalEntryID, err)
	}
	return fmt.Errorf("%w: entry %s changed concurrently (status %s)", apperrors.ErrConflict, journalEntryID, status)
}

// FindEntryByID retrieves a journal entry with its items.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalEntryColumns + ` FROM journal_entries WHERE journal_entry_id = $1;`

	m, err := scanJournalEntry(r.Pool.QueryRow(ctx, query, journalEntryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", journalEntryID, err)
	}

	entry := toDomainJournalEntry(m)
	entry.Items, err = r.FindItemsByEntryID(ctx, journalEntryID)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindItemsByEntryID retrieves the items of a journal entry.
func (r *PgxJournalRepository) FindItemsByEntryID(ctx context.Context, journalEntryID string) ([]domain.JournalEntryItem, error) {
	query := `
		SELECT ` + journalItemColumns + `
		FROM journal_entry_items
		WHERE journal_entry_id = $1
		ORDER BY created_at, item_id;
	`
	rows, err := r.Pool.Query(ctx, query, journalEntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items of entry %s: %w", journalEntryID, err)
	}
	defer rows.Close()

	items := []domain.JournalEntryItem{}
	for rows.Next() {
		m, err := scanJournalItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal item row: %w", err)
		}
		items = append(items, toDomainJournalItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal item rows: %w", err)
	}
	return items, nil
}

// ListEntries retrieves a filtered page of entries (without items) plus the
// total row count for the filter.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, filter portsrepo.JournalEntryFilter, limit int, offset int) ([]domain.JournalEntry, int, error) {
	where := ""
	args := []any{}
	addClause := func(clause string, value any) {
		args = append(args, value)
		cond := clause + " $" + strconv.Itoa(len(args))
		if where == "" {
			where = "WHERE " + cond
		} else {
			where += " AND " + cond
		}
	}

	if filter.FinancialYearID != nil {
		addClause("financial_year_id =", *filter.FinancialYearID)
	}
	if filter.Status != nil {
		addClause("status =", string(*filter.Status))
	}
	if filter.Reference != nil {
		addClause("reference =", *filter.Reference)
	}
	if filter.ReferenceType != nil {
		addClause("reference_type =", *filter.ReferenceType)
	}
	if filter.DateFrom != nil {
		addClause("entry_date >=", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		addClause("entry_date <=", *filter.DateTo)
	}
	if filter.AccountID != nil {
		addClause("EXISTS (SELECT 1 FROM journal_entry_items i WHERE i.journal_entry_id = journal_entries.journal_entry_id AND i.account_id =", *filter.AccountID)
		where += ")"
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM journal_entries ` + where + `;`
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count journal entries: %w", err)
	}

	pageArgs := append(args, limit, offset)
	query := `
		SELECT ` + journalEntryColumns + `
		FROM journal_entries ` + where + `
		ORDER BY entry_date DESC, entry_number DESC
		LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2) + `;
	`
	rows, err := r.Pool.Query(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		m, err := scanJournalEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, toDomainJournalEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating journal entry rows: %w", err)
	}

	return entries, total, nil
}
