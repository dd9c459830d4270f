package services

import (
	"context"

	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	"github.com/medantrix/hms_accounting_app/internal/dto"
)

// JournalSvcFacade defines the journal entry engine: the DRAFT -> POSTED ->
// REVERSED state machine plus read access. The actor is always threaded in
// explicitly; services never read an ambient user.
type JournalSvcFacade interface {
	// CreateEntry validates and persists a new DRAFT entry with its items.
	CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, actorUserID string) (*domain.JournalEntry, error)

	// UpdateEntry patches a DRAFT entry; POSTED/REVERSED entries reject any
	// item mutation.
	UpdateEntry(ctx context.Context, journalEntryID string, req dto.UpdateJournalEntryRequest, actorUserID string) (*domain.JournalEntry, error)

	// PostEntry transitions DRAFT -> POSTED and applies balance deltas.
	PostEntry(ctx context.Context, journalEntryID string, actorUserID string) (*domain.JournalEntry, error)

	// ReverseEntry creates and posts the inverse entry and marks the
	// original REVERSED. Returns (original, reversal).
	ReverseEntry(ctx context.Context, journalEntryID string, reason string, actorUserID string) (*domain.JournalEntry, *domain.JournalEntry, error)

	GetEntryByID(ctx context.Context, journalEntryID string) (*dto.JournalEntryResponse, error)
	ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}
