// Package db is the postgres persistence of the relayer: the scan cursor and
// the finalization journal.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chainsafe/htlc-relayer/pkg/transfer"
	"github.com/uptrace/bun"
)

// MaxListLimit bounds ListFinalizations.
const MaxListLimit = 500

// Store is the bun-backed cursor store and finalization journal.
type Store struct {
	db *bun.DB
}

// NewStore creates a new postgres store
func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

// LoadCursor returns the stored cursor for key.
func (s *Store) LoadCursor(ctx context.Context, key string) (int64, bool, error) {
	dao := new(ChainStateDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("cursor_key = ?", key).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to load cursor: %w", err)
	}
	return dao.LastBlock, true, nil
}

// SaveCursor upserts the cursor for key.
func (s *Store) SaveCursor(ctx context.Context, key string, block int64) error {
	dao := &ChainStateDao{
		CursorKey: key,
		LastBlock: block,
		UpdatedAt: time.Now().UTC(),
	}

	_, err := s.db.NewInsert().
		Model(dao).
		On("CONFLICT (cursor_key) DO UPDATE").
		Set("last_block = EXCLUDED.last_block").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save cursor: %w", err)
	}
	return nil
}

// RecordFinalization appends one finalize attempt to the journal.
func (s *Store) RecordFinalization(ctx context.Context, rec *transfer.Finalization) error {
	_, err := s.db.NewInsert().
		Model(toFinalizationDao(rec)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to record finalization: %w", err)
	}
	return nil
}

// ListFinalizations returns the most recent journal entries, newest first.
func (s *Store) ListFinalizations(ctx context.Context, limit int) ([]*transfer.Finalization, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}

	var daos []*FinalizationDao
	err := s.db.NewSelect().
		Model(&daos).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list finalizations: %w", err)
	}
	return fromFinalizationDaos(daos)
}

// GetFinalizationsByCommitment returns every journal entry for commitment, oldest first.
func (s *Store) GetFinalizationsByCommitment(ctx context.Context, commitment transfer.Commitment) ([]*transfer.Finalization, error) {
	var daos []*FinalizationDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("commitment = ?", commitment.Hex()).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get finalizations for %s: %w", commitment.Hex(), err)
	}
	return fromFinalizationDaos(daos)
}

func fromFinalizationDaos(daos []*FinalizationDao) ([]*transfer.Finalization, error) {
	out := make([]*transfer.Finalization, 0, len(daos))
	for _, d := range daos {
		f, err := fromFinalizationDao(d)
		if err != nil {
			return nil, fmt.Errorf("corrupt finalization %s: %w", d.ID, err)
		}
		out = append(out, f)
	}
	return out, nil
}
