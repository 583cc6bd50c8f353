package relayer

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrCursorRegression is returned when the cursor would move backwards.
var ErrCursorRegression = errors.New("scan cursor cannot move backwards")

// CursorStore persists the scan cursor between restarts.
//
//go:generate mockery --name CursorStore --output mocks --outpkg mocks --filename mock_cursor_store.go
type CursorStore interface {
	// LoadCursor returns the stored block for key; found is false when nothing was stored yet.
	LoadCursor(ctx context.Context, key string) (block int64, found bool, err error)
	SaveCursor(ctx context.Context, key string, block int64) error
}

// ScanCursor is the highest destination block fully processed. -1 means
// nothing has been scanned and scanning resumes from block 0.
type ScanCursor struct {
	mu    sync.RWMutex
	key   string
	store CursorStore
	last  int64
}

// LoadScanCursor restores the cursor for key. Without a stored value the
// cursor starts just before startBlock.
func LoadScanCursor(ctx context.Context, store CursorStore, key string, startBlock int64) (*ScanCursor, error) {
	block, found, err := store.LoadCursor(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load cursor %s: %w", key, err)
	}
	if !found {
		block = startBlock - 1
	}
	if block < -1 {
		block = -1
	}

	return &ScanCursor{key: key, store: store, last: block}, nil
}

// Key returns the store key of the cursor.
func (c *ScanCursor) Key() string {
	return c.key
}

// LastBlockChecked returns the highest fully processed block.
func (c *ScanCursor) LastBlockChecked() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

// Advance moves the cursor to block. The store is written first, so a failed
// write leaves both the stored and the in-memory cursor unchanged.
func (c *ScanCursor) Advance(ctx context.Context, block int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if block < c.last {
		return fmt.Errorf("%w: %d -> %d", ErrCursorRegression, c.last, block)
	}
	if block == c.last {
		return nil
	}

	if err := c.store.SaveCursor(ctx, c.key, block); err != nil {
		return fmt.Errorf("failed to save cursor %s: %w", c.key, err)
	}
	c.last = block
	return nil
}
