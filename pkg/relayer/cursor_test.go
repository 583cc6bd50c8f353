package relayer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/chainsafe/htlc-relayer/pkg/relayer"
	"github.com/chainsafe/htlc-relayer/pkg/relayer/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLoadScanCursor(t *testing.T) {
	tests := []struct {
		name       string
		stored     int64
		found      bool
		startBlock int64
		want       int64
	}{
		{name: "nothing stored", found: false, startBlock: 0, want: -1},
		{name: "nothing stored with start block", found: false, startBlock: 500, want: 499},
		{name: "stored value wins", stored: 42, found: true, startBlock: 500, want: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewCursorStore(t)
			store.On("LoadCursor", mock.Anything, "key").Return(tt.stored, tt.found, nil)

			cursor, err := relayer.LoadScanCursor(context.Background(), store, "key", tt.startBlock)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cursor.LastBlockChecked())
			assert.Equal(t, "key", cursor.Key())
		})
	}
}

func TestLoadScanCursor_StoreError(t *testing.T) {
	store := mocks.NewCursorStore(t)
	store.On("LoadCursor", mock.Anything, "key").Return(int64(0), false, errors.New("db down"))

	_, err := relayer.LoadScanCursor(context.Background(), store, "key", 0)
	assert.Error(t, err)
}

func TestScanCursor_Advance(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewCursorStore(t)
	store.On("LoadCursor", mock.Anything, "key").Return(int64(10), true, nil)
	store.On("SaveCursor", mock.Anything, "key", int64(20)).Return(nil).Once()

	cursor, err := relayer.LoadScanCursor(ctx, store, "key", 0)
	require.NoError(t, err)

	require.NoError(t, cursor.Advance(ctx, 20))
	assert.Equal(t, int64(20), cursor.LastBlockChecked())

	// Equal position is a no-op and does not hit the store.
	require.NoError(t, cursor.Advance(ctx, 20))

	err = cursor.Advance(ctx, 19)
	assert.ErrorIs(t, err, relayer.ErrCursorRegression)
	assert.Equal(t, int64(20), cursor.LastBlockChecked())
}

func TestScanCursor_SaveFailureKeepsPosition(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewCursorStore(t)
	store.On("LoadCursor", mock.Anything, "key").Return(int64(5), true, nil)
	store.On("SaveCursor", mock.Anything, "key", int64(9)).Return(errors.New("timeout"))

	cursor, err := relayer.LoadScanCursor(ctx, store, "key", 0)
	require.NoError(t, err)

	assert.Error(t, cursor.Advance(ctx, 9))
	assert.Equal(t, int64(5), cursor.LastBlockChecked())
}

func TestMemoryCursorStore(t *testing.T) {
	ctx := context.Background()
	store := relayer.NewMemoryCursorStore()

	_, found, err := store.LoadCursor(ctx, "a")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.SaveCursor(ctx, "a", 7))
	block, found, err := store.LoadCursor(ctx, "a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(7), block)
}
