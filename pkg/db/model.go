package db

import (
	"time"

	"github.com/chainsafe/htlc-relayer/pkg/transfer"
	"github.com/uptrace/bun"
)

// ChainStateDao maps the 'chain_state' table, one row per scan cursor.
type ChainStateDao struct {
	bun.BaseModel `bun:"table:chain_state,alias:cs"`
	CursorKey     string    `bun:"cursor_key,pk,type:varchar(255)"`
	LastBlock     int64     `bun:"last_block,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,notnull,nullzero,default:current_timestamp"`
}

// FinalizationDao maps the 'finalizations' table, the journal of finalize attempts.
type FinalizationDao struct {
	bun.BaseModel `bun:"table:finalizations,alias:f"`
	ID            string    `bun:"id,pk,type:uuid"`
	Commitment    string    `bun:"commitment,notnull,type:varchar(66)"`
	Preimage      string    `bun:"preimage,notnull,type:varchar(66)"`
	Outcome       string    `bun:"outcome,notnull,type:varchar(32)"`
	Reason        string    `bun:"reason,type:text"`
	TxHash        string    `bun:"tx_hash,nullzero,type:varchar(66)"`
	DestBlock     int64     `bun:"dest_block,notnull"`
	DestTxHash    string    `bun:"dest_tx_hash,notnull,type:varchar(66)"`
	CreatedAt     time.Time `bun:"created_at,notnull,nullzero,default:current_timestamp"`
}

func toFinalizationDao(f *transfer.Finalization) *FinalizationDao {
	return &FinalizationDao{
		ID:         f.ID,
		Commitment: f.Commitment.Hex(),
		Preimage:   f.Preimage.Hex(),
		Outcome:    f.Outcome,
		Reason:     f.Reason,
		TxHash:     f.TxHash,
		DestBlock:  int64(f.DestBlock),
		DestTxHash: f.DestTxHash,
		CreatedAt:  f.CreatedAt,
	}
}

func fromFinalizationDao(d *FinalizationDao) (*transfer.Finalization, error) {
	commitment, err := transfer.CommitmentFromHex(d.Commitment)
	if err != nil {
		return nil, err
	}
	preimage, err := transfer.PreimageFromHex(d.Preimage)
	if err != nil {
		return nil, err
	}
	return &transfer.Finalization{
		ID:         d.ID,
		Commitment: commitment,
		Preimage:   preimage,
		Outcome:    d.Outcome,
		Reason:     d.Reason,
		TxHash:     d.TxHash,
		DestBlock:  uint64(d.DestBlock),
		DestTxHash: d.DestTxHash,
		CreatedAt:  d.CreatedAt,
	}, nil
}
