package relayerdb

import (
	"context"
	"log"

	"github.com/chainsafe/htlc-relayer/pkg/db"
	mghelper "github.com/chainsafe/htlc-relayer/pkg/pgutil/migrations"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, bdb *bun.DB) error {
		log.Println("creating chain_state table...")
		return mghelper.CreateSchema(ctx, bdb, &db.ChainStateDao{})
	}, func(ctx context.Context, bdb *bun.DB) error {
		log.Println("dropping chain_state table...")
		return mghelper.DropTables(ctx, bdb, &db.ChainStateDao{})
	})
}
