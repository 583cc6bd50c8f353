package relayerdb

import (
	"context"
	"log"

	"github.com/chainsafe/htlc-relayer/pkg/db"
	mghelper "github.com/chainsafe/htlc-relayer/pkg/pgutil/migrations"

	"github.com/uptrace/bun"
)

var finalizationIndexes = []string{"commitment", "created_at"}

func init() {
	Migrations.MustRegister(func(ctx context.Context, bdb *bun.DB) error {
		log.Println("creating finalizations table...")
		if err := mghelper.CreateSchema(ctx, bdb, &db.FinalizationDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, bdb, &db.FinalizationDao{}, finalizationIndexes...)
	}, func(ctx context.Context, bdb *bun.DB) error {
		log.Println("dropping finalizations table...")
		if err := mghelper.DropModelIndexes(ctx, bdb, &db.FinalizationDao{}, finalizationIndexes...); err != nil {
			return err
		}
		return mghelper.DropTables(ctx, bdb, &db.FinalizationDao{})
	})
}
