package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"dealerhub/internal/adapters/dealersvc"
	"dealerhub/internal/adapters/observability"
	"dealerhub/internal/app"
	"dealerhub/internal/domain"
	"dealerhub/internal/shared"
	mysqlrepo "dealerhub/internal/storage/mysql"
)

// Seeds the local store: dealers from the dealer service (sample records when
// it is unreachable) and the fixed vehicle catalog.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.DealerSvcURL).
		Int("workers", cfg.Workers).
		Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	gateway := dealersvc.New(cfg.DealerSvcURL, cfg.RemoteRPS)

	dealers := gateway.ListDealers(ctx, "")
	log.Info().Int("count", len(dealers)).Msg("dealers fetched")

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, d := range dealers {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(dealer domain.Dealer) {
			defer wg.Done()
			defer sem.Release(1)

			if err := repo.UpsertDealer(ctx, dealer); err != nil {
				log.Warn().Int64("id", dealer.ID).Err(err).Msg("dealer upsert failed")
				return
			}
			log.Info().Int64("id", dealer.ID).Msg("dealer upserted")
		}(d)
	}

	wg.Wait()

	if err := app.SeedCatalog(ctx, repo); err != nil {
		log.Fatal().Err(err).Msg("catalog seed failed")
	}
	log.Info().Msg("seeding completed")
}
