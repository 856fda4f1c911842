package commands

import (
	"fmt"

	"github.com/riasnelli/nse-market-mood-sub000/internal/contracts"
	"github.com/riasnelli/nse-market-mood-sub000/internal/engine"
	"github.com/riasnelli/nse-market-mood-sub000/internal/store"
	"github.com/riasnelli/nse-market-mood-sub000/pkg/config"
	"github.com/riasnelli/nse-market-mood-sub000/pkg/database"
	"github.com/riasnelli/nse-market-mood-sub000/pkg/logger"
	"github.com/riasnelli/nse-market-mood-sub000/pkg/redis"
)

// app bundles the wired dependencies shared by the subcommands.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	db        *database.DB
	rdb       *redis.Client
	runs      *store.RunRepository
	generator *engine.Generator
}

// newApp loads config and wires the engine with its repositories.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	rdb, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	preMarketRepo := store.NewPreMarketRepository(db.Pool)
	bhavcopyRepo := store.NewBhavcopyRepository(db.Pool)
	runRepo := store.NewRunRepository(db.Pool)

	// Operational overrides from env; the rest of the params are the
	// strategy constants.
	params := engine.DefaultParams()
	params.ScoreThreshold = cfg.Engine.ScoreThreshold
	params.TopN = cfg.Engine.TopN

	regime := engine.NewStaticRegimeClassifier(contracts.RegimeRange)

	generator := engine.NewGenerator(preMarketRepo, bhavcopyRepo, runRepo, regime, params, log)

	return &app{
		cfg:       cfg,
		log:       log,
		db:        db,
		rdb:       rdb,
		runs:      runRepo,
		generator: generator,
	}, nil
}

// close releases the app's connections.
func (a *app) close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
