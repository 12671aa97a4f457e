package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/stratiq/diagnostic-cli/internal/benchmark"
	"github.com/stratiq/diagnostic-cli/internal/config"
	"github.com/stratiq/diagnostic-cli/internal/registry"
	"github.com/stratiq/diagnostic-cli/internal/report"
	"github.com/stratiq/diagnostic-cli/internal/scoring"
	"github.com/stratiq/diagnostic-cli/internal/store"
)

// pipelineEnv bundles the collaborators every command needs: the store plus
// the read-only registry, engine, comparator, and assembler.
type pipelineEnv struct {
	Store      store.Store
	Registry   *registry.Registry
	Engine     *scoring.Engine
	Comparator *benchmark.Comparator
	Assembler  *report.Assembler
}

// initPipeline opens the configured store, loads the registry data files,
// and wires the pipeline. Callers must Close when done.
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}

	reg, err := registry.Load(cfg.Registry.KPIDefinitions, cfg.Registry.PillarWeights)
	if err != nil {
		st.Close()
		return nil, err
	}

	comparator, err := benchmark.LoadComparator(cfg.Registry.Benchmarks)
	if err != nil {
		st.Close()
		return nil, err
	}

	engine := scoring.NewEngine(reg, scoring.Options{
		BHIMode:            scoring.BHIMode(cfg.Scoring.BHIMode),
		ScoreMissingInputs: cfg.Scoring.ScoreMissingInputs,
	})

	return &pipelineEnv{
		Store:      st,
		Registry:   reg,
		Engine:     engine,
		Comparator: comparator,
		Assembler:  report.NewAssembler(st, engine, comparator),
	}, nil
}

func (e *pipelineEnv) Close() {
	_ = e.Store.Close()
}

func openStore(ctx context.Context, sc config.StoreConfig) (store.Store, error) {
	switch sc.Driver {
	case "", "sqlite":
		return store.NewSQLite(sc.SQLitePath)
	case "postgres":
		if sc.DatabaseURL == "" {
			return nil, eris.New("store: postgres driver requires store.database_url")
		}
		return store.NewPostgres(ctx, sc.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", sc.Driver)
	}
}
