package engine

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/riasnelli/nse-market-mood-sub000/internal/contracts"
	"github.com/riasnelli/nse-market-mood-sub000/pkg/logger"
)

// Generator orchestrates one signal run: fetch both snapshots, join per
// symbol, score, rank, truncate and persist. One logical pipeline per
// invocation; safe to run concurrently for different target dates.
type Generator struct {
	preMarket contracts.PreMarketRepository
	bhavcopy  contracts.BhavcopyRepository
	runs      contracts.RunRepository
	regime    contracts.RegimeClassifier
	scorer    *Scorer
	params    StrategyParams
	logger    *logger.Logger
}

// NewGenerator creates a signal generator.
func NewGenerator(
	preMarket contracts.PreMarketRepository,
	bhavcopy contracts.BhavcopyRepository,
	runs contracts.RunRepository,
	regime contracts.RegimeClassifier,
	params StrategyParams,
	log *logger.Logger,
) *Generator {
	return &Generator{
		preMarket: preMarket,
		bhavcopy:  bhavcopy,
		runs:      runs,
		regime:    regime,
		scorer:    NewScorer(params),
		params:    params,
		logger:    log,
	}
}

// Generate runs the pipeline for targetDate. Missing pre-market data is
// survivable (bhavcopy fallbacks kick in); missing bhavcopy data for the
// prior trading day is fatal and nothing is persisted.
func (g *Generator) Generate(ctx context.Context, targetDate time.Time) (*contracts.RunResult, error) {
	priorDay := PriorTradingDay(targetDate)

	log := g.logger.WithFields(map[string]interface{}{
		"date":          targetDate.Format(contracts.DateFormat),
		"bhavcopy_date": priorDay.Format(contracts.DateFormat),
	})
	log.Info("Starting signal run")

	preMarketRecs, err := g.preMarket.FindByDate(ctx, targetDate)
	if err != nil {
		return nil, fmt.Errorf("fetch pre-market records: %w", err)
	}
	if len(preMarketRecs) == 0 {
		log.Warn("No pre-market records, scoring from bhavcopy fallbacks only")
	}

	bhavcopyRecs, err := g.bhavcopy.FindByDate(ctx, priorDay)
	if err != nil {
		return nil, fmt.Errorf("fetch bhavcopy records: %w", err)
	}
	if len(bhavcopyRecs) == 0 {
		return nil, fmt.Errorf("%w: %s", contracts.ErrNoReferenceData, priorDay.Format(contracts.DateFormat))
	}

	candidates := g.scoreUniverse(targetDate, priorDay, preMarketRecs, bhavcopyRecs)

	// Rank by score descending; ties keep source order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > g.params.TopN {
		candidates = candidates[:g.params.TopN]
	}

	result := &contracts.RunResult{
		Date:         targetDate,
		BhavcopyDate: priorDay,
		SignalCount:  len(candidates),
		Signals:      candidates,
	}

	// Zero survivors is a successful no-op, not an error.
	if len(candidates) == 0 {
		log.Info("No symbols cleared the score threshold, skipping persistence")
		return result, nil
	}

	run, err := g.persist(ctx, targetDate, priorDay, candidates)
	if err != nil {
		return nil, err
	}

	result.RunID = &run.RunID

	log.WithFields(map[string]interface{}{
		"run_id":       run.RunID,
		"signal_count": len(candidates),
		"top_symbol":   candidates[0].Symbol,
		"top_score":    candidates[0].Score,
	}).Info("Signal run completed")

	return result, nil
}

// scoreUniverse joins the two snapshots per symbol and scores every
// qualifying record once. Symbols present in both sets are scored from
// the merged features; the remaining bhavcopy-only symbols are scored
// through the fallback chains. A processed set keeps the two passes
// from scoring a symbol twice.
func (g *Generator) scoreUniverse(
	targetDate, priorDay time.Time,
	preMarketRecs []contracts.PreMarketRecord,
	bhavcopyRecs []contracts.BhavcopyRecord,
) []contracts.Signal {
	eodBySymbol := make(map[string]*contracts.BhavcopyRecord, len(bhavcopyRecs))
	for i := range bhavcopyRecs {
		eodBySymbol[bhavcopyRecs[i].Symbol] = &bhavcopyRecs[i]
	}

	processed := make(map[string]bool, len(preMarketRecs))
	candidates := make([]contracts.Signal, 0)

	// Pass 1: symbols with both a pre-market and a usable bhavcopy record.
	for i := range preMarketRecs {
		pm := &preMarketRecs[i]
		eod, ok := eodBySymbol[pm.Symbol]
		if !ok || !eod.Usable() {
			continue
		}

		processed[pm.Symbol] = true
		pmDate := targetDate
		g.appendIfQualified(&candidates, pm.Symbol, targetDate, ResolveFeatures(pm, eod), contracts.DataSources{
			PreMarketDate: &pmDate,
			BhavcopyDate:  priorDay,
		})
	}

	// Pass 2: bhavcopy-only symbols through the fallback branches.
	for i := range bhavcopyRecs {
		eod := &bhavcopyRecs[i]
		if processed[eod.Symbol] || !eod.Usable() {
			continue
		}

		g.appendIfQualified(&candidates, eod.Symbol, targetDate, ResolveFeatures(nil, eod), contracts.DataSources{
			PreMarketDate: nil,
			BhavcopyDate:  priorDay,
		})
	}

	return candidates
}

// appendIfQualified scores a feature set and keeps the signal when it
// clears the configured threshold.
func (g *Generator) appendIfQualified(
	candidates *[]contracts.Signal,
	symbol string,
	targetDate time.Time,
	features contracts.FeatureSet,
	sources contracts.DataSources,
) {
	res := g.scorer.Score(features)
	if res.Score < g.params.ScoreThreshold {
		return
	}

	*candidates = append(*candidates, contracts.Signal{
		Date:        targetDate,
		Symbol:      symbol,
		Strategy:    StrategyName,
		Side:        contracts.SideBuy,
		Score:       res.Score,
		EntryPrice:  res.EntryPrice,
		StopLoss:    res.StopLoss,
		TargetPrice: res.TargetPrice,
		Confidence:  res.Confidence,
		Features:    res.Features,
		Sources:     sources,
	})
}

// persist writes the run header first and the signal batch after, so a
// run is never observed without signals unless the process died between
// the two writes. Consumers treat a signal-less run as the no-op case.
func (g *Generator) persist(ctx context.Context, targetDate, priorDay time.Time, candidates []contracts.Signal) (*contracts.SignalRun, error) {
	regimeCode, err := g.regime.Classify(ctx, targetDate)
	if err != nil {
		return nil, fmt.Errorf("classify regime: %w", err)
	}

	run := &contracts.SignalRun{
		RunID:          GenerateRunID(),
		Date:           targetDate,
		BhavcopyDate:   priorDay,
		Session:        contracts.SessionPreOpen,
		RegimeCode:     regimeCode,
		StrategiesUsed: []string{StrategyName},
		ParamsHash:     g.params.Hash(),
		CreatedAt:      time.Now().UTC(),
	}

	if err := g.runs.InsertRun(ctx, run); err != nil {
		return nil, fmt.Errorf("insert signal run: %w", err)
	}

	for i := range candidates {
		candidates[i].RunID = run.RunID
	}

	if err := g.runs.InsertSignals(ctx, candidates); err != nil {
		return nil, fmt.Errorf("insert signals for run %s: %w", run.RunID, err)
	}

	return run, nil
}

// GenerateRunID generates a unique run ID. The random suffix keeps two
// runs started within the same second distinct.
func GenerateRunID() string {
	return fmt.Sprintf("run_%s_%04x", time.Now().UTC().Format("20060102_150405"), rand.IntN(0x10000))
}
