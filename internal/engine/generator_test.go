package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riasnelli/nse-market-mood-sub000/internal/contracts"
	"github.com/riasnelli/nse-market-mood-sub000/pkg/logger"
)

type fakePreMarketRepo struct {
	records []contracts.PreMarketRecord
	err     error
}

func (f *fakePreMarketRepo) FindByDate(ctx context.Context, date time.Time) ([]contracts.PreMarketRecord, error) {
	return f.records, f.err
}

func (f *fakePreMarketRepo) SaveBatch(ctx context.Context, records []contracts.PreMarketRecord) error {
	return nil
}

type fakeBhavcopyRepo struct {
	records []contracts.BhavcopyRecord
	err     error
}

func (f *fakeBhavcopyRepo) FindByDate(ctx context.Context, date time.Time) ([]contracts.BhavcopyRecord, error) {
	return f.records, f.err
}

func (f *fakeBhavcopyRepo) SaveBatch(ctx context.Context, records []contracts.BhavcopyRecord) error {
	return nil
}

type fakeRunRepo struct {
	runs        []*contracts.SignalRun
	signals     []contracts.Signal
	failRun     error
	failSignals error
}

func (f *fakeRunRepo) InsertRun(ctx context.Context, run *contracts.SignalRun) error {
	if f.failRun != nil {
		return f.failRun
	}
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeRunRepo) InsertSignals(ctx context.Context, signals []contracts.Signal) error {
	if f.failSignals != nil {
		return f.failSignals
	}
	f.signals = append(f.signals, signals...)
	return nil
}

func (f *fakeRunRepo) GetRunByID(ctx context.Context, runID string) (*contracts.SignalRun, error) {
	for _, run := range f.runs {
		if run.RunID == runID {
			return run, nil
		}
	}
	return nil, nil
}

func (f *fakeRunRepo) GetLatestRun(ctx context.Context) (*contracts.SignalRun, error) {
	if len(f.runs) == 0 {
		return nil, nil
	}
	return f.runs[len(f.runs)-1], nil
}

func (f *fakeRunRepo) GetSignalsByRunID(ctx context.Context, runID string) ([]contracts.Signal, error) {
	out := make([]contracts.Signal, 0)
	for _, sig := range f.signals {
		if sig.RunID == runID {
			out = append(out, sig)
		}
	}
	return out, nil
}

func newTestGenerator(pm *fakePreMarketRepo, eod *fakeBhavcopyRepo, runs *fakeRunRepo) *Generator {
	return NewGenerator(
		pm, eod, runs,
		NewStaticRegimeClassifier(contracts.RegimeRange),
		DefaultParams(),
		logger.NewNop(),
	)
}

// perfectPreMarket scores 100 when joined with perfectBhavcopy.
func perfectPreMarket(symbol string, date time.Time) contracts.PreMarketRecord {
	return contracts.PreMarketRecord{
		Symbol:       symbol,
		Date:         date,
		GapPercent:   f64(1.5),
		VolSurge:     f64(2.0),
		NearHigh:     boolPtr(true),
		Liquidity:    bucketPtr(contracts.LiquidityHigh),
		PreOpenPrice: f64(100),
	}
}

func perfectBhavcopy(symbol string, date time.Time) contracts.BhavcopyRecord {
	return contracts.BhavcopyRecord{
		Symbol:    symbol,
		Date:      date,
		Open:      f64(96),
		Close:     100,
		PrevClose: 95,
		Volume:    2_000_000,
		AvgVol20:  f64(1_000_000),
		ATR20:     f64(3),
		High52W:   f64(97),
		RS20:      f64(4),
	}
}

// thresholdBhavcopy scores exactly 60 with the given volume at
// 1,250,000 and exactly 59 at 1,200,000 (the surge partial band).
func thresholdBhavcopy(symbol string, date time.Time, volume int64) contracts.BhavcopyRecord {
	return contracts.BhavcopyRecord{
		Symbol:    symbol,
		Date:      date,
		Open:      f64(100),
		Close:     100,
		PrevClose: 100,
		Volume:    volume,
		AvgVol20:  f64(1_000_000),
		ATR20:     f64(3),
		High52W:   f64(100),
		RS20:      f64(4),
	}
}

// weakBhavcopy scores 0.
func weakBhavcopy(symbol string, date time.Time) contracts.BhavcopyRecord {
	return contracts.BhavcopyRecord{
		Symbol:    symbol,
		Date:      date,
		Open:      f64(100),
		Close:     100,
		PrevClose: 100,
		Volume:    100,
	}
}

func TestGenerator_NoReferenceDataIsFatal(t *testing.T) {
	date := testDate()
	runs := &fakeRunRepo{}
	g := newTestGenerator(
		&fakePreMarketRepo{records: []contracts.PreMarketRecord{perfectPreMarket("INFY", date)}},
		&fakeBhavcopyRepo{records: nil},
		runs,
	)

	result, err := g.Generate(context.Background(), date)

	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrNoReferenceData))
	assert.Nil(t, result)
	assert.Empty(t, runs.runs, "no run may be persisted on abort")
	assert.Empty(t, runs.signals)
}

func TestGenerator_BhavcopyOnlyFallbackPath(t *testing.T) {
	date := testDate()
	priorDay := PriorTradingDay(date)
	runs := &fakeRunRepo{}
	g := newTestGenerator(
		&fakePreMarketRepo{},
		&fakeBhavcopyRepo{records: []contracts.BhavcopyRecord{
			thresholdBhavcopy("INFY", priorDay, 1_250_000),
		}},
		runs,
	)

	result, err := g.Generate(context.Background(), date)

	require.NoError(t, err)
	require.Equal(t, 1, result.SignalCount)

	sig := result.Signals[0]
	assert.Equal(t, "INFY", sig.Symbol)
	assert.Equal(t, 60, sig.Score)
	assert.Nil(t, sig.Sources.PreMarketDate)
	assert.Equal(t, priorDay, sig.Sources.BhavcopyDate)
}

func TestGenerator_BothSourcesJoined(t *testing.T) {
	date := testDate()
	priorDay := PriorTradingDay(date)
	runs := &fakeRunRepo{}
	g := newTestGenerator(
		&fakePreMarketRepo{records: []contracts.PreMarketRecord{perfectPreMarket("RELIANCE", date)}},
		&fakeBhavcopyRepo{records: []contracts.BhavcopyRecord{perfectBhavcopy("RELIANCE", priorDay)}},
		runs,
	)

	result, err := g.Generate(context.Background(), date)

	require.NoError(t, err)
	require.NotNil(t, result.RunID)
	require.Equal(t, 1, result.SignalCount)

	sig := result.Signals[0]
	assert.Equal(t, 100, sig.Score)
	assert.Equal(t, contracts.SideBuy, sig.Side)
	assert.Equal(t, StrategyName, sig.Strategy)
	assert.Equal(t, 100.0, sig.EntryPrice)
	assert.Equal(t, 95.5, sig.StopLoss)
	assert.Equal(t, 107.5, sig.TargetPrice)
	require.NotNil(t, sig.Sources.PreMarketDate)
	assert.Equal(t, date, *sig.Sources.PreMarketDate)
	assert.Equal(t, *result.RunID, sig.RunID)

	// Run header fields.
	require.Len(t, runs.runs, 1)
	run := runs.runs[0]
	assert.Equal(t, contracts.SessionPreOpen, run.Session)
	assert.Equal(t, contracts.RegimeRange, run.RegimeCode)
	assert.Equal(t, []string{StrategyName}, run.StrategiesUsed)
	assert.Equal(t, DefaultParams().Hash(), run.ParamsHash)
	assert.Equal(t, date, run.Date)
	assert.Equal(t, priorDay, run.BhavcopyDate)
}

func TestGenerator_SymbolScoredOnce(t *testing.T) {
	date := testDate()
	priorDay := PriorTradingDay(date)
	runs := &fakeRunRepo{}

	// The bhavcopy record alone would also clear the threshold; the
	// symbol must still yield exactly one signal, from the joined pass.
	g := newTestGenerator(
		&fakePreMarketRepo{records: []contracts.PreMarketRecord{perfectPreMarket("HDFC", date)}},
		&fakeBhavcopyRepo{records: []contracts.BhavcopyRecord{
			thresholdBhavcopy("HDFC", priorDay, 1_250_000),
		}},
		runs,
	)

	result, err := g.Generate(context.Background(), date)

	require.NoError(t, err)
	require.Equal(t, 1, result.SignalCount)
	assert.NotNil(t, result.Signals[0].Sources.PreMarketDate)
}

func TestGenerator_ThresholdBoundary(t *testing.T) {
	date := testDate()
	priorDay := PriorTradingDay(date)
	runs := &fakeRunRepo{}
	g := newTestGenerator(
		&fakePreMarketRepo{},
		&fakeBhavcopyRepo{records: []contracts.BhavcopyRecord{
			thresholdBhavcopy("ATSIXTY", priorDay, 1_250_000),  // scores 60
			thresholdBhavcopy("BELOWCUT", priorDay, 1_200_000), // scores 59
		}},
		runs,
	)

	result, err := g.Generate(context.Background(), date)

	require.NoError(t, err)
	require.Equal(t, 1, result.SignalCount)
	assert.Equal(t, "ATSIXTY", result.Signals[0].Symbol)
	assert.Equal(t, 60, result.Signals[0].Score)
}

func TestGenerator_TopTenStableTruncation(t *testing.T) {
	date := testDate()
	priorDay := PriorTradingDay(date)
	runs := &fakeRunRepo{}

	// Twelve symbols all scoring 100: the stable sort must keep source
	// order, so exactly the first ten survive.
	var pms []contracts.PreMarketRecord
	var eods []contracts.BhavcopyRecord
	for i := 0; i < 12; i++ {
		symbol := fmt.Sprintf("SYM%02d", i)
		pms = append(pms, perfectPreMarket(symbol, date))
		eods = append(eods, perfectBhavcopy(symbol, priorDay))
	}

	g := newTestGenerator(
		&fakePreMarketRepo{records: pms},
		&fakeBhavcopyRepo{records: eods},
		runs,
	)

	result, err := g.Generate(context.Background(), date)

	require.NoError(t, err)
	assert.Equal(t, 10, result.SignalCount)
	require.Len(t, result.Signals, 10)
	for i, sig := range result.Signals {
		assert.Equal(t, fmt.Sprintf("SYM%02d", i), sig.Symbol)
	}
	assert.Len(t, runs.signals, 10)
}

func TestGenerator_EmptyResultIsNoOp(t *testing.T) {
	date := testDate()
	priorDay := PriorTradingDay(date)
	runs := &fakeRunRepo{}
	g := newTestGenerator(
		&fakePreMarketRepo{},
		&fakeBhavcopyRepo{records: []contracts.BhavcopyRecord{weakBhavcopy("DUD", priorDay)}},
		runs,
	)

	result, err := g.Generate(context.Background(), date)

	require.NoError(t, err)
	assert.Nil(t, result.RunID)
	assert.Equal(t, 0, result.SignalCount)
	assert.Empty(t, runs.runs, "no-op result must not persist a run")
	assert.Empty(t, runs.signals)
}

func TestGenerator_UnusableBhavcopySkipped(t *testing.T) {
	date := testDate()
	priorDay := PriorTradingDay(date)
	runs := &fakeRunRepo{}

	bad := perfectBhavcopy("BADCLOSE", priorDay)
	bad.Close = 0

	g := newTestGenerator(
		&fakePreMarketRepo{records: []contracts.PreMarketRecord{perfectPreMarket("BADCLOSE", date)}},
		&fakeBhavcopyRepo{records: []contracts.BhavcopyRecord{bad}},
		runs,
	)

	result, err := g.Generate(context.Background(), date)

	require.NoError(t, err)
	assert.Nil(t, result.RunID)
	assert.Equal(t, 0, result.SignalCount)
}

func TestGenerator_RunInsertFailureAbortsSignals(t *testing.T) {
	date := testDate()
	priorDay := PriorTradingDay(date)
	runs := &fakeRunRepo{failRun: errors.New("connection reset")}
	g := newTestGenerator(
		&fakePreMarketRepo{records: []contracts.PreMarketRecord{perfectPreMarket("RELIANCE", date)}},
		&fakeBhavcopyRepo{records: []contracts.BhavcopyRecord{perfectBhavcopy("RELIANCE", priorDay)}},
		runs,
	)

	result, err := g.Generate(context.Background(), date)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Empty(t, runs.signals, "signals must not be written when the run header failed")
}

func TestGenerateRunID_Format(t *testing.T) {
	id := GenerateRunID()
	assert.Regexp(t, `^run_\d{8}_\d{6}_[0-9a-f]{4}$`, id)
}
