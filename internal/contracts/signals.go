package contracts

import "time"

// RegimeCode classifies the broad market state a run was generated under.
type RegimeCode string

const (
	RegimeTrendUp   RegimeCode = "TREND_UP"
	RegimeTrendDown RegimeCode = "TREND_DOWN"
	RegimeRange     RegimeCode = "RANGE"
)

// Side is the trade direction of a signal.
type Side string

const (
	SideBuy Side = "BUY"
)

// SessionPreOpen tags runs generated from the pre-open snapshot.
const SessionPreOpen = "PREOPEN"

// SignalRun is the persisted header for one engine invocation.
// Write-once: a run is never updated after insert.
type SignalRun struct {
	RunID          string     `json:"run_id"`
	Date           time.Time  `json:"date"`
	BhavcopyDate   time.Time  `json:"bhavcopy_date"`
	Session        string     `json:"session"`
	RegimeCode     RegimeCode `json:"regime_code"`
	StrategiesUsed []string   `json:"strategies_used"`
	ParamsHash     string     `json:"params_hash"`
	CreatedAt      time.Time  `json:"created_at"`
}

// DataSources records which snapshots produced a signal. PreMarketDate is
// nil when the symbol was scored from bhavcopy fallbacks alone.
type DataSources struct {
	PreMarketDate *time.Time `json:"premarket_date"`
	BhavcopyDate  time.Time  `json:"bhavcopy_date"`
}

// Signal is one persisted trade candidate belonging to a SignalRun.
// Its lifetime is bound to the parent run.
type Signal struct {
	RunID         string      `json:"run_id"`
	Date          time.Time   `json:"date"`
	Symbol        string      `json:"symbol"`
	Strategy      string      `json:"strategy_name"`
	Side          Side        `json:"side"`
	Score         int         `json:"score"`
	EntryPrice    float64     `json:"entry_price"`
	StopLoss      float64     `json:"stop_loss"`
	TargetPrice   float64     `json:"target_price"`
	Confidence    float64     `json:"confidence_score"`
	Features      FeatureSet  `json:"feature_fields"`
	Sources       DataSources `json:"data_sources"`
	AIExplanation *string     `json:"ai_explanation"`
}

// RunResult is the externally observable outcome of one engine
// invocation. RunID is nil for the empty no-op case.
type RunResult struct {
	RunID        *string   `json:"run_id"`
	Date         time.Time `json:"date"`
	BhavcopyDate time.Time `json:"bhavcopy_date"`
	SignalCount  int       `json:"signal_count"`
	Signals      []Signal  `json:"signals"`
}
