package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// StrategyName identifies the single strategy the engine currently runs.
const StrategyName = "momentum_gap_v1"

// StrategyParams are the scoring constants active for a run. The params
// hash persisted with each run is recomputed from these values, so any
// configuration change produces a new hash and past runs stay auditable.
type StrategyParams struct {
	GapOptimalPct   float64 `json:"gap_optimal_pct"`
	GapMinPct       float64 `json:"gap_min_pct"`
	GapMaxPct       float64 `json:"gap_max_pct"`
	RSFull          float64 `json:"rs_full"`
	RSMin           float64 `json:"rs_min"`
	VolSurgeFull    float64 `json:"vol_surge_full"`
	VolSurgeMin     float64 `json:"vol_surge_min"`
	NearHighPct     float64 `json:"near_high_pct"`
	ATRStopMult     float64 `json:"atr_stop_mult"`
	ATRTargetMult   float64 `json:"atr_target_mult"`
	ScoreThreshold  int     `json:"score_threshold"`
	TopN            int     `json:"top_n"`
}

// DefaultParams returns the production scoring constants.
func DefaultParams() StrategyParams {
	return StrategyParams{
		GapOptimalPct:  1.5,
		GapMinPct:      0.3,
		GapMaxPct:      3.0,
		RSFull:         4.0,
		RSMin:          2.0,
		VolSurgeFull:   1.5,
		VolSurgeMin:    1.0,
		NearHighPct:    0.98,
		ATRStopMult:    1.5,
		ATRTargetMult:  2.5,
		ScoreThreshold: 60,
		TopN:           10,
	}
}

// Hash returns a deterministic SHA-256 of the params. JSON field order
// follows struct declaration order, so equal params always hash equal.
func (p StrategyParams) Hash() string {
	data, _ := json.Marshal(p)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
