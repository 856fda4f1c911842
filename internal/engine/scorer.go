package engine

import (
	"math"

	"github.com/riasnelli/nse-market-mood-sub000/internal/contracts"
)

// Sub-score ceilings. The six terms sum to at most 100; there is no
// re-clamp, a perfect composite requires hitting every band.
const (
	maxGapScore        = 25.0
	maxRSScore         = 20.0
	maxVolScore        = 20.0
	nearHighBonus      = 15.0
	liquidityHigh      = 10.0
	liquidityMedium    = 5.0
	maxATRScore        = 10.0
	confidenceCriteria = 6
)

// ScoreResult is the scorer output for one feature set.
type ScoreResult struct {
	Score       int                  `json:"score"`
	EntryPrice  float64              `json:"entry_price"`
	StopLoss    float64              `json:"stop_loss"`
	TargetPrice float64              `json:"target_price"`
	Confidence  float64              `json:"confidence_score"`
	Features    contracts.FeatureSet `json:"features"`
}

// Scorer maps feature sets to composite scores and trade levels.
// Deterministic and pure: no I/O, no state beyond the bound params.
type Scorer struct {
	params StrategyParams
}

// NewScorer creates a scorer bound to the given strategy params.
func NewScorer(params StrategyParams) *Scorer {
	return &Scorer{params: params}
}

// Score computes the 0-100 composite, trade levels and confidence for a
// resolved feature set.
func (s *Scorer) Score(f contracts.FeatureSet) ScoreResult {
	total := s.gapScore(f.GapPercent) +
		s.rsScore(f.RS20) +
		s.volScore(f.VolSurge) +
		s.nearHighScore(f.NearHigh) +
		s.liquidityScore(f.Liquidity) +
		s.atrScore(f.ATR20, f.Close)

	entry := f.EntryAnchor
	stop := math.Max(0, entry-f.ATR20*s.params.ATRStopMult)
	target := entry + f.ATR20*s.params.ATRTargetMult

	return ScoreResult{
		Score:       int(math.Round(total)),
		EntryPrice:  round2(entry),
		StopLoss:    round2(stop),
		TargetPrice: round2(target),
		Confidence:  s.confidence(f),
		Features:    f,
	}
}

// gapScore rewards gaps near the optimal level, decaying 10 points per
// percentage point of distance inside the acceptable window. Gaps below
// the window earn partial credit; negative or oversized gaps earn none.
func (s *Scorer) gapScore(gap float64) float64 {
	p := s.params
	switch {
	case gap >= p.GapMinPct && gap <= p.GapMaxPct:
		return maxGapScore - math.Abs(gap-p.GapOptimalPct)*10
	case gap > 0 && gap < p.GapMinPct:
		return gap / p.GapMinPct * 10
	default:
		return 0
	}
}

// rsScore grants full credit at strong relative strength and scales
// linearly through the middle band.
func (s *Scorer) rsScore(rs float64) float64 {
	p := s.params
	switch {
	case rs >= p.RSFull:
		return maxRSScore
	case rs >= p.RSMin:
		return rs / p.RSFull * maxRSScore
	default:
		return 0
	}
}

// volScore scales surge against a 2x reference above the full threshold
// and gives partial linear credit between 1.0x and 1.5x.
func (s *Scorer) volScore(surge float64) float64 {
	p := s.params
	switch {
	case surge >= p.VolSurgeFull:
		return math.Min(maxVolScore, surge/2.0*maxVolScore)
	case surge >= p.VolSurgeMin:
		return (surge - p.VolSurgeMin) / (p.VolSurgeFull - p.VolSurgeMin) * 10
	default:
		return 0
	}
}

func (s *Scorer) nearHighScore(nearHigh bool) float64 {
	if nearHigh {
		return nearHighBonus
	}
	return 0
}

func (s *Scorer) liquidityScore(bucket contracts.LiquidityBucket) float64 {
	switch bucket {
	case contracts.LiquidityHigh:
		return liquidityHigh
	case contracts.LiquidityMedium:
		return liquidityMedium
	default:
		return 0
	}
}

// atrScore rewards ATR between 2% and 5% of price. Too little range and
// the trade has no room; too much and the stop distance is unworkable.
func (s *Scorer) atrScore(atr, close float64) float64 {
	if atr <= 0 || close <= 0 {
		return 0
	}

	atrPct := atr / close * 100
	switch {
	case atrPct >= 2 && atrPct <= 5:
		return maxATRScore
	case atrPct < 2:
		return atrPct / 2 * 5
	case atrPct < 10:
		return maxATRScore - (atrPct-5)/5*5
	default:
		return 0
	}
}

// confidence is the fraction of six boolean quality criteria satisfied,
// rounded to 2 decimals.
func (s *Scorer) confidence(f contracts.FeatureSet) float64 {
	p := s.params
	met := 0

	if f.GapPercent >= p.GapMinPct && f.GapPercent <= p.GapMaxPct {
		met++
	}
	if f.RS20 >= p.RSFull {
		met++
	}
	if f.VolSurge >= p.VolSurgeFull {
		met++
	}
	if f.NearHigh {
		met++
	}
	if f.Liquidity != contracts.LiquidityLow {
		met++
	}
	if f.ATR20 > 0 && f.Close > 0 {
		met++
	}

	return round2(float64(met) / confidenceCriteria)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
