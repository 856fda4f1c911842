package contracts

import "time"

// DateFormat is the ISO calendar date layout used at every boundary.
// The engine never does timezone arithmetic; callers resolve "today"
// in market time (IST) before invoking it.
const DateFormat = "2006-01-02"

// LiquidityBucket is a coarse classification of trading volume.
type LiquidityBucket string

const (
	LiquidityLow    LiquidityBucket = "LOW"
	LiquidityMedium LiquidityBucket = "MEDIUM"
	LiquidityHigh   LiquidityBucket = "HIGH"
)

// Volume thresholds for bucket tiering when the pre-market feed does not
// supply an explicit bucket.
const (
	highVolumeFloor   = 1_000_000
	mediumVolumeFloor = 500_000
)

// BucketForVolume tiers a share volume into a liquidity bucket.
func BucketForVolume(volume int64) LiquidityBucket {
	switch {
	case volume >= highVolumeFloor:
		return LiquidityHigh
	case volume >= mediumVolumeFloor:
		return LiquidityMedium
	default:
		return LiquidityLow
	}
}

// PreMarketRecord is one symbol's pre-open snapshot for a date.
// Optional fields are pointers: nil means the upstream feed did not
// supply the value and the bhavcopy fallback applies.
// Immutable once stored; keyed by (symbol, date).
type PreMarketRecord struct {
	Symbol       string           `json:"symbol"`
	Date         time.Time        `json:"date"`
	GapPercent   *float64         `json:"gap_percent,omitempty"`
	VolSurge     *float64         `json:"vol_surge,omitempty"`
	NearHigh     *bool            `json:"near_high,omitempty"`
	Liquidity    *LiquidityBucket `json:"liquidity_bucket,omitempty"`
	PreOpenPrice *float64         `json:"pre_open_price,omitempty"`
}

// BhavcopyRecord is one symbol's end-of-day exchange settlement record.
// Close and PrevClose are required for a record to be usable; the rest
// may be missing from the exchange file and are pointers.
// Immutable once stored; keyed by (symbol, date).
type BhavcopyRecord struct {
	Symbol    string    `json:"symbol"`
	Date      time.Time `json:"date"`
	Open      *float64  `json:"open,omitempty"`
	Close     float64   `json:"close"`
	PrevClose float64   `json:"prev_close"`
	Volume    int64     `json:"volume"`
	AvgVol20  *float64  `json:"avg_vol20,omitempty"`
	ATR20     *float64  `json:"atr20,omitempty"`
	High52W   *float64  `json:"high_52w,omitempty"`
	RS20      *float64  `json:"rs20,omitempty"`
}

// Usable reports whether the record qualifies for feature resolution.
// Records failing this are skipped by the generator, never scored.
func (b *BhavcopyRecord) Usable() bool {
	return b.Close > 0 && b.PrevClose > 0
}

// FeatureSet is the merged per-symbol feature vector fed to the scorer.
// Derived per run and never persisted directly; a snapshot of it is
// embedded in each emitted Signal.
type FeatureSet struct {
	GapPercent  float64         `json:"gap_percent"`
	RS20        float64         `json:"rs20"`
	VolSurge    float64         `json:"vol_surge"`
	NearHigh    bool            `json:"near_high"`
	Liquidity   LiquidityBucket `json:"liquidity_bucket"`
	ATR20       float64         `json:"atr20"`
	Close       float64         `json:"close"`
	EntryAnchor float64         `json:"entry_anchor_price"`
}
