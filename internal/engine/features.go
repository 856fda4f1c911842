package engine

import (
	"github.com/riasnelli/nse-market-mood-sub000/internal/contracts"
)

// ResolveFeatures merges a pre-market snapshot and a bhavcopy record into
// one feature set. preMarket may be nil, in which case every field falls
// back to its bhavcopy derivation. The caller must have checked
// eod.Usable(); behavior is undefined otherwise.
//
// Per-field policy: the pre-market value wins when present, else the
// documented bhavcopy fallback applies. Missing optional inputs never
// surface as errors.
func ResolveFeatures(preMarket *contracts.PreMarketRecord, eod *contracts.BhavcopyRecord) contracts.FeatureSet {
	f := contracts.FeatureSet{
		Close: eod.Close,
	}

	if eod.ATR20 != nil {
		f.ATR20 = *eod.ATR20
	}
	if eod.RS20 != nil {
		f.RS20 = *eod.RS20
	}

	// Gap percent: explicit pre-market gap, else derived from yesterday's
	// open vs previous close. Zero when open is missing.
	if preMarket != nil && preMarket.GapPercent != nil {
		f.GapPercent = *preMarket.GapPercent
	} else if eod.Open != nil {
		f.GapPercent = (*eod.Open - eod.PrevClose) / eod.PrevClose * 100
	}

	// Volume surge: explicit value, else today's volume over the 20-day
	// average. Neutral 1.0 when no average is available.
	if preMarket != nil && preMarket.VolSurge != nil {
		f.VolSurge = *preMarket.VolSurge
	} else if eod.AvgVol20 != nil && *eod.AvgVol20 > 0 {
		f.VolSurge = float64(eod.Volume) / *eod.AvgVol20
	} else {
		f.VolSurge = 1.0
	}

	// Near-high flag: explicit value, else open within 2% of the 52-week
	// high. False when the high is missing or nonsensical.
	if preMarket != nil && preMarket.NearHigh != nil {
		f.NearHigh = *preMarket.NearHigh
	} else if eod.Open != nil && eod.High52W != nil && *eod.High52W > 0 {
		f.NearHigh = *eod.Open >= *eod.High52W*0.98
	}

	// Liquidity bucket: explicit value, else volume tiering.
	if preMarket != nil && preMarket.Liquidity != nil {
		f.Liquidity = *preMarket.Liquidity
	} else {
		f.Liquidity = contracts.BucketForVolume(eod.Volume)
	}

	// Entry anchor: first present of pre-open price, open, close.
	switch {
	case preMarket != nil && preMarket.PreOpenPrice != nil:
		f.EntryAnchor = *preMarket.PreOpenPrice
	case eod.Open != nil:
		f.EntryAnchor = *eod.Open
	default:
		f.EntryAnchor = eod.Close
	}

	return f
}
