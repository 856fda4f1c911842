package engine

import "time"

// PriorTradingDay returns the most recent weekday strictly before date.
// Only weekends are skipped; NSE exchange holidays are not consulted.
// That is a known limitation of the engine, not something to patch here.
func PriorTradingDay(date time.Time) time.Time {
	prior := date.AddDate(0, 0, -1)
	for prior.Weekday() == time.Saturday || prior.Weekday() == time.Sunday {
		prior = prior.AddDate(0, 0, -1)
	}
	return prior
}
