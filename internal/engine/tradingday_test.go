package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPriorTradingDay(t *testing.T) {
	tests := []struct {
		name string
		date string
		want string
	}{
		{
			name: "monday returns preceding friday",
			date: "2026-08-24",
			want: "2026-08-21",
		},
		{
			name: "tuesday returns monday",
			date: "2026-08-25",
			want: "2026-08-24",
		},
		{
			name: "wednesday returns tuesday",
			date: "2026-08-26",
			want: "2026-08-25",
		},
		{
			name: "friday returns thursday",
			date: "2026-08-28",
			want: "2026-08-27",
		},
		{
			name: "saturday returns friday",
			date: "2026-08-29",
			want: "2026-08-28",
		},
		{
			name: "sunday returns friday",
			date: "2026-08-30",
			want: "2026-08-28",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, err := time.Parse("2006-01-02", tt.date)
			if err != nil {
				t.Fatalf("bad fixture date: %v", err)
			}

			got := PriorTradingDay(date)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}
}

func TestPriorTradingDayNeverWeekend(t *testing.T) {
	// Walk a full year of dates; the result must always be a weekday
	// strictly before the input.
	date := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 365; i++ {
		prior := PriorTradingDay(date)

		assert.True(t, prior.Before(date))
		assert.NotEqual(t, time.Saturday, prior.Weekday())
		assert.NotEqual(t, time.Sunday, prior.Weekday())

		date = date.AddDate(0, 0, 1)
	}
}
