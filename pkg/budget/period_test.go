package budget

import (
	"testing"
	"time"
)

func TestPeriod_WindowStart(t *testing.T) {
	tests := []struct {
		name   string
		period Period
		now    time.Time
		want   time.Time
	}{
		{
			name:   "daily resolves to midnight of the same day",
			period: PeriodDaily,
			now:    time.Date(2024, time.March, 15, 17, 42, 3, 0, time.UTC),
			want:   time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "weekly resolves to the preceding Sunday midnight",
			period: PeriodWeekly,
			// 2024-03-13 is a Wednesday
			now:  time.Date(2024, time.March, 13, 9, 30, 0, 0, time.UTC),
			want: time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "weekly on a Sunday resolves to the same day",
			period: PeriodWeekly,
			now:    time.Date(2024, time.March, 10, 23, 0, 0, 0, time.UTC),
			want:   time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "weekly crossing a month boundary",
			period: PeriodWeekly,
			// 2024-05-01 is a Wednesday; the preceding Sunday is April 28
			now:  time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC),
			want: time.Date(2024, time.April, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "monthly resolves to the first of the month",
			period: PeriodMonthly,
			now:    time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC),
			want:   time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "yearly resolves to January 1st",
			period: PeriodYearly,
			now:    time.Date(2024, time.November, 5, 8, 0, 0, 0, time.UTC),
			want:   time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "unknown period means all time",
			period: Period("fortnightly"),
			now:    time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC),
			want:   time.Unix(0, 0).UTC(),
		},
		{
			name:   "empty period means all time",
			period: Period(""),
			now:    time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC),
			want:   time.Unix(0, 0).UTC(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.period.WindowStart(tt.now); !got.Equal(tt.want) {
				t.Errorf("WindowStart() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPeriod_IsValid(t *testing.T) {
	for _, p := range []Period{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly} {
		if !p.IsValid() {
			t.Errorf("expected %q to be valid", p)
		}
	}
	if Period("quarterly").IsValid() {
		t.Error("expected quarterly to be invalid")
	}
}
