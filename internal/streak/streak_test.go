package streak

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeNoSlips(t *testing.T) {
	now := date(2024, time.March, 15)
	cases := []struct {
		name  string
		start time.Time
		want  int
	}{
		{name: "started_ten_days_ago", start: date(2024, time.March, 5), want: 10},
		{name: "started_today", start: date(2024, time.March, 15), want: 0},
		{name: "started_a_year_ago", start: date(2023, time.March, 16), want: 365},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Compute(now, tc.start, nil)
			if got != tc.want {
				t.Fatalf("Compute(%v, %v, nil)=%d, want %d", now, tc.start, got, tc.want)
			}
		})
	}
}

func TestComputeSlipResetsBaseline(t *testing.T) {
	start := date(2024, time.January, 1)
	slip := date(2024, time.January, 10)
	now := date(2024, time.January, 20)
	if got := Compute(now, start, &slip); got != 10 {
		t.Fatalf("Compute=%d, want 10", got)
	}
}

func TestComputeSlipBeforeStartIgnored(t *testing.T) {
	start := date(2024, time.February, 1)
	slip := date(2024, time.January, 10)
	now := date(2024, time.February, 11)
	if got := Compute(now, start, &slip); got != 10 {
		t.Fatalf("slip older than start must not move the baseline, got %d", got)
	}
}

func TestComputeFutureStartClampsToZero(t *testing.T) {
	now := date(2024, time.June, 1)
	start := date(2024, time.June, 20)
	if got := Compute(now, start, nil); got != 0 {
		t.Fatalf("future start must read as 0, got %d", got)
	}
}

func TestComputeFutureSlipClampsToZero(t *testing.T) {
	now := date(2024, time.June, 1)
	start := date(2024, time.May, 1)
	slip := date(2024, time.June, 3)
	if got := Compute(now, start, &slip); got != 0 {
		t.Fatalf("future slip must read as 0, got %d", got)
	}
}

func TestDaysCountsCalendarDays(t *testing.T) {
	start := time.Date(2024, time.April, 1, 18, 0, 0, 0, time.UTC)
	now := time.Date(2024, time.April, 3, 6, 0, 0, 0, time.UTC)
	// 36 hours elapsed but two calendar dates crossed.
	if got := Days(now, start); got != 2 {
		t.Fatalf("Days=%d, want 2", got)
	}

	sameDay := time.Date(2024, time.April, 1, 6, 0, 0, 0, time.UTC)
	if got := Days(start, sameDay); got != 0 {
		t.Fatalf("Days=%d, want 0 within one date", got)
	}
}

func TestDaysSpansDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// The 2024-03-10 spring-forward shortens the span to 47 wall-clock
	// hours; the calendar still crossed two dates.
	start := time.Date(2024, time.March, 9, 0, 0, 0, 0, loc)
	now := time.Date(2024, time.March, 11, 0, 0, 0, 0, loc)
	if got := Days(now, start); got != 2 {
		t.Fatalf("Days=%d, want 2 across spring forward", got)
	}
}

func TestEffectiveStart(t *testing.T) {
	start := date(2024, time.January, 1)
	later := date(2024, time.January, 9)
	earlier := date(2023, time.December, 20)

	if got := EffectiveStart(start, nil); !got.Equal(start) {
		t.Fatalf("EffectiveStart with no slip=%v, want %v", got, start)
	}
	if got := EffectiveStart(start, &later); !got.Equal(later) {
		t.Fatalf("EffectiveStart with later slip=%v, want %v", got, later)
	}
	if got := EffectiveStart(start, &earlier); !got.Equal(start) {
		t.Fatalf("EffectiveStart with earlier slip=%v, want %v", got, start)
	}
}
