package streak

import (
  "time"
)

// EffectiveStart is the baseline a streak counts from: the most recent
// slip if one exists, otherwise the enrollment start date. Clean
// entries never move the baseline.
func EffectiveStart(startDate time.Time, lastSlip *time.Time) time.Time {
  if lastSlip != nil && lastSlip.After(startDate) {
    return *lastSlip
  }
  return startDate
}

// Days returns the calendar days elapsed from effectiveStart to now,
// clamped to zero. Both times are anchored to their UTC date before
// subtracting, so the count never drifts across DST transitions. A
// start date in the future therefore reads as a zero-day streak rather
// than a negative one.
func Days(now, effectiveStart time.Time) int {
  d := int(utcDate(now).Sub(utcDate(effectiveStart)).Hours() / 24)
  if d < 0 {
    return 0
  }
  return d
}

func utcDate(t time.Time) time.Time {
  u := t.UTC()
  return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Compute is the single-enrollment contract: baseline then day count.
func Compute(now, startDate time.Time, lastSlip *time.Time) int {
  return Days(now, EffectiveStart(startDate, lastSlip))
}
