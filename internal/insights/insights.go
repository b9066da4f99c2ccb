package insights

import (
  "fmt"
  "math"
  "sort"
  "time"

  "github.com/google/uuid"

  "github.com/anchorhealth/anchor-backend/internal/normalization"
)

// Disclaimer accompanies every pattern list; the heuristics are
// descriptive observations, not clinical guidance.
const Disclaimer = "These are pattern observations based on your own logs, not a medical or diagnostic assessment."

const (
  lowMoodCeiling        = 2
  lowMoodIntensityFloor = 5.0
  peakWindowHours       = 2
)

// CravingPoint is one craving log flattened for aggregation.
type CravingPoint struct {
  At        time.Time
  Intensity int
  Mood      *int
  Trigger   string
}

// SlipPoint is one slip event flattened for aggregation.
type SlipPoint struct {
  At          time.Time
  Severity    int
  Trigger     string
  AddictionID uuid.UUID
}

type TriggerStat struct {
  Trigger      string  `json:"trigger"`
  Count        int     `json:"count"`
  Percentage   int     `json:"percentage"`
  AvgIntensity float64 `json:"avg_intensity"`
}

type SlipStats struct {
  TotalSlips      int               `json:"total_slips"`
  AverageSeverity float64           `json:"average_severity"`
  TopTriggers     []TriggerStat     `json:"top_triggers"`
  ByAddiction     map[uuid.UUID]int `json:"by_addiction"`
}

type Pattern struct {
  Type    string                 `json:"type"`
  Message string                 `json:"message"`
  Data    map[string]interface{} `json:"data"`
}

var weekdayKeys = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Heatmap buckets average craving intensity by day-of-week and
// hour-of-day. The matrix is always dense 7x24 with zero-filled cells.
func Heatmap(points []CravingPoint) map[string][24]float64 {
  var sums, counts [7][24]float64
  for _, p := range points {
    dow := int(p.At.Weekday())
    hour := p.At.Hour()
    sums[dow][hour] += float64(p.Intensity)
    counts[dow][hour]++
  }
  out := make(map[string][24]float64, 7)
  for dow, key := range weekdayKeys {
    var row [24]float64
    for hour := 0; hour < 24; hour++ {
      if counts[dow][hour] > 0 {
        row[hour] = Round1(sums[dow][hour] / counts[dow][hour])
      }
    }
    out[key] = row
  }
  return out
}

type triggerBucket struct {
  key          string
  count        int
  intensitySum float64
}

// groupTriggers folds points into case-insensitive trimmed trigger
// buckets, dropping empty triggers, ordered by count descending then
// name for determinism.
func groupTriggers(points []CravingPoint) []triggerBucket {
  byKey := map[string]*triggerBucket{}
  for _, p := range points {
    key := normalization.NormalizeTrigger(p.Trigger)
    if key == "" {
      continue
    }
    b, ok := byKey[key]
    if !ok {
      b = &triggerBucket{key: key}
      byKey[key] = b
    }
    b.count++
    b.intensitySum += float64(p.Intensity)
  }
  buckets := make([]triggerBucket, 0, len(byKey))
  for _, b := range byKey {
    buckets = append(buckets, *b)
  }
  sort.Slice(buckets, func(i, j int) bool {
    if buckets[i].count != buckets[j].count {
      return buckets[i].count > buckets[j].count
    }
    return buckets[i].key < buckets[j].key
  })
  return buckets
}

// TopTriggers returns up to limit trigger stats plus the total number
// of grouped occurrences. Percentages are computed over the grouped
// trigger set, not the raw point count.
func TopTriggers(points []CravingPoint, limit int) ([]TriggerStat, int) {
  buckets := groupTriggers(points)
  total := 0
  for _, b := range buckets {
    total += b.count
  }
  if limit > 0 && len(buckets) > limit {
    buckets = buckets[:limit]
  }
  stats := make([]TriggerStat, 0, len(buckets))
  for _, b := range buckets {
    stats = append(stats, TriggerStat{
      Trigger:      b.key,
      Count:        b.count,
      Percentage:   int(math.Round(float64(b.count) / float64(total) * 100)),
      AvgIntensity: Round1(b.intensitySum / float64(b.count)),
    })
  }
  return stats, total
}

// ComputeSlipStats aggregates slips over a window. Averages keep full
// precision internally and round only here, at the presentation edge.
func ComputeSlipStats(points []SlipPoint, limit int) SlipStats {
  stats := SlipStats{
    TotalSlips:  len(points),
    TopTriggers: []TriggerStat{},
    ByAddiction: map[uuid.UUID]int{},
  }
  if len(points) == 0 {
    return stats
  }
  severitySum := 0.0
  asCravings := make([]CravingPoint, 0, len(points))
  for _, p := range points {
    severitySum += float64(p.Severity)
    stats.ByAddiction[p.AddictionID]++
    asCravings = append(asCravings, CravingPoint{At: p.At, Intensity: p.Severity, Trigger: p.Trigger})
  }
  stats.AverageSeverity = Round1(severitySum / float64(len(points)))
  stats.TopTriggers, _ = TopTriggers(asCravings, limit)
  return stats
}

// Patterns runs the bounded heuristic list. Each heuristic contributes
// only when its input set is non-empty; there are no placeholder
// entries.
func Patterns(points []CravingPoint) []Pattern {
  patterns := []Pattern{}
  if p, ok := peakTimePattern(points); ok {
    patterns = append(patterns, p)
  }
  if p, ok := topTriggerPattern(points); ok {
    patterns = append(patterns, p)
  }
  if p, ok := lowMoodPattern(points); ok {
    patterns = append(patterns, p)
  }
  return patterns
}

func peakTimePattern(points []CravingPoint) (Pattern, bool) {
  if len(points) == 0 {
    return Pattern{}, false
  }
  var byHour [24]int
  for _, p := range points {
    byHour[p.At.Hour()]++
  }
  peak, peakCount := 0, 0
  for hour, count := range byHour {
    if count > peakCount {
      peak, peakCount = hour, count
    }
  }
  windowEnd := (peak + peakWindowHours) % 24
  return Pattern{
    Type:    "peak_time",
    Message: fmt.Sprintf("Your cravings cluster between %02d:00 and %02d:00. Planning a distraction for that window can help.", peak, windowEnd),
    Data: map[string]interface{}{
      "hour":  peak,
      "count": peakCount,
    },
  }, true
}

func topTriggerPattern(points []CravingPoint) (Pattern, bool) {
  stats, _ := TopTriggers(points, 1)
  if len(stats) == 0 {
    return Pattern{}, false
  }
  top := stats[0]
  return Pattern{
    Type:    "top_trigger",
    Message: fmt.Sprintf("%q shows up more than any other trigger in your logs (%d times).", top.Trigger, top.Count),
    Data: map[string]interface{}{
      "trigger": top.Trigger,
      "count":   top.Count,
    },
  }, true
}

func lowMoodPattern(points []CravingPoint) (Pattern, bool) {
  sum, count := 0.0, 0
  for _, p := range points {
    if p.Mood != nil && *p.Mood <= lowMoodCeiling {
      sum += float64(p.Intensity)
      count++
    }
  }
  if count == 0 {
    return Pattern{}, false
  }
  avg := sum / float64(count)
  if avg <= lowMoodIntensityFloor {
    return Pattern{}, false
  }
  return Pattern{
    Type:    "low_mood",
    Message: fmt.Sprintf("When your mood is low your cravings average %.1f out of 10. Low moments may deserve extra support.", avg),
    Data: map[string]interface{}{
      "avg_intensity": Round1(avg),
      "count":         count,
    },
  }, true
}

// Round1 rounds to one decimal place for presentation.
func Round1(x float64) float64 {
  return math.Round(x*10) / 10
}
