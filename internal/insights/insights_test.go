package insights

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func at(weekday time.Weekday, hour int) time.Time {
	// 2024-06-02 is a Sunday.
	base := time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, int(weekday)).Add(time.Duration(hour) * time.Hour)
}

func intPtr(v int) *int { return &v }

func TestHeatmapIsAlwaysDense(t *testing.T) {
	hm := Heatmap(nil)
	if len(hm) != 7 {
		t.Fatalf("heatmap has %d keys, want 7", len(hm))
	}
	for _, key := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		row, ok := hm[key]
		if !ok {
			t.Fatalf("heatmap missing key %q", key)
		}
		for hour, v := range row {
			if v != 0 {
				t.Fatalf("empty input produced non-zero cell %s[%d]=%v", key, hour, v)
			}
		}
	}
}

func TestHeatmapAveragesBuckets(t *testing.T) {
	points := []CravingPoint{
		{At: at(time.Monday, 9), Intensity: 4},
		{At: at(time.Monday, 9), Intensity: 7},
		{At: at(time.Friday, 22), Intensity: 10},
	}
	hm := Heatmap(points)
	if got := hm["Mon"][9]; got != 5.5 {
		t.Fatalf("Mon[9]=%v, want 5.5", got)
	}
	if got := hm["Fri"][22]; got != 10.0 {
		t.Fatalf("Fri[22]=%v, want 10", got)
	}
	if got := hm["Mon"][10]; got != 0 {
		t.Fatalf("Mon[10]=%v, want zero fill", got)
	}
}

func TestTopTriggersGroupsCaseInsensitive(t *testing.T) {
	points := []CravingPoint{
		{At: at(time.Monday, 9), Intensity: 6, Trigger: "Stress"},
		{At: at(time.Monday, 10), Intensity: 8, Trigger: "  stress "},
		{At: at(time.Tuesday, 9), Intensity: 4, Trigger: "boredom"},
		{At: at(time.Tuesday, 11), Intensity: 2, Trigger: ""},
		{At: at(time.Tuesday, 12), Intensity: 2, Trigger: "   "},
	}
	stats, total := TopTriggers(points, 10)
	if total != 3 {
		t.Fatalf("total=%d, want 3 (empty triggers excluded)", total)
	}
	if len(stats) != 2 {
		t.Fatalf("len(stats)=%d, want 2", len(stats))
	}
	if stats[0].Trigger != "stress" || stats[0].Count != 2 {
		t.Fatalf("top trigger=%+v, want stress x2", stats[0])
	}
	if stats[0].AvgIntensity != 7.0 {
		t.Fatalf("stress avg intensity=%v, want 7.0", stats[0].AvgIntensity)
	}
	if stats[0].Percentage != 67 || stats[1].Percentage != 33 {
		t.Fatalf("percentages=%d/%d, want 67/33", stats[0].Percentage, stats[1].Percentage)
	}
}

func TestTopTriggersPercentagesSumNear100(t *testing.T) {
	points := []CravingPoint{}
	triggers := []string{"a", "a", "a", "b", "b", "c", "d", "e"}
	for i, tr := range triggers {
		points = append(points, CravingPoint{At: at(time.Monday, i), Intensity: 5, Trigger: tr})
	}
	stats, _ := TopTriggers(points, 10)
	sum := 0
	for _, s := range stats {
		sum += s.Percentage
	}
	// Rounding drift is bounded by one point per bucket.
	if sum < 100-len(stats) || sum > 100+len(stats) {
		t.Fatalf("percentage sum=%d outside 100±%d", sum, len(stats))
	}
}

func TestTopTriggersLimit(t *testing.T) {
	points := []CravingPoint{
		{At: at(time.Monday, 1), Intensity: 5, Trigger: "a"},
		{At: at(time.Monday, 2), Intensity: 5, Trigger: "b"},
		{At: at(time.Monday, 3), Intensity: 5, Trigger: "c"},
	}
	stats, total := TopTriggers(points, 2)
	if len(stats) != 2 || total != 3 {
		t.Fatalf("len=%d total=%d, want 2 and 3", len(stats), total)
	}
}

func TestComputeSlipStats(t *testing.T) {
	addA := uuid.New()
	addB := uuid.New()
	points := []SlipPoint{
		{At: at(time.Monday, 20), Severity: 4, Trigger: "Party", AddictionID: addA},
		{At: at(time.Wednesday, 21), Severity: 3, Trigger: "party", AddictionID: addA},
		{At: at(time.Friday, 23), Severity: 2, AddictionID: addB},
	}
	stats := ComputeSlipStats(points, 5)
	if stats.TotalSlips != 3 {
		t.Fatalf("TotalSlips=%d, want 3", stats.TotalSlips)
	}
	if stats.AverageSeverity != 3.0 {
		t.Fatalf("AverageSeverity=%v, want 3.0", stats.AverageSeverity)
	}
	if stats.ByAddiction[addA] != 2 || stats.ByAddiction[addB] != 1 {
		t.Fatalf("ByAddiction=%v", stats.ByAddiction)
	}
	if len(stats.TopTriggers) != 1 || stats.TopTriggers[0].Trigger != "party" || stats.TopTriggers[0].Percentage != 100 {
		t.Fatalf("TopTriggers=%+v", stats.TopTriggers)
	}
}

func TestComputeSlipStatsEmpty(t *testing.T) {
	stats := ComputeSlipStats(nil, 5)
	if stats.TotalSlips != 0 || stats.AverageSeverity != 0 {
		t.Fatalf("empty stats=%+v", stats)
	}
	if stats.TopTriggers == nil || stats.ByAddiction == nil {
		t.Fatalf("empty stats must still carry empty shapes, got %+v", stats)
	}
}

func TestPatternsEmptyInput(t *testing.T) {
	patterns := Patterns(nil)
	if len(patterns) != 0 {
		t.Fatalf("no data must produce no patterns, got %+v", patterns)
	}
}

func TestPatternsNoTopTriggerWhenAllEmpty(t *testing.T) {
	points := []CravingPoint{
		{At: at(time.Monday, 9), Intensity: 5},
		{At: at(time.Monday, 10), Intensity: 6, Trigger: "   "},
	}
	for _, p := range Patterns(points) {
		if p.Type == "top_trigger" {
			t.Fatalf("top_trigger emitted with only empty triggers: %+v", p)
		}
	}
}

func TestPatternsPeakTimeWindow(t *testing.T) {
	points := []CravingPoint{
		{At: at(time.Monday, 23), Intensity: 5},
		{At: at(time.Tuesday, 23), Intensity: 6},
		{At: at(time.Wednesday, 4), Intensity: 2},
	}
	patterns := Patterns(points)
	var peak *Pattern
	for i := range patterns {
		if patterns[i].Type == "peak_time" {
			peak = &patterns[i]
		}
	}
	if peak == nil {
		t.Fatalf("expected peak_time pattern, got %+v", patterns)
	}
	if peak.Data["hour"] != 23 {
		t.Fatalf("peak hour=%v, want 23", peak.Data["hour"])
	}
	// The cited 2-hour window wraps past midnight.
	if msg := peak.Message; msg == "" || !strings.Contains(msg, "23:00") || !strings.Contains(msg, "01:00") {
		t.Fatalf("peak message %q should cite the 23:00-01:00 window", msg)
	}
}

func TestPatternsLowMoodCorrelation(t *testing.T) {
	points := []CravingPoint{
		{At: at(time.Monday, 9), Intensity: 8, Mood: intPtr(1)},
		{At: at(time.Monday, 10), Intensity: 8, Mood: intPtr(1)},
		{At: at(time.Monday, 11), Intensity: 2, Mood: intPtr(5)},
	}
	patterns := Patterns(points)
	var low *Pattern
	for i := range patterns {
		if patterns[i].Type == "low_mood" {
			low = &patterns[i]
		}
	}
	if low == nil {
		t.Fatalf("expected low_mood pattern, got %+v", patterns)
	}
	if low.Data["avg_intensity"] != 8.0 {
		t.Fatalf("avg_intensity=%v, want 8.0 (only low-mood entries averaged)", low.Data["avg_intensity"])
	}
	if !strings.Contains(low.Message, "8.0") {
		t.Fatalf("message %q should cite 8.0", low.Message)
	}
}

func TestPatternsLowMoodBelowThresholdSkipped(t *testing.T) {
	points := []CravingPoint{
		{At: at(time.Monday, 9), Intensity: 4, Mood: intPtr(1)},
		{At: at(time.Monday, 10), Intensity: 5, Mood: intPtr(2)},
	}
	for _, p := range Patterns(points) {
		if p.Type == "low_mood" {
			t.Fatalf("low_mood fired at avg<=5: %+v", p)
		}
	}
}
