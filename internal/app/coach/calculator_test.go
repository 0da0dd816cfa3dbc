package coach_test

import (
	"testing"

	"github.com/stride-coach/stride/internal/app/coach"
	"github.com/stride-coach/stride/internal/domain"
)

// ═══════════════════════════════════════════════════════════════════════════
// Unlock Ramp Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestUnlockCeiling_Ramp(t *testing.T) {
	tests := []struct {
		age  int
		want int
	}{
		{1, 20},
		{2, 25},
		{3, 30},
		{4, 35},
		{5, 40},
		{7, 50},
		{8, 55},
		{9, 56},
		{11, 59},
		{14, 65},
		{15, 100},
		{400, 100},
	}

	for _, tt := range tests {
		if got := coach.UnlockCeiling(tt.age); got != tt.want {
			t.Errorf("UnlockCeiling(%d) = %d, want %d", tt.age, got, tt.want)
		}
	}
}

func TestUnlockCeiling_NonDecreasing(t *testing.T) {
	prev := 0
	for age := 1; age <= 20; age++ {
		c := coach.UnlockCeiling(age)
		if c < prev {
			t.Fatalf("ceiling dropped at age %d: %d < %d", age, c, prev)
		}
		prev = c
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Daily Score Tests
// ═══════════════════════════════════════════════════════════════════════════

func allGrades(grade int) []domain.BehaviorGrade {
	out := make([]domain.BehaviorGrade, 0, len(domain.PerfectDayBehaviors))
	for _, name := range domain.PerfectDayBehaviors {
		out = append(out, domain.BehaviorGrade{Name: name, Grade: grade})
	}
	return out
}

func TestDailyScore_MeanOfGrades(t *testing.T) {
	grades := []domain.BehaviorGrade{
		{Name: domain.BehaviorProtein, Grade: 100},
		{Name: domain.BehaviorHydration, Grade: 80},
		{Name: domain.BehaviorSleep, Grade: 50},
		{Name: domain.BehaviorMovement, Grade: 0},
	}
	// (100+80+50+0)/4 = 57.5, rounded to 58
	if got := coach.DailyScore(grades); got != 58 {
		t.Errorf("DailyScore = %d, want 58", got)
	}
}

func TestDailyScore_EmptyScoresZero(t *testing.T) {
	if got := coach.DailyScore(nil); got != 0 {
		t.Errorf("DailyScore(nil) = %d, want 0", got)
	}
}

func TestDailyScore_InvalidGradeScoresZero(t *testing.T) {
	grades := []domain.BehaviorGrade{
		{Name: domain.BehaviorProtein, Grade: 100},
		{Name: domain.BehaviorSleep, Grade: 73}, // not a tier
	}
	if got := coach.DailyScore(grades); got != 0 {
		t.Errorf("DailyScore with invalid grade = %d, want 0", got)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Trend Message Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestTrendMessage_EstablishedVocabulary(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{95, "Breakthrough progress"},
		{80, "Breakthrough progress"},
		{79, "Strong momentum"},
		{60, "Strong momentum"},
		{59, "Gaining ground"},
		{40, "Gaining ground"},
		{39, "Building a foundation"},
		{0, "Building a foundation"},
	}
	for _, tt := range tests {
		if got := coach.TrendMessage(tt.score, 30); got != tt.want {
			t.Errorf("TrendMessage(%d, 30) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestTrendMessage_NewUserVocabulary(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{85, "Early surge"},
		{65, "Warming up fast"},
		{45, "Finding your rhythm"},
		{10, "Resetting your pace"},
	}
	for _, tt := range tests {
		if got := coach.TrendMessage(tt.score, 5); got != tt.want {
			t.Errorf("TrendMessage(%d, 5) = %q, want %q", tt.score, got, tt.want)
		}
	}

	// The vocabulary switches exactly at age 15.
	if got := coach.TrendMessage(85, 14); got != "Early surge" {
		t.Errorf("age 14 should use new-user vocabulary, got %q", got)
	}
	if got := coach.TrendMessage(85, 15); got != "Breakthrough progress" {
		t.Errorf("age 15 should use established vocabulary, got %q", got)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Day Scoring Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestScoreDay_FirstDayCapped(t *testing.T) {
	out := coach.ScoreDay(allGrades(100), 1, 0, false)

	if out.DailyScore != 100 {
		t.Errorf("DailyScore = %d, want 100", out.DailyScore)
	}
	if out.MomentumScore != 20 {
		t.Errorf("MomentumScore = %d, want 20 (day-1 ceiling)", out.MomentumScore)
	}
	if out.MomentumDelta != 0 {
		t.Errorf("MomentumDelta = %d, want 0 on first check-in", out.MomentumDelta)
	}
	if out.MomentumTrend != domain.TrendStable {
		t.Errorf("MomentumTrend = %q, want stable on first check-in", out.MomentumTrend)
	}
}

func TestScoreDay_DeltaAndTrend(t *testing.T) {
	up := coach.ScoreDay(allGrades(80), 30, 50, true)
	if up.MomentumScore != 80 || up.MomentumDelta != 30 || up.MomentumTrend != domain.TrendUp {
		t.Errorf("up: got score=%d delta=%d trend=%q", up.MomentumScore, up.MomentumDelta, up.MomentumTrend)
	}

	down := coach.ScoreDay(allGrades(50), 30, 80, true)
	if down.MomentumDelta != -30 || down.MomentumTrend != domain.TrendDown {
		t.Errorf("down: got delta=%d trend=%q", down.MomentumDelta, down.MomentumTrend)
	}

	flat := coach.ScoreDay(allGrades(50), 30, 50, true)
	if flat.MomentumDelta != 0 || flat.MomentumTrend != domain.TrendStable {
		t.Errorf("flat: got delta=%d trend=%q", flat.MomentumDelta, flat.MomentumTrend)
	}
}

func TestScoreDay_UncappedAfterRamp(t *testing.T) {
	out := coach.ScoreDay(allGrades(100), 15, 65, true)
	if out.MomentumScore != 100 {
		t.Errorf("MomentumScore = %d, want 100 at age 15", out.MomentumScore)
	}
}
