// Package coach implements the Stride momentum and habit-progression engine:
// daily scoring, streak and consistency tracking, the weekly commitment
// contract, level-up decisions, and reward resolution.
package coach

import (
	"math"

	"github.com/stride-coach/stride/internal/domain"
)

// ─── Unlock Ramp ────────────────────────────────────────────────────────────
// New accounts cannot max out the momentum score immediately. The ceiling
// rises with account age and disappears after two weeks.

const (
	rampEarlyBase   = 20 // ceiling on day 1
	rampEarlyStep   = 5  // per-day rise, days 1-3
	rampMidBase     = 35 // ceiling on day 4
	rampMidStep     = 5  // per-day rise, days 4-7
	rampFullAge     = 15 // first uncapped day
	newUserVocabAge = 15 // trend vocabulary switches at this age
)

// lateRampCeiling covers account ages 8 through 14.
var lateRampCeiling = [7]int{55, 56, 58, 59, 60, 62, 65}

// UnlockCeiling returns the maximum momentum score for an account age.
// The ceiling is non-decreasing in age; 100 once the ramp ends.
func UnlockCeiling(accountAgeDays int) int {
	switch {
	case accountAgeDays <= 1:
		return rampEarlyBase
	case accountAgeDays <= 3:
		return rampEarlyBase + (accountAgeDays-1)*rampEarlyStep
	case accountAgeDays <= 7:
		return rampMidBase + (accountAgeDays-4)*rampMidStep
	case accountAgeDays < rampFullAge:
		return lateRampCeiling[accountAgeDays-8]
	default:
		return 100
	}
}

// DailyScore averages the behavior grades on the 0-100 scale.
// An empty or malformed list scores 0 — scoring never fails.
func DailyScore(grades []domain.BehaviorGrade) int {
	if len(grades) == 0 {
		return 0
	}
	sum := 0
	for _, g := range grades {
		if !g.Valid() {
			return 0
		}
		sum += g.Grade
	}
	return int(math.Round(float64(sum) / float64(len(grades))))
}

// ─── Trend Messages ─────────────────────────────────────────────────────────
// Two deliberately different vocabularies: momentum language for established
// users, pacing language for accounts still inside the unlock ramp.

type scoreBand struct {
	min int
	msg string
}

var establishedBands = []scoreBand{
	{80, "Breakthrough progress"},
	{60, "Strong momentum"},
	{40, "Gaining ground"},
	{0, "Building a foundation"},
}

var newUserBands = []scoreBand{
	{80, "Early surge"},
	{60, "Warming up fast"},
	{40, "Finding your rhythm"},
	{0, "Resetting your pace"},
}

// TrendMessage picks the band label for a momentum score and account age.
func TrendMessage(momentumScore, accountAgeDays int) string {
	bands := establishedBands
	if accountAgeDays < newUserVocabAge {
		bands = newUserBands
	}
	for _, b := range bands {
		if momentumScore >= b.min {
			return b.msg
		}
	}
	return bands[len(bands)-1].msg
}

// ─── Day Scoring ────────────────────────────────────────────────────────────

// DayScore is the calculator's full output for one day.
type DayScore struct {
	DailyScore    int
	MomentumScore int
	MomentumDelta int
	MomentumTrend domain.Trend
	TrendMessage  string
}

// ScoreDay computes a day's scores from behavior grades and account age.
// prevMomentum is the prior day's momentum score (hasPrev false on the
// first-ever check-in). Pure — no store access, no clock.
func ScoreDay(grades []domain.BehaviorGrade, accountAgeDays, prevMomentum int, hasPrev bool) DayScore {
	daily := DailyScore(grades)

	momentum := daily
	if ceiling := UnlockCeiling(accountAgeDays); momentum > ceiling {
		momentum = ceiling
	}
	if momentum < 0 {
		momentum = 0
	}

	out := DayScore{
		DailyScore:    daily,
		MomentumScore: momentum,
		MomentumTrend: domain.TrendStable,
		TrendMessage:  TrendMessage(momentum, accountAgeDays),
	}

	if hasPrev {
		out.MomentumDelta = momentum - prevMomentum
		switch {
		case out.MomentumDelta > 0:
			out.MomentumTrend = domain.TrendUp
		case out.MomentumDelta < 0:
			out.MomentumTrend = domain.TrendDown
		}
	}
	return out
}
