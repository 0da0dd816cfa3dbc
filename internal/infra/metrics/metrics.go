// Package metrics provides Prometheus metrics for Stride.
// Counters cover the check-in path: submissions, gap fills, rewards,
// commitment and level-up decisions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Check-ins ──────────────────────────────────────────────────────────────

// CheckinsSubmitted counts real check-in submissions by outcome.
var CheckinsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "stride",
	Name:      "checkins_submitted_total",
	Help:      "Total check-in submissions.",
}, []string{"outcome"})

// GapDaysFilled counts synthesized gap_fill records.
var GapDaysFilled = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "stride",
	Name:      "gap_days_filled_total",
	Help:      "Total gap-fill records synthesized for missed days.",
})

// StreakSaversSpent counts banked savers consumed to bridge a missed day.
var StreakSaversSpent = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "stride",
	Name:      "streak_savers_spent_total",
	Help:      "Total streak savers consumed.",
})

// ─── Rewards ────────────────────────────────────────────────────────────────

// RewardsFired counts celebratory events by type.
var RewardsFired = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "stride",
	Name:      "rewards_fired_total",
	Help:      "Total rewards fired, by reward type.",
}, []string{"type"})

// ─── Progression ────────────────────────────────────────────────────────────

// CommitmentDecisions counts accept/decline decisions on the weekly contract.
var CommitmentDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "stride",
	Name:      "commitment_decisions_total",
	Help:      "Total commitment decisions, by decision.",
}, []string{"decision"})

// LevelUpDecisions counts level-up prompt outcomes.
var LevelUpDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "stride",
	Name:      "levelup_decisions_total",
	Help:      "Total level-up decisions, by decision.",
}, []string{"decision"})
