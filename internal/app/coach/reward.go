package coach

import (
	"fmt"

	"github.com/stride-coach/stride/internal/domain"
)

// RewardContext is the snapshot the resolver inspects after a check-in is
// persisted: the fresh record, the commitment, and the gap that preceded
// this submission.
type RewardContext struct {
	Record     domain.DailyMomentumRecord
	Commitment *domain.Commitment // nil when no contract exists
	GapDays    int                // calendar days since the previous real check-in
	Today      string
}

// rewardRule pairs one trigger predicate with the event it fires.
// Rules are evaluated strictly top to bottom; the first match wins.
type rewardRule struct {
	typ   domain.RewardType
	title string
	msg   func(RewardContext) string
	match func(RewardContext) bool
}

// Rewards resolves at most one celebratory event per check-in.
type Rewards struct {
	cfg   Config
	rules []rewardRule
}

// NewRewards builds the resolver with its fixed precedence list.
func NewRewards(cfg Config) *Rewards {
	r := &Rewards{cfg: cfg}
	r.rules = []rewardRule{
		{
			typ:   domain.RewardCommitmentComplete,
			title: "Commitment complete",
			msg: func(c RewardContext) string {
				return "You saw your 7-day commitment through. That's how habits stick."
			},
			match: func(c RewardContext) bool {
				return c.Commitment != nil && c.Commitment.Accepted &&
					c.Commitment.ExpiredOn(c.Today) && !c.Commitment.Celebrated
			},
		},
		{
			typ:   domain.RewardReturnFromBreak,
			title: "Welcome back",
			msg: func(c RewardContext) string {
				return fmt.Sprintf("Back after %d days — showing up again is the hard part.", c.GapDays)
			},
			match: func(c RewardContext) bool {
				return c.GapDays >= cfg.BreakGapDays
			},
		},
		{
			typ:   domain.RewardMilestone100,
			title: "100 check-ins",
			msg: func(c RewardContext) string {
				return "One hundred real check-ins. This is who you are now."
			},
			match: func(c RewardContext) bool {
				return c.Record.TotalRealCheckIns == 100
			},
		},
		{
			typ:   domain.RewardMilestone50,
			title: "50 check-ins",
			msg: func(c RewardContext) string {
				return "Fifty real check-ins logged. Half way to the hundred club."
			},
			match: func(c RewardContext) bool {
				return c.Record.TotalRealCheckIns == 50
			},
		},
		streakRule(30, "30-day streak", "A full month, every single day."),
		streakRule(21, "21-day streak", "Three straight weeks — the habit is setting."),
		streakRule(7, "7-day streak", "A whole week without missing a day."),
		streakRule(3, "3-day streak", "Three in a row. Momentum starts here."),
		{
			typ:   domain.RewardPerfectDay,
			title: "Perfect day",
			msg: func(c RewardContext) string {
				return "Every behavior and your focus habit, all in one day."
			},
			match: perfectDay,
		},
	}
	return r
}

// Resolve returns the single reward for this check-in, or nil when the
// ordinary "check-in saved" confirmation should show instead.
func (r *Rewards) Resolve(ctx RewardContext) *domain.Reward {
	for _, rule := range r.rules {
		if rule.match(ctx) {
			return &domain.Reward{Type: rule.typ, Title: rule.title, Message: rule.msg(ctx)}
		}
	}
	return nil
}

// LevelUpReward is fired out-of-band, immediately on accepting a level-up.
func LevelUpReward(focus domain.CurrentFocus) *domain.Reward {
	return &domain.Reward{
		Type:    domain.RewardLevelUp,
		Title:   "Level up",
		Message: fmt.Sprintf("%s moves to level %d. New target: %d.", focus.Label, focus.Level, focus.Target),
	}
}

func streakRule(days int, title, msg string) rewardRule {
	return rewardRule{
		typ:   domain.RewardType(fmt.Sprintf("streak_%d", days)),
		title: title,
		msg:   func(RewardContext) string { return msg },
		match: func(c RewardContext) bool { return c.Record.CurrentStreak == days },
	}
}

// perfectDay requires every tracked behavior at solid or better plus the
// primary habit done.
func perfectDay(c RewardContext) bool {
	if !c.Record.Primary.Done {
		return false
	}
	graded := make(map[string]int, len(c.Record.BehaviorGrades))
	for _, g := range c.Record.BehaviorGrades {
		graded[g.Name] = g.Grade
	}
	for _, name := range domain.PerfectDayBehaviors {
		if graded[name] < domain.GradeSolid {
			return false
		}
	}
	return true
}
