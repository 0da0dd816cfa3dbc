package coach_test

import (
	"testing"

	"github.com/stride-coach/stride/internal/app/coach"
	"github.com/stride-coach/stride/internal/domain"
)

func rewards() *coach.Rewards {
	return coach.NewRewards(coach.DefaultConfig())
}

func TestRewards_NoTriggerReturnsNil(t *testing.T) {
	got := rewards().Resolve(coach.RewardContext{
		Record: domain.DailyMomentumRecord{CurrentStreak: 2, TotalRealCheckIns: 2},
		Today:  "2026-06-01",
	})
	if got != nil {
		t.Errorf("expected nil reward, got %v", got.Type)
	}
}

func TestRewards_StreakMilestonesExactOnly(t *testing.T) {
	tests := []struct {
		streak int
		want   domain.RewardType
	}{
		{3, domain.RewardStreak3},
		{7, domain.RewardStreak7},
		{21, domain.RewardStreak21},
		{30, domain.RewardStreak30},
	}
	for _, tt := range tests {
		got := rewards().Resolve(coach.RewardContext{
			Record: domain.DailyMomentumRecord{CurrentStreak: tt.streak},
			Today:  "2026-06-01",
		})
		if got == nil || got.Type != tt.want {
			t.Errorf("streak %d: got %v, want %s", tt.streak, got, tt.want)
		}
	}

	// Day 8 of a streak fires nothing — milestones are exact.
	if got := rewards().Resolve(coach.RewardContext{
		Record: domain.DailyMomentumRecord{CurrentStreak: 8},
		Today:  "2026-06-01",
	}); got != nil {
		t.Errorf("streak 8: got %v, want nil", got.Type)
	}
}

func TestRewards_MilestoneBeatsStreak(t *testing.T) {
	// 50th check-in landing on a 7-day streak: the milestone wins.
	got := rewards().Resolve(coach.RewardContext{
		Record: domain.DailyMomentumRecord{CurrentStreak: 7, TotalRealCheckIns: 50},
		Today:  "2026-06-01",
	})
	if got == nil || got.Type != domain.RewardMilestone50 {
		t.Errorf("got %v, want milestone_50", got)
	}
}

func TestRewards_CommitmentCompleteBeatsEverything(t *testing.T) {
	got := rewards().Resolve(coach.RewardContext{
		Record: domain.DailyMomentumRecord{CurrentStreak: 30, TotalRealCheckIns: 100},
		Commitment: &domain.Commitment{
			Accepted:  true,
			ExpiresAt: "2026-06-01",
		},
		GapDays: 10,
		Today:   "2026-06-01",
	})
	if got == nil || got.Type != domain.RewardCommitmentComplete {
		t.Errorf("got %v, want commitment_complete", got)
	}
}

func TestRewards_CommitmentNotRecelebrated(t *testing.T) {
	got := rewards().Resolve(coach.RewardContext{
		Record: domain.DailyMomentumRecord{CurrentStreak: 1},
		Commitment: &domain.Commitment{
			Accepted:   true,
			ExpiresAt:  "2026-06-01",
			Celebrated: true,
		},
		Today: "2026-06-02",
	})
	if got != nil {
		t.Errorf("got %v, want nil for already-celebrated commitment", got.Type)
	}
}

func TestRewards_ReturnFromBreak(t *testing.T) {
	got := rewards().Resolve(coach.RewardContext{
		Record:  domain.DailyMomentumRecord{CurrentStreak: 1, TotalRealCheckIns: 12},
		GapDays: 9,
		Today:   "2026-06-01",
	})
	if got == nil || got.Type != domain.RewardReturnFromBreak {
		t.Errorf("got %v, want return_from_break", got)
	}

	// A 6-day gap is below the threshold.
	if got := rewards().Resolve(coach.RewardContext{
		Record:  domain.DailyMomentumRecord{CurrentStreak: 1, TotalRealCheckIns: 12},
		GapDays: 6,
		Today:   "2026-06-01",
	}); got != nil {
		t.Errorf("6-day gap: got %v, want nil", got.Type)
	}
}

func TestRewards_PerfectDay(t *testing.T) {
	record := domain.DailyMomentumRecord{
		CurrentStreak:  2,
		BehaviorGrades: allGrades(domain.GradeSolid),
		Primary:        domain.PrimaryResult{HabitKey: "walk", Done: true},
	}

	got := rewards().Resolve(coach.RewardContext{Record: record, Today: "2026-06-01"})
	if got == nil || got.Type != domain.RewardPerfectDay {
		t.Errorf("got %v, want perfect_day", got)
	}

	// One behavior at "not great" breaks the perfect day.
	record.BehaviorGrades = append([]domain.BehaviorGrade{}, allGrades(domain.GradeSolid)...)
	record.BehaviorGrades[0].Grade = domain.GradeNotGreat
	if got := rewards().Resolve(coach.RewardContext{Record: record, Today: "2026-06-01"}); got != nil {
		t.Errorf("imperfect grades: got %v, want nil", got.Type)
	}

	// Primary habit skipped breaks it too.
	record.BehaviorGrades = allGrades(domain.GradeElite)
	record.Primary.Done = false
	if got := rewards().Resolve(coach.RewardContext{Record: record, Today: "2026-06-01"}); got != nil {
		t.Errorf("primary skipped: got %v, want nil", got.Type)
	}
}

func TestLevelUpReward(t *testing.T) {
	r := coach.LevelUpReward(domain.CurrentFocus{Label: "Daily walk", Level: 3, Target: 30})
	if r.Type != domain.RewardLevelUp {
		t.Errorf("Type = %s, want level_up", r.Type)
	}
	if r.Message == "" || r.Title == "" {
		t.Error("reward should carry a title and message")
	}
}
