package coach_test

import (
	"errors"
	"testing"

	"github.com/stride-coach/stride/internal/app/coach"
	"github.com/stride-coach/stride/internal/domain"
	"github.com/stride-coach/stride/internal/infra/sqlite"
)

func seedFocus(t *testing.T, st *sqlite.Store, target int) {
	t.Helper()
	err := st.SaveCurrentFocus(testUser, domain.CurrentFocus{
		HabitKey:  "daily_walk",
		Label:     "Daily walk",
		Kind:      domain.HabitMovement,
		Level:     1,
		Target:    target,
		StartedAt: "2026-06-01",
	})
	if err != nil {
		t.Fatalf("seed focus: %v", err)
	}
}

// seedHit inserts a real record with the focus habit done.
func seedHit(t *testing.T, st *sqlite.Store, date string, done bool) {
	t.Helper()
	err := st.InsertMomentumRecord(testUser, domain.DailyMomentumRecord{
		Date:           date,
		BehaviorGrades: []domain.BehaviorGrade{},
		CheckinType:    domain.CheckinReal,
		Primary:        domain.PrimaryResult{HabitKey: "daily_walk", Done: done},
	})
	if err != nil {
		t.Fatalf("seed hit %s: %v", date, err)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Commitment Contract Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestCommitment_BootstrapPreAccepted(t *testing.T) {
	db := testDB(t)
	p := coach.NewProgression(coach.DefaultConfig())
	seedFocus(t, db.Store, 20)

	c, err := p.BootstrapCommitment(db.Store, testUser, "2026-06-01")
	if err != nil {
		t.Fatalf("BootstrapCommitment: %v", err)
	}
	if c.State != domain.CommitmentAccepted || !c.Accepted {
		t.Errorf("bootstrap state = %s accepted=%v, want accepted", c.State, c.Accepted)
	}
	if c.ExpiresAt != "2026-06-08" {
		t.Errorf("ExpiresAt = %s, want 2026-06-08", c.ExpiresAt)
	}

	// Second bootstrap is a no-op returning the same contract.
	again, err := p.BootstrapCommitment(db.Store, testUser, "2026-06-03")
	if err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}
	if again.AcceptedAt != "2026-06-01" {
		t.Errorf("second bootstrap replaced the contract: acceptedAt = %s", again.AcceptedAt)
	}
}

func TestCommitment_BootstrapNeedsFocus(t *testing.T) {
	db := testDB(t)
	p := coach.NewProgression(coach.DefaultConfig())

	_, err := p.BootstrapCommitment(db.Store, testUser, "2026-06-01")
	if !errors.Is(err, domain.ErrNoFocus) {
		t.Errorf("err = %v, want ErrNoFocus", err)
	}
}

func TestCommitment_ShowWhenNoneOrExpired(t *testing.T) {
	db := testDB(t)
	p := coach.NewProgression(coach.DefaultConfig())
	seedFocus(t, db.Store, 20)

	show, _, err := p.ShowCommitment(db.Store, testUser, "2026-06-01")
	if err != nil {
		t.Fatalf("ShowCommitment: %v", err)
	}
	if !show {
		t.Error("no contract should mean show=true")
	}

	if _, err := p.BootstrapCommitment(db.Store, testUser, "2026-06-01"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	// Active contract: nothing to show.
	show, _, err = p.ShowCommitment(db.Store, testUser, "2026-06-05")
	if err != nil {
		t.Fatalf("ShowCommitment: %v", err)
	}
	if show {
		t.Error("active contract should mean show=false")
	}

	// On expiry day the modal resurfaces.
	show, c, err := p.ShowCommitment(db.Store, testUser, "2026-06-08")
	if err != nil {
		t.Fatalf("ShowCommitment: %v", err)
	}
	if !show {
		t.Error("expired contract should mean show=true")
	}
	if c == nil {
		t.Fatal("expired contract should still be returned")
	}
}

func TestCommitment_OfferAcceptCycle(t *testing.T) {
	db := testDB(t)
	p := coach.NewProgression(coach.DefaultConfig())
	seedFocus(t, db.Store, 20)

	c, err := p.OfferCommitment(db.Store, testUser, "2026-06-10")
	if err != nil {
		t.Fatalf("OfferCommitment: %v", err)
	}
	if c.State != domain.CommitmentOffered || c.Accepted {
		t.Errorf("offer state = %s, want offered", c.State)
	}

	c, err = p.AcceptCommitment(db.Store, testUser, "2026-06-10")
	if err != nil {
		t.Fatalf("AcceptCommitment: %v", err)
	}
	if c.State != domain.CommitmentAccepted || c.AcceptedAt != "2026-06-10" || c.ExpiresAt != "2026-06-17" {
		t.Errorf("accepted contract = %+v", c)
	}

	// Accepting again with no outstanding offer fails.
	if _, err := p.AcceptCommitment(db.Store, testUser, "2026-06-11"); !errors.Is(err, domain.ErrNoCommitment) {
		t.Errorf("err = %v, want ErrNoCommitment", err)
	}
}

func TestCommitment_DeclineWithAlternative(t *testing.T) {
	db := testDB(t)
	p := coach.NewProgression(coach.DefaultConfig())
	seedFocus(t, db.Store, 20)

	if _, err := p.OfferCommitment(db.Store, testUser, "2026-06-10"); err != nil {
		t.Fatalf("offer: %v", err)
	}

	c, err := p.DeclineCommitment(db.Store, testUser, "too busy", "walk_3x_week")
	if err != nil {
		t.Fatalf("DeclineCommitment: %v", err)
	}
	if c.State != domain.CommitmentAlternativeOffered {
		t.Errorf("state = %s, want alternative_offered", c.State)
	}
	if c.DeclineReason != "too busy" {
		t.Errorf("DeclineReason = %q", c.DeclineReason)
	}

	// Accepting the alternative binds it as the committed habit.
	c, err = p.AcceptCommitment(db.Store, testUser, "2026-06-10")
	if err != nil {
		t.Fatalf("accept alternative: %v", err)
	}
	if c.HabitKey != "walk_3x_week" || !c.AlternativeAccepted {
		t.Errorf("alternative not bound: %+v", c)
	}
}

func TestCommitment_TerminalDecline(t *testing.T) {
	db := testDB(t)
	p := coach.NewProgression(coach.DefaultConfig())
	seedFocus(t, db.Store, 20)

	if _, err := p.OfferCommitment(db.Store, testUser, "2026-06-10"); err != nil {
		t.Fatalf("offer: %v", err)
	}
	c, err := p.DeclineCommitment(db.Store, testUser, "not now", "")
	if err != nil {
		t.Fatalf("decline: %v", err)
	}
	if c.State != domain.CommitmentDeclined {
		t.Errorf("state = %s, want declined", c.State)
	}

	// A terminal decline cannot be declined again.
	if _, err := p.DeclineCommitment(db.Store, testUser, "still no", ""); !errors.Is(err, domain.ErrNoCommitment) {
		t.Errorf("err = %v, want ErrNoCommitment", err)
	}

	// The reason is recorded; the modal does not come back on its own.
	show, _, err := p.ShowCommitment(db.Store, testUser, "2026-06-11")
	if err != nil {
		t.Fatalf("ShowCommitment: %v", err)
	}
	if show {
		t.Error("show = true after terminal decline, want false")
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Level-Up Eligibility Tests
// ═══════════════════════════════════════════════════════════════════════════

// seedWeek anchors the account and records hits on the given days of a
// 7-day window ending "2026-06-07".
func seedWeek(t *testing.T, st *sqlite.Store, hitDays int) {
	t.Helper()
	if err := st.SetFirstCheckinDate(testUser, "2026-06-01"); err != nil {
		t.Fatalf("anchor: %v", err)
	}
	for i := 0; i < 7; i++ {
		day, _ := domain.AddDays("2026-06-01", i)
		seedHit(t, st, day, i < hitDays)
	}
}

func TestEligibility_AllGatesClear(t *testing.T) {
	db := testDB(t)
	p := coach.NewProgression(coach.DefaultConfig())
	seedFocus(t, db.Store, 20)
	seedWeek(t, db.Store, 5)

	elig, err := p.Eligibility(db.Store, testUser, "2026-06-07")
	if err != nil {
		t.Fatalf("Eligibility: %v", err)
	}
	if !elig.Eligible || elig.Outcome != domain.EligibilityEligible {
		t.Errorf("got %+v, want eligible", elig)
	}
	if elig.HitDays != 5 {
		t.Errorf("HitDays = %d, want 5", elig.HitDays)
	}
}

func TestEligibility_AccountTooNew(t *testing.T) {
	db := testDB(t)
	p := coach.NewProgression(coach.DefaultConfig())
	seedFocus(t, db.Store, 20)
	if err := db.SetFirstCheckinDate(testUser, "2026-06-05"); err != nil {
		t.Fatalf("anchor: %v", err)
	}

	elig, err := p.Eligibility(db.Store, testUser, "2026-06-07")
	if err != nil {
		t.Fatalf("Eligibility: %v", err)
	}
	if elig.Outcome != domain.EligibilityTooNew {
		t.Errorf("Outcome = %s, want account_too_new", elig.Outcome)
	}
}

func TestEligibility_InsufficientHits(t *testing.T) {
	db := testDB(t)
	p := coach.NewProgression(coach.DefaultConfig())
	seedFocus(t, db.Store, 20)
	seedWeek(t, db.Store, 4)

	elig, err := p.Eligibility(db.Store, testUser, "2026-06-07")
	if err != nil {
		t.Fatalf("Eligibility: %v", err)
	}
	if elig.Outcome != domain.EligibilityNotEnoughHits || elig.HitDays != 4 {
		t.Errorf("got %+v, want insufficient_hits with 4", elig)
	}
}

func TestEligibility_NoFocusHabit(t *testing.T) {
	db := testDB(t)
	p := coach.NewProgression(coach.DefaultConfig())
	if err := db.SetFirstCheckinDate(testUser, "2026-06-01"); err != nil {
		t.Fatalf("anchor: %v", err)
	}

	elig, err := p.Eligibility(db.Store, testUser, "2026-06-07")
	if err != nil {
		t.Fatalf("Eligibility: %v", err)
	}
	if elig.Outcome != domain.EligibilityNoFocus {
		t.Errorf("Outcome = %s, want no_focus_habit", elig.Outcome)
	}
}

func TestEligibility_CooldownAfterPrompt(t *testing.T) {
	db := testDB(t)
	cfg := coach.DefaultConfig()
	p := coach.NewProgression(cfg)
	seedFocus(t, db.Store, 20)
	seedWeek(t, db.Store, 7)

	if _, err := p.BootstrapCommitment(db.Store, testUser, "2026-06-01"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if err := p.MarkPromptShown(db.Store, testUser, "2026-06-05"); err != nil {
		t.Fatalf("MarkPromptShown: %v", err)
	}

	elig, err := p.Eligibility(db.Store, testUser, "2026-06-07")
	if err != nil {
		t.Fatalf("Eligibility: %v", err)
	}
	if elig.Outcome != domain.EligibilityCooldown {
		t.Errorf("Outcome = %s, want cooldown_active", elig.Outcome)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Level-Up Accept / Decline Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestAcceptLevelUp_RaisesTargetAndRenewsContract(t *testing.T) {
	db := testDB(t)
	p := coach.NewProgression(coach.DefaultConfig())
	seedFocus(t, db.Store, 20)
	seedWeek(t, db.Store, 6)
	if _, err := p.BootstrapCommitment(db.Store, testUser, "2026-05-25"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	focus, err := p.AcceptLevelUp(db.Store, testUser, "2026-06-07", coach.LevelUpRequest{Target: 30})
	if err != nil {
		t.Fatalf("AcceptLevelUp: %v", err)
	}
	if focus.Level != 2 || focus.Target != 30 {
		t.Errorf("focus = level %d target %d, want 2/30", focus.Level, focus.Target)
	}
	if focus.LastProvenTarget != 20 {
		t.Errorf("LastProvenTarget = %d, want 20", focus.LastProvenTarget)
	}
	if focus.LastLevelUpAt != "2026-06-07" {
		t.Errorf("LastLevelUpAt = %s", focus.LastLevelUpAt)
	}

	// A fresh pre-accepted contract opened at acceptance.
	c, err := db.GetCommitment(testUser)
	if err != nil {
		t.Fatalf("get commitment: %v", err)
	}
	if c.State != domain.CommitmentAccepted || c.AcceptedAt != "2026-06-07" {
		t.Errorf("renewed contract = %+v", c)
	}
	if c.LevelUpPrompts.TimesAccepted != 1 {
		t.Errorf("TimesAccepted = %d, want 1", c.LevelUpPrompts.TimesAccepted)
	}
}

func TestAcceptLevelUp_OpensContractWithoutPriorCommitment(t *testing.T) {
	// Focus chosen after the first check-in: no commitment row was ever
	// bootstrapped, yet the accept must still open a fresh 7-day contract.
	db := testDB(t)
	p := coach.NewProgression(coach.DefaultConfig())
	seedFocus(t, db.Store, 20)
	seedWeek(t, db.Store, 6)

	if _, err := db.GetCommitment(testUser); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("precondition: commitment err = %v, want ErrNotFound", err)
	}

	focus, err := p.AcceptLevelUp(db.Store, testUser, "2026-06-07", coach.LevelUpRequest{Target: 30})
	if err != nil {
		t.Fatalf("AcceptLevelUp: %v", err)
	}
	if focus.Level != 2 || focus.Target != 30 {
		t.Errorf("focus = level %d target %d, want 2/30", focus.Level, focus.Target)
	}

	c, err := db.GetCommitment(testUser)
	if err != nil {
		t.Fatalf("get commitment: %v", err)
	}
	if c.State != domain.CommitmentAccepted || c.AcceptedAt != "2026-06-07" {
		t.Errorf("contract = %+v, want accepted at 2026-06-07", c)
	}
	if want, _ := domain.AddDays("2026-06-07", 7); c.ExpiresAt != want {
		t.Errorf("ExpiresAt = %s, want %s", c.ExpiresAt, want)
	}
	if c.LevelUpPrompts.TimesAccepted != 1 {
		t.Errorf("TimesAccepted = %d, want 1", c.LevelUpPrompts.TimesAccepted)
	}
}

func TestAcceptLevelUp_RejectedWhenIneligible(t *testing.T) {
	db := testDB(t)
	p := coach.NewProgression(coach.DefaultConfig())
	seedFocus(t, db.Store, 20)
	seedWeek(t, db.Store, 3)

	_, err := p.AcceptLevelUp(db.Store, testUser, "2026-06-07", coach.LevelUpRequest{Target: 30})
	if !errors.Is(err, domain.ErrNotEligible) {
		t.Errorf("err = %v, want ErrNotEligible", err)
	}
}

func TestDeclineLevelUp_TryDifferentArchivesHabit(t *testing.T) {
	db := testDB(t)
	p := coach.NewProgression(coach.DefaultConfig())
	seedFocus(t, db.Store, 20)
	seedWeek(t, db.Store, 5)
	if _, err := p.BootstrapCommitment(db.Store, testUser, "2026-06-01"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	err := p.DeclineLevelUp(db.Store, testUser, "2026-06-07", "too ambitious", domain.TryDifferent)
	if err != nil {
		t.Fatalf("DeclineLevelUp: %v", err)
	}

	if _, err := db.GetCurrentFocus(testUser); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("focus should be cleared, got err=%v", err)
	}

	stack, err := db.ListHabitStack(testUser)
	if err != nil {
		t.Fatalf("ListHabitStack: %v", err)
	}
	if len(stack) != 1 || stack[0].HabitKey != "daily_walk" {
		t.Errorf("stack = %+v, want archived daily_walk", stack)
	}

	c, err := db.GetCommitment(testUser)
	if err != nil {
		t.Fatalf("get commitment: %v", err)
	}
	if c.LevelUpPrompts.TimesDeclined != 1 || len(c.LevelUpPrompts.DeclineReasons) != 1 {
		t.Errorf("prompts = %+v", c.LevelUpPrompts)
	}
}

func TestDeclineLevelUp_StickCurrentKeepsFocus(t *testing.T) {
	db := testDB(t)
	p := coach.NewProgression(coach.DefaultConfig())
	seedFocus(t, db.Store, 20)
	seedWeek(t, db.Store, 5)
	if _, err := p.BootstrapCommitment(db.Store, testUser, "2026-06-01"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	err := p.DeclineLevelUp(db.Store, testUser, "2026-06-07", "", domain.StickCurrent)
	if err != nil {
		t.Fatalf("DeclineLevelUp: %v", err)
	}

	focus, err := db.GetCurrentFocus(testUser)
	if err != nil {
		t.Fatalf("focus should survive: %v", err)
	}
	if focus.Level != 1 || focus.Target != 20 {
		t.Errorf("focus changed: %+v", focus)
	}
}
