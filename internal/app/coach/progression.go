package coach

import (
	"errors"
	"fmt"

	"github.com/stride-coach/stride/internal/domain"
	"github.com/stride-coach/stride/internal/infra/sqlite"
)

// Progression governs the weekly commitment contract and the level-up
// decision. Both are explicit state machines persisted per user; nothing is
// inferred from ambient flags.
type Progression struct {
	cfg Config
}

// NewProgression creates the progression state machine.
func NewProgression(cfg Config) *Progression {
	return &Progression{cfg: cfg}
}

// ─── Commitment Contract ────────────────────────────────────────────────────

// BootstrapCommitment opens the pre-accepted first contract on the user's
// very first real check-in. No-op if a commitment already exists.
func (p *Progression) BootstrapCommitment(st *sqlite.Store, user, today string) (*domain.Commitment, error) {
	if existing, err := st.GetCommitment(user); err == nil {
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	focus, err := st.GetCurrentFocus(user)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoFocus
	}
	if err != nil {
		return nil, err
	}

	c, err := p.acceptedContract(focus.HabitKey, today)
	if err != nil {
		return nil, err
	}
	if err := st.SaveCommitment(user, *c); err != nil {
		return nil, fmt.Errorf("save bootstrap commitment: %w", err)
	}
	return c, nil
}

// ShowCommitment reports whether the commitment modal must resurface: no
// contract exists, or the active one has expired. Expiry always demands an
// explicit new decision, never a silent renewal.
func (p *Progression) ShowCommitment(st *sqlite.Store, user, today string) (bool, *domain.Commitment, error) {
	c, err := st.GetCommitment(user)
	if errors.Is(err, domain.ErrNotFound) {
		return true, nil, nil
	}
	if err != nil {
		return false, nil, err
	}
	switch {
	case c.Active(today):
		return false, c, nil
	case c.Accepted:
		// Expired — demands an explicit new decision.
		return true, c, nil
	case c.State == domain.CommitmentOffered, c.State == domain.CommitmentAlternativeOffered:
		// An offer is already on screen.
		return false, c, nil
	case c.State == domain.CommitmentDeclined:
		// Terminal decline records the reason only; no re-prompt.
		return false, c, nil
	default:
		return true, c, nil
	}
}

// OfferCommitment writes a fresh offered contract for the focus habit,
// replacing whatever expired contract was there.
func (p *Progression) OfferCommitment(st *sqlite.Store, user, today string) (*domain.Commitment, error) {
	focus, err := st.GetCurrentFocus(user)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoFocus
	}
	if err != nil {
		return nil, err
	}

	prompts, err := p.carryPrompts(st, user)
	if err != nil {
		return nil, err
	}

	c := domain.Commitment{
		HabitOffered:   focus.HabitKey,
		HabitKey:       focus.HabitKey,
		State:          domain.CommitmentOffered,
		LevelUpPrompts: prompts,
	}
	if err := st.SaveCommitment(user, c); err != nil {
		return nil, fmt.Errorf("save offered commitment: %w", err)
	}
	return &c, nil
}

// AcceptCommitment accepts the outstanding offer (or alternative offer) and
// starts the 7-day window at today.
func (p *Progression) AcceptCommitment(st *sqlite.Store, user, today string) (*domain.Commitment, error) {
	c, err := st.GetCommitment(user)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoCommitment
	}
	if err != nil {
		return nil, err
	}

	switch c.State {
	case domain.CommitmentOffered:
		c.State = domain.CommitmentAccepted
	case domain.CommitmentAlternativeOffered:
		c.State = domain.CommitmentAccepted
		c.HabitKey = c.AlternativeOffered
		c.AlternativeAccepted = true
	default:
		return nil, domain.ErrNoCommitment
	}

	c.Accepted = true
	c.AcceptedAt = today
	c.Celebrated = false
	if c.ExpiresAt, err = domain.AddDays(today, p.cfg.CommitmentDays); err != nil {
		return nil, err
	}

	if err := st.SaveCommitment(user, *c); err != nil {
		return nil, fmt.Errorf("save accepted commitment: %w", err)
	}
	return c, nil
}

// DeclineCommitment records the decline. When alternative is non-empty the
// user is offered that smaller or different habit instead; otherwise the
// decline is terminal and only the reason survives.
func (p *Progression) DeclineCommitment(st *sqlite.Store, user, reason, alternative string) (*domain.Commitment, error) {
	c, err := st.GetCommitment(user)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoCommitment
	}
	if err != nil {
		return nil, err
	}
	if c.State != domain.CommitmentOffered {
		return nil, domain.ErrNoCommitment
	}

	c.Accepted = false
	c.DeclineReason = reason
	if alternative != "" {
		c.State = domain.CommitmentAlternativeOffered
		c.AlternativeOffered = alternative
	} else {
		c.State = domain.CommitmentDeclined
	}

	if err := st.SaveCommitment(user, *c); err != nil {
		return nil, fmt.Errorf("save declined commitment: %w", err)
	}
	return c, nil
}

// acceptedContract builds a pre-accepted contract starting today.
func (p *Progression) acceptedContract(habitKey, today string) (*domain.Commitment, error) {
	expires, err := domain.AddDays(today, p.cfg.CommitmentDays)
	if err != nil {
		return nil, err
	}
	return &domain.Commitment{
		HabitOffered: habitKey,
		HabitKey:     habitKey,
		State:        domain.CommitmentAccepted,
		Accepted:     true,
		AcceptedAt:   today,
		ExpiresAt:    expires,
	}, nil
}

// carryPrompts preserves level-up prompt history across contract renewals.
func (p *Progression) carryPrompts(st *sqlite.Store, user string) (domain.LevelUpPrompts, error) {
	old, err := st.GetCommitment(user)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.LevelUpPrompts{}, nil
	}
	if err != nil {
		return domain.LevelUpPrompts{}, err
	}
	return old.LevelUpPrompts, nil
}

// ─── Level-Up Decision ──────────────────────────────────────────────────────

// Eligibility evaluates the level-up decision for today. Pure read: all
// three gates (account age, proving hits, prompt cooldown) must clear at
// once. Cooldown-blocked and insufficient-hits are distinct outcomes.
func (p *Progression) Eligibility(st *sqlite.Store, user, today string) (domain.Eligibility, error) {
	meta, err := st.GetAccountMetadata(user)
	if err != nil {
		return domain.Eligibility{Outcome: domain.EligibilityTooNew}, err
	}
	age, err := accountAge(meta.FirstCheckinDate, today)
	if err != nil {
		return domain.Eligibility{Outcome: domain.EligibilityTooNew}, err
	}
	if age < p.cfg.ProvingWindowDays {
		return domain.Eligibility{Outcome: domain.EligibilityTooNew}, nil
	}

	focus, err := st.GetCurrentFocus(user)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Eligibility{Outcome: domain.EligibilityNoFocus}, nil
	}
	if err != nil {
		return domain.Eligibility{}, err
	}

	hits, err := p.provingHits(st, user, focus.HabitKey, today)
	if err != nil {
		return domain.Eligibility{}, err
	}
	if hits < p.cfg.ProvingHits {
		return domain.Eligibility{Outcome: domain.EligibilityNotEnoughHits, HitDays: hits}, nil
	}

	cooling, err := p.cooldownActive(st, user, focus, today)
	if err != nil {
		return domain.Eligibility{}, err
	}
	if cooling {
		return domain.Eligibility{Outcome: domain.EligibilityCooldown, HitDays: hits}, nil
	}

	return domain.Eligibility{Eligible: true, Outcome: domain.EligibilityEligible, HitDays: hits}, nil
}

// provingHits counts real records in the proving window whose primary habit
// matched the focus and was done.
func (p *Progression) provingHits(st *sqlite.Store, user, habitKey, today string) (int, error) {
	start, err := domain.AddDays(today, -(p.cfg.ProvingWindowDays - 1))
	if err != nil {
		return 0, err
	}
	records, err := st.RecordsInRange(user, start, today)
	if err != nil {
		return 0, err
	}

	hits := 0
	for _, r := range records {
		if r.IsReal() && r.Primary.HabitKey == habitKey && r.Primary.Done {
			hits++
		}
	}
	return hits, nil
}

// cooldownActive reports whether a prompt was shown (or a level-up taken)
// within the cooldown window. The cooldown gates the prompt, not the
// decision to accept one already on screen.
func (p *Progression) cooldownActive(st *sqlite.Store, user string, focus *domain.CurrentFocus, today string) (bool, error) {
	lastEvent := focus.LastLevelUpAt
	if c, err := st.GetCommitment(user); err == nil {
		if c.LevelUpPrompts.LastShown > lastEvent {
			lastEvent = c.LevelUpPrompts.LastShown
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}

	if lastEvent == "" {
		return false, nil
	}
	elapsed, err := domain.DaysBetween(lastEvent, today)
	if err != nil {
		return false, err
	}
	return elapsed < p.cfg.PromptCooldownDays, nil
}

// MarkPromptShown stamps today as the last level-up prompt and bumps the
// offered counter. Callers must have cleared Eligibility first.
func (p *Progression) MarkPromptShown(st *sqlite.Store, user, today string) error {
	c, err := st.GetCommitment(user)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrNoCommitment
	}
	if err != nil {
		return err
	}
	c.LevelUpPrompts.LastShown = today
	c.LevelUpPrompts.TimesOffered++
	return st.SaveCommitment(user, *c)
}

// LevelUpRequest describes the raised target the user accepted. An empty
// HabitKey keeps the current habit and only raises the target.
type LevelUpRequest struct {
	HabitKey string           `json:"habitKey,omitempty"`
	Label    string           `json:"label,omitempty"`
	Kind     domain.HabitKind `json:"kind,omitempty"`
	Target   int              `json:"target"`
}

// AcceptLevelUp applies an accepted level-up: the old target becomes the
// proven one, target/level (and optionally the habit itself) move up,
// and a fresh pre-accepted 7-day contract opens at the new target.
func (p *Progression) AcceptLevelUp(st *sqlite.Store, user, today string, req LevelUpRequest) (*domain.CurrentFocus, error) {
	elig, err := p.Eligibility(st, user, today)
	if err != nil {
		return nil, err
	}
	// Cooldown gates the prompt, not accepting the one already on screen.
	if !elig.Eligible && elig.Outcome != domain.EligibilityCooldown {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotEligible, elig.Outcome)
	}

	focus, err := st.GetCurrentFocus(user)
	if err != nil {
		return nil, err
	}

	// The user just proved the old target at >=5/7; it never regresses.
	if focus.Target > focus.LastProvenTarget {
		focus.LastProvenTarget = focus.Target
	}

	if req.HabitKey != "" {
		focus.HabitKey = req.HabitKey
		focus.Label = req.Label
		if domain.KnownKind(req.Kind) {
			focus.Kind = req.Kind
		} else {
			focus.Kind = domain.HabitCustom
		}
	}
	focus.Target = req.Target
	focus.Level++
	focus.LastLevelUpAt = today

	if err := st.SaveCurrentFocus(user, *focus); err != nil {
		return nil, fmt.Errorf("save focus: %w", err)
	}

	// The accept always opens a fresh 7-day contract at the new target,
	// whether or not a prior contract row exists.
	prompts, err := p.carryPrompts(st, user)
	if err != nil {
		return nil, err
	}
	prompts.TimesAccepted++

	contract, err := p.acceptedContract(focus.HabitKey, today)
	if err != nil {
		return nil, err
	}
	contract.LevelUpPrompts = prompts
	if err := st.SaveCommitment(user, *contract); err != nil {
		return nil, fmt.Errorf("save renewed commitment: %w", err)
	}

	return focus, nil
}

// DeclineLevelUp records the reason and the chosen next step. try_different
// archives the current habit onto the habit stack and reopens selection.
func (p *Progression) DeclineLevelUp(st *sqlite.Store, user, today, reason string, next domain.DeclineNextStep) error {
	c, err := st.GetCommitment(user)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrNoCommitment
	}
	if err != nil {
		return err
	}
	c.LevelUpPrompts.TimesDeclined++
	if reason != "" {
		c.LevelUpPrompts.DeclineReasons = append(c.LevelUpPrompts.DeclineReasons, reason)
	}
	if err := st.SaveCommitment(user, *c); err != nil {
		return err
	}

	if next != domain.TryDifferent {
		return nil
	}

	focus, err := st.GetCurrentFocus(user)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	entry := domain.HabitStackEntry{
		HabitKey:   focus.HabitKey,
		Label:      focus.Label,
		Kind:       focus.Kind,
		Level:      focus.Level,
		Target:     focus.Target,
		ArchivedAt: today,
	}
	if err := st.PushHabitStack(user, entry); err != nil {
		return fmt.Errorf("archive habit: %w", err)
	}
	return st.DeleteCurrentFocus(user)
}
