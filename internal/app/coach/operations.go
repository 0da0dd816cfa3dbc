package coach

import (
	"errors"
	"fmt"

	"github.com/stride-coach/stride/internal/domain"
	"github.com/stride-coach/stride/internal/infra/metrics"
	"github.com/stride-coach/stride/internal/infra/sqlite"
)

// ─── Focus Habit ────────────────────────────────────────────────────────────

// FocusRequest selects a new focus habit. The habit kind is resolved here,
// once, and stored — never re-derived from the key later.
type FocusRequest struct {
	HabitKey string           `json:"habitKey"`
	Label    string           `json:"label"`
	Kind     domain.HabitKind `json:"kind"`
	Target   int              `json:"target"`
}

// SetFocus replaces the user's focus habit at level 1.
func (s *Service) SetFocus(user, today string, req FocusRequest) (*domain.CurrentFocus, error) {
	if req.HabitKey == "" {
		return nil, domain.ErrNoFocus
	}
	kind := req.Kind
	if !domain.KnownKind(kind) {
		kind = domain.HabitCustom
	}

	focus := domain.CurrentFocus{
		HabitKey:  req.HabitKey,
		Label:     req.Label,
		Kind:      kind,
		Level:     1,
		Target:    req.Target,
		StartedAt: today,
	}
	if err := s.db.SaveCurrentFocus(user, focus); err != nil {
		s.toasts.Notify(user, "Could not save your focus habit.", domain.ToastError)
		return nil, fmt.Errorf("save focus: %w", err)
	}
	s.toasts.Notify(user, "Focus habit set: "+focus.Label, domain.ToastSuccess)
	return &focus, nil
}

// ─── Summary ────────────────────────────────────────────────────────────────

// Summary is the read-model the UI renders after load.
type Summary struct {
	Date           string                      `json:"date"`
	Record         *domain.DailyMomentumRecord `json:"record,omitempty"`
	Consistency    int                         `json:"consistency"`
	Focus          *domain.CurrentFocus        `json:"focus,omitempty"`
	Commitment     *domain.Commitment          `json:"commitment,omitempty"`
	ShowCommitment bool                        `json:"showCommitment"`
	Eligibility    domain.Eligibility          `json:"eligibility"`
}

// Summarize builds the read-model for today. A missing anchor degrades to
// 0% consistency and an ineligible level-up, with the failure surfaced as a
// toast — the caller still gets a renderable summary.
func (s *Service) Summarize(user, today string) (*Summary, error) {
	out := &Summary{Date: today, Eligibility: domain.Eligibility{Outcome: domain.EligibilityTooNew}}
	st := s.db.Store

	if rec, err := st.GetMomentumRecord(user, today); err == nil {
		out.Record = rec
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	} else if last, err := st.LastRealRecord(user, today); err == nil {
		out.Record = last
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if focus, err := st.GetCurrentFocus(user); err == nil {
		out.Focus = focus
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	show, commitment, err := s.progress.ShowCommitment(st, user, today)
	if err != nil {
		return nil, err
	}
	out.ShowCommitment = show
	out.Commitment = commitment

	consistency, err := s.streaks.Consistency(st, user, today)
	switch {
	case errors.Is(err, domain.ErrNoAnchor):
		s.toasts.Notify(user, "We couldn't find your start date — stats reset to zero.", domain.ToastError)
	case err != nil:
		return nil, err
	default:
		out.Consistency = consistency
	}

	elig, err := s.progress.Eligibility(st, user, today)
	switch {
	case errors.Is(err, domain.ErrNoAnchor):
		// Already toasted above; stay ineligible.
	case err != nil:
		return nil, err
	default:
		out.Eligibility = elig
	}
	return out, nil
}

// History returns records (real and gap-fill) between two dates inclusive.
func (s *Service) History(user, from, to string) ([]domain.DailyMomentumRecord, error) {
	return s.db.RecordsInRange(user, from, to)
}

// ─── Commitment Decisions ───────────────────────────────────────────────────

// OfferCommitment surfaces a fresh contract offer for the focus habit.
func (s *Service) OfferCommitment(user, today string) (*domain.Commitment, error) {
	c, err := s.progress.OfferCommitment(s.db.Store, user, today)
	if err != nil {
		s.toasts.Notify(user, "Could not prepare your weekly commitment.", domain.ToastError)
		return nil, err
	}
	return c, nil
}

// AcceptCommitment accepts the outstanding offer and starts the 7-day window.
func (s *Service) AcceptCommitment(user, today string) (*domain.Commitment, error) {
	c, err := s.progress.AcceptCommitment(s.db.Store, user, today)
	if err != nil {
		s.toasts.Notify(user, "Could not accept the commitment.", domain.ToastError)
		return nil, err
	}
	metrics.CommitmentDecisions.WithLabelValues("accepted").Inc()
	s.toasts.Notify(user, "Committed: "+c.HabitKey+" for the next 7 days.", domain.ToastSuccess)
	return c, nil
}

// DeclineCommitment records the decline, optionally countering with a
// smaller or different habit.
func (s *Service) DeclineCommitment(user, reason, alternative string) (*domain.Commitment, error) {
	c, err := s.progress.DeclineCommitment(s.db.Store, user, reason, alternative)
	if err != nil {
		s.toasts.Notify(user, "Could not record your decision.", domain.ToastError)
		return nil, err
	}
	metrics.CommitmentDecisions.WithLabelValues("declined").Inc()
	if alternative != "" {
		s.toasts.Notify(user, "No problem — how about "+alternative+" instead?", domain.ToastInfo)
	} else {
		s.toasts.Notify(user, "Your decision was recorded.", domain.ToastInfo)
	}
	return c, nil
}

// ─── Level-Up Decisions ─────────────────────────────────────────────────────

// LevelUpStatus evaluates eligibility and, when the prompt can be shown,
// stamps the cooldown so it cannot resurface for another week.
func (s *Service) LevelUpStatus(user, today string) (domain.Eligibility, error) {
	st := s.db.Store
	elig, err := s.progress.Eligibility(st, user, today)
	if errors.Is(err, domain.ErrNoAnchor) {
		s.toasts.Notify(user, "We couldn't find your start date — level-up check skipped.", domain.ToastError)
		return domain.Eligibility{Outcome: domain.EligibilityTooNew}, nil
	}
	if err != nil {
		return elig, err
	}
	if elig.Eligible {
		if err := s.progress.MarkPromptShown(st, user, today); err != nil &&
			!errors.Is(err, domain.ErrNoCommitment) {
			return elig, err
		}
	}
	return elig, nil
}

// AcceptLevelUp raises the habit target and opens a new contract at it.
// Focus and commitment move together in one transaction.
func (s *Service) AcceptLevelUp(user, today string, req LevelUpRequest) (*domain.CurrentFocus, error) {
	var focus *domain.CurrentFocus
	err := s.db.WithTx(func(st *sqlite.Store) error {
		var err error
		focus, err = s.progress.AcceptLevelUp(st, user, today, req)
		return err
	})
	if err != nil {
		s.toasts.Notify(user, "Could not apply the level-up.", domain.ToastError)
		return nil, err
	}

	metrics.LevelUpDecisions.WithLabelValues("accepted").Inc()
	reward := LevelUpReward(*focus)
	metrics.RewardsFired.WithLabelValues(string(reward.Type)).Inc()
	s.toasts.Notify(user, reward.Title+" — "+reward.Message, domain.ToastSuccess)
	return focus, nil
}

// DeclineLevelUp records the reason and next step; try_different archives
// the habit and reopens selection.
func (s *Service) DeclineLevelUp(user, today, reason string, next domain.DeclineNextStep) error {
	err := s.db.WithTx(func(st *sqlite.Store) error {
		return s.progress.DeclineLevelUp(st, user, today, reason, next)
	})
	if err != nil {
		s.toasts.Notify(user, "Could not record your decision.", domain.ToastError)
		return err
	}
	metrics.LevelUpDecisions.WithLabelValues("declined").Inc()
	if next == domain.TryDifferent {
		s.toasts.Notify(user, "Habit archived — pick a new focus when you're ready.", domain.ToastInfo)
	} else {
		s.toasts.Notify(user, "Sticking with the current target. Good call.", domain.ToastInfo)
	}
	return nil
}
