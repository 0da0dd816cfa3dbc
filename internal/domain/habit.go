package domain

// ─── Habit Kinds ────────────────────────────────────────────────────────────

// HabitKind is the closed set of habit categories. The kind is resolved once
// when a focus habit is chosen and stored, never re-derived from the key.
type HabitKind string

const (
	HabitMovement      HabitKind = "movement" // numeric target is minutes/day
	HabitHydration     HabitKind = "hydration"
	HabitProtein       HabitKind = "protein"
	HabitSleep         HabitKind = "sleep"
	HabitEatingPattern HabitKind = "eating_pattern"
	HabitCustom        HabitKind = "custom"
)

// KnownKind reports whether k is one of the closed variants.
func KnownKind(k HabitKind) bool {
	switch k {
	case HabitMovement, HabitHydration, HabitProtein, HabitSleep, HabitEatingPattern, HabitCustom:
		return true
	}
	return false
}

// ─── Current Focus ──────────────────────────────────────────────────────────

// CurrentFocus is the single habit the user is actively building.
// lastProvenTarget only advances after the user sustained a target at >=5/7.
type CurrentFocus struct {
	HabitKey         string    `json:"habitKey"`
	Label            string    `json:"label"`
	Kind             HabitKind `json:"kind"`
	Level            int       `json:"level"`
	Target           int       `json:"target"` // e.g. minutes/day for movement
	StartedAt        string    `json:"startedAt"`
	LastLevelUpAt    string    `json:"lastLevelUpAt,omitempty"`
	ConsecutiveDays  int       `json:"consecutiveDays"`
	LastProvenTarget int       `json:"lastProvenTarget"`
}

// HabitStackEntry archives a focus habit the user set aside via try_different.
type HabitStackEntry struct {
	HabitKey   string    `json:"habitKey"`
	Label      string    `json:"label"`
	Kind       HabitKind `json:"kind"`
	Level      int       `json:"level"`
	Target     int       `json:"target"`
	ArchivedAt string    `json:"archivedAt"`
}

// ─── Commitment ─────────────────────────────────────────────────────────────

// CommitmentState is the explicit finite-state view of the weekly contract.
type CommitmentState string

const (
	CommitmentNone               CommitmentState = "none"
	CommitmentOffered            CommitmentState = "offered"
	CommitmentAccepted           CommitmentState = "accepted"
	CommitmentDeclined           CommitmentState = "declined"
	CommitmentAlternativeOffered CommitmentState = "alternative_offered"
	CommitmentExpired            CommitmentState = "expired_renew"
	CommitmentCompleted          CommitmentState = "completed_celebrated"
)

// LevelUpPrompts tracks how often the level-up modal has been surfaced.
type LevelUpPrompts struct {
	LastShown      string   `json:"lastShown,omitempty"`
	TimesOffered   int      `json:"timesOffered"`
	TimesAccepted  int      `json:"timesAccepted"`
	TimesDeclined  int      `json:"timesDeclined"`
	DeclineReasons []string `json:"declineReasons,omitempty"`
}

// Commitment is the rolling 7-day contract to pursue the focus habit.
// expiresAt is always exactly 7 days after acceptedAt; an expired contract
// is fully replaced, never silently renewed.
type Commitment struct {
	HabitOffered        string          `json:"habitOffered"`
	HabitKey            string          `json:"habitKey"`
	State               CommitmentState `json:"state"`
	Accepted            bool            `json:"accepted"`
	AcceptedAt          string          `json:"acceptedAt,omitempty"`
	ExpiresAt           string          `json:"expiresAt,omitempty"`
	AlternativeOffered  string          `json:"alternativeOffered,omitempty"`
	AlternativeAccepted bool            `json:"alternativeAccepted"`
	DeclineReason       string          `json:"declineReason,omitempty"`
	LevelUpPrompts      LevelUpPrompts  `json:"levelUpPrompts"`
	Celebrated          bool            `json:"celebrated"`
}

// Active reports whether the contract is accepted and not yet expired on day.
func (c Commitment) Active(day string) bool {
	return c.Accepted && c.ExpiresAt != "" && day < c.ExpiresAt
}

// ExpiredOn reports whether day is on or after the contract's expiry.
func (c Commitment) ExpiredOn(day string) bool {
	return c.ExpiresAt != "" && day >= c.ExpiresAt
}

// ─── Level-Up Decision ──────────────────────────────────────────────────────

// EligibilityOutcome tells the caller why a level-up prompt can or cannot be
// shown. Cooldown-blocked is reported distinctly from insufficient hits so
// the UI can say "come back later" instead of "not yet".
type EligibilityOutcome string

const (
	EligibilityEligible      EligibilityOutcome = "eligible"
	EligibilityTooNew        EligibilityOutcome = "account_too_new"
	EligibilityNotEnoughHits EligibilityOutcome = "insufficient_hits"
	EligibilityCooldown      EligibilityOutcome = "cooldown_active"
	EligibilityNoFocus       EligibilityOutcome = "no_focus_habit"
)

// Eligibility is the result of a level-up eligibility check.
type Eligibility struct {
	Eligible bool               `json:"eligible"`
	Outcome  EligibilityOutcome `json:"outcome"`
	HitDays  int                `json:"hitDays"` // real primary-habit hits in the last 7 days
}

// DeclineNextStep is the user's chosen follow-up after declining a level-up.
type DeclineNextStep string

const (
	StickCurrent     DeclineNextStep = "stick_current"
	IncreaseSomeDays DeclineNextStep = "increase_some_days"
	TryDifferent     DeclineNextStep = "try_different"
)
