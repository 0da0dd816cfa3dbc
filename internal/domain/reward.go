package domain

// ─── Rewards ────────────────────────────────────────────────────────────────

// RewardType identifies a celebratory event. At most one fires per check-in.
type RewardType string

const (
	RewardCommitmentComplete RewardType = "commitment_complete"
	RewardReturnFromBreak    RewardType = "return_from_break"
	RewardMilestone100       RewardType = "milestone_100"
	RewardMilestone50        RewardType = "milestone_50"
	RewardStreak30           RewardType = "streak_30"
	RewardStreak21           RewardType = "streak_21"
	RewardStreak7            RewardType = "streak_7"
	RewardStreak3            RewardType = "streak_3"
	RewardPerfectDay         RewardType = "perfect_day"

	// RewardLevelUp fires immediately on accepting a level-up and bypasses
	// the precedence list entirely.
	RewardLevelUp RewardType = "level_up"
)

// Reward is the single celebratory event selected after a check-in.
type Reward struct {
	Type    RewardType `json:"type"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
}

// ─── Toasts ─────────────────────────────────────────────────────────────────

// ToastType classifies a user-facing message.
type ToastType string

const (
	ToastSuccess ToastType = "success"
	ToastInfo    ToastType = "info"
	ToastError   ToastType = "error"
)

// Toast is a short user-facing message. Every success and failure path
// produces one; the engine is never silent.
type Toast struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Type      ToastType `json:"type"`
	CreatedAt int64     `json:"createdAt"`
	Shown     bool      `json:"shown"`
}

// Notifier is the sink every outcome is reported to.
type Notifier interface {
	Notify(user, message string, kind ToastType)
}
