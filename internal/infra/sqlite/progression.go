package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/stride-coach/stride/internal/domain"
)

// ─── Current Focus ──────────────────────────────────────────────────────────

// GetCurrentFocus loads the user's focus habit, or ErrNotFound.
func (s *Store) GetCurrentFocus(user string) (*domain.CurrentFocus, error) {
	var f domain.CurrentFocus
	var kind string
	err := s.q.QueryRow(
		`SELECT habit_key, label, kind, level, target, started_at,
		        last_level_up_at, consecutive_days, last_proven_target
		 FROM current_focus WHERE user_email = ?`, user,
	).Scan(&f.HabitKey, &f.Label, &kind, &f.Level, &f.Target, &f.StartedAt,
		&f.LastLevelUpAt, &f.ConsecutiveDays, &f.LastProvenTarget)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	f.Kind = domain.HabitKind(kind)
	return &f, nil
}

// SaveCurrentFocus upserts the singleton focus habit.
func (s *Store) SaveCurrentFocus(user string, f domain.CurrentFocus) error {
	_, err := s.q.Exec(
		`INSERT INTO current_focus (user_email, habit_key, label, kind, level, target,
		        started_at, last_level_up_at, consecutive_days, last_proven_target)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_email) DO UPDATE SET
		        habit_key=excluded.habit_key, label=excluded.label, kind=excluded.kind,
		        level=excluded.level, target=excluded.target, started_at=excluded.started_at,
		        last_level_up_at=excluded.last_level_up_at,
		        consecutive_days=excluded.consecutive_days,
		        last_proven_target=excluded.last_proven_target`,
		user, f.HabitKey, f.Label, string(f.Kind), f.Level, f.Target,
		f.StartedAt, f.LastLevelUpAt, f.ConsecutiveDays, f.LastProvenTarget,
	)
	return err
}

// DeleteCurrentFocus clears the focus habit (try_different reopens selection).
func (s *Store) DeleteCurrentFocus(user string) error {
	_, err := s.q.Exec(`DELETE FROM current_focus WHERE user_email = ?`, user)
	return err
}

// ─── Habit Stack ────────────────────────────────────────────────────────────

// PushHabitStack archives a habit the user set aside.
func (s *Store) PushHabitStack(user string, e domain.HabitStackEntry) error {
	_, err := s.q.Exec(
		`INSERT INTO habit_stack (user_email, habit_key, label, kind, level, target, archived_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user, e.HabitKey, e.Label, string(e.Kind), e.Level, e.Target, e.ArchivedAt,
	)
	return err
}

// ListHabitStack returns archived habits, most recent first.
func (s *Store) ListHabitStack(user string) ([]domain.HabitStackEntry, error) {
	rows, err := s.q.Query(
		`SELECT habit_key, label, kind, level, target, archived_at
		 FROM habit_stack WHERE user_email = ? ORDER BY id DESC`, user,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.HabitStackEntry
	for rows.Next() {
		var e domain.HabitStackEntry
		var kind string
		if err := rows.Scan(&e.HabitKey, &e.Label, &kind, &e.Level, &e.Target, &e.ArchivedAt); err != nil {
			return nil, err
		}
		e.Kind = domain.HabitKind(kind)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ─── Commitment ─────────────────────────────────────────────────────────────

// GetCommitment loads the singleton commitment, or ErrNotFound.
func (s *Store) GetCommitment(user string) (*domain.Commitment, error) {
	var c domain.Commitment
	var state, reasons string
	err := s.q.QueryRow(
		`SELECT habit_offered, habit_key, state, accepted, accepted_at, expires_at,
		        alternative_offered, alternative_accepted, decline_reason,
		        prompt_last_shown, prompt_times_offered, prompt_times_accepted,
		        prompt_times_declined, prompt_decline_reasons, celebrated
		 FROM commitments WHERE user_email = ?`, user,
	).Scan(&c.HabitOffered, &c.HabitKey, &state, &c.Accepted, &c.AcceptedAt, &c.ExpiresAt,
		&c.AlternativeOffered, &c.AlternativeAccepted, &c.DeclineReason,
		&c.LevelUpPrompts.LastShown, &c.LevelUpPrompts.TimesOffered,
		&c.LevelUpPrompts.TimesAccepted, &c.LevelUpPrompts.TimesDeclined,
		&reasons, &c.Celebrated)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.State = domain.CommitmentState(state)
	if err := json.Unmarshal([]byte(reasons), &c.LevelUpPrompts.DeclineReasons); err != nil {
		return nil, fmt.Errorf("decode decline reasons: %w", err)
	}
	return &c, nil
}

// SaveCommitment upserts the singleton commitment. A new contract fully
// replaces any expired one.
func (s *Store) SaveCommitment(user string, c domain.Commitment) error {
	reasons, err := json.Marshal(c.LevelUpPrompts.DeclineReasons)
	if err != nil {
		return fmt.Errorf("encode decline reasons: %w", err)
	}
	if c.LevelUpPrompts.DeclineReasons == nil {
		reasons = []byte("[]")
	}

	_, err = s.q.Exec(
		`INSERT INTO commitments (user_email, habit_offered, habit_key, state, accepted,
		        accepted_at, expires_at, alternative_offered, alternative_accepted,
		        decline_reason, prompt_last_shown, prompt_times_offered,
		        prompt_times_accepted, prompt_times_declined, prompt_decline_reasons, celebrated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_email) DO UPDATE SET
		        habit_offered=excluded.habit_offered, habit_key=excluded.habit_key,
		        state=excluded.state, accepted=excluded.accepted,
		        accepted_at=excluded.accepted_at, expires_at=excluded.expires_at,
		        alternative_offered=excluded.alternative_offered,
		        alternative_accepted=excluded.alternative_accepted,
		        decline_reason=excluded.decline_reason,
		        prompt_last_shown=excluded.prompt_last_shown,
		        prompt_times_offered=excluded.prompt_times_offered,
		        prompt_times_accepted=excluded.prompt_times_accepted,
		        prompt_times_declined=excluded.prompt_times_declined,
		        prompt_decline_reasons=excluded.prompt_decline_reasons,
		        celebrated=excluded.celebrated`,
		user, c.HabitOffered, c.HabitKey, string(c.State), c.Accepted,
		c.AcceptedAt, c.ExpiresAt, c.AlternativeOffered, c.AlternativeAccepted,
		c.DeclineReason, c.LevelUpPrompts.LastShown, c.LevelUpPrompts.TimesOffered,
		c.LevelUpPrompts.TimesAccepted, c.LevelUpPrompts.TimesDeclined,
		string(reasons), c.Celebrated,
	)
	return err
}

// MarkCommitmentCelebrated flips the celebrated flag once the 7-day window
// completed. State moves to completed_celebrated in the same write.
func (s *Store) MarkCommitmentCelebrated(user string) error {
	_, err := s.q.Exec(
		`UPDATE commitments SET celebrated = 1, state = ? WHERE user_email = ?`,
		string(domain.CommitmentCompleted), user,
	)
	return err
}
