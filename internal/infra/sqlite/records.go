package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/stride-coach/stride/internal/domain"
)

const recordColumns = `date, account_age_days, behavior_grades, daily_score,
	momentum_score, momentum_delta, momentum_trend, trend_message,
	primary_habit_key, primary_done, checkin_type, missed,
	current_streak, lifetime_streak, streak_savers, total_real_checkins,
	exercise_completed, exercise_target_minutes, celebrated`

// InsertMomentumRecord writes a new daily record. Records are immutable:
// a second insert for the same (user, date) fails with ErrRecordExists.
func (s *Store) InsertMomentumRecord(user string, r domain.DailyMomentumRecord) error {
	grades, err := json.Marshal(r.BehaviorGrades)
	if err != nil {
		return fmt.Errorf("encode behavior grades: %w", err)
	}

	result, err := s.q.Exec(
		`INSERT OR IGNORE INTO momentum_records (user_email, `+recordColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user, r.Date, r.AccountAgeDays, string(grades), r.DailyScore,
		r.MomentumScore, r.MomentumDelta, string(r.MomentumTrend), r.TrendMessage,
		r.Primary.HabitKey, r.Primary.Done, string(r.CheckinType), r.Missed,
		r.CurrentStreak, r.LifetimeStreak, r.StreakSavers, r.TotalRealCheckIns,
		r.ExerciseCompleted, r.ExerciseTargetMinutes, r.Celebrated,
	)
	if err != nil {
		return fmt.Errorf("insert record %s: %w", r.Date, err)
	}

	// INSERT OR IGNORE reports zero rows when the date is already taken.
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrRecordExists
	}
	return nil
}

// GetMomentumRecord loads the record for a date, or ErrNotFound.
func (s *Store) GetMomentumRecord(user, date string) (*domain.DailyMomentumRecord, error) {
	row := s.q.QueryRow(
		`SELECT `+recordColumns+` FROM momentum_records
		 WHERE user_email = ? AND date = ?`, user, date,
	)
	return scanRecord(row)
}

// RecordsInRange returns records with from <= date <= to, ascending by date.
func (s *Store) RecordsInRange(user, from, to string) ([]domain.DailyMomentumRecord, error) {
	rows, err := s.q.Query(
		`SELECT `+recordColumns+` FROM momentum_records
		 WHERE user_email = ? AND date >= ? AND date <= ? ORDER BY date ASC`,
		user, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.DailyMomentumRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

// LastRealRecord returns the most recent real check-in strictly before date,
// or ErrNotFound if the user has never checked in before it.
func (s *Store) LastRealRecord(user, before string) (*domain.DailyMomentumRecord, error) {
	row := s.q.QueryRow(
		`SELECT `+recordColumns+` FROM momentum_records
		 WHERE user_email = ? AND checkin_type = ? AND date < ?
		 ORDER BY date DESC LIMIT 1`,
		user, string(domain.CheckinReal), before,
	)
	return scanRecord(row)
}

// CountRealInRange counts real check-ins with from <= date <= to.
func (s *Store) CountRealInRange(user, from, to string) (int, error) {
	var count int
	err := s.q.QueryRow(
		`SELECT COUNT(*) FROM momentum_records
		 WHERE user_email = ? AND checkin_type = ? AND date >= ? AND date <= ?`,
		user, string(domain.CheckinReal), from, to,
	).Scan(&count)
	return count, err
}

// TotalRealCheckIns returns the lifetime count of real check-ins.
func (s *Store) TotalRealCheckIns(user string) (int, error) {
	var count int
	err := s.q.QueryRow(
		`SELECT COUNT(*) FROM momentum_records
		 WHERE user_email = ? AND checkin_type = ?`,
		user, string(domain.CheckinReal),
	).Scan(&count)
	return count, err
}

// MarkRecordCelebrated sets the celebrated flag — the only mutation a record
// sees after it is written.
func (s *Store) MarkRecordCelebrated(user, date string) error {
	_, err := s.q.Exec(
		`UPDATE momentum_records SET celebrated = 1 WHERE user_email = ? AND date = ?`,
		user, date,
	)
	return err
}

// ─── Account Metadata ───────────────────────────────────────────────────────

// GetAccountMetadata loads the account anchor, or ErrNoAnchor.
func (s *Store) GetAccountMetadata(user string) (*domain.AccountMetadata, error) {
	var meta domain.AccountMetadata
	err := s.q.QueryRow(
		`SELECT first_checkin_date FROM account_metadata WHERE user_email = ?`, user,
	).Scan(&meta.FirstCheckinDate)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNoAnchor
	}
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// SetFirstCheckinDate writes the anchor once. Later calls are no-ops so the
// anchor can never move.
func (s *Store) SetFirstCheckinDate(user, date string) error {
	_, err := s.q.Exec(
		`INSERT OR IGNORE INTO account_metadata (user_email, first_checkin_date)
		 VALUES (?, ?)`, user, date,
	)
	return err
}

// ─── Scanners ───────────────────────────────────────────────────────────────

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*domain.DailyMomentumRecord, error) {
	var r domain.DailyMomentumRecord
	var grades, trend, checkinType string
	err := s.Scan(
		&r.Date, &r.AccountAgeDays, &grades, &r.DailyScore,
		&r.MomentumScore, &r.MomentumDelta, &trend, &r.TrendMessage,
		&r.Primary.HabitKey, &r.Primary.Done, &checkinType, &r.Missed,
		&r.CurrentStreak, &r.LifetimeStreak, &r.StreakSavers, &r.TotalRealCheckIns,
		&r.ExerciseCompleted, &r.ExerciseTargetMinutes, &r.Celebrated,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(grades), &r.BehaviorGrades); err != nil {
		return nil, fmt.Errorf("decode behavior grades for %s: %w", r.Date, err)
	}
	r.MomentumTrend = domain.Trend(trend)
	r.CheckinType = domain.CheckinType(checkinType)
	return &r, nil
}
