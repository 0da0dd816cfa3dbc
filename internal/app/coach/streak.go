package coach

import (
	"errors"
	"fmt"
	"math"

	"github.com/stride-coach/stride/internal/domain"
	"github.com/stride-coach/stride/internal/infra/sqlite"
)

// StreakTracker maintains streak counters and rolling consistency, and
// synthesizes gap-fill records so windowed calculations never see holes.
type StreakTracker struct {
	cfg Config
}

// NewStreakTracker creates a tracker with the given tuning.
func NewStreakTracker(cfg Config) *StreakTracker {
	return &StreakTracker{cfg: cfg}
}

// ─── Gap Detection ──────────────────────────────────────────────────────────

// FillGaps synthesizes a gap_fill record for every fully-skipped calendar day
// between the last real check-in and today (exclusive on both ends). Safe to
// re-run: already-present dates are left alone. Returns the number of days
// filled.
func (t *StreakTracker) FillGaps(st *sqlite.Store, user, today string) (int, error) {
	last, err := st.LastRealRecord(user, today)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, nil // first-ever check-in, nothing behind us
	}
	if err != nil {
		return 0, fmt.Errorf("load last real record: %w", err)
	}

	meta, err := st.GetAccountMetadata(user)
	if err != nil {
		return 0, err
	}

	filled := 0
	day := last.Date
	prevMomentum := last.MomentumScore
	for {
		day, err = domain.AddDays(day, 1)
		if err != nil {
			return filled, err
		}
		if day >= today {
			return filled, nil
		}

		if existing, err := st.GetMomentumRecord(user, day); err == nil {
			prevMomentum = existing.MomentumScore
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			return filled, err
		}

		age, err := accountAge(meta.FirstCheckinDate, day)
		if err != nil {
			return filled, err
		}

		gap := domain.DailyMomentumRecord{
			Date:              day,
			AccountAgeDays:    age,
			BehaviorGrades:    []domain.BehaviorGrade{},
			DailyScore:        0,
			MomentumScore:     0,
			MomentumDelta:     -prevMomentum,
			MomentumTrend:     trendForDelta(-prevMomentum),
			TrendMessage:      TrendMessage(0, age),
			CheckinType:       domain.CheckinGapFill,
			Missed:            true,
			CurrentStreak:     0,
			LifetimeStreak:    last.LifetimeStreak,
			StreakSavers:      last.StreakSavers,
			TotalRealCheckIns: last.TotalRealCheckIns,
		}
		if err := st.InsertMomentumRecord(user, gap); err != nil {
			return filled, fmt.Errorf("insert gap fill %s: %w", day, err)
		}
		prevMomentum = 0
		filled++
	}
}

// ─── Streak Fields ──────────────────────────────────────────────────────────

// StreakFields is the streak state stamped onto a new real record.
type StreakFields struct {
	CurrentStreak     int
	LifetimeStreak    int
	StreakSavers      int
	TotalRealCheckIns int
	SaverConsumed     bool // a banked saver bridged yesterday's miss
}

// NextStreakFields computes the streak state for a real check-in on today.
// One fully-missed day is forgiven when a banked saver is available; two or
// more missed days always reset the current streak to 1.
func (t *StreakTracker) NextStreakFields(st *sqlite.Store, user, today string) (StreakFields, error) {
	// Count from the table, not from the previous record's counter, so the
	// milestone triggers can never drift off the stored history.
	total, err := st.TotalRealCheckIns(user)
	if err != nil {
		return StreakFields{}, fmt.Errorf("count real check-ins: %w", err)
	}

	prev, err := st.LastRealRecord(user, today)
	if errors.Is(err, domain.ErrNotFound) {
		return StreakFields{CurrentStreak: 1, LifetimeStreak: 1, TotalRealCheckIns: total + 1}, nil
	}
	if err != nil {
		return StreakFields{}, fmt.Errorf("load last real record: %w", err)
	}

	gapDays, err := domain.DaysBetween(prev.Date, today)
	if err != nil {
		return StreakFields{}, err
	}

	f := StreakFields{
		StreakSavers:      prev.StreakSavers,
		TotalRealCheckIns: total + 1,
	}

	switch {
	case gapDays <= 1:
		// Consecutive calendar day — extend.
		f.CurrentStreak = prev.CurrentStreak + 1

	case gapDays == 2 && prev.StreakSavers > 0:
		// Exactly one missed day — spend a banked saver to bridge it.
		f.CurrentStreak = prev.CurrentStreak + 1
		f.StreakSavers = prev.StreakSavers - 1
		f.SaverConsumed = true

	default:
		f.CurrentStreak = 1
	}

	// Every Nth consecutive real day banks a miss-forgiveness token.
	if f.CurrentStreak > 0 && f.CurrentStreak%t.cfg.SaverEveryDays == 0 {
		f.StreakSavers++
	}

	f.LifetimeStreak = prev.LifetimeStreak
	if f.CurrentStreak > f.LifetimeStreak {
		f.LifetimeStreak = f.CurrentStreak
	}
	return f, nil
}

// ─── Consistency ────────────────────────────────────────────────────────────

// Consistency returns the rolling consistency percentage for today.
// The window is min(accountAge, ConsistencyMaxWindow) days and ends yesterday
// unless today already has a real check-in — a day that is still possible to
// complete is never counted against the user. Reports 0 for accounts younger
// than ConsistencyMinAge. A missing anchor is fatal (ErrNoAnchor).
func (t *StreakTracker) Consistency(st *sqlite.Store, user, today string) (int, error) {
	meta, err := st.GetAccountMetadata(user)
	if err != nil {
		return 0, err
	}

	age, err := accountAge(meta.FirstCheckinDate, today)
	if err != nil {
		return 0, err
	}
	if age < t.cfg.ConsistencyMinAge {
		return 0, nil
	}

	windowSize := age
	if windowSize > t.cfg.ConsistencyMaxWindow {
		windowSize = t.cfg.ConsistencyMaxWindow
	}

	end := today
	if rec, err := st.GetMomentumRecord(user, today); err != nil || !rec.IsReal() {
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return 0, err
		}
		if end, err = domain.AddDays(today, -1); err != nil {
			return 0, err
		}
	}

	start, err := domain.AddDays(end, -(windowSize - 1))
	if err != nil {
		return 0, err
	}

	count, err := st.CountRealInRange(user, start, end)
	if err != nil {
		return 0, err
	}
	return int(math.Round(100 * float64(count) / float64(windowSize))), nil
}

// accountAge returns the 1-based account age on a given day.
func accountAge(firstCheckin, day string) (int, error) {
	if firstCheckin == "" {
		return 0, domain.ErrNoAnchor
	}
	days, err := domain.DaysBetween(firstCheckin, day)
	if err != nil {
		return 0, err
	}
	return days + 1, nil
}

func trendForDelta(delta int) domain.Trend {
	switch {
	case delta > 0:
		return domain.TrendUp
	case delta < 0:
		return domain.TrendDown
	}
	return domain.TrendStable
}
