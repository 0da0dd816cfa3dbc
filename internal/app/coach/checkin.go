package coach

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/stride-coach/stride/internal/domain"
	"github.com/stride-coach/stride/internal/infra/metrics"
	"github.com/stride-coach/stride/internal/infra/sqlite"
)

// WeeklyTrigger starts generation of the weekly coaching narrative.
type WeeklyTrigger interface {
	TriggerWeekly(ctx context.Context, email, weekID string) error
}

// Service is the engine's single entry point for the check-in path.
// Submit runs record creation, streak update, commitment bookkeeping and
// reward resolution as one transaction per user — two overlapping
// submissions can no longer interleave into an inconsistent streak or a
// doubled reward.
type Service struct {
	db        *sqlite.DB
	cfg       Config
	streaks   *StreakTracker
	progress  *Progression
	rewards   *Rewards
	toasts    *Toaster
	narrative WeeklyTrigger // nil disables the weekly trigger
	log       *logrus.Entry
}

// NewService wires the engine components.
func NewService(db *sqlite.DB, cfg Config, toasts *Toaster, narrative WeeklyTrigger, log *logrus.Entry) *Service {
	return &Service{
		db:        db,
		cfg:       cfg,
		streaks:   NewStreakTracker(cfg),
		progress:  NewProgression(cfg),
		rewards:   NewRewards(cfg),
		toasts:    toasts,
		narrative: narrative,
		log:       log,
	}
}

// Progression exposes the commitment / level-up state machine.
func (s *Service) Progression() *Progression { return s.progress }

// Streaks exposes the streak and consistency tracker.
func (s *Service) Streaks() *StreakTracker { return s.streaks }

// Toasts exposes the toast sink.
func (s *Service) Toasts() *Toaster { return s.toasts }

// DB exposes the store for read-only callers (API handlers, CLI).
func (s *Service) DB() *sqlite.DB { return s.db }

// ─── Check-in Submission ────────────────────────────────────────────────────

// CheckinRequest is one day's behavior input.
type CheckinRequest struct {
	Date              string                 `json:"date"` // YYYY-MM-DD
	BehaviorGrades    []domain.BehaviorGrade `json:"behaviorGrades"`
	PrimaryDone       bool                   `json:"primaryDone"`
	ExerciseCompleted bool                   `json:"exerciseCompleted"`
}

// CheckinResult is everything the UI needs after a submission.
type CheckinResult struct {
	Record         domain.DailyMomentumRecord `json:"record"`
	Reward         *domain.Reward             `json:"reward,omitempty"`
	Consistency    int                        `json:"consistency"`
	GapDaysFilled  int                        `json:"gapDaysFilled"`
	SaverConsumed  bool                       `json:"saverConsumed"`
	ShowCommitment bool                       `json:"showCommitment"`
}

// Submit processes one check-in: anchor the account if this is the first
// ever, synthesize gap fills, score the day, stamp streak fields, persist
// the record, bootstrap the first commitment, and resolve the reward.
// Everything commits atomically; the toast reflects the outcome either way.
func (s *Service) Submit(ctx context.Context, user string, req CheckinRequest) (*CheckinResult, error) {
	if _, err := domain.ParseDate(req.Date); err != nil {
		s.toasts.Notify(user, "Check-in failed: invalid date.", domain.ToastError)
		return nil, err
	}
	for _, g := range req.BehaviorGrades {
		if !g.Valid() {
			s.toasts.Notify(user, "Check-in failed: unknown behavior grade.", domain.ToastError)
			return nil, fmt.Errorf("%s: %w", g.Name, domain.ErrBadGrade)
		}
	}

	var (
		result         CheckinResult
		commitmentDone bool
		narrativeWeek  string
	)

	err := s.db.WithTx(func(st *sqlite.Store) error {
		// First-ever check-in writes the anchor; later calls are no-ops.
		if err := st.SetFirstCheckinDate(user, req.Date); err != nil {
			return fmt.Errorf("set anchor: %w", err)
		}
		meta, err := st.GetAccountMetadata(user)
		if err != nil {
			return err
		}
		age, err := accountAge(meta.FirstCheckinDate, req.Date)
		if err != nil {
			return err
		}

		// Complete the calendar before today so no window sees a hole.
		filled, err := s.streaks.FillGaps(st, user, req.Date)
		if err != nil {
			return fmt.Errorf("gap fill: %w", err)
		}
		result.GapDaysFilled = filled

		// Gap to the previous real check-in (for return_from_break).
		gapDays := 0
		if last, err := st.LastRealRecord(user, req.Date); err == nil {
			if gapDays, err = domain.DaysBetween(last.Date, req.Date); err != nil {
				return err
			}
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		// Yesterday's momentum drives today's delta and trend.
		prevMomentum, hasPrev := 0, false
		if yesterday, err := domain.AddDays(req.Date, -1); err == nil {
			if prev, err := st.GetMomentumRecord(user, yesterday); err == nil {
				prevMomentum, hasPrev = prev.MomentumScore, true
			} else if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
		}

		score := ScoreDay(req.BehaviorGrades, age, prevMomentum, hasPrev)
		fields, err := s.streaks.NextStreakFields(st, user, req.Date)
		if err != nil {
			return err
		}
		result.SaverConsumed = fields.SaverConsumed

		record := domain.DailyMomentumRecord{
			Date:              req.Date,
			AccountAgeDays:    age,
			BehaviorGrades:    req.BehaviorGrades,
			DailyScore:        score.DailyScore,
			MomentumScore:     score.MomentumScore,
			MomentumDelta:     score.MomentumDelta,
			MomentumTrend:     score.MomentumTrend,
			TrendMessage:      score.TrendMessage,
			CheckinType:       domain.CheckinReal,
			CurrentStreak:     fields.CurrentStreak,
			LifetimeStreak:    fields.LifetimeStreak,
			StreakSavers:      fields.StreakSavers,
			TotalRealCheckIns: fields.TotalRealCheckIns,
		}

		focus, err := st.GetCurrentFocus(user)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if focus != nil {
			record.Primary = domain.PrimaryResult{HabitKey: focus.HabitKey, Done: req.PrimaryDone}
			if focus.Kind == domain.HabitMovement {
				record.ExerciseTargetMinutes = focus.Target
				record.ExerciseCompleted = req.ExerciseCompleted
			}
		}

		if err := st.InsertMomentumRecord(user, record); err != nil {
			return err
		}

		// Keep the focus habit's consecutive-day counter current.
		if focus != nil {
			if req.PrimaryDone {
				focus.ConsecutiveDays++
			} else {
				focus.ConsecutiveDays = 0
			}
			if err := st.SaveCurrentFocus(user, *focus); err != nil {
				return err
			}
		}

		// The very first real check-in opens a pre-accepted contract.
		if fields.TotalRealCheckIns == 1 && focus != nil {
			if _, err := s.progress.BootstrapCommitment(st, user, req.Date); err != nil &&
				!errors.Is(err, domain.ErrNoFocus) {
				return err
			}
		}

		commitment, err := st.GetCommitment(user)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		reward := s.rewards.Resolve(RewardContext{
			Record:     record,
			Commitment: commitment,
			GapDays:    gapDays,
			Today:      req.Date,
		})
		if reward != nil && reward.Type == domain.RewardCommitmentComplete {
			// The only post-write mutation: mark the celebration exactly once.
			if err := st.MarkCommitmentCelebrated(user); err != nil {
				return err
			}
			if err := st.MarkRecordCelebrated(user, req.Date); err != nil {
				return err
			}
			record.Celebrated = true
			commitmentDone = true
			if narrativeWeek, err = domain.ISOWeek(req.Date); err != nil {
				return err
			}
		}
		result.Reward = reward
		result.Record = record

		if result.Consistency, err = s.streaks.Consistency(st, user, req.Date); err != nil {
			return err
		}
		show, _, err := s.progress.ShowCommitment(st, user, req.Date)
		if err != nil {
			return err
		}
		result.ShowCommitment = show

		// Outcome toasts commit or roll back with the check-in they describe.
		if result.SaverConsumed {
			s.toasts.NotifyTx(st, user, "A streak saver covered your missed day.", domain.ToastInfo)
		}
		if reward != nil {
			s.toasts.NotifyTx(st, user, reward.Title+" — "+reward.Message, domain.ToastSuccess)
		} else {
			s.toasts.NotifyTx(st, user, "Check-in saved.", domain.ToastSuccess)
		}
		return nil
	})

	if err != nil {
		metrics.CheckinsSubmitted.WithLabelValues("error").Inc()
		if errors.Is(err, domain.ErrRecordExists) {
			s.toasts.Notify(user, "Already checked in today.", domain.ToastInfo)
		} else {
			s.toasts.Notify(user, "Check-in failed. Please try again.", domain.ToastError)
		}
		return nil, err
	}

	s.recordOutcome(user, &result)

	// The weekly narrative is an external collaborator; its failure never
	// fails the check-in that triggered it.
	if commitmentDone && s.narrative != nil {
		if err := s.narrative.TriggerWeekly(ctx, user, narrativeWeek); err != nil {
			s.log.WithError(err).WithField("user", user).Warn("weekly narrative trigger failed")
			s.toasts.Notify(user, "Your weekly recap will arrive a little late.", domain.ToastInfo)
		}
	}

	return &result, nil
}

// recordOutcome emits metrics and the log line for a committed check-in.
// The outcome toasts are queued inside the transaction itself.
func (s *Service) recordOutcome(user string, result *CheckinResult) {
	metrics.CheckinsSubmitted.WithLabelValues("ok").Inc()
	metrics.GapDaysFilled.Add(float64(result.GapDaysFilled))
	if result.SaverConsumed {
		metrics.StreakSaversSpent.Inc()
	}
	if result.Reward != nil {
		metrics.RewardsFired.WithLabelValues(string(result.Reward.Type)).Inc()
	}

	s.log.WithFields(logrus.Fields{
		"user":     user,
		"date":     result.Record.Date,
		"momentum": result.Record.MomentumScore,
		"streak":   result.Record.CurrentStreak,
	}).Info("check-in recorded")
}
