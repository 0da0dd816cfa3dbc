// Package domain holds the core types of the Stride momentum engine.
// All records are scoped to a single user and keyed by YYYY-MM-DD date
// strings; field names match the wire format of the existing record store.
package domain

// ─── Behavior Grades ────────────────────────────────────────────────────────

// Grade tiers for a single behavior on a single day.
const (
	GradeOff      = 0   // skipped entirely
	GradeNotGreat = 50  // attempted, fell short
	GradeSolid    = 80  // hit the behavior
	GradeElite    = 100 // exceeded the behavior
)

// BehaviorGrade is one behavior's rating for the day.
type BehaviorGrade struct {
	Name  string `json:"name"`
	Grade int    `json:"grade"`
}

// Valid reports whether the grade is one of the four rating tiers.
func (b BehaviorGrade) Valid() bool {
	switch b.Grade {
	case GradeOff, GradeNotGreat, GradeSolid, GradeElite:
		return true
	}
	return false
}

// Behavior names tracked by the check-in form. EnergyBalance carries the
// "normal" day marker and EatingPattern the "meals" marker.
const (
	BehaviorProtein       = "protein"
	BehaviorHydration     = "hydration"
	BehaviorSleep         = "sleep"
	BehaviorMovement      = "movement"
	BehaviorEnergyBalance = "energy_balance"
	BehaviorEatingPattern = "eating_pattern"
)

// PerfectDayBehaviors is the set a check-in must satisfy, along with the
// primary habit, for the perfect_day reward.
var PerfectDayBehaviors = []string{
	BehaviorProtein,
	BehaviorHydration,
	BehaviorSleep,
	BehaviorMovement,
	BehaviorEnergyBalance,
	BehaviorEatingPattern,
}

// ─── Daily Record ───────────────────────────────────────────────────────────

// CheckinType distinguishes user-submitted records from synthesized ones.
type CheckinType string

const (
	CheckinReal    CheckinType = "real"     // user pressed submit
	CheckinGapFill CheckinType = "gap_fill" // synthesized for a skipped day
)

// Trend direction for the momentum score relative to the prior day.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// PrimaryResult records whether the current focus habit was satisfied.
type PrimaryResult struct {
	HabitKey string `json:"habitKey"`
	Done     bool   `json:"done"`
}

// DailyMomentumRecord is one user-day. Exactly one exists per calendar date;
// it is immutable once written except for the celebrated flag.
type DailyMomentumRecord struct {
	Date           string          `json:"date"`
	AccountAgeDays int             `json:"accountAgeDays"` // 1 on first-ever check-in
	BehaviorGrades []BehaviorGrade `json:"behaviorGrades"`
	DailyScore     int             `json:"dailyScore"`    // mean of grades, 0-100
	MomentumScore  int             `json:"momentumScore"` // dailyScore after the unlock ramp
	MomentumDelta  int             `json:"momentumDelta"`
	MomentumTrend  Trend           `json:"momentumTrend"`
	TrendMessage   string          `json:"trendMessage"`
	Primary        PrimaryResult   `json:"primary"`
	CheckinType    CheckinType     `json:"checkinType"`
	Missed         bool            `json:"missed"` // true only on gap_fill records

	CurrentStreak     int `json:"currentStreak"`
	LifetimeStreak    int `json:"lifetimeStreak"`
	StreakSavers      int `json:"streakSavers"`
	TotalRealCheckIns int `json:"totalRealCheckIns"`

	// Only meaningful for movement-type habits.
	ExerciseCompleted     bool `json:"exerciseCompleted"`
	ExerciseTargetMinutes int  `json:"exerciseTargetMinutes"`

	Celebrated bool `json:"celebrated"`
}

// IsReal reports whether this record came from an actual submission.
func (r DailyMomentumRecord) IsReal() bool {
	return r.CheckinType == CheckinReal
}

// AccountMetadata anchors every windowed calculation.
// firstCheckinDate is written once and never mutated.
type AccountMetadata struct {
	FirstCheckinDate string `json:"firstCheckinDate"`
}
