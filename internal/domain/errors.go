package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// ErrNoAnchor means the account has no firstCheckinDate. Every windowed
	// calculation is fatal for that user: callers surface a toast and fall
	// back to 0% / ineligible, never crash.
	ErrNoAnchor = errors.New("no first check-in date recorded for account")

	// ErrNotFound covers absent documents that are a valid first-time state
	// (no focus habit, no commitment, no records yet).
	ErrNotFound = errors.New("document not found")

	// ErrRecordExists rejects a second submission for a date that already
	// has a record. Records are immutable once written.
	ErrRecordExists = errors.New("momentum record already exists for date")

	// ErrNoFocus means an operation needs a focus habit and none is set
	// (e.g. right after try_different reopened habit selection).
	ErrNoFocus = errors.New("no focus habit selected")

	// ErrNoCommitment means a commitment decision was requested while no
	// offer is outstanding.
	ErrNoCommitment = errors.New("no commitment offer outstanding")

	// ErrNotEligible rejects accepting a level-up that the eligibility
	// check did not clear.
	ErrNotEligible = errors.New("level-up not eligible")

	// ErrBadGrade rejects a behavior grade outside the four rating tiers.
	ErrBadGrade = errors.New("behavior grade must be 0, 50, 80 or 100")
)
