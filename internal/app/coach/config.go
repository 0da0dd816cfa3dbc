package coach

// Config names every tunable the engine uses. Values ship as defaults and
// can be overridden from the daemon's config file.
type Config struct {
	ConsistencyMaxWindow int `toml:"consistency_max_window"` // rolling window cap, days
	ConsistencyMinAge    int `toml:"consistency_min_age"`    // consistency reports 0 before this age
	ProvingHits          int `toml:"proving_hits"`           // primary-habit hits needed ("5 of 7")
	ProvingWindowDays    int `toml:"proving_window_days"`    // window for the hits
	PromptCooldownDays   int `toml:"prompt_cooldown_days"`   // min days between level-up prompts
	CommitmentDays       int `toml:"commitment_days"`        // length of the weekly contract
	SaverEveryDays       int `toml:"saver_every_days"`       // bank a streak saver every Nth day
	BreakGapDays         int `toml:"break_gap_days"`         // gap that counts as a return from break
}

// DefaultConfig returns the shipped tuning.
func DefaultConfig() Config {
	return Config{
		ConsistencyMaxWindow: 30,
		ConsistencyMinAge:    7,
		ProvingHits:          5,
		ProvingWindowDays:    7,
		PromptCooldownDays:   7,
		CommitmentDays:       7,
		SaverEveryDays:       7,
		BreakGapDays:         7,
	}
}
