package compliance

import "time"

// CategoryStats describes one category automaton.
type CategoryStats struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Words int    `json:"words"`
	Nodes int    `json:"nodes"`
}

// Stats contains runtime in-memory checker metrics.
type Stats struct {
	State        State           `json:"-"`
	StateName    string          `json:"state"`
	Categories   []CategoryStats `json:"categories"`
	TotalWords   int             `json:"total_words"`
	TotalChecks  int64           `json:"total_checks"`
	TotalFailed  int64           `json:"total_failed"`
	TotalSkipped int64           `json:"total_skipped"`
	TotalMatches int64           `json:"total_matches"`
	LastCheck    time.Duration   `json:"last_check_ns"`
	BuildTime    time.Duration   `json:"build_ns"`
	BuiltAt      time.Time       `json:"built_at,omitzero"`
}

// Stats returns a snapshot of the checker metrics. It does not trigger
// the lexicon load; call Warm first to include category details.
func (c *Checker) Stats() Stats {
	st := Stats{
		State:        c.State(),
		Categories:   make([]CategoryStats, 0),
		TotalChecks:  c.totalChecks.Load(),
		TotalFailed:  c.totalFailed.Load(),
		TotalSkipped: c.totalSkipped.Load(),
		TotalMatches: c.totalMatches.Load(),
		LastCheck:    time.Duration(c.lastCheckNanos.Load()),
		BuildTime:    time.Duration(c.buildNanos.Load()),
	}
	st.StateName = st.State.String()
	if at := c.lastBuildAtUnix.Load(); at > 0 {
		st.BuiltAt = time.Unix(at, 0)
	}
	if st.State != StateReady {
		return st
	}
	for _, s := range c.scanners {
		st.Categories = append(st.Categories, CategoryStats{
			ID:    s.id,
			Name:  c.names[s.id],
			Words: s.automaton.Len(),
			Nodes: s.automaton.Nodes(),
		})
		st.TotalWords += s.automaton.Len()
	}
	return st
}
