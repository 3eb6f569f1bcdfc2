package bootstrap

import (
	"fmt"
	"strings"

	"github.com/groundworklabs/groundwork/internal/step"
)

// PlanEntry describes one step of the sequence without executing it.
type PlanEntry struct {
	Name   string
	Detail string
}

// Plan returns the resolved sequence in execution order.
func (s *Sequence) Plan() []PlanEntry {
	entries := make([]PlanEntry, len(s.steps))
	for i, st := range s.steps {
		entry := PlanEntry{Name: st.Name()}
		if d, ok := st.(step.Detailer); ok {
			entry.Detail = d.Detail()
		}
		entries[i] = entry
	}
	return entries
}

// RenderPlan formats the plan for terminal output, one numbered line per
// step.
func (s *Sequence) RenderPlan() string {
	var b strings.Builder
	for i, entry := range s.Plan() {
		fmt.Fprintf(&b, "%d. %-22s %s\n", i+1, entry.Name, entry.Detail)
	}
	return b.String()
}
