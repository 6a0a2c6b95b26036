package engine

import (
	"fmt"

	"github.com/talgya/dilemma-lab/internal/entropy"
	"github.com/talgya/dilemma-lab/internal/strategy"
)

// agent is one participant in a run. Identity is stable for the run and keys
// the per-round records. The strategy memory lives in state and is mutated
// only through the strategy package's Decide functions.
type agent struct {
	id    string
	kind  strategy.Kind
	state *strategy.State
}

// buildAgents creates one agent per configured count, in sorted kind order so
// agent identity and decision order are reproducible. IDs follow the
// "<kind>_<n>" convention the display layer keys its series on.
func buildAgents(cfg *Config, src *entropy.Source) []*agent {
	var out []*agent
	for _, kind := range cfg.sortedKinds() {
		count := cfg.Strategies[kind]
		for i := 1; i <= count; i++ {
			out = append(out, &agent{
				id:    fmt.Sprintf("%s_%d", kind, i),
				kind:  kind,
				state: strategy.NewState(kind, src),
			})
		}
	}
	return out
}
