package engine

import (
	"github.com/talgya/dilemma-lab/internal/resource"
	"github.com/talgya/dilemma-lab/internal/strategy"
)

// commonsEngine resolves tragedy-of-the-commons rounds. Agents propose
// harvests; proposals beyond what the pool holds are rationed down
// proportionally (never first-come priority); then the pool regenerates.
type commonsEngine struct {
	pool  *resource.Pool
	limit float64

	levels   []float64 // pool level trace, starting with the initial level
	harvests []float64 // total harvest per round
}

func newCommonsEngine(cfg *Config) *commonsEngine {
	pool := resource.New(cfg.Parameters.ResourceSize, cfg.Parameters.RegenerationRate)
	return &commonsEngine{
		pool:   pool,
		limit:  cfg.Parameters.HarvestLimit,
		levels: []float64{pool.Level},
	}
}

// shares computes the per-agent reference amounts strategies reason about:
// an even split of the pool and an even split of its expected regeneration,
// both clipped to the harvest limit.
func (e *commonsEngine) shares(agents int) (fairShare, sustainableShare float64) {
	n := float64(agents)
	fairShare = e.pool.Level / n
	if fairShare > e.limit {
		fairShare = e.limit
	}
	sustainableShare = e.pool.Level * e.pool.RegenerationRate / n
	if sustainableShare > e.limit {
		sustainableShare = e.limit
	}
	return fairShare, sustainableShare
}

func (e *commonsEngine) Resolve(index int, agents []*agent) Round {
	round := Round{
		Index:       index,
		PoolSize:    e.pool.Level,
		PerStrategy: make(map[string]float64),
	}
	for _, a := range agents {
		round.PerStrategy[string(a.kind)] = 0
	}

	fairShare, sustainableShare := e.shares(len(agents))
	ctx := strategy.HarvestContext{
		Pool:             e.pool.Level,
		Capacity:         e.pool.Capacity,
		RegenerationRate: e.pool.RegenerationRate,
		Limit:            e.limit,
		FairShare:        fairShare,
		SustainableShare: sustainableShare,
		Agents:           len(agents),
	}

	// First pass: collect proposals.
	proposals := make([]float64, len(agents))
	totalProposed := 0.0
	for i, a := range agents {
		proposals[i] = strategy.DecideHarvest(a.kind, a.state, ctx)
		totalProposed += proposals[i]
	}

	// Ration proportionally when the pool cannot cover the proposals.
	scale := 1.0
	if totalProposed > e.pool.Level && totalProposed > 0 {
		scale = e.pool.Level / totalProposed
	}

	total := 0.0
	for i, a := range agents {
		granted := proposals[i] * scale
		taken := e.pool.Extract(granted)
		total += taken

		round.Actions = append(round.Actions, AgentAction{
			AgentID:  a.id,
			Strategy: string(a.kind),
			Amount:   taken,
			Payoff:   taken, // commons score is the harvest itself
		})
		round.PerStrategy[string(a.kind)] += taken
	}

	round.TotalAmount = total
	round.Regeneration = e.pool.Regenerate()

	e.levels = append(e.levels, e.pool.Level)
	e.harvests = append(e.harvests, total)
	return round
}

func (e *commonsEngine) Finalize(res *Result, agents []*agent) {
	res.ResourceLevels = append([]float64(nil), e.levels...)
	res.HarvestLevels = append([]float64(nil), e.harvests...)
}
