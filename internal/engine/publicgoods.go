package engine

import (
	"github.com/talgya/dilemma-lab/internal/entropy"
	"github.com/talgya/dilemma-lab/internal/strategy"
)

// poolingEngine resolves public-goods rounds: every agent receives the
// endowment, contributes a share to the common pool, and the multiplied pool
// is redistributed per the configured policy.
type poolingEngine struct {
	endowment    float64
	multiplier   float64
	distribution string
	rng          *entropy.Source

	lastAvg      float64
	averageTrace []float64 // mean contribution per round
}

func newPoolingEngine(cfg *Config, rng *entropy.Source) *poolingEngine {
	p := cfg.Parameters
	return &poolingEngine{
		endowment:    p.Endowment,
		multiplier:   p.Multiplier,
		distribution: p.Distribution,
		rng:          rng,
	}
}

func (e *poolingEngine) Resolve(index int, agents []*agent) Round {
	round := Round{
		Index:       index,
		PerStrategy: make(map[string]float64),
	}
	for _, a := range agents {
		round.PerStrategy[string(a.kind)] = 0
	}

	ctx := strategy.PoolingContext{
		Endowment:   e.endowment,
		PrevAverage: e.lastAvg,
		Rand:        e.rng,
	}

	n := float64(len(agents))
	contributions := make([]float64, len(agents))
	pool := 0.0
	for i, a := range agents {
		c := strategy.DecidePooling(a.kind, a.state, ctx)
		a.state.RecordContribution(c)
		contributions[i] = c
		pool += c
		round.PerStrategy[string(a.kind)] += c
	}

	redistributed := pool * e.multiplier
	for i, a := range agents {
		var share float64
		switch {
		case e.distribution == DistributionProportional && pool > 0:
			share = contributions[i] / pool * redistributed
		case e.distribution == DistributionProportional:
			share = 0
		default:
			share = redistributed / n
		}

		round.Actions = append(round.Actions, AgentAction{
			AgentID:  a.id,
			Strategy: string(a.kind),
			Amount:   contributions[i],
			Payoff:   e.endowment - contributions[i] + share,
		})
	}

	round.TotalAmount = pool
	e.lastAvg = pool / n
	e.averageTrace = append(e.averageTrace, e.lastAvg)
	return round
}

func (e *poolingEngine) Finalize(res *Result, agents []*agent) {
	res.AverageContribution = append([]float64(nil), e.averageTrace...)
}
