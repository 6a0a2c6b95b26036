package engine

import (
	"github.com/talgya/dilemma-lab/internal/strategy"
)

// fundingEngine resolves free-rider-problem rounds. Agents contribute toward
// a shared project; when cumulative funds reach the threshold the project
// completes exactly once and every agent, contributor or not, receives the
// same benefit. Completion never ends the run early.
type fundingEngine struct {
	cost       float64
	multiplier float64
	threshold  float64 // absolute funding level for completion

	funding   float64
	completed bool
	lastAvg   float64 // previous round's mean contribution

	progress []float64 // funding as percent of cost, starting at 0
}

func newFundingEngine(cfg *Config) *fundingEngine {
	p := cfg.Parameters
	return &fundingEngine{
		cost:       p.ProjectCost,
		multiplier: p.BenefitMultiplier,
		threshold:  p.Threshold / 100 * p.ProjectCost,
		progress:   []float64{0},
	}
}

func (e *fundingEngine) Resolve(index int, agents []*agent) Round {
	round := Round{
		Index:       index,
		PerStrategy: make(map[string]float64),
	}
	for _, a := range agents {
		round.PerStrategy[string(a.kind)] = 0
	}

	n := float64(len(agents))
	fairShare := e.cost / n

	ctx := strategy.FundingContext{
		Funding:     e.funding,
		ProjectCost: e.cost,
		Threshold:   e.threshold,
		FairShare:   fairShare,
		PrevAverage: e.lastAvg,
	}

	total := 0.0
	for _, a := range agents {
		amount := 0.0
		if !e.completed {
			// A completed project needs no further funding; agents stop
			// contributing and the record shows zeros.
			amount = strategy.DecideFunding(a.kind, a.state, ctx)
		}
		a.state.RecordContribution(amount)
		total += amount

		round.Actions = append(round.Actions, AgentAction{
			AgentID:  a.id,
			Strategy: string(a.kind),
			Amount:   amount,
			Payoff:   -amount,
		})
		round.PerStrategy[string(a.kind)] += amount
	}

	e.funding += total
	e.lastAvg = total / n
	round.TotalAmount = total

	if !e.completed && e.funding >= e.threshold {
		e.completed = true
		benefit := e.multiplier * e.cost / n
		round.BenefitPerAgent = benefit
		for i := range round.Actions {
			round.Actions[i].Payoff += benefit
		}
	}

	e.progress = append(e.progress, e.funding/e.cost*100)
	return round
}

func (e *fundingEngine) Finalize(res *Result, agents []*agent) {
	res.FundingProgress = append([]float64(nil), e.progress...)
	res.ProjectCompleted = e.completed
}
