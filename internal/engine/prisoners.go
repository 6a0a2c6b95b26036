package engine

import (
	"github.com/talgya/dilemma-lab/internal/entropy"
	"github.com/talgya/dilemma-lab/internal/strategy"
)

// matrixEngine resolves prisoner's-dilemma-family rounds: it pairs agents,
// collects moves, applies the payoff matrix, and records the interactions.
type matrixEngine struct {
	payoffs Payoffs
	pairing Pairing
	rng     *entropy.Source
}

func newMatrixEngine(cfg *Config, rng *entropy.Source) *matrixEngine {
	return &matrixEngine{
		payoffs: *cfg.Payoffs,
		pairing: cfg.Pairing,
		rng:     rng,
	}
}

// score applies the T/R/P/S matrix to one pair of moves.
func (e *matrixEngine) score(a, b strategy.Move) (float64, float64) {
	switch {
	case a == strategy.MoveCooperate && b == strategy.MoveCooperate:
		return e.payoffs.R, e.payoffs.R
	case a == strategy.MoveCooperate && b == strategy.MoveDefect:
		return e.payoffs.S, e.payoffs.T
	case a == strategy.MoveDefect && b == strategy.MoveCooperate:
		return e.payoffs.T, e.payoffs.S
	default:
		return e.payoffs.P, e.payoffs.P
	}
}

// pairs returns the agent index pairs for one round. Round-robin yields every
// unordered pair in a fixed order; random pairing shuffles the roster with
// the run's seeded source and pairs neighbors, leaving an odd agent out.
func (e *matrixEngine) pairs(n int) [][2]int {
	if e.pairing == PairingRandom {
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		e.rng.Shuffle(n, func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		out := make([][2]int, 0, n/2)
		for i := 0; i+1 < n; i += 2 {
			out = append(out, [2]int{order[i], order[i+1]})
		}
		return out
	}

	out := make([][2]int, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, [2]int{i, j})
		}
	}
	return out
}

func (e *matrixEngine) Resolve(index int, agents []*agent) Round {
	round := Round{
		Index:       index,
		PerStrategy: make(map[string]float64),
	}
	for _, a := range agents {
		round.PerStrategy[string(a.kind)] = 0
	}

	ctx := strategy.MatrixContext{
		Round:        index,
		Satisfaction: e.payoffs.R,
		Rand:         e.rng,
	}

	for _, p := range e.pairs(len(agents)) {
		a, b := agents[p[0]], agents[p[1]]

		moveA := strategy.DecideMatrix(a.kind, a.state, ctx)
		moveB := strategy.DecideMatrix(b.kind, b.state, ctx)
		scoreA, scoreB := e.score(moveA, moveB)

		a.state.RecordInteraction(moveA, moveB, scoreA)
		b.state.RecordInteraction(moveB, moveA, scoreB)

		round.PerStrategy[string(a.kind)] += scoreA
		round.PerStrategy[string(b.kind)] += scoreB

		round.Interactions = append(round.Interactions, Interaction{
			AgentA: a.id,
			AgentB: b.id,
			MoveA:  moveA.String(),
			MoveB:  moveB.String(),
			ScoreA: scoreA,
			ScoreB: scoreB,
		})
	}

	return round
}

func (e *matrixEngine) Finalize(res *Result, agents []*agent) {
	// The matrix family has no resource traces; round records carry
	// everything.
}
