package strategy

import (
	"github.com/talgya/dilemma-lab/internal/entropy"
)

// adaptiveWindow is how many recent opponent moves the adaptive kind samples.
const adaptiveWindow = 5

// MatrixContext carries everything a matrix-game strategy may observe when
// deciding. Strategies never see the resource or other agents directly; the
// rule engine feeds them this snapshot.
type MatrixContext struct {
	// Round is the 1-based round index.
	Round int

	// Satisfaction is the payoff at or above which pavlov keeps its last
	// move (the reward payoff R).
	Satisfaction float64

	// Rand is the run's deterministic randomness source.
	Rand *entropy.Source
}

// DecideMatrix returns the next move for a matrix-game strategy. It may
// mutate st (grudger's trigger); it never touches shared state.
func DecideMatrix(k Kind, st *State, ctx MatrixContext) Move {
	switch k {
	case KindAlwaysCooperate:
		return MoveCooperate

	case KindAlwaysDefect:
		return MoveDefect

	case KindTitForTat:
		if len(st.Opponent) == 0 {
			return MoveCooperate
		}
		return st.Opponent[len(st.Opponent)-1]

	case KindTitForTwoTats:
		// Defects only after two consecutive defections.
		n := len(st.Opponent)
		if n < 2 {
			return MoveCooperate
		}
		if st.Opponent[n-1] == MoveDefect && st.Opponent[n-2] == MoveDefect {
			return MoveDefect
		}
		return MoveCooperate

	case KindTwoTitsForTat:
		// Punishes a single defection with two defections.
		n := len(st.Opponent)
		if n == 0 {
			return MoveCooperate
		}
		if st.Opponent[n-1] == MoveDefect {
			return MoveDefect
		}
		if n >= 2 && st.Opponent[n-2] == MoveDefect {
			return MoveDefect
		}
		return MoveCooperate

	case KindGrudger:
		if st.Betrayed {
			return MoveDefect
		}
		if len(st.Opponent) > 0 && st.Opponent[len(st.Opponent)-1] == MoveDefect {
			st.Betrayed = true // irrevocable
			return MoveDefect
		}
		return MoveCooperate

	case KindPavlov:
		// Win-stay, lose-shift: repeat the last move if it earned at least
		// the satisfaction payoff, otherwise switch.
		if len(st.Own) == 0 {
			return MoveCooperate
		}
		last := st.Own[len(st.Own)-1]
		if st.LastPayoff >= ctx.Satisfaction {
			return last
		}
		if last == MoveCooperate {
			return MoveDefect
		}
		return MoveCooperate

	case KindRandom:
		if ctx.Rand.Float() < 0.5 {
			return MoveCooperate
		}
		return MoveDefect

	case KindAdaptive:
		// Reciprocate the recent trend: cooperate while opponents have
		// mostly cooperated over the rolling window, defect once they
		// have not.
		n := len(st.Opponent)
		if n == 0 {
			return MoveCooperate
		}
		start := n - adaptiveWindow
		if start < 0 {
			start = 0
		}
		coop := 0
		for _, m := range st.Opponent[start:] {
			if m == MoveCooperate {
				coop++
			}
		}
		if float64(coop)/float64(n-start) >= 0.5 {
			return MoveCooperate
		}
		return MoveDefect

	default:
		// Unknown kinds are rejected at configuration time; defecting here
		// keeps the engine total if that guarantee is ever violated.
		return MoveDefect
	}
}
