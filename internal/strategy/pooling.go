package strategy

import (
	"github.com/talgya/dilemma-lab/internal/entropy"
)

// PoolingContext is the snapshot a public-goods strategy sees before deciding
// how much of its endowment to put into the common pool.
type PoolingContext struct {
	// Endowment is the per-round allowance every agent receives.
	Endowment float64

	// PrevAverage is the mean contribution across all agents in the
	// previous round (0 in round 1).
	PrevAverage float64

	// Rand is the run's deterministic randomness source.
	Rand *entropy.Source
}

// DecidePooling returns the amount a public-goods strategy contributes this
// round, clamped to [0, Endowment].
func DecidePooling(k Kind, st *State, ctx PoolingContext) float64 {
	var amount float64
	switch k {
	case KindFullContributor:
		amount = ctx.Endowment

	case KindZeroContributor:
		return 0

	case KindRandomContributor:
		amount = ctx.Endowment * ctx.Rand.Float()

	case KindMatching:
		// Opens at half, then mirrors the group's previous average.
		if len(st.Contributions) == 0 {
			amount = ctx.Endowment * st.CooperationLevel
		} else {
			amount = ctx.PrevAverage
		}

	case KindAltruistic:
		amount = ctx.Endowment * st.CooperationLevel
		// When the group slacks off, give even more rather than punish.
		if len(st.Contributions) > 0 && ctx.PrevAverage < 0.3*ctx.Endowment {
			amount *= 1.1
		}

	default:
		return 0
	}

	if amount < 0 {
		amount = 0
	}
	if amount > ctx.Endowment {
		amount = ctx.Endowment
	}
	return amount
}
