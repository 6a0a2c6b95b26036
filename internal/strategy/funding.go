package strategy

// FundingContext is the snapshot a free-rider-problem strategy sees before
// deciding its contribution toward the shared project.
type FundingContext struct {
	// Funding is the cumulative amount raised so far.
	Funding float64

	// ProjectCost is the total cost of the project.
	ProjectCost float64

	// Threshold is the absolute funding level at which the project
	// completes.
	Threshold float64

	// FairShare is ProjectCost split evenly across agents.
	FairShare float64

	// PrevAverage is the mean contribution across all agents in the
	// previous round (0 in round 1).
	PrevAverage float64
}

// DecideFunding returns the amount a free-rider-problem strategy contributes
// this round. No strategy contributes more than the project still needs.
func DecideFunding(k Kind, st *State, ctx FundingContext) float64 {
	remaining := ctx.Threshold - ctx.Funding
	if remaining < 0 {
		remaining = 0
	}

	var amount float64
	switch k {
	case KindContributor:
		amount = ctx.FairShare

	case KindFreeRider:
		return 0

	case KindPartial:
		amount = ctx.FairShare * st.Fraction

	case KindConditional:
		// Match the previous round's group average, bounded to 40-120% of
		// fair share. Opens with fair share.
		if len(st.Contributions) == 0 {
			amount = ctx.FairShare
			break
		}
		lower := 0.4 * ctx.FairShare
		upper := 1.2 * ctx.FairShare
		amount = ctx.PrevAverage
		if amount <= 0 {
			amount = lower
		}
		if amount < lower {
			amount = lower
		}
		if amount > upper {
			amount = upper
		}

	case KindStrategic:
		// Token contributions, except when the project is nearly funded:
		// then the completion benefit outweighs one fair share.
		progress := 0.0
		if ctx.ProjectCost > 0 {
			progress = ctx.Funding / ctx.ProjectCost
		}
		if progress > 0.9 && ctx.Funding < ctx.Threshold {
			amount = ctx.FairShare
		} else {
			amount = 0.1 * ctx.FairShare
		}

	default:
		return 0
	}

	if amount > remaining {
		amount = remaining
	}
	if amount < 0 {
		amount = 0
	}
	return amount
}
