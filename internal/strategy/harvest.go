package strategy

// harvestMemory is how many pool-health observations the adaptive harvester
// averages over.
const harvestMemory = 3

// HarvestContext is the snapshot a commons strategy sees before proposing a
// harvest. All amounts are in pool units.
type HarvestContext struct {
	// Pool is the current pool level, Capacity its carrying capacity.
	Pool     float64
	Capacity float64

	// RegenerationRate is the pool's per-round growth fraction.
	RegenerationRate float64

	// Limit is the configured per-agent harvest cap.
	Limit float64

	// FairShare is the pool split evenly across agents, clipped to Limit.
	FairShare float64

	// SustainableShare is the pool's estimated regeneration this round split
	// evenly across agents, clipped to Limit.
	SustainableShare float64

	// Agents is the number of agents sharing the pool.
	Agents int
}

// DecideHarvest returns the amount a harvest strategy proposes to extract.
// Proposals are clamped to [0, Limit]; the rule engine additionally rations
// proposals against actual availability.
func DecideHarvest(k Kind, st *State, ctx HarvestContext) float64 {
	health := 0.0
	if ctx.Capacity > 0 {
		health = ctx.Pool / ctx.Capacity
		if health > 1 {
			health = 1
		}
	}

	var target float64
	switch k {
	case KindGreedy:
		target = ctx.Limit

	case KindSustainable:
		target = ctx.SustainableShare

	case KindFairShare:
		target = ctx.FairShare

	case KindConservative:
		// Backs off hard as the pool degrades; stops entirely near collapse.
		switch {
		case health >= 0.7:
			target = ctx.Limit * 0.9
		case health >= 0.3:
			target = ctx.FairShare * 0.3
		default:
			target = 0
		}

	case KindAdaptive:
		// Track recent pool health and slide a greed factor toward greedy
		// when the pool looks abundant, toward sustainable when it is
		// scarce. The blend is quadratic so the shift stays gentle until
		// the factor is high.
		st.HealthWindow = append(st.HealthWindow, health)
		if len(st.HealthWindow) > harvestMemory {
			st.HealthWindow = st.HealthWindow[1:]
		}
		avg := 0.0
		for _, h := range st.HealthWindow {
			avg += h
		}
		avg /= float64(len(st.HealthWindow))

		switch {
		case avg > 0.7:
			st.GreedFactor += 0.05 + 0.03*(avg-0.7)/0.3
			if st.GreedFactor > 1 {
				st.GreedFactor = 1
			}
		case avg < 0.5:
			scarcity := (0.5 - avg) / 0.5
			st.GreedFactor -= 0.05 + 0.05*scarcity
			if st.GreedFactor < 0 {
				st.GreedFactor = 0
			}
		}

		blend := st.GreedFactor * st.GreedFactor
		target = ctx.SustainableShare*(1-blend) + ctx.Limit*blend

	default:
		target = 0
	}

	if target < 0 {
		target = 0
	}
	if target > ctx.Limit {
		target = ctx.Limit
	}
	return target
}
