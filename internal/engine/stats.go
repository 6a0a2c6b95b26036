package engine

import (
	"github.com/talgya/dilemma-lab/internal/strategy"
)

// Action category labels used in StrategyPerformance.Actions.
const (
	ActionCooperative   = "cooperative"
	ActionSelfish       = "selfish"
	ActionSustainable   = "sustainable"
	ActionUnsustainable = "unsustainable"
	ActionContribute    = "contribute"
	ActionFreeRide      = "free_ride"
)

// group accumulates the raw material for one strategy's performance entry.
type group struct {
	kind          strategy.Kind
	count         int
	payoff        float64 // cumulative payoff across all agents of the kind
	harvest       float64
	contribution  float64
	benefit       float64
	cooperations  int
	defections    int
	sustainable   int
	unsustainable int
	contributes   int
	freeRides     int
	// perRoundMean is the kind's mean contribution per agent per round
	// (public goods trend input).
	perRoundMean []float64
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// aggregate reduces the full round history into per-strategy summaries. It is
// recomputed from scratch in one pass over the records rather than maintained
// incrementally, so floating-point drift cannot accumulate across partial
// updates.
func aggregate(cfg *Config, agents []*agent, rounds []Round) FinalStats {
	groups := make(map[strategy.Kind]*group)
	kindOf := make(map[string]strategy.Kind, len(agents))
	for _, kind := range cfg.sortedKinds() {
		groups[kind] = &group{kind: kind, count: cfg.Strategies[kind]}
	}
	for _, a := range agents {
		kindOf[a.id] = a.kind
	}

	switch cfg.Dilemma {
	case PrisonersDilemma:
		tallyMatrix(groups, kindOf, rounds)
	case TragedyCommons:
		tallyCommons(cfg, groups, kindOf, rounds)
	case FreeRider, PublicGoods:
		tallyContributions(groups, kindOf, rounds)
	}

	perf := make(map[string]StrategyPerformance, len(groups))
	popAvg, deviations := welfareBaseline(cfg, groups)

	for _, kind := range cfg.sortedKinds() {
		g := groups[kind]
		p := StrategyPerformance{
			Actions:    make(map[string]int),
			AgentCount: g.count,
		}
		if g.count == 0 {
			perf[string(kind)] = p
			continue
		}

		p.Score = groupScore(g)
		p.TotalResources = groupTotal(cfg.Dilemma, g)
		p.SustainabilityImpact = sustainabilityImpact(cfg, g, len(agents), len(rounds))
		p.SocialWelfare = socialWelfare(p.Score, popAvg, deviations)

		switch cfg.Dilemma {
		case PrisonersDilemma:
			moves := g.cooperations + g.defections
			if moves > 0 {
				p.CooperationRate = float64(g.cooperations) / float64(moves)
			}
			p.Actions[ActionCooperative] = g.cooperations
			p.Actions[ActionSelfish] = g.defections
		case TragedyCommons:
			p.Actions[ActionSustainable] = g.sustainable
			p.Actions[ActionUnsustainable] = g.unsustainable
		case FreeRider, PublicGoods:
			p.Actions[ActionContribute] = g.contributes
			p.Actions[ActionFreeRide] = g.freeRides
		}

		perf[string(kind)] = p
	}

	return FinalStats{Strategies: perf}
}

func tallyMatrix(groups map[strategy.Kind]*group, kindOf map[string]strategy.Kind, rounds []Round) {
	record := func(agentID, move string, score float64) {
		g := groups[kindOf[agentID]]
		g.payoff += score
		if move == "C" {
			g.cooperations++
		} else {
			g.defections++
		}
	}
	for _, r := range rounds {
		for _, in := range r.Interactions {
			record(in.AgentA, in.MoveA, in.ScoreA)
			record(in.AgentB, in.MoveB, in.ScoreB)
		}
	}
}

func tallyCommons(cfg *Config, groups map[strategy.Kind]*group, kindOf map[string]strategy.Kind, rounds []Round) {
	params := cfg.Parameters
	n := float64(cfg.AgentCount())
	for _, r := range rounds {
		// The sustainable reference for this round: the pool's expected
		// regrowth split evenly, clipped to the harvest limit — the same
		// quantity the strategies themselves reason about.
		ref := r.PoolSize * params.RegenerationRate / n
		if ref > params.HarvestLimit {
			ref = params.HarvestLimit
		}
		for _, act := range r.Actions {
			g := groups[kindOf[act.AgentID]]
			g.payoff += act.Payoff
			g.harvest += act.Amount
			if act.Amount <= ref+1e-9 {
				g.sustainable++
			} else {
				g.unsustainable++
			}
		}
	}
}

func tallyContributions(groups map[strategy.Kind]*group, kindOf map[string]strategy.Kind, rounds []Round) {
	for _, r := range rounds {
		for _, act := range r.Actions {
			g := groups[kindOf[act.AgentID]]
			g.payoff += act.Payoff
			g.contribution += act.Amount
			if r.BenefitPerAgent > 0 {
				g.benefit += r.BenefitPerAgent
			}
			if act.Amount > 0 {
				g.contributes++
			} else {
				g.freeRides++
			}
		}
		for kind, g := range groups {
			if g.count > 0 {
				g.perRoundMean = append(g.perRoundMean, r.PerStrategy[string(kind)]/float64(g.count))
			}
		}
	}
}

// groupScore is the strategy's headline score: mean cumulative payoff per
// agent of the kind.
func groupScore(g *group) float64 {
	if g.count == 0 {
		return 0
	}
	return g.payoff / float64(g.count)
}

// groupTotal is the strategy group's accumulated resource total.
func groupTotal(d Dilemma, g *group) float64 {
	switch d {
	case TragedyCommons:
		return g.harvest
	case FreeRider:
		return g.benefit
	default:
		return g.payoff
	}
}

// sustainabilityImpact maps a strategy's behavior pattern onto [-1, 1]:
// positive when the pattern supports long-term resource or project health,
// negative when it erodes it. Each dilemma has its own documented formula.
func sustainabilityImpact(cfg *Config, g *group, totalAgents, totalRounds int) float64 {
	if g.count == 0 || totalRounds == 0 {
		return 0
	}

	switch cfg.Dilemma {
	case PrisonersDilemma:
		moves := g.cooperations + g.defections
		if moves == 0 {
			return 0
		}
		return clampUnit(2*float64(g.cooperations)/float64(moves) - 1)

	case TragedyCommons:
		avgHarvest := g.harvest / float64(g.count) / float64(totalRounds)
		return clampUnit(1 - avgHarvest/(cfg.Parameters.HarvestLimit*1.5))

	case FreeRider:
		fairShare := cfg.Parameters.ProjectCost / float64(totalAgents)
		ratio := g.contribution / (float64(g.count) * fairShare)
		if g.benefit > 0 { // project completed
			return clampUnit(ratio)
		}
		return clampUnit(ratio - 1)

	case PublicGoods:
		endowment := cfg.Parameters.Endowment
		maxPossible := float64(g.count) * endowment * float64(totalRounds)
		ratio := 0.0
		if maxPossible > 0 {
			ratio = g.contribution / maxPossible
		}
		if len(g.perRoundMean) <= 2 {
			return clampUnit(ratio - 0.5)
		}
		half := len(g.perRoundMean) / 2
		firstAvg := mean(g.perRoundMean[:half])
		secondAvg := mean(g.perRoundMean[half:])
		trend := (secondAvg - firstAvg) / endowment
		return clampUnit(trend + ratio/2)
	}
	return 0
}

// welfareBaseline returns the population's mean score and the largest
// absolute deviation of any strategy's score from it.
func welfareBaseline(cfg *Config, groups map[strategy.Kind]*group) (popAvg, maxDev float64) {
	totalPayoff := 0.0
	totalAgents := 0
	for _, g := range groups {
		totalPayoff += g.payoff
		totalAgents += g.count
	}
	if totalAgents == 0 {
		return 0, 0
	}
	popAvg = totalPayoff / float64(totalAgents)

	for _, g := range groups {
		if g.count == 0 {
			continue
		}
		dev := g.payoff/float64(g.count) - popAvg
		if dev < 0 {
			dev = -dev
		}
		if dev > maxDev {
			maxDev = dev
		}
	}
	return popAvg, maxDev
}

// socialWelfare centers a strategy's mean payoff on the population mean and
// normalizes by the widest deviation, so 0 means exactly average and the
// best- and worst-off strategies sit at the bounds.
func socialWelfare(score, popAvg, maxDev float64) float64 {
	if maxDev == 0 {
		return 0
	}
	return clampUnit((score - popAvg) / maxDev)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
