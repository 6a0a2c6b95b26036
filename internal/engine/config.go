package engine

import (
	"fmt"
	"sort"

	"github.com/talgya/dilemma-lab/internal/strategy"
)

// Dilemma selects which rule engine resolves each round.
type Dilemma string

const (
	PrisonersDilemma Dilemma = "prisoners_dilemma"
	TragedyCommons   Dilemma = "tragedy_commons"
	FreeRider        Dilemma = "free_rider"
	PublicGoods      Dilemma = "public_goods"
)

// Family returns the strategy family a dilemma is played with.
func (d Dilemma) Family() (strategy.Family, bool) {
	switch d {
	case PrisonersDilemma:
		return strategy.FamilyMatrix, true
	case TragedyCommons:
		return strategy.FamilyHarvest, true
	case FreeRider:
		return strategy.FamilyFunding, true
	case PublicGoods:
		return strategy.FamilyPooling, true
	}
	return 0, false
}

// Pairing selects how matrix-game agents are matched each round. Both modes
// are deterministic given the run seed.
type Pairing string

const (
	PairingRoundRobin Pairing = "round_robin" // every unordered pair, every round
	PairingRandom     Pairing = "random"      // seeded shuffle, consecutive pairs
)

// Payoffs is the classic temptation/reward/punishment/sucker matrix for the
// prisoner's dilemma family.
type Payoffs struct {
	T float64 `json:"T" yaml:"T"`
	R float64 `json:"R" yaml:"R"`
	P float64 `json:"P" yaml:"P"`
	S float64 `json:"S" yaml:"S"`
}

// DefaultPayoffs is the textbook matrix used when a config supplies none.
var DefaultPayoffs = Payoffs{T: 5, R: 3, P: 1, S: 0}

// Parameters carries the dilemma-specific knobs. Only the fields for the
// configured dilemma are read.
type Parameters struct {
	// Tragedy of the commons.
	ResourceSize     float64 `json:"resource_size" yaml:"resource_size"`
	RegenerationRate float64 `json:"regeneration_rate" yaml:"regeneration_rate"`
	HarvestLimit     float64 `json:"harvest_limit" yaml:"harvest_limit"`

	// Free rider problem.
	ProjectCost       float64 `json:"project_cost" yaml:"project_cost"`
	BenefitMultiplier float64 `json:"benefit_multiplier" yaml:"benefit_multiplier"`
	Threshold         float64 `json:"threshold" yaml:"threshold"` // percent of cost

	// Public goods game.
	Endowment    float64 `json:"endowment" yaml:"endowment"`
	Multiplier   float64 `json:"multiplier" yaml:"multiplier"`
	Distribution string  `json:"distribution" yaml:"distribution"` // "equal" | "proportional"
}

// Defaults substituted (with a warning) for absent or out-of-range parameter
// values. The parameter block itself must be present for resource dilemmas;
// individual fields degrade gracefully the way the surrounding product always
// has.
const (
	defaultResourceSize      = 1000.0
	defaultRegenerationRate  = 0.2
	defaultHarvestLimit      = 30.0
	defaultProjectCost       = 1000.0
	defaultBenefitMultiplier = 2.0
	defaultThresholdPercent  = 75.0
	defaultEndowment         = 50.0
	defaultPoolMultiplier    = 2.0

	// regenerationRateCeiling guards against percent values (e.g. 200)
	// slipping in where a fraction is expected.
	regenerationRateCeiling = 10.0

	DistributionEqual        = "equal"
	DistributionProportional = "proportional"
)

// Config describes one simulation run. It is immutable once the run starts:
// Run normalizes a private copy and never touches the caller's value.
type Config struct {
	// Name is an optional caller-facing label, used only by the archive.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	Dilemma Dilemma `json:"dilemma_type" yaml:"dilemma_type"`
	Rounds  int     `json:"rounds" yaml:"rounds"`
	Seed    int64   `json:"seed" yaml:"seed"`

	// Strategies maps each strategy kind to how many agents play it.
	// The total must be at least 2.
	Strategies map[strategy.Kind]int `json:"strategies" yaml:"strategies"`

	// Payoffs applies to the prisoner's dilemma family only; nil selects
	// DefaultPayoffs.
	Payoffs *Payoffs `json:"payoffs,omitempty" yaml:"payoffs,omitempty"`

	// Pairing applies to the prisoner's dilemma family only; empty selects
	// round-robin.
	Pairing Pairing `json:"pairing,omitempty" yaml:"pairing,omitempty"`

	// Parameters is required for resource dilemmas.
	Parameters *Parameters `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// AgentCount returns the total number of configured agents.
func (c *Config) AgentCount() int {
	total := 0
	for _, n := range c.Strategies {
		total += n
	}
	return total
}

// sortedKinds returns the configured strategy kinds in stable lexical order.
// Agent creation, pairing, and aggregation all iterate in this order so runs
// are reproducible.
func (c *Config) sortedKinds() []strategy.Kind {
	kinds := make([]strategy.Kind, 0, len(c.Strategies))
	for k := range c.Strategies {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// normalize validates the config and returns a run-ready copy plus any
// parameter warnings. Fatal problems return a *ConfigError; recoverable ones
// (out-of-order payoffs, out-of-range rates) are corrected to documented
// defaults and reported as warnings.
func (c Config) normalize() (Config, []string, error) {
	var warnings []string

	family, ok := c.Dilemma.Family()
	if !ok {
		return c, nil, configErrorf("dilemma_type", "unknown dilemma %q", string(c.Dilemma))
	}

	if c.Rounds <= 0 {
		return c, nil, configErrorf("rounds", "must be positive, got %d", c.Rounds)
	}

	if len(c.Strategies) == 0 {
		return c, nil, configErrorf("strategies", "no strategies specified")
	}
	total := 0
	for _, kind := range c.sortedKinds() {
		count := c.Strategies[kind]
		if count < 0 {
			return c, nil, configErrorf("strategies", "negative agent count %d for %q", count, kind)
		}
		if !strategy.Belongs(kind, family) {
			return c, nil, configErrorf("strategies", "strategy %q is not playable in %s", kind, c.Dilemma)
		}
		total += count
	}
	if total < 2 {
		return c, nil, configErrorf("strategies", "need at least 2 agents, got %d", total)
	}

	// Copy mutable members so the caller's config stays untouched.
	strategies := make(map[strategy.Kind]int, len(c.Strategies))
	for k, n := range c.Strategies {
		strategies[k] = n
	}
	c.Strategies = strategies

	switch c.Dilemma {
	case PrisonersDilemma:
		warnings = c.normalizeMatrix(warnings)
	case TragedyCommons, FreeRider, PublicGoods:
		if c.Parameters == nil {
			return c, nil, configErrorf("parameters", "required for dilemma %q", c.Dilemma)
		}
		params := *c.Parameters
		c.Parameters = &params
		switch c.Dilemma {
		case TragedyCommons:
			warnings = c.normalizeCommons(warnings)
		case FreeRider:
			warnings = c.normalizeFunding(warnings)
		case PublicGoods:
			warnings = c.normalizePooling(warnings)
		}
	}

	return c, warnings, nil
}

func (c *Config) normalizeMatrix(warnings []string) []string {
	if c.Payoffs == nil {
		p := DefaultPayoffs
		c.Payoffs = &p
	} else {
		p := *c.Payoffs
		c.Payoffs = &p
	}

	p := c.Payoffs
	if !(p.T > p.R && p.R > p.P && p.P > p.S) {
		warnings = append(warnings, fmt.Sprintf(
			"payoffs out of order: want T>R>P>S, got T=%g R=%g P=%g S=%g; run proceeds with the configured values",
			p.T, p.R, p.P, p.S))
	}
	if 2*p.R <= p.T+p.S {
		warnings = append(warnings, fmt.Sprintf(
			"payoffs violate 2R > T+S (2*%g <= %g+%g); alternating exploitation beats mutual cooperation",
			p.R, p.T, p.S))
	}

	switch c.Pairing {
	case "":
		c.Pairing = PairingRoundRobin
	case PairingRoundRobin, PairingRandom:
	default:
		warnings = append(warnings, fmt.Sprintf("unknown pairing %q, using %q", c.Pairing, PairingRoundRobin))
		c.Pairing = PairingRoundRobin
	}
	return warnings
}

func (c *Config) normalizeCommons(warnings []string) []string {
	p := c.Parameters
	if p.ResourceSize <= 0 {
		warnings = append(warnings, fmt.Sprintf("non-positive resource_size %g, using default %g", p.ResourceSize, defaultResourceSize))
		p.ResourceSize = defaultResourceSize
	}
	if p.RegenerationRate <= 0 || p.RegenerationRate > regenerationRateCeiling {
		warnings = append(warnings, fmt.Sprintf("regeneration_rate %g out of range (0, %g], using default %g",
			p.RegenerationRate, regenerationRateCeiling, defaultRegenerationRate))
		p.RegenerationRate = defaultRegenerationRate
	}
	if p.HarvestLimit <= 0 {
		warnings = append(warnings, fmt.Sprintf("non-positive harvest_limit %g, using default %g", p.HarvestLimit, defaultHarvestLimit))
		p.HarvestLimit = defaultHarvestLimit
	}
	return warnings
}

func (c *Config) normalizeFunding(warnings []string) []string {
	p := c.Parameters
	if p.ProjectCost <= 0 {
		warnings = append(warnings, fmt.Sprintf("non-positive project_cost %g, using default %g", p.ProjectCost, defaultProjectCost))
		p.ProjectCost = defaultProjectCost
	}
	if p.BenefitMultiplier <= 0 {
		warnings = append(warnings, fmt.Sprintf("non-positive benefit_multiplier %g, using default %g", p.BenefitMultiplier, defaultBenefitMultiplier))
		p.BenefitMultiplier = defaultBenefitMultiplier
	}
	if p.Threshold <= 0 || p.Threshold > 100 {
		warnings = append(warnings, fmt.Sprintf("threshold %g%% out of range (0, 100], using default %g%%", p.Threshold, defaultThresholdPercent))
		p.Threshold = defaultThresholdPercent
	}
	return warnings
}

func (c *Config) normalizePooling(warnings []string) []string {
	p := c.Parameters
	if p.Endowment <= 0 {
		warnings = append(warnings, fmt.Sprintf("non-positive endowment %g, using default %g", p.Endowment, defaultEndowment))
		p.Endowment = defaultEndowment
	}
	if p.Multiplier <= 0 {
		warnings = append(warnings, fmt.Sprintf("non-positive multiplier %g, using default %g", p.Multiplier, defaultPoolMultiplier))
		p.Multiplier = defaultPoolMultiplier
	}
	switch p.Distribution {
	case "":
		p.Distribution = DistributionEqual
	case DistributionEqual, DistributionProportional:
	default:
		warnings = append(warnings, fmt.Sprintf("unknown distribution %q, using %q", p.Distribution, DistributionEqual))
		p.Distribution = DistributionEqual
	}
	return warnings
}
