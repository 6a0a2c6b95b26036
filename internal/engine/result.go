package engine

// Interaction is one resolved matrix-game pairing within a round.
type Interaction struct {
	AgentA string  `json:"agent_a"`
	AgentB string  `json:"agent_b"`
	MoveA  string  `json:"move_a"`
	MoveB  string  `json:"move_b"`
	ScoreA float64 `json:"score_a"`
	ScoreB float64 `json:"score_b"`
}

// AgentAction is one agent's resolved action in a resource dilemma round:
// the amount harvested or contributed, and the payoff it produced.
type AgentAction struct {
	AgentID  string  `json:"agent_id"`
	Strategy string  `json:"strategy"`
	Amount   float64 `json:"amount"`
	Payoff   float64 `json:"payoff"`
}

// Round is the append-only record of one simulation round. Numeric fields are
// always present (zero-valued when not applicable) so downstream chart code
// never sees null.
type Round struct {
	Index int `json:"round_index"`

	// Interactions is populated for the prisoner's dilemma family.
	Interactions []Interaction `json:"interactions,omitempty"`

	// Actions is populated for resource dilemmas.
	Actions []AgentAction `json:"actions,omitempty"`

	// PoolSize is the shared pool level at the start of the round
	// (commons only).
	PoolSize float64 `json:"pool_size"`

	// Regeneration is the pool regrowth applied after this round's
	// extraction (commons only).
	Regeneration float64 `json:"regeneration"`

	// TotalAmount is the round's total harvest or contribution.
	TotalAmount float64 `json:"total_amount"`

	// BenefitPerAgent is the completion benefit paid to every agent this
	// round (free rider only; nonzero in at most one round per run).
	BenefitPerAgent float64 `json:"benefit_per_agent"`

	// PerStrategy breaks the round's payoffs or amounts down by strategy
	// kind.
	PerStrategy map[string]float64 `json:"per_strategy_breakdown"`
}

// StrategyPerformance is the aggregate outcome for all agents of one
// strategy. It is derived once from the full round history, never updated
// incrementally, so repeated aggregation cannot drift.
type StrategyPerformance struct {
	Score                float64        `json:"score"`
	TotalResources       float64        `json:"total_resources"`
	CooperationRate      float64        `json:"cooperation_rate"`
	SustainabilityImpact float64        `json:"sustainability_impact"`
	SocialWelfare        float64        `json:"social_welfare"`
	Actions              map[string]int `json:"actions"`
	AgentCount           int            `json:"agent_count"`
}

// FinalStats is the per-strategy summary block of a result.
type FinalStats struct {
	Strategies map[string]StrategyPerformance `json:"strategies"`
}

// Result is the immutable outcome of a run. It is owned solely by the caller
// after Run returns; the engine keeps no reference to it.
type Result struct {
	Dilemma Dilemma `json:"dilemma_type"`
	Seed    int64   `json:"seed"`

	Rounds     []Round    `json:"rounds"`
	FinalStats FinalStats `json:"final_stats"`

	// ResourceLevels traces the pool level per round, starting with the
	// initial level (commons only; length rounds+1).
	ResourceLevels []float64 `json:"resource_levels,omitempty"`

	// HarvestLevels traces the total harvest per round (commons only).
	HarvestLevels []float64 `json:"harvest_levels,omitempty"`

	// FundingProgress traces cumulative funding as a percentage of project
	// cost, starting at 0 (free rider only; length rounds+1).
	FundingProgress []float64 `json:"funding_progress,omitempty"`

	// ProjectCompleted reports whether funding reached the threshold
	// (free rider only).
	ProjectCompleted bool `json:"project_completed"`

	// AverageContribution traces the mean contribution per agent per round
	// (public goods only).
	AverageContribution []float64 `json:"average_contribution,omitempty"`

	// Warnings lists the non-fatal parameter corrections applied before the
	// run started.
	Warnings []string `json:"warnings,omitempty"`
}

// assembleResult packages a completed run into the output contract. Pure: it
// only reads its inputs, so calling it again against the same run state
// yields an identical result.
func assembleResult(cfg *Config, rounds []Round, stats FinalStats, warnings []string) *Result {
	return &Result{
		Dilemma:    cfg.Dilemma,
		Seed:       cfg.Seed,
		Rounds:     rounds,
		FinalStats: stats,
		Warnings:   warnings,
	}
}
