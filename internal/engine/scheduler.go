// Package engine runs repeated-game social dilemma simulations: it validates
// a Config, builds the agent roster, drives the round loop through the
// dilemma's rule engine, and reduces the round history into the final result.
// A run is a pure, deterministic computation from (Config, Seed) to Result;
// no state is shared across runs.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/dilemma-lab/internal/entropy"
)

// ruleEngine is the per-dilemma resolution logic. Adding a dilemma means
// adding a rule engine and its parameter schema; the scheduler is untouched.
type ruleEngine interface {
	// Resolve plays one round: collects every agent's decision, computes
	// payoffs, mutates any shared state, and returns the round record.
	Resolve(index int, agents []*agent) Round

	// Finalize attaches the engine's dilemma-specific traces to the result.
	Finalize(res *Result, agents []*agent)
}

// phase tracks the scheduler's lifecycle. There is no retry or backoff: the
// run is synchronous and deterministic, so the machine only ever moves
// forward.
type phase uint8

const (
	phaseUninitialized phase = iota
	phaseRunning
	phaseCompleted
)

// scheduler drives one simulation run.
type scheduler struct {
	cfg      Config
	agents   []*agent
	rules    ruleEngine
	rounds   []Round
	warnings []string
	phase    phase
}

// Run validates cfg, executes the simulation, and returns its result. It
// returns a *ConfigError for configurations the engine rejects; recoverable
// parameter problems are corrected to defaults, logged, and reported in
// Result.Warnings. The round loop itself never fails.
func Run(cfg Config) (*Result, error) {
	norm, warnings, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		slog.Warn("simulation parameter corrected", "dilemma", norm.Dilemma, "detail", w)
	}

	s, err := newScheduler(norm, warnings)
	if err != nil {
		return nil, err
	}
	return s.run(), nil
}

func newScheduler(cfg Config, warnings []string) (*scheduler, error) {
	rng := entropy.NewSource(cfg.Seed)
	agents := buildAgents(&cfg, rng)

	var rules ruleEngine
	switch cfg.Dilemma {
	case PrisonersDilemma:
		rules = newMatrixEngine(&cfg, rng)
	case TragedyCommons:
		rules = newCommonsEngine(&cfg)
	case FreeRider:
		rules = newFundingEngine(&cfg)
	case PublicGoods:
		rules = newPoolingEngine(&cfg, rng)
	default:
		// normalize rejects unknown dilemmas; reaching this is a bug.
		return nil, configErrorf("dilemma_type", "no rule engine for %q", cfg.Dilemma)
	}

	return &scheduler{
		cfg:      cfg,
		agents:   agents,
		rules:    rules,
		warnings: warnings,
	}, nil
}

// run executes the fixed round loop. It terminates after exactly cfg.Rounds
// iterations: resource collapse and project completion are emergent outcomes,
// not stop conditions.
func (s *scheduler) run() *Result {
	s.phase = phaseRunning
	slog.Info("simulation started",
		"dilemma", s.cfg.Dilemma,
		"rounds", s.cfg.Rounds,
		"agents", len(s.agents),
		"seed", s.cfg.Seed,
	)

	for i := 1; i <= s.cfg.Rounds; i++ {
		s.rounds = append(s.rounds, s.rules.Resolve(i, s.agents))
	}
	s.phase = phaseCompleted

	if len(s.rounds) != s.cfg.Rounds {
		panic(fmt.Sprintf("engine: produced %d rounds for a %d-round config", len(s.rounds), s.cfg.Rounds))
	}

	stats := aggregate(&s.cfg, s.agents, s.rounds)
	res := assembleResult(&s.cfg, s.rounds, stats, s.warnings)
	s.rules.Finalize(res, s.agents)

	slog.Info("simulation completed",
		"dilemma", s.cfg.Dilemma,
		"rounds", len(res.Rounds),
		"strategies", len(res.FinalStats.Strategies),
	)
	return res
}
