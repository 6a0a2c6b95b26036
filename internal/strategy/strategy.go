// Package strategy implements the decision rules agents play in repeated-game
// social dilemmas. Strategies are a closed set of kinds; each kind is a pure
// decision function over the agent's visible history plus an explicit State
// struct that carries whatever memory the kind needs between rounds. Adding a
// strategy means adding a Kind, its decide case, and its entry in the family
// tables below.
package strategy

import (
	"github.com/talgya/dilemma-lab/internal/entropy"
)

// Kind identifies a strategy. Kinds use the lowercase_with_underscores
// vocabulary shared with the display layer.
type Kind string

// Matrix-game (prisoner's dilemma family) kinds.
const (
	KindAlwaysCooperate Kind = "always_cooperate"
	KindAlwaysDefect    Kind = "always_defect"
	KindTitForTat       Kind = "tit_for_tat"
	KindTitForTwoTats   Kind = "tit_for_two_tats"
	KindTwoTitsForTat   Kind = "two_tits_for_tat"
	KindGrudger         Kind = "grudger"
	KindPavlov          Kind = "pavlov"
	KindRandom          Kind = "random"
	KindAdaptive        Kind = "adaptive"
)

// Harvest (tragedy of the commons) kinds.
const (
	KindSustainable  Kind = "sustainable"
	KindGreedy       Kind = "greedy"
	KindFairShare    Kind = "fair_share"
	KindConservative Kind = "conservative"
	// KindAdaptive is shared with the matrix family; harvest games interpret
	// it as the adaptive harvester.
)

// Funding (free rider problem) kinds.
const (
	KindContributor Kind = "contributor"
	KindFreeRider   Kind = "free_rider"
	KindPartial     Kind = "partial"
	KindConditional Kind = "conditional"
	KindStrategic   Kind = "strategic"
)

// Pooling (public goods game) kinds.
const (
	KindFullContributor   Kind = "full_contributor"
	KindZeroContributor   Kind = "zero_contributor"
	KindRandomContributor Kind = "random_contributor"
	KindMatching          Kind = "matching"
	KindAltruistic        Kind = "altruistic"
)

// Family groups kinds by the dilemma mechanics they understand.
type Family uint8

const (
	FamilyMatrix  Family = iota // binary cooperate/defect games
	FamilyHarvest               // shared-pool extraction games
	FamilyFunding               // threshold-funded project games
	FamilyPooling               // multiply-and-redistribute games
)

var familyKinds = map[Family][]Kind{
	FamilyMatrix: {
		KindAlwaysCooperate, KindAlwaysDefect, KindTitForTat,
		KindTitForTwoTats, KindTwoTitsForTat, KindGrudger,
		KindPavlov, KindRandom, KindAdaptive,
	},
	FamilyHarvest: {
		KindSustainable, KindGreedy, KindAdaptive,
		KindFairShare, KindConservative,
	},
	FamilyFunding: {
		KindContributor, KindFreeRider, KindPartial,
		KindConditional, KindStrategic,
	},
	FamilyPooling: {
		KindFullContributor, KindZeroContributor, KindRandomContributor,
		KindMatching, KindAltruistic,
	},
}

// Kinds returns the valid kinds for a family, in declaration order.
func Kinds(f Family) []Kind {
	ks := familyKinds[f]
	out := make([]Kind, len(ks))
	copy(out, ks)
	return out
}

// Belongs reports whether kind k is playable in family f.
func Belongs(k Kind, f Family) bool {
	for _, fk := range familyKinds[f] {
		if fk == k {
			return true
		}
	}
	return false
}

// Move is a binary matrix-game action.
type Move uint8

const (
	MoveCooperate Move = iota
	MoveDefect
)

// String returns the single-letter wire form ("C" or "D").
func (m Move) String() string {
	if m == MoveCooperate {
		return "C"
	}
	return "D"
}

// State is the per-agent strategy memory. It is owned by exactly one agent,
// mutated only through the Decide functions, and reset between games. Keeping
// it explicit (instead of hiding it inside strategy values) makes replays
// deterministic and tests direct.
type State struct {
	// Matrix-game history. Own and Opponent are parallel: Opponent[i] is the
	// counterpart's move in the interaction where the agent played Own[i].
	Own      []Move
	Opponent []Move

	// LastPayoff is the payoff earned in the most recent interaction.
	LastPayoff float64

	// Betrayed is the grudger's irrevocable trigger.
	Betrayed bool

	// GreedFactor is the adaptive harvester's position between sustainable
	// (0) and greedy (1).
	GreedFactor float64

	// HealthWindow holds recent pool-health observations for the adaptive
	// harvester's rolling average.
	HealthWindow []float64

	// Contributions is the history of amounts given in funding and pooling
	// games.
	Contributions []float64

	// Fraction is the partial contributor's fixed share of fair share,
	// drawn once per run.
	Fraction float64

	// CooperationLevel is the altruistic/matching contributors' adjustable
	// giving rate.
	CooperationLevel float64
}

// NewState returns a State initialized for the given kind. Kinds that need a
// one-time random draw (partial contributors) take it from src here so the
// draw is part of the run's deterministic stream.
func NewState(k Kind, src *entropy.Source) *State {
	st := &State{}
	switch k {
	case KindPartial:
		// Contribute a fixed 20-60% of fair share for the whole run.
		st.Fraction = 0.2 + 0.4*src.Float()
	case KindAltruistic:
		st.CooperationLevel = 0.9
	case KindMatching:
		st.CooperationLevel = 0.5
	}
	return st
}

// Reset clears all memory, returning the state to its start-of-game form.
// The partial contributor's Fraction survives reset: it is a trait, not
// memory.
func (s *State) Reset() {
	fraction := s.Fraction
	*s = State{Fraction: fraction}
}

// RecordInteraction appends a matrix-game interaction to the history.
func (s *State) RecordInteraction(own, opponent Move, payoff float64) {
	s.Own = append(s.Own, own)
	s.Opponent = append(s.Opponent, opponent)
	s.LastPayoff = payoff
}

// RecordContribution appends a funding/pooling contribution to the history.
func (s *State) RecordContribution(amount float64) {
	s.Contributions = append(s.Contributions, amount)
}
