package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/talgya/dilemma-lab/internal/strategy"
)

func TestNormalizeRejects(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantField string
	}{
		{
			"unknown dilemma",
			Config{Dilemma: "chicken", Rounds: 10,
				Strategies: map[strategy.Kind]int{strategy.KindTitForTat: 2}},
			"dilemma_type",
		},
		{
			"zero rounds",
			Config{Dilemma: PrisonersDilemma, Rounds: 0,
				Strategies: map[strategy.Kind]int{strategy.KindTitForTat: 2}},
			"rounds",
		},
		{
			"negative rounds",
			Config{Dilemma: PrisonersDilemma, Rounds: -5,
				Strategies: map[strategy.Kind]int{strategy.KindTitForTat: 2}},
			"rounds",
		},
		{
			"no strategies",
			Config{Dilemma: PrisonersDilemma, Rounds: 10},
			"strategies",
		},
		{
			"negative agent count",
			Config{Dilemma: PrisonersDilemma, Rounds: 10,
				Strategies: map[strategy.Kind]int{strategy.KindTitForTat: -1, strategy.KindGrudger: 3}},
			"strategies",
		},
		{
			"fewer than two agents",
			Config{Dilemma: PrisonersDilemma, Rounds: 10,
				Strategies: map[strategy.Kind]int{strategy.KindTitForTat: 1}},
			"strategies",
		},
		{
			"strategy from the wrong family",
			Config{Dilemma: PrisonersDilemma, Rounds: 10,
				Strategies: map[strategy.Kind]int{strategy.KindGreedy: 2}},
			"strategies",
		},
		{
			"resource dilemma without parameters",
			Config{Dilemma: TragedyCommons, Rounds: 10,
				Strategies: map[strategy.Kind]int{strategy.KindSustainable: 2}},
			"parameters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.cfg.normalize()
			if err == nil {
				t.Fatal("normalize accepted an invalid config")
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error type = %T, want *ConfigError", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("error field = %q, want %q", cfgErr.Field, tt.wantField)
			}
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	t.Run("matrix defaults", func(t *testing.T) {
		cfg := Config{
			Dilemma:    PrisonersDilemma,
			Rounds:     10,
			Strategies: map[strategy.Kind]int{strategy.KindTitForTat: 2},
		}
		norm, warnings, err := cfg.normalize()
		if err != nil {
			t.Fatal(err)
		}
		if len(warnings) != 0 {
			t.Errorf("unexpected warnings: %v", warnings)
		}
		if *norm.Payoffs != DefaultPayoffs {
			t.Errorf("payoffs = %+v, want defaults", *norm.Payoffs)
		}
		if norm.Pairing != PairingRoundRobin {
			t.Errorf("pairing = %q, want round_robin", norm.Pairing)
		}
	})

	t.Run("commons out-of-range fields warn and default", func(t *testing.T) {
		cfg := Config{
			Dilemma:    TragedyCommons,
			Rounds:     10,
			Strategies: map[strategy.Kind]int{strategy.KindSustainable: 3},
			Parameters: &Parameters{ResourceSize: -1, RegenerationRate: 200, HarvestLimit: 0},
		}
		norm, warnings, err := cfg.normalize()
		if err != nil {
			t.Fatal(err)
		}
		if len(warnings) != 3 {
			t.Fatalf("warnings = %v, want 3 entries", warnings)
		}
		p := norm.Parameters
		if p.ResourceSize != defaultResourceSize ||
			p.RegenerationRate != defaultRegenerationRate ||
			p.HarvestLimit != defaultHarvestLimit {
			t.Errorf("parameters not defaulted: %+v", *p)
		}
	})

	t.Run("funding threshold out of range", func(t *testing.T) {
		cfg := Config{
			Dilemma:    FreeRider,
			Rounds:     10,
			Strategies: map[strategy.Kind]int{strategy.KindContributor: 2},
			Parameters: &Parameters{ProjectCost: 1000, BenefitMultiplier: 2, Threshold: 150},
		}
		norm, warnings, err := cfg.normalize()
		if err != nil {
			t.Fatal(err)
		}
		if len(warnings) != 1 || !strings.Contains(warnings[0], "threshold") {
			t.Fatalf("warnings = %v, want one threshold warning", warnings)
		}
		if norm.Parameters.Threshold != defaultThresholdPercent {
			t.Errorf("threshold = %g, want default %g", norm.Parameters.Threshold, defaultThresholdPercent)
		}
	})

	t.Run("pooling distribution defaults to equal", func(t *testing.T) {
		cfg := Config{
			Dilemma:    PublicGoods,
			Rounds:     10,
			Strategies: map[strategy.Kind]int{strategy.KindFullContributor: 2},
			Parameters: &Parameters{Endowment: 50, Multiplier: 2},
		}
		norm, warnings, err := cfg.normalize()
		if err != nil {
			t.Fatal(err)
		}
		if len(warnings) != 0 {
			t.Errorf("unexpected warnings: %v", warnings)
		}
		if norm.Parameters.Distribution != DistributionEqual {
			t.Errorf("distribution = %q, want equal", norm.Parameters.Distribution)
		}
	})
}

func TestNormalizeWarnsOnDisorderedPayoffs(t *testing.T) {
	cfg := Config{
		Dilemma:    PrisonersDilemma,
		Rounds:     10,
		Strategies: map[strategy.Kind]int{strategy.KindTitForTat: 2},
		Payoffs:    &Payoffs{T: 1, R: 3, P: 5, S: 0}, // T < R, P > R
	}
	norm, warnings, err := cfg.normalize()
	if err != nil {
		t.Fatalf("disordered payoffs must warn, not fail: %v", err)
	}
	if len(warnings) == 0 {
		t.Fatal("expected a payoff ordering warning")
	}
	// The configured values run as-is.
	if norm.Payoffs.T != 1 || norm.Payoffs.P != 5 {
		t.Errorf("payoffs were altered: %+v", *norm.Payoffs)
	}
}

func TestNormalizeDoesNotMutateCaller(t *testing.T) {
	params := Parameters{ResourceSize: -1, RegenerationRate: 0.2, HarvestLimit: 30}
	cfg := Config{
		Dilemma:    TragedyCommons,
		Rounds:     10,
		Strategies: map[strategy.Kind]int{strategy.KindSustainable: 3},
		Parameters: &params,
	}
	if _, _, err := cfg.normalize(); err != nil {
		t.Fatal(err)
	}
	if params.ResourceSize != -1 {
		t.Error("normalize mutated the caller's parameter block")
	}
}

func TestAgentCount(t *testing.T) {
	cfg := Config{Strategies: map[strategy.Kind]int{
		strategy.KindTitForTat: 3,
		strategy.KindGrudger:   2,
	}}
	if got := cfg.AgentCount(); got != 5 {
		t.Errorf("AgentCount() = %d, want 5", got)
	}
}

func TestDilemmaFamily(t *testing.T) {
	tests := []struct {
		d      Dilemma
		family strategy.Family
		ok     bool
	}{
		{PrisonersDilemma, strategy.FamilyMatrix, true},
		{TragedyCommons, strategy.FamilyHarvest, true},
		{FreeRider, strategy.FamilyFunding, true},
		{PublicGoods, strategy.FamilyPooling, true},
		{Dilemma("stag_hunt"), 0, false},
	}
	for _, tt := range tests {
		family, ok := tt.d.Family()
		if ok != tt.ok || (ok && family != tt.family) {
			t.Errorf("Family(%s) = (%d, %v), want (%d, %v)", tt.d, family, ok, tt.family, tt.ok)
		}
	}
}
