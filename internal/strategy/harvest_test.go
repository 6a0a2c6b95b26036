package strategy

import (
	"math"
	"testing"
)

func TestDecideHarvest(t *testing.T) {
	// A healthy mid-size pool: 600 of 1000, limit 30.
	ctx := HarvestContext{
		Pool:             600,
		Capacity:         1000,
		RegenerationRate: 0.2,
		Limit:            30,
		FairShare:        30, // 600/4 clipped to limit
		SustainableShare: 30, // 600*0.2/4 = 30
		Agents:           4,
	}

	tests := []struct {
		name string
		kind Kind
		ctx  HarvestContext
		want float64
	}{
		{"greedy takes the limit", KindGreedy, ctx, 30},
		{"sustainable takes the regrowth share", KindSustainable, ctx, 30},
		{"fair_share takes the even split", KindFairShare, ctx, 30},
		{"conservative near-full pool", KindConservative,
			HarvestContext{Pool: 900, Capacity: 1000, Limit: 30, FairShare: 30}, 27},
		{"conservative stressed pool", KindConservative,
			HarvestContext{Pool: 500, Capacity: 1000, Limit: 30, FairShare: 30}, 9},
		{"conservative near collapse", KindConservative,
			HarvestContext{Pool: 100, Capacity: 1000, Limit: 30, FairShare: 25}, 0},
		{"sustainable clamps to limit", KindSustainable,
			HarvestContext{Pool: 1000, Capacity: 1000, Limit: 10, SustainableShare: 50}, 10},
		{"unknown kind proposes nothing", Kind("bogus"), ctx, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecideHarvest(tt.kind, &State{}, tt.ctx)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DecideHarvest(%s) = %g, want %g", tt.kind, got, tt.want)
			}
		})
	}
}

func TestDecideHarvestBounds(t *testing.T) {
	kinds := Kinds(FamilyHarvest)
	contexts := []HarvestContext{
		{Pool: 1000, Capacity: 1000, RegenerationRate: 0.2, Limit: 30, FairShare: 30, SustainableShare: 30, Agents: 4},
		{Pool: 10, Capacity: 1000, RegenerationRate: 0.2, Limit: 30, FairShare: 2.5, SustainableShare: 0.5, Agents: 4},
		{Pool: 0, Capacity: 1000, RegenerationRate: 0.2, Limit: 30, FairShare: 0, SustainableShare: 0, Agents: 4},
	}

	for _, kind := range kinds {
		st := &State{}
		for _, ctx := range contexts {
			got := DecideHarvest(kind, st, ctx)
			if got < 0 || got > ctx.Limit {
				t.Errorf("DecideHarvest(%s) = %g outside [0, %g]", kind, got, ctx.Limit)
			}
		}
	}
}

func TestAdaptiveHarvestTracksScarcity(t *testing.T) {
	abundant := HarvestContext{
		Pool: 1000, Capacity: 1000, RegenerationRate: 0.2,
		Limit: 30, FairShare: 30, SustainableShare: 15, Agents: 4,
	}
	scarce := abundant
	scarce.Pool = 100
	scarce.FairShare = 25
	scarce.SustainableShare = 1.5

	st := &State{}

	// Sustained abundance ratchets the greed factor up.
	var last float64
	for i := 0; i < 10; i++ {
		last = DecideHarvest(KindAdaptive, st, abundant)
	}
	if st.GreedFactor <= 0 {
		t.Fatal("greed factor did not rise under abundance")
	}
	if last <= abundant.SustainableShare {
		t.Errorf("abundant proposal = %g, want above the sustainable share %g",
			last, abundant.SustainableShare)
	}

	// Sustained scarcity drives it back to the sustainable share.
	for i := 0; i < 30; i++ {
		last = DecideHarvest(KindAdaptive, st, scarce)
	}
	if st.GreedFactor != 0 {
		t.Errorf("greed factor = %g after sustained scarcity, want 0", st.GreedFactor)
	}
	if math.Abs(last-scarce.SustainableShare) > 1e-9 {
		t.Errorf("scarce proposal = %g, want sustainable share %g", last, scarce.SustainableShare)
	}
}
