package strategy

import (
	"testing"

	"github.com/talgya/dilemma-lab/internal/entropy"
)

// history builds a state from parallel own/opponent move sequences.
func history(own, opponent []Move) *State {
	return &State{Own: own, Opponent: opponent}
}

func TestDecideMatrix(t *testing.T) {
	ctx := MatrixContext{Round: 1, Satisfaction: 3}

	tests := []struct {
		name string
		kind Kind
		st   *State
		want Move
	}{
		{"always_cooperate", KindAlwaysCooperate, &State{}, MoveCooperate},
		{"always_defect", KindAlwaysDefect, &State{}, MoveDefect},

		{"tft opens cooperating", KindTitForTat, &State{}, MoveCooperate},
		{"tft mirrors cooperation", KindTitForTat,
			history([]Move{MoveCooperate}, []Move{MoveCooperate}), MoveCooperate},
		{"tft mirrors defection", KindTitForTat,
			history([]Move{MoveCooperate}, []Move{MoveDefect}), MoveDefect},

		{"tf2t forgives one defection", KindTitForTwoTats,
			history([]Move{MoveCooperate}, []Move{MoveDefect}), MoveCooperate},
		{"tf2t punishes two in a row", KindTitForTwoTats,
			history([]Move{MoveCooperate, MoveCooperate}, []Move{MoveDefect, MoveDefect}), MoveDefect},
		{"tf2t ignores split defections", KindTitForTwoTats,
			history([]Move{MoveCooperate, MoveCooperate, MoveCooperate},
				[]Move{MoveDefect, MoveCooperate, MoveDefect}), MoveCooperate},

		{"2tft punishes immediately", KindTwoTitsForTat,
			history([]Move{MoveCooperate}, []Move{MoveDefect}), MoveDefect},
		{"2tft punishes a second time", KindTwoTitsForTat,
			history([]Move{MoveCooperate, MoveDefect}, []Move{MoveDefect, MoveCooperate}), MoveDefect},
		{"2tft relents after two", KindTwoTitsForTat,
			history([]Move{MoveCooperate, MoveDefect, MoveDefect},
				[]Move{MoveDefect, MoveCooperate, MoveCooperate}), MoveCooperate},

		{"grudger opens cooperating", KindGrudger, &State{}, MoveCooperate},
		{"grudger turns on betrayal", KindGrudger,
			history([]Move{MoveCooperate}, []Move{MoveDefect}), MoveDefect},

		{"pavlov opens cooperating", KindPavlov, &State{}, MoveCooperate},
		{"pavlov stays on reward", KindPavlov,
			&State{Own: []Move{MoveCooperate}, LastPayoff: 3}, MoveCooperate},
		{"pavlov shifts on sucker payoff", KindPavlov,
			&State{Own: []Move{MoveCooperate}, LastPayoff: 0}, MoveDefect},
		{"pavlov stays on temptation", KindPavlov,
			&State{Own: []Move{MoveDefect}, LastPayoff: 5}, MoveDefect},
		{"pavlov shifts on punishment", KindPavlov,
			&State{Own: []Move{MoveDefect}, LastPayoff: 1}, MoveCooperate},

		{"adaptive opens cooperating", KindAdaptive, &State{}, MoveCooperate},
		{"adaptive follows cooperative trend", KindAdaptive,
			history([]Move{MoveCooperate, MoveCooperate, MoveCooperate},
				[]Move{MoveCooperate, MoveCooperate, MoveDefect}), MoveCooperate},
		{"adaptive follows hostile trend", KindAdaptive,
			history([]Move{MoveCooperate, MoveCooperate, MoveCooperate},
				[]Move{MoveDefect, MoveDefect, MoveCooperate}), MoveDefect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecideMatrix(tt.kind, tt.st, ctx); got != tt.want {
				t.Errorf("DecideMatrix(%s) = %s, want %s", tt.kind, got, tt.want)
			}
		})
	}
}

func TestGrudgerNeverForgives(t *testing.T) {
	st := history([]Move{MoveCooperate}, []Move{MoveDefect})
	ctx := MatrixContext{Satisfaction: 3}

	if got := DecideMatrix(KindGrudger, st, ctx); got != MoveDefect {
		t.Fatalf("first response to betrayal = %s, want D", got)
	}
	if !st.Betrayed {
		t.Fatal("betrayal did not set the trigger")
	}

	// A long streak of cooperation afterwards changes nothing.
	for i := 0; i < 10; i++ {
		st.RecordInteraction(MoveDefect, MoveCooperate, 5)
		if got := DecideMatrix(KindGrudger, st, ctx); got != MoveDefect {
			t.Fatalf("grudger forgave after %d cooperative rounds", i+1)
		}
	}
}

func TestAdaptiveUsesRecentWindow(t *testing.T) {
	// Five early defections followed by recent cooperation: only the window
	// counts, so the verdict is cooperation.
	opp := []Move{MoveDefect, MoveDefect, MoveDefect, MoveDefect, MoveDefect,
		MoveCooperate, MoveCooperate, MoveCooperate}
	own := make([]Move, len(opp))
	st := history(own, opp)

	if got := DecideMatrix(KindAdaptive, st, MatrixContext{}); got != MoveCooperate {
		t.Errorf("adaptive judged full history instead of the recent window")
	}
}

func TestRandomIsSeedDeterministic(t *testing.T) {
	run := func(seed int64) []Move {
		src := entropy.NewSource(seed)
		ctx := MatrixContext{Rand: src}
		st := &State{}
		out := make([]Move, 50)
		for i := range out {
			out[i] = DecideMatrix(KindRandom, st, ctx)
		}
		return out
	}

	a, b := run(11), run(11)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same-seed random streams diverged at %d", i)
		}
	}
}

func TestMoveString(t *testing.T) {
	if MoveCooperate.String() != "C" || MoveDefect.String() != "D" {
		t.Errorf("Move strings = %q/%q, want C/D", MoveCooperate, MoveDefect)
	}
}
