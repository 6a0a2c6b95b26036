package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const sampleYAML = `strategies:
  tit_for_tat:
    name: Tit for Tat
    description: Mirrors the opponent's previous move.
    behavior: Cooperates first, then copies.
    strengths: Rewards cooperation.
    weaknesses: Retaliation spirals.
  free_rider:
    name: Free Rider
    description: Contributes nothing.
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strategies.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestService(t *testing.T) *Service {
	return NewService(YAMLLoader{}, TextFormatter{}, writeCatalog(t, sampleYAML))
}

func TestDescriptions(t *testing.T) {
	svc := newTestService(t)

	descs, err := svc.Descriptions()
	if err != nil {
		t.Fatal(err)
	}
	if len(descs) != 2 {
		t.Fatalf("loaded %d descriptions, want 2", len(descs))
	}

	tft := descs["tit_for_tat"]
	for _, want := range []string{"Tit for Tat", "Behavior:", "Strengths:", "Weaknesses:"} {
		if !strings.Contains(tft, want) {
			t.Errorf("formatted description missing %q:\n%s", want, tft)
		}
	}

	// Sections absent from the source are omitted, not rendered empty.
	if fr := descs["free_rider"]; strings.Contains(fr, "Behavior:") {
		t.Errorf("free_rider rendered an empty section:\n%s", fr)
	}
}

func TestDescriptionsConcurrent(t *testing.T) {
	svc := newTestService(t)

	// First use populates the cache, so concurrent callers race the load.
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			descs, err := svc.Descriptions()
			if err != nil {
				t.Error(err)
				return
			}
			if len(descs) != 2 {
				t.Errorf("loaded %d descriptions, want 2", len(descs))
			}
		}()
	}
	wg.Wait()
}

func TestDescriptionLookup(t *testing.T) {
	svc := newTestService(t)

	desc, err := svc.Description("free_rider")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(desc, "Free Rider") {
		t.Errorf("description = %q", desc)
	}

	missing, err := svc.Description("no_such_kind")
	if err != nil {
		t.Fatal(err)
	}
	if missing != "" {
		t.Errorf("unknown kind returned %q, want empty", missing)
	}
}

func TestKeysSorted(t *testing.T) {
	svc := newTestService(t)

	keys, err := svc.Keys()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"free_rider", "tit_for_tat"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}

func TestDescriptionsReturnsCopy(t *testing.T) {
	svc := newTestService(t)

	first, err := svc.Descriptions()
	if err != nil {
		t.Fatal(err)
	}
	first["tit_for_tat"] = "tampered"

	second, err := svc.Descriptions()
	if err != nil {
		t.Fatal(err)
	}
	if second["tit_for_tat"] == "tampered" {
		t.Error("Descriptions exposed the internal cache")
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		svc := NewService(YAMLLoader{}, TextFormatter{}, filepath.Join(t.TempDir(), "absent.yaml"))
		if _, err := svc.Descriptions(); err == nil {
			t.Fatal("expected an error for a missing catalog")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		svc := NewService(YAMLLoader{}, TextFormatter{}, writeCatalog(t, "strategies: [not: a map"))
		if _, err := svc.Descriptions(); err == nil {
			t.Fatal("expected an error for malformed yaml")
		}
	})
}

func TestReload(t *testing.T) {
	path := writeCatalog(t, sampleYAML)
	svc := NewService(YAMLLoader{}, TextFormatter{}, path)

	if _, err := svc.Descriptions(); err != nil {
		t.Fatal(err)
	}

	updated := sampleYAML + `  grudger:
    name: Grudger
`
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatal(err)
	}

	// The cache serves the old copy until Reload.
	descs, _ := svc.Descriptions()
	if _, ok := descs["grudger"]; ok {
		t.Fatal("cache picked up the new file without Reload")
	}

	if err := svc.Reload(); err != nil {
		t.Fatal(err)
	}
	descs, _ = svc.Descriptions()
	if _, ok := descs["grudger"]; !ok {
		t.Error("Reload did not pick up the new entry")
	}
}
