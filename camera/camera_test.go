package camera

import "testing"

func TestLookupKnownModel(t *testing.T) {
	s, err := Lookup("mini_4_pro")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if s.Model != "mini_4_pro" {
		t.Errorf("got model %q", s.Model)
	}
}

func TestLookupUnknownModel(t *testing.T) {
	if _, err := Lookup("not_a_real_drone"); err == nil {
		t.Error("expected error for unknown model")
	}
}

func TestMinInterval(t *testing.T) {
	s, _ := Lookup("mini_4_pro")
	if s.MinInterval(false) != s.MinIntervalLowResS {
		t.Errorf("low-res interval mismatch")
	}
	if s.MinInterval(true) != s.MinIntervalHighResS {
		t.Errorf("high-res interval mismatch")
	}
}

func TestKnownListsAllModels(t *testing.T) {
	names := Known()
	if len(names) != len(registry) {
		t.Errorf("got %d names, want %d", len(names), len(registry))
	}
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	for _, want := range []string{"mini_4_pro", "mavic_3e", "phantom_4_rtk"} {
		if !seen[want] {
			t.Errorf("Known() missing %q", want)
		}
	}
}
