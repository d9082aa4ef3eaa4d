package protocol

import (
	"encoding/json"
	"testing"
)

func strptr(s string) *string { return &s }

func intptr(i int) *int { return &i }

func f64ptr(f float64) *float64 { return &f }

func supp(id, name string, timings ...string) SnapshotItem {
	return SnapshotItem{
		ID:        ItemID(SourceSupplement, id),
		Source:    SourceSupplement,
		SourceID:  id,
		Name:      name,
		Timings:   timings,
		Frequency: "daily",
	}
}

func snap(items ...SnapshotItem) RoutineSnapshot {
	return RoutineSnapshot{
		Diet:  DietSnapshot{Type: DietUntracked},
		Items: items,
	}
}

func TestDiffNoPrevious(t *testing.T) {
	current := snap(supp("1", "Magnesium", "pm"), supp("2", "Creatine", "am"))

	got := Diff(nil, current)

	if len(got.Started) != 2 {
		t.Fatalf("expected 2 started items, got %d", len(got.Started))
	}
	if len(got.Stopped) != 0 || len(got.Modified) != 0 {
		t.Fatalf("expected no stopped/modified items, got %d/%d", len(got.Stopped), len(got.Modified))
	}
	if got.DietChanged != nil {
		t.Fatalf("untracked diet should not register a change, got %+v", got.DietChanged)
	}
}

func TestDiffNoPreviousTrackedDiet(t *testing.T) {
	current := snap()
	current.Diet.Type = "keto"
	// Macros must not be compared in the no-previous branch
	current.Diet.Macros.ProteinG = f64ptr(150)

	got := Diff(nil, current)

	if got.DietChanged == nil || got.DietChanged.From != DietUntracked || got.DietChanged.To != "keto" {
		t.Fatalf("expected untracked->keto diet change, got %+v", got.DietChanged)
	}
	if got.MacrosChanged != nil {
		t.Fatalf("macros must stay nil without a previous snapshot, got %v", got.MacrosChanged)
	}
}

func TestDiffStartedStopped(t *testing.T) {
	a := snap(supp("1", "Magnesium", "pm"), supp("2", "Creatine", "am"))
	b := snap(supp("2", "Creatine", "am"), supp("3", "Zinc", "pm"))

	got := Diff(&a, b)

	if len(got.Started) != 1 || got.Started[0].ID != "supplement-3" {
		t.Fatalf("expected supplement-3 started, got %+v", got.Started)
	}
	if len(got.Stopped) != 1 || got.Stopped[0].ID != "supplement-1" {
		t.Fatalf("expected supplement-1 stopped, got %+v", got.Stopped)
	}

	// Role-reversed: diffing the other way swaps started and stopped.
	rev := Diff(&b, a)
	if len(rev.Started) != 1 || rev.Started[0].ID != "supplement-1" {
		t.Fatalf("expected supplement-1 started in reverse diff, got %+v", rev.Started)
	}
	if len(rev.Stopped) != 1 || rev.Stopped[0].ID != "supplement-3" {
		t.Fatalf("expected supplement-3 stopped in reverse diff, got %+v", rev.Stopped)
	}
}

func TestDiffModifiedTrackedFieldsOnly(t *testing.T) {
	before := supp("1", "Magnesium", "pm")
	before.Category = "mineral"
	after := before
	after.Category = "sleep" // untracked field

	got := Diff(&RoutineSnapshot{Diet: DietSnapshot{Type: DietUntracked}, Items: []SnapshotItem{before}}, snap(after))
	if len(got.Modified) != 0 {
		t.Fatalf("category change alone must not register, got %+v", got.Modified)
	}

	after = before
	after.Frequency = "weekly"
	got = Diff(&RoutineSnapshot{Diet: DietSnapshot{Type: DietUntracked}, Items: []SnapshotItem{before}}, snap(after))
	if len(got.Modified) != 1 {
		t.Fatalf("expected 1 modified item, got %d", len(got.Modified))
	}
	fc := got.Modified[0].Changes
	if len(fc) != 1 || fc[0].Field != "frequency" || fc[0].From != "daily" || fc[0].To != "weekly" {
		t.Fatalf("expected single frequency change daily->weekly, got %+v", fc)
	}
}

func TestDiffTimingsDeepCompare(t *testing.T) {
	before := supp("1", "Magnesium", "am", "pm")
	after := supp("1", "Magnesium", "am")

	got := Diff(&RoutineSnapshot{Diet: DietSnapshot{Type: DietUntracked}, Items: []SnapshotItem{before}}, snap(after))
	if len(got.Modified) != 1 || got.Modified[0].Changes[0].Field != "timings" {
		t.Fatalf("expected timings change, got %+v", got.Modified)
	}

	// Same elements, same order: no change.
	same := supp("1", "Magnesium", "am", "pm")
	got = Diff(&RoutineSnapshot{Diet: DietSnapshot{Type: DietUntracked}, Items: []SnapshotItem{before}}, snap(same))
	if !got.Empty() {
		t.Fatalf("identical snapshots must diff empty, got %+v", got)
	}
}

func TestDiffDurationChange(t *testing.T) {
	before := SnapshotItem{ID: "equipment-9", Source: SourceEquipment, SourceID: "9", Name: "Sauna", Timing: strptr("evening"), Frequency: "daily", Duration: intptr(20)}
	after := before
	after.Duration = intptr(30)

	got := Diff(&RoutineSnapshot{Diet: DietSnapshot{Type: DietUntracked}, Items: []SnapshotItem{before}}, snap(after))
	if len(got.Modified) != 1 {
		t.Fatalf("expected 1 modified item, got %d", len(got.Modified))
	}
	fc := got.Modified[0].Changes[0]
	if fc.Field != "duration" || fc.From != 20 || fc.To != 30 {
		t.Fatalf("expected duration 20->30, got %+v", fc)
	}
}

func TestDiffDietTransition(t *testing.T) {
	prev := snap()
	curr := snap()
	curr.Diet.Type = "keto"

	got := Diff(&prev, curr)
	if got.DietChanged == nil || got.DietChanged.From != DietUntracked || got.DietChanged.To != "keto" {
		t.Fatalf("expected untracked->keto, got %+v", got.DietChanged)
	}
	if got.MacrosChanged != nil {
		t.Fatalf("expected nil macros_changed, got %v", got.MacrosChanged)
	}
}

func TestDiffMacroChange(t *testing.T) {
	prev := snap()
	prev.Diet.Macros = Macros{ProteinG: f64ptr(150), CarbsG: f64ptr(200), FatG: f64ptr(70)}
	curr := snap()
	curr.Diet.Macros = Macros{ProteinG: f64ptr(180), CarbsG: f64ptr(200), FatG: f64ptr(70)}

	got := Diff(&prev, curr)
	if len(got.MacrosChanged) != 1 {
		t.Fatalf("expected exactly one macro change, got %v", got.MacrosChanged)
	}
	vc, ok := got.MacrosChanged["protein_g"]
	if !ok || vc.From != 150.0 || vc.To != 180.0 {
		t.Fatalf("expected protein_g 150->180, got %+v", vc)
	}
}

func TestDiffMacroNullTransition(t *testing.T) {
	prev := snap()
	curr := snap()
	curr.Diet.Macros.ProteinG = f64ptr(120)

	got := Diff(&prev, curr)
	vc, ok := got.MacrosChanged["protein_g"]
	if !ok || vc.From != nil || vc.To != 120.0 {
		t.Fatalf("expected protein_g null->120, got %+v", vc)
	}
}

func TestEmptyDiff(t *testing.T) {
	a := snap(supp("1", "Magnesium", "pm"))
	b := snap(supp("1", "Magnesium", "pm"))

	got := Diff(&a, b)
	if !got.Empty() {
		t.Fatalf("expected empty diff, got %+v", got)
	}
}

func TestChangesJSONShape(t *testing.T) {
	a := snap(supp("1", "Magnesium", "pm"))
	got := Diff(nil, a)

	raw, err := json.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"diet_changed", "macros_changed", "started", "stopped", "modified"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("missing %q in serialized changes: %s", key, raw)
		}
	}
	if decoded["diet_changed"] != nil {
		t.Fatalf("diet_changed should serialize as null, got %v", decoded["diet_changed"])
	}
}
