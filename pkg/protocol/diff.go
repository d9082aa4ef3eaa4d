package protocol

import (
	"bytes"
	"encoding/json"
)

// trackedFields are the only item fields considered for modification
// detection. Anything else (name, category, ...) changing on its own
// does not count as a protocol change.
var trackedFields = []string{"timing", "timings", "frequency", "frequency_days", "duration"}

// Diff compares a previous snapshot (nil when no version exists yet)
// against the current one. It is deterministic and never fails:
// started items keep current's order, stopped items keep previous's.
func Diff(previous *RoutineSnapshot, current RoutineSnapshot) RoutineChanges {
	changes := RoutineChanges{
		Started:  []SnapshotItem{},
		Stopped:  []SnapshotItem{},
		Modified: []ModifiedItem{},
	}

	if previous == nil {
		changes.Started = append(changes.Started, current.Items...)
		if current.Diet.Type != DietUntracked {
			changes.DietChanged = &ValueChange{From: DietUntracked, To: current.Diet.Type}
		}
		return changes
	}

	if previous.Diet.Type != current.Diet.Type {
		changes.DietChanged = &ValueChange{From: previous.Diet.Type, To: current.Diet.Type}
	}

	for _, m := range []struct {
		name     string
		from, to *float64
	}{
		{"protein_g", previous.Diet.Macros.ProteinG, current.Diet.Macros.ProteinG},
		{"carbs_g", previous.Diet.Macros.CarbsG, current.Diet.Macros.CarbsG},
		{"fat_g", previous.Diet.Macros.FatG, current.Diet.Macros.FatG},
	} {
		if !floatPtrEqual(m.from, m.to) {
			if changes.MacrosChanged == nil {
				changes.MacrosChanged = make(map[string]ValueChange)
			}
			changes.MacrosChanged[m.name] = ValueChange{From: deref(m.from), To: deref(m.to)}
		}
	}

	prevByID := make(map[string]SnapshotItem, len(previous.Items))
	for _, item := range previous.Items {
		prevByID[item.ID] = item
	}
	currByID := make(map[string]SnapshotItem, len(current.Items))
	for _, item := range current.Items {
		currByID[item.ID] = item
	}

	for _, item := range current.Items {
		if _, ok := prevByID[item.ID]; !ok {
			changes.Started = append(changes.Started, item)
		}
	}
	for _, item := range previous.Items {
		if _, ok := currByID[item.ID]; !ok {
			changes.Stopped = append(changes.Stopped, item)
		}
	}

	for _, item := range current.Items {
		prev, ok := prevByID[item.ID]
		if !ok {
			continue
		}
		var fieldChanges []FieldChange
		for _, field := range trackedFields {
			from := trackedValue(prev, field)
			to := trackedValue(item, field)
			if !structEqual(from, to) {
				fieldChanges = append(fieldChanges, FieldChange{Field: field, From: from, To: to})
			}
		}
		if len(fieldChanges) > 0 {
			changes.Modified = append(changes.Modified, ModifiedItem{Item: item, Changes: fieldChanges})
		}
	}

	return changes
}

// trackedValue extracts one tracked field as a plain value, nil when
// the field is unset.
func trackedValue(item SnapshotItem, field string) any {
	switch field {
	case "timing":
		if item.Timing == nil {
			return nil
		}
		return *item.Timing
	case "timings":
		if item.Timings == nil {
			return nil
		}
		return item.Timings
	case "frequency":
		return item.Frequency
	case "frequency_days":
		if item.FrequencyDays == nil {
			return nil
		}
		return item.FrequencyDays
	case "duration":
		if item.Duration == nil {
			return nil
		}
		return *item.Duration
	}
	return nil
}

// structEqual compares two values structurally via their JSON
// encoding, so slices compare element-wise and nil compares to null.
func structEqual(a, b any) bool {
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	return bytes.Equal(ja, jb)
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
