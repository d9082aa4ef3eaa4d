package storage

import (
	"context"
	"fmt"

	"github.com/regimenhq/regimen/pkg/protocol"
)

// BuildSnapshot assembles the user's current protocol from the four
// source families. Pure read: it never creates records, and a user
// with no data yields an untracked diet and an empty item list.
// Any failed family read aborts the whole snapshot.
func (d *DB) BuildSnapshot(ctx context.Context, userID string) (protocol.RoutineSnapshot, error) {
	snapshot := protocol.RoutineSnapshot{
		Diet:  protocol.DietSnapshot{Type: protocol.DietUntracked},
		Items: []protocol.SnapshotItem{},
	}

	diet, err := d.GetDietSettings(ctx, userID)
	if err != nil {
		return snapshot, fmt.Errorf("read diet settings: %w", err)
	}
	if diet != nil {
		snapshot.Diet = protocol.DietSnapshot{
			Type:      diet.DietType,
			TypeOther: diet.DietTypeOther,
			Macros: protocol.Macros{
				ProteinG: diet.TargetProtein,
				CarbsG:   diet.TargetCarbs,
				FatG:     diet.TargetFat,
			},
		}
	}

	supplements, err := d.ListScheduledSupplements(ctx, userID)
	if err != nil {
		return snapshot, fmt.Errorf("read supplements: %w", err)
	}
	for _, s := range supplements {
		snapshot.Items = append(snapshot.Items, protocol.SnapshotItem{
			ID:             protocol.ItemID(protocol.SourceSupplement, s.ID),
			Source:         protocol.SourceSupplement,
			SourceID:       s.ID,
			Name:           s.Name,
			Timings:        s.Timings,
			Frequency:      defaultFrequency(s.Frequency),
			FrequencyDays:  s.FrequencyDays,
			Category:       s.Category,
			IntakeQuantity: s.IntakeQuantity,
			IntakeForm:     s.IntakeForm,
		})
	}

	equipment, err := d.ListScheduledEquipment(ctx, userID)
	if err != nil {
		return snapshot, fmt.Errorf("read equipment: %w", err)
	}
	for _, e := range equipment {
		timing := e.UsageTiming
		snapshot.Items = append(snapshot.Items, protocol.SnapshotItem{
			ID:            protocol.ItemID(protocol.SourceEquipment, e.ID),
			Source:        protocol.SourceEquipment,
			SourceID:      e.ID,
			Name:          e.Name,
			Timing:        &timing,
			Frequency:     defaultFrequency(e.Frequency),
			FrequencyDays: e.FrequencyDays,
			Duration:      e.DurationMinutes,
		})
	}

	scheduleItems, err := d.ListScheduledScheduleItems(ctx, userID)
	if err != nil {
		return snapshot, fmt.Errorf("read schedule items: %w", err)
	}
	for _, s := range scheduleItems {
		snapshot.Items = append(snapshot.Items, protocol.SnapshotItem{
			ID:            protocol.ItemID(protocol.SourceScheduleItem, s.ID),
			Source:        protocol.SourceScheduleItem,
			SourceID:      s.ID,
			Name:          s.Name,
			Timing:        s.Timing,
			Frequency:     defaultFrequency(s.Frequency),
			FrequencyDays: s.FrequencyDays,
			Duration:      s.DurationMinutes,
			ItemType:      s.ItemType,
			ExerciseType:  s.ExerciseType,
			MealType:      s.MealType,
		})
	}

	// Routine items join the snapshot unconditionally, active or not.
	routineItems, err := d.ListAllRoutineItems(ctx, userID)
	if err != nil {
		return snapshot, fmt.Errorf("read routine items: %w", err)
	}
	for _, it := range routineItems {
		snapshot.Items = append(snapshot.Items, protocol.SnapshotItem{
			ID:            protocol.ItemID(protocol.SourceRoutine, it.ID),
			Source:        protocol.SourceRoutine,
			SourceID:      it.ID,
			Name:          it.Name,
			Timing:        it.Timing,
			Frequency:     defaultFrequency(it.Frequency),
			FrequencyDays: it.FrequencyDays,
			Duration:      it.DurationMinutes,
		})
	}

	return snapshot, nil
}

func defaultFrequency(f string) string {
	if f == "" {
		return "daily"
	}
	return f
}
