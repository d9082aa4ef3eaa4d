// Package importer loads a JSON export from another tracker into the
// local database. The parser is deliberately tolerant: it probes for
// known fields with gjson and skips records it cannot make sense of,
// so exports from differently-versioned apps still mostly import.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/regimenhq/regimen/internal/utils"
	"github.com/regimenhq/regimen/pkg/storage"
)

// Summary counts what an import actually did.
type Summary struct {
	Supplements   int
	Equipment     int
	ScheduleItems int
	DietApplied   bool
	Skipped       int
}

// ImportFile reads the export at path and loads it for the user.
// Records carrying an id reuse it, so re-importing the same export is
// a no-op for records that already exist.
func ImportFile(ctx context.Context, db *storage.DB, userID, path string) (Summary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, err
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return Summary{}, fmt.Errorf("%s: not a JSON object", path)
	}

	var summary Summary

	if diet := doc.Get("diet"); diet.IsObject() {
		ds := storage.DietSettings{
			UserID:   userID,
			DietType: stringOr(diet.Get("diet_type"), "untracked"),
		}
		if other := diet.Get("diet_type_other"); other.Exists() && other.Type == gjson.String {
			v := other.String()
			ds.DietTypeOther = &v
		}
		ds.TargetProtein = floatPtr(diet.Get("target_protein_g"))
		ds.TargetCarbs = floatPtr(diet.Get("target_carbs_g"))
		ds.TargetFat = floatPtr(diet.Get("target_fat_g"))
		if err := db.UpsertDietSettings(ctx, &ds); err != nil {
			return summary, fmt.Errorf("import diet: %w", err)
		}
		summary.DietApplied = true
	}

	for _, rec := range doc.Get("supplements").Array() {
		name := rec.Get("name").String()
		if name == "" {
			summary.Skipped++
			continue
		}
		id := rec.Get("id").String()
		if exists, err := recordExists(ctx, db, userID, "supplement", id); err != nil {
			return summary, err
		} else if exists {
			summary.Skipped++
			continue
		}
		s := storage.Supplement{
			ID:             id,
			UserID:         userID,
			Name:           name,
			Category:       rec.Get("category").String(),
			IntakeQuantity: rec.Get("intake_quantity").String(),
			IntakeForm:     rec.Get("intake_form").String(),
			Timings:        stringList(rec.Get("timings")),
			Frequency:      rec.Get("frequency").String(),
			FrequencyDays:  stringList(rec.Get("frequency_days")),
			IsActive:       boolOr(rec.Get("is_active"), true),
		}
		if err := db.CreateSupplement(ctx, &s); err != nil {
			return summary, fmt.Errorf("import supplement %q: %w", name, err)
		}
		summary.Supplements++
	}

	for _, rec := range doc.Get("equipment").Array() {
		name := rec.Get("name").String()
		if name == "" {
			summary.Skipped++
			continue
		}
		id := rec.Get("id").String()
		if exists, err := recordExists(ctx, db, userID, "equipment", id); err != nil {
			return summary, err
		} else if exists {
			summary.Skipped++
			continue
		}
		e := storage.Equipment{
			ID:            id,
			UserID:        userID,
			Name:          name,
			UsageTiming:   rec.Get("usage_timing").String(),
			Frequency:     rec.Get("frequency").String(),
			FrequencyDays: stringList(rec.Get("frequency_days")),
			IsActive:      boolOr(rec.Get("is_active"), true),
		}
		if dur := rec.Get("duration_minutes"); dur.Exists() && dur.Type == gjson.Number {
			v := int(dur.Int())
			e.DurationMinutes = &v
		}
		// The similarity gate is skipped on import: the export is
		// assumed to already be deduplicated.
		if err := db.CreateEquipment(ctx, &e, true); err != nil {
			return summary, fmt.Errorf("import equipment %q: %w", name, err)
		}
		summary.Equipment++
	}

	for _, rec := range doc.Get("schedule_items").Array() {
		name := rec.Get("name").String()
		itemType := rec.Get("item_type").String()
		if name == "" || (itemType != storage.ItemTypeExercise && itemType != storage.ItemTypeMeal) {
			summary.Skipped++
			continue
		}
		id := rec.Get("id").String()
		if exists, err := recordExists(ctx, db, userID, "schedule_item", id); err != nil {
			return summary, err
		} else if exists {
			summary.Skipped++
			continue
		}
		item := storage.ScheduleItem{
			ID:            id,
			UserID:        userID,
			Name:          name,
			ItemType:      itemType,
			ExerciseType:  rec.Get("exercise_type").String(),
			MealType:      rec.Get("meal_type").String(),
			Frequency:     rec.Get("frequency").String(),
			FrequencyDays: stringList(rec.Get("frequency_days")),
			IsActive:      boolOr(rec.Get("is_active"), true),
		}
		if timing := rec.Get("timing"); timing.Exists() && timing.Type == gjson.String {
			v := timing.String()
			item.Timing = &v
		}
		if dur := rec.Get("duration_minutes"); dur.Exists() && dur.Type == gjson.Number {
			v := int(dur.Int())
			item.DurationMinutes = &v
		}
		if err := db.CreateScheduleItem(ctx, &item); err != nil {
			return summary, fmt.Errorf("import schedule item %q: %w", name, err)
		}
		summary.ScheduleItems++
	}

	utils.Log.Infof("imported %d supplements, %d equipment, %d schedule items (%d skipped)",
		summary.Supplements, summary.Equipment, summary.ScheduleItems, summary.Skipped)
	return summary, nil
}

func recordExists(ctx context.Context, db *storage.DB, userID, family, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	var err error
	switch family {
	case "supplement":
		_, err = db.GetSupplement(ctx, userID, id)
	case "equipment":
		_, err = db.GetEquipment(ctx, userID, id)
	case "schedule_item":
		_, err = db.GetScheduleItem(ctx, userID, id)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func stringList(res gjson.Result) []string {
	if !res.IsArray() {
		return nil
	}
	var out []string
	for _, v := range res.Array() {
		if v.Type == gjson.String {
			out = append(out, v.String())
		}
	}
	return out
}

func stringOr(res gjson.Result, fallback string) string {
	if res.Exists() && res.Type == gjson.String && res.String() != "" {
		return res.String()
	}
	return fallback
}

func boolOr(res gjson.Result, fallback bool) bool {
	if res.Type == gjson.True || res.Type == gjson.False {
		return res.Bool()
	}
	return fallback
}

func floatPtr(res gjson.Result) *float64 {
	if !res.Exists() || res.Type != gjson.Number {
		return nil
	}
	v := res.Float()
	return &v
}
