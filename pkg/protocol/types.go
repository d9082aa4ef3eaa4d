package protocol

// Source families a snapshot item can come from.
const (
	SourceSupplement   = "supplement"
	SourceEquipment    = "equipment"
	SourceScheduleItem = "schedule_item"
	SourceRoutine      = "routine"
)

// DietUntracked is the diet type used when the user has no diet record.
const DietUntracked = "untracked"

// SnapshotItem is a single scheduled item, normalized across the four
// source families. ID is stable per source record; the family-specific
// fields are only populated for their own Source.
type SnapshotItem struct {
	ID            string   `json:"id"`
	Source        string   `json:"source"`
	SourceID      string   `json:"source_id"`
	Name          string   `json:"name"`
	Timing        *string  `json:"timing"`
	Timings       []string `json:"timings,omitempty"`
	Frequency     string   `json:"frequency"`
	FrequencyDays []string `json:"frequency_days,omitempty"`

	// Supplement-only
	Category       string `json:"category,omitempty"`
	IntakeQuantity string `json:"intake_quantity,omitempty"`
	IntakeForm     string `json:"intake_form,omitempty"`

	// Equipment, schedule items and routines
	Duration *int `json:"duration,omitempty"`

	// Schedule-item-only
	ItemType     string `json:"item_type,omitempty"`
	ExerciseType string `json:"exercise_type,omitempty"`
	MealType     string `json:"meal_type,omitempty"`
}

// ItemID builds the snapshot-wide identifier for a source record.
func ItemID(source, sourceID string) string {
	return source + "-" + sourceID
}

// Macros holds the macro targets of a diet. Nil means no target set.
type Macros struct {
	ProteinG *float64 `json:"protein_g"`
	CarbsG   *float64 `json:"carbs_g"`
	FatG     *float64 `json:"fat_g"`
}

// DietSnapshot is a point-in-time copy of the user's diet settings.
type DietSnapshot struct {
	Type      string  `json:"type"`
	TypeOther *string `json:"type_other"`
	Macros    Macros  `json:"macros"`
}

// RoutineSnapshot captures what the user's protocol looks like right now.
// Once persisted as part of a version it is never mutated.
type RoutineSnapshot struct {
	Diet  DietSnapshot   `json:"diet"`
	Items []SnapshotItem `json:"items"`
}

// ValueChange records a single from/to transition.
type ValueChange struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// FieldChange records a tracked field that differs between two
// occurrences of the same item.
type FieldChange struct {
	Field string `json:"field"`
	From  any    `json:"from"`
	To    any    `json:"to"`
}

// ModifiedItem is an item present in both snapshots with at least one
// tracked field changed.
type ModifiedItem struct {
	Item    SnapshotItem  `json:"item"`
	Changes []FieldChange `json:"changes"`
}

// RoutineChanges is the structured delta between two snapshots.
type RoutineChanges struct {
	DietChanged   *ValueChange           `json:"diet_changed"`
	MacrosChanged map[string]ValueChange `json:"macros_changed"`
	Started       []SnapshotItem         `json:"started"`
	Stopped       []SnapshotItem         `json:"stopped"`
	Modified      []ModifiedItem         `json:"modified"`
}

// Empty reports whether the diff contains no change at all. An empty
// diff must not produce a new version.
func (c RoutineChanges) Empty() bool {
	return c.DietChanged == nil &&
		c.MacrosChanged == nil &&
		len(c.Started) == 0 &&
		len(c.Stopped) == 0 &&
		len(c.Modified) == 0
}
