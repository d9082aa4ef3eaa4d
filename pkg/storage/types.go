package storage

import (
	"time"

	"github.com/regimenhq/regimen/pkg/protocol"
)

// User is an account the API scopes all data to.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// DietSettings is the per-user diet record. At most one row per user.
type DietSettings struct {
	UserID        string    `json:"user_id"`
	DietType      string    `json:"diet_type"`
	DietTypeOther *string   `json:"diet_type_other"`
	TargetProtein *float64  `json:"target_protein_g"`
	TargetCarbs   *float64  `json:"target_carbs_g"`
	TargetFat     *float64  `json:"target_fat_g"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Supplement is one supplement the user takes or has taken.
type Supplement struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	Category       string    `json:"category,omitempty"`
	IntakeQuantity string    `json:"intake_quantity,omitempty"`
	IntakeForm     string    `json:"intake_form,omitempty"`
	Timings        []string  `json:"timings"`
	Frequency      string    `json:"frequency"`
	FrequencyDays  []string  `json:"frequency_days,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Equipment is a recovery or training device (sauna, red light, ...).
type Equipment struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Name            string    `json:"name"`
	UsageTiming     string    `json:"usage_timing,omitempty"`
	DurationMinutes *int      `json:"duration_minutes"`
	Frequency       string    `json:"frequency"`
	FrequencyDays   []string  `json:"frequency_days,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Schedule item types.
const (
	ItemTypeExercise = "exercise"
	ItemTypeMeal     = "meal"
)

// ScheduleItem is a scheduled exercise or meal.
type ScheduleItem struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Name            string    `json:"name"`
	ItemType        string    `json:"item_type"`
	ExerciseType    string    `json:"exercise_type,omitempty"`
	MealType        string    `json:"meal_type,omitempty"`
	Timing          *string   `json:"timing"`
	DurationMinutes *int      `json:"duration_minutes"`
	Frequency       string    `json:"frequency"`
	FrequencyDays   []string  `json:"frequency_days,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Routine is a named group of routine items.
type Routine struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// RoutineItem is one step inside a routine.
type RoutineItem struct {
	ID              string    `json:"id"`
	RoutineID       string    `json:"routine_id"`
	Name            string    `json:"name"`
	Timing          *string   `json:"timing"`
	DurationMinutes *int      `json:"duration_minutes"`
	Frequency       string    `json:"frequency"`
	FrequencyDays   []string  `json:"frequency_days,omitempty"`
	Position        int       `json:"position"`
	CreatedAt       time.Time `json:"created_at"`
}

// RoutineVersion is an immutable numbered snapshot of the user's
// protocol plus the diff against its predecessor. Append-only: there
// is no update or delete for versions anywhere.
type RoutineVersion struct {
	ID            string                   `json:"id"`
	UserID        string                   `json:"user_id"`
	VersionNumber int                      `json:"version_number"`
	Snapshot      protocol.RoutineSnapshot `json:"snapshot"`
	Changes       protocol.RoutineChanges  `json:"changes"`
	Reason        string                   `json:"reason,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
}

// Biomarker is a single measured value (blood marker, weight, HRV, ...).
type Biomarker struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	MarkerType string    `json:"marker_type"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	MeasuredAt time.Time `json:"measured_at"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// JournalEntry is a dated free-text note with optional mood/energy scores.
type JournalEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	EntryDate string    `json:"entry_date"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	Mood      *int      `json:"mood"`
	Energy    *int      `json:"energy"`
	CreatedAt time.Time `json:"created_at"`
}

// Goal statuses.
const (
	GoalActive    = "active"
	GoalAchieved  = "achieved"
	GoalAbandoned = "abandoned"
)

// Goal is something the user is working toward.
type Goal struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	TargetDate  *string   `json:"target_date"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
