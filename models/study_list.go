package models

import "time"

// StudyList is a named, user-owned container of study items.
type StudyList struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"user_id" db:"user_id"`
	Title         string    `json:"title" db:"title"`
	Description   *string   `json:"description" db:"description"`
	CycleDuration int       `json:"cycle_duration" db:"cycle_duration"` // days
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// CycleDurationPresets are the durations (in days) offered when a list is created.
var CycleDurationPresets = []int{1, 3, 7, 14, 30}

// IsCycleDurationPreset reports whether days is one of CycleDurationPresets.
func IsCycleDurationPreset(days int) bool {
	for _, p := range CycleDurationPresets {
		if p == days {
			return true
		}
	}
	return false
}
