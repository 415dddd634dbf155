package models

import "time"

// StudyCycle is the immutable record of one full pass through a list's items.
type StudyCycle struct {
	ID          string    `json:"id" db:"id"`
	ListID      string    `json:"list_id" db:"list_id"`
	CycleNumber int       `json:"cycle_number" db:"cycle_number"`
	TotalTime   int       `json:"total_time" db:"total_time"` // minutes
	CompletedAt time.Time `json:"completed_at" db:"completed_at"`
}
