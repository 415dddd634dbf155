package models

import "time"

// Statuses of a CompletionIntent.
const (
	IntentPending       = "pending"
	IntentCycleRecorded = "cycle_recorded"
	IntentApplied       = "applied"
	IntentFailed        = "failed"
)

// CompletionIntent is written before a cycle is archived so that an
// interruption between recording the cycle and resetting the items can be
// found and finished later.
type CompletionIntent struct {
	ID          string    `json:"id" db:"id"`
	ListID      string    `json:"list_id" db:"list_id"`
	CycleNumber int       `json:"cycle_number" db:"cycle_number"`
	TotalTime   int       `json:"total_time" db:"total_time"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Open reports whether the intent still needs work.
func (i CompletionIntent) Open() bool {
	return i.Status == IntentPending || i.Status == IntentCycleRecorded
}
