package models

import (
	"encoding/json"
	"time"
)

// StudyItem is one topic of a list with an estimated study time in minutes.
type StudyItem struct {
	ID            string    `json:"id" db:"id"`
	ListID        string    `json:"list_id" db:"list_id"`
	Title         string    `json:"title" db:"title"`
	EstimatedTime int       `json:"estimated_time" db:"estimated_time"`
	IsCompleted   bool      `json:"is_completed" db:"is_completed"`
	// OrderIndex is advisory and only used for display; ties and gaps are tolerated.
	OrderIndex int       `json:"order_index" db:"order_index"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// BoolFromInt accepts JSON booleans as well as 0/1 numbers and "true"/"1" strings.
type BoolFromInt bool

// UnmarshalJSON implements json.Unmarshaler.
func (b *BoolFromInt) UnmarshalJSON(data []byte) error {
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	switch v := value.(type) {
	case bool:
		*b = BoolFromInt(v)
	case float64:
		*b = BoolFromInt(v != 0)
	case string:
		*b = BoolFromInt(v == "true" || v == "1")
	default:
		*b = false
	}

	return nil
}

// MarshalJSON implements json.Marshaler.
func (b BoolFromInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}
