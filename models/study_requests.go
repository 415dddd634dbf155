package models

// CreateListRequest is the body of POST /api/lists.
type CreateListRequest struct {
	Title         string  `json:"title"`
	Description   *string `json:"description"`
	CycleDuration int     `json:"cycle_duration"`
}

// CreateItemRequest is the body of POST /api/lists/{list_id}/items.
type CreateItemRequest struct {
	Title         string `json:"title"`
	EstimatedTime int    `json:"estimated_time"`
}

// ToggleItemRequest is the body of PUT /api/items/{item_id}/completion.
// Completed is nil when the field is missing or null.
type ToggleItemRequest struct {
	Completed *BoolFromInt `json:"completed"`
}

// ListSummary holds the aggregate figures shown next to a list.
type ListSummary struct {
	CompletedItems int     `json:"completed_items"`
	TotalItems     int     `json:"total_items"`
	Progress       float64 `json:"progress"` // percent
	TotalTime      int     `json:"total_time"`
	TotalTimeLabel string  `json:"total_time_label"`
	DurationLabel  string  `json:"duration_label"`
	CycleCount     int     `json:"cycle_count"`
}

// ListDetails is the API representation of a list with items, cycles and summary.
type ListDetails struct {
	ListSnapshot
	Summary ListSummary `json:"summary"`
}

// ToggleItemResponse is returned by PUT /api/items/{item_id}/completion.
type ToggleItemResponse struct {
	ListDetails
	Cycle  *StudyCycle `json:"cycle,omitempty"`
	Notice string      `json:"notice,omitempty"`
}

// UserExport is a full export of one user's study data.
type UserExport struct {
	User       UserPublicInfo `json:"user"`
	Lists      []ListSnapshot `json:"lists"`
	ExportedAt string         `json:"exportedAt"`
}
