package cycle

import (
	"errors"
	"time"

	"study_server_go/models"
)

var (
	// ErrItemNotFound is returned when a toggled item is not part of the list.
	ErrItemNotFound = errors.New("study item not found")
	// ErrNotAllComplete is returned when a completion is planned for a list
	// that is empty or still has incomplete items.
	ErrNotAllComplete = errors.New("list has incomplete items")
)

// IntentKind is the kind of side effect an Intent asks for.
type IntentKind int

const (
	PersistItem IntentKind = iota + 1
	InsertCycle
	ResetItems
	Notify
)

func (k IntentKind) String() string {
	switch k {
	case PersistItem:
		return "persist-item"
	case InsertCycle:
		return "insert-cycle"
	case ResetItems:
		return "reset-items"
	case Notify:
		return "notify"
	}
	return "unknown"
}

// Intent is one side effect produced by the evaluator. Only the fields that
// belong to its Kind are set.
type Intent struct {
	Kind      IntentKind
	ListID    string
	ItemID    string
	Completed bool
	Cycle     models.StudyCycle
	At        time.Time
}

// Toggle is a user setting the completion flag of one item.
type Toggle struct {
	ItemID    string
	Completed bool
}

// Plan is the outcome of evaluating a snapshot: the state after the toggle,
// the state after every intent has been applied, and the intents in the
// order they must run.
type Plan struct {
	Toggled models.ListSnapshot
	Next    models.ListSnapshot
	Intents []Intent
}

// CompletesCycle reports whether the plan archives a cycle.
func (p Plan) CompletesCycle() bool {
	for _, in := range p.Intents {
		if in.Kind == InsertCycle {
			return true
		}
	}
	return false
}

// Evaluate applies a toggle to a snapshot. When the toggle sets the last
// incomplete item of a non-empty list, the plan also completes the cycle.
func Evaluate(snap models.ListSnapshot, t Toggle, at time.Time) (Plan, error) {
	idx := -1
	for i, item := range snap.Items {
		if item.ID == t.ItemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Plan{}, ErrItemNotFound
	}

	toggled := snap.Clone()
	toggled.Items[idx].IsCompleted = t.Completed
	toggled.Items[idx].UpdatedAt = at

	plan := Plan{
		Toggled: toggled,
		Next:    toggled,
		Intents: []Intent{{
			Kind:      PersistItem,
			ListID:    snap.List.ID,
			ItemID:    t.ItemID,
			Completed: t.Completed,
			At:        at,
		}},
	}

	if !t.Completed || !AllComplete(toggled.Items) {
		return plan, nil
	}

	completion, err := PlanCompletion(toggled, at)
	if err != nil {
		return Plan{}, err
	}
	plan.Next = completion.Next
	plan.Intents = append(plan.Intents, completion.Intents...)
	return plan, nil
}

// PlanCompletion plans the archival of a fully completed list: insert the
// cycle, reset every item, notify.
func PlanCompletion(snap models.ListSnapshot, at time.Time) (Plan, error) {
	if !AllComplete(snap.Items) {
		return Plan{}, ErrNotAllComplete
	}

	cycle := models.StudyCycle{
		ListID:      snap.List.ID,
		CycleNumber: NextCycleNumber(snap),
		TotalTime:   TotalTime(snap.Items),
		CompletedAt: at,
	}

	next := snap.Clone()
	for i := range next.Items {
		next.Items[i].IsCompleted = false
		next.Items[i].UpdatedAt = at
	}
	next.Cycles = append([]models.StudyCycle{cycle}, next.Cycles...)

	return Plan{
		Toggled: snap,
		Next:    next,
		Intents: []Intent{
			{Kind: InsertCycle, ListID: snap.List.ID, Cycle: cycle, At: at},
			{Kind: ResetItems, ListID: snap.List.ID, At: at},
			{Kind: Notify, ListID: snap.List.ID, Cycle: cycle, At: at},
		},
	}, nil
}

// AllComplete reports whether items is non-empty and every item is completed.
func AllComplete(items []models.StudyItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if !item.IsCompleted {
			return false
		}
	}
	return true
}

// TotalTime sums the estimated time of items, in minutes.
func TotalTime(items []models.StudyItem) int {
	total := 0
	for _, item := range items {
		total += item.EstimatedTime
	}
	return total
}

// Superseded reports whether the pass an open intent for cycleNumber belongs
// to is no longer the current one: a later cycle was recorded or the items
// were already reset or unchecked. Such an intent must not reset the list.
func Superseded(snap models.ListSnapshot, cycleNumber int) bool {
	return len(snap.Cycles) > cycleNumber || !AllComplete(snap.Items)
}

// NextCycleNumber is the number the next cycle of the list gets: one past the
// number of cycles already recorded.
func NextCycleNumber(snap models.ListSnapshot) int {
	return len(snap.Cycles) + 1
}
