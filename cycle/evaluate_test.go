package cycle

import (
	"testing"
	"time"

	"study_server_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var evalAt = time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)

func snapshot(items ...models.StudyItem) models.ListSnapshot {
	for i := range items {
		items[i].ListID = "list"
		items[i].OrderIndex = i
	}
	return models.ListSnapshot{
		List:   models.StudyList{ID: "list", UserID: "user", Title: "Álgebra", CycleDuration: 7},
		Items:  items,
		Cycles: []models.StudyCycle{},
	}
}

func kinds(intents []Intent) []IntentKind {
	out := make([]IntentKind, len(intents))
	for i, in := range intents {
		out[i] = in.Kind
	}
	return out
}

func TestEvaluate_LastItemCompletesCycle(t *testing.T) {
	assert := assert.New(t)
	snap := snapshot(
		models.StudyItem{ID: "a", EstimatedTime: 30},
		models.StudyItem{ID: "b", EstimatedTime: 45, IsCompleted: true},
	)

	plan, err := Evaluate(snap, Toggle{ItemID: "a", Completed: true}, evalAt)
	require.NoError(t, err)

	assert.Equal([]IntentKind{PersistItem, InsertCycle, ResetItems, Notify}, kinds(plan.Intents))
	assert.True(plan.CompletesCycle())

	cycle := plan.Intents[1].Cycle
	assert.Equal(1, cycle.CycleNumber)
	assert.Equal(75, cycle.TotalTime)
	assert.Equal(evalAt, cycle.CompletedAt)

	assert.True(AllComplete(plan.Toggled.Items))
	for _, item := range plan.Next.Items {
		assert.False(item.IsCompleted)
	}
	require.Len(t, plan.Next.Cycles, 1)

	// input untouched
	assert.False(snap.Items[0].IsCompleted)
	assert.Empty(snap.Cycles)
}

func TestEvaluate_UncheckNeverCompletes(t *testing.T) {
	snap := snapshot(
		models.StudyItem{ID: "a", EstimatedTime: 30},
		models.StudyItem{ID: "b", EstimatedTime: 45, IsCompleted: true},
	)

	plan, err := Evaluate(snap, Toggle{ItemID: "a", Completed: false}, evalAt)
	require.NoError(t, err)

	assert.Equal(t, []IntentKind{PersistItem}, kinds(plan.Intents))
	assert.False(t, plan.CompletesCycle())
}

func TestEvaluate_PartialProgress(t *testing.T) {
	snap := snapshot(
		models.StudyItem{ID: "a", EstimatedTime: 30},
		models.StudyItem{ID: "b", EstimatedTime: 45},
	)

	plan, err := Evaluate(snap, Toggle{ItemID: "a", Completed: true}, evalAt)
	require.NoError(t, err)

	assert.Equal(t, []IntentKind{PersistItem}, kinds(plan.Intents))
	assert.True(t, plan.Next.Items[0].IsCompleted)
}

func TestEvaluate_UnknownItem(t *testing.T) {
	_, err := Evaluate(snapshot(models.StudyItem{ID: "a", EstimatedTime: 1}), Toggle{ItemID: "zzz", Completed: true}, evalAt)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestEvaluate_CycleNumberFollowsHistory(t *testing.T) {
	assert := assert.New(t)
	snap := snapshot(
		models.StudyItem{ID: "a", EstimatedTime: 20},
		models.StudyItem{ID: "b", EstimatedTime: 40, IsCompleted: true},
		models.StudyItem{ID: "c", EstimatedTime: 60, IsCompleted: true},
	)
	snap.Cycles = []models.StudyCycle{
		{ID: "c2", ListID: "list", CycleNumber: 2},
		{ID: "c1", ListID: "list", CycleNumber: 1},
	}

	plan, err := Evaluate(snap, Toggle{ItemID: "a", Completed: true}, evalAt)
	require.NoError(t, err)

	cycle := plan.Intents[1].Cycle
	assert.Equal(3, cycle.CycleNumber)
	assert.Equal(120, cycle.TotalTime)
	assert.Equal(3, plan.Next.Cycles[0].CycleNumber)
	assert.Len(plan.Next.Cycles, 3)
}

func TestPlanCompletion_EmptyList(t *testing.T) {
	_, err := PlanCompletion(snapshot(), evalAt)
	assert.ErrorIs(t, err, ErrNotAllComplete)
	assert.False(t, AllComplete(nil))
}

func TestPlanCompletion_Incomplete(t *testing.T) {
	_, err := PlanCompletion(snapshot(models.StudyItem{ID: "a", EstimatedTime: 5}), evalAt)
	assert.ErrorIs(t, err, ErrNotAllComplete)
}

func TestSummarize(t *testing.T) {
	assert := assert.New(t)
	snap := snapshot(
		models.StudyItem{ID: "a", EstimatedTime: 30, IsCompleted: true},
		models.StudyItem{ID: "b", EstimatedTime: 60},
		models.StudyItem{ID: "c", EstimatedTime: 30, IsCompleted: true},
		models.StudyItem{ID: "d", EstimatedTime: 30},
	)
	snap.Cycles = []models.StudyCycle{{CycleNumber: 1}}

	s := Summarize(snap)
	assert.Equal(2, s.CompletedItems)
	assert.Equal(4, s.TotalItems)
	assert.InDelta(50.0, s.Progress, 0.001)
	assert.Equal(150, s.TotalTime)
	assert.Equal("2h 30min", s.TotalTimeLabel)
	assert.Equal("1 semana", s.DurationLabel)
	assert.Equal(1, s.CycleCount)

	assert.Zero(Summarize(snapshot()).Progress)
}

func TestIntentKindString(t *testing.T) {
	assert.Equal(t, "insert-cycle", InsertCycle.String())
	assert.Equal(t, "unknown", IntentKind(0).String())
}
