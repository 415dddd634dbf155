package data_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"study_server_go/data"
	"study_server_go/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getStore(t *testing.T) *data.Store {
	t.Helper()
	store, err := data.Open(context.Background(), data.DriverSQLite, filepath.Join(t.TempDir(), "study.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func addUser(t *testing.T, store *data.Store, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, DisplayName: "Ana", PasswordHash: "hash"}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func addList(t *testing.T, store *data.Store, userID, title string) *models.StudyList {
	t.Helper()
	list := &models.StudyList{UserID: userID, Title: title, CycleDuration: 7}
	require.NoError(t, store.CreateList(context.Background(), list))
	return list
}

func addItem(t *testing.T, store *data.Store, listID, title string, minutes int) *models.StudyItem {
	t.Helper()
	item := &models.StudyItem{ListID: listID, Title: title, EstimatedTime: minutes}
	require.NoError(t, store.CreateItem(context.Background(), item))
	return item
}

func TestOpenIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "study.db")

	first, err := data.Open(context.Background(), data.DriverSQLite, path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := data.Open(context.Background(), data.DriverSQLite, path, zerolog.Nop())
	require.NoError(t, err)
	defer second.Close()
	assert.NoError(t, second.Ping(context.Background()))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := data.Open(context.Background(), "mysql", "whatever", zerolog.Nop())
	assert.Error(t, err)
}

func TestUsers(t *testing.T) {
	assert := assert.New(t)
	store := getStore(t)
	ctx := context.Background()

	user := addUser(t, store, "  Ana@Example.com ")
	assert.NotEmpty(user.ID)
	assert.Equal("ana@example.com", user.Email)

	found, err := store.GetUserByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(user.ID, found.ID)
	assert.Equal("hash", found.PasswordHash)

	byID, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal("ana@example.com", byID.Email)

	missing, err := store.GetUserByEmail(ctx, "nobody@example.com")
	assert.NoError(err)
	assert.Nil(missing)

	err = store.CreateUser(ctx, &models.User{Email: "ana@example.com", DisplayName: "Dup", PasswordHash: "x"})
	assert.ErrorIs(err, data.ErrDuplicate)
}

func TestLists(t *testing.T) {
	assert := assert.New(t)
	store := getStore(t)
	ctx := context.Background()
	user := addUser(t, store, "ana@example.com")
	other := addUser(t, store, "bia@example.com")

	desc := "capítulos 1 a 4"
	first := &models.StudyList{UserID: user.ID, Title: "Cálculo", Description: &desc, CycleDuration: 14}
	require.NoError(t, store.CreateList(ctx, first))
	time.Sleep(2 * time.Millisecond)
	second := addList(t, store, user.ID, "Física")
	addList(t, store, other.ID, "História")

	got, err := store.GetListByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal("Cálculo", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(desc, *got.Description)
	assert.Equal(14, got.CycleDuration)

	lists, err := store.GetListsForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(second.ID, lists[0].ID)
	assert.Equal(first.ID, lists[1].ID)
	assert.Nil(lists[0].Description)

	missing, err := store.GetListByID(ctx, "nope")
	assert.NoError(err)
	assert.Nil(missing)

	err = store.CreateList(ctx, &models.StudyList{UserID: user.ID, Title: "", CycleDuration: 7})
	assert.Error(err, "empty title is rejected by the schema")
}

func TestItemOrderIndex(t *testing.T) {
	assert := assert.New(t)
	store := getStore(t)
	ctx := context.Background()
	user := addUser(t, store, "ana@example.com")
	list := addList(t, store, user.ID, "Cálculo")

	next, err := store.NextOrderIndex(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(0, next)

	first := addItem(t, store, list.ID, "Limites", 30)
	assert.Equal(0, first.OrderIndex)
	assert.False(first.IsCompleted)

	for i := 1; i <= 4; i++ {
		item := addItem(t, store, list.ID, "Tópico", 10)
		assert.Equal(i, item.OrderIndex)
	}

	next, err = store.NextOrderIndex(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(5, next)

	items, err := store.GetItemsByListID(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(first.ID, items[0].ID)

	err = store.CreateItem(ctx, &models.StudyItem{ListID: list.ID, Title: "Zero", EstimatedTime: 0})
	assert.Error(err)
}

func TestSetItemCompletedAndReset(t *testing.T) {
	assert := assert.New(t)
	store := getStore(t)
	ctx := context.Background()
	user := addUser(t, store, "ana@example.com")
	list := addList(t, store, user.ID, "Cálculo")
	a := addItem(t, store, list.ID, "Limites", 30)
	b := addItem(t, store, list.ID, "Derivadas", 45)
	now := time.Now().UTC()

	require.NoError(t, store.SetItemCompleted(ctx, a.ID, true, now))
	require.NoError(t, store.SetItemCompleted(ctx, b.ID, true, now))

	got, err := store.GetItemByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(got.IsCompleted)

	assert.ErrorIs(store.SetItemCompleted(ctx, "missing", true, now), sql.ErrNoRows)

	require.NoError(t, store.ResetItems(ctx, list.ID, now))
	items, err := store.GetItemsByListID(ctx, list.ID)
	require.NoError(t, err)
	for _, item := range items {
		assert.False(item.IsCompleted)
	}
}

func TestCyclesUniquePerList(t *testing.T) {
	assert := assert.New(t)
	store := getStore(t)
	ctx := context.Background()
	user := addUser(t, store, "ana@example.com")
	list := addList(t, store, user.ID, "Cálculo")
	other := addList(t, store, user.ID, "Física")
	at := time.Now().UTC()

	require.NoError(t, store.InsertCycle(ctx, &models.StudyCycle{ListID: list.ID, CycleNumber: 1, TotalTime: 60, CompletedAt: at}))
	require.NoError(t, store.InsertCycle(ctx, &models.StudyCycle{ListID: list.ID, CycleNumber: 2, TotalTime: 75, CompletedAt: at}))
	require.NoError(t, store.InsertCycle(ctx, &models.StudyCycle{ListID: other.ID, CycleNumber: 1, TotalTime: 10, CompletedAt: at}))

	err := store.InsertCycle(ctx, &models.StudyCycle{ListID: list.ID, CycleNumber: 2, TotalTime: 75, CompletedAt: at})
	assert.ErrorIs(err, data.ErrDuplicate)

	cycles, err := store.GetCyclesByListID(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, cycles, 2)
	assert.Equal(2, cycles[0].CycleNumber)
	assert.Equal(1, cycles[1].CycleNumber)
	assert.WithinDuration(at, cycles[0].CompletedAt, time.Second)

	exists, err := store.CycleExists(ctx, list.ID, 2)
	require.NoError(t, err)
	assert.True(exists)
	exists, err = store.CycleExists(ctx, list.ID, 3)
	require.NoError(t, err)
	assert.False(exists)
}

func TestDeleteListCascades(t *testing.T) {
	assert := assert.New(t)
	store := getStore(t)
	ctx := context.Background()
	user := addUser(t, store, "ana@example.com")
	list := addList(t, store, user.ID, "Cálculo")
	item := addItem(t, store, list.ID, "Limites", 30)
	require.NoError(t, store.InsertCycle(ctx, &models.StudyCycle{ListID: list.ID, CycleNumber: 1, TotalTime: 30, CompletedAt: time.Now().UTC()}))
	require.NoError(t, store.RecordIntent(ctx, &models.CompletionIntent{ListID: list.ID, CycleNumber: 2, TotalTime: 30}))

	require.NoError(t, store.DeleteList(ctx, list.ID))

	gotItem, err := store.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(gotItem)

	cycles, err := store.GetCyclesByListID(ctx, list.ID)
	require.NoError(t, err)
	assert.Empty(cycles)

	intents, err := store.GetOpenIntents(ctx)
	require.NoError(t, err)
	assert.Empty(intents)

	assert.ErrorIs(store.DeleteList(ctx, list.ID), sql.ErrNoRows)
}

func TestLoadSnapshot(t *testing.T) {
	assert := assert.New(t)
	store := getStore(t)
	ctx := context.Background()
	user := addUser(t, store, "ana@example.com")
	list := addList(t, store, user.ID, "Cálculo")

	snap, err := store.LoadSnapshot(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(list.ID, snap.List.ID)
	assert.NotNil(snap.Items)
	assert.Empty(snap.Items)
	assert.NotNil(snap.Cycles)

	addItem(t, store, list.ID, "Limites", 30)
	snap, err = store.LoadSnapshot(ctx, list.ID)
	require.NoError(t, err)
	assert.Len(snap.Items, 1)

	_, err = store.LoadSnapshot(ctx, "missing")
	assert.ErrorIs(err, sql.ErrNoRows)
}

func TestIntents(t *testing.T) {
	assert := assert.New(t)
	store := getStore(t)
	ctx := context.Background()
	user := addUser(t, store, "ana@example.com")
	list := addList(t, store, user.ID, "Cálculo")

	pending := &models.CompletionIntent{ListID: list.ID, CycleNumber: 1, TotalTime: 30}
	require.NoError(t, store.RecordIntent(ctx, pending))
	assert.Equal(models.IntentPending, pending.Status)
	assert.NotEmpty(pending.ID)

	recorded := &models.CompletionIntent{ListID: list.ID, CycleNumber: 2, TotalTime: 30, Status: models.IntentCycleRecorded}
	require.NoError(t, store.RecordIntent(ctx, recorded))

	open, err := store.GetOpenIntentsForList(ctx, list.ID)
	require.NoError(t, err)
	assert.Len(open, 2)

	require.NoError(t, store.UpdateIntentStatus(ctx, pending.ID, models.IntentFailed))
	require.NoError(t, store.UpdateIntentStatus(ctx, recorded.ID, models.IntentApplied))

	open, err = store.GetOpenIntents(ctx)
	require.NoError(t, err)
	assert.Empty(open)

	assert.ErrorIs(store.UpdateIntentStatus(ctx, "missing", models.IntentApplied), sql.ErrNoRows)
}

func completedList(t *testing.T, store *data.Store) (*models.StudyList, []*models.StudyItem) {
	t.Helper()
	ctx := context.Background()
	user := addUser(t, store, "ana@example.com")
	list := addList(t, store, user.ID, "Cálculo")
	items := []*models.StudyItem{
		addItem(t, store, list.ID, "Limites", 30),
		addItem(t, store, list.ID, "Derivadas", 45),
	}
	for _, item := range items {
		require.NoError(t, store.SetItemCompleted(ctx, item.ID, true, time.Now().UTC()))
	}
	return list, items
}

func TestApplyCompletion(t *testing.T) {
	assert := assert.New(t)
	store := getStore(t)
	ctx := context.Background()
	list, _ := completedList(t, store)

	intent := &models.CompletionIntent{ListID: list.ID, CycleNumber: 1, TotalTime: 75}
	require.NoError(t, store.RecordIntent(ctx, intent))

	cycle := &models.StudyCycle{ListID: list.ID, CycleNumber: 1, TotalTime: 75, CompletedAt: time.Now().UTC()}
	require.NoError(t, store.ApplyCompletion(ctx, intent.ID, cycle, time.Now().UTC()))

	snap, err := store.LoadSnapshot(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, snap.Cycles, 1)
	assert.Equal(75, snap.Cycles[0].TotalTime)
	for _, item := range snap.Items {
		assert.False(item.IsCompleted)
	}

	open, err := store.GetOpenIntentsForList(ctx, list.ID)
	require.NoError(t, err)
	assert.Empty(open)
}

func TestApplyCompletionDuplicateRollsBack(t *testing.T) {
	assert := assert.New(t)
	store := getStore(t)
	ctx := context.Background()
	list, _ := completedList(t, store)
	require.NoError(t, store.InsertCycle(ctx, &models.StudyCycle{ListID: list.ID, CycleNumber: 1, TotalTime: 75, CompletedAt: time.Now().UTC()}))

	intent := &models.CompletionIntent{ListID: list.ID, CycleNumber: 1, TotalTime: 75}
	require.NoError(t, store.RecordIntent(ctx, intent))

	cycle := &models.StudyCycle{ListID: list.ID, CycleNumber: 1, TotalTime: 75, CompletedAt: time.Now().UTC()}
	assert.Error(store.ApplyCompletion(ctx, intent.ID, cycle, time.Now().UTC()))

	snap, err := store.LoadSnapshot(ctx, list.ID)
	require.NoError(t, err)
	assert.Len(snap.Cycles, 1)
	for _, item := range snap.Items {
		assert.True(item.IsCompleted, "items are not reset when the cycle insert fails")
	}

	open, err := store.GetOpenIntentsForList(ctx, list.ID)
	require.NoError(t, err)
	assert.Len(open, 1)
}

func TestResumeCompletionSkipsRecordedCycle(t *testing.T) {
	assert := assert.New(t)
	store := getStore(t)
	ctx := context.Background()
	list, _ := completedList(t, store)

	intent := &models.CompletionIntent{ListID: list.ID, CycleNumber: 1, TotalTime: 75, Status: models.IntentCycleRecorded}
	require.NoError(t, store.RecordIntent(ctx, intent))
	require.NoError(t, store.InsertCycle(ctx, &models.StudyCycle{ListID: list.ID, CycleNumber: 1, TotalTime: 75, CompletedAt: time.Now().UTC()}))

	cycle := &models.StudyCycle{ListID: list.ID, CycleNumber: 1, TotalTime: 75, CompletedAt: time.Now().UTC()}
	resumed, err := store.ResumeCompletion(ctx, intent.ID, cycle, time.Now().UTC())
	require.NoError(t, err)
	assert.True(resumed)

	snap, err := store.LoadSnapshot(ctx, list.ID)
	require.NoError(t, err)
	assert.Len(snap.Cycles, 1)
	for _, item := range snap.Items {
		assert.False(item.IsCompleted)
	}
}

func TestResumeCompletionAfterLaterCycle(t *testing.T) {
	assert := assert.New(t)
	store := getStore(t)
	ctx := context.Background()
	list, items := completedList(t, store)
	at := time.Now().UTC()

	intent := &models.CompletionIntent{ListID: list.ID, CycleNumber: 1, TotalTime: 75, Status: models.IntentCycleRecorded}
	require.NoError(t, store.RecordIntent(ctx, intent))
	require.NoError(t, store.InsertCycle(ctx, &models.StudyCycle{ListID: list.ID, CycleNumber: 1, TotalTime: 75, CompletedAt: at}))
	require.NoError(t, store.InsertCycle(ctx, &models.StudyCycle{ListID: list.ID, CycleNumber: 2, TotalTime: 75, CompletedAt: at}))
	require.NoError(t, store.SetItemCompleted(ctx, items[1].ID, false, at))

	cycle := &models.StudyCycle{ListID: list.ID, CycleNumber: 1, TotalTime: 75, CompletedAt: at}
	resumed, err := store.ResumeCompletion(ctx, intent.ID, cycle, at)
	require.NoError(t, err)
	assert.False(resumed)

	snap, err := store.LoadSnapshot(ctx, list.ID)
	require.NoError(t, err)
	assert.Len(snap.Cycles, 2)
	require.Len(t, snap.Items, 2)
	assert.True(snap.Items[0].IsCompleted)
	assert.False(snap.Items[1].IsCompleted)

	open, err := store.GetOpenIntentsForList(ctx, list.ID)
	require.NoError(t, err)
	assert.Empty(open)
}

func TestResumeCompletionWithoutCycleFailsIntent(t *testing.T) {
	assert := assert.New(t)
	store := getStore(t)
	ctx := context.Background()
	list, items := completedList(t, store)
	at := time.Now().UTC()
	require.NoError(t, store.SetItemCompleted(ctx, items[0].ID, false, at))

	intent := &models.CompletionIntent{ListID: list.ID, CycleNumber: 1, TotalTime: 75}
	require.NoError(t, store.RecordIntent(ctx, intent))

	cycle := &models.StudyCycle{ListID: list.ID, CycleNumber: 1, TotalTime: 75, CompletedAt: at}
	resumed, err := store.ResumeCompletion(ctx, intent.ID, cycle, at)
	require.NoError(t, err)
	assert.False(resumed)

	snap, err := store.LoadSnapshot(ctx, list.ID)
	require.NoError(t, err)
	assert.Empty(snap.Cycles)
	assert.True(snap.Items[1].IsCompleted)

	open, err := store.GetOpenIntentsForList(ctx, list.ID)
	require.NoError(t, err)
	assert.Empty(open)
}
