package reconcile

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/abhishek-2k23/Todo-RN/client/apiclient"
	"github.com/abhishek-2k23/Todo-RN/client/model"
	"github.com/abhishek-2k23/Todo-RN/client/persist"
	"github.com/abhishek-2k23/Todo-RN/client/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var notFound = &apiclient.Error{Kind: apiclient.KindValidationError, Status: http.StatusNotFound, Message: "todo not found"}

// fakeAPI keeps todos in memory and lets a test inject one failure.
type fakeAPI struct {
	todos      []model.Task
	categories []model.Category
	fail       error
	// onCreate runs while CreateTodo is in flight.
	onCreate func()
	nextID   int
}

func (f *fakeAPI) ListTodos(context.Context) ([]model.Task, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return model.CloneTasks(f.todos), nil
}

func (f *fakeAPI) CreateTodo(_ context.Context, req apiclient.CreateTodoRequest) (*model.Task, error) {
	if f.onCreate != nil {
		f.onCreate()
	}
	if f.fail != nil {
		return nil, f.fail
	}
	f.nextID++
	now := time.Date(2024, 1, 1, 0, f.nextID, 0, 0, time.UTC)
	t := model.Task{
		ID:        "srv-" + string(rune('0'+f.nextID)),
		Title:     req.Title,
		Category:  model.DefaultCategory,
		Priority:  model.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.todos = append([]model.Task{t}, f.todos...)
	return &t, nil
}

func (f *fakeAPI) UpdateTodo(_ context.Context, id string, req apiclient.UpdateTodoRequest) (*model.Task, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	for i := range f.todos {
		if f.todos[i].ID != id {
			continue
		}
		t := &f.todos[i]
		t.UpdatedAt = t.UpdatedAt.Add(time.Minute)
		if req.Completed != nil {
			t.Completed = *req.Completed
			if t.Completed {
				stamp := t.UpdatedAt
				t.CompletedAt = &stamp
			} else {
				t.CompletedAt = nil
			}
		}
		if req.Title != nil {
			t.Title = *req.Title
		}
		out := t.Clone()
		return &out, nil
	}
	return nil, notFound
}

func (f *fakeAPI) DeleteTodo(_ context.Context, id string) error {
	if f.fail != nil {
		return f.fail
	}
	for i := range f.todos {
		if f.todos[i].ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return notFound
}

func (f *fakeAPI) ListCategories(context.Context) ([]model.Category, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return append([]model.Category(nil), f.categories...), nil
}

func (f *fakeAPI) CreateCategory(_ context.Context, name string) (*model.Category, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	c := model.Category{ID: "cat-" + name, Name: name}
	f.categories = append(f.categories, c)
	return &c, nil
}

func (f *fakeAPI) UpdateCategory(_ context.Context, id, name string) (*model.Category, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	for i := range f.categories {
		if f.categories[i].ID == id {
			f.categories[i].Name = name
			c := f.categories[i]
			return &c, nil
		}
	}
	return nil, notFound
}

func (f *fakeAPI) DeleteCategory(_ context.Context, id string) error {
	if f.fail != nil {
		return f.fail
	}
	for i := range f.categories {
		if f.categories[i].ID == id {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			return nil
		}
	}
	return notFound
}

func setup(t *testing.T) (*Controller, *fakeAPI, *store.Store, *persist.Bridge) {
	t.Helper()
	api := &fakeAPI{}
	st := store.New()
	bridge := persist.NewBridge(persist.NewMemoryStore(), zerolog.Nop())
	return New(api, st, bridge, zerolog.Nop()), api, st, bridge
}

func TestCreateConfirmsPendingTask(t *testing.T) {
	c, api, st, bridge := setup(t)
	ctx := context.Background()

	var pendingDuringCall []store.PendingTask
	api.onCreate = func() { pendingDuringCall = st.PendingTasks() }

	task, err := c.Create(ctx, apiclient.CreateTodoRequest{Title: "Buy milk"})
	require.NoError(t, err)

	require.Len(t, pendingDuringCall, 1)
	assert.Equal(t, "Buy milk", pendingDuringCall[0].Task.Title)
	assert.Empty(t, st.PendingTasks())

	assert.Equal(t, "srv-1", task.ID)
	assert.Equal(t, []model.Task{task}, st.Tasks())
	assert.Equal(t, st.Tasks(), bridge.Restore(ctx).Tasks, "task list is persisted")
}

func TestCreateFailureDiscardsPendingTask(t *testing.T) {
	c, api, st, _ := setup(t)
	api.fail = &apiclient.Error{Kind: apiclient.KindTimeout}

	_, err := c.Create(context.Background(), apiclient.CreateTodoRequest{Title: "Buy milk"})
	assert.Equal(t, apiclient.KindTimeout, apiclient.KindOf(err))
	assert.Empty(t, st.PendingTasks())
	assert.Empty(t, st.Tasks())
}

func TestNewestTaskFirst(t *testing.T) {
	c, _, st, _ := setup(t)
	ctx := context.Background()

	_, err := c.Create(ctx, apiclient.CreateTodoRequest{Title: "first"})
	require.NoError(t, err)
	_, err = c.Create(ctx, apiclient.CreateTodoRequest{Title: "second"})
	require.NoError(t, err)

	local := st.Tasks()
	require.NoError(t, c.Refresh(ctx))
	assert.Equal(t, st.Tasks(), local, "local order matches the server's")
}

func TestToggle(t *testing.T) {
	c, _, st, _ := setup(t)
	ctx := context.Background()

	created, err := c.Create(ctx, apiclient.CreateTodoRequest{Title: "x"})
	require.NoError(t, err)

	done, err := c.Toggle(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedAt)
	assert.False(t, done.CompletedAt.Before(created.UpdatedAt))

	undone, err := c.Toggle(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, undone.Completed)
	assert.Nil(t, undone.CompletedAt)

	got, _ := st.Task(created.ID)
	assert.Equal(t, undone, got)

	_, err = c.Toggle(ctx, "nope")
	assert.ErrorIs(t, err, ErrUnknownTask)
}

func TestUpdateNotFoundDropsLocalCopy(t *testing.T) {
	c, _, st, bridge := setup(t)
	ctx := context.Background()

	st.SetTasks([]model.Task{{ID: "ghost", Title: "deleted elsewhere"}})

	title := "x"
	_, err := c.Update(ctx, "ghost", apiclient.UpdateTodoRequest{Title: &title})
	assert.True(t, apiclient.IsNotFound(err))
	assert.Empty(t, st.Tasks())
	assert.Empty(t, bridge.Restore(ctx).Tasks)
}

func TestUpdateTransportErrorLeavesStore(t *testing.T) {
	c, api, st, _ := setup(t)
	ctx := context.Background()

	created, err := c.Create(ctx, apiclient.CreateTodoRequest{Title: "x"})
	require.NoError(t, err)
	before := st.Snapshot()

	api.fail = &apiclient.Error{Kind: apiclient.KindNetworkUnreachable}
	_, err = c.SetCompleted(ctx, created.ID, true)
	assert.Equal(t, apiclient.KindNetworkUnreachable, apiclient.KindOf(err))
	assert.Equal(t, before, st.Snapshot())
}

func TestDelete(t *testing.T) {
	c, _, st, _ := setup(t)
	ctx := context.Background()

	created, err := c.Create(ctx, apiclient.CreateTodoRequest{Title: "x"})
	require.NoError(t, err)

	require.NoError(t, c.Delete(ctx, created.ID))
	assert.Empty(t, st.Tasks())

	// Already gone on the server.
	st.SetTasks([]model.Task{{ID: "stale"}})
	require.NoError(t, c.Delete(ctx, "stale"))
	assert.Empty(t, st.Tasks())
}

func TestDeleteFailureKeepsTask(t *testing.T) {
	c, api, st, _ := setup(t)
	ctx := context.Background()

	created, err := c.Create(ctx, apiclient.CreateTodoRequest{Title: "x"})
	require.NoError(t, err)

	api.fail = &apiclient.Error{Kind: apiclient.KindServerError, Status: 500}
	assert.Error(t, c.Delete(ctx, created.ID))
	_, ok := st.Task(created.ID)
	assert.True(t, ok)
}

func TestRefreshFailureKeepsLocalTasks(t *testing.T) {
	c, api, st, _ := setup(t)
	st.SetTasks([]model.Task{{ID: "local"}})

	api.fail = errors.New("boom")
	assert.Error(t, c.Refresh(context.Background()))
	assert.Len(t, st.Tasks(), 1)
}

func TestCategories(t *testing.T) {
	c, api, st, _ := setup(t)
	ctx := context.Background()
	api.categories = []model.Category{{ID: "cat-Work", Name: "Work"}}

	require.NoError(t, c.RefreshCategories(ctx))
	assert.Len(t, st.Categories(), 1)

	added, err := c.AddCategory(ctx, "Garden")
	require.NoError(t, err)
	assert.Len(t, st.Categories(), 2)

	renamed, err := c.RenameCategory(ctx, added.ID, "Yard")
	require.NoError(t, err)
	assert.Equal(t, "Yard", renamed.Name)

	st.SetSelectedCategory("Yard")
	require.NoError(t, c.RemoveCategory(ctx, added.ID))
	assert.Equal(t, []model.Category{{ID: "cat-Work", Name: "Work"}}, st.Categories())
	assert.Equal(t, model.AllCategories, st.SelectedCategory())

	_, err = c.RenameCategory(ctx, "missing", "x")
	assert.True(t, apiclient.IsNotFound(err))
}
