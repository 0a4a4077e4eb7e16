// Package reconcile performs remote calls on behalf of the presentation layer
// and feeds their results into the store. Tasks are keyed by the server's id;
// a task being created lives in the store's pending list until the server
// answers.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhishek-2k23/Todo-RN/client/apiclient"
	"github.com/abhishek-2k23/Todo-RN/client/model"
	"github.com/abhishek-2k23/Todo-RN/client/persist"
	"github.com/abhishek-2k23/Todo-RN/client/store"
	"github.com/rs/zerolog"
)

// ErrUnknownTask is returned for an id the store does not hold.
var ErrUnknownTask = errors.New("unknown task")

// API is the part of the API client the controller calls.
type API interface {
	ListTodos(ctx context.Context) ([]model.Task, error)
	CreateTodo(ctx context.Context, req apiclient.CreateTodoRequest) (*model.Task, error)
	UpdateTodo(ctx context.Context, id string, req apiclient.UpdateTodoRequest) (*model.Task, error)
	DeleteTodo(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, name string) (*model.Category, error)
	UpdateCategory(ctx context.Context, id, name string) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// Controller is safe for concurrent use; all state lives in the store.
type Controller struct {
	api    API
	store  *store.Store
	bridge *persist.Bridge
	log    zerolog.Logger
}

// New returns a Controller.
func New(api API, st *store.Store, bridge *persist.Bridge, log zerolog.Logger) *Controller {
	return &Controller{api: api, store: st, bridge: bridge, log: log}
}

// Refresh replaces the local task list with the server's and persists it.
func (c *Controller) Refresh(ctx context.Context) error {
	tasks, err := c.api.ListTodos(ctx)
	if err != nil {
		return err
	}
	c.store.SetTasks(tasks)
	return c.persistTasks(ctx)
}

// RefreshCategories replaces the local category list with the server's.
func (c *Controller) RefreshCategories(ctx context.Context) error {
	cats, err := c.api.ListCategories(ctx)
	if err != nil {
		return err
	}
	c.store.SetCategories(cats)
	return nil
}

// Create sends a new task to the server. Until the server answers the task
// is pending; on failure it is discarded.
func (c *Controller) Create(ctx context.Context, req apiclient.CreateTodoRequest) (model.Task, error) {
	now := time.Now().UTC()
	tempID := c.store.AddPending(model.Task{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	})

	created, err := c.api.CreateTodo(ctx, req)
	if err != nil {
		c.store.DiscardPending(tempID)
		return model.Task{}, err
	}
	if err := c.store.ConfirmPending(tempID, *created); err != nil {
		return model.Task{}, err
	}

	c.log.Debug().Str("id", created.ID).Str("pending", tempID).Msg("task confirmed")
	return *created, c.persistTasks(ctx)
}

// Update applies a partial update. A 404 means the task is gone or not ours,
// so the local copy is dropped as well.
func (c *Controller) Update(ctx context.Context, id string, req apiclient.UpdateTodoRequest) (model.Task, error) {
	updated, err := c.api.UpdateTodo(ctx, id, req)
	if err != nil {
		if apiclient.IsNotFound(err) && c.store.DeleteTask(id) {
			c.log.Info().Str("id", id).Msg("task missing on server, dropped locally")
			return model.Task{}, errors.Join(err, c.persistTasks(ctx))
		}
		return model.Task{}, err
	}

	if !c.store.UpdateTask(*updated) {
		// Known to the server but not here yet.
		c.store.AddTask(*updated)
	}
	task, _ := c.store.Task(updated.ID)
	return task, c.persistTasks(ctx)
}

// Toggle flips the completed flag of a task held by the store.
func (c *Controller) Toggle(ctx context.Context, id string) (model.Task, error) {
	cur, ok := c.store.Task(id)
	if !ok {
		return model.Task{}, fmt.Errorf("%w: %s", ErrUnknownTask, id)
	}
	completed := !cur.Completed
	return c.Update(ctx, id, apiclient.UpdateTodoRequest{Completed: &completed})
}

// SetCompleted sets the completed flag of a task.
func (c *Controller) SetCompleted(ctx context.Context, id string, completed bool) (model.Task, error) {
	return c.Update(ctx, id, apiclient.UpdateTodoRequest{Completed: &completed})
}

// Delete removes a task on the server and locally. A task the server no
// longer has is still removed locally.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.api.DeleteTodo(ctx, id); err != nil && !apiclient.IsNotFound(err) {
		return err
	}
	c.store.DeleteTask(id)
	return c.persistTasks(ctx)
}

// AddCategory creates a category.
func (c *Controller) AddCategory(ctx context.Context, name string) (model.Category, error) {
	cat, err := c.api.CreateCategory(ctx, name)
	if err != nil {
		return model.Category{}, err
	}
	c.store.AddCategory(*cat)
	return *cat, nil
}

// RenameCategory renames a category. Tasks keep their old label.
func (c *Controller) RenameCategory(ctx context.Context, id, name string) (model.Category, error) {
	cat, err := c.api.UpdateCategory(ctx, id, name)
	if err != nil {
		return model.Category{}, err
	}
	if !c.store.ReplaceCategory(*cat) {
		c.store.AddCategory(*cat)
	}
	return *cat, nil
}

// RemoveCategory deletes a category. If it was the active filter the filter
// goes back to AllCategories.
func (c *Controller) RemoveCategory(ctx context.Context, id string) error {
	var name string
	for _, cat := range c.store.Categories() {
		if cat.ID == id {
			name = cat.Name
			break
		}
	}

	if err := c.api.DeleteCategory(ctx, id); err != nil && !apiclient.IsNotFound(err) {
		return err
	}
	c.store.RemoveCategory(id)
	if name != "" && c.store.SelectedCategory() == name {
		c.store.SetSelectedCategory(model.AllCategories)
	}
	return nil
}

func (c *Controller) persistTasks(ctx context.Context) error {
	if err := c.bridge.SaveTasks(ctx, c.store.Tasks()); err != nil {
		return fmt.Errorf("failed to persist tasks: %w", err)
	}
	return nil
}
