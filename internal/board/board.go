// Package board keeps the four status buckets of the kanban board in step
// with the task store.
package board

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"join/internal/api"
	"join/internal/client"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownStatus       = errors.New("unknown task status")
	ErrTaskNotOnBoard      = errors.New("task is not on the board")
	ErrNoDraggedTask       = errors.New("no task is being dragged")
	ErrSubtaskNotFound     = errors.New("subtask not found")
	ErrSubtaskNotPersisted = errors.New("subtask has no id")
	ErrLoadSuperseded      = errors.New("task list superseded by a newer change")
)

// Store is the remote task store the board reads from and writes to.
type Store interface {
	ListTasks(ctx context.Context) ([]api.Task, error)
	CreateTask(ctx context.Context, task api.Task) (*api.Task, error)
	UpdateTask(ctx context.Context, task api.Task) (*api.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	CreateSubtask(ctx context.Context, subtask api.Subtask) (*api.Subtask, error)
	UpdateSubtask(ctx context.Context, subtask api.Subtask) (*api.Subtask, error)
}

var _ Store = (*client.Client)(nil)

// Alerter shows a message the user has to acknowledge.
type Alerter interface {
	Alert(message string)
}

// AlertFunc adapts a function to Alerter.
type AlertFunc func(message string)

func (f AlertFunc) Alert(message string) { f(message) }

type Board struct {
	store   Store
	alerter Alerter
	log     logrus.FieldLogger

	mu         sync.Mutex
	snapshot   Buckets
	query      string
	menuOpen   map[uuid.UUID]bool
	dragged    uuid.UUID
	generation uint64
}

type Option func(*Board)

func WithAlerter(a Alerter) Option {
	return func(b *Board) { b.alerter = a }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(b *Board) { b.log = l }
}

func New(store Store, opts ...Option) *Board {
	b := &Board{
		store:    store,
		alerter:  AlertFunc(func(string) {}),
		log:      logrus.StandardLogger(),
		menuOpen: make(map[uuid.UUID]bool),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load replaces the board with the store's task list. On failure the
// previous tasks are kept. A list that arrives after a newer load or write
// has been applied is discarded with ErrLoadSuperseded.
func (b *Board) Load(ctx context.Context) error {
	b.mu.Lock()
	b.generation++
	gen := b.generation
	b.mu.Unlock()

	tasks, err := b.store.ListTasks(ctx)
	if err != nil {
		b.log.WithError(err).Error("Error loading tasks")
		return fmt.Errorf("load tasks: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.generation {
		b.log.WithField("generation", gen).Debug("discarding superseded task list")
		return ErrLoadSuperseded
	}
	b.snapshot = Partition(tasks, b.log)
	for id := range b.menuOpen {
		if _, _, ok := b.snapshot.locate(id); !ok {
			delete(b.menuOpen, id)
		}
	}
	if _, _, ok := b.snapshot.locate(b.dragged); !ok {
		b.dragged = uuid.Nil
	}
	return nil
}

// ChangeStatus moves the task to the bucket for status once the store has
// accepted the change. If the store fails the task stays where it was.
func (b *Board) ChangeStatus(ctx context.Context, taskID uuid.UUID, status api.Status) error {
	if !status.Valid() {
		b.log.WithField("task_id", taskID).Errorf("Unknown or undefined task status: %s", status)
		return ErrUnknownStatus
	}

	b.mu.Lock()
	from, index, ok := b.snapshot.locate(taskID)
	if !ok {
		b.mu.Unlock()
		b.log.WithField("task_id", taskID).Error("status change for a task that is not on the board")
		return ErrTaskNotOnBoard
	}
	task := cloneTask(b.snapshot.Get(from)[index])
	b.mu.Unlock()

	return b.transition(ctx, task, status)
}

// transition sends task with the new status to the store and, on success,
// moves it between buckets in a single step under the lock.
func (b *Board) transition(ctx context.Context, task api.Task, status api.Status) error {
	payload := task
	payload.Subtasks = task.PersistedSubtasks()
	payload.Status = status

	updated, err := b.store.UpdateTask(ctx, payload)
	if err != nil {
		b.log.WithError(err).WithFields(logrus.Fields{
			"task_id": task.ID,
			"status":  status,
		}).Error("Error updating task status")
		b.alerter.Alert("Failed to update the task status. Please try again.")
		return fmt.Errorf("update task %s: %w", task.ID, err)
	}

	moved := cloneTask(*updated)
	moved.Status = status

	b.mu.Lock()
	defer b.mu.Unlock()
	from, index, ok := b.snapshot.locate(task.ID)
	if !ok {
		// removed while the update was in flight
		b.log.WithField("task_id", task.ID).Warn("task left the board during a status change")
		return nil
	}
	b.snapshot.remove(from, index)
	b.snapshot.insert(status, -1, moved)
	delete(b.menuOpen, task.ID)
	b.generation++
	return nil
}

// StartDrag remembers taskID as the task being dragged.
func (b *Board) StartDrag(taskID uuid.UUID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, _, ok := b.snapshot.locate(taskID); !ok {
		b.log.WithField("task_id", taskID).Error("drag started for a task that is not on the board")
		return ErrTaskNotOnBoard
	}
	b.dragged = taskID
	return nil
}

// Dragged returns the task being dragged, if any.
func (b *Board) Dragged() (uuid.UUID, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dragged, b.dragged != uuid.Nil
}

// Drop moves the dragged task to target. The drag ends either way; if the
// store rejects the change the task keeps its place in its old bucket.
func (b *Board) Drop(ctx context.Context, target api.Status) error {
	b.mu.Lock()
	taskID := b.dragged
	b.dragged = uuid.Nil
	if taskID == uuid.Nil {
		b.mu.Unlock()
		b.log.Error("Drop without a dragged task")
		return ErrNoDraggedTask
	}
	if !target.Valid() {
		b.mu.Unlock()
		b.log.WithField("task_id", taskID).Errorf("Unknown or undefined task status: %s", target)
		return ErrUnknownStatus
	}
	from, index, ok := b.snapshot.locate(taskID)
	if !ok {
		b.mu.Unlock()
		b.log.WithField("task_id", taskID).Error("dragged task is no longer on the board")
		return ErrTaskNotOnBoard
	}
	task := cloneTask(b.snapshot.Get(from)[index])
	b.mu.Unlock()

	return b.transition(ctx, task, target)
}

// Add creates task in the store, creating its unsaved subtasks first.
// New tasks always start in todo.
func (b *Board) Add(ctx context.Context, task api.Task) (*api.Task, error) {
	task.ID = uuid.Nil
	task.Status = api.StatusTodo

	subtasks := make([]api.Subtask, 0, len(task.Subtasks))
	for _, st := range task.Subtasks {
		if !st.Persisted() {
			created, err := b.store.CreateSubtask(ctx, st)
			if err != nil {
				b.log.WithError(err).Error("Error creating subtask")
				b.alerter.Alert("Failed to create the subtask. Please try again.")
				return nil, fmt.Errorf("create subtask: %w", err)
			}
			st = *created
		}
		subtasks = append(subtasks, st)
	}
	task.Subtasks = subtasks

	created, err := b.store.CreateTask(ctx, task)
	if err != nil {
		b.log.WithError(err).Error("Error creating task")
		b.alerter.Alert("Failed to create the task. Please try again.")
		return nil, fmt.Errorf("create task: %w", err)
	}
	added := cloneTask(*created)
	added.Status = api.StatusTodo

	b.mu.Lock()
	defer b.mu.Unlock()
	b.snapshot.insert(api.StatusTodo, -1, added)
	b.generation++
	out := cloneTask(added)
	return &out, nil
}

// Remove deletes the task from the store and then from its bucket.
func (b *Board) Remove(ctx context.Context, taskID uuid.UUID) error {
	b.mu.Lock()
	_, _, ok := b.snapshot.locate(taskID)
	b.mu.Unlock()
	if !ok {
		b.log.WithField("task_id", taskID).Error("delete for a task that is not on the board")
		return ErrTaskNotOnBoard
	}

	if err := b.store.DeleteTask(ctx, taskID); err != nil {
		b.log.WithError(err).WithField("task_id", taskID).Error("Error deleting task")
		b.alerter.Alert("Failed to delete the task. Please try again.")
		return fmt.Errorf("delete task %s: %w", taskID, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if from, index, ok := b.snapshot.locate(taskID); ok {
		b.snapshot.remove(from, index)
	}
	delete(b.menuOpen, taskID)
	if b.dragged == taskID {
		b.dragged = uuid.Nil
	}
	b.generation++
	return nil
}

// ToggleSubtask flips the completed flag of the subtask at index.
func (b *Board) ToggleSubtask(ctx context.Context, taskID uuid.UUID, index int) error {
	b.mu.Lock()
	from, i, ok := b.snapshot.locate(taskID)
	if !ok {
		b.mu.Unlock()
		b.log.WithField("task_id", taskID).Error("subtask toggle for a task that is not on the board")
		return ErrTaskNotOnBoard
	}
	subtasks := b.snapshot.Get(from)[i].Subtasks
	if index < 0 || index >= len(subtasks) {
		b.mu.Unlock()
		b.log.WithFields(logrus.Fields{"task_id": taskID, "index": index}).Error("subtask index out of range")
		return ErrSubtaskNotFound
	}
	subtask := subtasks[index]
	b.mu.Unlock()

	if !subtask.Persisted() {
		b.log.WithField("task_id", taskID).Error("Subtask ID is missing, cannot update")
		return ErrSubtaskNotPersisted
	}

	subtask.Completed = !subtask.Completed
	updated, err := b.store.UpdateSubtask(ctx, subtask)
	if err != nil {
		b.log.WithError(err).WithField("subtask_id", subtask.ID).Error("Error updating subtask")
		b.alerter.Alert("Failed to update the subtask. Please try again.")
		return fmt.Errorf("update subtask %s: %w", subtask.ID, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	from, i, ok = b.snapshot.locate(taskID)
	if !ok {
		return nil
	}
	bucket := b.snapshot.Get(from)
	task := cloneTask(bucket[i])
	for j := range task.Subtasks {
		if task.Subtasks[j].ID == updated.ID {
			task.Subtasks[j] = *updated
		}
	}
	bucket[i] = task
	b.generation++
	return nil
}

// ToggleStatusMenu flips the status menu of a task and returns whether it
// is now open. Tasks not on the board never have an open menu.
func (b *Board) ToggleStatusMenu(taskID uuid.UUID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, _, ok := b.snapshot.locate(taskID); !ok {
		return false
	}
	if b.menuOpen[taskID] {
		delete(b.menuOpen, taskID)
		return false
	}
	b.menuOpen[taskID] = true
	return true
}

func (b *Board) StatusMenuOpen(taskID uuid.UUID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.menuOpen[taskID]
}

// Search sets the query used by View and returns the filtered buckets.
func (b *Board) Search(query string) Buckets {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.query = query
	return Filter(b.snapshot, b.query)
}

func (b *Board) Query() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.query
}

// View returns the buckets filtered by the current query.
func (b *Board) View() Buckets {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Filter(b.snapshot, b.query)
}

// Snapshot returns every task on the board, ignoring the query.
func (b *Board) Snapshot() Buckets {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot.Clone()
}

// Task returns a copy of the task with id.
func (b *Board) Task(id uuid.UUID) (api.Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	from, i, ok := b.snapshot.locate(id)
	if !ok {
		return api.Task{}, false
	}
	return cloneTask(b.snapshot.Get(from)[i]), true
}
