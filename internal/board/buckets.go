package board

import (
	"strings"

	"join/internal/api"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Buckets holds the tasks of the board split by status, each in load order.
type Buckets struct {
	Todo          []api.Task
	InProgress    []api.Task
	AwaitFeedback []api.Task
	Done          []api.Task
}

// Get returns the bucket for status, or nil for an unknown status.
func (b Buckets) Get(status api.Status) []api.Task {
	if p := b.ptr(status); p != nil {
		return *p
	}
	return nil
}

// Len is the number of tasks across all four buckets.
func (b Buckets) Len() int {
	return len(b.Todo) + len(b.InProgress) + len(b.AwaitFeedback) + len(b.Done)
}

func (b *Buckets) ptr(status api.Status) *[]api.Task {
	switch status {
	case api.StatusTodo:
		return &b.Todo
	case api.StatusInProgress:
		return &b.InProgress
	case api.StatusAwaitFeedback:
		return &b.AwaitFeedback
	case api.StatusDone:
		return &b.Done
	}
	return nil
}

// locate finds the bucket and index holding the task with id.
func (b *Buckets) locate(id uuid.UUID) (api.Status, int, bool) {
	for _, status := range api.Statuses {
		for i, t := range *b.ptr(status) {
			if t.ID == id {
				return status, i, true
			}
		}
	}
	return "", -1, false
}

func (b *Buckets) remove(status api.Status, index int) api.Task {
	p := b.ptr(status)
	task := (*p)[index]
	*p = append((*p)[:index:index], (*p)[index+1:]...)
	return task
}

func (b *Buckets) insert(status api.Status, index int, task api.Task) {
	p := b.ptr(status)
	if index < 0 || index > len(*p) {
		index = len(*p)
	}
	out := make([]api.Task, 0, len(*p)+1)
	out = append(out, (*p)[:index]...)
	out = append(out, task)
	*p = append(out, (*p)[index:]...)
}

// Clone returns a copy that shares no slices with b.
func (b Buckets) Clone() Buckets {
	return Buckets{
		Todo:          cloneTasks(b.Todo),
		InProgress:    cloneTasks(b.InProgress),
		AwaitFeedback: cloneTasks(b.AwaitFeedback),
		Done:          cloneTasks(b.Done),
	}
}

func cloneTasks(tasks []api.Task) []api.Task {
	out := make([]api.Task, len(tasks))
	for i, t := range tasks {
		out[i] = cloneTask(t)
	}
	return out
}

func cloneTask(t api.Task) api.Task {
	t.AssignedTo = append([]uuid.UUID(nil), t.AssignedTo...)
	t.Contacts = append([]uuid.UUID(nil), t.Contacts...)
	t.Subtasks = append([]api.Subtask(nil), t.Subtasks...)
	return t
}

// Partition splits tasks into the four status buckets, keeping input order.
// Tasks with any other status are dropped and logged as errors.
func Partition(tasks []api.Task, logger logrus.FieldLogger) Buckets {
	var b Buckets
	for _, t := range tasks {
		p := b.ptr(t.Status)
		if p == nil {
			logger.WithField("task_id", t.ID).Errorf("Unknown or undefined task status: %s", t.Status)
			continue
		}
		*p = append(*p, cloneTask(t))
	}
	return b
}

// Filter keeps the tasks whose title or description contains query,
// ignoring case and surrounding whitespace. An empty query keeps everything.
// b is not modified.
func Filter(b Buckets, query string) Buckets {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return b.Clone()
	}
	match := func(tasks []api.Task) []api.Task {
		out := make([]api.Task, 0, len(tasks))
		for _, t := range tasks {
			if strings.Contains(strings.ToLower(t.Title), q) || strings.Contains(strings.ToLower(t.Description), q) {
				out = append(out, cloneTask(t))
			}
		}
		return out
	}
	return Buckets{
		Todo:          match(b.Todo),
		InProgress:    match(b.InProgress),
		AwaitFeedback: match(b.AwaitFeedback),
		Done:          match(b.Done),
	}
}
