// Package api holds the JSON shapes exchanged between the Join API and its clients.
package api

import "github.com/google/uuid"

// Status is the board column a task sits in.
type Status string

const (
	StatusTodo          Status = "todo"
	StatusInProgress    Status = "inProgress"
	StatusAwaitFeedback Status = "awaitFeedback"
	StatusDone          Status = "done"
)

// Statuses lists the board columns in display order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusAwaitFeedback, StatusDone}

// Valid reports whether s is one of the four board statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusAwaitFeedback, StatusDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// DateLayout is the wire format of Task.DueDate.
const DateLayout = "2006-01-02"

// Task is a board item. ID is uuid.Nil until the server has stored it.
type Task struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title" binding:"required"`
	Description string      `json:"description,omitempty"`
	Priority    Priority    `json:"priority,omitempty" binding:"omitempty,oneof=urgent medium low"`
	DueDate     string      `json:"due_date,omitempty"`
	Category    *uuid.UUID  `json:"category,omitempty"`
	AssignedTo  []uuid.UUID `json:"assigned_to"`
	Subtasks    []Subtask   `json:"subtasks"`
	Status      Status      `json:"status,omitempty" binding:"omitempty,oneof=todo inProgress awaitFeedback done"`
	Contacts    []uuid.UUID `json:"contacts"`
	Creator     *uuid.UUID  `json:"creator,omitempty"`
}

// Persisted reports whether the task has a server-assigned id.
func (t Task) Persisted() bool { return t.ID != uuid.Nil }

// PersistedSubtasks returns the subtasks that already have a server id.
func (t Task) PersistedSubtasks() []Subtask {
	out := make([]Subtask, 0, len(t.Subtasks))
	for _, st := range t.Subtasks {
		if st.Persisted() {
			out = append(out, st)
		}
	}
	return out
}

type Subtask struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text" binding:"required"`
	Completed bool      `json:"completed"`
}

func (s Subtask) Persisted() bool { return s.ID != uuid.Nil }

type Category struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name" binding:"required"`
	Color string    `json:"color" binding:"required"`
}

type Contact struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name" binding:"required"`
	Initials string    `json:"initials"`
	Email    string    `json:"email" binding:"omitempty,email"`
	Phone    string    `json:"phone"`
	Color    string    `json:"color"`
}

type User struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Initials string    `json:"initials"`
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}
