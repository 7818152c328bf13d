package model

import (
	"time"

	"join/internal/api"

	"github.com/google/uuid"
)

// ToAPI maps a stored task, with its associations preloaded, to the wire shape.
func (t *Task) ToAPI() api.Task {
	out := api.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    api.Priority(t.Priority),
		Category:    t.CategoryID,
		Status:      api.Status(t.Status),
		Creator:     t.CreatorID,
		AssignedTo:  contactIDs(t.AssignedTo),
		Contacts:    contactIDs(t.Contacts),
		Subtasks:    make([]api.Subtask, len(t.Subtasks)),
	}
	if t.DueDate != nil {
		out.DueDate = t.DueDate.Format(api.DateLayout)
	}
	for i := range t.Subtasks {
		out.Subtasks[i] = t.Subtasks[i].ToAPI()
	}
	return out
}

func (s *Subtask) ToAPI() api.Subtask {
	return api.Subtask{ID: s.ID, Text: s.Text, Completed: s.Completed}
}

func (c *Category) ToAPI() api.Category {
	return api.Category{ID: c.ID, Name: c.Name, Color: c.Color}
}

func (c *Contact) ToAPI() api.Contact {
	return api.Contact{
		ID:       c.ID,
		Name:     c.Name,
		Initials: c.Initials,
		Email:    c.Email,
		Phone:    c.Phone,
		Color:    c.Color,
	}
}

func (u *User) ToAPI() api.User {
	return api.User{ID: u.ID, Name: u.Name, Email: u.Email, Initials: u.Initials}
}

// ParseDueDate parses an api due date; the empty string means no due date.
func ParseDueDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(api.DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func contactIDs(contacts []Contact) []uuid.UUID {
	ids := make([]uuid.UUID, len(contacts))
	for i, c := range contacts {
		ids[i] = c.ID
	}
	return ids
}
