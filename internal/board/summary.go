package board

import (
	"time"

	"join/internal/api"
)

// Summary is the overview shown above the board.
type Summary struct {
	Todo          int
	InProgress    int
	AwaitFeedback int
	Done          int
	Total         int
	// Urgent counts unfinished urgent tasks.
	Urgent int
	// NextDeadline is the earliest due date of an unfinished urgent task,
	// zero when there is none.
	NextDeadline time.Time
}

func Summarize(b Buckets) Summary {
	s := Summary{
		Todo:          len(b.Todo),
		InProgress:    len(b.InProgress),
		AwaitFeedback: len(b.AwaitFeedback),
		Done:          len(b.Done),
		Total:         b.Len(),
	}
	for _, status := range []api.Status{api.StatusTodo, api.StatusInProgress, api.StatusAwaitFeedback} {
		for _, t := range b.Get(status) {
			if t.Priority != api.PriorityUrgent {
				continue
			}
			s.Urgent++
			due, err := time.Parse(api.DateLayout, t.DueDate)
			if err != nil {
				continue
			}
			if s.NextDeadline.IsZero() || due.Before(s.NextDeadline) {
				s.NextDeadline = due
			}
		}
	}
	return s
}
