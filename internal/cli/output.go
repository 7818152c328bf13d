package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"join/internal/api"
	"join/internal/board"

	"github.com/google/uuid"
)

var statusTitles = map[api.Status]string{
	api.StatusTodo:          "To do",
	api.StatusInProgress:    "In progress",
	api.StatusAwaitFeedback: "Await feedback",
	api.StatusDone:          "Done",
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func printBuckets(w io.Writer, b board.Buckets) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, status := range api.Statuses {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		tasks := b.Get(status)
		fmt.Fprintf(tw, "%s (%d)\n", statusTitles[status], len(tasks))
		if len(tasks) == 0 {
			fmt.Fprintln(tw, "  No tasks")
			continue
		}
		for _, t := range tasks {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", shortID(t.ID), t.Title, t.Priority, t.DueDate, progress(t))
		}
	}
	_ = tw.Flush()
}

func printTask(w io.Writer, t api.Task) {
	fmt.Fprintf(w, "%s %s [%s]\n", shortID(t.ID), t.Title, statusTitles[t.Status])
	for i, st := range t.Subtasks {
		mark := " "
		if st.Completed {
			mark = "x"
		}
		fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, mark, st.Text)
	}
}

func printSummary(w io.Writer, s board.Summary) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "To do\t%d\n", s.Todo)
	fmt.Fprintf(tw, "In progress\t%d\n", s.InProgress)
	fmt.Fprintf(tw, "Await feedback\t%d\n", s.AwaitFeedback)
	fmt.Fprintf(tw, "Done\t%d\n", s.Done)
	fmt.Fprintf(tw, "Tasks on board\t%d\n", s.Total)
	fmt.Fprintf(tw, "Urgent\t%d\n", s.Urgent)
	if !s.NextDeadline.IsZero() {
		fmt.Fprintf(tw, "Upcoming deadline\t%s\n", s.NextDeadline.Format("January 2, 2006"))
	}
	_ = tw.Flush()
}

func progress(t api.Task) string {
	if len(t.Subtasks) == 0 {
		return ""
	}
	done := 0
	for _, st := range t.Subtasks {
		if st.Completed {
			done++
		}
	}
	return fmt.Sprintf("%d/%d subtasks", done, len(t.Subtasks))
}
