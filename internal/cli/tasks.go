package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"join/internal/api"
	"join/internal/board"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var errAmbiguousTask = errors.New("task id prefix matches more than one task")

func boardCmd(app *App) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the board, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := app.loadBoard(cmd.Context())
			if err != nil {
				return err
			}
			printBuckets(app.Out, b.Search(query))
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Only show tasks whose title or description contains this text")

	return cmd
}

func summaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Count tasks per status and show the next urgent deadline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := app.loadBoard(cmd.Context())
			if err != nil {
				return err
			}
			printSummary(app.Out, board.Summarize(b.Snapshot()))
			return nil
		},
	}
}

func moveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <task-id> <status>",
		Short: "Change the status of a task",
		Long:  "Change the status of a task. Status is one of todo, inProgress, awaitFeedback, done.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := app.loadBoard(cmd.Context())
			if err != nil {
				return err
			}
			id, err := resolveTask(b, args[0])
			if err != nil {
				return err
			}
			status := api.Status(args[1])
			if err := b.ChangeStatus(cmd.Context(), id, status); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Moved %s to %s\n", shortID(id), status)
			return nil
		},
	}
}

func dragCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "drag <task-id> <status>",
		Short: "Drag a task onto another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := app.loadBoard(cmd.Context())
			if err != nil {
				return err
			}
			id, err := resolveTask(b, args[0])
			if err != nil {
				return err
			}
			if err := b.StartDrag(id); err != nil {
				return err
			}
			if err := b.Drop(cmd.Context(), api.Status(args[1])); err != nil {
				return err
			}
			printBuckets(app.Out, b.View())
			return nil
		},
	}
}

func addCmd(app *App) *cobra.Command {
	var (
		task      api.Task
		priority  string
		category  string
		assignees []string
		subtasks  []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task to the todo column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			task.Priority = api.Priority(priority)
			if !task.Priority.Valid() {
				return fmt.Errorf("unknown priority %q", priority)
			}
			if category != "" {
				id, err := uuid.Parse(category)
				if err != nil {
					return fmt.Errorf("invalid category id: %w", err)
				}
				task.Category = &id
			}
			for _, raw := range assignees {
				id, err := uuid.Parse(raw)
				if err != nil {
					return fmt.Errorf("invalid contact id %q: %w", raw, err)
				}
				task.AssignedTo = append(task.AssignedTo, id)
			}
			for _, text := range subtasks {
				task.Subtasks = append(task.Subtasks, api.Subtask{Text: text})
			}

			b, err := app.loadBoard(cmd.Context())
			if err != nil {
				return err
			}
			added, err := b.Add(cmd.Context(), task)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Added %s %s\n", shortID(added.ID), added.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&task.Title, "title", "", "Title")
	cmd.Flags().StringVar(&task.Description, "description", "", "Description")
	cmd.Flags().StringVar(&task.DueDate, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&priority, "priority", string(api.PriorityMedium), "urgent, medium or low")
	cmd.Flags().StringVar(&category, "category", "", "Category id")
	cmd.Flags().StringSliceVar(&assignees, "assign", nil, "Contact ids to assign")
	cmd.Flags().StringArrayVar(&subtasks, "subtask", nil, "Subtask text, repeatable")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func rmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := app.loadBoard(cmd.Context())
			if err != nil {
				return err
			}
			id, err := resolveTask(b, args[0])
			if err != nil {
				return err
			}
			if err := b.Remove(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Deleted %s\n", shortID(id))
			return nil
		},
	}
}

func subtaskCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "subtask <task-id> <n>",
		Short: "Toggle the n-th subtask of a task (counting from 1)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid subtask number %q", args[1])
			}
			b, err := app.loadBoard(cmd.Context())
			if err != nil {
				return err
			}
			id, err := resolveTask(b, args[0])
			if err != nil {
				return err
			}
			if err := b.ToggleSubtask(cmd.Context(), id, n-1); err != nil {
				return err
			}
			task, _ := b.Task(id)
			printTask(app.Out, task)
			return nil
		},
	}
}

// resolveTask accepts a full task id or a unique prefix of one.
func resolveTask(b *board.Board, ref string) (uuid.UUID, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return id, nil
	}
	ref = strings.ToLower(ref)
	var found uuid.UUID
	snapshot := b.Snapshot()
	for _, status := range api.Statuses {
		for _, t := range snapshot.Get(status) {
			if !strings.HasPrefix(t.ID.String(), ref) {
				continue
			}
			if found != uuid.Nil {
				return uuid.Nil, fmt.Errorf("%w: %s", errAmbiguousTask, ref)
			}
			found = t.ID
		}
	}
	if found == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: %s", board.ErrTaskNotOnBoard, ref)
	}
	return found, nil
}
