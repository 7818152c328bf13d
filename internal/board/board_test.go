package board_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"join/internal/api"
	"join/internal/board"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	board   *board.Board
	store   *MockStore
	hook    *test.Hook
	alerter *recordingAlerter
}

func newLoadedBoard(t *testing.T, tasks ...api.Task) fixture {
	t.Helper()
	logger, hook := test.NewNullLogger()
	f := fixture{store: new(MockStore), hook: hook, alerter: &recordingAlerter{}}
	f.board = board.New(f.store, board.WithLogger(logger), board.WithAlerter(f.alerter))

	f.store.On("ListTasks", mock.Anything).Return(tasks, nil).Once()
	require.NoError(t, f.board.Load(context.Background()))
	hook.Reset()
	return f
}

func lengths(b board.Buckets) [4]int {
	return [4]int{len(b.Todo), len(b.InProgress), len(b.AwaitFeedback), len(b.Done)}
}

func withStatus(status api.Status) any {
	return mock.MatchedBy(func(t api.Task) bool { return t.Status == status })
}

func TestLoad_OneTaskPerStatus(t *testing.T) {
	f := newLoadedBoard(t,
		task("Task 1", api.StatusTodo),
		task("Task 2", api.StatusInProgress),
		task("Task 3", api.StatusDone),
	)

	view := f.board.View()

	assert.Equal(t, []string{"Task 1"}, titles(view.Todo))
	assert.Equal(t, []string{"Task 2"}, titles(view.InProgress))
	assert.Empty(t, view.AwaitFeedback)
	assert.Equal(t, []string{"Task 3"}, titles(view.Done))
}

func TestLoad_FailureKeepsPreviousTasks(t *testing.T) {
	f := newLoadedBoard(t, task("Task 1", api.StatusTodo))
	f.store.On("ListTasks", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	err := f.board.Load(context.Background())

	require.Error(t, err)
	assert.Equal(t, []string{"Task 1"}, titles(f.board.View().Todo))
	assert.Equal(t, "Error loading tasks", f.hook.LastEntry().Message)
	assert.Empty(t, f.alerter.messages)
}

func TestLoad_DiscardsSupersededResponse(t *testing.T) {
	logger, _ := test.NewNullLogger()
	store := new(MockStore)
	b := board.New(store, board.WithLogger(logger))

	started := make(chan struct{})
	release := make(chan struct{})
	store.On("ListTasks", mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return([]api.Task{task("stale", api.StatusTodo)}, nil).Once()
	store.On("ListTasks", mock.Anything).
		Return([]api.Task{task("fresh", api.StatusDone)}, nil).Once()

	var wg sync.WaitGroup
	var slowErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		slowErr = b.Load(context.Background())
	}()
	<-started

	require.NoError(t, b.Load(context.Background()))
	close(release)
	wg.Wait()

	assert.ErrorIs(t, slowErr, board.ErrLoadSuperseded)
	view := b.View()
	assert.Empty(t, view.Todo)
	assert.Equal(t, []string{"fresh"}, titles(view.Done))
}

func TestChangeStatus_Success(t *testing.T) {
	saved := api.Subtask{ID: uuid.New(), Text: "saved"}
	moving := task("Task 1", api.StatusTodo)
	moving.Subtasks = []api.Subtask{saved, {Text: "draft"}}
	f := newLoadedBoard(t, moving, task("Task 2", api.StatusDone))
	f.board.ToggleStatusMenu(moving.ID)

	f.store.On("UpdateTask", mock.Anything, mock.MatchedBy(func(t api.Task) bool {
		return t.ID == moving.ID && t.Status == api.StatusInProgress &&
			len(t.Subtasks) == 1 && t.Subtasks[0].ID == saved.ID
	})).Return(nil, nil).Once()

	err := f.board.ChangeStatus(context.Background(), moving.ID, api.StatusInProgress)

	require.NoError(t, err)
	view := f.board.View()
	assert.Empty(t, view.Todo)
	assert.Equal(t, []string{"Task 1"}, titles(view.InProgress))
	assert.Equal(t, []string{"Task 2"}, titles(view.Done))
	assert.Equal(t, api.StatusInProgress, view.InProgress[0].Status)
	assert.False(t, f.board.StatusMenuOpen(moving.ID))
	f.store.AssertExpectations(t)
}

func TestChangeStatus_ServerResponseReplacesLocalCopy(t *testing.T) {
	moving := task("Task 1", api.StatusTodo)
	f := newLoadedBoard(t, moving)
	fromServer := moving
	fromServer.Title = "Task 1 (renamed elsewhere)"
	fromServer.Status = api.StatusAwaitFeedback
	f.store.On("UpdateTask", mock.Anything, withStatus(api.StatusAwaitFeedback)).Return(&fromServer, nil).Once()

	require.NoError(t, f.board.ChangeStatus(context.Background(), moving.ID, api.StatusAwaitFeedback))

	got, ok := f.board.Task(moving.ID)
	require.True(t, ok)
	assert.Equal(t, "Task 1 (renamed elsewhere)", got.Title)
}

func TestChangeStatus_FailureLeavesTaskInPlace(t *testing.T) {
	first := task("Task 1", api.StatusTodo)
	f := newLoadedBoard(t, first, task("Task 2", api.StatusTodo))
	before := f.board.View()
	f.store.On("UpdateTask", mock.Anything, mock.Anything).Return(nil, errors.New("503 Service Unavailable")).Once()

	err := f.board.ChangeStatus(context.Background(), first.ID, api.StatusDone)

	require.Error(t, err)
	assert.Equal(t, before, f.board.View())
	assert.Len(t, f.alerter.messages, 1)
	assert.Equal(t, logrus.ErrorLevel, f.hook.LastEntry().Level)
	f.store.AssertNumberOfCalls(t, "UpdateTask", 1)
}

func TestChangeStatus_UnknownStatus(t *testing.T) {
	todo := task("Task 1", api.StatusTodo)
	f := newLoadedBoard(t, todo, task("Task 2", api.StatusInProgress))
	before := lengths(f.board.View())

	err := f.board.ChangeStatus(context.Background(), todo.ID, "unknownStatus")

	assert.ErrorIs(t, err, board.ErrUnknownStatus)
	require.NotNil(t, f.hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, f.hook.LastEntry().Level)
	assert.Equal(t, "Unknown or undefined task status: unknownStatus", f.hook.LastEntry().Message)
	assert.Equal(t, before, lengths(f.board.View()))
	assert.Empty(t, f.alerter.messages)
	f.store.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything)
}

func TestChangeStatus_TaskNotOnBoard(t *testing.T) {
	f := newLoadedBoard(t, task("Task 1", api.StatusTodo))

	err := f.board.ChangeStatus(context.Background(), uuid.New(), api.StatusDone)

	assert.ErrorIs(t, err, board.ErrTaskNotOnBoard)
	f.store.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything)
}

func TestSearch_FiltersAndRestores(t *testing.T) {
	f := newLoadedBoard(t, task("Task 1", api.StatusTodo), task("Task 2", api.StatusInProgress))

	filtered := f.board.Search("Task 1")

	assert.Equal(t, []string{"Task 1"}, titles(filtered.Todo))
	assert.Empty(t, filtered.InProgress)
	assert.Equal(t, "Task 1", f.board.Query())
	assert.Equal(t, filtered, f.board.View())

	restored := f.board.Search("")
	assert.Equal(t, []string{"Task 1"}, titles(restored.Todo))
	assert.Equal(t, []string{"Task 2"}, titles(restored.InProgress))
}

func TestSearch_AppliesToLaterChanges(t *testing.T) {
	first := task("Task 1", api.StatusTodo)
	f := newLoadedBoard(t, first, task("Task 2", api.StatusTodo))
	f.board.Search("task 1")
	f.store.On("UpdateTask", mock.Anything, withStatus(api.StatusDone)).Return(nil, nil).Once()

	require.NoError(t, f.board.ChangeStatus(context.Background(), first.ID, api.StatusDone))

	view := f.board.View()
	assert.Empty(t, view.Todo)
	assert.Equal(t, []string{"Task 1"}, titles(view.Done))
	assert.Equal(t, 2, f.board.Snapshot().Len())
}

func TestDrop_MovesDraggedTask(t *testing.T) {
	dragged := task("Task 1", api.StatusTodo)
	f := newLoadedBoard(t, dragged, task("Task 2", api.StatusDone))
	doneBefore := len(f.board.View().Done)

	f.store.On("UpdateTask", mock.Anything, mock.MatchedBy(func(t api.Task) bool {
		return t.ID == dragged.ID && t.Title == dragged.Title && t.Status == api.StatusDone
	})).Return(nil, nil).Once()

	require.NoError(t, f.board.StartDrag(dragged.ID))
	err := f.board.Drop(context.Background(), api.StatusDone)

	require.NoError(t, err)
	view := f.board.View()
	assert.Empty(t, view.Todo)
	assert.Len(t, view.Done, doneBefore+1)
	_, dragging := f.board.Dragged()
	assert.False(t, dragging)
	f.store.AssertExpectations(t)
}

func TestDrop_FailureRestoresOriginalPosition(t *testing.T) {
	middle := task("B", api.StatusTodo)
	f := newLoadedBoard(t, task("A", api.StatusTodo), middle, task("C", api.StatusTodo))
	f.store.On("UpdateTask", mock.Anything, mock.Anything).Return(nil, errors.New("timeout")).Once()

	require.NoError(t, f.board.StartDrag(middle.ID))
	err := f.board.Drop(context.Background(), api.StatusAwaitFeedback)

	require.Error(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, titles(f.board.View().Todo))
	assert.Empty(t, f.board.View().AwaitFeedback)
	assert.Len(t, f.alerter.messages, 1)
	_, dragging := f.board.Dragged()
	assert.False(t, dragging)
}

func TestDrop_WithoutDragIsNoop(t *testing.T) {
	f := newLoadedBoard(t, task("Task 1", api.StatusTodo))
	before := f.board.View()

	err := f.board.Drop(context.Background(), api.StatusDone)

	assert.ErrorIs(t, err, board.ErrNoDraggedTask)
	assert.Equal(t, before, f.board.View())
	assert.Equal(t, logrus.ErrorLevel, f.hook.LastEntry().Level)
	f.store.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything)
}

func TestDrop_UnknownTargetEndsDrag(t *testing.T) {
	dragged := task("Task 1", api.StatusTodo)
	f := newLoadedBoard(t, dragged)
	require.NoError(t, f.board.StartDrag(dragged.ID))

	err := f.board.Drop(context.Background(), "archive")

	assert.ErrorIs(t, err, board.ErrUnknownStatus)
	assert.Equal(t, "Unknown or undefined task status: archive", f.hook.LastEntry().Message)
	assert.Equal(t, []string{"Task 1"}, titles(f.board.View().Todo))
	_, dragging := f.board.Dragged()
	assert.False(t, dragging)
}

func TestStartDrag_UnknownTask(t *testing.T) {
	f := newLoadedBoard(t)

	assert.ErrorIs(t, f.board.StartDrag(uuid.New()), board.ErrTaskNotOnBoard)
}

func TestAdd_ForcesTodoAndCreatesSubtasks(t *testing.T) {
	f := newLoadedBoard(t, task("existing", api.StatusTodo))
	f.store.On("CreateSubtask", mock.Anything, api.Subtask{Text: "step"}).Return(nil, nil).Once()
	f.store.On("CreateTask", mock.Anything, mock.MatchedBy(func(t api.Task) bool {
		return t.Status == api.StatusTodo && len(t.Subtasks) == 1 && t.Subtasks[0].Persisted()
	})).Return(nil, nil).Once()

	added, err := f.board.Add(context.Background(), api.Task{
		Title:    "new",
		Status:   api.StatusDone,
		Subtasks: []api.Subtask{{Text: "step"}},
	})

	require.NoError(t, err)
	assert.True(t, added.Persisted())
	assert.Equal(t, []string{"existing", "new"}, titles(f.board.View().Todo))
	assert.Empty(t, f.board.View().Done)
	f.store.AssertExpectations(t)
}

func TestAdd_SubtaskFailureAbortsCreate(t *testing.T) {
	f := newLoadedBoard(t)
	f.store.On("CreateSubtask", mock.Anything, mock.Anything).Return(nil, errors.New("500")).Once()

	_, err := f.board.Add(context.Background(), api.Task{Title: "new", Subtasks: []api.Subtask{{Text: "step"}}})

	require.Error(t, err)
	assert.Len(t, f.alerter.messages, 1)
	assert.Equal(t, 0, f.board.Snapshot().Len())
	f.store.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything)
}

func TestRemove(t *testing.T) {
	doomed := task("Task 1", api.StatusAwaitFeedback)
	f := newLoadedBoard(t, doomed, task("Task 2", api.StatusAwaitFeedback))
	f.board.ToggleStatusMenu(doomed.ID)
	f.store.On("DeleteTask", mock.Anything, doomed.ID).Return(nil).Once()

	require.NoError(t, f.board.Remove(context.Background(), doomed.ID))

	assert.Equal(t, []string{"Task 2"}, titles(f.board.View().AwaitFeedback))
	assert.False(t, f.board.StatusMenuOpen(doomed.ID))
}

func TestRemove_FailureKeepsTask(t *testing.T) {
	kept := task("Task 1", api.StatusTodo)
	f := newLoadedBoard(t, kept)
	f.store.On("DeleteTask", mock.Anything, kept.ID).Return(errors.New("403")).Once()

	require.Error(t, f.board.Remove(context.Background(), kept.ID))

	assert.Equal(t, []string{"Task 1"}, titles(f.board.View().Todo))
	assert.Len(t, f.alerter.messages, 1)
}

func TestToggleSubtask(t *testing.T) {
	withSubtasks := task("Task 1", api.StatusInProgress)
	saved := api.Subtask{ID: uuid.New(), Text: "saved"}
	withSubtasks.Subtasks = []api.Subtask{saved, {Text: "draft"}}
	f := newLoadedBoard(t, withSubtasks)
	f.store.On("UpdateSubtask", mock.Anything, api.Subtask{ID: saved.ID, Text: "saved", Completed: true}).Return(nil, nil).Once()

	require.NoError(t, f.board.ToggleSubtask(context.Background(), withSubtasks.ID, 0))

	got, _ := f.board.Task(withSubtasks.ID)
	assert.True(t, got.Subtasks[0].Completed)

	err := f.board.ToggleSubtask(context.Background(), withSubtasks.ID, 1)
	assert.ErrorIs(t, err, board.ErrSubtaskNotPersisted)
	assert.Equal(t, "Subtask ID is missing, cannot update", f.hook.LastEntry().Message)

	err = f.board.ToggleSubtask(context.Background(), withSubtasks.ID, 5)
	assert.ErrorIs(t, err, board.ErrSubtaskNotFound)
	f.store.AssertNumberOfCalls(t, "UpdateSubtask", 1)
}

func TestToggleStatusMenu(t *testing.T) {
	todo := task("Task 1", api.StatusTodo)
	f := newLoadedBoard(t, todo)

	assert.True(t, f.board.ToggleStatusMenu(todo.ID))
	assert.True(t, f.board.StatusMenuOpen(todo.ID))
	assert.False(t, f.board.ToggleStatusMenu(todo.ID))
	assert.False(t, f.board.StatusMenuOpen(todo.ID))
	assert.False(t, f.board.ToggleStatusMenu(uuid.New()))
}

func TestBoard_TaskIsAlwaysInExactlyOneBucket(t *testing.T) {
	tasks := []api.Task{
		task("A", api.StatusTodo),
		task("B", api.StatusInProgress),
		task("C", api.StatusAwaitFeedback),
		task("D", api.StatusDone),
	}
	f := newLoadedBoard(t, tasks...)
	f.store.On("UpdateTask", mock.Anything, mock.Anything).Return(nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tk := tasks[i%len(tasks)]
			_ = f.board.ChangeStatus(context.Background(), tk.ID, api.Statuses[(i+1)%len(api.Statuses)])
		}(i)
	}
	wg.Wait()

	snapshot := f.board.Snapshot()
	assert.Equal(t, len(tasks), snapshot.Len())
	for _, status := range api.Statuses {
		for _, tk := range snapshot.Get(status) {
			assert.Equal(t, status, tk.Status)
		}
	}
}
