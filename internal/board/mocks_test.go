package board_test

import (
	"context"

	"join/internal/api"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStore echoes the request payload back when a write expectation
// returns a nil result and no error.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListTasks(ctx context.Context) ([]api.Task, error) {
	args := m.Called(ctx)
	tasks, _ := args.Get(0).([]api.Task)
	return tasks, args.Error(1)
}

func (m *MockStore) CreateTask(ctx context.Context, task api.Task) (*api.Task, error) {
	args := m.Called(ctx, task)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	if out, ok := args.Get(0).(*api.Task); ok && out != nil {
		return out, nil
	}
	task.ID = uuid.New()
	return &task, nil
}

func (m *MockStore) UpdateTask(ctx context.Context, task api.Task) (*api.Task, error) {
	args := m.Called(ctx, task)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	if out, ok := args.Get(0).(*api.Task); ok && out != nil {
		return out, nil
	}
	return &task, nil
}

func (m *MockStore) DeleteTask(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) CreateSubtask(ctx context.Context, subtask api.Subtask) (*api.Subtask, error) {
	args := m.Called(ctx, subtask)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	subtask.ID = uuid.New()
	return &subtask, nil
}

func (m *MockStore) UpdateSubtask(ctx context.Context, subtask api.Subtask) (*api.Subtask, error) {
	args := m.Called(ctx, subtask)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	return &subtask, nil
}

type recordingAlerter struct {
	messages []string
}

func (a *recordingAlerter) Alert(message string) {
	a.messages = append(a.messages, message)
}
