package handler_test

import (
	"context"

	"join/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, id)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context) ([]model.Task, error) {
	args := m.Called(ctx)
	tasks, _ := args.Get(0).([]model.Task)
	return tasks, args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSubtaskRepository struct {
	mock.Mock
}

func (m *MockSubtaskRepository) Create(ctx context.Context, subtask *model.Subtask) error {
	args := m.Called(ctx, subtask)
	return args.Error(0)
}

func (m *MockSubtaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Subtask, error) {
	args := m.Called(ctx, id)
	subtask := args.Get(0)
	if subtask == nil {
		return nil, args.Error(1)
	}
	return subtask.(*model.Subtask), args.Error(1)
}

func (m *MockSubtaskRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Subtask, error) {
	args := m.Called(ctx, ids)
	subtasks, _ := args.Get(0).([]model.Subtask)
	return subtasks, args.Error(1)
}

func (m *MockSubtaskRepository) List(ctx context.Context) ([]model.Subtask, error) {
	args := m.Called(ctx)
	subtasks, _ := args.Get(0).([]model.Subtask)
	return subtasks, args.Error(1)
}

func (m *MockSubtaskRepository) Update(ctx context.Context, subtask *model.Subtask) error {
	args := m.Called(ctx, subtask)
	return args.Error(0)
}

func (m *MockSubtaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, contact *model.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	args := m.Called(ctx, id)
	contact := args.Get(0)
	if contact == nil {
		return nil, args.Error(1)
	}
	return contact.(*model.Contact), args.Error(1)
}

func (m *MockContactRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Contact, error) {
	args := m.Called(ctx, ids)
	contacts, _ := args.Get(0).([]model.Contact)
	return contacts, args.Error(1)
}

func (m *MockContactRepository) List(ctx context.Context) ([]model.Contact, error) {
	args := m.Called(ctx)
	contacts, _ := args.Get(0).([]model.Contact)
	return contacts, args.Error(1)
}

func (m *MockContactRepository) Update(ctx context.Context, contact *model.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	args := m.Called(ctx, id)
	category := args.Get(0)
	if category == nil {
		return nil, args.Error(1)
	}
	return category.(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]model.Category)
	return categories, args.Error(1)
}
