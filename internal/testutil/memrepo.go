// Package testutil provides in-memory repositories for tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"join/internal/model"
	"join/internal/repository"
	"join/internal/server"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of every repository interface.
// Each repository view shares the same data, so tasks can reference contacts
// and subtasks created through the other views.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]model.User
	tasks      map[uuid.UUID]model.Task
	subtasks   map[uuid.UUID]model.Subtask
	contacts   map[uuid.UUID]model.Contact
	categories map[uuid.UUID]model.Category

	// Error injection for testing
	ListTasksErr  error
	UpdateTaskErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[uuid.UUID]model.User),
		tasks:      make(map[uuid.UUID]model.Task),
		subtasks:   make(map[uuid.UUID]model.Subtask),
		contacts:   make(map[uuid.UUID]model.Contact),
		categories: make(map[uuid.UUID]model.Category),
	}
}

// Repositories returns the store as the server's repository set.
func (s *MemoryStore) Repositories() server.Repositories {
	return server.Repositories{
		Users:      userRepo{s},
		Tasks:      taskRepo{s},
		Subtasks:   subtaskRepo{s},
		Contacts:   contactRepo{s},
		Categories: categoryRepo{s},
	}
}

// AddTask stores task as-is, assigning an id when it has none.
func (s *MemoryStore) AddTask(task model.Task) model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().Add(time.Duration(len(s.tasks)) * time.Millisecond)
	}
	s.tasks[task.ID] = task
	return task
}

// Task returns the stored task with the given id.
func (s *MemoryStore) Task(id uuid.UUID) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	return t, ok
}

func (s *MemoryStore) AddSubtask(subtask model.Subtask) model.Subtask {
	s.mu.Lock()
	defer s.mu.Unlock()
	if subtask.ID == uuid.Nil {
		subtask.ID = uuid.New()
	}
	s.subtasks[subtask.ID] = subtask
	return subtask
}

func (s *MemoryStore) AddContact(contact model.Contact) model.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	s.contacts[contact.ID] = contact
	return contact
}

// hydrate refreshes the task's subtasks from the subtask table, which is
// what a preload does.
func (s *MemoryStore) hydrate(t model.Task) model.Task {
	subtasks := make([]model.Subtask, 0, len(t.Subtasks))
	for _, st := range t.Subtasks {
		if current, ok := s.subtasks[st.ID]; ok {
			subtasks = append(subtasks, current)
		}
	}
	t.Subtasks = subtasks
	return t
}

// subtaskLinked reports whether any stored task still references the subtask.
func (s *MemoryStore) subtaskLinked(id uuid.UUID) bool {
	for _, t := range s.tasks {
		for _, st := range t.Subtasks {
			if st.ID == id {
				return true
			}
		}
	}
	return false
}

type userRepo struct{ s *MemoryStore }

func (r userRepo) Create(ctx context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r userRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u, ok := r.s.users[id]; ok {
		return &u, nil
	}
	return nil, repository.ErrUserNotFound
}

type taskRepo struct{ s *MemoryStore }

func (r taskRepo) Create(ctx context.Context, task *model.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	task.CreatedAt = time.Now()
	*task = r.s.AddTask(*task)
	return nil
}

func (r taskRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	t = r.s.hydrate(t)
	return &t, nil
}

func (r taskRepo) List(ctx context.Context) ([]model.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.ListTasksErr != nil {
		return nil, r.s.ListTasksErr
	}
	tasks := make([]model.Task, 0, len(r.s.tasks))
	for _, t := range r.s.tasks {
		tasks = append(tasks, r.s.hydrate(t))
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.Before(tasks[j].CreatedAt) })
	return tasks, nil
}

func (r taskRepo) Update(ctx context.Context, task *model.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.UpdateTaskErr != nil {
		return r.s.UpdateTaskErr
	}
	existing, ok := r.s.tasks[task.ID]
	if !ok {
		return repository.ErrTaskNotFound
	}
	task.CreatedAt = existing.CreatedAt
	r.s.tasks[task.ID] = *task
	return nil
}

func (r taskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	task, ok := r.s.tasks[id]
	if !ok {
		return repository.ErrTaskNotFound
	}
	delete(r.s.tasks, id)
	for _, st := range task.Subtasks {
		if !r.s.subtaskLinked(st.ID) {
			delete(r.s.subtasks, st.ID)
		}
	}
	return nil
}

type subtaskRepo struct{ s *MemoryStore }

func (r subtaskRepo) Create(ctx context.Context, subtask *model.Subtask) error {
	*subtask = r.s.AddSubtask(*subtask)
	return nil
}

func (r subtaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Subtask, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	st, ok := r.s.subtasks[id]
	if !ok {
		return nil, repository.ErrSubtaskNotFound
	}
	return &st, nil
}

func (r subtaskRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Subtask, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.Subtask
	for _, id := range ids {
		st, ok := r.s.subtasks[id]
		if !ok {
			return nil, repository.ErrSubtaskNotFound
		}
		out = append(out, st)
	}
	return out, nil
}

func (r subtaskRepo) List(ctx context.Context) ([]model.Subtask, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Subtask, 0, len(r.s.subtasks))
	for _, st := range r.s.subtasks {
		out = append(out, st)
	}
	return out, nil
}

func (r subtaskRepo) Update(ctx context.Context, subtask *model.Subtask) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.subtasks[subtask.ID]; !ok {
		return repository.ErrSubtaskNotFound
	}
	r.s.subtasks[subtask.ID] = *subtask
	return nil
}

func (r subtaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.subtasks[id]; !ok {
		return repository.ErrSubtaskNotFound
	}
	for taskID, t := range r.s.tasks {
		kept := t.Subtasks[:0:0]
		for _, st := range t.Subtasks {
			if st.ID != id {
				kept = append(kept, st)
			}
		}
		t.Subtasks = kept
		r.s.tasks[taskID] = t
	}
	delete(r.s.subtasks, id)
	return nil
}

type contactRepo struct{ s *MemoryStore }

func (r contactRepo) Create(ctx context.Context, contact *model.Contact) error {
	*contact = r.s.AddContact(*contact)
	return nil
}

func (r contactRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.contacts[id]
	if !ok {
		return nil, repository.ErrContactNotFound
	}
	return &c, nil
}

func (r contactRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Contact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.Contact
	for _, id := range ids {
		c, ok := r.s.contacts[id]
		if !ok {
			return nil, repository.ErrContactNotFound
		}
		out = append(out, c)
	}
	return out, nil
}

func (r contactRepo) List(ctx context.Context) ([]model.Contact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Contact, 0, len(r.s.contacts))
	for _, c := range r.s.contacts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r contactRepo) Update(ctx context.Context, contact *model.Contact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.contacts[contact.ID]; !ok {
		return repository.ErrContactNotFound
	}
	r.s.contacts[contact.ID] = *contact
	return nil
}

func (r contactRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.contacts[id]; !ok {
		return repository.ErrContactNotFound
	}
	delete(r.s.contacts, id)
	return nil
}

type categoryRepo struct{ s *MemoryStore }

func (r categoryRepo) Create(ctx context.Context, category *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	r.s.categories[category.ID] = *category
	return nil
}

func (r categoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return &c, nil
}

func (r categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
