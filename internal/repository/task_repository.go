package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"join/internal/model"
)

type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// taskJoins lists the join tables linking a task to its contacts and
// subtasks, with the ids currently on the model.
var taskJoins = []struct {
	table  string
	column string
	ids    func(*model.Task) []uuid.UUID
}{
	{"task_assignees", "contact_id", func(t *model.Task) []uuid.UUID { return contactIDs(t.AssignedTo) }},
	{"task_contacts", "contact_id", func(t *model.Task) []uuid.UUID { return contactIDs(t.Contacts) }},
	{"task_subtasks", "subtask_id", func(t *model.Task) []uuid.UUID { return subtaskIDs(t.Subtasks) }},
}

// Create adds a new task together with its join rows. The referenced
// contacts and subtasks must already exist.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).
		Omit("Category", "AssignedTo.*", "Contacts.*", "Subtasks.*").
		Create(task).Error
}

// GetByID retrieves a task with all associations
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.preloaded(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// List retrieves every task in creation order
func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	result := r.preloaded(ctx).Order("created_at").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// Update saves the scalar fields of a task and replaces its assignees,
// contacts and subtasks with the ones on the model.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(task).
			Select("title", "description", "priority", "due_date", "category_id", "status", "updated_at").
			Updates(task)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}

		for _, join := range taskJoins {
			if err := tx.Exec("DELETE FROM "+join.table+" WHERE task_id = ?", task.ID).Error; err != nil {
				return err
			}
			for _, id := range join.ids(task) {
				if err := tx.Exec("INSERT INTO "+join.table+" (task_id, "+join.column+") VALUES (?, ?)", task.ID, id).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Delete removes a task, its join rows and the subtasks it owned.
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owned []uuid.UUID
		if err := tx.Table("task_subtasks").Where("task_id = ?", id).Pluck("subtask_id", &owned).Error; err != nil {
			return err
		}

		for _, join := range taskJoins {
			if err := tx.Exec("DELETE FROM "+join.table+" WHERE task_id = ?", id).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&model.Task{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}

		if len(owned) == 0 {
			return nil
		}
		// a subtask still linked from another task stays
		return tx.Exec("DELETE FROM subtasks WHERE id IN ? AND id NOT IN (SELECT subtask_id FROM task_subtasks)", owned).Error
	})
}

func (r *TaskRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("AssignedTo").
		Preload("Contacts").
		Preload("Subtasks")
}

func contactIDs(contacts []model.Contact) []uuid.UUID {
	ids := make([]uuid.UUID, len(contacts))
	for i, c := range contacts {
		ids[i] = c.ID
	}
	return ids
}

func subtaskIDs(subtasks []model.Subtask) []uuid.UUID {
	ids := make([]uuid.UUID, len(subtasks))
	for i, st := range subtasks {
		ids[i] = st.ID
	}
	return ids
}
