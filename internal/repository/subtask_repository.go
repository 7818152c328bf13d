package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"join/internal/model"
)

type SubtaskRepositoryInterface interface {
	Create(ctx context.Context, subtask *model.Subtask) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Subtask, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Subtask, error)
	List(ctx context.Context) ([]model.Subtask, error)
	Update(ctx context.Context, subtask *model.Subtask) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var _ SubtaskRepositoryInterface = (*SubtaskRepository)(nil)

type SubtaskRepository struct {
	db *gorm.DB
}

func NewSubtaskRepository(db *gorm.DB) *SubtaskRepository {
	return &SubtaskRepository{db: db}
}

func (r *SubtaskRepository) Create(ctx context.Context, subtask *model.Subtask) error {
	return r.db.WithContext(ctx).Create(subtask).Error
}

func (r *SubtaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Subtask, error) {
	var subtask model.Subtask
	if err := r.db.WithContext(ctx).First(&subtask, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubtaskNotFound
		}
		return nil, err
	}
	return &subtask, nil
}

// GetByIDs returns the subtasks with the given ids. Missing ids yield
// ErrSubtaskNotFound.
func (r *SubtaskRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Subtask, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var subtasks []model.Subtask
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&subtasks).Error; err != nil {
		return nil, err
	}
	if len(subtasks) != len(uniqueIDs(ids)) {
		return nil, ErrSubtaskNotFound
	}
	return subtasks, nil
}

func (r *SubtaskRepository) List(ctx context.Context) ([]model.Subtask, error) {
	var subtasks []model.Subtask
	err := r.db.WithContext(ctx).Find(&subtasks).Error
	return subtasks, err
}

func (r *SubtaskRepository) Update(ctx context.Context, subtask *model.Subtask) error {
	result := r.db.WithContext(ctx).Model(subtask).Select("text", "completed").Updates(subtask)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubtaskNotFound
	}
	return nil
}

// Delete unlinks the subtask from every task before removing it.
func (r *SubtaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM task_subtasks WHERE subtask_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Subtask{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSubtaskNotFound
		}
		return nil
	})
}

func uniqueIDs(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
