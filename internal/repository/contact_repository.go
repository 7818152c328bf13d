package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"join/internal/model"
)

type ContactRepositoryInterface interface {
	Create(ctx context.Context, contact *model.Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Contact, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Contact, error)
	List(ctx context.Context) ([]model.Contact, error)
	Update(ctx context.Context, contact *model.Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var _ ContactRepositoryInterface = (*ContactRepository)(nil)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, contact *model.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	var contact model.Contact
	if err := r.db.WithContext(ctx).First(&contact, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return &contact, nil
}

// GetByIDs returns the contacts with the given ids, or ErrContactNotFound
// if any of them does not exist.
func (r *ContactRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Contact, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var contacts []model.Contact
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&contacts).Error; err != nil {
		return nil, err
	}
	if len(contacts) != len(uniqueIDs(ids)) {
		return nil, ErrContactNotFound
	}
	return contacts, nil
}

// List returns contacts sorted by name, the order the contact book shows them in
func (r *ContactRepository) List(ctx context.Context) ([]model.Contact, error) {
	var contacts []model.Contact
	err := r.db.WithContext(ctx).Order("name").Find(&contacts).Error
	return contacts, err
}

func (r *ContactRepository) Update(ctx context.Context, contact *model.Contact) error {
	result := r.db.WithContext(ctx).Model(contact).
		Select("name", "initials", "email", "phone", "color").
		Updates(contact)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}

func (r *ContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"task_assignees", "task_contacts"} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE contact_id = ?", id).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&model.Contact{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrContactNotFound
		}
		return nil
	})
}
