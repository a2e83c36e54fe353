package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/model"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server/store"
)

// Ensure PersonRepository implements store.PersonRepository
var _ store.PersonRepository = (*PersonRepository)(nil)

// PersonRepository implements store.PersonRepository using GORM
type PersonRepository struct {
	db *gorm.DB
}

// NewPersonRepository creates a new PersonRepository
func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// Create inserts a person and returns the generated id.
func (r *PersonRepository) Create(ctx context.Context, person *model.Person) (int64, error) {
	if err := person.Validate(); err != nil {
		return 0, err
	}

	row := model.Person{
		FirstName: person.FirstName,
		LastName:  person.LastName,
		Email:     person.Email,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	person.ID = row.ID
	return row.ID, nil
}

// FindAll returns every person ordered by id
func (r *PersonRepository) FindAll(ctx context.Context) ([]model.Person, error) {
	people := []model.Person{}
	if err := r.db.WithContext(ctx).Order("id").Find(&people).Error; err != nil {
		return nil, err
	}
	return people, nil
}

// FindByID returns store.ErrPersonNotFound if the person doesn't exist.
func (r *PersonRepository) FindByID(ctx context.Context, id int64) (*model.Person, error) {
	var person model.Person
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&person)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrPersonNotFound
		}
		return nil, tx.Error
	}
	return &person, nil
}

// Update overwrites the details of person.ID.
func (r *PersonRepository) Update(ctx context.Context, person *model.Person) error {
	if err := person.Validate(); err != nil {
		return err
	}

	tx := r.db.WithContext(ctx).Model(&model.Person{}).Where("id = ?", person.ID).Updates(map[string]interface{}{
		"first_name": person.FirstName,
		"last_name":  person.LastName,
		"email":      person.Email,
	})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrPersonNotFound
	}
	return nil
}

// Delete removes a person by id
func (r *PersonRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Person{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrPersonNotFound
	}
	return nil
}
