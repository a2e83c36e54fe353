package store

import (
	"context"
	"errors"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/model"
)

// ErrPersonNotFound is returned when no person has the requested id
var ErrPersonNotFound = errors.New("person not found")

// PersonRepository abstracts person storage operations
type PersonRepository interface {
	// Create inserts a person and returns the generated id.
	// Fails with an argument error when a required field is unset.
	Create(ctx context.Context, person *model.Person) (int64, error)

	// FindAll returns every person ordered by id
	FindAll(ctx context.Context) ([]model.Person, error)

	// FindByID returns ErrPersonNotFound if the person doesn't exist.
	FindByID(ctx context.Context, id int64) (*model.Person, error)

	// Update overwrites first name, last name and email of person.ID.
	Update(ctx context.Context, person *model.Person) error

	// Delete removes a person by id
	Delete(ctx context.Context, id int64) error
}
