package sqlx

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/cqrs"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/model"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/people"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server/store"
)

// Ensure PersonRepository implements store.PersonRepository
var _ store.PersonRepository = (*PersonRepository)(nil)

// PersonRepository implements store.PersonRepository on a single sqlx pool
type PersonRepository struct {
	db *sqlx.DB
}

// NewPersonRepository creates a new PersonRepository
func NewPersonRepository(db *sqlx.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// run gives request the pool, then validates and executes it.
func (r *PersonRepository) run(ctx context.Context, request interface {
	cqrs.Request
	cqrs.DatabaseConsumer
}) error {
	request.Connect(r.db)
	if err := request.Validate(); err != nil {
		return err
	}
	return request.Execute(ctx)
}

func (r *PersonRepository) Create(ctx context.Context, person *model.Person) (int64, error) {
	create := &people.CreatePerson{Person: *person}
	if err := r.run(ctx, create); err != nil {
		return 0, err
	}
	person.ID = create.ID
	return create.ID, nil
}

func (r *PersonRepository) FindAll(ctx context.Context) ([]model.Person, error) {
	all := &people.FindAllPeople{}
	if err := r.run(ctx, all); err != nil {
		return nil, err
	}
	return all.People, nil
}

func (r *PersonRepository) FindByID(ctx context.Context, id int64) (*model.Person, error) {
	find := &people.FindPersonByID{ID: id}
	if err := r.run(ctx, find); err != nil {
		return nil, err
	}
	return find.Person, nil
}

func (r *PersonRepository) Update(ctx context.Context, person *model.Person) error {
	return r.run(ctx, &people.UpdatePerson{Person: *person})
}

func (r *PersonRepository) Delete(ctx context.Context, id int64) error {
	return r.run(ctx, &people.DeletePerson{ID: id})
}
