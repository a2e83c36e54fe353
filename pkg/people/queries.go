package people

import (
	"context"
	"errors"
	"math"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/cqrs"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/model"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server/store"
)

const (
	selectPerson = `SELECT id, first_name, last_name, email FROM people WHERE id = ?`
	selectPeople = `SELECT id, first_name, last_name, email FROM people ORDER BY id LIMIT ? OFFSET ?`
)

var (
	_ cqrs.Query = (*FindPersonByID)(nil)
	_ cqrs.Query = (*FindAllPeople)(nil)
)

// FindPersonByID loads the person with ID into Person.
type FindPersonByID struct {
	cqrs.Database
	ID int64

	Person *model.Person
}

func (q *FindPersonByID) Validate() error {
	return validID(q.ID)
}

func (q *FindPersonByID) Execute(ctx context.Context) error {
	var person model.Person
	err := q.SelectFirst(ctx, &person, selectPerson, q.ID)
	if errors.Is(err, cqrs.ErrNoRows) {
		return store.ErrPersonNotFound
	}
	if err != nil {
		return err
	}

	q.Person = &person
	return nil
}

// FindAllPeople loads a page of people ordered by id into People.
// A zero Limit returns every row after Offset.
type FindAllPeople struct {
	cqrs.Database
	Limit  int
	Offset int

	People []model.Person
}

func (q *FindAllPeople) Validate() error {
	return cqrs.FirstError(
		cqrs.Assert(q.Limit >= 0, "Limit must not be negative"),
		cqrs.Assert(q.Offset >= 0, "Offset must not be negative"),
	)
}

func (q *FindAllPeople) Execute(ctx context.Context) error {
	// sqlite has no OFFSET without LIMIT, and postgres rejects LIMIT -1
	limit := int64(math.MaxInt64)
	if q.Limit > 0 {
		limit = int64(q.Limit)
	}

	people := []model.Person{}
	if err := q.SelectMany(ctx, &people, selectPeople, limit, q.Offset); err != nil {
		return err
	}

	q.People = people
	return nil
}
