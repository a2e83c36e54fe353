package people

import (
	"context"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/cqrs"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/model"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server/store"
)

const (
	insertPerson = `INSERT INTO people (first_name, last_name, email)
VALUES (:first_name, :last_name, :email)
RETURNING id`
	updatePerson = `UPDATE people
SET first_name = :first_name, last_name = :last_name, email = :email
WHERE id = :id`
	deletePerson = `DELETE FROM people WHERE id = ?`
)

var (
	_ cqrs.Command = (*CreatePerson)(nil)
	_ cqrs.Command = (*UpdatePerson)(nil)
	_ cqrs.Command = (*DeletePerson)(nil)
)

// CreatePerson inserts Person and stores the generated id in ID.
type CreatePerson struct {
	cqrs.Database
	Person model.Person

	ID int64
}

func (c *CreatePerson) Validate() error {
	return c.Person.Validate()
}

func (c *CreatePerson) Execute(ctx context.Context) error {
	return c.ExecScalarNamed(ctx, &c.ID, insertPerson, c.Person)
}

// UpdatePerson overwrites the details of the person with Person.ID.
type UpdatePerson struct {
	cqrs.Database
	Person model.Person
}

func (c *UpdatePerson) Validate() error {
	return cqrs.FirstError(
		validID(c.Person.ID),
		c.Person.Validate(),
	)
}

func (c *UpdatePerson) Execute(ctx context.Context) error {
	affected, err := c.ExecNamed(ctx, updatePerson, c.Person)
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrPersonNotFound
	}
	return nil
}

// DeletePerson removes the person with ID.
type DeletePerson struct {
	cqrs.Database
	ID int64
}

func (c *DeletePerson) Validate() error {
	return validID(c.ID)
}

func (c *DeletePerson) Execute(ctx context.Context) error {
	affected, err := c.Exec(ctx, deletePerson, c.ID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrPersonNotFound
	}
	return nil
}

func validID(id int64) error {
	return cqrs.FirstError(
		cqrs.AssertIsSet(id, "ID"),
		cqrs.Assert(id > 0, "ID must be positive"),
	)
}
