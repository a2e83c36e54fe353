// Package cqrs provides a small command/query executor framework.
//
// A request (command or query) validates itself and then executes. If the
// request embeds Database it is handed a connection from the executor's
// ConnectionFactory before validation:
//
//	type CreatePerson struct {
//	    cqrs.Database
//	    Person model.Person
//	    ID     int64
//	}
//
//	func (c *CreatePerson) Validate() error {
//	    return cqrs.FirstError(
//	        cqrs.AssertIsSet(c.Person.Email, "Email"),
//	    )
//	}
//
//	func (c *CreatePerson) Execute(ctx context.Context) error {
//	    return c.ExecScalarNamed(ctx, &c.ID, `INSERT ... RETURNING id`, c.Person)
//	}
//
//	commands := cqrs.NewCommandExecutor(factory)
//	err := commands.Execute(ctx, &CreatePerson{Person: p})
//
// Commands and queries share a shape; the split exists so that callers can
// depend on read and write paths separately.
package cqrs
