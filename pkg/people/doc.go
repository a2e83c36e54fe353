// Package people contains the commands and queries over the people table.
//
// Each request embeds cqrs.Database, so an executor hands it a connection
// before validating and executing it. Results are left on the request:
//
//	create := &people.CreatePerson{Person: p}
//	if err := commands.Execute(ctx, create); err != nil {
//	    return err
//	}
//	log.Println("created", create.ID)
package people
