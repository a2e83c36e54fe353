package model

import "github.com/doodlesbykumbi/tdd101-in-go/pkg/cqrs"

// Person is a row of the people table.
type Person struct {
	ID        int64  `json:"id" db:"id" gorm:"column:id;primaryKey;autoIncrement"`
	FirstName string `json:"firstName" db:"first_name" gorm:"column:first_name;size:128"`
	LastName  string `json:"lastName" db:"last_name" gorm:"column:last_name;size:128"`
	Email     string `json:"email" db:"email" gorm:"column:email;size:128"`
}

func (Person) TableName() string {
	return "people"
}

// Details returns the person without its identifier
func (p Person) Details() PersonDetails {
	return PersonDetails{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
	}
}

// PersonDetails is the part of a Person supplied by callers. Two people with
// the same details are the same person as far as callers can tell.
type PersonDetails struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Validate implements cqrs.Validator. Every detail is required.
func (p Person) Validate() error {
	return cqrs.FirstError(
		cqrs.AssertIsSet(p.Email, "Email"),
		cqrs.AssertIsSet(p.FirstName, "FirstName"),
		cqrs.AssertIsSet(p.LastName, "LastName"),
	)
}
