// Package model defines the database models.
//
// Models carry gorm tags for the ORM-backed store and sqlx db tags for the
// CQRS requests and sqlx store, so the same struct is used on every path.
//
// # Database Schema
//
//   - people: id, first_name, last_name, email
//   - audit_messages: RFC5424 audit events (see package audit)
package model
