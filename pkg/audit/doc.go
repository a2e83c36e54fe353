// Package audit provides audit logging for changes to people.
//
// Events are written as RFC5424 syslog lines and, when a Store is
// configured, persisted to the audit_messages table.
//
// # Usage
//
//	auditor := audit.NewAuditor(audit.NewLogger(), audit.NewStore(conn), logger)
//	auditor.Log(ctx, audit.PersonEvent{
//	    Operation: audit.OperationCreate,
//	    PersonID:  id,
//	    Success:   true,
//	})
package audit
