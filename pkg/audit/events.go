package audit

import (
	"fmt"
	"strconv"
)

// Person operations
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// PersonEvent records a change to the people table made through the API
type PersonEvent struct {
	Operation string
	PersonID  int64
	// Subject is the authenticated caller, empty when auth is disabled
	Subject      string
	ClientIP     string
	RequestID    string
	Success      bool
	ErrorMessage string
}

func (e PersonEvent) MessageID() string {
	return "person"
}

func (e PersonEvent) user() string {
	if e.Subject == "" {
		return "anonymous"
	}
	return e.Subject
}

func (e PersonEvent) target() string {
	if e.PersonID == 0 {
		return "a person"
	}
	return fmt.Sprintf("person %d", e.PersonID)
}

func (e PersonEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s %sd %s", e.user(), e.Operation, e.target())
	}
	msg := fmt.Sprintf("%s tried to %s %s", e.user(), e.Operation, e.target())
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e PersonEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e PersonEvent) Facility() int {
	return FacilityLocal0
}

func (e PersonEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}

	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.user(),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result,
		},
	}
	if e.PersonID != 0 {
		sd[SDIDSubject] = map[string]string{"person": strconv.FormatInt(e.PersonID, 10)}
	}
	if e.RequestID != "" {
		sd[SDIDRequest] = map[string]string{"id": e.RequestID}
	}
	return sd
}
