package audit

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/clock"
)

const insertMessage = `INSERT INTO audit_messages (facility, severity, "timestamp", hostname, appname, procid, msgid, sdata, message)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectMessages = `SELECT facility, severity, "timestamp", hostname, appname, procid, msgid, sdata, message
FROM audit_messages ORDER BY id DESC LIMIT ?`

// Store handles audit message persistence to the audit_messages table
type Store struct {
	db       *sqlx.DB
	clock    clock.Provider
	hostname string
	pid      int
}

// Message represents an audit message for database persistence
type Message struct {
	Facility  int       `json:"facility" db:"facility"`
	Severity  int       `json:"severity" db:"severity"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	Hostname  string    `json:"hostname" db:"hostname"`
	Appname   string    `json:"appname" db:"appname"`
	Procid    string    `json:"procid" db:"procid"`
	Msgid     string    `json:"msgid" db:"msgid"`
	Sdata     string    `json:"sdata" db:"sdata"`
	Message   string    `json:"message" db:"message"`
}

// StructuredData decodes Sdata
func (m Message) StructuredData() (map[string]map[string]string, error) {
	var sd map[string]map[string]string
	if err := json.Unmarshal([]byte(m.Sdata), &sd); err != nil {
		return nil, err
	}
	return sd, nil
}

// NewStore creates a store on an existing connection pool
func NewStore(db *sqlx.DB) *Store {
	hostname, _ := os.Hostname()
	return &Store{
		db:       db,
		clock:    clock.Default,
		hostname: hostname,
		pid:      os.Getpid(),
	}
}

// SetClock sets the source of timestamps
func (s *Store) SetClock(c clock.Provider) {
	s.clock = c
}

// Save persists an audit event to the database
func (s *Store) Save(ctx context.Context, event Event) error {
	sdata, err := json.Marshal(event.StructuredData())
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, s.db.Rebind(insertMessage),
		event.Facility(),
		int(event.Severity()),
		s.clock.UTCNow(),
		s.hostname,
		AppName,
		procID(s.pid),
		event.MessageID(),
		string(sdata),
		event.Message(),
	)
	return err
}

// Recent returns up to limit messages, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Message, error) {
	messages := []Message{}
	if err := s.db.SelectContext(ctx, &messages, s.db.Rebind(selectMessages), limit); err != nil {
		return nil, err
	}
	return messages, nil
}
