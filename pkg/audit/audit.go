package audit

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/clock"
)

// SDID constants for structured data IDs (RFC5424). 32473 is the
// documentation Private Enterprise Number from RFC5612.
const (
	PEN         = 32473
	SDIDAuth    = "auth@32473"
	SDIDSubject = "subject@32473"
	SDIDAction  = "action@32473"
	SDIDClient  = "client@32473"
	SDIDRequest = "request@32473"
)

// AppName is the APP-NAME field of every audit line
const AppName = "tdd101"

// Syslog facility constants
const (
	FacilityUser   = 1  // LOG_USER - user-level messages
	FacilityLocal0 = 16 // LOG_LOCAL0 - application data changes
)

// Severity levels matching syslog (RFC5424)
type Severity int

const (
	SeverityEmergency Severity = iota // 0
	SeverityAlert                     // 1
	SeverityCritical                  // 2
	SeverityError                     // 3
	SeverityWarning                   // 4
	SeverityNotice                    // 5
	SeverityInfo                      // 6
	SeverityDebug                     // 7
)

var severityNames = [...]string{"emerg", "alert", "crit", "err", "warning", "notice", "info", "debug"}

// String returns the syslog keyword for s
func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "severity(" + strconv.Itoa(int(s)) + ")"
	}
	return severityNames[s]
}

// Event represents an audit event
type Event interface {
	MessageID() string
	Message() string
	Severity() Severity
	Facility() int
	StructuredData() map[string]map[string]string
}

// Logger handles audit logging in RFC5424 syslog format
type Logger struct {
	writer   io.Writer
	clock    clock.Provider
	hostname string
	pid      int
}

// NewLogger creates a new audit logger writing to stdout
func NewLogger() *Logger {
	hostname, _ := os.Hostname()
	return &Logger{
		writer:   os.Stdout,
		clock:    clock.Default,
		hostname: hostname,
		pid:      os.Getpid(),
	}
}

// SetWriter sets the output writer for the logger
func (l *Logger) SetWriter(w io.Writer) {
	l.writer = w
}

// SetClock sets the source of timestamps
func (l *Logger) SetClock(c clock.Provider) {
	l.clock = c
}

// Log writes an audit event in RFC5424 syslog format
// Format: <PRI>VERSION TIMESTAMP HOSTNAME APP-NAME PROCID MSGID SD MSG
func (l *Logger) Log(event Event) {
	_, _ = io.WriteString(l.writer, l.Format(event))
}

// Format renders event as a single RFC5424 line, newline included.
func (l *Logger) Format(event Event) string {
	pri := event.Facility()*8 + int(event.Severity())
	timestamp := l.clock.UTCNow().Format("2006-01-02T15:04:05.000Z")

	sd := formatStructuredData(event.StructuredData())
	if sd == "" {
		sd = "-"
	}

	hostname := l.hostname
	if hostname == "" {
		hostname = "-"
	}

	return fmt.Sprintf("<%d>1 %s %s %s %d %s %s %s\n",
		pri,
		timestamp,
		hostname,
		AppName,
		l.pid,
		event.MessageID(),
		sd,
		event.Message(),
	)
}

// formatStructuredData formats the structured data according to RFC5424
// Format: [sdid param1="value1" param2="value2"][sdid2 ...]
// Elements and params are sorted so lines are stable.
func formatStructuredData(sd map[string]map[string]string) string {
	if len(sd) == 0 {
		return ""
	}

	var parts []string
	for _, sdid := range sortedKeys(sd) {
		params := sd[sdid]
		paramParts := []string{sdid}
		for _, key := range sortedKeys(params) {
			paramParts = append(paramParts, fmt.Sprintf("%s=%s", key, escapeSDValue(params[key])))
		}
		parts = append(parts, "["+strings.Join(paramParts, " ")+"]")
	}
	return strings.Join(parts, "")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// escapeSDValue escapes special characters in structured data values per RFC5424
func escapeSDValue(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	value = strings.ReplaceAll(value, "]", "\\]")
	return "\"" + value + "\""
}

// Auditor writes events to a Logger and, when it has one, persists them
// to a Store. A nil Auditor discards everything, which is how auditing is
// disabled.
type Auditor struct {
	logger *Logger
	store  *Store
	log    *zap.Logger
}

// NewAuditor creates an Auditor. store may be nil. Failures to persist are
// reported to log.
func NewAuditor(logger *Logger, store *Store, log *zap.Logger) *Auditor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Auditor{logger: logger, store: store, log: log}
}

// Log writes event and persists it. Persistence errors never reach the caller.
func (a *Auditor) Log(ctx context.Context, event Event) {
	if a == nil {
		return
	}
	if a.logger != nil {
		a.logger.Log(event)
	}
	if a.store == nil {
		return
	}
	if err := a.store.Save(ctx, event); err != nil {
		a.log.Warn("audit: failed to save event",
			zap.String("msgid", event.MessageID()),
			zap.Error(err),
		)
	}
}

func procID(pid int) string {
	return strconv.Itoa(pid)
}
