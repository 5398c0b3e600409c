package audit

import (
	"encoding/json"
	"log"
	"time"
)

// Entry is a single audit record for a privileged mutation.
type Entry struct {
	Timestamp    time.Time         `json:"timestamp"`
	Action       string            `json:"action"`
	Actor        string            `json:"actor"`
	ResourceType string            `json:"resource_type,omitempty"`
	ResourceID   string            `json:"resource_id,omitempty"`
	Status       string            `json:"status"` // "success" or "failure"
	Details      map[string]string `json:"details,omitempty"`
}

// Logger writes structured audit entries for admin and club operations:
// status transitions, manual attendance marks, certificate runs.
type Logger struct {
	output *log.Logger
}

func NewLogger() *Logger {
	return &Logger{
		output: log.New(log.Writer(), "[AUDIT] ", 0),
	}
}

func (l *Logger) Log(entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Printf("ERROR: failed to marshal audit entry: %v", err)
		return
	}

	l.output.Println(string(data))
}

func (l *Logger) LogSuccess(action, actor, resourceType, resourceID string, details map[string]string) {
	l.Log(Entry{
		Action:       action,
		Actor:        actor,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Status:       "success",
		Details:      details,
	})
}

func (l *Logger) LogFailure(action, actor, resourceType, resourceID string, details map[string]string) {
	l.Log(Entry{
		Action:       action,
		Actor:        actor,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Status:       "failure",
		Details:      details,
	})
}
