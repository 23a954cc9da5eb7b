package audit

import (
	"encoding/json"
	"log"
	"time"

	"github.com/hostmarket/backend/internal/models"
)

type Event struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	Reference string    `json:"reference"`
	UserID    int64     `json:"user_id,omitempty"`
	ActorID   int64     `json:"actor_id,omitempty"`
	ServerID  int64     `json:"server_id,omitempty"`
	Amount    string    `json:"amount,omitempty"`
	Status    string    `json:"status"`
	Details   any       `json:"details,omitempty"`
}

// Logger writes one JSON line per audit event through the standard logger.
type Logger struct {
	printf func(format string, v ...any)
}

func NewLogger() *Logger {
	return &Logger{printf: log.Printf}
}

// LogLedgerEntry records a committed credit transaction.
func (a *Logger) LogLedgerEntry(entry *models.CreditTransaction) {
	event := Event{
		Timestamp: time.Now(),
		EventType: "LEDGER_" + string(entry.Type),
		Reference: entry.UUID,
		UserID:    entry.UserID,
		Amount:    entry.Amount.StringFixed(2),
		Status:    "SUCCESS",
		Details: map[string]string{
			"balance_after": entry.BalanceAfter.StringFixed(2),
		},
	}
	if entry.AdminID != nil {
		event.ActorID = *entry.AdminID
	}
	a.log(event)
}

// LogBillingEvent records a split-billing state change.
func (a *Logger) LogBillingEvent(eventType, reference string, serverID, actorID int64, details map[string]string) {
	a.log(Event{
		Timestamp: time.Now(),
		EventType: eventType,
		Reference: reference,
		ServerID:  serverID,
		ActorID:   actorID,
		Status:    "SUCCESS",
		Details:   details,
	})
}

func (a *Logger) LogError(eventType, reference string, err error) {
	a.log(Event{
		Timestamp: time.Now(),
		EventType: eventType,
		Reference: reference,
		Status:    "FAILED",
		Details:   map[string]string{"error": err.Error()},
	})
}

func (a *Logger) log(event Event) {
	data, _ := json.Marshal(event)
	a.printf("AUDIT: %s", string(data))
}
