package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"expensetracker/internal/core"
)

// LedgerChangedMessage announces one persisted ledger mutation. It carries
// no record payload: consumers reload the ledger from storage.
type LedgerChangedMessage struct {
	ID         string    `json:"id"`
	Collection string    `json:"collection"`
	Op         string    `json:"op"`
	RecordID   int64     `json:"record_id"`
	Revision   uint64    `json:"revision"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewLedgerChangedMessage stamps a change with a fresh message id.
func NewLedgerChangedMessage(c core.Change) *LedgerChangedMessage {
	ts := c.At
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return &LedgerChangedMessage{
		ID:         uuid.NewString(),
		Collection: c.Collection.String(),
		Op:         string(c.Op),
		RecordID:   c.RecordID,
		Revision:   c.Revision,
		Timestamp:  ts,
	}
}

// Change converts the message back into a domain change.
func (m *LedgerChangedMessage) Change() core.Change {
	return core.Change{
		Collection: core.Collection(m.Collection),
		Op:         core.ChangeOp(m.Op),
		RecordID:   m.RecordID,
		Revision:   m.Revision,
		At:         m.Timestamp,
	}
}

func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
