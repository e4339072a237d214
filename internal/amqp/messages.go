package amqp

import (
	"encoding/json"
	"time"
)

// ReceiptIssuedMessage tells the export worker that a receipt was issued and
// needs to be appended to the external ledger. It carries only the ID and a
// version; the worker fetches the full receipt from the database.
type ReceiptIssuedMessage struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReceiptIssuedMessage creates a new issue notification for a receipt ID.
func NewReceiptIssuedMessage(id, version int64) *ReceiptIssuedMessage {
	return &ReceiptIssuedMessage{
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReceiptIssuedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReceiptIssuedMessageFromJSON creates a message from JSON bytes
func ReceiptIssuedMessageFromJSON(data []byte) (*ReceiptIssuedMessage, error) {
	var msg ReceiptIssuedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
