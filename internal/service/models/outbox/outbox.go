package outbox

import (
	"time"
)

// Message is a lifecycle event persisted in the same transaction as the
// order write it describes, drained to the broker by the outbox worker.
type Message struct {
	ID          int64
	Topic       string
	MessageKey  string
	Payload     []byte
	ContentType string
	RetryCount  int
	MaxRetries  int
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	NextRetryAt time.Time
}
