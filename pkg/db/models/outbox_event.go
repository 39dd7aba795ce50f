package models

import (
	"time"

	"github.com/HYPERLOOPFIVER/lakes/pkg/enums"
)

// OutboxEvent is an append-only event document written in the same
// transaction as the state change it describes. A background publisher
// relays pending events to Pub/Sub.
type OutboxEvent struct {
	ID            string                    `firestore:"-" json:"id"`
	EventType     enums.OutboxEventType     `firestore:"eventType" json:"eventType"`
	AggregateType enums.OutboxAggregateType `firestore:"aggregateType" json:"aggregateType"`
	AggregateID   string                    `firestore:"aggregateId" json:"aggregateId"`
	Payload       string                    `firestore:"payload" json:"payload"`
	Status        enums.OutboxStatus        `firestore:"status" json:"status"`
	AttemptCount  int                       `firestore:"attemptCount" json:"attemptCount"`
	LastError     string                    `firestore:"lastError,omitempty" json:"lastError,omitempty"`
	CreatedAt     time.Time                 `firestore:"createdAt" json:"createdAt"`
	PublishedAt   *time.Time                `firestore:"publishedAt,omitempty" json:"publishedAt,omitempty"`
}
