package events

import "time"

// Kinds of domain events published on state transitions. The durable store is
// already written when one of these goes out; consumers archive, they do not
// replay business logic.
const (
	KindRequestSent      = "request.sent"
	KindRequestAccepted  = "request.accepted"
	KindRequestRejected  = "request.rejected"
	KindRequestCancelled = "request.cancelled"
	KindProposalSent     = "proposal.sent"
	KindProposalAccepted = "proposal.accepted"
	KindProposalRejected = "proposal.rejected"
)

// DomainEvent is the wire record published to the queue and the row the
// archiver worker persists. The ULID primary key makes redelivery idempotent.
type DomainEvent struct {
	ID        string    `gorm:"primaryKey;size:26" json:"id"`
	Kind      string    `gorm:"type:varchar(64);index;not null" json:"kind"`
	ActorID   uint64    `gorm:"index;not null" json:"actor_id"`
	SubjectID uint64    `gorm:"index" json:"subject_id"`
	Payload   string    `gorm:"type:text" json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

func (DomainEvent) TableName() string { return "domain_events" }
