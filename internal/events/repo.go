package events

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrDuplicate marks a redelivered event the archive already holds.
var ErrDuplicate = errors.New("event already archived")

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// Archive inserts the event, reporting ErrDuplicate when the ULID is already
// present so the consumer can ack redeliveries without a second row.
func (r *Repo) Archive(ctx context.Context, ev *DomainEvent) error {
	if err := r.db.WithContext(ctx).Create(ev).Error; err != nil {
		var existing int64
		if countErr := r.db.WithContext(ctx).Model(&DomainEvent{}).
			Where("id = ?", ev.ID).Count(&existing).Error; countErr == nil && existing > 0 {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// ListRecent returns the newest archived events, most recent first.
func (r *Repo) ListRecent(ctx context.Context, limit int) ([]DomainEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var out []DomainEvent
	if err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
