package billing

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// EventLedger is the dedup bookkeeping around webhook processing.
type EventLedger interface {
	// Seen reports whether the event id was already processed successfully.
	Seen(eventID string) (bool, error)
	// Mark records the outcome of one processing attempt.
	Mark(eventID, eventType string, procErr error) error
}

type GormLedger struct {
	db *gorm.DB
}

func NewGormLedger(db *gorm.DB) *GormLedger {
	return &GormLedger{db: db}
}

func (l *GormLedger) Seen(eventID string) (bool, error) {
	var ev WebhookEvent
	err := l.db.Where("stripe_event_id = ?", eventID).First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ledger lookup: %w", err)
	}
	return ev.ProcessedAt != nil, nil
}

func (l *GormLedger) Mark(eventID, eventType string, procErr error) error {
	var ev WebhookEvent
	err := l.db.Where("stripe_event_id = ?", eventID).First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ev = WebhookEvent{StripeEventID: eventID, Type: eventType}
	} else if err != nil {
		return fmt.Errorf("ledger read: %w", err)
	}

	if procErr != nil {
		msg := procErr.Error()
		ev.ProcessingError = &msg
		ev.ProcessedAt = nil
	} else {
		now := time.Now()
		ev.ProcessedAt = &now
		ev.ProcessingError = nil
	}

	if err := l.db.Save(&ev).Error; err != nil {
		return fmt.Errorf("ledger write: %w", err)
	}
	return nil
}
