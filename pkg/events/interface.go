// Package events defines the notifications emitted after registration
// and the publisher abstraction used to deliver them.
package events

import (
	"context"
	"time"
)

// AccountRegistered is published once for every committed registration.
// It deliberately carries no credential material.
type AccountRegistered struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// Publisher delivers events to downstream consumers.
//
//go:generate mockgen -package mockevents -source=interface.go -destination=mock/mockevents.go *
type Publisher interface {
	// PublishAccountRegistered delivers an AccountRegistered event. A returned
	// error means delivery did not happen and the caller may retry.
	PublishAccountRegistered(ctx context.Context, event AccountRegistered) error
}
