package feedback

import (
	"context"
	"errors"
	"time"
)

var ErrEventNotFound = errors.New("event not found")

type Feedback struct {
	ID        string
	EventID   string
	UserID    string
	UserName  string
	Comment   string
	Rating    int
	CreatedAt time.Time
}

type CreateParams struct {
	EventULID string
	UserID    string
	Comment   string
	Rating    int
}

type Repository interface {
	// Create resolves the event by its public identifier and inserts the
	// feedback row; returns ErrEventNotFound when no such event exists.
	Create(ctx context.Context, params CreateParams) (*Feedback, error)
	ListByEvent(ctx context.Context, eventULID string) ([]Feedback, error)
}
