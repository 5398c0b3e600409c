package events

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("event not found")
	ErrNotApproved       = errors.New("event is not approved")
	ErrAlreadyRegistered = errors.New("already registered")
	ErrNotRegistered     = errors.New("not registered for this event")
	ErrAlreadyAttended   = errors.New("attendance already confirmed")
	ErrNoQuestion        = errors.New("no attendance question configured")
	ErrWrongAnswer       = errors.New("incorrect attendance answer")
)

// Event statuses. Registration is only permitted while approved.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Event struct {
	ID          string // internal identifier
	ULID        string // public identifier
	Title       string
	Description string
	Category    string
	Date        string // opaque display strings, as submitted
	Time        string
	Venue       string
	Status      string
	CreatedBy   string
	CreatorName string
	PosterURL   string
	QRCodeID    string
	Question    *Question
	Attendees   []Attendee
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Question is the check-in challenge. Answer must never appear in public
// serializations; see PublicEvent.
type Question struct {
	Text    string
	Options []string
	Answer  string
}

type Attendee struct {
	UserID            string
	Name              string
	Email             string
	RegisteredCollege string
	IsAttended        bool
	RegisteredAt      time.Time
	AttendedAt        *time.Time
}

type CreateParams struct {
	ULID        string
	Title       string
	Description string
	Category    string
	Date        string
	Time        string
	Venue       string
	CreatedBy   string
	PosterURL   string
	QRCodeID    string
	Question    *Question
}

type SearchFilters struct {
	Category string
	Keyword  string
}

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Event, error)
	GetByULID(ctx context.Context, ulid string) (*Event, error)
	GetByQRCodeID(ctx context.Context, qrCodeID string) (*Event, error)
	List(ctx context.Context) ([]Event, error)
	Search(ctx context.Context, filters SearchFilters) ([]Event, error)
	UpdateStatus(ctx context.Context, ulid string, status string) (*Event, error)

	// RegisterAttendee appends an attendance record in a single conditional
	// insert: it must only succeed while the event is approved and the
	// (event, user) pair is absent, and must return ErrAlreadyRegistered or
	// ErrNotApproved otherwise. This is the serialization point closing the
	// duplicate-registration race.
	RegisterAttendee(ctx context.Context, eventID, userID, registeredCollege string) error

	// MarkAttended flips is_attended false->true. Returns ErrAlreadyAttended
	// when the flag was already set and ErrNotRegistered when no record
	// exists. The flip never reverts.
	MarkAttended(ctx context.Context, eventID, userID string) error

	// RegisteredCategories returns the distinct categories of approved events
	// the user appears in as an attendee.
	RegisteredCategories(ctx context.Context, userID string) ([]string, error)

	// ListApprovedExcluding returns up to limit approved events the user has
	// not joined, optionally restricted to the given categories.
	ListApprovedExcluding(ctx context.Context, userID string, categories []string, limit int) ([]Event, error)
}
