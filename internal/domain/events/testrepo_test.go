package events

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"
)

// fakeRepo is an in-memory Repository with the same conditional-write
// semantics as the postgres implementation.
type fakeRepo struct {
	mu     sync.Mutex
	seq    int
	events map[string]*Event // keyed by internal ID
	users  map[string]fakeUser
}

type fakeUser struct {
	name  string
	email string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		events: make(map[string]*Event),
		users:  make(map[string]fakeUser),
	}
}

func (r *fakeRepo) addUser(id, name, email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id] = fakeUser{name: name, email: email}
}

func (r *fakeRepo) Create(_ context.Context, params CreateParams) (*Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	event := &Event{
		ID:          "internal-" + strconv.Itoa(r.seq),
		ULID:        params.ULID,
		Title:       params.Title,
		Description: params.Description,
		Category:    params.Category,
		Date:        params.Date,
		Time:        params.Time,
		Venue:       params.Venue,
		Status:      StatusPending,
		CreatedBy:   params.CreatedBy,
		PosterURL:   params.PosterURL,
		QRCodeID:    params.QRCodeID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if params.Question != nil {
		question := *params.Question
		event.Question = &question
	}
	r.events[event.ID] = event
	return cloneEvent(event), nil
}

func (r *fakeRepo) GetByULID(_ context.Context, ulid string) (*Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, event := range r.events {
		if event.ULID == ulid {
			return cloneEvent(event), nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) GetByQRCodeID(_ context.Context, qrCodeID string) (*Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, event := range r.events {
		if event.QRCodeID == qrCodeID {
			return cloneEvent(event), nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) List(_ context.Context) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, 0, len(r.events))
	for _, event := range r.events {
		out = append(out, *cloneEvent(event))
	}
	return out, nil
}

func (r *fakeRepo) Search(_ context.Context, filters SearchFilters) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, 0)
	for _, event := range r.events {
		if event.Status != StatusApproved {
			continue
		}
		if filters.Category != "" && event.Category != filters.Category {
			continue
		}
		if filters.Keyword != "" && !strings.Contains(strings.ToLower(event.Title), strings.ToLower(filters.Keyword)) {
			continue
		}
		out = append(out, *cloneEvent(event))
	}
	return out, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, ulid string, status string) (*Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, event := range r.events {
		if event.ULID == ulid {
			event.Status = status
			event.UpdatedAt = time.Now()
			return cloneEvent(event), nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) RegisterAttendee(_ context.Context, eventID, userID, registeredCollege string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.events[eventID]
	if !ok {
		return ErrNotFound
	}
	for _, attendee := range event.Attendees {
		if attendee.UserID == userID {
			return ErrAlreadyRegistered
		}
	}
	if event.Status != StatusApproved {
		return ErrNotApproved
	}

	user := r.users[userID]
	event.Attendees = append(event.Attendees, Attendee{
		UserID:            userID,
		Name:              user.name,
		Email:             user.email,
		RegisteredCollege: registeredCollege,
		RegisteredAt:      time.Now(),
	})
	return nil
}

func (r *fakeRepo) MarkAttended(_ context.Context, eventID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.events[eventID]
	if !ok {
		return ErrNotFound
	}
	for i := range event.Attendees {
		if event.Attendees[i].UserID == userID {
			if event.Attendees[i].IsAttended {
				return ErrAlreadyAttended
			}
			now := time.Now()
			event.Attendees[i].IsAttended = true
			event.Attendees[i].AttendedAt = &now
			return nil
		}
	}
	return ErrNotRegistered
}

func (r *fakeRepo) RegisteredCategories(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, event := range r.events {
		if event.Status != StatusApproved {
			continue
		}
		for _, attendee := range event.Attendees {
			if attendee.UserID == userID && !seen[event.Category] {
				seen[event.Category] = true
				out = append(out, event.Category)
			}
		}
	}
	return out, nil
}

func (r *fakeRepo) ListApprovedExcluding(_ context.Context, userID string, categories []string, limit int) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[string]bool, len(categories))
	for _, category := range categories {
		wanted[category] = true
	}

	out := make([]Event, 0)
	for _, event := range r.events {
		if len(out) >= limit {
			break
		}
		if event.Status != StatusApproved {
			continue
		}
		if len(wanted) > 0 && !wanted[event.Category] {
			continue
		}
		joined := false
		for _, attendee := range event.Attendees {
			if attendee.UserID == userID {
				joined = true
				break
			}
		}
		if joined {
			continue
		}
		out = append(out, *cloneEvent(event))
	}
	return out, nil
}

func cloneEvent(event *Event) *Event {
	clone := *event
	clone.Attendees = append([]Attendee(nil), event.Attendees...)
	if event.Question != nil {
		question := *event.Question
		question.Options = append([]string(nil), event.Question.Options...)
		clone.Question = &question
	}
	return &clone
}
