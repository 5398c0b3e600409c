package handlers

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/campus-events/server/internal/domain/events"
	"github.com/campus-events/server/internal/domain/users"
)

type fakeUser struct {
	name  string
	email string
}

// fakeEventsRepo is an in-memory events.Repository for handler tests. It
// mirrors the storage contract: conditional registration and a monotonic
// attendance flip.
type fakeEventsRepo struct {
	mu     sync.Mutex
	seq    int
	events map[string]*events.Event
	users  map[string]fakeUser
}

func newFakeEventsRepo() *fakeEventsRepo {
	return &fakeEventsRepo{
		events: make(map[string]*events.Event),
		users:  make(map[string]fakeUser),
	}
}

func (r *fakeEventsRepo) addUser(id, name, email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id] = fakeUser{name: name, email: email}
}

func (r *fakeEventsRepo) Create(_ context.Context, params events.CreateParams) (*events.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	event := &events.Event{
		ID:          "event-" + strconv.Itoa(r.seq),
		ULID:        params.ULID,
		Title:       params.Title,
		Description: params.Description,
		Category:    params.Category,
		Date:        params.Date,
		Time:        params.Time,
		Venue:       params.Venue,
		Status:      events.StatusPending,
		CreatedBy:   params.CreatedBy,
		PosterURL:   params.PosterURL,
		QRCodeID:    params.QRCodeID,
		Question:    params.Question,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	r.events[event.ID] = event
	return cloneEvent(event), nil
}

func (r *fakeEventsRepo) GetByULID(_ context.Context, ulid string) (*events.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, event := range r.events {
		if event.ULID == ulid {
			return cloneEvent(event), nil
		}
	}
	return nil, events.ErrNotFound
}

func (r *fakeEventsRepo) GetByQRCodeID(_ context.Context, qrCodeID string) (*events.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, event := range r.events {
		if event.QRCodeID == qrCodeID {
			return cloneEvent(event), nil
		}
	}
	return nil, events.ErrNotFound
}

func (r *fakeEventsRepo) List(_ context.Context) ([]events.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Event, 0, len(r.events))
	for _, event := range r.events {
		out = append(out, *cloneEvent(event))
	}
	return out, nil
}

func (r *fakeEventsRepo) Search(_ context.Context, filters events.SearchFilters) ([]events.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Event, 0)
	for _, event := range r.events {
		if event.Status != events.StatusApproved {
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

func (r *fakeEventsRepo) UpdateStatus(_ context.Context, ulid, status string) (*events.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, event := range r.events {
		if event.ULID == ulid {
			event.Status = status
			event.UpdatedAt = time.Now()
			return cloneEvent(event), nil
		}
	}
	return nil, events.ErrNotFound
}

func (r *fakeEventsRepo) RegisterAttendee(_ context.Context, eventID, userID, registeredCollege string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok {
		return events.ErrNotFound
	}
	for _, attendee := range event.Attendees {
		if attendee.UserID == userID {
			return events.ErrAlreadyRegistered
		}
	}
	if event.Status != events.StatusApproved {
		return events.ErrNotApproved
	}
	user := r.users[userID]
	event.Attendees = append(event.Attendees, events.Attendee{
		UserID:            userID,
		Name:              user.name,
		Email:             user.email,
		RegisteredCollege: registeredCollege,
		RegisteredAt:      time.Now(),
	})
	return nil
}

func (r *fakeEventsRepo) MarkAttended(_ context.Context, eventID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok {
		return events.ErrNotFound
	}
	for i := range event.Attendees {
		if event.Attendees[i].UserID != userID {
			continue
		}
		if event.Attendees[i].IsAttended {
			return events.ErrAlreadyAttended
		}
		now := time.Now()
		event.Attendees[i].IsAttended = true
		event.Attendees[i].AttendedAt = &now
		return nil
	}
	return events.ErrNotRegistered
}

func (r *fakeEventsRepo) RegisteredCategories(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, event := range r.events {
		if event.Status != events.StatusApproved {
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

func (r *fakeEventsRepo) ListApprovedExcluding(_ context.Context, userID string, categories []string, limit int) ([]events.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[string]bool)
	for _, category := range categories {
		wanted[category] = true
	}
	out := make([]events.Event, 0)
	for _, event := range r.events {
		if len(out) >= limit {
			break
		}
		if event.Status != events.StatusApproved {
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
		if !joined {
			out = append(out, *cloneEvent(event))
		}
	}
	return out, nil
}

func cloneEvent(event *events.Event) *events.Event {
	out := *event
	out.Attendees = append([]events.Attendee(nil), event.Attendees...)
	if event.Question != nil {
		question := *event.Question
		question.Options = append([]string(nil), event.Question.Options...)
		out.Question = &question
	}
	return &out
}

// fakeUsersRepo is an in-memory users.Repository keyed by email.
type fakeUsersRepo struct {
	mu      sync.Mutex
	seq     int
	byEmail map[string]*users.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: make(map[string]*users.User)}
}

func (r *fakeUsersRepo) Create(_ context.Context, params users.CreateParams) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[params.Email]; ok {
		return nil, users.ErrEmailTaken
	}
	r.seq++
	user := &users.User{
		ID:           "user-" + strconv.Itoa(r.seq),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
		CreatedAt:    time.Now(),
	}
	r.byEmail[user.Email] = user
	return user, nil
}

func (r *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.byEmail[email]; ok {
		return user, nil
	}
	return nil, users.ErrNotFound
}

func (r *fakeUsersRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, users.ErrNotFound
}
