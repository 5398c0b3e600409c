package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/campus-events/server/internal/audit"
	"github.com/campus-events/server/internal/domain/ids"
	"github.com/campus-events/server/internal/metrics"
)

// Service owns the event lifecycle: creation, status transitions,
// registration, attendance confirmation, search, and recommendation.
type Service struct {
	repo  Repository
	audit *audit.Logger
}

func NewService(repo Repository, auditLogger *audit.Logger) *Service {
	return &Service{repo: repo, audit: auditLogger}
}

// Create stores a new pending event for the given club. The public ULID and
// the QR check-in token are minted here, exactly once for the lifetime of the
// event.
func (s *Service) Create(ctx context.Context, input CreateInput, creatorID string) (*Event, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	ulid, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("mint event id: %w", err)
	}
	qrCodeID, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("mint qr code id: %w", err)
	}

	params := CreateParams{
		ULID:        ulid,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Date:        input.Date,
		Time:        input.Time,
		Venue:       input.Venue,
		CreatedBy:   creatorID,
		PosterURL:   input.PosterURL,
		QRCodeID:    qrCodeID,
	}
	if input.Question != nil {
		params.Question = &Question{
			Text:    strings.TrimSpace(input.Question.Text),
			Options: trimAll(input.Question.Options),
			Answer:  strings.TrimSpace(input.Question.Answer),
		}
	}

	event, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	metrics.EventsCreated.WithLabelValues(event.Category).Inc()
	return event, nil
}

func (s *Service) List(ctx context.Context) ([]Event, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, ulid string) (*Event, error) {
	return s.repo.GetByULID(ctx, ulid)
}

// SetStatus overwrites the event status. Transitions are deliberately
// unrestricted among the three states; setting the current status again is a
// no-op from the caller's perspective.
func (s *Service) SetStatus(ctx context.Context, ulid, status, actor string) (*Event, error) {
	if !IsValidStatus(status) {
		return nil, ValidationError{Field: "status", Message: "must be one of pending, approved, rejected"}
	}

	event, err := s.repo.UpdateStatus(ctx, ulid, status)
	if err != nil {
		return nil, err
	}

	metrics.StatusTransitions.WithLabelValues(status).Inc()
	s.audit.LogSuccess("event.status_changed", actor, "event", event.ULID, map[string]string{
		"status": status,
		"title":  event.Title,
	})
	return event, nil
}

// Register appends the student to the attendee list. The college name is
// captured only for inter-college events; for every other category it is
// dropped. Duplicate registration surfaces as ErrAlreadyRegistered even under
// concurrent calls, because the storage insert is conditional.
func (s *Service) Register(ctx context.Context, ulid, userID, collegeName string) (*Event, error) {
	event, err := s.repo.GetByULID(ctx, ulid)
	if err != nil {
		return nil, err
	}
	if event.Status != StatusApproved {
		return nil, ErrNotApproved
	}

	college := ""
	if event.Category == CategoryInterCollege {
		college = strings.TrimSpace(collegeName)
	}

	if err := s.repo.RegisterAttendee(ctx, event.ID, userID, college); err != nil {
		return nil, err
	}

	metrics.Registrations.Inc()
	return s.repo.GetByULID(ctx, ulid)
}

// CheckIn is the public QR attendance flow: the caller proves identity by
// matching a registrant's name and email, and presence by answering the
// event's challenge question. No bearer credential is involved.
func (s *Service) CheckIn(ctx context.Context, qrCodeID, email, name, answer string) (*Event, error) {
	event, err := s.repo.GetByQRCodeID(ctx, qrCodeID)
	if err != nil {
		return nil, err
	}
	// An unapproved event is indistinguishable from an unknown token.
	if event.Status != StatusApproved {
		metrics.CheckInFailures.WithLabelValues("not_found").Inc()
		return nil, ErrNotFound
	}
	if event.Question == nil {
		metrics.CheckInFailures.WithLabelValues("no_question").Inc()
		return nil, ErrNoQuestion
	}

	attendee := findAttendee(event.Attendees, email, name)
	if attendee == nil {
		metrics.CheckInFailures.WithLabelValues("not_registered").Inc()
		return nil, ErrNotRegistered
	}
	if attendee.IsAttended {
		metrics.CheckInFailures.WithLabelValues("already_attended").Inc()
		return nil, ErrAlreadyAttended
	}
	if !strings.EqualFold(strings.TrimSpace(answer), event.Question.Answer) {
		metrics.CheckInFailures.WithLabelValues("wrong_answer").Inc()
		return nil, ErrWrongAnswer
	}

	if err := s.repo.MarkAttended(ctx, event.ID, attendee.UserID); err != nil {
		return nil, err
	}

	metrics.CheckIns.WithLabelValues("qr").Inc()
	return s.repo.GetByULID(ctx, event.ULID)
}

// MarkAttendance is the club/admin manual override for registrants who cannot
// complete the QR flow. Same monotonic flip, same conflict on repeats.
func (s *Service) MarkAttendance(ctx context.Context, ulid, studentID, actor string) (*Event, error) {
	event, err := s.repo.GetByULID(ctx, ulid)
	if err != nil {
		return nil, err
	}

	registered := false
	for _, attendee := range event.Attendees {
		if attendee.UserID == studentID {
			registered = true
			break
		}
	}
	if !registered {
		return nil, ErrNotRegistered
	}

	if err := s.repo.MarkAttended(ctx, event.ID, studentID); err != nil {
		return nil, err
	}

	metrics.CheckIns.WithLabelValues("manual").Inc()
	s.audit.LogSuccess("event.attendance_marked", actor, "event", event.ULID, map[string]string{
		"student_id": studentID,
	})
	return s.repo.GetByULID(ctx, ulid)
}

const (
	recommendAffineLimit  = 10
	recommendGeneralLimit = 5
)

// Recommend suggests approved events the student has not joined. Students
// with registration history get events from their categories; everyone else,
// and students whose categories yield nothing, get a short general list.
// This is a content-based filter, not a ranking: no scoring, store order.
func (s *Service) Recommend(ctx context.Context, userID string) ([]Event, error) {
	categories, err := s.repo.RegisteredCategories(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(categories) > 0 {
		matched, err := s.repo.ListApprovedExcluding(ctx, userID, categories, recommendAffineLimit)
		if err != nil {
			return nil, err
		}
		if len(matched) > 0 {
			return matched, nil
		}
	}

	return s.repo.ListApprovedExcluding(ctx, userID, nil, recommendGeneralLimit)
}

// Search returns approved events, optionally filtered by exact category and a
// case-insensitive title substring.
func (s *Service) Search(ctx context.Context, category, keyword string) ([]Event, error) {
	return s.repo.Search(ctx, SearchFilters{
		Category: strings.TrimSpace(category),
		Keyword:  strings.TrimSpace(keyword),
	})
}

// Roster returns the attendee list with resolved display names; this is the
// read path the certificate generator consumes.
func (s *Service) Roster(ctx context.Context, ulid string) (*Event, error) {
	return s.repo.GetByULID(ctx, ulid)
}

func findAttendee(attendees []Attendee, email, name string) *Attendee {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	for i := range attendees {
		if strings.EqualFold(attendees[i].Email, email) && strings.EqualFold(attendees[i].Name, name) {
			return &attendees[i]
		}
	}
	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, strings.TrimSpace(value))
	}
	return out
}
