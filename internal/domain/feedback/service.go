package feedback

import (
	"context"
	"fmt"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Submit records feedback for an event. Ratings are bounded 1..5 and the
// comment is optional.
func (s *Service) Submit(ctx context.Context, eventULID, userID, comment string, rating int) (*Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, ValidationError{Field: "rating", Message: "must be between 1 and 5"}
	}
	comment = strings.TrimSpace(comment)
	if len(comment) > 2000 {
		return nil, ValidationError{Field: "comment", Message: "is too long"}
	}

	return s.repo.Create(ctx, CreateParams{
		EventULID: eventULID,
		UserID:    userID,
		Comment:   comment,
		Rating:    rating,
	})
}

func (s *Service) ListByEvent(ctx context.Context, eventULID string) ([]Feedback, error) {
	return s.repo.ListByEvent(ctx, eventULID)
}
