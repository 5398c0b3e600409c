package feedback

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	seq    int
	events map[string]bool
	items  []Feedback
}

func newFakeRepo(eventULIDs ...string) *fakeRepo {
	events := make(map[string]bool)
	for _, ulid := range eventULIDs {
		events[ulid] = true
	}
	return &fakeRepo{events: events}
}

func (r *fakeRepo) Create(_ context.Context, params CreateParams) (*Feedback, error) {
	if !r.events[params.EventULID] {
		return nil, ErrEventNotFound
	}
	r.seq++
	item := Feedback{
		ID:        "feedback-" + strconv.Itoa(r.seq),
		EventID:   params.EventULID,
		UserID:    params.UserID,
		Comment:   params.Comment,
		Rating:    params.Rating,
		CreatedAt: time.Now(),
	}
	r.items = append(r.items, item)
	return &item, nil
}

func (r *fakeRepo) ListByEvent(_ context.Context, eventULID string) ([]Feedback, error) {
	out := make([]Feedback, 0)
	for _, item := range r.items {
		if item.EventID == eventULID {
			out = append(out, item)
		}
	}
	return out, nil
}

const eventULID = "01HQZX3Y4K6F7G8H9J0K1M2N3P"

func TestSubmitHappyPath(t *testing.T) {
	svc := NewService(newFakeRepo(eventULID))

	item, err := svc.Submit(context.Background(), eventULID, "student-1", "  Great event!  ", 5)
	require.NoError(t, err)
	require.Equal(t, "Great event!", item.Comment)
	require.Equal(t, 5, item.Rating)
}

func TestSubmitRatingBounds(t *testing.T) {
	svc := NewService(newFakeRepo(eventULID))
	ctx := context.Background()

	for _, rating := range []int{0, -1, 6, 100} {
		_, err := svc.Submit(ctx, eventULID, "student-1", "meh", rating)
		var ve ValidationError
		require.ErrorAs(t, err, &ve, "rating %d", rating)
		require.Equal(t, "rating", ve.Field)
	}

	for rating := 1; rating <= 5; rating++ {
		_, err := svc.Submit(ctx, eventULID, "student-1", "ok", rating)
		require.NoError(t, err, "rating %d", rating)
	}
}

func TestSubmitUnknownEvent(t *testing.T) {
	svc := NewService(newFakeRepo(eventULID))

	_, err := svc.Submit(context.Background(), "01HQZX3Y4K6F7G8H9J0K1M2N9Z", "student-1", "hi", 3)
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestListByEvent(t *testing.T) {
	svc := NewService(newFakeRepo(eventULID))
	ctx := context.Background()

	_, err := svc.Submit(ctx, eventULID, "student-1", "first", 4)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, eventULID, "student-2", "second", 2)
	require.NoError(t, err)

	items, err := svc.ListByEvent(ctx, eventULID)
	require.NoError(t, err)
	require.Len(t, items, 2)
}
