package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/campus-events/server/internal/domain/feedback"
)

var _ feedback.Repository = (*FeedbackRepository)(nil)

func (r *FeedbackRepository) Create(ctx context.Context, params feedback.CreateParams) (*feedback.Feedback, error) {
	item := feedback.Feedback{
		EventID: strings.ToUpper(strings.TrimSpace(params.EventULID)),
		UserID:  params.UserID,
		Comment: params.Comment,
		Rating:  params.Rating,
	}

	err := r.queryer().QueryRow(ctx, `
WITH target AS (
    SELECT id FROM events WHERE ulid = $1
)
INSERT INTO feedback (event_id, user_id, comment, rating)
SELECT target.id, $2, nullif($3, ''), $4 FROM target
RETURNING id, created_at, (SELECT coalesce(name, '') FROM users WHERE id = $2)`,
		item.EventID, params.UserID, params.Comment, params.Rating,
	).Scan(&item.ID, &item.CreatedAt, &item.UserName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, feedback.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("insert feedback: %w", err)
	}
	return &item, nil
}

func (r *FeedbackRepository) ListByEvent(ctx context.Context, eventULID string) ([]feedback.Feedback, error) {
	ulid := strings.ToUpper(strings.TrimSpace(eventULID))
	rows, err := r.queryer().Query(ctx, `
SELECT f.id, f.user_id, coalesce(u.name, ''), coalesce(f.comment, ''), f.rating, f.created_at
  FROM feedback f
  JOIN events e ON e.id = f.event_id
  LEFT JOIN users u ON u.id = f.user_id
 WHERE e.ulid = $1
 ORDER BY f.created_at DESC`, ulid)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	out := make([]feedback.Feedback, 0)
	for rows.Next() {
		item := feedback.Feedback{EventID: ulid}
		if err := rows.Scan(&item.ID, &item.UserID, &item.UserName, &item.Comment, &item.Rating, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
