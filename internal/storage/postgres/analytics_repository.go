package postgres

import (
	"context"
	"fmt"

	"github.com/campus-events/server/internal/domain/analytics"
)

var (
	_ analytics.Repository = (*AnalyticsRepository)(nil)
	_ analytics.Repository = (*Repository)(nil)
)

// Summary runs the dashboard counts inside one transaction so the totals are
// mutually consistent.
func (r *Repository) Summary(ctx context.Context) (*analytics.Summary, error) {
	var out *analytics.Summary
	err := r.WithTx(ctx, func(ctx context.Context, txRepo *Repository) error {
		summary, err := txRepo.Analytics().Summary(ctx)
		out = summary
		return err
	})
	return out, err
}

func (r *AnalyticsRepository) Summary(ctx context.Context) (*analytics.Summary, error) {
	q := r.queryer()
	summary := analytics.Summary{
		EventsByCategory: make(map[string]int64),
		EventsByClub:     make(map[string]int64),
	}

	err := q.QueryRow(ctx, `
SELECT count(*),
       count(*) FILTER (WHERE status = 'approved'),
       count(*) FILTER (WHERE status = 'pending'),
       count(*) FILTER (WHERE status = 'rejected')
  FROM events`).Scan(
		&summary.TotalEvents,
		&summary.ApprovedEvents,
		&summary.PendingEvents,
		&summary.RejectedEvents,
	)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}

	err = q.QueryRow(ctx, `
SELECT count(*),
       count(*) FILTER (WHERE role = 'student'),
       count(*) FILTER (WHERE role = 'club')
  FROM users`).Scan(&summary.TotalUsers, &summary.TotalStudents, &summary.TotalClubs)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	err = q.QueryRow(ctx, `
SELECT count(*), count(*) FILTER (WHERE is_attended)
  FROM event_attendees`).Scan(&summary.TotalRegistrations, &summary.TotalCheckIns)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}

	rows, err := q.Query(ctx, `SELECT category, count(*) FROM events GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("events by category: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var category string
		var count int64
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		summary.EventsByCategory[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	clubRows, err := q.Query(ctx, `
SELECT coalesce(u.name, 'unknown'), count(*)
  FROM events e
  LEFT JOIN users u ON u.id = e.created_by
 GROUP BY u.name`)
	if err != nil {
		return nil, fmt.Errorf("events by club: %w", err)
	}
	defer clubRows.Close()
	for clubRows.Next() {
		var club string
		var count int64
		if err := clubRows.Scan(&club, &count); err != nil {
			return nil, err
		}
		summary.EventsByClub[club] = count
	}
	return &summary, clubRows.Err()
}
