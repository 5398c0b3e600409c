package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/campus-events/server/internal/domain/events"
)

var _ events.Repository = (*EventRepository)(nil)

const eventColumns = `
e.id, e.ulid, e.title, coalesce(e.description, ''), e.category,
e.event_date, e.event_time, e.venue, e.status, e.created_by,
coalesce(u.name, ''), coalesce(e.poster_url, ''), e.qr_code_id,
coalesce(e.question_text, ''), e.question_options, coalesce(e.question_answer, ''),
e.created_at, e.updated_at`

func (r *EventRepository) Create(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	var questionText, questionAnswer *string
	var questionOptions []string
	if params.Question != nil {
		questionText = &params.Question.Text
		questionAnswer = &params.Question.Answer
		questionOptions = params.Question.Options
	}

	var id string
	err := r.queryer().QueryRow(ctx, `
INSERT INTO events (ulid, title, description, category, event_date, event_time,
                    venue, created_by, poster_url, qr_code_id,
                    question_text, question_options, question_answer)
VALUES ($1, $2, nullif($3, ''), $4, $5, $6, $7, $8, nullif($9, ''), $10, $11, $12, $13)
RETURNING id`,
		strings.ToUpper(params.ULID),
		params.Title,
		params.Description,
		params.Category,
		params.Date,
		params.Time,
		params.Venue,
		params.CreatedBy,
		params.PosterURL,
		strings.ToUpper(params.QRCodeID),
		questionText,
		questionOptions,
		questionAnswer,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	return r.GetByULID(ctx, params.ULID)
}

func (r *EventRepository) GetByULID(ctx context.Context, ulid string) (*events.Event, error) {
	return r.getOne(ctx, "e.ulid = $1", strings.ToUpper(strings.TrimSpace(ulid)))
}

func (r *EventRepository) GetByQRCodeID(ctx context.Context, qrCodeID string) (*events.Event, error) {
	return r.getOne(ctx, "e.qr_code_id = $1", strings.ToUpper(strings.TrimSpace(qrCodeID)))
}

func (r *EventRepository) getOne(ctx context.Context, where string, arg any) (*events.Event, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT `+eventColumns+`
  FROM events e
  LEFT JOIN users u ON u.id = e.created_by
 WHERE `+where, arg)

	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	attendees, err := r.loadAttendees(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	event.Attendees = attendees
	return event, nil
}

func (r *EventRepository) List(ctx context.Context) ([]events.Event, error) {
	return r.listWhere(ctx, "TRUE", nil)
}

func (r *EventRepository) Search(ctx context.Context, filters events.SearchFilters) ([]events.Event, error) {
	return r.listWhere(ctx, `
e.status = 'approved'
AND ($1 = '' OR e.category = $1)
AND ($2 = '' OR e.title ILIKE '%' || $2 || '%')`,
		[]any{filters.Category, filters.Keyword})
}

func (r *EventRepository) listWhere(ctx context.Context, where string, args []any) ([]events.Event, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT `+eventColumns+`
  FROM events e
  LEFT JOIN users u ON u.id = e.created_by
 WHERE `+where+`
 ORDER BY e.created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	out := make([]events.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, *event)
	}
	return out, rows.Err()
}

func (r *EventRepository) UpdateStatus(ctx context.Context, ulid string, status string) (*events.Event, error) {
	tag, err := r.queryer().Exec(ctx, `
UPDATE events SET status = $2, updated_at = now() WHERE ulid = $1`,
		strings.ToUpper(strings.TrimSpace(ulid)), status)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, events.ErrNotFound
	}
	return r.GetByULID(ctx, ulid)
}

// RegisterAttendee inserts conditionally: the row lands only while the event
// is approved and the (event, user) pair is new, so concurrent duplicates
// collapse into one row at the database.
func (r *EventRepository) RegisterAttendee(ctx context.Context, eventID, userID, registeredCollege string) error {
	q := r.queryer()
	tag, err := q.Exec(ctx, `
INSERT INTO event_attendees (event_id, user_id, registered_college)
SELECT e.id, $2, nullif($3, '')
  FROM events e
 WHERE e.id = $1 AND e.status = 'approved'
ON CONFLICT (event_id, user_id) DO NOTHING`,
		eventID, userID, registeredCollege)
	if err != nil {
		return fmt.Errorf("register attendee: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// Zero rows: work out which guard fired.
	var exists bool
	if err := q.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM event_attendees WHERE event_id = $1 AND user_id = $2)`,
		eventID, userID).Scan(&exists); err != nil {
		return fmt.Errorf("check registration: %w", err)
	}
	if exists {
		return events.ErrAlreadyRegistered
	}

	var status string
	err = q.QueryRow(ctx, `SELECT status FROM events WHERE id = $1`, eventID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return events.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check event status: %w", err)
	}
	return events.ErrNotApproved
}

// MarkAttended flips is_attended exactly once; the WHERE clause makes the
// flip monotonic under concurrent check-ins.
func (r *EventRepository) MarkAttended(ctx context.Context, eventID, userID string) error {
	q := r.queryer()
	tag, err := q.Exec(ctx, `
UPDATE event_attendees
   SET is_attended = TRUE, attended_at = now()
 WHERE event_id = $1 AND user_id = $2 AND is_attended = FALSE`,
		eventID, userID)
	if err != nil {
		return fmt.Errorf("mark attended: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var attended bool
	err = q.QueryRow(ctx, `
SELECT is_attended FROM event_attendees WHERE event_id = $1 AND user_id = $2`,
		eventID, userID).Scan(&attended)
	if errors.Is(err, pgx.ErrNoRows) {
		return events.ErrNotRegistered
	}
	if err != nil {
		return fmt.Errorf("check attendance: %w", err)
	}
	return events.ErrAlreadyAttended
}

func (r *EventRepository) RegisteredCategories(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT DISTINCT e.category
  FROM events e
  JOIN event_attendees a ON a.event_id = e.id
 WHERE a.user_id = $1 AND e.status = 'approved'`, userID)
	if err != nil {
		return nil, fmt.Errorf("registered categories: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		out = append(out, category)
	}
	return out, rows.Err()
}

func (r *EventRepository) ListApprovedExcluding(ctx context.Context, userID string, categories []string, limit int) ([]events.Event, error) {
	if categories == nil {
		categories = []string{}
	}
	return r.listWhereLimit(ctx, `
e.status = 'approved'
AND (coalesce(cardinality($2::text[]), 0) = 0 OR e.category = ANY($2::text[]))
AND NOT EXISTS (
    SELECT 1 FROM event_attendees a WHERE a.event_id = e.id AND a.user_id = $1
)`, []any{userID, categories}, limit)
}

func (r *EventRepository) listWhereLimit(ctx context.Context, where string, args []any, limit int) ([]events.Event, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT `+eventColumns+`
  FROM events e
  LEFT JOIN users u ON u.id = e.created_by
 WHERE `+where+`
 ORDER BY e.created_at DESC
 LIMIT `+fmt.Sprintf("%d", limit), args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	out := make([]events.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, *event)
	}
	return out, rows.Err()
}

func (r *EventRepository) loadAttendees(ctx context.Context, eventID string) ([]events.Attendee, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT a.user_id, coalesce(u.name, ''), coalesce(u.email, ''),
       coalesce(a.registered_college, ''), a.is_attended, a.registered_at, a.attended_at
  FROM event_attendees a
  LEFT JOIN users u ON u.id = a.user_id
 WHERE a.event_id = $1
 ORDER BY a.registered_at ASC`, eventID)
	if err != nil {
		return nil, fmt.Errorf("load attendees: %w", err)
	}
	defer rows.Close()

	out := make([]events.Attendee, 0)
	for rows.Next() {
		var attendee events.Attendee
		var attendedAt pgtype.Timestamptz
		if err := rows.Scan(
			&attendee.UserID,
			&attendee.Name,
			&attendee.Email,
			&attendee.RegisteredCollege,
			&attendee.IsAttended,
			&attendee.RegisteredAt,
			&attendedAt,
		); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		if attendedAt.Valid {
			value := attendedAt.Time
			attendee.AttendedAt = &value
		}
		out = append(out, attendee)
	}
	return out, rows.Err()
}

func scanEvent(row pgx.Row) (*events.Event, error) {
	var event events.Event
	var questionText, questionAnswer string
	var questionOptions []string

	if err := row.Scan(
		&event.ID,
		&event.ULID,
		&event.Title,
		&event.Description,
		&event.Category,
		&event.Date,
		&event.Time,
		&event.Venue,
		&event.Status,
		&event.CreatedBy,
		&event.CreatorName,
		&event.PosterURL,
		&event.QRCodeID,
		&questionText,
		&questionOptions,
		&questionAnswer,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if questionText != "" {
		event.Question = &events.Question{
			Text:    questionText,
			Options: questionOptions,
			Answer:  questionAnswer,
		}
	}
	return &event, nil
}
