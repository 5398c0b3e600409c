package events

import "time"

// PublicEvent is the serialization of an event for unauthenticated and
// student-facing reads. It carries the question text and options so a
// check-in form can render, but never the correct answer, and never the
// attendee list.
type PublicEvent struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	Venue       string          `json:"venue"`
	Status      string          `json:"status"`
	CreatorName string          `json:"createdBy,omitempty"`
	PosterURL   string          `json:"posterUrl,omitempty"`
	Question    *PublicQuestion `json:"attendanceQuestion,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type PublicQuestion struct {
	Text    string   `json:"question"`
	Options []string `json:"options"`
}

// OwnerEvent is the serialization for the creating club and admins. It adds
// the QR token and attendee records; the challenge answer still stays
// server-side.
type OwnerEvent struct {
	PublicEvent
	QRCodeID  string           `json:"qrCodeId"`
	Attendees []PublicAttendee `json:"attendees"`
}

type PublicAttendee struct {
	UserID            string     `json:"userId"`
	Name              string     `json:"name,omitempty"`
	Email             string     `json:"email,omitempty"`
	RegisteredCollege string     `json:"registeredCollege,omitempty"`
	IsAttended        bool       `json:"isAttended"`
	RegisteredAt      time.Time  `json:"registeredAt"`
	AttendedAt        *time.Time `json:"attendedAt,omitempty"`
}

func (e *Event) Public() PublicEvent {
	out := PublicEvent{
		ID:          e.ULID,
		Title:       e.Title,
		Description: e.Description,
		Category:    e.Category,
		Date:        e.Date,
		Time:        e.Time,
		Venue:       e.Venue,
		Status:      e.Status,
		CreatorName: e.CreatorName,
		PosterURL:   e.PosterURL,
		CreatedAt:   e.CreatedAt,
	}
	if e.Question != nil {
		out.Question = &PublicQuestion{
			Text:    e.Question.Text,
			Options: append([]string(nil), e.Question.Options...),
		}
	}
	return out
}

func (e *Event) Owner() OwnerEvent {
	out := OwnerEvent{
		PublicEvent: e.Public(),
		QRCodeID:    e.QRCodeID,
		Attendees:   make([]PublicAttendee, 0, len(e.Attendees)),
	}
	for _, attendee := range e.Attendees {
		out.Attendees = append(out.Attendees, PublicAttendee{
			UserID:            attendee.UserID,
			Name:              attendee.Name,
			Email:             attendee.Email,
			RegisteredCollege: attendee.RegisteredCollege,
			IsAttended:        attendee.IsAttended,
			RegisteredAt:      attendee.RegisteredAt,
			AttendedAt:        attendee.AttendedAt,
		})
	}
	return out
}

func PublicEvents(items []Event) []PublicEvent {
	out := make([]PublicEvent, 0, len(items))
	for i := range items {
		out = append(out, items[i].Public())
	}
	return out
}
