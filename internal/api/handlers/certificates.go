package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/campus-events/server/internal/api/middleware"
	"github.com/campus-events/server/internal/api/problem"
	"github.com/campus-events/server/internal/audit"
	"github.com/campus-events/server/internal/auth"
	"github.com/campus-events/server/internal/certificates"
	"github.com/campus-events/server/internal/domain/events"
	"github.com/campus-events/server/internal/domain/ids"
)

type CertificatesHandler struct {
	Events    *events.Service
	Generator *certificates.Generator
	Audit     *audit.Logger
	Env       string
}

func NewCertificatesHandler(eventsService *events.Service, generator *certificates.Generator, auditLogger *audit.Logger, env string) *CertificatesHandler {
	return &CertificatesHandler{Events: eventsService, Generator: generator, Audit: auditLogger, Env: env}
}

type certificatesResponse struct {
	Event     string   `json:"event"`
	Generated int      `json:"generated"`
	Files     []string `json:"files"`
}

// Generate renders one participation certificate per attended registrant.
// Registrants who never checked in are skipped, not failed.
func (h *CertificatesHandler) Generate(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", auth.ErrMissingToken, h.Env)
		return
	}

	ulidValue := pathParam(r, "id")
	if err := ids.ValidateULID(ulidValue); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	event, err := h.Events.Roster(r.Context(), ulidValue)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	if !auth.IsAdmin(claims.Role) && event.CreatedBy != claims.Subject {
		problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Forbidden", nil, h.Env,
			problem.WithDetail("only the creating club or an admin may issue certificates"))
		return
	}

	issuedAt := time.Now()
	files := make([]string, 0, len(event.Attendees))
	for _, attendee := range event.Attendees {
		if !attendee.IsAttended {
			continue
		}
		path, err := h.Generator.RenderFile(certificates.Data{
			RecipientName: attendee.Name,
			EventTitle:    event.Title,
			EventDate:     event.Date,
			ClubName:      event.CreatorName,
			IssuedAt:      issuedAt,
		})
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).
				Str("event", event.ULID).
				Str("student", attendee.UserID).
				Msg("certificate generation failed")
			h.Audit.LogFailure("certificate.batch_issued", claims.Subject, "event", event.ULID, map[string]string{
				"student_id": attendee.UserID,
				"error":      err.Error(),
			})
			problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
			return
		}
		files = append(files, path)
	}

	h.Audit.LogSuccess("certificate.batch_issued", claims.Subject, "event", event.ULID, map[string]string{
		"count": strconv.Itoa(len(files)),
	})

	writeJSON(w, http.StatusOK, certificatesResponse{
		Event:     event.Title,
		Generated: len(files),
		Files:     files,
	})
}
