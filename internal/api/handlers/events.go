package handlers

import (
	"net/http"
	"strconv"

	"github.com/campus-events/server/internal/api/middleware"
	"github.com/campus-events/server/internal/api/problem"
	"github.com/campus-events/server/internal/auth"
	"github.com/campus-events/server/internal/domain/events"
	"github.com/campus-events/server/internal/domain/ids"
	"github.com/campus-events/server/internal/qrcode"
)

type EventsHandler struct {
	Service *events.Service
	Env     string
	BaseURL string
}

func NewEventsHandler(service *events.Service, env string, baseURL string) *EventsHandler {
	return &EventsHandler{Service: service, Env: env, BaseURL: baseURL}
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, events.PublicEvents(items))
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", auth.ErrMissingToken, h.Env)
		return
	}

	var input events.CreateInput
	if err := decodeJSON(r, &input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	event, err := h.Service.Create(r.Context(), input, claims.Subject)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusCreated, event.Owner())
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ulidValue := pathParam(r, "id")
	if err := ids.ValidateULID(ulidValue); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	event, err := h.Service.Get(r.Context(), ulidValue)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	// Creators and admins see the full record, everyone else the public view.
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		if auth.IsAdmin(claims.Role) || claims.Subject == event.CreatedBy {
			writeJSON(w, http.StatusOK, event.Owner())
			return
		}
	}
	writeJSON(w, http.StatusOK, event.Public())
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *EventsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	actor := ""
	if claims != nil {
		actor = claims.Subject
	}

	ulidValue := pathParam(r, "id")
	if err := ids.ValidateULID(ulidValue); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	var input statusRequest
	if err := decodeJSON(r, &input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	event, err := h.Service.SetStatus(r.Context(), ulidValue, input.Status, actor)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, event.Owner())
}

type registerRequest struct {
	CollegeName string `json:"collegeName"`
}

func (h *EventsHandler) Register(w http.ResponseWriter, r *http.Request) {
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

	var input registerRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &input); err != nil {
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
			return
		}
	}

	event, err := h.Service.Register(r.Context(), ulidValue, claims.Subject, input.CollegeName)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, event.Public())
}

type checkInRequest struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Answer string `json:"answer"`
}

type checkInResponse struct {
	Message string `json:"message"`
	Event   string `json:"event"`
}

// QRAttendance is the public check-in endpoint behind the QR code. Identity
// is proven by registrant name and email, presence by the challenge answer.
func (h *EventsHandler) QRAttendance(w http.ResponseWriter, r *http.Request) {
	qrCodeID := pathParam(r, "id")
	if err := ids.ValidateULID(qrCodeID); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	var input checkInRequest
	if err := decodeJSON(r, &input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	event, err := h.Service.CheckIn(r.Context(), qrCodeID, input.Email, input.Name, input.Answer)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, checkInResponse{Message: "attendance confirmed", Event: event.Title})
}

type attendanceRequest struct {
	StudentID string `json:"studentId"`
}

func (h *EventsHandler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
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

	var input attendanceRequest
	if err := decodeJSON(r, &input); err != nil || input.StudentID == "" {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env,
			problem.WithDetail("studentId is required"))
		return
	}

	if !h.canManage(r, claims, ulidValue) {
		problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Forbidden", nil, h.Env,
			problem.WithDetail("only the creating club or an admin may manage this event"))
		return
	}

	event, err := h.Service.MarkAttendance(r.Context(), ulidValue, input.StudentID, claims.Subject)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, event.Owner())
}

func (h *EventsHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	items, err := h.Service.Search(r.Context(), query.Get("type"), query.Get("keyword"))
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, events.PublicEvents(items))
}

func (h *EventsHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", auth.ErrMissingToken, h.Env)
		return
	}

	items, err := h.Service.Recommend(r.Context(), claims.Subject)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, events.PublicEvents(items))
}

func (h *EventsHandler) Roster(w http.ResponseWriter, r *http.Request) {
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

	if !h.canManage(r, claims, ulidValue) {
		problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Forbidden", nil, h.Env,
			problem.WithDetail("only the creating club or an admin may view the roster"))
		return
	}

	event, err := h.Service.Roster(r.Context(), ulidValue)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, event.Owner().Attendees)
}

// QRCode renders the event's check-in URL as a PNG for printing.
func (h *EventsHandler) QRCode(w http.ResponseWriter, r *http.Request) {
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

	if !h.canManage(r, claims, ulidValue) {
		problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Forbidden", nil, h.Env,
			problem.WithDetail("only the creating club or an admin may fetch the QR code"))
		return
	}

	event, err := h.Service.Get(r.Context(), ulidValue)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	checkInURL, err := ids.BuildCheckInURL(h.BaseURL, event.QRCodeID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		size, _ = strconv.Atoi(raw)
	}

	png, err := qrcode.PNG(checkInURL, size)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// canManage reports whether the caller is an admin or the event's creator.
// Unknown events fall through so the service can answer with not-found.
func (h *EventsHandler) canManage(r *http.Request, claims *auth.Claims, ulidValue string) bool {
	if auth.IsAdmin(claims.Role) {
		return true
	}
	event, err := h.Service.Get(r.Context(), ulidValue)
	if err != nil {
		return true
	}
	return event.CreatedBy == claims.Subject
}
