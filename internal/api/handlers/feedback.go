package handlers

import (
	"net/http"
	"time"

	"github.com/campus-events/server/internal/api/middleware"
	"github.com/campus-events/server/internal/api/problem"
	"github.com/campus-events/server/internal/auth"
	"github.com/campus-events/server/internal/domain/feedback"
	"github.com/campus-events/server/internal/domain/ids"
)

type FeedbackHandler struct {
	Feedback *feedback.Service
	Env      string
}

func NewFeedbackHandler(service *feedback.Service, env string) *FeedbackHandler {
	return &FeedbackHandler{Feedback: service, Env: env}
}

type feedbackRequest struct {
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

type feedbackResponse struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

func toFeedbackResponse(item *feedback.Feedback) feedbackResponse {
	return feedbackResponse{
		ID:        item.ID,
		EventID:   item.EventID,
		UserID:    item.UserID,
		UserName:  item.UserName,
		Comment:   item.Comment,
		Rating:    item.Rating,
		CreatedAt: item.CreatedAt,
	}
}

func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", auth.ErrMissingToken, h.Env)
		return
	}

	eventULID := pathParam(r, "id")
	if err := ids.ValidateULID(eventULID); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	var input feedbackRequest
	if err := decodeJSON(r, &input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	item, err := h.Feedback.Submit(r.Context(), eventULID, claims.Subject, input.Comment, input.Rating)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusCreated, toFeedbackResponse(item))
}

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	eventULID := pathParam(r, "id")
	if err := ids.ValidateULID(eventULID); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	items, err := h.Feedback.ListByEvent(r.Context(), eventULID)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	out := make([]feedbackResponse, 0, len(items))
	for i := range items {
		out = append(out, toFeedbackResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
