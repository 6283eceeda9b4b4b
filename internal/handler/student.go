package handler

import (
	"net/http"

	"github.com/evently-app/evently/internal/model"
	"github.com/evently-app/evently/internal/service"
	"github.com/go-chi/chi/v5"
)

// StudentHandler holds the student-facing HTTP handlers: signup, login,
// event browsing, and registration.
type StudentHandler struct {
	auth          *service.AuthService
	events        *service.EventService
	registrations *service.RegistrationService
}

// NewStudentHandler constructs a StudentHandler.
func NewStudentHandler(auth *service.AuthService, events *service.EventService, registrations *service.RegistrationService) *StudentHandler {
	return &StudentHandler{auth: auth, events: events, registrations: registrations}
}

// Signup handles POST /student/signup
func (h *StudentHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := decodeValid(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	user, err := h.auth.SignupStudent(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "signup successful",
		"user_id": user.ID,
	})
}

// Login handles POST /student/login
func (h *StudentHandler) Login(w http.ResponseWriter, r *http.Request) {
	login(w, r, h.auth, model.RoleStudent)
}

// ListEvents handles GET /student/events
// Returns upcoming events that have an approved venue booking.
func (h *StudentHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.Upcoming(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if events == nil {
		events = []model.UpcomingEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

// Register handles POST /student/events/{id}/register
// The student identity comes from the token, never from the payload.
func (h *StudentHandler) Register(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing token")
		return
	}
	eventID := chi.URLParam(r, "id")

	attendee, err := h.registrations.Register(r.Context(), claims.Subject, eventID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, attendee)
}

// login is the shared login flow for all three roles.
func login(w http.ResponseWriter, r *http.Request, svc *service.AuthService, role model.Role) {
	var req model.LoginRequest
	if err := decodeValid(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	resp, err := svc.Login(r.Context(), req, role)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
