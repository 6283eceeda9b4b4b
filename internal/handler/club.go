package handler

import (
	"net/http"

	"github.com/evently-app/evently/internal/model"
	"github.com/evently-app/evently/internal/service"
	"github.com/go-chi/chi/v5"
)

// ClubHandler holds the club-member-facing HTTP handlers: login, event
// creation, venue booking requests, and club dashboards.
type ClubHandler struct {
	auth          *service.AuthService
	events        *service.EventService
	bookings      *service.BookingService
	registrations *service.RegistrationService
}

// NewClubHandler constructs a ClubHandler.
func NewClubHandler(auth *service.AuthService, events *service.EventService, bookings *service.BookingService, registrations *service.RegistrationService) *ClubHandler {
	return &ClubHandler{auth: auth, events: events, bookings: bookings, registrations: registrations}
}

// Login handles POST /club/login
func (h *ClubHandler) Login(w http.ResponseWriter, r *http.Request) {
	login(w, r, h.auth, model.RoleClubMember)
}

// requireClub resolves the clubID path parameter and checks it against the
// club resolved into the token at login. Members cannot act on another club's
// events.
func requireClub(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing token")
		return "", false
	}
	clubID := chi.URLParam(r, "clubID")
	if claims.ClubID != clubID {
		writeError(w, http.StatusForbidden, "token does not belong to this club")
		return "", false
	}
	return clubID, true
}

// CreateEvent handles POST /club/{clubID}/events
func (h *ClubHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	clubID, ok := requireClub(w, r)
	if !ok {
		return
	}

	var req model.CreateEventRequest
	if err := decodeValid(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	event, err := h.events.Create(r.Context(), clubID, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// ClubEvents handles GET /club/{clubID}/events
func (h *ClubHandler) ClubEvents(w http.ResponseWriter, r *http.Request) {
	clubID, ok := requireClub(w, r)
	if !ok {
		return
	}

	events, err := h.events.ClubEvents(r.Context(), clubID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if events == nil {
		events = []model.ClubEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

// UnbookedEvents handles GET /club/{clubID}/events/unbooked
// Lists events still eligible for a venue request.
func (h *ClubHandler) UnbookedEvents(w http.ResponseWriter, r *http.Request) {
	clubID, ok := requireClub(w, r)
	if !ok {
		return
	}

	events, err := h.events.UnbookedEvents(r.Context(), clubID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// Venues handles GET /club/venues
func (h *ClubHandler) Venues(w http.ResponseWriter, r *http.Request) {
	venues, err := h.events.Venues(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if venues == nil {
		venues = []model.Venue{}
	}
	writeJSON(w, http.StatusOK, venues)
}

// RequestBooking handles POST /club/bookings
// The requester identity comes from the token.
func (h *ClubHandler) RequestBooking(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing token")
		return
	}

	var req model.BookingRequest
	if err := decodeValid(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	booking, err := h.bookings.Request(r.Context(), req.EventID, req.VenueID, claims.Subject)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Booking requested successfully. Awaiting admin approval.",
		"booking": booking,
	})
}

// EventAttendees handles GET /club/events/{id}/attendees
func (h *ClubHandler) EventAttendees(w http.ResponseWriter, r *http.Request) {
	attendees, err := h.registrations.Roster(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if attendees == nil {
		attendees = []model.Attendee{}
	}
	writeJSON(w, http.StatusOK, attendees)
}
