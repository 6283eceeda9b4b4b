package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/evently-app/evently/internal/model"
	"github.com/evently-app/evently/internal/service"
	"github.com/go-chi/chi/v5"
)

// AdminHandler holds the admin-facing HTTP handlers: login, the booking
// review queue, approval decisions, availability checks, and the audit log.
type AdminHandler struct {
	auth     *service.AuthService
	bookings *service.BookingService
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(auth *service.AuthService, bookings *service.BookingService) *AdminHandler {
	return &AdminHandler{auth: auth, bookings: bookings}
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	login(w, r, h.auth, model.RoleAdmin)
}

// PendingBookings handles GET /admin/bookings/pending
// Returns the review queue, oldest request first, each row carrying an
// availability flag.
func (h *AdminHandler) PendingBookings(w http.ResponseWriter, r *http.Request) {
	pending, err := h.bookings.Pending(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if pending == nil {
		pending = []model.PendingBooking{}
	}
	writeJSON(w, http.StatusOK, pending)
}

// ApproveBooking handles POST /admin/bookings/{id}/approve
// A conflict found during the re-check auto-rejects the booking; the
// response then carries status Rejected with the conflict message.
func (h *AdminHandler) ApproveBooking(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing token")
		return
	}

	decision, err := h.bookings.Approve(r.Context(), chi.URLParam(r, "id"), claims.Subject)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, decision)
}

// RejectBooking handles POST /admin/bookings/{id}/reject
func (h *AdminHandler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing token")
		return
	}

	decision, err := h.bookings.Reject(r.Context(), chi.URLParam(r, "id"), claims.Subject)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, decision)
}

// CheckAvailability handles GET /admin/venues/{id}/availability?start=&end=
// Times are RFC 3339.
func (h *AdminHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	venueID := chi.URLParam(r, "id")

	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "start must be an RFC 3339 timestamp")
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "end must be an RFC 3339 timestamp")
		return
	}

	available, err := h.bookings.CheckAvailability(r.Context(), venueID, start, end)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.AvailabilityResponse{
		VenueID:   venueID,
		StartTime: start,
		EndTime:   end,
		Available: available,
	})
}

// AuditLog handles GET /admin/audit-log?limit=
// Returns recent audit entries, most recent first. Defaults to 50 entries.
func (h *AdminHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	entries, err := h.bookings.AuditLog(r.Context(), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if entries == nil {
		entries = []model.AuditLogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
