package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/evently-app/evently/internal/model"
	"github.com/evently-app/evently/internal/repository"
	"github.com/rs/zerolog"
)

// ErrNotClubMember is returned when a booking request comes from a user who
// is not a club member.
var ErrNotClubMember = errors.New("requesting user is not a club member")

// BookingService drives the venue-booking lifecycle: club members request
// bookings, admins review the pending queue and decide each booking exactly
// once. The transactional state machine itself lives in the booking store;
// this layer does the role checks, input validation, and logging around it.
type BookingService struct {
	bookings BookingStore
	users    UserStore
	audit    AuditStore
	log      zerolog.Logger
}

// NewBookingService constructs a BookingService.
func NewBookingService(bookings BookingStore, users UserStore, audit AuditStore, log zerolog.Logger) *BookingService {
	return &BookingService{bookings: bookings, users: users, audit: audit, log: log}
}

// Request creates a Pending booking on behalf of a club member.
func (s *BookingService) Request(ctx context.Context, eventID, venueID, requestedBy string) (*model.Booking, error) {
	user, err := s.users.GetByID(ctx, requestedBy)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("look up requester: %w", err)
	}
	if user.Role != model.RoleClubMember {
		return nil, ErrNotClubMember
	}

	booking, err := s.bookings.CreatePending(ctx, eventID, venueID, requestedBy)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrEventBooked) ||
			errors.Is(err, repository.ErrTransient) {
			return nil, err
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info().
		Str("booking_id", booking.ID).
		Str("event_id", eventID).
		Str("venue_id", venueID).
		Msg("booking requested")
	return booking, nil
}

// Pending returns the review queue, oldest request first.
func (s *BookingService) Pending(ctx context.Context) ([]model.PendingBooking, error) {
	return s.bookings.ListPending(ctx)
}

// Approve decides a pending booking. A venue conflict found during the
// re-check is not an error: the booking comes back Rejected with a message
// noting the conflict.
func (s *BookingService) Approve(ctx context.Context, bookingID, actorID string) (*model.Decision, error) {
	decision, err := s.bookings.Approve(ctx, bookingID, actorID)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("booking_id", bookingID).
		Str("actor_id", actorID).
		Str("status", string(decision.Status)).
		Msg("booking decided")
	return decision, nil
}

// Reject manually rejects a pending booking.
func (s *BookingService) Reject(ctx context.Context, bookingID, actorID string) (*model.Decision, error) {
	decision, err := s.bookings.Reject(ctx, bookingID, actorID)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("booking_id", bookingID).
		Str("actor_id", actorID).
		Msg("booking rejected manually")
	return decision, nil
}

// CheckAvailability reports whether a venue is free for [start, end).
func (s *BookingService) CheckAvailability(ctx context.Context, venueID string, start, end time.Time) (bool, error) {
	if !end.After(start) {
		return false, ErrInvalidTimeWindow
	}
	return s.bookings.IsAvailable(ctx, venueID, start, end)
}

// AuditLog returns recent audit entries, most recent first.
func (s *BookingService) AuditLog(ctx context.Context, limit int) ([]model.AuditLogEntry, error) {
	return s.audit.ListRecent(ctx, limit)
}
