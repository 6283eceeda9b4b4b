// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer. Services depend on the
// store interfaces below; the pgx repositories satisfy them in production
// and hand-written fakes stand in for them in tests.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/evently-app/evently/internal/model"
)

// ErrInvalidCredentials is returned when a password does not match.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrWrongRole is returned when a user exists but does not hold the role an
// operation requires.
var ErrWrongRole = errors.New("user does not have the required role")

// ErrNoClubMembership is returned when a club member logs in without being
// assigned to any club.
var ErrNoClubMembership = errors.New("club member is not assigned to any club")

// ErrInvalidTimeWindow is returned for a malformed window (end <= start).
var ErrInvalidTimeWindow = errors.New("end time must be after start time")

// UserStore is the persistence surface for accounts.
type UserStore interface {
	CreateStudent(ctx context.Context, req model.SignupRequest, passwordHash string) (*model.User, error)
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// VenueStore is the persistence surface for venues.
type VenueStore interface {
	List(ctx context.Context) ([]model.Venue, error)
	GetByID(ctx context.Context, id string) (*model.Venue, error)
}

// EventStore is the persistence surface for events.
type EventStore interface {
	Create(ctx context.Context, clubID string, req model.CreateEventRequest) (*model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	ListByClub(ctx context.Context, clubID string) ([]model.ClubEvent, error)
	ListUnbooked(ctx context.Context, clubID string) ([]model.Event, error)
	ListUpcoming(ctx context.Context, after time.Time) ([]model.UpcomingEvent, error)
}

// BookingStore is the persistence surface for the booking state machine.
// Approve and Reject run as single transactions that re-check state under
// row locks and write the audit entry atomically with the status change.
type BookingStore interface {
	CreatePending(ctx context.Context, eventID, venueID, requestedBy string) (*model.Booking, error)
	IsAvailable(ctx context.Context, venueID string, start, end time.Time) (bool, error)
	ListPending(ctx context.Context) ([]model.PendingBooking, error)
	Approve(ctx context.Context, bookingID, actorID string) (*model.Decision, error)
	Reject(ctx context.Context, bookingID, actorID string) (*model.Decision, error)
}

// AttendeeStore is the persistence surface for registrations.
type AttendeeStore interface {
	Register(ctx context.Context, studentID, eventID string) (*model.Attendee, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.Attendee, error)
}

// AuditStore reads the append-only audit log.
type AuditStore interface {
	ListRecent(ctx context.Context, limit int) ([]model.AuditLogEntry, error)
}
