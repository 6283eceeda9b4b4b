// Package model defines the core domain types for the campus event
// management system.
package model

import "time"

// Role is the role assigned to a user at signup. Roles never change once
// assigned.
type Role string

const (
	RoleStudent    Role = "Student"
	RoleClubMember Role = "Club Member"
	RoleAdmin      Role = "Admin"
)

// BookingStatus is the lifecycle state of a venue booking.
type BookingStatus string

const (
	BookingPending  BookingStatus = "Pending"
	BookingApproved BookingStatus = "Approved"
	BookingRejected BookingStatus = "Rejected"
)

// Terminal reports whether the status can no longer change.
func (s BookingStatus) Terminal() bool {
	return s == BookingApproved || s == BookingRejected
}

// User is an account holder: a student, a club member, or an admin.
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Account is a user together with their resolved club membership, if any.
// Club membership is only meaningful for club members; students and admins
// carry nil club fields.
type Account struct {
	User
	PasswordHash string  `json:"-"`
	ClubID       *string `json:"club_id,omitempty"`
	ClubName     *string `json:"club_name,omitempty"`
}

// Club is a student club that owns events.
type Club struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Venue is a bookable location. Capacity is informational only; it is shown
// to admins but not enforced against attendee counts.
type Venue struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Capacity int    `json:"capacity"`
}

// Event belongs to exactly one club and spans a half-open time window
// [StartTime, EndTime).
type Event struct {
	ID          string    `json:"id"`
	ClubID      string    `json:"club_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	CreatedAt   time.Time `json:"created_at"`
}

// Booking links an event to a venue. It is created Pending and transitions
// exactly once to Approved or Rejected.
type Booking struct {
	ID          string        `json:"id"`
	EventID     string        `json:"event_id"`
	VenueID     string        `json:"venue_id"`
	RequestedBy string        `json:"requested_by"`
	Status      BookingStatus `json:"status"`
	RequestedAt time.Time     `json:"requested_at"`
	DecidedAt   *time.Time    `json:"decided_at,omitempty"`
	DecidedBy   *string       `json:"decided_by,omitempty"`
}

// Decision is the outcome of an approve or reject call. An approve that hits
// a venue conflict comes back as Status Rejected with a message explaining
// the conflict; that is a defined outcome, not an error.
type Decision struct {
	BookingID string        `json:"booking_id"`
	Status    BookingStatus `json:"status"`
	Message   string        `json:"message"`
}

// Attendee is a confirmed registration link between a student and an event.
type Attendee struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	StudentID    string    `json:"student_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// AuditLogEntry is an immutable record of a state-changing admin action.
type AuditLogEntry struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id"`
	ActorName string    `json:"actor_name,omitempty"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Outcome   string    `json:"outcome"`
	Timestamp time.Time `json:"timestamp"`
}

// PendingBooking is one row of the admin review queue, oldest request first.
type PendingBooking struct {
	BookingID     string    `json:"booking_id"`
	EventName     string    `json:"event_name"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	VenueName     string    `json:"venue_name"`
	VenueCapacity int       `json:"venue_capacity"`
	ClubName      string    `json:"club_name"`
	RequestedBy   string    `json:"requested_by"`
	RequestedAt   time.Time `json:"requested_at"`
	IsAvailable   bool      `json:"is_available"`
}

// ClubEvent is one row of a club's event dashboard: the event plus its
// booking state and current attendee count.
type ClubEvent struct {
	Event
	VenueName     *string        `json:"venue_name,omitempty"`
	BookingStatus *BookingStatus `json:"booking_status,omitempty"`
	AttendeeCount int            `json:"attendee_count"`
}

// UpcomingEvent is one row of the student event listing: an upcoming event
// with its approved venue.
type UpcomingEvent struct {
	Event
	ClubName  string `json:"club_name"`
	VenueName string `json:"venue_name"`
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap: a booking
// ending at 11:00 leaves the venue free from 11:00.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ─── Request / response payloads ─────────────────────────────────────────────

// SignupRequest is the payload for creating a new student account.
type SignupRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Phone     string `json:"phone" validate:"omitempty,min=7,max=20"`
}

// LoginRequest is the shared payload for all three login endpoints.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and the resolved identity.
type LoginResponse struct {
	Message  string  `json:"message"`
	Token    string  `json:"token"`
	UserID   string  `json:"user_id"`
	Role     Role    `json:"role"`
	ClubID   *string `json:"club_id,omitempty"`
	ClubName *string `json:"club_name,omitempty"`
}

// CreateEventRequest is the payload for creating a club event.
type CreateEventRequest struct {
	Name        string    `json:"name" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=2000"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
}

// BookingRequest is the payload for requesting a venue booking.
type BookingRequest struct {
	EventID string `json:"event_id" validate:"required,uuid4"`
	VenueID string `json:"venue_id" validate:"required,uuid4"`
}

// AvailabilityResponse is the result of an availability check.
type AvailabilityResponse struct {
	VenueID   string    `json:"venue_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Available bool      `json:"available"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
