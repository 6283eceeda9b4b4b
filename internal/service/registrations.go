package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/evently-app/evently/internal/model"
	"github.com/evently-app/evently/internal/repository"
	"github.com/rs/zerolog"
)

// RegistrationService handles student registrations for events. Registering
// twice for the same event is a conflict, not a silent no-op; the store's
// (event, student) uniqueness constraint is the source of truth and the
// repository translates its violation into ErrAlreadyRegistered.
type RegistrationService struct {
	attendees AttendeeStore
	users     UserStore
	events    EventStore
	log       zerolog.Logger
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(attendees AttendeeStore, users UserStore, events EventStore, log zerolog.Logger) *RegistrationService {
	return &RegistrationService{attendees: attendees, users: users, events: events, log: log}
}

// Register creates exactly one attendee record for (student, event).
// Venue capacity is not checked here; capacity is display-only.
func (s *RegistrationService) Register(ctx context.Context, studentID, eventID string) (*model.Attendee, error) {
	user, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("look up student: %w", err)
	}
	if user.Role != model.RoleStudent {
		return nil, ErrWrongRole
	}

	attendee, err := s.attendees.Register(ctx, studentID, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyRegistered) ||
			errors.Is(err, repository.ErrNotFound) ||
			errors.Is(err, repository.ErrTransient) {
			return nil, err
		}
		return nil, fmt.Errorf("register for event: %w", err)
	}

	s.log.Info().
		Str("student_id", studentID).
		Str("event_id", eventID).
		Msg("registration created")
	return attendee, nil
}

// Roster returns all registrations for an event, oldest first.
func (s *RegistrationService) Roster(ctx context.Context, eventID string) ([]model.Attendee, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return s.attendees.ListByEvent(ctx, eventID)
}
