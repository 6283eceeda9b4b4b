package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/evently-app/evently/internal/model"
	"github.com/rs/zerolog"
)

// EventService orchestrates event creation and the various event listings.
type EventService struct {
	events EventStore
	venues VenueStore
	log    zerolog.Logger
}

// NewEventService constructs an EventService with its dependencies.
func NewEventService(events EventStore, venues VenueStore, log zerolog.Logger) *EventService {
	return &EventService{events: events, venues: venues, log: log}
}

// Create validates the request and creates an event for the club.
func (s *EventService) Create(ctx context.Context, clubID string, req model.CreateEventRequest) (*model.Event, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, fmt.Errorf("event name is required")
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeWindow
	}

	event, err := s.events.Create(ctx, clubID, req)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("event_id", event.ID).Str("club_id", clubID).Msg("event created")
	return event, nil
}

// ClubEvents returns all events for a club with booking state and attendee
// counts, newest first.
func (s *EventService) ClubEvents(ctx context.Context, clubID string) ([]model.ClubEvent, error) {
	return s.events.ListByClub(ctx, clubID)
}

// UnbookedEvents returns the club's events still eligible for a venue
// request.
func (s *EventService) UnbookedEvents(ctx context.Context, clubID string) ([]model.Event, error) {
	return s.events.ListUnbooked(ctx, clubID)
}

// Upcoming returns future events with an approved venue booking.
func (s *EventService) Upcoming(ctx context.Context) ([]model.UpcomingEvent, error) {
	return s.events.ListUpcoming(ctx, time.Now().UTC())
}

// Venues returns all venues for the booking form.
func (s *EventService) Venues(ctx context.Context) ([]model.Venue, error) {
	return s.venues.List(ctx)
}
