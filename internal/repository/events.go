package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/evently-app/evently/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventRepository handles persistence for club events.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event for a club and returns it with a generated UUID.
func (r *EventRepository) Create(ctx context.Context, clubID string, req model.CreateEventRequest) (*model.Event, error) {
	event := &model.Event{
		ID:          uuid.New().String(),
		ClubID:      clubID,
		Name:        req.Name,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO events (id, club_id, name, description, start_time, end_time, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID, event.ClubID, event.Name, event.Description, event.StartTime, event.EndTime, event.CreatedAt,
	)
	if err != nil {
		if terr := translate(err); errors.Is(terr, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}

// GetByID returns a single event or ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var e model.Event
	err := r.db.QueryRow(ctx,
		`SELECT id, club_id, name, COALESCE(description, ''), start_time, end_time, created_at
		 FROM events WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.ClubID, &e.Name, &e.Description, &e.StartTime, &e.EndTime, &e.CreatedAt)
	if err != nil {
		if terr := translate(err); errors.Is(terr, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

// ListByClub returns all events for a club, newest first, each with its
// booking state and attendee count.
func (r *EventRepository) ListByClub(ctx context.Context, clubID string) ([]model.ClubEvent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT e.id, e.club_id, e.name, COALESCE(e.description, ''),
		        e.start_time, e.end_time, e.created_at,
		        v.name, b.status,
		        (SELECT COUNT(*) FROM attendees a WHERE a.event_id = e.id)
		 FROM events e
		 LEFT JOIN bookings b ON e.id = b.event_id AND b.status <> 'Rejected'
		 LEFT JOIN venues v ON b.venue_id = v.id
		 WHERE e.club_id = $1
		 ORDER BY e.start_time DESC`,
		clubID,
	)
	if err != nil {
		return nil, fmt.Errorf("list club events: %w", err)
	}
	defer rows.Close()

	var events []model.ClubEvent
	for rows.Next() {
		var e model.ClubEvent
		if err := rows.Scan(
			&e.ID, &e.ClubID, &e.Name, &e.Description,
			&e.StartTime, &e.EndTime, &e.CreatedAt,
			&e.VenueName, &e.BookingStatus,
			&e.AttendeeCount,
		); err != nil {
			return nil, fmt.Errorf("scan club event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ListUnbooked returns a club's events that have no booking yet, or whose
// only booking was rejected. These are the events still eligible for a venue
// request.
func (r *EventRepository) ListUnbooked(ctx context.Context, clubID string) ([]model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT e.id, e.club_id, e.name, COALESCE(e.description, ''), e.start_time, e.end_time, e.created_at
		 FROM events e
		 WHERE e.club_id = $1
		   AND NOT EXISTS (
		       SELECT 1 FROM bookings b
		       WHERE b.event_id = e.id AND b.status <> 'Rejected'
		   )
		 ORDER BY e.start_time DESC`,
		clubID,
	)
	if err != nil {
		return nil, fmt.Errorf("list unbooked events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.ClubID, &e.Name, &e.Description, &e.StartTime, &e.EndTime, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ListUpcoming returns events starting after the given time that have an
// approved venue booking, soonest first. This is the student-facing listing.
func (r *EventRepository) ListUpcoming(ctx context.Context, after time.Time) ([]model.UpcomingEvent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT e.id, e.club_id, e.name, COALESCE(e.description, ''),
		        e.start_time, e.end_time, e.created_at,
		        c.name, v.name
		 FROM events e
		 JOIN clubs c ON e.club_id = c.id
		 JOIN bookings b ON e.id = b.event_id AND b.status = 'Approved'
		 JOIN venues v ON b.venue_id = v.id
		 WHERE e.start_time > $1
		 ORDER BY e.start_time ASC`,
		after,
	)
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	defer rows.Close()

	var events []model.UpcomingEvent
	for rows.Next() {
		var e model.UpcomingEvent
		if err := rows.Scan(
			&e.ID, &e.ClubID, &e.Name, &e.Description,
			&e.StartTime, &e.EndTime, &e.CreatedAt,
			&e.ClubName, &e.VenueName,
		); err != nil {
			return nil, fmt.Errorf("scan upcoming event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
