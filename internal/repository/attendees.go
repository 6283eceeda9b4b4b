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

// AttendeeRepository handles persistence for event registrations.
type AttendeeRepository struct {
	db *pgxpool.Pool
}

// NewAttendeeRepository constructs an AttendeeRepository.
func NewAttendeeRepository(db *pgxpool.Pool) *AttendeeRepository {
	return &AttendeeRepository{db: db}
}

// Register creates exactly one attendee record for (student, event). The
// unique constraint on (event_id, student_id) is the source of truth for
// duplicates: a unique violation comes back as ErrAlreadyRegistered, a
// foreign-key violation (missing event or student) as ErrNotFound.
func (r *AttendeeRepository) Register(ctx context.Context, studentID, eventID string) (*model.Attendee, error) {
	attendee := &model.Attendee{
		ID:           uuid.New().String(),
		EventID:      eventID,
		StudentID:    studentID,
		RegisteredAt: time.Now().UTC(),
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO attendees (id, event_id, student_id, registered_at)
		 VALUES ($1, $2, $3, $4)`,
		attendee.ID, attendee.EventID, attendee.StudentID, attendee.RegisteredAt,
	)
	if err != nil {
		if pgErrCode(err) == pgUniqueViolation {
			return nil, ErrAlreadyRegistered
		}
		if terr := translate(err); errors.Is(terr, ErrNotFound) || errors.Is(terr, ErrTransient) {
			return nil, terr
		}
		return nil, fmt.Errorf("insert attendee: %w", err)
	}
	return attendee, nil
}

// ListByEvent returns the registration roster for an event, oldest first.
func (r *AttendeeRepository) ListByEvent(ctx context.Context, eventID string) ([]model.Attendee, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, event_id, student_id, registered_at
		 FROM attendees
		 WHERE event_id = $1
		 ORDER BY registered_at ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()

	var attendees []model.Attendee
	for rows.Next() {
		var a model.Attendee
		if err := rows.Scan(&a.ID, &a.EventID, &a.StudentID, &a.RegisteredAt); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		attendees = append(attendees, a)
	}
	return attendees, rows.Err()
}
