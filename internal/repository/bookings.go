package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/evently-app/evently/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingRepository handles persistence for venue bookings, including the
// approval state machine.
type BookingRepository struct {
	db *pgxpool.Pool
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

// overlapPredicate matches any *other* approved booking on the same venue
// whose event window intersects the half-open interval [$2, $3). Touching
// endpoints are not an overlap.
const overlapPredicate = `
	SELECT 1
	FROM bookings ob
	JOIN events oe ON ob.event_id = oe.id
	WHERE ob.venue_id = $1
	  AND ob.status = 'Approved'
	  AND oe.start_time < $3
	  AND $2 < oe.end_time`

// CreatePending inserts a new booking in the Pending state. An event carries
// at most one live booking: the insert is refused with ErrEventBooked while a
// Pending or Approved booking exists for the event. A rejected booking frees
// the event for a new request.
func (r *BookingRepository) CreatePending(ctx context.Context, eventID, venueID, requestedBy string) (*model.Booking, error) {
	booking := &model.Booking{
		ID:          uuid.New().String(),
		EventID:     eventID,
		VenueID:     venueID,
		RequestedBy: requestedBy,
		Status:      model.BookingPending,
		RequestedAt: time.Now().UTC(),
	}

	tag, err := r.db.Exec(ctx,
		`INSERT INTO bookings (id, event_id, venue_id, requested_by, status, request_timestamp)
		 SELECT $1, $2, $3, $4, $5, $6
		 WHERE NOT EXISTS (
		     SELECT 1 FROM bookings lb
		     WHERE lb.event_id = $2 AND lb.status <> 'Rejected'
		 )`,
		booking.ID, booking.EventID, booking.VenueID, booking.RequestedBy, booking.Status, booking.RequestedAt,
	)
	if err != nil {
		if terr := translate(err); errors.Is(terr, ErrNotFound) || errors.Is(terr, ErrTransient) {
			return nil, terr
		}
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrEventBooked
	}
	return booking, nil
}

// IsAvailable reports whether the venue is free for the half-open window
// [start, end), considering only approved bookings.
func (r *BookingRepository) IsAvailable(ctx context.Context, venueID string, start, end time.Time) (bool, error) {
	var venueExists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM venues WHERE id = $1)`, venueID,
	).Scan(&venueExists)
	if err != nil {
		return false, fmt.Errorf("check venue: %w", err)
	}
	if !venueExists {
		return false, ErrNotFound
	}

	var busy bool
	err = r.db.QueryRow(ctx,
		`SELECT EXISTS (`+overlapPredicate+`)`,
		venueID, start, end,
	).Scan(&busy)
	if err != nil {
		return false, fmt.Errorf("check availability: %w", err)
	}
	return !busy, nil
}

// ListPending returns the admin review queue, oldest request first. Each row
// carries an availability flag computed against currently approved bookings
// so admins can see conflicts before deciding.
func (r *BookingRepository) ListPending(ctx context.Context) ([]model.PendingBooking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT
		     b.id,
		     e.name, e.start_time, e.end_time,
		     v.name, v.capacity,
		     c.name,
		     u.first_name || ' ' || u.last_name,
		     b.request_timestamp,
		     NOT EXISTS (
		         SELECT 1
		         FROM bookings ob
		         JOIN events oe ON ob.event_id = oe.id
		         WHERE ob.venue_id = b.venue_id
		           AND ob.status = 'Approved'
		           AND oe.start_time < e.end_time
		           AND e.start_time < oe.end_time
		     )
		 FROM bookings b
		 JOIN events e ON b.event_id = e.id
		 JOIN venues v ON b.venue_id = v.id
		 JOIN clubs c ON e.club_id = c.id
		 JOIN users u ON b.requested_by = u.id
		 WHERE b.status = 'Pending'
		 ORDER BY b.request_timestamp ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending bookings: %w", err)
	}
	defer rows.Close()

	var pending []model.PendingBooking
	for rows.Next() {
		var p model.PendingBooking
		if err := rows.Scan(
			&p.BookingID,
			&p.EventName, &p.StartTime, &p.EndTime,
			&p.VenueName, &p.VenueCapacity,
			&p.ClubName,
			&p.RequestedBy,
			&p.RequestedAt,
			&p.IsAvailable,
		); err != nil {
			return nil, fmt.Errorf("scan pending booking: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// Approve drives a Pending booking to a terminal state inside a single
// transaction.
//
// The booking row is locked with SELECT ... FOR UPDATE so concurrent
// decisions on the same booking serialise: the loser re-reads a terminal
// status and reports ErrNotPending instead of double-deciding. The venue row
// is then locked the same way so two approvals for overlapping windows on
// the same venue cannot both observe "available" — whichever commits first
// wins, the other sees its approved row and auto-rejects.
//
// Status write and audit entry commit together; if either fails the whole
// transaction rolls back and the booking stays Pending.
func (r *BookingRepository) Approve(ctx context.Context, bookingID, actorID string) (*model.Decision, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var (
		status         model.BookingStatus
		venueID, venue string
		eventName      string
		start, end     time.Time
	)
	err = tx.QueryRow(ctx,
		`SELECT b.status, b.venue_id, v.name, e.name, e.start_time, e.end_time
		 FROM bookings b
		 JOIN events e ON b.event_id = e.id
		 JOIN venues v ON b.venue_id = v.id
		 WHERE b.id = $1
		 FOR UPDATE OF b`,
		bookingID,
	).Scan(&status, &venueID, &venue, &eventName, &start, &end)
	if err != nil {
		if terr := translate(err); errors.Is(terr, ErrNotFound) || errors.Is(terr, ErrTransient) {
			return nil, terr
		}
		return nil, fmt.Errorf("lock booking row: %w", err)
	}
	if status.Terminal() {
		return nil, ErrNotPending
	}

	// Serialise per-venue decisions: holding the venue row lock keeps a
	// concurrent approval for the same venue from running its overlap check
	// until this transaction commits or rolls back.
	var lockedVenue string
	err = tx.QueryRow(ctx,
		`SELECT id FROM venues WHERE id = $1 FOR UPDATE`, venueID,
	).Scan(&lockedVenue)
	if err != nil {
		if terr := translate(err); errors.Is(terr, ErrNotFound) || errors.Is(terr, ErrTransient) {
			return nil, terr
		}
		return nil, fmt.Errorf("lock venue row: %w", err)
	}

	var conflict bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (`+overlapPredicate+` AND ob.id <> $4)`,
		venueID, start, end, bookingID,
	).Scan(&conflict)
	if err != nil {
		return nil, fmt.Errorf("re-check availability: %w", err)
	}

	decision := &model.Decision{BookingID: bookingID}
	if conflict {
		decision.Status = model.BookingRejected
		decision.Message = fmt.Sprintf("Booking rejected: %s is already booked for an overlapping time", venue)
	} else {
		decision.Status = model.BookingApproved
		decision.Message = fmt.Sprintf("Booking approved for %s at %s", eventName, venue)
	}

	if err = r.decide(ctx, tx, bookingID, actorID, "booking.approve", decision); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		if terr := translate(err); errors.Is(terr, ErrTransient) {
			return nil, terr
		}
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return decision, nil
}

// Reject manually rejects a Pending booking. Bookings already decided are
// left untouched and reported as ErrNotPending.
func (r *BookingRepository) Reject(ctx context.Context, bookingID, actorID string) (*model.Decision, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var status model.BookingStatus
	err = tx.QueryRow(ctx,
		`SELECT status FROM bookings WHERE id = $1 FOR UPDATE`, bookingID,
	).Scan(&status)
	if err != nil {
		if terr := translate(err); errors.Is(terr, ErrNotFound) || errors.Is(terr, ErrTransient) {
			return nil, terr
		}
		return nil, fmt.Errorf("lock booking row: %w", err)
	}
	if status.Terminal() {
		return nil, ErrNotPending
	}

	decision := &model.Decision{
		BookingID: bookingID,
		Status:    model.BookingRejected,
		Message:   "Booking rejected manually",
	}
	if err = r.decide(ctx, tx, bookingID, actorID, "booking.reject", decision); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		if terr := translate(err); errors.Is(terr, ErrTransient) {
			return nil, terr
		}
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return decision, nil
}

// decide writes the terminal status and its audit entry within the caller's
// transaction. An audit failure aborts the status change entirely.
func (r *BookingRepository) decide(ctx context.Context, tx pgx.Tx, bookingID, actorID, action string, d *model.Decision) error {
	tag, err := tx.Exec(ctx,
		`UPDATE bookings
		 SET status = $2, decided_at = now(), decided_by = $3
		 WHERE id = $1 AND status = 'Pending'`,
		bookingID, d.Status, actorID,
	)
	if err != nil {
		// The one-approved-per-event index trips when a second live booking
		// for the same event slipped past CreatePending and is approved on a
		// venue not covered by the overlap re-check.
		if pgErrCode(err) == pgUniqueViolation {
			return ErrEventBooked
		}
		return fmt.Errorf("update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotPending
	}
	if err := insertAudit(ctx, tx, actorID, action, "booking:"+bookingID, d.Message); err != nil {
		return err
	}
	return nil
}
