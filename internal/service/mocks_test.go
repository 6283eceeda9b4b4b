package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/evently-app/evently/internal/model"
	"github.com/evently-app/evently/internal/repository"
	"github.com/google/uuid"
)

// fakeDB is the in-memory state shared by the fake stores below. A single
// mutex serialises booking decisions the way row locks do in the real store.
type fakeDB struct {
	mu        sync.Mutex
	users     map[string]*model.Account // by id
	byEmail   map[string]*model.Account
	venues    map[string]*model.Venue
	events    map[string]*model.Event
	bookings  map[string]*model.Booking
	attendees map[string]*model.Attendee // eventID + "/" + studentID
	audit     []model.AuditLogEntry
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:     make(map[string]*model.Account),
		byEmail:   make(map[string]*model.Account),
		venues:    make(map[string]*model.Venue),
		events:    make(map[string]*model.Event),
		bookings:  make(map[string]*model.Booking),
		attendees: make(map[string]*model.Attendee),
	}
}

// ─── seeding helpers ─────────────────────────────────────────────────────────

func (db *fakeDB) addUser(role model.Role, email, passwordHash string, clubID *string) *model.Account {
	a := &model.Account{
		User: model.User{
			ID:        uuid.New().String(),
			FirstName: "Test",
			LastName:  string(role),
			Email:     email,
			Role:      role,
			CreatedAt: time.Now().UTC(),
		},
		PasswordHash: passwordHash,
		ClubID:       clubID,
	}
	db.users[a.ID] = a
	db.byEmail[a.Email] = a
	return a
}

func (db *fakeDB) addVenue(name string, capacity int) *model.Venue {
	v := &model.Venue{ID: uuid.New().String(), Name: name, Capacity: capacity}
	db.venues[v.ID] = v
	return v
}

func (db *fakeDB) addEvent(clubID, name string, start, end time.Time) *model.Event {
	e := &model.Event{
		ID:        uuid.New().String(),
		ClubID:    clubID,
		Name:      name,
		StartTime: start,
		EndTime:   end,
		CreatedAt: time.Now().UTC(),
	}
	db.events[e.ID] = e
	return e
}

func (db *fakeDB) addPendingBooking(eventID, venueID, requestedBy string) *model.Booking {
	b := &model.Booking{
		ID:          uuid.New().String(),
		EventID:     eventID,
		VenueID:     venueID,
		RequestedBy: requestedBy,
		Status:      model.BookingPending,
		RequestedAt: time.Now().UTC(),
	}
	db.bookings[b.ID] = b
	return b
}

// venueBusy reports an overlap with any approved booking on the venue,
// excluding excludeBookingID. Callers hold db.mu.
func (db *fakeDB) venueBusy(venueID string, start, end time.Time, excludeBookingID string) bool {
	for _, b := range db.bookings {
		if b.ID == excludeBookingID || b.VenueID != venueID || b.Status != model.BookingApproved {
			continue
		}
		e := db.events[b.EventID]
		if e != nil && model.Overlaps(start, end, e.StartTime, e.EndTime) {
			return true
		}
	}
	return false
}

func (db *fakeDB) appendAudit(actorID, action, target, outcome string) {
	db.audit = append(db.audit, model.AuditLogEntry{
		ID:        uuid.New().String(),
		ActorID:   actorID,
		Action:    action,
		Target:    target,
		Outcome:   outcome,
		Timestamp: time.Now().UTC(),
	})
}

// ─── UserStore ───────────────────────────────────────────────────────────────

type fakeUsers struct{ db *fakeDB }

func (f *fakeUsers) CreateStudent(_ context.Context, req model.SignupRequest, passwordHash string) (*model.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.byEmail[req.Email]; ok {
		return nil, repository.ErrEmailTaken
	}
	a := f.db.addUser(model.RoleStudent, req.Email, passwordHash, nil)
	a.FirstName = req.FirstName
	a.LastName = req.LastName
	return &a.User, nil
}

func (f *fakeUsers) GetAccountByEmail(_ context.Context, email string) (*model.Account, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	a, ok := f.db.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	a, ok := f.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a.User, nil
}

// ─── VenueStore ──────────────────────────────────────────────────────────────

type fakeVenues struct{ db *fakeDB }

func (f *fakeVenues) List(_ context.Context) ([]model.Venue, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []model.Venue
	for _, v := range f.db.venues {
		out = append(out, *v)
	}
	return out, nil
}

func (f *fakeVenues) GetByID(_ context.Context, id string) (*model.Venue, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	v, ok := f.db.venues[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return v, nil
}

// ─── EventStore ──────────────────────────────────────────────────────────────

type fakeEvents struct{ db *fakeDB }

func (f *fakeEvents) Create(_ context.Context, clubID string, req model.CreateEventRequest) (*model.Event, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	e := f.db.addEvent(clubID, req.Name, req.StartTime, req.EndTime)
	e.Description = req.Description
	return e, nil
}

func (f *fakeEvents) GetByID(_ context.Context, id string) (*model.Event, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	e, ok := f.db.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return e, nil
}

func (f *fakeEvents) ListByClub(_ context.Context, clubID string) ([]model.ClubEvent, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []model.ClubEvent
	for _, e := range f.db.events {
		if e.ClubID == clubID {
			out = append(out, model.ClubEvent{Event: *e})
		}
	}
	return out, nil
}

func (f *fakeEvents) ListUnbooked(_ context.Context, clubID string) ([]model.Event, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []model.Event
	for _, e := range f.db.events {
		if e.ClubID != clubID {
			continue
		}
		live := false
		for _, b := range f.db.bookings {
			if b.EventID == e.ID && b.Status != model.BookingRejected {
				live = true
			}
		}
		if !live {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEvents) ListUpcoming(_ context.Context, after time.Time) ([]model.UpcomingEvent, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []model.UpcomingEvent
	for _, b := range f.db.bookings {
		if b.Status != model.BookingApproved {
			continue
		}
		e := f.db.events[b.EventID]
		if e != nil && e.StartTime.After(after) {
			out = append(out, model.UpcomingEvent{Event: *e, VenueName: f.db.venues[b.VenueID].Name})
		}
	}
	return out, nil
}

// ─── BookingStore ────────────────────────────────────────────────────────────

type fakeBookings struct{ db *fakeDB }

func (f *fakeBookings) CreatePending(_ context.Context, eventID, venueID, requestedBy string) (*model.Booking, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.events[eventID]; !ok {
		return nil, repository.ErrNotFound
	}
	if _, ok := f.db.venues[venueID]; !ok {
		return nil, repository.ErrNotFound
	}
	for _, b := range f.db.bookings {
		if b.EventID == eventID && b.Status != model.BookingRejected {
			return nil, repository.ErrEventBooked
		}
	}
	return f.db.addPendingBooking(eventID, venueID, requestedBy), nil
}

func (f *fakeBookings) IsAvailable(_ context.Context, venueID string, start, end time.Time) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.venues[venueID]; !ok {
		return false, repository.ErrNotFound
	}
	return !f.db.venueBusy(venueID, start, end, ""), nil
}

func (f *fakeBookings) ListPending(_ context.Context) ([]model.PendingBooking, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []model.PendingBooking
	for _, b := range f.db.bookings {
		if b.Status != model.BookingPending {
			continue
		}
		e := f.db.events[b.EventID]
		v := f.db.venues[b.VenueID]
		out = append(out, model.PendingBooking{
			BookingID:     b.ID,
			EventName:     e.Name,
			StartTime:     e.StartTime,
			EndTime:       e.EndTime,
			VenueName:     v.Name,
			VenueCapacity: v.Capacity,
			RequestedAt:   b.RequestedAt,
			IsAvailable:   !f.db.venueBusy(b.VenueID, e.StartTime, e.EndTime, b.ID),
		})
	}
	return out, nil
}

func (f *fakeBookings) Approve(_ context.Context, bookingID, actorID string) (*model.Decision, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	b, ok := f.db.bookings[bookingID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if b.Status.Terminal() {
		return nil, repository.ErrNotPending
	}
	for _, other := range f.db.bookings {
		if other.ID != b.ID && other.EventID == b.EventID && other.Status == model.BookingApproved {
			return nil, repository.ErrEventBooked
		}
	}
	e := f.db.events[b.EventID]

	d := &model.Decision{BookingID: bookingID}
	if f.db.venueBusy(b.VenueID, e.StartTime, e.EndTime, b.ID) {
		d.Status = model.BookingRejected
		d.Message = fmt.Sprintf("venue %s is already booked for an overlapping time", f.db.venues[b.VenueID].Name)
	} else {
		d.Status = model.BookingApproved
		d.Message = "booking approved"
	}
	b.Status = d.Status
	f.db.appendAudit(actorID, "booking.approve", "booking:"+bookingID, d.Message)
	return d, nil
}

func (f *fakeBookings) Reject(_ context.Context, bookingID, actorID string) (*model.Decision, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	b, ok := f.db.bookings[bookingID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if b.Status.Terminal() {
		return nil, repository.ErrNotPending
	}
	b.Status = model.BookingRejected
	d := &model.Decision{BookingID: bookingID, Status: model.BookingRejected, Message: "booking rejected"}
	f.db.appendAudit(actorID, "booking.reject", "booking:"+bookingID, d.Message)
	return d, nil
}

// ─── AttendeeStore ───────────────────────────────────────────────────────────

type fakeAttendees struct{ db *fakeDB }

func (f *fakeAttendees) Register(_ context.Context, studentID, eventID string) (*model.Attendee, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.events[eventID]; !ok {
		return nil, repository.ErrNotFound
	}
	key := eventID + "/" + studentID
	if _, ok := f.db.attendees[key]; ok {
		return nil, repository.ErrAlreadyRegistered
	}
	a := &model.Attendee{
		ID:           uuid.New().String(),
		EventID:      eventID,
		StudentID:    studentID,
		RegisteredAt: time.Now().UTC(),
	}
	f.db.attendees[key] = a
	return a, nil
}

func (f *fakeAttendees) ListByEvent(_ context.Context, eventID string) ([]model.Attendee, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []model.Attendee
	for _, a := range f.db.attendees {
		if a.EventID == eventID {
			out = append(out, *a)
		}
	}
	return out, nil
}

// ─── AuditStore ──────────────────────────────────────────────────────────────

type fakeAudit struct{ db *fakeDB }

func (f *fakeAudit) ListRecent(_ context.Context, limit int) ([]model.AuditLogEntry, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if limit <= 0 || limit > len(f.db.audit) {
		limit = len(f.db.audit)
	}
	out := make([]model.AuditLogEntry, 0, limit)
	for i := len(f.db.audit) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.db.audit[i])
	}
	return out, nil
}
