package repository

import (
	"context"
	"testing"

	"github.com/evently-app/evently/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterExactlyOnce(t *testing.T) {
	pool := testPool(t)
	repo := NewAttendeeRepository(pool)

	studentID := seedUser(t, pool, model.RoleStudent, "s@campus.edu")
	clubID := seedClub(t, pool, "Robotics")
	eventID := seedEvent(t, pool, clubID, "Hackathon", hour(10), hour(12))

	attendee, err := repo.Register(context.Background(), studentID, eventID)
	require.NoError(t, err)
	assert.Equal(t, studentID, attendee.StudentID)

	_, err = repo.Register(context.Background(), studentID, eventID)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	_, err = repo.Register(context.Background(), studentID, uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Register(context.Background(), uuid.New().String(), eventID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRosterOrder(t *testing.T) {
	pool := testPool(t)
	repo := NewAttendeeRepository(pool)

	clubID := seedClub(t, pool, "Robotics")
	eventID := seedEvent(t, pool, clubID, "Hackathon", hour(10), hour(12))
	first := seedUser(t, pool, model.RoleStudent, "first@campus.edu")
	second := seedUser(t, pool, model.RoleStudent, "second@campus.edu")

	_, err := repo.Register(context.Background(), first, eventID)
	require.NoError(t, err)
	_, err = repo.Register(context.Background(), second, eventID)
	require.NoError(t, err)

	roster, err := repo.ListByEvent(context.Background(), eventID)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, first, roster[0].StudentID)
	assert.Equal(t, second, roster[1].StudentID)
}
