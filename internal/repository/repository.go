// Package repository implements all database queries for the event
// management system. It uses pgx directly (no ORM) for transparency and
// performance. Raw store errors never leave this package: they are
// translated into the sentinel errors below, and everything else is wrapped
// with context.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrNotPending is returned when a decision is attempted on a booking that
// has already reached a terminal state.
var ErrNotPending = errors.New("booking already decided")

// ErrAlreadyRegistered is returned when the same student registers twice for
// an event. The (event, student) uniqueness constraint in the store is the
// source of truth.
var ErrAlreadyRegistered = errors.New("student already registered for this event")

// ErrEmailTaken is returned when a signup reuses an existing email.
var ErrEmailTaken = errors.New("email already in use")

// ErrEventBooked is returned when an event already carries a live (Pending or
// Approved) booking. A rejected booking frees the event for a new request.
var ErrEventBooked = errors.New("event already has a booking")

// ErrTransient is returned on lock timeouts, deadlocks, and serialization
// failures. It is the only condition a caller may retry.
var ErrTransient = errors.New("transient store failure, retry the operation")

// PostgreSQL SQLSTATE codes this package cares about.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// pgErrCode extracts the SQLSTATE code from a pgx error, or "".
func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// translate maps low-level pgx errors onto the package sentinels. Errors it
// does not recognise are returned unchanged for the caller to wrap.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	switch pgErrCode(err) {
	case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
		return ErrTransient
	case pgForeignKeyViolation:
		return ErrNotFound
	}
	return err
}
